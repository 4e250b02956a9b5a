package testutil

import (
	"sync"
	"testing"

	"github.com/dalemusser/compass/internal/app/resources"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

var (
	templatesOnce sync.Once
	templatesErr  error
)

// BootTemplates compiles the shared layout and every template set registered
// by the packages linked into the test binary, and installs the engine used
// by templates.Render. It runs once per test binary.
func BootTemplates(t *testing.T) {
	t.Helper()
	templatesOnce.Do(func() {
		resources.LoadSharedTemplates()
		eng := templates.New(false)
		if templatesErr = eng.Boot(zap.NewNop()); templatesErr != nil {
			return
		}
		templates.UseEngine(eng, zap.NewNop())
	})
	if templatesErr != nil {
		t.Fatalf("boot templates: %v", templatesErr)
	}
}

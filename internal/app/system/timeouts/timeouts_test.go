package timeouts_test

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/compass/internal/app/system/timeouts"
	"go.uber.org/zap"
)

func TestConfigure_IgnoresZeroValues(t *testing.T) {
	t.Cleanup(timeouts.Reset)

	timeouts.Configure(timeouts.Config{Medium: 3 * time.Second, Upstream: 45 * time.Second})

	got := timeouts.Current()
	if got.Medium != 3*time.Second {
		t.Errorf("Medium: got %v, want %v", got.Medium, 3*time.Second)
	}
	if got.Upstream != 45*time.Second {
		t.Errorf("Upstream: got %v, want %v", got.Upstream, 45*time.Second)
	}
	if got.Short != timeouts.DefaultShort {
		t.Errorf("Short: got %v, want default %v", got.Short, timeouts.DefaultShort)
	}
	if got.Long != timeouts.DefaultLong {
		t.Errorf("Long: got %v, want default %v", got.Long, timeouts.DefaultLong)
	}
}

func TestReset(t *testing.T) {
	timeouts.Configure(timeouts.Config{Ping: time.Minute})
	timeouts.Reset()
	if timeouts.Ping() != timeouts.DefaultPing {
		t.Errorf("Ping after Reset: got %v, want %v", timeouts.Ping(), timeouts.DefaultPing)
	}
}

func TestWithTimeout_Expires(t *testing.T) {
	ctx, cancel := timeouts.WithTimeout(context.Background(), time.Millisecond, zap.NewNop(), "test")
	defer cancel()

	<-ctx.Done()
	if ctx.Err() != context.DeadlineExceeded {
		t.Errorf("ctx.Err: got %v, want %v", ctx.Err(), context.DeadlineExceeded)
	}
}

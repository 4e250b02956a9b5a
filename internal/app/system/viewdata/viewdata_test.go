package viewdata_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/compass/internal/app/system/auth"
	"github.com/dalemusser/compass/internal/app/system/viewdata"
)

func TestNewBaseVM_Anonymous(t *testing.T) {
	req := httptest.NewRequest("GET", "/directory?q=food", nil)

	vm := viewdata.NewBaseVM(req, "Directory", "/")

	if vm.IsLoggedIn {
		t.Error("anonymous request should not be logged in")
	}
	if vm.Title != "Directory" {
		t.Errorf("Title: got %q, want %q", vm.Title, "Directory")
	}
	if vm.SiteName == "" {
		t.Error("SiteName should default to a non-empty value")
	}
}

func TestNewBaseVM_SignedIn(t *testing.T) {
	req := httptest.NewRequest("GET", "/admin", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "abc", Name: "Dana", Role: "admin"})

	vm := viewdata.NewBaseVM(req, "Admin", "/")

	if !vm.IsLoggedIn {
		t.Error("expected IsLoggedIn")
	}
	if vm.UserName != "Dana" || vm.Role != "admin" {
		t.Errorf("user fields: got (%q, %q)", vm.UserName, vm.Role)
	}
}

func TestSetSiteName(t *testing.T) {
	defer viewdata.SetSiteName(viewdata.DefaultSiteName)

	viewdata.SetSiteName("Test Town Compass")
	if got := viewdata.SiteName(); got != "Test Town Compass" {
		t.Errorf("SiteName: got %q", got)
	}
	viewdata.SetSiteName("")
	if got := viewdata.SiteName(); got != "Test Town Compass" {
		t.Errorf("empty name should be ignored, got %q", got)
	}
}

func TestImageSrc(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"", ""},
		{"https://cdn.example/logo.png", "https://cdn.example/logo.png"},
		{" data:image/png;base64,iVBORw0KGgo= ", "data:image/png;base64,iVBORw0KGgo="},
		{"data:image/svg+xml;base64,PHN2Zz4=", ""},
		{"javascript:alert(1)", ""},
	}

	for _, tt := range tests {
		if got := viewdata.ImageSrc(tt.ref); string(got) != tt.want {
			t.Errorf("ImageSrc(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}

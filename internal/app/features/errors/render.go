// internal/app/features/errors/render.go
package errors

import (
	"net/http"

	"github.com/dalemusser/compass/internal/app/system/auth"
	"github.com/dalemusser/waffle/pantry/httpnav"
)

// RenderUnauthorized shows a friendly "sign in required" page.
// If backURL is empty, it will default to the admin sign-in page.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, backURL string) {
	if backURL == "" {
		backURL = auth.LoginPath
	}
	renderError(w, r, http.StatusUnauthorized, "Sign in required", "Please sign in to continue.", backURL)
}

// RenderForbidden shows a friendly access error page with a message.
// If backURL is empty, it resolves a safe back URL with a default fallback.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if backURL == "" {
		backURL = httpnav.ResolveBackURL(r, "/")
	}
	renderError(w, r, http.StatusForbidden, "Access denied", msg, backURL)
}

// RenderNotFound shows a not-found page with msg.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if backURL == "" {
		backURL = httpnav.ResolveBackURL(r, "/")
	}
	renderError(w, r, http.StatusNotFound, "Not found", msg, backURL)
}

// RenderBadRequest shows a bad-request page with msg.
func RenderBadRequest(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if backURL == "" {
		backURL = httpnav.ResolveBackURL(r, "/")
	}
	renderError(w, r, http.StatusBadRequest, "Bad request", msg, backURL)
}

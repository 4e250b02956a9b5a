// internal/app/features/login/signup.go
package login

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/compass/internal/app/store/users"
	"github.com/dalemusser/compass/internal/app/system/auth"
	"github.com/dalemusser/compass/internal/app/system/htmlsanitize"
	"github.com/dalemusser/compass/internal/app/system/inputval"
	"github.com/dalemusser/compass/internal/app/system/normalize"
	"github.com/dalemusser/compass/internal/app/system/timeouts"
	"github.com/dalemusser/compass/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const signupPath = "/admin/signup"

type signupInput struct {
	FullName string `validate:"required,max=200" label:"Full name"`
	Email    string `validate:"required,emailaddr" label:"Email"`
	Password string `validate:"required,min=8" label:"Password"`
	Confirm  string `validate:"eqfield=Password" label:"Password confirmation"`
}

type signupFormData struct {
	viewdata.BaseVM
	Error    string
	FullName string
	Email    string
	MinLen   int
}

func (h *Handler) renderSignup(w http.ResponseWriter, r *http.Request, msg string, in signupInput) {
	templates.Render(w, r, "signup", signupFormData{
		BaseVM:   viewdata.NewBaseVM(r, "Create Admin Account", auth.LoginPath),
		Error:    msg,
		FullName: in.FullName,
		Email:    in.Email,
		MinLen:   userstore.MinPasswordLen,
	})
}

// ServeSignup handles GET /admin/signup.
func (h *Handler) ServeSignup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if !h.signupOpen(ctx) {
		http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
		return
	}
	h.renderSignup(w, r, "", signupInput{})
}

// HandleSignupPost handles POST /admin/signup. A new account is signed in
// right away.
func (h *Handler) HandleSignupPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", signupPath)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if !h.signupOpen(ctx) {
		http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
		return
	}

	in := signupInput{
		FullName: normalize.Name(htmlsanitize.StripTags(r.FormValue("full_name"))),
		Email:    normalize.Email(r.FormValue("email")),
		Password: r.FormValue("password"),
		Confirm:  r.FormValue("confirm"),
	}
	if res := inputval.Validate(in); res.HasErrors() {
		h.renderSignup(w, r, res.First(), in)
		return
	}

	u, err := h.Users.Create(ctx, in.FullName, in.Email, in.Password)
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			h.renderSignup(w, r, "An account with this email already exists.", in)
			return
		}
		h.ErrLog.LogServerError(w, r, "create account", err, "Unable to create the account.", signupPath)
		return
	}

	var actor *primitive.ObjectID
	if cur, ok := auth.CurrentUser(r); ok {
		oid := cur.ObjectID()
		actor = &oid
	}
	h.AuditLog.AccountCreated(ctx, r, u.ID, actor, u.Email)
	h.Log.Info("admin account created", zap.String("user_id", u.ID.Hex()), zap.String("email", u.Email))

	if err := h.SessionMgr.SignIn(w, r, u.ID.Hex()); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("email", u.Email))
		http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
}

// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/compass/internal/app/features/errors"
	userstore "github.com/dalemusser/compass/internal/app/store/users"
	"github.com/dalemusser/compass/internal/app/system/auditlog"
	"github.com/dalemusser/compass/internal/app/system/auth"
	"github.com/dalemusser/compass/internal/app/system/normalize"
	"github.com/dalemusser/compass/internal/app/system/ratelimit"
	"github.com/dalemusser/compass/internal/app/system/timeouts"
	"github.com/dalemusser/compass/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const dashboardPath = "/admin"

type Handler struct {
	Users      *userstore.Store
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Limiter    *ratelimit.LoginLimiter

	// AllowSignup keeps the sign-up screen open after the first account exists.
	AllowSignup bool
}

func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	audit *auditlog.Logger,
	limiter *ratelimit.LoginLimiter,
	allowSignup bool,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Users:       userstore.New(db),
		Log:         logger,
		SessionMgr:  sessionMgr,
		ErrLog:      errLog,
		AuditLog:    audit,
		Limiter:     limiter,
		AllowSignup: allowSignup,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Error      string
	Email      string
	ReturnURL  string
	SignupOpen bool
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/login                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, "", "", query.Get(r, "return"))
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, msg, email, ret string) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	templates.Render(w, r, "login", loginFormData{
		BaseVM:     viewdata.NewBaseVM(r, "Admin Sign In", "/"),
		Error:      msg,
		Email:      email,
		ReturnURL:  ret,
		SignupOpen: h.signupOpen(ctx),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/login                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", auth.LoginPath)
		return
	}

	email := normalize.Email(r.FormValue("email"))
	password := r.FormValue("password")
	ret := strings.TrimSpace(r.FormValue("return"))

	if email == "" || password == "" {
		h.renderLogin(w, r, "Please enter your email and password.", email, ret)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if h.Limiter != nil {
		if ok, reason := h.Limiter.Check(r, email); !ok {
			h.AuditLog.LoginFailedRateLimit(ctx, r, email, reason)
			w.WriteHeader(http.StatusTooManyRequests)
			h.renderLogin(w, r, reason, email, ret)
			return
		}
	}

	u, err := h.Users.Authenticate(ctx, email, password)
	switch {
	case err == nil:
		// authenticated
	case errors.Is(err, userstore.ErrInvalidCredentials):
		h.auditInvalid(ctx, r, email)
		h.renderLogin(w, r, "Invalid email or password.", email, ret)
		return
	case errors.Is(err, userstore.ErrDisabled):
		if existing, lookupErr := h.Users.GetByEmail(ctx, email); lookupErr == nil {
			h.AuditLog.LoginFailedUserDisabled(ctx, r, existing.ID, email)
		}
		h.renderLogin(w, r, "Your account is currently disabled. Please contact an administrator.", email, ret)
		return
	default:
		h.ErrLog.LogServerError(w, r, "authenticate user", err, "A server error occurred.", auth.LoginPath)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, u.ID.Hex()); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("email", email))
		h.renderLogin(w, r, "Unable to create session. Please try again.", email, ret)
		return
	}

	if err := h.Users.TouchLastLogin(ctx, u.ID); err != nil {
		h.Log.Warn("record last login failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
	}
	if h.Limiter != nil {
		h.Limiter.ResetEmail(email)
	}
	h.AuditLog.LoginSuccess(ctx, r, u.ID, email)

	http.Redirect(w, r, urlutil.SafeReturn(ret, "", dashboardPath), http.StatusSeeOther)
}

// auditInvalid tells an unknown email apart from a wrong password for the
// audit trail. The visitor sees the same message either way.
func (h *Handler) auditInvalid(ctx context.Context, r *http.Request, email string) {
	existing, err := h.Users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		h.AuditLog.LoginFailedWrongPassword(ctx, r, existing.ID, email)
	case errors.Is(err, mongo.ErrNoDocuments):
		h.AuditLog.LoginFailedUserNotFound(ctx, r, email)
	default:
		h.Log.Warn("lookup for failed login", zap.Error(err))
	}
}

// signupOpen reports whether new accounts may be created. With signup
// disabled, the screen still opens while no account exists so the first
// administrator can register.
func (h *Handler) signupOpen(ctx context.Context) bool {
	if h.AllowSignup {
		return true
	}
	n, err := h.Users.Count(ctx)
	if err != nil {
		h.Log.Warn("count accounts failed", zap.Error(err))
		return false
	}
	return n == 0
}

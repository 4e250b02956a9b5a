// internal/app/bootstrap/routes.go
package bootstrap

import (
	"crypto/sha256"
	"net/http"

	adminfeature "github.com/dalemusser/compass/internal/app/features/admin"
	auditlogfeature "github.com/dalemusser/compass/internal/app/features/auditlog"
	chatfeature "github.com/dalemusser/compass/internal/app/features/chat"
	directoryfeature "github.com/dalemusser/compass/internal/app/features/directory"
	errorsfeature "github.com/dalemusser/compass/internal/app/features/errors"
	healthfeature "github.com/dalemusser/compass/internal/app/features/health"
	homefeature "github.com/dalemusser/compass/internal/app/features/home"
	loginfeature "github.com/dalemusser/compass/internal/app/features/login"
	logoutfeature "github.com/dalemusser/compass/internal/app/features/logout"
	referencefeature "github.com/dalemusser/compass/internal/app/features/reference"
	submitfeature "github.com/dalemusser/compass/internal/app/features/submit"
	auditstore "github.com/dalemusser/compass/internal/app/store/audit"
	userstore "github.com/dalemusser/compass/internal/app/store/users"
	"github.com/dalemusser/compass/internal/app/system/auth"
	"github.com/dalemusser/compass/internal/app/system/llm"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed.
//
// HTML routes sit behind CSRF protection. The JSON API (/api/*) and /health
// do not; /api gets CORS when cors_origins is set.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	s, err := currentServices()
	if err != nil {
		return nil, err
	}

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// LoadSessionUser re-reads the account on each request so a disabled
	// account loses access right away.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)
	errorsHandler := errorsfeature.NewHandler()

	llmClient := llm.New(llm.Config{
		Endpoint: appCfg.OpenAIEndpoint,
		Model:    appCfg.OpenAIModel,
		APIKey:   appCfg.OpenAIAPIKey,
		Timeout:  appCfg.OpenAITimeout,
	}, logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)
	r.NotFound(errorsHandler.NotFound)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", appCfg.StaticPath))

	directoryHandler := directoryfeature.NewHandler(deps.MongoDatabase, errLog, logger)

	// JSON API
	r.Route("/api", func(api chi.Router) {
		if len(appCfg.CORSOrigins) > 0 {
			api.Use(cors.Handler(cors.Options{
				AllowedOrigins: appCfg.CORSOrigins,
				AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
				AllowedHeaders: []string{"Accept", "Content-Type"},
				MaxAge:         300,
			}))
		}
		api.Mount("/resources", directoryfeature.APIRoutes(directoryHandler))

		chatHandler := chatfeature.NewHandler(llmClient, s.content, s.chatLimiter, logger)
		api.Mount("/chat", chatfeature.Routes(chatHandler))
	})

	// HTML pages and forms
	r.Group(func(page chi.Router) {
		page.Use(csrfProtect(csrfKey(appCfg), secure, logger))

		homeHandler := homefeature.NewHandler(s.content, logger)
		page.Mount("/", homefeature.Routes(homeHandler))

		page.Mount("/directory", directoryfeature.Routes(directoryHandler))

		submitHandler := submitfeature.NewHandler(s.moderation, s.audit, s.submitLimit, errLog, logger)
		page.Mount("/submit", submitfeature.Routes(submitHandler))

		refHandler := referencefeature.NewHandler(s.content, appCfg.DocsPath, logger)
		page.Mount("/reference", referencefeature.Routes(refHandler))
		page.Mount("/worklog", referencefeature.WorklogRoutes(refHandler))
		page.Mount("/docs", referencefeature.DocumentRoutes(refHandler))

		page.Get("/forbidden", errorsHandler.Forbidden)

		// Administration
		loginHandler := loginfeature.NewHandler(deps.MongoDatabase, sessionMgr, errLog, s.audit, s.loginLimiter, appCfg.AllowSignup, logger)
		page.Mount("/admin/login", loginfeature.Routes(loginHandler))
		page.Mount("/admin/signup", loginfeature.SignupRoutes(loginHandler))

		logoutHandler := logoutfeature.NewHandler(sessionMgr, s.audit, logger)
		page.Mount("/admin/logout", logoutfeature.Routes(logoutHandler))

		auditHandler := auditlogfeature.NewHandler(deps.MongoDatabase, errLog, logger)
		page.Mount("/admin/audit", auditlogfeature.Routes(auditHandler, sessionMgr))

		adminHandler := adminfeature.NewHandler(s.moderation, auditstore.New(deps.MongoDatabase), s.audit, errLog, logger)
		page.Mount("/admin", adminfeature.Routes(adminHandler, sessionMgr))
	})

	return r, nil
}

// csrfKey returns the 32-byte key gorilla/csrf requires.
func csrfKey(appCfg AppConfig) []byte {
	seed := appCfg.CSRFKey
	if seed == "" {
		seed = "csrf:" + appCfg.SessionKey
	}
	sum := sha256.Sum256([]byte(seed))
	return sum[:]
}

// csrfProtect wraps gorilla/csrf. Outside production the site is served over
// plain HTTP, which the middleware must be told about per request.
func csrfProtect(key []byte, secure bool, logger *zap.Logger) func(http.Handler) http.Handler {
	protect := csrf.Protect(key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reason := "unknown"
			if err := csrf.FailureReason(r); err != nil {
				reason = err.Error()
			}
			logger.Warn("csrf check failed", zap.String("path", r.URL.Path), zap.String("reason", reason))
			errorsfeature.RenderForbidden(w, r, "Your form expired. Go back, reload the page and try again.", "")
		})),
	)
	return func(next http.Handler) http.Handler {
		h := protect(next)
		if secure {
			return h
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}

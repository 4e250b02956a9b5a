// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/compass/internal/app/system/llm"
	"github.com/dalemusser/compass/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// minSessionKeyLen matches the length check in auth.NewSessionManager.
const minSessionKeyLen = 32

// appConfigKeys defines the configuration keys for Compass.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: COMPASS_MONGO_URI, COMPASS_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "compass", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "compass-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "12h", Desc: "Admin session lifetime (e.g., 12h, 30m)"},
	{Name: "csrf_key", Default: "", Desc: "CSRF token key (blank derives one from session_key)"},
	{Name: "allow_signup", Default: false, Desc: "Keep admin sign-up open after the first account exists"},

	// Chat assistant
	{Name: "openai_api_key", Default: "", Desc: "OpenAI API key for the chat assistant"},
	{Name: "openai_endpoint", Default: llm.DefaultEndpoint, Desc: "Chat completions endpoint"},
	{Name: "openai_model", Default: llm.DefaultModel, Desc: "Chat completions model"},
	{Name: "openai_timeout", Default: "20s", Desc: "Deadline for one chat completion call"},
	{Name: "chat_rate_limit", Default: 20, Desc: "Chat requests per client IP per minute (0 disables)"},
	{Name: "submit_rate_limit", Default: 10, Desc: "Public submissions per client IP per hour (0 disables)"},

	// Files
	{Name: "docs_path", Default: "./docs", Desc: "Directory holding the downloadable documents"},
	{Name: "static_path", Default: "public", Desc: "Directory served under /static"},
	{Name: "content_path", Default: "", Desc: "Site content YAML file (blank uses the built-in content)"},

	// Approval repair
	{Name: "approval_repair_interval", Default: "1m", Desc: "How often to look for stalled approvals"},
	{Name: "approval_stall_after", Default: "2m", Desc: "How long an approval may stay claimed before it is finished by the repair worker"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	{Name: "cors_origins", Default: "", Desc: "Comma-separated origins allowed to call /api (blank disables CORS)"},
	{Name: "trusted_proxies", Default: "", Desc: "Comma-separated CIDRs or IPs of reverse proxies whose forwarding headers are trusted"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// COMPASS_* environment variables and command-line flags, merged with
// precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "COMPASS", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),
		SessionMaxAge:    appValues.Duration("session_max_age", 12*time.Hour),
		CSRFKey:          appValues.String("csrf_key"),
		AllowSignup:      appValues.Bool("allow_signup"),

		OpenAIAPIKey:    appValues.String("openai_api_key"),
		OpenAIEndpoint:  appValues.String("openai_endpoint"),
		OpenAIModel:     appValues.String("openai_model"),
		OpenAITimeout:   appValues.Duration("openai_timeout", llm.DefaultTimeout),
		ChatRateLimit:   appValues.Int("chat_rate_limit"),
		SubmitRateLimit: appValues.Int("submit_rate_limit"),

		DocsPath:    appValues.String("docs_path"),
		StaticPath:  appValues.String("static_path"),
		ContentPath: appValues.String("content_path"),

		ApprovalRepairInterval: appValues.Duration("approval_repair_interval", time.Minute),
		ApprovalStallAfter:     appValues.Duration("approval_stall_after", 2*time.Minute),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		CORSOrigins:    splitList(appValues.String("cors_origins")),
		TrustedProxies: splitList(appValues.String("trusted_proxies")),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The MongoDB URI format is checked here to catch configuration errors
// before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if strings.TrimSpace(appCfg.MongoDatabase) == "" {
		return fmt.Errorf("mongo_database is required")
	}
	if len(appCfg.SessionKey) < minSessionKeyLen {
		return fmt.Errorf("session_key must be at least %d characters", minSessionKeyLen)
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}
	if appCfg.ApprovalRepairInterval <= 0 || appCfg.ApprovalStallAfter <= 0 {
		return fmt.Errorf("approval_repair_interval and approval_stall_after must be positive")
	}
	for name, v := range map[string]string{
		"audit_log_auth":  appCfg.AuditLogAuth,
		"audit_log_admin": appCfg.AuditLogAdmin,
	} {
		switch v {
		case "all", "db", "log", "off":
		default:
			return fmt.Errorf("%s must be one of all, db, log, off (got %q)", name, v)
		}
	}

	if _, err := ratelimit.ParseProxies(appCfg.TrustedProxies); err != nil {
		return fmt.Errorf("trusted_proxies: %w", err)
	}

	if appCfg.OpenAIAPIKey == "" {
		logger.Warn("openai_api_key is not set; the chat assistant will answer with an error")
	}
	if coreCfg != nil && coreCfg.Env == "prod" && appCfg.AllowSignup {
		logger.Warn("allow_signup is on in production; anyone can create an admin account")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration. Ports, TLS, log level and
// request limits belong to WAFFLE's CoreConfig.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: compass-session)
	SessionDomain string // Cookie domain (blank means current host)
	SessionMaxAge time.Duration

	// CSRFKey protects every HTML form. Blank derives a key from SessionKey.
	CSRFKey string

	// AllowSignup keeps /admin/signup open after the first account exists.
	AllowSignup bool

	// Chat assistant
	OpenAIAPIKey    string
	OpenAIEndpoint  string
	OpenAIModel     string
	OpenAITimeout   time.Duration
	ChatRateLimit   int // requests per IP per minute; 0 disables
	SubmitRateLimit int // submissions per IP per hour; 0 disables

	// Files
	DocsPath    string // directory holding the downloadable documents
	StaticPath  string // directory served under /static
	ContentPath string // site content YAML; blank uses the built-in copy

	// Approval repair worker
	ApprovalRepairInterval time.Duration
	ApprovalStallAfter     time.Duration

	// Audit logging: "all", "db", "log" or "off"
	AuditLogAuth  string
	AuditLogAdmin string

	// CORSOrigins enables CORS on /api when non-empty.
	CORSOrigins []string

	// TrustedProxies lists CIDRs or addresses whose X-Forwarded-For and
	// X-Real-IP headers are believed. Empty means use the peer address only.
	TrustedProxies []string
}

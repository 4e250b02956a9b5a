// internal/app/system/limits/limits.go
package limits

// Request body size limits for various features.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxResourceFormSize bounds admin resource forms and public submissions.
	// Both may carry an inline data:image payload.
	MaxResourceFormSize = 4 << 20 // 4 MB

	// MaxChatBodySize caps a chat request; twelve turns fit well inside it.
	MaxChatBodySize = 64 << 10 // 64 KB
)

// Package timeouts holds the deadlines used with context.WithTimeout around
// store calls and outbound requests.
//
//   - Ping: health checks
//   - Short: single-document reads, sign-in lookups
//   - Medium: list reads, single writes, directory renders
//   - Long: moderation transitions that touch two collections
//   - Upstream: the language model call made by the chat proxy
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing     = 2 * time.Second
	DefaultShort    = 5 * time.Second
	DefaultMedium   = 10 * time.Second
	DefaultLong     = 30 * time.Second
	DefaultUpstream = 20 * time.Second
)

var (
	mu       sync.RWMutex
	ping     = DefaultPing
	short    = DefaultShort
	medium   = DefaultMedium
	long     = DefaultLong
	upstream = DefaultUpstream
)

func Ping() time.Duration     { return get(&ping) }
func Short() time.Duration    { return get(&short) }
func Medium() time.Duration   { return get(&medium) }
func Long() time.Duration     { return get(&long) }
func Upstream() time.Duration { return get(&upstream) }

func get(d *time.Duration) time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return *d
}

// Config overrides the defaults. Zero fields keep the current value.
type Config struct {
	Ping     time.Duration
	Short    time.Duration
	Medium   time.Duration
	Long     time.Duration
	Upstream time.Duration
}

// Configure applies cfg. Call it once during startup, before serving.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	set := func(dst *time.Duration, v time.Duration) {
		if v > 0 {
			*dst = v
		}
	}
	set(&ping, cfg.Ping)
	set(&short, cfg.Short)
	set(&medium, cfg.Medium)
	set(&long, cfg.Long)
	set(&upstream, cfg.Upstream)
}

// Reset restores the defaults. Tests use it after Configure.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping, short, medium, long, upstream = DefaultPing, DefaultShort, DefaultMedium, DefaultLong, DefaultUpstream
}

// Current returns the values in effect, for the startup log line.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{Ping: ping, Short: short, Medium: medium, Long: long, Upstream: upstream}
}

// WithTimeout is context.WithTimeout whose cancel func logs a warning when
// the deadline was the reason the work stopped.
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "approve submission")
//	defer cancel()
func WithTimeout(parent context.Context, d time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, d)
	return ctx, func() {
		if log != nil && ctx.Err() == context.DeadlineExceeded {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", d),
			)
		}
		cancel()
	}
}

// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dalemusser/compass/internal/app/resources"
	auditstore "github.com/dalemusser/compass/internal/app/store/audit"
	"github.com/dalemusser/compass/internal/app/system/auditlog"
	"github.com/dalemusser/compass/internal/app/system/moderation"
	"github.com/dalemusser/compass/internal/app/system/ratelimit"
	"github.com/dalemusser/compass/internal/app/system/sitecontent"
	"github.com/dalemusser/compass/internal/app/system/timeouts"
	"github.com/dalemusser/compass/internal/app/system/viewdata"
	"github.com/dalemusser/compass/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// services are built once in Startup and shared by BuildHandler and Shutdown.
type services struct {
	content      *sitecontent.Content
	moderation   *moderation.Service
	audit        *auditlog.Logger
	repair       *workers.ApprovalRepair
	loginLimiter *ratelimit.LoginLimiter
	chatLimiter  *ratelimit.Limiter
	submitLimit  *ratelimit.Limiter
}

var (
	svcMu sync.Mutex
	svcs  *services
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It loads
// shared templates and site content, and starts the approval repair worker.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()
	if err := ratelimit.SetTrustedProxies(appCfg.TrustedProxies); err != nil {
		return fmt.Errorf("trusted proxies: %w", err)
	}

	s, err := newServices(appCfg, deps, logger)
	if err != nil {
		return err
	}
	viewdata.SetSiteName(s.content.SiteName)
	timeouts.Configure(timeouts.Config{Upstream: appCfg.OpenAITimeout})

	// Finish anything left claimed by a previous process before serving.
	if n := s.repair.RunOnce(); n > 0 {
		logger.Info("finished stalled approvals at startup", zap.Int("count", n))
	}
	s.repair.Start()

	svcMu.Lock()
	svcs = s
	svcMu.Unlock()
	return nil
}

func newServices(appCfg AppConfig, deps DBDeps, logger *zap.Logger) (*services, error) {
	content, err := sitecontent.Load(appCfg.ContentPath)
	if err != nil {
		return nil, fmt.Errorf("load site content: %w", err)
	}

	audit := auditlog.New(auditstore.New(deps.MongoDatabase), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})
	mod := moderation.New(deps.MongoDatabase, logger)

	s := &services{
		content:      content,
		moderation:   mod,
		audit:        audit,
		repair:       workers.NewApprovalRepair(mod, audit, logger, appCfg.ApprovalRepairInterval, appCfg.ApprovalStallAfter),
		loginLimiter: ratelimit.NewLoginLimiter(),
	}
	if appCfg.ChatRateLimit > 0 {
		s.chatLimiter = ratelimit.New(appCfg.ChatRateLimit, time.Minute)
	}
	if appCfg.SubmitRateLimit > 0 {
		s.submitLimit = ratelimit.New(appCfg.SubmitRateLimit, time.Hour)
	}
	return s, nil
}

func currentServices() (*services, error) {
	svcMu.Lock()
	defer svcMu.Unlock()
	if svcs == nil {
		return nil, fmt.Errorf("bootstrap: Startup has not run")
	}
	return svcs, nil
}

// stop halts the worker and limiter sweepers. Safe to call more than once.
func (s *services) stop() {
	s.repair.Stop()
	s.loginLimiter.Stop()
	if s.chatLimiter != nil {
		s.chatLimiter.Stop()
	}
	if s.submitLimit != nil {
		s.submitLimit.Stop()
	}
}

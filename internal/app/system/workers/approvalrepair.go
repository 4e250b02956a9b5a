// internal/app/system/workers/approvalrepair.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/compass/internal/app/system/auditlog"
	"github.com/dalemusser/compass/internal/app/system/moderation"
	"go.uber.org/zap"
)

// ApprovalRepair is a background worker that finishes approvals which were
// claimed but never finalized (for example, the process stopped between
// writing the resource and removing the submission).
type ApprovalRepair struct {
	svc        *moderation.Service
	audit      *auditlog.Logger
	log        *zap.Logger
	interval   time.Duration
	stallAfter time.Duration
	stopCh     chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
}

// NewApprovalRepair creates a new approval repair worker.
//
// Parameters:
//   - svc: the moderation service
//   - audit: audit logger for finalized approvals (may be nil)
//   - logger: zap logger for logging
//   - interval: how often to look for stalled approvals (e.g., 1 minute)
//   - stallAfter: how long a claim must be held before it is considered stalled
func NewApprovalRepair(svc *moderation.Service, audit *auditlog.Logger, logger *zap.Logger, interval, stallAfter time.Duration) *ApprovalRepair {
	return &ApprovalRepair{
		svc:        svc,
		audit:      audit,
		log:        logger,
		interval:   interval,
		stallAfter: stallAfter,
		stopCh:     make(chan struct{}),
	}
}

// Start begins the background repair loop.
func (w *ApprovalRepair) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("approval repair worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("stall_after", w.stallAfter))
}

// Stop signals the worker to stop and waits for it to finish. It is safe to
// call more than once.
func (w *ApprovalRepair) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("approval repair worker stopped")
	})
}

func (w *ApprovalRepair) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.RunOnce()
		}
	}
}

// RunOnce performs a single repair pass and returns how many approvals it
// finalized.
func (w *ApprovalRepair) RunOnce() int {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stalled, err := w.svc.ResumeStalled(ctx, w.stallAfter)
	for _, res := range stalled {
		if w.audit != nil && res.SourcePendingID != nil {
			w.audit.SubmissionFinalized(ctx, *res.SourcePendingID, res.ID, res.Number, res.Title)
		}
	}
	if err != nil {
		w.log.Error("failed to resume stalled approvals", zap.Error(err))
	}
	if len(stalled) > 0 {
		w.log.Info("finalized stalled approvals", zap.Int("count", len(stalled)))
	}
	return len(stalled)
}

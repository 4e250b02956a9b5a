// Package moderation owns every transition of the resource lifecycle:
// approving and rejecting public submissions, and the admin create, edit and
// delete of published resources.
//
// Published resources are always addressed by their storage ID. The numeric
// identifier shown to admins is an attribute allocated from a counter and is
// never used to find a record to write.
package moderation

import (
	"context"
	"errors"
	"fmt"
	"time"

	counterstore "github.com/dalemusser/compass/internal/app/store/counters"
	pendingstore "github.com/dalemusser/compass/internal/app/store/pending"
	resourcestore "github.com/dalemusser/compass/internal/app/store/resources"
	"github.com/dalemusser/compass/internal/app/system/txn"
	"github.com/dalemusser/compass/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	// ErrNotFound means the submission or resource no longer exists.
	ErrNotFound = errors.New("not found")
	// ErrMissingAddress is returned when a resource without a storage ID is
	// offered for update or delete. Nothing is written.
	ErrMissingAddress = errors.New("resource has no storage address")
	// ErrApprovalInProgress is returned when rejecting a submission whose
	// approval has already been claimed.
	ErrApprovalInProgress = errors.New("approval already in progress")
)

// Actor is the admin performing a transition.
type Actor struct {
	ID   primitive.ObjectID
	Name string
}

func (a Actor) idPtr() *primitive.ObjectID {
	if a.ID.IsZero() {
		return nil
	}
	id := a.ID
	return &id
}

// Service runs moderation transitions against the stores.
type Service struct {
	db        *mongo.Database
	resources *resourcestore.Store
	pending   *pendingstore.Store
	counters  *counterstore.Store
	log       *zap.Logger
	now       func() time.Time
}

// New builds a Service over db.
func New(db *mongo.Database, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:        db,
		resources: resourcestore.New(db),
		pending:   pendingstore.New(db),
		counters:  counterstore.New(db),
		log:       logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SyncCounter raises the resource number counter past every number in use.
func (s *Service) SyncCounter(ctx context.Context) error {
	max, err := s.resources.MaxNumber(ctx)
	if err != nil {
		return fmt.Errorf("read max resource number: %w", err)
	}
	if err := s.counters.EnsureAtLeast(ctx, counterstore.ResourceNumber, max); err != nil {
		return fmt.Errorf("sync resource counter: %w", err)
	}
	return nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Reads                                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// List returns every published resource, each with its storage ID and number.
func (s *Service) List(ctx context.Context) ([]models.Resource, error) {
	list, err := s.resources.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	return list, nil
}

// ListPending returns the submissions awaiting review, oldest first.
func (s *Service) ListPending(ctx context.Context) ([]models.PendingResource, error) {
	list, err := s.pending.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return list, nil
}

// Get returns the published resource at id.
func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (models.Resource, error) {
	r, err := s.resources.GetByID(ctx, id)
	if errors.Is(err, resourcestore.ErrNotFound) {
		return models.Resource{}, ErrNotFound
	}
	if err != nil {
		return models.Resource{}, fmt.Errorf("get resource: %w", err)
	}
	return r, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Submission                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// Submit records a public submission as pending.
func (s *Service) Submit(ctx context.Context, p models.PendingResource) (models.PendingResource, error) {
	out, err := s.pending.Create(ctx, p)
	if err != nil {
		return models.PendingResource{}, fmt.Errorf("create submission: %w", err)
	}
	s.log.Info("submission received",
		zap.String("pending_id", out.ID.Hex()),
		zap.String("name", out.Name),
		zap.String("category", string(out.Category)))
	return out, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Approve / Reject                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

// Approve publishes the submission at pendingID and removes it from the queue.
//
// The submission is first claimed: its status moves to approving and the ID of
// the resource it will become is stamped on it. Calling Approve again on a
// claimed submission finishes that same approval instead of starting another,
// so a retry never produces a second resource.
func (s *Service) Approve(ctx context.Context, actor Actor, pendingID primitive.ObjectID) (models.Resource, error) {
	p, claimed, err := s.pending.Claim(ctx, pendingID, primitive.NewObjectID(), s.now())
	switch {
	case errors.Is(err, pendingstore.ErrNotFound), errors.Is(err, pendingstore.ErrNotClaimable):
		return models.Resource{}, ErrNotFound
	case err != nil:
		return models.Resource{}, fmt.Errorf("claim submission: %w", err)
	}
	if !claimed {
		s.log.Info("resuming claimed approval",
			zap.String("pending_id", p.ID.Hex()),
			zap.String("resource_id", p.ApprovedResourceID.Hex()))
	}

	r, err := s.finalize(ctx, actor, p)
	if err != nil {
		return models.Resource{}, err
	}
	s.log.Info("submission approved",
		zap.String("pending_id", p.ID.Hex()),
		zap.String("resource_id", r.ID.Hex()),
		zap.Int64("number", r.Number),
		zap.String("category", string(r.Category)))
	return r, nil
}

// finalize writes the resource for a claimed submission and deletes the
// submission. Every step is safe to repeat.
func (s *Service) finalize(ctx context.Context, actor Actor, p models.PendingResource) (models.Resource, error) {
	if p.ApprovedResourceID == nil || p.ApprovedResourceID.IsZero() {
		return models.Resource{}, fmt.Errorf("submission %s is not claimed", p.ID.Hex())
	}
	rid := *p.ApprovedResourceID

	// A previous attempt may have written the resource already; reuse it and
	// its number.
	existing, err := s.resources.GetByID(ctx, rid)
	switch {
	case err == nil:
		if _, err := s.pending.Delete(ctx, p.ID); err != nil {
			return models.Resource{}, fmt.Errorf("delete approved submission: %w", err)
		}
		return existing, nil
	case !errors.Is(err, resourcestore.ErrNotFound):
		return models.Resource{}, fmt.Errorf("check approved resource: %w", err)
	}

	number, err := s.counters.Next(ctx, counterstore.ResourceNumber)
	if err != nil {
		return models.Resource{}, fmt.Errorf("allocate resource number: %w", err)
	}

	r := p.ToResource()
	r.ID = rid
	r.Number = number
	src := p.ID
	r.SourcePendingID = &src
	r.CreatedByID = actor.idPtr()
	r.CreatedByName = actor.Name

	var out models.Resource
	err = txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		created, _, err := s.resources.EnsureCreated(ctx, r)
		if err != nil {
			return err
		}
		if _, err := s.pending.Delete(ctx, p.ID); err != nil {
			return err
		}
		out = created
		return nil
	})
	if errors.Is(err, resourcestore.ErrDuplicate) {
		// A concurrent finalize of the same claim won the insert.
		if winner, gerr := s.resources.GetByID(ctx, rid); gerr == nil {
			if _, derr := s.pending.Delete(ctx, p.ID); derr != nil {
				return models.Resource{}, fmt.Errorf("delete approved submission: %w", derr)
			}
			return winner, nil
		}
	}
	if err != nil {
		return models.Resource{}, fmt.Errorf("publish submission: %w", err)
	}
	return out, nil
}

// Reject permanently discards the submission at pendingID and returns what was
// discarded. No resource is created.
func (s *Service) Reject(ctx context.Context, actor Actor, pendingID primitive.ObjectID) (models.PendingResource, error) {
	p, err := s.pending.GetByID(ctx, pendingID)
	if errors.Is(err, pendingstore.ErrNotFound) {
		return models.PendingResource{}, ErrNotFound
	}
	if err != nil {
		return models.PendingResource{}, fmt.Errorf("get submission: %w", err)
	}
	if p.Status == models.PendingStatusApproving {
		return models.PendingResource{}, ErrApprovalInProgress
	}

	n, err := s.pending.DeleteUnclaimed(ctx, pendingID)
	if err != nil {
		return models.PendingResource{}, fmt.Errorf("delete submission: %w", err)
	}
	if n == 0 {
		// Claimed or removed between the read and the delete.
		if cur, gerr := s.pending.GetByID(ctx, pendingID); gerr == nil && cur.Status == models.PendingStatusApproving {
			return models.PendingResource{}, ErrApprovalInProgress
		}
		return models.PendingResource{}, ErrNotFound
	}

	s.log.Info("submission rejected",
		zap.String("pending_id", pendingID.Hex()),
		zap.String("actor_id", actor.ID.Hex()))
	return p, nil
}

// ResumeStalled finishes approvals that were claimed more than olderThan ago
// and never completed. It returns the resources it published. A failure on
// one submission is logged and does not stop the others.
func (s *Service) ResumeStalled(ctx context.Context, olderThan time.Duration) ([]models.Resource, error) {
	stalled, err := s.pending.ListClaimedBefore(ctx, s.now().Add(-olderThan))
	if err != nil {
		return nil, fmt.Errorf("list stalled approvals: %w", err)
	}

	var done []models.Resource
	for _, p := range stalled {
		if ctx.Err() != nil {
			return done, ctx.Err()
		}
		r, err := s.finalize(ctx, Actor{}, p)
		if err != nil {
			s.log.Warn("could not finish stalled approval",
				zap.String("pending_id", p.ID.Hex()),
				zap.Error(err))
			continue
		}
		s.log.Info("finished stalled approval",
			zap.String("pending_id", p.ID.Hex()),
			zap.String("resource_id", r.ID.Hex()))
		done = append(done, r)
	}
	return done, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Admin create / update / delete                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// Create publishes a resource authored by an admin. The number is allocated
// before the insert so the record is written once, complete.
func (s *Service) Create(ctx context.Context, actor Actor, in models.ResourceInput) (models.Resource, error) {
	if err := resourcestore.ValidateInput(in); err != nil {
		return models.Resource{}, err
	}
	number, err := s.counters.Next(ctx, counterstore.ResourceNumber)
	if err != nil {
		return models.Resource{}, fmt.Errorf("allocate resource number: %w", err)
	}

	r, err := s.resources.Create(ctx, models.Resource{
		Number:        number,
		Title:         in.Title,
		Category:      in.Category,
		Description:   in.Description,
		Website:       in.Website,
		ImageURL:      in.ImageURL,
		CreatedByID:   actor.idPtr(),
		CreatedByName: actor.Name,
	})
	if err != nil {
		return models.Resource{}, fmt.Errorf("create resource: %w", err)
	}
	s.log.Info("resource created",
		zap.String("resource_id", r.ID.Hex()),
		zap.Int64("number", r.Number))
	return r, nil
}

// Update writes in to the resource addressed by r.ID and returns the stored
// result. r.Number plays no part in the write.
func (s *Service) Update(ctx context.Context, actor Actor, r models.Resource, in models.ResourceInput) (models.Resource, error) {
	if !r.HasAddress() {
		s.log.Warn("update skipped: resource has no storage address",
			zap.Int64("number", r.Number),
			zap.String("title", r.Title))
		return models.Resource{}, ErrMissingAddress
	}
	updated, err := s.resources.Update(ctx, r.ID, in, actor.idPtr(), actor.Name)
	if errors.Is(err, resourcestore.ErrNotFound) {
		return models.Resource{}, ErrNotFound
	}
	if err != nil {
		return models.Resource{}, fmt.Errorf("update resource: %w", err)
	}
	return updated, nil
}

// Delete removes the resource addressed by r.ID and returns it as it was
// stored. A resource without a storage ID is logged and left alone.
func (s *Service) Delete(ctx context.Context, actor Actor, r models.Resource) (models.Resource, error) {
	if !r.HasAddress() {
		s.log.Warn("delete skipped: resource has no storage address",
			zap.Int64("number", r.Number),
			zap.String("title", r.Title))
		return models.Resource{}, ErrMissingAddress
	}
	gone, err := s.resources.Delete(ctx, r.ID)
	if errors.Is(err, resourcestore.ErrNotFound) {
		return models.Resource{}, ErrNotFound
	}
	if err != nil {
		return models.Resource{}, fmt.Errorf("delete resource: %w", err)
	}
	s.log.Info("resource deleted",
		zap.String("resource_id", gone.ID.Hex()),
		zap.Int64("number", gone.Number),
		zap.String("actor_id", actor.ID.Hex()))
	return gone, nil
}

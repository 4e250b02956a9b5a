// internal/app/store/pending/pendingstore.go
package pendingstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/compass/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound = errors.New("submission not found")
	// ErrNotClaimable is returned by Claim for a record in neither the
	// pending nor the approving state.
	ErrNotClaimable = errors.New("submission cannot be approved in its current state")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("pending_resources")}
}

// Create stores a public submission. Status is always pending and the
// timestamp is always now, whatever the caller passed.
func (s *Store) Create(ctx context.Context, p models.PendingResource) (models.PendingResource, error) {
	p.ID = primitive.NewObjectID()
	p.Status = models.PendingStatusPending
	p.ApprovedResourceID = nil
	p.ClaimedAt = nil
	p.CreatedAt = time.Now().UTC()

	if strings.TrimSpace(p.Name) == "" {
		return models.PendingResource{}, mongo.CommandError{Message: "name is required"}
	}
	if !p.Category.Valid() {
		return models.PendingResource{}, mongo.CommandError{Message: "category is not a submission category"}
	}

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.PendingResource{}, err
	}
	return p, nil
}

// GetByID returns the submission at id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.PendingResource, error) {
	var p models.PendingResource
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.PendingResource{}, ErrNotFound
		}
		return models.PendingResource{}, err
	}
	return p, nil
}

// List returns the review queue (pending and approving), oldest first.
func (s *Store) List(ctx context.Context) ([]models.PendingResource, error) {
	filter := bson.M{"status": bson.M{"$in": bson.A{models.PendingStatusPending, models.PendingStatusApproving}}}
	return s.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
}

// ListClaimedBefore returns approvals claimed before cutoff that never finished.
func (s *Store) ListClaimedBefore(ctx context.Context, cutoff time.Time) ([]models.PendingResource, error) {
	filter := bson.M{
		"status":     models.PendingStatusApproving,
		"claimed_at": bson.M{"$lt": cutoff},
	}
	return s.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "claimed_at", Value: 1}}))
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.PendingResource, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.PendingResource{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Claim moves a pending submission to approving and stamps resourceID as the
// id of the resource it will become. If the record is already approving it is
// returned unchanged, with its original stamp, so an interrupted approval can
// be finished. claimed reports whether this call made the transition.
func (s *Store) Claim(ctx context.Context, id, resourceID primitive.ObjectID, now time.Time) (p models.PendingResource, claimed bool, err error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": models.PendingStatusPending},
		bson.M{"$set": bson.M{
			"status":               models.PendingStatusApproving,
			"approved_resource_id": resourceID,
			"claimed_at":           now,
		}},
		opts,
	).Decode(&p)
	if err == nil {
		return p, true, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.PendingResource{}, false, err
	}

	// Not pending: either gone, already claimed, or in some other state.
	p, err = s.GetByID(ctx, id)
	if err != nil {
		return models.PendingResource{}, false, err
	}
	if p.Status == models.PendingStatusApproving && p.ApprovedResourceID != nil {
		return p, false, nil
	}
	return models.PendingResource{}, false, ErrNotClaimable
}

// Delete removes the submission at id regardless of state.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteUnclaimed removes the submission only while it is still pending, so a
// concurrent approval that already claimed it is never discarded.
func (s *Store) DeleteUnclaimed(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "status": models.PendingStatusPending})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Count returns how many submissions await review.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"status": bson.M{"$in": bson.A{models.PendingStatusPending, models.PendingStatusApproving}}})
}

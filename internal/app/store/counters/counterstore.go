// Package counterstore allocates monotonically increasing numbers.
package counterstore

import (
	"context"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ResourceNumber is the counter behind Resource.Number.
const ResourceNumber = "resource_number"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("counters")}
}

// Next atomically increments the named counter and returns the new value.
// The first call for a name returns 1.
func (s *Store) Next(ctx context.Context, name string) (int64, error) {
	var out struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&out)
	if err != nil {
		return 0, err
	}
	return out.Seq, nil
}

// EnsureAtLeast raises the counter to floor if it is lower, so numbers handed
// out later never collide with records that were loaded from elsewhere.
func (s *Store) EnsureAtLeast(ctx context.Context, name string, floor int64) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": name, "seq": bson.M{"$lt": floor}},
		bson.M{"$set": bson.M{"seq": floor}},
		options.Update().SetUpsert(true),
	)
	// The upsert collides on _id when the counter already exists at or above
	// floor; nothing to do in that case.
	if err != nil && wafflemongo.IsDup(err) {
		return nil
	}
	return err
}

// Current returns the last value handed out, or 0.
func (s *Store) Current(ctx context.Context, name string) (int64, error) {
	var out struct {
		Seq int64 `bson:"seq"`
	}
	err := s.c.FindOne(ctx, bson.M{"_id": name}).Decode(&out)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	return out.Seq, err
}

// internal/app/store/resources/resourcestore.go
package resourcestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/compass/internal/app/system/inputval"
	"github.com/dalemusser/compass/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrNotFound = errors.New("resource not found")
	// ErrDuplicate means the number or the source submission already has a resource.
	ErrDuplicate = errors.New("a resource with this number or source already exists")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("resources")}
}

// validate applies the checks shared by every write path.
func validate(r models.Resource) error {
	if strings.TrimSpace(r.Title) == "" {
		return mongo.CommandError{Message: "title is required"}
	}
	if !r.Category.Valid() {
		return mongo.CommandError{Message: "category must be one of Social, Food, Education, Transit, Other"}
	}
	if r.Website != "" && !inputval.IsValidHTTPURL(r.Website) {
		return mongo.CommandError{Message: "website must be a valid http(s) URL"}
	}
	if r.ImageURL != "" && !inputval.IsValidImageRef(r.ImageURL) {
		return mongo.CommandError{Message: "image_url must be an http(s) URL or data:image payload"}
	}
	return nil
}

// ValidateInput runs the write-path checks against admin input without
// touching the store.
func ValidateInput(in models.ResourceInput) error {
	return validate(models.Resource{
		Title:    strings.TrimSpace(in.Title),
		Category: in.Category,
		Website:  in.Website,
		ImageURL: in.ImageURL,
	})
}

// Create inserts r in one write. A zero ID is replaced with a new one; the
// caller supplies Number.
func (s *Store) Create(ctx context.Context, r models.Resource) (models.Resource, error) {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	r.TitleCI = text.Fold(r.Title)
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = &now

	if r.Number <= 0 {
		return models.Resource{}, mongo.CommandError{Message: "number is required"}
	}
	if err := validate(r); err != nil {
		return models.Resource{}, err
	}

	if _, err := s.c.InsertOne(ctx, r); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Resource{}, ErrDuplicate
		}
		return models.Resource{}, err
	}
	return r, nil
}

// EnsureCreated inserts r under r.ID unless a document with that ID already
// exists, and returns whatever is stored. created reports whether this call
// inserted it. Retrying with the same ID never produces a second resource.
func (s *Store) EnsureCreated(ctx context.Context, r models.Resource) (out models.Resource, created bool, err error) {
	if r.ID.IsZero() {
		return models.Resource{}, false, mongo.CommandError{Message: "id is required"}
	}
	r.TitleCI = text.Fold(r.Title)
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = &now
	if r.Number <= 0 {
		return models.Resource{}, false, mongo.CommandError{Message: "number is required"}
	}
	if err := validate(r); err != nil {
		return models.Resource{}, false, err
	}

	doc := bson.M{
		"number":      r.Number,
		"title":       r.Title,
		"title_ci":    r.TitleCI,
		"category":    r.Category,
		"description": r.Description,
		"website":     r.Website,
		"image_url":   r.ImageURL,
		"created_at":  r.CreatedAt,
		"updated_at":  r.UpdatedAt,
	}
	if r.SourcePendingID != nil {
		doc["source_pending_id"] = *r.SourcePendingID
	}
	if r.CreatedByID != nil {
		doc["created_by_id"] = *r.CreatedByID
		doc["created_by_name"] = r.CreatedByName
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": r.ID},
		bson.M{"$setOnInsert": doc},
		options.Update().SetUpsert(true))
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Resource{}, false, ErrDuplicate
		}
		return models.Resource{}, false, err
	}
	if res.UpsertedCount == 1 {
		return r, true, nil
	}
	existing, err := s.GetByID(ctx, r.ID)
	return existing, false, err
}

// Update overwrites the editable fields of the resource addressed by id and
// returns the stored result. Number and provenance are never touched.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, in models.ResourceInput, byID *primitive.ObjectID, byName string) (models.Resource, error) {
	r := models.Resource{
		Title:       strings.TrimSpace(in.Title),
		Category:    in.Category,
		Description: in.Description,
		Website:     in.Website,
		ImageURL:    in.ImageURL,
	}
	if err := validate(r); err != nil {
		return models.Resource{}, err
	}
	now := time.Now().UTC()
	set := bson.M{
		"title":       r.Title,
		"title_ci":    text.Fold(r.Title),
		"category":    r.Category,
		"description": r.Description,
		"website":     r.Website,
		"image_url":   r.ImageURL,
		"updated_at":  now,
	}
	if byID != nil {
		set["updated_by_id"] = *byID
		set["updated_by_name"] = byName
	}
	var out models.Resource
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Resource{}, ErrNotFound
		}
		return models.Resource{}, err
	}
	return out, nil
}

// GetByID returns the resource stored at id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Resource, error) {
	var r models.Resource
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Resource{}, ErrNotFound
		}
		return models.Resource{}, err
	}
	return r, nil
}

// Delete removes the resource at id and returns the document as it was
// stored. ErrNotFound means nothing was at id.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (models.Resource, error) {
	var r models.Resource
	if err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Resource{}, ErrNotFound
		}
		return models.Resource{}, err
	}
	return r, nil
}

// List returns every resource ordered by title.
func (s *Store) List(ctx context.Context) ([]models.Resource, error) {
	opts := options.Find().SetSort(bson.D{{Key: "title_ci", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Resource{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MaxNumber returns the highest number in use, or 0 when empty.
func (s *Store) MaxNumber(ctx context.Context) (int64, error) {
	var r struct {
		Number int64 `bson:"number"`
	}
	opts := options.FindOne().
		SetSort(bson.D{{Key: "number", Value: -1}}).
		SetProjection(bson.M{"number": 1})
	err := s.c.FindOne(ctx, bson.M{}, opts).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return r.Number, nil
}

// Count returns the number of published resources.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/compass/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParam adds a chi URL parameter to the request context.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures inserts test records directly, bypassing stores and validation.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

func (f *Fixtures) DB() *mongo.Database { return f.db }

// CreateResource inserts a published resource with the given number.
func (f *Fixtures) CreateResource(ctx context.Context, number int64, title string, cat models.Category, description string) models.Resource {
	f.t.Helper()

	r := models.Resource{
		ID:          primitive.NewObjectID(),
		Number:      number,
		Title:       title,
		TitleCI:     text.Fold(title),
		Category:    cat,
		Description: description,
		Website:     "https://example.org",
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := f.db.Collection("resources").InsertOne(ctx, r); err != nil {
		f.t.Fatalf("failed to create test resource: %v", err)
	}
	return r
}

// CreatePending inserts a submission in the pending state.
func (f *Fixtures) CreatePending(ctx context.Context, name string, cat models.PendingCategory, description, website string) models.PendingResource {
	f.t.Helper()

	p := models.PendingResource{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Category:    cat,
		Description: description,
		WebsiteURL:  website,
		Status:      models.PendingStatusPending,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := f.db.Collection("pending_resources").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test submission: %v", err)
	}
	return p
}

// SetResourceImage stores ref as the resource's image reference.
func (f *Fixtures) SetResourceImage(ctx context.Context, id primitive.ObjectID, ref string) {
	f.t.Helper()

	if _, err := f.db.Collection("resources").UpdateByID(ctx, id, bson.M{"$set": bson.M{"image_url": ref}}); err != nil {
		f.t.Fatalf("failed to set resource image: %v", err)
	}
}

// MarkApproving puts a submission into the claimed state, as if an approval
// had stopped after claiming it.
func (f *Fixtures) MarkApproving(ctx context.Context, id primitive.ObjectID, resourceID primitive.ObjectID, claimedAt time.Time) {
	f.t.Helper()

	_, err := f.db.Collection("pending_resources").UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":               models.PendingStatusApproving,
		"approved_resource_id": resourceID,
		"claimed_at":           claimedAt,
	}})
	if err != nil {
		f.t.Fatalf("failed to mark submission approving: %v", err)
	}
}

// CreateAdmin inserts an active admin account with the given password.
func (f *Fixtures) CreateAdmin(ctx context.Context, name, email, password string) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("hash password: %v", err)
	}
	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		FullName:     name,
		FullNameCI:   text.Fold(name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test admin: %v", err)
	}
	return u
}

// CountResources returns how many published resources exist.
func (f *Fixtures) CountResources(ctx context.Context) int64 {
	f.t.Helper()
	n, err := f.db.Collection("resources").CountDocuments(ctx, bson.M{})
	if err != nil {
		f.t.Fatalf("count resources: %v", err)
	}
	return n
}

// CountPending returns how many submissions exist in any state.
func (f *Fixtures) CountPending(ctx context.Context) int64 {
	f.t.Helper()
	n, err := f.db.Collection("pending_resources").CountDocuments(ctx, bson.M{})
	if err != nil {
		f.t.Fatalf("count pending: %v", err)
	}
	return n
}

package validators_test

import (
	"testing"
	"time"

	"github.com/dalemusser/compass/internal/app/system/validators"
	"github.com/dalemusser/compass/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("first EnsureAll: %v", err)
	}
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("second EnsureAll: %v", err)
	}
}

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames: %v", err)
	}
	have := map[string]bool{}
	for _, n := range names {
		have[n] = true
	}
	for _, want := range []string{"resources", "pending_resources", "users", "counters", "audit_events"} {
		if !have[want] {
			t.Errorf("expected collection %q to exist", want)
		}
	}
}

func TestResourcesValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	c := db.Collection("resources")

	tests := []struct {
		name    string
		doc     bson.M
		wantErr bool
	}{
		{
			name: "valid",
			doc:  bson.M{"number": int64(1), "title": "Food Bank", "title_ci": "food bank", "category": "Food"},
		},
		{
			name:    "missing number",
			doc:     bson.M{"title": "Food Bank", "title_ci": "food bank", "category": "Food"},
			wantErr: true,
		},
		{
			name:    "blank title",
			doc:     bson.M{"number": int64(2), "title": "   ", "title_ci": "x", "category": "Food"},
			wantErr: true,
		},
		{
			name:    "submission category",
			doc:     bson.M{"number": int64(3), "title": "Bus", "title_ci": "bus", "category": "Transportation"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.InsertOne(ctx, tt.doc)
			if (err != nil) != tt.wantErr {
				t.Errorf("InsertOne error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPendingResourcesValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	c := db.Collection("pending_resources")

	ok := bson.M{
		"name":       "ESL Class",
		"category":   "Education/ESL",
		"status":     "pending",
		"created_at": time.Now(),
	}
	if _, err := c.InsertOne(ctx, ok); err != nil {
		t.Errorf("valid submission rejected: %v", err)
	}

	claimed := bson.M{
		"name":                 "Bus Pass",
		"category":             "Transportation",
		"status":               "approving",
		"approved_resource_id": primitive.NewObjectID(),
		"created_at":           time.Now(),
	}
	if _, err := c.InsertOne(ctx, claimed); err != nil {
		t.Errorf("claimed submission rejected: %v", err)
	}

	bad := bson.M{
		"name":       "ESL Class",
		"category":   "Education",
		"status":     "pending",
		"created_at": time.Now(),
	}
	if _, err := c.InsertOne(ctx, bad); err == nil {
		t.Error("expected published category to be rejected on a submission")
	}

	badStatus := bson.M{
		"name":       "ESL Class",
		"category":   "Education/ESL",
		"status":     "published",
		"created_at": time.Now(),
	}
	if _, err := c.InsertOne(ctx, badStatus); err == nil {
		t.Error("expected unknown status to be rejected")
	}
}

func TestUsersValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	c := db.Collection("users")

	if _, err := c.InsertOne(ctx, bson.M{"email": "a@example.com"}); err == nil {
		t.Error("expected user without required fields to be rejected")
	}
	valid := bson.M{
		"full_name":     "Site Admin",
		"email":         "admin@example.com",
		"password_hash": "$2a$10$abcdefghijklmnopqrstuv",
		"role":          "admin",
		"status":        "active",
	}
	if _, err := c.InsertOne(ctx, valid); err != nil {
		t.Errorf("valid user rejected: %v", err)
	}
}

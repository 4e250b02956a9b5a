package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/dalemusser/compass/internal/app/store/users"
	"github.com/dalemusser/compass/internal/app/system/indexes"
	"github.com/dalemusser/compass/internal/domain/models"
	"github.com/dalemusser/compass/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

func newStore(db *mongo.Database) *userstore.Store {
	return userstore.New(db).WithCost(bcrypt.MinCost)
}

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := newStore(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, "  Rosa   Díaz ", "Rosa@Example.COM ", "correct horse")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.FullName != "Rosa Díaz" {
		t.Errorf("FullName: got %q, want %q", created.FullName, "Rosa Díaz")
	}
	if created.Email != "rosa@example.com" {
		t.Errorf("Email: got %q, want %q", created.Email, "rosa@example.com")
	}
	if created.Role != models.RoleAdmin {
		t.Errorf("Role: got %q, want %q", created.Role, models.RoleAdmin)
	}
	if created.Status != "active" {
		t.Errorf("Status: got %q, want %q", created.Status, "active")
	}
	if created.PasswordHash == "" || created.PasswordHash == "correct horse" {
		t.Error("expected password to be hashed")
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestStore_Create_Invalid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := newStore(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tests := []struct {
		name, full, email, password string
	}{
		{"missing name", "", "a@example.com", "longenough"},
		{"bad email", "A", "not-an-email", "longenough"},
		{"empty email", "A", "", "longenough"},
		{"short password", "A", "a@example.com", "short"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.Create(ctx, tt.full, tt.email, tt.password); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	store := newStore(db)

	if _, err := store.Create(ctx, "First", "dup@example.com", "password1"); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, "Second", "DUP@example.com", "password2")
	if !errors.Is(err, userstore.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestStore_Authenticate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := newStore(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateAdmin(ctx, "Admin", "admin@example.com", "s3cret-pass")

	u, err := store.Authenticate(ctx, "ADMIN@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if u.ID != admin.ID {
		t.Errorf("ID: got %s, want %s", u.ID.Hex(), admin.ID.Hex())
	}

	if _, err := store.Authenticate(ctx, "admin@example.com", "wrong"); !errors.Is(err, userstore.ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := store.Authenticate(ctx, "nobody@example.com", "s3cret-pass"); !errors.Is(err, userstore.ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestStore_Authenticate_Disabled(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := newStore(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateAdmin(ctx, "Admin", "off@example.com", "s3cret-pass")
	if _, err := db.Collection("users").UpdateByID(ctx, admin.ID, map[string]any{"$set": map[string]any{"status": "disabled"}}); err != nil {
		t.Fatalf("disable: %v", err)
	}

	if _, err := store.Authenticate(ctx, "off@example.com", "s3cret-pass"); !errors.Is(err, userstore.ErrDisabled) {
		t.Errorf("expected ErrDisabled, got %v", err)
	}
}

func TestStore_TouchLastLogin_Count(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := newStore(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Count: got %d, want 0", n)
	}

	admin := fixtures.CreateAdmin(ctx, "Admin", "admin@example.com", "s3cret-pass")
	if err := store.TouchLastLogin(ctx, admin.ID); err != nil {
		t.Fatalf("TouchLastLogin failed: %v", err)
	}

	got, err := store.GetByID(ctx, admin.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.LastLoginAt == nil {
		t.Error("expected LastLoginAt to be set")
	}

	n, _ = store.Count(ctx)
	if n != 1 {
		t.Errorf("Count: got %d, want 1", n)
	}
}

func TestStore_GetByIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := newStore(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fixtures.CreateAdmin(ctx, "Admin A", "a@example.com", "s3cret-pass")
	b := fixtures.CreateAdmin(ctx, "Admin B", "b@example.com", "s3cret-pass")
	fixtures.CreateAdmin(ctx, "Admin C", "c@example.com", "s3cret-pass")

	got, err := store.GetByIDs(ctx, []primitive.ObjectID{a.ID, b.ID, primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("GetByIDs failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("GetByIDs: got %d users, want 2", len(got))
	}

	none, err := store.GetByIDs(ctx, nil)
	if err != nil || none != nil {
		t.Errorf("GetByIDs(nil): got (%v, %v)", none, err)
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("pw-12345"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if !userstore.CheckPassword(string(hash), "pw-12345") {
		t.Error("expected match")
	}
	if userstore.CheckPassword(string(hash), "pw-1234") {
		t.Error("expected mismatch")
	}
	if userstore.CheckPassword("", "") {
		t.Error("empty hash must never match")
	}
}

func TestFetcher_FetchUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateAdmin(ctx, "Fetch Me", "fetch@example.com", "s3cret-pass")
	f := userstore.NewFetcher(db)

	su := f.FetchUser(ctx, admin.ID.Hex())
	if su == nil {
		t.Fatal("expected session user")
	}
	if su.Name != "Fetch Me" || su.Email != "fetch@example.com" || su.Role != models.RoleAdmin {
		t.Errorf("unexpected session user: %+v", su)
	}

	if f.FetchUser(ctx, "not-hex") != nil {
		t.Error("malformed id should return nil")
	}
	if f.FetchUser(ctx, primitive.NewObjectID().Hex()) != nil {
		t.Error("unknown id should return nil")
	}
}

package auditlog_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/compass/internal/app/store/audit"
	"github.com/dalemusser/compass/internal/app/system/auditlog"
	"github.com/dalemusser/compass/internal/app/system/ratelimit"
	"github.com/dalemusser/compass/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestLogger_NilLogger(t *testing.T) {
	var logger *auditlog.Logger
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("GET", "/", nil)

	// These should all be no-ops, not panic
	logger.Log(ctx, audit.Event{EventType: "test"})
	logger.LoginSuccess(ctx, req, primitive.NewObjectID(), "a@example.com")
	logger.Logout(ctx, req, primitive.NewObjectID().Hex())
	logger.SubmissionFinalized(ctx, primitive.NewObjectID(), primitive.NewObjectID(), 1, "x")
}

func TestLogger_Log_Settings(t *testing.T) {
	tests := []struct {
		setting string
		wantDB  int
	}{
		{"off", 0},
		{"log", 0},
		{"db", 1},
		{"all", 1},
	}

	for _, tt := range tests {
		t.Run(tt.setting, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			store := audit.New(db)
			ctx, cancel := testutil.TestContext()
			defer cancel()

			logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: tt.setting, Admin: tt.setting})
			userID := primitive.NewObjectID()
			logger.Log(ctx, audit.Event{
				Category:  audit.CategoryAuth,
				EventType: audit.EventLoginSuccess,
				UserID:    &userID,
				Success:   true,
			})

			events, err := store.Query(ctx, audit.QueryFilter{UserID: &userID})
			if err != nil {
				t.Fatalf("Query failed: %v", err)
			}
			if len(events) != tt.wantDB {
				t.Errorf("stored events: got %d, want %d", len(events), tt.wantDB)
			}
		})
	}
}

func TestLogger_CategoryFilteredByConfig(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{
		Auth:  "off",
		Admin: "db",
	})
	req := httptest.NewRequest("POST", "/", nil)

	actor := primitive.NewObjectID()
	logger.LoginSuccess(ctx, req, actor, "admin@example.com")

	resourceID := primitive.NewObjectID()
	logger.ResourceUpdated(ctx, req, actor, resourceID, 12, "ESL Class")

	// Public events are always recorded.
	pendingID := primitive.NewObjectID()
	logger.SubmissionReceived(ctx, req, pendingID, "Food Bank", "Essential Services")

	if n, _ := store.CountByFilter(ctx, audit.QueryFilter{Category: audit.CategoryAuth}); n != 0 {
		t.Errorf("auth events: got %d, want 0", n)
	}

	events, _ := store.Query(ctx, audit.QueryFilter{TargetID: &resourceID})
	if len(events) != 1 {
		t.Fatalf("admin events: got %d, want 1", len(events))
	}
	if events[0].Details["number"] != "12" || events[0].Details["title"] != "ESL Class" {
		t.Errorf("unexpected details: %v", events[0].Details)
	}

	if n, _ := store.CountByFilter(ctx, audit.QueryFilter{TargetID: &pendingID}); n != 1 {
		t.Errorf("public events: got %d, want 1", n)
	}
}

func TestLogger_SubmissionEvents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: "db", Admin: "db"})
	req := httptest.NewRequest("POST", "/", nil)
	actor := primitive.NewObjectID()

	approved := primitive.NewObjectID()
	resourceID := primitive.NewObjectID()
	logger.SubmissionApproved(ctx, req, actor, approved, resourceID, 3, "ESL Class")

	rejected := primitive.NewObjectID()
	logger.SubmissionRejected(ctx, req, actor, rejected, "Spam")

	events, _ := store.Query(ctx, audit.QueryFilter{TargetID: &approved})
	if len(events) != 1 || events[0].EventType != audit.EventSubmissionApproved {
		t.Fatalf("approved: unexpected events %+v", events)
	}
	if events[0].Details["resource_id"] != resourceID.Hex() {
		t.Errorf("resource_id: got %q", events[0].Details["resource_id"])
	}
	if events[0].ActorID == nil || *events[0].ActorID != actor {
		t.Error("expected actor to be recorded")
	}

	events, _ = store.Query(ctx, audit.QueryFilter{TargetID: &rejected})
	if len(events) != 1 || events[0].EventType != audit.EventSubmissionRejected {
		t.Fatalf("rejected: unexpected events %+v", events)
	}
	if events[0].Details["name"] != "Spam" {
		t.Errorf("name: got %q", events[0].Details["name"])
	}
}

func TestLogger_Logout_InvalidID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: "db"})
	logger.Logout(ctx, httptest.NewRequest("POST", "/", nil), "not-an-id")

	events, _ := store.GetRecent(ctx, 10)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].UserID != nil {
		t.Error("expected nil UserID for malformed id")
	}
}

func TestGetClientIP(t *testing.T) {
	if err := ratelimit.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		t.Fatalf("SetTrustedProxies failed: %v", err)
	}
	defer func() { _ = ratelimit.SetTrustedProxies(nil) }()

	tests := []struct {
		name       string
		xff, xreal string
		remote     string
		want       string
	}{
		{"forwarded for wins", "203.0.113.195, 10.0.0.1", "192.168.1.1", "127.0.0.1:12345", "203.0.113.195"},
		{"real ip", "", "192.168.1.100", "127.0.0.1:12345", "192.168.1.100"},
		{"remote addr", "", "", "10.0.0.5:12345", "10.0.0.5"},
		{"untrusted peer", "203.0.113.195", "192.168.1.1", "10.0.0.5:12345", "10.0.0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			store := audit.New(db)
			ctx, cancel := testutil.TestContext()
			defer cancel()

			logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: "db"})
			req := httptest.NewRequest("GET", "/", nil)
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xreal != "" {
				req.Header.Set("X-Real-IP", tt.xreal)
			}
			req.RemoteAddr = tt.remote

			userID := primitive.NewObjectID()
			logger.LoginSuccess(ctx, req, userID, "a@example.com")

			events, _ := store.Query(ctx, audit.QueryFilter{UserID: &userID})
			if len(events) != 1 {
				t.Fatalf("expected 1 event, got %d", len(events))
			}
			if events[0].IP != tt.want {
				t.Errorf("IP: got %q, want %q", events[0].IP, tt.want)
			}
		})
	}
}

package auditlog_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/compass/internal/app/features/auditlog"
	uierrors "github.com/dalemusser/compass/internal/app/features/errors"
	"github.com/dalemusser/compass/internal/app/store/audit"
	"github.com/dalemusser/compass/internal/app/system/auth"
	"github.com/dalemusser/compass/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) *auditlog.Handler {
	t.Helper()
	testutil.BootTemplates(t)
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)
	return auditlog.NewHandler(db, errLog, logger)
}

func serve(t *testing.T, h *auditlog.Handler, req *http.Request) string {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	return rec.Body.String()
}

func assertContains(t *testing.T, body string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(body, want) {
			t.Errorf("audit page missing %q", want)
		}
	}
}

func TestServeList_AdminUser(t *testing.T) {
	handler := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	actor := primitive.NewObjectID()
	for _, e := range []audit.Event{
		{Category: audit.CategoryAdmin, EventType: audit.EventResourceCreated, ActorID: &actor, Success: true,
			Details: map[string]string{"title": "Food Bank", "number": "1"}},
		{Category: audit.CategoryAuth, EventType: audit.EventLoginFailedWrongPassword, UserID: &actor},
	} {
		if err := handler.Events.Log(ctx, e); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/admin/audit", testutil.AdminUser())
	body := serve(t, handler, req)

	assertContains(t, body,
		"<h1>Audit Log</h1>",
		"title: Food Bank",
		"Page 1 of 1 (2 events)",
		`class="row-failed"`,
	)
}

func TestServeList_WithFilters(t *testing.T) {
	handler := newTestHandler(t)

	req := testutil.NewAuthenticatedRequest(http.MethodGet,
		"/admin/audit?category=auth&event_type=login_success&start_date=2024-01-01&end_date=2024-12-31&page=1",
		testutil.AdminUser())
	body := serve(t, handler, req)

	assertContains(t, body,
		`<option value="auth" selected>`,
		`<option value="login_success" selected>`,
		`value="2024-01-01"`,
		`value="2024-12-31"`,
		"No events match these filters.",
	)
}

func TestServeList_BadPageAndDates(t *testing.T) {
	handler := newTestHandler(t)

	req := testutil.NewAuthenticatedRequest(http.MethodGet,
		"/admin/audit?page=-3&start_date=yesterday&end_date=2024-13-45",
		testutil.AdminUser())
	body := serve(t, handler, req)

	assertContains(t, body, "Page 1 of 1 (0 events)")
}

func TestRoutes_RequireAdmin(t *testing.T) {
	handler := newTestHandler(t)
	logger := zap.NewNop()

	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", 24*time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	router := auditlog.Routes(handler, sessionMgr)

	t.Run("anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
		}
	})

	t.Run("non-admin role", func(t *testing.T) {
		user := testutil.AdminUser()
		user.Role = "viewer"
		req := testutil.NewAuthenticatedRequest(http.MethodGet, "/", user)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("expected status %d, got %d", http.StatusForbidden, rec.Code)
		}
	})
}

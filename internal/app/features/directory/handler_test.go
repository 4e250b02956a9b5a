package directory_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/compass/internal/app/features/directory"
	uierrors "github.com/dalemusser/compass/internal/app/features/errors"
	"github.com/dalemusser/compass/internal/domain/models"
	"github.com/dalemusser/compass/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*directory.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	return directory.NewHandler(db, uierrors.NewErrorLogger(logger), logger), testutil.NewFixtures(t, db)
}

func decodeTitles(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	var got []models.Resource
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	titles := make([]string, len(got))
	for i, r := range got {
		titles[i] = r.Title
	}
	return titles
}

func seed(t *testing.T, f *testutil.Fixtures) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f.CreateResource(ctx, 1, "Westside Food Bank", models.CategoryFood, "Weekly groceries")
	f.CreateResource(ctx, 2, "Adult ESL Night Class", models.CategoryEducation, "Free classes")
	f.CreateResource(ctx, 3, "Community Fridge", models.CategoryFood, "Run with the FOOD BANK network")
	f.CreateResource(ctx, 4, "Bus Buddies", models.CategoryTransit, "Ride along help")
}

func TestServeAPI_All(t *testing.T) {
	h, f := newTestHandler(t)
	seed(t, f)

	rec := httptest.NewRecorder()
	h.ServeAPI(rec, httptest.NewRequest(http.MethodGet, "/api/resources", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q", ct)
	}
	titles := decodeTitles(t, rec)
	want := []string{"Adult ESL Night Class", "Bus Buddies", "Community Fridge", "Westside Food Bank"}
	if len(titles) != len(want) {
		t.Fatalf("got %v, want %v", titles, want)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Errorf("[%d]: got %q, want %q", i, titles[i], want[i])
		}
	}
}

func TestServeAPI_Filtered(t *testing.T) {
	h, f := newTestHandler(t)
	seed(t, f)

	tests := []struct {
		name   string
		target string
		want   []string
	}{
		{"query in title or description", "/api/resources?q=food+bank", []string{"Community Fridge", "Westside Food Bank"}},
		{"category", "/api/resources?category=Transit", []string{"Bus Buddies"}},
		{"category and query", "/api/resources?category=Food&q=weekly", []string{"Westside Food Bank"}},
		{"all keyword", "/api/resources?category=all&q=esl", []string{"Adult ESL Night Class"}},
		{"no match", "/api/resources?q=dentist", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeAPI(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			got := decodeTitles(t, rec)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("[%d]: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestServeList(t *testing.T) {
	testutil.BootTemplates(t)
	h, f := newTestHandler(t)
	seed(t, f)

	rec := httptest.NewRecorder()
	h.ServeList(rec, httptest.NewRequest(http.MethodGet, "/directory?q=bus", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"<h1>Resource Directory</h1>", "Showing 1 of 4 resources", "Bus Buddies", `value="bus"`} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(body, "Westside Food Bank") {
		t.Error("filtered-out resource rendered")
	}
}

func TestServeList_Images(t *testing.T) {
	testutil.BootTemplates(t)
	h, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	png := f.CreateResource(ctx, 1, "Pantry", models.CategoryFood, "")
	f.SetResourceImage(ctx, png.ID, "data:image/png;base64,iVBORw0KGgo=")
	remote := f.CreateResource(ctx, 2, "Library", models.CategoryEducation, "")
	f.SetResourceImage(ctx, remote.ID, "https://cdn.example.org/library.jpg")
	svg := f.CreateResource(ctx, 3, "Clinic", models.CategoryOther, "")
	f.SetResourceImage(ctx, svg.ID, "data:image/svg+xml;base64,PHN2Zz48L3N2Zz4=")

	rec := httptest.NewRecorder()
	h.ServeList(rec, httptest.NewRequest(http.MethodGet, "/directory", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `<img src="data:image/png;base64,iVBORw0KGgo="`) {
		t.Errorf("inline image not rendered as given: %s", body)
	}
	if !strings.Contains(body, `<img src="https://cdn.example.org/library.jpg"`) {
		t.Error("remote image not rendered")
	}
	if strings.Contains(body, "ZgotmplZ") {
		t.Error("image source was rejected by the template escaper")
	}
	if strings.Contains(body, "svg") {
		t.Error("unsupported image type rendered")
	}
	if n := strings.Count(body, "<img "); n != 2 {
		t.Errorf("img tags: got %d, want 2", n)
	}
}

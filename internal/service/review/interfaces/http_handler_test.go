package interfaces

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace/noop"

	"storefront/internal/pkg/httpx"
	"storefront/internal/pkg/idgen"
	"storefront/internal/service/review/application"
	"storefront/internal/service/review/domain"
	"storefront/internal/service/review/infrastructure"
	"storefront/internal/service/review/infrastructure/rule"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	policy, err := rule.NewCELPolicy("")
	if err != nil {
		t.Fatalf("NewCELPolicy failed: %v", err)
	}
	svc := application.NewReviewService(
		infrastructure.NewMemoryReviewRepository(domain.SeedReviews()),
		policy,
		infrastructure.NoopPublisher{},
		idgen.NewSequence("rev", 1000),
		func() time.Time { return time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC) },
		noop.NewTracerProvider().Tracer("test"),
	)
	mux := http.NewServeMux()
	NewReviewHandler(svc).RegisterRoutes(mux)
	return mux
}

func serve(mux http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestHandler_ListReviews(t *testing.T) {
	mux := newTestMux(t)

	rec := serve(mux, http.MethodGet, "/api/v1/reviews/prod-123?limit=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp application.ReviewsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode reviews: %v", err)
	}
	if len(resp.Reviews) != 2 || resp.Reviews[0].User != "Alice" {
		t.Errorf("Unexpected reviews: %+v", resp.Reviews)
	}

	tests := []struct {
		path       string
		wantStatus int
		wantDetail string
	}{
		{"/api/v1/reviews/prod-999", http.StatusNotFound, "No reviews for this product"},
		{"/api/v1/reviews/prod-123?limit=0", http.StatusBadRequest, "limit must be at least 1"},
		{"/api/v1/reviews/prod-123?limit=x", http.StatusBadRequest, "limit must be an integer"},
		{"/api/v1/reviews/prod-123?sort=helpful", http.StatusBadRequest, "sort must be one of recent, oldest, rating"},
	}
	for _, tt := range tests {
		rec := serve(mux, http.MethodGet, tt.path, "")
		if rec.Code != tt.wantStatus {
			t.Errorf("%s: expected %d, got %d", tt.path, tt.wantStatus, rec.Code)
			continue
		}
		var body httpx.ErrorBody
		json.Unmarshal(rec.Body.Bytes(), &body)
		if body.Detail != tt.wantDetail {
			t.Errorf("%s: expected detail %q, got %q", tt.path, tt.wantDetail, body.Detail)
		}
	}
}

func TestHandler_AddReview(t *testing.T) {
	mux := newTestMux(t)

	rec := serve(mux, http.MethodPost, "/api/v1/reviews/prod-123", `{"user":"Gus","text":"Great sound","rating":5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp application.AddReviewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.ID != "rev-1000" || resp.Message != "Review added!" || resp.Date != "2025-03-02" {
		t.Errorf("Unexpected response: %+v", resp)
	}

	rec = serve(mux, http.MethodGet, "/api/v1/reviews/prod-123?limit=1", "")
	if !strings.Contains(rec.Body.String(), `"id":"rev-1000"`) {
		t.Errorf("Expected posted review to be listed first, got %s", rec.Body.String())
	}

	rec = serve(mux, http.MethodPost, "/api/v1/reviews/prod-999", `{"user":"Gus","text":"?","rating":5}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown product, got %d", rec.Code)
	}
	rec = serve(mux, http.MethodPost, "/api/v1/reviews/prod-123", `{"user":"Gus","text":"","rating":5}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for rejected review, got %d", rec.Code)
	}
	rec = serve(mux, http.MethodPost, "/api/v1/reviews/prod-123", `{"rating":"five"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed body, got %d", rec.Code)
	}
}

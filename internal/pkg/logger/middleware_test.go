package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestMiddleware_InjectsContextLogger(t *testing.T) {
	Init("test-service", "debug", false)

	var got *zerolog.Logger
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = Ctx(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("Expected status %d, got %d", http.StatusTeapot, rec.Code)
	}
	if got == nil || got.GetLevel() == zerolog.Disabled {
		t.Fatalf("Expected an enabled logger in request context")
	}
}

func TestCtx_FallsBackToGlobalLogger(t *testing.T) {
	Init("test-service", "info", false)

	l := Ctx(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	if l.GetLevel() == zerolog.Disabled {
		t.Errorf("Expected fallback logger to be enabled")
	}
}

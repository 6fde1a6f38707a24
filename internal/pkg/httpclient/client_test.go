package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"storefront/internal/pkg/apperr"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	tracer := sdktrace.NewTracerProvider().Tracer("test")
	return NewClient(tracer, StaticResolver{"svc": server.URL + "/"}, time.Second), server
}

func TestClient_GetJSON(t *testing.T) {
	var gotQuery, gotTraceparent string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotTraceparent = r.Header.Get("traceparent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"Smart Watch"}`))
	})

	var out struct {
		Name string `json:"name"`
	}
	query := url.Values{"limit": []string{"2"}}
	if err := client.GetJSON(context.Background(), "svc", "/api/v1/products/prod-456", query, &out); err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if out.Name != "Smart Watch" {
		t.Errorf("Expected name Smart Watch, got %q", out.Name)
	}
	if gotQuery != "limit=2" {
		t.Errorf("Expected query limit=2, got %q", gotQuery)
	}
	if gotTraceparent == "" {
		t.Errorf("Expected traceparent header to be injected")
	}
}

func TestClient_PostJSON(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var in map[string]any
		json.NewDecoder(r.Body).Decode(&in)
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"echo": in["productId"]})
	})

	var out map[string]string
	err := client.PostJSON(context.Background(), "svc", "/reserve", map[string]any{"productId": "prod-123"}, &out)
	if err != nil {
		t.Fatalf("PostJSON failed: %v", err)
	}
	if out["echo"] != "prod-123" {
		t.Errorf("Expected echo prod-123, got %v", out)
	}
}

func TestClient_StatusErrors(t *testing.T) {
	tests := []struct {
		status     int
		body       string
		wantDetail string
		wantKind   error
	}{
		{http.StatusNotFound, `{"detail":"Product not found"}`, "Product not found", apperr.ErrNotFound},
		{http.StatusBadRequest, `{"detail":"Insufficient stock"}`, "Insufficient stock", apperr.ErrInvalidRequest},
		{http.StatusServiceUnavailable, `oops`, "Service Unavailable", nil},
	}
	for _, tt := range tests {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			w.Write([]byte(tt.body))
		})

		err := client.GetJSON(context.Background(), "svc", "/x", nil, nil)
		var se *StatusError
		if !errors.As(err, &se) {
			t.Fatalf("Expected StatusError, got %v", err)
		}
		if se.StatusCode != tt.status || se.Detail != tt.wantDetail {
			t.Errorf("Expected %d %q, got %d %q", tt.status, tt.wantDetail, se.StatusCode, se.Detail)
		}
		if tt.wantKind != nil && !errors.Is(err, tt.wantKind) {
			t.Errorf("Expected error kind %v, got %v", tt.wantKind, err)
		}
	}
}

func TestClient_Unavailable(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	err := client.GetJSON(context.Background(), "svc", "/x", nil, nil)
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusBadGateway {
		t.Fatalf("Expected 502 StatusError for closed server, got %v", err)
	}

	err = client.GetJSON(context.Background(), "missing", "/x", nil, nil)
	if !errors.As(err, &se) || se.StatusCode != http.StatusBadGateway || se.Detail != "missing unavailable" {
		t.Errorf("Expected 502 for unresolvable service, got %v", err)
	}
}

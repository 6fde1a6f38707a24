package interfaces

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace/noop"

	"storefront/internal/pkg/httpx"
	"storefront/internal/pkg/idgen"
	"storefront/internal/service/inventory/application"
	"storefront/internal/service/inventory/domain"
	"storefront/internal/service/inventory/infrastructure"
)

func newTestMux(t *testing.T) (*http.ServeMux, *StockHub) {
	t.Helper()
	ledger := domain.NewLedger(map[string]int{"prod-123": 15, "prod-456": 8}, idgen.NewSequence("res", 1))
	svc := application.NewInventoryService(
		infrastructure.NewMemoryLedgerStore(ledger),
		infrastructure.NoopPublisher{},
		application.NewMetrics(prometheus.NewRegistry()),
		noop.NewTracerProvider().Tracer("test"),
		5,
	)
	hub := NewStockHub(svc.ToStockResponse)
	svc.SetObserver(hub)

	mux := http.NewServeMux()
	NewInventoryHandler(svc, hub).RegisterRoutes(mux)
	return mux, hub
}

func doRequest(mux http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body httpx.ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode error body %q: %v", rec.Body.String(), err)
	}
	return body.Detail
}

func TestHandler_GetStock(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := doRequest(mux, http.MethodGet, "/api/v1/inventory/prod-123", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp application.StockResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.ProductID != "prod-123" || resp.Quantity != 15 || !resp.Available || resp.LowStockThreshold != 5 {
		t.Errorf("Unexpected stock response: %+v", resp)
	}

	rec = doRequest(mux, http.MethodGet, "/api/v1/inventory/prod-999", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}
	if detail := decodeDetail(t, rec); detail != "Product not in inventory" {
		t.Errorf("Expected detail 'Product not in inventory', got %q", detail)
	}
}

func TestHandler_ReserveCommitFlow(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := doRequest(mux, http.MethodPost, "/api/v1/inventory/reserve", `{"productId":"prod-123","quantity":5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var reserved application.ReserveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &reserved); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !reserved.Success || reserved.ReservationID != "res-1" {
		t.Errorf("Unexpected reserve response: %+v", reserved)
	}

	rec = doRequest(mux, http.MethodPost, "/api/v1/inventory/commit", `{"reservationId":"res-1","commit":false}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 on cancel, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"success":true`) {
		t.Errorf("Expected success true, got %s", rec.Body.String())
	}

	rec = doRequest(mux, http.MethodGet, "/api/v1/inventory/prod-123", "")
	if !strings.Contains(rec.Body.String(), `"quantity":15`) {
		t.Errorf("Expected stock restored to 15, got %s", rec.Body.String())
	}

	rec = doRequest(mux, http.MethodPost, "/api/v1/inventory/commit", `{"reservationId":"res-1","commit":true}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for resolved reservation, got %d", rec.Code)
	}
}

func TestHandler_ReserveErrors(t *testing.T) {
	mux, _ := newTestMux(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantDetail string
	}{
		{"insufficient stock", `{"productId":"prod-123","quantity":20}`, http.StatusBadRequest, "Insufficient stock"},
		{"unknown product", `{"productId":"prod-999","quantity":1}`, http.StatusBadRequest, "Unknown product"},
		{"zero quantity", `{"productId":"prod-123","quantity":0}`, http.StatusBadRequest, "Quantity must be positive"},
		{"malformed body", `{"productId":`, http.StatusBadRequest, "invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(mux, http.MethodPost, "/api/v1/inventory/reserve", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("Expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if detail := decodeDetail(t, rec); detail != tt.wantDetail {
				t.Errorf("Expected detail %q, got %q", tt.wantDetail, detail)
			}
		})
	}

	rec := doRequest(mux, http.MethodGet, "/api/v1/inventory/prod-123", "")
	if !strings.Contains(rec.Body.String(), `"quantity":15`) {
		t.Errorf("Expected stock unchanged at 15, got %s", rec.Body.String())
	}
}

func wsURL(server *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(server.URL, "http") + path
}

func readStock(t *testing.T, conn *websocket.Conn) application.StockResponse {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var resp application.StockResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("Failed to read stock update: %v", err)
	}
	return resp
}

func TestHandler_WatchStreamsStockChanges(t *testing.T) {
	mux, hub := newTestMux(t)
	server := httptest.NewServer(mux)
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, "/api/v1/inventory/prod-456/watch"), nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	if first := readStock(t, conn); first.Quantity != 8 {
		t.Fatalf("Expected initial quantity 8, got %+v", first)
	}
	if hub.Watchers("prod-456") != 1 {
		t.Errorf("Expected 1 watcher, got %d", hub.Watchers("prod-456"))
	}

	resp, err := http.Post(server.URL+"/api/v1/inventory/reserve", "application/json", strings.NewReader(`{"productId":"prod-456","quantity":3}`))
	if err != nil {
		t.Fatalf("Reserve request failed: %v", err)
	}
	resp.Body.Close()

	update := readStock(t, conn)
	if update.Quantity != 5 || update.ProductID != "prod-456" {
		t.Errorf("Expected update to quantity 5, got %+v", update)
	}
}

func TestHandler_WatchUnknownProduct(t *testing.T) {
	mux, _ := newTestMux(t)
	server := httptest.NewServer(mux)
	defer server.Close()

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(server, "/api/v1/inventory/prod-999/watch"), nil)
	if err == nil {
		t.Fatalf("Expected dial to fail for unknown product")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 before upgrade, got %v", resp)
	}
}

func TestStockHub_DropsSlowWatcher(t *testing.T) {
	hub := NewStockHub(func(level domain.StockLevel) *application.StockResponse {
		return &application.StockResponse{ProductID: level.ProductID, Quantity: level.Quantity}
	})
	w := &watcher{productID: "prod-123", send: make(chan []byte, 1)}
	hub.register(w, []byte("initial"))

	hub.StockChanged(domain.StockLevel{ProductID: "prod-123", Quantity: 1})

	if hub.Watchers("prod-123") != 0 {
		t.Errorf("Expected slow watcher to be dropped, got %d watchers", hub.Watchers("prod-123"))
	}
	if msg := <-w.send; string(msg) != "initial" {
		t.Errorf("Expected buffered initial message, got %s", msg)
	}
	if _, ok := <-w.send; ok {
		t.Errorf("Expected send channel to be closed")
	}
}

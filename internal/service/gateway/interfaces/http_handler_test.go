package interfaces

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace/noop"

	"storefront/internal/pkg/constants"
	"storefront/internal/pkg/httpclient"
	"storefront/internal/pkg/httpx"
	"storefront/internal/pkg/idgen"
	catalogapp "storefront/internal/service/catalog/application"
	catalogdomain "storefront/internal/service/catalog/domain"
	cataloginfra "storefront/internal/service/catalog/infrastructure"
	catalogapi "storefront/internal/service/catalog/interfaces"
	"storefront/internal/service/gateway/application"
	"storefront/internal/service/gateway/domain"
	"storefront/internal/service/gateway/infrastructure/adapter"
	inventoryapp "storefront/internal/service/inventory/application"
	inventorydomain "storefront/internal/service/inventory/domain"
	inventoryinfra "storefront/internal/service/inventory/infrastructure"
	inventoryapi "storefront/internal/service/inventory/interfaces"
	reviewapp "storefront/internal/service/review/application"
	reviewdomain "storefront/internal/service/review/domain"
	reviewinfra "storefront/internal/service/review/infrastructure"
	"storefront/internal/service/review/infrastructure/rule"
	reviewapi "storefront/internal/service/review/interfaces"
)

var tracer = noop.NewTracerProvider().Tracer("test")

func startInventory(t *testing.T) *httptest.Server {
	t.Helper()
	ledger := inventorydomain.NewLedger(map[string]int{"prod-123": 15, "prod-456": 8}, idgen.NewSequence("res", 1))
	svc := inventoryapp.NewInventoryService(
		inventoryinfra.NewMemoryLedgerStore(ledger),
		inventoryinfra.NoopPublisher{},
		inventoryapp.NewMetrics(prometheus.NewRegistry()),
		tracer,
		5,
	)
	hub := inventoryapi.NewStockHub(svc.ToStockResponse)
	svc.SetObserver(hub)
	mux := http.NewServeMux()
	inventoryapi.NewInventoryHandler(svc, hub).RegisterRoutes(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func startCatalog(t *testing.T) *httptest.Server {
	t.Helper()
	svc := catalogapp.NewCatalogService(cataloginfra.NewMemoryProductRepository(catalogdomain.SeedProducts()), tracer)
	mux := http.NewServeMux()
	catalogapi.NewCatalogHandler(svc).RegisterRoutes(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func startReviews(t *testing.T) *httptest.Server {
	t.Helper()
	policy, err := rule.NewCELPolicy("")
	if err != nil {
		t.Fatalf("NewCELPolicy failed: %v", err)
	}
	svc := reviewapp.NewReviewService(
		reviewinfra.NewMemoryReviewRepository(reviewdomain.SeedReviews()),
		policy,
		reviewinfra.NoopPublisher{},
		idgen.NewSequence("rev", 1000),
		time.Now,
		tracer,
	)
	mux := http.NewServeMux()
	reviewapi.NewReviewHandler(svc).RegisterRoutes(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// newGateway 在真实的下游服务前搭建网关，resolver 中缺失的服务视为不可用
func newGateway(t *testing.T, resolver httpclient.StaticResolver) *http.ServeMux {
	t.Helper()
	client := httpclient.NewClient(tracer, resolver, 2*time.Second)
	svc := application.NewGatewayService(
		adapter.NewProductHTTPAdapter(client),
		adapter.NewReviewHTTPAdapter(client),
		adapter.NewInventoryHTTPAdapter(client),
		tracer,
	)
	mux := http.NewServeMux()
	NewGatewayHandler(svc).RegisterRoutes(mux)
	return mux
}

func fullGateway(t *testing.T) *http.ServeMux {
	return newGateway(t, httpclient.StaticResolver{
		constants.InventoryService: startInventory(t).URL,
		constants.ProductService:   startCatalog(t).URL,
		constants.ReviewService:    startReviews(t).URL,
	})
}

func call(mux http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func detail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body httpx.ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode error body %q: %v", rec.Body.String(), err)
	}
	return body.Detail
}

func TestGateway_Proxies(t *testing.T) {
	mux := fullGateway(t)

	rec := call(mux, http.MethodGet, "/api/product/prod-123", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"name":"Wireless Headphones"`) {
		t.Errorf("Unexpected product proxy response: %d %s", rec.Code, rec.Body.String())
	}

	rec = call(mux, http.MethodGet, "/api/review/prod-123?limit=1&sort=oldest", "")
	var reviews domain.Reviews
	json.Unmarshal(rec.Body.Bytes(), &reviews)
	if rec.Code != http.StatusOK || len(reviews.Reviews) != 1 || reviews.Reviews[0].ID != "rev-3" {
		t.Errorf("Unexpected review proxy response: %d %s", rec.Code, rec.Body.String())
	}

	rec = call(mux, http.MethodGet, "/api/inventory/prod-456", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"quantity":8`) {
		t.Errorf("Unexpected inventory proxy response: %d %s", rec.Code, rec.Body.String())
	}
}

func TestGateway_PassesThroughDownstreamErrors(t *testing.T) {
	mux := fullGateway(t)

	tests := []struct {
		path       string
		wantStatus int
		wantDetail string
	}{
		{"/api/product/prod-999", http.StatusNotFound, "Product not found"},
		{"/api/review/prod-999", http.StatusNotFound, "No reviews for this product"},
		{"/api/review/prod-123?sort=best", http.StatusBadRequest, "sort must be one of recent, oldest, rating"},
		{"/api/inventory/prod-999", http.StatusNotFound, "Product not in inventory"},
	}
	for _, tt := range tests {
		rec := call(mux, http.MethodGet, tt.path, "")
		if rec.Code != tt.wantStatus {
			t.Errorf("%s: expected %d, got %d", tt.path, tt.wantStatus, rec.Code)
			continue
		}
		if got := detail(t, rec); got != tt.wantDetail {
			t.Errorf("%s: expected detail %q, got %q", tt.path, tt.wantDetail, got)
		}
	}
}

func TestGateway_Overview(t *testing.T) {
	mux := fullGateway(t)

	rec := call(mux, http.MethodGet, "/api/products/prod-456/overview", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp application.OverviewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode overview: %v", err)
	}
	if resp.Product == nil || resp.Product.Name != "Smart Watch" {
		t.Errorf("Unexpected product section: %+v", resp.Product)
	}
	if resp.Stock == nil || resp.Stock.Quantity != 8 {
		t.Errorf("Unexpected stock section: %+v", resp.Stock)
	}
	if resp.Reviews == nil || resp.Reviews.AverageRating != 3.5 || len(resp.Reviews.Reviews) != 2 {
		t.Errorf("Unexpected reviews section: %+v", resp.Reviews)
	}

	rec = call(mux, http.MethodGet, "/api/products/prod-999/overview", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown product, got %d", rec.Code)
	}
}

func TestGateway_OverviewDegradesWhenInventoryDown(t *testing.T) {
	mux := newGateway(t, httpclient.StaticResolver{
		constants.ProductService: startCatalog(t).URL,
		constants.ReviewService:  startReviews(t).URL,
	})

	rec := call(mux, http.MethodGet, "/api/products/prod-123/overview", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp application.OverviewResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Stock != nil {
		t.Errorf("Expected no stock section, got %+v", resp.Stock)
	}
	if len(resp.Degraded) != 1 || resp.Degraded[0] != "stock" {
		t.Errorf("Expected stock to be degraded, got %v", resp.Degraded)
	}
}

func TestGateway_PlaceOrder(t *testing.T) {
	mux := fullGateway(t)

	rec := call(mux, http.MethodPost, "/api/order", `{"productId":"prod-123","quantity":5,"userId":"u-42"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var order domain.Order
	if err := json.Unmarshal(rec.Body.Bytes(), &order); err != nil {
		t.Fatalf("Failed to decode order: %v", err)
	}
	if order.Status != "confirmed" || order.ReservationID != "res-1" || order.OrderID == "" {
		t.Errorf("Unexpected order: %+v", order)
	}

	rec = call(mux, http.MethodGet, "/api/inventory/prod-123", "")
	if !strings.Contains(rec.Body.String(), `"quantity":10`) {
		t.Errorf("Expected committed order to leave 10 in stock, got %s", rec.Body.String())
	}

	rec = call(mux, http.MethodPost, "/api/order", `{"productId":"prod-123","quantity":11}`)
	if rec.Code != http.StatusBadRequest || detail(t, rec) != "Insufficient stock" {
		t.Errorf("Expected 400 Insufficient stock, got %d %s", rec.Code, rec.Body.String())
	}

	rec = call(mux, http.MethodPost, "/api/order", `{"productId":`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestGateway_InventoryUnavailable(t *testing.T) {
	mux := newGateway(t, httpclient.StaticResolver{})

	rec := call(mux, http.MethodGet, "/api/inventory/prod-123", "")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("Expected 502, got %d", rec.Code)
	}
	if got := detail(t, rec); got != constants.InventoryService+" unavailable" {
		t.Errorf("Unexpected detail %q", got)
	}
}

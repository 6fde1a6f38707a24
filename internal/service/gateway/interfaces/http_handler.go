// internal/service/gateway/interfaces/http_handler.go
package interfaces

import (
	"net/http"

	"github.com/pkg/errors"

	"storefront/internal/pkg/httpclient"
	"storefront/internal/pkg/httpx"
	"storefront/internal/service/gateway/application"
)

// GatewayHandler 是商品页访问的公共入口
type GatewayHandler struct {
	service *application.GatewayService
}

func NewGatewayHandler(service *application.GatewayService) *GatewayHandler {
	return &GatewayHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *GatewayHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/product/{id}", h.handleProduct)
	mux.HandleFunc("GET /api/review/{id}", h.handleReviews)
	mux.HandleFunc("GET /api/inventory/{id}", h.handleStock)
	mux.HandleFunc("GET /api/products/{id}/overview", h.handleOverview)
	mux.HandleFunc("POST /api/order", h.handlePlaceOrder)
}

func (h *GatewayHandler) handleProduct(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *GatewayHandler) handleReviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := h.service.GetReviews(r.Context(), r.PathValue("id"), q.Get("limit"), q.Get("sort"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *GatewayHandler) handleStock(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.GetStock(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *GatewayHandler) handleOverview(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Overview(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *GatewayHandler) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req application.PlaceOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	resp, err := h.service.PlaceOrder(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// writeError 原样透传下游的状态码和 detail，其余错误按类别映射
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var se *httpclient.StatusError
	if errors.As(err, &se) {
		httpx.WriteDetail(w, se.StatusCode, se.Detail)
		return
	}
	httpx.WriteError(w, r, err)
}

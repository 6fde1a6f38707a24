// internal/service/catalog/interfaces/http_handler.go
package interfaces

import (
	"net/http"

	"storefront/internal/pkg/httpx"
	"storefront/internal/service/catalog/application"
)

// CatalogHandler 封装了 product 服务的 HTTP 处理器
type CatalogHandler struct {
	service *application.CatalogService
}

func NewCatalogHandler(service *application.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *CatalogHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/products/{id}", h.handleGetProduct)
	mux.HandleFunc("GET /api/v1/products", h.handleListProducts)
}

func (h *CatalogHandler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *CatalogHandler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	limit, err := httpx.QueryInt(r, "limit", application.DefaultLimit)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	offset, err := httpx.QueryInt(r, "offset", application.DefaultOffset)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	resp, err := h.service.ListProducts(r.Context(), limit, offset)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

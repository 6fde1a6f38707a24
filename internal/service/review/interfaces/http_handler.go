// internal/service/review/interfaces/http_handler.go
package interfaces

import (
	"net/http"

	"storefront/internal/pkg/httpx"
	"storefront/internal/service/review/application"
)

// ReviewHandler 封装了 review 服务的 HTTP 处理器
type ReviewHandler struct {
	service *application.ReviewService
}

func NewReviewHandler(service *application.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *ReviewHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/reviews/{productId}", h.handleListReviews)
	mux.HandleFunc("POST /api/v1/reviews/{productId}", h.handleAddReview)
}

func (h *ReviewHandler) handleListReviews(w http.ResponseWriter, r *http.Request) {
	limit, err := httpx.QueryInt(r, "limit", application.DefaultLimit)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	sort := r.URL.Query().Get("sort")
	if sort == "" {
		sort = application.DefaultSort
	}

	resp, err := h.service.ListReviews(r.Context(), r.PathValue("productId"), limit, sort)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *ReviewHandler) handleAddReview(w http.ResponseWriter, r *http.Request) {
	var req application.AddReviewRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	resp, err := h.service.AddReview(r.Context(), r.PathValue("productId"), &req)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// internal/service/inventory/interfaces/http_handler.go
package interfaces

import (
	"encoding/json"
	"net/http"

	"storefront/internal/pkg/httpx"
	"storefront/internal/pkg/logger"
	"storefront/internal/service/inventory/application"
)

// InventoryHandler 封装了 inventory 服务的 HTTP 处理器
type InventoryHandler struct {
	service *application.InventoryService
	hub     *StockHub
}

// NewInventoryHandler 创建一个新的 HTTP 处理器实例
func NewInventoryHandler(service *application.InventoryService, hub *StockHub) *InventoryHandler {
	return &InventoryHandler{service: service, hub: hub}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *InventoryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/inventory/{productId}", h.handleGetStock)
	mux.HandleFunc("GET /api/v1/inventory/{productId}/watch", h.handleWatch)
	mux.HandleFunc("POST /api/v1/inventory/reserve", h.handleReserve)
	mux.HandleFunc("POST /api/v1/inventory/commit", h.handleCommit)
}

func (h *InventoryHandler) handleGetStock(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.GetStock(r.Context(), r.PathValue("productId"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *InventoryHandler) handleReserve(w http.ResponseWriter, r *http.Request) {
	var req application.ReserveRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	resp, err := h.service.Reserve(r.Context(), &req)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *InventoryHandler) handleCommit(w http.ResponseWriter, r *http.Request) {
	var req application.CommitRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	resp, err := h.service.Commit(r.Context(), &req)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// handleWatch 把连接升级为 WebSocket，先推送当前库存，之后推送每一次变化
func (h *InventoryHandler) handleWatch(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("productId")

	// 1. 商品不存在时在升级前返回 404
	current, err := h.service.GetStock(r.Context(), productID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	initial, err := json.Marshal(current)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	// 2. HTTP 升级为 WebSocket
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Ctx(r.Context()).Warn().Err(err).Str("productId", productID).Msg("websocket upgrade failed")
		return
	}

	// 3. 注册到 Hub 并启动读写 goroutine
	sub := &watcher{productID: productID, conn: conn, send: make(chan []byte, sendBuffer)}
	h.hub.register(sub, initial)
	logger.Ctx(r.Context()).Debug().Str("productId", productID).Msg("stock watcher connected")

	go h.hub.writePump(sub)
	go h.hub.readPump(sub)
}

var _ application.StockObserver = (*StockHub)(nil)

// internal/service/inventory/interfaces/stock_hub.go
package interfaces

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"storefront/internal/service/inventory/application"
	"storefront/internal/service/inventory/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool { // 商品页和库存服务不同源，允许所有跨域
		return true
	},
}

// watcher 是一个订阅某商品库存的 WebSocket 连接
type watcher struct {
	productID string
	conn      *websocket.Conn
	send      chan []byte
}

// StockHub 维护所有库存订阅连接，实现 application.StockObserver
type StockHub struct {
	mu       sync.RWMutex
	watchers map[string]map[*watcher]struct{} // productID -> 连接集合
	render   func(domain.StockLevel) *application.StockResponse
}

// NewStockHub 创建 Hub，render 决定推送给客户端的消息格式
func NewStockHub(render func(domain.StockLevel) *application.StockResponse) *StockHub {
	return &StockHub{
		watchers: make(map[string]map[*watcher]struct{}),
		render:   render,
	}
}

// StockChanged 把新的库存推送给该商品的所有订阅者。缓冲区已满的连接会被断开。
func (h *StockHub) StockChanged(level domain.StockLevel) {
	payload, err := json.Marshal(h.render(level))
	if err != nil {
		log.Error().Err(err).Str("productId", level.ProductID).Msg("failed to encode stock update")
		return
	}

	var slow []*watcher
	h.mu.RLock()
	for w := range h.watchers[level.ProductID] {
		select {
		case w.send <- payload:
		default:
			slow = append(slow, w)
		}
	}
	h.mu.RUnlock()

	for _, w := range slow {
		log.Warn().Str("productId", w.productID).Msg("dropping slow stock watcher")
		h.unregister(w)
	}
}

// Watchers 返回某商品当前的订阅数
func (h *StockHub) Watchers(productID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.watchers[productID])
}

// register 在持锁状态下放入首条消息，保证它先于之后的任何变化到达
func (h *StockHub) register(w *watcher, initial []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.watchers[w.productID]
	if !ok {
		set = make(map[*watcher]struct{})
		h.watchers[w.productID] = set
	}
	set[w] = struct{}{}
	w.send <- initial
}

func (h *StockHub) unregister(w *watcher) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set := h.watchers[w.productID]
	if _, ok := set[w]; !ok {
		return
	}
	delete(set, w)
	if len(set) == 0 {
		delete(h.watchers, w.productID)
	}
	close(w.send)
}

// Close 断开所有订阅连接，服务关停时调用
func (h *StockHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for productID, set := range h.watchers {
		for w := range set {
			close(w.send)
		}
		delete(h.watchers, productID)
	}
}

// writePump 把 send 中的消息写入连接，并定时发送 ping
func (h *StockHub) writePump(w *watcher) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		w.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-w.send:
			w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				w.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := w.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.unregister(w)
				return
			}
		case <-ticker.C:
			w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := w.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.unregister(w)
				return
			}
		}
	}
}

// readPump 只处理 pong 和关闭，客户端发来的消息被忽略
func (h *StockHub) readPump(w *watcher) {
	defer h.unregister(w)

	w.conn.SetReadLimit(512)
	w.conn.SetReadDeadline(time.Now().Add(pongWait))
	w.conn.SetPongHandler(func(string) error {
		return w.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := w.conn.ReadMessage(); err != nil {
			return
		}
	}
}

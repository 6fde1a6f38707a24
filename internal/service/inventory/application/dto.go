// internal/service/inventory/application/dto.go
package application

// StockResponse 是库存查询的响应体
type StockResponse struct {
	ProductID         string `json:"productId"`
	Quantity          int    `json:"quantity"`
	Available         bool   `json:"available"`
	LowStockThreshold int    `json:"lowStockThreshold"`
}

// ReserveRequest 是预占库存的请求体
type ReserveRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// ReserveResponse 是预占库存的响应体
type ReserveResponse struct {
	ReservationID string `json:"reservationId"`
	Success       bool   `json:"success"`
}

// CommitRequest 是了结预占的请求体，commit=false 表示取消
type CommitRequest struct {
	ReservationID string `json:"reservationId"`
	Commit        *bool  `json:"commit"`
}

// CommitResponse 是了结预占的响应体
type CommitResponse struct {
	Success bool `json:"success"`
}

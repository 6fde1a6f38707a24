// internal/service/gateway/application/dto.go
package application

import "storefront/internal/service/gateway/domain"

// OverviewResponse 聚合了商品页需要的全部数据。
// 评论或库存获取失败时对应部分为空，并在 Degraded 中列出。
type OverviewResponse struct {
	Product  *domain.Product `json:"product"`
	Stock    *domain.Stock   `json:"stock"`
	Reviews  *domain.Reviews `json:"reviews"`
	Degraded []string        `json:"degraded,omitempty"`
}

// PlaceOrderRequest 是下单请求体
type PlaceOrderRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	UserID    string `json:"userId"`
}

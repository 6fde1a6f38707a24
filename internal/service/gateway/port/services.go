// internal/service/gateway/port/services.go
package port

import (
	"context"

	"storefront/internal/service/gateway/domain"
)

// ProductService 是商品服务的出站端口
type ProductService interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

// ReviewService 是评论服务的出站端口，limit/sort 为空时使用下游默认值
type ReviewService interface {
	GetReviews(ctx context.Context, productID, limit, sort string) (*domain.Reviews, error)
}

// InventoryService 是库存服务的出站端口
type InventoryService interface {
	GetStock(ctx context.Context, productID string) (*domain.Stock, error)
	Reserve(ctx context.Context, productID string, quantity int) (string, error)
	// Resolve 了结预占，commit=false 为补偿
	Resolve(ctx context.Context, reservationID string, commit bool) error
}

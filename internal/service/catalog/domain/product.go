// internal/service/catalog/domain/product.go
package domain

import (
	"context"

	"storefront/internal/pkg/apperr"
)

var (
	ErrProductNotFound = apperr.NotFound("Product not found")
	ErrInvalidPaging   = apperr.InvalidRequest("limit and offset must not be negative")
)

// Product 是商品目录中的一个商品
type Product struct {
	ID          string
	Name        string
	Price       float64
	Description string
	ImageURL    string
}

// ProductRepository 定义了商品的存储接口。List 按固定顺序返回，保证分页稳定。
type ProductRepository interface {
	FindByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, limit, offset int) ([]*Product, error)
}

// SeedProducts 返回演示用的初始商品，按展示顺序排列
func SeedProducts() []Product {
	return []Product{
		{
			ID:          "prod-123",
			Name:        "Wireless Headphones",
			Price:       99.99,
			Description: "Noise-cancelling bliss",
			ImageURL:    "https://example.com/headphones.jpg",
		},
		{
			ID:          "prod-456",
			Name:        "Smart Watch",
			Price:       199.99,
			Description: "Track your life",
			ImageURL:    "https://example.com/watch.jpg",
		},
	}
}

// internal/service/gateway/infrastructure/adapter/product_http_adapter.go
package adapter

import (
	"context"
	"net/url"

	"storefront/internal/pkg/constants"
	"storefront/internal/pkg/httpclient"
	"storefront/internal/service/gateway/domain"
)

// ProductHTTPAdapter 实现了 port.ProductService 接口。
type ProductHTTPAdapter struct {
	client *httpclient.Client
}

func NewProductHTTPAdapter(client *httpclient.Client) *ProductHTTPAdapter {
	return &ProductHTTPAdapter{client: client}
}

func (a *ProductHTTPAdapter) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	if err := a.client.GetJSON(ctx, constants.ProductService, constants.ProductPath+url.PathEscape(id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

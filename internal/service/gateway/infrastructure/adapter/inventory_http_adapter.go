// internal/service/gateway/infrastructure/adapter/inventory_http_adapter.go
package adapter

import (
	"context"
	"net/url"

	"github.com/pkg/errors"

	"storefront/internal/pkg/constants"
	"storefront/internal/pkg/httpclient"
	"storefront/internal/service/gateway/domain"
)

// InventoryHTTPAdapter 实现了 port.InventoryService 接口。
type InventoryHTTPAdapter struct {
	client *httpclient.Client
}

// NewInventoryHTTPAdapter 创建一个新的库存服务适配器。
func NewInventoryHTTPAdapter(client *httpclient.Client) *InventoryHTTPAdapter {
	return &InventoryHTTPAdapter{client: client}
}

func (a *InventoryHTTPAdapter) GetStock(ctx context.Context, productID string) (*domain.Stock, error) {
	var stock domain.Stock
	if err := a.client.GetJSON(ctx, constants.InventoryService, constants.InventoryPath+url.PathEscape(productID), nil, &stock); err != nil {
		return nil, err
	}
	return &stock, nil
}

// Reserve 预占库存，返回预占 ID
func (a *InventoryHTTPAdapter) Reserve(ctx context.Context, productID string, quantity int) (string, error) {
	req := map[string]any{"productId": productID, "quantity": quantity}
	var resp struct {
		ReservationID string `json:"reservationId"`
		Success       bool   `json:"success"`
	}
	if err := a.client.PostJSON(ctx, constants.InventoryService, constants.InventoryReservePath, req, &resp); err != nil {
		return "", err
	}
	if !resp.Success || resp.ReservationID == "" {
		return "", errors.Errorf("inventory reserve for %s returned no reservation", productID)
	}
	return resp.ReservationID, nil
}

// Resolve 提交或取消预占
func (a *InventoryHTTPAdapter) Resolve(ctx context.Context, reservationID string, commit bool) error {
	req := map[string]any{"reservationId": reservationID, "commit": commit}
	return a.client.PostJSON(ctx, constants.InventoryService, constants.InventoryCommitPath, req, nil)
}

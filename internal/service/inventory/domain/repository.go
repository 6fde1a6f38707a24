// internal/service/inventory/domain/repository.go
package domain

import "context"

// LedgerStore 定义了库存账本的存储接口，由基础设施层实现（进程内 / Redis）
type LedgerStore interface {
	GetStock(ctx context.Context, productID string) (StockLevel, error)
	Reserve(ctx context.Context, productID string, quantity int) (Movement, error)
	Resolve(ctx context.Context, reservationID string, commit bool) (Movement, error)
}

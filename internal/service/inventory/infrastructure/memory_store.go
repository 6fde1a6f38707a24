// internal/service/inventory/infrastructure/memory_store.go
package infrastructure

import (
	"context"

	"storefront/internal/service/inventory/domain"
)

// MemoryLedgerStore 是 LedgerStore 的进程内实现，状态随进程存在
type MemoryLedgerStore struct {
	ledger *domain.Ledger
}

func NewMemoryLedgerStore(ledger *domain.Ledger) *MemoryLedgerStore {
	return &MemoryLedgerStore{ledger: ledger}
}

func (s *MemoryLedgerStore) GetStock(_ context.Context, productID string) (domain.StockLevel, error) {
	return s.ledger.GetStock(productID)
}

func (s *MemoryLedgerStore) Reserve(_ context.Context, productID string, quantity int) (domain.Movement, error) {
	return s.ledger.Reserve(productID, quantity)
}

func (s *MemoryLedgerStore) Resolve(_ context.Context, reservationID string, commit bool) (domain.Movement, error) {
	return s.ledger.Resolve(reservationID, commit)
}

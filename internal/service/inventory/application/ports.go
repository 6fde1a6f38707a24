// internal/service/inventory/application/ports.go
package application

import (
	"context"

	"storefront/internal/service/inventory/domain"
)

// EventPublisher 发布账本变更事件（Kafka 或空实现）
type EventPublisher interface {
	PublishReservationEvent(ctx context.Context, event domain.ReservationEvent) error
}

// StockObserver 接收库存变化通知，用于推送给实时订阅者
type StockObserver interface {
	StockChanged(level domain.StockLevel)
}

type noopObserver struct{}

func (noopObserver) StockChanged(domain.StockLevel) {}

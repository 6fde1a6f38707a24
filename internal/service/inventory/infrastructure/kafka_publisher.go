// internal/service/inventory/infrastructure/kafka_publisher.go
package infrastructure

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"storefront/internal/pkg/mq"
	"storefront/internal/service/inventory/domain"
)

// ReservationKafkaPublisher 把账本变更事件发送到 Kafka，按商品 ID 分区保证同一商品的事件有序
type ReservationKafkaPublisher struct {
	writer mq.MessageWriter
}

func NewReservationKafkaPublisher(writer mq.MessageWriter) *ReservationKafkaPublisher {
	return &ReservationKafkaPublisher{writer: writer}
}

func (p *ReservationKafkaPublisher) PublishReservationEvent(ctx context.Context, event domain.ReservationEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal reservation event")
	}
	return mq.ProduceMessage(ctx, p.writer, []byte(event.ProductID), eventBytes)
}

// Close 关闭底层的 Kafka writer
func (p *ReservationKafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher 在未启用 Kafka 时使用
type NoopPublisher struct{}

func (NoopPublisher) PublishReservationEvent(context.Context, domain.ReservationEvent) error {
	return nil
}

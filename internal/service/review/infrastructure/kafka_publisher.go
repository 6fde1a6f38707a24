// internal/service/review/infrastructure/kafka_publisher.go
package infrastructure

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"storefront/internal/pkg/mq"
	"storefront/internal/service/review/domain"
)

// ReviewKafkaPublisher 把新评论事件发送到 Kafka
type ReviewKafkaPublisher struct {
	writer mq.MessageWriter
}

func NewReviewKafkaPublisher(writer mq.MessageWriter) *ReviewKafkaPublisher {
	return &ReviewKafkaPublisher{writer: writer}
}

func (p *ReviewKafkaPublisher) PublishReviewAdded(ctx context.Context, event domain.ReviewAddedEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal review event")
	}
	return mq.ProduceMessage(ctx, p.writer, []byte(event.ProductID), eventBytes)
}

func (p *ReviewKafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher 在未启用 Kafka 时使用
type NoopPublisher struct{}

func (NoopPublisher) PublishReviewAdded(context.Context, domain.ReviewAddedEvent) error {
	return nil
}

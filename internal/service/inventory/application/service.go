// internal/service/inventory/application/service.go
package application

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"storefront/internal/pkg/apperr"
	"storefront/internal/pkg/logger"
	"storefront/internal/service/inventory/domain"
)

// InventoryService 定义了库存服务的所有业务用例
type InventoryService struct {
	store             domain.LedgerStore
	publisher         EventPublisher
	observer          StockObserver
	metrics           *Metrics
	tracer            trace.Tracer
	lowStockThreshold int
	now               func() time.Time
}

// NewInventoryService 创建库存服务。observer 可以为 nil，之后通过 SetObserver 设置。
func NewInventoryService(store domain.LedgerStore, publisher EventPublisher, metrics *Metrics, tracer trace.Tracer, lowStockThreshold int) *InventoryService {
	return &InventoryService{
		store:             store,
		publisher:         publisher,
		observer:          noopObserver{},
		metrics:           metrics,
		tracer:            tracer,
		lowStockThreshold: lowStockThreshold,
		now:               time.Now,
	}
}

// SetObserver 设置库存变化的接收方
func (s *InventoryService) SetObserver(observer StockObserver) {
	if observer == nil {
		observer = noopObserver{}
	}
	s.observer = observer
}

// GetStock 查询商品库存，只读
func (s *InventoryService) GetStock(ctx context.Context, productID string) (*StockResponse, error) {
	ctx, span := s.tracer.Start(ctx, "service.GetStock")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", productID))

	level, err := s.store.GetStock(ctx, productID)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	s.metrics.observeStock(level)

	return s.ToStockResponse(level), nil
}

// Reserve 预占库存。成功后库存立即扣减，直到 Commit 了结。
func (s *InventoryService) Reserve(ctx context.Context, req *ReserveRequest) (*ReserveResponse, error) {
	ctx, span := s.tracer.Start(ctx, "service.Reserve")
	defer span.End()
	span.SetAttributes(
		attribute.String("product.id", req.ProductID),
		attribute.Int("reservation.quantity", req.Quantity),
	)

	mv, err := s.store.Reserve(ctx, req.ProductID, req.Quantity)
	s.metrics.Reservations.WithLabelValues(reserveResult(err)).Inc()
	if err != nil {
		recordError(span, err)
		logger.Ctx(ctx).Debug().Err(err).Str("productId", req.ProductID).Int("quantity", req.Quantity).Msg("reservation rejected")
		return nil, err
	}

	span.SetAttributes(attribute.String("reservation.id", mv.Reservation.ID))
	span.AddEvent("Stock reserved")
	logger.Ctx(ctx).Info().
		Str("reservationId", mv.Reservation.ID).
		Str("productId", req.ProductID).
		Int("quantity", req.Quantity).
		Int("remaining", mv.Stock.Quantity).
		Msg("stock reserved")

	s.afterMovement(ctx, mv)
	return &ReserveResponse{ReservationID: mv.Reservation.ID, Success: true}, nil
}

// Commit 了结预占：commit=true 扣减生效，false 归还库存
func (s *InventoryService) Commit(ctx context.Context, req *CommitRequest) (*CommitResponse, error) {
	ctx, span := s.tracer.Start(ctx, "service.Commit")
	defer span.End()

	if req.Commit == nil {
		err := apperr.InvalidRequest("commit is required")
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("reservation.id", req.ReservationID),
		attribute.Bool("reservation.commit", *req.Commit),
	)

	mv, err := s.store.Resolve(ctx, req.ReservationID, *req.Commit)
	s.metrics.Resolutions.WithLabelValues(resolveOutcome(mv, err)).Inc()
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	logger.Ctx(ctx).Info().
		Str("reservationId", req.ReservationID).
		Str("outcome", string(mv.Outcome)).
		Int("remaining", mv.Stock.Quantity).
		Msg("reservation resolved")

	s.afterMovement(ctx, mv)
	return &CommitResponse{Success: true}, nil
}

// afterMovement 在账本变更后更新指标、发布事件并通知订阅者。事件发布失败不影响本次操作。
func (s *InventoryService) afterMovement(ctx context.Context, mv domain.Movement) {
	s.metrics.observeStock(mv.Stock)

	event := domain.NewReservationEvent(mv, s.now().UTC())
	if err := s.publisher.PublishReservationEvent(ctx, event); err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("reservationId", mv.Reservation.ID).Msg("failed to publish reservation event")
	}

	s.observer.StockChanged(mv.Stock)
}

// ToStockResponse 把库存视图转换为响应体，库存推送也使用同样的格式
func (s *InventoryService) ToStockResponse(level domain.StockLevel) *StockResponse {
	return &StockResponse{
		ProductID:         level.ProductID,
		Quantity:          level.Quantity,
		Available:         level.Available(),
		LowStockThreshold: s.lowStockThreshold,
	}
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// internal/service/gateway/application/service.go
package application

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"storefront/internal/pkg/logger"
	"storefront/internal/service/gateway/domain"
	"storefront/internal/service/gateway/port"
)

// GatewayService 编排对商品、评论、库存服务的调用
type GatewayService struct {
	products  port.ProductService
	reviews   port.ReviewService
	inventory port.InventoryService
	tracer    trace.Tracer
}

func NewGatewayService(products port.ProductService, reviews port.ReviewService, inventory port.InventoryService, tracer trace.Tracer) *GatewayService {
	return &GatewayService{
		products:  products,
		reviews:   reviews,
		inventory: inventory,
		tracer:    tracer,
	}
}

func (s *GatewayService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetProduct(ctx, id)
}

func (s *GatewayService) GetReviews(ctx context.Context, productID, limit, sort string) (*domain.Reviews, error) {
	return s.reviews.GetReviews(ctx, productID, limit, sort)
}

func (s *GatewayService) GetStock(ctx context.Context, productID string) (*domain.Stock, error) {
	return s.inventory.GetStock(ctx, productID)
}

// Overview 并发获取商品、库存和评论。商品失败则整体失败，其余两项失败时降级为空。
func (s *GatewayService) Overview(ctx context.Context, productID string) (*OverviewResponse, error) {
	ctx, span := s.tracer.Start(ctx, "gateway.Overview")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", productID))

	var (
		product   *domain.Product
		stock     *domain.Stock
		reviews   *domain.Reviews
		stockErr  error
		reviewErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		product, err = s.products.GetProduct(gctx, productID)
		return err
	})
	g.Go(func() error {
		stock, stockErr = s.inventory.GetStock(gctx, productID)
		return nil
	})
	g.Go(func() error {
		reviews, reviewErr = s.reviews.GetReviews(gctx, productID, "", "")
		return nil
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	resp := &OverviewResponse{Product: product, Stock: stock, Reviews: reviews}
	if stockErr != nil {
		logger.Ctx(ctx).Warn().Err(stockErr).Str("productId", productID).Msg("overview without stock")
		resp.Stock = nil
		resp.Degraded = append(resp.Degraded, "stock")
	}
	if reviewErr != nil {
		logger.Ctx(ctx).Warn().Err(reviewErr).Str("productId", productID).Msg("overview without reviews")
		resp.Reviews = &domain.Reviews{Reviews: []domain.Review{}}
		resp.Degraded = append(resp.Degraded, "reviews")
	}
	return resp, nil
}

// PlaceOrder 预占库存后立即提交；提交失败时取消预占作为补偿
func (s *GatewayService) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "gateway.PlaceOrder")
	defer span.End()

	orderID := uuid.New().String()
	span.SetAttributes(
		attribute.String("order.id", orderID),
		attribute.String("user.id", req.UserID),
		attribute.String("product.id", req.ProductID),
		attribute.Int("order.quantity", req.Quantity),
	)
	log := logger.Ctx(ctx).With().Str("orderId", orderID).Str("productId", req.ProductID).Logger()

	// 1. 预占库存
	reservationID, err := s.inventory.Reserve(ctx, req.ProductID, req.Quantity)
	if err != nil {
		span.RecordError(err)
		log.Info().Err(err).Msg("order rejected: reservation failed")
		return nil, err
	}
	span.AddEvent("Stock reserved", trace.WithAttributes(attribute.String("reservation.id", reservationID)))

	// 2. 提交预占
	if err := s.inventory.Resolve(ctx, reservationID, true); err != nil {
		span.RecordError(err)
		log.Error().Err(err).Str("reservationId", reservationID).Msg("commit failed, cancelling reservation")

		// 3. 补偿：取消预占，使用独立的 context 避免请求已取消时补偿无法发出
		compCtx := context.WithoutCancel(ctx)
		if cerr := s.inventory.Resolve(compCtx, reservationID, false); cerr != nil {
			log.Error().Err(cerr).Str("reservationId", reservationID).Msg("compensation failed, reservation left outstanding")
		} else {
			span.AddEvent("Reservation cancelled (compensation)")
		}
		return nil, err
	}

	log.Info().Str("reservationId", reservationID).Str("userId", req.UserID).Msg("order confirmed")
	return &domain.Order{
		OrderID:       orderID,
		ReservationID: reservationID,
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		Status:        domain.OrderStatusConfirmed,
	}, nil
}

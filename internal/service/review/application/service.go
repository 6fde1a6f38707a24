// internal/service/review/application/service.go
package application

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"storefront/internal/pkg/idgen"
	"storefront/internal/pkg/logger"
	"storefront/internal/service/review/domain"
)

const (
	DefaultLimit = 5
	DefaultSort  = string(domain.SortRecent)
)

// EventPublisher 发布评论事件（Kafka 或空实现）
type EventPublisher interface {
	PublishReviewAdded(ctx context.Context, event domain.ReviewAddedEvent) error
}

// ReviewService 定义了评论服务的业务用例
type ReviewService struct {
	repo      domain.ReviewRepository
	policy    domain.ReviewPolicy
	publisher EventPublisher
	ids       idgen.Generator
	now       func() time.Time
	tracer    trace.Tracer
}

// NewReviewService 创建评论服务，now 为 nil 时使用 time.Now
func NewReviewService(repo domain.ReviewRepository, policy domain.ReviewPolicy, publisher EventPublisher,
	ids idgen.Generator, now func() time.Time, tracer trace.Tracer) *ReviewService {
	if now == nil {
		now = time.Now
	}
	return &ReviewService{
		repo:      repo,
		policy:    policy,
		publisher: publisher,
		ids:       ids,
		now:       now,
		tracer:    tracer,
	}
}

// ListReviews 返回排序并截断后的评论，平均分按全部评论计算
func (s *ReviewService) ListReviews(ctx context.Context, productID string, limit int, sort string) (*ReviewsResponse, error) {
	ctx, span := s.tracer.Start(ctx, "service.ListReviews")
	defer span.End()
	span.SetAttributes(
		attribute.String("product.id", productID),
		attribute.Int("page.limit", limit),
		attribute.String("page.sort", sort),
	)

	if limit < 1 {
		return nil, domain.ErrInvalidLimit
	}
	mode, err := domain.ParseSortMode(sort)
	if err != nil {
		return nil, err
	}

	reviews, err := s.repo.List(ctx, productID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	sorted := domain.SortReviews(reviews, mode)
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	resp := &ReviewsResponse{
		AverageRating: domain.AverageRating(reviews),
		Reviews:       make([]ReviewDTO, 0, len(sorted)),
	}
	for _, r := range sorted {
		resp.Reviews = append(resp.Reviews, toReviewDTO(r))
	}
	return resp, nil
}

// AddReview 校验并保存一条评论
func (s *ReviewService) AddReview(ctx context.Context, productID string, req *AddReviewRequest) (*AddReviewResponse, error) {
	ctx, span := s.tracer.Start(ctx, "service.AddReview")
	defer span.End()
	span.SetAttributes(
		attribute.String("product.id", productID),
		attribute.Int("review.rating", req.Rating),
	)

	// 1. 商品必须已有评论列表
	ok, err := s.repo.Exists(ctx, productID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !ok {
		return nil, domain.ErrProductNotFound
	}

	review := domain.Review{
		ID:     s.ids.NewID(),
		User:   req.User,
		Text:   req.Text,
		Rating: req.Rating,
		Date:   s.now().Format(domain.DateLayout),
	}

	// 2. 规则校验
	accepted, err := s.policy.Accept(review)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !accepted {
		logger.Ctx(ctx).Debug().Str("productId", productID).Int("rating", req.Rating).Msg("review rejected by policy")
		return nil, domain.ErrReviewRejected
	}

	// 3. 保存
	if err := s.repo.Append(ctx, productID, review); err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.AddEvent("Review stored")

	// 4. 发布事件，失败只记录日志
	event := domain.ReviewAddedEvent{
		ReviewID:  review.ID,
		ProductID: productID,
		User:      review.User,
		Rating:    review.Rating,
		Date:      review.Date,
	}
	if err := s.publisher.PublishReviewAdded(ctx, event); err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("reviewId", review.ID).Msg("failed to publish review event")
	}

	logger.Ctx(ctx).Info().Str("reviewId", review.ID).Str("productId", productID).Msg("review added")
	return &AddReviewResponse{ID: review.ID, Message: "Review added!", Date: review.Date}, nil
}

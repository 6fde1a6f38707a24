// internal/service/catalog/application/service.go
package application

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"storefront/internal/service/catalog/domain"
)

const (
	DefaultLimit  = 10
	DefaultOffset = 0
)

// CatalogService 提供商品查询用例
type CatalogService struct {
	repo   domain.ProductRepository
	tracer trace.Tracer
}

func NewCatalogService(repo domain.ProductRepository, tracer trace.Tracer) *CatalogService {
	return &CatalogService{repo: repo, tracer: tracer}
}

// GetProduct 按 ID 查询商品
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "service.GetProduct")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", id))

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return toProductResponse(p), nil
}

// ListProducts 分页列出商品，offset 超出范围时返回空列表
func (s *CatalogService) ListProducts(ctx context.Context, limit, offset int) ([]*ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "service.ListProducts")
	defer span.End()
	span.SetAttributes(attribute.Int("page.limit", limit), attribute.Int("page.offset", offset))

	if limit < 0 || offset < 0 {
		span.RecordError(domain.ErrInvalidPaging)
		return nil, domain.ErrInvalidPaging
	}

	products, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	resp := make([]*ProductResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, toProductResponse(p))
	}
	return resp, nil
}

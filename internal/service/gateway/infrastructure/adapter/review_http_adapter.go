// internal/service/gateway/infrastructure/adapter/review_http_adapter.go
package adapter

import (
	"context"
	"net/url"

	"storefront/internal/pkg/constants"
	"storefront/internal/pkg/httpclient"
	"storefront/internal/service/gateway/domain"
)

// ReviewHTTPAdapter 实现了 port.ReviewService 接口。
type ReviewHTTPAdapter struct {
	client *httpclient.Client
}

func NewReviewHTTPAdapter(client *httpclient.Client) *ReviewHTTPAdapter {
	return &ReviewHTTPAdapter{client: client}
}

func (a *ReviewHTTPAdapter) GetReviews(ctx context.Context, productID, limit, sort string) (*domain.Reviews, error) {
	query := url.Values{}
	if limit != "" {
		query.Set("limit", limit)
	}
	if sort != "" {
		query.Set("sort", sort)
	}

	var reviews domain.Reviews
	if err := a.client.GetJSON(ctx, constants.ReviewService, constants.ReviewPath+url.PathEscape(productID), query, &reviews); err != nil {
		return nil, err
	}
	return &reviews, nil
}

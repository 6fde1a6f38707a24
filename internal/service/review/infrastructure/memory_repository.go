// internal/service/review/infrastructure/memory_repository.go
package infrastructure

import (
	"context"
	"sync"

	"storefront/internal/service/review/domain"
)

// MemoryReviewRepository 是进程内的评论仓储，只允许向已有商品追加评论
type MemoryReviewRepository struct {
	mu      sync.RWMutex
	reviews map[string][]domain.Review
}

func NewMemoryReviewRepository(seed map[string][]domain.Review) *MemoryReviewRepository {
	reviews := make(map[string][]domain.Review, len(seed))
	for productID, list := range seed {
		reviews[productID] = append([]domain.Review(nil), list...)
	}
	return &MemoryReviewRepository{reviews: reviews}
}

func (r *MemoryReviewRepository) Exists(_ context.Context, productID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.reviews[productID]
	return ok, nil
}

func (r *MemoryReviewRepository) List(_ context.Context, productID string) ([]domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list, ok := r.reviews[productID]
	if !ok {
		return nil, domain.ErrNoReviews
	}
	return append([]domain.Review(nil), list...), nil
}

func (r *MemoryReviewRepository) Append(_ context.Context, productID string, review domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, ok := r.reviews[productID]
	if !ok {
		return domain.ErrProductNotFound
	}
	r.reviews[productID] = append(list, review)
	return nil
}

// internal/service/catalog/infrastructure/memory_repository.go
package infrastructure

import (
	"context"

	"storefront/internal/service/catalog/domain"
)

// MemoryProductRepository 是只读的内存商品仓储，保持种子数据的插入顺序
type MemoryProductRepository struct {
	products []domain.Product
	index    map[string]int
}

func NewMemoryProductRepository(seed []domain.Product) *MemoryProductRepository {
	repo := &MemoryProductRepository{index: make(map[string]int, len(seed))}
	for _, p := range seed {
		if i, ok := repo.index[p.ID]; ok {
			repo.products[i] = p
			continue
		}
		repo.index[p.ID] = len(repo.products)
		repo.products = append(repo.products, p)
	}
	return repo
}

func (r *MemoryProductRepository) FindByID(_ context.Context, id string) (*domain.Product, error) {
	i, ok := r.index[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	p := r.products[i]
	return &p, nil
}

func (r *MemoryProductRepository) List(_ context.Context, limit, offset int) ([]*domain.Product, error) {
	if offset >= len(r.products) {
		return []*domain.Product{}, nil
	}
	// 先比较再相加，避免 offset+limit 溢出
	end := len(r.products)
	if limit < end-offset {
		end = offset + limit
	}

	result := make([]*domain.Product, 0, end-offset)
	for i := offset; i < end; i++ {
		p := r.products[i]
		result = append(result, &p)
	}
	return result, nil
}

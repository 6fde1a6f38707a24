// internal/service/catalog/infrastructure/mapper.go
package infrastructure

import "storefront/internal/service/catalog/domain"

// ToDomainProduct 将数据库模型转换为领域模型
func ToDomainProduct(model *ProductModel) *domain.Product {
	if model == nil {
		return nil
	}
	return &domain.Product{
		ID:          model.ID,
		Name:        model.Name,
		Price:       model.Price,
		Description: model.Description,
		ImageURL:    model.ImageURL,
	}
}

// FromDomainProduct 将领域模型转换为数据库模型，position 为列表中的位置
func FromDomainProduct(p *domain.Product, position int) *ProductModel {
	if p == nil {
		return nil
	}
	return &ProductModel{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Position:    position,
	}
}

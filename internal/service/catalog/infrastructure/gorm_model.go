// internal/service/catalog/infrastructure/gorm_model.go
package infrastructure

import "time"

// ProductModel 对应数据库中的 products 表
type ProductModel struct {
	ID          string  `gorm:"primaryKey;size:64"`
	Name        string  `gorm:"size:255;not null"`
	Price       float64 `gorm:"type:decimal(10,2)"`
	Description string  `gorm:"type:text"`
	ImageURL    string  `gorm:"column:image_url;size:512"`
	// Position 决定列表顺序
	Position  int `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定 GORM 应该使用的表名
func (ProductModel) TableName() string {
	return "products"
}

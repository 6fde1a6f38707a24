// internal/service/catalog/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/service/catalog/domain"
)

// MySQLOptions 是连接商品库所需的参数
type MySQLOptions struct {
	Addr     string
	User     string
	Password string
	Database string
}

// DSN 使用驱动自带的 Config 拼接连接串，避免手写转义
func (o MySQLOptions) DSN() string {
	cfg := mysqldriver.NewConfig()
	cfg.User = o.User
	cfg.Passwd = o.Password
	cfg.Net = "tcp"
	cfg.Addr = o.Addr
	cfg.DBName = o.Database
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

// OpenMySQL 打开数据库并迁移 products 表
func OpenMySQL(opts MySQLOptions) (*gorm.DB, error) {
	db, err := gorm.Open(gormmysql.Open(opts.DSN()), &gorm.Config{})
	if err != nil {
		return nil, errors.Wrapf(err, "open mysql %s/%s", opts.Addr, opts.Database)
	}
	if err := db.AutoMigrate(&ProductModel{}); err != nil {
		return nil, errors.Wrap(err, "migrate products table")
	}
	return db, nil
}

// GormProductRepository 是 ProductRepository 的 GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository 创建一个新的 GORM 仓储实例
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// Seed 写入种子商品，已存在的记录保持不变
func (r *GormProductRepository) Seed(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	models := make([]*ProductModel, 0, len(products))
	for i := range products {
		models = append(models, FromDomainProduct(&products[i], i))
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&models).Error
	return errors.Wrap(err, "seed products")
}

// FindByID 使用 GORM 从数据库中查找商品
func (r *GormProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var model ProductModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, errors.Wrapf(err, "find product %s", id)
	}
	return ToDomainProduct(&model), nil
}

// List 按 position 排序分页查询
func (r *GormProductRepository) List(ctx context.Context, limit, offset int) ([]*domain.Product, error) {
	var models []*ProductModel
	err := r.db.WithContext(ctx).
		Order("position, id").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}

	products := make([]*domain.Product, len(models))
	for i, m := range models {
		products[i] = ToDomainProduct(m)
	}
	return products, nil
}

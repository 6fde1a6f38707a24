// cmd/product-service/main.go
package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"storefront/internal/pkg/bootstrap"
	"storefront/internal/pkg/constants"
	"storefront/internal/service/catalog/application"
	"storefront/internal/service/catalog/domain"
	"storefront/internal/service/catalog/infrastructure"
	"storefront/internal/service/catalog/interfaces"
)

func main() {
	bootstrap.Init(constants.ProductService)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName:      constants.ProductService,
		Port:             bootstrap.GetCurrentConfig().Catalog.Port,
		RegisterHandlers: registerHandlers,
	})
}

func registerHandlers(appCtx bootstrap.AppCtx) error {
	repo, err := newProductRepository(appCtx)
	if err != nil {
		return err
	}
	service := application.NewCatalogService(repo, appCtx.Tracer)
	interfaces.NewCatalogHandler(service).RegisterRoutes(appCtx.Mux)
	return nil
}

func newProductRepository(appCtx bootstrap.AppCtx) (domain.ProductRepository, error) {
	cfg := appCtx.Config
	switch cfg.Catalog.Store {
	case "", "memory":
		log.Info().Msg("Using in-memory product catalog")
		return infrastructure.NewMemoryProductRepository(domain.SeedProducts()), nil
	case "mysql":
		db, err := infrastructure.OpenMySQL(infrastructure.MySQLOptions{
			Addr:     cfg.Infra.MySQL.Addr,
			User:     cfg.Infra.MySQL.User,
			Password: cfg.Infra.MySQL.Password,
			Database: cfg.Infra.MySQL.Database,
		})
		if err != nil {
			return nil, err
		}
		appCtx.OnShutdown(func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		})

		repo := infrastructure.NewGormProductRepository(db)
		if err := repo.Seed(context.Background(), domain.SeedProducts()); err != nil {
			return nil, err
		}
		log.Info().Str("addr", cfg.Infra.MySQL.Addr).Msg("Using mysql product catalog")
		return repo, nil
	default:
		return nil, errors.Errorf("unknown catalog store %q", cfg.Catalog.Store)
	}
}

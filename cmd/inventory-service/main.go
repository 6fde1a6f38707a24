// cmd/inventory-service/main.go
package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"storefront/internal/pkg/bootstrap"
	"storefront/internal/pkg/constants"
	"storefront/internal/pkg/idgen"
	"storefront/internal/pkg/mq"
	"storefront/internal/pkg/redis"
	"storefront/internal/service/inventory/application"
	"storefront/internal/service/inventory/domain"
	"storefront/internal/service/inventory/infrastructure"
	"storefront/internal/service/inventory/interfaces"
)

// main 是库存服务的组装根：创建所有依赖项，然后交给 bootstrap 启动
func main() {
	bootstrap.Init(constants.InventoryService)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName:      constants.InventoryService,
		Port:             bootstrap.GetCurrentConfig().Inventory.Port,
		RegisterHandlers: registerHandlers,
	})
}

func registerHandlers(appCtx bootstrap.AppCtx) error {
	cfg := appCtx.Config
	ids := idgen.NewUUID("res")

	// 1. 选择账本存储
	store, err := newLedgerStore(appCtx, ids)
	if err != nil {
		return err
	}

	// 2. 事件发布
	var publisher application.EventPublisher = infrastructure.NoopPublisher{}
	if cfg.Infra.Kafka.Enabled {
		kafkaPublisher := infrastructure.NewReservationKafkaPublisher(
			mq.NewKafkaWriter(cfg.Infra.Kafka.Brokers, cfg.Infra.Kafka.ReservationTopic),
		)
		appCtx.OnShutdown(func(context.Context) error { return kafkaPublisher.Close() })
		publisher = kafkaPublisher
	}

	// 3. 业务服务和 WebSocket 推送
	service := application.NewInventoryService(
		store,
		publisher,
		application.NewMetrics(appCtx.Registry),
		appCtx.Tracer,
		cfg.Inventory.LowStockThreshold,
	)
	hub := interfaces.NewStockHub(service.ToStockResponse)
	service.SetObserver(hub)
	appCtx.OnShutdown(func(context.Context) error {
		hub.Close()
		return nil
	})

	interfaces.NewInventoryHandler(service, hub).RegisterRoutes(appCtx.Mux)
	return nil
}

func newLedgerStore(appCtx bootstrap.AppCtx, ids idgen.Generator) (domain.LedgerStore, error) {
	cfg := appCtx.Config
	switch cfg.Inventory.Store {
	case "", "memory":
		log.Info().Int("products", len(cfg.Inventory.Seed)).Msg("Using in-memory inventory ledger")
		return infrastructure.NewMemoryLedgerStore(domain.NewLedger(cfg.Inventory.Seed, ids)), nil
	case "redis":
		client, err := redis.NewClient(cfg.Infra.Redis.Addrs)
		if err != nil {
			return nil, err
		}
		appCtx.OnShutdown(func(context.Context) error { return client.Close() })

		store, err := infrastructure.NewRedisLedgerStore(client, ids)
		if err != nil {
			return nil, err
		}
		if err := store.Seed(context.Background(), cfg.Inventory.Seed); err != nil {
			return nil, err
		}
		log.Info().Str("addrs", cfg.Infra.Redis.Addrs).Msg("Using redis inventory ledger")
		return store, nil
	default:
		return nil, errors.Errorf("unknown inventory store %q", cfg.Inventory.Store)
	}
}

// cmd/review-service/main.go
package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"storefront/internal/pkg/bootstrap"
	"storefront/internal/pkg/constants"
	"storefront/internal/pkg/idgen"
	"storefront/internal/pkg/mq"
	"storefront/internal/service/review/application"
	"storefront/internal/service/review/domain"
	"storefront/internal/service/review/infrastructure"
	"storefront/internal/service/review/infrastructure/rule"
	"storefront/internal/service/review/interfaces"
)

func main() {
	bootstrap.Init(constants.ReviewService)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName:      constants.ReviewService,
		Port:             bootstrap.GetCurrentConfig().Review.Port,
		RegisterHandlers: registerHandlers,
	})
}

func registerHandlers(appCtx bootstrap.AppCtx) error {
	cfg := appCtx.Config

	policy, err := rule.NewCELPolicy(cfg.Review.Policy)
	if err != nil {
		return err
	}
	log.Info().Str("policy", policy.Expr()).Msg("Review policy compiled")

	var publisher application.EventPublisher = infrastructure.NoopPublisher{}
	if cfg.Infra.Kafka.Enabled {
		kafkaPublisher := infrastructure.NewReviewKafkaPublisher(
			mq.NewKafkaWriter(cfg.Infra.Kafka.Brokers, cfg.Infra.Kafka.ReviewTopic),
		)
		appCtx.OnShutdown(func(context.Context) error { return kafkaPublisher.Close() })
		publisher = kafkaPublisher
	}

	service := application.NewReviewService(
		infrastructure.NewMemoryReviewRepository(domain.SeedReviews()),
		policy,
		publisher,
		idgen.NewUUID("rev"),
		time.Now,
		appCtx.Tracer,
	)
	interfaces.NewReviewHandler(service).RegisterRoutes(appCtx.Mux)
	return nil
}

// cmd/api-gateway/main.go
package main

import (
	"github.com/rs/zerolog/log"

	"storefront/internal/pkg/bootstrap"
	"storefront/internal/pkg/constants"
	"storefront/internal/pkg/httpclient"
	"storefront/internal/service/gateway/application"
	"storefront/internal/service/gateway/infrastructure/adapter"
	"storefront/internal/service/gateway/interfaces"
)

func main() {
	bootstrap.Init(constants.ApiGateway)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName:      constants.ApiGateway,
		Port:             bootstrap.GetCurrentConfig().Gateway.Port,
		RegisterHandlers: registerHandlers,
	})
}

func registerHandlers(appCtx bootstrap.AppCtx) error {
	cfg := appCtx.Config.Gateway

	// 启用 Nacos 时通过服务发现寻址，否则使用配置中的固定地址
	var resolver httpclient.Resolver = httpclient.StaticResolver{
		constants.ProductService:   cfg.ProductServiceURL,
		constants.InventoryService: cfg.InventoryServiceURL,
		constants.ReviewService:    cfg.ReviewServiceURL,
	}
	if appCtx.Nacos != nil {
		resolver = appCtx.Nacos
		log.Info().Msg("Resolving downstream services through nacos")
	}

	client := httpclient.NewClient(appCtx.Tracer, resolver, cfg.Timeout)
	service := application.NewGatewayService(
		adapter.NewProductHTTPAdapter(client),
		adapter.NewReviewHTTPAdapter(client),
		adapter.NewInventoryHTTPAdapter(client),
		appCtx.Tracer,
	)
	interfaces.NewGatewayHandler(service).RegisterRoutes(appCtx.Mux)
	return nil
}

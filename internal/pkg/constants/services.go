// internal/pkg/constants/services.go
package constants

// 服务名，同时用作 Nacos 注册名和 tracer 名
const (
	ApiGateway       = "api-gateway"
	InventoryService = "inventory-service"
	ProductService   = "product-service"
	ReviewService    = "review-service"
)

// 下游接口路径
const (
	ProductPath          = "/api/v1/products/"
	ReviewPath           = "/api/v1/reviews/"
	InventoryPath        = "/api/v1/inventory/"
	InventoryReservePath = "/api/v1/inventory/reserve"
	InventoryCommitPath  = "/api/v1/inventory/commit"
)

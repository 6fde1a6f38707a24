// internal/service/inventory/domain/errors.go
package domain

import "storefront/internal/pkg/apperr"

var (
	// GetStock 查询的商品不在库存表中
	ErrProductNotFound = apperr.NotFound("Product not in inventory")
	// Reserve 时商品不存在，属于请求参数错误而不是资源不存在
	ErrUnknownProduct    = apperr.InvalidRequest("Unknown product")
	ErrInsufficientStock = apperr.InvalidRequest("Insufficient stock")
	ErrInvalidQuantity   = apperr.InvalidRequest("Quantity must be positive")

	ErrReservationNotFound = apperr.NotFound("Reservation not found")
)

// internal/service/gateway/domain/storefront.go
package domain

// 网关转发的下游数据，字段与各服务的响应保持一致

type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
}

type Review struct {
	ID     string `json:"id"`
	User   string `json:"user"`
	Text   string `json:"text"`
	Rating int    `json:"rating"`
	Date   string `json:"date"`
}

type Reviews struct {
	AverageRating float64  `json:"averageRating"`
	Reviews       []Review `json:"reviews"`
}

type Stock struct {
	ProductID         string `json:"productId"`
	Quantity          int    `json:"quantity"`
	Available         bool   `json:"available"`
	LowStockThreshold int    `json:"lowStockThreshold"`
}

// Order 是下单成功后返回给前端的结果
type Order struct {
	OrderID       string `json:"orderId"`
	ReservationID string `json:"reservationId"`
	ProductID     string `json:"productId"`
	Quantity      int    `json:"quantity"`
	Status        string `json:"status"`
}

const OrderStatusConfirmed = "confirmed"

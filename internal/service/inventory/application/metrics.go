// internal/service/inventory/application/metrics.go
package application

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"storefront/internal/service/inventory/domain"
)

// Metrics 是库存服务暴露的业务指标
type Metrics struct {
	Reservations *prometheus.CounterVec
	Resolutions  *prometheus.CounterVec
	StockLevel   *prometheus.GaugeVec
}

// NewMetrics 创建并注册指标；reg 为 nil 时只创建不注册
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Reservations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_reservations_total",
			Help: "Reservation attempts by result.",
		}, []string{"result"}),
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_resolutions_total",
			Help: "Reservation resolutions by outcome.",
		}, []string{"outcome"}),
		StockLevel: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "inventory_stock_level",
			Help: "Current stock level per product.",
		}, []string{"product_id"}),
	}
	if reg != nil {
		reg.MustRegister(m.Reservations, m.Resolutions, m.StockLevel)
	}
	return m
}

// reserveResult 把 Reserve 的错误归类为指标标签
func reserveResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrUnknownProduct):
		return "unknown_product"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrInvalidQuantity):
		return "invalid_quantity"
	default:
		return "error"
	}
}

func resolveOutcome(mv domain.Movement, err error) string {
	switch {
	case err == nil:
		return string(mv.Outcome)
	case errors.Is(err, domain.ErrReservationNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func (m *Metrics) observeStock(level domain.StockLevel) {
	m.StockLevel.WithLabelValues(level.ProductID).Set(float64(level.Quantity))
}

// internal/service/inventory/domain/event.go
package domain

import "time"

// ReservationEvent 在每次账本变更后发布，供订单等下游服务消费
type ReservationEvent struct {
	Type          Outcome   `json:"type"`
	ReservationID string    `json:"reservationId"`
	ProductID     string    `json:"productId"`
	Quantity      int       `json:"quantity"`
	Remaining     int       `json:"remaining"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// NewReservationEvent 根据账本变更构造事件
func NewReservationEvent(mv Movement, at time.Time) ReservationEvent {
	return ReservationEvent{
		Type:          mv.Outcome,
		ReservationID: mv.Reservation.ID,
		ProductID:     mv.Reservation.ProductID,
		Quantity:      mv.Reservation.Quantity,
		Remaining:     mv.Stock.Quantity,
		OccurredAt:    at,
	}
}

// Package event publishes order lifecycle events to the message broker.
package event

import (
	"context"
	"time"

	"storefront-api/internal/model"

	"github.com/google/uuid"
)

const (
	OrderPlaced        = "order.placed"
	OrderPaid          = "order.paid"
	OrderStatusChanged = "order.status_changed"
)

type Event[T any] struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	Version int       `json:"version"`
	Time    time.Time `json:"time"`
	OrderID string    `json:"order_id"`

	Payload T `json:"payload"`
}

type OrderPayload struct {
	UserID        string              `json:"user_id"`
	Amount        float64             `json:"amount"`
	PaymentMethod model.PaymentMethod `json:"payment_method"`
	Paid          bool                `json:"paid"`
	Status        model.OrderStatus   `json:"status"`
	ItemCount     int                 `json:"item_count"`
}

func NewOrderEvent(eventType string, order *model.Order) Event[OrderPayload] {
	count := 0
	for _, it := range order.Items {
		count += it.Quantity
	}
	return Event[OrderPayload]{
		ID:      uuid.NewString(),
		Type:    eventType,
		Version: 1,
		Time:    time.Now().UTC(),
		OrderID: order.ID,
		Payload: OrderPayload{
			UserID:        order.UserID,
			Amount:        order.Amount,
			PaymentMethod: order.PaymentMethod,
			Paid:          order.Paid,
			Status:        order.Status,
			ItemCount:     count,
		},
	}
}

type Publisher interface {
	PublishJSON(ctx context.Context, routingKey string, v any) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishJSON(context.Context, string, any) error { return nil }

func (NopPublisher) Close() error { return nil }

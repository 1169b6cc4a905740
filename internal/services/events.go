package services

import (
	"time"

	"storefront/internal/models"

	"github.com/rs/zerolog/log"
)

const (
	RoutingOrderCreated   = "order.created"
	RoutingOrderPaid      = "order.paid"
	RoutingOrderCancelled = "order.cancelled"
)

// EventPublisher delivers domain events to the message broker.
type EventPublisher interface {
	PublishJSON(routingKey string, v interface{}) error
}

// OrderEvent is the message body of every order.* event.
type OrderEvent struct {
	OrderID       string             `json:"order_id"`
	Number        string             `json:"number,omitempty"`
	Status        models.OrderStatus `json:"status"`
	CustomerEmail string             `json:"customer_email,omitempty"`
	Total         int64              `json:"total,omitempty"`
	Currency      string             `json:"currency,omitempty"`
	OccurredAt    time.Time          `json:"occurred_at"`
}

// publishOrderEvent is best-effort: the order is already committed, so failures are only logged.
func publishOrderEvent(pub EventPublisher, routingKey string, event OrderEvent) {
	if pub == nil {
		return
	}
	if err := pub.PublishJSON(routingKey, event); err != nil {
		log.Warn().Err(err).Str("order_id", event.OrderID).Str("routing_key", routingKey).Msg("failed to publish order event")
	}
}

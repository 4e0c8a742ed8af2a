package core

import (
	"time"

	"github.com/google/uuid"
)

// OrderCanceledEventType is the event type identifier.
const OrderCanceledEventType = "OrderCanceled"

// OrderCanceled represents when an order is canceled before shipping.
type OrderCanceled struct {
	EventType  EventTypeString
	OrderID    OrderIDString
	Reason     string
	OccurredAt OccurredAtTS
}

// BuildOrderCanceled creates a new OrderCanceled event.
func BuildOrderCanceled(
	orderID uuid.UUID,
	reason string,
	occurredAt time.Time,
) OrderCanceled {

	event := OrderCanceled{
		EventType:  OrderCanceledEventType,
		OrderID:    orderID.String(),
		Reason:     reason,
		OccurredAt: ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e OrderCanceled) IsEventType() string {
	return OrderCanceledEventType
}

// HasOccurredAt returns when this event occurred.
func (e OrderCanceled) HasOccurredAt() time.Time {
	return e.OccurredAt
}

package core

import (
	"time"

	"github.com/google/uuid"
)

// OrderPlacedEventType is the event type identifier.
const OrderPlacedEventType = "OrderPlaced"

// OrderPlaced represents when a customer places a new order.
type OrderPlaced struct {
	EventType  EventTypeString
	OrderID    OrderIDString
	CustomerID CustomerIDString
	TotalCents CentsInt
	OccurredAt OccurredAtTS
}

// BuildOrderPlaced creates a new OrderPlaced event.
func BuildOrderPlaced(
	orderID uuid.UUID,
	customerID uuid.UUID,
	totalCents CentsInt,
	occurredAt time.Time,
) OrderPlaced {

	event := OrderPlaced{
		EventType:  OrderPlacedEventType,
		OrderID:    orderID.String(),
		CustomerID: customerID.String(),
		TotalCents: totalCents,
		OccurredAt: ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e OrderPlaced) IsEventType() string {
	return OrderPlacedEventType
}

// HasOccurredAt returns when this event occurred.
func (e OrderPlaced) HasOccurredAt() time.Time {
	return e.OccurredAt
}

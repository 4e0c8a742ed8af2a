package core

import (
	"time"

	"github.com/google/uuid"
)

// OrderShippedEventType is the event type identifier.
const OrderShippedEventType = "OrderShipped"

// OrderShipped represents when an order leaves the warehouse.
type OrderShipped struct {
	EventType    EventTypeString
	OrderID      OrderIDString
	Carrier      string
	TrackingCode string
	OccurredAt   OccurredAtTS
}

// BuildOrderShipped creates a new OrderShipped event.
func BuildOrderShipped(
	orderID uuid.UUID,
	carrier string,
	trackingCode string,
	occurredAt time.Time,
) OrderShipped {

	event := OrderShipped{
		EventType:    OrderShippedEventType,
		OrderID:      orderID.String(),
		Carrier:      carrier,
		TrackingCode: trackingCode,
		OccurredAt:   ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e OrderShipped) IsEventType() string {
	return OrderShippedEventType
}

// HasOccurredAt returns when this event occurred.
func (e OrderShipped) HasOccurredAt() time.Time {
	return e.OccurredAt
}

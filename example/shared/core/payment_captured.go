package core

import (
	"time"

	"github.com/google/uuid"
)

// PaymentCapturedEventType is the event type identifier.
const PaymentCapturedEventType = "PaymentCaptured"

// PaymentCaptured represents when the payment for an order is captured.
type PaymentCaptured struct {
	EventType   EventTypeString
	OrderID     OrderIDString
	AmountCents CentsInt
	OccurredAt  OccurredAtTS
}

// BuildPaymentCaptured creates a new PaymentCaptured event.
func BuildPaymentCaptured(
	orderID uuid.UUID,
	amountCents CentsInt,
	occurredAt time.Time,
) PaymentCaptured {

	event := PaymentCaptured{
		EventType:   PaymentCapturedEventType,
		OrderID:     orderID.String(),
		AmountCents: amountCents,
		OccurredAt:  ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e PaymentCaptured) IsEventType() string {
	return PaymentCapturedEventType
}

// HasOccurredAt returns when this event occurred.
func (e PaymentCaptured) HasOccurredAt() time.Time {
	return e.OccurredAt
}

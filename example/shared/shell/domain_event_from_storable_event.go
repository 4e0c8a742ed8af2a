package shell

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/composable-projections-go/example/shared/core"
	"github.com/AntonStoeckl/composable-projections-go/projection/delivery"
)

var (
	// ErrMappingToDomainEventFailed is returned when domain event conversion fails.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")
)

// DomainEventsFrom converts multiple StorableEvents to DomainEvents.
func DomainEventsFrom(storableEvents delivery.StorableEvents) (core.DomainEvents, error) {
	domainEvents := make(core.DomainEvents, 0)

	for _, storableEvent := range storableEvents {
		domainEvent, err := DomainEventFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

// DomainEventFrom converts a StorableEvent to its corresponding DomainEvent.
// Its signature satisfies delivery.ConvertFunc, so it plugs straight into the Processor.
//
// Unrecognized event types map to UnknownEventObserved instead of failing:
// the event log is shared with other services, and new event types must not
// stall the projections of this one. The audit log records what was skipped.
func DomainEventFrom(storableEvent delivery.StorableEvent) (core.DomainEvent, error) {
	switch storableEvent.EventType {
	case core.OrderPlacedEventType:
		return unmarshalOrderPlaced(storableEvent.PayloadJSON)

	case core.PaymentCapturedEventType:
		return unmarshalPaymentCaptured(storableEvent.PayloadJSON)

	case core.OrderShippedEventType:
		return unmarshalOrderShipped(storableEvent.PayloadJSON)

	case core.OrderCanceledEventType:
		return unmarshalOrderCanceled(storableEvent.PayloadJSON)

	default:
		return core.BuildUnknownEventObserved(storableEvent.EventType, storableEvent.OccurredAt), nil
	}
}

func unmarshalOrderPlaced(payloadJSON []byte) (core.DomainEvent, error) {
	payload := new(core.OrderPlaced)

	err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &payload)
	if err != nil {
		return core.OrderPlaced{}, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return core.OrderPlaced{
		EventType:  core.OrderPlacedEventType,
		OrderID:    payload.OrderID,
		CustomerID: payload.CustomerID,
		TotalCents: payload.TotalCents,
		OccurredAt: payload.OccurredAt,
	}, nil
}

func unmarshalPaymentCaptured(payloadJSON []byte) (core.DomainEvent, error) {
	payload := new(core.PaymentCaptured)

	err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &payload)
	if err != nil {
		return core.PaymentCaptured{}, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return core.PaymentCaptured{
		EventType:   core.PaymentCapturedEventType,
		OrderID:     payload.OrderID,
		AmountCents: payload.AmountCents,
		OccurredAt:  payload.OccurredAt,
	}, nil
}

func unmarshalOrderShipped(payloadJSON []byte) (core.DomainEvent, error) {
	payload := new(core.OrderShipped)

	err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &payload)
	if err != nil {
		return core.OrderShipped{}, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return core.OrderShipped{
		EventType:    core.OrderShippedEventType,
		OrderID:      payload.OrderID,
		Carrier:      payload.Carrier,
		TrackingCode: payload.TrackingCode,
		OccurredAt:   payload.OccurredAt,
	}, nil
}

func unmarshalOrderCanceled(payloadJSON []byte) (core.DomainEvent, error) {
	payload := new(core.OrderCanceled)

	err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &payload)
	if err != nil {
		return core.OrderCanceled{}, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return core.OrderCanceled{
		EventType:  core.OrderCanceledEventType,
		OrderID:    payload.OrderID,
		Reason:     payload.Reason,
		OccurredAt: payload.OccurredAt,
	}, nil
}

package openorders

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/composable-projections-go/example/shared/core"
	"github.com/AntonStoeckl/composable-projections-go/projection"
)

// ErrUnexpectedEventPayload is returned when an event's payload does not match its declared type.
var ErrUnexpectedEventPayload = errors.New("unexpected event payload for handled event type")

// BuildProjection composes the partial handlers that maintain the Open Orders read model.
//
// Projection Logic:
//
//	GIVEN: The order events on the shared feed
//	WHEN: An order event is delivered
//	THEN: The open_orders table reflects the new order state
//	INCLUDES: OrderPlaced (insert), PaymentCaptured (mark paid),
//	          OrderShipped / OrderCanceled (remove)
//	EXCLUDES: All other event types, the composite is not defined for them
//
// Each handler covers a disjoint set of event types, so OrElse acts as a
// router: exactly one branch runs per event.
func BuildProjection(store Store) projection.Projection {
	placed := projection.
		HandlerFor(core.OrderPlacedEventType).
		WithEffect(func(ctx context.Context, event projection.DomainEvent) error {
			e, ok := event.(core.OrderPlaced)
			if !ok {
				return ErrUnexpectedEventPayload
			}

			return store.InsertOrder(ctx, OpenOrderRow{
				OrderID:    e.OrderID,
				CustomerID: e.CustomerID,
				TotalCents: e.TotalCents,
				Paid:       false,
				PlacedAt:   e.OccurredAt,
			})
		})

	paid := projection.
		HandlerFor(core.PaymentCapturedEventType).
		WithEffect(func(ctx context.Context, event projection.DomainEvent) error {
			e, ok := event.(core.PaymentCaptured)
			if !ok {
				return ErrUnexpectedEventPayload
			}

			return store.MarkOrderPaid(ctx, e.OrderID)
		})

	closed := projection.
		HandlerFor(core.OrderShippedEventType, core.OrderCanceledEventType).
		WithEffect(func(ctx context.Context, event projection.DomainEvent) error {
			switch e := event.(type) {
			case core.OrderShipped:
				return store.RemoveOrder(ctx, e.OrderID)
			case core.OrderCanceled:
				return store.RemoveOrder(ctx, e.OrderID)
			default:
				return ErrUnexpectedEventPayload
			}
		})

	return placed.OrElse(paid).OrElse(closed)
}

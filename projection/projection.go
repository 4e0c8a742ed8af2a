package projection

import (
	"context"
)

// Projection is a partial function from DomainEvent to a side effect.
//
// For any given event a Projection is either defined (Dispatch will run the
// registered effect) or undefined (it declines to process the event). The
// definedness test must be queryable without triggering the side effect.
type Projection interface {
	// IsDefinedFor reports whether this projection will act on the given event.
	//
	// It is a pure predicate: no side effects, stable across repeated calls for
	// the same event, and consistent with the behavior of Dispatch.
	IsDefinedFor(event DomainEvent) bool

	// Dispatch performs the registered side effect for the given event.
	//
	// It should only be invoked when IsDefinedFor(event) is true; invoked on an
	// undefined event it returns ErrNotDefinedForEvent. Use OnEvent to deliver
	// events unconditionally and safely.
	Dispatch(ctx context.Context, event DomainEvent) error
}

// OnEvent is the stable public entry point for delivering an event to a projection.
//
// If p.IsDefinedFor(event) holds, it returns p.Dispatch(ctx, event); otherwise it
// returns nil (no-op success). Callers never need to pre-check definedness - every
// projection can be fed every event unconditionally.
func OnEvent(ctx context.Context, p Projection, event DomainEvent) error {
	if !p.IsDefinedFor(event) {
		return nil
	}

	return p.Dispatch(ctx, event)
}

// eitherDefinedFor reports whether at least one of the two projections is defined
// for the given event. Both composite kinds derive their definedness from it.
func eitherDefinedFor(first Projection, second Projection, event DomainEvent) bool {
	return first.IsDefinedFor(event) || second.IsDefinedFor(event)
}

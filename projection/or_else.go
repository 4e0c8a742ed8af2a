package projection

import (
	"context"
)

// OrElseProjection is the fallback composite of exactly two projections.
//
// It is defined for an event whenever either child is defined for it. On
// dispatch it runs the first child if that one is defined; only if the first
// is undefined does it run the second. Exactly one side ever executes for a
// given event - this is a strict fallback, not a broadcast.
//
// While its composition is observable via First and Second, it should only be
// constructed with OrElse or the fluent OrElse methods on other projections.
// Values are immutable once constructed.
type OrElseProjection struct {
	first  Projection
	second Projection
}

// OrElse composes two or more projections into a fallback composite.
//
// For each event the resulting composite runs the first defined operand, in
// the given order, and no other. Additional operands nest to the left:
// OrElse(a, b, c) behaves like OrElse(OrElse(a, b), c).
func OrElse(first Projection, second Projection, more ...Projection) OrElseProjection {
	composite := OrElseProjection{first: first, second: second}

	for _, next := range more {
		composite = OrElseProjection{first: composite, second: next}
	}

	return composite
}

// First returns the first child of the composite.
func (p OrElseProjection) First() Projection {
	return p.first
}

// Second returns the second child of the composite.
func (p OrElseProjection) Second() Projection {
	return p.second
}

// IsDefinedFor reports whether either child is defined for the given event.
func (p OrElseProjection) IsDefinedFor(event DomainEvent) bool {
	return eitherDefinedFor(p.first, p.second, event)
}

// Dispatch runs the first child if it is defined for the event; that is the
// composite's entire result and the second child is never consulted. Only if
// the first child is undefined does the second child run instead.
//
// If neither side is defined the composite itself is undefined, so the OnEvent
// entry point resolves to the no-op success path without invoking Dispatch at
// all; a direct Dispatch returns ErrNotDefinedForEvent.
func (p OrElseProjection) Dispatch(ctx context.Context, event DomainEvent) error {
	if p.first.IsDefinedFor(event) {
		return p.first.Dispatch(ctx, event)
	}

	if p.second.IsDefinedFor(event) {
		return p.second.Dispatch(ctx, event)
	}

	return ErrNotDefinedForEvent
}

// AndThen returns a new sequential composite with this composite as the first
// child and next as the second.
func (p OrElseProjection) AndThen(next Projection) AndThenProjection {
	return AndThen(p, next)
}

// OrElse returns a new fallback composite with this composite as the first
// child and fallback as the second.
func (p OrElseProjection) OrElse(fallback Projection) OrElseProjection {
	return OrElse(p, fallback)
}

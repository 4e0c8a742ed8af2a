package projection

import (
	"context"
)

// AndThenProjection is the sequential composite of exactly two projections.
//
// It is defined for an event whenever either child is defined for it. On
// dispatch it delivers the event to the first child and, only after that
// completed successfully, to the second child. Each child is invoked through
// OnEvent, so a child that is itself undefined for the event degrades to a
// no-op within the chain instead of failing it.
//
// While its composition is observable via First and Second, it should only be
// constructed with AndThen or the fluent AndThen methods on other projections.
// Values are immutable once constructed.
type AndThenProjection struct {
	first  Projection
	second Projection
}

// AndThen composes two or more projections into a sequential composite.
//
// The resulting composite delivers an event to all defined operands in the
// given order, each subsequent one only after the previous completed
// successfully. Additional operands nest to the left:
// AndThen(a, b, c) behaves like AndThen(AndThen(a, b), c).
func AndThen(first Projection, second Projection, more ...Projection) AndThenProjection {
	composite := AndThenProjection{first: first, second: second}

	for _, next := range more {
		composite = AndThenProjection{first: composite, second: next}
	}

	return composite
}

// First returns the first child of the composite.
func (p AndThenProjection) First() Projection {
	return p.first
}

// Second returns the second child of the composite.
func (p AndThenProjection) Second() Projection {
	return p.second
}

// IsDefinedFor reports whether either child is defined for the given event.
//
// The composite is defined whenever either side would act, even if the other
// would not. This rule exists so an AndThenProjection can be an operand of an
// outer OrElse composite: the OrElse must see through the AndThen to know if
// any real work would happen.
func (p AndThenProjection) IsDefinedFor(event DomainEvent) bool {
	return eitherDefinedFor(p.first, p.second, event)
}

// Dispatch delivers the event to the first child and, only after that returned
// without error, to the second child.
//
// Children are invoked through OnEvent: a child that is undefined for the event
// is a silent no-op inside the chain. The composite fails with whatever error
// the failing step produced; the later step never starts if the earlier one
// fails. There is no internal retry - callers must expect redelivery of the
// same event to the whole composite, so every leaf effect must be idempotent.
func (p AndThenProjection) Dispatch(ctx context.Context, event DomainEvent) error {
	if !p.IsDefinedFor(event) {
		return ErrNotDefinedForEvent
	}

	if err := OnEvent(ctx, p.first, event); err != nil {
		return err
	}

	return OnEvent(ctx, p.second, event)
}

// AndThen returns a new sequential composite with this composite as the first
// child and next as the second.
func (p AndThenProjection) AndThen(next Projection) AndThenProjection {
	return AndThen(p, next)
}

// OrElse returns a new fallback composite with this composite as the first
// child and fallback as the second.
func (p AndThenProjection) OrElse(fallback Projection) OrElseProjection {
	return OrElse(p, fallback)
}

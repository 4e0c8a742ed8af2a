package projection

import (
	"context"
)

// TypedProjection is a partial function from DomainEvent to a side effect
// producing a value of type A.
//
// It has the same definedness contract as Projection; only the dispatch effect
// differs by yielding a typed value. A TypedProjection takes part in
// composition by first being adapted to a Projection with AsUntyped - the
// adaptation is the only bridge between the typed and untyped worlds, and it
// stays visible at the composition call site.
type TypedProjection[A any] interface {
	// IsDefinedFor reports whether this projection will act on the given event.
	IsDefinedFor(event DomainEvent) bool

	// Dispatch performs the registered side effect and returns the produced value.
	//
	// It should only be invoked when IsDefinedFor(event) is true; invoked on an
	// undefined event it returns the zero value of A and ErrNotDefinedForEvent.
	Dispatch(ctx context.Context, event DomainEvent) (A, error)
}

// UntypedAdapter adapts a TypedProjection to the Projection contract by
// discarding the produced value.
//
// It should only be constructed with AsUntyped.
type UntypedAdapter[A any] struct {
	typed TypedProjection[A]
}

// AsUntyped returns a Projection whose IsDefinedFor delegates directly to the
// typed projection's IsDefinedFor, and whose Dispatch runs the typed effect and
// discards the produced value, propagating failure unchanged.
func AsUntyped[A any](typed TypedProjection[A]) UntypedAdapter[A] {
	return UntypedAdapter[A]{typed: typed}
}

// IsDefinedFor delegates to the adapted typed projection.
func (p UntypedAdapter[A]) IsDefinedFor(event DomainEvent) bool {
	return p.typed.IsDefinedFor(event)
}

// Dispatch runs the typed effect, discards the produced value and returns the
// success or failure outcome unchanged.
func (p UntypedAdapter[A]) Dispatch(ctx context.Context, event DomainEvent) error {
	_, err := p.typed.Dispatch(ctx, event)

	return err
}

// AndThen returns a new sequential composite with the adapted projection as
// the first child and next as the second.
func (p UntypedAdapter[A]) AndThen(next Projection) AndThenProjection {
	return AndThen(p, next)
}

// OrElse returns a new fallback composite with the adapted projection as the
// first child and fallback as the second.
func (p UntypedAdapter[A]) OrElse(fallback Projection) OrElseProjection {
	return OrElse(p, fallback)
}

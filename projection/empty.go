package projection

import (
	"context"
)

// EmptyProjection is the constant projection that is undefined for every event.
//
// It serves as the safe base case for composition: the identity element for
// OrElse folding, e.g. when a dynamic, possibly-empty collection of
// projections is folded into a single composite via repeated OrElse.
type EmptyProjection struct{}

// Empty returns the projection that is undefined for every event.
func Empty() EmptyProjection {
	return EmptyProjection{}
}

// IsDefinedFor always returns false.
func (p EmptyProjection) IsDefinedFor(_ DomainEvent) bool {
	return false
}

// Dispatch always returns ErrNotDefinedForEvent; delivered through OnEvent the
// empty projection is a no-op success for every event.
func (p EmptyProjection) Dispatch(_ context.Context, _ DomainEvent) error {
	return ErrNotDefinedForEvent
}

// AndThen returns a new sequential composite with the empty projection as the
// first child and next as the second.
func (p EmptyProjection) AndThen(next Projection) AndThenProjection {
	return AndThen(p, next)
}

// OrElse returns a new fallback composite with the empty projection as the
// first child and fallback as the second; it behaves identically to fallback.
func (p EmptyProjection) OrElse(fallback Projection) OrElseProjection {
	return OrElse(p, fallback)
}

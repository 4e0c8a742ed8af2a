package projection

import (
	"context"
	"slices"
)

// EffectFunc is the side effect a leaf projection performs for an event.
type EffectFunc func(ctx context.Context, event DomainEvent) error

// TypedEffectFunc is the side effect a typed leaf projection performs for an
// event, producing a value of type A.
type TypedEffectFunc[A any] func(ctx context.Context, event DomainEvent) (A, error)

/***** EventHandler *****/

// EventHandler is a leaf Projection routing on event type identifiers.
//
// It is defined for exactly the declared event types (or for every event when
// built as a catch-all) and runs its effect on dispatch. It should only be
// constructed with HandlerFor or HandlerForAnyEvent followed by WithEffect;
// values are immutable once built.
type EventHandler struct {
	eventTypes []EventTypeString
	catchAll   bool
	effect     EffectFunc
}

// IsDefinedFor reports whether the event's type is among the declared event
// types, or unconditionally true for a catch-all handler. A handler built
// without an effect is defined for nothing.
func (h EventHandler) IsDefinedFor(event DomainEvent) bool {
	if h.effect == nil {
		return false
	}

	if h.catchAll {
		return true
	}

	return slices.Contains(h.eventTypes, event.IsEventType())
}

// Dispatch runs the handler's effect for the given event.
func (h EventHandler) Dispatch(ctx context.Context, event DomainEvent) error {
	if !h.IsDefinedFor(event) {
		return ErrNotDefinedForEvent
	}

	return h.effect(ctx, event)
}

// AndThen returns a new sequential composite with this handler as the first
// child and next as the second.
func (h EventHandler) AndThen(next Projection) AndThenProjection {
	return AndThen(h, next)
}

// OrElse returns a new fallback composite with this handler as the first
// child and fallback as the second.
func (h EventHandler) OrElse(fallback Projection) OrElseProjection {
	return OrElse(h, fallback)
}

/***** HandlerBuilder *****/

// HandlerBuilder accumulates the event types of a leaf projection and is
// completed with WithEffect.
type HandlerBuilder struct {
	eventTypes []EventTypeString
	catchAll   bool
}

// HandlerFor starts building a leaf projection defined for one or multiple event types.
//
// It sanitizes the input:
//   - removing empty event types ("")
//   - sorting the event types
//   - removing duplicate event types
func HandlerFor(eventType EventTypeString, eventTypes ...EventTypeString) HandlerBuilder {
	return HandlerBuilder{eventTypes: sanitizeEventTypes(eventType, eventTypes...)}
}

// HandlerForAnyEvent starts building a catch-all leaf projection defined for every event.
func HandlerForAnyEvent() HandlerBuilder {
	return HandlerBuilder{catchAll: true}
}

// WithEffect completes the builder into an EventHandler running the given effect.
//
// A nil effect yields a handler that is defined for nothing.
func (b HandlerBuilder) WithEffect(effect EffectFunc) EventHandler {
	return EventHandler{
		eventTypes: b.eventTypes,
		catchAll:   b.catchAll,
		effect:     effect,
	}
}

/***** TypedEventHandler *****/

// TypedEventHandler is a leaf TypedProjection routing on event type identifiers.
//
// It should only be constructed with TypedHandlerFor or TypedHandlerForAnyEvent
// followed by WithEffect; values are immutable once built.
type TypedEventHandler[A any] struct {
	eventTypes []EventTypeString
	catchAll   bool
	effect     TypedEffectFunc[A]
}

// IsDefinedFor reports whether the event's type is among the declared event
// types, or unconditionally true for a catch-all handler. A handler built
// without an effect is defined for nothing.
func (h TypedEventHandler[A]) IsDefinedFor(event DomainEvent) bool {
	if h.effect == nil {
		return false
	}

	if h.catchAll {
		return true
	}

	return slices.Contains(h.eventTypes, event.IsEventType())
}

// Dispatch runs the handler's effect for the given event and returns the
// produced value.
func (h TypedEventHandler[A]) Dispatch(ctx context.Context, event DomainEvent) (A, error) {
	if !h.IsDefinedFor(event) {
		var zero A
		return zero, ErrNotDefinedForEvent
	}

	return h.effect(ctx, event)
}

/***** TypedHandlerBuilder *****/

// TypedHandlerBuilder accumulates the event types of a typed leaf projection
// and is completed with WithEffect.
type TypedHandlerBuilder[A any] struct {
	eventTypes []EventTypeString
	catchAll   bool
}

// TypedHandlerFor starts building a typed leaf projection defined for one or
// multiple event types.
//
// It sanitizes the input:
//   - removing empty event types ("")
//   - sorting the event types
//   - removing duplicate event types
func TypedHandlerFor[A any](eventType EventTypeString, eventTypes ...EventTypeString) TypedHandlerBuilder[A] {
	return TypedHandlerBuilder[A]{eventTypes: sanitizeEventTypes(eventType, eventTypes...)}
}

// TypedHandlerForAnyEvent starts building a catch-all typed leaf projection
// defined for every event.
func TypedHandlerForAnyEvent[A any]() TypedHandlerBuilder[A] {
	return TypedHandlerBuilder[A]{catchAll: true}
}

// WithEffect completes the builder into a TypedEventHandler running the given effect.
//
// A nil effect yields a handler that is defined for nothing.
func (b TypedHandlerBuilder[A]) WithEffect(effect TypedEffectFunc[A]) TypedEventHandler[A] {
	return TypedEventHandler[A]{
		eventTypes: b.eventTypes,
		catchAll:   b.catchAll,
		effect:     effect,
	}
}

func sanitizeEventTypes(
	eventType EventTypeString,
	eventTypes ...EventTypeString,
) []EventTypeString {

	allEventTypes := append([]EventTypeString{eventType}, eventTypes...)
	allEventTypes = slices.DeleteFunc(
		allEventTypes,
		func(e EventTypeString) bool {
			return e == ""
		})
	slices.Sort(allEventTypes)
	allEventTypes = slices.Compact(allEventTypes)
	allEventTypes = slices.Clip(allEventTypes)

	return allEventTypes
}

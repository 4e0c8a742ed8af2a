// Package projection provides partial, composable handlers of domain events
// and combinators to assemble them into larger handlers.
//
// A Projection is a partial function over domain events: for any given event
// it is either defined (it will act) or undefined (it declines). Definedness
// is queryable without triggering the side effect, and the package-level
// OnEvent entry point lets callers feed every event to every projection
// unconditionally - undefined events resolve to a no-op success.
//
// Two composition operators build larger projections from smaller ones:
//   - AndThen: sequential composition, both children act in fixed order,
//     the second only after the first succeeded
//   - OrElse: fallback composition, the second child acts only if the first
//     is not defined for the event
//
// Composites are immutable binary values and themselves satisfy the
// Projection contract, so they nest arbitrarily deep.
//
// Common usage pattern:
//
//	openOrders := projection.HandlerFor(
//		core.OrderPlacedEventType,
//		core.OrderShippedEventType).
//		WithEffect(store.ApplyOrderEvent)
//
//	auditLog := projection.HandlerForAnyEvent().
//		WithEffect(audit.RecordEvent)
//
//	root := projection.AndThen(openOrders, dailyRevenue).OrElse(auditLog)
//
//	err := projection.OnEvent(ctx, root, event)
//	if err != nil {
//		// handle error, possibly redeliver the event
//	}
package projection

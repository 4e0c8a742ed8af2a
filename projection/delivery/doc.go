// Package delivery feeds stored domain events into composed projections.
//
// The package connects three concerns that the projection package itself
// stays agnostic of: where serialized events come from (EventFeed), where
// a projection remembers its position (CheckpointStore), and how serialized
// events become typed domain events (ConvertFunc). The Processor ties them
// together into a poll loop:
//
//	processor, err := delivery.NewProcessor(
//		feed,              // delivery.EventFeed, e.g. from postgresengine
//		checkpoints,       // delivery.CheckpointStore, e.g. from redisengine
//		convert,           // delivery.ConvertFunc mapping StorableEvent to a domain event
//		"open-orders",     // projection name, used for checkpoints and metrics
//		openOrdersHandler, // any projection.Projection, usually a composite
//		delivery.WithBatchSize(100),
//		delivery.WithPollInterval(250*time.Millisecond),
//	)
//	if err != nil {
//		// handle configuration error
//	}
//
//	err = processor.Run(ctx) // blocks until ctx is canceled or a run fails
//
// # Delivery Guarantees
//
// The Processor delivers events at-least-once: the checkpoint is saved after
// a batch has been delivered, so a crash between delivery and checkpointing
// replays the tail of the batch on the next run. Projection effects must
// therefore tolerate re-delivery of the same event.
//
// Events are delivered strictly in feed order. A failing effect stops the
// run; the checkpoint is advanced to the last successfully delivered event,
// so the failing event is the first one retried on the next run.
//
// Transient infrastructure failures (fetching events, loading or saving
// checkpoints) are retried with exponential backoff. Failures inside
// projection effects are never retried by the Processor; re-running effects
// is a scheduling decision that belongs to the caller.
//
// # Observability
//
// The Processor accepts the same dependency-free observability interfaces
// as the projection package: Logger, ContextualLogger, MetricsCollector,
// and TracingCollector. All of them are optional; a Processor without any
// of them configured is completely silent.
package delivery

// Package testdoubles provides test doubles (spies) for the projection observability interfaces.
//
// This package contains spy implementations for the dependency-free observability
// interfaces consumed by the delivery Processor:
//   - MetricsCollectorSpy: captures metrics recording calls for verification
//   - TracingCollectorSpy: captures tracing spans with their status and attributes
//   - ContextualLoggerSpy: captures structured logging with context
//   - LogHandlerSpy: captures slog records, so a plain *slog.Logger can be asserted on
//
// These test doubles enable testing of observability instrumentation without
// requiring actual telemetry backends.
package testdoubles

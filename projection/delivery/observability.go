package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AntonStoeckl/composable-projections-go/projection"
)

const (
	// ProcessorRunDurationMetric tracks processor run duration (OpenTelemetry-compatible).
	ProcessorRunDurationMetric = "projectionprocessor_run_duration_seconds"

	// ProcessorRunsMetric tracks total processor runs.
	ProcessorRunsMetric = "projectionprocessor_runs_total"

	// ProcessorEventsPerRunMetric tracks how many events a single run delivered.
	ProcessorEventsPerRunMetric = "projectionprocessor_events_per_run"

	// ProcessorCanceledMetric tracks canceled runs.
	ProcessorCanceledMetric = "projectionprocessor_canceled_runs_total"

	// ProcessorTimeoutMetric tracks timed-out runs.
	ProcessorTimeoutMetric = "projectionprocessor_timeout_runs_total"

	// ProcessorRetriesMetric tracks retry attempts for transient infrastructure failures.
	//
	// Labels:
	//   - operation: Which infrastructure operation was retried
	//   - attempt_number: Which retry attempt this was
	//   - error_type: Classified cause of the retried failure
	ProcessorRetriesMetric = "projectionprocessor_retries_total"

	// ProcessorRetryDelayMetric tracks backoff delays before retry attempts.
	ProcessorRetryDelayMetric = "projectionprocessor_retry_delay_seconds"

	// ProcessorMaxRetriesReachedMetric tracks when retry exhaustion occurs.
	//
	// Labels:
	//   - operation: Which infrastructure operation exhausted its retries
	//   - final_error_type: Error type that caused the final failure
	ProcessorMaxRetriesReachedMetric = "projectionprocessor_max_retries_reached_total"

	// StatusSuccess indicates a run that delivered at least one event.
	StatusSuccess = "success"

	// StatusIdle indicates a run that found no new events.
	StatusIdle = "idle"

	// StatusError indicates a failed run.
	StatusError = "error"

	// StatusCanceled indicates a run was canceled due to context cancellation.
	StatusCanceled = "canceled"

	// StatusTimeout indicates a run timed out due to context deadline exceeded.
	StatusTimeout = "timeout"

	// LogMsgRunStarted is logged when a processor run begins.
	LogMsgRunStarted = "projection processor run started"

	// LogMsgRunCompleted is logged when a processor run succeeds.
	LogMsgRunCompleted = "projection processor run completed"

	// LogMsgRunFailed is logged when a processor run fails.
	LogMsgRunFailed = "projection processor run failed"

	// LogAttrProjectionName identifies the projection in logs and metric labels.
	LogAttrProjectionName = "projection_name"

	// LogAttrStatus indicates the run status.
	LogAttrStatus = "status"

	// LogAttrDurationMS indicates the run duration in milliseconds.
	LogAttrDurationMS = "duration_ms"

	// LogAttrError contains error details.
	LogAttrError = "error"

	// LogAttrOperation indicates which infrastructure operation was being performed.
	LogAttrOperation = "operation"

	// LogAttrEventCount indicates the number of events delivered.
	LogAttrEventCount = "event_count"

	// LogAttrFromSequence indicates the sequence number a run resumed after.
	LogAttrFromSequence = "from_sequence"

	// LogAttrToSequence indicates the sequence number a run advanced to.
	LogAttrToSequence = "to_sequence"

	// SpanNameProcessorRun is the tracing span name for processor runs.
	SpanNameProcessorRun = "projectionprocessor.run"

	// OperationFetchEvents labels retries of event fetching.
	OperationFetchEvents = "fetch_events"

	// OperationLoadCheckpoint labels retries of checkpoint loading.
	OperationLoadCheckpoint = "load_checkpoint"

	// OperationSaveCheckpoint labels retries of checkpoint saving.
	OperationSaveCheckpoint = "save_checkpoint"

	// OperationDeliverEvent labels redeliveries of failing projection effects.
	OperationDeliverEvent = "deliver_event"
)

// Interface aliases for convenience when instrumenting the Processor.
// These match the projection observability interfaces for consistency.

// Logger interface for basic logging in the delivery pipeline.
type Logger = projection.Logger

// ContextualLogger interface for context-aware logging in the delivery pipeline.
type ContextualLogger = projection.ContextualLogger

// MetricsCollector interface for collecting delivery pipeline metrics.
type MetricsCollector = projection.MetricsCollector

// ContextualMetricsCollector extends MetricsCollector with context-aware methods.
type ContextualMetricsCollector = projection.ContextualMetricsCollector

// TracingCollector interface for distributed tracing in the delivery pipeline.
type TracingCollector = projection.TracingCollector

// SpanContext represents an active tracing span.
type SpanContext = projection.SpanContext

// BuildRunLabels creates standard metric labels for processor runs.
func BuildRunLabels(projectionName, status string) map[string]string {
	return map[string]string{
		LogAttrProjectionName: projectionName,
		LogAttrStatus:         status,
	}
}

// BuildRetryLabels creates standard metric labels for retry operations.
func BuildRetryLabels(operation string, attemptNumber int, errorType string) map[string]string {
	return map[string]string{
		LogAttrOperation: operation,
		"attempt_number": fmt.Sprintf("%d", attemptNumber),
		"error_type":     errorType,
	}
}

// ToMilliseconds converts a time.Duration to float64 milliseconds with precision.
func ToMilliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

// RecordRunMetrics is a helper function to record all relevant metrics for a processor run.
// It handles both context-aware and basic metrics collectors automatically.
func RecordRunMetrics(
	ctx context.Context,
	collector MetricsCollector,
	projectionName string,
	status string,
	duration time.Duration,
	eventCount int,
) {
	if collector == nil {
		return
	}

	labels := BuildRunLabels(projectionName, status)

	// Record duration metric and run counter
	if contextualCollector, ok := collector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, ProcessorRunDurationMetric, duration, labels)
		contextualCollector.IncrementCounterContext(ctx, ProcessorRunsMetric, labels)
	} else {
		collector.RecordDuration(ProcessorRunDurationMetric, duration, labels)
		collector.IncrementCounter(ProcessorRunsMetric, labels)
	}

	// Record delivered event counts separately, idle runs would only skew the distribution
	if eventCount > 0 {
		if contextualCollector, ok := collector.(ContextualMetricsCollector); ok {
			contextualCollector.RecordValueContext(ctx, ProcessorEventsPerRunMetric, float64(eventCount), labels)
		} else {
			collector.RecordValue(ProcessorEventsPerRunMetric, float64(eventCount), labels)
		}
	}

	// Record canceled runs separately
	if status == StatusCanceled {
		if contextualCollector, ok := collector.(ContextualMetricsCollector); ok {
			contextualCollector.IncrementCounterContext(ctx, ProcessorCanceledMetric, labels)
		} else {
			collector.IncrementCounter(ProcessorCanceledMetric, labels)
		}
	}

	// Record timed-out runs separately
	if status == StatusTimeout {
		if contextualCollector, ok := collector.(ContextualMetricsCollector); ok {
			contextualCollector.IncrementCounterContext(ctx, ProcessorTimeoutMetric, labels)
		} else {
			collector.IncrementCounter(ProcessorTimeoutMetric, labels)
		}
	}
}

// StartRunSpan starts a distributed tracing span for a processor run.
// Returns the updated context and span context, or original context and nil if tracing is disabled.
func StartRunSpan(
	ctx context.Context,
	tracingCollector TracingCollector,
	projectionName string,
) (context.Context, SpanContext) {
	if tracingCollector == nil {
		return ctx, nil
	}

	attrs := map[string]string{
		LogAttrProjectionName: projectionName,
	}

	return tracingCollector.StartSpan(ctx, SpanNameProcessorRun, attrs)
}

// FinishRunSpan completes a distributed tracing span with the run outcome.
func FinishRunSpan(
	tracingCollector TracingCollector,
	span SpanContext,
	status string,
	duration time.Duration,
	err error,
) {
	if tracingCollector == nil || span == nil {
		return
	}

	attrs := map[string]string{
		LogAttrStatus:     status,
		LogAttrDurationMS: formatDurationMS(duration),
	}

	if err != nil {
		attrs[LogAttrError] = err.Error()
	}

	tracingCollector.FinishSpan(span, status, attrs)
}

// LogRunStart logs the beginning of a processor run.
func LogRunStart(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	projectionName string,
) {
	if contextualLogger != nil {
		contextualLogger.DebugContext(ctx, LogMsgRunStarted, LogAttrProjectionName, projectionName)
	} else if logger != nil {
		logger.Debug(LogMsgRunStarted, LogAttrProjectionName, projectionName)
	}
}

// LogRunSuccess logs successful run completion.
// Idle runs are logged at debug level so a quiet feed does not flood the logs.
func LogRunSuccess(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	projectionName string,
	status string,
	eventCount int,
	toSequence SequenceNumberUint,
	duration time.Duration,
) {
	args := []any{
		LogAttrProjectionName, projectionName,
		LogAttrStatus, status,
		LogAttrEventCount, eventCount,
		LogAttrToSequence, toSequence,
		LogAttrDurationMS, ToMilliseconds(duration),
	}

	if status == StatusIdle {
		if contextualLogger != nil {
			contextualLogger.DebugContext(ctx, LogMsgRunCompleted, args...)
		} else if logger != nil {
			logger.Debug(LogMsgRunCompleted, args...)
		}

		return
	}

	if contextualLogger != nil {
		contextualLogger.InfoContext(ctx, LogMsgRunCompleted, args...)
	} else if logger != nil {
		logger.Info(LogMsgRunCompleted, args...)
	}
}

// LogRunError logs run failures.
func LogRunError(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	projectionName string,
	err error,
) {
	args := []any{
		LogAttrProjectionName, projectionName,
		LogAttrError, err.Error(),
	}

	if contextualLogger != nil {
		contextualLogger.ErrorContext(ctx, LogMsgRunFailed, args...)
	} else if logger != nil {
		logger.Error(LogMsgRunFailed, args...)
	}
}

// formatDurationMS formats duration in milliseconds for span attributes.
func formatDurationMS(duration time.Duration) string {
	return fmt.Sprintf("%.2f", ToMilliseconds(duration))
}

// IsCancellationError checks if an error is due to context cancellation.
func IsCancellationError(err error) bool {
	return errors.Is(err, context.Canceled)
}

// IsTimeoutError checks if an error is due to context deadline exceeded.
func IsTimeoutError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

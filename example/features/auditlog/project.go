package auditlog

import (
	"context"
	"time"

	"github.com/AntonStoeckl/composable-projections-go/example/shared/core"
	"github.com/AntonStoeckl/composable-projections-go/projection"
)

// Entry is one audit log line.
type Entry struct {
	EventType  core.EventTypeString
	Detail     string
	OccurredAt time.Time
}

// Recorder persists audit entries.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// LoggerRecorder writes audit entries to a structured logger.
type LoggerRecorder struct {
	logger projection.Logger
}

// NewLoggerRecorder creates a Recorder on the given logger.
func NewLoggerRecorder(logger projection.Logger) LoggerRecorder {
	return LoggerRecorder{logger: logger}
}

// Record writes the entry as one Info line.
func (r LoggerRecorder) Record(_ context.Context, entry Entry) error {
	r.logger.Info("event audited",
		"event_type", entry.EventType,
		"detail", entry.Detail,
		"occurred_at", entry.OccurredAt)

	return nil
}

// BuildProjection returns the catch-all projection feeding the Recorder.
//
// Projection Logic:
//
//	GIVEN: The order events on the shared feed
//	WHEN: Any event is delivered
//	THEN: An audit entry with the event type and occurrence time is recorded
//	AND: For UnknownEventObserved the actual event type is kept as detail
func BuildProjection(recorder Recorder) projection.Projection {
	return projection.
		HandlerForAnyEvent().
		WithEffect(func(ctx context.Context, event projection.DomainEvent) error {
			entry := Entry{
				EventType:  event.IsEventType(),
				OccurredAt: event.HasOccurredAt(),
			}

			if unknown, ok := event.(core.UnknownEventObserved); ok {
				entry.Detail = unknown.ActualEventType
			}

			return recorder.Record(ctx, entry)
		})
}

package delivery

import (
	"context"
	"errors"
	"time"

	"github.com/AntonStoeckl/composable-projections-go/projection"
)

var (
	// ErrFetchingEventsFailed is returned when an event feed fails to fetch events.
	ErrFetchingEventsFailed = errors.New("fetching events failed")

	// ErrConvertingEventFailed is returned when a stored event can not be converted to a domain event.
	ErrConvertingEventFailed = errors.New("converting stored event failed")

	// ErrDeliveringEventFailed is returned when a projection effect fails for a delivered event.
	ErrDeliveringEventFailed = errors.New("delivering event to projection failed")
)

// EventFeed supplies serialized events in global sequence order.
//
// FetchAfter returns up to limit events with a sequence number strictly greater
// than afterSequenceNumber, ordered by sequence number ascending.
// Implementations should wrap infrastructure failures with ErrFetchingEventsFailed
// so the Processor can treat them as transient.
type EventFeed interface {
	FetchAfter(ctx context.Context, afterSequenceNumber SequenceNumberUint, limit int) (StorableEvents, error)
}

// CheckpointStore persists the feed position per projection.
//
// Load returns ErrNoCheckpointFound (possibly wrapped) when no checkpoint exists
// for the projection yet; the Processor then starts from the beginning of the feed.
// Implementations should wrap infrastructure failures with ErrLoadingCheckpointFailed
// and ErrSavingCheckpointFailed so the Processor can treat them as transient.
type CheckpointStore interface {
	Load(ctx context.Context, projectionName string) (Checkpoint, error)
	Save(ctx context.Context, checkpoint Checkpoint) error
}

// ConvertFunc maps a serialized event to the domain event the projection understands.
// A conversion failure stops the run; it is never retried since conversion is deterministic.
type ConvertFunc func(storableEvent StorableEvent) (projection.DomainEvent, error)

// Progress describes how far a projection has advanced after a successful run.
type Progress struct {
	ProjectionName  string
	SequenceNumber  SequenceNumberUint
	EventsProcessed int
	ProcessedAt     time.Time
}

// ProgressListener is notified after each run that delivered at least one event.
// Listeners must not block for long and must handle their own failures;
// the Processor never fails a run because of a listener.
type ProgressListener interface {
	ProjectionProgressed(ctx context.Context, progress Progress)
}

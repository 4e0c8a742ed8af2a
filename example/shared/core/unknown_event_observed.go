package core

import (
	"time"
)

// UnknownEventObservedEventType is the event type identifier.
const UnknownEventObservedEventType = "UnknownEventObserved"

// UnknownEventObserved stands in for events the conversion layer does not recognize.
// Keeping the actual type around lets the audit log record what was skipped
// without failing the whole projection run.
type UnknownEventObserved struct {
	EventType       EventTypeString
	ActualEventType EventTypeString
	OccurredAt      OccurredAtTS
}

// BuildUnknownEventObserved creates a new UnknownEventObserved event.
func BuildUnknownEventObserved(
	actualEventType EventTypeString,
	occurredAt time.Time,
) UnknownEventObserved {

	event := UnknownEventObserved{
		EventType:       UnknownEventObservedEventType,
		ActualEventType: actualEventType,
		OccurredAt:      ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e UnknownEventObserved) IsEventType() string {
	return UnknownEventObservedEventType
}

// HasOccurredAt returns when this event occurred.
func (e UnknownEventObserved) HasOccurredAt() time.Time {
	return e.OccurredAt
}

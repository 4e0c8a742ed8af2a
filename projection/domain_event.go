package projection

import (
	"time"
)

// EventTypeString is a type alias for string, representing a domain event type identifier.
type EventTypeString = string

// DomainEvents is a slice of DomainEvent instances.
type DomainEvents = []DomainEvent

// DomainEvent represents a business event that has occurred in the domain.
//
// The package imposes no internal structure beyond identification: concrete
// handler logic supplied by callers pattern-matches on the concrete type.
type DomainEvent interface {
	// IsEventType returns the string identifier for this event type.
	IsEventType() string

	// HasOccurredAt returns when this event occurred.
	HasOccurredAt() time.Time
}

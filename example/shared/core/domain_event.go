package core

import (
	"github.com/AntonStoeckl/composable-projections-go/projection"
)

// DomainEvent is the interface all events of this example implement.
// It is the same contract that projections are composed over.
type DomainEvent = projection.DomainEvent

// DomainEvents is a slice of DomainEvent instances.
type DomainEvents = projection.DomainEvents

package dailyrevenue

import (
	"context"
	"errors"
	"sync"

	"github.com/AntonStoeckl/composable-projections-go/example/shared/core"
	"github.com/AntonStoeckl/composable-projections-go/projection"
)

// ErrUnexpectedEventPayload is returned when an event's payload does not match its declared type.
var ErrUnexpectedEventPayload = errors.New("unexpected event payload for handled event type")

const dayLayout = "2006-01-02"

// DailyTotal is the value a dispatch returns: the day's revenue after applying the event.
type DailyTotal struct {
	Day        string
	TotalCents core.CentsInt
}

// Tracker accumulates captured payments per calendar day (UTC).
// Safe for concurrent reads while the processor applies events.
type Tracker struct {
	mu     sync.Mutex
	totals map[string]core.CentsInt
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		totals: make(map[string]core.CentsInt),
	}
}

// TotalFor returns the accumulated revenue for the given day ("2006-01-02" format).
func (t *Tracker) TotalFor(day string) core.CentsInt {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.totals[day]
}

func (t *Tracker) add(day string, amountCents core.CentsInt) core.CentsInt {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.totals[day] += amountCents

	return t.totals[day]
}

// BuildProjection returns the typed projection that maintains the tracker.
//
// Projection Logic:
//
//	GIVEN: The order events on the shared feed
//	WHEN: A PaymentCaptured event is delivered
//	THEN: The captured amount is added to the day the payment occurred
//	AND: The day's running total is returned as the dispatch value
//	EXCLUDES: All other event types, the projection is not defined for them
func BuildProjection(tracker *Tracker) projection.TypedProjection[DailyTotal] {
	return projection.
		TypedHandlerFor[DailyTotal](core.PaymentCapturedEventType).
		WithEffect(func(_ context.Context, event projection.DomainEvent) (DailyTotal, error) {
			e, ok := event.(core.PaymentCaptured)
			if !ok {
				return DailyTotal{}, ErrUnexpectedEventPayload
			}

			day := e.OccurredAt.UTC().Format(dayLayout)
			total := tracker.add(day, e.AmountCents)

			return DailyTotal{Day: day, TotalCents: total}, nil
		})
}

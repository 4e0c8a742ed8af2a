package projection_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/composable-projections-go/projection"
)

const (
	customerCreatedEventType = "CustomerCreated"
	customerRenamedEventType = "CustomerRenamed"
	customerDeletedEventType = "CustomerDeleted"
)

var errEffectFailed = errors.New("effect failed")

/***** test doubles *****/

// stubEvent is a minimal DomainEvent implementation for core tests.
type stubEvent struct {
	eventType  string
	occurredAt time.Time
}

func (e stubEvent) IsEventType() string {
	return e.eventType
}

func (e stubEvent) HasOccurredAt() time.Time {
	return e.occurredAt
}

func eventOf(eventType string) stubEvent {
	return stubEvent{eventType: eventType, occurredAt: time.Now()}
}

// effectRecorder captures which named effect ran for which event type, in order.
type effectRecorder struct {
	calls []string
}

func (r *effectRecorder) record(name string) {
	r.calls = append(r.calls, name)
}

func (r *effectRecorder) callCount() int {
	return len(r.calls)
}

// recordingHandler builds a leaf projection that records its executions under the given name.
func recordingHandler(recorder *effectRecorder, name string, eventType string, eventTypes ...string) projection.EventHandler {
	return projection.HandlerFor(eventType, eventTypes...).
		WithEffect(func(_ context.Context, _ projection.DomainEvent) error {
			recorder.record(name)
			return nil
		})
}

// failingHandler builds a leaf projection that records its executions and then fails.
func failingHandler(recorder *effectRecorder, name string, failWith error, eventType string, eventTypes ...string) projection.EventHandler {
	return projection.HandlerFor(eventType, eventTypes...).
		WithEffect(func(_ context.Context, _ projection.DomainEvent) error {
			recorder.record(name)
			return failWith
		})
}

/***** OnEvent *****/

func Test_OnEvent_DispatchesEffect_WhenProjectionIsDefinedForEvent(t *testing.T) {
	// arrange
	recorder := &effectRecorder{}
	handler := recordingHandler(recorder, "created", customerCreatedEventType)

	// act
	err := projection.OnEvent(context.Background(), handler, eventOf(customerCreatedEventType))

	// assert
	require.NoError(t, err)
	assert.Equal(t, []string{"created"}, recorder.calls)
}

func Test_OnEvent_IsNoOpSuccess_WhenProjectionIsNotDefinedForEvent(t *testing.T) {
	// arrange
	recorder := &effectRecorder{}
	handler := recordingHandler(recorder, "created", customerCreatedEventType)

	// act
	err := projection.OnEvent(context.Background(), handler, eventOf(customerRenamedEventType))

	// assert
	require.NoError(t, err)
	assert.Zero(t, recorder.callCount())
}

func Test_OnEvent_PropagatesEffectFailureVerbatim(t *testing.T) {
	// arrange
	recorder := &effectRecorder{}
	handler := failingHandler(recorder, "created", errEffectFailed, customerCreatedEventType)

	// act
	err := projection.OnEvent(context.Background(), handler, eventOf(customerCreatedEventType))

	// assert
	require.Error(t, err)
	assert.ErrorIs(t, err, errEffectFailed)
	assert.NotErrorIs(t, err, projection.ErrNotDefinedForEvent)
}

func Test_OnEvent_NeverFailsWithNotDefined_ForAnyProjectionKind(t *testing.T) {
	// arrange
	recorder := &effectRecorder{}
	created := recordingHandler(recorder, "created", customerCreatedEventType)
	renamed := recordingHandler(recorder, "renamed", customerRenamedEventType)

	projections := []projection.Projection{
		projection.Empty(),
		created,
		projection.AndThen(created, renamed),
		projection.OrElse(created, renamed),
	}

	// act + assert
	for _, p := range projections {
		err := projection.OnEvent(context.Background(), p, eventOf(customerDeletedEventType))

		require.NoError(t, err)
	}

	assert.Zero(t, recorder.callCount())
}

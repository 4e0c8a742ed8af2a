package projection_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/composable-projections-go/projection"
)

func Test_HandlerFor_IsDefinedForDeclaredEventTypesOnly(t *testing.T) {
	// arrange
	recorder := &effectRecorder{}
	handler := recordingHandler(recorder, "customer", customerCreatedEventType, customerRenamedEventType)

	// act + assert
	assert.True(t, handler.IsDefinedFor(eventOf(customerCreatedEventType)))
	assert.True(t, handler.IsDefinedFor(eventOf(customerRenamedEventType)))
	assert.False(t, handler.IsDefinedFor(eventOf(customerDeletedEventType)))
}

func Test_HandlerFor_IgnoresDuplicateAndEmptyEventTypes(t *testing.T) {
	// arrange
	recorder := &effectRecorder{}
	handler := recordingHandler(
		recorder, "customer",
		customerCreatedEventType, customerCreatedEventType, "", customerRenamedEventType, "",
	)

	// act
	createdErr := projection.OnEvent(context.Background(), handler, eventOf(customerCreatedEventType))
	renamedErr := projection.OnEvent(context.Background(), handler, eventOf(customerRenamedEventType))

	// assert
	require.NoError(t, createdErr)
	require.NoError(t, renamedErr)
	assert.Equal(t, []string{"customer", "customer"}, recorder.calls)
	assert.False(t, handler.IsDefinedFor(eventOf("")))
}

func Test_HandlerFor_IsDefinedForNothing_WhenOnlyEmptyEventTypesWereGiven(t *testing.T) {
	// arrange
	recorder := &effectRecorder{}
	handler := recordingHandler(recorder, "customer", "", "")

	// act
	err := projection.OnEvent(context.Background(), handler, eventOf(customerCreatedEventType))

	// assert
	require.NoError(t, err)
	assert.Zero(t, recorder.callCount())
}

func Test_HandlerForAnyEvent_IsDefinedForEveryEvent(t *testing.T) {
	// arrange
	recorder := &effectRecorder{}
	catchAll := projection.HandlerForAnyEvent().
		WithEffect(func(_ context.Context, _ projection.DomainEvent) error {
			recorder.record("catchAll")
			return nil
		})

	// act
	createdErr := projection.OnEvent(context.Background(), catchAll, eventOf(customerCreatedEventType))
	archivedErr := projection.OnEvent(context.Background(), catchAll, eventOf("CustomerArchived"))

	// assert
	require.NoError(t, createdErr)
	require.NoError(t, archivedErr)
	assert.True(t, catchAll.IsDefinedFor(eventOf("AnythingHappened")))
	assert.Equal(t, []string{"catchAll", "catchAll"}, recorder.calls)
}

func Test_Handler_IsDefinedForNothing_WhenEffectIsNil(t *testing.T) {
	// arrange
	handler := projection.HandlerFor(customerCreatedEventType).WithEffect(nil)

	// act
	err := projection.OnEvent(context.Background(), handler, eventOf(customerCreatedEventType))

	// assert
	require.NoError(t, err)
	assert.False(t, handler.IsDefinedFor(eventOf(customerCreatedEventType)))
}

func Test_Handler_Dispatch_FailsWithNotDefined_WhenUndefinedForEvent(t *testing.T) {
	// arrange
	recorder := &effectRecorder{}
	handler := recordingHandler(recorder, "customer", customerCreatedEventType)

	// act
	err := handler.Dispatch(context.Background(), eventOf(customerDeletedEventType))

	// assert
	require.Error(t, err)
	assert.ErrorIs(t, err, projection.ErrNotDefinedForEvent)
	assert.Zero(t, recorder.callCount())
}

func Test_Handler_EffectReceivesTheDispatchedEvent(t *testing.T) {
	// arrange
	var seenEventType string
	handler := projection.HandlerFor(customerCreatedEventType, customerRenamedEventType).
		WithEffect(func(_ context.Context, event projection.DomainEvent) error {
			seenEventType = event.IsEventType()
			return nil
		})

	// act
	err := projection.OnEvent(context.Background(), handler, eventOf(customerRenamedEventType))

	// assert
	require.NoError(t, err)
	assert.Equal(t, customerRenamedEventType, seenEventType)
}

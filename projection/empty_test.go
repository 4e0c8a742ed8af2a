package projection_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/composable-projections-go/projection"
)

func Test_Empty_IsNeverDefined_ForAnyEvent(t *testing.T) {
	// arrange
	empty := projection.Empty()

	// act + assert
	assert.False(t, empty.IsDefinedFor(eventOf(customerCreatedEventType)))
	assert.False(t, empty.IsDefinedFor(eventOf(customerRenamedEventType)))
	assert.False(t, empty.IsDefinedFor(eventOf("")))
}

func Test_Empty_Dispatch_FailsWithNotDefined(t *testing.T) {
	// arrange
	empty := projection.Empty()

	// act
	err := empty.Dispatch(context.Background(), eventOf(customerCreatedEventType))

	// assert
	require.Error(t, err)
	assert.ErrorIs(t, err, projection.ErrNotDefinedForEvent)
}

func Test_Empty_OnEvent_IsNoOpSuccess(t *testing.T) {
	// arrange
	empty := projection.Empty()

	// act
	err := projection.OnEvent(context.Background(), empty, eventOf(customerCreatedEventType))

	// assert
	assert.NoError(t, err)
}

func Test_Empty_IsTheIdentityForOrElse_OnEitherSide(t *testing.T) {
	// arrange
	eventTypes := []string{customerCreatedEventType, customerRenamedEventType, customerDeletedEventType}

	for _, eventType := range eventTypes {
		plainRecorder := &effectRecorder{}
		plain := recordingHandler(plainRecorder, "created", customerCreatedEventType)

		leftRecorder := &effectRecorder{}
		leftIdentity := projection.Empty().OrElse(recordingHandler(leftRecorder, "created", customerCreatedEventType))

		rightRecorder := &effectRecorder{}
		rightIdentity := projection.OrElse(recordingHandler(rightRecorder, "created", customerCreatedEventType), projection.Empty())

		// act
		plainErr := projection.OnEvent(context.Background(), plain, eventOf(eventType))
		leftErr := projection.OnEvent(context.Background(), leftIdentity, eventOf(eventType))
		rightErr := projection.OnEvent(context.Background(), rightIdentity, eventOf(eventType))

		// assert
		require.NoError(t, plainErr)
		require.NoError(t, leftErr)
		require.NoError(t, rightErr)
		assert.Equal(t, plain.IsDefinedFor(eventOf(eventType)), leftIdentity.IsDefinedFor(eventOf(eventType)))
		assert.Equal(t, plain.IsDefinedFor(eventOf(eventType)), rightIdentity.IsDefinedFor(eventOf(eventType)))
		assert.Equal(t, plainRecorder.calls, leftRecorder.calls, "event type: %s", eventType)
		assert.Equal(t, plainRecorder.calls, rightRecorder.calls, "event type: %s", eventType)
	}
}

func Test_Empty_SeedsAFoldOverDynamicProjections(t *testing.T) {
	// arrange
	recorder := &effectRecorder{}
	handlers := []projection.Projection{
		recordingHandler(recorder, "created", customerCreatedEventType),
		recordingHandler(recorder, "renamed", customerRenamedEventType),
		recordingHandler(recorder, "deleted", customerDeletedEventType),
	}

	var combined projection.Projection = projection.Empty()
	for _, handler := range handlers {
		combined = projection.OrElse(combined, handler)
	}

	// act
	err := projection.OnEvent(context.Background(), combined, eventOf(customerRenamedEventType))

	// assert
	require.NoError(t, err)
	assert.Equal(t, []string{"renamed"}, recorder.calls)
	assert.False(t, combined.IsDefinedFor(eventOf("CustomerArchived")))
}

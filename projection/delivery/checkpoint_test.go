package delivery_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/composable-projections-go/projection/delivery"
)

func Test_BuildCheckpoint_PopulatesAllFields(t *testing.T) {
	// act
	checkpoint, err := delivery.BuildCheckpoint(testProjectionName, 42)

	// assert
	require.NoError(t, err)
	assert.Equal(t, testProjectionName, checkpoint.ProjectionName)
	assert.Equal(t, delivery.SequenceNumberUint(42), checkpoint.SequenceNumber)
	assert.WithinDuration(t, time.Now(), checkpoint.UpdatedAt, time.Second)
}

func Test_BuildCheckpoint_Fails_WhenTheProjectionNameIsEmpty(t *testing.T) {
	// act
	checkpoint, err := delivery.BuildCheckpoint("", 42)

	// assert
	require.Error(t, err)
	assert.ErrorIs(t, err, delivery.ErrEmptyProjectionNameSupplied)
	assert.Empty(t, checkpoint)
}

func Test_BuildStorableEvent_Fails_WhenThePayloadIsNotValidJSON(t *testing.T) {
	// act
	event, err := delivery.BuildStorableEvent(1, orderPlacedEventType, time.Now(), []byte(`{broken`), []byte(`{}`))

	// assert
	require.Error(t, err)
	assert.ErrorIs(t, err, delivery.ErrInvalidPayloadJSON)
	assert.Empty(t, event)
}

func Test_BuildStorableEvent_Fails_WhenTheMetadataIsNotValidJSON(t *testing.T) {
	// act
	event, err := delivery.BuildStorableEvent(1, orderPlacedEventType, time.Now(), []byte(`{}`), []byte(`broken`))

	// assert
	require.Error(t, err)
	assert.ErrorIs(t, err, delivery.ErrInvalidMetadataJSON)
	assert.Empty(t, event)
}

func Test_BuildStorableEventWithEmptyMetadata_FillsValidEmptyJSON(t *testing.T) {
	// act
	event, err := delivery.BuildStorableEventWithEmptyMetadata(7, orderPlacedEventType, time.Now(), []byte(`{"orderID":"o-1"}`))

	// assert
	require.NoError(t, err)
	assert.Equal(t, delivery.SequenceNumberUint(7), event.SequenceNumber)
	assert.Equal(t, orderPlacedEventType, event.EventType)
	assert.JSONEq(t, `{}`, string(event.MetadataJSON))
}

package natsadapter_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/composable-projections-go/projection/delivery"
	"github.com/AntonStoeckl/composable-projections-go/projection/delivery/natsadapter"
)

type publishedMessage struct {
	subject string
	data    []byte
	headers map[string]string
}

type fakeClient struct {
	published []publishedMessage
	err       error
}

func (f *fakeClient) Publish(subject string, data []byte, headers map[string]string) error {
	f.published = append(f.published, publishedMessage{subject: subject, data: data, headers: headers})
	return f.err
}

func someProgress() delivery.Progress {
	return delivery.Progress{
		ProjectionName:  "open-orders",
		SequenceNumber:  42,
		EventsProcessed: 7,
		ProcessedAt:     time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC),
	}
}

func Test_NewProgressPublisher_ReturnsAnError_WhenNilClientIsSupplied(t *testing.T) {
	// act
	_, err := natsadapter.NewProgressPublisher(nil)

	// assert
	assert.ErrorIs(t, err, natsadapter.ErrNilClientSupplied)
}

func Test_NewProgressPublisher_ReturnsAnError_WhenEmptySubjectPrefixIsSupplied(t *testing.T) {
	// act
	_, err := natsadapter.NewProgressPublisher(&fakeClient{}, natsadapter.WithSubjectPrefix(""))

	// assert
	assert.ErrorIs(t, err, natsadapter.ErrEmptySubjectPrefixSupplied)
}

func Test_ProjectionProgressed_PublishesToTheProjectionSubject(t *testing.T) {
	// arrange
	client := &fakeClient{}
	publisher, err := natsadapter.NewProgressPublisher(client)
	require.NoError(t, err)

	// act
	publisher.ProjectionProgressed(t.Context(), someProgress())

	// assert
	require.Len(t, client.published, 1)
	assert.Equal(t, "projections.progress.open-orders", client.published[0].subject)
}

func Test_ProjectionProgressed_PublishesTheProgressAsJSON(t *testing.T) {
	// arrange
	client := &fakeClient{}
	publisher, err := natsadapter.NewProgressPublisher(client)
	require.NoError(t, err)

	// act
	publisher.ProjectionProgressed(t.Context(), someProgress())

	// assert
	require.Len(t, client.published, 1)
	assert.JSONEq(
		t,
		`{
			"projection_name": "open-orders",
			"sequence_number": 42,
			"events_processed": 7,
			"processed_at": "2025-06-01T12:00:00Z"
		}`,
		string(client.published[0].data),
	)
}

func Test_ProjectionProgressed_StampsEachMessageWithAUniqueMessageID(t *testing.T) {
	// arrange
	client := &fakeClient{}
	publisher, err := natsadapter.NewProgressPublisher(client)
	require.NoError(t, err)

	// act
	publisher.ProjectionProgressed(t.Context(), someProgress())
	publisher.ProjectionProgressed(t.Context(), someProgress())

	// assert
	require.Len(t, client.published, 2)
	firstID := client.published[0].headers["Nats-Msg-Id"]
	secondID := client.published[1].headers["Nats-Msg-Id"]
	assert.NotEmpty(t, firstID)
	assert.NotEmpty(t, secondID)
	assert.NotEqual(t, firstID, secondID)
}

func Test_ProjectionProgressed_UsesACustomSubjectPrefix(t *testing.T) {
	// arrange
	client := &fakeClient{}
	publisher, err := natsadapter.NewProgressPublisher(client, natsadapter.WithSubjectPrefix("orders.positions"))
	require.NoError(t, err)

	// act
	publisher.ProjectionProgressed(t.Context(), someProgress())

	// assert
	require.Len(t, client.published, 1)
	assert.Equal(t, "orders.positions.open-orders", client.published[0].subject)
}

func Test_ProjectionProgressed_SwallowsPublishFailures(t *testing.T) {
	// arrange
	client := &fakeClient{err: errors.New("nats unavailable")}
	publisher, err := natsadapter.NewProgressPublisher(client)
	require.NoError(t, err)

	// act
	publisher.ProjectionProgressed(t.Context(), someProgress())

	// assert
	assert.Len(t, client.published, 1)
}

func Test_ProjectionProgressed_SkipsPublishing_WhenTheContextIsAlreadyCanceled(t *testing.T) {
	// arrange
	client := &fakeClient{}
	publisher, err := natsadapter.NewProgressPublisher(client)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	// act
	publisher.ProjectionProgressed(ctx, someProgress())

	// assert
	assert.Empty(t, client.published)
}

func Test_Connect_ReturnsAnError_WhenTheURLIsEmpty(t *testing.T) {
	// act
	_, _, err := natsadapter.Connect(natsadapter.Config{})

	// assert
	assert.ErrorIs(t, err, natsadapter.ErrEmptyNATSURLSupplied)
}

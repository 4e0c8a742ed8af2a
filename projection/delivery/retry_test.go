package delivery_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/composable-projections-go/projection/delivery"
)

func Test_Retry_ReturnsImmediately_WhenTheFirstAttemptSucceeds(t *testing.T) {
	// arrange
	attempts := 0

	// act
	err := delivery.RetryWithExponentialBackoff(
		context.Background(),
		func(_ context.Context) error {
			attempts++
			return nil
		},
	)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func Test_Retry_FailsFast_WhenTheErrorIsNotRetryable(t *testing.T) {
	// arrange
	attempts := 0
	permanentErr := errors.New("permanent failure")

	// act
	err := delivery.RetryWithExponentialBackoff(
		context.Background(),
		func(_ context.Context) error {
			attempts++
			return permanentErr
		},
	)

	// assert
	require.Error(t, err)
	assert.ErrorIs(t, err, permanentErr)
	assert.Equal(t, 1, attempts)
}

func Test_Retry_SucceedsAfterTransientFailures(t *testing.T) {
	// arrange
	attempts := 0

	// act
	err := delivery.RetryWithExponentialBackoff(
		context.Background(),
		func(_ context.Context) error {
			attempts++
			if attempts < 3 {
				return errors.Join(delivery.ErrFetchingEventsFailed, errFeedUnavailable)
			}
			return nil
		},
		delivery.WithBaseDelay(0),
		delivery.WithJitterFactor(0),
	)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func Test_Retry_RetriesFailedDeliveries(t *testing.T) {
	// arrange
	attempts := 0

	// act
	err := delivery.RetryWithExponentialBackoff(
		context.Background(),
		func(_ context.Context) error {
			attempts++
			if attempts < 2 {
				return errors.Join(delivery.ErrDeliveringEventFailed, errProjectionBroken)
			}
			return nil
		},
		delivery.WithBaseDelay(0),
		delivery.WithJitterFactor(0),
	)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func Test_Retry_GivesUp_WhenMaxAttemptsAreExhausted(t *testing.T) {
	// arrange
	attempts := 0

	// act
	err := delivery.RetryWithExponentialBackoff(
		context.Background(),
		func(_ context.Context) error {
			attempts++
			return errors.Join(delivery.ErrSavingCheckpointFailed, errStoreUnavailable)
		},
		delivery.WithBaseDelay(0),
		delivery.WithJitterFactor(0),
		delivery.WithMaxAttempts(3),
	)

	// assert
	require.Error(t, err)
	assert.ErrorIs(t, err, delivery.ErrSavingCheckpointFailed)
	assert.ErrorIs(t, err, errStoreUnavailable)
	assert.Equal(t, 3, attempts)
}

func Test_Retry_StopsWaiting_WhenTheContextIsCanceled(t *testing.T) {
	// arrange
	attempts := 0
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// act
	err := delivery.RetryWithExponentialBackoff(
		ctx,
		func(_ context.Context) error {
			attempts++
			return errors.Join(delivery.ErrFetchingEventsFailed, errFeedUnavailable)
		},
		delivery.WithBaseDelay(time.Second),
		delivery.WithJitterFactor(0),
	)

	// assert
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func Test_Retry_FailsFast_WhenAnOptionIsInvalid(t *testing.T) {
	// arrange
	testCases := []struct {
		name        string
		option      delivery.RetryOption
		expectedErr error
	}{
		{"zero max attempts", delivery.WithMaxAttempts(0), delivery.ErrInvalidMaxAttempts},
		{"negative base delay", delivery.WithBaseDelay(-time.Millisecond), delivery.ErrNegativeBaseDelay},
		{"jitter factor above one", delivery.WithJitterFactor(1.5), delivery.ErrInvalidJitterFactor},
		{"nil metrics collector", delivery.WithRetryMetrics(nil, "fetch_events"), delivery.ErrNilMetricsCollectorSupplied},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			// act
			err := delivery.RetryWithExponentialBackoff(
				context.Background(),
				func(_ context.Context) error { return nil },
				testCase.option,
			)

			// assert
			require.Error(t, err)
			assert.ErrorIs(t, err, testCase.expectedErr)
		})
	}
}

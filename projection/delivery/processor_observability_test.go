package delivery_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/composable-projections-go/projection"
	"github.com/AntonStoeckl/composable-projections-go/projection/delivery"
	"github.com/AntonStoeckl/composable-projections-go/testutil/observability/testdoubles"
)

func Test_Observability_Processor_WithLogger_LogsCompletedRuns(t *testing.T) {
	// setup
	testHandler := testdoubles.NewLogHandlerSpy(false)
	logger := slog.New(testHandler)

	// arrange
	feed := &fakeEventFeed{events: storableEventsOf(t, orderPlacedEventType, paymentCapturedEventType)}
	store := newFakeCheckpointStore()
	var delivered []string
	processor, err := delivery.NewProcessor(
		feed, store, convertTestEvent, testProjectionName, recordingProjection(&delivered),
		delivery.WithLogger(logger),
	)
	require.NoError(t, err)

	// act
	_, runErr := processor.RunOnce(context.Background())

	// assert
	require.NoError(t, runErr)
	assert.True(t, testHandler.HasDebugLogWithMessage(delivery.LogMsgRunStarted).
		WithAttr(delivery.LogAttrProjectionName, testProjectionName).
		Assert(), "should log the run start with the projection name")
	assert.True(t, testHandler.HasInfoLogWithMessage(delivery.LogMsgRunCompleted).
		WithAttr(delivery.LogAttrProjectionName, testProjectionName).
		WithAttr(delivery.LogAttrStatus, delivery.StatusSuccess).
		WithEventCount().
		WithDurationMS().
		Assert(), "should log run completion with status, event count and duration")
}

func Test_Observability_Processor_WithLogger_LogsIdleRunsAtDebugLevel(t *testing.T) {
	// setup
	testHandler := testdoubles.NewLogHandlerSpy(false)
	logger := slog.New(testHandler)

	// arrange
	feed := &fakeEventFeed{}
	store := newFakeCheckpointStore()
	var delivered []string
	processor, err := delivery.NewProcessor(
		feed, store, convertTestEvent, testProjectionName, recordingProjection(&delivered),
		delivery.WithLogger(logger),
	)
	require.NoError(t, err)

	// act
	_, runErr := processor.RunOnce(context.Background())

	// assert
	require.NoError(t, runErr)
	assert.True(t, testHandler.HasDebugLogWithMessage(delivery.LogMsgRunCompleted).
		WithAttr(delivery.LogAttrStatus, delivery.StatusIdle).
		Assert(), "idle runs should be logged at debug level so a quiet feed does not flood the logs")
	assert.False(t, testHandler.HasInfoLogWithMessage(delivery.LogMsgRunCompleted).Assert(),
		"idle runs should not be logged at info level")
}

func Test_Observability_Processor_WithContextualLogger_LogsFailedRuns(t *testing.T) {
	// setup
	contextualLogger := testdoubles.NewContextualLoggerSpy(true)

	// arrange
	feed := &fakeEventFeed{events: storableEventsOf(t, orderPlacedEventType)}
	store := newFakeCheckpointStore()
	failingProjection := projection.HandlerForAnyEvent().
		WithEffect(func(_ context.Context, _ projection.DomainEvent) error {
			return errProjectionBroken
		})

	processor, err := delivery.NewProcessor(
		feed, store, convertTestEvent, testProjectionName, failingProjection,
		delivery.WithContextualLogger(contextualLogger),
		fastRetry(),
	)
	require.NoError(t, err)

	// act
	_, runErr := processor.RunOnce(context.Background())

	// assert
	require.Error(t, runErr)
	assert.True(t, contextualLogger.HasDebugRecord(delivery.LogMsgRunStarted),
		"should log the run start")
	assert.True(t, contextualLogger.HasErrorRecord(delivery.LogMsgRunFailed),
		"should log the failed run at error level")
	assert.Empty(t, contextualLogger.GetInfoRecords(), "a failed run should not log a completion")
}

func Test_Observability_Processor_WithContextualLogger_IsPreferredOverThePlainLogger(t *testing.T) {
	// setup
	testHandler := testdoubles.NewLogHandlerSpy(false)
	plainLogger := slog.New(testHandler)
	contextualLogger := testdoubles.NewContextualLoggerSpy(true)

	// arrange
	feed := &fakeEventFeed{events: storableEventsOf(t, orderPlacedEventType)}
	store := newFakeCheckpointStore()
	var delivered []string
	processor, err := delivery.NewProcessor(
		feed, store, convertTestEvent, testProjectionName, recordingProjection(&delivered),
		delivery.WithLogger(plainLogger),
		delivery.WithContextualLogger(contextualLogger),
	)
	require.NoError(t, err)

	// act
	_, runErr := processor.RunOnce(context.Background())

	// assert
	require.NoError(t, runErr)
	assert.True(t, contextualLogger.HasInfoRecord(delivery.LogMsgRunCompleted),
		"the contextual logger should receive the run completion")
	assert.Zero(t, testHandler.GetRecordCount(),
		"the plain logger should stay silent when a contextual logger is configured")
}

func Test_Observability_Processor_WithMetrics_RecordsRunMetrics(t *testing.T) {
	// setup
	metricsCollector := testdoubles.NewMetricsCollectorSpy(true)

	// arrange
	feed := &fakeEventFeed{events: storableEventsOf(t, orderPlacedEventType, paymentCapturedEventType)}
	store := newFakeCheckpointStore()
	var delivered []string
	processor, err := delivery.NewProcessor(
		feed, store, convertTestEvent, testProjectionName, recordingProjection(&delivered),
		delivery.WithMetrics(metricsCollector),
	)
	require.NoError(t, err)

	// act
	_, runErr := processor.RunOnce(context.Background())

	// assert
	require.NoError(t, runErr)
	assert.True(t, metricsCollector.HasDurationRecordForMetric(delivery.ProcessorRunDurationMetric).
		WithProjectionName(testProjectionName).
		WithStatus(delivery.StatusSuccess).
		Assert(), "should record the run duration with projection name and status labels")
	assert.True(t, metricsCollector.HasCounterRecordForMetric(delivery.ProcessorRunsMetric).
		WithStatus(delivery.StatusSuccess).
		Assert(), "should count the run")
	assert.True(t, metricsCollector.HasValueRecordForMetric(delivery.ProcessorEventsPerRunMetric).
		WithProjectionName(testProjectionName).
		Assert(), "should record how many events the run delivered")
}

func Test_Observability_Processor_WithMetrics_DoesNotRecordEventCountsForIdleRuns(t *testing.T) {
	// setup
	metricsCollector := testdoubles.NewMetricsCollectorSpy(true)

	// arrange
	feed := &fakeEventFeed{}
	store := newFakeCheckpointStore()
	var delivered []string
	processor, err := delivery.NewProcessor(
		feed, store, convertTestEvent, testProjectionName, recordingProjection(&delivered),
		delivery.WithMetrics(metricsCollector),
	)
	require.NoError(t, err)

	// act
	_, runErr := processor.RunOnce(context.Background())

	// assert
	require.NoError(t, runErr)
	assert.True(t, metricsCollector.HasCounterRecordForMetric(delivery.ProcessorRunsMetric).
		WithStatus(delivery.StatusIdle).
		Assert(), "idle runs should still be counted")
	assert.Zero(t, metricsCollector.GetValueRecordCount(),
		"idle runs must not skew the events-per-run distribution")
}

func Test_Observability_Processor_WithMetrics_RecordsRetriesOfTransientFailures(t *testing.T) {
	// setup
	metricsCollector := testdoubles.NewMetricsCollectorSpy(true)

	// arrange
	feed := &fakeEventFeed{
		events:       storableEventsOf(t, orderPlacedEventType),
		failuresLeft: 2,
	}
	store := newFakeCheckpointStore()
	var delivered []string
	processor, err := delivery.NewProcessor(
		feed, store, convertTestEvent, testProjectionName, recordingProjection(&delivered),
		delivery.WithMetrics(metricsCollector),
		fastRetry(),
	)
	require.NoError(t, err)

	// act
	_, runErr := processor.RunOnce(context.Background())

	// assert
	require.NoError(t, runErr)
	assert.Equal(t, 2, metricsCollector.CountCounterRecordsForMetric(delivery.ProcessorRetriesMetric),
		"each retried failure should be counted")
	assert.True(t, metricsCollector.HasCounterRecordForMetric(delivery.ProcessorRetriesMetric).
		WithOperation(delivery.OperationFetchEvents).
		WithErrorType("fetch_events_failed").
		Assert(), "retries should be labeled with the operation and the classified error type")
	assert.True(t, metricsCollector.HasDurationRecordForMetric(delivery.ProcessorRetryDelayMetric).
		WithOperation(delivery.OperationFetchEvents).
		Assert(), "the backoff delay before each retry should be recorded")
}

func Test_Observability_Processor_WithMetrics_RecordsRetryExhaustion(t *testing.T) {
	// setup
	metricsCollector := testdoubles.NewMetricsCollectorSpy(true)

	// arrange
	feed := &fakeEventFeed{
		events:       storableEventsOf(t, orderPlacedEventType),
		failuresLeft: 100,
	}
	store := newFakeCheckpointStore()
	var delivered []string
	processor, err := delivery.NewProcessor(
		feed, store, convertTestEvent, testProjectionName, recordingProjection(&delivered),
		delivery.WithMetrics(metricsCollector),
		delivery.WithRetryOptions(delivery.WithBaseDelay(0), delivery.WithJitterFactor(0), delivery.WithMaxAttempts(2)),
	)
	require.NoError(t, err)

	// act
	_, runErr := processor.RunOnce(context.Background())

	// assert
	require.Error(t, runErr)
	assert.True(t, metricsCollector.HasCounterRecordForMetric(delivery.ProcessorMaxRetriesReachedMetric).
		WithOperation(delivery.OperationFetchEvents).
		WithLabel("final_error_type", "fetch_events_failed").
		Assert(), "retry exhaustion should be recorded with the operation and the final error type")
	assert.True(t, metricsCollector.HasCounterRecordForMetric(delivery.ProcessorRunsMetric).
		WithStatus(delivery.StatusError).
		Assert(), "the failed run should be counted with error status")
}

func Test_Observability_Processor_WithTracing_RecordsRunSpans(t *testing.T) {
	// setup
	tracingCollector := testdoubles.NewTracingCollectorSpy(true)

	// arrange
	feed := &fakeEventFeed{events: storableEventsOf(t, orderPlacedEventType)}
	store := newFakeCheckpointStore()
	var delivered []string
	processor, err := delivery.NewProcessor(
		feed, store, convertTestEvent, testProjectionName, recordingProjection(&delivered),
		delivery.WithTracing(tracingCollector),
	)
	require.NoError(t, err)

	// act
	_, runErr := processor.RunOnce(context.Background())

	// assert
	require.NoError(t, runErr)
	assert.Equal(t, 1, tracingCollector.GetSpanRecordCount(), "each run should produce exactly one span")
	assert.True(t, tracingCollector.HasSpanRecordForName(delivery.SpanNameProcessorRun).
		WithStartAttribute(delivery.LogAttrProjectionName, testProjectionName).
		WithStatus(delivery.StatusSuccess).
		Assert(), "the run span should carry the projection name and finish with success status")
}

func Test_Observability_Processor_WithTracing_RecordsFailedRunSpans(t *testing.T) {
	// setup
	tracingCollector := testdoubles.NewTracingCollectorSpy(true)

	// arrange
	feed := &fakeEventFeed{events: storableEventsOf(t, orderPlacedEventType)}
	store := newFakeCheckpointStore()
	failingProjection := projection.HandlerForAnyEvent().
		WithEffect(func(_ context.Context, _ projection.DomainEvent) error {
			return errProjectionBroken
		})

	processor, err := delivery.NewProcessor(
		feed, store, convertTestEvent, testProjectionName, failingProjection,
		delivery.WithTracing(tracingCollector),
		fastRetry(),
	)
	require.NoError(t, err)

	// act
	_, runErr := processor.RunOnce(context.Background())

	// assert
	require.Error(t, runErr)
	assert.True(t, tracingCollector.HasSpanRecordForName(delivery.SpanNameProcessorRun).
		WithStatus(delivery.StatusError).
		Assert(), "the run span should finish with error status")
}

package delivery

import (
	"context"
	"errors"
	"time"

	"github.com/AntonStoeckl/composable-projections-go/projection"
)

const (
	defaultBatchSize    = 100
	defaultPollInterval = 250 * time.Millisecond
)

// RunResult describes what a single processor run achieved.
type RunResult struct {
	EventsProcessed    int
	LastSequenceNumber SequenceNumberUint
}

// Processor drives a composed projection from an event feed.
//
// Each run loads the projection's checkpoint, fetches a batch of events after it,
// converts them to domain events, delivers them through projection.OnEvent in feed
// order, and saves the advanced checkpoint. Events the projection is not defined
// for are skipped by OnEvent without failing the run.
//
// A Processor is built with NewProcessor and is safe to run from a single
// goroutine; one projection name must not be processed concurrently since the
// checkpoint would be contended.
type Processor struct {
	feed             EventFeed
	checkpoints      CheckpointStore
	convert          ConvertFunc
	projectionName   string
	root             projection.Projection
	batchSize        int
	pollInterval     time.Duration
	deliveryTimeout  time.Duration
	retryOptions     []RetryOption
	progressListener ProgressListener
	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
	tracingCollector TracingCollector
}

// NewProcessor creates a Processor with the given collaborators and functional options.
//
// Returns an error if any collaborator is nil, the projection name is empty,
// or an option fails to apply.
func NewProcessor(
	feed EventFeed,
	checkpoints CheckpointStore,
	convert ConvertFunc,
	projectionName string,
	root projection.Projection,
	options ...Option,
) (*Processor, error) {

	if feed == nil {
		return nil, ErrNilEventFeedSupplied
	}

	if checkpoints == nil {
		return nil, ErrNilCheckpointStoreSupplied
	}

	if convert == nil {
		return nil, ErrNilConvertFuncSupplied
	}

	if projectionName == "" {
		return nil, ErrEmptyProjectionNameSupplied
	}

	if root == nil {
		return nil, ErrNilProjectionSupplied
	}

	processor := &Processor{
		feed:           feed,
		checkpoints:    checkpoints,
		convert:        convert,
		projectionName: projectionName,
		root:           root,
		batchSize:      defaultBatchSize,
		pollInterval:   defaultPollInterval,
	}

	for _, option := range options {
		if err := option(processor); err != nil {
			return nil, err
		}
	}

	return processor, nil
}

// ProjectionName returns the name this Processor checkpoints and reports under.
func (p *Processor) ProjectionName() string {
	return p.projectionName
}

// RunOnce performs a single fetch/deliver/checkpoint cycle and returns what it achieved.
//
// A run that finds no new events is a successful idle run. A failing effect is
// retried with backoff before the run gives up on it. A failing run still
// saves the checkpoint for every event that was delivered before the failure,
// so the failing event is the first one attempted again on the next run.
func (p *Processor) RunOnce(ctx context.Context) (RunResult, error) {
	start := time.Now()
	runCtx, span := StartRunSpan(ctx, p.tracingCollector, p.projectionName)
	LogRunStart(runCtx, p.logger, p.contextualLogger, p.projectionName)

	result, err := p.runOnce(runCtx)
	duration := time.Since(start)
	status := p.statusFor(result, err)

	RecordRunMetrics(runCtx, p.metricsCollector, p.projectionName, status, duration, result.EventsProcessed)
	FinishRunSpan(p.tracingCollector, span, status, duration, err)

	if err != nil {
		LogRunError(runCtx, p.logger, p.contextualLogger, p.projectionName, err)

		return result, err
	}

	LogRunSuccess(
		runCtx, p.logger, p.contextualLogger,
		p.projectionName, status, result.EventsProcessed, result.LastSequenceNumber, duration,
	)

	return result, nil
}

// Run polls the feed until ctx is canceled or a run fails.
//
// After a run that delivered events, Run polls again immediately to drain a
// backlog quickly. After an idle run it waits for the configured poll interval.
// Transient failures are already retried inside each run, so an error reaching
// the caller is persistent and ends the loop. Cancellation of ctx is a clean
// shutdown: Run returns nil.
func (p *Processor) Run(ctx context.Context) error {
	for {
		result, err := p.RunOnce(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			return err
		}

		if result.EventsProcessed > 0 {
			continue
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(p.pollInterval):
		}
	}
}

func (p *Processor) runOnce(ctx context.Context) (RunResult, error) {
	checkpoint, err := p.loadCheckpoint(ctx)
	if err != nil {
		return RunResult{}, err
	}

	result := RunResult{LastSequenceNumber: checkpoint.SequenceNumber}

	storableEvents, err := p.fetchEvents(ctx, checkpoint.SequenceNumber)
	if err != nil {
		return result, err
	}

	if len(storableEvents) == 0 {
		return result, nil
	}

	for _, storableEvent := range storableEvents {
		domainEvent, convertErr := p.convert(storableEvent)
		if convertErr != nil {
			joinedErr := errors.Join(ErrConvertingEventFailed, convertErr)

			return result, p.failKeepingProgress(ctx, result, joinedErr)
		}

		if deliverErr := p.deliver(ctx, domainEvent); deliverErr != nil {
			return result, p.failKeepingProgress(ctx, result, deliverErr)
		}

		result.EventsProcessed++
		result.LastSequenceNumber = storableEvent.SequenceNumber
	}

	if saveErr := p.saveCheckpoint(ctx, result.LastSequenceNumber); saveErr != nil {
		return result, saveErr
	}

	p.notifyProgress(ctx, result)

	return result, nil
}

// deliver hands a single domain event to the composed projection, retrying a
// failing effect with backoff. Leaf effects must tolerate redelivery of the
// same event, so retrying within the run is covered by the same contract as
// redelivery across runs.
func (p *Processor) deliver(ctx context.Context, domainEvent projection.DomainEvent) error {
	return RetryWithExponentialBackoff(
		ctx,
		func(ctx context.Context) error {
			if effectErr := p.deliverOnce(ctx, domainEvent); effectErr != nil {
				return errors.Join(ErrDeliveringEventFailed, effectErr)
			}

			return nil
		},
		p.retryOptionsFor(OperationDeliverEvent)...,
	)
}

// deliverOnce runs a single delivery attempt,
// bounded by the configured delivery timeout if one is set.
func (p *Processor) deliverOnce(ctx context.Context, domainEvent projection.DomainEvent) error {
	if p.deliveryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.deliveryTimeout)
		defer cancel()
	}

	return projection.OnEvent(ctx, p.root, domainEvent)
}

// loadCheckpoint loads the projection's checkpoint with retry for transient failures.
// A missing checkpoint is not an error: the projection starts at the beginning of the feed.
func (p *Processor) loadCheckpoint(ctx context.Context) (Checkpoint, error) {
	var checkpoint Checkpoint

	retryErr := RetryWithExponentialBackoff(
		ctx,
		func(ctx context.Context) error {
			var loadErr error
			checkpoint, loadErr = p.checkpoints.Load(ctx, p.projectionName)

			return loadErr
		},
		p.retryOptionsFor(OperationLoadCheckpoint)...,
	)

	if errors.Is(retryErr, ErrNoCheckpointFound) {
		return Checkpoint{ProjectionName: p.projectionName}, nil
	}

	if retryErr != nil {
		return Checkpoint{}, retryErr
	}

	return checkpoint, nil
}

// fetchEvents fetches the next batch from the feed with retry for transient failures.
func (p *Processor) fetchEvents(ctx context.Context, afterSequenceNumber SequenceNumberUint) (StorableEvents, error) {
	var storableEvents StorableEvents

	retryErr := RetryWithExponentialBackoff(
		ctx,
		func(ctx context.Context) error {
			var fetchErr error
			storableEvents, fetchErr = p.feed.FetchAfter(ctx, afterSequenceNumber, p.batchSize)

			return fetchErr
		},
		p.retryOptionsFor(OperationFetchEvents)...,
	)

	if retryErr != nil {
		return nil, retryErr
	}

	return storableEvents, nil
}

// saveCheckpoint persists the advanced position with retry for transient failures.
func (p *Processor) saveCheckpoint(ctx context.Context, sequenceNumber SequenceNumberUint) error {
	checkpoint, buildErr := BuildCheckpoint(p.projectionName, sequenceNumber)
	if buildErr != nil {
		return buildErr
	}

	return RetryWithExponentialBackoff(
		ctx,
		func(ctx context.Context) error {
			return p.checkpoints.Save(ctx, checkpoint)
		},
		p.retryOptionsFor(OperationSaveCheckpoint)...,
	)
}

// failKeepingProgress saves the checkpoint for the events delivered before the
// failure, so they are not delivered again on the next run. A failing save is
// joined onto the original cause; the cause always stays the leading error.
func (p *Processor) failKeepingProgress(ctx context.Context, result RunResult, cause error) error {
	if result.EventsProcessed == 0 {
		return cause
	}

	if saveErr := p.saveCheckpoint(ctx, result.LastSequenceNumber); saveErr != nil {
		return errors.Join(cause, saveErr)
	}

	return cause
}

// notifyProgress informs the configured listener about a run that delivered events.
func (p *Processor) notifyProgress(ctx context.Context, result RunResult) {
	if p.progressListener == nil || result.EventsProcessed == 0 {
		return
	}

	progress := Progress{
		ProjectionName:  p.projectionName,
		SequenceNumber:  result.LastSequenceNumber,
		EventsProcessed: result.EventsProcessed,
		ProcessedAt:     time.Now(),
	}

	p.progressListener.ProjectionProgressed(ctx, progress)
}

// retryOptionsFor combines the configured retry options with per-operation metrics labeling.
func (p *Processor) retryOptionsFor(operation string) []RetryOption {
	options := make([]RetryOption, 0, len(p.retryOptions)+1)
	options = append(options, p.retryOptions...)

	if p.metricsCollector != nil {
		options = append(options, WithRetryMetrics(p.metricsCollector, operation))
	}

	return options
}

func (p *Processor) statusFor(result RunResult, err error) string {
	switch {
	case err == nil && result.EventsProcessed == 0:
		return StatusIdle
	case err == nil:
		return StatusSuccess
	case IsCancellationError(err):
		return StatusCanceled
	case IsTimeoutError(err):
		return StatusTimeout
	default:
		return StatusError
	}
}

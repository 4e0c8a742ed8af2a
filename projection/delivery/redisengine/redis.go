// Package redisengine implements the checkpoint store contract on Redis.
//
// Checkpoints are stored as JSON documents under a configurable key prefix,
// one key per projection, without expiration. Redis suits deployments where
// projections read models live outside the events database and a round trip
// to Postgres per checkpoint would be wasted.
package redisengine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"github.com/AntonStoeckl/composable-projections-go/projection/delivery"
)

const (
	defaultKeyPrefix = "projection:checkpoint:"

	logMsgCheckpointLoaded = "checkpoint loaded"
	logMsgCheckpointSaved  = "checkpoint saved"

	logAttrProjectionName = "projection_name"
	logAttrSequenceNumber = "sequence_number"
)

var ErrNilRedisClientSupplied = errors.New("nil redis client supplied")
var ErrEmptyKeyPrefixSupplied = errors.New("empty keyPrefix supplied")
var ErrInvalidCheckpointDocument = errors.New("stored checkpoint document is not valid")

// checkpointDocument is the JSON shape stored per projection.
type checkpointDocument struct {
	SequenceNumber delivery.SequenceNumberUint `json:"sequence_number"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

// CheckpointStore persists projection positions in Redis.
// It implements delivery.CheckpointStore.
type CheckpointStore struct {
	client    *redis.Client
	keyPrefix string
	logger    delivery.Logger
}

// Option defines a functional option for configuring a CheckpointStore.
type Option func(*CheckpointStore) error

// WithKeyPrefix sets the key prefix checkpoints are stored under.
func WithKeyPrefix(keyPrefix string) Option {
	return func(s *CheckpointStore) error {
		if keyPrefix == "" {
			return ErrEmptyKeyPrefixSupplied
		}

		s.keyPrefix = keyPrefix

		return nil
	}
}

// WithLogger sets the logger for the CheckpointStore.
func WithLogger(logger delivery.Logger) Option {
	return func(s *CheckpointStore) error {
		s.logger = logger
		return nil
	}
}

// NewCheckpointStore creates a CheckpointStore on the given Redis client with optional configuration.
func NewCheckpointStore(client *redis.Client, options ...Option) (CheckpointStore, error) {
	if client == nil {
		return CheckpointStore{}, ErrNilRedisClientSupplied
	}

	store := CheckpointStore{
		client:    client,
		keyPrefix: defaultKeyPrefix,
	}

	for _, option := range options {
		if err := option(&store); err != nil {
			return CheckpointStore{}, err
		}
	}

	return store, nil
}

// Connect initializes a Redis client from URL or host:port input.
// Supporting both formats keeps local/dev and container config paths simple.
func Connect(redisURL string) (*redis.Client, error) {
	if strings.HasPrefix(redisURL, "redis://") {
		opt, parseErr := redis.ParseURL(redisURL)
		if parseErr != nil {
			return nil, fmt.Errorf("parse redis url: %w", parseErr)
		}

		return redis.NewClient(opt), nil
	}

	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}

// Load retrieves the checkpoint for the given projection.
// Returns delivery.ErrNoCheckpointFound when no key exists for the projection yet.
//
// Redis failures are wrapped with delivery.ErrLoadingCheckpointFailed so the
// Processor treats them as transient; a corrupt document is permanent.
func (s CheckpointStore) Load(ctx context.Context, projectionName string) (delivery.Checkpoint, error) {
	var empty delivery.Checkpoint

	if projectionName == "" {
		return empty, delivery.ErrEmptyProjectionNameSupplied
	}

	raw, getErr := s.client.Get(ctx, s.keyFor(projectionName)).Bytes()
	if errors.Is(getErr, redis.Nil) {
		return empty, delivery.ErrNoCheckpointFound
	}

	if getErr != nil {
		return empty, errors.Join(delivery.ErrLoadingCheckpointFailed, getErr)
	}

	var document checkpointDocument
	if unmarshalErr := jsoniter.ConfigFastest.Unmarshal(raw, &document); unmarshalErr != nil {
		return empty, errors.Join(ErrInvalidCheckpointDocument, unmarshalErr)
	}

	checkpoint := delivery.Checkpoint{
		ProjectionName: projectionName,
		SequenceNumber: document.SequenceNumber,
		UpdatedAt:      document.UpdatedAt,
	}

	if s.logger != nil {
		s.logger.Debug(logMsgCheckpointLoaded,
			logAttrProjectionName, projectionName,
			logAttrSequenceNumber, checkpoint.SequenceNumber)
	}

	return checkpoint, nil
}

// Save upserts the checkpoint key for the checkpoint's projection, without expiration.
//
// Redis failures are wrapped with delivery.ErrSavingCheckpointFailed so the
// Processor treats them as transient.
func (s CheckpointStore) Save(ctx context.Context, checkpoint delivery.Checkpoint) error {
	if validateErr := checkpoint.Validate(); validateErr != nil {
		return validateErr
	}

	document := checkpointDocument{
		SequenceNumber: checkpoint.SequenceNumber,
		UpdatedAt:      checkpoint.UpdatedAt,
	}

	raw, marshalErr := jsoniter.ConfigFastest.Marshal(document)
	if marshalErr != nil {
		return errors.Join(ErrInvalidCheckpointDocument, marshalErr)
	}

	if setErr := s.client.Set(ctx, s.keyFor(checkpoint.ProjectionName), raw, 0).Err(); setErr != nil {
		return errors.Join(delivery.ErrSavingCheckpointFailed, setErr)
	}

	if s.logger != nil {
		s.logger.Debug(logMsgCheckpointSaved,
			logAttrProjectionName, checkpoint.ProjectionName,
			logAttrSequenceNumber, checkpoint.SequenceNumber)
	}

	return nil
}

func (s CheckpointStore) keyFor(projectionName string) string {
	return s.keyPrefix + projectionName
}

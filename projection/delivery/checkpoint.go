package delivery

import (
	"errors"
	"time"
)

var (
	// ErrNoCheckpointFound is returned when no checkpoint is stored for a projection yet.
	ErrNoCheckpointFound = errors.New("no checkpoint found for projection")

	// ErrSavingCheckpointFailed is returned when the checkpoint save operation fails.
	ErrSavingCheckpointFailed = errors.New("saving checkpoint failed")

	// ErrLoadingCheckpointFailed is returned when the checkpoint load operation fails.
	ErrLoadingCheckpointFailed = errors.New("loading checkpoint failed")
)

// Checkpoint represents the position of a projection in its event feed.
// It records the sequence number of the last delivered event, enabling the
// Processor to resume where the previous run left off.
type Checkpoint struct {
	ProjectionName string             // Name of the projection owning this checkpoint
	SequenceNumber SequenceNumberUint // Last delivered event sequence number
	UpdatedAt      time.Time          // When this checkpoint was created/updated
}

// Validate ensures the checkpoint has valid data for storage operations.
func (c Checkpoint) Validate() error {
	if c.ProjectionName == "" {
		return ErrEmptyProjectionNameSupplied
	}

	return nil
}

// BuildCheckpoint creates a new Checkpoint with validation.
func BuildCheckpoint(
	projectionName string,
	sequenceNumber SequenceNumberUint,
) (Checkpoint, error) {

	checkpoint := Checkpoint{
		ProjectionName: projectionName,
		SequenceNumber: sequenceNumber,
		UpdatedAt:      time.Now(),
	}

	if err := checkpoint.Validate(); err != nil {
		return Checkpoint{}, err
	}

	return checkpoint, nil
}

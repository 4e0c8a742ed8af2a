package delivery

import (
	"errors"
)

var ErrEmptyProjectionNameSupplied = errors.New("empty projectionName supplied")
var ErrNilEventFeedSupplied = errors.New("nil event feed supplied")
var ErrNilCheckpointStoreSupplied = errors.New("nil checkpoint store supplied")
var ErrNilConvertFuncSupplied = errors.New("nil convert func supplied")
var ErrNilProjectionSupplied = errors.New("nil projection supplied")

// SequenceNumberUint is a type alias for uint, representing the global position of an event in an event feed.
type SequenceNumberUint = uint

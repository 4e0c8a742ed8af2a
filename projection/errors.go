package projection

import (
	"errors"
)

// ErrNotDefinedForEvent is returned when Dispatch is invoked directly on a projection
// that is not defined for the given event. The OnEvent entry point never returns it.
var ErrNotDefinedForEvent = errors.New("projection is not defined for event")

package stoppoints

import (
	"errors"
	"fmt"

	"github.com/randytsao24/gotolondon/internal/models"
)

// ErrUnknownStopLinePair means a lookup used an option the cache was not built from
var ErrUnknownStopLinePair = errors.New("stop/line pair not in stop point cache")

// StopNotFoundError means TfL had no stop point matching a configured name.
// It points at a configuration problem and is not worth retrying.
type StopNotFoundError struct {
	SearchTerm string
	Modality   models.Modality
	Line       string
}

func (e *StopNotFoundError) Error() string {
	return fmt.Sprintf("TfL returned no stop point match for %q using modality %q and line %q",
		e.SearchTerm, e.Modality, e.Line)
}

// DirectionNotFoundError means TfL could not give a direction between two
// resolved stop points, usually because they are not on the same line.
type DirectionNotFoundError struct {
	FromStop   string
	ToStop     string
	FromStopID string
	ToStopID   string
	Err        error
}

func (e *DirectionNotFoundError) Error() string {
	msg := fmt.Sprintf("TfL found no direction from %q to %q (stop points %s/%s); are they on the same line?",
		e.FromStop, e.ToStop, e.FromStopID, e.ToStopID)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DirectionNotFoundError) Unwrap() error {
	return e.Err
}

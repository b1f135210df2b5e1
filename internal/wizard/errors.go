package wizard

import "errors"

var (
	// ErrInvalidStep means the caller passed a step index outside [0, StepCount).
	ErrInvalidStep = errors.New("wizard: invalid step")
	// ErrCompleted is returned for any mutation after the flow has completed.
	ErrCompleted = errors.New("wizard: flow already completed")
)

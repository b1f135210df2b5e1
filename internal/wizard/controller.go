// Package wizard implements the linear onboarding flow: step sequencing, per-step field
// state and completion. It knows nothing about rendering; callers drive it from their
// event loop and read its state back for display.
package wizard

// Controller owns the state of one onboarding flow. It is not safe for concurrent use.
type Controller struct {
	current   int
	visited   int // furthest step reached
	fields    [StepCount]FieldSet
	completed bool
}

// New returns a controller at the first step with default field values.
func New() *Controller {
	c := &Controller{}
	for i := range c.fields {
		c.fields[i] = defaults(i)
	}
	return c
}

// CurrentStep returns the step being edited. After completion it keeps returning the last step.
func (c *Controller) CurrentStep() Step { return steps[c.current] }

func (c *Controller) IsCompleted() bool { return c.completed }

// ProgressFraction gives half credit for the current step.
func (c *Controller) ProgressFraction() float64 {
	if c.completed {
		return 1
	}
	return (float64(c.current) + 0.5) / float64(StepCount)
}

// SetText stores a text value for a field of the given step.
func (c *Controller) SetText(stepIndex int, name, value string) error {
	return c.set(stepIndex, name, value)
}

// SetFlag stores a toggle value for a field of the given step.
func (c *Controller) SetFlag(stepIndex int, name string, value bool) error {
	return c.set(stepIndex, name, value)
}

func (c *Controller) set(stepIndex int, name string, value any) error {
	if err := c.Editable(stepIndex); err != nil {
		return err
	}
	c.fields[stepIndex][name] = value
	return nil
}

// Editable reports whether fields of the step may be written: the step must be the
// current one or one already visited, and the flow must not be completed.
func (c *Controller) Editable(stepIndex int) error {
	if !validIndex(stepIndex) || stepIndex > c.visited {
		return ErrInvalidStep
	}
	if c.completed {
		return ErrCompleted
	}
	return nil
}

// FieldValue returns the raw value of a field and whether it is set.
func (c *Controller) FieldValue(stepIndex int, name string) (any, bool, error) {
	if !validIndex(stepIndex) {
		return nil, false, ErrInvalidStep
	}
	v, ok := c.fields[stepIndex][name]
	return v, ok, nil
}

// Text reads a text field. Missing, non-text or out-of-range values read as "".
func (c *Controller) Text(stepIndex int, name string) string {
	v, _, _ := c.FieldValue(stepIndex, name)
	s, _ := v.(string)
	return s
}

// Flag reads a toggle field. Missing, non-bool or out-of-range values read as false.
func (c *Controller) Flag(stepIndex int, name string) bool {
	v, _, _ := c.FieldValue(stepIndex, name)
	b, _ := v.(bool)
	return b
}

// FieldSet returns a copy of the values of a step.
func (c *Controller) FieldSet(stepIndex int) (FieldSet, error) {
	if !validIndex(stepIndex) {
		return nil, ErrInvalidStep
	}
	out := make(FieldSet, len(c.fields[stepIndex]))
	for k, v := range c.fields[stepIndex] {
		out[k] = v
	}
	return out, nil
}

// Advance moves to the next step and returns it. From the last step it completes the
// flow and reports done=true instead of a step. No field is checked before advancing.
func (c *Controller) Advance() (next Step, done bool, err error) {
	if c.completed {
		return Step{}, false, ErrCompleted
	}
	if c.current < StepCount-1 {
		c.current++
		if c.current > c.visited {
			c.visited = c.current
		}
		return steps[c.current], false, nil
	}
	c.completed = true
	return Step{}, true, nil
}

// Retreat moves to the previous step. At the first step it does nothing.
func (c *Controller) Retreat() (Step, error) {
	if c.completed {
		return Step{}, ErrCompleted
	}
	if c.current > 0 {
		c.current--
	}
	return steps[c.current], nil
}

package party

import (
	"errors"
	"fmt"
)

// RunError is a fatal run failure: the state it happened in, the party it
// happened to, and the underlying cause. A RunError always means the run
// halted without reaching Terminal cleanly.
type RunError struct {
	State State
	Party string
	Err   error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("run failed in %s (party=%s): %v", e.State, e.Party, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// FailedState returns the state a run error occurred in, or (0, false) if
// err is not a RunError.
func FailedState(err error) (State, bool) {
	var re *RunError
	if errors.As(err, &re) {
		return re.State, true
	}
	return 0, false
}

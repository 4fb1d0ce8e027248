package layout

import "fmt"

// CompositionError represents a layout that could not be computed for a combination.
type CompositionError struct {
	Combination string
	Message     string
	Cause       error
}

func (e *CompositionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("layout error for %s: %s: %v", e.Combination, e.Message, e.Cause)
	}
	return fmt.Sprintf("layout error for %s: %s", e.Combination, e.Message)
}

func (e *CompositionError) Unwrap() error {
	return e.Cause
}

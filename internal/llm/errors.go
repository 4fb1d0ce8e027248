package llm

import "fmt"

// APIError represents a failed model call or an unusable model response
// Blocked marks responses withheld by the model's safety filters; retrying
// the same prompt does not help.
type APIError struct {
	Model   string
	Message string
	Blocked bool
	Cause   error
}

func (e *APIError) Error() string {
	prefix := "llm error"
	if e.Model != "" {
		prefix = fmt.Sprintf("llm error (%s)", e.Model)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

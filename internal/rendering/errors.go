// Package rendering turns a base image and a layout strategy into the final
// creative.
package rendering

import "fmt"

// TemplateError reports that the overlay template could not be parsed or
// executed. Combination is empty for parse failures at construction.
type TemplateError struct {
	Combination string
	Cause       error
}

func (e *TemplateError) Error() string {
	if e.Combination == "" {
		return fmt.Sprintf("overlay template: %v", e.Cause)
	}
	return fmt.Sprintf("overlay template for %s: %v", e.Combination, e.Cause)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError reports inputs a renderer cannot draw: a missing base image or
// a layout without placements.
type RenderError struct {
	Combination string
	Reason      string
}

func (e *RenderError) Error() string {
	if e.Combination == "" {
		return "render error: " + e.Reason
	}
	return fmt.Sprintf("render error for %s: %s", e.Combination, e.Reason)
}

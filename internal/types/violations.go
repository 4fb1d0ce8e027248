package types

// Violation severities
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Violation is one problem found in a generated copy variant.
type Violation struct {
	Field     string `json:"field"`
	Type      string `json:"type"`
	Severity  string `json:"severity"`
	Details   string `json:"details"`
	CharCount *int   `json:"char_count,omitempty"`
}

// Violations represents a collection of validation failures
type Violations struct {
	Violations []Violation `json:"violations"`
}

// HasErrors reports whether any violation has error severity.
func (v Violations) HasErrors() bool {
	for _, violation := range v.Violations {
		if violation.Severity == SeverityError {
			return true
		}
	}
	return false
}

package copywriting

import (
	"fmt"
	"strings"

	"github.com/jonathan/creative-engine/internal/types"
)

// RejectedError reports generated copy that failed validation and was
// replaced by the default variant for its style.
type RejectedError struct {
	Style      types.CopyStyle
	Violations []types.Violation
}

func (e *RejectedError) Error() string {
	details := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		if v.Severity == types.SeverityError {
			details = append(details, v.Details)
		}
	}
	return fmt.Sprintf("%s variant rejected: %s", e.Style, strings.Join(details, "; "))
}

package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/creative-engine/internal/types"
)

// Limits bounds the rune length of each copy field. A zero limit disables the
// check for that field.
type Limits struct {
	Headline int
	Subline  int
	Benefit  int
	CTA      int
}

// DefaultLimits matches the space the overlay layouts reserve for each text.
func DefaultLimits() Limits {
	return Limits{Headline: 60, Subline: 120, Benefit: 60, CTA: 25}
}

// DefaultForbiddenPhrases catch template leakage and model chatter.
var DefaultForbiddenPhrases = []string{
	"lorem ipsum",
	"{{",
	"}}",
	"[company]",
	"[firma]",
	"[unternehmen]",
	"[job title]",
	"as an ai",
	"als ki",
	"sprachmodell",
	"language model",
}

// ValidateCopy checks a cleaned copy variant. Overlong headlines and CTAs and
// any forbidden phrase are errors; overlong sublines and benefits are
// warnings because the layouts wrap them.
func ValidateCopy(v types.CopyVariant, limits Limits, forbidden []string) types.Violations {
	var out []types.Violation
	check := func(field, text string, max int, severity string) {
		n := utf8.RuneCountInString(text)
		if max > 0 && n > max {
			out = append(out, types.Violation{
				Field:     field,
				Type:      "too_long",
				Severity:  severity,
				Details:   fmt.Sprintf("%s has %d characters, maximum is %d", field, n, max),
				CharCount: intPtr(n),
			})
		}
		if phrase, ok := containsForbidden(text, forbidden); ok {
			out = append(out, types.Violation{
				Field:    field,
				Type:     "forbidden_phrase",
				Severity: types.SeverityError,
				Details:  fmt.Sprintf("%s contains forbidden phrase: %s", field, phrase),
			})
		}
	}

	check("headline", v.Headline, limits.Headline, types.SeverityError)
	check("subline", v.Subline, limits.Subline, types.SeverityWarning)
	for i, b := range v.Benefits {
		check(fmt.Sprintf("benefits[%d]", i), b, limits.Benefit, types.SeverityWarning)
	}
	check("cta", v.CTA, limits.CTA, types.SeverityError)

	return types.Violations{Violations: out}
}

// containsForbidden reports the first phrase found, matched case-insensitively.
func containsForbidden(text string, phrases []string) (string, bool) {
	lower := strings.ToLower(text)
	for _, phrase := range phrases {
		normalized := strings.ToLower(strings.TrimSpace(phrase))
		if normalized == "" {
			continue
		}
		if strings.Contains(lower, normalized) {
			return phrase, true
		}
	}
	return "", false
}

// intPtr returns a pointer to an integer
func intPtr(i int) *int {
	return &i
}

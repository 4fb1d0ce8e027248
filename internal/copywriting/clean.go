package copywriting

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/creative-engine/internal/types"
)

// Clean trims every text, closes the subline with a full stop when it ends
// on a letter or digit, and drops benefits that look cut off. At most
// MaxBenefits benefits are kept.
func Clean(v types.CopyVariant) types.CopyVariant {
	v.JobTitle = strings.TrimSpace(v.JobTitle)
	v.Headline = strings.TrimSpace(v.Headline)
	v.CTA = strings.TrimSpace(v.CTA)
	v.Location = strings.TrimSpace(v.Location)

	v.Subline = strings.TrimSpace(v.Subline)
	if last, _ := utf8.DecodeLastRuneInString(v.Subline); v.Subline != "" && isAlnum(last) {
		v.Subline += "."
	}

	benefits := make([]string, 0, types.MaxBenefits)
	for _, b := range v.Benefits {
		b = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(b), "-•*"))
		if b == "" {
			continue
		}
		last, _ := utf8.DecodeLastRuneInString(b)
		if !isAlnum(last) && last != '.' && last != '!' && last != ')' {
			continue
		}
		benefits = append(benefits, b)
		if len(benefits) == types.MaxBenefits {
			break
		}
	}
	v.Benefits = benefits
	return v
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

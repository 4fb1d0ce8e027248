package colors

import (
	"regexp"
	"strings"

	"github.com/jonathan/creative-engine/internal/types"
)

var fontFamilyPattern = regexp.MustCompile(`(?i)font-family\s*:\s*([^;}<>]+)`)

// genericFamilies are CSS keywords that say nothing about the brand.
var genericFamilies = map[string]bool{
	"inherit": true, "initial": true, "unset": true, "sans-serif": true, "serif": true,
	"monospace": true, "cursive": true, "fantasy": true, "system-ui": true,
	"-apple-system": true, "blinkmacsystemfont": true,
}

var (
	serifHints      = []string{"serif", "times", "georgia", "garamond", "playfair", "merriweather", "baskerville", "lora"}
	monospaceHints  = []string{"mono", "courier", "consolas", "menlo"}
	decorativeHints = []string{"script", "hand", "brush", "lobster", "pacifico", "display", "cursive"}
)

// ExtractFont returns the first brand-specific font family declared in the
// markup, classified into a coarse style.
func ExtractFont(markup string) types.Font {
	for _, m := range fontFamilyPattern.FindAllStringSubmatch(markup, -1) {
		for _, family := range strings.Split(m[1], ",") {
			family = strings.TrimLeft(strings.TrimSpace(family), `'"`)
			if i := strings.IndexAny(family, `'"`); i >= 0 {
				family = family[:i]
			}
			family = strings.TrimSpace(family)
			if family == "" || strings.HasPrefix(family, "var(") || genericFamilies[strings.ToLower(family)] {
				continue
			}
			return types.Font{Family: family, Style: ClassifyFont(family)}
		}
	}
	return types.DefaultFont()
}

// ClassifyFont maps a family name to a font style.
func ClassifyFont(family string) types.FontStyle {
	name := strings.ToLower(family)
	switch {
	case containsAny(name, monospaceHints):
		return types.FontStyleMonospace
	case containsAny(name, decorativeHints):
		return types.FontStyleDecorative
	case strings.Contains(name, "sans"):
		return types.FontStyleModernSans
	case containsAny(name, serifHints):
		return types.FontStyleClassicSerif
	default:
		return types.FontStyleModernSans
	}
}

func containsAny(s string, hints []string) bool {
	for _, h := range hints {
		if strings.Contains(s, h) {
			return true
		}
	}
	return false
}

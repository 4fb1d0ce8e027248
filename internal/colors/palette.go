package colors

import (
	"math"
	"strings"

	"github.com/jonathan/creative-engine/internal/types"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette is a complete three-color brand palette.
type Palette struct {
	Primary   string
	Secondary string
	Accent    string
}

// CompletePalette builds a palette from ranked colors, deriving the missing
// secondary and accent from the primary color.
func CompletePalette(ranked []string) Palette {
	if len(ranked) == 0 {
		return Palette{
			Primary:   types.DefaultPrimaryColor,
			Secondary: types.DefaultSecondaryColor,
			Accent:    types.DefaultAccentColor,
		}
	}

	p := Palette{Primary: strings.ToUpper(ranked[0])}
	if len(ranked) > 1 {
		p.Secondary = strings.ToUpper(ranked[1])
	} else {
		p.Secondary = DeriveSecondary(p.Primary)
	}
	if len(ranked) > 2 {
		p.Accent = strings.ToUpper(ranked[2])
	} else {
		p.Accent = DeriveAccent(p.Primary)
	}
	return p
}

// DeriveSecondary returns a darker shade of a light primary, or a lighter
// shade of a dark one, slightly more saturated.
func DeriveSecondary(primary string) string {
	c, err := colorful.Hex(primary)
	if err != nil {
		return types.DefaultSecondaryColor
	}
	h, s, l := c.Hsl()
	if l > 0.30 {
		l = math.Max(l-0.20, 0.15)
	} else {
		l = math.Min(l+0.25, 0.85)
	}
	s = math.Min(s+0.10, 1)
	return hexOf(colorful.Hsl(h, s, l))
}

// DeriveAccent returns the complementary hue of primary with enough
// saturation to stand out on a call-to-action.
func DeriveAccent(primary string) string {
	c, err := colorful.Hex(primary)
	if err != nil {
		return types.DefaultAccentColor
	}
	h, s, l := c.Hsl()
	h = math.Mod(h+180, 360)
	s = math.Max(0.60, math.Min(s, 1))
	if l < 0.40 {
		l = 0.55
	} else {
		l = 0.50
	}
	return hexOf(colorful.Hsl(h, s, l))
}

func hexOf(c colorful.Color) string {
	return strings.ToUpper(c.Clamped().Hex())
}

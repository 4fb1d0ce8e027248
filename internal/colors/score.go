package colors

import (
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// Context is where in the markup a color occurrence was found.
type Context string

// Occurrence contexts
const (
	ContextLogo        Context = "logo"
	ContextHeader      Context = "header"
	ContextCSSVariable Context = "css_variable"
	ContextButton      Context = "button"
	ContextLinkHover   Context = "link_hover"
	ContextGeneric     Context = "generic"
)

// Context weights. Only their order is meaningful: logo outranks
// header/css-variable, which outrank button, which outranks generic. The gap
// between logo and generic keeps a single logo hit ahead of ten generic ones.
var contextWeights = map[Context]int{
	ContextLogo:        100,
	ContextHeader:      60,
	ContextCSSVariable: 60,
	ContextButton:      40,
	ContextLinkHover:   20,
	ContextGeneric:     5,
}

// Weight returns the scoring weight of a context.
func (c Context) Weight() int {
	return contextWeights[c]
}

const (
	// GreyThreshold is the saturation (0-100) below which a color counts as grey.
	GreyThreshold = 15.0
	// saturationBonusFloor is where the saturation bonus starts.
	saturationBonusFloor = 50.0
	// maxSaturationBonus is reached at full saturation.
	maxSaturationBonus = 20
)

// Candidate is one distinct color found in the markup.
type Candidate struct {
	Hex        string
	Contexts   map[Context]bool
	Frequency  int
	Saturation float64
	Score      int

	firstSeen int
}

// Grey reports whether the candidate is too unsaturated to be a brand color.
func (c Candidate) Grey() bool {
	return c.Saturation < GreyThreshold
}

// BestContext returns the highest-weighted context the color appeared in.
func (c Candidate) BestContext() Context {
	best := ContextGeneric
	for ctx := range c.Contexts {
		if ctx.Weight() > best.Weight() {
			best = ctx
		}
	}
	return best
}

// ContextList returns the candidate's contexts sorted by weight.
func (c Candidate) ContextList() []Context {
	out := make([]Context, 0, len(c.Contexts))
	for ctx := range c.Contexts {
		out = append(out, ctx)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight() != out[j].Weight() {
			return out[i].Weight() > out[j].Weight()
		}
		return out[i] < out[j]
	})
	return out
}

// score is frequency times the best single context weight plus a bonus for
// strongly saturated colors. Contexts never add up.
func score(c *Candidate) int {
	s := c.Frequency * c.BestContext().Weight()
	if c.Saturation > saturationBonusFloor {
		s += int((c.Saturation - saturationBonusFloor) / (100 - saturationBonusFloor) * maxSaturationBonus)
	}
	return s
}

// Saturation returns (max-min)/max of the RGB channels on a 0-100 scale,
// which is the HSV saturation. Unparseable input and black yield 0.
func Saturation(hex string) float64 {
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0
	}
	_, s, _ := c.Hsv()
	return s * 100
}

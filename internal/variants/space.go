// Package variants enumerates the layout, text, style and designer combinations
// a campaign draws its creatives from.
package variants

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jonathan/creative-engine/internal/types"
)

// Space is the Cartesian product of the variant enums. Enumeration walks the
// product in shuffled passes, so no combination repeats before every other
// combination has been drawn once.
type Space struct {
	layouts   []types.LayoutVariant
	texts     []types.TextElementSet
	styles    []types.VisualStyle
	designers []types.DesignerType
	seed      *uint64
}

// Option restricts or seeds a Space.
type Option func(*Space)

// WithSeed makes enumeration deterministic.
func WithSeed(seed uint64) Option {
	return func(s *Space) { s.seed = &seed }
}

// WithLayouts restricts the layout axis.
func WithLayouts(layouts ...types.LayoutVariant) Option {
	return func(s *Space) { s.layouts = layouts }
}

// WithTextElementSets restricts the text element axis.
func WithTextElementSets(sets ...types.TextElementSet) Option {
	return func(s *Space) { s.texts = sets }
}

// WithStyles restricts the visual style axis.
func WithStyles(styles ...types.VisualStyle) Option {
	return func(s *Space) { s.styles = styles }
}

// WithDesignerTypes restricts the designer axis.
func WithDesignerTypes(designers ...types.DesignerType) Option {
	return func(s *Space) { s.designers = designers }
}

// NewSpace builds a space over every enum value unless restricted. Unknown
// or duplicate values are rejected.
func NewSpace(opts ...Option) (*Space, error) {
	s := &Space{
		layouts:   types.AllLayoutVariants,
		texts:     types.AllTextElementSets,
		styles:    types.AllVisualStyles,
		designers: types.AllDesignerTypes,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := checkAxis("layout variant", s.layouts, types.LayoutVariant.Valid); err != nil {
		return nil, err
	}
	if err := checkAxis("text element set", s.texts, types.TextElementSet.Valid); err != nil {
		return nil, err
	}
	if err := checkAxis("visual style", s.styles, types.VisualStyle.Valid); err != nil {
		return nil, err
	}
	if err := checkAxis("designer type", s.designers, types.DesignerType.Valid); err != nil {
		return nil, err
	}
	return s, nil
}

func checkAxis[T comparable](name string, values []T, valid func(T) bool) error {
	if len(values) == 0 {
		return fmt.Errorf("empty %s axis", name)
	}
	seen := make(map[T]bool, len(values))
	for _, v := range values {
		if !valid(v) {
			return fmt.Errorf("invalid %s %v", name, v)
		}
		if seen[v] {
			return fmt.Errorf("duplicate %s %v", name, v)
		}
		seen[v] = true
	}
	return nil
}

// Size returns the number of distinct combinations.
func (s *Space) Size() int {
	return len(s.layouts) * len(s.texts) * len(s.styles) * len(s.designers)
}

// All returns every combination in declaration order.
func (s *Space) All() []types.VariantCombination {
	out := make([]types.VariantCombination, 0, s.Size())
	for _, l := range s.layouts {
		for _, t := range s.texts {
			for _, st := range s.styles {
				for _, d := range s.designers {
					out = append(out, types.VariantCombination{
						Layout:       l,
						TextElements: t,
						Style:        st,
						Designer:     d,
					})
				}
			}
		}
	}
	return out
}

// Enumerate draws count combinations. Up to Size() they are all distinct;
// beyond that the space is exhausted once per pass before any repeat.
func (s *Space) Enumerate(count int) []types.VariantCombination {
	if count <= 0 {
		return nil
	}

	rng := s.rng()
	all := s.All()
	out := make([]types.VariantCombination, 0, count)
	for len(out) < count {
		pass := make([]types.VariantCombination, len(all))
		copy(pass, all)
		rng.Shuffle(len(pass), func(i, j int) { pass[i], pass[j] = pass[j], pass[i] })

		need := count - len(out)
		if need > len(pass) {
			need = len(pass)
		}
		out = append(out, pass[:need]...)
	}
	return out
}

func (s *Space) rng() *rand.Rand {
	if s.seed != nil {
		return rand.New(rand.NewPCG(*s.seed, *s.seed^0x9E3779B97F4A7C15))
	}
	now := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(now, rand.Uint64()))
}

// DesignerTypes returns the distinct designer types used by combos, in first
// appearance order.
func DesignerTypes(combos []types.VariantCombination) []types.DesignerType {
	seen := make(map[types.DesignerType]bool)
	var out []types.DesignerType
	for _, c := range combos {
		if !seen[c.Designer] {
			seen[c.Designer] = true
			out = append(out, c.Designer)
		}
	}
	return out
}

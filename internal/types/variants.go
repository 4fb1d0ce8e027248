package types

import "fmt"

// LayoutVariant is a coarse spatial template governing text vs. imagery placement.
type LayoutVariant string

// Layout variants
const (
	LayoutHeroLeft      LayoutVariant = "hero_left"
	LayoutHeroRight     LayoutVariant = "hero_right"
	LayoutHeroCenter    LayoutVariant = "hero_center"
	LayoutHeroBottom    LayoutVariant = "hero_bottom"
	LayoutSplitVertical LayoutVariant = "split_vertical"
)

// AllLayoutVariants lists every layout variant in declaration order.
var AllLayoutVariants = []LayoutVariant{
	LayoutHeroLeft,
	LayoutHeroRight,
	LayoutHeroCenter,
	LayoutHeroBottom,
	LayoutSplitVertical,
}

// Valid reports whether v is a known layout variant.
func (v LayoutVariant) Valid() bool {
	return contains(AllLayoutVariants, v)
}

// TextElementSet selects which optional text elements accompany the mandatory
// job title, location and CTA.
type TextElementSet string

// Text element sets
const (
	TextHeadlineOnly     TextElementSet = "headline_only"
	TextSublineOnly      TextElementSet = "subline_only"
	TextBenefitsOnly     TextElementSet = "benefits_only"
	TextHeadlineSubline  TextElementSet = "headline_subline"
	TextHeadlineBenefits TextElementSet = "headline_benefits"
	TextSublineBenefits  TextElementSet = "subline_benefits"
	TextFull             TextElementSet = "full"
)

// AllTextElementSets lists every text element set in declaration order.
var AllTextElementSets = []TextElementSet{
	TextHeadlineOnly,
	TextSublineOnly,
	TextBenefitsOnly,
	TextHeadlineSubline,
	TextHeadlineBenefits,
	TextSublineBenefits,
	TextFull,
}

// ActiveElements is the optional element switchboard for a TextElementSet.
type ActiveElements struct {
	Headline bool `json:"headline"`
	Subline  bool `json:"subline"`
	Benefits bool `json:"benefits"`
}

// Count returns how many optional elements are switched on.
func (a ActiveElements) Count() int {
	n := 0
	for _, on := range []bool{a.Headline, a.Subline, a.Benefits} {
		if on {
			n++
		}
	}
	return n
}

var textElementConfig = map[TextElementSet]ActiveElements{
	TextHeadlineOnly:     {Headline: true},
	TextSublineOnly:      {Subline: true},
	TextBenefitsOnly:     {Benefits: true},
	TextHeadlineSubline:  {Headline: true, Subline: true},
	TextHeadlineBenefits: {Headline: true, Benefits: true},
	TextSublineBenefits:  {Subline: true, Benefits: true},
	TextFull:             {Headline: true, Subline: true, Benefits: true},
}

// Active returns the optional elements enabled by the set. Unknown sets
// enable nothing.
func (s TextElementSet) Active() ActiveElements {
	return textElementConfig[s]
}

// Valid reports whether s is a known set with at least one optional element.
func (s TextElementSet) Valid() bool {
	return contains(AllTextElementSets, s) && s.Active().Count() > 0
}

// VisualStyle is the rendering mood of a creative.
type VisualStyle string

// Visual styles
const (
	StyleMinimal      VisualStyle = "minimal"
	StyleModern       VisualStyle = "modern"
	StyleBold         VisualStyle = "bold"
	StyleElegant      VisualStyle = "elegant"
	StyleFriendly     VisualStyle = "friendly"
	StyleProfessional VisualStyle = "professional"
	StyleCreative     VisualStyle = "creative"
	StyleClassic      VisualStyle = "classic"
)

// AllVisualStyles lists every visual style in declaration order.
var AllVisualStyles = []VisualStyle{
	StyleMinimal,
	StyleModern,
	StyleBold,
	StyleElegant,
	StyleFriendly,
	StyleProfessional,
	StyleCreative,
	StyleClassic,
}

// Valid reports whether v is a known visual style.
func (v VisualStyle) Valid() bool {
	return contains(AllVisualStyles, v)
}

// DesignerType is a content strategy for base-image generation.
type DesignerType string

// Designer types
const (
	DesignerJobFocus  DesignerType = "job_focus"
	DesignerLifestyle DesignerType = "lifestyle"
	DesignerArtistic  DesignerType = "artistic"
	DesignerLocation  DesignerType = "location"
)

// AllDesignerTypes lists every designer type in declaration order.
var AllDesignerTypes = []DesignerType{
	DesignerJobFocus,
	DesignerLifestyle,
	DesignerArtistic,
	DesignerLocation,
}

// Valid reports whether d is a known designer type.
func (d DesignerType) Valid() bool {
	return contains(AllDesignerTypes, d)
}

// VariantCombination is one point in the cross-product of the four variant enums.
type VariantCombination struct {
	Layout       LayoutVariant  `json:"layout_variant"`
	TextElements TextElementSet `json:"text_element_set"`
	Style        VisualStyle    `json:"visual_style"`
	Designer     DesignerType   `json:"designer_type"`
}

// Validate rejects combinations containing unknown enum values.
func (c VariantCombination) Validate() error {
	switch {
	case !c.Layout.Valid():
		return fmt.Errorf("unknown layout variant %q", c.Layout)
	case !c.TextElements.Valid():
		return fmt.Errorf("unknown text element set %q", c.TextElements)
	case !c.Style.Valid():
		return fmt.Errorf("unknown visual style %q", c.Style)
	case !c.Designer.Valid():
		return fmt.Errorf("unknown designer type %q", c.Designer)
	}
	return nil
}

// Key returns a stable identifier for the combination.
func (c VariantCombination) Key() string {
	return fmt.Sprintf("%s/%s/%s/%s", c.Layout, c.TextElements, c.Style, c.Designer)
}

func contains[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

package types

// Canvas geometry for square creatives.
const (
	CanvasSize = 1024
	// MinTextMargin is the minimum distance between any placed element and a canvas edge.
	MinTextMargin = 50
	// MinCTAMargin applies to the call-to-action, which tends to be cut off by ad placements.
	MinCTAMargin = 60
)

// TextElement names a text block on the creative.
type TextElement string

// Text elements
const (
	ElementJobTitle TextElement = "job_title"
	ElementHeadline TextElement = "headline"
	ElementSubline  TextElement = "subline"
	ElementBenefits TextElement = "benefits"
	ElementLocation TextElement = "location"
	ElementCTA      TextElement = "cta"
)

// Position is a semantic placement bucket on the canvas.
type Position string

// Semantic positions
const (
	PositionUpperLeft       Position = "upper_left"
	PositionUpperCenter     Position = "upper_center"
	PositionUpperRight      Position = "upper_right"
	PositionCenterLeft      Position = "center_left"
	PositionCenter          Position = "center"
	PositionCenterRight     Position = "center_right"
	PositionLowerLeft       Position = "lower_left"
	PositionLowerCenter     Position = "lower_center"
	PositionLowerRight      Position = "lower_right"
	PositionLeftThird       Position = "left_third"
	PositionRightThird      Position = "right_third"
	PositionFullWidthTop    Position = "full_width_top"
	PositionFullWidthBottom Position = "full_width_bottom"
)

// AllPositions lists every semantic position.
var AllPositions = []Position{
	PositionUpperLeft, PositionUpperCenter, PositionUpperRight,
	PositionCenterLeft, PositionCenter, PositionCenterRight,
	PositionLowerLeft, PositionLowerCenter, PositionLowerRight,
	PositionLeftThird, PositionRightThird,
	PositionFullWidthTop, PositionFullWidthBottom,
}

// Valid reports whether p is a known position.
func (p Position) Valid() bool {
	return contains(AllPositions, p)
}

// LogoPosition is the corner a logo is composited into.
type LogoPosition string

// Logo positions. LogoNone is used when the brand has no logo.
const (
	LogoTopRight    LogoPosition = "top_right"
	LogoTopLeft     LogoPosition = "top_left"
	LogoBottomRight LogoPosition = "bottom_right"
	LogoBottomLeft  LogoPosition = "bottom_left"
	LogoNone        LogoPosition = ""
)

// Box is a pixel rectangle on the canvas.
type Box struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Right returns the exclusive right edge.
func (b Box) Right() int { return b.X + b.Width }

// Bottom returns the exclusive bottom edge.
func (b Box) Bottom() int { return b.Y + b.Height }

// Within reports whether the box keeps at least margin pixels to every edge
// of a size x size canvas.
func (b Box) Within(size, margin int) bool {
	return b.Width > 0 && b.Height > 0 &&
		b.X >= margin && b.Y >= margin &&
		b.Right() <= size-margin && b.Bottom() <= size-margin
}

// Placement is one text element positioned on the canvas.
type Placement struct {
	Element  TextElement `json:"element"`
	Position Position    `json:"position"`
	Box      Box         `json:"box"`
	Lines    []string    `json:"lines"`
	Color    string      `json:"color"`
}

// LayoutColors carries the brand palette into rendering, unchanged.
type LayoutColors struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
}

// LayoutStrategy is the concrete rendering instruction set for one creative.
// It is immutable once computed.
type LayoutStrategy struct {
	Combination         VariantCombination `json:"combination"`
	CompositionApproach string             `json:"composition_approach"`
	TextHierarchy       []TextElement      `json:"text_hierarchy"`
	Placements          []Placement        `json:"placements"`
	AvoidZones          []Position         `json:"avoid_zones"`
	LogoPosition        LogoPosition       `json:"logo_position"`
	Logo                *Logo              `json:"logo,omitempty"`
	Colors              LayoutColors       `json:"colors"`
	Font                Font               `json:"font"`
	OverlayPrompt       string             `json:"overlay_prompt"`
	DesignNotes         []string           `json:"design_notes,omitempty"`
}

// Placement returns the placement for an element, if present.
func (s LayoutStrategy) Placement(element TextElement) (Placement, bool) {
	for _, p := range s.Placements {
		if p.Element == element {
			return p, true
		}
	}
	return Placement{}, false
}

// ImageAnalysis describes where text can safely go on a base image.
type ImageAnalysis struct {
	AvoidZones          []Position `json:"avoid_zones"`
	MainSubject         string     `json:"main_subject,omitempty"`
	MainSubjectPosition Position   `json:"main_subject_position,omitempty"`
	LightAreas          []Position `json:"light_areas,omitempty"`
	DarkAreas           []Position `json:"dark_areas,omitempty"`
}

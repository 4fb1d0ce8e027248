package layout

import "github.com/jonathan/creative-engine/internal/types"

// template constrains where a layout variant may put text.
type template struct {
	approach string
	// column bounds every text placement of the variant.
	column rect
	// slots lists candidate positions per element, most preferred first.
	slots map[types.TextElement][]types.Position
	// logoCorners lists logo corners in preference order.
	logoCorners []types.LogoPosition
}

var templates = map[types.LayoutVariant]template{
	types.LayoutHeroLeft: {
		approach: "left_aligned",
		column:   rect{0, 0, 0.4, 1},
		slots: map[types.TextElement][]types.Position{
			types.ElementJobTitle: {types.PositionUpperLeft, types.PositionCenterLeft},
			types.ElementHeadline: {types.PositionCenterLeft, types.PositionUpperLeft, types.PositionLowerLeft},
			types.ElementSubline:  {types.PositionCenterLeft, types.PositionLowerLeft, types.PositionUpperLeft},
			types.ElementBenefits: {types.PositionLowerLeft, types.PositionCenterLeft},
			types.ElementLocation: {types.PositionUpperLeft, types.PositionLowerLeft},
			types.ElementCTA:      {types.PositionLowerLeft, types.PositionCenterLeft},
		},
		logoCorners: []types.LogoPosition{types.LogoTopRight, types.LogoBottomRight},
	},
	types.LayoutHeroRight: {
		approach: "right_aligned",
		column:   rect{0.6, 0, 1, 1},
		slots: map[types.TextElement][]types.Position{
			types.ElementJobTitle: {types.PositionUpperRight, types.PositionCenterRight},
			types.ElementHeadline: {types.PositionCenterRight, types.PositionUpperRight, types.PositionLowerRight},
			types.ElementSubline:  {types.PositionCenterRight, types.PositionLowerRight, types.PositionUpperRight},
			types.ElementBenefits: {types.PositionLowerRight, types.PositionCenterRight},
			types.ElementLocation: {types.PositionUpperRight, types.PositionLowerRight},
			types.ElementCTA:      {types.PositionLowerRight, types.PositionCenterRight},
		},
		logoCorners: []types.LogoPosition{types.LogoTopLeft, types.LogoBottomLeft},
	},
	types.LayoutHeroCenter: {
		approach: "centered",
		column:   rect{0, 0, 1, 1},
		slots: map[types.TextElement][]types.Position{
			types.ElementJobTitle: {types.PositionUpperCenter, types.PositionFullWidthTop},
			types.ElementHeadline: {types.PositionCenter, types.PositionUpperCenter},
			types.ElementSubline:  {types.PositionCenter, types.PositionLowerCenter},
			types.ElementBenefits: {types.PositionLowerCenter, types.PositionCenter},
			types.ElementLocation: {types.PositionUpperCenter, types.PositionLowerCenter},
			types.ElementCTA:      {types.PositionLowerCenter, types.PositionFullWidthBottom},
		},
		logoCorners: []types.LogoPosition{types.LogoTopLeft, types.LogoTopRight, types.LogoBottomRight},
	},
	types.LayoutHeroBottom: {
		approach: "bottom_band",
		column:   rect{0, 0.5, 1, 1},
		slots: map[types.TextElement][]types.Position{
			types.ElementJobTitle: {types.PositionFullWidthBottom, types.PositionLowerCenter},
			types.ElementHeadline: {types.PositionLowerCenter, types.PositionFullWidthBottom},
			types.ElementSubline:  {types.PositionLowerCenter, types.PositionLowerLeft},
			types.ElementBenefits: {types.PositionLowerLeft, types.PositionLowerCenter},
			types.ElementLocation: {types.PositionLowerRight, types.PositionLowerLeft},
			types.ElementCTA:      {types.PositionLowerRight, types.PositionLowerCenter},
		},
		logoCorners: []types.LogoPosition{types.LogoTopRight, types.LogoTopLeft},
	},
	types.LayoutSplitVertical: {
		approach: "split_panel",
		column:   rect{0, 0, 0.5, 1},
		slots: map[types.TextElement][]types.Position{
			types.ElementJobTitle: {types.PositionUpperLeft, types.PositionCenterLeft},
			types.ElementHeadline: {types.PositionUpperLeft, types.PositionCenterLeft},
			types.ElementSubline:  {types.PositionCenterLeft, types.PositionUpperLeft},
			types.ElementBenefits: {types.PositionCenterLeft, types.PositionLowerLeft},
			types.ElementLocation: {types.PositionLowerLeft, types.PositionUpperLeft},
			types.ElementCTA:      {types.PositionLowerLeft, types.PositionCenterLeft},
		},
		logoCorners: []types.LogoPosition{types.LogoBottomRight, types.LogoTopRight},
	},
}

// allCorners is the fallback order after a template's preferred corners.
var allCorners = []types.LogoPosition{
	types.LogoTopRight, types.LogoTopLeft, types.LogoBottomRight, types.LogoBottomLeft,
}

// elementRoles maps each element to a palette role.
var elementRoles = map[types.TextElement]string{
	types.ElementJobTitle: "primary",
	types.ElementHeadline: "primary",
	types.ElementSubline:  "secondary",
	types.ElementBenefits: "secondary",
	types.ElementLocation: "secondary",
	types.ElementCTA:      "accent",
}

var styleMoods = map[types.VisualStyle]string{
	types.StyleMinimal:      "clean and reduced, generous whitespace, thin type",
	types.StyleModern:       "contemporary, crisp sans-serif type, flat color blocks",
	types.StyleBold:         "high contrast, heavy type, strong color fields",
	types.StyleElegant:      "refined, light weights, subtle accents",
	types.StyleFriendly:     "warm and approachable, rounded shapes",
	types.StyleProfessional: "structured and calm, clear hierarchy",
	types.StyleCreative:     "playful asymmetry, expressive accents",
	types.StyleClassic:      "timeless, balanced, serif headline",
}

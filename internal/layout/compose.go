// Package layout computes rendering instructions for a single creative from
// the image analysis, the brand identity, a copy variant and a variant combination.
package layout

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jonathan/creative-engine/internal/prompts"
	"github.com/jonathan/creative-engine/internal/types"
)

// textBlock is one element with the lines it renders.
type textBlock struct {
	element types.TextElement
	lines   []string
}

// Compose builds the LayoutStrategy for one creative. It is a pure function of
// its inputs and never alters brand colors.
func Compose(analysis types.ImageAnalysis, brand types.BrandIdentity, variant types.CopyVariant, combo types.VariantCombination) (types.LayoutStrategy, error) {
	if err := combo.Validate(); err != nil {
		return types.LayoutStrategy{}, &CompositionError{Combination: combo.Key(), Message: "invalid combination", Cause: err}
	}
	tpl := templates[combo.Layout]

	blocks := textBlocks(variant, combo.TextElements.Active())
	if len(blocks) == 0 {
		return types.LayoutStrategy{}, &CompositionError{Combination: combo.Key(), Message: "copy variant has no text to place"}
	}

	avoid := normalizeZones(analysis.AvoidZones)
	avoidRects := make([]rect, len(avoid))
	for i, z := range avoid {
		avoidRects[i] = positionRects[z]
	}

	colors := types.LayoutColors{
		Primary:   brand.PrimaryColor,
		Secondary: brand.SecondaryColor,
		Accent:    brand.AccentColor,
	}

	var notes []string
	if tpl.column != (rect{0, 0, 1, 1}) {
		notes = append(notes, fmt.Sprintf("text confined to x %.0f%%-%.0f%%, y %.0f%%-%.0f%% of the canvas",
			tpl.column.x0*100, tpl.column.x1*100, tpl.column.y0*100, tpl.column.y1*100))
	}

	// Assign a semantic slot to every block in hierarchy order.
	positions := make([]types.Position, len(blocks))
	used := make(map[types.Position]bool)
	for i, b := range blocks {
		pos, note := chooseSlot(tpl, b.element, avoidRects, used)
		positions[i] = pos
		used[pos] = true
		if note != "" {
			notes = append(notes, note)
		}
	}

	// Blocks sharing a slot are stacked in rows, in hierarchy order.
	boxes := make([]types.Box, len(blocks))
	for _, pos := range uniquePositions(positions) {
		var members []int
		margin := types.MinTextMargin
		for i, p := range positions {
			if p == pos {
				members = append(members, i)
				margin = max(margin, marginFor(blocks[i].element))
			}
		}
		region := positionRects[pos].intersect(tpl.column)
		rows := splitRows(region.toBox(types.CanvasSize, margin), len(members))
		for j, idx := range members {
			boxes[idx] = rows[j]
		}
	}

	placements := make([]types.Placement, len(blocks))
	hierarchy := make([]types.TextElement, len(blocks))
	for i, b := range blocks {
		if !boxes[i].Within(types.CanvasSize, marginFor(b.element)) {
			return types.LayoutStrategy{}, &CompositionError{
				Combination: combo.Key(),
				Message:     fmt.Sprintf("%s box %+v violates the %dpx margin", b.element, boxes[i], marginFor(b.element)),
			}
		}
		hierarchy[i] = b.element
		placements[i] = types.Placement{
			Element:  b.element,
			Position: positions[i],
			Box:      boxes[i],
			Lines:    b.lines,
			Color:    colorFor(colors, b.element),
		}
	}

	logoPos, logoNote := chooseLogoCorner(tpl, brand.Logo, avoidRects, textRegions(tpl, positions))
	if logoNote != "" {
		notes = append(notes, logoNote)
	}
	var logo *types.Logo
	if brand.Logo != nil && logoPos != types.LogoNone {
		l := *brand.Logo
		logo = &l
	}

	strategy := types.LayoutStrategy{
		Combination:         combo,
		CompositionApproach: tpl.approach,
		TextHierarchy:       hierarchy,
		Placements:          placements,
		AvoidZones:          avoid,
		LogoPosition:        logoPos,
		Logo:                logo,
		Colors:              colors,
		Font:                brand.Font,
		DesignNotes:         notes,
	}

	overlay, err := overlayPrompt(strategy)
	if err != nil {
		return types.LayoutStrategy{}, &CompositionError{Combination: combo.Key(), Message: "failed to build overlay prompt", Cause: err}
	}
	strategy.OverlayPrompt = overlay
	return strategy, nil
}

// textBlocks lists the elements to place in hierarchy order. Job title,
// location and CTA are always active; empty texts are skipped.
func textBlocks(variant types.CopyVariant, active types.ActiveElements) []textBlock {
	var blocks []textBlock
	add := func(el types.TextElement, lines ...string) {
		var kept []string
		for _, l := range lines {
			if l = strings.TrimSpace(l); l != "" {
				kept = append(kept, l)
			}
		}
		if len(kept) > 0 {
			blocks = append(blocks, textBlock{element: el, lines: kept})
		}
	}

	add(types.ElementJobTitle, variant.JobTitle)
	if active.Headline {
		add(types.ElementHeadline, variant.Headline)
	}
	if active.Subline {
		add(types.ElementSubline, variant.Subline)
	}
	if active.Benefits {
		benefits := variant.Benefits
		if len(benefits) > types.MaxBenefits {
			benefits = benefits[:types.MaxBenefits]
		}
		add(types.ElementBenefits, benefits...)
	}
	add(types.ElementLocation, variant.Location)
	add(types.ElementCTA, variant.CTA)
	return blocks
}

// normalizeZones drops unknown positions and duplicates, returning the zones
// in canonical position order.
func normalizeZones(zones []types.Position) []types.Position {
	out := []types.Position{}
	for _, p := range types.AllPositions {
		if slices.Contains(zones, p) {
			out = append(out, p)
		}
	}
	return out
}

// chooseSlot picks the first free candidate clear of avoid zones, then the
// first clear candidate, then the template default.
func chooseSlot(tpl template, el types.TextElement, avoid []rect, used map[types.Position]bool) (types.Position, string) {
	candidates := tpl.slots[el]
	isClear := func(p types.Position) bool {
		return !overlapsAny(positionRects[p].intersect(tpl.column), avoid)
	}
	for _, p := range candidates {
		if isClear(p) && !used[p] {
			return p, movedNote(el, candidates[0], p)
		}
	}
	for _, p := range candidates {
		if isClear(p) {
			return p, movedNote(el, candidates[0], p)
		}
	}
	return candidates[0], fmt.Sprintf("%s placed at %s over a flagged zone: no clear slot in template", el, candidates[0])
}

func movedNote(el types.TextElement, preferred, got types.Position) string {
	if preferred == got {
		return ""
	}
	return fmt.Sprintf("%s moved from %s to %s", el, preferred, got)
}

func uniquePositions(positions []types.Position) []types.Position {
	var out []types.Position
	for _, p := range positions {
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}

func textRegions(tpl template, positions []types.Position) []rect {
	regions := make([]rect, 0, len(positions))
	for _, p := range uniquePositions(positions) {
		regions = append(regions, positionRects[p].intersect(tpl.column))
	}
	return regions
}

// chooseLogoCorner returns LogoNone when there is no logo. Otherwise it
// prefers the template corners, then any corner, that overlap neither avoid
// zones nor text.
func chooseLogoCorner(tpl template, logo *types.Logo, avoid, text []rect) (types.LogoPosition, string) {
	if logo == nil || logo.URL == "" {
		return types.LogoNone, ""
	}
	candidates := slices.Clone(tpl.logoCorners)
	for _, c := range allCorners {
		if !slices.Contains(candidates, c) {
			candidates = append(candidates, c)
		}
	}
	for _, c := range candidates {
		r := logoRects[c]
		if !overlapsAny(r, avoid) && !overlapsAny(r, text) {
			return c, ""
		}
	}
	return tpl.logoCorners[0], fmt.Sprintf("logo kept at %s: every corner is occupied or flagged", tpl.logoCorners[0])
}

func marginFor(el types.TextElement) int {
	if el == types.ElementCTA {
		return types.MinCTAMargin
	}
	return types.MinTextMargin
}

func colorFor(c types.LayoutColors, el types.TextElement) string {
	switch elementRoles[el] {
	case "primary":
		return c.Primary
	case "accent":
		return c.Accent
	default:
		return c.Secondary
	}
}

func overlayPrompt(s types.LayoutStrategy) (string, error) {
	tmpl, err := prompts.Get("layout.json", "overlay")
	if err != nil {
		return "", err
	}

	var placements strings.Builder
	for _, p := range s.Placements {
		fmt.Fprintf(&placements, "- %s at %s (x=%d y=%d w=%d h=%d), color %s: %q\n",
			p.Element, p.Position, p.Box.X, p.Box.Y, p.Box.Width, p.Box.Height, p.Color, strings.Join(p.Lines, " | "))
	}

	avoid := "nothing flagged"
	if len(s.AvoidZones) > 0 {
		parts := make([]string, len(s.AvoidZones))
		for i, z := range s.AvoidZones {
			parts[i] = string(z)
		}
		avoid = strings.Join(parts, ", ")
	}

	logo := ""
	if s.LogoPosition != types.LogoNone && s.Logo != nil {
		logo = fmt.Sprintf(" Place the company logo (%s) in the %s corner.", s.Logo.URL, strings.ReplaceAll(string(s.LogoPosition), "_", " "))
	}

	return prompts.Format(tmpl, map[string]string{
		"Approach":   s.CompositionApproach,
		"Style":      string(s.Combination.Style),
		"Mood":       styleMoods[s.Combination.Style],
		"Font":       s.Font.Family,
		"Primary":    s.Colors.Primary,
		"Secondary":  s.Colors.Secondary,
		"Accent":     s.Colors.Accent,
		"Margin":     fmt.Sprint(types.MinTextMargin),
		"Placements": strings.TrimRight(placements.String(), "\n"),
		"AvoidZones": avoid,
		"Logo":       logo,
	}), nil
}

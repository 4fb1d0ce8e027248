package layout

import (
	"errors"
	"testing"

	"github.com/jonathan/creative-engine/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBrand() types.BrandIdentity {
	b := types.DefaultBrandIdentity("Acme Care")
	b.PrimaryColor = "#abcdef"
	b.SecondaryColor = "#123456"
	b.AccentColor = "#F4A261"
	b.Font = types.Font{Family: "Source Sans Pro", Style: types.FontStyleModernSans}
	b.Logo = &types.Logo{URL: "https://www.acme-care.de/logo.svg", Format: "svg"}
	return b
}

func testCopy() types.CopyVariant {
	return types.CopyVariant{
		Style:    types.CopyProfessional,
		JobTitle: "Pflegefachkraft (m/w/d)",
		Headline: "Pflege mit Herz und Verstand",
		Subline:  "Werde Teil unseres Teams in Hamburg.",
		Benefits: []string{"30 Tage Urlaub", "Tarifliche Bezahlung", "Feste Dienstpläne", "Jobrad"},
		CTA:      "Jetzt bewerben",
		Location: "Hamburg",
	}
}

func combo(layout types.LayoutVariant, set types.TextElementSet) types.VariantCombination {
	return types.VariantCombination{
		Layout:       layout,
		TextElements: set,
		Style:        types.StyleModern,
		Designer:     types.DesignerJobFocus,
	}
}

func allCombinations() []types.VariantCombination {
	var out []types.VariantCombination
	for _, l := range types.AllLayoutVariants {
		for _, t := range types.AllTextElementSets {
			for _, s := range types.AllVisualStyles {
				out = append(out, types.VariantCombination{Layout: l, TextElements: t, Style: s, Designer: types.DesignerLifestyle})
			}
		}
	}
	return out
}

func assertMargins(t *testing.T, s types.LayoutStrategy) {
	t.Helper()
	for _, p := range s.Placements {
		margin := types.MinTextMargin
		if p.Element == types.ElementCTA {
			margin = types.MinCTAMargin
		}
		assert.True(t, p.Box.Within(types.CanvasSize, margin), "%s: %s box %+v", s.Combination.Key(), p.Element, p.Box)
	}
}

func TestCompose_MarginInvariantHoldsForEveryCombination(t *testing.T) {
	analyses := map[string]types.ImageAnalysis{
		"no zones": {},
		"every grid zone flagged": {AvoidZones: []types.Position{
			types.PositionUpperLeft, types.PositionUpperCenter, types.PositionUpperRight,
			types.PositionCenterLeft, types.PositionCenter, types.PositionCenterRight,
			types.PositionLowerLeft, types.PositionLowerCenter, types.PositionLowerRight,
		}},
	}
	for name, analysis := range analyses {
		t.Run(name, func(t *testing.T) {
			for _, c := range allCombinations() {
				s, err := Compose(analysis, testBrand(), testCopy(), c)
				require.NoError(t, err, c.Key())
				require.NotEmpty(t, s.Placements)
				assertMargins(t, s)
			}
		})
	}
}

func TestCompose_HeroLeftConfinesTextToLeftColumn(t *testing.T) {
	limit := types.CanvasSize * 4 / 10
	for _, set := range types.AllTextElementSets {
		s, err := Compose(types.ImageAnalysis{}, testBrand(), testCopy(), combo(types.LayoutHeroLeft, set))
		require.NoError(t, err)
		assert.Equal(t, "left_aligned", s.CompositionApproach)
		for _, p := range s.Placements {
			assert.LessOrEqual(t, p.Box.Right(), limit, "%s %s", set, p.Element)
		}
	}
}

func TestCompose_HeroRightConfinesTextToRightColumn(t *testing.T) {
	limit := types.CanvasSize * 6 / 10
	s, err := Compose(types.ImageAnalysis{}, testBrand(), testCopy(), combo(types.LayoutHeroRight, types.TextFull))
	require.NoError(t, err)
	for _, p := range s.Placements {
		assert.GreaterOrEqual(t, p.Box.X, limit, p.Element)
	}
}

func TestCompose_ActiveElements(t *testing.T) {
	s, err := Compose(types.ImageAnalysis{}, testBrand(), testCopy(), combo(types.LayoutHeroCenter, types.TextHeadlineOnly))
	require.NoError(t, err)
	assert.Equal(t, []types.TextElement{
		types.ElementJobTitle, types.ElementHeadline, types.ElementLocation, types.ElementCTA,
	}, s.TextHierarchy)

	s, err = Compose(types.ImageAnalysis{}, testBrand(), testCopy(), combo(types.LayoutHeroCenter, types.TextFull))
	require.NoError(t, err)
	assert.Equal(t, []types.TextElement{
		types.ElementJobTitle, types.ElementHeadline, types.ElementSubline,
		types.ElementBenefits, types.ElementLocation, types.ElementCTA,
	}, s.TextHierarchy)

	benefits, ok := s.Placement(types.ElementBenefits)
	require.True(t, ok)
	assert.Len(t, benefits.Lines, types.MaxBenefits)
}

func TestCompose_EmptyTextsAreSkipped(t *testing.T) {
	cv := testCopy()
	cv.Location = ""
	cv.Headline = "  "
	s, err := Compose(types.ImageAnalysis{}, testBrand(), cv, combo(types.LayoutHeroLeft, types.TextHeadlineSubline))
	require.NoError(t, err)
	assert.Equal(t, []types.TextElement{types.ElementJobTitle, types.ElementSubline, types.ElementCTA}, s.TextHierarchy)

	_, err = Compose(types.ImageAnalysis{}, testBrand(), types.CopyVariant{}, combo(types.LayoutHeroLeft, types.TextFull))
	var compErr *CompositionError
	assert.True(t, errors.As(err, &compErr))
}

func TestCompose_ColorsPassThroughVerbatim(t *testing.T) {
	brand := testBrand()
	for _, c := range allCombinations() {
		s, err := Compose(types.ImageAnalysis{}, brand, testCopy(), c)
		require.NoError(t, err)
		assert.Equal(t, types.LayoutColors{Primary: "#abcdef", Secondary: "#123456", Accent: "#F4A261"}, s.Colors)
		for _, p := range s.Placements {
			assert.Contains(t, brand.Palette(), p.Color)
		}
	}

	s, err := Compose(types.ImageAnalysis{}, brand, testCopy(), combo(types.LayoutHeroLeft, types.TextFull))
	require.NoError(t, err)
	headline, _ := s.Placement(types.ElementHeadline)
	cta, _ := s.Placement(types.ElementCTA)
	subline, _ := s.Placement(types.ElementSubline)
	assert.Equal(t, "#abcdef", headline.Color)
	assert.Equal(t, "#F4A261", cta.Color)
	assert.Equal(t, "#123456", subline.Color)
	assert.Contains(t, s.OverlayPrompt, "#abcdef")
	assert.Contains(t, s.OverlayPrompt, "Source Sans Pro")
}

func TestCompose_AvoidsFlaggedZones(t *testing.T) {
	analysis := types.ImageAnalysis{
		AvoidZones: []types.Position{types.PositionCenterLeft, "bogus", types.PositionCenterLeft},
	}
	s, err := Compose(analysis, testBrand(), testCopy(), combo(types.LayoutHeroLeft, types.TextFull))
	require.NoError(t, err)

	assert.Equal(t, []types.Position{types.PositionCenterLeft}, s.AvoidZones)
	for _, p := range s.Placements {
		assert.NotEqual(t, types.PositionCenterLeft, p.Position, p.Element)
	}
	headline, ok := s.Placement(types.ElementHeadline)
	require.True(t, ok)
	assert.Equal(t, types.PositionLowerLeft, headline.Position)
	assert.Contains(t, s.DesignNotes, "headline moved from center_left to lower_left")
}

func TestCompose_SharedSlotsStackWithoutOverlap(t *testing.T) {
	s, err := Compose(types.ImageAnalysis{}, testBrand(), testCopy(), combo(types.LayoutHeroLeft, types.TextFull))
	require.NoError(t, err)

	byPosition := map[types.Position][]types.Box{}
	for _, p := range s.Placements {
		byPosition[p.Position] = append(byPosition[p.Position], p.Box)
	}
	for pos, boxes := range byPosition {
		for i := 1; i < len(boxes); i++ {
			assert.LessOrEqual(t, boxes[i-1].Bottom(), boxes[i].Y, pos)
		}
	}
}

func TestCompose_LogoPosition(t *testing.T) {
	t.Run("no logo", func(t *testing.T) {
		brand := testBrand()
		brand.Logo = nil
		s, err := Compose(types.ImageAnalysis{}, brand, testCopy(), combo(types.LayoutHeroLeft, types.TextFull))
		require.NoError(t, err)
		assert.Equal(t, types.LogoNone, s.LogoPosition)
		assert.Nil(t, s.Logo)
	})

	t.Run("opposite the text column", func(t *testing.T) {
		s, err := Compose(types.ImageAnalysis{}, testBrand(), testCopy(), combo(types.LayoutHeroLeft, types.TextFull))
		require.NoError(t, err)
		assert.Equal(t, types.LogoTopRight, s.LogoPosition)
		require.NotNil(t, s.Logo)

		s, err = Compose(types.ImageAnalysis{}, testBrand(), testCopy(), combo(types.LayoutHeroRight, types.TextFull))
		require.NoError(t, err)
		assert.Equal(t, types.LogoTopLeft, s.LogoPosition)
	})

	t.Run("skips flagged corner", func(t *testing.T) {
		analysis := types.ImageAnalysis{AvoidZones: []types.Position{types.PositionUpperRight}}
		s, err := Compose(analysis, testBrand(), testCopy(), combo(types.LayoutHeroLeft, types.TextFull))
		require.NoError(t, err)
		assert.Equal(t, types.LogoBottomRight, s.LogoPosition)
	})
}

func TestCompose_Deterministic(t *testing.T) {
	analysis := types.ImageAnalysis{AvoidZones: []types.Position{types.PositionCenter, types.PositionUpperLeft}}
	for _, c := range allCombinations() {
		a, err := Compose(analysis, testBrand(), testCopy(), c)
		require.NoError(t, err)
		b, err := Compose(analysis, testBrand(), testCopy(), c)
		require.NoError(t, err)
		assert.Equal(t, a, b, c.Key())
	}
}

func TestCompose_InvalidCombination(t *testing.T) {
	_, err := Compose(types.ImageAnalysis{}, testBrand(), testCopy(), combo("diagonal", types.TextFull))
	require.Error(t, err)

	var compErr *CompositionError
	require.True(t, errors.As(err, &compErr))
	assert.Contains(t, err.Error(), "unknown layout variant")
}

package observability

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jonathan/creative-engine/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBrandIdentity(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	brand := types.DefaultBrandIdentity("Acme Care")
	p.PrintBrandIdentity(brand)
	output := buf.String()

	assert.Contains(t, output, "BRAND IDENTITY")
	assert.Contains(t, output, "Acme Care")
	assert.Contains(t, output, types.DefaultPrimaryColor)
	assert.Contains(t, output, "default")
	assert.Contains(t, output, "Logo:       none")
}

func TestPrintCopyVariants(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCopyVariants([]types.CopyVariant{
		{Style: types.CopyEmotional, Headline: "Pflege mit Herz", Benefits: []string{"30 Tage Urlaub"}, CTA: "Jetzt bewerben"},
		{Style: types.CopyProfessional, Headline: "Ihre Zukunft", Fallback: true},
	})
	output := buf.String()

	assert.Contains(t, output, "COPY VARIANTS")
	assert.Contains(t, output, "[1] emotional")
	assert.Contains(t, output, "• 30 Tage Urlaub")
	assert.Contains(t, output, "professional (default)")
}

func TestPrintCopyVariants_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintCopyVariants(nil)
	assert.Empty(t, buf.String())
}

func TestPrintCampaignResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	combo := types.VariantCombination{
		Layout: types.LayoutHeroLeft, TextElements: types.TextFull,
		Style: types.StyleBold, Designer: types.DesignerArtistic,
	}
	creatives := make([]types.CreativeResult, 10)
	for i := range creatives {
		creatives[i] = types.CreativeResult{Combination: combo, Success: i%2 == 0}
	}
	creatives[1].Error = "image generation failed"

	p.PrintCampaignResult(&types.CampaignResult{
		ID:             "c-1",
		Company:        "Acme Care",
		JobTitles:      []string{"Pflegefachkraft"},
		Status:         types.CampaignPartial,
		TotalRequested: 10,
		TotalGenerated: 5,
		TotalFailed:    5,
		Creatives:      creatives,
	})
	output := buf.String()

	assert.Contains(t, output, "Status:     partial")
	assert.Contains(t, output, "Generated:  5 of 10 (5 failed)")
	assert.Contains(t, output, "✗ hero_left/full/bold/artistic: image generation failed")
	assert.Contains(t, output, "... and 2 more")
}

func TestPrintCampaignResult_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintCampaignResult(nil)
	assert.Empty(t, buf.String())
}

func TestPrintBox_TruncatesByRune(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.printBox("T", strings.Repeat("ü", 200))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, boxWidth, utf8.RuneCountInString(lines[3]))
	assert.True(t, strings.HasSuffix(lines[3], "... │"))
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug", "console")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1))

	logger, err = NewLogger("warn", "json")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(0))

	_, err = NewLogger("loud", "json")
	assert.Error(t, err)
	_, err = NewLogger("info", "xml")
	assert.Error(t, err)
}

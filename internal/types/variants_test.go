package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextElementSet_EveryMemberActivatesAnOptionalElement(t *testing.T) {
	require.Len(t, AllTextElementSets, 7)
	for _, set := range AllTextElementSets {
		t.Run(string(set), func(t *testing.T) {
			assert.GreaterOrEqual(t, set.Active().Count(), 1)
			assert.True(t, set.Valid())
		})
	}
}

func TestTextElementSet_Active(t *testing.T) {
	assert.Equal(t, ActiveElements{Headline: true}, TextHeadlineOnly.Active())
	assert.Equal(t, ActiveElements{Subline: true, Benefits: true}, TextSublineBenefits.Active())
	assert.Equal(t, ActiveElements{Headline: true, Subline: true, Benefits: true}, TextFull.Active())
	assert.Equal(t, 0, TextElementSet("nothing").Active().Count())
	assert.False(t, TextElementSet("nothing").Valid())
}

func TestVariantCombination_Validate(t *testing.T) {
	valid := VariantCombination{
		Layout:       LayoutHeroLeft,
		TextElements: TextFull,
		Style:        StyleBold,
		Designer:     DesignerLifestyle,
	}
	require.NoError(t, valid.Validate())
	assert.Equal(t, "hero_left/full/bold/lifestyle", valid.Key())

	tests := []struct {
		name   string
		mutate func(*VariantCombination)
		want   string
	}{
		{"layout", func(c *VariantCombination) { c.Layout = "diagonal" }, "layout variant"},
		{"text", func(c *VariantCombination) { c.TextElements = "none" }, "text element set"},
		{"style", func(c *VariantCombination) { c.Style = "grunge" }, "visual style"},
		{"designer", func(c *VariantCombination) { c.Designer = "collage" }, "designer type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBox_Within(t *testing.T) {
	assert.True(t, Box{X: 50, Y: 50, Width: 924, Height: 924}.Within(CanvasSize, MinTextMargin))
	assert.False(t, Box{X: 49, Y: 50, Width: 100, Height: 100}.Within(CanvasSize, MinTextMargin))
	assert.False(t, Box{X: 50, Y: 50, Width: 925, Height: 100}.Within(CanvasSize, MinTextMargin))
	assert.False(t, Box{X: 100, Y: 100}.Within(CanvasSize, MinTextMargin))
}

func TestCampaignRequest_Validate(t *testing.T) {
	req := CampaignRequest{
		Company:             "Acme Care",
		JobTitle:            "Pflegefachkraft",
		Location:            "Hamburg",
		DesiredVariantCount: 3,
	}
	require.NoError(t, req.Validate())

	bad := req
	bad.DesiredVariantCount = 0
	assert.Error(t, bad.Validate())

	bad = req
	bad.Website = "not a url"
	assert.Error(t, bad.Validate())

	bad = req
	bad.BrandOverride = &BrandOverride{PrimaryColor: "blue", SecondaryColor: "#FFFFFF", AccentColor: "#000000"}
	assert.Error(t, bad.Validate())

	job := req.JobFacts()
	assert.Equal(t, []string{"Pflegefachkraft"}, job.Titles)
	assert.Equal(t, "Pflegefachkraft", job.PrimaryTitle())
	assert.NoError(t, ValidateFacts(job, req.CompanyFacts()))
}

func TestCampaignStatus_Succeeded(t *testing.T) {
	assert.True(t, CampaignSuccess.Succeeded())
	assert.True(t, CampaignPartial.Succeeded())
	assert.False(t, CampaignFailed.Succeeded())
}

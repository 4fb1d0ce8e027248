package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/jonathan/creative-engine/internal/llm"
	"github.com/jonathan/creative-engine/internal/providers"
	"github.com/jonathan/creative-engine/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVision struct {
	response string
	err      error
	mimeType string
	tier     llm.ModelTier
}

func (f *fakeVision) GenerateJSON(context.Context, string, llm.ModelTier) (string, error) {
	return "", errors.New("text only not expected")
}

func (f *fakeVision) GenerateJSONWithImage(_ context.Context, _ string, _ []byte, mimeType string, tier llm.ModelTier) (string, error) {
	f.mimeType = mimeType
	f.tier = tier
	return f.response, f.err
}

func (f *fakeVision) GetModel(llm.ModelTier) string { return "fake" }
func (f *fakeVision) Close() error                  { return nil }

var testImage = types.BaseImage{Designer: types.DesignerJobFocus, MIMEType: "image/jpeg", Data: []byte{0xff, 0xd8, 0xff}}

func TestGeminiAnalyzer_Analyze(t *testing.T) {
	client := &fakeVision{response: `{"avoid_zones":["center","upper_left","center"],"main_subject":"nurse","main_subject_position":"center","light_areas":["lower_right"]}`}
	got, err := NewGeminiAnalyzer(client, nil).Analyze(context.Background(), testImage)
	require.NoError(t, err)

	assert.Equal(t, []types.Position{types.PositionCenter, types.PositionUpperLeft}, got.AvoidZones)
	assert.Equal(t, "nurse", got.MainSubject)
	assert.Equal(t, types.PositionCenter, got.MainSubjectPosition)
	assert.Equal(t, "image/jpeg", client.mimeType)
	assert.Equal(t, llm.TierVision, client.tier)
}

func TestGeminiAnalyzer_Errors(t *testing.T) {
	_, err := NewGeminiAnalyzer(&fakeVision{response: `{"avoid_zones":["somewhere"]}`}, nil).Analyze(context.Background(), testImage)
	assert.Equal(t, providers.KindUnavailable, providers.Classify(err))

	_, err = NewGeminiAnalyzer(&fakeVision{err: context.DeadlineExceeded}, nil).Analyze(context.Background(), testImage)
	assert.Equal(t, providers.KindTimeout, providers.Classify(err))

	_, err = NewGeminiAnalyzer(&fakeVision{}, nil).Analyze(context.Background(), types.BaseImage{})
	assert.Equal(t, providers.KindMalformedInput, providers.Classify(err))
}

func TestNoop(t *testing.T) {
	got, err := Noop{}.Analyze(context.Background(), testImage)
	require.NoError(t, err)
	assert.Empty(t, got.AvoidZones)
}

func TestSanitize(t *testing.T) {
	got := Sanitize(types.ImageAnalysis{
		AvoidZones:          []types.Position{"bogus", types.PositionLowerLeft},
		MainSubjectPosition: "middle",
		DarkAreas:           []types.Position{types.PositionCenter, types.PositionCenter},
	})
	assert.Equal(t, []types.Position{types.PositionLowerLeft}, got.AvoidZones)
	assert.Empty(t, got.MainSubjectPosition)
	assert.Equal(t, []types.Position{types.PositionCenter}, got.DarkAreas)
}

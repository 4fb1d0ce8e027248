package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierVision))
	assert.Equal(t, "gemini-2.5-flash-image", config.GetModel(TierImage))
	assert.Greater(t, config.GetTemperature(TierStandard), config.GetTemperature(TierVision))
}

func TestGetModel_Fallback(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite: "fallback-model",
		},
	}

	assert.Equal(t, "fallback-model", config.GetModel(TierVision))
	assert.Equal(t, "", config.GetModel(TierImage), "text models never stand in for the image model")
	assert.Equal(t, float32(0.1), config.GetTemperature(TierVision))
}

func TestGetModel_EmptyConfig(t *testing.T) {
	config := &Config{Provider: ProviderGemini, Models: map[ModelTier]string{}}
	assert.Equal(t, "", config.GetModel(TierStandard))
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	newConfig := config.WithModel(TierStandard, "custom-model")

	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "custom-model", newConfig.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-flash-lite", newConfig.GetModel(TierLite))
	assert.Equal(t, config.GetTemperature(TierStandard), newConfig.GetTemperature(TierStandard))

	unchanged := config.WithModel(TierImage, "")
	assert.Equal(t, "gemini-2.5-flash-image", unchanged.GetModel(TierImage))
}

func TestMaxOutputTokens(t *testing.T) {
	config := DefaultConfig()
	assert.Positive(t, config.GetMaxOutputTokens(TierStandard))
	assert.Zero(t, config.GetMaxOutputTokens(TierImage))

	copied := config.WithModel(TierVision, "vision-model")
	assert.Equal(t, config.GetMaxOutputTokens(TierVision), copied.GetMaxOutputTokens(TierVision))

	assert.Zero(t, (&Config{}).GetMaxOutputTokens(TierStandard))
}

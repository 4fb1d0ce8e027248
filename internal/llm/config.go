// Package llm wraps the Gemini models used for copywriting and image analysis
// behind a small tiered client.
package llm

// ModelTier names the job a model is used for.
type ModelTier string

const (
	// TierLite is for cheap fallbacks and short rewrites
	TierLite ModelTier = "lite"
	// TierStandard writes the advertising copy
	TierStandard ModelTier = "standard"
	// TierVision reads base images for text placement
	TierVision ModelTier = "vision"
	// TierImage generates base images
	TierImage ModelTier = "image"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider, the only one supported.
const ProviderGemini Provider = "gemini"

// Config holds the model configuration for the application
type Config struct {
	Provider        Provider
	Models          map[ModelTier]string
	Temperatures    map[ModelTier]float32
	MaxOutputTokens map[ModelTier]int32
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration. Copy runs
// warm for variety between styles; vision runs cold for stable zones.
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierVision:   "gemini-2.5-flash",
			TierImage:    "gemini-2.5-flash-image",
		},
		Temperatures: map[ModelTier]float32{
			TierLite:     0.4,
			TierStandard: 0.9,
			TierVision:   0.1,
		},
		// One copy variant or one zone analysis is a few hundred tokens.
		MaxOutputTokens: map[ModelTier]int32{
			TierLite:     512,
			TierStandard: 1024,
			TierVision:   1024,
		},
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// The image tier has no text fallback.
	if tier == TierImage {
		return ""
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// GetTemperature returns the sampling temperature for a tier, 0.1 if unset.
func (c *Config) GetTemperature(tier ModelTier) float32 {
	if t, ok := c.Temperatures[tier]; ok {
		return t
	}
	return 0.1
}

// GetMaxOutputTokens returns the output cap for a tier, 0 meaning no cap.
func (c *Config) GetMaxOutputTokens(tier ModelTier) int32 {
	return c.MaxOutputTokens[tier]
}

// WithModel returns a new Config with a specific model for a tier. Empty
// model names leave the tier unchanged.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Provider:        c.Provider,
		Models:          make(map[ModelTier]string, len(c.Models)+1),
		Temperatures:    make(map[ModelTier]float32, len(c.Temperatures)),
		MaxOutputTokens: make(map[ModelTier]int32, len(c.MaxOutputTokens)),
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	for k, v := range c.Temperatures {
		newConfig.Temperatures[k] = v
	}
	for k, v := range c.MaxOutputTokens {
		newConfig.MaxOutputTokens[k] = v
	}
	if model != "" {
		newConfig.Models[tier] = model
	}
	return newConfig
}

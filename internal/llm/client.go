package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateJSON generates JSON content using the specified model tier
	GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GenerateJSONWithImage generates JSON content about an attached image
	GenerateJSONWithImage(ctx context.Context, prompt string, image []byte, mimeType string, tier ModelTier) (string, error)
	// GetModel returns the underlying provider model for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	return NewGeminiClient(ctx, config, apiKey)
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, &APIError{Message: "API key is required"}
	}
	if config == nil {
		config = DefaultConfig()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, &APIError{Message: "failed to create Gemini client", Cause: err}
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// GenerateJSON generates JSON content using the specified model tier
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.generateJSON(ctx, tier, genai.Text(prompt))
}

// GenerateJSONWithImage sends the image inline next to the prompt.
func (c *GeminiClient) GenerateJSONWithImage(ctx context.Context, prompt string, image []byte, mimeType string, tier ModelTier) (string, error) {
	if len(image) == 0 {
		return "", &APIError{Message: "image is empty"}
	}
	format := strings.TrimPrefix(mimeType, "image/")
	if format == "" {
		format = "png"
	}
	return c.generateJSON(ctx, tier, genai.ImageData(format, image), genai.Text(prompt))
}

func (c *GeminiClient) generateJSON(ctx context.Context, tier ModelTier, parts ...genai.Part) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", &APIError{Message: fmt.Sprintf("no model configured for tier %s", tier)}
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(c.config.GetTemperature(tier))
	model.SetCandidateCount(1)
	if limit := c.config.GetMaxOutputTokens(tier); limit > 0 {
		model.SetMaxOutputTokens(limit)
	}
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", &APIError{Model: modelName, Message: "failed to generate content", Cause: err}
	}
	if reason := blockReason(resp); reason != "" {
		return "", &APIError{Model: modelName, Message: "response blocked: " + reason, Blocked: true}
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return "", &APIError{Model: modelName, Message: "unusable response", Cause: err}
	}
	return CleanJSONBlock(text), nil
}

// GetModel returns the model name for a tier
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// blockReason reports why the model refused a prompt or stopped a
// candidate for safety, or "" when the response is usable.
func blockReason(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != genai.BlockReasonUnspecified {
		return fb.BlockReason.String()
	}
	if len(resp.Candidates) > 0 {
		switch reason := resp.Candidates[0].FinishReason; reason {
		case genai.FinishReasonSafety, genai.FinishReasonRecitation:
			return reason.String()
		}
	}
	return ""
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response (finish reason %s)", candidate.FinishReason)
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}

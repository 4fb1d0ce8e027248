package imagegen

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
	"github.com/jonathan/creative-engine/internal/providers"
	"github.com/jonathan/creative-engine/internal/ratelimit"
	"github.com/jonathan/creative-engine/internal/types"
)

// DefaultBaseURL is the Gemini REST endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// GeminiImageProvider generates base images with the Gemini image model
// over REST.
type GeminiImageProvider struct {
	client   *resty.Client
	apiKey   string
	model    string
	throttle *ratelimit.Throttle
}

// NewGeminiImageProvider creates a provider. An empty baseURL uses
// DefaultBaseURL.
func NewGeminiImageProvider(apiKey, model, baseURL string, timeout time.Duration, throttle *ratelimit.Throttle) *GeminiImageProvider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(1).
		SetHeader("Content-Type", "application/json")
	return &GeminiImageProvider{client: client, apiKey: apiKey, model: model, throttle: throttle}
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text       string      `json:"text,omitempty"`
				InlineData *inlineData `json:"inlineData,omitempty"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate implements Provider.
func (p *GeminiImageProvider) Generate(ctx context.Context, brief Brief) (types.BaseImage, error) {
	if p.apiKey == "" {
		return types.BaseImage{}, &providers.UnavailableError{Provider: "image", Message: "API key is required"}
	}
	prompt, err := BuildPrompt(brief)
	if err != nil {
		return types.BaseImage{}, err
	}
	if err := p.throttle.Wait(ctx); err != nil {
		return types.BaseImage{}, providers.Wrap("image", err)
	}

	body := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]any{{"text": prompt}}},
		},
		"generationConfig": map[string]any{
			"responseModalities": []string{"TEXT", "IMAGE"},
			"imageConfig":        map[string]any{"aspectRatio": "1:1"},
		},
	}

	var out generateResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParam("key", p.apiKey).
		SetBody(body).
		SetResult(&out).
		SetError(&out).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", p.model))
	if err != nil {
		return types.BaseImage{}, providers.Wrap("image", err)
	}
	if resp.IsError() || out.Error != nil {
		msg := fmt.Sprintf("status %d", resp.StatusCode())
		if out.Error != nil {
			msg = fmt.Sprintf("%s: %s", msg, out.Error.Message)
		}
		return types.BaseImage{}, &providers.UnavailableError{Provider: "image", Message: msg}
	}

	for _, c := range out.Candidates {
		for _, part := range c.Content.Parts {
			if part.InlineData == nil || part.InlineData.Data == "" {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return types.BaseImage{}, &providers.UnavailableError{Provider: "image", Message: "invalid image encoding", Cause: err}
			}
			mime, err := SniffImage(data)
			if err != nil {
				return types.BaseImage{}, err
			}
			return types.BaseImage{Designer: brief.Designer, MIMEType: mime, Prompt: prompt, Data: data}, nil
		}
	}
	return types.BaseImage{}, &providers.UnavailableError{Provider: "image", Message: "response contained no image"}
}

// SniffImage returns the detected MIME type of data, or an error when the
// bytes are not an image.
func SniffImage(data []byte) (string, error) {
	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", &providers.UnavailableError{Provider: "image", Message: fmt.Sprintf("unexpected content type %s", mtype.String())}
	}
	return mtype.String(), nil
}

package copywriting

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/creative-engine/internal/llm"
	"github.com/jonathan/creative-engine/internal/prompts"
	"github.com/jonathan/creative-engine/internal/providers"
	"github.com/jonathan/creative-engine/internal/ratelimit"
	"github.com/jonathan/creative-engine/internal/schemas"
	"github.com/jonathan/creative-engine/internal/types"
	"github.com/jonathan/creative-engine/internal/validation"
)

// GeminiProvider writes copy variants with the LLM client.
type GeminiProvider struct {
	client   llm.Client
	throttle *ratelimit.Throttle
}

// NewGeminiProvider creates a provider. A nil throttle does not pace calls.
func NewGeminiProvider(client llm.Client, throttle *ratelimit.Throttle) *GeminiProvider {
	return &GeminiProvider{client: client, throttle: throttle}
}

type copyResponse struct {
	Headline string   `json:"headline"`
	Subline  string   `json:"subline"`
	Benefits []string `json:"benefits"`
	CTA      string   `json:"cta"`
}

// Generate implements Provider.
func (p *GeminiProvider) Generate(ctx context.Context, brief Brief) (types.CopyVariant, error) {
	prompt, err := BuildPrompt(brief)
	if err != nil {
		return types.CopyVariant{}, err
	}
	if err := p.throttle.Wait(ctx); err != nil {
		return types.CopyVariant{}, providers.Wrap("text", err)
	}

	raw, err := p.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return types.CopyVariant{}, providers.Wrap("text", err)
	}
	raw = llm.CleanJSONBlock(raw)

	if err := schemas.Validate(schemas.CopyVariant, raw); err != nil {
		return types.CopyVariant{}, &providers.UnavailableError{Provider: "text", Message: "response failed schema validation", Cause: err}
	}

	var resp copyResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return types.CopyVariant{}, &providers.UnavailableError{Provider: "text", Message: "failed to parse copy response", Cause: err}
	}

	return types.CopyVariant{
		Style:    brief.Style,
		JobTitle: brief.JobTitle,
		Headline: resp.Headline,
		Subline:  resp.Subline,
		Benefits: resp.Benefits,
		CTA:      resp.CTA,
		Location: brief.Job.Location,
	}, nil
}

// BuildPrompt renders the copy prompt for a brief.
func BuildPrompt(brief Brief) (string, error) {
	system, err := prompts.Get("copy.json", "system")
	if err != nil {
		return "", fmt.Errorf("failed to load copy prompt: %w", err)
	}
	guide, err := prompts.Get("copy.json", "style-"+string(brief.Style))
	if err != nil {
		return "", fmt.Errorf("failed to load style guide: %w", err)
	}

	benefits := "none given"
	if len(brief.Job.Benefits) > 0 {
		benefits = validation.StripInjectionAttempts(strings.Join(brief.Job.Benefits, "; "))
	}
	description := validation.SanitizeForPrompt(brief.Job.Description, "job description")
	if description == "" {
		description = "none given"
	}

	task, err := prompts.Render("copy.json", "variant", map[string]string{
		"Company":     brief.Company,
		"JobTitle":    brief.JobTitle,
		"Location":    brief.Job.Location,
		"Benefits":    benefits,
		"Description": description,
		"Style":       string(brief.Style),
		"StyleGuide":  guide,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render copy prompt: %w", err)
	}
	return system + "\n\n" + llm.BuildJSONPrompt(llm.CopyVariantContract(), task), nil
}

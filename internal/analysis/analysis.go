// Package analysis reads a base image and reports where text must not go.
package analysis

import (
	"context"
	"encoding/json"

	"github.com/jonathan/creative-engine/internal/llm"
	"github.com/jonathan/creative-engine/internal/prompts"
	"github.com/jonathan/creative-engine/internal/providers"
	"github.com/jonathan/creative-engine/internal/ratelimit"
	"github.com/jonathan/creative-engine/internal/schemas"
	"github.com/jonathan/creative-engine/internal/types"
)

// Analyzer inspects a base image.
type Analyzer interface {
	Analyze(ctx context.Context, img types.BaseImage) (types.ImageAnalysis, error)
}

// Noop returns an empty analysis: no avoid zones.
type Noop struct{}

// Analyze implements Analyzer.
func (Noop) Analyze(context.Context, types.BaseImage) (types.ImageAnalysis, error) {
	return types.ImageAnalysis{}, nil
}

// GeminiAnalyzer uses the vision tier of the LLM client.
type GeminiAnalyzer struct {
	client   llm.Client
	throttle *ratelimit.Throttle
}

// NewGeminiAnalyzer creates an analyzer.
func NewGeminiAnalyzer(client llm.Client, throttle *ratelimit.Throttle) *GeminiAnalyzer {
	return &GeminiAnalyzer{client: client, throttle: throttle}
}

// Analyze implements Analyzer. Positions outside the known set are dropped.
func (a *GeminiAnalyzer) Analyze(ctx context.Context, img types.BaseImage) (types.ImageAnalysis, error) {
	if len(img.Data) == 0 {
		return types.ImageAnalysis{}, &providers.MalformedInputError{Field: "image", Message: "no image data"}
	}
	task, err := prompts.Get("analysis.json", "analyze")
	if err != nil {
		return types.ImageAnalysis{}, err
	}
	if err := a.throttle.Wait(ctx); err != nil {
		return types.ImageAnalysis{}, providers.Wrap("analysis", err)
	}

	prompt := llm.BuildJSONPrompt(llm.ImageAnalysisContract(), task)
	raw, err := a.client.GenerateJSONWithImage(ctx, prompt, img.Data, img.MIMEType, llm.TierVision)
	if err != nil {
		return types.ImageAnalysis{}, providers.Wrap("analysis", err)
	}
	raw = llm.CleanJSONBlock(raw)

	if err := schemas.Validate(schemas.ImageAnalysis, raw); err != nil {
		return types.ImageAnalysis{}, &providers.UnavailableError{Provider: "analysis", Message: "response failed schema validation", Cause: err}
	}
	var out types.ImageAnalysis
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return types.ImageAnalysis{}, &providers.UnavailableError{Provider: "analysis", Message: "failed to parse analysis", Cause: err}
	}
	return Sanitize(out), nil
}

// Sanitize drops unknown positions and duplicates.
func Sanitize(a types.ImageAnalysis) types.ImageAnalysis {
	a.AvoidZones = known(a.AvoidZones)
	a.LightAreas = known(a.LightAreas)
	a.DarkAreas = known(a.DarkAreas)
	if !a.MainSubjectPosition.Valid() {
		a.MainSubjectPosition = ""
	}
	return a
}

func known(ps []types.Position) []types.Position {
	var out []types.Position
	seen := make(map[types.Position]bool, len(ps))
	for _, p := range ps {
		if p.Valid() && !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

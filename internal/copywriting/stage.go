// Package copywriting produces the advertising text variants of a campaign.
package copywriting

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonathan/creative-engine/internal/providers"
	"github.com/jonathan/creative-engine/internal/types"
	"github.com/jonathan/creative-engine/internal/validation"
	"go.uber.org/zap"
)

// DefaultTimeout bounds one text provider call.
const DefaultTimeout = 45 * time.Second

// Brief is everything a text provider needs to write one variant.
type Brief struct {
	Company  string
	JobTitle string
	Job      types.JobFacts
	Style    types.CopyStyle
}

// Provider writes one copy variant for a brief.
type Provider interface {
	Generate(ctx context.Context, brief Brief) (types.CopyVariant, error)
}

// Batch is the outcome of one Generate call. It always holds the requested
// number of variants; Degraded counts the ones built without the provider.
type Batch struct {
	Variants []types.CopyVariant
	Degraded int
	Errors   map[types.CopyStyle]error
}

// Stage fans out one provider call per copy style.
type Stage struct {
	provider  Provider
	timeout   time.Duration
	limits    validation.Limits
	forbidden []string
	logger    *zap.Logger
}

// Option configures a Stage.
type Option func(*Stage)

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Stage) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLimits sets the per-field length limits generated copy must respect.
func WithLimits(limits validation.Limits) Option {
	return func(s *Stage) {
		s.limits = limits
	}
}

// WithForbiddenPhrases replaces the phrases that disqualify generated copy.
func WithForbiddenPhrases(phrases []string) Option {
	return func(s *Stage) {
		s.forbidden = phrases
	}
}

// WithLogger sets the stage logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Stage) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStage creates a Stage. A nil provider yields default variants only.
func NewStage(provider Provider, opts ...Option) *Stage {
	s := &Stage{
		provider:  provider,
		timeout:   DefaultTimeout,
		limits:    validation.DefaultLimits(),
		forbidden: validation.DefaultForbiddenPhrases,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate returns n variants with distinct styles, n clamped to the number
// of styles. Failed or timed out calls are replaced with a default variant
// for that style, so the batch is never short.
func (s *Stage) Generate(ctx context.Context, job types.JobFacts, company types.CompanyFacts, n int) Batch {
	n = min(max(n, 1), len(types.AllCopyStyles))
	styles := types.AllCopyStyles[:n]
	validation.LogInjectionWarning(s.logger, validation.CheckBasicHeuristics(job.Description), "description")

	variants := make([]types.CopyVariant, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i, style := range styles {
		brief := Brief{
			Company:  company.Name,
			JobTitle: titleFor(job, i),
			Job:      job,
			Style:    style,
		}
		wg.Add(1)
		go func(i int, brief Brief) {
			defer wg.Done()
			variants[i], errs[i] = s.generateOne(ctx, brief)
		}(i, brief)
	}
	wg.Wait()

	batch := Batch{Variants: variants}
	for i, err := range errs {
		if err == nil {
			continue
		}
		batch.Degraded++
		if batch.Errors == nil {
			batch.Errors = make(map[types.CopyStyle]error)
		}
		batch.Errors[styles[i]] = err
		s.logger.Warn("copy variant fell back to default",
			zap.String("style", string(styles[i])),
			zap.String("kind", string(providers.Classify(err))),
			zap.Error(err))
	}
	return batch
}

// generateOne calls the provider and cleans the result. The returned variant
// is always usable; the error reports why a default was used.
func (s *Stage) generateOne(ctx context.Context, brief Brief) (types.CopyVariant, error) {
	fallback := DefaultVariant(brief)
	if s.provider == nil {
		return fallback, &providers.UnavailableError{Provider: "text", Message: "no text provider configured"}
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	variant, err := s.provider.Generate(callCtx, brief)
	if err != nil {
		return fallback, providers.Wrap("text", err)
	}

	variant = Clean(variant)
	if variant.Headline == "" || variant.CTA == "" {
		return fallback, &providers.UnavailableError{Provider: "text", Message: fmt.Sprintf("incomplete %s variant", brief.Style)}
	}
	if report := validation.ValidateCopy(variant, s.limits, s.forbidden); len(report.Violations) > 0 {
		if report.HasErrors() {
			return fallback, &RejectedError{Style: brief.Style, Violations: report.Violations}
		}
		for _, v := range report.Violations {
			s.logger.Debug("copy variant accepted with warning", zap.String("style", string(brief.Style)), zap.String("details", v.Details))
		}
	}
	if len(variant.Benefits) == 0 {
		variant.Benefits = fallback.Benefits
	}
	variant.Style = brief.Style
	variant.JobTitle = brief.JobTitle
	variant.Location = brief.Job.Location
	variant.Fallback = false
	return variant, nil
}

// titleFor rotates through the job titles so that every title appears once
// before any repeats.
func titleFor(job types.JobFacts, i int) string {
	if len(job.Titles) == 0 {
		return ""
	}
	return job.Titles[i%len(job.Titles)]
}

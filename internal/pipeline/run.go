// Package pipeline orchestrates a recruitment campaign: brand and copy in
// parallel, one base image per designer type, then a bounded fan-out of
// layout and render units aggregated into a CampaignResult.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/creative-engine/internal/analysis"
	"github.com/jonathan/creative-engine/internal/brand"
	"github.com/jonathan/creative-engine/internal/copywriting"
	"github.com/jonathan/creative-engine/internal/imagegen"
	"github.com/jonathan/creative-engine/internal/layout"
	"github.com/jonathan/creative-engine/internal/metrics"
	"github.com/jonathan/creative-engine/internal/providers"
	"github.com/jonathan/creative-engine/internal/rendering"
	"github.com/jonathan/creative-engine/internal/types"
	"github.com/jonathan/creative-engine/internal/variants"
)

// Defaults for a Coordinator
const (
	DefaultFanOut          = 4
	DefaultRenderTimeout   = 60 * time.Second
	DefaultAnalysisTimeout = 30 * time.Second
	DefaultArchiveTimeout  = 10 * time.Second
	DefaultCopyVariants    = 5
)

// BrandResolver resolves the brand identity of a company. It never fails.
type BrandResolver interface {
	Resolve(ctx context.Context, company, website string) types.BrandIdentity
}

// CopyGenerator produces a batch of copy variants that is never short.
type CopyGenerator interface {
	Generate(ctx context.Context, job types.JobFacts, company types.CompanyFacts, n int) copywriting.Batch
}

// ImageGenerator produces one base image per distinct designer type.
type ImageGenerator interface {
	GenerateAll(ctx context.Context, briefs []imagegen.Brief) map[types.DesignerType]imagegen.Outcome
}

// Archiver stores finished campaigns.
type Archiver interface {
	SaveCampaign(ctx context.Context, result *types.CampaignResult) error
}

// Dependencies are the stage collaborators of a Coordinator. Brands, Copy,
// Images and Renderer are required; the rest are optional.
type Dependencies struct {
	Brands   BrandResolver
	Copy     CopyGenerator
	Images   ImageGenerator
	Analyzer analysis.Analyzer
	Renderer rendering.Renderer
	Archive  Archiver
	Metrics  metrics.Recorder
	Logger   *zap.Logger
}

// Coordinator runs campaigns. It is safe for concurrent use.
type Coordinator struct {
	brands          BrandResolver
	copy            CopyGenerator
	images          ImageGenerator
	analyzer        analysis.Analyzer
	renderer        rendering.Renderer
	archive         Archiver
	metrics         metrics.Recorder
	logger          *zap.Logger
	fanOut          int
	copyVariants    int
	renderTimeout   time.Duration
	analysisTimeout time.Duration
	archiveTimeout  time.Duration
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithFanOut bounds the number of concurrent layout and render units.
func WithFanOut(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.fanOut = n
		}
	}
}

// WithCopyVariants sets how many distinct copy variants a campaign draws.
func WithCopyVariants(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.copyVariants = n
		}
	}
}

// WithRenderTimeout bounds a single render call.
func WithRenderTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.renderTimeout = d
		}
	}
}

// WithAnalysisTimeout bounds a single image analysis call.
func WithAnalysisTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.analysisTimeout = d
		}
	}
}

// NewCoordinator creates a coordinator from its stage collaborators.
func NewCoordinator(deps Dependencies, opts ...Option) (*Coordinator, error) {
	if deps.Brands == nil || deps.Copy == nil || deps.Images == nil || deps.Renderer == nil {
		return nil, errors.New("pipeline: brand, copy, image and render stages are required")
	}
	c := &Coordinator{
		brands:          deps.Brands,
		copy:            deps.Copy,
		images:          deps.Images,
		analyzer:        deps.Analyzer,
		renderer:        deps.Renderer,
		archive:         deps.Archive,
		metrics:         deps.Metrics,
		logger:          deps.Logger,
		fanOut:          DefaultFanOut,
		copyVariants:    DefaultCopyVariants,
		renderTimeout:   DefaultRenderTimeout,
		analysisTimeout: DefaultAnalysisTimeout,
		archiveTimeout:  DefaultArchiveTimeout,
	}
	if c.analyzer == nil {
		c.analyzer = analysis.Noop{}
	}
	if c.metrics == nil {
		c.metrics = metrics.NoopRecorder{}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// RunOptions holds per-run settings
type RunOptions struct {
	Seed       *int64
	OnProgress ProgressCallback
}

// Run validates an external request and runs its campaign.
func (c *Coordinator) Run(ctx context.Context, req *types.CampaignRequest, onProgress ProgressCallback) (*types.CampaignResult, error) {
	if req == nil {
		return nil, &providers.MalformedInputError{Message: "empty request"}
	}
	if err := req.Validate(); err != nil {
		return nil, &providers.MalformedInputError{Field: "request", Message: "validation failed", Cause: err}
	}
	return c.RunCampaign(ctx, req.JobFacts(), req.CompanyFacts(), req.DesiredVariantCount, RunOptions{
		Seed:       req.Seed,
		OnProgress: onProgress,
	})
}

// RunCampaign drives one campaign through every state and returns its result.
// Only malformed input is returned as an error; provider failures become
// degraded defaults or failed creatives, and a canceled run returns the
// creatives that already finished.
func (c *Coordinator) RunCampaign(ctx context.Context, job types.JobFacts, company types.CompanyFacts, count int, opts RunOptions) (*types.CampaignResult, error) {
	if err := types.ValidateFacts(job, company); err != nil {
		return nil, &providers.MalformedInputError{Field: "facts", Message: "validation failed", Cause: err}
	}
	if count < 1 || count > types.MaxVariantCount {
		return nil, &providers.MalformedInputError{
			Field:   "desired_variant_count",
			Message: fmt.Sprintf("must be between 1 and %d, got %d", types.MaxVariantCount, count),
		}
	}

	var spaceOpts []variants.Option
	if opts.Seed != nil {
		spaceOpts = append(spaceOpts, variants.WithSeed(uint64(*opts.Seed)))
	}
	space, err := variants.NewSpace(spaceOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build variant space: %w", err)
	}

	started := time.Now()
	result := &types.CampaignResult{
		ID:             uuid.New().String(),
		Company:        company.Name,
		JobTitles:      job.Titles,
		TotalRequested: count,
		StartedAt:      started.UTC(),
	}
	logger := c.logger.With(zap.String("campaign_id", result.ID), zap.String("company", company.Name))
	prog := newProgress(result.ID, opts.OnProgress)

	c.metrics.AddInFlight(1)
	defer c.metrics.AddInFlight(-1)

	combos := space.Enumerate(count)
	logger.Info("campaign started",
		zap.Int("requested", count),
		zap.Int("designer_types", len(variants.DesignerTypes(combos))))

	// Stage 1: brand and copy run concurrently.
	prog.enter(StateFetchingContext, "Resolving brand identity and generating copy")
	identity, batch := c.fetchContext(ctx, logger, job, company, count)
	result.Brand = identity
	result.CopyVariants = batch.Variants
	prog.emit(CategoryBrand, "Brand identity resolved", identity)
	prog.emit(CategoryCopy, fmt.Sprintf("%d copy variants ready (%d defaults)", len(batch.Variants), batch.Degraded), batch.Variants)

	// Stage 2: one base image and analysis per designer type.
	prog.enter(StateGeneratingTextAndImages, "Generating base images")
	images := c.generateImages(ctx, logger, job, company.Name, identity, combos)
	prog.emit(CategoryImage, fmt.Sprintf("%d of %d base images ready", countReady(images), len(images)), nil)

	// Stage 3: bounded fan-out over the drawn combinations.
	prog.enter(StateComposingVariants, fmt.Sprintf("Composing %d creatives", len(combos)))
	result.Creatives = c.composeAll(ctx, logger, prog, combos, batch.Variants, identity, images)

	prog.enter(StateAggregating, "Aggregating campaign result")
	c.aggregate(ctx, result, started)
	c.persist(ctx, logger, result)

	logger.Info("campaign finished",
		zap.String("status", string(result.Status)),
		zap.Int("generated", result.TotalGenerated),
		zap.Int("failed", result.TotalFailed),
		zap.Bool("canceled", result.Canceled),
		zap.Float64("seconds", result.GenerationTimeSeconds))
	prog.enter(StateDone, fmt.Sprintf("Campaign %s: %d generated, %d failed", result.Status, result.TotalGenerated, result.TotalFailed))
	return result, nil
}

// fetchContext resolves the brand identity and the copy batch in parallel.
// Neither branch can fail; both degrade to defaults.
func (c *Coordinator) fetchContext(ctx context.Context, logger *zap.Logger, job types.JobFacts, company types.CompanyFacts, count int) (types.BrandIdentity, copywriting.Batch) {
	var identity types.BrandIdentity
	var batch copywriting.Batch

	g := new(errgroup.Group)
	g.Go(func() error {
		start := time.Now()
		if company.BrandOverride != nil {
			identity = brand.FromOverride(company.Name, *company.BrandOverride)
		} else {
			identity = c.brands.Resolve(ctx, company.Name, company.Website)
		}
		c.metrics.ObserveStageDuration("brand", time.Since(start))
		if identity.IsDefault() {
			c.metrics.IncStageResult("brand", metrics.ResultDegraded)
		} else {
			c.metrics.IncStageResult("brand", metrics.ResultSuccess)
		}
		return nil
	})
	g.Go(func() error {
		start := time.Now()
		batch = c.copy.Generate(ctx, job, company, min(count, c.copyVariants))
		c.metrics.ObserveStageDuration("copy", time.Since(start))
		for _, err := range batch.Errors {
			c.metrics.IncProviderError("text", string(providers.Classify(err)))
		}
		if batch.Degraded > 0 {
			c.metrics.IncStageResult("copy", metrics.ResultDegraded)
		} else {
			c.metrics.IncStageResult("copy", metrics.ResultSuccess)
		}
		return nil
	})
	_ = g.Wait()

	logger.Info("context ready",
		zap.String("brand_source", string(identity.Source)),
		zap.String("primary", identity.PrimaryColor),
		zap.Int("copy_variants", len(batch.Variants)),
		zap.Int("copy_defaults", batch.Degraded))
	return identity, batch
}

// designerImage is a base image together with its layout analysis.
type designerImage struct {
	image    types.BaseImage
	analysis types.ImageAnalysis
	err      error
}

// generateImages creates one base image per distinct designer type in combos
// and analyzes each successful image once.
func (c *Coordinator) generateImages(ctx context.Context, logger *zap.Logger, job types.JobFacts, company string, identity types.BrandIdentity, combos []types.VariantCombination) map[types.DesignerType]designerImage {
	start := time.Now()
	briefs := make([]imagegen.Brief, 0, len(combos))
	for _, combo := range combos {
		briefs = append(briefs, imagegen.Brief{
			Designer: combo.Designer,
			Style:    combo.Style,
			Company:  company,
			JobTitle: job.PrimaryTitle(),
			Location: job.Location,
			Brand:    identity,
		})
	}
	outcomes := c.images.GenerateAll(ctx, briefs)
	c.metrics.ObserveStageDuration("image", time.Since(start))

	images := make(map[types.DesignerType]designerImage, len(outcomes))
	for designer, outcome := range outcomes {
		if !outcome.OK() {
			c.metrics.IncStageResult("image", metrics.ResultFailed)
			c.metrics.IncProviderError("image", string(providers.Classify(outcome.Err)))
			images[designer] = designerImage{err: outcome.Err}
			continue
		}
		c.metrics.IncStageResult("image", metrics.ResultSuccess)
		images[designer] = designerImage{image: outcome.Image}
	}

	start = time.Now()
	results := make([]designerImage, len(types.AllDesignerTypes))
	g := new(errgroup.Group)
	g.SetLimit(c.fanOut)
	for i, designer := range types.AllDesignerTypes {
		img, ok := images[designer]
		if !ok || img.err != nil {
			continue
		}
		g.Go(func() error {
			img.analysis = c.analyze(ctx, logger, img.image)
			results[i] = img
			return nil
		})
	}
	_ = g.Wait()
	for i, designer := range types.AllDesignerTypes {
		if img, ok := images[designer]; ok && img.err == nil {
			images[designer] = results[i]
		}
	}
	c.metrics.ObserveStageDuration("analysis", time.Since(start))
	return images
}

// analyze returns the layout analysis of img, or an empty analysis when the
// analyzer fails.
func (c *Coordinator) analyze(ctx context.Context, logger *zap.Logger, img types.BaseImage) types.ImageAnalysis {
	callCtx, cancel := context.WithTimeout(ctx, c.analysisTimeout)
	defer cancel()

	result, err := c.analyzer.Analyze(callCtx, img)
	if err != nil {
		logger.Warn("image analysis failed, composing without avoid zones",
			zap.String("designer_type", string(img.Designer)),
			zap.Error(err))
		c.metrics.IncStageResult("analysis", metrics.ResultDegraded)
		c.metrics.IncProviderError("analysis", string(providers.Classify(err)))
		return types.ImageAnalysis{}
	}
	c.metrics.IncStageResult("analysis", metrics.ResultSuccess)
	return result
}

// composeAll runs one layout and render unit per combination. Every unit owns
// its result slot; units that never started because ctx ended are left out.
func (c *Coordinator) composeAll(ctx context.Context, logger *zap.Logger, prog *progress, combos []types.VariantCombination, copies []types.CopyVariant, identity types.BrandIdentity, images map[types.DesignerType]designerImage) []types.CreativeResult {
	start := time.Now()
	slots := make([]*types.CreativeResult, len(combos))

	g := new(errgroup.Group)
	g.SetLimit(c.fanOut)
	for i, combo := range combos {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			var variant types.CopyVariant
			if len(copies) > 0 {
				variant = copies[i%len(copies)]
			}
			creative := c.composeOne(ctx, combo, variant, identity, images[combo.Designer])
			slots[i] = &creative

			if creative.Success {
				c.metrics.IncCreativeResult(string(combo.Designer), metrics.ResultSuccess)
			} else {
				c.metrics.IncCreativeResult(string(combo.Designer), metrics.ResultFailed)
				logger.Warn("creative failed",
					zap.String("creative_id", creative.ID),
					zap.String("layout", string(combo.Layout)),
					zap.String("designer_type", string(combo.Designer)),
					zap.String("error", creative.Error))
			}
			prog.emit(CategoryCreative, fmt.Sprintf("Creative %d/%d %s", i+1, len(combos), outcomeWord(creative.Success)), creative)
			return nil
		})
	}
	_ = g.Wait()
	c.metrics.ObserveStageDuration("compose", time.Since(start))

	creatives := make([]types.CreativeResult, 0, len(slots))
	for _, slot := range slots {
		if slot != nil {
			creatives = append(creatives, *slot)
		}
	}
	return creatives
}

// composeOne lays out and renders a single creative. It always returns a
// result; failures are recorded on it.
func (c *Coordinator) composeOne(ctx context.Context, combo types.VariantCombination, variant types.CopyVariant, identity types.BrandIdentity, img designerImage) types.CreativeResult {
	start := time.Now()
	creative := types.CreativeResult{
		ID:          uuid.New().String(),
		Combination: combo,
		CopyVariant: variant,
	}
	fail := func(err error) types.CreativeResult {
		creative.Error = err.Error()
		creative.Duration = time.Since(start)
		return creative
	}

	if img.err != nil {
		return fail(fmt.Errorf("base image unavailable: %w", img.err))
	}
	if len(img.image.Data) == 0 {
		return fail(&providers.UnavailableError{Provider: "image", Message: "no base image for " + string(combo.Designer)})
	}
	creative.ImageRef = img.image.Ref()

	strategy, err := layout.Compose(img.analysis, identity, variant, combo)
	if err != nil {
		return fail(err)
	}
	creative.Layout = &strategy

	renderCtx, cancel := context.WithTimeout(ctx, c.renderTimeout)
	defer cancel()
	artifact, err := c.renderer.Render(renderCtx, img.image, strategy)
	if err != nil {
		c.metrics.IncProviderError("render", string(providers.Classify(err)))
		return fail(providers.Wrap("render", err))
	}

	creative.Artifact = &artifact
	creative.Success = true
	creative.Duration = time.Since(start)
	return creative
}

// aggregate fills in counts, status and timing.
func (c *Coordinator) aggregate(ctx context.Context, result *types.CampaignResult, started time.Time) {
	for _, creative := range result.Creatives {
		if creative.Success {
			result.TotalGenerated++
		} else {
			result.TotalFailed++
		}
	}
	result.Canceled = ctx.Err() != nil && len(result.Creatives) < result.TotalRequested
	result.Status = statusFor(result.TotalGenerated, result.TotalFailed, result.TotalRequested)

	completed := time.Now()
	result.CompletedAt = completed.UTC()
	result.GenerationTimeSeconds = completed.Sub(started).Seconds()

	c.metrics.IncCampaignStatus(string(result.Status))
	c.metrics.ObserveCampaignDuration(completed.Sub(started))
	if result.Canceled {
		c.metrics.IncStageResult("compose", metrics.ResultCanceled)
	}
}

// statusFor maps counts to a campaign status. Any success makes the campaign
// usable; missing or failed creatives make it partial.
func statusFor(generated, failed, requested int) types.CampaignStatus {
	switch {
	case generated == 0:
		return types.CampaignFailed
	case failed == 0 && generated == requested:
		return types.CampaignSuccess
	default:
		return types.CampaignPartial
	}
}

// persist archives the result. Archive failures are logged, never returned.
func (c *Coordinator) persist(ctx context.Context, logger *zap.Logger, result *types.CampaignResult) {
	if c.archive == nil {
		return
	}
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.archiveTimeout)
	defer cancel()
	if err := c.archive.SaveCampaign(saveCtx, result); err != nil {
		logger.Warn("failed to archive campaign", zap.Error(err))
		return
	}
	logger.Debug("campaign archived")
}

func countReady(images map[types.DesignerType]designerImage) int {
	n := 0
	for _, img := range images {
		if img.err == nil {
			n++
		}
	}
	return n
}

func outcomeWord(ok bool) string {
	if ok {
		return "succeeded"
	}
	return "failed"
}

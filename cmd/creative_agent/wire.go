package main

import (
	"context"
	"fmt"
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/jonathan/creative-engine/internal/analysis"
	"github.com/jonathan/creative-engine/internal/brand"
	"github.com/jonathan/creative-engine/internal/config"
	"github.com/jonathan/creative-engine/internal/copywriting"
	"github.com/jonathan/creative-engine/internal/db"
	"github.com/jonathan/creative-engine/internal/fetch"
	"github.com/jonathan/creative-engine/internal/imagegen"
	"github.com/jonathan/creative-engine/internal/llm"
	"github.com/jonathan/creative-engine/internal/metrics"
	"github.com/jonathan/creative-engine/internal/pipeline"
	"github.com/jonathan/creative-engine/internal/ratelimit"
	"github.com/jonathan/creative-engine/internal/rendering"
	"github.com/jonathan/creative-engine/internal/research"
)

// app holds the wired collaborators of one process.
type app struct {
	coordinator *pipeline.Coordinator
	brandCache  *brand.Cache
	database    *db.DB
	registry    *prom.Registry
	closers     []func()
}

// Close releases every opened resource in reverse order.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// metricsHandler returns the Prometheus handler, or nil when metrics are off.
func (a *app) metricsHandler() http.Handler {
	if a.registry == nil {
		return nil
	}
	return metrics.HTTPHandler(a.registry)
}

func throttle(r config.RateLimit) *ratelimit.Throttle {
	return ratelimit.NewThrottle(r.PerSecond, r.Burst)
}

// newFetcher builds the website fetcher, with headless fallback when enabled.
func newFetcher(cfg *config.Config, logger *zap.Logger) *fetch.HTTPFetcher {
	opts := fetch.DefaultOptions()
	opts.Timeout = cfg.Timeouts.Fetch
	fetcherOpts := []fetch.FetcherOption{
		fetch.WithOptions(opts),
		fetch.WithThrottle(throttle(cfg.FetchRate)),
		fetch.WithLogger(logger.Named("fetch")),
	}
	if cfg.UseBrowser {
		fetcherOpts = append(fetcherOpts, fetch.WithBrowserFallback(fetch.WithBrowser, cfg.Timeouts.Browser))
	}
	return fetch.NewHTTPFetcher(fetcherOpts...)
}

// buildApp wires every stage from cfg. Missing credentials leave the matching
// provider unset so its stage degrades instead of failing startup.
func buildApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{}

	// Brand identity
	cacheOpts := []brand.CacheOption{
		brand.WithTTL(cfg.BrandCacheTTL),
		brand.WithCacheLogger(logger.Named("brand-cache")),
	}
	if cfg.RedisURL != "" {
		store, err := brand.OpenRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("redis unavailable, brand cache stays in memory", zap.Error(err))
		} else {
			cacheOpts = append(cacheOpts, brand.WithStore(store))
			a.closers = append(a.closers, func() { _ = store.Close() })
		}
	}
	a.brandCache = brand.NewCache(cacheOpts...)

	resolverOpts := []brand.Option{
		brand.WithFetchTimeout(cfg.Timeouts.Fetch),
		brand.WithWebsiteGuess(cfg.GuessWebsite),
		brand.WithLogger(logger.Named("brand")),
	}
	if cfg.SearchAPIKey != "" && cfg.SearchCX != "" {
		discoverer, err := research.NewSearchDiscoverer(ctx, cfg.SearchAPIKey, cfg.SearchCX, throttle(cfg.SearchRate), logger.Named("research"))
		if err != nil {
			logger.Warn("website discovery disabled", zap.Error(err))
		} else {
			resolverOpts = append(resolverOpts, brand.WithDiscoverer(discoverer))
		}
	}
	resolver := brand.NewResolver(newFetcher(cfg, logger), a.brandCache, resolverOpts...)

	// Text, vision and image providers
	var textProvider copywriting.Provider
	var imageProvider imagegen.Provider
	var analyzer analysis.Analyzer = analysis.Noop{}
	if cfg.GeminiAPIKey != "" {
		llmConfig := llm.DefaultConfig()
		llmConfig.Models[llm.TierStandard] = cfg.TextModel
		llmConfig.Models[llm.TierVision] = cfg.VisionModel
		llmConfig.Models[llm.TierImage] = cfg.ImageModel

		client, err := llm.NewClient(ctx, llmConfig, cfg.GeminiAPIKey)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		a.closers = append(a.closers, func() { _ = client.Close() })

		textProvider = copywriting.NewGeminiProvider(client, throttle(cfg.TextRate))
		if cfg.AnalyzeImages {
			analyzer = analysis.NewGeminiAnalyzer(client, throttle(cfg.TextRate))
		}
		imageProvider = imagegen.NewGeminiImageProvider(cfg.GeminiAPIKey, cfg.ImageModel, "", cfg.Timeouts.Image, throttle(cfg.ImageRate))
	} else {
		logger.Warn("GEMINI_API_KEY not set: copy falls back to defaults and base images are unavailable")
	}

	copyStage := copywriting.NewStage(textProvider,
		copywriting.WithTimeout(cfg.Timeouts.Text),
		copywriting.WithLogger(logger.Named("copy")))
	imageStage := imagegen.NewStage(imageProvider,
		imagegen.WithTimeout(cfg.Timeouts.Image),
		imagegen.WithConcurrency(cfg.ImageConcurrency),
		imagegen.WithLogger(logger.Named("image")))

	// Overlay rendering
	var renderer rendering.Renderer
	if cfg.RenderServiceURL != "" {
		renderer = rendering.NewHTTPRenderer(cfg.RenderServiceURL, cfg.RenderAPIKey, cfg.Timeouts.Render, nil)
	} else {
		svg, err := rendering.NewSVGRenderer()
		if err != nil {
			a.Close()
			return nil, err
		}
		renderer = svg
	}

	// Metrics and archive
	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if cfg.Metrics {
		a.registry = prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(a.registry)
	}

	var archive pipeline.Archiver
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Warn("database unavailable, campaigns are not archived", zap.Error(err))
		} else if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			logger.Warn("failed to prepare campaign schema, campaigns are not archived", zap.Error(err))
		} else {
			a.database = database
			archive = database
			a.closers = append(a.closers, database.Close)
		}
	}

	coordinator, err := pipeline.NewCoordinator(pipeline.Dependencies{
		Brands:   resolver,
		Copy:     copyStage,
		Images:   imageStage,
		Analyzer: analyzer,
		Renderer: renderer,
		Archive:  archive,
		Metrics:  recorder,
		Logger:   logger.Named("pipeline"),
	},
		pipeline.WithFanOut(cfg.FanOut),
		pipeline.WithCopyVariants(cfg.CopyVariantCount),
		pipeline.WithRenderTimeout(cfg.Timeouts.Render),
		pipeline.WithAnalysisTimeout(cfg.Timeouts.Analysis),
	)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.coordinator = coordinator
	return a, nil
}

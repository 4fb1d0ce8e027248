// Package imagegen produces one base image per designer type of a campaign.
package imagegen

import (
	"context"
	"sync"
	"time"

	"github.com/jonathan/creative-engine/internal/providers"
	"github.com/jonathan/creative-engine/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultTimeout bounds one image provider call.
const DefaultTimeout = 120 * time.Second

// Brief describes the base image for one designer type.
type Brief struct {
	Designer types.DesignerType
	Style    types.VisualStyle
	Company  string
	JobTitle string
	Location string
	Brand    types.BrandIdentity
}

// Provider generates one base image.
type Provider interface {
	Generate(ctx context.Context, brief Brief) (types.BaseImage, error)
}

// Outcome is the result for one designer type. Err is set when no image
// could be produced; combinations using that type fail.
type Outcome struct {
	Image types.BaseImage
	Err   error
}

// OK reports whether an image was produced.
func (o Outcome) OK() bool { return o.Err == nil }

// Stage runs image generation with bounded concurrency.
type Stage struct {
	provider Provider
	timeout  time.Duration
	limit    int
	logger   *zap.Logger
}

// Option configures a Stage.
type Option func(*Stage)

// WithTimeout sets the per-image timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Stage) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithConcurrency bounds parallel provider calls.
func WithConcurrency(n int) Option {
	return func(s *Stage) {
		if n > 0 {
			s.limit = n
		}
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

// NewStage creates a Stage. A nil provider fails every designer type.
func NewStage(provider Provider, opts ...Option) *Stage {
	s := &Stage{
		provider: provider,
		timeout:  DefaultTimeout,
		limit:    len(types.AllDesignerTypes),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateAll calls the provider exactly once per distinct designer type in
// briefs. When several briefs share a designer type the first one wins.
func (s *Stage) GenerateAll(ctx context.Context, briefs []Brief) map[types.DesignerType]Outcome {
	unique := make([]Brief, 0, len(types.AllDesignerTypes))
	seen := make(map[types.DesignerType]bool)
	for _, b := range briefs {
		if !seen[b.Designer] {
			seen[b.Designer] = true
			unique = append(unique, b)
		}
	}

	outcomes := make(map[types.DesignerType]Outcome, len(unique))
	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(s.limit)
	for _, brief := range unique {
		g.Go(func() error {
			img, err := s.generateOne(ctx, brief)
			if err != nil {
				s.logger.Warn("base image generation failed",
					zap.String("designer_type", string(brief.Designer)),
					zap.String("kind", string(providers.Classify(err))),
					zap.Error(err))
			}
			mu.Lock()
			outcomes[brief.Designer] = Outcome{Image: img, Err: err}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func (s *Stage) generateOne(ctx context.Context, brief Brief) (types.BaseImage, error) {
	if s.provider == nil {
		return types.BaseImage{}, &providers.UnavailableError{Provider: "image", Message: "no image provider configured"}
	}
	if err := ctx.Err(); err != nil {
		return types.BaseImage{}, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	img, err := s.provider.Generate(callCtx, brief)
	if err != nil {
		return types.BaseImage{}, providers.Wrap("image", err)
	}
	img.Designer = brief.Designer
	return img, nil
}

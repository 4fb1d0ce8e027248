// Package brand resolves and caches the visual identity of hiring companies.
package brand

import (
	"context"
	"strings"
	"time"

	"github.com/jonathan/creative-engine/internal/colors"
	"github.com/jonathan/creative-engine/internal/types"
	"go.uber.org/zap"
)

// DefaultFetchTimeout bounds a single website fetch.
const DefaultFetchTimeout = 20 * time.Second

// Fetcher retrieves the markup of a web page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Discoverer finds a company's website from its name.
type Discoverer interface {
	Discover(ctx context.Context, company string) (string, error)
}

// Resolver turns a company name and optional website into a BrandIdentity.
// It never fails: every unresolvable case degrades to the default identity.
type Resolver struct {
	fetcher      Fetcher
	discoverer   Discoverer
	cache        *Cache
	fetchTimeout time.Duration
	guess        bool
	logger       *zap.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithDiscoverer sets the website discovery collaborator.
func WithDiscoverer(d Discoverer) Option {
	return func(r *Resolver) { r.discoverer = d }
}

// WithFetchTimeout overrides DefaultFetchTimeout.
func WithFetchTimeout(timeout time.Duration) Option {
	return func(r *Resolver) {
		if timeout > 0 {
			r.fetchTimeout = timeout
		}
	}
}

// WithWebsiteGuess enables the name-based domain heuristic after discovery.
func WithWebsiteGuess(enabled bool) Option {
	return func(r *Resolver) { r.guess = enabled }
}

// WithLogger sets the resolver logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver creates a resolver. A nil cache gets a private one.
func NewResolver(fetcher Fetcher, cache *Cache, opts ...Option) *Resolver {
	if cache == nil {
		cache = NewCache()
	}
	r := &Resolver{
		fetcher:      fetcher,
		cache:        cache,
		fetchTimeout: DefaultFetchTimeout,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Cache returns the resolver's cache for explicit invalidation.
func (r *Resolver) Cache() *Cache {
	return r.cache
}

// Resolve returns the brand identity for company. A missing website is looked
// up through the discoverer. Identities resolved from a reachable site are
// cached; defaults are not, so a later run can retry the site.
func (r *Resolver) Resolve(ctx context.Context, company, website string) types.BrandIdentity {
	logger := r.logger.With(zap.String("company", company))

	identity, err := r.cache.GetOrLoad(ctx, company, func(ctx context.Context) (types.BrandIdentity, bool) {
		return r.load(ctx, logger, company, website)
	})
	if err != nil {
		logger.Warn("brand resolution abandoned", zap.Error(err))
		return types.DefaultBrandIdentity(company)
	}
	return identity
}

func (r *Resolver) load(ctx context.Context, logger *zap.Logger, company, website string) (types.BrandIdentity, bool) {
	for _, url := range r.candidateURLs(ctx, logger, company, website) {
		markup, err := r.fetch(ctx, url)
		if err != nil {
			logger.Warn("website fetch failed", zap.String("url", url), zap.Error(err))
			continue
		}
		identity := FromMarkup(company, url, markup)
		logger.Info("brand identity resolved",
			zap.String("url", url),
			zap.String("source", string(identity.Source)),
			zap.String("primary", identity.PrimaryColor))
		return identity, true
	}

	logger.Warn("using default brand identity")
	return types.DefaultBrandIdentity(company), false
}

// candidateURLs lists the websites to try in order.
func (r *Resolver) candidateURLs(ctx context.Context, logger *zap.Logger, company, website string) []string {
	if website = strings.TrimSpace(website); website != "" {
		return []string{website}
	}

	var urls []string
	if r.discoverer != nil {
		discoverCtx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
		found, err := r.discoverer.Discover(discoverCtx, company)
		cancel()
		if err != nil {
			logger.Warn("website discovery failed", zap.Error(err))
		} else if found != "" {
			urls = append(urls, found)
		}
	}
	if r.guess {
		if guessed := GuessWebsite(company); guessed != "" && (len(urls) == 0 || urls[0] != guessed) {
			urls = append(urls, guessed)
		}
	}
	return urls
}

func (r *Resolver) fetch(ctx context.Context, url string) (string, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
	defer cancel()
	return r.fetcher.Fetch(fetchCtx, url)
}

// FromMarkup builds an identity from a fetched page. A page without usable
// colors keeps the default palette but still contributes font and logo.
func FromMarkup(company, url, markup string) types.BrandIdentity {
	identity := types.DefaultBrandIdentity(company)
	identity.WebsiteURL = url
	identity.Font = colors.ExtractFont(markup)
	identity.Logo = colors.ExtractLogo(markup, url)

	ranked := colors.Rank(markup)
	if len(ranked) == 0 {
		return identity
	}

	hexes := make([]string, 0, colors.DefaultTopK)
	for i, c := range ranked {
		if i == colors.DefaultTopK {
			break
		}
		hexes = append(hexes, c.Hex)
	}
	palette := colors.CompletePalette(hexes)
	identity.PrimaryColor = palette.Primary
	identity.SecondaryColor = palette.Secondary
	identity.AccentColor = palette.Accent
	identity.Source = types.BrandSourceScraped
	return identity
}

// FromOverride builds an identity from caller-supplied colors.
func FromOverride(company string, o types.BrandOverride) types.BrandIdentity {
	identity := types.DefaultBrandIdentity(company)
	identity.PrimaryColor = strings.ToUpper(o.PrimaryColor)
	identity.SecondaryColor = strings.ToUpper(o.SecondaryColor)
	identity.AccentColor = strings.ToUpper(o.AccentColor)
	if o.FontFamily != "" {
		identity.Font = types.Font{Family: o.FontFamily, Style: colors.ClassifyFont(o.FontFamily)}
	}
	identity.Source = types.BrandSourceOverride
	return identity
}

// Package research discovers a company's own website through web search.
package research

import (
	"context"
	"fmt"

	"github.com/jonathan/creative-engine/internal/providers"
	"github.com/jonathan/creative-engine/internal/ratelimit"
	"go.uber.org/zap"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// searchResults is the number of results inspected per query.
const searchResults = 10

// SearchDiscoverer finds company websites with the Custom Search API.
type SearchDiscoverer struct {
	svc      *customsearch.Service
	cx       string
	throttle *ratelimit.Throttle
	logger   *zap.Logger
}

// NewSearchDiscoverer creates a discoverer. Extra client options are passed
// to the search service.
func NewSearchDiscoverer(ctx context.Context, apiKey, cx string, throttle *ratelimit.Throttle, logger *zap.Logger, opts ...option.ClientOption) (*SearchDiscoverer, error) {
	if apiKey == "" || cx == "" {
		return nil, &providers.MalformedInputError{Field: "search credentials", Message: "api key and engine id are required"}
	}
	svc, err := customsearch.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchDiscoverer{svc: svc, cx: cx, throttle: throttle, logger: logger}, nil
}

// Discover returns the most likely homepage of the company. Job boards,
// social networks and directories are skipped.
func (d *SearchDiscoverer) Discover(ctx context.Context, company string) (string, error) {
	if err := d.throttle.Wait(ctx); err != nil {
		return "", providers.Wrap("search", err)
	}

	query := fmt.Sprintf("%s offizielle Website", company)
	resp, err := d.svc.Cse.List().Cx(d.cx).Q(query).Num(searchResults).Context(ctx).Do()
	if err != nil {
		return "", providers.Wrap("search", err)
	}

	links := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		links = append(links, item.Link)
	}
	home := PickHomepage(company, links)
	if home == "" {
		return "", &providers.UnavailableError{Provider: "search", Message: fmt.Sprintf("no company website among %d results for %s", len(links), company)}
	}
	d.logger.Debug("discovered company website", zap.String("company", company), zap.String("url", home))
	return home, nil
}

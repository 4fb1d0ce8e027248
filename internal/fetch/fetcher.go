package fetch

import (
	"context"
	"mime"
	"strings"
	"time"

	"github.com/jonathan/creative-engine/internal/providers"
	"github.com/jonathan/creative-engine/internal/ratelimit"
	"go.uber.org/zap"
)

// DefaultMaxStylesheets bounds how many linked stylesheets are inlined.
const DefaultMaxStylesheets = 3

// BrowserFunc renders a page with a headless browser.
type BrowserFunc func(ctx context.Context, url string, timeout time.Duration, logger *zap.Logger) (string, error)

// HTTPFetcher fetches a website's markup, falls back to a headless browser
// for script-rendered pages and inlines same-host stylesheets so that colors
// defined there are visible to extraction.
type HTTPFetcher struct {
	opts           *Options
	browser        BrowserFunc
	browserTimeout time.Duration
	maxStylesheets int
	throttle       *ratelimit.Throttle
	logger         *zap.Logger
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithOptions sets the HTTP options.
func WithOptions(opts *Options) FetcherOption {
	return func(f *HTTPFetcher) {
		if opts != nil {
			f.opts = opts
		}
	}
}

// WithBrowserFallback enables headless rendering of thin pages.
func WithBrowserFallback(browser BrowserFunc, timeout time.Duration) FetcherOption {
	return func(f *HTTPFetcher) {
		f.browser = browser
		if timeout > 0 {
			f.browserTimeout = timeout
		}
	}
}

// WithMaxStylesheets overrides DefaultMaxStylesheets. Zero disables inlining.
func WithMaxStylesheets(n int) FetcherOption {
	return func(f *HTTPFetcher) { f.maxStylesheets = max(n, 0) }
}

// WithThrottle paces outgoing page requests.
func WithThrottle(t *ratelimit.Throttle) FetcherOption {
	return func(f *HTTPFetcher) { f.throttle = t }
}

// WithLogger sets the fetcher logger.
func WithLogger(logger *zap.Logger) FetcherOption {
	return func(f *HTTPFetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewHTTPFetcher creates a fetcher. The browser fallback is off unless
// WithBrowserFallback is given.
func NewHTTPFetcher(opts ...FetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		opts:           DefaultOptions(),
		browserTimeout: 30 * time.Second,
		maxStylesheets: DefaultMaxStylesheets,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the page markup. Network and status failures are reported
// with the provider taxonomy.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	pageURL, err := NormalizeURL(rawURL)
	if err != nil {
		return "", &providers.MalformedInputError{Field: "website", Cause: err}
	}
	if err := f.throttle.Wait(ctx); err != nil {
		return "", providers.Wrap("fetch", err)
	}

	result, err := URL(ctx, pageURL, f.opts)
	if err != nil {
		return "", providers.Wrap("fetch", err)
	}
	markup := result.HTML
	finalURL := result.URL

	if f.browser != nil {
		if text, _ := ExtractMainText(markup); ShouldUseBrowser(text) {
			rendered, err := f.browser(ctx, finalURL, f.browserTimeout, f.logger)
			if err != nil {
				f.logger.Debug("browser fallback failed, keeping HTTP markup", zap.String("url", finalURL), zap.Error(err))
			} else {
				markup = rendered
			}
		}
	}

	return f.inlineStylesheets(ctx, markup, finalURL), nil
}

// inlineStylesheets appends the bodies of linked stylesheets as <style>
// blocks. Failed requests and responses that are not text/css are skipped.
func (f *HTTPFetcher) inlineStylesheets(ctx context.Context, markup, pageURL string) string {
	if f.maxStylesheets == 0 {
		return markup
	}
	sheets := Stylesheets(markup, pageURL)
	if len(sheets) > f.maxStylesheets {
		sheets = sheets[:f.maxStylesheets]
	}

	var sb strings.Builder
	sb.WriteString(markup)
	for _, sheet := range sheets {
		res, err := URL(ctx, sheet, f.opts)
		if err != nil {
			f.logger.Debug("stylesheet fetch failed", zap.String("url", sheet), zap.Error(err))
			continue
		}
		if !isStylesheet(res.ContentType) {
			f.logger.Debug("skipping non-CSS stylesheet response", zap.String("url", sheet), zap.String("content_type", res.ContentType))
			continue
		}
		sb.WriteString("\n<style data-href=\"")
		sb.WriteString(sheet)
		sb.WriteString("\">\n")
		sb.WriteString(strings.ReplaceAll(res.HTML, "</style", ""))
		sb.WriteString("\n</style>")
	}
	return sb.String()
}

// isStylesheet reports whether a Content-Type header names CSS.
func isStylesheet(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "text/css"
}

package brand

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonathan/creative-engine/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const brandPage = `<html><head><style>
	:root { --brand-primary: #E30613; }
	header { background: #2A5580; }
	body { font-family: "Source Sans Pro", sans-serif; }
</style></head><body><header><img class="logo" src="/logo.svg"></header></body></html>`

type fakeFetcher struct {
	mu      sync.Mutex
	calls   atomic.Int32
	urls    []string
	markup  string
	err     error
	release chan struct{}
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.urls = append(f.urls, url)
	f.mu.Unlock()
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return f.markup, nil
}

func (f *fakeFetcher) fetchedURLs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.urls...)
}

type fakeDiscoverer struct {
	url string
	err error
}

func (d fakeDiscoverer) Discover(context.Context, string) (string, error) {
	return d.url, d.err
}

func TestResolve_ScrapesAndCaches(t *testing.T) {
	fetcher := &fakeFetcher{markup: brandPage}
	r := NewResolver(fetcher, NewCache())

	identity := r.Resolve(context.Background(), "Acme Care", "https://www.acme-care.de")

	assert.Equal(t, types.BrandSourceScraped, identity.Source)
	assert.Equal(t, "#E30613", identity.PrimaryColor)
	assert.Equal(t, "#2A5580", identity.SecondaryColor)
	assert.NotEmpty(t, identity.AccentColor)
	assert.Equal(t, "Source Sans Pro", identity.Font.Family)
	require.NotNil(t, identity.Logo)
	assert.Equal(t, "https://www.acme-care.de/logo.svg", identity.Logo.URL)

	again := r.Resolve(context.Background(), "ACME care", "")
	assert.Equal(t, identity, again)
	assert.Equal(t, int32(1), fetcher.calls.Load())
}

func TestResolve_FetchFailureFallsBackToDefault(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	r := NewResolver(fetcher, NewCache())

	identity := r.Resolve(context.Background(), "Acme Care", "https://unreachable.invalid")

	assert.Equal(t, types.BrandSourceDefault, identity.Source)
	assert.Equal(t, types.DefaultPrimaryColor, identity.PrimaryColor)
	assert.Equal(t, types.DefaultSecondaryColor, identity.SecondaryColor)
	assert.Equal(t, types.DefaultAccentColor, identity.AccentColor)

	// Defaults are not cached, so the next run retries the site.
	r.Resolve(context.Background(), "Acme Care", "https://unreachable.invalid")
	assert.Equal(t, int32(2), fetcher.calls.Load())
}

func TestResolve_MissingWebsite(t *testing.T) {
	t.Run("discovered url is fetched", func(t *testing.T) {
		fetcher := &fakeFetcher{markup: brandPage}
		r := NewResolver(fetcher, nil, WithDiscoverer(fakeDiscoverer{url: "https://acme.example"}))

		identity := r.Resolve(context.Background(), "Acme", "")
		assert.Equal(t, types.BrandSourceScraped, identity.Source)
		assert.Equal(t, []string{"https://acme.example"}, fetcher.fetchedURLs())
	})

	t.Run("discovery failure without guess yields default", func(t *testing.T) {
		fetcher := &fakeFetcher{markup: brandPage}
		r := NewResolver(fetcher, nil, WithDiscoverer(fakeDiscoverer{err: errors.New("quota exceeded")}))

		identity := r.Resolve(context.Background(), "Acme", "")
		assert.True(t, identity.IsDefault())
		assert.Equal(t, int32(0), fetcher.calls.Load())
	})

	t.Run("discovery failure falls back to guessed domain", func(t *testing.T) {
		fetcher := &fakeFetcher{markup: brandPage}
		r := NewResolver(fetcher, nil,
			WithDiscoverer(fakeDiscoverer{err: errors.New("quota exceeded")}),
			WithWebsiteGuess(true))

		identity := r.Resolve(context.Background(), "Acme Care GmbH", "")
		assert.Equal(t, types.BrandSourceScraped, identity.Source)
		assert.Equal(t, []string{"https://www.acme-care.de"}, fetcher.fetchedURLs())
	})
}

func TestResolve_ConcurrentCallsShareOneFetch(t *testing.T) {
	fetcher := &fakeFetcher{markup: brandPage, release: make(chan struct{})}
	r := NewResolver(fetcher, NewCache())

	const callers = 8
	var wg sync.WaitGroup
	results := make([]types.BrandIdentity, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = r.Resolve(context.Background(), "Acme Care", "https://www.acme-care.de")
		}(i)
	}

	require.Eventually(t, func() bool { return fetcher.calls.Load() >= 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(fetcher.release)
	wg.Wait()

	assert.Equal(t, int32(1), fetcher.calls.Load())
	for _, identity := range results {
		assert.Equal(t, "#E30613", identity.PrimaryColor)
	}
}

func TestResolve_CanceledCallerGetsDefault(t *testing.T) {
	fetcher := &fakeFetcher{markup: brandPage, release: make(chan struct{})}
	defer close(fetcher.release)
	r := NewResolver(fetcher, NewCache())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	identity := r.Resolve(ctx, "Acme Care", "https://www.acme-care.de")
	assert.True(t, identity.IsDefault())
}

func TestCache_InvalidateAndExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	cache := NewCache(WithTTL(time.Hour), WithClock(clock))
	fetcher := &fakeFetcher{markup: brandPage}
	r := NewResolver(fetcher, cache)
	ctx := context.Background()

	r.Resolve(ctx, "Acme", "https://acme.example")
	r.Resolve(ctx, "acme", "https://acme.example")
	assert.Equal(t, int32(1), fetcher.calls.Load())

	require.NoError(t, cache.Invalidate(ctx, "ACME"))
	r.Resolve(ctx, "Acme", "https://acme.example")
	assert.Equal(t, int32(2), fetcher.calls.Load())

	now = now.Add(2 * time.Hour)
	_, ok := cache.Get(ctx, "Acme")
	assert.False(t, ok)
	r.Resolve(ctx, "Acme", "https://acme.example")
	assert.Equal(t, int32(3), fetcher.calls.Load())

	require.NoError(t, cache.InvalidateAll(ctx))
	assert.Equal(t, 0, cache.Len())
}

func TestFromMarkup_NoColorsKeepsDefaultPalette(t *testing.T) {
	identity := FromMarkup("Acme", "https://acme.example", `<p style="font-family: Georgia">Hallo</p>`)
	assert.Equal(t, types.BrandSourceDefault, identity.Source)
	assert.Equal(t, types.DefaultPrimaryColor, identity.PrimaryColor)
	assert.Equal(t, "Georgia", identity.Font.Family)
	assert.Equal(t, "https://acme.example", identity.WebsiteURL)
}

func TestFromOverride(t *testing.T) {
	identity := FromOverride("Acme", types.BrandOverride{
		PrimaryColor:   "#112233",
		SecondaryColor: "#445566",
		AccentColor:    "#ff8800",
		FontFamily:     "Playfair Display",
	})
	assert.Equal(t, types.BrandSourceOverride, identity.Source)
	assert.Equal(t, []string{"#112233", "#445566", "#FF8800"}, identity.Palette())
	assert.Equal(t, "Playfair Display", identity.Font.Family)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "acme_care_gmbh", NormalizeName("  Acme Care GmbH "))
	assert.Equal(t, NormalizeName("ACME care"), NormalizeName("acme Care"))
	assert.Equal(t, "müller_söhne", NormalizeName("Müller & Söhne"))
}

func TestGuessWebsite(t *testing.T) {
	tests := []struct {
		company string
		want    string
	}{
		{"Acme Care GmbH", "https://www.acme-care.de"},
		{"Müller & Söhne KG", "https://www.mueller-soehne.de"},
		{"Pflegedienst Nord GmbH & Co. KG", "https://www.pflegedienst-nord.de"},
		{"Caritas e.V.", "https://www.caritas.de"},
		{"  ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.company, func(t *testing.T) {
			assert.Equal(t, tt.want, GuessWebsite(tt.company))
		})
	}
}

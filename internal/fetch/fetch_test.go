package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonathan/creative-engine/internal/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestURL_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><h1>Test</h1></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>Test</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
}

func TestURL_InvalidURL(t *testing.T) {
	_, err := URL(context.Background(), "not-a-valid-url", nil)
	require.Error(t, err)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "invalid URL")
}

func TestURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
	assert.Contains(t, err.Error(), "404")
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"acme-care.de", "https://acme-care.de", false},
		{" https://www.acme-care.de/karriere ", "https://www.acme-care.de/karriere", false},
		{"http://acme.example", "http://acme.example", false},
		{"ftp://acme.example", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeURL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractMainText(t *testing.T) {
	text, err := ExtractMainText(`<html><head><style>h1{color:#E30613}</style></head>
	<body><script>var x = 1;</script><h1>Willkommen</h1>
	<p>Wir pflegen mit Herz.</p></body></html>`)
	require.NoError(t, err)
	assert.Contains(t, text, "Willkommen")
	assert.Contains(t, text, "Wir pflegen mit Herz.")
	assert.NotContains(t, text, "var x")
	assert.NotContains(t, text, "#E30613")
}

func TestStylesheets(t *testing.T) {
	html := `<head>
		<link rel="stylesheet" href="/css/theme.css">
		<link rel="preload stylesheet" href="https://acme.example/css/brand.css">
		<link rel="stylesheet" href="/css/theme.css">
		<link rel="stylesheet" href="https://cdn.other.example/lib.css">
		<link rel="icon" href="/favicon.ico">
	</head>`
	assert.Equal(t, []string{
		"https://acme.example/css/theme.css",
		"https://acme.example/css/brand.css",
	}, Stylesheets(html, "https://acme.example/karriere"))
}

func TestHTTPFetcher_InlinesStylesheets(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><head><link rel="stylesheet" href="/theme.css"><link rel="stylesheet" href="/missing.css"></head><body>Hallo</body></html>`))
	})
	mux.HandleFunc("/theme.css", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		_, _ = w.Write([]byte(`:root { --brand-primary: #E30613; }`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	markup, err := NewHTTPFetcher().Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, markup, "<body>Hallo</body>")
	assert.Contains(t, markup, "--brand-primary: #E30613;")
	assert.Equal(t, 1, strings.Count(markup, "<style data-href="))
}

func TestHTTPFetcher_SkipsHTMLErrorPagesForStylesheets(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if r.URL.Path == "/gone.css" {
			_, _ = w.Write([]byte(`<html><body style="background:#1E88E5">Seite nicht gefunden</body></html>`))
			return
		}
		_, _ = w.Write([]byte(`<html><head><link rel="stylesheet" href="/gone.css"><style>.logo{color:#E30613}</style></head><body>Hallo</body></html>`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	markup, err := NewHTTPFetcher().Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.NotContains(t, markup, "<style data-href=")
	assert.NotContains(t, markup, "#1E88E5")
}

func TestIsStylesheet(t *testing.T) {
	assert.True(t, isStylesheet("text/css"))
	assert.True(t, isStylesheet("TEXT/CSS; charset=utf-8"))
	assert.False(t, isStylesheet("text/html; charset=utf-8"))
	assert.False(t, isStylesheet("text/plain"))
	assert.False(t, isStylesheet(""))
}

func TestHTTPFetcher_BrowserFallbackForThinPages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div id="app"></div></body></html>`))
	}))
	defer server.Close()

	var calls atomic.Int32
	browser := func(ctx context.Context, url string, timeout time.Duration, _ *zap.Logger) (string, error) {
		calls.Add(1)
		return `<html><body><header style="background:#0055A4">Rendered</header></body></html>`, nil
	}

	markup, err := NewHTTPFetcher(WithBrowserFallback(browser, time.Second)).Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, markup, "Rendered")
	assert.Equal(t, int32(1), calls.Load())

	failing := func(context.Context, string, time.Duration, *zap.Logger) (string, error) {
		return "", errors.New("no chrome")
	}
	markup, err = NewHTTPFetcher(WithBrowserFallback(failing, time.Second)).Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, markup, `<div id="app">`)
}

func TestHTTPFetcher_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewHTTPFetcher().Fetch(context.Background(), server.URL)
	assert.Equal(t, providers.KindUnavailable, providers.Classify(err))

	_, err = NewHTTPFetcher().Fetch(context.Background(), "ftp://acme.example")
	assert.Equal(t, providers.KindMalformedInput, providers.Classify(err))

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer slow.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = NewHTTPFetcher().Fetch(ctx, slow.URL)
	assert.Equal(t, providers.KindTimeout, providers.Classify(err))
}

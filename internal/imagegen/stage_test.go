package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/creative-engine/internal/providers"
	"github.com/jonathan/creative-engine/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

type countingProvider struct {
	mu    sync.Mutex
	calls map[types.DesignerType]int
	fail  map[types.DesignerType]bool
}

func (p *countingProvider) Generate(_ context.Context, brief Brief) (types.BaseImage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.calls == nil {
		p.calls = map[types.DesignerType]int{}
	}
	p.calls[brief.Designer]++
	if p.fail[brief.Designer] {
		return types.BaseImage{}, errors.New("model overloaded")
	}
	return types.BaseImage{MIMEType: "image/png", Data: []byte{1}}, nil
}

func TestStage_OneCallPerDesigner(t *testing.T) {
	provider := &countingProvider{fail: map[types.DesignerType]bool{types.DesignerArtistic: true}}
	briefs := []Brief{
		{Designer: types.DesignerJobFocus, Style: types.StyleBold},
		{Designer: types.DesignerArtistic},
		{Designer: types.DesignerJobFocus, Style: types.StyleMinimal},
		{Designer: types.DesignerJobFocus},
	}

	outcomes := NewStage(provider, WithConcurrency(1)).GenerateAll(context.Background(), briefs)

	require.Len(t, outcomes, 2)
	assert.Equal(t, 1, provider.calls[types.DesignerJobFocus])
	assert.Equal(t, 1, provider.calls[types.DesignerArtistic])

	ok := outcomes[types.DesignerJobFocus]
	assert.True(t, ok.OK())
	assert.Equal(t, types.DesignerJobFocus, ok.Image.Designer)
	assert.Equal(t, "base/job_focus", ok.Image.Ref())

	failed := outcomes[types.DesignerArtistic]
	assert.False(t, failed.OK())
	assert.Equal(t, providers.KindUnavailable, providers.Classify(failed.Err))
}

type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ Brief) (types.BaseImage, error) {
	<-ctx.Done()
	return types.BaseImage{}, ctx.Err()
}

func TestStage_TimeoutAndNilProvider(t *testing.T) {
	outcomes := NewStage(slowProvider{}, WithTimeout(20*time.Millisecond)).
		GenerateAll(context.Background(), []Brief{{Designer: types.DesignerLocation}})
	assert.Equal(t, providers.KindTimeout, providers.Classify(outcomes[types.DesignerLocation].Err))

	outcomes = NewStage(nil).GenerateAll(context.Background(), []Brief{{Designer: types.DesignerLifestyle}})
	assert.Equal(t, providers.KindUnavailable, providers.Classify(outcomes[types.DesignerLifestyle].Err))
}

func TestBuildPrompt(t *testing.T) {
	brand := types.DefaultBrandIdentity("Acme Care")
	prompt, err := BuildPrompt(Brief{
		Designer: types.DesignerLocation,
		Style:    types.StyleFriendly,
		Company:  "Acme Care",
		JobTitle: "Pflegefachkraft",
		Location: "Hamburg",
		Brand:    brand,
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, "city or region")
	assert.Contains(t, prompt, "Pflegefachkraft at Acme Care in Hamburg")
	assert.Contains(t, prompt, brand.PrimaryColor)
	assert.Contains(t, prompt, "friendly")
	assert.NotContains(t, prompt, "{{")
}

func TestGeminiImageProvider_Generate(t *testing.T) {
	img := pngBytes(t)
	var gotPath, gotKey string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{"parts": []any{
					map[string]any{"text": "here you go"},
					map[string]any{"inlineData": map[string]any{
						"mimeType": "image/png",
						"data":     base64.StdEncoding.EncodeToString(img),
					}},
				}},
			}},
		})
	}))
	defer server.Close()

	p := NewGeminiImageProvider("secret", "gemini-2.5-flash-image", server.URL, 5*time.Second, nil)
	out, err := p.Generate(context.Background(), Brief{Designer: types.DesignerJobFocus, Style: types.StyleModern})
	require.NoError(t, err)

	assert.Equal(t, "/v1beta/models/gemini-2.5-flash-image:generateContent", gotPath)
	assert.Equal(t, "secret", gotKey)
	assert.Contains(t, gotBody, "generationConfig")
	assert.Equal(t, "image/png", out.MIMEType)
	assert.Equal(t, img, out.Data)
	assert.Equal(t, types.DesignerJobFocus, out.Designer)
}

func TestGeminiImageProvider_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload any
	}{
		{"api error", http.StatusTooManyRequests, map[string]any{"error": map[string]any{"code": 429, "message": "quota"}}},
		{"no image", http.StatusOK, map[string]any{"candidates": []any{}}},
		{"not an image", http.StatusOK, map[string]any{"candidates": []any{map[string]any{
			"content": map[string]any{"parts": []any{map[string]any{"inlineData": map[string]any{
				"mimeType": "image/png",
				"data":     base64.StdEncoding.EncodeToString([]byte("<html>nope</html>")),
			}}}},
		}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(tt.payload)
			}))
			defer server.Close()

			p := NewGeminiImageProvider("secret", "m", server.URL, 5*time.Second, nil)
			_, err := p.Generate(context.Background(), Brief{Designer: types.DesignerArtistic})
			require.Error(t, err)
			assert.Equal(t, providers.KindUnavailable, providers.Classify(err))
		})
	}

	_, err := NewGeminiImageProvider("", "m", "", time.Second, nil).Generate(context.Background(), Brief{Designer: types.DesignerArtistic})
	assert.Error(t, err)
}

func TestSniffImage(t *testing.T) {
	mime, err := SniffImage(pngBytes(t))
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)

	_, err = SniffImage([]byte("plain text"))
	assert.Error(t, err)
}

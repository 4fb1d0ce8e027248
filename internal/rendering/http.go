package rendering

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
	"github.com/jonathan/creative-engine/internal/providers"
	"github.com/jonathan/creative-engine/internal/ratelimit"
	"github.com/jonathan/creative-engine/internal/types"
)

// HTTPRenderer delegates compositing to an external render service.
type HTTPRenderer struct {
	client   *resty.Client
	throttle *ratelimit.Throttle
}

// NewHTTPRenderer creates a renderer for the service at baseURL. An empty
// apiKey sends no Authorization header.
func NewHTTPRenderer(baseURL, apiKey string, timeout time.Duration, throttle *ratelimit.Throttle) *HTTPRenderer {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "image/png, image/jpeg, image/webp")
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}
	return &HTTPRenderer{client: client, throttle: throttle}
}

type renderRequest struct {
	BaseImage string               `json:"base_image"`
	MIMEType  string               `json:"mime_type"`
	Layout    types.LayoutStrategy `json:"layout"`
}

// Render implements Renderer. The response body must be an image.
func (r *HTTPRenderer) Render(ctx context.Context, base types.BaseImage, layout types.LayoutStrategy) (types.Artifact, error) {
	if len(base.Data) == 0 {
		return types.Artifact{}, &RenderError{Combination: layout.Combination.Key(), Reason: "base image is empty"}
	}
	if err := r.throttle.Wait(ctx); err != nil {
		return types.Artifact{}, providers.Wrap("render", err)
	}

	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(renderRequest{
			BaseImage: base64.StdEncoding.EncodeToString(base.Data),
			MIMEType:  base.MIMEType,
			Layout:    layout,
		}).
		Post("/render")
	if err != nil {
		return types.Artifact{}, providers.Wrap("render", err)
	}
	if resp.IsError() {
		return types.Artifact{}, &providers.UnavailableError{
			Provider: "render",
			Message:  fmt.Sprintf("status %d: %s", resp.StatusCode(), truncate(resp.String(), 200)),
		}
	}

	body := resp.Body()
	mtype := mimetype.Detect(body)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return types.Artifact{}, &providers.UnavailableError{Provider: "render", Message: fmt.Sprintf("unexpected content type %s", mtype.String())}
	}
	return types.Artifact{MIMEType: mtype.String(), Size: len(body), Data: body}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

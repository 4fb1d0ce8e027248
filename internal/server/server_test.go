package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/creative-engine/internal/db"
	"github.com/jonathan/creative-engine/internal/metrics"
	"github.com/jonathan/creative-engine/internal/pipeline"
	"github.com/jonathan/creative-engine/internal/providers"
	"github.com/jonathan/creative-engine/internal/ratelimit"
	"github.com/jonathan/creative-engine/internal/types"
)

type fakeRunner struct {
	got    *types.CampaignRequest
	result *types.CampaignResult
	err    error
}

func (f *fakeRunner) Run(_ context.Context, req *types.CampaignRequest, onProgress pipeline.ProgressCallback) (*types.CampaignResult, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	if onProgress != nil {
		onProgress(pipeline.ProgressEvent{Step: pipeline.StateFetchingContext, Category: pipeline.CategoryLifecycle, Message: "start"})
		onProgress(pipeline.ProgressEvent{Step: pipeline.StateDone, Category: pipeline.CategoryLifecycle, Message: "done"})
	}
	return f.result, nil
}

type fakeBrandCache struct {
	invalidated []string
	flushed     bool
	err         error
}

func (f *fakeBrandCache) Invalidate(_ context.Context, company string) error {
	f.invalidated = append(f.invalidated, company)
	return f.err
}

func (f *fakeBrandCache) InvalidateAll(context.Context) error {
	f.flushed = true
	return f.err
}

type fakeStore struct {
	campaigns map[uuid.UUID]*db.Campaign
	limit     int
	company   string
}

func (f *fakeStore) GetCampaign(_ context.Context, id uuid.UUID) (*db.Campaign, error) {
	return f.campaigns[id], nil
}

func (f *fakeStore) ListCampaigns(_ context.Context, company string, limit int) ([]db.Campaign, error) {
	f.company = company
	f.limit = limit
	var out []db.Campaign
	for _, c := range f.campaigns {
		out = append(out, *c)
	}
	return out, nil
}

func sampleResult() *types.CampaignResult {
	return &types.CampaignResult{
		ID:             uuid.NewString(),
		Company:        "Acme Care",
		JobTitles:      []string{"Pflegefachkraft"},
		Brand:          types.DefaultBrandIdentity("Acme Care"),
		Status:         types.CampaignPartial,
		TotalRequested: 2,
		TotalGenerated: 1,
		TotalFailed:    1,
		Creatives: []types.CreativeResult{
			{ID: "c1", Success: true, Artifact: &types.Artifact{MIMEType: "image/svg+xml", Size: 5, Data: []byte("<svg>")}},
			{ID: "c2", Error: "image unavailable"},
		},
	}
}

func newTestServer(t *testing.T, deps Dependencies) *Server {
	t.Helper()
	if deps.Campaigns == nil {
		deps.Campaigns = &fakeRunner{result: sampleResult()}
	}
	s, err := New(Config{DefaultVariantCount: 3, RateLimit: &ratelimit.Config{Enabled: false}}, deps)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.RemoteAddr = "192.0.2.10:4321"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

const campaignBody = `{"company":" Acme Care ","job_title":"Pflegefachkraft","location":"Hamburg"}`

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, Dependencies{})
	w := do(t, s.Handler(), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestCreateCampaign(t *testing.T) {
	runner := &fakeRunner{result: sampleResult()}
	s := newTestServer(t, Dependencies{Campaigns: runner})

	w := do(t, s.Handler(), http.MethodPost, "/campaigns", campaignBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.NotNil(t, runner.got)
	assert.Equal(t, "Acme Care", runner.got.Company)
	assert.Equal(t, 3, runner.got.DesiredVariantCount)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "partial", resp["status"])
	assert.EqualValues(t, 1, resp["total_generated"])
	assert.EqualValues(t, 1, resp["total_failed"])
	assert.NotContains(t, resp, "artifacts")
}

func TestCreateCampaign_IncludeArtifacts(t *testing.T) {
	s := newTestServer(t, Dependencies{})

	w := do(t, s.Handler(), http.MethodPost, "/campaigns?include_artifacts=true", campaignBody)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Artifacts map[string]string `json:"artifacts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Artifacts, 1)
	assert.Equal(t, "data:image/svg+xml;base64,PHN2Zz4=", resp.Artifacts["c1"])
}

func TestCreateCampaign_CanceledKeepsPartialResult(t *testing.T) {
	tests := []struct {
		name       string
		cancel     func(context.Context) (context.Context, context.CancelFunc)
		wantStatus int
	}{
		{
			name:       "client gone",
			cancel:     context.WithCancel,
			wantStatus: 499,
		},
		{
			name: "deadline reached",
			cancel: func(ctx context.Context) (context.Context, context.CancelFunc) {
				return context.WithDeadline(ctx, time.Now().Add(-time.Second))
			},
			wantStatus: http.StatusGatewayTimeout,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sampleResult()
			result.Canceled = true
			s := newTestServer(t, Dependencies{Campaigns: &fakeRunner{result: result}})

			ctx, cancel := tt.cancel(context.Background())
			cancel()
			req := httptest.NewRequest(http.MethodPost, "/campaigns?include_artifacts=true", strings.NewReader(campaignBody)).WithContext(ctx)
			req.RemoteAddr = "192.0.2.10:4321"
			w := httptest.NewRecorder()
			s.Handler().ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			var resp struct {
				Canceled  bool              `json:"canceled"`
				Artifacts map[string]string `json:"artifacts"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.True(t, resp.Canceled)
			assert.Len(t, resp.Artifacts, 1)
		})
	}
}

func TestCreateCampaign_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"invalid json", "{", nil, http.StatusBadRequest},
		{"malformed input", campaignBody, &providers.MalformedInputError{Field: "request"}, http.StatusBadRequest},
		{"timeout", campaignBody, &providers.TimeoutError{Provider: "image"}, http.StatusGatewayTimeout},
		{"internal", campaignBody, &providers.UnavailableError{Provider: "text", Message: "down"}, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, Dependencies{Campaigns: &fakeRunner{err: tt.err}})
			w := do(t, s.Handler(), http.MethodPost, "/campaigns", tt.body)
			assert.Equal(t, tt.status, w.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestStreamCampaign(t *testing.T) {
	s := newTestServer(t, Dependencies{})

	w := do(t, s.Handler(), http.MethodPost, "/campaigns/stream", campaignBody)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Equal(t, 2, strings.Count(body, "event: progress\n"))
	assert.Contains(t, body, `"step":"FETCHING_CONTEXT"`)
	assert.Contains(t, body, "event: result\n")
	assert.Contains(t, body, `"status":"partial"`)
}

func TestStreamCampaign_Error(t *testing.T) {
	s := newTestServer(t, Dependencies{Campaigns: &fakeRunner{err: &providers.MalformedInputError{Field: "request"}}})

	w := do(t, s.Handler(), http.MethodPost, "/campaigns/stream", campaignBody)
	assert.Contains(t, w.Body.String(), "event: error\n")
	assert.NotContains(t, w.Body.String(), "event: result\n")
}

func TestGetCampaign(t *testing.T) {
	id := uuid.New()
	store := &fakeStore{campaigns: map[uuid.UUID]*db.Campaign{
		id: {ID: id, Company: "Acme Care", Status: "success", StartedAt: time.Now()},
	}}
	h := newTestServer(t, Dependencies{Store: store}).Handler()

	w := do(t, h, http.MethodGet, "/campaigns/"+id.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	var got db.Campaign
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, id, got.ID)

	w = do(t, h, http.MethodGet, "/campaigns/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodGet, "/campaigns/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListCampaigns(t *testing.T) {
	store := &fakeStore{campaigns: map[uuid.UUID]*db.Campaign{}}
	h := newTestServer(t, Dependencies{Store: store}).Handler()

	w := do(t, h, http.MethodGet, "/campaigns?company=Acme&limit=500", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Acme", store.company)
	assert.Equal(t, maxListLimit, store.limit)

	var resp struct {
		Campaigns []db.Campaign `json:"campaigns"`
		Count     int           `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotNil(t, resp.Campaigns)
	assert.Equal(t, 0, resp.Count)

	w = do(t, h, http.MethodGet, "/campaigns?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestArchiveRoutesWithoutStore(t *testing.T) {
	h := newTestServer(t, Dependencies{}).Handler()

	assert.Equal(t, http.StatusNotImplemented, do(t, h, http.MethodGet, "/campaigns", "").Code)
	assert.Equal(t, http.StatusNotImplemented, do(t, h, http.MethodGet, "/campaigns/"+uuid.NewString(), "").Code)
}

func TestInvalidateBrand(t *testing.T) {
	cache := &fakeBrandCache{}
	h := newTestServer(t, Dependencies{BrandCache: cache}).Handler()

	w := do(t, h, http.MethodDelete, "/brand-cache/Acme", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"Acme"}, cache.invalidated)

	w = do(t, h, http.MethodDelete, "/brand-cache", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, cache.flushed)
}

func TestInvalidateBrand_Failure(t *testing.T) {
	cache := &fakeBrandCache{err: errors.New("redis down")}
	h := newTestServer(t, Dependencies{BrandCache: cache}).Handler()

	w := do(t, h, http.MethodDelete, "/brand-cache/Acme", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(reg)
	recorder.IncCampaignStatus("success")
	h := newTestServer(t, Dependencies{Metrics: metrics.HTTPHandler(reg)}).Handler()

	w := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "campaigns_total")
}

func TestMetricsEndpoint_NotConfigured(t *testing.T) {
	h := newTestServer(t, Dependencies{}).Handler()
	w := do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRateLimitOnCampaigns(t *testing.T) {
	s, err := New(Config{RateLimit: ratelimit.DefaultConfig()}, Dependencies{Campaigns: &fakeRunner{result: sampleResult()}})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	h := s.Handler()

	for i := 0; i < 2; i++ {
		w := do(t, h, http.MethodPost, "/campaigns", campaignBody)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
	}

	w := do(t, h, http.MethodPost, "/campaigns", campaignBody)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// Health stays reachable.
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", "").Code)
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t, Dependencies{}).Handler()
	w := do(t, h, http.MethodOptions, "/campaigns", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNew_RequiresRunner(t *testing.T) {
	_, err := New(Config{}, Dependencies{})
	assert.Error(t, err)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&ErrValidation{Field: "body"}, http.StatusBadRequest},
		{&ErrNotFound{Resource: "campaign"}, http.StatusNotFound},
		{&providers.MalformedInputError{}, http.StatusBadRequest},
		{&providers.TimeoutError{}, http.StatusGatewayTimeout},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{context.Canceled, 499},
		{&providers.UnavailableError{}, http.StatusBadGateway},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), "%T", tt.err)
	}
}

package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/creative-engine/internal/db"
	"github.com/jonathan/creative-engine/internal/pipeline"
	"github.com/jonathan/creative-engine/internal/types"
)

// CampaignRunner runs one campaign request.
type CampaignRunner interface {
	Run(ctx context.Context, req *types.CampaignRequest, onProgress pipeline.ProgressCallback) (*types.CampaignResult, error)
}

// BrandCache drops cached brand identities.
type BrandCache interface {
	Invalidate(ctx context.Context, company string) error
	InvalidateAll(ctx context.Context) error
}

// CampaignStore reads archived campaigns.
type CampaignStore interface {
	GetCampaign(ctx context.Context, id uuid.UUID) (*db.Campaign, error)
	ListCampaigns(ctx context.Context, company string, limit int) ([]db.Campaign, error)
}

// CampaignResponse is the campaign result plus, on request, the rendered
// artifacts as data URIs keyed by creative ID.
type CampaignResponse struct {
	*types.CampaignResult
	Artifacts map[string]string `json:"artifacts,omitempty"`
}

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// decodeCampaignRequest reads and defaults a campaign request body.
func (s *Server) decodeCampaignRequest(w http.ResponseWriter, r *http.Request) (*types.CampaignRequest, error) {
	var req types.CampaignRequest
	body := http.MaxBytesReader(w, r.Body, s.maxRequestSize)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return nil, &ErrValidation{Field: "body", Message: err.Error()}
	}
	req.Company = strings.TrimSpace(req.Company)
	req.JobTitle = strings.TrimSpace(req.JobTitle)
	req.Location = strings.TrimSpace(req.Location)
	if req.DesiredVariantCount == 0 {
		req.DesiredVariantCount = s.defaultCount
	}
	return &req, nil
}

// handleCreateCampaign runs a campaign and returns its result. A campaign
// with zero successes is still a 200; its status field reports the failure.
// A campaign cut short by the request context keeps its partial result under
// the status of the context error.
func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeCampaignRequest(w, r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	result, err := s.campaigns.Run(r.Context(), req, nil)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	status := http.StatusOK
	if ctxErr := r.Context().Err(); result.Canceled && ctxErr != nil {
		status = HTTPStatus(ctxErr)
	}
	s.jsonResponse(w, status, newCampaignResponse(result, includeArtifacts(r)))
}

// handleStreamCampaign runs a campaign and streams progress via SSE
func (s *Server) handleStreamCampaign(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeCampaignRequest(w, r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	result, err := s.campaigns.Run(r.Context(), req, func(event pipeline.ProgressEvent) {
		if werr := sse.WriteEvent("progress", event); werr != nil {
			s.logger.Debug("progress event dropped", zap.Error(werr))
		}
	})
	if err != nil {
		sse.WriteError(err.Error())
		return
	}
	sse.WriteResult(newCampaignResponse(result, includeArtifacts(r)))
}

// handleGetCampaign returns an archived campaign summary
func (s *Server) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, http.StatusNotImplemented, "Campaign archive is not configured")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid campaign ID format")
		return
	}

	campaign, err := s.store.GetCampaign(r.Context(), id)
	if err != nil {
		s.logger.Error("failed to load campaign", zap.Stringer("campaign_id", id), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if campaign == nil {
		err := &ErrNotFound{Resource: "campaign", ID: id.String()}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, campaign)
}

// handleListCampaigns lists recent archived campaigns
func (s *Server) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, http.StatusNotImplemented, "Campaign archive is not configured")
		return
	}

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxListLimit)
	}

	campaigns, err := s.store.ListCampaigns(r.Context(), r.URL.Query().Get("company"), limit)
	if err != nil {
		s.logger.Error("failed to list campaigns", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if campaigns == nil {
		campaigns = []db.Campaign{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"campaigns": campaigns,
		"count":     len(campaigns),
	})
}

// handleInvalidateBrand drops one company's cached brand identity
func (s *Server) handleInvalidateBrand(w http.ResponseWriter, r *http.Request) {
	if s.brandCache == nil {
		s.errorResponse(w, http.StatusNotImplemented, "Brand cache is not configured")
		return
	}
	company := strings.TrimSpace(r.PathValue("company"))
	if company == "" {
		s.errorResponse(w, http.StatusBadRequest, "Company is required")
		return
	}

	if err := s.brandCache.Invalidate(r.Context(), company); err != nil {
		s.logger.Warn("brand cache invalidation failed", zap.String("company", company), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Brand cache invalidation failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleInvalidateAllBrands empties the brand cache
func (s *Server) handleInvalidateAllBrands(w http.ResponseWriter, r *http.Request) {
	if s.brandCache == nil {
		s.errorResponse(w, http.StatusNotImplemented, "Brand cache is not configured")
		return
	}
	if err := s.brandCache.InvalidateAll(r.Context()); err != nil {
		s.logger.Warn("brand cache flush failed", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Brand cache invalidation failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func includeArtifacts(r *http.Request) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get("include_artifacts"))
	return err == nil && v
}

func newCampaignResponse(result *types.CampaignResult, withArtifacts bool) CampaignResponse {
	resp := CampaignResponse{CampaignResult: result}
	if !withArtifacts {
		return resp
	}
	for _, c := range result.Successful() {
		if c.Artifact == nil || len(c.Artifact.Data) == 0 {
			continue
		}
		if resp.Artifacts == nil {
			resp.Artifacts = make(map[string]string)
		}
		resp.Artifacts[c.ID] = "data:" + c.Artifact.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(c.Artifact.Data)
	}
	return resp
}

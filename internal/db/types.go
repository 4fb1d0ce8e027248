package db

import (
	"time"

	"github.com/google/uuid"
)

// Campaign is an archived campaign summary.
type Campaign struct {
	ID             uuid.UUID `json:"id"`
	Company        string    `json:"company"`
	JobTitles      []string  `json:"job_titles"`
	Status         string    `json:"status"`
	TotalRequested int       `json:"total_requested"`
	TotalGenerated int       `json:"total_generated"`
	TotalFailed    int       `json:"total_failed"`
	Canceled       bool      `json:"canceled"`
	StartedAt      time.Time `json:"started_at"`
	CompletedAt    time.Time `json:"completed_at"`
}

// CreativeRecord is one archived creative row. Artifact bytes are not stored.
type CreativeRecord struct {
	ID             uuid.UUID
	CampaignID     uuid.UUID
	CombinationKey string
	LayoutVariant  string
	TextElementSet string
	VisualStyle    string
	DesignerType   string
	CopyStyle      string
	ImageRef       string
	Success        bool
	Error          string
	Layout         []byte
	ArtifactMIME   string
	ArtifactSize   int
	DurationMS     int64
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS campaigns (
    id              UUID PRIMARY KEY,
    company         TEXT NOT NULL,
    job_titles      TEXT[] NOT NULL DEFAULT '{}',
    status          TEXT NOT NULL,
    total_requested INTEGER NOT NULL,
    total_generated INTEGER NOT NULL,
    total_failed    INTEGER NOT NULL,
    canceled        BOOLEAN NOT NULL DEFAULT FALSE,
    brand           JSONB,
    started_at      TIMESTAMPTZ NOT NULL,
    completed_at    TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_campaigns_company ON campaigns (lower(company), started_at DESC);

CREATE TABLE IF NOT EXISTS creatives (
    id               UUID PRIMARY KEY,
    campaign_id      UUID NOT NULL REFERENCES campaigns(id) ON DELETE CASCADE,
    combination_key  TEXT NOT NULL,
    layout_variant   TEXT NOT NULL,
    text_element_set TEXT NOT NULL,
    visual_style     TEXT NOT NULL,
    designer_type    TEXT NOT NULL,
    copy_style       TEXT,
    image_ref        TEXT,
    success          BOOLEAN NOT NULL,
    error            TEXT,
    layout           JSONB,
    artifact_mime    TEXT,
    artifact_size    INTEGER,
    duration_ms      BIGINT NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_creatives_campaign ON creatives (campaign_id);
`

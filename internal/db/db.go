// Package db archives campaign results in PostgreSQL.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonathan/creative-engine/internal/types"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the archive tables when they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SaveCampaign stores a campaign and its creatives in one transaction.
// Saving the same campaign again replaces it.
func (db *DB) SaveCampaign(ctx context.Context, result *types.CampaignResult) error {
	campaignID, err := uuid.Parse(result.ID)
	if err != nil {
		return fmt.Errorf("invalid campaign id %q: %w", result.ID, err)
	}
	brandJSON, err := json.Marshal(result.Brand)
	if err != nil {
		return fmt.Errorf("failed to marshal brand identity: %w", err)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO campaigns (id, company, job_titles, status, total_requested, total_generated,
		                        total_failed, canceled, brand, started_at, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (id) DO UPDATE SET status = $4, total_generated = $6, total_failed = $7,
		                                canceled = $8, brand = $9, completed_at = $11`,
		campaignID, result.Company, result.JobTitles, string(result.Status), result.TotalRequested,
		result.TotalGenerated, result.TotalFailed, result.Canceled, brandJSON, result.StartedAt, result.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save campaign: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM creatives WHERE campaign_id = $1`, campaignID); err != nil {
		return fmt.Errorf("failed to clear creatives: %w", err)
	}

	batch := &pgx.Batch{}
	for _, c := range result.Creatives {
		record, err := newCreativeRecord(campaignID, c)
		if err != nil {
			return err
		}
		batch.Queue(
			`INSERT INTO creatives (id, campaign_id, combination_key, layout_variant, text_element_set,
			                        visual_style, designer_type, copy_style, image_ref, success, error,
			                        layout, artifact_mime, artifact_size, duration_ms)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			record.ID, record.CampaignID, record.CombinationKey, record.LayoutVariant, record.TextElementSet,
			record.VisualStyle, record.DesignerType, record.CopyStyle, record.ImageRef, record.Success, record.Error,
			record.Layout, record.ArtifactMIME, record.ArtifactSize, record.DurationMS,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to save creatives: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit campaign: %w", err)
	}
	return nil
}

// GetCampaign retrieves a campaign summary by ID. A missing campaign
// returns nil without error.
func (db *DB) GetCampaign(ctx context.Context, id uuid.UUID) (*Campaign, error) {
	var c Campaign
	err := db.pool.QueryRow(ctx,
		`SELECT id, company, job_titles, status, total_requested, total_generated, total_failed,
		        canceled, started_at, completed_at
		 FROM campaigns WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Company, &c.JobTitles, &c.Status, &c.TotalRequested, &c.TotalGenerated,
		&c.TotalFailed, &c.Canceled, &c.StartedAt, &c.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return &c, nil
}

// ListCampaigns retrieves the most recent campaigns, optionally for one company.
func (db *DB) ListCampaigns(ctx context.Context, company string, limit int) ([]Campaign, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, company, job_titles, status, total_requested, total_generated, total_failed,
		        canceled, started_at, completed_at
		 FROM campaigns
		 WHERE $1 = '' OR lower(company) = lower($1)
		 ORDER BY started_at DESC LIMIT $2`,
		company, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []Campaign
	for rows.Next() {
		var c Campaign
		if err := rows.Scan(&c.ID, &c.Company, &c.JobTitles, &c.Status, &c.TotalRequested, &c.TotalGenerated,
			&c.TotalFailed, &c.Canceled, &c.StartedAt, &c.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

// CountCreatives returns how many creatives of a campaign succeeded and failed.
func (db *DB) CountCreatives(ctx context.Context, campaignID uuid.UUID) (succeeded, failed int, err error) {
	err = db.pool.QueryRow(ctx,
		`SELECT count(*) FILTER (WHERE success), count(*) FILTER (WHERE NOT success)
		 FROM creatives WHERE campaign_id = $1`,
		campaignID,
	).Scan(&succeeded, &failed)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count creatives: %w", err)
	}
	return succeeded, failed, nil
}

func newCreativeRecord(campaignID uuid.UUID, c types.CreativeResult) (CreativeRecord, error) {
	id, err := uuid.Parse(c.ID)
	if err != nil {
		return CreativeRecord{}, fmt.Errorf("invalid creative id %q: %w", c.ID, err)
	}
	record := CreativeRecord{
		ID:             id,
		CampaignID:     campaignID,
		CombinationKey: c.Combination.Key(),
		LayoutVariant:  string(c.Combination.Layout),
		TextElementSet: string(c.Combination.TextElements),
		VisualStyle:    string(c.Combination.Style),
		DesignerType:   string(c.Combination.Designer),
		CopyStyle:      string(c.CopyVariant.Style),
		ImageRef:       c.ImageRef,
		Success:        c.Success,
		Error:          c.Error,
		DurationMS:     c.Duration.Milliseconds(),
	}
	if c.Layout != nil {
		layoutJSON, err := json.Marshal(c.Layout)
		if err != nil {
			return CreativeRecord{}, fmt.Errorf("failed to marshal layout: %w", err)
		}
		record.Layout = layoutJSON
	}
	if c.Artifact != nil {
		record.ArtifactMIME = c.Artifact.MIMEType
		record.ArtifactSize = c.Artifact.Size
	}
	return record, nil
}

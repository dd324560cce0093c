package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vbncursed/talentgate/pkg/apperr"
	"github.com/vbncursed/talentgate/pkg/match"
	"github.com/vbncursed/talentgate/pkg/resume"
)

// ResumeRepository stores resume records. Extracted skills and the match
// result go into jsonb columns, the blob itself lives in the blob store.
type ResumeRepository struct {
	pool *pgxpool.Pool
}

func NewResumeRepository(pool *pgxpool.Pool) (*ResumeRepository, error) {
	r := &ResumeRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *ResumeRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS resumes (
	id UUID PRIMARY KEY,
	tenant_id UUID NOT NULL,
	candidate_id UUID,
	url TEXT NOT NULL,
	storage_id TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	original_name TEXT NOT NULL,
	size BIGINT NOT NULL,
	skills JSONB NOT NULL DEFAULT '[]',
	experience TEXT NOT NULL DEFAULT '',
	education TEXT NOT NULL DEFAULT '',
	match JSONB NOT NULL DEFAULT '{}',
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_resumes_candidate ON resumes(candidate_id);
`)
	return err
}

func (r *ResumeRepository) Create(ctx context.Context, rec resume.Record) error {
	skills, err := json.Marshal(rec.Skills)
	if err != nil {
		return err
	}
	matchJSON, err := json.Marshal(rec.Match)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
INSERT INTO resumes (id, tenant_id, candidate_id, url, storage_id, mime_type, original_name,
	size, skills, experience, education, match, status, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
`,
		rec.ID, rec.TenantID, nullable(rec.CandidateID), rec.URL, rec.StorageID,
		rec.MimeType, rec.OriginalName, rec.Size, skills, rec.Experience,
		rec.Education, matchJSON, rec.Status, rec.CreatedAt, rec.UpdatedAt)
	return err
}

func (r *ResumeRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (resume.Record, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, tenant_id, candidate_id, url, storage_id, mime_type, original_name,
	size, skills, experience, education, match, status, created_at, updated_at
FROM resumes WHERE id = $1 AND tenant_id = $2
`, id, tenantID)
	return scanResume(row)
}

func (r *ResumeRepository) LinkCandidate(ctx context.Context, id, candidateID uuid.UUID) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE resumes SET candidate_id = $1 WHERE id = $2`, candidateID, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *ResumeRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) (resume.Record, error) {
	row := r.pool.QueryRow(ctx, `
DELETE FROM resumes WHERE id = $1 AND tenant_id = $2
RETURNING id, tenant_id, candidate_id, url, storage_id, mime_type, original_name,
	size, skills, experience, education, match, status, created_at, updated_at
`, id, tenantID)
	return scanResume(row)
}

func scanResume(row rowScanner) (resume.Record, error) {
	var rec resume.Record
	var candidateID *uuid.UUID
	var skills, matchJSON []byte
	err := row.Scan(
		&rec.ID, &rec.TenantID, &candidateID, &rec.URL, &rec.StorageID,
		&rec.MimeType, &rec.OriginalName, &rec.Size, &skills, &rec.Experience,
		&rec.Education, &matchJSON, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return resume.Record{}, apperr.ErrNotFound
		}
		return resume.Record{}, err
	}
	rec.CandidateID = deref(candidateID)
	if err := json.Unmarshal(skills, &rec.Skills); err != nil {
		return resume.Record{}, err
	}
	var m match.Result
	if err := json.Unmarshal(matchJSON, &m); err != nil {
		return resume.Record{}, err
	}
	rec.Match = m
	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	return rec, nil
}

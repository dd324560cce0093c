package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vbncursed/talentgate/pkg/apperr"
	"github.com/vbncursed/talentgate/pkg/candidate"
)

// CandidateRepository stores candidates and their append-only stage history.
type CandidateRepository struct {
	pool *pgxpool.Pool
}

func NewCandidateRepository(pool *pgxpool.Pool) (*CandidateRepository, error) {
	r := &CandidateRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *CandidateRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS candidates (
	id UUID PRIMARY KEY,
	tenant_id UUID NOT NULL,
	first_name TEXT NOT NULL,
	middle_name TEXT NOT NULL DEFAULT '',
	last_name TEXT NOT NULL,
	email TEXT NOT NULL,
	mobile TEXT NOT NULL,
	source_id UUID NOT NULL,
	current_location_id UUID,
	preferred_location_id UUID,
	job_id UUID,
	owner_id UUID NOT NULL,
	created_by UUID NOT NULL,
	stage_id UUID NOT NULL,
	rejection_type TEXT NOT NULL DEFAULT '',
	rejection_reason TEXT NOT NULL DEFAULT '',
	resume_id UUID,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS uq_candidates_tenant_email ON candidates(tenant_id, email);
CREATE UNIQUE INDEX IF NOT EXISTS uq_candidates_tenant_mobile ON candidates(tenant_id, mobile);
CREATE INDEX IF NOT EXISTS idx_candidates_owner ON candidates(owner_id);
CREATE INDEX IF NOT EXISTS idx_candidates_stage ON candidates(stage_id);
CREATE INDEX IF NOT EXISTS idx_candidates_job ON candidates(job_id);
CREATE TABLE IF NOT EXISTS candidate_history (
	id BIGSERIAL PRIMARY KEY,
	candidate_id UUID NOT NULL REFERENCES candidates(id) ON DELETE CASCADE,
	from_stage TEXT NOT NULL,
	to_stage TEXT NOT NULL,
	changed_by UUID NOT NULL,
	changed_at TIMESTAMPTZ NOT NULL,
	comment TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_candidate_history_candidate ON candidate_history(candidate_id);
`)
	return err
}

const candidateColumns = `id, tenant_id, first_name, middle_name, last_name, email, mobile,
source_id, current_location_id, preferred_location_id, job_id, owner_id, created_by,
stage_id, rejection_type, rejection_reason, resume_id, created_at, updated_at`

func (r *CandidateRepository) Create(ctx context.Context, c candidate.Candidate) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO candidates (`+candidateColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
`,
		c.ID, c.TenantID, c.FirstName, c.MiddleName, c.LastName, c.Email, c.Mobile,
		c.SourceID, nullable(c.CurrentLocationID), nullable(c.PreferredLocationID), nullable(c.JobID),
		c.OwnerID, c.CreatedBy, c.StageID, c.Rejection.Type, c.Rejection.Reason,
		nullable(c.ResumeID), c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if conflict, ok := uniqueViolation(err); ok {
			return conflict
		}
		return err
	}
	return nil
}

func (r *CandidateRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (candidate.Candidate, error) {
	row := r.pool.QueryRow(ctx, `
SELECT `+candidateColumns+` FROM candidates WHERE id = $1 AND tenant_id = $2
`, id, tenantID)
	return scanCandidate(row)
}

func (r *CandidateRepository) List(ctx context.Context, f candidate.ListFilter) ([]candidate.Candidate, int, error) {
	where := "tenant_id = $1"
	args := []any{f.TenantID}
	add := func(cond string, v any) {
		args = append(args, v)
		where += fmt.Sprintf(" AND %s $%d", cond, len(args))
	}
	if f.OwnerID != uuid.Nil {
		add("owner_id =", f.OwnerID)
	}
	if f.StageID != uuid.Nil {
		add("stage_id =", f.StageID)
	}
	if f.JobID != uuid.Nil {
		add("job_id =", f.JobID)
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		where += fmt.Sprintf(" AND (first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", n, n, n)
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT count(*) FROM candidates WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit, f.Offset)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		"SELECT "+candidateColumns+" FROM candidates WHERE "+where+" ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []candidate.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *CandidateRepository) Update(ctx context.Context, c candidate.Candidate) error {
	ct, err := r.pool.Exec(ctx, `
UPDATE candidates SET
	first_name = $1, middle_name = $2, last_name = $3, email = $4, mobile = $5,
	source_id = $6, current_location_id = $7, preferred_location_id = $8, job_id = $9,
	owner_id = $10, resume_id = $11, updated_at = $12
WHERE id = $13 AND tenant_id = $14
`,
		c.FirstName, c.MiddleName, c.LastName, c.Email, c.Mobile,
		c.SourceID, nullable(c.CurrentLocationID), nullable(c.PreferredLocationID), nullable(c.JobID),
		c.OwnerID, nullable(c.ResumeID), c.UpdatedAt, c.ID, c.TenantID)
	if err != nil {
		if conflict, ok := uniqueViolation(err); ok {
			return conflict
		}
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *CandidateRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM candidates WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// MoveStage performs the stage swap and history append in one transaction.
// The WHERE clause on the previous stage id is the compare-and-set: a
// concurrent transition that already moved the candidate makes this update
// match zero rows, and the whole move fails with a conflict.
func (r *CandidateRepository) MoveStage(ctx context.Context, m candidate.StageMove) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ct, err := tx.Exec(ctx, `
UPDATE candidates
SET stage_id = $1, rejection_type = $2, rejection_reason = $3, updated_at = $4
WHERE id = $5 AND tenant_id = $6 AND stage_id = $7
`, m.ToStageID, m.Rejection.Type, m.Rejection.Reason, m.Entry.ChangedAt,
		m.CandidateID, m.TenantID, m.FromStageID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.Conflict("stage", "candidate stage changed concurrently")
	}

	_, err = tx.Exec(ctx, `
INSERT INTO candidate_history (candidate_id, from_stage, to_stage, changed_by, changed_at, comment)
VALUES ($1, $2, $3, $4, $5, $6)
`, m.CandidateID, m.Entry.FromStage, m.Entry.ToStage, m.Entry.ChangedBy, m.Entry.ChangedAt, m.Entry.Comment)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *CandidateRepository) History(ctx context.Context, candidateID uuid.UUID) ([]candidate.HistoryEntry, error) {
	rows, err := r.pool.Query(ctx, `
SELECT from_stage, to_stage, changed_by, changed_at, comment
FROM candidate_history WHERE candidate_id = $1
ORDER BY changed_at ASC, id ASC
`, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []candidate.HistoryEntry
	for rows.Next() {
		var e candidate.HistoryEntry
		if err := rows.Scan(&e.FromStage, &e.ToStage, &e.ChangedBy, &e.ChangedAt, &e.Comment); err != nil {
			return nil, err
		}
		e.ChangedAt = e.ChangedAt.UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row rowScanner) (candidate.Candidate, error) {
	var c candidate.Candidate
	var currentLoc, preferredLoc, jobID, resumeID *uuid.UUID
	err := row.Scan(
		&c.ID, &c.TenantID, &c.FirstName, &c.MiddleName, &c.LastName, &c.Email, &c.Mobile,
		&c.SourceID, &currentLoc, &preferredLoc, &jobID, &c.OwnerID, &c.CreatedBy,
		&c.StageID, &c.Rejection.Type, &c.Rejection.Reason, &resumeID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return candidate.Candidate{}, apperr.ErrNotFound
		}
		return candidate.Candidate{}, err
	}
	c.CurrentLocationID = deref(currentLoc)
	c.PreferredLocationID = deref(preferredLoc)
	c.JobID = deref(jobID)
	c.ResumeID = deref(resumeID)
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return c, nil
}

// nullable maps uuid.Nil to SQL NULL.
func nullable(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

func deref(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}

package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vbncursed/talentgate/pkg/directory"
)

// DirectoryRepository resolves tenant-scoped reference data. The tables are
// owned by other services in production; they are created here so a fresh
// database is usable after seeding.
type DirectoryRepository struct {
	pool *pgxpool.Pool
}

func NewDirectoryRepository(pool *pgxpool.Pool) (*DirectoryRepository, error) {
	r := &DirectoryRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *DirectoryRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS tenants (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	tenant_id UUID NOT NULL,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sources (
	id UUID PRIMARY KEY,
	tenant_id UUID NOT NULL,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS locations (
	id UUID PRIMARY KEY,
	tenant_id UUID NOT NULL,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS jobs (
	id UUID PRIMARY KEY,
	tenant_id UUID NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT ''
);
`)
	return err
}

func (r *DirectoryRepository) FindSource(ctx context.Context, tenantID, id uuid.UUID) (directory.Source, bool, error) {
	var s directory.Source
	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, name FROM sources WHERE id = $1 AND tenant_id = $2`,
		id, tenantID).Scan(&s.ID, &s.TenantID, &s.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return directory.Source{}, false, nil
	}
	if err != nil {
		return directory.Source{}, false, err
	}
	return s, true, nil
}

func (r *DirectoryRepository) FindLocation(ctx context.Context, tenantID, id uuid.UUID) (directory.Location, bool, error) {
	var l directory.Location
	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, name FROM locations WHERE id = $1 AND tenant_id = $2`,
		id, tenantID).Scan(&l.ID, &l.TenantID, &l.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return directory.Location{}, false, nil
	}
	if err != nil {
		return directory.Location{}, false, err
	}
	return l, true, nil
}

func (r *DirectoryRepository) FindJob(ctx context.Context, tenantID, id uuid.UUID) (directory.Job, bool, error) {
	var j directory.Job
	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, title, description FROM jobs WHERE id = $1 AND tenant_id = $2`,
		id, tenantID).Scan(&j.ID, &j.TenantID, &j.Title, &j.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return directory.Job{}, false, nil
	}
	if err != nil {
		return directory.Job{}, false, err
	}
	return j, true, nil
}

func (r *DirectoryRepository) FindUser(ctx context.Context, tenantID, id uuid.UUID) (directory.User, bool, error) {
	var u directory.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, name, email, role FROM users WHERE id = $1 AND tenant_id = $2`,
		id, tenantID).Scan(&u.ID, &u.TenantID, &u.Name, &u.Email, &u.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return directory.User{}, false, nil
	}
	if err != nil {
		return directory.User{}, false, err
	}
	return u, true, nil
}

// Seeding helpers used by cmd/seed. All are idempotent on primary key.

func (r *DirectoryRepository) PutTenant(ctx context.Context, id uuid.UUID, name string) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO tenants (id, name) VALUES ($1, $2)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
`, id, name)
	return err
}

func (r *DirectoryRepository) PutUser(ctx context.Context, u directory.User, passwordHash string) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO users (id, tenant_id, name, email, password_hash, role)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, email = EXCLUDED.email,
	password_hash = EXCLUDED.password_hash, role = EXCLUDED.role
`, u.ID, u.TenantID, u.Name, u.Email, passwordHash, u.Role)
	return err
}

func (r *DirectoryRepository) PutSource(ctx context.Context, s directory.Source) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO sources (id, tenant_id, name) VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
`, s.ID, s.TenantID, s.Name)
	return err
}

func (r *DirectoryRepository) PutLocation(ctx context.Context, l directory.Location) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO locations (id, tenant_id, name) VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
`, l.ID, l.TenantID, l.Name)
	return err
}

func (r *DirectoryRepository) PutJob(ctx context.Context, j directory.Job) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO jobs (id, tenant_id, title, description) VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, description = EXCLUDED.description
`, j.ID, j.TenantID, j.Title, j.Description)
	return err
}

package postgres

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vbncursed/talentgate/pkg/stage"
)

// StageRepository persists the global stage catalog. The funnel is seeded
// once on first start; afterwards only rejection-type lists change.
type StageRepository struct {
	pool *pgxpool.Pool
}

func NewStageRepository(pool *pgxpool.Pool) (*StageRepository, error) {
	r := &StageRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *StageRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS stages (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	ord INT NOT NULL UNIQUE,
	rejection_types JSONB NOT NULL DEFAULT '[]'
);
`)
	if err != nil {
		return err
	}
	return r.seed(ctx)
}

// seed inserts the default funnel when the table is empty. ON CONFLICT keeps
// restarts and concurrent instances idempotent.
func (r *StageRepository) seed(ctx context.Context) error {
	for i, name := range stage.DefaultNames {
		types := []string{}
		if name == stage.RejectedName {
			types = stage.DefaultRejectionTypes
		}
		raw, err := json.Marshal(types)
		if err != nil {
			return err
		}
		_, err = r.pool.Exec(ctx, `
INSERT INTO stages (id, name, ord, rejection_types)
VALUES ($1, $2, $3, $4)
ON CONFLICT (name) DO NOTHING
`, uuid.New(), name, i+1, raw)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *StageRepository) Load(ctx context.Context) ([]stage.Stage, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, ord, rejection_types FROM stages ORDER BY ord ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []stage.Stage
	for rows.Next() {
		var s stage.Stage
		var raw []byte
		if err := rows.Scan(&s.ID, &s.Name, &s.Order, &raw); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &s.RejectionTypes); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *StageRepository) SaveRejectionTypes(ctx context.Context, stageID uuid.UUID, types []string) error {
	raw, err := json.Marshal(types)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx,
		`UPDATE stages SET rejection_types = $1 WHERE id = $2`, raw, stageID)
	return err
}

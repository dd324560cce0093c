package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vbncursed/talentgate/pkg/apperr"
)

// uniqueViolation maps a postgres unique-constraint error onto a ConflictError
// naming the offending field, so callers see "email" or "mobile" rather than a
// constraint name.
func uniqueViolation(err error) (error, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil, false
	}
	field := "field"
	switch {
	case strings.Contains(pgErr.ConstraintName, "email"):
		field = "email"
	case strings.Contains(pgErr.ConstraintName, "mobile"):
		field = "mobile"
	}
	return apperr.Conflict(field, "candidate with this "+field+" already exists"), true
}

package directory

import (
	"context"

	"github.com/google/uuid"
)

// User roles allowed to own and move candidates.
const (
	RoleAdmin     = "admin"
	RoleRecruiter = "recruiter"
)

// Entities below exist for reference validation only; their CRUD lives
// outside this service.

type Source struct {
	ID       uuid.UUID
	TenantID uuid.UUID
	Name     string
}

type Location struct {
	ID       uuid.UUID
	TenantID uuid.UUID
	Name     string
}

type Job struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Title       string
	Description string
}

type User struct {
	ID       uuid.UUID
	TenantID uuid.UUID
	Name     string
	Email    string
	Role     string
}

// CanOwnCandidates reports whether the user's role may own candidates.
func (u User) CanOwnCandidates() bool {
	return u.Role == RoleAdmin || u.Role == RoleRecruiter
}

// Directory resolves references within a tenant. A lookup with a foreign
// tenant id behaves exactly like a missing id: found == false.
type Directory interface {
	FindSource(ctx context.Context, tenantID, id uuid.UUID) (Source, bool, error)
	FindLocation(ctx context.Context, tenantID, id uuid.UUID) (Location, bool, error)
	FindJob(ctx context.Context, tenantID, id uuid.UUID) (Job, bool, error)
	FindUser(ctx context.Context, tenantID, id uuid.UUID) (User, bool, error)
}

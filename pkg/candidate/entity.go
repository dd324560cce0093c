package candidate

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vbncursed/talentgate/pkg/directory"
)

// Actor is the authenticated caller as seen by the domain.
type Actor struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
	Role     string
}

func (a Actor) IsAdmin() bool { return a.Role == directory.RoleAdmin }

// Rejection is the metadata stored while a candidate sits in the rejection
// stage. Cleared on any move to a non-rejection stage.
type Rejection struct {
	Type   string `json:"rejectionType,omitempty"`
	Reason string `json:"rejectionReason,omitempty"`
}

func (r Rejection) Empty() bool { return r.Type == "" && r.Reason == "" }

// HistoryEntry is one audit record of a stage transition. Stage names are
// stored, not ids, so history stays readable if a stage is ever renamed.
// Entries are append-only and never edited or removed.
type HistoryEntry struct {
	FromStage string    `json:"from"`
	ToStage   string    `json:"to"`
	ChangedBy uuid.UUID `json:"changedBy"`
	ChangedAt time.Time `json:"changedAt"`
	Comment   string    `json:"comment"`
}

// Candidate is the tenant-scoped pipeline aggregate. Optional references are
// uuid.Nil when unset.
type Candidate struct {
	ID         uuid.UUID `json:"id"`
	TenantID   uuid.UUID `json:"tenantId"`
	FirstName  string    `json:"firstName"`
	MiddleName string    `json:"middleName,omitempty"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	Mobile     string    `json:"mobile"`

	SourceID            uuid.UUID `json:"sourceId"`
	CurrentLocationID   uuid.UUID `json:"currentLocationId,omitempty"`
	PreferredLocationID uuid.UUID `json:"preferredLocationId,omitempty"`
	JobID               uuid.UUID `json:"jobId,omitempty"`

	OwnerID   uuid.UUID `json:"ownerId"`
	CreatedBy uuid.UUID `json:"createdBy"`

	StageID   uuid.UUID `json:"stageId"`
	Rejection Rejection `json:"rejection,omitempty"`

	ResumeID uuid.UUID `json:"resumeId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c Candidate) FullName() string {
	parts := []string{c.FirstName, c.MiddleName, c.LastName}
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// ListFilter narrows candidate queries. OwnerID is the visibility constraint
// for recruiter callers; uuid.Nil means no owner filter (admin view).
type ListFilter struct {
	TenantID uuid.UUID
	OwnerID  uuid.UUID
	StageID  uuid.UUID
	JobID    uuid.UUID
	Search   string
	Limit    int
	Offset   int
}

// StageMove is the atomic unit a stage transition commits: the stage swap,
// the rejection metadata and the audit entry, all or nothing. FromStageID is
// the compare half of the compare-and-set: the update only applies while the
// candidate is still in that stage.
type StageMove struct {
	TenantID    uuid.UUID
	CandidateID uuid.UUID
	FromStageID uuid.UUID
	ToStageID   uuid.UUID
	Rejection   Rejection
	Entry       HistoryEntry
}

// Repository is the persistence port for candidates. Lookups are tenant
// scoped; a foreign-tenant id behaves like a missing one.
type Repository interface {
	Create(ctx context.Context, c Candidate) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (Candidate, error)
	List(ctx context.Context, f ListFilter) ([]Candidate, int, error)
	Update(ctx context.Context, c Candidate) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	// MoveStage applies the move with a compare-and-set on FromStageID and
	// appends the history entry in the same transaction. A lost race returns
	// a ConflictError and writes nothing.
	MoveStage(ctx context.Context, m StageMove) error
	History(ctx context.Context, candidateID uuid.UUID) ([]HistoryEntry, error)
}

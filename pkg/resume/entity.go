package resume

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vbncursed/talentgate/pkg/match"
)

// Document is the immutable upload: raw bytes plus declared metadata. It is
// consumed once by the text extractor and never mutated.
type Document struct {
	Data     []byte
	MimeType string
	Filename string
	Size     int64
}

// Status is the funnel classification derived from the match result. It is
// distinct from the candidate's pipeline stage.
type Status string

const (
	// StatusNew marks a resume with no successful analysis at all. This is
	// not the same as a scored-but-weak resume.
	StatusNew           Status = "New"
	StatusPendingReview Status = "Pending Review"
	StatusUnderReview   Status = "Under Review"
	StatusShortlisted   Status = "Shortlisted"
)

// DeriveStatus is a pure function of the match outcome.
func DeriveStatus(pct int, rec match.Recommendation) Status {
	switch {
	case pct >= 75 || rec == match.RecommendationStrong:
		return StatusShortlisted
	case pct >= 50 || rec == match.RecommendationModerate:
		return StatusUnderReview
	default:
		return StatusPendingReview
	}
}

// Record is the persisted resume: blob metadata, best-effort extracted fields
// and the match outcome. A candidate owns at most one current record.
type Record struct {
	ID          uuid.UUID    `json:"id"`
	TenantID    uuid.UUID    `json:"tenantId"`
	CandidateID uuid.UUID    `json:"candidateId,omitempty"`
	URL         string       `json:"url"`
	StorageID   string       `json:"storageId"`
	MimeType    string       `json:"mimeType"`
	OriginalName string      `json:"originalName"`
	Size        int64        `json:"size"`
	Skills      []string     `json:"skills"`
	Experience  string       `json:"experience"`
	Education   string       `json:"education"`
	Match       match.Result `json:"match"`
	Status      Status       `json:"status"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Repository is the persistence port for resume records.
type Repository interface {
	Create(ctx context.Context, rec Record) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (Record, error)
	// LinkCandidate points a record at its owning candidate.
	LinkCandidate(ctx context.Context, id, candidateID uuid.UUID) error
	// Delete removes the record and returns it so the caller can release the
	// backing blob.
	Delete(ctx context.Context, tenantID, id uuid.UUID) (Record, error)
}

package candidate

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vbncursed/talentgate/pkg/analysis"
	"github.com/vbncursed/talentgate/pkg/apperr"
	"github.com/vbncursed/talentgate/pkg/directory"
	"github.com/vbncursed/talentgate/pkg/resume"
	"github.com/vbncursed/talentgate/pkg/stage"
	"github.com/vbncursed/talentgate/pkg/storage/blob"
)

var (
	reEmail  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	reMobile = regexp.MustCompile(`^[0-9]{10,15}$`)
)

// CreateInput is the payload for creating a candidate. Document is optional.
type CreateInput struct {
	FirstName  string
	MiddleName string
	LastName   string
	Email      string
	Mobile     string

	SourceID            uuid.UUID
	CurrentLocationID   uuid.UUID
	PreferredLocationID uuid.UUID
	JobID               uuid.UUID

	// OwnerID may differ from the caller only for admin callers.
	OwnerID uuid.UUID

	Document *resume.Document
}

// UpdateInput carries partial edits; nil/zero fields are left unchanged.
// A new Document replaces the current resume.
type UpdateInput struct {
	FirstName  *string
	MiddleName *string
	LastName   *string
	Email      *string
	Mobile     *string

	SourceID            uuid.UUID
	CurrentLocationID   uuid.UUID
	PreferredLocationID uuid.UUID
	JobID               uuid.UUID

	Document *resume.Document
}

// MoveStageInput is the stage transition request.
type MoveStageInput struct {
	StageID         uuid.UUID
	Comment         string
	RejectionType   string
	RejectionReason string
}

// StageHistoryView is the audit trail plus the derived "in current stage
// since" timestamp.
type StageHistoryView struct {
	CandidateID       uuid.UUID      `json:"candidateId"`
	Name              string         `json:"name"`
	CurrentStage      string         `json:"currentStage"`
	CurrentStageSince time.Time      `json:"currentStageSince"`
	History           []HistoryEntry `json:"history"`
}

// UseCase covers the candidate lifecycle and the stage state machine.
type UseCase interface {
	Create(ctx context.Context, actor Actor, in CreateInput) (Candidate, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (Candidate, error)
	List(ctx context.Context, actor Actor, f ListFilter) ([]Candidate, int, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, in UpdateInput) (Candidate, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error

	MoveStage(ctx context.Context, actor Actor, id uuid.UUID, in MoveStageInput) (Candidate, error)
	StageHistory(ctx context.Context, actor Actor, id uuid.UUID) (StageHistoryView, error)
	ResumeAnalysis(ctx context.Context, actor Actor, id uuid.UUID) (resume.Record, error)

	Stages() []stage.Stage
	ExtendRejectionTypes(ctx context.Context, actor Actor, value string) ([]string, error)
}

type service struct {
	repo      Repository
	resumes   resume.Repository
	dir       directory.Directory
	blobs     blob.Store
	analyzer  *analysis.Analyzer
	stages    *stage.Catalog
	stageRepo stage.Repository
	log       *zap.Logger
}

func NewService(
	repo Repository,
	resumes resume.Repository,
	dir directory.Directory,
	blobs blob.Store,
	analyzer *analysis.Analyzer,
	stages *stage.Catalog,
	stageRepo stage.Repository,
	log *zap.Logger,
) UseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &service{
		repo:      repo,
		resumes:   resumes,
		dir:       dir,
		blobs:     blobs,
		analyzer:  analyzer,
		stages:    stages,
		stageRepo: stageRepo,
		log:       log,
	}
}

func (s *service) Create(ctx context.Context, actor Actor, in CreateInput) (Candidate, error) {
	if !actor.IsAdmin() && actor.Role != directory.RoleRecruiter {
		return Candidate{}, apperr.Unauthorized("only admins and recruiters can add candidates")
	}
	if err := validateIdentity(in.FirstName, in.LastName, in.Email, in.Mobile); err != nil {
		return Candidate{}, err
	}
	if in.SourceID == uuid.Nil {
		return Candidate{}, apperr.Validation("source", "source is required")
	}
	if err := s.validateReferences(ctx, actor.TenantID, in.SourceID, in.CurrentLocationID, in.PreferredLocationID, in.JobID); err != nil {
		return Candidate{}, err
	}

	ownerID, err := s.resolveOwner(ctx, actor, in.OwnerID)
	if err != nil {
		return Candidate{}, err
	}

	first, _ := s.stages.ByName(stage.DefaultNames[0])
	now := time.Now().UTC()
	cand := Candidate{
		ID:                  uuid.New(),
		TenantID:            actor.TenantID,
		FirstName:           in.FirstName,
		MiddleName:          in.MiddleName,
		LastName:            in.LastName,
		Email:               in.Email,
		Mobile:              in.Mobile,
		SourceID:            in.SourceID,
		CurrentLocationID:   in.CurrentLocationID,
		PreferredLocationID: in.PreferredLocationID,
		JobID:               in.JobID,
		OwnerID:             ownerID,
		CreatedBy:           actor.UserID,
		StageID:             first.ID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	var rec *resume.Record
	if in.Document != nil {
		rec, err = s.processDocument(ctx, actor.TenantID, in.JobID, *in.Document)
		if err != nil {
			return Candidate{}, err
		}
		cand.ResumeID = rec.ID
	}

	if err := s.repo.Create(ctx, cand); err != nil {
		// No partial writes: release the resume created for this candidate.
		if rec != nil {
			s.discardRecord(ctx, actor.TenantID, *rec)
		}
		return Candidate{}, err
	}
	if rec != nil {
		if err := s.resumes.LinkCandidate(ctx, rec.ID, cand.ID); err != nil {
			s.log.Warn("link resume to candidate failed", zap.Error(err))
		}
	}
	return cand, nil
}

func (s *service) Get(ctx context.Context, actor Actor, id uuid.UUID) (Candidate, error) {
	return s.loadAccessible(ctx, actor, id)
}

func (s *service) List(ctx context.Context, actor Actor, f ListFilter) ([]Candidate, int, error) {
	f.TenantID = actor.TenantID
	if !actor.IsAdmin() {
		// Recruiters only see candidates they own; the constraint lives in
		// the query, not in after-the-fact filtering.
		f.OwnerID = actor.UserID
	}
	if f.Limit <= 0 {
		f.Limit = 50
	}
	return s.repo.List(ctx, f)
}

func (s *service) Update(ctx context.Context, actor Actor, id uuid.UUID, in UpdateInput) (Candidate, error) {
	cand, err := s.loadAccessible(ctx, actor, id)
	if err != nil {
		return Candidate{}, err
	}

	applyString(&cand.FirstName, in.FirstName)
	applyString(&cand.MiddleName, in.MiddleName)
	applyString(&cand.LastName, in.LastName)
	applyString(&cand.Email, in.Email)
	applyString(&cand.Mobile, in.Mobile)
	if err := validateIdentity(cand.FirstName, cand.LastName, cand.Email, cand.Mobile); err != nil {
		return Candidate{}, err
	}

	if in.SourceID != uuid.Nil {
		cand.SourceID = in.SourceID
	}
	if in.CurrentLocationID != uuid.Nil {
		cand.CurrentLocationID = in.CurrentLocationID
	}
	if in.PreferredLocationID != uuid.Nil {
		cand.PreferredLocationID = in.PreferredLocationID
	}
	if in.JobID != uuid.Nil {
		cand.JobID = in.JobID
	}
	if err := s.validateReferences(ctx, actor.TenantID, cand.SourceID, cand.CurrentLocationID, cand.PreferredLocationID, cand.JobID); err != nil {
		return Candidate{}, err
	}

	oldResumeID := cand.ResumeID
	var newRec *resume.Record
	if in.Document != nil {
		newRec, err = s.processDocument(ctx, actor.TenantID, cand.JobID, *in.Document)
		if err != nil {
			return Candidate{}, err
		}
		cand.ResumeID = newRec.ID
	}

	cand.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, cand); err != nil {
		if newRec != nil {
			s.discardRecord(ctx, actor.TenantID, *newRec)
		}
		return Candidate{}, err
	}
	if newRec != nil {
		if err := s.resumes.LinkCandidate(ctx, newRec.ID, cand.ID); err != nil {
			s.log.Warn("link resume to candidate failed", zap.Error(err))
		}
		// The old record goes away only after the replacement is durably
		// committed; the candidate never points at a deleted resume.
		if oldResumeID != uuid.Nil {
			s.releaseResume(ctx, actor.TenantID, oldResumeID)
		}
	}
	return cand, nil
}

func (s *service) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	cand, err := s.loadAccessible(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, actor.TenantID, id); err != nil {
		return err
	}
	if cand.ResumeID != uuid.Nil {
		s.releaseResume(ctx, actor.TenantID, cand.ResumeID)
	}
	return nil
}

func (s *service) ResumeAnalysis(ctx context.Context, actor Actor, id uuid.UUID) (resume.Record, error) {
	cand, err := s.loadAccessible(ctx, actor, id)
	if err != nil {
		return resume.Record{}, err
	}
	if cand.ResumeID == uuid.Nil {
		return resume.Record{}, fmt.Errorf("candidate has no resume: %w", apperr.ErrNotFound)
	}
	return s.resumes.GetByID(ctx, actor.TenantID, cand.ResumeID)
}

// processDocument stores the blob and analyzes the document against the job
// description (when a job reference supplies one). An unreadable document is
// not fatal: the record is persisted unscored with status New.
func (s *service) processDocument(ctx context.Context, tenantID, jobID uuid.UUID, doc resume.Document) (*resume.Record, error) {
	jobDesc := ""
	if jobID != uuid.Nil {
		job, ok, err := s.dir.FindJob(ctx, tenantID, jobID)
		if err != nil {
			return nil, err
		}
		if ok {
			jobDesc = job.Description
		}
	}

	recID := uuid.New()
	hint := fmt.Sprintf("tenants/%s/resumes/resume_%s%s", tenantID, recID, filepath.Ext(doc.Filename))
	obj, err := s.blobs.Put(ctx, doc.Data, hint)
	if err != nil {
		return nil, fmt.Errorf("store resume: %w", err)
	}

	now := time.Now().UTC()
	rec := resume.Record{
		ID:           recID,
		TenantID:     tenantID,
		URL:          obj.URL,
		StorageID:    obj.StorageID,
		MimeType:     doc.MimeType,
		OriginalName: doc.Filename,
		Size:         doc.Size,
		Skills:       []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if jobDesc == "" {
		rec.Match = analysis.UnscoredMatch()
		rec.Status = resume.StatusNew
	} else {
		out, err := s.analyzer.Analyze(ctx, doc, jobDesc)
		var extractErr *apperr.ExtractionError
		switch {
		case err == nil:
			rec.Skills = out.Extracted.Skills
			rec.Experience = out.Extracted.Experience
			rec.Education = out.Extracted.Education
			rec.Match = out.Match
			rec.Status = out.Status
		case errors.As(err, &extractErr):
			// Scoring is impossible but the upload still succeeds.
			s.log.Warn("resume text extraction failed", zap.Error(err))
			rec.Match = analysis.UnscoredMatch()
			rec.Status = resume.StatusNew
		default:
			_ = s.blobs.Delete(ctx, obj.StorageID)
			return nil, err
		}
	}

	if err := s.resumes.Create(ctx, rec); err != nil {
		_ = s.blobs.Delete(ctx, obj.StorageID)
		return nil, fmt.Errorf("save resume record: %w", err)
	}
	return &rec, nil
}

// discardRecord removes a freshly created record after the surrounding
// operation failed. Best effort; the operation's own error wins.
func (s *service) discardRecord(ctx context.Context, tenantID uuid.UUID, rec resume.Record) {
	if _, err := s.resumes.Delete(ctx, tenantID, rec.ID); err != nil {
		s.log.Warn("discard resume record failed", zap.Error(err))
	}
	if err := s.blobs.Delete(ctx, rec.StorageID); err != nil {
		s.log.Warn("discard resume blob failed", zap.Error(err))
	}
}

// releaseResume deletes a record and its backing blob, record first.
func (s *service) releaseResume(ctx context.Context, tenantID, resumeID uuid.UUID) {
	rec, err := s.resumes.Delete(ctx, tenantID, resumeID)
	if err != nil {
		s.log.Warn("delete resume record failed", zap.Error(err))
		return
	}
	if err := s.blobs.Delete(ctx, rec.StorageID); err != nil {
		s.log.Warn("delete resume blob failed", zap.Error(err))
	}
}

func (s *service) loadAccessible(ctx context.Context, actor Actor, id uuid.UUID) (Candidate, error) {
	cand, err := s.repo.GetByID(ctx, actor.TenantID, id)
	if err != nil {
		return Candidate{}, err
	}
	if !actor.IsAdmin() && cand.OwnerID != actor.UserID {
		return Candidate{}, apperr.Unauthorized("candidate is owned by another recruiter")
	}
	return cand, nil
}

func (s *service) resolveOwner(ctx context.Context, actor Actor, ownerID uuid.UUID) (uuid.UUID, error) {
	if ownerID == uuid.Nil || ownerID == actor.UserID {
		return actor.UserID, nil
	}
	if !actor.IsAdmin() {
		return uuid.Nil, apperr.Unauthorized("recruiters cannot assign candidates to other owners")
	}
	owner, ok, err := s.dir.FindUser(ctx, actor.TenantID, ownerID)
	if err != nil {
		return uuid.Nil, err
	}
	if !ok || !owner.CanOwnCandidates() {
		return uuid.Nil, apperr.Validation("owner", "owner must be an admin or recruiter in this tenant")
	}
	return ownerID, nil
}

func (s *service) validateReferences(ctx context.Context, tenantID, sourceID, currentLoc, preferredLoc, jobID uuid.UUID) error {
	if sourceID != uuid.Nil {
		_, ok, err := s.dir.FindSource(ctx, tenantID, sourceID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Validation("source", "invalid source selected")
		}
	}
	if currentLoc != uuid.Nil {
		_, ok, err := s.dir.FindLocation(ctx, tenantID, currentLoc)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Validation("currentLocation", "invalid current location")
		}
	}
	if preferredLoc != uuid.Nil {
		_, ok, err := s.dir.FindLocation(ctx, tenantID, preferredLoc)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Validation("preferredLocation", "invalid preferred location")
		}
	}
	if jobID != uuid.Nil {
		_, ok, err := s.dir.FindJob(ctx, tenantID, jobID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Validation("jobId", "invalid job selected")
		}
	}
	return nil
}

func validateIdentity(first, last, email, mobile string) error {
	if first == "" {
		return apperr.Validation("firstName", "first name is required")
	}
	if last == "" {
		return apperr.Validation("lastName", "last name is required")
	}
	if !reEmail.MatchString(email) {
		return apperr.Validation("email", "invalid email address")
	}
	if !reMobile.MatchString(mobile) {
		return apperr.Validation("mobile", "mobile must be 10-15 digits")
	}
	return nil
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

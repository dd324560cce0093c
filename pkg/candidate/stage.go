package candidate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vbncursed/talentgate/pkg/apperr"
	"github.com/vbncursed/talentgate/pkg/stage"
)

// MoveStage validates and applies a stage transition. The move, the rejection
// metadata and the audit entry commit atomically; a concurrent transition on
// the same candidate loses the compare-and-set and gets a conflict instead of
// silently overwriting history.
func (s *service) MoveStage(ctx context.Context, actor Actor, id uuid.UUID, in MoveStageInput) (Candidate, error) {
	target, ok := s.stages.ByID(in.StageID)
	if !ok {
		return Candidate{}, apperr.Validation("stageId", "invalid stage selected")
	}

	// The actor must itself resolve to a user in the candidate's tenant.
	if _, ok, err := s.dir.FindUser(ctx, actor.TenantID, actor.UserID); err != nil {
		return Candidate{}, err
	} else if !ok {
		return Candidate{}, apperr.Unauthorized("user not found in this tenant")
	}

	cand, err := s.loadAccessible(ctx, actor, id)
	if err != nil {
		return Candidate{}, err
	}
	if cand.StageID == target.ID {
		return Candidate{}, apperr.Conflict("stage", "candidate is already in this stage")
	}

	var rej Rejection
	if s.stages.IsRejection(target) {
		if in.RejectionType == "" {
			return Candidate{}, apperr.Validation("rejectionType", "rejection type is required for the rejection stage")
		}
		if !s.stages.HasRejectionType(target.ID, in.RejectionType) {
			return Candidate{}, apperr.Validation("rejectionType", "unknown rejection type")
		}
		rej = Rejection{Type: in.RejectionType, Reason: in.RejectionReason}
	}
	// Moving to a non-rejection stage leaves rej zero, clearing any prior
	// rejection metadata.

	fromName := "Not assigned"
	if from, ok := s.stages.ByID(cand.StageID); ok {
		fromName = from.Name
	}
	comment := in.Comment
	if comment == "" {
		comment = fmt.Sprintf("Stage changed from %s to %s", fromName, target.Name)
	}

	move := StageMove{
		TenantID:    cand.TenantID,
		CandidateID: cand.ID,
		FromStageID: cand.StageID,
		ToStageID:   target.ID,
		Rejection:   rej,
		Entry: HistoryEntry{
			FromStage: fromName,
			ToStage:   target.Name,
			ChangedBy: actor.UserID,
			ChangedAt: time.Now().UTC(),
			Comment:   comment,
		},
	}
	if err := s.repo.MoveStage(ctx, move); err != nil {
		return Candidate{}, err
	}

	cand.StageID = target.ID
	cand.Rejection = rej
	cand.UpdatedAt = move.Entry.ChangedAt
	return cand, nil
}

// StageHistory returns the audit trail for a candidate along with when it
// entered its current stage. When a candidate re-enters a stage it visited
// before, the *most recent* entry into that stage name wins, so the "since"
// clock restarts.
func (s *service) StageHistory(ctx context.Context, actor Actor, id uuid.UUID) (StageHistoryView, error) {
	cand, err := s.loadAccessible(ctx, actor, id)
	if err != nil {
		return StageHistoryView{}, err
	}
	entries, err := s.repo.History(ctx, cand.ID)
	if err != nil {
		return StageHistoryView{}, err
	}

	currentName := "Not assigned"
	if st, ok := s.stages.ByID(cand.StageID); ok {
		currentName = st.Name
	}
	since := cand.CreatedAt
	for _, e := range entries {
		if e.ToStage == currentName && e.ChangedAt.After(since) {
			since = e.ChangedAt
		}
	}

	return StageHistoryView{
		CandidateID:       cand.ID,
		Name:              cand.FullName(),
		CurrentStage:      currentName,
		CurrentStageSince: since,
		History:           entries,
	}, nil
}

// Stages lists the catalog in funnel order.
func (s *service) Stages() []stage.Stage {
	return s.stages.List()
}

// ExtendRejectionTypes adds a value to the shared rejection-type catalog.
// Admin only; the catalog is tenant-independent.
func (s *service) ExtendRejectionTypes(ctx context.Context, actor Actor, value string) ([]string, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Unauthorized("only admins can extend rejection types")
	}
	if value == "" {
		return nil, apperr.Validation("rejectionType", "value is required")
	}
	rejected, ok := s.stages.ByName(stage.RejectedName)
	if !ok {
		return nil, fmt.Errorf("rejection stage missing from catalog: %w", apperr.ErrNotFound)
	}
	types, _ := s.stages.AddRejectionType(rejected.ID, value)
	if err := s.stageRepo.SaveRejectionTypes(ctx, rejected.ID, types); err != nil {
		return nil, err
	}
	return types, nil
}

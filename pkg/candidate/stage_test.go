package candidate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/vbncursed/talentgate/pkg/apperr"
	"github.com/vbncursed/talentgate/pkg/stage"
)

func TestMoveStageRecordsHistory(t *testing.T) {
	f := newFixture()
	cand, err := f.createCandidate(f.recruiter, "asha@example.com", "9876543210")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	screening := f.stageByName("Screening")
	moved, err := f.svc.MoveStage(context.Background(), f.recruiter, cand.ID, MoveStageInput{StageID: screening.ID})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if moved.StageID != screening.ID {
		t.Fatalf("expected stage %s, got %s", screening.ID, moved.StageID)
	}

	entries, err := f.repo.History(context.Background(), cand.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(entries))
	}
	e := entries[0]
	if e.FromStage != "Sourced" || e.ToStage != "Screening" {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if e.ChangedBy != f.recruiter.UserID {
		t.Fatalf("expected actor recorded, got %s", e.ChangedBy)
	}
	if e.Comment != "Stage changed from Sourced to Screening" {
		t.Fatalf("unexpected auto comment: %q", e.Comment)
	}
}

func TestMoveStageCustomCommentKept(t *testing.T) {
	f := newFixture()
	cand, _ := f.createCandidate(f.recruiter, "asha@example.com", "9876543210")

	screening := f.stageByName("Screening")
	_, err := f.svc.MoveStage(context.Background(), f.recruiter, cand.ID, MoveStageInput{
		StageID: screening.ID,
		Comment: "Phone screen scheduled",
	})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	entries, _ := f.repo.History(context.Background(), cand.ID)
	if entries[0].Comment != "Phone screen scheduled" {
		t.Fatalf("custom comment must win, got %q", entries[0].Comment)
	}
}

func TestMoveStageNoOpRejectedWithoutHistory(t *testing.T) {
	f := newFixture()
	cand, _ := f.createCandidate(f.recruiter, "asha@example.com", "9876543210")

	sourced := f.stageByName("Sourced")
	_, err := f.svc.MoveStage(context.Background(), f.recruiter, cand.ID, MoveStageInput{StageID: sourced.ID})
	var conflict *apperr.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	entries, _ := f.repo.History(context.Background(), cand.ID)
	if len(entries) != 0 {
		t.Fatalf("a rejected move must not write history, got %d entries", len(entries))
	}
}

func TestMoveStageUnknownStage(t *testing.T) {
	f := newFixture()
	cand, _ := f.createCandidate(f.recruiter, "asha@example.com", "9876543210")

	_, err := f.svc.MoveStage(context.Background(), f.recruiter, cand.ID, MoveStageInput{})
	var validation *apperr.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestMoveToRejectedRequiresKnownType(t *testing.T) {
	f := newFixture()
	cand, _ := f.createCandidate(f.recruiter, "asha@example.com", "9876543210")
	rejected := f.stageByName(stage.RejectedName)

	_, err := f.svc.MoveStage(context.Background(), f.recruiter, cand.ID, MoveStageInput{StageID: rejected.ID})
	var validation *apperr.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("missing rejection type must fail validation, got %v", err)
	}

	_, err = f.svc.MoveStage(context.Background(), f.recruiter, cand.ID, MoveStageInput{
		StageID:       rejected.ID,
		RejectionType: "Made Up Reason",
	})
	if !errors.As(err, &validation) {
		t.Fatalf("unknown rejection type must fail validation, got %v", err)
	}

	moved, err := f.svc.MoveStage(context.Background(), f.recruiter, cand.ID, MoveStageInput{
		StageID:         rejected.ID,
		RejectionType:   "R1 Rejected",
		RejectionReason: "Failed the screening call",
	})
	if err != nil {
		t.Fatalf("move to rejected: %v", err)
	}
	if moved.Rejection.Type != "R1 Rejected" || moved.Rejection.Reason != "Failed the screening call" {
		t.Fatalf("rejection metadata not stored: %+v", moved.Rejection)
	}
}

func TestMoveOutOfRejectedClearsRejection(t *testing.T) {
	f := newFixture()
	cand, _ := f.createCandidate(f.recruiter, "asha@example.com", "9876543210")
	rejected := f.stageByName(stage.RejectedName)
	screening := f.stageByName("Screening")

	if _, err := f.svc.MoveStage(context.Background(), f.recruiter, cand.ID, MoveStageInput{
		StageID:       rejected.ID,
		RejectionType: "R1 Rejected",
	}); err != nil {
		t.Fatalf("reject: %v", err)
	}
	moved, err := f.svc.MoveStage(context.Background(), f.recruiter, cand.ID, MoveStageInput{StageID: screening.ID})
	if err != nil {
		t.Fatalf("move back: %v", err)
	}
	if !moved.Rejection.Empty() {
		t.Fatalf("rejection metadata must be cleared, got %+v", moved.Rejection)
	}
}

func TestMoveStageOwnershipAuthorization(t *testing.T) {
	f := newFixture()
	cand, _ := f.createCandidate(f.recruiter, "asha@example.com", "9876543210")
	screening := f.stageByName("Screening")

	_, err := f.svc.MoveStage(context.Background(), f.recruiter2, cand.ID, MoveStageInput{StageID: screening.ID})
	var authz *apperr.AuthorizationError
	if !errors.As(err, &authz) {
		t.Fatalf("another recruiter must be forbidden, got %v", err)
	}

	if _, err := f.svc.MoveStage(context.Background(), f.admin, cand.ID, MoveStageInput{StageID: screening.ID}); err != nil {
		t.Fatalf("admin must be allowed: %v", err)
	}
}

// gatedRepo delays GetByID until a fixed number of readers have arrived, so
// concurrent transitions are guaranteed to load the same candidate snapshot
// before either of them reaches the compare-and-set.
type gatedRepo struct {
	*memRepo
	mu      sync.Mutex
	parties int
	waiting int
	release chan struct{}
}

func newGatedRepo(inner *memRepo, parties int) *gatedRepo {
	return &gatedRepo{memRepo: inner, parties: parties, release: make(chan struct{})}
}

func (r *gatedRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (Candidate, error) {
	// Snapshot before parking at the gate: reading after release would let the
	// goroutine that opens the gate commit its move before the others read.
	c, err := r.memRepo.GetByID(ctx, tenantID, id)
	r.mu.Lock()
	r.waiting++
	if r.waiting == r.parties {
		close(r.release)
	}
	r.mu.Unlock()
	<-r.release
	return c, err
}

func TestMoveStageConcurrentOnlyOneWins(t *testing.T) {
	f := newFixture()
	cand, _ := f.createCandidate(f.admin, "asha@example.com", "9876543210")
	screening := f.stageByName("Screening")
	l1 := f.stageByName("L1 Interview")

	// Both movers must read the candidate in its starting stage; without the
	// gate the scheduler may serialize them and both moves legitimately win.
	gate := newGatedRepo(f.repo, 2)
	svc := f.serviceWith(gate)

	targets := []MoveStageInput{{StageID: screening.ID}, {StageID: l1.ID}}
	errs := make([]error, len(targets))
	var wg sync.WaitGroup
	for i, in := range targets {
		wg.Add(1)
		go func(i int, in MoveStageInput) {
			defer wg.Done()
			_, errs[i] = svc.MoveStage(context.Background(), f.admin, cand.ID, in)
		}(i, in)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		var conflict *apperr.ConflictError
		switch {
		case err == nil:
			wins++
		case errors.As(err, &conflict):
			conflicts++
		default:
			t.Fatalf("unexpected error kind: %v", err)
		}
	}
	if wins != 1 || conflicts != 1 {
		t.Fatalf("expected exactly one winner, got wins=%d conflicts=%d", wins, conflicts)
	}
	entries, _ := f.repo.History(context.Background(), cand.ID)
	if len(entries) != 1 {
		t.Fatalf("expected exactly one history entry, got %d", len(entries))
	}
}

func TestStageHistorySinceRestartsOnReentry(t *testing.T) {
	f := newFixture()
	cand, _ := f.createCandidate(f.recruiter, "asha@example.com", "9876543210")
	screening := f.stageByName("Screening")
	sourced := f.stageByName("Sourced")

	ctx := context.Background()
	if _, err := f.svc.MoveStage(ctx, f.recruiter, cand.ID, MoveStageInput{StageID: screening.ID}); err != nil {
		t.Fatalf("move: %v", err)
	}
	if _, err := f.svc.MoveStage(ctx, f.recruiter, cand.ID, MoveStageInput{StageID: sourced.ID}); err != nil {
		t.Fatalf("move back: %v", err)
	}

	view, err := f.svc.StageHistory(ctx, f.recruiter, cand.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if view.CurrentStage != "Sourced" {
		t.Fatalf("expected Sourced, got %q", view.CurrentStage)
	}
	if len(view.History) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(view.History))
	}
	// Re-entry restarts the clock: since must match the second transition,
	// not the candidate's creation time.
	if !view.CurrentStageSince.Equal(view.History[1].ChangedAt) {
		t.Fatalf("since %v must equal the re-entry time %v", view.CurrentStageSince, view.History[1].ChangedAt)
	}
}

func TestExtendRejectionTypes(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ExtendRejectionTypes(context.Background(), f.recruiter, "Ghosted")
	var authz *apperr.AuthorizationError
	if !errors.As(err, &authz) {
		t.Fatalf("recruiters must not extend rejection types, got %v", err)
	}

	types, err := f.svc.ExtendRejectionTypes(context.Background(), f.admin, "Ghosted")
	if err != nil {
		t.Fatalf("extend: %v", err)
	}
	if !contains(types, "Ghosted") {
		t.Fatalf("expected Ghosted in %v", types)
	}
	rejected := f.stageByName(stage.RejectedName)
	if saved := f.stageRepo.saved[rejected.ID]; !contains(saved, "Ghosted") {
		t.Fatalf("extension must be persisted, saved %v", saved)
	}

	// adding a duplicate is a no-op
	again, err := f.svc.ExtendRejectionTypes(context.Background(), f.admin, "Ghosted")
	if err != nil {
		t.Fatalf("extend again: %v", err)
	}
	if len(again) != len(types) {
		t.Fatalf("duplicate must not grow the list: %v vs %v", again, types)
	}

	// the new type is immediately usable on a move
	cand, _ := f.createCandidate(f.admin, "asha@example.com", "9876543210")
	if _, err := f.svc.MoveStage(context.Background(), f.admin, cand.ID, MoveStageInput{
		StageID:       rejected.ID,
		RejectionType: "Ghosted",
	}); err != nil {
		t.Fatalf("move with new type: %v", err)
	}
}

func contains(items []string, want string) bool {
	for _, it := range items {
		if it == want {
			return true
		}
	}
	return false
}

func TestStagesListedInFunnelOrder(t *testing.T) {
	f := newFixture()
	stages := f.svc.Stages()
	if len(stages) != len(stage.DefaultNames) {
		t.Fatalf("expected %d stages, got %d", len(stage.DefaultNames), len(stages))
	}
	var names []string
	for _, s := range stages {
		names = append(names, s.Name)
	}
	if strings.Join(names, ",") != strings.Join(stage.DefaultNames, ",") {
		t.Fatalf("unexpected order: %v", names)
	}
}

package candidate

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vbncursed/talentgate/pkg/analysis"
	"github.com/vbncursed/talentgate/pkg/apperr"
	"github.com/vbncursed/talentgate/pkg/directory"
	"github.com/vbncursed/talentgate/pkg/resume"
	"github.com/vbncursed/talentgate/pkg/stage"
	"github.com/vbncursed/talentgate/pkg/storage/blob"
)

// memRepo is an in-memory Repository mirroring the SQL one, including the
// unique constraints and the compare-and-set on stage moves.
type memRepo struct {
	mu      sync.Mutex
	cands   map[uuid.UUID]Candidate
	history map[uuid.UUID][]HistoryEntry
}

func newMemRepo() *memRepo {
	return &memRepo{
		cands:   make(map[uuid.UUID]Candidate),
		history: make(map[uuid.UUID][]HistoryEntry),
	}
}

func (r *memRepo) Create(_ context.Context, c Candidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.cands {
		if other.TenantID != c.TenantID {
			continue
		}
		if other.Email == c.Email {
			return apperr.Conflict("email", "a candidate with this email already exists")
		}
		if other.Mobile == c.Mobile {
			return apperr.Conflict("mobile", "a candidate with this mobile already exists")
		}
	}
	r.cands[c.ID] = c
	return nil
}

func (r *memRepo) GetByID(_ context.Context, tenantID, id uuid.UUID) (Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cands[id]
	if !ok || c.TenantID != tenantID {
		return Candidate{}, apperr.ErrNotFound
	}
	return c, nil
}

func (r *memRepo) List(_ context.Context, f ListFilter) ([]Candidate, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Candidate
	for _, c := range r.cands {
		if c.TenantID != f.TenantID {
			continue
		}
		if f.OwnerID != uuid.Nil && c.OwnerID != f.OwnerID {
			continue
		}
		if f.StageID != uuid.Nil && c.StageID != f.StageID {
			continue
		}
		if f.JobID != uuid.Nil && c.JobID != f.JobID {
			continue
		}
		out = append(out, c)
	}
	return out, len(out), nil
}

func (r *memRepo) Update(_ context.Context, c Candidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.cands[c.ID]
	if !ok || cur.TenantID != c.TenantID {
		return apperr.ErrNotFound
	}
	r.cands[c.ID] = c
	return nil
}

func (r *memRepo) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cands[id]
	if !ok || c.TenantID != tenantID {
		return apperr.ErrNotFound
	}
	delete(r.cands, id)
	delete(r.history, id)
	return nil
}

func (r *memRepo) MoveStage(_ context.Context, m StageMove) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cands[m.CandidateID]
	if !ok || c.TenantID != m.TenantID || c.StageID != m.FromStageID {
		return apperr.Conflict("stage", "candidate stage changed concurrently")
	}
	c.StageID = m.ToStageID
	c.Rejection = m.Rejection
	c.UpdatedAt = m.Entry.ChangedAt
	r.cands[m.CandidateID] = c
	r.history[m.CandidateID] = append(r.history[m.CandidateID], m.Entry)
	return nil
}

func (r *memRepo) History(_ context.Context, candidateID uuid.UUID) ([]HistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]HistoryEntry(nil), r.history[candidateID]...), nil
}

type memResumes struct {
	mu   sync.Mutex
	recs map[uuid.UUID]resume.Record
	ops  []string
}

func newMemResumes() *memResumes {
	return &memResumes{recs: make(map[uuid.UUID]resume.Record)}
}

func (r *memResumes) Create(_ context.Context, rec resume.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recs[rec.ID] = rec
	r.ops = append(r.ops, "create "+rec.ID.String())
	return nil
}

func (r *memResumes) GetByID(_ context.Context, tenantID, id uuid.UUID) (resume.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recs[id]
	if !ok || rec.TenantID != tenantID {
		return resume.Record{}, apperr.ErrNotFound
	}
	return rec, nil
}

func (r *memResumes) LinkCandidate(_ context.Context, id, candidateID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recs[id]
	if !ok {
		return apperr.ErrNotFound
	}
	rec.CandidateID = candidateID
	r.recs[id] = rec
	return nil
}

func (r *memResumes) Delete(_ context.Context, tenantID, id uuid.UUID) (resume.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recs[id]
	if !ok || rec.TenantID != tenantID {
		return resume.Record{}, apperr.ErrNotFound
	}
	delete(r.recs, id)
	r.ops = append(r.ops, "delete "+id.String())
	return rec, nil
}

// memBlobs records Put/Delete order so tests can assert that an old blob is
// only released after its replacement is durable.
type memBlobs struct {
	mu   sync.Mutex
	data map[string][]byte
	ops  []string
	next int
}

func newMemBlobs() *memBlobs { return &memBlobs{data: make(map[string][]byte)} }

func (b *memBlobs) Put(_ context.Context, data []byte, pathHint string) (blob.Object, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	id := fmt.Sprintf("blob-%d", b.next)
	b.data[id] = data
	b.ops = append(b.ops, "put "+id)
	return blob.Object{URL: "/files/" + pathHint, StorageID: id}, nil
}

func (b *memBlobs) Delete(_ context.Context, storageID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, storageID)
	b.ops = append(b.ops, "delete "+storageID)
	return nil
}

type stubDirectory struct {
	sources   map[uuid.UUID]directory.Source
	locations map[uuid.UUID]directory.Location
	jobs      map[uuid.UUID]directory.Job
	users     map[uuid.UUID]directory.User
}

func newStubDirectory() *stubDirectory {
	return &stubDirectory{
		sources:   make(map[uuid.UUID]directory.Source),
		locations: make(map[uuid.UUID]directory.Location),
		jobs:      make(map[uuid.UUID]directory.Job),
		users:     make(map[uuid.UUID]directory.User),
	}
}

func (d *stubDirectory) FindSource(_ context.Context, tenantID, id uuid.UUID) (directory.Source, bool, error) {
	s, ok := d.sources[id]
	if !ok || s.TenantID != tenantID {
		return directory.Source{}, false, nil
	}
	return s, true, nil
}

func (d *stubDirectory) FindLocation(_ context.Context, tenantID, id uuid.UUID) (directory.Location, bool, error) {
	l, ok := d.locations[id]
	if !ok || l.TenantID != tenantID {
		return directory.Location{}, false, nil
	}
	return l, true, nil
}

func (d *stubDirectory) FindJob(_ context.Context, tenantID, id uuid.UUID) (directory.Job, bool, error) {
	j, ok := d.jobs[id]
	if !ok || j.TenantID != tenantID {
		return directory.Job{}, false, nil
	}
	return j, true, nil
}

func (d *stubDirectory) FindUser(_ context.Context, tenantID, id uuid.UUID) (directory.User, bool, error) {
	u, ok := d.users[id]
	if !ok || u.TenantID != tenantID {
		return directory.User{}, false, nil
	}
	return u, true, nil
}

type memStageRepo struct {
	mu    sync.Mutex
	saved map[uuid.UUID][]string
}

func newMemStageRepo() *memStageRepo { return &memStageRepo{saved: make(map[uuid.UUID][]string)} }

func (r *memStageRepo) Load(_ context.Context) ([]stage.Stage, error) { return nil, nil }

func (r *memStageRepo) SaveRejectionTypes(_ context.Context, stageID uuid.UUID, types []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved[stageID] = append([]string(nil), types...)
	return nil
}

// fixture wires a full service over the in-memory fakes with the default
// stage funnel, one tenant, one admin and two recruiters.
type fixture struct {
	svc       UseCase
	repo      *memRepo
	resumes   *memResumes
	blobs     *memBlobs
	dir       *stubDirectory
	catalog   *stage.Catalog
	stageRepo *memStageRepo

	tenantID   uuid.UUID
	admin      Actor
	recruiter  Actor
	recruiter2 Actor
	sourceID   uuid.UUID
	jobID      uuid.UUID
}

func newFixture() *fixture {
	var stages []stage.Stage
	for i, name := range stage.DefaultNames {
		s := stage.Stage{ID: uuid.New(), Name: name, Order: i + 1}
		if name == stage.RejectedName {
			s.RejectionTypes = append([]string(nil), stage.DefaultRejectionTypes...)
		}
		stages = append(stages, s)
	}
	catalog := stage.NewCatalog(stages)

	f := &fixture{
		repo:      newMemRepo(),
		resumes:   newMemResumes(),
		blobs:     newMemBlobs(),
		dir:       newStubDirectory(),
		catalog:   catalog,
		stageRepo: newMemStageRepo(),
		tenantID:  uuid.New(),
		sourceID:  uuid.New(),
		jobID:     uuid.New(),
	}

	f.admin = Actor{UserID: uuid.New(), TenantID: f.tenantID, Role: directory.RoleAdmin}
	f.recruiter = Actor{UserID: uuid.New(), TenantID: f.tenantID, Role: directory.RoleRecruiter}
	f.recruiter2 = Actor{UserID: uuid.New(), TenantID: f.tenantID, Role: directory.RoleRecruiter}
	for _, a := range []Actor{f.admin, f.recruiter, f.recruiter2} {
		f.dir.users[a.UserID] = directory.User{ID: a.UserID, TenantID: f.tenantID, Role: a.Role}
	}
	f.dir.sources[f.sourceID] = directory.Source{ID: f.sourceID, TenantID: f.tenantID, Name: "Referral"}
	f.dir.jobs[f.jobID] = directory.Job{
		ID: f.jobID, TenantID: f.tenantID,
		Title:       "Backend Engineer",
		Description: "python, docker and aws backend role",
	}

	analyzer := analysis.NewAnalyzer(nil, nil, zap.NewNop())
	f.svc = NewService(f.repo, f.resumes, f.dir, f.blobs, analyzer, catalog, f.stageRepo, zap.NewNop())
	return f
}

// serviceWith rebuilds the service over a different Repository, keeping the
// rest of the fixture wiring. Used to interpose on repository reads.
func (f *fixture) serviceWith(repo Repository) UseCase {
	analyzer := analysis.NewAnalyzer(nil, nil, zap.NewNop())
	return NewService(repo, f.resumes, f.dir, f.blobs, analyzer, f.catalog, f.stageRepo, zap.NewNop())
}

func (f *fixture) stageByName(name string) stage.Stage {
	s, _ := f.catalog.ByName(name)
	return s
}

func (f *fixture) createCandidate(actor Actor, email, mobile string) (Candidate, error) {
	return f.svc.Create(context.Background(), actor, CreateInput{
		FirstName: "Asha",
		LastName:  "Iyer",
		Email:     email,
		Mobile:    mobile,
		SourceID:  f.sourceID,
		JobID:     f.jobID,
	})
}

package stage

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// RejectedName is the designated rejection stage. It is the only stage
// carrying a rejection-types catalog.
const RejectedName = "Rejected"

// DefaultNames is the fixed hiring funnel in order. The catalog is global,
// not per tenant.
var DefaultNames = []string{
	"Sourced",
	"Screening",
	"L1 Interview",
	"L2 Interview",
	"HR Round",
	"Offered",
	"Hired",
	RejectedName,
}

// DefaultRejectionTypes seeds the shared rejection sub-reason list.
var DefaultRejectionTypes = []string{"R1 Rejected", "R2 Rejected", "Client Rejected"}

// Stage is one step of the funnel with a unique order.
type Stage struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Order          int       `json:"order"`
	RejectionTypes []string  `json:"rejectionTypes,omitempty"`
}

// Repository loads the catalog and persists rejection-type extensions.
type Repository interface {
	Load(ctx context.Context) ([]Stage, error)
	SaveRejectionTypes(ctx context.Context, stageID uuid.UUID, types []string) error
}

// Catalog is the process-wide stage registry, loaded once at startup. Stage
// identity and order are read-only; only the rejection-type list of the
// rejection stage may grow, guarded by the mutex.
type Catalog struct {
	mu      sync.RWMutex
	ordered []Stage
	byID    map[uuid.UUID]int
}

func NewCatalog(stages []Stage) *Catalog {
	ordered := make([]Stage, len(stages))
	copy(ordered, stages)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })
	byID := make(map[uuid.UUID]int, len(ordered))
	for i, s := range ordered {
		byID[s.ID] = i
	}
	return &Catalog{ordered: ordered, byID: byID}
}

// List returns the stages in funnel order.
func (c *Catalog) List() []Stage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Stage, len(c.ordered))
	copy(out, c.ordered)
	return out
}

func (c *Catalog) ByID(id uuid.UUID) (Stage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byID[id]
	if !ok {
		return Stage{}, false
	}
	return c.ordered[i], true
}

func (c *Catalog) ByName(name string) (Stage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, s := range c.ordered {
		if s.Name == name {
			return s, true
		}
	}
	return Stage{}, false
}

// IsRejection reports whether the stage is the designated rejection stage.
func (c *Catalog) IsRejection(s Stage) bool { return s.Name == RejectedName }

// HasRejectionType checks a value against the stage's current catalog.
func (c *Catalog) HasRejectionType(stageID uuid.UUID, value string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byID[stageID]
	if !ok {
		return false
	}
	for _, t := range c.ordered[i].RejectionTypes {
		if t == value {
			return true
		}
	}
	return false
}

// AddRejectionType extends the shared rejection-type list in memory and
// returns the new list. Adding an existing value is a no-op. The caller is
// responsible for persisting via the Repository.
func (c *Catalog) AddRejectionType(stageID uuid.UUID, value string) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.byID[stageID]
	if !ok {
		return nil, false
	}
	for _, t := range c.ordered[i].RejectionTypes {
		if t == value {
			return append([]string(nil), c.ordered[i].RejectionTypes...), true
		}
	}
	c.ordered[i].RejectionTypes = append(c.ordered[i].RejectionTypes, value)
	return append([]string(nil), c.ordered[i].RejectionTypes...), true
}

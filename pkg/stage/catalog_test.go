package stage

import (
	"testing"

	"github.com/google/uuid"
)

func buildCatalog() (*Catalog, []Stage) {
	var stages []Stage
	// intentionally out of order to exercise sorting
	for i := len(DefaultNames) - 1; i >= 0; i-- {
		s := Stage{ID: uuid.New(), Name: DefaultNames[i], Order: i + 1}
		if s.Name == RejectedName {
			s.RejectionTypes = append([]string(nil), DefaultRejectionTypes...)
		}
		stages = append(stages, s)
	}
	return NewCatalog(stages), stages
}

func TestCatalogOrdersByOrder(t *testing.T) {
	c, _ := buildCatalog()
	list := c.List()
	for i, s := range list {
		if s.Name != DefaultNames[i] {
			t.Fatalf("position %d: expected %q, got %q", i, DefaultNames[i], s.Name)
		}
	}
}

func TestCatalogLookups(t *testing.T) {
	c, _ := buildCatalog()
	rejected, ok := c.ByName(RejectedName)
	if !ok {
		t.Fatalf("rejected stage missing")
	}
	if !c.IsRejection(rejected) {
		t.Fatalf("IsRejection must be true for %q", rejected.Name)
	}
	byID, ok := c.ByID(rejected.ID)
	if !ok || byID.Name != RejectedName {
		t.Fatalf("ByID lookup failed")
	}
	if _, ok := c.ByID(uuid.New()); ok {
		t.Fatalf("unknown id must not resolve")
	}
	sourced, _ := c.ByName("Sourced")
	if c.IsRejection(sourced) {
		t.Fatalf("Sourced is not a rejection stage")
	}
}

func TestCatalogRejectionTypes(t *testing.T) {
	c, _ := buildCatalog()
	rejected, _ := c.ByName(RejectedName)

	if !c.HasRejectionType(rejected.ID, "R1 Rejected") {
		t.Fatalf("default type missing")
	}
	if c.HasRejectionType(rejected.ID, "Ghosted") {
		t.Fatalf("unknown type must not validate")
	}

	types, ok := c.AddRejectionType(rejected.ID, "Ghosted")
	if !ok || len(types) != len(DefaultRejectionTypes)+1 {
		t.Fatalf("add failed: %v", types)
	}
	if !c.HasRejectionType(rejected.ID, "Ghosted") {
		t.Fatalf("added type must validate")
	}

	// duplicate add is a no-op
	again, ok := c.AddRejectionType(rejected.ID, "Ghosted")
	if !ok || len(again) != len(types) {
		t.Fatalf("duplicate add must not grow the list: %v", again)
	}
}

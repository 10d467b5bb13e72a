package inventory

import (
	"testing"

	"github.com/maumlog/maumlog-backend/internal/bigfive"
)

func TestDefaultBankIntegrity(t *testing.T) {
	if got := len(DefaultBank.Items); got != BankSize {
		t.Fatalf("bank has %d items, want %d", got, BankSize)
	}
	perAxis := map[string]int{}
	perFacet := map[string]int{}
	for _, it := range DefaultBank.Items {
		perAxis[it.Axis]++
		perFacet[it.FacetName()]++
	}
	for _, axis := range bigfive.Axes {
		if perAxis[axis] != ItemsPerAxis {
			t.Errorf("axis %s has %d items, want %d", axis, perAxis[axis], ItemsPerAxis)
		}
	}
	if len(perFacet) != 30 {
		t.Fatalf("bank covers %d facets, want 30", len(perFacet))
	}
	for facet, n := range perFacet {
		if n != ItemsPerFacet {
			t.Errorf("facet %s has %d items, want %d", facet, n, ItemsPerFacet)
		}
	}
}

func TestBatchesCoverBankInOrder(t *testing.T) {
	batches := DefaultBank.Batches()
	idx := 0
	for bi, batch := range batches {
		if len(batch) != BatchSize {
			t.Fatalf("batch %d has %d items, want %d", bi, len(batch), BatchSize)
		}
		for _, it := range batch {
			if it != DefaultBank.Items[idx] {
				t.Fatalf("batch %d out of bank order at item %d", bi, idx)
			}
			idx++
		}
	}
	if idx != BankSize {
		t.Fatalf("batches cover %d items, want %d", idx, BankSize)
	}
}

// Each batch should hold one facet index across all five axes, four items
// per (axis, facet) pair.
func TestBatchesAreFacetAligned(t *testing.T) {
	for bi, batch := range DefaultBank.Batches() {
		for _, it := range batch {
			if it.Facet != bi+1 {
				t.Fatalf("batch %d contains facet index %d", bi, it.Facet)
			}
		}
	}
}

func TestLoadBankRejectsBadData(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", "items: []"},
		{"unknown axis", "items:\n  - {text: x, axis: Bravery, facet: 1, direction: plus}"},
		{"bad direction", "items:\n  - {text: x, axis: Neuroticism, facet: 1, direction: sideways}"},
	}
	for _, tc := range cases {
		if _, err := loadBank([]byte(tc.raw)); err == nil {
			t.Errorf("%s: expected error, got none", tc.name)
		}
	}
}

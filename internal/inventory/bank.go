package inventory

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/maumlog/maumlog-backend/internal/bigfive"
)

//go:embed data/bank.yaml
var bankYAML []byte

const (
	// BankSize is the total number of inventory items.
	BankSize = 120
	// BatchCount is the number of facet batches the bank partitions into.
	BatchCount = 6
	// BatchSize is the number of items per batch.
	BatchSize = 20
	// ItemsPerFacet is the number of items keyed to each (axis, facet).
	ItemsPerFacet = 4
	// ItemsPerAxis is the number of items keyed to each axis.
	ItemsPerAxis = 24
)

// Item is one inventory statement. Facet is the 1-based facet index within
// the item's axis; minus-direction items are reverse-keyed when scored.
type Item struct {
	Text      string `yaml:"text"`
	Axis      string `yaml:"axis"`
	Facet     int    `yaml:"facet"`
	Direction string `yaml:"direction"`
}

// FacetName returns the facet label this item is keyed to.
func (it Item) FacetName() string {
	return bigfive.Facets[it.Axis][it.Facet-1]
}

// Bank is the static 120-item question bank in bank order.
type Bank struct {
	Items []Item
}

// Batches partitions the bank into six consecutive batches of 20, in bank
// order. The bank is laid out so each batch covers one facet index across
// all five axes.
func (b *Bank) Batches() [BatchCount][]Item {
	var out [BatchCount][]Item
	for i := 0; i < BatchCount; i++ {
		out[i] = b.Items[i*BatchSize : (i+1)*BatchSize]
	}
	return out
}

func loadBank(raw []byte) (*Bank, error) {
	var doc struct {
		Items []Item `yaml:"items"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse bank: %w", err)
	}
	if len(doc.Items) != BankSize {
		return nil, fmt.Errorf("bank has %d items, want %d", len(doc.Items), BankSize)
	}
	perAxis := map[string]int{}
	perFacet := map[string]int{}
	for i, it := range doc.Items {
		if _, ok := bigfive.Facets[it.Axis]; !ok {
			return nil, fmt.Errorf("bank item %d: unknown axis %q", i, it.Axis)
		}
		if it.Facet < 1 || it.Facet > 6 {
			return nil, fmt.Errorf("bank item %d: facet %d out of range", i, it.Facet)
		}
		if it.Direction != "plus" && it.Direction != "minus" {
			return nil, fmt.Errorf("bank item %d: bad direction %q", i, it.Direction)
		}
		perAxis[it.Axis]++
		perFacet[it.FacetName()]++
	}
	for axis, n := range perAxis {
		if n != ItemsPerAxis {
			return nil, fmt.Errorf("axis %s has %d items, want %d", axis, n, ItemsPerAxis)
		}
	}
	for facet, n := range perFacet {
		if n != ItemsPerFacet {
			return nil, fmt.Errorf("facet %s has %d items, want %d", facet, n, ItemsPerFacet)
		}
	}
	return &Bank{Items: doc.Items}, nil
}

// DefaultBank is the embedded question bank. Malformed embedded data is a
// build defect, so loading failures panic at init.
var DefaultBank = func() *Bank {
	b, err := loadBank(bankYAML)
	if err != nil {
		panic(fmt.Sprintf("inventory: embedded bank invalid: %v", err))
	}
	return b
}()

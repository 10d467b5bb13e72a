package inventory

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/maumlog/maumlog-backend/internal/bigfive"
)

//go:embed data/norms.yaml
var normsYAML []byte

// Sex is the demographic stratum of the norm table.
type Sex string

const (
	Male   Sex = "male"
	Female Sex = "female"
)

// Demographic defaults applied when the user profile is missing age or
// gender. Deliberate policy, not an error.
const (
	DefaultAge = 23
	DefaultSex = Male
)

// MinAge is the youngest age the norm table covers.
const MinAge = 10

// AgeBands are the canonical NEO-PI age bands, in ascending order.
var AgeBands = []string{"10-19", "20-29", "30-39", "40-49", "50+"}

// AgeBand maps an age to its norm band. Callers validate age >= MinAge
// before lookup.
func AgeBand(age int) string {
	switch {
	case age < 20:
		return "10-19"
	case age < 30:
		return "20-29"
	case age < 40:
		return "30-39"
	case age < 50:
		return "40-49"
	default:
		return "50+"
	}
}

// Norm is a (mean, sd) pair over raw scores.
type Norm struct {
	Mean float64 `yaml:"mean"`
	SD   float64 `yaml:"sd"`
}

// AxisNorm carries the axis-level norm plus per-facet norms.
type AxisNorm struct {
	Mean   float64         `yaml:"mean"`
	SD     float64         `yaml:"sd"`
	Facets map[string]Norm `yaml:"facets"`
}

type normTable map[Sex]map[string]map[string]AxisNorm

func loadNorms(raw []byte) (normTable, error) {
	var table normTable
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("parse norms: %w", err)
	}
	for _, sex := range []Sex{Male, Female} {
		bands, ok := table[sex]
		if !ok {
			return nil, fmt.Errorf("norms missing sex %q", sex)
		}
		for _, band := range AgeBands {
			axes, ok := bands[band]
			if !ok {
				return nil, fmt.Errorf("norms missing band %q for sex %q", band, sex)
			}
			for _, axis := range bigfive.Axes {
				an, ok := axes[axis]
				if !ok {
					return nil, fmt.Errorf("norms missing axis %q for %s/%s", axis, sex, band)
				}
				if an.SD <= 0 {
					return nil, fmt.Errorf("norms %s/%s/%s: sd must be positive", sex, band, axis)
				}
				for _, facet := range bigfive.Facets[axis] {
					fn, ok := an.Facets[facet]
					if !ok {
						return nil, fmt.Errorf("norms missing facet %q for %s/%s/%s", facet, sex, band, axis)
					}
					if fn.SD <= 0 {
						return nil, fmt.Errorf("norms %s/%s/%s/%s: sd must be positive", sex, band, axis, facet)
					}
				}
			}
		}
	}
	return table, nil
}

var defaultNorms = func() normTable {
	t, err := loadNorms(normsYAML)
	if err != nil {
		panic(fmt.Sprintf("inventory: embedded norms invalid: %v", err))
	}
	return t
}()

func lookupNorm(sex Sex, age int, axis string) AxisNorm {
	return defaultNorms[sex][AgeBand(age)][axis]
}

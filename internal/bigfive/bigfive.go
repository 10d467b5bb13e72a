// Package bigfive holds the Big-Five taxonomy shared by the inventory
// engine, the value extractor, and the analysis coordinator: the five axes,
// their short codes, and the 30-facet vocabulary (six facets per axis).
package bigfive

const (
	Neuroticism       = "Neuroticism"
	Extraversion      = "Extraversion"
	Openness          = "Openness"
	Agreeableness     = "Agreeableness"
	Conscientiousness = "Conscientiousness"
)

// Axes in canonical order.
var Axes = []string{Neuroticism, Extraversion, Openness, Agreeableness, Conscientiousness}

// AxisCodes in canonical order, matching Axes.
var AxisCodes = []string{"N", "E", "O", "A", "C"}

var codeByAxis = map[string]string{
	Neuroticism:       "N",
	Extraversion:      "E",
	Openness:          "O",
	Agreeableness:     "A",
	Conscientiousness: "C",
}

var axisByCode = map[string]string{
	"N": Neuroticism,
	"E": Extraversion,
	"O": Openness,
	"A": Agreeableness,
	"C": Conscientiousness,
}

// Code returns the one-letter code for an axis name.
func Code(axis string) (string, bool) {
	c, ok := codeByAxis[axis]
	return c, ok
}

// Axis returns the axis name for a one-letter code.
func Axis(code string) (string, bool) {
	a, ok := axisByCode[code]
	return a, ok
}

// Facets holds the six facet labels of each axis, in facet order 1..6.
// These are the IPIP-NEO facet names and form the closed vocabulary for
// value extraction.
var Facets = map[string][6]string{
	Neuroticism:       {"Anxiety", "Anger", "Depression", "Self-Consciousness", "Immoderation", "Vulnerability"},
	Extraversion:      {"Friendliness", "Gregariousness", "Assertiveness", "Activity Level", "Excitement-Seeking", "Cheerfulness"},
	Openness:          {"Imagination", "Artistic Interests", "Emotionality", "Adventurousness", "Intellect", "Liberalism"},
	Agreeableness:     {"Trust", "Morality", "Altruism", "Cooperation", "Modesty", "Sympathy"},
	Conscientiousness: {"Self-Efficacy", "Orderliness", "Dutifulness", "Achievement-Striving", "Self-Discipline", "Cautiousness"},
}

// AllFacets returns the 30-label vocabulary in axis order.
func AllFacets() []string {
	out := make([]string, 0, 30)
	for _, axis := range Axes {
		facets := Facets[axis]
		out = append(out, facets[:]...)
	}
	return out
}

var axisByFacet = func() map[string]string {
	m := make(map[string]string, 30)
	for axis, facets := range Facets {
		for _, f := range facets {
			m[f] = axis
		}
	}
	return m
}()

// FacetAxis returns the axis a facet label belongs to.
func FacetAxis(facet string) (string, bool) {
	a, ok := axisByFacet[facet]
	return a, ok
}

// IsFacet reports whether label is in the 30-facet vocabulary.
func IsFacet(label string) bool {
	_, ok := axisByFacet[label]
	return ok
}

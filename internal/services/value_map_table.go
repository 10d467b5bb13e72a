package services

// The seven value-map category slots. The slot taxonomy is deliberately
// orthogonal to the Big-Five axes: a value score is filed by the life
// domain its facet label speaks to, not by its personality axis.
const (
	SlotStability    = 0 // emotional steadiness, self-regulation
	SlotRelationship = 1 // closeness, trust, care for others
	SlotGrowth       = 2 // curiosity, learning, aesthetic experience
	SlotHarmony      = 3 // getting along, fairness, humility
	SlotAchievement  = 4 // goals, diligence, competence
	SlotAutonomy     = 5 // self-direction, independent judgment
	SlotVitality     = 6 // energy, stimulation, joy
)

// slotByFacet is the fixed many-to-one mapping from the 30-facet
// vocabulary onto the seven slots.
var slotByFacet = map[string]int{
	"Anxiety":       SlotStability,
	"Depression":    SlotStability,
	"Vulnerability": SlotStability,
	"Immoderation":  SlotStability,
	"Cautiousness":  SlotStability,

	"Friendliness":   SlotRelationship,
	"Gregariousness": SlotRelationship,
	"Trust":          SlotRelationship,
	"Sympathy":       SlotRelationship,
	"Altruism":       SlotRelationship,

	"Imagination":        SlotGrowth,
	"Artistic Interests": SlotGrowth,
	"Emotionality":       SlotGrowth,
	"Adventurousness":    SlotGrowth,
	"Intellect":          SlotGrowth,

	"Anger":              SlotHarmony,
	"Cooperation":        SlotHarmony,
	"Morality":           SlotHarmony,
	"Modesty":            SlotHarmony,
	"Self-Consciousness": SlotHarmony,

	"Achievement-Striving": SlotAchievement,
	"Self-Efficacy":        SlotAchievement,
	"Self-Discipline":      SlotAchievement,
	"Dutifulness":          SlotAchievement,
	"Orderliness":          SlotAchievement,

	"Assertiveness": SlotAutonomy,
	"Liberalism":    SlotAutonomy,

	"Activity Level":     SlotVitality,
	"Excitement-Seeking": SlotVitality,
	"Cheerfulness":       SlotVitality,
}

package services

// User-type labels are persisted as stable identifiers; localization
// happens client-side.
const (
	TypeGoalOriented    = "Goal-Oriented"
	TypeExplorer        = "Explorer"
	TypeSocialite       = "Socialite"
	TypeCaregiver       = "Caregiver"
	TypeContemplative   = "Contemplative"
	TypeChallenger      = "Challenger"
	TypeStabilitySeeker = "Stability-Seeker"
	TypeEmotive         = "Emotive"
	TypeAnalyst         = "Analyst"
	TypeChangeSeeker    = "Change-Seeker"
	TypeBalanced        = "Balanced"
)

// AllUserTypes lists every label ClassifyUserType can return.
var AllUserTypes = []string{
	TypeGoalOriented,
	TypeExplorer,
	TypeSocialite,
	TypeCaregiver,
	TypeContemplative,
	TypeChallenger,
	TypeStabilitySeeker,
	TypeEmotive,
	TypeAnalyst,
	TypeChangeSeeker,
	TypeBalanced,
}

// ClassifyUserType maps axis percentiles (keyed by axis code N/E/O/A/C,
// each in [0,100]) to a user-type label. Rules evaluate top to bottom and
// the first match wins; the fallback guarantees a label for every input.
func ClassifyUserType(scores map[string]int) string {
	n, e, o, a, c := scores["N"], scores["E"], scores["O"], scores["A"], scores["C"]

	switch {
	case c >= 65 && n <= 45:
		return TypeGoalOriented
	case o >= 60 && e >= 60:
		return TypeExplorer
	case e >= 60 && a >= 60:
		return TypeSocialite
	case c >= 60 && a >= 60:
		return TypeCaregiver
	case o >= 60 && e <= 45:
		return TypeContemplative
	case e >= 60 && a <= 45:
		return TypeChallenger
	case n <= 40 && c >= 50:
		return TypeStabilitySeeker
	case n >= 60 && o >= 60:
		return TypeEmotive
	case c >= 65 && o <= 45:
		return TypeAnalyst
	case o >= 65 && c <= 45:
		return TypeChangeSeeker
	default:
		return TypeBalanced
	}
}

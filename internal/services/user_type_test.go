package services

import "testing"

func scoresOf(c, n, e, o, a int) map[string]int {
	return map[string]int{"C": c, "N": n, "E": e, "O": o, "A": a}
}

func TestClassifyUserType(t *testing.T) {
	cases := []struct {
		name   string
		scores map[string]int
		want   string
	}{
		{"goal oriented", scoresOf(70, 40, 50, 55, 55), TypeGoalOriented},
		{"explorer", scoresOf(55, 55, 62, 62, 50), TypeExplorer},
		{"socialite", scoresOf(50, 55, 65, 50, 65), TypeSocialite},
		{"caregiver", scoresOf(62, 55, 50, 50, 62), TypeCaregiver},
		{"contemplative", scoresOf(50, 55, 40, 65, 50), TypeContemplative},
		{"challenger", scoresOf(50, 55, 65, 50, 40), TypeChallenger},
		{"stability seeker", scoresOf(55, 35, 50, 50, 50), TypeStabilitySeeker},
		{"emotive", scoresOf(50, 65, 50, 62, 50), TypeEmotive},
		{"analyst", scoresOf(68, 50, 50, 40, 50), TypeAnalyst},
		{"change seeker", scoresOf(40, 50, 50, 68, 50), TypeChangeSeeker},
		{"balanced", scoresOf(50, 50, 50, 50, 50), TypeBalanced},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyUserType(tc.scores); got != tc.want {
				t.Fatalf("ClassifyUserType(%v) = %q, want %q", tc.scores, got, tc.want)
			}
		})
	}
}

// Earlier rules must win when several match.
func TestClassifyUserTypeRuleOrder(t *testing.T) {
	// Matches both goal-oriented (rule 1) and explorer (rule 2).
	if got := ClassifyUserType(scoresOf(70, 40, 65, 65, 50)); got != TypeGoalOriented {
		t.Fatalf("got %q, want %q", got, TypeGoalOriented)
	}
	// Matches both explorer (rule 2) and socialite (rule 3).
	if got := ClassifyUserType(scoresOf(50, 55, 65, 65, 65)); got != TypeExplorer {
		t.Fatalf("got %q, want %q", got, TypeExplorer)
	}
}

// Every point in the score space must classify to one of the known labels.
func TestClassifyUserTypeTotal(t *testing.T) {
	known := map[string]bool{}
	for _, l := range AllUserTypes {
		known[l] = true
	}
	for c := 0; c <= 100; c += 5 {
		for n := 0; n <= 100; n += 5 {
			for e := 0; e <= 100; e += 5 {
				for o := 0; o <= 100; o += 5 {
					for a := 0; a <= 100; a += 5 {
						label := ClassifyUserType(scoresOf(c, n, e, o, a))
						if !known[label] {
							t.Fatalf("unknown label %q for C=%d N=%d E=%d O=%d A=%d", label, c, n, e, o, a)
						}
					}
				}
			}
		}
	}
}

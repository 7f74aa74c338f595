// Package suggest computes closest-match hints for error messages.
package suggest

import "github.com/agnivade/levenshtein"

// Closest returns the candidate nearest to want, or "" when nothing is
// within a conservative edit-distance threshold. Exact matches and
// empty candidates are ignored; the caller already knows want itself
// was not found.
func Closest(want string, candidates []string) string {
	best := ""
	bestDist := len(want)/2 + 1
	for _, c := range candidates {
		if c == "" || c == want {
			continue
		}
		if d := levenshtein.ComputeDistance(want, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

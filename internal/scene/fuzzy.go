package scene

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// MaxSuggestions caps the "did you mean" hint list on lookup failures.
const MaxSuggestions = 5

// RankSuggestions scores candidates against a failed identifier and
// returns up to limit of the closest, best first. Substring containment
// beats pure edit distance so "ghost" suggests both "ghost-1" and
// "ghostly" ahead of unrelated short names.
func RankSuggestions(query string, candidates []FuzzyMatch, limit int) []FuzzyMatch {
	if limit <= 0 {
		limit = MaxSuggestions
	}
	queryLower := strings.ToLower(query)

	type scored struct {
		match FuzzyMatch
		score int
	}
	var ranked []scored
	for _, c := range candidates {
		s := suggestionScore(queryLower, c)
		if s < 0 {
			continue
		}
		ranked = append(ranked, scored{match: c, score: s})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score < ranked[j].score })

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	result := make([]FuzzyMatch, len(ranked))
	for i, r := range ranked {
		result[i] = r.match
	}
	return result
}

// suggestionScore returns the best score across a candidate's testId and
// name, lower is better, or -1 when the candidate is nowhere close.
func suggestionScore(queryLower string, c FuzzyMatch) int {
	best := -1
	for _, field := range []string{c.TestID, c.Name} {
		if field == "" {
			continue
		}
		s := fieldScore(queryLower, strings.ToLower(field))
		if s >= 0 && (best < 0 || s < best) {
			best = s
		}
	}
	return best
}

func fieldScore(queryLower, fieldLower string) int {
	if fieldLower == queryLower {
		return 0
	}
	// Containment either way ranks by the length difference, so tighter
	// matches come first.
	if strings.Contains(fieldLower, queryLower) || strings.Contains(queryLower, fieldLower) {
		d := len(fieldLower) - len(queryLower)
		if d < 0 {
			d = -d
		}
		return 1 + d
	}
	dist := levenshtein.ComputeDistance(queryLower, fieldLower)
	// Beyond half the query length the candidate is noise, not a typo.
	if dist > len(queryLower)/2+1 {
		return -1
	}
	return 100 + dist
}

// FormatSuggestions renders a hint list for failure messages, e.g.
// `did you mean: "ghost-1", "ghostly"?`. Returns "" for an empty list.
func FormatSuggestions(matches []FuzzyMatch) string {
	if len(matches) == 0 {
		return ""
	}
	labels := make([]string, len(matches))
	for i, m := range matches {
		labels[i] = `"` + m.Label() + `"`
	}
	return "did you mean: " + strings.Join(labels, ", ") + "?"
}

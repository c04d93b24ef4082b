package scene

import (
	"fmt"
	"regexp"
	"strings"
)

// PatternMatch is one node resolved by a glob pattern. Label prefers
// testId over name over uuid, matching how the node would be addressed
// in a follow-up lookup.
type PatternMatch struct {
	Label string `yaml:"label" json:"label"`
	UUID  string `yaml:"uuid"  json:"uuid"`
}

// CompileGlob compiles a glob-style pattern ('*' matches any sequence,
// '?' any single character) into an anchored regular expression. All
// other characters match literally.
func CompileGlob(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteByte('^')
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteByte('$')
	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return re, nil
}

// ResolvePattern walks the snapshot in pre-order and returns every node
// whose effective identifier (testId if present, else name) or uuid
// matches the glob.
func ResolvePattern(snapshot *SceneSnapshot, pattern string) ([]PatternMatch, error) {
	re, err := CompileGlob(pattern)
	if err != nil {
		return nil, err
	}

	var matches []PatternMatch
	snapshot.Walk(func(n *SnapshotNode) bool {
		identifier := n.TestID
		if identifier == "" {
			identifier = n.Name
		}
		if (identifier != "" && re.MatchString(identifier)) || re.MatchString(n.UUID) {
			label := identifier
			if label == "" {
				label = n.UUID
			}
			matches = append(matches, PatternMatch{Label: label, UUID: n.UUID})
		}
		return true
	})
	return matches, nil
}

// IsGlob reports whether an identifier contains glob metacharacters and
// should go through pattern resolution rather than direct lookup.
func IsGlob(id string) bool {
	return strings.ContainsAny(id, "*?")
}

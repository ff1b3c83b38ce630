package engine

import (
	"strings"

	"github.com/google/go-github/v81/github"
)

// MatchBranches selects branches whose name contains pattern, preserving input
// order. Matching is case-sensitive substring containment; the empty pattern
// matches everything. Pure function, no error conditions.
func MatchBranches(branches []*github.Branch, pattern string) []*github.Branch {
	var matched []*github.Branch
	for _, b := range branches {
		if b == nil {
			continue
		}
		if strings.Contains(b.GetName(), pattern) {
			matched = append(matched, b)
		}
	}
	return matched
}

// ExcludeProtected drops branches the host reports as protected, plus the
// repository default branch, preserving order. Used by --skip-protected; the
// default path leaves these in the match set so host refusals are recorded as
// ordinary failures.
func ExcludeProtected(branches []*github.Branch, defaultBranch string) []*github.Branch {
	var kept []*github.Branch
	for _, b := range branches {
		if b.GetProtected() {
			continue
		}
		if defaultBranch != "" && b.GetName() == defaultBranch {
			continue
		}
		kept = append(kept, b)
	}
	return kept
}

func branchNames(branches []*github.Branch) []string {
	names := make([]string, 0, len(branches))
	for _, b := range branches {
		names = append(names, b.GetName())
	}
	return names
}

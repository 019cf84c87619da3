package conventional

import (
	"fmt"
	"sort"
	"strings"
)

// CountTypes parses each message and tallies the conventional commit types
// found. Messages that do not parse as conventional headers, or that use a
// type outside the standard set, are tallied under "other".
func CountTypes(messages []string) map[string]int {
	counts := make(map[string]int)
	for _, message := range messages {
		commit, err := Parse(message)
		if err != nil || !KnownType(commit.Type) {
			counts["other"]++
			continue
		}
		counts[commit.Type]++
	}
	return counts
}

// RenderCounts renders type tallies as "Title: n" lines in the standard
// section order, with unrecognized buckets sorted after.
func RenderCounts(counts map[string]int) []string {
	var lines []string
	seen := make(map[string]bool)

	for _, t := range commitTypes {
		if n, ok := counts[t]; ok && n > 0 {
			lines = append(lines, fmt.Sprintf("%s: %d", typeTitles[t], n))
			seen[t] = true
		}
	}

	var rest []string
	for t, n := range counts {
		if !seen[t] && n > 0 {
			rest = append(rest, fmt.Sprintf("%s: %d", titleCase(t), n))
		}
	}
	sort.Strings(rest)

	return append(lines, rest...)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

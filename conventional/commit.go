package conventional

import (
	"fmt"
	"regexp"
	"strings"
)

// Commit represents a parsed conventional commit header.
type Commit struct {
	Type       string
	Scope      string
	Subject    string
	IsBreaking bool
}

// Regex to parse a conventional commit header.
// It captures: 1: type, 2: scope (optional), 3: breaking change indicator (!), 4: subject
var headerRegex = regexp.MustCompile(`^(\w+)(?:\(([^)]+)\))?(!?):\s+(.*)$`)

// commitTypes are the headings used when bucketing commits, in render order.
var commitTypes = []string{
	"feat", "fix", "perf", "refactor", "docs", "style", "test", "build", "ci", "chore", "revert",
}

var typeTitles = map[string]string{
	"feat":     "Features",
	"fix":      "Bug Fixes",
	"perf":     "Performance Improvements",
	"refactor": "Code Refactoring",
	"docs":     "Documentation",
	"style":    "Styles",
	"test":     "Tests",
	"build":    "Build System",
	"ci":       "Continuous Integration",
	"chore":    "Chores",
	"revert":   "Reverts",
}

// Parse parses a commit message header into a Commit. Messages arriving
// through chat are sanitized to a single line, so only the header is
// considered.
func Parse(message string) (*Commit, error) {
	header := strings.TrimSpace(message)
	if i := strings.IndexByte(header, '\n'); i >= 0 {
		header = header[:i]
	}

	matches := headerRegex.FindStringSubmatch(header)
	if len(matches) < 5 {
		return nil, fmt.Errorf("not a conventional commit header: %s", header)
	}

	return &Commit{
		Type:       strings.ToLower(matches[1]),
		Scope:      matches[2],
		IsBreaking: matches[3] == "!",
		Subject:    strings.TrimSpace(matches[4]),
	}, nil
}

// Format renders the commit back into a "type(scope)!: subject" header.
func (c *Commit) Format() string {
	var builder strings.Builder
	builder.WriteString(c.Type)
	if c.Scope != "" {
		builder.WriteString(fmt.Sprintf("(%s)", c.Scope))
	}
	if c.IsBreaking {
		builder.WriteString("!")
	}
	builder.WriteString(": ")
	builder.WriteString(c.Subject)
	return builder.String()
}

// Message builds a conventional commit header from a type and subject.
func Message(commitType, subject string) string {
	return (&Commit{Type: commitType, Subject: subject}).Format()
}

// KnownType reports whether t is one of the standard conventional commit
// types.
func KnownType(t string) bool {
	_, ok := typeTitles[strings.ToLower(t)]
	return ok
}

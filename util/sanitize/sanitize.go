package sanitize

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gitscribe/gitscribe/errors"
)

const (
	// MaxPathLength bounds repository-relative file paths, in bytes.
	MaxPathLength = 512

	// MaxCommitMessageLength bounds commit messages, in bytes.
	MaxCommitMessageLength = 256

	// MaxRepoNameLength mirrors the GitHub repository name limit.
	MaxRepoNameLength = 100

	// MaxBranchNameLength bounds branch names.
	MaxBranchNameLength = 100
)

var (
	// pathCharsRegex matches paths built from the allowed alphabet
	pathCharsRegex = regexp.MustCompile(`^[a-zA-Z0-9._/-]+$`)

	// repoNameRegex matches a valid repository name
	repoNameRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

	// branchNameRegex matches a valid branch name
	branchNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9/_.-]*$`)

	// multiSlashRegex matches runs of consecutive slashes
	multiSlashRegex = regexp.MustCompile(`/+`)

	// controlCharRegex matches C0 control characters and DEL
	controlCharRegex = regexp.MustCompile(`[\x00-\x1f\x7f]`)
)

// Path validates and normalizes a repository-relative file path.
// Paths are restricted to ASCII letters, digits, '.', '_', '-' and '/',
// and may never contain "..", a leading '/', backslashes, or null bytes.
func Path(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", errors.InvalidInput("path", "must not be empty")
	}
	if strings.ContainsRune(s, '\x00') {
		return "", errors.InvalidInput("path", "contains a null byte")
	}
	if strings.ContainsRune(s, '\\') {
		return "", errors.InvalidInput("path", "backslashes are not allowed")
	}
	if strings.Contains(s, "..") {
		return "", errors.InvalidInput("path", "contains '..'")
	}
	if strings.HasPrefix(s, "/") {
		return "", errors.InvalidInput("path", "must be relative")
	}
	if !pathCharsRegex.MatchString(s) {
		return "", errors.InvalidInput("path", "contains characters outside a-z A-Z 0-9 . _ - /")
	}

	// Normalize: collapse duplicate slashes, strip a leading "./" and any
	// trailing slash
	s = multiSlashRegex.ReplaceAllString(s, "/")
	s = strings.TrimPrefix(s, "./")
	s = strings.TrimSuffix(s, "/")
	if s == "" || s == "." {
		return "", errors.InvalidInput("path", "does not name a file")
	}
	for _, seg := range strings.Split(s, "/") {
		if seg == "." {
			return "", errors.InvalidInput("path", "contains a '.' segment")
		}
	}

	if len(s) > MaxPathLength {
		return "", errors.InvalidInput("path", "exceeds maximum length")
	}
	return s, nil
}

// CommitMessage strips control characters from a commit message,
// collapses whitespace, and caps the length without splitting a rune.
// Blank input becomes "", signaling the caller to substitute a
// generated default. It never fails.
func CommitMessage(raw string) string {
	s := controlCharRegex.ReplaceAllString(raw, " ")
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	for len(s) > MaxCommitMessageLength {
		_, size := utf8.DecodeLastRuneInString(s)
		s = s[:len(s)-size]
	}
	return strings.TrimSpace(s)
}

// RepoName validates a GitHub repository name.
func RepoName(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", errors.InvalidInput("repository name", "must not be empty")
	}
	if s == "." || s == ".." {
		return "", errors.InvalidInput("repository name", "is reserved")
	}
	if strings.HasPrefix(s, "-") {
		return "", errors.InvalidInput("repository name", "must not start with '-'")
	}
	if !repoNameRegex.MatchString(s) {
		return "", errors.InvalidInput("repository name", "contains characters outside a-z A-Z 0-9 . _ -")
	}
	if len(s) > MaxRepoNameLength {
		return "", errors.InvalidInput("repository name", "exceeds maximum length")
	}
	return s, nil
}

// BranchName validates a git branch name.
func BranchName(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", errors.InvalidInput("branch name", "must not be empty")
	}
	if len(s) > MaxBranchNameLength {
		return "", errors.InvalidInput("branch name", "exceeds maximum length")
	}
	if strings.Contains(s, "..") {
		return "", errors.InvalidInput("branch name", "contains '..'")
	}
	if strings.HasSuffix(s, ".lock") {
		return "", errors.InvalidInput("branch name", "must not end in '.lock'")
	}
	if strings.HasSuffix(s, "/") {
		return "", errors.InvalidInput("branch name", "must not end with '/'")
	}
	if !branchNameRegex.MatchString(s) {
		return "", errors.InvalidInput("branch name", "must start with a letter or digit and use only a-z A-Z 0-9 / _ . -")
	}
	return s, nil
}

package sanitize

import (
	"strings"
	"testing"

	"github.com/gitscribe/gitscribe/errors"
)

func TestPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"simple file", "notes.md", "notes.md", false},
		{"nested file", "docs/guide/setup.md", "docs/guide/setup.md", false},
		{"trimmed whitespace", "  notes.md  ", "notes.md", false},
		{"duplicate slashes collapsed", "docs//setup.md", "docs/setup.md", false},
		{"leading dot-slash stripped", "./notes.md", "notes.md", false},
		{"underscores and dashes", "my_dir/some-file.txt", "my_dir/some-file.txt", false},
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
		{"parent traversal", "../evil", "", true},
		{"interior traversal", "a/../b", "", true},
		{"embedded dots", "a..b", "", true},
		{"bare dot", ".", "", true},
		{"bare dotdot", "..", "", true},
		{"dot segment", "a/./b", "", true},
		{"absolute path", "/etc/passwd", "", true},
		{"backslash", `a\b`, "", true},
		{"null byte", "a\x00b", "", true},
		{"space inside", "my file.txt", "", true},
		{"unicode letter", "café.md", "", true},
		{"shell metacharacter", "a;b", "", true},
		{"at limit", strings.Repeat("a", MaxPathLength), strings.Repeat("a", MaxPathLength), false},
		{"over limit", strings.Repeat("a", MaxPathLength+1), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Path(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Path(%q) succeeded, want error", tt.input)
				}
				if !errors.Is(err, errors.ErrCodeInvalidInput) {
					t.Errorf("Path(%q) error code = %s, want %s", tt.input, errors.GetCode(err), errors.ErrCodeInvalidInput)
				}
				return
			}
			if err != nil {
				t.Fatalf("Path(%q) returned error: %v", tt.input, err)
			}
			if result != tt.expected {
				t.Errorf("Path(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestCommitMessage(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain message", "Add setup notes", "Add setup notes"},
		{"trimmed", "  fix typo  ", "fix typo"},
		{"empty", "", ""},
		{"whitespace only", " \t\n ", ""},
		{"newlines flattened", "line one\nline two", "line one line two"},
		{"carriage returns flattened", "a\r\nb", "a b"},
		{"control chars stripped", "a\x01\x02b", "a b"},
		{"tabs flattened", "a\tb", "a b"},
		{"runs collapsed", "a   b", "a b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CommitMessage(tt.input)
			if result != tt.expected {
				t.Errorf("CommitMessage(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestCommitMessageCap(t *testing.T) {
	long := strings.Repeat("x", MaxCommitMessageLength+50)
	result := CommitMessage(long)
	if len(result) != MaxCommitMessageLength {
		t.Errorf("capped length = %d, want %d", len(result), MaxCommitMessageLength)
	}

	// Truncation must not split a multi-byte rune
	multibyte := strings.Repeat("é", MaxCommitMessageLength)
	result = CommitMessage(multibyte)
	if len(result) > MaxCommitMessageLength {
		t.Errorf("capped length = %d, want <= %d", len(result), MaxCommitMessageLength)
	}
	for _, r := range result {
		if r == '�' {
			t.Fatal("truncation split a rune")
		}
	}
}

func TestRepoName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "notes", false},
		{"with dots and dashes", "my.notes-repo_2", false},
		{"empty", "", true},
		{"reserved dot", ".", true},
		{"reserved dotdot", "..", true},
		{"leading dash", "-repo", true},
		{"slash", "a/b", true},
		{"space", "my repo", true},
		{"at limit", strings.Repeat("r", MaxRepoNameLength), false},
		{"over limit", strings.Repeat("r", MaxRepoNameLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RepoName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("RepoName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestBranchName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "main", false},
		{"with slash", "feature/login", false},
		{"digits first", "2024-cleanup", false},
		{"empty", "", true},
		{"leading dash", "-branch", true},
		{"leading dot", ".hidden", true},
		{"dotdot", "a..b", true},
		{"lock suffix", "main.lock", true},
		{"trailing slash", "feature/", true},
		{"space", "my branch", true},
		{"over limit", strings.Repeat("b", MaxBranchNameLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BranchName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("BranchName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

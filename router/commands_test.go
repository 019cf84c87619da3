package router

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/gitscribe/gitscribe/activity"
	"github.com/gitscribe/gitscribe/config"
	"github.com/gitscribe/gitscribe/errors"
	"github.com/gitscribe/gitscribe/github"
	"github.com/gitscribe/gitscribe/github/mocks"
	"github.com/gitscribe/gitscribe/session"
)

// fakeRemote backs the mock gateway with an in-memory file table that
// enforces the same blob-SHA write precondition as the real API.
type fakeRemote struct {
	files map[string][]byte
	shas  map[string]string
	n     int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{files: make(map[string][]byte), shas: make(map[string]string)}
}

func (f *fakeRemote) write(path string, content []byte) {
	f.n++
	f.files[path] = content
	f.shas[path] = fmt.Sprintf("blob-%d", f.n)
}

func (f *fakeRemote) client() *mocks.MockClient {
	return &mocks.MockClient{
		GetFileFunc: func(ctx context.Context, repo, branch, path string) (*github.FileRef, []byte, error) {
			content, ok := f.files[path]
			if !ok {
				return nil, nil, errors.RemoteNotFound("file", path)
			}
			return &github.FileRef{Path: path, SHA: f.shas[path], Size: int64(len(content))}, content, nil
		},
		PutFileFunc: func(ctx context.Context, repo, branch, path string, content []byte, message, priorSHA string) (*github.CommitResult, error) {
			if priorSHA != f.shas[path] {
				return nil, errors.RemoteConflict(path, fmt.Errorf("expected sha %q, got %q", f.shas[path], priorSHA))
			}
			f.write(path, content)
			return &github.CommitResult{Path: path, Branch: branch, SHA: f.shas[path], CommitSHA: fmt.Sprintf("commit-%d", f.n)}, nil
		},
		DeleteFileFunc: func(ctx context.Context, repo, branch, path, message, priorSHA string) (*github.CommitResult, error) {
			if priorSHA != f.shas[path] {
				return nil, errors.RemoteConflict(path, fmt.Errorf("expected sha %q, got %q", f.shas[path], priorSHA))
			}
			delete(f.files, path)
			delete(f.shas, path)
			f.n++
			return &github.CommitResult{Path: path, Branch: branch, CommitSHA: fmt.Sprintf("commit-%d", f.n)}, nil
		},
	}
}

func TestFileCommandsRequireSelection(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"create", []string{"a.md", "hello"}},
		{"edit", []string{"a.md", "hello"}},
		{"view", []string{"a.md"}},
		{"delete", []string{"a.md"}},
		{"list", nil},
		{"branch", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mocks.MockClient{}
			r := newTestRouter(mock)

			reply := handle(r, testUser, tt.name, tt.args...)

			if reply.Text != "No repository selected. Use `repo <name>` first." {
				t.Errorf("unexpected reply: %q", reply.Text)
			}
			if mock.Calls.Total() != 0 {
				t.Errorf("expected zero gateway calls, got %d", mock.Calls.Total())
			}
		})
	}
}

func TestRejectedInputMakesNoGatewayCalls(t *testing.T) {
	tests := []struct {
		name string
		cmd  string
		args []string
	}{
		{"traversal path", "view", []string{"../etc/passwd"}},
		{"absolute path", "view", []string{"/etc/passwd"}},
		{"bad repo name", "repo", []string{"no/slashes"}},
		{"bad branch name", "branch", []string{"-starts-with-dash"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mocks.MockClient{}
			r := newTestRouter(mock)
			selectRepository(r, testUser, "notes", "main")

			reply := handle(r, testUser, tt.cmd, tt.args...)

			if !strings.HasPrefix(reply.Text, "Invalid input:") {
				t.Errorf("expected a rejection, got %q", reply.Text)
			}
			if mock.Calls.Total() != 0 {
				t.Errorf("expected zero gateway calls, got %d", mock.Calls.Total())
			}
		})
	}
}

func TestDefaultRepoAdoptedForFreshSessions(t *testing.T) {
	mock := &mocks.MockClient{
		GetRepositoryFunc: func(ctx context.Context, name string) (*github.RepoRef, error) {
			return &github.RepoRef{Name: name, DefaultBranch: "main"}, nil
		},
		ListFilesFunc: func(ctx context.Context, repo, branch, dir string) ([]github.FileEntry, error) {
			return []github.FileEntry{{Path: "a.md", Type: "file"}}, nil
		},
	}
	r := newTestRouter(mock)

	cfg := &config.Config{}
	cfg.SetDefaults()
	cfg.GitHub.DefaultRepo = "shared-notes"
	r.UpdateConfig(cfg)

	reply := handle(r, testUser, "list")

	if !strings.Contains(reply.Text, "`shared-notes@main`") {
		t.Errorf("expected the default repository adopted, got %q", reply.Text)
	}
	if mock.Calls.GetRepository != 1 {
		t.Errorf("expected one repository lookup, got %d", mock.Calls.GetRepository)
	}
	if sess := r.sessions.Get(testUser); sess.Repository != "shared-notes" {
		t.Errorf("session did not adopt the default repository: %+v", sess)
	}

	// Adoption happens once; the session carries it from here on
	handle(r, testUser, "list")
	if mock.Calls.GetRepository != 1 {
		t.Errorf("expected no further lookups, got %d", mock.Calls.GetRepository)
	}
}

func TestRepoSelectsExisting(t *testing.T) {
	mock := &mocks.MockClient{
		GetRepositoryFunc: func(ctx context.Context, name string) (*github.RepoRef, error) {
			return &github.RepoRef{Name: name, DefaultBranch: "trunk", URL: "https://github.com/acme/" + name}, nil
		},
	}
	r := newTestRouter(mock)

	reply := handle(r, testUser, "repo", "notes")

	if !strings.Contains(reply.Text, "Selected `notes` (branch `trunk`)") {
		t.Errorf("unexpected reply: %q", reply.Text)
	}
	if !strings.Contains(reply.Text, "https://github.com/acme/notes") {
		t.Errorf("expected the repository URL, got %q", reply.Text)
	}
	if mock.Calls.CreateRepository != 0 {
		t.Errorf("an existing repository must not be created, got %d creates", mock.Calls.CreateRepository)
	}

	sess := r.sessions.Get(testUser)
	if sess.Repository != "notes" || sess.Branch != "trunk" {
		t.Errorf("session not updated: %+v", sess)
	}
}

func TestRepoAutoCreatesMissing(t *testing.T) {
	var gotPrivate bool
	mock := &mocks.MockClient{
		CreateRepositoryFunc: func(ctx context.Context, name string, private bool) (*github.RepoRef, error) {
			gotPrivate = private
			return &github.RepoRef{Name: name, DefaultBranch: "main", Private: private}, nil
		},
	}
	r := newTestRouter(mock)

	reply := handle(r, testUser, "repo", "notes")

	if !strings.Contains(reply.Text, "Created and selected `notes` (branch `main`)") {
		t.Errorf("unexpected reply: %q", reply.Text)
	}
	if !gotPrivate {
		t.Error("new repositories default to private")
	}
	if mock.Calls.GetRepository != 1 || mock.Calls.CreateRepository != 1 {
		t.Errorf("unexpected call counts: %+v", mock.Calls)
	}
	if totals := r.activity.Totals(testUser); totals[activity.KindRepoCreate] != 1 {
		t.Errorf("expected one repo_create event, got %v", totals)
	}
}

func TestRepoAutoCreateDisabled(t *testing.T) {
	mock := &mocks.MockClient{}
	r := newTestRouter(mock)

	off := false
	cfg := &config.Config{}
	cfg.SetDefaults()
	cfg.GitHub.AutoCreate = &off
	r.UpdateConfig(cfg)

	reply := handle(r, testUser, "repo", "notes")

	if reply.Text != "Repository 'notes' not found." {
		t.Errorf("unexpected reply: %q", reply.Text)
	}
	if mock.Calls.CreateRepository != 0 {
		t.Errorf("auto-create is off but CreateRepository ran %d times", mock.Calls.CreateRepository)
	}
}

func TestCreateViewRoundTrip(t *testing.T) {
	fake := newFakeRemote()
	r := newTestRouter(fake.client())
	selectRepository(r, testUser, "notes", "main")

	reply := handle(r, testUser, "create", "docs/a.md", "hello", "round", "trip")
	if !strings.Contains(reply.Text, "Created `docs/a.md` on `main`") {
		t.Fatalf("unexpected create reply: %q", reply.Text)
	}

	reply = handle(r, testUser, "view", "docs/a.md")
	want := "`docs/a.md`:\n```\nhello round trip\n```"
	if reply.Text != want {
		t.Errorf("view = %q, want %q", reply.Text, want)
	}
	if got := string(fake.files["docs/a.md"]); got != "hello round trip" {
		t.Errorf("stored content = %q, want %q", got, "hello round trip")
	}
}

func TestEditStaleShaConflict(t *testing.T) {
	fake := newFakeRemote()
	mock := fake.client()
	r := newTestRouter(mock)
	selectRepository(r, testUser, "notes", "main")

	handle(r, testUser, "create", "a.md", "original")

	// Another writer lands between our read and our write
	read := mock.GetFileFunc
	mock.GetFileFunc = func(ctx context.Context, repo, branch, path string) (*github.FileRef, []byte, error) {
		ref, content, err := read(ctx, repo, branch, path)
		if err == nil {
			fake.write(path, []byte("their edit"))
		}
		return ref, content, err
	}

	reply := handle(r, testUser, "edit", "a.md", "our", "edit")

	if reply.Text != "'a.md' changed since it was read. View it again and retry." {
		t.Errorf("unexpected reply: %q", reply.Text)
	}
	if mock.Calls.PutFile != 2 {
		t.Errorf("a conflicting write must not be retried, got %d puts", mock.Calls.PutFile)
	}
	if got := string(fake.files["a.md"]); got != "their edit" {
		t.Errorf("stored content = %q, want the interleaved writer's", got)
	}
}

func TestEditRequiresContent(t *testing.T) {
	mock := &mocks.MockClient{}
	r := newTestRouter(mock)
	selectRepository(r, testUser, "notes", "main")

	reply := handle(r, testUser, "edit", "a.md")

	if !strings.Contains(reply.Text, "Invalid input: invalid content") {
		t.Errorf("unexpected reply: %q", reply.Text)
	}
	if mock.Calls.Total() != 0 {
		t.Errorf("expected zero gateway calls, got %d", mock.Calls.Total())
	}
}

func TestDeleteUsesCurrentSha(t *testing.T) {
	fake := newFakeRemote()
	mock := fake.client()
	r := newTestRouter(mock)
	selectRepository(r, testUser, "notes", "main")

	handle(r, testUser, "create", "old.md", "content")
	reply := handle(r, testUser, "delete", "old.md")

	if !strings.Contains(reply.Text, "Deleted `old.md` on `main`") {
		t.Errorf("unexpected reply: %q", reply.Text)
	}
	if _, ok := fake.files["old.md"]; ok {
		t.Error("file still present after delete")
	}
	if mock.Calls.GetFile != 1 || mock.Calls.DeleteFile != 1 {
		t.Errorf("unexpected call counts: %+v", mock.Calls)
	}
}

func TestViewAttachesAwkwardContent(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		attach  bool
	}{
		{"short text", []byte("plain"), false},
		{"contains fence", []byte("a\n```\nb"), true},
		{"oversized", []byte(strings.Repeat("x", maxInlineContent+1)), true},
		{"binary", []byte{0xff, 0xfe, 0x00}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mocks.MockClient{
				GetFileFunc: func(ctx context.Context, repo, branch, path string) (*github.FileRef, []byte, error) {
					return &github.FileRef{Path: path, SHA: "blob-1"}, tt.content, nil
				},
			}
			r := newTestRouter(mock)
			selectRepository(r, testUser, "notes", "main")

			reply := handle(r, testUser, "view", "docs/data.bin")

			if tt.attach {
				if reply.File == nil {
					t.Fatalf("expected an attachment, got inline %q", reply.Text)
				}
				if reply.File.Name != "data.bin" {
					t.Errorf("attachment name = %q, want %q", reply.File.Name, "data.bin")
				}
				if string(reply.File.Content) != string(tt.content) {
					t.Error("attachment content altered")
				}
			} else if reply.File != nil {
				t.Error("short text should render inline")
			}
		})
	}
}

func TestViewEmptyFile(t *testing.T) {
	mock := &mocks.MockClient{
		GetFileFunc: func(ctx context.Context, repo, branch, path string) (*github.FileRef, []byte, error) {
			return &github.FileRef{Path: path, SHA: "blob-1"}, []byte{}, nil
		},
	}
	r := newTestRouter(mock)
	selectRepository(r, testUser, "notes", "main")

	reply := handle(r, testUser, "view", "empty.md")

	if reply.Text != "`empty.md` is empty" {
		t.Errorf("unexpected reply: %q", reply.Text)
	}
}

func TestListFiltersIgnoredEntries(t *testing.T) {
	mock := &mocks.MockClient{
		ListFilesFunc: func(ctx context.Context, repo, branch, dir string) ([]github.FileEntry, error) {
			return []github.FileEntry{
				{Path: "docs", Type: "dir"},
				{Path: "a.md", Type: "file"},
				{Path: "debug.log", Type: "file"},
			}, nil
		},
	}
	r := newTestRouter(mock)

	cfg := &config.Config{}
	cfg.SetDefaults()
	cfg.GitHub.Ignore = []string{"*.log"}
	r.UpdateConfig(cfg)
	selectRepository(r, testUser, "notes", "main")

	reply := handle(r, testUser, "list")

	if !strings.Contains(reply.Text, "`notes@main`") {
		t.Errorf("missing header: %q", reply.Text)
	}
	if !strings.Contains(reply.Text, "docs/\n") {
		t.Errorf("directories should carry a trailing slash: %q", reply.Text)
	}
	if !strings.Contains(reply.Text, "a.md") {
		t.Errorf("missing entry: %q", reply.Text)
	}
	if strings.Contains(reply.Text, "debug.log") {
		t.Errorf("ignored entry still listed: %q", reply.Text)
	}
}

func TestListEmptyDirectory(t *testing.T) {
	mock := &mocks.MockClient{}
	r := newTestRouter(mock)
	selectRepository(r, testUser, "notes", "main")

	reply := handle(r, testUser, "list", "docs")

	if reply.Text != "`notes@main` in `docs/`: (empty)" {
		t.Errorf("unexpected reply: %q", reply.Text)
	}
}

func TestBranchBlankListsWithoutMutation(t *testing.T) {
	mock := &mocks.MockClient{
		BranchFunc: func(ctx context.Context, repo, name string) (*github.BranchOutcome, error) {
			if name != "" {
				t.Errorf("a blank branch command should list, asked for %q", name)
			}
			return &github.BranchOutcome{Branches: []string{"dev", "main"}}, nil
		},
	}
	r := newTestRouter(mock)
	selectRepository(r, testUser, "notes", "main")

	reply := handle(r, testUser, "branch")

	if !strings.Contains(reply.Text, "* main") || !strings.Contains(reply.Text, "  dev") {
		t.Errorf("unexpected listing: %q", reply.Text)
	}
	if sess := r.sessions.Get(testUser); sess.Branch != "main" {
		t.Errorf("listing must not change the branch, got %q", sess.Branch)
	}
	if totals := r.activity.Totals(testUser); totals[activity.KindBranch] != 0 {
		t.Error("listing must not record a branch switch")
	}
}

func TestBranchSwitches(t *testing.T) {
	mock := &mocks.MockClient{}
	r := newTestRouter(mock)
	selectRepository(r, testUser, "notes", "main")

	reply := handle(r, testUser, "branch", "dev")

	if reply.Text != "Now on branch `dev` of `notes`" {
		t.Errorf("unexpected reply: %q", reply.Text)
	}
	if sess := r.sessions.Get(testUser); sess.Branch != "dev" {
		t.Errorf("branch not updated, got %q", sess.Branch)
	}
	if totals := r.activity.Totals(testUser); totals[activity.KindBranch] != 1 {
		t.Errorf("expected one branch event, got %v", totals)
	}
}

func TestCommitMessageConsumedOnce(t *testing.T) {
	var messages []string
	mock := &mocks.MockClient{
		PutFileFunc: func(ctx context.Context, repo, branch, path string, content []byte, message, priorSHA string) (*github.CommitResult, error) {
			messages = append(messages, message)
			return &github.CommitResult{Path: path, Branch: branch, CommitSHA: "0123456789abcdef"}, nil
		},
	}
	r := newTestRouter(mock)
	selectRepository(r, testUser, "notes", "main")

	reply := handle(r, testUser, "commit", "feat:", "add", "notes")
	if reply.Text != `Commit message set: "feat: add notes" (used by the next write)` {
		t.Fatalf("unexpected reply: %q", reply.Text)
	}

	handle(r, testUser, "create", "a.md", "one")
	handle(r, testUser, "create", "b.md", "two")

	want := []string{"feat: add notes", "Create b.md"}
	if len(messages) != 2 || messages[0] != want[0] || messages[1] != want[1] {
		t.Errorf("messages = %q, want %q", messages, want)
	}
}

func TestPendingMessageLastArrivalWins(t *testing.T) {
	var got string
	mock := &mocks.MockClient{
		PutFileFunc: func(ctx context.Context, repo, branch, path string, content []byte, message, priorSHA string) (*github.CommitResult, error) {
			got = message
			return &github.CommitResult{Path: path, Branch: branch}, nil
		},
	}
	r := newTestRouter(mock)
	selectRepository(r, testUser, "notes", "main")

	handle(r, testUser, "commit", "first")
	handle(r, testUser, "commit", "second")
	handle(r, testUser, "create", "a.md", "content")

	if got != "second" {
		t.Errorf("consumed message = %q, want the later arrival", got)
	}
}

func TestConventionalDefaultMessages(t *testing.T) {
	var got string
	mock := &mocks.MockClient{
		PutFileFunc: func(ctx context.Context, repo, branch, path string, content []byte, message, priorSHA string) (*github.CommitResult, error) {
			got = message
			return &github.CommitResult{Path: path, Branch: branch}, nil
		},
	}
	r := newTestRouter(mock)

	cfg := &config.Config{}
	cfg.SetDefaults()
	cfg.GitHub.ConventionalCommits = true
	r.UpdateConfig(cfg)
	selectRepository(r, testUser, "notes", "main")

	handle(r, testUser, "create", "a.md", "content")

	if got != "chore: create a.md" {
		t.Errorf("generated message = %q, want %q", got, "chore: create a.md")
	}
}

func TestPrefixCommand(t *testing.T) {
	r := newTestRouter(&mocks.MockClient{})

	if reply := handle(r, testUser, "prefix"); !strings.Contains(reply.Text, "`--` (the default)") {
		t.Fatalf("unexpected reply: %q", reply.Text)
	}

	if reply := handle(r, testUser, "prefix", "!"); reply.Text != "Prefix set to `!`" {
		t.Fatalf("unexpected reply: %q", reply.Text)
	}
	if reply := handle(r, testUser, "prefix"); reply.Text != "Your prefix is `!`" {
		t.Errorf("unexpected reply: %q", reply.Text)
	}

	if reply := handle(r, testUser, "prefix", "????"); !strings.Contains(reply.Text, "must be 1-3 characters") {
		t.Errorf("unexpected reply: %q", reply.Text)
	}
}

func TestHelpUsesEffectivePrefix(t *testing.T) {
	r := newTestRouter(&mocks.MockClient{})

	reply := handle(r, testUser, "help")
	if !strings.Contains(reply.Text, "--repo <name>") {
		t.Errorf("expected default-prefix usage lines: %q", reply.Text)
	}

	handle(r, testUser, "prefix", "!")
	reply = handle(r, testUser, "help")
	if !strings.Contains(reply.Text, "!repo <name>") || !strings.Contains(reply.Text, "!restart") {
		t.Errorf("expected per-user prefix usage lines: %q", reply.Text)
	}
}

func TestHistory(t *testing.T) {
	fake := newFakeRemote()
	r := newTestRouter(fake.client())
	selectRepository(r, testUser, "notes", "main")

	if reply := handle(r, testUser, "history"); reply.Text != "No activity recorded yet." {
		t.Fatalf("unexpected reply: %q", reply.Text)
	}

	handle(r, testUser, "create", "a.md", "one")
	handle(r, testUser, "create", "b.md", "two")

	reply := handle(r, testUser, "history")
	if !strings.Contains(reply.Text, "file_create") || !strings.Contains(reply.Text, "notes/b.md") {
		t.Errorf("unexpected history: %q", reply.Text)
	}

	// Newest first
	first := strings.SplitN(strings.TrimPrefix(reply.Text, "```\n"), "\n", 2)[0]
	if !strings.Contains(first, "b.md") {
		t.Errorf("expected the newest event first, got %q", first)
	}

	if reply := handle(r, testUser, "history", "0"); !strings.Contains(reply.Text, "must be a positive number") {
		t.Errorf("unexpected reply: %q", reply.Text)
	}
	if reply := handle(r, testUser, "history", "ten"); !strings.Contains(reply.Text, "must be a positive number") {
		t.Errorf("unexpected reply: %q", reply.Text)
	}
}

func TestHistoryCountClamped(t *testing.T) {
	r := newTestRouter(&mocks.MockClient{})
	for i := 0; i < 40; i++ {
		r.activity.Record(testUser, activity.Event{
			Kind: activity.KindFileView, Repo: "notes", Path: fmt.Sprintf("f%d.md", i),
		})
	}

	reply := handle(r, testUser, "history", "99")

	lines := strings.Count(reply.Text, "\n") - 1
	if lines != maxHistoryCount {
		t.Errorf("expected %d entries, got %d", maxHistoryCount, lines)
	}
}

func TestStats(t *testing.T) {
	fake := newFakeRemote()
	r := newTestRouter(fake.client())
	selectRepository(r, testUser, "notes", "main")

	if reply := handle(r, testUser, "stats"); reply.Text != "No activity recorded yet." {
		t.Fatalf("unexpected reply: %q", reply.Text)
	}

	handle(r, testUser, "create", "a.md", "one")
	handle(r, testUser, "view", "a.md")
	handle(r, testUser, "view", "a.md")

	reply := handle(r, testUser, "stats")
	for _, want := range []string{"file_create", "file_view", "total"} {
		if !strings.Contains(reply.Text, want) {
			t.Errorf("stats missing %q: %q", want, reply.Text)
		}
	}
	if strings.Contains(reply.Text, "Commit kinds:") {
		t.Errorf("plain messages should not produce commit kind buckets: %q", reply.Text)
	}
}

func TestStatsBucketsConventionalCommits(t *testing.T) {
	r := newTestRouter(&mocks.MockClient{})
	r.activity.Record(testUser, activity.Event{Kind: activity.KindFileCreate, Repo: "notes", Path: "a.md", Detail: "feat: add a"})
	r.activity.Record(testUser, activity.Event{Kind: activity.KindFileEdit, Repo: "notes", Path: "a.md", Detail: "fix: correct a"})
	r.activity.Record(testUser, activity.Event{Kind: activity.KindFileEdit, Repo: "notes", Path: "a.md", Detail: "reword a"})

	reply := handle(r, testUser, "stats")

	if !strings.Contains(reply.Text, "Commit kinds:") {
		t.Fatalf("expected commit kind buckets: %q", reply.Text)
	}
	for _, want := range []string{"Features: 1", "Bug Fixes: 1", "Other: 1"} {
		if !strings.Contains(reply.Text, want) {
			t.Errorf("stats missing %q: %q", want, reply.Text)
		}
	}
}

func TestCurrent(t *testing.T) {
	r := newTestRouter(&mocks.MockClient{})

	if reply := handle(r, testUser, "current"); !strings.Contains(reply.Text, "No repository selected") {
		t.Fatalf("unexpected reply: %q", reply.Text)
	}

	selectRepository(r, testUser, "notes", "dev")
	handle(r, testUser, "commit", "pending thing")

	reply := handle(r, testUser, "current")
	for _, want := range []string{"Repository: `notes`", "Branch: `dev`", `Pending message: "pending thing"`, "Prefix: -- (default)"} {
		if !strings.Contains(reply.Text, want) {
			t.Errorf("current missing %q: %q", want, reply.Text)
		}
	}
}

func TestResetClearsSession(t *testing.T) {
	r := newTestRouter(&mocks.MockClient{})
	selectRepository(r, testUser, "notes", "main")
	handle(r, testUser, "commit", "pending message")
	handle(r, testUser, "prefix", "!")

	reply := handle(r, testUser, "reset")

	if !strings.Contains(reply.Text, "Session cleared") {
		t.Errorf("unexpected reply: %q", reply.Text)
	}
	if sess := r.sessions.Get(testUser); sess.HasRepository() || sess.Prefix != "" || sess.PendingMessage != "" {
		t.Errorf("session not cleared: %+v", sess)
	}
}

func TestRestartOwnerOnly(t *testing.T) {
	restarted := false
	cfg := &config.Config{}
	cfg.SetDefaults()
	cfg.Discord.OwnerID = "200000000000000002"

	r := New(Options{
		Sessions: session.NewStore(),
		Gateway:  &mocks.MockClient{},
		Activity: activity.NewLog(0),
		Config:   cfg,
		Restart:  func() { restarted = true },
	})

	reply := handle(r, testUser, "restart")
	if reply.Text != "Restart is restricted to the bot owner." || restarted {
		t.Fatalf("non-owner restart: %q (restarted=%v)", reply.Text, restarted)
	}

	reply = handle(r, "200000000000000002", "restart")
	if reply.Text != "Restarting..." || !restarted {
		t.Errorf("owner restart: %q (restarted=%v)", reply.Text, restarted)
	}
}

func TestRestartNoOwnerConfigured(t *testing.T) {
	r := newTestRouter(&mocks.MockClient{})

	reply := handle(r, testUser, "restart")

	if reply.Text != "Restart is restricted to the bot owner." {
		t.Errorf("unexpected reply: %q", reply.Text)
	}
}

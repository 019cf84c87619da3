package router

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/moby/patternmatcher"

	"github.com/gitscribe/gitscribe/activity"
	"github.com/gitscribe/gitscribe/conventional"
	"github.com/gitscribe/gitscribe/errors"
	"github.com/gitscribe/gitscribe/github"
	"github.com/gitscribe/gitscribe/session"
	"github.com/gitscribe/gitscribe/util/sanitize"
)

// Replies longer than this are shipped as attachments instead of inline
// fenced text.
const maxInlineContent = 1500

const (
	defaultHistoryCount = 10
	maxHistoryCount     = 25
)

func (r *Router) cmdRepo(ctx context.Context, inv Invocation) (Reply, error) {
	if len(inv.Args) < 1 {
		return Reply{}, errors.InvalidInput("name", "a repository name is required")
	}

	name, err := sanitize.RepoName(inv.Args[0])
	if err != nil {
		return Reply{}, err
	}

	ref, created, err := r.resolveRepository(ctx, name)
	if err != nil {
		return Reply{}, err
	}

	branch := defaultBranch(ref)
	r.sessions.Update(inv.UserID, func(s *session.Session) {
		s.Repository = ref.Name
		s.Branch = branch
	})

	kind := activity.KindRepoSelect
	verb := "Selected"
	if created {
		kind = activity.KindRepoCreate
		verb = "Created and selected"
	}
	r.activity.Record(inv.UserID, activity.Event{Kind: kind, Repo: ref.Name})

	text := fmt.Sprintf("%s `%s` (branch `%s`)", verb, ref.Name, branch)
	if ref.URL != "" {
		text += "\n" + ref.URL
	}
	return Reply{Text: text}, nil
}

func (r *Router) cmdCreate(ctx context.Context, inv Invocation) (Reply, error) {
	sess, err := r.requireSelection(ctx, inv.UserID)
	if err != nil {
		return Reply{}, err
	}
	if len(inv.Args) < 1 {
		return Reply{}, errors.InvalidInput("path", "a file path is required")
	}

	filePath, err := sanitize.Path(inv.Args[0])
	if err != nil {
		return Reply{}, err
	}
	content := strings.Join(inv.Args[1:], " ")

	message := r.commitMessage(inv.UserID, "create", filePath)
	res, err := r.gateway.PutFile(ctx, sess.Repository, sess.Branch, filePath, []byte(content), message, "")
	if err != nil {
		return Reply{}, err
	}

	r.activity.Record(inv.UserID, activity.Event{
		Kind: activity.KindFileCreate, Repo: sess.Repository, Path: res.Path, Detail: message,
	})

	return Reply{Text: fmt.Sprintf("Created `%s` on `%s` (%s)", res.Path, res.Branch, shortSHA(res.CommitSHA))}, nil
}

func (r *Router) cmdEdit(ctx context.Context, inv Invocation) (Reply, error) {
	sess, err := r.requireSelection(ctx, inv.UserID)
	if err != nil {
		return Reply{}, err
	}
	if len(inv.Args) < 1 {
		return Reply{}, errors.InvalidInput("path", "a file path is required")
	}
	if len(inv.Args) < 2 {
		return Reply{}, errors.InvalidInput("content", "the new file content is required")
	}

	filePath, err := sanitize.Path(inv.Args[0])
	if err != nil {
		return Reply{}, err
	}
	content := strings.Join(inv.Args[1:], " ")

	ref, _, err := r.gateway.GetFile(ctx, sess.Repository, sess.Branch, filePath)
	if err != nil {
		return Reply{}, err
	}

	message := r.commitMessage(inv.UserID, "update", filePath)
	res, err := r.gateway.PutFile(ctx, sess.Repository, sess.Branch, filePath, []byte(content), message, ref.SHA)
	if err != nil {
		return Reply{}, err
	}

	r.activity.Record(inv.UserID, activity.Event{
		Kind: activity.KindFileEdit, Repo: sess.Repository, Path: res.Path, Detail: message,
	})

	return Reply{Text: fmt.Sprintf("Updated `%s` on `%s` (%s)", res.Path, res.Branch, shortSHA(res.CommitSHA))}, nil
}

func (r *Router) cmdView(ctx context.Context, inv Invocation) (Reply, error) {
	sess, err := r.requireSelection(ctx, inv.UserID)
	if err != nil {
		return Reply{}, err
	}
	if len(inv.Args) < 1 {
		return Reply{}, errors.InvalidInput("path", "a file path is required")
	}

	filePath, err := sanitize.Path(inv.Args[0])
	if err != nil {
		return Reply{}, err
	}

	_, content, err := r.gateway.GetFile(ctx, sess.Repository, sess.Branch, filePath)
	if err != nil {
		return Reply{}, err
	}

	r.activity.Record(inv.UserID, activity.Event{
		Kind: activity.KindFileView, Repo: sess.Repository, Path: filePath,
	})

	// Inline when it renders cleanly; otherwise attach.
	text := string(content)
	if !utf8.ValidString(text) || utf8.RuneCountInString(text) > maxInlineContent || strings.Contains(text, "```") {
		return Reply{
			Text: fmt.Sprintf("`%s` (%d bytes, attached)", filePath, len(content)),
			File: &ReplyFile{Name: path.Base(filePath), Content: content},
		}, nil
	}
	if len(content) == 0 {
		return Reply{Text: fmt.Sprintf("`%s` is empty", filePath)}, nil
	}

	return Reply{Text: fmt.Sprintf("`%s`:\n```\n%s\n```", filePath, strings.TrimRight(text, "\n"))}, nil
}

func (r *Router) cmdDelete(ctx context.Context, inv Invocation) (Reply, error) {
	sess, err := r.requireSelection(ctx, inv.UserID)
	if err != nil {
		return Reply{}, err
	}
	if len(inv.Args) < 1 {
		return Reply{}, errors.InvalidInput("path", "a file path is required")
	}

	filePath, err := sanitize.Path(inv.Args[0])
	if err != nil {
		return Reply{}, err
	}

	ref, _, err := r.gateway.GetFile(ctx, sess.Repository, sess.Branch, filePath)
	if err != nil {
		return Reply{}, err
	}

	message := r.commitMessage(inv.UserID, "delete", filePath)
	res, err := r.gateway.DeleteFile(ctx, sess.Repository, sess.Branch, filePath, message, ref.SHA)
	if err != nil {
		return Reply{}, err
	}

	r.activity.Record(inv.UserID, activity.Event{
		Kind: activity.KindFileDelete, Repo: sess.Repository, Path: filePath, Detail: message,
	})

	return Reply{Text: fmt.Sprintf("Deleted `%s` on `%s` (%s)", filePath, sess.Branch, shortSHA(res.CommitSHA))}, nil
}

func (r *Router) cmdList(ctx context.Context, inv Invocation) (Reply, error) {
	sess, err := r.requireSelection(ctx, inv.UserID)
	if err != nil {
		return Reply{}, err
	}

	dir := ""
	if len(inv.Args) > 0 && inv.Args[0] != "" {
		if dir, err = sanitize.Path(inv.Args[0]); err != nil {
			return Reply{}, err
		}
	}

	entries, err := r.gateway.ListFiles(ctx, sess.Repository, sess.Branch, dir)
	if err != nil {
		return Reply{}, err
	}

	entries = r.filterIgnored(entries)

	r.activity.Record(inv.UserID, activity.Event{
		Kind: activity.KindFileList, Repo: sess.Repository, Path: dir,
	})

	where := fmt.Sprintf("`%s@%s`", sess.Repository, sess.Branch)
	if dir != "" {
		where += fmt.Sprintf(" in `%s/`", dir)
	}

	if len(entries) == 0 {
		return Reply{Text: where + ": (empty)"}, nil
	}

	var b strings.Builder
	b.WriteString(where + ":\n```\n")
	for _, e := range entries {
		name := path.Base(e.Path)
		if e.Type == "dir" {
			name += "/"
		}
		b.WriteString(name + "\n")
	}
	b.WriteString("```")
	return Reply{Text: b.String()}, nil
}

func (r *Router) cmdCurrent(ctx context.Context, inv Invocation) (Reply, error) {
	sess := r.sessions.Get(inv.UserID)

	if !sess.HasRepository() {
		return Reply{Text: "No repository selected. Use `repo <name>` to select one."}, nil
	}

	pending := "(none)"
	if sess.PendingMessage != "" {
		pending = fmt.Sprintf("%q", sess.PendingMessage)
	}

	prefix := r.config().Discord.Prefix + " (default)"
	if sess.Prefix != "" {
		prefix = sess.Prefix
	}

	text := fmt.Sprintf("Repository: `%s`\nBranch: `%s`\nPending message: %s\nPrefix: %s",
		sess.Repository, sess.Branch, pending, prefix)
	return Reply{Text: text}, nil
}

func (r *Router) cmdBranch(ctx context.Context, inv Invocation) (Reply, error) {
	sess, err := r.requireSelection(ctx, inv.UserID)
	if err != nil {
		return Reply{}, err
	}

	// Blank lists, a name resolves or creates.
	if len(inv.Args) == 0 || inv.Args[0] == "" {
		out, err := r.gateway.Branch(ctx, sess.Repository, "")
		if err != nil {
			return Reply{}, err
		}

		if len(out.Branches) == 0 {
			return Reply{Text: fmt.Sprintf("`%s` has no branches", sess.Repository)}, nil
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Branches of `%s`:\n```\n", sess.Repository)
		for _, name := range out.Branches {
			marker := "  "
			if name == sess.Branch {
				marker = "* "
			}
			b.WriteString(marker + name + "\n")
		}
		b.WriteString("```")
		return Reply{Text: b.String()}, nil
	}

	name, err := sanitize.BranchName(inv.Args[0])
	if err != nil {
		return Reply{}, err
	}

	out, err := r.gateway.Branch(ctx, sess.Repository, name)
	if err != nil {
		return Reply{}, err
	}

	r.sessions.Update(inv.UserID, func(s *session.Session) {
		s.Branch = out.Ref.Name
	})
	r.activity.Record(inv.UserID, activity.Event{
		Kind: activity.KindBranch, Repo: sess.Repository, Detail: out.Ref.Name,
	})

	return Reply{Text: fmt.Sprintf("Now on branch `%s` of `%s`", out.Ref.Name, sess.Repository)}, nil
}

func (r *Router) cmdCommit(ctx context.Context, inv Invocation) (Reply, error) {
	if len(inv.Args) < 1 {
		return Reply{}, errors.InvalidInput("message", "a commit message is required")
	}

	message := sanitize.CommitMessage(strings.Join(inv.Args, " "))
	if message == "" {
		return Reply{}, errors.InvalidInput("message", "message is empty after sanitizing")
	}

	r.sessions.Update(inv.UserID, func(s *session.Session) {
		s.PendingMessage = message
	})

	return Reply{Text: fmt.Sprintf("Commit message set: %q (used by the next write)", message)}, nil
}

func (r *Router) cmdPrefix(ctx context.Context, inv Invocation) (Reply, error) {
	if len(inv.Args) == 0 || inv.Args[0] == "" {
		sess := r.sessions.Get(inv.UserID)
		if sess.Prefix != "" {
			return Reply{Text: fmt.Sprintf("Your prefix is `%s`", sess.Prefix)}, nil
		}
		return Reply{Text: fmt.Sprintf("Your prefix is `%s` (the default)", r.config().Discord.Prefix)}, nil
	}

	value := inv.Args[0]
	if n := utf8.RuneCountInString(value); n < 1 || n > 3 {
		return Reply{}, errors.InvalidInput("prefix", "must be 1-3 characters")
	}
	if strings.ContainsAny(value, " \t") {
		return Reply{}, errors.InvalidInput("prefix", "cannot contain whitespace")
	}

	r.sessions.Update(inv.UserID, func(s *session.Session) {
		s.Prefix = value
	})

	return Reply{Text: fmt.Sprintf("Prefix set to `%s`", value)}, nil
}

func (r *Router) cmdHistory(ctx context.Context, inv Invocation) (Reply, error) {
	n := defaultHistoryCount
	if len(inv.Args) > 0 && inv.Args[0] != "" {
		parsed, err := strconv.Atoi(inv.Args[0])
		if err != nil || parsed < 1 {
			return Reply{}, errors.InvalidInput("count", "must be a positive number")
		}
		n = parsed
		if n > maxHistoryCount {
			n = maxHistoryCount
		}
	}

	events := r.activity.Recent(inv.UserID, n)
	if len(events) == 0 {
		return Reply{Text: "No activity recorded yet."}, nil
	}

	var b strings.Builder
	b.WriteString("```\n")
	for _, ev := range events {
		b.WriteString(formatEvent(ev) + "\n")
	}
	b.WriteString("```")
	return Reply{Text: b.String()}, nil
}

func (r *Router) cmdStats(ctx context.Context, inv Invocation) (Reply, error) {
	totals := r.activity.Totals(inv.UserID)
	if len(totals) == 0 {
		return Reply{Text: "No activity recorded yet."}, nil
	}

	kinds := make([]string, 0, len(totals))
	total := 0
	for kind, n := range totals {
		kinds = append(kinds, string(kind))
		total += n
	}
	sort.Strings(kinds)

	var b strings.Builder
	b.WriteString("Your activity:\n```\n")
	for _, kind := range kinds {
		fmt.Fprintf(&b, "%-12s %d\n", kind, totals[activity.Kind(kind)])
	}
	fmt.Fprintf(&b, "%-12s %d\n", "total", total)
	b.WriteString("```")

	// Bucket commit kinds when recent messages parse as conventional
	// commits.
	var messages []string
	for _, ev := range r.activity.Recent(inv.UserID, activity.DefaultCapacity) {
		switch ev.Kind {
		case activity.KindFileCreate, activity.KindFileEdit, activity.KindFileDelete:
			if ev.Detail != "" {
				messages = append(messages, ev.Detail)
			}
		}
	}
	counts := conventional.CountTypes(messages)
	if hasConventional(counts) {
		b.WriteString("\nCommit kinds:\n```\n")
		for _, line := range conventional.RenderCounts(counts) {
			b.WriteString(line + "\n")
		}
		b.WriteString("```")
	}

	return Reply{Text: b.String()}, nil
}

func (r *Router) cmdHelp(ctx context.Context, inv Invocation) (Reply, error) {
	prefix := r.EffectivePrefix(inv.UserID)

	var b strings.Builder
	b.WriteString("Commands:\n```\n")
	for _, c := range commandTable {
		usage := prefix + c.name
		if c.args != "" {
			usage += " " + c.args
		}
		fmt.Fprintf(&b, "%-28s %s\n", usage, c.summary)
	}
	b.WriteString("```")
	return Reply{Text: b.String()}, nil
}

func (r *Router) cmdReset(ctx context.Context, inv Invocation) (Reply, error) {
	r.sessions.Clear(inv.UserID)
	return Reply{Text: "Session cleared. Repository, branch, pending message, and prefix are back to defaults."}, nil
}

func (r *Router) cmdRestart(ctx context.Context, inv Invocation) (Reply, error) {
	ownerID := r.config().Discord.OwnerID
	if ownerID == "" || inv.UserID != ownerID {
		return Reply{}, errors.New(errors.ErrCodeRemotePermissionDenied, "restart is restricted to the bot owner")
	}
	if r.restart == nil {
		return Reply{}, errors.Internal("restart", fmt.Errorf("no restart hook configured"))
	}

	r.restart()
	return Reply{Text: "Restarting..."}, nil
}

// requireSelection loads the session, adopting the configured default
// repository for a fresh one. Without a configured default it fails with a
// typed error, and file commands call it before anything else so they
// perform zero gateway calls in that state.
func (r *Router) requireSelection(ctx context.Context, userID string) (session.Session, error) {
	sess := r.sessions.Get(userID)
	if sess.HasRepository() {
		return sess, nil
	}

	name := r.config().GitHub.DefaultRepo
	if name == "" {
		return sess, errors.NoRepositorySelected()
	}

	ref, _, err := r.resolveRepository(ctx, name)
	if err != nil {
		return sess, err
	}
	branch := defaultBranch(ref)
	return r.sessions.Update(userID, func(s *session.Session) {
		s.Repository = ref.Name
		s.Branch = branch
	}), nil
}

// resolveRepository looks a repository up, creating it when auto-create is
// enabled and it does not exist yet.
func (r *Router) resolveRepository(ctx context.Context, name string) (*github.RepoRef, bool, error) {
	cfg := r.config()
	ref, err := r.gateway.GetRepository(ctx, name)
	if errors.Is(err, errors.ErrCodeRemoteNotFound) && boolValue(cfg.GitHub.AutoCreate) {
		ref, err = r.gateway.CreateRepository(ctx, name, boolValue(cfg.GitHub.DefaultPrivate))
		return ref, err == nil, err
	}
	return ref, false, err
}

func defaultBranch(ref *github.RepoRef) string {
	if ref.DefaultBranch == "" {
		return "main"
	}
	return ref.DefaultBranch
}

// commitMessage consumes the user's pending message, falling back to a
// generated default for the operation.
func (r *Router) commitMessage(userID, verb, filePath string) string {
	fallback := strings.ToUpper(verb[:1]) + verb[1:] + " " + filePath
	if r.config().GitHub.ConventionalCommits {
		fallback = conventional.Message("chore", verb+" "+filePath)
	}
	return r.sessions.ConsumePendingMessage(userID, fallback)
}

// filterIgnored drops entries matching the configured ignore patterns.
func (r *Router) filterIgnored(entries []github.FileEntry) []github.FileEntry {
	patterns := r.config().GitHub.Ignore
	if len(patterns) == 0 {
		return entries
	}

	pm, err := patternmatcher.New(patterns)
	if err != nil {
		// Patterns are validated at config load; a bad live edit only
		// disables filtering.
		r.logger.WithError(err).Warn("Ignoring invalid ignore patterns")
		return entries
	}

	kept := entries[:0]
	for _, e := range entries {
		matched, err := pm.MatchesOrParentMatches(e.Path)
		if err != nil || !matched {
			kept = append(kept, e)
		}
	}
	return kept
}

// EffectivePrefix is the user's override when set, else the global
// default. The prefix surface asks before parsing each message.
func (r *Router) EffectivePrefix(userID string) string {
	if p := r.sessions.Get(userID).Prefix; p != "" {
		return p
	}
	return r.config().Discord.Prefix
}

func boolValue(b *bool) bool {
	return b != nil && *b
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

func formatEvent(ev activity.Event) string {
	target := ev.Repo
	if ev.Path != "" {
		target += "/" + ev.Path
	}
	line := fmt.Sprintf("%s  %-11s %s", ev.At.Format("Jan 02 15:04"), ev.Kind, target)
	if ev.Detail != "" {
		line += "  " + ev.Detail
	}
	return strings.TrimRight(line, " ")
}

func hasConventional(counts map[string]int) bool {
	for t, n := range counts {
		if t != "other" && n > 0 {
			return true
		}
	}
	return false
}

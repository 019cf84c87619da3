// Package github is the bot's gateway to the GitHub REST API. It
// exposes the narrow set of repository operations the commands need
// and translates every SDK failure into the typed error taxonomy.
package github

import (
	"context"
	"net/http"
	"sort"
	"strings"

	gogithub "github.com/google/go-github/v68/github"

	"github.com/gitscribe/gitscribe/errors"
)

// Client abstracts GitHub repository operations for testing
type Client interface {
	GetRepository(ctx context.Context, name string) (*RepoRef, error)
	CreateRepository(ctx context.Context, name string, private bool) (*RepoRef, error)
	GetFile(ctx context.Context, repo, branch, path string) (*FileRef, []byte, error)
	PutFile(ctx context.Context, repo, branch, path string, content []byte, message, priorSHA string) (*CommitResult, error)
	DeleteFile(ctx context.Context, repo, branch, path, message, priorSHA string) (*CommitResult, error)
	ListFiles(ctx context.Context, repo, branch, dir string) ([]FileEntry, error)
	Branch(ctx context.Context, repo, name string) (*BranchOutcome, error)
}

// RepoRef identifies a repository and its landing state
type RepoRef struct {
	Owner         string
	Name          string
	DefaultBranch string
	URL           string
	Private       bool
}

// FileRef identifies a file blob at a point in time. SHA is the
// precondition token for subsequent writes.
type FileRef struct {
	Path string
	SHA  string
	Size int64
}

// FileEntry is one directory listing row. Type is "file" or "dir".
type FileEntry struct {
	Path string
	Type string
	Size int64
}

// BranchRef identifies a branch head
type BranchRef struct {
	Name string
	SHA  string
}

// BranchOutcome is the tagged result of the dual-purpose Branch
// operation: exactly one of Ref (resolved or created branch) and
// Branches (existing names, listing form) is set.
type BranchOutcome struct {
	Ref      *BranchRef
	Branches []string
}

// CommitResult describes a completed write
type CommitResult struct {
	Path      string
	SHA       string
	CommitSHA string
	Branch    string
}

// SDKClient implements Client using the go-github SDK
type SDKClient struct {
	cli   *gogithub.Client
	owner string
}

// NewSDKClient creates a GitHub client authenticated with a personal
// access token. Repositories are addressed under owner, which must be
// the account the token belongs to for creates to land correctly.
func NewSDKClient(token, owner string) (*SDKClient, error) {
	if token == "" {
		return nil, errors.ConfigInvalid("github token is required")
	}
	if owner == "" {
		return nil, errors.ConfigInvalid("github owner is required")
	}
	return &SDKClient{
		cli:   gogithub.NewClient(nil).WithAuthToken(token),
		owner: owner,
	}, nil
}

// GetRepository looks up a repository under the configured owner.
func (c *SDKClient) GetRepository(ctx context.Context, name string) (*RepoRef, error) {
	repo, _, err := c.cli.Repositories.Get(ctx, c.owner, name)
	if err != nil {
		if httpStatus(err) == http.StatusNotFound {
			return nil, errors.RemoteNotFound("repository", name)
		}
		return nil, translate("look up repository", err)
	}
	return c.refFromRepo(repo), nil
}

// CreateRepository creates an auto-initialized repository so the
// default branch exists immediately.
func (c *SDKClient) CreateRepository(ctx context.Context, name string, private bool) (*RepoRef, error) {
	repo, _, err := c.cli.Repositories.Create(ctx, "", &gogithub.Repository{
		Name:     gogithub.Ptr(name),
		Private:  gogithub.Ptr(private),
		AutoInit: gogithub.Ptr(true),
	})
	if err != nil {
		if httpStatus(err) == http.StatusUnprocessableEntity {
			return nil, errors.RemoteAlreadyExists("repository", name)
		}
		return nil, translate("create repository", err)
	}
	return c.refFromRepo(repo), nil
}

// GetFile fetches a file's content and its blob SHA on the given
// branch. An empty branch means the repository default.
func (c *SDKClient) GetFile(ctx context.Context, repo, branch, path string) (*FileRef, []byte, error) {
	opts := &gogithub.RepositoryContentGetOptions{Ref: branch}
	file, _, _, err := c.cli.Repositories.GetContents(ctx, c.owner, repo, path, opts)
	if err != nil {
		if httpStatus(err) == http.StatusNotFound {
			return nil, nil, errors.RemoteNotFound("file", path)
		}
		return nil, nil, translate("fetch file", err)
	}
	if file == nil {
		return nil, nil, errors.InvalidInput("path", "names a directory")
	}

	text, err := file.GetContent()
	if err != nil {
		return nil, nil, errors.Internal("decode file content", err)
	}
	return &FileRef{
		Path: path,
		SHA:  file.GetSHA(),
		Size: int64(file.GetSize()),
	}, []byte(text), nil
}

// PutFile writes content to path on branch. An empty priorSHA creates
// the file; a non-empty one updates it and must match the current
// blob, otherwise the write is rejected as a conflict. Conflicts are
// surfaced, never retried.
func (c *SDKClient) PutFile(ctx context.Context, repo, branch, path string, content []byte, message, priorSHA string) (*CommitResult, error) {
	opts := &gogithub.RepositoryContentFileOptions{
		Message: gogithub.Ptr(message),
		Content: content,
	}
	if branch != "" {
		opts.Branch = gogithub.Ptr(branch)
	}

	var resp *gogithub.RepositoryContentResponse
	var err error
	if priorSHA == "" {
		resp, _, err = c.cli.Repositories.CreateFile(ctx, c.owner, repo, path, opts)
	} else {
		opts.SHA = gogithub.Ptr(priorSHA)
		resp, _, err = c.cli.Repositories.UpdateFile(ctx, c.owner, repo, path, opts)
	}
	if err != nil {
		switch httpStatus(err) {
		case http.StatusConflict, http.StatusUnprocessableEntity:
			// Stale precondition, or a create raced an existing file
			return nil, errors.RemoteConflict(path, err)
		case http.StatusNotFound:
			return nil, errors.RemoteNotFound("repository or branch", repo+"@"+branch)
		}
		return nil, translate("write file", err)
	}

	result := &CommitResult{
		Path:      path,
		CommitSHA: resp.Commit.GetSHA(),
		Branch:    branch,
	}
	if resp.Content != nil {
		result.SHA = resp.Content.GetSHA()
	}
	return result, nil
}

// DeleteFile removes path on branch. priorSHA must be the file's
// current blob SHA.
func (c *SDKClient) DeleteFile(ctx context.Context, repo, branch, path, message, priorSHA string) (*CommitResult, error) {
	if priorSHA == "" {
		return nil, errors.InvalidInput("sha", "delete requires the current file sha")
	}

	opts := &gogithub.RepositoryContentFileOptions{
		Message: gogithub.Ptr(message),
		SHA:     gogithub.Ptr(priorSHA),
	}
	if branch != "" {
		opts.Branch = gogithub.Ptr(branch)
	}

	resp, _, err := c.cli.Repositories.DeleteFile(ctx, c.owner, repo, path, opts)
	if err != nil {
		switch httpStatus(err) {
		case http.StatusConflict, http.StatusUnprocessableEntity:
			return nil, errors.RemoteConflict(path, err)
		case http.StatusNotFound:
			return nil, errors.RemoteNotFound("file", path)
		}
		return nil, translate("delete file", err)
	}

	return &CommitResult{
		Path:      path,
		CommitSHA: resp.Commit.GetSHA(),
		Branch:    branch,
	}, nil
}

// ListFiles returns one directory level, directories first, each
// group sorted by path. dir "" lists the repository root.
func (c *SDKClient) ListFiles(ctx context.Context, repo, branch, dir string) ([]FileEntry, error) {
	opts := &gogithub.RepositoryContentGetOptions{Ref: branch}
	file, entries, _, err := c.cli.Repositories.GetContents(ctx, c.owner, repo, strings.Trim(dir, "/"), opts)
	if err != nil {
		if httpStatus(err) == http.StatusNotFound {
			if dir == "" {
				return nil, errors.RemoteNotFound("repository", repo)
			}
			return nil, errors.RemoteNotFound("directory", dir)
		}
		return nil, translate("list files", err)
	}
	if entries == nil && file != nil {
		return nil, errors.InvalidInput("path", "names a file, not a directory")
	}

	out := make([]FileEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, FileEntry{
			Path: e.GetPath(),
			Type: e.GetType(),
			Size: int64(e.GetSize()),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if (out[i].Type == "dir") != (out[j].Type == "dir") {
			return out[i].Type == "dir"
		}
		return out[i].Path < out[j].Path
	})
	return out, nil
}

// Branch is the dual-purpose branch operation. With an empty name it
// lists existing branch names and performs no mutation. With a name
// it resolves that branch, creating it from the repository head when
// missing, and returns its ref.
func (c *SDKClient) Branch(ctx context.Context, repo, name string) (*BranchOutcome, error) {
	if name == "" {
		names, err := c.listBranchNames(ctx, repo)
		if err != nil {
			return nil, err
		}
		return &BranchOutcome{Branches: names}, nil
	}

	ref, _, err := c.cli.Git.GetRef(ctx, c.owner, repo, "refs/heads/"+name)
	if err == nil {
		return &BranchOutcome{Ref: &BranchRef{Name: name, SHA: ref.GetObject().GetSHA()}}, nil
	}
	if httpStatus(err) != http.StatusNotFound {
		return nil, translate("resolve branch", err)
	}

	// Missing: branch off the repository head
	repoInfo, _, err := c.cli.Repositories.Get(ctx, c.owner, repo)
	if err != nil {
		if httpStatus(err) == http.StatusNotFound {
			return nil, errors.RemoteNotFound("repository", repo)
		}
		return nil, translate("look up repository", err)
	}
	base, _, err := c.cli.Git.GetRef(ctx, c.owner, repo, "refs/heads/"+repoInfo.GetDefaultBranch())
	if err != nil {
		return nil, translate("resolve default branch", err)
	}

	created, _, err := c.cli.Git.CreateRef(ctx, c.owner, repo, &gogithub.Reference{
		Ref:    gogithub.Ptr("refs/heads/" + name),
		Object: &gogithub.GitObject{SHA: gogithub.Ptr(base.GetObject().GetSHA())},
	})
	if err != nil {
		if httpStatus(err) == http.StatusUnprocessableEntity {
			return nil, errors.RemoteAlreadyExists("branch", name)
		}
		return nil, translate("create branch", err)
	}
	return &BranchOutcome{Ref: &BranchRef{Name: name, SHA: created.GetObject().GetSHA()}}, nil
}

func (c *SDKClient) listBranchNames(ctx context.Context, repo string) ([]string, error) {
	var names []string
	opts := &gogithub.BranchListOptions{
		ListOptions: gogithub.ListOptions{PerPage: 100},
	}
	for {
		branches, resp, err := c.cli.Repositories.ListBranches(ctx, c.owner, repo, opts)
		if err != nil {
			if httpStatus(err) == http.StatusNotFound {
				return nil, errors.RemoteNotFound("repository", repo)
			}
			return nil, translate("list branches", err)
		}
		for _, b := range branches {
			names = append(names, b.GetName())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	sort.Strings(names)
	return names, nil
}

func (c *SDKClient) refFromRepo(r *gogithub.Repository) *RepoRef {
	owner := r.GetOwner().GetLogin()
	if owner == "" {
		owner = c.owner
	}
	return &RepoRef{
		Owner:         owner,
		Name:          r.GetName(),
		DefaultBranch: r.GetDefaultBranch(),
		URL:           r.GetHTMLURL(),
		Private:       r.GetPrivate(),
	}
}

package mocks

import (
	"context"

	"github.com/gitscribe/gitscribe/errors"
	"github.com/gitscribe/gitscribe/github"
)

// CallCounts tracks how often each operation ran. Counters are not
// synchronized; read them after the code under test has returned.
type CallCounts struct {
	GetRepository    int
	CreateRepository int
	GetFile          int
	PutFile          int
	DeleteFile       int
	ListFiles        int
	Branch           int
}

// Total sums every operation counter.
func (c CallCounts) Total() int {
	return c.GetRepository + c.CreateRepository + c.GetFile +
		c.PutFile + c.DeleteFile + c.ListFiles + c.Branch
}

// MockClient is a mock implementation of github.Client for testing
type MockClient struct {
	Calls CallCounts

	GetRepositoryFunc    func(ctx context.Context, name string) (*github.RepoRef, error)
	CreateRepositoryFunc func(ctx context.Context, name string, private bool) (*github.RepoRef, error)
	GetFileFunc          func(ctx context.Context, repo, branch, path string) (*github.FileRef, []byte, error)
	PutFileFunc          func(ctx context.Context, repo, branch, path string, content []byte, message, priorSHA string) (*github.CommitResult, error)
	DeleteFileFunc       func(ctx context.Context, repo, branch, path, message, priorSHA string) (*github.CommitResult, error)
	ListFilesFunc        func(ctx context.Context, repo, branch, dir string) ([]github.FileEntry, error)
	BranchFunc           func(ctx context.Context, repo, name string) (*github.BranchOutcome, error)
}

// GetRepository calls the mock function
func (m *MockClient) GetRepository(ctx context.Context, name string) (*github.RepoRef, error) {
	m.Calls.GetRepository++
	if m.GetRepositoryFunc != nil {
		return m.GetRepositoryFunc(ctx, name)
	}
	return nil, errors.RemoteNotFound("repository", name)
}

// CreateRepository calls the mock function
func (m *MockClient) CreateRepository(ctx context.Context, name string, private bool) (*github.RepoRef, error) {
	m.Calls.CreateRepository++
	if m.CreateRepositoryFunc != nil {
		return m.CreateRepositoryFunc(ctx, name, private)
	}
	return &github.RepoRef{Name: name, DefaultBranch: "main", Private: private}, nil
}

// GetFile calls the mock function
func (m *MockClient) GetFile(ctx context.Context, repo, branch, path string) (*github.FileRef, []byte, error) {
	m.Calls.GetFile++
	if m.GetFileFunc != nil {
		return m.GetFileFunc(ctx, repo, branch, path)
	}
	return nil, nil, errors.RemoteNotFound("file", path)
}

// PutFile calls the mock function
func (m *MockClient) PutFile(ctx context.Context, repo, branch, path string, content []byte, message, priorSHA string) (*github.CommitResult, error) {
	m.Calls.PutFile++
	if m.PutFileFunc != nil {
		return m.PutFileFunc(ctx, repo, branch, path, content, message, priorSHA)
	}
	return &github.CommitResult{Path: path, Branch: branch}, nil
}

// DeleteFile calls the mock function
func (m *MockClient) DeleteFile(ctx context.Context, repo, branch, path, message, priorSHA string) (*github.CommitResult, error) {
	m.Calls.DeleteFile++
	if m.DeleteFileFunc != nil {
		return m.DeleteFileFunc(ctx, repo, branch, path, message, priorSHA)
	}
	return &github.CommitResult{Path: path, Branch: branch}, nil
}

// ListFiles calls the mock function
func (m *MockClient) ListFiles(ctx context.Context, repo, branch, dir string) ([]github.FileEntry, error) {
	m.Calls.ListFiles++
	if m.ListFilesFunc != nil {
		return m.ListFilesFunc(ctx, repo, branch, dir)
	}
	return []github.FileEntry{}, nil
}

// Branch calls the mock function
func (m *MockClient) Branch(ctx context.Context, repo, name string) (*github.BranchOutcome, error) {
	m.Calls.Branch++
	if m.BranchFunc != nil {
		return m.BranchFunc(ctx, repo, name)
	}
	if name == "" {
		return &github.BranchOutcome{Branches: []string{"main"}}, nil
	}
	return &github.BranchOutcome{Ref: &github.BranchRef{Name: name}}, nil
}

// Ensure MockClient implements the interface
var _ github.Client = (*MockClient)(nil)

package errors

import (
	"fmt"
	"testing"
)

func TestScribeError(t *testing.T) {
	// Test basic error creation
	err := New(ErrCodeRemoteNotFound, "repository not found")
	if err.Code != ErrCodeRemoteNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeRemoteNotFound, err.Code)
	}

	// Test error wrapping
	cause := fmt.Errorf("underlying error")
	wrapped := Wrap(cause, ErrCodeInternal, "commit failed")

	if wrapped.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	// Test Is function
	if !Is(wrapped, ErrCodeInternal) {
		t.Error("Is should return true for matching code")
	}

	if Is(wrapped, ErrCodeRemoteNotFound) {
		t.Error("Is should return false for non-matching code")
	}

	// Test Is through a fmt.Errorf wrapper
	doubleWrapped := fmt.Errorf("handling command: %w", wrapped)
	if !Is(doubleWrapped, ErrCodeInternal) {
		t.Error("Is should unwrap foreign wrappers")
	}

	// Test WithDetail
	detailed := err.WithDetail("repository", "notes").WithDetail("status", 404)
	if detailed.Details["repository"] != "notes" {
		t.Error("WithDetail should add details")
	}
}

func TestGetCode(t *testing.T) {
	if GetCode(nil) != "" {
		t.Error("GetCode of nil should be empty")
	}
	if GetCode(fmt.Errorf("plain")) != "" {
		t.Error("GetCode of a foreign error should be empty")
	}
	err := NoRepositorySelected()
	if GetCode(err) != ErrCodeNoRepositorySelected {
		t.Errorf("expected code %s, got %s", ErrCodeNoRepositorySelected, GetCode(err))
	}
}

func TestErrorConstructors(t *testing.T) {
	// Test RemoteNotFound
	err := RemoteNotFound("repository", "notes")
	if err.Code != ErrCodeRemoteNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeRemoteNotFound, err.Code)
	}
	if err.Details["name"] != "notes" {
		t.Error("RemoteNotFound should include name detail")
	}

	// Test RemoteConflict
	err = RemoteConflict("docs/a.md", fmt.Errorf("409"))
	if err.Code != ErrCodeRemoteConflict {
		t.Errorf("expected code %s, got %s", ErrCodeRemoteConflict, err.Code)
	}
	if err.Details["path"] != "docs/a.md" {
		t.Error("RemoteConflict should include path detail")
	}
	if err.Unwrap() == nil {
		t.Error("RemoteConflict should preserve the cause")
	}

	// Test InvalidInput
	err = InvalidInput("path", "contains '..'")
	if err.Code != ErrCodeInvalidInput {
		t.Errorf("expected code %s, got %s", ErrCodeInvalidInput, err.Code)
	}
	if err.Details["field"] != "path" {
		t.Error("InvalidInput should include field detail")
	}
}

package errors

import "fmt"

// InvalidInput creates a validation error for a user-supplied value
func InvalidInput(field, reason string) *ScribeError {
	return New(ErrCodeInvalidInput, fmt.Sprintf("invalid %s: %s", field, reason)).
		WithDetail("field", field)
}

// NoRepositorySelected creates an error for file operations issued
// before a repository has been selected
func NoRepositorySelected() *ScribeError {
	return New(ErrCodeNoRepositorySelected, "no repository selected")
}

// UnknownCommand creates an error for an unrecognized command name
func UnknownCommand(name string) *ScribeError {
	return New(ErrCodeUnknownCommand, fmt.Sprintf("unknown command '%s'", name)).
		WithDetail("command", name)
}

// RemoteNotFound creates an error for a missing remote entity
func RemoteNotFound(kind, name string) *ScribeError {
	return New(ErrCodeRemoteNotFound, fmt.Sprintf("%s '%s' not found", kind, name)).
		WithDetail("kind", kind).
		WithDetail("name", name)
}

// RemoteConflict creates an error for a write rejected by a stale
// content precondition
func RemoteConflict(path string, err error) *ScribeError {
	return Wrap(err, ErrCodeRemoteConflict,
		fmt.Sprintf("'%s' changed since it was read", path)).
		WithDetail("path", path)
}

// RemotePermissionDenied creates an error for a rejected credential
func RemotePermissionDenied(op string, err error) *ScribeError {
	return Wrap(err, ErrCodeRemotePermissionDenied,
		fmt.Sprintf("permission denied for %s", op)).
		WithDetail("operation", op)
}

// RemoteAlreadyExists creates an error for a name collision on create
func RemoteAlreadyExists(kind, name string) *ScribeError {
	return New(ErrCodeRemoteAlreadyExists, fmt.Sprintf("%s '%s' already exists", kind, name)).
		WithDetail("kind", kind).
		WithDetail("name", name)
}

// RemoteRateLimited creates an error for an exhausted API quota
func RemoteRateLimited(err error) *ScribeError {
	return Wrap(err, ErrCodeRemoteRateLimited, "remote API rate limit exceeded")
}

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *ScribeError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *ScribeError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// StateCorrupt creates an error for an unreadable state snapshot
func StateCorrupt(path string, err error) *ScribeError {
	return Wrap(err, ErrCodeStateCorrupt, fmt.Sprintf("state file unreadable: %s", path)).
		WithDetail("path", path)
}

// Internal creates an internal failure error
func Internal(op string, err error) *ScribeError {
	return Wrap(err, ErrCodeInternal, fmt.Sprintf("%s failed", op)).
		WithDetail("operation", op)
}

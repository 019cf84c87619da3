package github

import (
	stderrors "errors"
	"net/http"

	gogithub "github.com/google/go-github/v68/github"

	"github.com/gitscribe/gitscribe/errors"
)

// httpStatus extracts the HTTP status from a go-github error, or 0
// when the error carries none (network failures and the like).
func httpStatus(err error) int {
	var ger *gogithub.ErrorResponse
	if stderrors.As(err, &ger) && ger.Response != nil {
		return ger.Response.StatusCode
	}
	return 0
}

// translate maps a go-github error onto the typed taxonomy. Callers
// handle the statuses that need operation context (404, 409, 422)
// before falling through to here.
func translate(op string, err error) error {
	var rle *gogithub.RateLimitError
	if stderrors.As(err, &rle) {
		return errors.RemoteRateLimited(err)
	}
	var arle *gogithub.AbuseRateLimitError
	if stderrors.As(err, &arle) {
		return errors.RemoteRateLimited(err)
	}

	switch httpStatus(err) {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.RemotePermissionDenied(op, err)
	}
	return errors.Internal(op, err)
}

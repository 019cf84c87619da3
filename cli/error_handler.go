package cli

import (
	"fmt"
	"os"

	"github.com/gitscribe/gitscribe/errors"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
	}
}

// Handle provides user-friendly error messages based on error type
func (h *ErrorHandler) Handle(err error) error {
	// Check for specific error codes
	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(os.Stderr, "❌ Configuration not found. Run 'gitscribe config init' to create one.\n")
		return err

	case errors.ErrCodeConfigInvalid:
		if scribeErr, ok := err.(*errors.ScribeError); ok {
			fmt.Fprintf(os.Stderr, "❌ Invalid configuration: %s\n", scribeErr.Message)
		} else {
			fmt.Fprintf(os.Stderr, "❌ Invalid configuration\n")
		}
		fmt.Fprintf(os.Stderr, "Run 'gitscribe config validate' for details.\n")
		return err

	case errors.ErrCodeStateCorrupt:
		fmt.Fprintf(os.Stderr, "❌ State snapshot is unreadable.\n")
		fmt.Fprintf(os.Stderr, "Remove the offending file from the state directory to start fresh.\n")
		return err

	case errors.ErrCodeRemotePermissionDenied:
		fmt.Fprintf(os.Stderr, "❌ GitHub rejected the configured credentials.\n")
		fmt.Fprintf(os.Stderr, "Check 'github.token' in gitscribe.yml and the token's repo scope.\n")
		return err

	case errors.ErrCodeRemoteRateLimited:
		fmt.Fprintf(os.Stderr, "❌ GitHub API rate limit exceeded. Wait a minute and retry.\n")
		return err

	default:
		// Generic error handling
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)

		// If verbose mode, show full error details
		if h.Verbose {
			if scribeErr, ok := err.(*errors.ScribeError); ok {
				fmt.Fprintf(os.Stderr, "\nError details:\n%s\n", scribeErr.ToJSON())
			}
		}
		return err
	}
}

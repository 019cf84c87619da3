package router

import (
	"fmt"
	"strings"

	"github.com/gitscribe/gitscribe/errors"
)

// commandTable drives help output and slash-command registration. Order is
// presentation order.
var commandTable = []struct {
	name    string
	args    string
	summary string
}{
	{"repo", "<name>", "Select (or create) a repository"},
	{"create", "<path> [content]", "Create a file"},
	{"edit", "<path> <content>", "Replace a file's content"},
	{"view", "<path>", "Show a file"},
	{"delete", "<path>", "Delete a file"},
	{"list", "[dir]", "List files"},
	{"current", "", "Show your session"},
	{"branch", "[name]", "List branches, or switch/create one"},
	{"commit", "<message>", "Set the commit message for the next write"},
	{"prefix", "[value]", "Show or set your command prefix"},
	{"history", "[n]", "Your recent actions"},
	{"stats", "", "Your action counters"},
	{"help", "", "This table"},
	{"reset", "", "Clear your session"},
	{"restart", "", "Restart the bot (owner only)"},
}

// CommandNames returns the dispatchable command names in presentation order.
func CommandNames() []string {
	names := make([]string, len(commandTable))
	for i, c := range commandTable {
		names[i] = c.name
	}
	return names
}

// CommandInfo describes one command for the chat surfaces.
type CommandInfo struct {
	Name    string
	Args    string
	Summary string
}

// Commands returns the command table in presentation order.
func Commands() []CommandInfo {
	infos := make([]CommandInfo, len(commandTable))
	for i, c := range commandTable {
		infos[i] = CommandInfo{Name: c.name, Args: c.args, Summary: c.summary}
	}
	return infos
}

// renderError turns a typed error into the text a chat user sees. Causes
// and details stay in the logs; nothing here echoes tokens or Go error
// chains.
func (r *Router) renderError(err error) string {
	message := scribeMessage(err)

	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput:
		return "Invalid input: " + message
	case errors.ErrCodeUnknownCommand:
		return fmt.Sprintf("%s. Available: %s", capitalize(message), strings.Join(CommandNames(), ", "))
	case errors.ErrCodeNoRepositorySelected:
		return "No repository selected. Use `repo <name>` first."
	case errors.ErrCodeRemoteNotFound:
		return capitalize(message) + "."
	case errors.ErrCodeRemoteConflict:
		return capitalize(message) + ". View it again and retry."
	case errors.ErrCodeRemotePermissionDenied:
		return capitalize(message) + "."
	case errors.ErrCodeRemoteAlreadyExists:
		return capitalize(message) + "."
	case errors.ErrCodeRemoteRateLimited:
		return "GitHub rate limit hit. Wait a minute and retry."
	case errors.ErrCodeStateCorrupt:
		return "Stored session state is unreadable. Your session may have been reset."
	default:
		return "Something went wrong. Try again, and check the logs if it keeps happening."
	}
}

// scribeMessage walks the cause chain for the first ScribeError message,
// so wrapped taxonomy errors render the same as bare ones.
func scribeMessage(err error) string {
	for err != nil {
		if scribeErr, ok := err.(*errors.ScribeError); ok {
			return scribeErr.Message
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = unwrapper.Unwrap()
	}
	return ""
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/gitscribe/gitscribe/router"
)

// onMessageCreate is the prefix surface. Messages from bots (ourselves
// included) are ignored so two bots can never feed each other commands.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}

	prefix := b.router.EffectivePrefix(m.Author.ID)
	name, args, ok := parseCommand(m.Content, prefix)
	if !ok {
		return
	}

	inv := router.NewInvocation(m.Author.ID, name, args, router.SourcePrefix)
	reply := b.router.Handle(b.ctx, inv)
	b.send(m.ChannelID, reply)
}

// freeTextAfter maps commands whose final argument is free text to the
// number of tokens preceding it. The remainder stays raw, interior
// whitespace included, so file content and commit messages survive the
// trip through chat byte for byte.
var freeTextAfter = map[string]int{
	"create": 1,
	"edit":   1,
	"commit": 0,
}

// parseCommand splits a prefixed message into a command name and args.
// ok is false when the message does not start with the prefix; a bare
// prefix yields an empty name, which the router reports as unknown.
func parseCommand(content, prefix string) (name string, args []string, ok bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", nil, false
	}
	rest := strings.TrimSpace(content[len(prefix):])
	if rest == "" {
		return "", nil, true
	}

	name, rest = splitToken(rest)
	lead, hasFreeText := freeTextAfter[name]
	if !hasFreeText {
		return name, strings.Fields(rest), true
	}

	for i := 0; i < lead && rest != ""; i++ {
		var tok string
		tok, rest = splitToken(rest)
		args = append(args, tok)
	}
	if rest != "" {
		args = append(args, rest)
	}
	return name, args, true
}

// splitToken cuts the first whitespace-delimited token off s.
func splitToken(s string) (token, rest string) {
	if i := strings.IndexAny(s, " \t\n"); i >= 0 {
		return s[:i], strings.TrimLeft(s[i:], " \t\n")
	}
	return s, ""
}

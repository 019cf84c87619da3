package discord

import (
	"bytes"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"github.com/gitscribe/gitscribe/router"
)

// maxMessageLength is Discord's hard limit on message content.
const maxMessageLength = 2000

const truncationMarker = "\n[truncated]"

func (b *Bot) send(channelID string, reply router.Reply) {
	msg := &discordgo.MessageSend{Content: truncate(reply.Text)}
	if reply.File != nil {
		msg.Files = []*discordgo.File{replyFile(reply.File)}
	}
	if _, err := b.session.ChannelMessageSendComplex(channelID, msg); err != nil {
		b.logger.WithError(err).Error("Reply delivery failed")
	}
}

// truncate caps text at the Discord message limit, ending with a
// marker so the cut is visible to the reader.
func truncate(text string) string {
	if utf8.RuneCountInString(text) <= maxMessageLength {
		return text
	}
	runes := []rune(text)
	keep := maxMessageLength - utf8.RuneCountInString(truncationMarker)
	return string(runes[:keep]) + truncationMarker
}

// replyFile wraps router file output for upload. Valid UTF-8 is sent
// as plain text so Discord previews it inline.
func replyFile(f *router.ReplyFile) *discordgo.File {
	contentType := "application/octet-stream"
	if utf8.Valid(f.Content) {
		contentType = "text/plain; charset=utf-8"
	}
	return &discordgo.File{
		Name:        f.Name,
		ContentType: contentType,
		Reader:      bytes.NewReader(f.Content),
	}
}

package discord

import (
	"strconv"

	"github.com/bwmarrin/discordgo"

	"github.com/gitscribe/gitscribe/errors"
	"github.com/gitscribe/gitscribe/router"
)

// slashExcluded lists commands that exist only on the prefix surface.
// The prefix command configures prefix parsing itself, so it has no
// slash meaning.
var slashExcluded = map[string]bool{
	"prefix": true,
}

// slashOptions declares each command's options in the positional order
// the router expects. Commands without an entry take no options.
var slashOptions = map[string][]*discordgo.ApplicationCommandOption{
	"repo": {
		stringOption("name", "Repository name", true),
	},
	"create": {
		stringOption("path", "File path inside the repository", true),
		stringOption("content", "Initial file content, blank for an empty file", false),
	},
	"edit": {
		stringOption("path", "File path inside the repository", true),
		stringOption("content", "Replacement file content", true),
	},
	"view": {
		stringOption("path", "File path inside the repository", true),
	},
	"delete": {
		stringOption("path", "File path inside the repository", true),
	},
	"list": {
		stringOption("dir", "Directory to list, defaults to the root", false),
	},
	"branch": {
		stringOption("name", "Branch to switch to, blank lists branches", false),
	},
	"commit": {
		stringOption("message", "Commit message for the next write", true),
	},
	"history": {
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "count",
			Description: "How many events to show",
			Required:    false,
		},
	},
}

func stringOption(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        name,
		Description: description,
		Required:    required,
	}
}

// buildCommands derives the slash command set from the router's
// command table so the two surfaces cannot drift apart.
func buildCommands() []*discordgo.ApplicationCommand {
	var cmds []*discordgo.ApplicationCommand
	for _, c := range router.Commands() {
		if slashExcluded[c.Name] {
			continue
		}
		cmds = append(cmds, &discordgo.ApplicationCommand{
			Name:        c.Name,
			Description: c.Summary,
			Options:     slashOptions[c.Name],
		})
	}
	return cmds
}

// registerCommands bulk-overwrites the application command set. An
// empty guild ID registers globally; scoping to a guild makes new
// commands visible immediately, which is what small deployments want.
func (b *Bot) registerCommands(appID string) error {
	registered, err := b.session.ApplicationCommandBulkOverwrite(appID, b.guildID, buildCommands())
	if err != nil {
		return errors.Internal("slash command registration", err)
	}
	b.logger.WithField("count", len(registered)).Info("Slash commands registered")
	return nil
}

// onInteractionCreate is the slash surface. The response is deferred
// immediately so slow gateway calls cannot blow Discord's ack window,
// then the router's reply arrives as a follow-up.
func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	user := interactionUser(i)
	if user == nil || user.Bot {
		return
	}

	data := i.ApplicationCommandData()
	inv := router.NewInvocation(user.ID, data.Name, slashArgs(data.Name, data.Options), router.SourceSlash)

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		b.logger.WithError(err).Error("Interaction ack failed")
		return
	}

	reply := b.router.Handle(b.ctx, inv)

	params := &discordgo.WebhookParams{Content: truncate(reply.Text)}
	if reply.File != nil {
		params.Files = []*discordgo.File{replyFile(reply.File)}
	}
	if _, err := s.FollowupMessageCreate(i.Interaction, true, params); err != nil {
		b.logger.WithError(err).Error("Reply delivery failed")
	}
}

// interactionUser is the invoking user, wherever the payload put it.
// Guild interactions carry a member, DMs carry the user directly.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

// slashArgs flattens structured options into the positional args the
// router expects, ordered by the command's declared options rather
// than by payload order.
func slashArgs(name string, opts []*discordgo.ApplicationCommandInteractionDataOption) []string {
	byName := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, opt := range opts {
		byName[opt.Name] = opt
	}

	var args []string
	for _, declared := range slashOptions[name] {
		opt, ok := byName[declared.Name]
		if !ok {
			break
		}
		switch opt.Type {
		case discordgo.ApplicationCommandOptionString:
			args = append(args, opt.StringValue())
		case discordgo.ApplicationCommandOptionInteger:
			args = append(args, strconv.FormatInt(opt.IntValue(), 10))
		}
	}
	return args
}

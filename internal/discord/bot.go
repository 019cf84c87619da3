// Package discord connects the command router to the Discord gateway.
// It exposes the same command set on two surfaces: prefixed text
// messages and slash commands. Both produce identical router
// invocations, so command behavior never depends on the surface.
package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/gitscribe/gitscribe/config"
	"github.com/gitscribe/gitscribe/errors"
	"github.com/gitscribe/gitscribe/logging"
	"github.com/gitscribe/gitscribe/router"
)

// Bot owns the gateway session and translates Discord events into
// router invocations.
type Bot struct {
	session *discordgo.Session
	router  *router.Router
	guildID string
	logger  *logrus.Entry

	// ctx bounds command execution for gateway events. Set by Start
	// before the session opens; handlers only run after that.
	ctx context.Context
}

// New builds a Bot from the Discord configuration. The session is
// configured but not connected; Start opens it.
func New(cfg config.DiscordConfig, rt *router.Router) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, errors.Internal("discord session", err)
	}

	b := &Bot{
		session: session,
		router:  rt,
		guildID: cfg.GuildID,
		logger:  logging.NewLogger("discord"),
		ctx:     context.Background(),
	}

	session.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMessages |
		discordgo.IntentDirectMessages |
		discordgo.IntentMessageContent

	session.AddHandler(b.onReady)
	session.AddHandler(b.onMessageCreate)
	session.AddHandler(b.onInteractionCreate)

	return b, nil
}

// Start opens the gateway connection and blocks until ctx is canceled,
// then disconnects.
func (b *Bot) Start(ctx context.Context) error {
	b.ctx = ctx
	if err := b.session.Open(); err != nil {
		return errors.Internal("discord connect", err)
	}

	<-ctx.Done()
	b.logger.Info("Disconnecting from Discord")
	if err := b.session.Close(); err != nil {
		b.logger.WithError(err).Warn("Gateway close reported an error")
	}
	return nil
}

// Guilds returns how many guilds the session currently sees.
func (b *Bot) Guilds() int {
	b.session.State.RLock()
	defer b.session.State.RUnlock()
	return len(b.session.State.Guilds)
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.logger.WithFields(logrus.Fields{
		"user":   r.User.Username,
		"guilds": len(r.Guilds),
	}).Info("Connected to Discord")

	if err := b.registerCommands(r.User.ID); err != nil {
		b.logger.WithError(err).Error("Slash command registration failed")
	}
}

package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gitscribe/gitscribe/errors"
	"github.com/moby/patternmatcher"
)

var snowflakeRegex = regexp.MustCompile(`^[0-9]+$`)

// Validate checks that the configuration is structurally sound. Credential
// presence is checked separately by ValidateCredentials, so commands that
// only inspect configuration work against an incomplete file.
func (c *Config) Validate() error {
	if n := utf8.RuneCountInString(c.Discord.Prefix); n < 1 || n > 3 {
		return errors.New(errors.ErrCodeConfigInvalid, "discord.prefix must be 1-3 characters").
			WithDetail("prefix", c.Discord.Prefix)
	}
	if strings.ContainsAny(c.Discord.Prefix, " \t") {
		return errors.New(errors.ErrCodeConfigInvalid, "discord.prefix cannot contain whitespace").
			WithDetail("prefix", c.Discord.Prefix)
	}

	if c.Discord.OwnerID != "" && !snowflakeRegex.MatchString(c.Discord.OwnerID) {
		return errors.New(errors.ErrCodeConfigInvalid, "discord.owner_id must be a numeric user ID").
			WithDetail("owner_id", c.Discord.OwnerID)
	}
	if c.Discord.GuildID != "" && !snowflakeRegex.MatchString(c.Discord.GuildID) {
		return errors.New(errors.ErrCodeConfigInvalid, "discord.guild_id must be a numeric guild ID").
			WithDetail("guild_id", c.Discord.GuildID)
	}

	if c.State.AutosaveInterval != "" {
		if _, err := time.ParseDuration(c.State.AutosaveInterval); err != nil {
			return errors.Wrap(err, errors.ErrCodeConfigInvalid, "state.autosave_interval is not a valid duration").
				WithDetail("autosave_interval", c.State.AutosaveInterval)
		}
	}

	if len(c.GitHub.Ignore) > 0 {
		if _, err := patternmatcher.New(c.GitHub.Ignore); err != nil {
			return errors.Wrap(err, errors.ErrCodeConfigInvalid, "github.ignore contains an invalid pattern")
		}
	}

	return nil
}

// ValidateCredentials checks that the settings required to connect are
// present. The serve daemon calls this before touching the network.
func (c *Config) ValidateCredentials() error {
	missing := func(field string) error {
		return errors.New(errors.ErrCodeConfigInvalid, fmt.Sprintf("%s is required", field)).
			WithDetail("field", field)
	}

	if c.Discord.Token == "" {
		return missing("discord.token")
	}
	if c.GitHub.Token == "" {
		return missing("github.token")
	}
	if c.GitHub.Owner == "" {
		return missing("github.owner")
	}

	return nil
}

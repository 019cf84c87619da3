package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

// DiscordConfig configures the chat surface connection.
type DiscordConfig struct {
	Token   string `yaml:"token,omitempty" toml:"token,omitempty" jsonschema:"description=Bot token used to authenticate with the Discord gateway"`
	OwnerID string `yaml:"owner_id,omitempty" toml:"owner_id,omitempty" jsonschema:"description=User ID allowed to run privileged commands such as restart"`
	Prefix  string `yaml:"prefix,omitempty" toml:"prefix,omitempty" jsonschema:"description=Global command prefix for text messages (default: --)"`
	GuildID string `yaml:"guild_id,omitempty" toml:"guild_id,omitempty" jsonschema:"description=Guild to scope slash commands to; empty registers them globally"`
}

// GitHubConfig configures the repository gateway.
type GitHubConfig struct {
	Token               string   `yaml:"token,omitempty" toml:"token,omitempty" jsonschema:"description=Personal access token used for all repository operations"`
	Owner               string   `yaml:"owner,omitempty" toml:"owner,omitempty" jsonschema:"description=Account that owns the repositories the bot manages"`
	DefaultRepo         string   `yaml:"default_repo,omitempty" toml:"default_repo,omitempty" jsonschema:"description=Repository preselected for fresh sessions"`
	DefaultPrivate      *bool    `yaml:"default_private,omitempty" toml:"default_private,omitempty" jsonschema:"description=Visibility for repositories created through the bot (default: true)"`
	AutoCreate          *bool    `yaml:"auto_create,omitempty" toml:"auto_create,omitempty" jsonschema:"description=Create missing repositories on selection (default: true)"`
	ConventionalCommits bool     `yaml:"conventional_commits,omitempty" toml:"conventional_commits,omitempty" jsonschema:"description=Format generated default commit messages as conventional commits"`
	Ignore              []string `yaml:"ignore,omitempty" toml:"ignore,omitempty" jsonschema:"description=Patterns (dockerignore syntax) filtered out of list output"`
}

// StateConfig controls where daemon state lives and how often it is saved.
type StateConfig struct {
	Dir              string `yaml:"dir,omitempty" toml:"dir,omitempty" jsonschema:"description=State directory; empty uses the XDG state dir"`
	AutosaveInterval string `yaml:"autosave_interval,omitempty" toml:"autosave_interval,omitempty" jsonschema:"description=How often to snapshot sessions and activity (default: 30s)"`
}

// Autosave returns the parsed autosave interval, falling back to 30s.
func (s StateConfig) Autosave() time.Duration {
	if d, err := time.ParseDuration(s.AutosaveInterval); err == nil && d > 0 {
		return d
	}
	return 30 * time.Second
}

// AdminConfig configures the local admin socket.
type AdminConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty" toml:"enabled,omitempty" jsonschema:"description=Serve the local admin endpoint (default: true)"`
	Socket  string `yaml:"socket,omitempty" toml:"socket,omitempty" jsonschema:"description=Unix socket path; empty uses <runtime dir>/admin.sock"`
}

// Config represents the gitscribe.yml configuration.
type Config struct {
	Discord DiscordConfig `yaml:"discord,omitempty" toml:"discord,omitempty" jsonschema:"description=Chat surface settings"`
	GitHub  GitHubConfig  `yaml:"github,omitempty" toml:"github,omitempty" jsonschema:"description=Repository gateway settings"`
	State   StateConfig   `yaml:"state,omitempty" toml:"state,omitempty" jsonschema:"description=State directory and autosave settings"`
	Admin   AdminConfig   `yaml:"admin,omitempty" toml:"admin,omitempty" jsonschema:"description=Local admin endpoint settings"`

	// Extensions captures all other top-level keys for extensibility.
	// The logging section rides here and is decoded by the logging package.
	Extensions map[string]interface{} `yaml:",inline" toml:"-" jsonschema:"-"`
}

// SetDefaults sets default values for configuration.
func (c *Config) SetDefaults() {
	if c.Discord.Prefix == "" {
		c.Discord.Prefix = "--"
	}
	if c.GitHub.DefaultPrivate == nil {
		trueVal := true
		c.GitHub.DefaultPrivate = &trueVal
	}
	if c.GitHub.AutoCreate == nil {
		trueVal := true
		c.GitHub.AutoCreate = &trueVal
	}
	if c.State.AutosaveInterval == "" {
		c.State.AutosaveInterval = "30s"
	}
	if c.Admin.Enabled == nil {
		trueVal := true
		c.Admin.Enabled = &trueVal
	}
}

// UnmarshalExtension decodes a specific extension's configuration from the
// loaded gitscribe.yml into the provided target struct. The target must be a
// pointer. This provides a type-safe way for optional sections to access
// their configuration.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		// It's not an error if the key doesn't exist.
		// The target struct will simply remain zero-valued.
		return nil
	}

	// Use mapstructure to decode the generic map[string]interface{}
	// into the strongly-typed target struct. We configure it to use
	// `yaml` tags for consistency.
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: "yaml",
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}

// Redacted returns a copy of the configuration safe for display: credential
// fields are replaced with a placeholder.
func (c *Config) Redacted() *Config {
	out := *c
	if out.Discord.Token != "" {
		out.Discord.Token = "[REDACTED]"
	}
	if out.GitHub.Token != "" {
		out.GitHub.Token = "[REDACTED]"
	}
	return &out
}

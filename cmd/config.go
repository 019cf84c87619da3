package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gitscribe/gitscribe/cli"
	"github.com/gitscribe/gitscribe/config"
)

const configTemplate = `# gitscribe.yml
discord:
  token: "${DISCORD_TOKEN}"
  # owner_id: "123456789012345678"
  # prefix: "--"
  # guild_id: ""

github:
  token: "${GITHUB_TOKEN}"
  owner: "your-github-username"
  # default_repo: ""
  # default_private: true
  # auto_create: true
  # conventional_commits: false
  # ignore:
  #   - "*.tmp"

# state:
#   autosave_interval: 30s

# admin:
#   enabled: true

# logging:
#   level: info
`

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the gitscribe configuration",
	}
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigPathCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigValidateCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a starter gitscribe.yml in the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current directory: %w", err)
			}
			path := filepath.Join(cwd, "gitscribe.yml")
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := os.WriteFile(path, []byte(configTemplate), 0600); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Printf("Created %s\n", path)
			fmt.Println("Fill in discord.token, github.token, and github.owner before starting the bot.")
			fmt.Println("${VAR} references are expanded from the environment at load time.")
			return nil
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file the bot would load",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.GetOptions(cmd)
			path, err := cli.InitConfig(opts.ConfigFile)
			if err != nil {
				return err
			}
			if path == "" {
				fmt.Fprintln(os.Stderr, "No gitscribe.yml found")
				os.Exit(1)
			}
			fmt.Println(path)
			return nil
		},
	}
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with credentials redacted",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.GetOptions(cmd)
			handler := cli.NewErrorHandler(opts.Verbose)

			cfg, err := loadConfigFromFlags(opts)
			if err != nil {
				return handler.Handle(err)
			}

			redacted := cfg.Redacted()
			if opts.JSONOutput {
				data, err := json.MarshalIndent(redacted, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}
			data, err := yaml.Marshal(redacted)
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		},
	}
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration for problems",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.GetOptions(cmd)
			handler := cli.NewErrorHandler(opts.Verbose)

			// Load already applies the schema, so hitting this point
			// means the file at least parses and has the right shape.
			cfg, err := loadConfigFromFlags(opts)
			if err != nil {
				return handler.Handle(err)
			}
			if err := cfg.Validate(); err != nil {
				return handler.Handle(err)
			}
			if err := cfg.ValidateCredentials(); err != nil {
				return handler.Handle(err)
			}

			fmt.Println("✅ Configuration is valid")
			return nil
		},
	}
}

// loadConfigFromFlags resolves the config path the same way serve does
// so the diagnostics commands inspect what the bot would actually load.
func loadConfigFromFlags(opts cli.CommandOptions) (*config.Config, error) {
	path, err := cli.InitConfig(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return config.LoadDefault()
	}
	return config.Load(path)
}

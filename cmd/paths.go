package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitscribe/gitscribe/pkg/paths"
)

// PathsOutput represents the XDG-compliant paths used by gitscribe.
type PathsOutput struct {
	ConfigDir string `json:"config_dir"`
	StateDir  string `json:"state_dir"`
	LogDir    string `json:"log_dir"`
	Socket    string `json:"socket"`
	PidFile   string `json:"pid_file"`
}

func NewPathsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Print the XDG-compliant paths used by gitscribe",
		Long: `Print the XDG-compliant paths used by gitscribe.

This command outputs the paths in JSON format, making it easy to parse
from scripts and other tools.

The paths follow the XDG Base Directory Specification:
- config_dir: Configuration files (gitscribe.yml)
- state_dir: Session and activity snapshots, pid file
- log_dir: Dated log files
- socket: Local admin endpoint
- pid_file: Single-instance guard

Set GITSCRIBE_HOME to root everything under one directory instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := PathsOutput{
				ConfigDir: paths.ConfigDir(),
				StateDir:  paths.StateDir(),
				LogDir:    paths.LogDir(),
				Socket:    paths.SocketPath(),
				PidFile:   paths.PidFilePath(),
			}

			jsonData, err := json.MarshalIndent(output, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal paths to JSON: %w", err)
			}
			fmt.Println(string(jsonData))
			return nil
		},
	}

	return cmd
}

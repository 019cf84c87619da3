package main

import (
	"os"

	"github.com/gitscribe/gitscribe/cli"
	"github.com/gitscribe/gitscribe/cmd"
	"github.com/gitscribe/gitscribe/version"
)

func main() {
	rootCmd := cli.NewStandardCommand(
		"gitscribe",
		"A Discord bot for managing GitHub repositories from chat",
	)
	cli.SetVersionTemplate(rootCmd, version.GetInfo())

	rootCmd.AddCommand(cmd.NewServeCmd())
	rootCmd.AddCommand(cmd.NewStopCmd())
	rootCmd.AddCommand(cmd.NewStatusCmd())
	rootCmd.AddCommand(cmd.NewConfigCmd())
	rootCmd.AddCommand(cmd.NewLogsCmd())
	rootCmd.AddCommand(cmd.NewPathsCmd())
	rootCmd.AddCommand(cmd.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

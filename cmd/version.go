package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gitscribe/gitscribe/cli"
	"github.com/gitscribe/gitscribe/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return cli.NewVersionCommand("gitscribe", version.GetInfo())
}

package cmd

import (
	"github.com/metal-toolbox/assetctl/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print assetctl version along with build information.",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return printResult(version.Current())
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}

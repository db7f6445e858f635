package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	yarngpt "github.com/hallelx2/yarngpt-sdk"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), yarngpt.GetVersion())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

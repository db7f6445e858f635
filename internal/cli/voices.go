package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	yarngpt "github.com/hallelx2/yarngpt-sdk"
)

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List available voice characters",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, voice := range yarngpt.Voices() {
			fmt.Fprintf(w, "%s\t%s\n", voice, voice.Description())
		}
		w.Flush()
	},
}

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported audio output formats",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, format := range yarngpt.AudioFormats() {
			fmt.Fprintln(cmd.OutOrStdout(), format)
		}
	},
}

func init() {
	rootCmd.AddCommand(voicesCmd)
	rootCmd.AddCommand(formatsCmd)
}

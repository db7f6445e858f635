package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "yarngpt",
	Short: "YarnGPT text-to-speech command line client",
	Long: `yarngpt converts text to speech through the YarnGPT API.

Transient server errors and network failures are retried automatically with
exponential backoff; authentication and quota errors fail immediately.

Authentication:
  The API key is read from --api-key, the YARNGPT_API_KEY environment
  variable, or a .env file in the working directory (in that order of
  precedence). Never put the key directly in shell scripts checked into
  version control.

Exit Codes:
  0 - Success
  1 - Conversion failed (API error, network error, invalid input)`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalFlags.apiKey, "api-key", "",
		"YarnGPT API key (overrides $YARNGPT_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.baseURL, "base-url", "",
		"API base URL (overrides $YARNGPT_BASE_URL, default "+defaultBaseURLHelp+")")
	rootCmd.PersistentFlags().DurationVar(&globalFlags.timeout, "timeout", 0,
		"Per-request timeout (overrides $YARNGPT_TIMEOUT, default 30s)")
	rootCmd.PersistentFlags().IntVar(&globalFlags.maxRetries, "max-retries", -1,
		"Retry budget for transient failures (overrides $YARNGPT_MAX_RETRIES, default 3)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false,
		"Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	yarngpt "github.com/hallelx2/yarngpt-sdk"
)

var convertCmd = &cobra.Command{
	Use:   "convert <text>",
	Short: "Convert text to speech and write the audio to a file",
	Long: `Convert sends a single text-to-speech request and writes the resulting
audio to the output file. Parent directories are created as needed.

Text may be at most 2000 characters. Transient server errors are retried
automatically; authentication and quota errors fail immediately.

Examples:
  # Convert with defaults (service default voice, mp3)
  yarngpt convert "Hello from YarnGPT" -o hello.mp3

  # Pick a voice and format
  yarngpt convert "Good morning" --voice Idera --format wav -o morning.wav`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

type convertFlagValues struct {
	voice  string
	format string
	output string
}

var convertFlags convertFlagValues

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVar(&convertFlags.voice, "voice", "",
		"Voice character (run 'yarngpt voices' to list; default: service default)")
	convertCmd.Flags().StringVar(&convertFlags.format, "format", "",
		"Audio output format: mp3|wav|opus|flac (default: mp3)")
	convertCmd.Flags().StringVarP(&convertFlags.output, "output", "o", "",
		"Output file path (default: output.<format extension>)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	text := args[0]
	verbose := getVerboseFlag(cmd)

	opts, err := requestOptions(convertFlags.voice, convertFlags.format)
	if err != nil {
		return err
	}

	client, err := buildClient(cmd)
	if err != nil {
		return err
	}

	output := convertFlags.output
	if output == "" {
		output = "output." + yarngpt.AudioFormat(convertFlags.format).Ext()
	}

	ctx, cancel := signalContext()
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "[VERBOSE] Converting %d characters to %s\n", len(text), output)
	}

	path, err := client.TextToSpeechFile(ctx, text, output, opts...)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	fmt.Println(path)
	return nil
}

// signalContext returns a context cancelled on SIGINT/SIGTERM so an in-flight
// conversion (including its backoff sleeps) aborts promptly.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\n[INTERRUPT] Received interrupt signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

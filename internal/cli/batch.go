package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	yarngpt "github.com/hallelx2/yarngpt-sdk"
)

var batchCmd = &cobra.Command{
	Use:   "batch [texts...]",
	Short: "Convert multiple texts to speech",
	Long: `Batch converts multiple texts and writes one audio file per text to the
output directory, named <prefix>_<index>.<ext> in input order.

Texts come from positional arguments, or from --input (one text per line,
blank lines skipped). Conversions run concurrently by default; each request
carries its own retry loop.

By default the batch aborts on the first failure. With --keep-going every
text runs to completion and per-text failures are reported individually; the
command exits non-zero if any text failed.

Examples:
  # Convert three greetings concurrently
  yarngpt batch "Hello" "Good morning" "Good night" --output-dir ./audio

  # Read texts from a file, one per line
  yarngpt batch --input lines.txt --output-dir ./audio --prefix clip

  # Strict input order, stop at the first failure
  yarngpt batch --input lines.txt --output-dir ./audio --sequential

  # Convert everything, report failures at the end
  yarngpt batch --input lines.txt --output-dir ./audio --keep-going`,
	Args: cobra.ArbitraryArgs,
	RunE: runBatch,
}

type batchFlagValues struct {
	input      string
	outputDir  string
	prefix     string
	voice      string
	format     string
	sequential bool
	keepGoing  bool
}

var batchFlags batchFlagValues

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchFlags.input, "input", "i", "",
		"Read texts from a file, one per line (blank lines skipped)")
	batchCmd.Flags().StringVarP(&batchFlags.outputDir, "output-dir", "d", ".",
		"Directory for the generated audio files")
	batchCmd.Flags().StringVar(&batchFlags.prefix, "prefix", "audio",
		"Filename prefix: files are named <prefix>_<index>.<ext>")
	batchCmd.Flags().StringVar(&batchFlags.voice, "voice", "",
		"Voice character applied to every text")
	batchCmd.Flags().StringVar(&batchFlags.format, "format", "",
		"Audio output format applied to every text: mp3|wav|opus|flac")
	batchCmd.Flags().BoolVar(&batchFlags.sequential, "sequential", false,
		"Convert one text at a time in input order instead of concurrently")
	batchCmd.Flags().BoolVar(&batchFlags.keepGoing, "keep-going", false,
		"Run every text to completion and report per-text failures")
}

func runBatch(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)

	texts, err := collectTexts(args, batchFlags.input)
	if err != nil {
		return err
	}
	if len(texts) == 0 {
		return fmt.Errorf("no texts to convert: pass texts as arguments or use --input")
	}

	opts, err := requestOptions(batchFlags.voice, batchFlags.format)
	if err != nil {
		return err
	}

	client, err := buildClient(cmd)
	if err != nil {
		return err
	}

	mode := yarngpt.Concurrent
	if batchFlags.sequential {
		mode = yarngpt.Sequential
	}

	ctx, cancel := signalContext()
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "[VERBOSE] Converting %d texts (%s mode) into %s\n",
			len(texts), mode, batchFlags.outputDir)
	}

	if batchFlags.keepGoing {
		return runBatchKeepGoing(ctx, client, texts, mode, opts)
	}

	paths, err := client.BatchTextToSpeechFiles(ctx, texts,
		batchFlags.outputDir, batchFlags.prefix, mode, opts...)
	if err != nil {
		return fmt.Errorf("batch conversion failed: %w", err)
	}

	for _, path := range paths {
		fmt.Println(path)
	}
	return nil
}

// runBatchKeepGoing uses the result-collecting batch variant and writes the
// successful items itself, so one bad text does not discard the rest.
func runBatchKeepGoing(ctx context.Context, client *yarngpt.Client, texts []string, mode yarngpt.BatchMode, opts []yarngpt.RequestOption) error {
	if err := os.MkdirAll(batchFlags.outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var probeFormat yarngpt.AudioFormat
	if batchFlags.format != "" {
		probeFormat = yarngpt.AudioFormat(batchFlags.format)
	}
	ext := probeFormat.Ext()

	results := client.BatchTextToSpeechResults(ctx, texts, mode, opts...)

	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "item %d failed: %v\n", result.Index, result.Err)
			continue
		}
		path := filepath.Join(batchFlags.outputDir,
			fmt.Sprintf("%s_%d.%s", batchFlags.prefix, result.Index, ext))
		if err := os.WriteFile(path, result.Audio, 0o644); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "item %d failed: %v\n", result.Index, err)
			continue
		}
		fmt.Println(path)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d conversions failed", failed, len(texts))
	}
	return nil
}

func collectTexts(args []string, inputPath string) ([]string, error) {
	if inputPath == "" {
		return args, nil
	}
	if len(args) > 0 {
		return nil, fmt.Errorf("--input and positional texts are mutually exclusive")
	}

	file, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	var texts []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		texts = append(texts, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return texts, nil
}

package yarngpt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// BatchMode selects how a batch fans out its conversions.
type BatchMode int

const (
	// Sequential executes conversions one at a time in input order,
	// aborting on the first failure.
	Sequential BatchMode = iota
	// Concurrent launches all conversions at once; each carries its own
	// independent retry loop. Results keep input order regardless of
	// completion order.
	Concurrent
)

// String returns the mode name for logs and metric labels.
func (m BatchMode) String() string {
	switch m {
	case Sequential:
		return "sequential"
	case Concurrent:
		return "concurrent"
	default:
		return fmt.Sprintf("BatchMode(%d)", int(m))
	}
}

// BatchResult is one per-index outcome from the result-collecting batch
// variant. Exactly one of Audio and Err is set.
type BatchResult struct {
	Index int
	Audio []byte
	Err   error
}

// BatchTextToSpeech converts texts and returns audio aligned by index. Both
// modes share the single-conversion code path, so validation, classification
// and retry behave identically whether one request or many are in flight.
// Any failure aborts the batch: sequential mode stops at the failing item,
// concurrent mode cancels the remaining conversions and reports the first
// discovered error.
func (c *Client) BatchTextToSpeech(ctx context.Context, texts []string, mode BatchMode, opts ...RequestOption) ([][]byte, error) {
	c.metrics.RecordBatch(mode, len(texts))
	results := make([][]byte, len(texts))

	if mode == Sequential {
		for i, text := range texts {
			audio, err := c.TextToSpeech(ctx, text, opts...)
			if err != nil {
				return nil, err
			}
			results[i] = audio
		}
		return results, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			audio, err := c.TextToSpeech(ctx, text, opts...)
			if err != nil {
				return err
			}
			results[i] = audio
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// BatchTextToSpeechResults is the collecting variant: every item runs to
// completion and successes and failures are both captured per index. It never
// fails as a whole for partial failure.
func (c *Client) BatchTextToSpeechResults(ctx context.Context, texts []string, mode BatchMode, opts ...RequestOption) []BatchResult {
	c.metrics.RecordBatch(mode, len(texts))
	results := make([]BatchResult, len(texts))

	convert := func(i int, text string) {
		audio, err := c.TextToSpeech(ctx, text, opts...)
		results[i] = BatchResult{Index: i, Audio: audio, Err: err}
	}

	if mode == Sequential {
		for i, text := range texts {
			convert(i, text)
		}
		return results
	}

	var g errgroup.Group
	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			convert(i, text)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// BatchTextToSpeechFiles converts texts and writes each result to
// outputDir/<prefix>_<index>.<ext>, creating the directory first. The
// extension follows the requested response format, defaulting to mp3. An
// empty prefix defaults to "audio". Returns the written paths aligned by
// index.
func (c *Client) BatchTextToSpeechFiles(ctx context.Context, texts []string, outputDir, prefix string, mode BatchMode, opts ...RequestOption) ([]string, error) {
	if prefix == "" {
		prefix = "audio"
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	var probe ttsRequest
	for _, opt := range opts {
		opt(&probe)
	}
	ext := AudioFormat(probe.ResponseFormat).Ext()

	audios, err := c.BatchTextToSpeech(ctx, texts, mode, opts...)
	if err != nil {
		return nil, err
	}

	paths := make([]string, len(audios))
	for i, audio := range audios {
		path := filepath.Join(outputDir, fmt.Sprintf("%s_%d.%s", prefix, i, ext))
		if err := os.WriteFile(path, audio, 0o644); err != nil {
			return nil, fmt.Errorf("writing audio file %q: %w", path, err)
		}
		paths[i] = path
	}
	return paths, nil
}

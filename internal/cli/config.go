package cli

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	yarngpt "github.com/hallelx2/yarngpt-sdk"
)

const defaultBaseURLHelp = yarngpt.DefaultBaseURL

// Environment variables consulted when the matching flag is not set.
const (
	envBaseURL    = "YARNGPT_BASE_URL"
	envTimeout    = "YARNGPT_TIMEOUT"
	envMaxRetries = "YARNGPT_MAX_RETRIES"
)

// globalFlagValues holds the persistent flag values shared by all commands.
// Zero values mean "not set": resolution falls through to the environment,
// then to the library defaults.
type globalFlagValues struct {
	apiKey     string
	baseURL    string
	timeout    time.Duration
	maxRetries int
}

var globalFlags globalFlagValues

// clientSettings is the fully resolved client configuration.
// Precedence per field: flag > environment variable > default.
type clientSettings struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	Verbose    bool
}

// resolveSettings merges flags and environment into a clientSettings. A .env
// file in the working directory is loaded first so its variables participate
// in the environment lookup.
func resolveSettings(flags globalFlagValues, verbose bool) (clientSettings, error) {
	_ = godotenv.Load()

	settings := clientSettings{
		APIKey:     flags.apiKey,
		BaseURL:    flags.baseURL,
		Timeout:    flags.timeout,
		MaxRetries: flags.maxRetries,
		Verbose:    verbose,
	}

	if settings.BaseURL == "" {
		settings.BaseURL = os.Getenv(envBaseURL)
	}

	if settings.Timeout == 0 {
		if raw := os.Getenv(envTimeout); raw != "" {
			parsed, err := time.ParseDuration(raw)
			if err != nil {
				return clientSettings{}, fmt.Errorf("invalid %s %q: %w", envTimeout, raw, err)
			}
			settings.Timeout = parsed
		}
	}

	if settings.MaxRetries < 0 {
		if raw := os.Getenv(envMaxRetries); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				return clientSettings{}, fmt.Errorf("invalid %s %q: must be a non-negative integer", envMaxRetries, raw)
			}
			settings.MaxRetries = parsed
		}
	}

	return settings, nil
}

// options converts resolved settings into client options. Unset fields
// produce no option so the library defaults apply.
func (s clientSettings) options() []yarngpt.Option {
	var opts []yarngpt.Option
	if s.BaseURL != "" {
		opts = append(opts, yarngpt.WithBaseURL(s.BaseURL))
	}
	if s.Timeout > 0 {
		opts = append(opts, yarngpt.WithTimeout(s.Timeout))
	}
	if s.MaxRetries >= 0 {
		opts = append(opts, yarngpt.WithMaxRetries(s.MaxRetries))
	}
	if s.Verbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			opts = append(opts,
				yarngpt.WithLogger(yarngpt.NewZapLogger(logger)),
				yarngpt.WithDebug())
		}
	}
	return opts
}

// buildClient resolves configuration and constructs the API client.
func buildClient(cmd *cobra.Command) (*yarngpt.Client, error) {
	settings, err := resolveSettings(globalFlags, getVerboseFlag(cmd))
	if err != nil {
		return nil, err
	}

	client, err := yarngpt.New(settings.APIKey, settings.options()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

// parseVoice validates a --voice value against the catalog. Empty means the
// service default.
func parseVoice(name string) (yarngpt.Voice, error) {
	if name == "" {
		return "", nil
	}
	for _, v := range yarngpt.Voices() {
		if string(v) == name {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown voice %q: run 'yarngpt voices' to list available voices", name)
}

// parseFormat validates a --format value. Empty means the service default.
func parseFormat(name string) (yarngpt.AudioFormat, error) {
	if name == "" {
		return "", nil
	}
	format := yarngpt.AudioFormat(name)
	if !format.Valid() {
		return "", fmt.Errorf("unknown format %q: run 'yarngpt formats' to list available formats", name)
	}
	return format, nil
}

// requestOptions builds per-request options from validated voice/format flags.
func requestOptions(voice, format string) ([]yarngpt.RequestOption, error) {
	var opts []yarngpt.RequestOption

	v, err := parseVoice(voice)
	if err != nil {
		return nil, err
	}
	if v != "" {
		opts = append(opts, yarngpt.WithVoice(v))
	}

	f, err := parseFormat(format)
	if err != nil {
		return nil, err
	}
	if f != "" {
		opts = append(opts, yarngpt.WithResponseFormat(f))
	}

	return opts, nil
}

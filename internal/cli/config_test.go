package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSettings_FlagsTakePrecedence(t *testing.T) {
	t.Setenv(envBaseURL, "https://env.example.com")
	t.Setenv(envTimeout, "5s")
	t.Setenv(envMaxRetries, "7")

	flags := globalFlagValues{
		apiKey:     "flag-key",
		baseURL:    "https://flag.example.com",
		timeout:    10 * time.Second,
		maxRetries: 2,
	}

	settings, err := resolveSettings(flags, false)
	require.NoError(t, err)

	assert.Equal(t, "flag-key", settings.APIKey)
	assert.Equal(t, "https://flag.example.com", settings.BaseURL)
	assert.Equal(t, 10*time.Second, settings.Timeout)
	assert.Equal(t, 2, settings.MaxRetries)
}

func TestResolveSettings_FallsBackToEnvironment(t *testing.T) {
	t.Setenv(envBaseURL, "https://env.example.com")
	t.Setenv(envTimeout, "45s")
	t.Setenv(envMaxRetries, "5")

	settings, err := resolveSettings(globalFlagValues{maxRetries: -1}, false)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com", settings.BaseURL)
	assert.Equal(t, 45*time.Second, settings.Timeout)
	assert.Equal(t, 5, settings.MaxRetries)
}

func TestResolveSettings_UnsetLeavesDefaults(t *testing.T) {
	t.Setenv(envBaseURL, "")
	t.Setenv(envTimeout, "")
	t.Setenv(envMaxRetries, "")

	settings, err := resolveSettings(globalFlagValues{maxRetries: -1}, false)
	require.NoError(t, err)

	assert.Empty(t, settings.BaseURL)
	assert.Zero(t, settings.Timeout)
	assert.Equal(t, -1, settings.MaxRetries)
	assert.Empty(t, settings.options())
}

func TestResolveSettings_InvalidTimeout(t *testing.T) {
	t.Setenv(envTimeout, "not-a-duration")

	_, err := resolveSettings(globalFlagValues{maxRetries: -1}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), envTimeout)
}

func TestResolveSettings_InvalidMaxRetries(t *testing.T) {
	t.Setenv(envTimeout, "")
	t.Setenv(envMaxRetries, "banana")

	_, err := resolveSettings(globalFlagValues{maxRetries: -1}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), envMaxRetries)
}

func TestResolveSettings_NegativeEnvMaxRetries(t *testing.T) {
	t.Setenv(envTimeout, "")
	t.Setenv(envMaxRetries, "-3")

	_, err := resolveSettings(globalFlagValues{maxRetries: -1}, false)
	require.Error(t, err)
}

func TestClientSettingsOptions(t *testing.T) {
	settings := clientSettings{
		BaseURL:    "https://api.example.com",
		Timeout:    15 * time.Second,
		MaxRetries: 4,
	}
	assert.Len(t, settings.options(), 3)

	settings.Verbose = true
	assert.Len(t, settings.options(), 5)
}

func TestParseVoice(t *testing.T) {
	v, err := parseVoice("Idera")
	require.NoError(t, err)
	assert.Equal(t, "Idera", string(v))

	v, err = parseVoice("")
	require.NoError(t, err)
	assert.Empty(t, v)

	_, err = parseVoice("NotAVoice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NotAVoice")
}

func TestParseFormat(t *testing.T) {
	f, err := parseFormat("wav")
	require.NoError(t, err)
	assert.Equal(t, "wav", string(f))

	f, err = parseFormat("")
	require.NoError(t, err)
	assert.Empty(t, f)

	_, err = parseFormat("ogg")
	require.Error(t, err)
}

func TestRequestOptions(t *testing.T) {
	opts, err := requestOptions("", "")
	require.NoError(t, err)
	assert.Empty(t, opts)

	opts, err = requestOptions("Emma", "flac")
	require.NoError(t, err)
	assert.Len(t, opts, 2)

	_, err = requestOptions("Nobody", "")
	require.Error(t, err)

	_, err = requestOptions("", "midi")
	require.Error(t, err)
}

package config

import (
	stderrors "errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tcppub/internal/shared/errors"
	"tcppub/internal/shared/types"
)

func writeIni(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tcppub.ini")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault_ResolvesToBuiltinValues(t *testing.T) {
	sc, err := ServerConfig(Default())
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", sc.Host)
	assert.Equal(t, 5000, sc.Port)
	assert.Equal(t, time.Second, sc.Interval)
	assert.Equal(t, "data.txt", sc.Filename)
	assert.False(t, sc.MultiMessage)
	assert.Equal(t, "\n", sc.Delimiter)
	assert.True(t, sc.Loop)
	assert.Zero(t, sc.WriteTimeout)
	assert.False(t, sc.IsolateSourceErrors)
}

func TestLoadIni_OverridesOnlyPresentKeys(t *testing.T) {
	path := writeIni(t, `
[server]
port = 6001
interval = 0.25
multi_message = true
delimiter = ","
loop = false

[log]
level = debug
`)
	cfg := Default()
	require.NoError(t, LoadIni(cfg, path))

	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 6001, cfg.Port)
	assert.Equal(t, "data.txt", cfg.Filename)
	assert.Equal(t, "debug", cfg.Level)

	sc, err := ServerConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, sc.Interval)
	assert.True(t, sc.MultiMessage)
	assert.Equal(t, ",", sc.Delimiter)
	assert.False(t, sc.Loop)
}

func TestLoadIni_EnvOverride(t *testing.T) {
	path := writeIni(t, "[server]\nport = 6001\n")
	t.Setenv("TCPPUB_PORT", "7002")
	t.Setenv("TCPPUB_FILENAME", "frames.txt")

	cfg := Default()
	require.NoError(t, LoadIni(cfg, path))
	assert.Equal(t, 7002, cfg.Port)
	assert.Equal(t, "frames.txt", cfg.Filename)
}

func TestLoadIni_MissingFile(t *testing.T) {
	err := LoadIni(Default(), filepath.Join(t.TempDir(), "absent.ini"))
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrConfig))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *types.Config)
	}{
		{"port too large", func(c *types.Config) { c.Port = 70000 }},
		{"negative port", func(c *types.Config) { c.Port = -1 }},
		{"negative interval", func(c *types.Config) { c.Interval = -0.5 }},
		{"negative write timeout", func(c *types.Config) { c.WriteTimeout = -1 }},
		{"NaN interval", func(c *types.Config) { c.Interval = math.NaN() }},
		{"infinite interval", func(c *types.Config) { c.Interval = math.Inf(1) }},
		{"interval overflows duration", func(c *types.Config) { c.Interval = 1e10 }},
		{"NaN write timeout", func(c *types.Config) { c.WriteTimeout = math.NaN() }},
		{"infinite write timeout", func(c *types.Config) { c.WriteTimeout = math.Inf(1) }},
		{"write timeout overflows duration", func(c *types.Config) { c.WriteTimeout = 1e10 }},
		{"empty filename", func(c *types.Config) { c.Filename = " " }},
		{"empty delimiter in multi mode", func(c *types.Config) { c.MultiMessage = true; c.Delimiter = "" }},
		{"bad escape", func(c *types.Config) { c.Delimiter = `\q` }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, errors.ErrConfig))
		})
	}
}

func TestServerConfig_LargeIntervalStaysPositive(t *testing.T) {
	cfg := Default()
	cfg.Interval = 1e9
	cfg.WriteTimeout = 1e9

	sc, err := ServerConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(1e9)*time.Second, sc.Interval)
	assert.Equal(t, time.Duration(1e9)*time.Second, sc.WriteTimeout)
}

func TestServerConfig_RejectsOverflowingInterval(t *testing.T) {
	cfg := Default()
	cfg.Interval = 1e10

	_, err := ServerConfig(cfg)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrConfig))
}

func TestValidate_EmptyDelimiterAllowedInSingleMode(t *testing.T) {
	cfg := Default()
	cfg.Delimiter = ""
	assert.NoError(t, Validate(cfg))
}

func TestUnescapeDelimiter(t *testing.T) {
	tests := map[string]string{
		`\n`:   "\n",
		`\r\n`: "\r\n",
		`\t`:   "\t",
		`\x00`: "\x00",
		`,`:    ",",
		`||`:   "||",
		`a"\n`: "a\"\n",
		`C:\\`: `C:\`,
		`\\n`:  `\n`,
	}
	for in, want := range tests {
		got, err := UnescapeDelimiter(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestUnescapeDelimiter_StrayBackslashRejected(t *testing.T) {
	_, err := UnescapeDelimiter(`C:\data`)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrConfig))
}

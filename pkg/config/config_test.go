package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/cargoquery/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv(EnvIndexURL, "")
	path := writeConfig(t, `
index_url = "sparse+https://mirror.example.com/index/"
user_agent = "ci-bot/2.0"
timeout = "1m30s"
pretty = true
delimiter = ","
ignore_missing = true
max_depth = 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Config{
		IndexURL:      "sparse+https://mirror.example.com/index/",
		UserAgent:     "ci-bot/2.0",
		Timeout:       Duration(90 * time.Second),
		Pretty:        true,
		Delimiter:     ",",
		IgnoreMissing: true,
		MaxDepth:      3,
	}, cfg)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	t.Setenv(EnvIndexURL, "")
	cfg, err := Load(writeConfig(t, "pretty = true\n"))
	require.NoError(t, err)

	want := Default()
	want.Pretty = true
	assert.Equal(t, want, cfg)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv(EnvIndexURL, "http://localhost:8080")
	cfg, err := Load(writeConfig(t, `index_url = "https://other.example.com"`))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.IndexURL)
}

func TestLoadErrors(t *testing.T) {
	t.Setenv(EnvIndexURL, "")
	tests := []struct {
		name    string
		content string
		code    errs.Code
	}{
		{"malformed", "pretty = \n", errs.ErrCodeDeserialize},
		{"bad duration", `timeout = "soon"`, errs.ErrCodeDeserialize},
		{"unknown key", "colour = true\n", errs.ErrCodeInvalidInput},
		{"bad scheme", `index_url = "ftp://example.com"`, errs.ErrCodeInvalidInput},
		{"negative depth", "max_depth = -1\n", errs.ErrCodeInvalidInput},
		{"negative timeout", `timeout = "-1s"`, errs.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Equal(t, tt.code, errs.GetCode(err), "got %v", err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadDefault(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(EnvIndexURL, "")

	cfg, err := LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "cargoquery"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cargoquery", "config.toml"), []byte("max_depth = 2\n"), 0o600))

	cfg, err = LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.MaxDepth)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", "cargoquery", "config.toml"), path)
}

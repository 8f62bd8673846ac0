// Package config loads cargoquery's user configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/cargoquery/config.toml
// (~/.config/cargoquery/config.toml when XDG_CONFIG_HOME is unset):
//
//	index_url      = "https://index.crates.io"
//	user_agent     = "my-tool/1.0"
//	timeout        = "15s"
//	pretty         = true
//	delimiter      = ","
//	ignore_missing = false
//	max_depth      = 3
//
// Every key is optional. CARGOQUERY_INDEX_URL overrides index_url, and
// command-line flags override both.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/cargoquery/pkg/errors"
	"github.com/matzehuels/cargoquery/pkg/integrations"
	"github.com/matzehuels/cargoquery/pkg/integrations/crates"
)

const (
	appName  = "cargoquery"
	fileName = "config.toml"

	// EnvIndexURL overrides the configured index URL.
	EnvIndexURL = "CARGOQUERY_INDEX_URL"
)

// Config holds user preferences.
type Config struct {
	IndexURL      string   `toml:"index_url"`
	UserAgent     string   `toml:"user_agent"`
	Timeout       Duration `toml:"timeout"`
	Pretty        bool     `toml:"pretty"`
	Delimiter     string   `toml:"delimiter"`
	IgnoreMissing bool     `toml:"ignore_missing"`
	MaxDepth      int      `toml:"max_depth"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		IndexURL: crates.DefaultIndexURL,
		Timeout:  Duration(integrations.DefaultTimeout),
	}
}

// Duration is a time.Duration written as a Go duration string ("10s").
type Duration time.Duration

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// DefaultPath returns the config file location following the XDG base
// directory convention.
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// LoadDefault loads the file at [DefaultPath]. A missing file, or a home
// directory that cannot be determined, yields [Default].
func LoadDefault() (Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return withEnv(Default())
	}
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return withEnv(Default())
	}
	return cfg, err
}

// Load reads the config file at path, applies environment overrides and
// validates the result.
//
// A missing file returns an IO error wrapping fs.ErrNotExist, malformed TOML
// DESERIALIZE, and unknown keys or invalid values INVALID_INPUT.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeIO, err, "read config")
	}

	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeDeserialize, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errs.New(errs.ErrCodeInvalidInput, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return withEnv(cfg)
}

func withEnv(cfg Config) (Config, error) {
	if v := os.Getenv(EnvIndexURL); v != "" {
		cfg.IndexURL = v
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and the index URL scheme.
func (c Config) Validate() error {
	if c.IndexURL != "" {
		if err := errs.ValidateURL(crates.NormalizeIndexURL(c.IndexURL)); err != nil {
			return err
		}
	}
	if c.Timeout < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "timeout must not be negative")
	}
	if c.MaxDepth < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "max_depth must not be negative")
	}
	return nil
}

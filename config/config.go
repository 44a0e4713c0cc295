// Package config loads the optional TOML configuration of boundstable.
//
// Example:
//
//	input_dir   = "results"
//	output_path = "paper/table_bounds.tex"
//	log_level   = "debug"
//
// Input file names are fixed; only their directory is configurable.
package config

import (
	"log/slog"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Defaults.
const (
	DefaultInputDir   = "."
	DefaultOutputPath = "table_bounds.tex"
	DefaultLogLevel   = "info"
)

// Config holds the settings for one table run.
type Config struct {
	// InputDir contains the results_systematic_<suffix>.txt files.
	InputDir string `toml:"input_dir"`

	// OutputPath is the .tex file written, replaced on every run.
	OutputPath string `toml:"output_path"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		InputDir:   DefaultInputDir,
		OutputPath: DefaultOutputPath,
		LogLevel:   DefaultLogLevel,
	}
}

// Load reads a TOML file over the defaults. An empty path returns the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrapf(err, "decode config %s", path)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}

		return Config{}, errors.Errorf("config %s: unknown keys: %s",
			path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrapf(err, "config %s", path)
	}

	return cfg, nil
}

// Validate checks that all fields are usable.
func (c Config) Validate() error {
	if c.InputDir == "" {
		return errors.New("input_dir is empty")
	}

	if c.OutputPath == "" {
		return errors.New("output_path is empty")
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

// Level returns the slog level named by LogLevel.
func (c Config) Level() slog.Level {
	lvl, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}

	return lvl
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, errors.Errorf("invalid log_level %q", name)
	}

	return lvl, nil
}

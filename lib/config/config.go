// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/manifestpatch/lib/binhash"
	"github.com/bureau-foundation/manifestpatch/lib/container"
	"github.com/bureau-foundation/manifestpatch/lib/manifest"
)

// EnvironmentVariable names the variable Load reads the config path
// from.
const EnvironmentVariable = "MANIFESTPATCH_CONFIG"

// DefaultContainer is the manifest file name the game ships.
const DefaultContainer = container.DefaultFileName

// DefaultPlaceholder fills hash slots when no digest is computed.
const DefaultPlaceholder = manifest.PlaceholderHash

// Config is the configuration shared by patch-manifest and
// manifest-tool.
type Config struct {
	// Container is the path of the encrypted manifest.
	// Default: build-manifest.bin
	Container string `yaml:"container"`

	// Root is the directory manifest paths are resolved against when
	// looking up file sizes.
	// Default: .
	Root string `yaml:"root"`

	// Hasher configures how chunk hash slots are filled.
	Hasher HasherConfig `yaml:"hasher"`

	// NonceJournal is the path of the nonce journal. Empty disables
	// journaling.
	NonceJournal string `yaml:"nonce_journal"`

	// Log configures diagnostic output.
	Log LogConfig `yaml:"log"`
}

// HasherConfig selects the chunk hasher.
type HasherConfig struct {
	// Algorithm is one of "placeholder", "sha1" or "blake3".
	// Default: placeholder
	Algorithm string `yaml:"algorithm"`

	// Placeholder is written for every chunk by the placeholder
	// hasher, and for absent files by the others.
	Placeholder string `yaml:"placeholder"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	// Format is "auto" (text on a terminal, JSON otherwise), "text" or
	// "json".
	// Default: auto
	Format string `yaml:"format"`

	// Level is a slog level name: debug, info, warn or error.
	// Default: info
	Level string `yaml:"level"`
}

// HasherAlgorithms lists the accepted hasher.algorithm values.
var HasherAlgorithms = []string{manifest.HasherPlaceholder, manifest.HasherSHA1, manifest.HasherBLAKE3}

// LogFormats lists the accepted log.format values.
var LogFormats = []string{"auto", "text", "json"}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Container: DefaultContainer,
		Root:      ".",
		Hasher: HasherConfig{
			Algorithm:   manifest.HasherPlaceholder,
			Placeholder: DefaultPlaceholder,
		},
		Log: LogConfig{
			Format: "auto",
			Level:  "info",
		},
	}
}

// Load loads the file named by MANIFESTPATCH_CONFIG, or returns
// Default when the variable is unset.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return Default(), nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path over the
// defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.expandVariables()

	return cfg, nil
}

// Resolve loads from path when it is set and falls back to Load
// otherwise. Commands call it with their --config flag value.
func Resolve(path string) (*Config, error) {
	if path != "" {
		return LoadFile(path)
	}
	return Load()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Root = expandVars(c.Root, vars)
	vars["MANIFESTPATCH_ROOT"] = c.Root

	c.Container = expandVars(c.Container, vars)
	c.NonceJournal = expandVars(c.NonceJournal, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Provided vars first, then the environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Container == "" {
		errs = append(errs, errors.New("container is required"))
	}
	if c.Root == "" {
		errs = append(errs, errors.New("root is required"))
	}
	if !slices.Contains(HasherAlgorithms, c.Hasher.Algorithm) {
		errs = append(errs, fmt.Errorf("hasher.algorithm must be one of: %v", HasherAlgorithms))
	}
	if c.Hasher.Placeholder == "" {
		errs = append(errs, errors.New("hasher.placeholder is required"))
	} else if _, err := binhash.ParseDigest(c.Hasher.Placeholder); err != nil {
		errs = append(errs, fmt.Errorf("hasher.placeholder must be a %d-character hex digest: %w", 2*binhash.DigestSize, err))
	}
	if !slices.Contains(LogFormats, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format must be one of: %v", LogFormats))
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

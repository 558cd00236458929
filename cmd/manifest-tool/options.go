// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/manifestpatch/cmd/manifest-tool/cli"
	"github.com/bureau-foundation/manifestpatch/lib/config"
	"github.com/bureau-foundation/manifestpatch/lib/patch"
	"github.com/bureau-foundation/manifestpatch/lib/secret"
)

// keyFlags is the --key / --key-file pair.
type keyFlags struct {
	hex  string
	file string
}

func (flags *keyFlags) register(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&flags.hex, "key", "", "AES-128 key as 32 hex characters")
	flagSet.StringVar(&flags.file, "key-file", "", "file holding the hex key (- for stdin)")
}

func (flags *keyFlags) provided() bool {
	return flags.hex != "" || flags.file != ""
}

// load returns the key as a secret buffer the caller must Close.
func (flags *keyFlags) load() (*secret.Buffer, error) {
	switch {
	case flags.hex != "" && flags.file != "":
		return nil, cli.Validation("--key and --key-file are mutually exclusive")
	case flags.hex != "":
		key, err := patch.ParseKey(flags.hex)
		if err != nil {
			return nil, categorize(err)
		}
		return key, nil
	case flags.file != "":
		text, err := secret.ReadFromPath(flags.file)
		if err != nil {
			return nil, cli.Validation("reading key: %w", err)
		}
		defer text.Close()
		key, err := patch.DecodeKey(text.Bytes())
		if err != nil {
			return nil, categorize(err)
		}
		return key, nil
	default:
		return nil, cli.Validation("missing required flag --key or --key-file").
			WithHint("Pass the AES key as hex with --key, or put it in a file and pass --key-file.")
	}
}

// configFlags is --config plus --container, which every command
// accepts.
type configFlags struct {
	path      string
	container string
}

func (flags *configFlags) register(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&flags.path, "config", "", "YAML config file (default: $"+config.EnvironmentVariable+")")
	flagSet.StringVar(&flags.container, "container", "", "manifest container path (default: "+config.DefaultContainer+")")
}

// load resolves the configuration and applies the --container
// override.
func (flags *configFlags) load() (*config.Config, error) {
	cfg, err := config.Resolve(flags.path)
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	if flags.container != "" {
		cfg.Container = flags.container
	}
	return cfg, nil
}

// validate checks cfg after every flag override has been applied.
func validate(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return cli.Validation("invalid configuration: %w", err)
	}
	return nil
}

func newLogger(stderr io.Writer, cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	return cli.NewCommandLogger(stderr, cfg.Log.Format, level)
}

// categorize wraps a pipeline error in the ToolError category that
// matches its kind.
func categorize(err error) error {
	var patchError *patch.Error
	if !errors.As(err, &patchError) {
		return &cli.ToolError{Category: cli.CategoryInternal, Err: err}
	}
	switch patchError.Kind {
	case patch.MissingContainer:
		return &cli.ToolError{Category: cli.CategoryNotFound, Err: err}
	case patch.InvalidKey, patch.MalformedContainer, patch.AuthenticationFailure, patch.DeserializationFailure:
		return &cli.ToolError{Category: cli.CategoryValidation, Err: err}
	default:
		return &cli.ToolError{Category: cli.CategoryInternal, Err: err}
	}
}

// noArgs rejects positional arguments for commands that take none.
func noArgs(command string, args []string) error {
	if len(args) > 0 {
		return cli.Validation("%s takes no arguments (got %q)", command, args[0]).
			WithHint(fmt.Sprintf("Run 'manifest-tool %s --help' for usage.", command))
	}
	return nil
}

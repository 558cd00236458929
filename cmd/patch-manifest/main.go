// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// patch-manifest refreshes the file sizes recorded in an encrypted
// build manifest so that it matches the files on disk.
//
// Usage:
//
//	patch-manifest <AES key>
//
// The key is 32 hexadecimal characters (AES-128). The manifest is read
// from build-manifest.bin in the working directory, decrypted, patched,
// re-encrypted under a fresh nonce, and written back in place. The
// original file is only replaced after every step has succeeded.
//
// Optional behavior (manifest location, file root, chunk hasher, nonce
// journal, log format) comes from the YAML file named by
// MANIFESTPATCH_CONFIG. Without it the built-in defaults apply.
//
// Progress goes to stdout. Every diagnostic goes to stderr, and every
// failure exits with status 1.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/manifestpatch/cmd/manifest-tool/cli"
	"github.com/bureau-foundation/manifestpatch/lib/clock"
	"github.com/bureau-foundation/manifestpatch/lib/config"
	"github.com/bureau-foundation/manifestpatch/lib/manifest"
	"github.com/bureau-foundation/manifestpatch/lib/noncelog"
	"github.com/bureau-foundation/manifestpatch/lib/patch"
	"github.com/bureau-foundation/manifestpatch/lib/version"
)

const usage = "Usage: patch-manifest <AES key>"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one invocation and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	var showVersion bool
	flagSet := pflag.NewFlagSet("patch-manifest", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintln(stdout, usage)
			return 0
		}
		fmt.Fprintln(stderr, usage)
		return 1
	}
	if showVersion {
		version.Print(stdout, "patch-manifest")
		return 0
	}
	if flagSet.NArg() != 1 {
		fmt.Fprintln(stderr, usage)
		return 1
	}

	fmt.Fprintf(stdout, "patch-manifest %s\n", version.Info())

	if err := patchManifest(flagSet.Arg(0), stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func patchManifest(keyText string, stdout, stderr io.Writer) error {
	// The key is checked before any file is touched, configuration
	// included.
	key, err := patch.ParseKey(keyText)
	if err != nil {
		return err
	}
	defer key.Close()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	logger, err := cli.NewCommandLogger(stderr, cfg.Log.Format, level)
	if err != nil {
		return err
	}

	hasher, err := manifest.NewHasher(cfg.Hasher.Algorithm, cfg.Root, cfg.Hasher.Placeholder)
	if err != nil {
		return err
	}

	var journal *noncelog.Journal
	if cfg.NonceJournal != "" {
		journal, err = noncelog.Open(cfg.NonceJournal, clock.Real())
		if err != nil {
			return err
		}
	}

	result, err := patch.Run(patch.Options{
		ContainerPath: cfg.Container,
		Key:           key,
		Sizes:         manifest.DirectorySizer{Root: cfg.Root},
		Hasher:        hasher,
		Journal:       journal,
		Logger:        logger,
		// Each located file is reported as it is patched, so the lines
		// appear even when a later step fails.
		Progress: func(entry manifest.EntryReport) {
			if entry.Found {
				fmt.Fprintf(stdout, "Found file '%s', fileSize updated to: %d\n", entry.Path, entry.FileSize)
			}
		},
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "'%s' has been patched successfully.\n", result.ContainerPath)
	return nil
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/manifestpatch/cmd/manifest-tool/cli"
	"github.com/bureau-foundation/manifestpatch/lib/clock"
	"github.com/bureau-foundation/manifestpatch/lib/manifest"
	"github.com/bureau-foundation/manifestpatch/lib/noncelog"
	"github.com/bureau-foundation/manifestpatch/lib/patch"
)

type patchParams struct {
	key         keyFlags
	config      configFlags
	root        string
	hasher      string
	placeholder string
	journal     string
	dryRun      bool
}

func patchCommand(stdout, stderr io.Writer) *cli.Command {
	var params patchParams

	return &cli.Command{
		Name:    "patch",
		Summary: "Refresh file sizes and chunk hashes in the manifest",
		Description: `Decrypt the manifest, update every entry from the files under --root,
and write it back re-encrypted under a fresh nonce.

Entries whose file exists take its on-disk size. Entries whose file is
missing keep their recorded size. Every entry gets one hash per
4294967295-byte chunk and chunkSize 4294967295. The container is only
replaced after the whole pipeline has succeeded.`,
		Usage: "manifest-tool patch --key <hex> | --key-file <path> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("patch", pflag.ContinueOnError)
			params.key.register(flagSet)
			params.config.register(flagSet)
			flagSet.StringVar(&params.root, "root", "", "directory manifest paths are resolved against (default: .)")
			flagSet.StringVar(&params.hasher, "hasher", "", "chunk hasher: placeholder, sha1 or blake3 (default: placeholder)")
			flagSet.StringVar(&params.placeholder, "placeholder", "", "hash written when no digest is computed")
			flagSet.StringVar(&params.journal, "journal", "", "nonce journal path (overrides nonce_journal)")
			flagSet.BoolVar(&params.dryRun, "dry-run", false, "run the pipeline without writing the container")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Patch with real SHA-1 chunk digests",
				Command:     "manifest-tool patch --key-file key.hex --root /srv/game --hasher sha1",
			},
			{
				Description: "Preview which entries would change",
				Command:     "manifest-tool patch --key-file key.hex --dry-run",
			},
		},
		Run: func(args []string) error {
			if err := noArgs("patch", args); err != nil {
				return err
			}
			return runPatch(&params, stdout, stderr)
		},
	}
}

func runPatch(params *patchParams, stdout, stderr io.Writer) error {
	key, err := params.key.load()
	if err != nil {
		return err
	}
	defer key.Close()

	cfg, err := params.config.load()
	if err != nil {
		return err
	}
	if params.root != "" {
		cfg.Root = params.root
	}
	if params.hasher != "" {
		cfg.Hasher.Algorithm = params.hasher
	}
	if params.placeholder != "" {
		cfg.Hasher.Placeholder = params.placeholder
	}
	if params.journal != "" {
		cfg.NonceJournal = params.journal
	}
	if err := validate(cfg); err != nil {
		return err
	}
	logger, err := newLogger(stderr, cfg)
	if err != nil {
		return err
	}

	hasher, err := manifest.NewHasher(cfg.Hasher.Algorithm, cfg.Root, cfg.Hasher.Placeholder)
	if err != nil {
		return cli.Validation("%w", err)
	}

	var journal *noncelog.Journal
	if cfg.NonceJournal != "" {
		journal, err = noncelog.Open(cfg.NonceJournal, clock.Real())
		if err != nil {
			return cli.Internal("%w", err)
		}
	}

	result, err := patch.Run(patch.Options{
		ContainerPath: cfg.Container,
		Key:           key,
		Sizes:         manifest.DirectorySizer{Root: cfg.Root},
		Hasher:        hasher,
		Journal:       journal,
		Logger:        logger.With("command", "patch"),
		DryRun:        params.dryRun,
	})
	if err != nil {
		return categorize(err)
	}

	for _, entry := range result.Report.Entries {
		switch {
		case !entry.Found:
			fmt.Fprintf(stdout, "Missing file '%s', fileSize kept at: %d\n", entry.Path, entry.FileSize)
		case entry.PreviousSize != entry.FileSize:
			fmt.Fprintf(stdout, "Found file '%s', fileSize updated to: %d (was %d)\n", entry.Path, entry.FileSize, entry.PreviousSize)
		default:
			fmt.Fprintf(stdout, "Found file '%s', fileSize unchanged: %d\n", entry.Path, entry.FileSize)
		}
	}

	if !result.Written {
		fmt.Fprintf(stdout, "Dry run: '%s' not written (%d of %d files found, new nonce would be %s).\n",
			result.ContainerPath, result.Report.Found(), len(result.Report.Entries), hex.EncodeToString(result.OutputNonce))
		return nil
	}
	fmt.Fprintf(stdout, "'%s' has been patched successfully.\n", result.ContainerPath)
	return nil
}

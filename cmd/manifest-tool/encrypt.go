// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/manifestpatch/cmd/manifest-tool/cli"
	"github.com/bureau-foundation/manifestpatch/lib/atomicfile"
	"github.com/bureau-foundation/manifestpatch/lib/clock"
	"github.com/bureau-foundation/manifestpatch/lib/manifest"
	"github.com/bureau-foundation/manifestpatch/lib/noncelog"
	"github.com/bureau-foundation/manifestpatch/lib/patch"
)

type encryptParams struct {
	key     keyFlags
	config  configFlags
	input   string
	journal string
}

func encryptCommand(stdout, stderr io.Writer) *cli.Command {
	var params encryptParams

	return &cli.Command{
		Name:    "encrypt",
		Summary: "Encrypt a JSON manifest into a new container",
		Description: `Read a manifest document, validate it, and write it as an encrypted
container under a fresh random nonce.

The input may be JSON or JSONC: comments and trailing commas are
accepted, so a document produced by 'decrypt --indent' can be edited by
hand. The document is normalized to compact JSON before encryption.
An existing container at the destination is replaced atomically.`,
		Usage: "manifest-tool encrypt --input <file|-> --key <hex> | --key-file <path> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("encrypt", pflag.ContinueOnError)
			params.key.register(flagSet)
			params.config.register(flagSet)
			flagSet.StringVarP(&params.input, "input", "i", "", "manifest JSON or JSONC to encrypt (- for stdin)")
			flagSet.StringVar(&params.journal, "journal", "", "nonce journal path (overrides nonce_journal)")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Re-encrypt an edited manifest",
				Command:     "manifest-tool encrypt --key-file key.hex --input manifest.jsonc",
			},
		},
		Run: func(args []string) error {
			if err := noArgs("encrypt", args); err != nil {
				return err
			}
			return runEncrypt(&params, os.Stdin, stdout, stderr)
		},
	}
}

func runEncrypt(params *encryptParams, stdin io.Reader, stdout, stderr io.Writer) error {
	if params.input == "" {
		return cli.Validation("missing required flag --input")
	}

	key, err := params.key.load()
	if err != nil {
		return err
	}
	defer key.Close()

	cfg, err := params.config.load()
	if err != nil {
		return err
	}
	if params.journal != "" {
		cfg.NonceJournal = params.journal
	}
	logger, err := newLogger(stderr, cfg)
	if err != nil {
		return err
	}

	var source []byte
	if params.input == "-" {
		source, err = io.ReadAll(stdin)
	} else {
		source, err = os.ReadFile(params.input)
	}
	if err != nil {
		return cli.NotFound("reading %s: %w", params.input, err)
	}

	document, err := manifest.Parse(jsonc.ToJSON(source))
	if err != nil {
		return cli.Validation("%s is not a valid manifest: %w", params.input, err)
	}
	plaintext, err := manifest.Marshal(document)
	if err != nil {
		return categorize(&patch.Error{Kind: patch.SerializationFailure, Err: err})
	}

	var journal *noncelog.Journal
	if cfg.NonceJournal != "" {
		journal, err = noncelog.Open(cfg.NonceJournal, clock.Real())
		if err != nil {
			return cli.Internal("%w", err)
		}
	}

	nonce, err := patch.NewNonce(cfg.Container, key.Bytes(), journal, nil)
	if err != nil {
		return categorize(err)
	}
	output, err := patch.SealContainer(cfg.Container, key.Bytes(), nonce, plaintext)
	if err != nil {
		return categorize(err)
	}
	if err := atomicfile.WriteFile(cfg.Container, output, atomicfile.Mode(cfg.Container, 0644)); err != nil {
		return categorize(&patch.Error{Kind: patch.WriteFailure, Path: cfg.Container, Err: err})
	}
	logger.Info("wrote manifest", "path", cfg.Container, "files", document.Files.Len(), "bytes", len(output))

	if journal != nil {
		if err := journal.Save(); err != nil {
			logger.Warn("container written but nonce journal not saved", "journal", journal.Path(), "error", err)
		}
	}

	fmt.Fprintf(stdout, "'%s' written with %d files.\n", cfg.Container, document.Files.Len())
	return nil
}

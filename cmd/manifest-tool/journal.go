// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/manifestpatch/cmd/manifest-tool/cli"
	"github.com/bureau-foundation/manifestpatch/lib/clock"
	"github.com/bureau-foundation/manifestpatch/lib/codec"
	"github.com/bureau-foundation/manifestpatch/lib/noncelog"
)

type journalParams struct {
	key     keyFlags
	config  configFlags
	journal string
	raw     bool
}

func journalCommand(stdout io.Writer) *cli.Command {
	var params journalParams

	return &cli.Command{
		Name:    "journal",
		Summary: "List the nonces recorded in the nonce journal",
		Description: `Print the nonce journal: for every key fingerprint, each nonce that was
observed in a container or issued for a new encryption.

With a key only that key's entries are listed. With --raw the file is
printed in CBOR diagnostic notation instead.`,
		Usage: "manifest-tool journal [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("journal", pflag.ContinueOnError)
			params.key.register(flagSet)
			params.config.register(flagSet)
			flagSet.StringVar(&params.journal, "journal", "", "nonce journal path (overrides nonce_journal)")
			flagSet.BoolVar(&params.raw, "raw", false, "print the file in CBOR diagnostic notation")
			return flagSet
		},
		Run: func(args []string) error {
			if err := noArgs("journal", args); err != nil {
				return err
			}
			return runJournal(&params, stdout)
		},
	}
}

func runJournal(params *journalParams, stdout io.Writer) error {
	cfg, err := params.config.load()
	if err != nil {
		return err
	}
	path := cfg.NonceJournal
	if params.journal != "" {
		path = params.journal
	}
	if path == "" {
		return cli.Validation("no nonce journal configured").
			WithHint("Pass --journal or set nonce_journal in the config file.")
	}

	if params.raw {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			return cli.NotFound("nonce journal %s does not exist", path)
		}
		if err != nil {
			return cli.Internal("%w", err)
		}
		diagnostic, err := codec.Diagnose(data)
		if err != nil {
			return cli.Validation("%s is not CBOR: %w", path, err)
		}
		fmt.Fprintln(stdout, diagnostic)
		return nil
	}

	journal, err := noncelog.Open(path, clock.Real())
	if err != nil {
		return cli.Internal("%w", err)
	}

	fingerprints := journal.Fingerprints()
	if params.key.provided() {
		key, err := params.key.load()
		if err != nil {
			return err
		}
		fingerprints = []string{noncelog.Fingerprint(key.Bytes())}
		key.Close()
	}

	tw := tabwriter.NewWriter(stdout, 2, 0, 2, ' ', 0)
	defer tw.Flush()
	for _, fingerprint := range fingerprints {
		entries := journal.Entries(fingerprint)
		fmt.Fprintf(tw, "key %s\t%d nonces\n", fingerprint, len(entries))
		for _, entry := range entries {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", hex.EncodeToString(entry.Nonce), entry.Source, entry.Time.Format(time.RFC3339))
		}
	}
	return nil
}

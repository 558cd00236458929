// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// manifest-tool is the operator CLI for encrypted build manifests.
//
// It exposes each stage of the patch-manifest pipeline on its own:
// decrypt a container to JSON, encrypt a hand-edited JSON or JSONC
// document into a fresh container, inspect the frame layout, run the
// full patch with explicit flags, and list the nonce journal.
//
// Keys are passed with --key (hex on the command line) or --key-file
// (a file holding the hex key, or "-" for stdin, read without echo on
// a terminal). Configuration is shared with patch-manifest: --config or
// MANIFESTPATCH_CONFIG names a YAML file, and flags override it.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/bureau-foundation/manifestpatch/cmd/manifest-tool/cli"
	"github.com/bureau-foundation/manifestpatch/lib/version"
)

func main() {
	root := rootCommand(os.Stdout, os.Stderr)
	if err := root.Execute(os.Args[1:]); err != nil {
		if !cli.Silent(err) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(cli.ExitCode(err))
	}
}

func rootCommand(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:        "manifest-tool",
		Summary:     "Inspect, edit and patch encrypted build manifests",
		Description: "Inspect, edit and patch AES-GCM encrypted build manifests (build-manifest.bin).",
		Subcommands: []*cli.Command{
			decryptCommand(stdout, stderr),
			encryptCommand(stdout, stderr),
			inspectCommand(stdout),
			patchCommand(stdout, stderr),
			journalCommand(stdout),
			versionCommand(stdout),
		},
		Examples: []cli.Example{
			{
				Description: "Print the manifest in the current directory",
				Command:     "manifest-tool decrypt --key-file key.hex --indent",
			},
			{
				Description: "Refresh file sizes against a game directory",
				Command:     "manifest-tool patch --key-file key.hex --root /srv/game",
			},
			{
				Description: "Check a container without a key",
				Command:     "manifest-tool inspect --container build-manifest.bin",
			},
		},
	}
}

func versionCommand(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Run: func(args []string) error {
			fmt.Fprintf(stdout, "manifest-tool %s\n", version.Full())
			return nil
		},
	}
}

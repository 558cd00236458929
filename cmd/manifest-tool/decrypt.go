// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"io"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/manifestpatch/cmd/manifest-tool/cli"
	"github.com/bureau-foundation/manifestpatch/lib/atomicfile"
	"github.com/bureau-foundation/manifestpatch/lib/manifest"
	"github.com/bureau-foundation/manifestpatch/lib/patch"
)

type decryptParams struct {
	key    keyFlags
	config configFlags
	output string
	indent bool
}

func decryptCommand(stdout, stderr io.Writer) *cli.Command {
	var params decryptParams

	return &cli.Command{
		Name:    "decrypt",
		Summary: "Print the decrypted manifest JSON",
		Description: `Decrypt the manifest container and print the JSON document.

Without --indent the plaintext is written exactly as stored, including
fields the patcher does not know. With --indent the document is parsed
and re-serialized with two-space indentation.`,
		Usage: "manifest-tool decrypt --key <hex> | --key-file <path> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("decrypt", pflag.ContinueOnError)
			params.key.register(flagSet)
			params.config.register(flagSet)
			flagSet.StringVarP(&params.output, "output", "o", "", "write the JSON to this file instead of stdout")
			flagSet.BoolVar(&params.indent, "indent", false, "pretty-print the document")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Save an editable copy",
				Command:     "manifest-tool decrypt --key-file key.hex --indent -o manifest.json",
			},
		},
		Run: func(args []string) error {
			if err := noArgs("decrypt", args); err != nil {
				return err
			}
			return runDecrypt(&params, stdout, stderr)
		},
	}
}

func runDecrypt(params *decryptParams, stdout, stderr io.Writer) error {
	key, err := params.key.load()
	if err != nil {
		return err
	}
	defer key.Close()

	cfg, err := params.config.load()
	if err != nil {
		return err
	}
	logger, err := newLogger(stderr, cfg)
	if err != nil {
		return err
	}

	data, err := patch.ReadContainer(cfg.Container)
	if err != nil {
		return categorize(err)
	}
	plaintext, _, err := patch.OpenContainer(cfg.Container, key.Bytes(), data)
	if err != nil {
		return categorize(err)
	}

	output := plaintext
	if params.indent {
		document, err := manifest.Parse(plaintext)
		if err != nil {
			return categorize(&patch.Error{Kind: patch.DeserializationFailure, Path: cfg.Container, Err: err})
		}
		output, err = manifest.MarshalIndent(document, "  ")
		if err != nil {
			return cli.Internal("formatting manifest: %w", err)
		}
	}
	if len(output) == 0 || output[len(output)-1] != '\n' {
		output = append(output, '\n')
	}

	if params.output == "" {
		_, err := stdout.Write(output)
		return err
	}
	if err := atomicfile.WriteFile(params.output, output, atomicfile.Mode(params.output, 0644)); err != nil {
		return cli.Internal("writing %s: %w", params.output, err)
	}
	logger.Info("decrypted manifest written", "container", cfg.Container, "output", params.output, "bytes", len(output))
	return nil
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/manifestpatch/cmd/manifest-tool/cli"
	"github.com/bureau-foundation/manifestpatch/lib/container"
	"github.com/bureau-foundation/manifestpatch/lib/manifest"
	"github.com/bureau-foundation/manifestpatch/lib/patch"
	"github.com/bureau-foundation/manifestpatch/lib/secret"
)

type inspectParams struct {
	key        keyFlags
	config     configFlags
	jsonOutput bool
}

// inspectReport is the --json form of inspect's output.
type inspectReport struct {
	Path             string  `json:"path"`
	Size             int     `json:"size"`
	Nonce            string  `json:"nonce"`
	CiphertextLength int     `json:"ciphertext_length"`
	Tag              string  `json:"tag"`
	ReservedZero     bool    `json:"reserved_zero"`
	Authenticated    *bool   `json:"authenticated,omitempty"`
	HashAlgorithm    *string `json:"hash,omitempty"`
	Files            *int    `json:"files,omitempty"`
	Error            string  `json:"error,omitempty"`
}

func inspectCommand(stdout io.Writer) *cli.Command {
	var params inspectParams

	return &cli.Command{
		Name:    "inspect",
		Summary: "Show the container layout and optionally verify it",
		Description: `Decode the container frame and print its layout: nonce, ciphertext
length, tag, and whether the reserved trailer is zero.

With a key, the tag is also verified and the decrypted document is
parsed. A container that fails verification is reported and the
command exits with status 1.`,
		Usage: "manifest-tool inspect [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("inspect", pflag.ContinueOnError)
			params.key.register(flagSet)
			params.config.register(flagSet)
			flagSet.BoolVar(&params.jsonOutput, "json", false, "print the report as JSON")
			return flagSet
		},
		Run: func(args []string) error {
			if err := noArgs("inspect", args); err != nil {
				return err
			}
			return runInspect(&params, stdout)
		},
	}
}

func runInspect(params *inspectParams, stdout io.Writer) error {
	var key *secret.Buffer
	if params.key.provided() {
		var err error
		key, err = params.key.load()
		if err != nil {
			return err
		}
		defer key.Close()
	}

	cfg, err := params.config.load()
	if err != nil {
		return err
	}

	data, err := patch.ReadContainer(cfg.Container)
	if err != nil {
		return categorize(err)
	}
	frame, err := container.Decode(data)
	if err != nil {
		return categorize(&patch.Error{Kind: patch.MalformedContainer, Path: cfg.Container, Err: err})
	}

	report := inspectReport{
		Path:             cfg.Container,
		Size:             len(data),
		Nonce:            hex.EncodeToString(frame.Nonce),
		CiphertextLength: len(frame.Ciphertext),
		Tag:              hex.EncodeToString(frame.Tag),
		ReservedZero:     frame.ReservedZero,
	}

	var verifyErr error
	if key != nil {
		verifyErr = verify(key.Bytes(), cfg.Container, data, &report)
		if verifyErr != nil {
			report.Error = verifyErr.Error()
		}
	}

	if params.jsonOutput {
		encoder := json.NewEncoder(stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			return err
		}
	} else {
		printInspectReport(stdout, report)
	}

	if verifyErr != nil {
		// Already reported above.
		return &cli.ExitError{Code: 1}
	}
	return nil
}

// verify decrypts data with key and fills the verification fields of
// report.
func verify(key []byte, path string, data []byte, report *inspectReport) error {
	authenticated := false
	report.Authenticated = &authenticated

	plaintext, _, err := patch.OpenContainer(path, key, data)
	if err != nil {
		return categorize(err)
	}
	authenticated = true

	document, err := manifest.Parse(plaintext)
	if err != nil {
		return categorize(&patch.Error{Kind: patch.DeserializationFailure, Path: path, Err: err})
	}
	files := document.Files.Len()
	report.HashAlgorithm = &document.HashAlgorithm
	report.Files = &files
	return nil
}

func printInspectReport(w io.Writer, report inspectReport) {
	tw := tabwriter.NewWriter(w, 2, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Path:\t%s\n", report.Path)
	fmt.Fprintf(tw, "Size:\t%d bytes\n", report.Size)
	fmt.Fprintf(tw, "Nonce:\t%s\n", report.Nonce)
	fmt.Fprintf(tw, "Ciphertext:\t%d bytes\n", report.CiphertextLength)
	fmt.Fprintf(tw, "Tag:\t%s\n", report.Tag)
	fmt.Fprintf(tw, "Reserved:\t%d bytes, %s\n", container.ReservedSize, zeroLabel(report.ReservedZero))
	if report.Authenticated != nil {
		fmt.Fprintf(tw, "Authenticated:\t%s\n", yesNo(*report.Authenticated))
	}
	if report.HashAlgorithm != nil {
		fmt.Fprintf(tw, "Hash:\t%s\n", *report.HashAlgorithm)
	}
	if report.Files != nil {
		fmt.Fprintf(tw, "Files:\t%d\n", *report.Files)
	}
	if report.Error != "" {
		fmt.Fprintf(tw, "Error:\t%s\n", report.Error)
	}
	tw.Flush()
}

func zeroLabel(zero bool) string {
	if zero {
		return "all zero"
	}
	return "NOT zero"
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

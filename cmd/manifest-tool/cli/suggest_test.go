// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"inspect", "inspcet", 2},
		{"decrypt", "decrpyt", 2},
		{"kitten", "sitting", 3},
		{"patch", "path", 1},
	}

	for _, test := range tests {
		t.Run(test.a+"_"+test.b, func(t *testing.T) {
			if got := levenshtein(test.a, test.b); got != test.expected {
				t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.expected)
			}
		})
	}
}

func TestSuggestCommand(t *testing.T) {
	commands := []*Command{
		{Name: "decrypt"},
		{Name: "encrypt"},
		{Name: "inspect"},
		{Name: "journal"},
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"decrypt", "decrypt"},
		{"dcrypt", "decrypt"},
		{"insepct", "inspect"},
		{"jornal", "journal"},
		{"zzzzzzz", ""},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			if got := suggestCommand(test.input, commands); got != test.expected {
				t.Errorf("suggestCommand(%q) = %q, want %q", test.input, got, test.expected)
			}
		})
	}
}

func TestSuggestFlag(t *testing.T) {
	newFlagSet := func() *pflag.FlagSet {
		flagSet := pflag.NewFlagSet("patch", pflag.ContinueOnError)
		flagSet.String("key-file", "", "")
		flagSet.String("container", "", "")
		flagSet.Bool("dry-run", false, "")
		return flagSet
	}

	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"transposition", []string{"--contianer", "x"}, "--container"},
		{"with value", []string{"--key-fiel=key.hex"}, "--key-file"},
		{"known flags skipped", []string{"--dry-run", "--dryrun"}, "--dry-run"},
		{"distant", []string{"--zzzzzzzzzz"}, ""},
		{"after terminator", []string{"--", "--contianer"}, ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := suggestFlag(test.args, newFlagSet()); got != test.expected {
				t.Errorf("suggestFlag(%v) = %q, want %q", test.args, got, test.expected)
			}
		})
	}
}

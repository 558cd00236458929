// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"errors"
	"strings"
	"testing"
)

func TestParseKeepsOrder(t *testing.T) {
	input := `{"hash":"sha1","files":{"z.bin":{"fileSize":1,"hashes":["a"],"chunkSize":2},"a.bin":{"fileSize":3,"hashes":[],"chunkSize":4},"m/n.bin":{"fileSize":5,"hashes":null,"chunkSize":6}}}`

	document, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if document.HashAlgorithm != "sha1" {
		t.Errorf("HashAlgorithm = %q, want sha1", document.HashAlgorithm)
	}

	paths := document.Files.Paths()
	want := []string{"z.bin", "a.bin", "m/n.bin"}
	if strings.Join(paths, ",") != strings.Join(want, ",") {
		t.Fatalf("Paths = %v, want %v", paths, want)
	}

	entry, ok := document.Files.Get("a.bin")
	if !ok {
		t.Fatal("Get(a.bin) not found")
	}
	if entry.FileSize != 3 || entry.ChunkSize != 4 {
		t.Errorf("a.bin = %+v", entry)
	}
}

func TestMarshalRoundTripStable(t *testing.T) {
	input := `{"hash":"sha1","files":{"z.bin":{"fileSize":1,"hashes":["a"],"chunkSize":2},"a.bin":{"fileSize":18446744073709551615,"hashes":["b","c"],"chunkSize":4294967295}}}`

	document, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	output, err := Marshal(document)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(output) != input {
		t.Errorf("round trip changed document:\n got %s\nwant %s", output, input)
	}
}

func TestMarshalDoesNotEscapeHTML(t *testing.T) {
	document := &Document{HashAlgorithm: "<sha1>"}
	document.Files.Set("a&b<c>.pak", FileEntry{Hashes: []string{}})

	output, err := Marshal(document)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"hash":"<sha1>","files":{"a&b<c>.pak":{"fileSize":0,"hashes":[],"chunkSize":0}}}`
	if string(output) != want {
		t.Errorf("Marshal = %s, want %s", output, want)
	}
}

func TestMarshalEmptyTable(t *testing.T) {
	output, err := Marshal(&Document{HashAlgorithm: "sha1"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if want := `{"hash":"sha1","files":{}}`; string(output) != want {
		t.Errorf("Marshal = %s, want %s", output, want)
	}
}

func TestMarshalIndent(t *testing.T) {
	document := &Document{HashAlgorithm: "sha1"}
	document.Files.Set("a", FileEntry{FileSize: 1, Hashes: []string{"x"}, ChunkSize: 2})

	output, err := MarshalIndent(document, "  ")
	if err != nil {
		t.Fatalf("MarshalIndent: %v", err)
	}
	reparsed, err := Parse(output)
	if err != nil {
		t.Fatalf("Parse(indented): %v", err)
	}
	if entry, _ := reparsed.Files.Get("a"); entry.FileSize != 1 {
		t.Errorf("indented document did not reparse: %s", output)
	}
	if !strings.Contains(string(output), "\n  \"files\"") {
		t.Errorf("output is not indented:\n%s", output)
	}
}

func TestParseDuplicatePath(t *testing.T) {
	input := `{"hash":"h","files":{"a":{"fileSize":1},"b":{"fileSize":2},"a":{"fileSize":3}}}`
	document, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if paths := document.Files.Paths(); len(paths) != 2 || paths[0] != "a" || paths[1] != "b" {
		t.Fatalf("Paths = %v, want [a b]", paths)
	}
	if entry, _ := document.Files.Get("a"); entry.FileSize != 3 {
		t.Errorf("duplicate path kept FileSize %d, want last value 3", entry.FileSize)
	}
}

func TestParseToleratesBOMAndUnknownFields(t *testing.T) {
	input := "\xef\xbb\xbf" + `{"hash":"h","version":7,"files":{"a":{"fileSize":1,"extra":true}}}`
	document, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	output, err := Marshal(document)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(output), "version") || strings.Contains(string(output), "extra") {
		t.Errorf("unknown fields survived: %s", output)
	}
}

func TestParseEmptyFilesObject(t *testing.T) {
	document, err := Parse([]byte(`{"hash":"h","files":{}}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if document.Files.Len() != 0 {
		t.Errorf("Len = %d, want 0", document.Files.Len())
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ``},
		{"not json", `hello`},
		{"array", `[]`},
		{"null document", `null`},
		{"missing files", `{"hash":"h"}`},
		{"null files", `{"hash":"h","files":null}`},
		{"files array", `{"hash":"h","files":[]}`},
		{"null entry", `{"hash":"h","files":{"a":null}}`},
		{"entry string", `{"hash":"h","files":{"a":"x"}}`},
		{"negative size", `{"hash":"h","files":{"a":{"fileSize":-1}}}`},
		{"fractional size", `{"hash":"h","files":{"a":{"fileSize":1.5}}}`},
		{"size overflow", `{"hash":"h","files":{"a":{"fileSize":18446744073709551616}}}`},
		{"hashes not strings", `{"hash":"h","files":{"a":{"hashes":[1]}}}`},
		{"trailing data", `{"hash":"h","files":{}} {}`},
		{"truncated", `{"hash":"h","files":{"a":{"fileSize":1}`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse([]byte(test.input))
			if !errors.Is(err, ErrInvalidDocument) {
				t.Errorf("Parse(%q) error = %v, want ErrInvalidDocument", test.input, err)
			}
		})
	}
}

func TestFileTableSetExisting(t *testing.T) {
	var table FileTable
	table.Set("a", FileEntry{FileSize: 1})
	table.Set("b", FileEntry{FileSize: 2})
	table.Set("a", FileEntry{FileSize: 9})

	if table.Len() != 2 {
		t.Fatalf("Len = %d, want 2", table.Len())
	}
	var order []string
	for path, entry := range table.All() {
		order = append(order, path)
		if path == "a" && entry.FileSize != 9 {
			t.Errorf("a.FileSize = %d, want 9", entry.FileSize)
		}
	}
	if strings.Join(order, ",") != "a,b" {
		t.Errorf("All order = %v, want [a b]", order)
	}
}

func TestFileTableAllStopsEarly(t *testing.T) {
	var table FileTable
	for _, path := range []string{"a", "b", "c"} {
		table.Set(path, FileEntry{})
	}
	visited := 0
	for range table.All() {
		visited++
		break
	}
	if visited != 1 {
		t.Errorf("visited %d entries after break, want 1", visited)
	}
}

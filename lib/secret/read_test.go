// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("  deadbeef\n"), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	buffer, err := ReadFromPath(path)
	if err != nil {
		t.Fatalf("ReadFromPath: %v", err)
	}
	defer buffer.Close()

	if got := string(buffer.Bytes()); got != "deadbeef" {
		t.Errorf("ReadFromPath = %q, want %q", got, "deadbeef")
	}
}

func TestReadFromPathEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte(" \n\t"), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := ReadFromPath(path); err == nil {
		t.Fatal("ReadFromPath should fail on whitespace-only file")
	}
}

func TestReadFromPathMissing(t *testing.T) {
	if _, err := ReadFromPath(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("ReadFromPath should fail for a missing file")
	}
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binhash

import (
	"crypto/sha1"
	"os"
	"path/filepath"
	"testing"

	"github.com/zeebo/blake3"
)

func writeFile(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "payload.bin")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestHashRangeWholeFileSHA1(t *testing.T) {
	content := []byte("hello, manifest")
	path := writeFile(t, content)

	got, err := HashRange(SHA1, path, 0, int64(len(content)))
	if err != nil {
		t.Fatalf("HashRange: %v", err)
	}
	if want := sha1.Sum(content); got != want {
		t.Errorf("HashRange = %x, want %x", got, want)
	}
}

func TestHashRangeBLAKE3Truncated(t *testing.T) {
	content := []byte("hello, manifest")
	path := writeFile(t, content)

	got, err := HashRange(BLAKE3, path, 0, int64(len(content)))
	if err != nil {
		t.Fatalf("HashRange: %v", err)
	}
	full := blake3.Sum256(content)
	var want [DigestSize]byte
	copy(want[:], full[:DigestSize])
	if got != want {
		t.Errorf("HashRange(blake3) = %x, want %x", got, want)
	}
}

func TestHashRangeEmptyFile(t *testing.T) {
	path := writeFile(t, nil)
	got, err := HashRange(SHA1, path, 0, 0)
	if err != nil {
		t.Fatalf("HashRange: %v", err)
	}
	// SHA-1 of the empty string.
	if formatted := FormatDigest(got); formatted != "da39a3ee5e6b4b0d3255bfef95601890afd80709" {
		t.Errorf("HashRange(empty) = %s", formatted)
	}
}

func TestHashRangeNonexistent(t *testing.T) {
	if _, err := HashRange(SHA1, filepath.Join(t.TempDir(), "missing"), 0, 1); err == nil {
		t.Fatal("HashRange should fail for a nonexistent file")
	}
}

func TestHashRangeUnsupportedAlgorithm(t *testing.T) {
	path := writeFile(t, []byte("x"))
	if _, err := HashRange(Algorithm("md5"), path, 0, 1); err == nil {
		t.Fatal("HashRange should reject an unsupported algorithm")
	}
}

func TestHashRange(t *testing.T) {
	content := make([]byte, 256*1024)
	for i := range content {
		content[i] = byte(i % 251)
	}
	path := writeFile(t, content)

	tests := []struct {
		name   string
		offset int64
		length int64
	}{
		{"whole file", 0, int64(len(content))},
		{"prefix", 0, 1000},
		{"middle", 4096, 65536},
		{"suffix", int64(len(content)) - 17, 17},
		{"empty", 100, 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := HashRange(SHA1, path, test.offset, test.length)
			if err != nil {
				t.Fatalf("HashRange: %v", err)
			}
			want := sha1.Sum(content[test.offset : test.offset+test.length])
			if got != want {
				t.Errorf("HashRange(%d, %d) = %x, want %x", test.offset, test.length, got, want)
			}
		})
	}
}

func TestHashRangePastEnd(t *testing.T) {
	path := writeFile(t, []byte("short"))
	if _, err := HashRange(SHA1, path, 2, 10); err == nil {
		t.Fatal("HashRange should fail when the range runs past end of file")
	}
}

func TestHashRangeNegative(t *testing.T) {
	path := writeFile(t, []byte("short"))
	if _, err := HashRange(SHA1, path, -1, 2); err == nil {
		t.Fatal("HashRange should reject a negative offset")
	}
}

func TestAlgorithmValid(t *testing.T) {
	for algorithm, want := range map[Algorithm]bool{SHA1: true, BLAKE3: true, "": false, "sha256": false} {
		if got := algorithm.Valid(); got != want {
			t.Errorf("Algorithm(%q).Valid() = %v, want %v", algorithm, got, want)
		}
	}
}

func TestParseDigestRoundTrip(t *testing.T) {
	original := sha1.Sum([]byte("round-trip"))
	parsed, err := ParseDigest(FormatDigest(original))
	if err != nil {
		t.Fatalf("ParseDigest: %v", err)
	}
	if parsed != original {
		t.Errorf("ParseDigest round-trip failed: %x != %x", parsed, original)
	}
}

func TestParseDigestInvalid(t *testing.T) {
	for _, input := range []string{"", "zz", "abcd", FormatDigest([DigestSize]byte{}) + "00"} {
		if _, err := ParseDigest(input); err == nil {
			t.Errorf("ParseDigest(%q) should fail", input)
		}
	}
}

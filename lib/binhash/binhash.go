// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binhash

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// DigestSize is the length in bytes of every digest this package
// produces.
const DigestSize = 20

// Algorithm selects the hash function.
type Algorithm string

const (
	SHA1   Algorithm = "sha1"
	BLAKE3 Algorithm = "blake3"
)

// Valid reports whether algorithm is supported.
func (algorithm Algorithm) Valid() bool {
	return algorithm == SHA1 || algorithm == BLAKE3
}

func (algorithm Algorithm) newHash() (hash.Hash, error) {
	switch algorithm {
	case SHA1:
		return sha1.New(), nil
	case BLAKE3:
		return blake3.New(), nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm %q", algorithm)
	}
}

// HashRange computes the digest of length bytes of the file at path,
// starting at offset. A range that runs past the end of the file is an
// error: the caller's size information is stale.
func HashRange(algorithm Algorithm, path string, offset, length int64) ([DigestSize]byte, error) {
	if offset < 0 || length < 0 {
		return [DigestSize]byte{}, fmt.Errorf("hashing %s: invalid range offset=%d length=%d", path, offset, length)
	}

	file, err := os.Open(path)
	if err != nil {
		return [DigestSize]byte{}, fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer file.Close()

	section := io.NewSectionReader(file, offset, length)
	hasher, err := algorithm.newHash()
	if err != nil {
		return [DigestSize]byte{}, err
	}
	copied, err := io.Copy(hasher, section)
	if err != nil {
		return [DigestSize]byte{}, fmt.Errorf("hashing %s: %w", path, err)
	}
	if copied != length {
		return [DigestSize]byte{}, fmt.Errorf("hashing %s: range [%d, %d) is past end of file (read %d bytes)", path, offset, offset+length, copied)
	}
	return sum(hasher), nil
}

// sum truncates to DigestSize. SHA-1 is exactly that size; BLAKE3's
// default 32-byte output is cut to the prefix.
func sum(hasher hash.Hash) [DigestSize]byte {
	var digest [DigestSize]byte
	copy(digest[:], hasher.Sum(nil))
	return digest
}

// FormatDigest returns the lowercase hex encoding used in manifests.
func FormatDigest(digest [DigestSize]byte) string {
	return hex.EncodeToString(digest[:])
}

// ParseDigest parses a 40-character hex digest.
func ParseDigest(hexString string) ([DigestSize]byte, error) {
	var digest [DigestSize]byte
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return digest, fmt.Errorf("parsing hash digest: %w", err)
	}
	if len(decoded) != DigestSize {
		return digest, fmt.Errorf("hash digest is %d bytes, want %d", len(decoded), DigestSize)
	}
	copy(digest[:], decoded)
	return digest, nil
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/bureau-foundation/manifestpatch/lib/aesgcm"
	"github.com/bureau-foundation/manifestpatch/lib/container"
)

// Key returns the fixed 16-byte test key 000102...0f.
func Key() []byte {
	key := make([]byte, aesgcm.KeySize)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

// KeyHex returns Key hex-encoded.
func KeyHex() string {
	return hex.EncodeToString(Key())
}

// Nonce returns a 12-byte nonce filled with fill.
func Nonce(fill byte) []byte {
	return bytes.Repeat([]byte{fill}, aesgcm.NonceSize)
}

// SealContainer encrypts plaintext under key and nonce with the
// manifest associated data and returns the container file bytes.
func SealContainer(t testing.TB, key, nonce, plaintext []byte) []byte {
	t.Helper()
	ciphertext, tag, err := aesgcm.Seal(key, nonce, plaintext, []byte(container.AssociatedData), aesgcm.TagSize)
	if err != nil {
		t.Fatalf("sealing test container: %v", err)
	}
	data, err := container.Encode(container.Frame{Nonce: nonce, Ciphertext: ciphertext, Tag: tag})
	if err != nil {
		t.Fatalf("encoding test container: %v", err)
	}
	return data
}

// OpenContainer decodes and decrypts container file bytes, returning
// the plaintext and the nonce the file carried.
func OpenContainer(t testing.TB, key, data []byte) (plaintext, nonce []byte) {
	t.Helper()
	frame, err := container.Decode(data)
	if err != nil {
		t.Fatalf("decoding container: %v", err)
	}
	plaintext, err = aesgcm.Open(key, frame.Nonce, frame.Ciphertext, frame.Tag, []byte(container.AssociatedData))
	if err != nil {
		t.Fatalf("decrypting container: %v", err)
	}
	return plaintext, frame.Nonce
}

// WriteFile writes content to directory/relative, creating parent
// directories, and returns the full path.
func WriteFile(t testing.TB, directory, relative string, content []byte) string {
	t.Helper()
	path := filepath.Join(directory, filepath.FromSlash(relative))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

// SparseFile creates directory/relative with the given size without
// writing any data blocks.
func SparseFile(t testing.TB, directory, relative string, size int64) string {
	t.Helper()
	path := WriteFile(t, directory, relative, nil)
	if err := os.Truncate(path, size); err != nil {
		t.Fatalf("extending %s to %d bytes: %v", path, size, err)
	}
	return path
}

// ReadFile reads path or fails the test.
func ReadFile(t testing.TB, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return data
}

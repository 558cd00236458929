// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package aesgcm

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

const (
	// KeySize is the AES-128 key length in bytes.
	KeySize = 16

	// NonceSize is the GCM nonce length in bytes (96 bits).
	NonceSize = 12

	// TagSize is the tag length used by the manifest container (128 bits).
	TagSize = 16
)

var (
	// ErrAuthentication reports a tag mismatch on Open. Callers must
	// treat the ciphertext as untrusted; no plaintext is returned.
	ErrAuthentication = errors.New("aesgcm: authentication tag mismatch")

	ErrInvalidKeySize   = errors.New("aesgcm: invalid key size")
	ErrInvalidNonceSize = errors.New("aesgcm: invalid nonce size")
	ErrInvalidTagLength = errors.New("aesgcm: invalid tag length")
)

// CipherError wraps a failure of the underlying AES or GCM
// implementation that is not an authentication failure.
type CipherError struct {
	// Op is "encrypt" or "decrypt".
	Op  string
	Err error
}

func (e *CipherError) Error() string {
	return fmt.Sprintf("aesgcm: %s failed: %v", e.Op, e.Err)
}

func (e *CipherError) Unwrap() error { return e.Err }

// TagLengths describes the tag sizes an AEAD accepts, in bytes: every
// length from Min to Max in steps of Increment.
type TagLengths struct {
	Min       int
	Max       int
	Increment int
}

// SupportedTagLengths are the tag sizes crypto/cipher's GCM accepts.
var SupportedTagLengths = TagLengths{Min: 12, Max: 16, Increment: 1}

// Allows reports whether length is one of the permitted tag sizes.
func (l TagLengths) Allows(length int) bool {
	if length < l.Min || length > l.Max {
		return false
	}
	return l.Increment > 0 && (length-l.Min)%l.Increment == 0
}

// GenerateNonce reads a fresh NonceSize-byte nonce from random, or
// from crypto/rand when random is nil.
func GenerateNonce(random io.Reader) ([]byte, error) {
	if random == nil {
		random = rand.Reader
	}
	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(random, nonce); err != nil {
		return nil, fmt.Errorf("aesgcm: generating nonce: %w", err)
	}
	return nonce, nil
}

// Seal encrypts plaintext and returns the ciphertext (same length as
// plaintext) and a detached tag of tagSize bytes computed over the
// ciphertext and associatedData.
func Seal(key, nonce, plaintext, associatedData []byte, tagSize int) (ciphertext, tag []byte, err error) {
	if err := checkTagLength(tagSize); err != nil {
		return nil, nil, err
	}
	handle, err := acquire(key, nonce, tagSize)
	if err != nil {
		return nil, nil, &CipherError{Op: "encrypt", Err: err}
	}
	defer handle.release()

	sealed := handle.aead.Seal(nil, nonce, plaintext, associatedData)
	split := len(sealed) - tagSize
	ciphertext = sealed[:split:split]
	tag = sealed[split:]
	return ciphertext, tag, nil
}

// Open verifies tag and decrypts ciphertext. The tag length must be
// allowed by SupportedTagLengths. A mismatch returns ErrAuthentication.
func Open(key, nonce, ciphertext, tag, associatedData []byte) ([]byte, error) {
	if err := checkTagLength(len(tag)); err != nil {
		return nil, err
	}
	handle, err := acquire(key, nonce, len(tag))
	if err != nil {
		return nil, &CipherError{Op: "decrypt", Err: err}
	}
	defer handle.release()

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := handle.aead.Open(nil, nonce, sealed, associatedData)
	if err != nil {
		// crypto/cipher reports every Open failure as an authentication
		// failure once sizes have been validated.
		return nil, ErrAuthentication
	}
	if plaintext == nil {
		plaintext = []byte{}
	}
	return plaintext, nil
}

func checkTagLength(length int) error {
	if !SupportedTagLengths.Allows(length) {
		return fmt.Errorf("%w: %d bytes (allowed %d..%d step %d)", ErrInvalidTagLength,
			length, SupportedTagLengths.Min, SupportedTagLengths.Max, SupportedTagLengths.Increment)
	}
	return nil
}

// handle is a per-call AES-GCM instance. It exists only between
// acquire and release.
type handle struct {
	aead cipher.AEAD
}

func acquire(key, nonce []byte, tagSize int) (*handle, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: %d bytes, want %d", ErrInvalidKeySize, len(key), KeySize)
	}
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("%w: %d bytes, want %d", ErrInvalidNonceSize, len(nonce), NonceSize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating AES cipher: %w", err)
	}
	aead, err := cipher.NewGCMWithTagSize(block, tagSize)
	if err != nil {
		return nil, fmt.Errorf("creating GCM mode: %w", err)
	}
	return &handle{aead: aead}, nil
}

func (h *handle) release() {
	h.aead = nil
}

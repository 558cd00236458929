// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/manifestpatch/lib/aesgcm"
)

const (
	// NonceSize is the length of the leading nonce.
	NonceSize = aesgcm.NonceSize

	// TagSize is the length of the authentication tag that follows
	// the ciphertext.
	TagSize = aesgcm.TagSize

	// ReservedSize is the length of the trailing zero padding.
	ReservedSize = 64

	// Overhead is the number of bytes in a frame besides the
	// ciphertext. It is also the minimum valid frame length.
	Overhead = NonceSize + TagSize + ReservedSize
)

// DefaultFileName is the name the game gives its manifest container.
const DefaultFileName = "build-manifest.bin"

// AssociatedData is the context string authenticated with every
// manifest encryption.
const AssociatedData = "build-manifest"

// ErrMalformed reports a buffer that cannot be a frame.
var ErrMalformed = errors.New("container: malformed frame")

// Frame is a decoded container. Decode returns copies, so a Frame never
// aliases the buffer it came from.
type Frame struct {
	Nonce      []byte
	Ciphertext []byte
	Tag        []byte

	// ReservedZero is set by Decode when the reserved region held only
	// zero bytes. Encode ignores it.
	ReservedZero bool
}

// Decode splits data into nonce, ciphertext and tag. Data shorter than
// Overhead is ErrMalformed.
func Decode(data []byte) (Frame, error) {
	if len(data) < Overhead {
		return Frame{}, fmt.Errorf("%w: %d bytes, need at least %d", ErrMalformed, len(data), Overhead)
	}

	tagEnd := len(data) - ReservedSize
	tagStart := tagEnd - TagSize

	frame := Frame{
		Nonce:        clone(data[:NonceSize]),
		Ciphertext:   clone(data[NonceSize:tagStart]),
		Tag:          clone(data[tagStart:tagEnd]),
		ReservedZero: allZero(data[tagEnd:]),
	}
	return frame, nil
}

// Encode lays out nonce, ciphertext, tag and zeroed reserved bytes.
func Encode(frame Frame) ([]byte, error) {
	if len(frame.Nonce) != NonceSize {
		return nil, fmt.Errorf("container: nonce is %d bytes, want %d", len(frame.Nonce), NonceSize)
	}
	if len(frame.Tag) != TagSize {
		return nil, fmt.Errorf("container: tag is %d bytes, want %d", len(frame.Tag), TagSize)
	}

	data := make([]byte, Size(len(frame.Ciphertext)))
	offset := copy(data, frame.Nonce)
	offset += copy(data[offset:], frame.Ciphertext)
	copy(data[offset:], frame.Tag)
	return data, nil
}

// Size returns the encoded length of a frame carrying ciphertextLength
// bytes of ciphertext.
func Size(ciphertextLength int) int {
	return Overhead + ciphertextLength
}

func clone(data []byte) []byte {
	out := make([]byte, len(data))
	copy(out, data)
	return out
}

func allZero(data []byte) bool {
	for _, value := range data {
		if value != 0 {
			return false
		}
	}
	return true
}

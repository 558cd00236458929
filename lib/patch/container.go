// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package patch

import (
	"errors"

	"github.com/bureau-foundation/manifestpatch/lib/aesgcm"
	"github.com/bureau-foundation/manifestpatch/lib/container"
)

var associatedData = []byte(container.AssociatedData)

// OpenContainer decodes the container bytes in data and decrypts them
// with key. Errors are *Error values with Path set to path.
func OpenContainer(path string, key, data []byte) (plaintext []byte, frame container.Frame, err error) {
	frame, err = container.Decode(data)
	if err != nil {
		return nil, container.Frame{}, fail(MalformedContainer, path, err)
	}

	plaintext, err = aesgcm.Open(key, frame.Nonce, frame.Ciphertext, frame.Tag, associatedData)
	if err != nil {
		return nil, frame, classifyCipherError(path, err)
	}
	return plaintext, frame, nil
}

// SealContainer encrypts plaintext under key and nonce and returns the
// complete container bytes.
func SealContainer(path string, key, nonce, plaintext []byte) ([]byte, error) {
	ciphertext, tag, err := aesgcm.Seal(key, nonce, plaintext, associatedData, container.TagSize)
	if err != nil {
		return nil, classifyCipherError(path, err)
	}
	data, err := container.Encode(container.Frame{Nonce: nonce, Ciphertext: ciphertext, Tag: tag})
	if err != nil {
		return nil, fail(CipherFailure, path, err)
	}
	return data, nil
}

func classifyCipherError(path string, err error) *Error {
	if errors.Is(err, aesgcm.ErrAuthentication) {
		return fail(AuthenticationFailure, path, err)
	}
	return fail(CipherFailure, path, err)
}

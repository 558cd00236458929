// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package patch

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/manifestpatch/lib/aesgcm"
	"github.com/bureau-foundation/manifestpatch/lib/secret"
)

// ParseKey decodes a hexadecimal AES-128 key. Surrounding whitespace
// is ignored. The caller must Close the returned buffer.
func ParseKey(text string) (*secret.Buffer, error) {
	return DecodeKey([]byte(text))
}

// DecodeKey is ParseKey for text already held in memory, such as a
// key file read into a [secret.Buffer]. text is not modified.
//
// Text that does not decode to exactly 16 bytes is an InvalidKey
// error. Failing to allocate protected memory for a well-formed key
// is KeyAllocationFailure.
func DecodeKey(text []byte) (*secret.Buffer, error) {
	key, err := secret.DecodeHex(text)
	if err != nil {
		return nil, keyError(err)
	}
	if err := CheckKey(key); err != nil {
		key.Close()
		return nil, err
	}
	return key, nil
}

func keyError(err error) error {
	if errors.Is(err, secret.ErrInvalidHex) {
		return fail(InvalidKey, "", err)
	}
	return fail(KeyAllocationFailure, "", err)
}

// CheckKey verifies that key holds exactly one AES-128 key.
func CheckKey(key *secret.Buffer) error {
	if key == nil {
		return fail(InvalidKey, "", fmt.Errorf("no key"))
	}
	if key.Len() != aesgcm.KeySize {
		return fail(InvalidKey, "", fmt.Errorf("key is %d bytes, want %d", key.Len(), aesgcm.KeySize))
	}
	return nil
}

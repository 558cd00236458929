// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrInvalidHex is wrapped by every DecodeHex failure caused by the
// input text. Other failures come from allocating protected memory.
var ErrInvalidHex = errors.New("secret: invalid hex")

// DecodeHex decodes hexadecimal text into a new Buffer. Surrounding
// whitespace is ignored and encoded is not modified.
func DecodeHex(encoded []byte) (*Buffer, error) {
	encoded = bytes.TrimSpace(encoded)
	if len(encoded) == 0 {
		return nil, fmt.Errorf("%w: empty string", ErrInvalidHex)
	}
	if len(encoded)%2 != 0 {
		return nil, fmt.Errorf("%w: odd length %d", ErrInvalidHex, len(encoded))
	}

	decoded := make([]byte, hex.DecodedLen(len(encoded)))
	if _, err := hex.Decode(decoded, encoded); err != nil {
		Zero(decoded)
		return nil, fmt.Errorf("%w: %w", ErrInvalidHex, err)
	}
	buffer, err := NewFromBytes(decoded)
	if err != nil {
		Zero(decoded)
		return nil, err
	}
	return buffer, nil
}

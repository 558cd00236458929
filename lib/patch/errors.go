// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package patch

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind int

const (
	// Unknown is returned by KindOf for errors not produced here.
	Unknown Kind = iota

	InvalidKey
	KeyAllocationFailure
	MissingContainer
	ReadFailure
	MalformedContainer
	AuthenticationFailure
	CipherFailure
	DeserializationFailure
	SerializationFailure
	HashFailure
	JournalFailure
	WriteFailure
)

var kindNames = [...]string{
	Unknown:                "unknown",
	InvalidKey:             "invalid_key",
	KeyAllocationFailure:   "key_allocation_failure",
	MissingContainer:       "missing_container",
	ReadFailure:            "read_failure",
	MalformedContainer:     "malformed_container",
	AuthenticationFailure:  "authentication_failure",
	CipherFailure:          "cipher_failure",
	DeserializationFailure: "deserialization_failure",
	SerializationFailure:   "serialization_failure",
	HashFailure:            "hash_failure",
	JournalFailure:         "journal_failure",
	WriteFailure:           "write_failure",
}

func (kind Kind) String() string {
	if kind < 0 || int(kind) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(kind))
	}
	return kindNames[kind]
}

// Error is a pipeline failure. Path is the container path when the
// failure concerns it.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	var summary string
	switch e.Kind {
	case InvalidKey:
		summary = "invalid AES key"
	case KeyAllocationFailure:
		summary = "couldn't allocate protected memory for the AES key"
	case MissingContainer:
		summary = fmt.Sprintf("couldn't locate '%s'", e.Path)
	case ReadFailure:
		summary = fmt.Sprintf("couldn't read '%s'", e.Path)
	case MalformedContainer:
		summary = fmt.Sprintf("'%s' is not a manifest container", e.Path)
	case AuthenticationFailure:
		// The wrapped error adds nothing for a tag mismatch.
		return fmt.Sprintf("couldn't decrypt '%s': authentication tag mismatch (wrong key or corrupted file)", e.Path)
	case CipherFailure:
		summary = fmt.Sprintf("cipher failure on '%s'", e.Path)
	case DeserializationFailure:
		summary = "couldn't deserialize the decrypted JSON"
	case SerializationFailure:
		summary = "couldn't serialize the patched JSON"
	case HashFailure:
		summary = "couldn't hash file contents"
	case JournalFailure:
		summary = "nonce journal failure"
	case WriteFailure:
		summary = fmt.Sprintf("couldn't write the encrypted '%s' file", e.Path)
	default:
		summary = "manifest patch failed"
	}
	if e.Err == nil {
		return summary
	}
	return summary + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of the first *Error in err's chain, or
// Unknown.
func KindOf(err error) Kind {
	var patchError *Error
	if errors.As(err, &patchError) {
		return patchError.Kind
	}
	return Unknown
}

func fail(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

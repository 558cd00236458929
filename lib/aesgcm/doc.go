// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package aesgcm performs AES-GCM authenticated encryption over raw
// byte buffers: key, nonce, plaintext or ciphertext, detached tag, and
// associated data. It knows nothing about container framing or
// manifest contents.
//
// Every [Seal] and [Open] call acquires its own cipher handle and
// releases it before returning; no handle outlives a call. Requested
// tag lengths are checked against [SupportedTagLengths] before the
// primitive is touched.
//
// Failures are typed so callers can tell them apart:
//
//   - [ErrAuthentication] -- the tag does not match the ciphertext,
//     nonce, key and associated data
//   - [*CipherError] -- any other failure of the underlying provider
//   - [ErrInvalidKeySize], [ErrInvalidNonceSize], [ErrInvalidTagLength]
//     -- precondition violations, reported before any cryptography
//
// Only AES-128 (16-byte keys) with a 12-byte nonce is accepted.
package aesgcm

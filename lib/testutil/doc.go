// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for the manifest
// packages and commands.
//
// [Key] and [KeyHex] return a fixed AES-128 key so that containers
// built in one test can be opened in another. [SealContainer] builds a
// complete encrypted manifest file image from plaintext JSON, and
// [OpenContainer] reverses it, so command tests can assert on the
// document a run wrote without going through the code under test.
//
// [WriteFile] and [SparseFile] create fixtures under a test directory.
// SparseFile creates files of several gigabytes without writing data,
// which is how chunk boundaries above 4 GiB are exercised.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil

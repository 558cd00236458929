// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package binhash computes content digests over whole files or byte
// ranges of files. Manifest chunks can be several gigabytes, so every
// function streams through the hash instead of reading the range into
// memory.
//
// Two algorithms are supported: SHA-1, which produces the 40-character
// hex digests that build manifests conventionally carry, and BLAKE3
// truncated to the same 20 bytes so either fits the manifest's hash
// slots.
package binhash

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package container owns the on-disk layout of an encrypted build
// manifest:
//
//	offset 0          nonce       12 bytes
//	offset 12         ciphertext  N bytes
//	offset 12+N       tag         16 bytes
//	offset 12+N+16    reserved    64 bytes, zero on output
//
// N is the file length minus [Overhead] and may be zero. The reserved
// region is never interpreted; [Decode] discards it and [Encode]
// writes zeroes. [AssociatedData] is bound into every encryption of a
// manifest but is not stored in the frame.
//
// This is the only package that knows these offsets. Changing the tag
// or reserved size happens here and nowhere else.
package container

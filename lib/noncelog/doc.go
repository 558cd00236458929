// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package noncelog keeps a local record of the GCM nonces seen and
// issued under each manifest key, so that a re-encryption never picks a
// nonce that the same key has already used.
//
// Random 96-bit nonces make a collision unlikely, but a manifest key is
// long-lived and shared by every copy of the tool. The journal turns
// "unlikely" into "checked" for the machine that keeps it.
//
// Keys are never stored. Each key is identified by a [Fingerprint]: a
// BLAKE3 derive-key hash under a fixed context string, truncated to 16
// bytes. The journal file is CBOR (lib/codec) and is replaced
// atomically (lib/atomicfile) on [Journal.Save].
package noncelog

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds key material in memory that lives outside the
// Go heap.
//
// A [Buffer] is an anonymous mmap region locked into RAM (mlock) and
// excluded from core dumps (MADV_DONTDUMP). Close zeroes, unlocks and
// unmaps it; a closed Buffer panics on access. Callers acquire a
// Buffer, defer Close, and pass the Buffer (not its bytes) across
// package boundaries so ownership stays visible at every call site.
//
// Constructors:
//
//   - [New] -- zero-filled buffer of a given size
//   - [NewFromBytes] -- copies into protected memory, zeroes the source
//   - [DecodeHex] -- decodes hex text straight into protected memory
//   - [ReadFromPath] -- reads a trimmed secret from a file or stdin
//
// [Zero] clears heap slices that briefly held secret bytes.
//
// Depends on golang.org/x/sys/unix and golang.org/x/term.
package secret

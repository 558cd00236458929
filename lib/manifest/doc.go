// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package manifest models the decrypted build manifest and the
// size/chunk patch applied to it.
//
// A [Document] names a hash algorithm and carries a [FileTable]: an
// ordered mapping from relative file path to [FileEntry]. The table
// keeps the order the paths had in the source JSON so that re-encoding
// an unmodified document reproduces the same bytes.
//
// [Patcher.Apply] walks the table in order and, for every entry:
//
//   - replaces the recorded size with the on-disk size when a
//     [FileSizer] finds the file, and leaves it alone otherwise
//   - regenerates the hash list with exactly [HashCount] entries, one
//     per [ChunkSize]-byte chunk, asking a [ChunkHasher] for each
//   - sets the chunk size to [ChunkSize]
//
// Entries are never added or removed. The default hasher, [Placeholder],
// writes [PlaceholderHash] into every slot; [FileHasher] digests the
// actual chunk bytes through lib/binhash.
package manifest

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"fmt"

	"github.com/bureau-foundation/manifestpatch/lib/binhash"
)

// PlaceholderHash fills every hash slot when no real digest is computed.
// Consumers of patched manifests expect this exact value.
const PlaceholderHash = "e2df1b2aa831724ec987300f0790f04ad3f5beb8"

// Chunk identifies one hash slot of a file entry.
type Chunk struct {
	// Path is the manifest path of the file.
	Path string

	// Index is the chunk's position in the hash list.
	Index uint64

	// Offset and Length delimit the chunk's bytes within the file.
	// Length is zero only for an empty file.
	Offset uint64
	Length uint64

	// Present is true when the file was found locally and its size
	// came from disk.
	Present bool
}

// ChunkHasher produces the hash string stored for one chunk.
type ChunkHasher interface {
	ChunkHash(chunk Chunk) (string, error)
}

// Placeholder returns the same string for every chunk. The empty value
// uses PlaceholderHash.
type Placeholder string

func (placeholder Placeholder) ChunkHash(Chunk) (string, error) {
	if placeholder == "" {
		return PlaceholderHash, nil
	}
	return string(placeholder), nil
}

// FileHasher digests each chunk's byte range from the file under Root.
// Chunks of files that were not found locally go to Fallback, or get
// PlaceholderHash when Fallback is nil.
type FileHasher struct {
	Algorithm binhash.Algorithm
	Root      string
	Fallback  ChunkHasher
}

func (hasher FileHasher) ChunkHash(chunk Chunk) (string, error) {
	if !chunk.Present {
		if hasher.Fallback != nil {
			return hasher.Fallback.ChunkHash(chunk)
		}
		return PlaceholderHash, nil
	}

	digest, err := binhash.HashRange(hasher.Algorithm, Resolve(hasher.Root, chunk.Path), int64(chunk.Offset), int64(chunk.Length))
	if err != nil {
		return "", err
	}
	return binhash.FormatDigest(digest), nil
}

// Hasher names accepted by NewHasher.
const (
	HasherPlaceholder = "placeholder"
	HasherSHA1        = string(binhash.SHA1)
	HasherBLAKE3      = string(binhash.BLAKE3)
)

// NewHasher builds the ChunkHasher for a configured algorithm name.
// The placeholder string is used by the placeholder hasher and as the
// fallback for absent files.
func NewHasher(algorithm, root, placeholder string) (ChunkHasher, error) {
	if algorithm == "" || algorithm == HasherPlaceholder {
		return Placeholder(placeholder), nil
	}
	if digest := binhash.Algorithm(algorithm); digest.Valid() {
		return FileHasher{
			Algorithm: digest,
			Root:      root,
			Fallback:  Placeholder(placeholder),
		}, nil
	}
	return nil, fmt.Errorf("unknown hasher %q (want %s, %s, or %s)", algorithm, HasherPlaceholder, HasherSHA1, HasherBLAKE3)
}

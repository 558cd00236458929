// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"errors"
	"fmt"
	"log/slog"
)

// ChunkSize is the chunk length written into every patched entry: the
// largest value an unsigned 32-bit length can hold.
const ChunkSize uint64 = 4294967295

// MaxHashCount bounds the hash list of a single entry. At ChunkSize
// per chunk it covers files of about four pebibytes; a larger fileSize
// in a decrypted document is rejected instead of allocated.
const MaxHashCount uint64 = 1 << 20

// ErrTooManyChunks is returned by [Patcher.Apply] when an entry's size
// needs more than [MaxHashCount] chunks.
var ErrTooManyChunks = errors.New("entry needs too many chunks")

// HashCount returns how many chunks cover fileSize bytes. An empty file
// still has one chunk.
func HashCount(fileSize uint64) uint64 {
	count := fileSize / ChunkSize
	if fileSize%ChunkSize > 0 {
		count++
	}
	return max(count, 1)
}

// Patcher rewrites file entries from local file sizes.
type Patcher struct {
	// Sizes answers size lookups. Nil treats every file as absent.
	Sizes FileSizer

	// Hasher fills the hash slots. Nil uses Placeholder.
	Hasher ChunkHasher

	// Logger receives a debug record per located file. Nil discards.
	Logger *slog.Logger

	// Progress, if set, is called with each entry's report as soon as
	// the entry is patched, before Apply moves to the next one.
	Progress func(EntryReport)
}

// EntryReport records what Apply did to one entry.
type EntryReport struct {
	Path         string
	Found        bool
	PreviousSize uint64
	FileSize     uint64
	HashCount    uint64
}

// Report lists every entry in document order.
type Report struct {
	Entries []EntryReport
}

// Found returns how many entries were located on disk.
func (report Report) Found() int {
	count := 0
	for _, entry := range report.Entries {
		if entry.Found {
			count++
		}
	}
	return count
}

// Apply patches every entry of document in place. It fails only when
// the hasher fails, in which case the document may be partly patched
// and should be discarded.
func (patcher *Patcher) Apply(document *Document) (Report, error) {
	hasher := patcher.Hasher
	if hasher == nil {
		hasher = Placeholder("")
	}
	logger := patcher.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	report := Report{Entries: make([]EntryReport, 0, document.Files.Len())}
	for path, entry := range document.Files.All() {
		result := EntryReport{Path: path, PreviousSize: entry.FileSize}

		if patcher.Sizes != nil {
			if size, ok := patcher.Sizes.FileSize(path); ok {
				entry.FileSize = size
				result.Found = true
				logger.Debug("found file", "path", path, "file_size", size)
			}
		}

		hashes, err := chunkHashes(hasher, path, entry.FileSize, result.Found)
		if err != nil {
			return report, err
		}
		entry.Hashes = hashes
		entry.ChunkSize = ChunkSize

		result.FileSize = entry.FileSize
		result.HashCount = uint64(len(hashes))
		report.Entries = append(report.Entries, result)
		if patcher.Progress != nil {
			patcher.Progress(result)
		}
	}
	return report, nil
}

func chunkHashes(hasher ChunkHasher, path string, fileSize uint64, present bool) ([]string, error) {
	count := HashCount(fileSize)
	if count > MaxHashCount {
		return nil, fmt.Errorf("%s: fileSize %d needs %d chunks (limit %d): %w",
			path, fileSize, count, MaxHashCount, ErrTooManyChunks)
	}
	hashes := make([]string, 0, count)
	for index := range count {
		offset := index * ChunkSize
		chunk := Chunk{
			Path:    path,
			Index:   index,
			Offset:  offset,
			Length:  min(ChunkSize, fileSize-offset),
			Present: present,
		}
		hash, err := hasher.ChunkHash(chunk)
		if err != nil {
			return nil, fmt.Errorf("hashing %s chunk %d: %w", path, index, err)
		}
		hashes = append(hashes, hash)
	}
	return hashes, nil
}

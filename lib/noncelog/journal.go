// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package noncelog

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"time"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/manifestpatch/lib/atomicfile"
	"github.com/bureau-foundation/manifestpatch/lib/clock"
	"github.com/bureau-foundation/manifestpatch/lib/codec"
)

// fingerprintContext is the BLAKE3 derive-key context. Changing it
// orphans every existing journal entry.
const fingerprintContext = "manifestpatch 2026 nonce journal key fingerprint v1"

// FingerprintSize is the length in bytes of a key fingerprint before
// hex encoding.
const FingerprintSize = 16

// formatVersion is written to every journal file.
const formatVersion = 1

// DefaultAttempts bounds Issue when the caller passes zero.
const DefaultAttempts = 16

// ErrNonceExhausted reports that Issue drew only previously used
// nonces. With a working random source this indicates a broken
// generator, not bad luck.
var ErrNonceExhausted = errors.New("noncelog: no unused nonce after repeated draws")

// Source records how a nonce entered the journal.
type Source string

const (
	// Observed nonces were read from an existing container.
	Observed Source = "observed"

	// Issued nonces were generated for a new encryption.
	Issued Source = "issued"
)

// Entry is one journaled nonce.
type Entry struct {
	Nonce  []byte    `cbor:"nonce"`
	Source Source    `cbor:"source"`
	Time   time.Time `cbor:"time"`
}

type keyRecord struct {
	Entries []Entry `cbor:"entries"`
}

type fileFormat struct {
	Version int                   `cbor:"version"`
	Keys    map[string]*keyRecord `cbor:"keys"`
}

// Journal is an in-memory view of a journal file. It is not safe for
// concurrent use.
type Journal struct {
	path  string
	clock clock.Clock
	keys  map[string]*keyRecord
}

// Fingerprint identifies key in the journal without revealing it.
func Fingerprint(key []byte) string {
	var out [FingerprintSize]byte
	blake3.DeriveKey(fingerprintContext, key, out[:])
	return hex.EncodeToString(out[:])
}

// Open loads the journal at path. A missing file yields an empty
// journal; Save will create it.
func Open(path string, timeSource clock.Clock) (*Journal, error) {
	if timeSource == nil {
		timeSource = clock.Real()
	}
	journal := &Journal{path: path, clock: timeSource, keys: make(map[string]*keyRecord)}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return journal, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading nonce journal: %w", err)
	}

	var decoded fileFormat
	if err := codec.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("parsing nonce journal %s: %w", path, err)
	}
	if decoded.Version != formatVersion {
		return nil, fmt.Errorf("nonce journal %s has version %d, want %d", path, decoded.Version, formatVersion)
	}
	for fingerprint, record := range decoded.Keys {
		if record != nil {
			journal.keys[fingerprint] = record
		}
	}
	return journal, nil
}

// Path returns the file the journal loads from and saves to.
func (journal *Journal) Path() string {
	return journal.path
}

// Seen reports whether nonce is already recorded under fingerprint.
func (journal *Journal) Seen(fingerprint string, nonce []byte) bool {
	record := journal.keys[fingerprint]
	if record == nil {
		return false
	}
	return slices.ContainsFunc(record.Entries, func(entry Entry) bool {
		return bytes.Equal(entry.Nonce, nonce)
	})
}

// Record adds nonce under fingerprint. Recording a nonce that is
// already present does nothing and returns false.
func (journal *Journal) Record(fingerprint string, nonce []byte, source Source) bool {
	if journal.Seen(fingerprint, nonce) {
		return false
	}
	record := journal.keys[fingerprint]
	if record == nil {
		record = &keyRecord{}
		journal.keys[fingerprint] = record
	}
	record.Entries = append(record.Entries, Entry{
		Nonce:  bytes.Clone(nonce),
		Source: source,
		Time:   journal.clock.Now().UTC(),
	})
	return true
}

// Issue draws nonces from generate until one is not yet recorded under
// fingerprint, records it as Issued, and returns it. At most attempts
// draws are made (DefaultAttempts when attempts is not positive).
func (journal *Journal) Issue(fingerprint string, generate func() ([]byte, error), attempts int) ([]byte, error) {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	for range attempts {
		nonce, err := generate()
		if err != nil {
			return nil, err
		}
		if journal.Record(fingerprint, nonce, Issued) {
			return nonce, nil
		}
	}
	return nil, ErrNonceExhausted
}

// Entries returns a copy of the entries recorded under fingerprint in
// the order they were recorded.
func (journal *Journal) Entries(fingerprint string) []Entry {
	record := journal.keys[fingerprint]
	if record == nil {
		return nil
	}
	return slices.Clone(record.Entries)
}

// Fingerprints returns every key fingerprint in the journal, sorted.
func (journal *Journal) Fingerprints() []string {
	fingerprints := make([]string, 0, len(journal.keys))
	for fingerprint := range journal.keys {
		fingerprints = append(fingerprints, fingerprint)
	}
	slices.Sort(fingerprints)
	return fingerprints
}

// Save writes the journal to its path atomically with owner-only
// permissions.
func (journal *Journal) Save() error {
	data, err := codec.Marshal(fileFormat{Version: formatVersion, Keys: journal.keys})
	if err != nil {
		return fmt.Errorf("encoding nonce journal: %w", err)
	}
	if err := atomicfile.WriteFile(journal.path, data, 0600); err != nil {
		return fmt.Errorf("saving nonce journal: %w", err)
	}
	return nil
}

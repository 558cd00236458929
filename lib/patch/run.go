// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package patch

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/bureau-foundation/manifestpatch/lib/aesgcm"
	"github.com/bureau-foundation/manifestpatch/lib/atomicfile"
	"github.com/bureau-foundation/manifestpatch/lib/container"
	"github.com/bureau-foundation/manifestpatch/lib/manifest"
	"github.com/bureau-foundation/manifestpatch/lib/noncelog"
	"github.com/bureau-foundation/manifestpatch/lib/secret"
)

// defaultMode applies when the container's own mode cannot be read.
const defaultMode = 0644

// Options configures one Run.
type Options struct {
	// ContainerPath is the manifest file to patch in place. Empty means
	// container.DefaultFileName in the working directory.
	ContainerPath string

	// Key is the AES-128 key. Run does not close it.
	Key *secret.Buffer

	// Sizes looks up on-disk file sizes. Nil treats every file as
	// absent, so only chunk bookkeeping is rewritten.
	Sizes manifest.FileSizer

	// Hasher fills hash slots. Nil uses manifest.Placeholder.
	Hasher manifest.ChunkHasher

	// Journal, when set, records the input nonce and guarantees the
	// output nonce has not been seen under this key. It is saved after
	// the container is written.
	Journal *noncelog.Journal

	// Random is the nonce entropy source. Nil uses crypto/rand.
	Random io.Reader

	// Logger receives progress and warnings. Nil discards.
	Logger *slog.Logger

	// Progress, if set, is called for each manifest entry as it is
	// patched, before anything is written.
	Progress func(manifest.EntryReport)

	// DryRun runs the whole pipeline but does not write the container
	// or save the journal.
	DryRun bool
}

// Result describes a completed Run.
type Result struct {
	// ContainerPath is the path that was read (and written).
	ContainerPath string

	// Report lists what happened to every manifest entry.
	Report manifest.Report

	// InputNonce is the nonce the container carried before patching.
	InputNonce []byte

	// OutputNonce is the freshly drawn nonce of the new container.
	OutputNonce []byte

	// Document is the patched manifest as serialized into the new
	// container.
	Document []byte

	// Written is false for a dry run.
	Written bool

	// JournalErr is set when the container was written but saving the
	// nonce journal failed afterwards.
	JournalErr error
}

// Run patches the container at options.ContainerPath in place.
func Run(options Options) (*Result, error) {
	path := options.ContainerPath
	if path == "" {
		path = container.DefaultFileName
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if err := CheckKey(options.Key); err != nil {
		return nil, err
	}
	key := options.Key.Bytes()

	data, err := ReadContainer(path)
	if err != nil {
		return nil, err
	}

	plaintext, frame, err := OpenContainer(path, key, data)
	if err != nil {
		return nil, err
	}

	document, err := manifest.Parse(plaintext)
	if err != nil {
		return nil, fail(DeserializationFailure, path, err)
	}
	logger.Info("decrypted manifest",
		"path", path,
		"files", document.Files.Len(),
		"hash", document.HashAlgorithm,
	)

	if options.Journal != nil {
		fingerprint := noncelog.Fingerprint(key)
		if !options.Journal.Record(fingerprint, frame.Nonce, noncelog.Observed) {
			logger.Debug("input nonce already journaled", "fingerprint", fingerprint)
		}
	}

	patcher := manifest.Patcher{
		Sizes:    options.Sizes,
		Hasher:   options.Hasher,
		Logger:   logger,
		Progress: options.Progress,
	}
	report, err := patcher.Apply(document)
	if err != nil {
		return nil, fail(HashFailure, path, err)
	}

	patched, err := manifest.Marshal(document)
	if err != nil {
		return nil, fail(SerializationFailure, path, err)
	}

	nonce, err := NewNonce(path, key, options.Journal, options.Random)
	if err != nil {
		return nil, err
	}

	output, err := SealContainer(path, key, nonce, patched)
	if err != nil {
		return nil, err
	}

	result := &Result{
		ContainerPath: path,
		Report:        report,
		InputNonce:    frame.Nonce,
		OutputNonce:   nonce,
		Document:      patched,
	}

	if options.DryRun {
		logger.Info("dry run, container not written",
			"path", path,
			"found", report.Found(),
			"bytes", len(output),
		)
		return result, nil
	}

	if err := atomicfile.WriteFile(path, output, atomicfile.Mode(path, defaultMode)); err != nil {
		return nil, fail(WriteFailure, path, err)
	}
	result.Written = true
	logger.Info("wrote manifest",
		"path", path,
		"found", report.Found(),
		"entries", len(report.Entries),
		"bytes", len(output),
	)

	if options.Journal != nil {
		if err := options.Journal.Save(); err != nil {
			result.JournalErr = fail(JournalFailure, path, err)
			logger.Warn("container written but nonce journal not saved",
				"journal", options.Journal.Path(),
				"error", err,
			)
		}
	}
	return result, nil
}

// ReadContainer reads the whole container at path. A missing path or
// a directory is MissingContainer; anything else is ReadFailure.
func ReadContainer(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fail(MissingContainer, path, nil)
	}
	if err != nil {
		return nil, fail(ReadFailure, path, err)
	}
	if info.IsDir() {
		return nil, fail(MissingContainer, path, fmt.Errorf("is a directory"))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fail(ReadFailure, path, err)
	}
	return data, nil
}

// NewNonce draws a fresh nonce for sealing path under key. With a
// journal the nonce is guaranteed unused under key and is recorded as
// issued; the caller saves the journal. A nil random uses crypto/rand.
func NewNonce(path string, key []byte, journal *noncelog.Journal, random io.Reader) ([]byte, error) {
	generate := func() ([]byte, error) {
		return aesgcm.GenerateNonce(random)
	}

	var nonce []byte
	var err error
	if journal == nil {
		nonce, err = generate()
	} else {
		nonce, err = journal.Issue(noncelog.Fingerprint(key), generate, 0)
	}
	switch {
	case errors.Is(err, noncelog.ErrNonceExhausted):
		return nil, fail(JournalFailure, path, err)
	case err != nil:
		return nil, fail(CipherFailure, path, err)
	}
	return nonce, nil
}

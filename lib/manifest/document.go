// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrInvalidDocument reports plaintext that is not a well-formed
// manifest.
var ErrInvalidDocument = errors.New("manifest: invalid document")

// Document is the decrypted manifest.
type Document struct {
	// HashAlgorithm names the digest used for chunk hashes. It is
	// carried through unchanged.
	HashAlgorithm string `json:"hash"`

	Files FileTable `json:"files"`
}

// FileEntry describes one file of the archive.
type FileEntry struct {
	FileSize  uint64   `json:"fileSize"`
	Hashes    []string `json:"hashes"`
	ChunkSize uint64   `json:"chunkSize"`
}

// wireDocument defers the files table so Parse can tell a missing or
// null table apart from an empty one.
type wireDocument struct {
	HashAlgorithm string          `json:"hash"`
	Files         json.RawMessage `json:"files"`
}

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// Parse decodes a manifest. The top level must be a single JSON object
// with a non-null "files" object; trailing data after it is rejected.
// Fields the model does not know are dropped.
func Parse(data []byte) (*Document, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	decoder := json.NewDecoder(bytes.NewReader(data))
	var wire wireDocument
	if err := decoder.Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if _, err := decoder.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after document", ErrInvalidDocument)
	}
	if len(wire.Files) == 0 || bytes.Equal(wire.Files, []byte("null")) {
		return nil, fmt.Errorf("%w: missing \"files\"", ErrInvalidDocument)
	}

	document := &Document{HashAlgorithm: wire.HashAlgorithm}
	if err := json.Unmarshal(wire.Files, &document.Files); err != nil {
		if errors.Is(err, ErrInvalidDocument) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: files: %v", ErrInvalidDocument, err)
	}
	return document, nil
}

// Marshal encodes a document as compact JSON without HTML escaping.
func Marshal(document *Document) ([]byte, error) {
	return encodeCompact(document)
}

// MarshalIndent encodes a document for human reading.
func MarshalIndent(document *Document, indent string) ([]byte, error) {
	compact, err := encodeCompact(document)
	if err != nil {
		return nil, err
	}
	var buffer bytes.Buffer
	if err := json.Indent(&buffer, compact, "", indent); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func encodeCompact(value any) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buffer.Bytes(), []byte("\n")), nil
}

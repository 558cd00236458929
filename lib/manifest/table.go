// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
)

// FileTable is an insertion-ordered map from relative path to entry.
// The zero value is an empty table ready to use.
type FileTable struct {
	paths   []string
	entries map[string]*FileEntry
}

// Len returns the number of entries.
func (table *FileTable) Len() int {
	return len(table.paths)
}

// Get returns the entry for path. The pointer aliases the table.
func (table *FileTable) Get(path string) (*FileEntry, bool) {
	entry, ok := table.entries[path]
	return entry, ok
}

// Set stores entry under path. A new path is appended; an existing one
// keeps its position.
func (table *FileTable) Set(path string, entry FileEntry) {
	if table.entries == nil {
		table.entries = make(map[string]*FileEntry)
	}
	if existing, ok := table.entries[path]; ok {
		*existing = entry
		return
	}
	table.paths = append(table.paths, path)
	table.entries[path] = &entry
}

// Paths returns the paths in table order.
func (table *FileTable) Paths() []string {
	return append([]string(nil), table.paths...)
}

// All iterates entries in table order. Mutating an entry through the
// yielded pointer updates the table.
func (table *FileTable) All() iter.Seq2[string, *FileEntry] {
	return func(yield func(string, *FileEntry) bool) {
		for _, path := range table.paths {
			if !yield(path, table.entries[path]) {
				return
			}
		}
	}
}

// MarshalJSON writes entries as a JSON object in table order.
func (table FileTable) MarshalJSON() ([]byte, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)

	buffer.WriteByte('{')
	for index, path := range table.paths {
		if index > 0 {
			buffer.WriteByte(',')
		}
		if err := encoder.Encode(path); err != nil {
			return nil, err
		}
		trimNewline(&buffer)
		buffer.WriteByte(':')
		if err := encoder.Encode(table.entries[path]); err != nil {
			return nil, fmt.Errorf("encoding %q: %w", path, err)
		}
		trimNewline(&buffer)
	}
	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, keeping key order. A repeated key
// keeps its first position and takes the last value. A null entry is
// rejected.
func (table *FileTable) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))

	token, err := decoder.Token()
	if err != nil {
		return err
	}
	if delimiter, ok := token.(json.Delim); !ok || delimiter != '{' {
		return fmt.Errorf("%w: files must be an object", ErrInvalidDocument)
	}

	*table = FileTable{}
	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return err
		}
		path, ok := token.(string)
		if !ok {
			return fmt.Errorf("%w: unexpected token %v in files", ErrInvalidDocument, token)
		}

		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			return fmt.Errorf("%w: files[%q]: %v", ErrInvalidDocument, path, err)
		}
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return fmt.Errorf("%w: files[%q] is null", ErrInvalidDocument, path)
		}

		var entry FileEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return fmt.Errorf("%w: files[%q]: %v", ErrInvalidDocument, path, err)
		}
		table.Set(path, entry)
	}

	if _, err := decoder.Token(); err != nil {
		return err
	}
	return nil
}

func trimNewline(buffer *bytes.Buffer) {
	if length := buffer.Len(); length > 0 && buffer.Bytes()[length-1] == '\n' {
		buffer.Truncate(length - 1)
	}
}

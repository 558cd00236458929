// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"os"
	"path/filepath"
	"strings"
)

// FileSizer looks up the current size of a file named by its manifest
// path. The boolean is false when the file does not exist locally.
type FileSizer interface {
	FileSize(path string) (uint64, bool)
}

// FileSizerFunc adapts a function to FileSizer.
type FileSizerFunc func(path string) (uint64, bool)

func (function FileSizerFunc) FileSize(path string) (uint64, bool) {
	return function(path)
}

// DirectorySizer resolves manifest paths under Root and reports the size
// of regular files. Directories, devices and unreadable paths count as
// absent.
type DirectorySizer struct {
	Root string
}

func (sizer DirectorySizer) FileSize(path string) (uint64, bool) {
	info, err := os.Stat(Resolve(sizer.Root, path))
	if err != nil || !info.Mode().IsRegular() {
		return 0, false
	}
	return uint64(info.Size()), true
}

// Resolve maps a manifest path onto the local filesystem under root.
// Manifests written on Windows use backslashes, so both separators are
// accepted. An empty root means the working directory.
func Resolve(root, path string) string {
	if root == "" {
		root = "."
	}
	normalized := strings.ReplaceAll(path, `\`, "/")
	return filepath.Join(root, filepath.FromSlash(normalized))
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package atomicfile replaces files so that readers (and a crash at any
// point) observe either the complete old content or the complete new
// content, never a truncated mix.
//
// [WriteFile] writes to a sibling temporary file, fsyncs it, renames it
// over the destination, and fsyncs the parent directory so the rename
// itself survives power loss.
package atomicfile

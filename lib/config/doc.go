// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the manifest
// tools.
//
// Configuration is loaded from a single file named by either the
// MANIFESTPATCH_CONFIG environment variable (via [Load]) or a --config
// flag (via [LoadFile]). There is no discovery of ~/.config or other
// locations. When neither is given, [Load] returns [Default]: the
// patcher must work with nothing but a key on the command line.
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${MANIFESTPATCH_ROOT} and ${VAR:-default} patterns are
// expanded. No environment variable overrides a config value directly.
//
// Key exports:
//
//   - [Config] -- container path, lookup root, hasher, nonce journal, logging
//   - [Default] -- the built-in configuration
//   - [Load] and [LoadFile] -- the two entry points for loading
package config

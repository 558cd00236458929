// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package patch runs the manifest patch pipeline end to end:
//
//	read file -> container.Decode -> aesgcm.Open -> manifest.Parse
//	-> Patcher.Apply -> manifest.Marshal -> aesgcm.Seal (fresh nonce)
//	-> container.Encode -> atomic write
//
// Every failure is returned as an [*Error] carrying a [Kind], so
// callers can tell a wrong key (AuthenticationFailure) from a damaged
// file (MalformedContainer) or an unparseable document
// (DeserializationFailure) without matching message text. The
// container file is written only after every earlier stage succeeded,
// and the write is atomic, so a failed run leaves the original bytes in
// place.
//
// [ParseKey] validates the hex key before anything touches the
// filesystem. Keys live in lib/secret buffers for the whole run.
package patch

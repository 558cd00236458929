// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// Code that stamps records with the current time accepts a [Clock]
// instead of calling time.Now directly. Production passes [Real]; tests
// pass [Fake], which stands still until advanced:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	journal, err := noncelog.Open(path, c)
//	c.Advance(time.Hour)
package clock

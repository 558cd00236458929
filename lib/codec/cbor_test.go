// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"
)

type sampleRecord struct {
	Fingerprint string   `cbor:"fingerprint"`
	Nonces      [][]byte `cbor:"nonces"`
	Count       int      `cbor:"count,omitempty"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := sampleRecord{
		Fingerprint: "abc123",
		Nonces:      [][]byte{{1, 2, 3}, {4, 5, 6}},
		Count:       2,
	}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded sampleRecord
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Fingerprint != original.Fingerprint || decoded.Count != original.Count || len(decoded.Nonces) != 2 ||
		!bytes.Equal(decoded.Nonces[1], original.Nonces[1]) {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestMarshalDeterministicMapOrder(t *testing.T) {
	// Go map iteration order is random; Core Deterministic Encoding
	// must sort keys anyway.
	value := map[string]int{"zeta": 1, "alpha": 2, "mid": 3, "beta": 4}

	first, err := Marshal(value)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for range 20 {
		again, err := Marshal(value)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("deterministic encoding violated: %x != %x", first, again)
		}
	}
}

func TestUnmarshalAnyUsesStringKeys(t *testing.T) {
	data, err := Marshal(map[string]any{"key": "value"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	asMap, ok := decoded.(map[string]any)
	if !ok {
		t.Fatalf("decoded type = %T, want map[string]any", decoded)
	}
	if asMap["key"] != "value" {
		t.Errorf("decoded[key] = %v, want value", asMap["key"])
	}
}

func TestUnmarshalIgnoresUnknownFields(t *testing.T) {
	data, err := Marshal(map[string]any{"fingerprint": "f", "future": 12})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded sampleRecord
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Fingerprint != "f" {
		t.Errorf("Fingerprint = %q, want f", decoded.Fingerprint)
	}
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	var decoded sampleRecord
	if err := Unmarshal([]byte{0xff, 0x00}, &decoded); err == nil {
		t.Fatal("Unmarshal should fail on malformed CBOR")
	}
}

func TestDiagnose(t *testing.T) {
	data, err := Marshal(sampleRecord{Fingerprint: "fp", Nonces: [][]byte{{0xab}}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	diagnostic, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.Contains(diagnostic, `"fingerprint": "fp"`) || !strings.Contains(diagnostic, "h'ab'") {
		t.Errorf("Diagnose = %s", diagnostic)
	}
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"bytes"
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	buffer, err := New(16)
	if err != nil {
		t.Fatalf("New(16): %v", err)
	}
	defer buffer.Close()

	if buffer.Len() != 16 {
		t.Errorf("Len() = %d, want 16", buffer.Len())
	}
	for index, value := range buffer.Bytes() {
		if value != 0 {
			t.Fatalf("byte %d = %d, want 0", index, value)
		}
	}
}

func TestNewRejectsNonPositiveSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		if _, err := New(size); err == nil {
			t.Errorf("New(%d) should fail", size)
		}
	}
}

func TestNewFromBytesZeroesSource(t *testing.T) {
	source := []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77}
	want := append([]byte(nil), source...)

	buffer, err := NewFromBytes(source)
	if err != nil {
		t.Fatalf("NewFromBytes: %v", err)
	}
	defer buffer.Close()

	if !bytes.Equal(buffer.Bytes(), want) {
		t.Errorf("Bytes() = %x, want %x", buffer.Bytes(), want)
	}
	if !bytes.Equal(source, make([]byte, len(source))) {
		t.Errorf("source not zeroed: %x", source)
	}
}

func TestNewFromBytesEmpty(t *testing.T) {
	if _, err := NewFromBytes(nil); err == nil {
		t.Fatal("NewFromBytes(nil) should fail")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	buffer, err := New(8)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := buffer.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := buffer.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if buffer.Len() != 8 {
		t.Errorf("Len() after Close = %d, want 8", buffer.Len())
	}
}

func TestBytesAfterClosePanics(t *testing.T) {
	buffer, err := New(8)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	buffer.Close()

	defer func() {
		if recover() == nil {
			t.Error("Bytes() after Close did not panic")
		}
	}()
	buffer.Bytes()
}

func TestDecodeHex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []byte
		wantErr bool
	}{
		{"lowercase", "00ff10", []byte{0x00, 0xff, 0x10}, false},
		{"uppercase", "ABCD", []byte{0xab, 0xcd}, false},
		{"surrounding whitespace", "  0102\n", []byte{0x01, 0x02}, false},
		{"odd length", "abc", nil, true},
		{"not hex", "zz", nil, true},
		{"empty", "", nil, true},
		{"only whitespace", "   ", nil, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			buffer, err := DecodeHex([]byte(test.input))
			if test.wantErr {
				if err == nil {
					buffer.Close()
					t.Fatalf("DecodeHex(%q) should fail", test.input)
				}
				if !errors.Is(err, ErrInvalidHex) {
					t.Errorf("DecodeHex(%q) error = %v, want ErrInvalidHex", test.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeHex(%q): %v", test.input, err)
			}
			defer buffer.Close()
			if !bytes.Equal(buffer.Bytes(), test.want) {
				t.Errorf("DecodeHex(%q) = %x, want %x", test.input, buffer.Bytes(), test.want)
			}
		})
	}
}

func TestDecodeHexFromBuffer(t *testing.T) {
	text, err := NewFromBytes([]byte("000102030405060708090a0b0c0d0e0f\n"))
	if err != nil {
		t.Fatalf("NewFromBytes: %v", err)
	}
	defer text.Close()

	key, err := DecodeHex(text.Bytes())
	if err != nil {
		t.Fatalf("DecodeHex: %v", err)
	}
	defer key.Close()

	if key.Len() != 16 {
		t.Fatalf("decoded length = %d, want 16", key.Len())
	}
	if key.Bytes()[15] != 0x0f {
		t.Errorf("last byte = %x, want 0f", key.Bytes()[15])
	}
	if text.Bytes()[0] != '0' {
		t.Error("DecodeHex modified its input")
	}
}

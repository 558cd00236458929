// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewCommandLogger_AutoOnBufferIsJSON(t *testing.T) {
	var buffer bytes.Buffer
	logger, err := NewCommandLogger(&buffer, LogFormatAuto, slog.LevelInfo)
	if err != nil {
		t.Fatalf("NewCommandLogger: %v", err)
	}
	logger.Info("patched", "container", "build-manifest.bin")

	var record map[string]any
	if err := json.Unmarshal(buffer.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buffer.String())
	}
	if record["msg"] != "patched" || record["container"] != "build-manifest.bin" {
		t.Errorf("record = %v", record)
	}
}

func TestNewCommandLogger_Text(t *testing.T) {
	var buffer bytes.Buffer
	logger, err := NewCommandLogger(&buffer, LogFormatText, slog.LevelInfo)
	if err != nil {
		t.Fatalf("NewCommandLogger: %v", err)
	}
	logger.Info("patched", "entries", 3)

	output := buffer.String()
	if !strings.Contains(output, "msg=patched") || !strings.Contains(output, "entries=3") {
		t.Errorf("text output = %q", output)
	}
}

func TestNewCommandLogger_Level(t *testing.T) {
	var buffer bytes.Buffer
	logger, err := NewCommandLogger(&buffer, LogFormatJSON, slog.LevelWarn)
	if err != nil {
		t.Fatalf("NewCommandLogger: %v", err)
	}
	logger.Info("hidden")
	if buffer.Len() != 0 {
		t.Errorf("info record written at warn level: %q", buffer.String())
	}
	logger.Warn("shown")
	if !strings.Contains(buffer.String(), "shown") {
		t.Errorf("warn record missing: %q", buffer.String())
	}
}

func TestNewCommandLogger_UnknownFormat(t *testing.T) {
	_, err := NewCommandLogger(&bytes.Buffer{}, "xml", slog.LevelInfo)
	if err == nil {
		t.Fatal("NewCommandLogger accepted unknown format")
	}
	if !strings.Contains(err.Error(), "xml") {
		t.Errorf("error = %q, should name the format", err.Error())
	}
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// Log formats accepted by NewCommandLogger.
const (
	LogFormatAuto = "auto"
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// NewCommandLogger creates a structured logger writing to w. With format
// "auto", a terminal gets slog.TextHandler for human-readable output and
// anything else (pipes, files, CI) gets slog.JSONHandler for
// machine-parseable output. "text" and "json" force a handler.
//
// Callers scope the logger with command-specific context via With():
//
//	logger = logger.With("command", "patch", "container", path)
func NewCommandLogger(w io.Writer, format string, level slog.Level) (*slog.Logger, error) {
	options := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch format {
	case LogFormatAuto, "":
		if isTerminal(w) {
			handler = slog.NewTextHandler(w, options)
		} else {
			handler = slog.NewJSONHandler(w, options)
		}
	case LogFormatText:
		handler = slog.NewTextHandler(w, options)
	case LogFormatJSON:
		handler = slog.NewJSONHandler(w, options)
	default:
		return nil, Validation("unknown log format %q (want %s, %s, or %s)", format, LogFormatAuto, LogFormatText, LogFormatJSON)
	}
	return slog.New(handler), nil
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

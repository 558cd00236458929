// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ReadFromPath reads a secret from path, or from stdin when path is
// "-". Surrounding whitespace is trimmed. When stdin is a terminal the
// line is read without echo.
func ReadFromPath(path string) (*Buffer, error) {
	var data []byte
	var err error

	switch {
	case path == "-" && term.IsTerminal(int(os.Stdin.Fd())):
		fmt.Fprint(os.Stderr, "key: ")
		data, err = term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, fmt.Errorf("reading secret from terminal: %w", err)
		}
	case path == "-":
		data, err = readLine(os.Stdin)
		if err != nil {
			return nil, err
		}
	default:
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
	}
	defer Zero(data)

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("secret is empty")
	}
	return NewFromBytes(trimmed)
}

func readLine(reader io.Reader) ([]byte, error) {
	scanner := bufio.NewScanner(reader)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return nil, fmt.Errorf("stdin is empty")
	}
	line := scanner.Bytes()
	out := make([]byte, len(line))
	copy(out, line)
	Zero(line)
	return out, nil
}

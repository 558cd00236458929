// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"bytes"
	"runtime"
	"strings"
	"testing"
)

func setBuildInfo(t *testing.T, version, commit, dirty, buildTime string) {
	t.Helper()
	saved := []string{Version, GitCommit, GitDirty, BuildTime}
	t.Cleanup(func() {
		Version, GitCommit, GitDirty, BuildTime = saved[0], saved[1], saved[2], saved[3]
	})
	Version, GitCommit, GitDirty, BuildTime = version, commit, dirty, buildTime
}

func TestInfo(t *testing.T) {
	setBuildInfo(t, "1.2.3", "abc1234", "false", "2026-02-10T12:00:00Z")
	if got, want := Info(), "1.2.3 (abc1234, 2026-02-10T12:00:00Z)"; got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}
}

func TestInfoDirty(t *testing.T) {
	setBuildInfo(t, "1.2.3", "abc1234", "true", "now")
	if got, want := Info(), "1.2.3 (abc1234-dirty, now)"; got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}
}

func TestFull(t *testing.T) {
	full := Full()
	if !strings.HasPrefix(full, Info()) {
		t.Errorf("Full() does not start with Info(): %q", full)
	}
	if !strings.Contains(full, runtime.Version()) || !strings.Contains(full, runtime.GOOS+"/"+runtime.GOARCH) {
		t.Errorf("Full() missing runtime details: %q", full)
	}
}

func TestPrint(t *testing.T) {
	setBuildInfo(t, "9.9.9", "deadbee", "false", "then")
	var buffer bytes.Buffer
	Print(&buffer, "patch-manifest")
	if got, want := buffer.String(), "patch-manifest 9.9.9 (deadbee, then)\n"; got != want {
		t.Errorf("Print wrote %q, want %q", got, want)
	}
}

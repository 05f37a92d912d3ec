// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package command

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeEnv(t *testing.T) {
	base := []string{"A=1", "B=2", "C=3", "B=dup"}
	got := mergeEnv(base, map[string]string{"B": "override", "Z": "26", "Y": "25"})

	assert.Equal(t, []string{"A=1", "B=override", "C=3", "Y=25", "Z=26"}, got)
}

func TestMergeEnv_NoOverrides(t *testing.T) {
	base := []string{"A=1", "B=2"}
	assert.Equal(t, base, mergeEnv(base, nil))
}

func TestShellArgs(t *testing.T) {
	assert.Equal(t, []string{"-c", "echo hi"}, shellArgs("/bin/bash", "echo hi"))
	assert.Equal(t, []string{"/C", "echo hi"}, shellArgs(`C:\Windows\System32\CMD.EXE`, "echo hi"))
}

func TestDefaultShell(t *testing.T) {
	if runtime.GOOS == goosWindows {
		t.Setenv(winSystemRootEnv, `D:\Win`)
		assert.Equal(t, `D:\Win\System32\cmd.exe`, DefaultShell())

		return
	}

	t.Setenv("SHELL", "/usr/bin/zsh")
	assert.Equal(t, "/usr/bin/zsh", DefaultShell())

	t.Setenv("SHELL", "")
	assert.Equal(t, binSh, DefaultShell())
}

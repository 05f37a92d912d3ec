// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package command

import (
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
)

const (
	goosWindows          = "windows"
	commandSwitchWindows = "/C"         // Command switch for cmd.exe
	commandSwitchUnix    = "-c"         // Command switch for Unix-like shells
	winSystem32          = "System32"   // Directory where cmd.exe is located
	cmdExe               = "cmd.exe"    // Command interpreter on Windows
	binSh                = "/bin/sh"    // Default shell for Unix-like systems
	winSystemRootEnv     = "SystemRoot" // Environment variable for the Windows system root
)

// DefaultShell returns the interpreter used to run shell lines:
// cmd.exe on Windows, otherwise $SHELL or /bin/sh.
func DefaultShell() string {
	if runtime.GOOS == goosWindows {
		systemRoot := os.Getenv(winSystemRootEnv)
		if systemRoot == "" {
			systemRoot = `C:\Windows`
		}

		return filepath.Join(systemRoot, winSystem32, cmdExe)
	}

	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}

	return binSh
}

// shellArgs returns the arguments that make shell run line.
func shellArgs(shell, line string) []string {
	if strings.EqualFold(filepath.Base(shell), cmdExe) {
		return []string{commandSwitchWindows, line}
	}

	return []string{commandSwitchUnix, line}
}

// mergeEnv applies overrides on top of base, a list of KEY=VALUE entries.
// Overrides win on collision. Order of base is preserved and new keys are appended sorted.
func mergeEnv(base []string, overrides map[string]string) []string {
	out := make([]string, 0, len(base)+len(overrides))
	seen := make(map[string]struct{}, len(overrides))

	for _, kv := range base {
		k, _, _ := strings.Cut(kv, "=")
		if v, ok := overrides[k]; ok {
			if _, dup := seen[k]; dup {
				continue
			}

			seen[k] = struct{}{}
			out = append(out, k+"="+v)

			continue
		}

		out = append(out, kv)
	}

	keys := make([]string, 0, len(overrides))

	for k := range overrides {
		if _, ok := seen[k]; !ok {
			keys = append(keys, k)
		}
	}

	slices.Sort(keys)

	for _, k := range keys {
		out = append(out, k+"="+overrides[k])
	}

	return out
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package fix

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/matt-FFFFFF/gpush/cmd/gpush/cmdstate"
	"github.com/matt-FFFFFF/gpush/internal/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func runCLI(t *testing.T, cfg string, args ...string) (string, error) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	color.SetEnabled(false)

	cfgPath := filepath.Join(t.TempDir(), "gpushrc.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	out := &bytes.Buffer{}
	root := &cli.Command{
		Name:           "gpush",
		Flags:          cmdstate.Flags(),
		Commands:       []*cli.Command{FixCmd},
		Writer:         out,
		ErrWriter:      out,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}

	err := root.Run(context.Background(), append([]string{"gpush", "--config-file", cfgPath, "fix"}, args...))

	return out.String(), err
}

func requireExitCode(t *testing.T, err error, code int) {
	t.Helper()

	var exitErr cli.ExitCoder

	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, code, exitErr.ExitCode())
}

func TestFix_RunsInOrder(t *testing.T) {
	out, err := runCLI(t, `
fix:
  - shell: echo hello
    name: howdy
  - shell: echo world
`)
	require.NoError(t, err)
	assert.Regexp(t, `(?s)howdy.*hello.*echo world.*world`, out)
}

func TestFix_StopsAtFirstFailure(t *testing.T) {
	out, err := runCLI(t, `
fix:
  - shell: echo first
  - shell: exit 2
    name: breaks
  - shell: echo never
`)
	requireExitCode(t, err, 1)
	assert.Contains(t, out, "first")
	assert.NotContains(t, out, "never")
}

func TestFix_NoSection(t *testing.T) {
	out, err := runCLI(t, "parallel_run:\n  - shell: echo hi\n")
	requireExitCode(t, err, 1)
	assert.Contains(t, out, "No fix section found in config file")
}

func TestFix_EmptySection(t *testing.T) {
	out, err := runCLI(t, "fix: []\n")
	requireExitCode(t, err, 1)
	assert.Contains(t, out, "Fix section is empty")
}

func TestFix_RejectsArguments(t *testing.T) {
	out, err := runCLI(t, "fix:\n  - shell: echo hi\n", "extra")
	requireExitCode(t, err, 1)
	assert.Contains(t, out, "Unexpected argument(s): extra")
	assert.Contains(t, out, "gpush fix does not accept any arguments.")
	assert.NotContains(t, out, "hi\n")
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runner

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matt-FFFFFF/gpush/internal/command"
	"github.com/matt-FFFFFF/gpush/internal/status"
	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunInParallel_CountsFailures(t *testing.T) {
	r, out := newTestRunner(t)

	n, err := r.RunInParallel(context.Background(), []any{
		shell("exit 0"),
		shell("echo broken; exit 1"),
		shell("exit 0"),
	})

	require.NoError(t, err)
	assert.Equal(t, 1, n)

	s := out.String()
	assert.Contains(t, s, "exit 0: OK")
	assert.Contains(t, s, "echo broken; exit 1: EXIT CODE 1")
	assert.Contains(t, s, "==== output of echo broken; exit 1 ====")
	assert.Contains(t, s, "broken\n")
	assert.Contains(t, s, summaryFailed)
	assert.NotContains(t, s, summaryOK)
}

func TestRunInParallel_SkipIsNotAFailure(t *testing.T) {
	r, out := newTestRunner(t)

	n, err := r.RunInParallel(context.Background(), []any{
		map[string]any{"shell": "exit 1", "if": "exit 1", "name": "guarded"},
		map[string]any{"shell": "echo hidden", "name": "quiet"},
	})

	require.NoError(t, err)
	assert.Zero(t, n)

	s := out.String()
	assert.Contains(t, s, "guarded: skipped")
	assert.Contains(t, s, "quiet: OK")
	assert.Contains(t, s, summaryOK)
	assert.NotContains(t, s, "hidden", "output of successful commands is not shown")
}

func TestRunInParallel_AllRunDespiteFailures(t *testing.T) {
	r, _ := newTestRunner(t)
	dir := t.TempDir()

	specs := make([]any, 0, 4)
	for _, name := range []string{"a", "b", "c", "d"} {
		specs = append(specs, shell("touch "+filepath.Join(dir, name)+"; exit 1"))
	}

	n, err := r.RunInParallel(context.Background(), specs)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	for _, name := range []string{"a", "b", "c", "d"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
}

func TestRunInParallel_ConfigurationErrorsStopEverything(t *testing.T) {
	r, _ := newTestRunner(t)
	sentinel := filepath.Join(t.TempDir(), "sentinel")

	n, err := r.RunInParallel(context.Background(), []any{
		shell("touch " + sentinel),
		map[string]any{"shell": "true", "bogus": 1},
		map[string]any{"shell": "true", "env": "FOO=bar"},
	})

	require.ErrorIs(t, err, command.ErrConfiguration)
	assert.Equal(t, 2, n)
	assert.NoFileExists(t, sentinel)
}

func TestRunInParallel_MissingShellCountsAsFailure(t *testing.T) {
	r, out := newTestRunner(t)

	n, err := r.RunInParallel(context.Background(), []any{
		map[string]any{"name": "no shell"},
		shell("true"),
	})

	require.ErrorIs(t, err, command.ErrConfiguration)
	assert.Equal(t, 1, n)

	var cfgErr *command.ConfigurationError

	require.ErrorAs(t, err, &cfgErr)

	s := out.String()
	final := s[strings.LastIndex(s, "no shell: "):]
	assert.True(t, strings.HasPrefix(final, "no shell: ERROR "+cfgErr.Error()), "final status block shows the error")
	assert.Contains(t, s, "==== output of no shell ====\n"+cfgErr.Error()+"\n")
	assert.Contains(t, s, summaryFailed)
}

func TestRunInParallel_Verbose(t *testing.T) {
	r, out := newTestRunner(t, WithVerbose(true))

	n, err := r.RunInParallel(context.Background(), []any{
		map[string]any{"shell": "echo first; printf tail", "name": "talker"},
	})

	require.NoError(t, err)
	assert.Zero(t, n)

	s := out.String()
	assert.Contains(t, s, "[talker] first\n")
	assert.Contains(t, s, "[talker] tail\n")
	assert.NotContains(t, s, "==== output of")
}

func TestRunInParallel_Interrupted(t *testing.T) {
	r, out := newTestRunner(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		time.Sleep(300 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	n, err := r.RunInParallel(ctx, []any{shell("sleep 30"), shell("sleep 30 & wait")})

	require.ErrorIs(t, err, command.ErrInterrupted)
	assert.Equal(t, 1, n)
	assert.Less(t, time.Since(start), 10*time.Second)
	assert.Contains(t, out.String(), "interrupted")
}

func TestRunInParallel_UsesInterval(t *testing.T) {
	r, _ := newTestRunner(t, WithInterval(42*time.Millisecond))

	var got time.Duration

	stubs := gostub.Stub(&newTicker, func(d time.Duration) *time.Ticker {
		got = d
		return time.NewTicker(d)
	})
	defer stubs.Reset()

	_, err := r.RunInParallel(context.Background(), []any{shell("sleep 0.2")})
	require.NoError(t, err)
	assert.Equal(t, 42*time.Millisecond, got)
}

func TestRunInParallel_JSONFormatter(t *testing.T) {
	r, out := newTestRunner(t, WithFormatter(status.JSON{}))

	_, err := r.RunInParallel(context.Background(), []any{map[string]any{"shell": "true", "name": "j"}})
	require.NoError(t, err)

	var found bool

	for _, line := range strings.Split(out.String(), "\n") {
		if strings.HasPrefix(line, "{") && strings.Contains(line, `"status":"OK"`) {
			found = true
		}
	}

	assert.True(t, found, "expected a JSON status line for the finished command")
}

func TestRunInParallel_Empty(t *testing.T) {
	r, out := newTestRunner(t)

	n, err := r.RunInParallel(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, out.String())
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"testing"

	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullConfig = `
pre_run:
  - shell: echo pre
parallel_run:
  - shell: go vet ./...
    name: Go Vet
  - unit_tests
  - shell: golangci-lint run
    if: command -v golangci-lint
    env:
      GOFLAGS: -mod=mod
post_run:
  - shell: echo post
post_run_success:
  - shell: echo yay
post_run_failure:
  - shell: echo boo
command_definitions:
  unit_tests:
    shell: go test ./...
    name: ignored
success_emoji: "🚀"
`

func stubFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}

	stubs := gostub.Stub(&FsFactory, func() afero.Fs {
		return fs
	})
	t.Cleanup(stubs.Reset)

	return fs
}

func TestParse_Full(t *testing.T) {
	cfg, err := Parse([]byte(fullConfig))
	require.NoError(t, err)

	assert.Len(t, cfg.PreRun, 1)
	require.Len(t, cfg.ParallelRun, 3)
	assert.Equal(t, map[string]any{"shell": "go test ./...", "name": "unit_tests"}, cfg.ParallelRun[1])
	assert.Len(t, cfg.PostRun, 1)
	assert.Len(t, cfg.PostRunSuccess, 1)
	assert.Len(t, cfg.PostRunFailure, 1)
	assert.Equal(t, "🚀", cfg.SuccessEmoji)

	phases := cfg.Phases()
	require.Len(t, phases, 5)
	assert.Equal(t, PhasePreRun, phases[0].Name)
	assert.True(t, phases[1].Parallel)
	assert.Equal(t, PhasePostRunFailure, phases[4].Name)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		err  error
	}{
		{"empty", "  \n", ErrEmptyConfig},
		{"not yaml", "pre_run: [", ErrInvalidYaml},
		{"unknown top level key", "bogus: 1\n", ErrInvalidYaml},
		{"unknown reference", "parallel_run:\n  - missing\n", ErrUnknownDefinition},
		{
			"definition not a mapping",
			"parallel_run:\n  - lint\ncommand_definitions:\n  lint: eslint .\n",
			ErrInvalidDefinition,
		},
		{
			"both parallel keys",
			"parallel_run:\n  - shell: a\nparallel_commands:\n  - shell: b\n",
			ErrDuplicateParallel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestParse_ParallelCommandsAlias(t *testing.T) {
	cfg, err := Parse([]byte("parallel_commands:\n  - shell: make lint\n"))
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"shell": "make lint"}}, cfg.ParallelRun)
}

func TestParse_FixSection(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		present bool
		count   int
	}{
		{"absent", "parallel_run:\n  - shell: true\n", false, 0},
		{"empty", "fix: []\n", true, 0},
		{"entries", "parallel_run:\n  - shell: true\nfix:\n  - shell: npm run lint -- --fix\n  - shell: gofmt -w .\n", true, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)
			assert.Equal(t, tt.present, cfg.Fix != nil)
			assert.Len(t, cfg.Fix, tt.count)
		})
	}
}

func TestFindParallel(t *testing.T) {
	cfg, err := Parse([]byte(fullConfig))
	require.NoError(t, err)

	tests := []struct {
		input string
		found bool
		shell string
	}{
		{"go-vet", true, "go vet ./..."},
		{"GO_VET", true, "go vet ./..."},
		{"unit tests", true, "go test ./..."},
		{"golangci lint run", true, "golangci-lint run"},
		{"rspec", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			raw, ok := cfg.FindParallel(tt.input)
			assert.Equal(t, tt.found, ok)

			if tt.found {
				assert.Equal(t, tt.shell, raw.(map[string]any)["shell"])
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "unittests", NormalizeName(" Unit_Tests "))
	assert.Equal(t, "unittests", NormalizeName("unit-tests"))
	assert.Equal(t, NormalizeName("Unit Tests"), NormalizeName("unit-tests"))
}

func TestFind(t *testing.T) {
	stubFs(t, map[string]string{"/repo/gpushrc.yaml": "pre_run: []"})

	p, err := Find("/repo")
	require.NoError(t, err)
	assert.Equal(t, "/repo/gpushrc.yaml", p)

	_, err = Find("/elsewhere")
	require.ErrorIs(t, err, ErrConfigNotFound)
}

func TestFind_PrefersYml(t *testing.T) {
	stubFs(t, map[string]string{
		"/repo/gpushrc.yml":  "pre_run: []",
		"/repo/gpushrc.yaml": "pre_run: []",
	})

	p, err := Find("/repo")
	require.NoError(t, err)
	assert.Equal(t, "/repo/gpushrc.yml", p)
}

func TestLoad(t *testing.T) {
	stubFs(t, map[string]string{"/repo/custom.yml": fullConfig})

	cfg, err := Load(context.Background(), "/repo/custom.yml")
	require.NoError(t, err)
	assert.Equal(t, "/repo/custom.yml", cfg.Source)
	assert.Len(t, cfg.ParallelRun, 3)
}

func TestLoad_DefaultName(t *testing.T) {
	stubFs(t, map[string]string{"gpushrc.yml": "parallel_run:\n  - shell: echo hi\n"})

	cfg, err := Load(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "gpushrc.yml", cfg.Source)
	assert.Len(t, cfg.ParallelRun, 1)
}

func TestLoad_Errors(t *testing.T) {
	stubFs(t, map[string]string{"/repo/empty.yml": ""})

	_, err := Load(context.Background(), "/repo/missing.yml")
	require.ErrorIs(t, err, ErrConfigNotFound)

	_, err = Load(context.Background(), "/repo/empty.yml")
	require.ErrorIs(t, err, ErrEmptyConfig)
	assert.Contains(t, err.Error(), "/repo/empty.yml")

	_, err = Load(context.Background(), "")
	require.ErrorIs(t, err, ErrConfigNotFound)
}

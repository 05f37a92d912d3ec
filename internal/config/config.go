// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/go-getter/v2"
	"github.com/matt-FFFFFF/gpush/internal/command"
	"github.com/matt-FFFFFF/gpush/internal/ctxlog"
	"github.com/spf13/afero"
)

var (
	// ErrInvalidYaml is returned when the configuration cannot be decoded.
	ErrInvalidYaml = errors.New("invalid YAML")
	// ErrEmptyConfig is returned when the configuration file has no content.
	ErrEmptyConfig = errors.New("configuration file is empty")
	// ErrConfigNotFound is returned when no configuration file can be located.
	ErrConfigNotFound = errors.New("config file not found")
	// ErrUnknownDefinition is returned when parallel_run refers to a missing command definition.
	ErrUnknownDefinition = errors.New("command not found in command_definitions")
	// ErrInvalidDefinition is returned when a command definition is not a mapping.
	ErrInvalidDefinition = errors.New("command definition must be a mapping")
	// ErrDuplicateParallel is returned when both parallel_run and parallel_commands are set.
	ErrDuplicateParallel = errors.New("only one of parallel_run and parallel_commands may be set")
)

// DefaultFileNames are searched, in order, in the working directory.
var DefaultFileNames = []string{"gpushrc.yml", "gpushrc.yaml"}

// Phase names.
const (
	PhasePreRun         = "pre_run"
	PhaseParallelRun    = "parallel_run"
	PhasePostRun        = "post_run"
	PhasePostRunSuccess = "post_run_success"
	PhasePostRunFailure = "post_run_failure"
	// SectionFix is run by "gpush fix", never by the gate.
	SectionFix = "fix"
)

// definition is the file layout.
type definition struct {
	PreRun             []any          `yaml:"pre_run"`
	ParallelRun        []any          `yaml:"parallel_run"`
	ParallelCommands   []any          `yaml:"parallel_commands"`
	PostRun            []any          `yaml:"post_run"`
	PostRunSuccess     []any          `yaml:"post_run_success"`
	PostRunFailure     []any          `yaml:"post_run_failure"`
	CommandDefinitions map[string]any `yaml:"command_definitions"`
	SuccessEmoji       string         `yaml:"success_emoji"`
	Fix                *[]any         `yaml:"fix"`
}

// Config is a loaded configuration. String references in parallel_run have been expanded.
type Config struct {
	Source         string
	PreRun         []any
	ParallelRun    []any
	PostRun        []any
	PostRunSuccess []any
	PostRunFailure []any
	SuccessEmoji   string

	// Fix is nil when the file has no fix section, and empty when the section has no entries.
	Fix []any
}

// Phase is a named list of command specifications.
type Phase struct {
	Name     string
	Parallel bool
	Specs    []any
}

// Phases returns every phase in execution order, including empty ones.
func (c *Config) Phases() []Phase {
	return []Phase{
		{Name: PhasePreRun, Specs: c.PreRun},
		{Name: PhaseParallelRun, Parallel: true, Specs: c.ParallelRun},
		{Name: PhasePostRun, Specs: c.PostRun},
		{Name: PhasePostRunSuccess, Specs: c.PostRunSuccess},
		{Name: PhasePostRunFailure, Specs: c.PostRunFailure},
	}
}

// FindParallel returns the parallel_run specification whose name matches input.
// Names are compared after NormalizeName.
func (c *Config) FindParallel(input string) (any, bool) {
	want := NormalizeName(input)

	for _, raw := range c.ParallelRun {
		cmd, err := command.New(raw)
		if err != nil {
			continue
		}

		if NormalizeName(cmd.Name()) == want {
			return raw, true
		}
	}

	return nil, false
}

// NormalizeName lowercases s and removes whitespace, underscores and hyphens.
func NormalizeName(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '_' || r == '-' {
			return -1
		}

		return unicode.ToLower(r)
	}, s)
}

// Parse decodes YAML configuration data.
func Parse(data []byte) (*Config, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyConfig
	}

	var def definition
	if err := yaml.UnmarshalWithOptions(data, &def, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYaml, err)
	}

	parallel := def.ParallelRun

	if len(def.ParallelCommands) > 0 {
		if len(parallel) > 0 {
			return nil, ErrDuplicateParallel
		}

		parallel = def.ParallelCommands
	}

	expanded, err := expandReferences(parallel, def.CommandDefinitions)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		PreRun:         def.PreRun,
		ParallelRun:    expanded,
		PostRun:        def.PostRun,
		PostRunSuccess: def.PostRunSuccess,
		PostRunFailure: def.PostRunFailure,
		SuccessEmoji:   def.SuccessEmoji,
	}

	if def.Fix != nil {
		cfg.Fix = make([]any, 0, len(*def.Fix))
		cfg.Fix = append(cfg.Fix, *def.Fix...)
	}

	return cfg, nil
}

// expandReferences replaces string entries with the named definition, with "name" set to the reference.
func expandReferences(specs []any, defs map[string]any) ([]any, error) {
	out := make([]any, 0, len(specs))

	for _, s := range specs {
		ref, ok := s.(string)
		if !ok {
			out = append(out, s)
			continue
		}

		def, ok := defs[ref]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownDefinition, ref)
		}

		m, ok := def.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidDefinition, ref)
		}

		expanded := maps.Clone(m)
		expanded[command.KeyName] = ref
		out = append(out, expanded)
	}

	return out, nil
}

// Find returns the first of DefaultFileNames present in dir.
func Find(dir string) (string, error) {
	fs := FsFactory()

	for _, name := range DefaultFileNames {
		p := filepath.Join(dir, name)

		ok, err := afero.Exists(fs, p)
		if err != nil {
			return "", errors.Join(ErrConfigNotFound, err)
		}

		if ok {
			return p, nil
		}
	}

	return "", fmt.Errorf("%w (looking for %s in %s)", ErrConfigNotFound, strings.Join(DefaultFileNames, " or "), dir)
}

// Load reads and parses the configuration at location.
// An empty location searches the working directory for DefaultFileNames.
// A location that is not a local file is fetched with go-getter.
func Load(ctx context.Context, location string) (*Config, error) {
	logger := ctxlog.Logger(ctx)

	if location == "" {
		var err error
		if location, err = Find("."); err != nil {
			return nil, err
		}
	}

	data, err := read(ctx, location)
	if err != nil {
		return nil, err
	}

	logger.Debug("loaded configuration", "location", location, "bytes", len(data))

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}

	cfg.Source = location

	return cfg, nil
}

// read returns the content at location. Local files are read through FsFactory,
// anything else is downloaded with go-getter into a temporary directory.
func read(ctx context.Context, location string) ([]byte, error) {
	if location == "" {
		return nil, ErrGetConfigFile
	}

	fs := FsFactory()

	local, err := afero.Exists(fs, location)
	if err != nil {
		return nil, errors.Join(ErrGetConfigFile, err)
	}

	if local {
		data, err := afero.ReadFile(fs, location)
		if err != nil {
			return nil, errors.Join(ErrGetConfigFile, err)
		}

		return data, nil
	}

	if !isGetterURL(location) {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, location)
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Join(ErrGetConfigFile, err)
	}

	src, fileName, err := getterSource(location, wd)
	if err != nil {
		return nil, errors.Join(ErrGetConfigFile, err)
	}

	tmpDir, err := os.MkdirTemp("", "gpush-config-*")
	if err != nil {
		return nil, errors.Join(ErrGetConfigFile, err)
	}

	defer os.RemoveAll(tmpDir) //nolint:errcheck

	ctxlog.Debug(ctx, "fetching configuration", "source", src, "file", fileName)

	client := &getter.Client{DisableSymlinks: true}

	res, err := client.Get(ctx, &getter.Request{
		Src:     src,
		Dst:     filepath.Join(tmpDir, "src"),
		Pwd:     wd,
		GetMode: getter.ModeDir,
	})
	if err != nil {
		return nil, errors.Join(ErrGetConfigFile, err)
	}

	data, err := os.ReadFile(filepath.Join(res.Dst, fileName))
	if err != nil {
		return nil, errors.Join(ErrGetConfigFile, err)
	}

	return data, nil
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package command

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

var (
	// ErrConfiguration is wrapped by every ConfigurationError.
	ErrConfiguration = errors.New("invalid command configuration")
	// ErrAlreadyRun is returned when Run is called on a command that has already been started.
	ErrAlreadyRun = errors.New("command has already been run")
	// ErrCouldNotStartProcess is returned when the shell could not be started.
	ErrCouldNotStartProcess = errors.New("could not start process")
	// ErrInterrupted is returned when the context is cancelled while a process is running.
	ErrInterrupted = errors.New("interrupted")
)

// ConfigurationError describes a malformed command specification.
type ConfigurationError struct {
	Raw    any    // The specification as supplied
	Field  string // The offending key, empty when the problem is the specification as a whole
	Reason string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	subject := "command " + Describe(e.Raw)
	if e.Field != "" {
		subject = fmt.Sprintf("%q in command %s", e.Field, Describe(e.Raw))
	}

	return fmt.Sprintf("problem with %s: %s. Allowed keys for a command are: %s",
		subject, e.Reason, strings.Join(AllowedKeys, ", "))
}

// Unwrap returns ErrConfiguration so callers can use errors.Is.
func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

func newConfigError(raw any, field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Raw: raw, Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Describe renders a raw specification for messages. Map keys are sorted.
func Describe(raw any) string {
	m, ok := toStringMap(raw)
	if !ok {
		return fmt.Sprintf("%#v", raw)
	}

	keys := slices.Sorted(maps.Keys(m))
	parts := make([]string, 0, len(keys))

	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %#v", k, m[k]))
	}

	return "{" + strings.Join(parts, ", ") + "}"
}

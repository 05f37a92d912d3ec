// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package command

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Specification keys.
const (
	KeyShell = "shell"
	KeyEnv   = "env"
	KeyIf    = "if"
	KeyName  = "name"
)

// AllowedKeys lists every key a command specification may contain.
var AllowedKeys = []string{KeyShell, KeyEnv, KeyIf, KeyName}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Spec is the validated form of a command specification.
// The Has fields record which optional keys were present.
type Spec struct {
	Shell    string `validate:"required"`
	Name     string
	If       string
	Env      map[string]string
	HasShell bool
	HasName  bool
	HasIf    bool
	HasEnv   bool
}

// ParseSpec checks the shape of raw and converts it to a Spec.
// raw must be a mapping with string keys drawn from AllowedKeys.
// A missing "shell" is not an error here; it is reported when the command is run.
func ParseSpec(raw any) (Spec, error) {
	m, ok := toStringMap(raw)
	if !ok {
		return Spec{}, newConfigError(raw, "",
			`commands need to be a mapping with at least a "shell" line`)
	}

	var unknown []string

	for k := range m {
		if !slices.Contains(AllowedKeys, k) {
			unknown = append(unknown, k)
		}
	}

	if len(unknown) > 0 {
		slices.Sort(unknown)
		return Spec{}, newConfigError(raw, "", "unknown keys: %s", strings.Join(unknown, ", "))
	}

	var s Spec

	var err error

	if v, ok := m[KeyShell]; ok {
		s.HasShell = true
		if s.Shell, err = stringField(raw, KeyShell, v,
			"the shell line is run by the system shell, so it must be a string"); err != nil {
			return Spec{}, err
		}
	}

	if v, ok := m[KeyName]; ok {
		s.HasName = true
		if s.Name, err = stringField(raw, KeyName, v, "a name must be a string"); err != nil {
			return Spec{}, err
		}
	}

	if v, ok := m[KeyIf]; ok {
		s.HasIf = true
		if s.If, err = stringField(raw, KeyIf, v,
			`if you have an "if" clause, it must be a string which will be run in the shell`); err != nil {
			return Spec{}, err
		}
	}

	if v, ok := m[KeyEnv]; ok {
		s.HasEnv = true
		if s.Env, err = envField(raw, v); err != nil {
			return Spec{}, err
		}
	}

	return s, nil
}

// checkRunnable reports a ConfigurationError if the spec cannot be run.
func (s Spec) checkRunnable(raw any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.StructField() == "Shell" {
				return newConfigError(raw, KeyShell, `you need to have a non-empty field "shell" in your command`)
			}
		}
	}

	return newConfigError(raw, "", "%s", err.Error())
}

func stringField(raw any, key string, v any, explanation string) (string, error) {
	str, ok := v.(string)
	if !ok {
		return "", newConfigError(raw, key, "%#v needs to be of type string. %s", v, explanation)
	}

	return str, nil
}

func envField(raw any, v any) (map[string]string, error) {
	m, ok := toStringMap(v)
	if !ok {
		return nil, newConfigError(raw, KeyEnv,
			"%#v needs to be a mapping. An optional env section must have a mapping of variable names and values", v)
	}

	env := make(map[string]string, len(m))

	for k, val := range m {
		if k == "" || strings.ContainsAny(k, "=\x00") {
			return nil, newConfigError(raw, KeyEnv, "%q is not a valid environment variable name", k)
		}

		switch tv := val.(type) {
		case nil:
			env[k] = ""
		case string:
			env[k] = tv
		case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
			env[k] = fmt.Sprint(tv)
		default:
			return nil, newConfigError(raw, KeyEnv, "the value of %s must be a scalar, got %#v", k, val)
		}
	}

	return env, nil
}

// toStringMap accepts the mapping shapes produced by YAML and JSON decoders.
func toStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, val := range maps.All(m) {
			out[k] = val
		}

		return out, true
	case map[any]any:
		out := make(map[string]any, len(m))

		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}

			out[ks] = val
		}

		return out, true
	default:
		return nil, false
	}
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package show implements "gpush show", which lists the configured phases.
package show

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/matt-FFFFFF/gpush/cmd/gpush/cmdstate"
	"github.com/matt-FFFFFF/gpush/internal/command"
	"github.com/matt-FFFFFF/gpush/internal/config"
	"github.com/matt-FFFFFF/gpush/internal/ctxlog"
	"github.com/urfave/cli/v3"
)

// ErrWriteConfig is returned when the listing cannot be written.
var ErrWriteConfig = errors.New("failed to write configuration")

// ShowCmd prints the phases of the configuration and the commands in each.
var ShowCmd = &cli.Command{
	Name:        "show",
	Usage:       "Show the commands gpush would run",
	Description: "Show the config file in use and the commands in each phase, in the order they run.",
	Action: func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := cmdstate.LoadConfig(ctx, cmd)
		if err != nil {
			ctxlog.Error(ctx, fmt.Sprintf("Failed to load config: %s", err.Error()))
			return cli.Exit(cmdstate.CliExitStr, 1)
		}

		if err := Write(cmd.Root().Writer, cfg); err != nil {
			return errors.Join(ErrWriteConfig, err)
		}

		return nil
	},
}

// Write lists cfg's phases to w. Empty phases are omitted and malformed commands are marked.
func Write(w io.Writer, cfg *config.Config) error {
	if _, err := fmt.Fprintf(w, "Using config file: %s\n", cfg.Source); err != nil {
		return err //nolint:wrapcheck
	}

	phases := append(cfg.Phases(), config.Phase{Name: config.SectionFix, Specs: cfg.Fix})

	for _, phase := range phases {
		if err := writePhase(w, phase); err != nil {
			return err
		}
	}

	return nil
}

func writePhase(w io.Writer, phase config.Phase) error {
	if len(phase.Specs) == 0 {
		return nil
	}

	mode := "in order"
	if phase.Parallel {
		mode = "in parallel"
	}

	if _, err := fmt.Fprintf(w, "\n%s (%s):\n", phase.Name, mode); err != nil {
		return err //nolint:wrapcheck
	}

	for _, raw := range phase.Specs {
		if _, err := fmt.Fprintf(w, "  - %s\n", describe(raw)); err != nil {
			return err //nolint:wrapcheck
		}
	}

	return nil
}

func describe(raw any) string {
	c, err := command.New(raw)
	if err != nil {
		return "(invalid) " + command.Describe(raw)
	}

	spec := c.Spec()
	if spec.HasName && spec.HasShell && spec.Name != spec.Shell {
		return fmt.Sprintf("%s (`%s`)", spec.Name, spec.Shell)
	}

	return c.Name()
}

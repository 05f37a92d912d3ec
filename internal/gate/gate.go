// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package gate

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/matt-FFFFFF/gpush/internal/color"
	"github.com/matt-FFFFFF/gpush/internal/config"
	"github.com/matt-FFFFFF/gpush/internal/ctxlog"
	"github.com/matt-FFFFFF/gpush/internal/runner"
)

const defaultSuccessEmoji = "🌺"

var (
	// ErrPhaseFailed is returned when a sequential phase stops at a failing command.
	ErrPhaseFailed = errors.New("phase failed")
	// ErrChecksFailed is returned when one or more parallel_run commands failed.
	ErrChecksFailed = errors.New("checks failed")
)

// DefaultPush is the command run after every phase has passed.
var DefaultPush = []any{map[string]any{"shell": "git push", "name": "git push"}}

// Gate runs a configuration's phases with a runner.
type Gate struct {
	runner *runner.Runner
	out    io.Writer
	dryRun bool
	push   []any
}

// Option configures a Gate.
type Option func(*Gate)

// WithDryRun runs every phase but does not push.
func WithDryRun(v bool) Option {
	return func(g *Gate) {
		g.dryRun = v
	}
}

// WithPush replaces DefaultPush.
func WithPush(specs []any) Option {
	return func(g *Gate) {
		g.push = specs
	}
}

// New creates a Gate. Messages are written to out, which should be the runner's writer.
func New(r *runner.Runner, out io.Writer, opts ...Option) *Gate {
	g := &Gate{
		runner: r,
		out:    out,
		push:   DefaultPush,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Run executes pre_run, parallel_run and post_run, then post_run_success or post_run_failure,
// and finally pushes unless this is a dry run or a check failed.
func (g *Gate) Run(ctx context.Context, cfg *config.Config) error {
	logger := ctxlog.Logger(ctx)

	if g.dryRun {
		g.println("Starting dry run")
	}

	if err := g.sequential(ctx, "pre-run", cfg.PreRun); err != nil {
		return err
	}

	failures, err := g.runner.RunInParallel(ctx, cfg.ParallelRun)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.Join(ErrPhaseFailed, err, ctxErr)
	}

	if err != nil {
		logger.Error("parallel_run reported errors", "error", err)
	}

	if err := g.sequential(ctx, "post-run", cfg.PostRun); err != nil {
		return err
	}

	if failures > 0 {
		if err := g.sequential(ctx, "post-run failure", cfg.PostRunFailure); err != nil {
			return err
		}

		g.println("Exiting gpush.")

		return fmt.Errorf("%w: %d of %d commands failed", ErrChecksFailed, failures, len(cfg.ParallelRun))
	}

	if err := g.sequential(ctx, "post-run success", cfg.PostRunSuccess); err != nil {
		return err
	}

	if g.dryRun {
		g.println("《 Dry run completed 》")
		return nil
	}

	if err := g.runner.RunAll(ctx, g.push); err != nil {
		return fmt.Errorf("%w: push: %w", ErrPhaseFailed, err)
	}

	emoji := cfg.SuccessEmoji
	if emoji == "" {
		emoji = defaultSuccessEmoji
	}

	g.println(fmt.Sprintf("《 %s 》 Good job! You're doing great.", emoji))

	return nil
}

// sequential runs one ordered phase, announcing it by title.
func (g *Gate) sequential(ctx context.Context, title string, specs []any) error {
	if len(specs) == 0 {
		return nil
	}

	g.println("\nRunning " + title + "...")

	if err := g.runner.RunAll(ctx, specs); err != nil {
		var batchErr *runner.BatchError
		if errors.As(err, &batchErr) {
			g.println(color.Colorize(fmt.Sprintf("%s command failed - %s", title, batchErr.Name), color.FgRed))
			g.println("Halting further execution and exiting gpush")
		}

		return fmt.Errorf("%w: %s: %w", ErrPhaseFailed, title, err)
	}

	g.println(title + " DONE")

	return nil
}

func (g *Gate) println(s string) {
	fmt.Fprintln(g.out, s) //nolint:errcheck
}

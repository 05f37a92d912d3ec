// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runner

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/matt-FFFFFF/gpush/internal/command"
	"github.com/matt-FFFFFF/gpush/internal/ctxlog"
	"github.com/matt-FFFFFF/gpush/internal/status"
	"github.com/matt-FFFFFF/gpush/internal/teewriter"
)

// DefaultInterval is how often the status block is rendered while a parallel batch runs.
const DefaultInterval = 5 * time.Second

// Runner executes batches of command specifications.
type Runner struct {
	out       *teewriter.SyncWriter
	formatter status.Formatter
	interval  time.Duration
	verbose   bool
	stdin     io.Reader
	cmdOpts   []command.Option
}

// Option configures a Runner.
type Option func(*Runner)

// WithWriter sets where command output and status blocks are written. The default is os.Stdout.
func WithWriter(w io.Writer) Option {
	return func(r *Runner) {
		r.out = teewriter.NewSyncWriter(w)
	}
}

// WithFormatter sets how each status line is rendered.
func WithFormatter(f status.Formatter) Option {
	return func(r *Runner) {
		r.formatter = f
	}
}

// WithInterval sets the render interval of parallel batches. Values <= 0 are ignored.
func WithInterval(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithVerbose streams the output of parallel commands as it is produced, each line
// prefixed with the command name. Otherwise output is captured and only shown for failures.
func WithVerbose(v bool) Option {
	return func(r *Runner) {
		r.verbose = v
	}
}

// WithStdin connects the standard input of commands run by RunAll. Parallel commands never get one.
func WithStdin(in io.Reader) Option {
	return func(r *Runner) {
		r.stdin = in
	}
}

// WithCommandOptions adds options applied to every command the runner constructs.
func WithCommandOptions(opts ...command.Option) Option {
	return func(r *Runner) {
		r.cmdOpts = append(r.cmdOpts, opts...)
	}
}

// New creates a Runner.
func New(opts ...Option) *Runner {
	r := &Runner{
		out:       teewriter.NewSyncWriter(os.Stdout),
		formatter: status.Text{},
		interval:  DefaultInterval,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// RunAll runs specs in order and stops at the first command whose main line exits non-zero,
// returning a *BatchError. Skipped commands do not stop the batch.
// A ConfigurationError, or cancellation of ctx, also stops the batch and is returned as is.
func (r *Runner) RunAll(ctx context.Context, specs []any) error {
	ctx = withBatchLogger(ctx)
	ctxlog.Debug(ctx, "running sequential batch", "commands", len(specs))

	for i, raw := range specs {
		if err := ctx.Err(); err != nil {
			return errors.Join(command.ErrInterrupted, err)
		}

		opts := r.commandOptions(i, r.out, r.out)
		if r.stdin != nil {
			opts = append(opts, command.WithStdin(r.stdin))
		}

		c, err := command.New(raw, opts...)
		if err != nil {
			return err //nolint:wrapcheck
		}

		res, err := c.Run(ctx)

		switch {
		case errors.Is(err, command.ErrConfiguration), errors.Is(err, command.ErrInterrupted):
			return err //nolint:wrapcheck
		case err != nil:
			return &BatchError{Name: c.Name(), ExitCode: res.ExitCode, Err: err}
		case res.Status == command.StatusFail:
			return &BatchError{Name: c.Name(), ExitCode: res.ExitCode}
		}
	}

	return nil
}

func (r *Runner) commandOptions(index int, stdout, stderr io.Writer, extra ...command.Option) []command.Option {
	opts := make([]command.Option, 0, len(r.cmdOpts)+len(extra)+2)
	opts = append(opts, r.cmdOpts...)
	opts = append(opts, command.WithIndex(index), command.WithOutput(stdout, stderr))

	return append(opts, extra...)
}

func withBatchLogger(ctx context.Context) context.Context {
	return ctxlog.New(ctx, ctxlog.Logger(ctx).With("batch", uuid.NewString()))
}

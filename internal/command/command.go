// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/matt-FFFFFF/gpush/internal/color"
	"github.com/matt-FFFFFF/gpush/internal/ctxlog"
	"github.com/matt-FFFFFF/gpush/internal/progress"
)

// waitDelay bounds how long Run waits for output pipes after the process has exited or been killed.
const waitDelay = 5 * time.Second

// Result is what Run returns.
type Result struct {
	Status     Status
	ExitCode   int // Exit code of the main line, -1 if it did not run to completion
	IfExitCode int // Exit code of the precondition, -1 if there was none
}

// Skipped reports whether the precondition prevented the main line from running.
func (r Result) Skipped() bool {
	return r.Status == StatusSkipped
}

// Snapshot is a point-in-time copy of a command's state.
type Snapshot struct {
	Index      int
	Name       string
	Status     Status
	IfExitCode *int // nil until the precondition has finished
	ExitCode   *int // nil until the main line has finished
	Elapsed    time.Duration
	LastLine   string // Filled in by callers that capture output
	Err        error  // Why the last Run failed without an exit code
}

// Command is a single shell line with an optional precondition and environment overrides.
type Command struct {
	raw      any
	spec     Spec
	index    int
	shell    string
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	environ  func() []string
	reporter progress.Reporter

	mu         sync.RWMutex
	status     Status
	ifResult   *int
	runResult  *int
	startedAt  time.Time
	finishedAt time.Time
	runErr     error
}

// Option configures a Command.
type Option func(*Command)

// WithOutput sets where the command's own messages and its children's output are written.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(c *Command) {
		c.stdout = stdout
		c.stderr = stderr
	}
}

// WithStdin connects the children's standard input. By default it is the null device.
func WithStdin(r io.Reader) Option {
	return func(c *Command) {
		c.stdin = r
	}
}

// WithReporter sets the receiver of lifecycle events.
func WithReporter(r progress.Reporter) Option {
	return func(c *Command) {
		c.reporter = r
	}
}

// WithIndex sets the position reported in events and snapshots.
func WithIndex(i int) Option {
	return func(c *Command) {
		c.index = i
	}
}

// WithShell overrides the interpreter returned by DefaultShell.
func WithShell(path string) Option {
	return func(c *Command) {
		c.shell = path
	}
}

// WithEnviron replaces os.Environ as the source of the inherited environment.
func WithEnviron(fn func() []string) Option {
	return func(c *Command) {
		c.environ = fn
	}
}

// New validates raw and returns a Command in StatusNotStarted. Nothing is executed.
func New(raw any, opts ...Option) (*Command, error) {
	spec, err := ParseSpec(raw)
	if err != nil {
		return nil, err
	}

	c := &Command{
		raw:      raw,
		spec:     spec,
		index:    -1,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		reporter: progress.NewNullReporter(),
		status:   StatusNotStarted,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.shell == "" {
		c.shell = DefaultShell()
	}

	return c, nil
}

// Name returns the "name" key, else the shell line, else a rendering of the specification.
func (c *Command) Name() string {
	switch {
	case c.spec.HasName:
		return c.spec.Name
	case c.spec.HasShell:
		return c.spec.Shell
	default:
		return Describe(c.raw)
	}
}

// Spec returns the validated specification.
func (c *Command) Spec() Spec {
	return c.spec
}

// Status returns the current lifecycle status.
func (c *Command) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.status
}

// Snapshot returns a copy of the command's current state.
func (c *Command) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		Index:      c.index,
		Name:       c.Name(),
		Status:     c.status,
		IfExitCode: copyInt(c.ifResult),
		ExitCode:   copyInt(c.runResult),
		Err:        c.runErr,
	}

	switch {
	case c.startedAt.IsZero():
	case c.finishedAt.IsZero():
		s.Elapsed = time.Since(c.startedAt)
	default:
		s.Elapsed = c.finishedAt.Sub(c.startedAt)
	}

	return s
}

// Run executes the command and blocks until it has finished or been skipped.
//
// A ConfigurationError is returned, without changing status, if the specification has no shell line.
// Otherwise the returned error is nil unless a process could not be started or ctx was
// cancelled, in which case the status is StatusFail. A non-zero exit is reported only
// through the Result and StatusFail.
func (c *Command) Run(ctx context.Context) (Result, error) {
	res := Result{Status: c.Status(), ExitCode: -1, IfExitCode: -1}

	if err := c.spec.checkRunnable(c.raw); err != nil {
		c.setErr(err)
		return res, err
	}

	logger := ctxlog.Logger(ctx).With("command", c.Name())

	c.mu.Lock()
	if c.status != StatusNotStarted {
		c.mu.Unlock()
		return res, ErrAlreadyRun
	}

	c.startedAt = time.Now()
	c.mu.Unlock()

	c.transition(ctx, StatusChecking, -1)

	if c.spec.HasIf {
		logger.Debug("running if clause", "if", c.spec.If)

		code, err := c.exec(ctx, c.spec.If, nil)
		res.IfExitCode = code

		c.mu.Lock()
		c.ifResult = &code
		c.mu.Unlock()

		if err != nil {
			logger.Debug("if clause did not complete", "error", err)
			c.setErr(err)
			c.transition(ctx, StatusFail, code)
			res.Status = StatusFail

			return res, err
		}

		if code != 0 {
			fmt.Fprintf(c.stdout, "gpush: skipping %s because if clause returned %d. Expected 0.\n", //nolint:errcheck
				c.Name(), code)
			c.transition(ctx, StatusSkipped, code)
			res.Status = StatusSkipped

			return res, nil
		}
	}

	c.transition(ctx, StatusWorking, -1)
	fmt.Fprintf(c.stdout, "\n%s %s\n", color.Colorize("gpush run:", color.FgCyan), c.Name()) //nolint:errcheck

	var overrides map[string]string
	if c.spec.HasEnv {
		overrides = c.spec.Env
	}

	code, err := c.exec(ctx, c.spec.Shell, overrides)
	res.ExitCode = code

	c.mu.Lock()
	c.runResult = &code
	c.runErr = err
	c.mu.Unlock()

	res.Status = StatusFail
	if err == nil && code == 0 {
		res.Status = StatusSuccess
	}

	c.transition(ctx, res.Status, code)
	logger.Debug("command finished", "status", res.Status.String(), "exitCode", code)

	return res, err
}

func (c *Command) setErr(err error) {
	c.mu.Lock()
	c.runErr = err
	c.mu.Unlock()
}

func (c *Command) transition(ctx context.Context, to Status, exitCode int) {
	c.mu.Lock()
	from := c.status

	if !canTransition(from, to) {
		c.mu.Unlock()
		ctxlog.Error(ctx, "invalid status transition", "command", c.Name(), "from", from.String(), "to", to.String())

		return
	}

	c.status = to
	if to.IsTerminal() {
		c.finishedAt = time.Now()
	}
	c.mu.Unlock()

	ctxlog.Debug(ctx, "status transition", "command", c.Name(), "from", from.String(), "to", to.String())

	c.reporter.Report(progress.Event{
		Index:     c.index,
		Name:      c.Name(),
		Type:      eventType(to),
		ExitCode:  exitCode,
		Timestamp: time.Now(),
	})
}

// exec runs line through the shell and returns its exit code.
// The error is non-nil only if the process could not be started or ctx was cancelled.
func (c *Command) exec(ctx context.Context, line string, overrides map[string]string) (int, error) {
	logger := ctxlog.Logger(ctx)

	cmd := exec.CommandContext(ctx, c.shell, shellArgs(c.shell, line)...)
	cmd.Stdin = c.stdin
	cmd.Stdout = c.stdout
	cmd.Stderr = c.stderr
	cmd.WaitDelay = waitDelay

	switch {
	case overrides != nil:
		cmd.Env = mergeEnv(c.inheritedEnv(), overrides)

		for k := range overrides {
			logger.Debug("overriding environment variable", "key", k)
		}
	case c.environ != nil:
		cmd.Env = c.environ()
	}

	configureProcessGroup(cmd)

	err := cmd.Run()

	if ctx.Err() != nil {
		return -1, errors.Join(ErrInterrupted, ctx.Err())
	}

	var exitErr *exec.ExitError

	switch {
	case err == nil:
		return 0, nil
	case errors.As(err, &exitErr):
		return exitErr.ExitCode(), nil
	case errors.Is(err, exec.ErrWaitDelay) && cmd.ProcessState != nil:
		// a grandchild kept the output open after the shell exited
		logger.Debug("output still open after process exit", "error", err)
		return cmd.ProcessState.ExitCode(), nil
	default:
		return -1, errors.Join(ErrCouldNotStartProcess, err)
	}
}

func (c *Command) inheritedEnv() []string {
	if c.environ != nil {
		return c.environ()
	}

	return os.Environ()
}

func eventType(s Status) progress.EventType {
	switch s {
	case StatusChecking:
		return progress.EventChecking
	case StatusWorking:
		return progress.EventWorking
	case StatusSuccess:
		return progress.EventCompleted
	case StatusSkipped:
		return progress.EventSkipped
	default:
		return progress.EventFailed
	}
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}

	v := *p

	return &v
}

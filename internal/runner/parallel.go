// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/gpush/internal/color"
	"github.com/matt-FFFFFF/gpush/internal/command"
	"github.com/matt-FFFFFF/gpush/internal/ctxlog"
	"github.com/matt-FFFFFF/gpush/internal/progress"
	"github.com/matt-FFFFFF/gpush/internal/status"
	"github.com/matt-FFFFFF/gpush/internal/teewriter"
)

const (
	// eventsPerCommand is the most lifecycle events a single command reports.
	eventsPerCommand = 3

	summaryOK     = "《 No errors detected 》"
	summaryFailed = "《 Errors detected 》"
)

var newTicker = time.NewTicker

// job is one command of a parallel batch together with where its output goes.
// It is the io.Writer handed to the command, so the destination can be chosen
// after the command, and therefore its name, exists.
type job struct {
	cmd     *command.Command
	sink    io.Writer
	capture *teewriter.LastLineWriter
	prefix  *teewriter.PrefixWriter
	res     command.Result
	err     error
}

func (j *job) Write(p []byte) (int, error) {
	return j.sink.Write(p) //nolint:wrapcheck
}

func (j *job) failed() bool {
	return j.err != nil || j.res.Status == command.StatusFail
}

func (j *job) snapshot() command.Snapshot {
	s := j.cmd.Snapshot()
	if j.capture != nil {
		s.LastLine = j.capture.LastLine(0)
	}

	return s
}

// RunInParallel constructs a command for every spec, starts them all at once and waits for
// every one to finish. It returns the number of commands that failed; skipped commands do not count.
//
// If any spec is malformed nothing is started and the number of malformed specs is returned
// together with the aggregated configuration errors.
// If ctx is cancelled the running commands are killed and the batch counts as a single failure.
func (r *Runner) RunInParallel(ctx context.Context, specs []any) (int, error) {
	ctx = withBatchLogger(ctx)
	logger := ctxlog.Logger(ctx)

	if len(specs) == 0 {
		return 0, nil
	}

	reporter := progress.NewChannelReporter(len(specs)*eventsPerCommand + 1)
	defer reporter.Close()

	jobs, err := r.buildJobs(specs, reporter)
	if err != nil {
		return len(err.Errors), err.ErrorOrNil()
	}

	logger.Info("starting parallel batch", "commands", len(jobs))

	var wg sync.WaitGroup

	for _, j := range jobs {
		wg.Add(1)

		go func() {
			defer wg.Done()

			j.res, j.err = j.cmd.Run(ctx)
		}()
	}

	done := make(chan struct{})

	go func() {
		wg.Wait()
		close(done)
	}()

	interrupted := r.monitor(ctx, jobs, reporter.Events(), done)
	if interrupted {
		fmt.Fprintln(r.out, color.Colorize("gpush: interrupted, stopping commands...", color.FgYellow)) //nolint:errcheck
	}

	<-done

	for _, j := range jobs {
		if j.prefix != nil {
			j.prefix.Flush() //nolint:errcheck
		}
	}

	if interrupted || anyInterrupted(jobs) {
		logger.Warn("parallel batch interrupted")
		return 1, errors.Join(command.ErrInterrupted, context.Cause(ctx))
	}

	r.render(jobs)

	var (
		failures int
		runErrs  *multierror.Error
	)

	for _, j := range jobs {
		if !j.failed() {
			continue
		}

		failures++

		if j.err != nil {
			runErrs = multierror.Append(runErrs, j.err)
		}
	}

	r.summarise(jobs, failures)
	logger.Info("parallel batch finished", "failures", failures)

	return failures, runErrs.ErrorOrNil()
}

func (r *Runner) buildJobs(specs []any, reporter progress.Reporter) ([]*job, *multierror.Error) {
	var cfgErrs *multierror.Error

	jobs := make([]*job, 0, len(specs))

	for i, raw := range specs {
		j := &job{}

		c, err := command.New(raw, r.commandOptions(i, j, j, command.WithReporter(reporter))...)
		if err != nil {
			cfgErrs = multierror.Append(cfgErrs, err)
			continue
		}

		j.cmd = c

		if r.verbose {
			j.prefix = teewriter.NewPrefixWriter(r.out, color.Colorize("["+c.Name()+"]", color.FgCyan)+" ")
			j.sink = j.prefix
		} else {
			j.capture = teewriter.NewLastLineWriter()
			j.sink = j.capture
		}

		jobs = append(jobs, j)
	}

	return jobs, cfgErrs
}

// monitor renders the status block on every tick and whenever a command finishes.
// It returns true if ctx was cancelled before every command finished.
func (r *Runner) monitor(ctx context.Context, jobs []*job, events <-chan progress.Event, done <-chan struct{}) bool {
	ticker := newTicker(r.interval)
	defer ticker.Stop()

	r.render(jobs)

	for {
		select {
		case <-done:
			return false
		case <-ctx.Done():
			return true
		case ev := <-events:
			ctxlog.Debug(ctx, "progress event", "command", ev.Name, "event", ev.Type.String(), "exitCode", ev.ExitCode)

			if ev.Type.Terminal() {
				r.render(jobs)
			}
		case <-ticker.C:
			r.render(jobs)
		}
	}
}

func (r *Runner) render(jobs []*job) {
	snaps := make([]command.Snapshot, len(jobs))
	for i, j := range jobs {
		snaps[i] = j.snapshot()
	}

	io.WriteString(r.out, "\n"+status.Block(r.formatter, snaps)) //nolint:errcheck
}

func (r *Runner) summarise(jobs []*job, failures int) {
	if failures == 0 {
		fmt.Fprintf(r.out, "\n%s\n", color.Colorize(summaryOK, color.FgGreen)) //nolint:errcheck
		return
	}

	if !r.verbose {
		for _, j := range jobs {
			if !j.failed() || j.capture == nil {
				continue
			}

			fmt.Fprintf(r.out, "\n%s\n", color.Colorize("==== output of "+j.cmd.Name()+" ====", color.FgRed)) //nolint:errcheck
			r.out.Write(j.capture.Bytes())                                                                    //nolint:errcheck

			if j.capture.Truncated() {
				fmt.Fprintln(r.out, color.Colorize("(output truncated)", color.Faint)) //nolint:errcheck
			}

			if j.err != nil {
				fmt.Fprintln(r.out, color.Colorize(j.err.Error(), color.FgRed)) //nolint:errcheck
			}
		}
	}

	fmt.Fprintf(r.out, "\n%s\n", color.Colorize(summaryFailed, color.FgRed)) //nolint:errcheck
}

func anyInterrupted(jobs []*job) bool {
	for _, j := range jobs {
		if errors.Is(j.err, command.ErrInterrupted) {
			return true
		}
	}

	return false
}

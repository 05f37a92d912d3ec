// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the gpush command-line interface (CLI).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/gpush"
	"github.com/matt-FFFFFF/gpush/cmd/gpush/cmdstate"
	"github.com/matt-FFFFFF/gpush/cmd/gpush/fix"
	"github.com/matt-FFFFFF/gpush/cmd/gpush/run"
	"github.com/matt-FFFFFF/gpush/cmd/gpush/show"
	"github.com/matt-FFFFFF/gpush/internal/ctxlog"
	"github.com/matt-FFFFFF/gpush/internal/signalbroker"
	"github.com/urfave/cli/v3"
)

// rootCmd is the root command for the CLI.
var rootCmd = &cli.Command{
	Commands: []*cli.Command{
		run.RunCmd,
		fix.FixCmd,
		show.ShowCmd,
	},
	Writer:    os.Stdout,
	ErrWriter: os.Stderr,
	Name:      "gpush",
	Usage:     "run tests and linters before pushing",
	Description: `gpush runs the commands in gpushrc.yml before git push.
pre_run commands run in order, parallel_run commands run at the same time,
then post_run and post_run_success or post_run_failure. If every command
passes, gpush runs git push.`,
	Flags:     append(cmdstate.Flags(), dryRunFlagDef),
	Action:    actionFunc,
	Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
	Authors: []any{
		"Matt White (matt-FFFFFF)",
	},
	EnableShellCompletion: true,
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)

	defer cancel()

	sigCh := signalbroker.New(ctx)
	defer signalbroker.Stop(sigCh)

	go signalbroker.Watch(ctx, sigCh, cancel, os.Stderr)

	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", gpush.Version, gpush.Commit)

	err := rootCmd.Run(ctx, os.Args) // Err is handled by cli framework

	if ctx.Err() != nil {
		ctxlog.Logger(ctx).Error("command terminated due to cancellation", "error", ctx.Err())
		os.Exit(1) //nolint:gocritic
	}

	if err != nil {
		ctxlog.Logger(ctx).Error("command execution failed", "error", err)
		os.Exit(1)
	}

	ctxlog.Logger(ctx).Info("command completed successfully")
}

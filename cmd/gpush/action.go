// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/matt-FFFFFF/gpush/cmd/gpush/cmdstate"
	"github.com/matt-FFFFFF/gpush/internal/ctxlog"
	"github.com/matt-FFFFFF/gpush/internal/gate"
	"github.com/urfave/cli/v3"
)

const dryRunFlag = "dry-run"

var dryRunFlagDef = &cli.BoolFlag{
	Name:  dryRunFlag,
	Usage: "Run every phase but do not push",
}

// ErrUnexpectedArgs is returned when the root command is given positional arguments.
var ErrUnexpectedArgs = errors.New("unexpected argument(s)")

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)
	logger.Debug("running gate")

	if cmd.Args().Present() {
		logger.Error(fmt.Sprintf("%s: %s. Run 'gpush --help' for usage information.",
			ErrUnexpectedArgs, strings.Join(cmd.Args().Slice(), " ")))

		return cli.Exit(cmdstate.CliExitStr, 1)
	}

	cfg, err := cmdstate.LoadConfig(ctx, cmd)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to load config: %s", err.Error()))
		return cli.Exit(cmdstate.CliExitStr, 1)
	}

	r := cmdstate.NewRunner(cmd, cmd.Writer)
	g := gate.New(r, cmd.Writer, gate.WithDryRun(cmd.Bool(dryRunFlag)))

	if err := g.Run(ctx, cfg); err != nil {
		logger.Error(err.Error())
		return cli.Exit(cmdstate.CliExitStr, 1)
	}

	return nil
}

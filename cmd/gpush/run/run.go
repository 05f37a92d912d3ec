// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package run implements "gpush run", which runs a single parallel_run command in the foreground.
package run

import (
	"context"
	"fmt"
	"strings"

	"github.com/matt-FFFFFF/gpush/cmd/gpush/cmdstate"
	"github.com/matt-FFFFFF/gpush/internal/color"
	"github.com/matt-FFFFFF/gpush/internal/command"
	"github.com/matt-FFFFFF/gpush/internal/ctxlog"
	"github.com/matt-FFFFFF/gpush/internal/status"
	"github.com/urfave/cli/v3"
)

// RunCmd runs one command from the parallel_run phase.
var RunCmd = &cli.Command{
	Name:      "run",
	Usage:     "Run one parallel_run command by name",
	ArgsUsage: "NAME...",
	Description: `Run a single command from the parallel_run section of the config file,
showing its output as it runs. The name is matched ignoring case, spaces,
underscores and hyphens, so "gpush run unit tests" finds a command named Unit_Tests.`,
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)
	out := cmd.Root().Writer

	if !cmd.Args().Present() {
		fmt.Fprintln(out, "Enter a command to run (e.g., gpush run test_name)") //nolint:errcheck
		return cli.Exit(cmdstate.CliExitStr, 1)
	}

	input := strings.Join(cmd.Args().Slice(), " ")

	cfg, err := cmdstate.LoadConfig(ctx, cmd)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to load config: %s", err.Error()))
		return cli.Exit(cmdstate.CliExitStr, 1)
	}

	raw, ok := cfg.FindParallel(input)
	if !ok {
		fmt.Fprintf(out, "Command not found: %s\n", input)                                                 //nolint:errcheck
		fmt.Fprintln(out, "gpush run looks for a command in the parallel_run section of the config file.") //nolint:errcheck

		return cli.Exit(cmdstate.CliExitStr, 1)
	}

	c, err := command.New(raw, command.WithOutput(out, cmd.Root().ErrWriter), command.WithStdin(cmd.Root().Reader))
	if err != nil {
		logger.Error(err.Error())
		return cli.Exit(cmdstate.CliExitStr, 1)
	}

	fmt.Fprintln(out, color.Colorize("========== Running command: "+c.Name()+" ==========", color.Bold)) //nolint:errcheck

	res, err := c.Run(ctx)
	if err != nil {
		logger.Error(err.Error())
		return cli.Exit(cmdstate.CliExitStr, 1)
	}

	var formatter status.Formatter = status.Text{}
	if cmd.Bool(cmdstate.JSONStatusFlag) {
		formatter = status.JSON{}
	}

	fmt.Fprintf(out, "\n%s\n", formatter.Format(c.Snapshot())) //nolint:errcheck

	if res.Status == command.StatusFail {
		return cli.Exit(cmdstate.CliExitStr, 1)
	}

	return nil
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package fix implements "gpush fix", which runs the fix section of the config file.
package fix

import (
	"context"
	"fmt"
	"strings"

	"github.com/matt-FFFFFF/gpush/cmd/gpush/cmdstate"
	"github.com/matt-FFFFFF/gpush/internal/ctxlog"
	"github.com/urfave/cli/v3"
)

const (
	noFixSectionMsg    = "No fix section found in config file"
	emptyFixSectionMsg = "Fix section is empty"
)

// FixCmd runs the fix section in order.
var FixCmd = &cli.Command{
	Name:  "fix",
	Usage: "Run the commands in the fix section of the config file",
	Description: `Run each command in the fix section of the config file in order,
showing its output as it runs. gpush fix stops at the first command that fails.`,
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)
	out := cmd.Root().Writer

	if cmd.Args().Present() {
		fmt.Fprintf(out, "Unexpected argument(s): %s\n", strings.Join(cmd.Args().Slice(), ", ")) //nolint:errcheck
		fmt.Fprintln(out, "gpush fix does not accept any arguments.")                            //nolint:errcheck
		fmt.Fprintln(out, "Run 'gpush --help' for usage information.")                           //nolint:errcheck

		return cli.Exit(cmdstate.CliExitStr, 1)
	}

	cfg, err := cmdstate.LoadConfig(ctx, cmd)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to load config: %s", err.Error()))
		return cli.Exit(cmdstate.CliExitStr, 1)
	}

	switch {
	case cfg.Fix == nil:
		fmt.Fprintln(out, noFixSectionMsg) //nolint:errcheck
		return cli.Exit(cmdstate.CliExitStr, 1)
	case len(cfg.Fix) == 0:
		fmt.Fprintln(out, emptyFixSectionMsg) //nolint:errcheck
		return cli.Exit(cmdstate.CliExitStr, 1)
	}

	r := cmdstate.NewRunner(cmd, out)

	if err := r.RunAll(ctx, cfg.Fix); err != nil {
		logger.Error(err.Error())
		return cli.Exit(cmdstate.CliExitStr, 1)
	}

	return nil
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmdstate holds the flags shared by the root command and its subcommands,
// and builds the runner and configuration they describe.
package cmdstate

import (
	"context"
	"io"
	"os"

	"github.com/matt-FFFFFF/gpush/internal/color"
	"github.com/matt-FFFFFF/gpush/internal/config"
	"github.com/matt-FFFFFF/gpush/internal/runner"
	"github.com/matt-FFFFFF/gpush/internal/status"
	"github.com/urfave/cli/v3"
)

// Flag names.
const (
	ConfigFileFlag = "config-file"
	VerboseFlag    = "verbose"
	IntervalFlag   = "interval"
	JSONStatusFlag = "json-status"
	NoColorFlag    = "no-color"
)

// CliExitStr is the message passed to cli.Exit once the error has already been logged.
const CliExitStr = ""

// Flags returns the flags understood by every gpush command.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name: ConfigFileFlag,
			Usage: "Use this config file instead of gpushrc.yml or gpushrc.yaml in the working directory. " +
				"Supports Hashicorp's go-getter syntax for fetching files from other sources.",
			TakesFile: true,
		},
		&cli.BoolFlag{
			Name:    VerboseFlag,
			Aliases: []string{"v"},
			Usage:   "Print command output while running",
		},
		&cli.DurationFlag{
			Name:  IntervalFlag,
			Usage: "How often to print the status of parallel commands",
			Value: runner.DefaultInterval,
		},
		&cli.BoolFlag{
			Name:  JSONStatusFlag,
			Usage: "Print status lines as JSON objects",
		},
		&cli.BoolFlag{
			Name:  NoColorFlag,
			Usage: "Disable coloured output",
		},
	}
}

// LoadConfig loads the configuration named by the config-file flag.
func LoadConfig(ctx context.Context, cmd *cli.Command) (*config.Config, error) {
	return config.Load(ctx, cmd.String(ConfigFileFlag)) //nolint:wrapcheck
}

// NewRunner builds a runner from the flags, writing to w.
func NewRunner(cmd *cli.Command, w io.Writer, opts ...runner.Option) *runner.Runner {
	if cmd.Bool(NoColorFlag) {
		color.SetEnabled(false)
	}

	var formatter status.Formatter = status.Text{}
	if cmd.Bool(JSONStatusFlag) {
		formatter = status.JSON{}
	}

	base := []runner.Option{
		runner.WithWriter(w),
		runner.WithFormatter(formatter),
		runner.WithInterval(cmd.Duration(IntervalFlag)),
		runner.WithVerbose(cmd.Bool(VerboseFlag)),
		runner.WithStdin(os.Stdin),
	}

	return runner.New(append(base, opts...)...)
}

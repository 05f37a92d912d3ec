// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package status

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/matt-FFFFFF/gpush/internal/color"
	"github.com/matt-FFFFFF/gpush/internal/command"
	"github.com/matt-FFFFFF/gpush/internal/teewriter"
)

// DefaultLastLineLength is the number of runes of output shown after a working command.
const DefaultLastLineLength = 60

// Formatter renders one snapshot as a single line without a trailing newline.
type Formatter interface {
	Format(snap command.Snapshot) string
}

// Text renders "<name>: <status>" with colours.
type Text struct {
	// LastLineLength limits the captured output shown for working commands.
	// Zero uses DefaultLastLineLength, a negative value hides the output.
	LastLineLength int
}

var _ Formatter = Text{}

// Format implements Formatter.
func (t Text) Format(snap command.Snapshot) string {
	line := snap.Name + ": " + Label(snap)

	if snap.Err != nil {
		return line + " " + color.Colorize(snap.Err.Error(), color.FgRed)
	}

	if snap.Status != command.StatusWorking || snap.LastLine == "" || t.LastLineLength < 0 {
		return line
	}

	n := t.LastLineLength
	if n == 0 {
		n = DefaultLastLineLength
	}

	return line + " " + color.Colorize(teewriter.Truncate(snap.LastLine, n), color.Faint)
}

// Label renders the status part of a snapshot.
func Label(snap command.Snapshot) string {
	switch snap.Status {
	case command.StatusSuccess:
		return color.Colorize(snap.Status.String(), color.FgGreen)
	case command.StatusFail:
		if snap.ExitCode == nil || *snap.ExitCode < 0 {
			return color.Colorize(snap.Status.String(), color.FgRed)
		}

		return color.Colorize(fmt.Sprintf("EXIT CODE %d", *snap.ExitCode), color.FgRed)
	case command.StatusSkipped:
		return color.Colorize(snap.Status.String(), color.FgYellow)
	case command.StatusNotStarted:
		if snap.Err != nil {
			return color.Colorize("ERROR", color.FgRed)
		}

		return snap.Status.String()
	default:
		return snap.Status.String()
	}
}

// JSON renders a snapshot as a compact JSON object.
type JSON struct{}

var _ Formatter = JSON{}

type jsonLine struct {
	Index      int    `json:"index"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	ExitCode   *int   `json:"exit_code"`
	IfExitCode *int   `json:"if_exit_code"`
	ElapsedMS  int64  `json:"elapsed_ms"`
	LastLine   string `json:"last_line,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Format implements Formatter.
func (JSON) Format(snap command.Snapshot) string {
	line := jsonLine{
		Index:      snap.Index,
		Name:       snap.Name,
		Status:     snap.Status.String(),
		ExitCode:   snap.ExitCode,
		IfExitCode: snap.IfExitCode,
		ElapsedMS:  snap.Elapsed.Milliseconds(),
		LastLine:   snap.LastLine,
	}

	if snap.Err != nil {
		line.Error = snap.Err.Error()
	}

	b, err := json.Marshal(line)
	if err != nil {
		return fmt.Sprintf(`{"name":%q,"status":%q}`, snap.Name, snap.Status.String())
	}

	return string(b)
}

// Block renders every snapshot, one per line, each line ending in a newline.
func Block(f Formatter, snaps []command.Snapshot) string {
	var sb strings.Builder

	for _, s := range snaps {
		sb.WriteString(f.Format(s))
		sb.WriteByte('\n')
	}

	return sb.String()
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"golang.org/x/term"
)

const (
	// NoColor is the environment variable that disables color output.
	NoColor = "NO_COLOR"
	// ForceColor is the environment variable that forces color output.
	ForceColor = "FORCE_COLOR"

	prefix = "\033["
	suffix = "m"
	reset  = prefix + "0" + suffix

	defaultWidth = 80
)

// Code is an SGR (select graphic rendition) parameter.
type Code int

// Text attributes.
const (
	Reset Code = iota
	Bold
	Faint
	Italic
	Underline
)

// Foreground text colors.
const (
	FgBlack Code = iota + 30
	FgRed
	FgGreen
	FgYellow
	FgBlue
	FgMagenta
	FgCyan
	FgWhite
)

// Foreground Hi-Intensity text colors.
const (
	FgHiBlack Code = iota + 90
	FgHiRed
	FgHiGreen
	FgHiYellow
	FgHiBlue
	FgHiMagenta
	FgHiCyan
	FgHiWhite
)

var enabled atomic.Bool

func init() {
	enabled.Store(isColorCapable())
}

// Enabled reports whether Colorize emits escape sequences.
//
// The initial value is false if NO_COLOR is set, true if FORCE_COLOR is set,
// otherwise whether stdout is a terminal.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled overrides the detected setting.
func SetEnabled(v bool) {
	enabled.Store(v)
}

// ControlString returns the escape sequence for the given codes, regardless of Enabled.
func ControlString(c ...Code) string {
	sb := strings.Builder{}
	writeSGR(&sb, c)

	return sb.String()
}

// Colorize wraps str in the escape sequence for codes followed by a reset.
// If color output is disabled, str is returned unchanged.
func Colorize(str string, codes ...Code) string {
	if !Enabled() || len(codes) == 0 {
		return str
	}

	sb := strings.Builder{}
	sb.Grow(len(str) + len(reset) + len(prefix) + len(suffix) + 3*len(codes))
	writeSGR(&sb, codes)
	sb.WriteString(str)
	sb.WriteString(reset)

	return sb.String()
}

// Strip removes any escape sequences written by this package from s.
func Strip(s string) string {
	var sb strings.Builder

	for {
		i := strings.Index(s, prefix)
		if i < 0 {
			sb.WriteString(s)
			return sb.String()
		}

		sb.WriteString(s[:i])
		s = s[i+len(prefix):]

		j := strings.Index(s, suffix)
		if j < 0 {
			return sb.String()
		}

		s = s[j+len(suffix):]
	}
}

// TerminalWidth returns the width of the terminal attached to stdout, or 80.
func TerminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}

	return w
}

func writeSGR(sb *strings.Builder, codes []Code) {
	sb.WriteString(prefix)

	for i, code := range codes {
		if i > 0 {
			sb.WriteByte(';')
		}

		sb.WriteString(strconv.Itoa(int(code)))
	}

	sb.WriteString(suffix)
}

func isColorCapable() bool {
	if os.Getenv(NoColor) != "" {
		return false
	}

	if os.Getenv(ForceColor) != "" {
		return true
	}

	return term.IsTerminal(int(os.Stdout.Fd()))
}

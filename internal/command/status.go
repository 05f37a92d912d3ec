// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package command

// Status is the lifecycle state of a Command.
type Status int32

const (
	// StatusNotStarted is the state of a command that has not been run.
	StatusNotStarted Status = iota
	// StatusChecking means Run has been called and the precondition, if any, is being evaluated.
	StatusChecking
	// StatusSkipped means the precondition exited non-zero and the main line was not run.
	StatusSkipped
	// StatusWorking means the main line is running.
	StatusWorking
	// StatusSuccess means the main line exited zero.
	StatusSuccess
	// StatusFail means the main line exited non-zero or could not be run.
	StatusFail
)

// String returns the human label for s.
func (s Status) String() string {
	switch s {
	case StatusNotStarted:
		return "not started"
	case StatusChecking:
		return "checking..."
	case StatusSkipped:
		return "skipped"
	case StatusWorking:
		return "working..."
	case StatusSuccess:
		return "OK"
	case StatusFail:
		return "FAIL"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further transitions can happen from s.
func (s Status) IsTerminal() bool {
	return s == StatusSkipped || s == StatusSuccess || s == StatusFail
}

// canTransition reports whether the state machine allows moving from one status to another.
func canTransition(from, to Status) bool {
	switch from {
	case StatusNotStarted:
		return to == StatusChecking
	case StatusChecking:
		return to == StatusWorking || to == StatusSkipped || to == StatusFail
	case StatusWorking:
		return to == StatusSuccess || to == StatusFail
	default:
		return false
	}
}

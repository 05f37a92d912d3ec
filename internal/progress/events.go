// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"time"
)

// Event is a single lifecycle update from a command.
type Event struct {
	Index     int       // Position of the command in its batch, -1 if unknown
	Name      string    // Display name of the command
	Type      EventType // What happened
	ExitCode  int       // Exit code, set for EventCompleted, EventFailed and EventSkipped
	Timestamp time.Time // When the event occurred
}

// EventType represents the type of progress event.
type EventType int

const (
	// EventChecking indicates the command has started and is evaluating its precondition.
	EventChecking EventType = iota
	// EventWorking indicates the main shell line has been started.
	EventWorking
	// EventCompleted indicates the main shell line exited zero.
	EventCompleted
	// EventFailed indicates the main shell line exited non-zero or could not run.
	EventFailed
	// EventSkipped indicates the precondition exited non-zero.
	EventSkipped
)

// String implements the Stringer interface for EventType.
func (et EventType) String() string {
	switch et {
	case EventChecking:
		return "checking"
	case EventWorking:
		return "working"
	case EventCompleted:
		return "completed"
	case EventFailed:
		return "failed"
	case EventSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further events follow this one for the same command.
func (et EventType) Terminal() bool {
	return et == EventCompleted || et == EventFailed || et == EventSkipped
}

// Reporter receives events. Implementations must not block the caller.
type Reporter interface {
	Report(event Event)
	Close()
}

// NullReporter discards all events.
type NullReporter struct{}

// Report implements Reporter.
func (NullReporter) Report(Event) {}

// Close implements Reporter.
func (NullReporter) Close() {}

// NewNullReporter returns a Reporter that discards all events.
func NewNullReporter() Reporter {
	return NullReporter{}
}

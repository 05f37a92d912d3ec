// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"sync"
	"sync/atomic"
)

// ChannelReporter is a Reporter backed by a buffered channel.
// Report never blocks: events are dropped when the buffer is full or the reporter is closed.
// It is safe for concurrent use.
type ChannelReporter struct {
	ch      chan Event
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64
}

// NewChannelReporter creates a ChannelReporter with the given buffer size.
func NewChannelReporter(bufferSize int) *ChannelReporter {
	return &ChannelReporter{
		ch: make(chan Event, bufferSize),
	}
}

// Report implements Reporter.
func (cr *ChannelReporter) Report(event Event) {
	cr.mu.RLock()
	defer cr.mu.RUnlock()

	if cr.closed {
		return
	}

	select {
	case cr.ch <- event:
	default:
		cr.dropped.Add(1)
	}
}

// Close implements Reporter. The events channel is closed once; later calls are no-ops.
func (cr *ChannelReporter) Close() {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if cr.closed {
		return
	}

	cr.closed = true
	close(cr.ch)
}

// Events returns the channel events are delivered on. It is closed by Close.
func (cr *ChannelReporter) Events() <-chan Event {
	return cr.ch
}

// Dropped returns the number of events discarded because the buffer was full.
func (cr *ChannelReporter) Dropped() int64 {
	return cr.dropped.Load()
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventType_String(t *testing.T) {
	tests := []struct {
		eventType EventType
		expected  string
		terminal  bool
	}{
		{eventType: EventChecking, expected: "checking"},
		{eventType: EventWorking, expected: "working"},
		{eventType: EventCompleted, expected: "completed", terminal: true},
		{eventType: EventFailed, expected: "failed", terminal: true},
		{eventType: EventSkipped, expected: "skipped", terminal: true},
		{eventType: EventType(999), expected: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.eventType.String())
			assert.Equal(t, tt.terminal, tt.eventType.Terminal())
		})
	}
}

func TestNullReporter(t *testing.T) {
	reporter := NewNullReporter()
	require.NotNil(t, reporter)

	reporter.Report(Event{Name: "lint", Type: EventChecking, Timestamp: time.Now()})
	reporter.Close()
}

func TestChannelReporter(t *testing.T) {
	reporter := NewChannelReporter(10)

	event := Event{Index: 2, Name: "lint", Type: EventWorking, Timestamp: time.Now()}
	reporter.Report(event)

	select {
	case got := <-reporter.Events():
		assert.Equal(t, event, got)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("event not received within timeout")
	}

	reporter.Close()
	reporter.Close()

	// reporting after close is a no-op, not a panic
	reporter.Report(Event{Type: EventCompleted})

	_, ok := <-reporter.Events()
	assert.False(t, ok, "events channel should be closed")
}

func TestChannelReporter_BufferFullDrops(t *testing.T) {
	reporter := NewChannelReporter(1)

	reporter.Report(Event{Type: EventChecking})
	reporter.Report(Event{Type: EventWorking})
	reporter.Report(Event{Type: EventCompleted})

	assert.Equal(t, int64(2), reporter.Dropped())
	reporter.Close()
}

func TestChannelReporter_ConcurrentReportAndClose(t *testing.T) {
	reporter := NewChannelReporter(4)

	var wg sync.WaitGroup

	for i := range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for range 100 {
				reporter.Report(Event{Index: i, Type: EventWorking})
			}
		}()
	}

	go func() {
		for range reporter.Events() { //nolint:revive
		}
	}()

	reporter.Close()
	wg.Wait()
}

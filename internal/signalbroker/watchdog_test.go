// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"bytes"
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestWatch_FirstSignalCancels(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	notice := &bytes.Buffer{}

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()
		Watch(ctx, sigCh, cancel, notice)
	}()

	sigCh <- os.Interrupt

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context should be cancelled after the first signal")
	}

	close(sigCh)
	wg.Wait()
	assert.Contains(t, notice.String(), "attempting to stop gracefully")
}

func TestWatch_SecondSignalForcesExit(t *testing.T) {
	defer goleak.VerifyNone(t)

	exitCode := make(chan int, 1)
	stubs := gostub.Stub(&Exit, func(code int) { exitCode <- code })

	defer stubs.Reset()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 2)

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()
		Watch(ctx, sigCh, cancel, &bytes.Buffer{})
	}()

	sigCh <- os.Interrupt
	sigCh <- os.Interrupt

	select {
	case code := <-exitCode:
		assert.Equal(t, ForceExitCode, code)
	case <-time.After(time.Second):
		t.Fatal("second signal should force an exit")
	}

	wg.Wait()
}

func TestWatch_ReturnsWhenContextDone(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	done := make(chan struct{})

	go func() {
		defer close(done)
		Watch(ctx, sigCh, cancel, &bytes.Buffer{})
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Watch should return once the context is done")
	}
}

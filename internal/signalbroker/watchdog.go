// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"fmt"
	"io"
	"os"
)

// ForceExitCode is the exit status used when a second signal forces termination.
const ForceExitCode = 130

// Exit is called on the second signal. It is a variable so tests can replace it.
var Exit = os.Exit

// Watch cancels the context on the first signal received on sigCh, which stops running
// batches and terminates their child processes.
// A second signal calls Exit(ForceExitCode) without waiting for that cleanup.
//
// Watch returns if ctx is done before any signal arrives, or when sigCh is closed.
func Watch(ctx context.Context, sigCh <-chan os.Signal, cancel context.CancelFunc, notice io.Writer) {
	select {
	case sig, ok := <-sigCh:
		if !ok {
			return
		}

		fmt.Fprintf(notice, "\n%s detected, attempting to stop gracefully...\n", sig) //nolint:errcheck
		cancel()
	case <-ctx.Done():
		return
	}

	for sig := range sigCh {
		fmt.Fprintf(notice, "\nReceived %s again, exiting immediately.\n", sig) //nolint:errcheck
		Exit(ForceExitCode)

		return
	}
}

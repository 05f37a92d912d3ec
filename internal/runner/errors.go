// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runner

import (
	"errors"
	"fmt"
)

// ErrBatchFailed is wrapped by every BatchError.
var ErrBatchFailed = errors.New("batch failed")

// BatchError reports the command that stopped a sequential batch.
type BatchError struct {
	Name     string
	ExitCode int
	Err      error // Set when the command could not be run, rather than exiting non-zero
}

// Error implements the error interface.
func (e *BatchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("command %q could not be run: %v", e.Name, e.Err)
	}

	return fmt.Sprintf("command %q exited with code %d", e.Name, e.ExitCode)
}

// Unwrap returns ErrBatchFailed and, if set, the underlying error.
func (e *BatchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrBatchFailed}
	}

	return []error{ErrBatchFailed, e.Err}
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runner executes batches of commands.
//
// RunAll runs commands one after another and stops at the first failure.
// RunInParallel starts every command at once, renders a status block while they run
// and returns the number of commands that failed.
package runner

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package teewriter provides the io.Writers used to route child process output.
//
// LastLineWriter captures everything written to it while remembering the last complete
// line, so a status display can show what a long-running command is doing and the full
// output can be printed if the command fails.
// PrefixWriter forwards whole lines to a shared destination with a prefix, and
// SyncWriter serialises writes from many goroutines to one destination.
package teewriter

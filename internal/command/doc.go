// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package command runs a single configured shell line.
//
// A command is built from a specification with the keys "shell", "name", "if" and "env".
// The "if" line, when present, is run first as a precondition: exit code 0 means run the
// main line, anything else skips it without counting as a failure. The "env" mapping is
// applied on top of the inherited environment of the main line, overriding inherited
// variables with the same name.
//
// Each Command owns its lifecycle status:
//
//	NOT_STARTED -> CHECKING -> WORKING -> SUCCESS | FAIL
//	                        -> SKIPPED
//
// Status is written only by Run and may be read concurrently through Status and Snapshot.
// A non-zero exit code is an ordinary outcome (StatusFail), not an error.
package command

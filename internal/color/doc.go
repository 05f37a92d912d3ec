// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color wraps strings in ANSI escape sequences.
// Output is colored only when NO_COLOR is unset and either FORCE_COLOR is set or stdout is a terminal.
package color

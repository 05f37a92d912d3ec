// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package progress delivers lifecycle events from running commands to whoever renders them.
// Commands report every status transition, so a renderer can redraw as soon as something
// changes instead of waiting for its next tick.
package progress

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog carries a slog logger in a context.Context.
//
// The default logger uses PrettyHandler, a console handler that prints the timestamp,
// level and message followed by the attributes rendered as coloured JSON.
// The level is read once from the GPUSH_LOG_LEVEL environment variable and defaults to WARN.
package ctxlog

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package gate runs the configured phases and pushes when every check passed.
package gate

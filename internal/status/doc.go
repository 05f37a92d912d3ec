// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package status turns command snapshots into display lines.
//
// Formatters are pure: the same snapshot always renders to the same string.
// Text is the default human rendering, JSON renders one object per line for tooling.
package status

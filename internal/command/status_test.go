// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package command

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_Transitions(t *testing.T) {
	allowed := map[Status][]Status{
		StatusNotStarted: {StatusChecking},
		StatusChecking:   {StatusWorking, StatusSkipped, StatusFail},
		StatusWorking:    {StatusSuccess, StatusFail},
	}

	all := []Status{StatusNotStarted, StatusChecking, StatusSkipped, StatusWorking, StatusSuccess, StatusFail}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, slices.Contains(allowed[from], to), canTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestStatus_Terminal(t *testing.T) {
	assert.True(t, StatusSkipped.IsTerminal())
	assert.True(t, StatusSuccess.IsTerminal())
	assert.True(t, StatusFail.IsTerminal())
	assert.False(t, StatusNotStarted.IsTerminal())
	assert.False(t, StatusChecking.IsTerminal())
	assert.False(t, StatusWorking.IsTerminal())
	assert.Equal(t, "unknown", Status(99).String())
}

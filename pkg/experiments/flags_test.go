// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package experiments_test

import (
	"testing"

	"carvel.dev/liquid/pkg/experiments"
	"github.com/stretchr/testify/assert"
)

func TestExperimentsAreDisabledByDefault(t *testing.T) {
	experiments.ResetForTesting()
	t.Setenv(experiments.Env, "")

	assert.False(t, experiments.IsLateBoundFiltersEnabled())
	assert.Equal(t, []string{}, experiments.GetEnabled())
}

func TestExperimentsCanBeEnabled(t *testing.T) {
	experiments.ResetForTesting()
	t.Setenv(experiments.Env, " Late-Bound-Filters , unknown")

	assert.True(t, experiments.IsLateBoundFiltersEnabled())
	assert.Equal(t, []string{"late-bound-filters"}, experiments.GetEnabled())
}

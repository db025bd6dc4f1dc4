// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package experiments

import (
	"os"
	"strings"
	"sync"
)

// Env is the OS environment variable with comma-separated names of experiments to enable.
const Env = "LIQUID_EXPERIMENTS"

const lateBoundFilters = "late-bound-filters"

var known = []string{lateBoundFilters}

// GetEnabled reports the names of all enabled experiments.
func GetEnabled() []string {
	enabled := []string{}
	for _, name := range known {
		if isSet(name) {
			enabled = append(enabled, name)
		}
	}
	return enabled
}

// IsLateBoundFiltersEnabled reports whether templates compile unknown
// filters into nodes resolved when rendering.
func IsLateBoundFiltersEnabled() bool {
	return isSet(lateBoundFilters)
}

func isSet(flag string) bool {
	for _, setting := range getSettings() {
		if setting == flag {
			return true
		}
	}
	return false
}

func getSettings() []string {
	settingsOnce.Do(func() {
		for _, setting := range strings.Split(os.Getenv(Env), ",") {
			settings = append(settings, strings.ToLower(strings.TrimSpace(setting)))
		}
	})
	return settings
}

var (
	settingsOnce sync.Once
	settings     []string
)

// ResetForTesting clears the settings, forcing reload from Env on next use.
func ResetForTesting() {
	settingsOnce = sync.Once{}
	settings = nil
}

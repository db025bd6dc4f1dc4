// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"fmt"
	"sort"

	"github.com/pkg/profile"
)

var profileModes = map[string]func(*profile.Profile){
	"block":     profile.BlockProfile,
	"cpu":       profile.CPUProfile,
	"goroutine": profile.GoroutineProfile,
	"mem":       profile.MemProfile,
	"mutex":     profile.MutexProfile,
	"trace":     profile.TraceProfile,
}

// ProfileModes lists the accepted --profile values.
func ProfileModes() []string {
	var modes []string
	for mode := range profileModes {
		modes = append(modes, mode)
	}
	sort.Strings(modes)
	return modes
}

type stopper interface{ Stop() }

type noopStopper struct{}

func (noopStopper) Stop() {}

// startProfile writes profiles into path until Stop is called.
func startProfile(mode, path string, quiet bool) (stopper, error) {
	if len(mode) == 0 {
		return noopStopper{}, nil
	}

	modeFunc, found := profileModes[mode]
	if !found {
		return nil, fmt.Errorf("Unknown profile mode '%s' (expected one of %v)", mode, ProfileModes())
	}

	opts := []func(*profile.Profile){modeFunc, profile.NoShutdownHook}
	if len(path) > 0 {
		opts = append(opts, profile.ProfilePath(path))
	}
	if quiet {
		opts = append(opts, profile.Quiet)
	}
	return profile.Start(opts...), nil
}

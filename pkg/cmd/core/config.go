// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"fmt"

	"carvel.dev/liquid/pkg/runtime"
	"github.com/caarlos0/env/v10"
)

// EnvConfig holds flag defaults taken from the environment.
type EnvConfig struct {
	StrictVariables bool  `env:"LIQUID_STRICT_VARIABLES" envDefault:"false"`
	StrictFilters   bool  `env:"LIQUID_STRICT_FILTERS" envDefault:"false"`
	MaxDepth        int   `env:"LIQUID_MAX_DEPTH" envDefault:"100"`
	OperationBudget int64 `env:"LIQUID_OPERATION_BUDGET" envDefault:"0"`
	Debug           bool  `env:"LIQUID_DEBUG" envDefault:"false"`
}

// LoadEnvConfig reads the process environment.
func LoadEnvConfig() (EnvConfig, error) {
	return loadEnvConfig(env.Options{})
}

// LoadEnvConfigFrom reads environ instead of the process environment.
func LoadEnvConfigFrom(environ map[string]string) (EnvConfig, error) {
	return loadEnvConfig(env.Options{Environment: environ})
}

func loadEnvConfig(opts env.Options) (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return EnvConfig{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return EnvConfig{}, fmt.Errorf("invalid environment: %w", err)
	}
	return cfg, nil
}

func (c EnvConfig) Validate() error {
	if c.MaxDepth < 0 {
		return fmt.Errorf("LIQUID_MAX_DEPTH must be non-negative")
	}
	if c.OperationBudget < 0 {
		return fmt.Errorf("LIQUID_OPERATION_BUDGET must be non-negative")
	}
	return nil
}

// RenderOptions maps the configuration onto per-render options.
func (c EnvConfig) RenderOptions() runtime.Options {
	return runtime.Options{
		StrictVariables: c.StrictVariables,
		StrictFilters:   c.StrictFilters,
		MaxDepth:        c.MaxDepth,
		OperationBudget: c.OperationBudget,
	}
}

// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	cmdcore "carvel.dev/liquid/pkg/cmd/core"
	cmdrender "carvel.dev/liquid/pkg/cmd/render"
	"carvel.dev/liquid/pkg/version"
	"github.com/cppforlife/cobrautil"
	"github.com/spf13/cobra"
)

type LiquidOptions struct {
	Env cmdcore.EnvConfig
}

// NewDefaultLiquidCmd takes flag defaults from the environment.
func NewDefaultLiquidCmd() (*cobra.Command, error) {
	cfg, err := cmdcore.LoadEnvConfig()
	if err != nil {
		return nil, err
	}
	return NewLiquidCmd(&LiquidOptions{Env: cfg}), nil
}

func NewLiquidCmd(o *LiquidOptions) *cobra.Command {
	cmd := cmdrender.NewCmd(cmdrender.NewOptionsFromEnv(o.Env))

	cmd.Use = "liquid"
	cmd.Aliases = nil
	cmd.Version = version.Version
	cmd.Short = "liquid renders Liquid templates"
	cmd.Long = `liquid renders Liquid templates against YAML, JSON or TOML data.

Flag defaults may be set with LIQUID_STRICT_VARIABLES, LIQUID_STRICT_FILTERS,
LIQUID_MAX_DEPTH, LIQUID_OPERATION_BUDGET and LIQUID_DEBUG.`

	// Affects children as well
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	cmd.DisableAutoGenTag = true

	cmd.AddCommand(NewVersionCmd(NewVersionOptions()))
	cmd.AddCommand(NewDescribeCmd(NewDescribeOptions()))
	cmd.AddCommand(cmdrender.NewCmd(cmdrender.NewOptionsFromEnv(o.Env)))

	cobrautil.VisitCommands(cmd, cobrautil.ReconfigureCmdWithSubcmd,
		cobrautil.DisallowExtraArgs, cobrautil.WrapRunEForCmd(cobrautil.ResolveFlagsForCmd))

	return cmd
}

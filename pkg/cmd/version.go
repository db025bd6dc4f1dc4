// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	cmdcore "carvel.dev/liquid/pkg/cmd/core"
	"carvel.dev/liquid/pkg/version"
	"github.com/spf13/cobra"
)

type VersionOptions struct {
	ui cmdcore.PlainUI
}

func NewVersionOptions() *VersionOptions {
	return &VersionOptions{ui: cmdcore.NewPlainUI(false)}
}

func NewVersionCmd(o *VersionOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		RunE:  func(_ *cobra.Command, _ []string) error { return o.Run() },
	}
	return cmd
}

func (o *VersionOptions) Run() error {
	o.ui.Printf("liquid version %s\n", version.Version)
	return nil
}

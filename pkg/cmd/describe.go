// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"strings"

	cmdcore "carvel.dev/liquid/pkg/cmd/core"
	"carvel.dev/liquid/pkg/stdlib"
	"github.com/spf13/cobra"
)

type DescribeOptions struct {
	ui cmdcore.PlainUI
}

func NewDescribeOptions() *DescribeOptions {
	return &DescribeOptions{ui: cmdcore.NewPlainUI(false)}
}

func NewDescribeCmd(o *DescribeOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "List available tags and filters",
		RunE:  func(_ *cobra.Command, _ []string) error { return o.Run() },
	}
	return cmd
}

func (o *DescribeOptions) Run() error {
	reg := stdlib.NewRegistry()

	o.ui.Printf("Tags:\n")
	for _, name := range reg.TagNames() {
		tag, _ := reg.Tag(name)
		refl := tag.Reflection()

		usage := name
		if refl.IsBlock() {
			markers := append([]string{}, refl.Markers...)
			markers = append(markers, refl.EndTag)
			usage += " ... " + strings.Join(markers, "/")
		}
		o.ui.Printf("  %-30s %s\n", usage, refl.Description)
	}

	o.ui.Printf("\nFilters:\n")
	for _, name := range reg.FilterNames() {
		filter, _ := reg.Filter(name)
		refl := filter.Reflection()

		usage := name
		if sig := refl.Signature.String(); len(sig) > 0 {
			usage += ": " + sig
		}
		o.ui.Printf("  %-30s %s\n", usage, refl.Description)
	}
	return nil
}

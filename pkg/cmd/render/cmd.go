// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	cmdcore "carvel.dev/liquid/pkg/cmd/core"
	"carvel.dev/liquid/pkg/experiments"
	"carvel.dev/liquid/pkg/liquid"
	"carvel.dev/liquid/pkg/runtime"
	"carvel.dev/liquid/pkg/stdlib"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const stdinPath = "-"

type RenderOptions struct {
	InputFile   string
	OutputFile  string
	ContextFile string

	StrictVariables bool
	StrictFilters   bool
	MaxDepth        int
	OperationBudget int64

	Watch      bool
	Profile    string
	ProfileDir string
	Debug      bool
}

func NewOptions() *RenderOptions {
	return NewOptionsFromEnv(cmdcore.EnvConfig{MaxDepth: runtime.DefaultMaxDepth})
}

// NewOptionsFromEnv uses cfg for the defaults of the corresponding flags.
func NewOptionsFromEnv(cfg cmdcore.EnvConfig) *RenderOptions {
	return &RenderOptions{
		InputFile:       stdinPath,
		StrictVariables: cfg.StrictVariables,
		StrictFilters:   cfg.StrictFilters,
		MaxDepth:        cfg.MaxDepth,
		OperationBudget: cfg.OperationBudget,
		Debug:           cfg.Debug,
	}
}

func NewCmd(o *RenderOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "render",
		Aliases: []string{"r"},
		Short:   "Render a template",
		RunE:    func(cmd *cobra.Command, _ []string) error { return o.Run(cmd.Context()) },
	}
	cmd.Flags().StringVarP(&o.InputFile, "input", "i", o.InputFile, "Template file ('-' for stdin)")
	cmd.Flags().StringVarP(&o.OutputFile, "output", "o", "", "Output file (stdout when empty)")
	cmd.Flags().StringVarP(&o.ContextFile, "context", "c", "", "Data file (.yaml, .yml, .json or .toml)")
	cmd.Flags().BoolVar(&o.StrictVariables, "strict-variables", o.StrictVariables, "Fail on undefined variables")
	cmd.Flags().BoolVar(&o.StrictFilters, "strict-filters", o.StrictFilters, "Fail on unknown filters")
	cmd.Flags().IntVar(&o.MaxDepth, "max-depth", o.MaxDepth, "Maximum render depth")
	cmd.Flags().Int64Var(&o.OperationBudget, "budget", o.OperationBudget, "Maximum number of render operations (0 for unlimited)")
	cmd.Flags().BoolVar(&o.Watch, "watch", false, "Re-render when the template or context file changes")
	cmd.Flags().StringVar(&o.Profile, "profile", "", fmt.Sprintf("Write a profile (%s)", strings.Join(ProfileModes(), ", ")))
	cmd.Flags().StringVar(&o.ProfileDir, "profile-dir", "", "Directory for profiles (temporary directory when empty)")
	cmd.Flags().BoolVar(&o.Debug, "debug", o.Debug, "Enable debug output")
	return cmd
}

func (o *RenderOptions) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return o.RunWithUI(ctx, cmdcore.NewPlainUI(o.Debug), os.Stdin)
}

func (o *RenderOptions) RunWithUI(ctx context.Context, ui cmdcore.PlainUI, stdin io.Reader) error {
	if err := o.validate(); err != nil {
		return err
	}

	prof, err := startProfile(o.Profile, o.ProfileDir, !o.Debug)
	if err != nil {
		return err
	}
	defer prof.Stop()

	if enabled := experiments.GetEnabled(); len(enabled) > 0 {
		ui.Debugf("experiments: %s\n", strings.Join(enabled, ", "))
	}

	if !o.Watch {
		return o.RenderOnce(ctx, ui, stdin)
	}

	err = o.RenderOnce(ctx, ui, stdin)
	if err != nil {
		ui.Warnf("Error: %s\n", err)
	}

	watcher, err := NewWatcher([]string{o.InputFile, o.ContextFile}, DefaultDebounceInterval, ui.Logger())
	if err != nil {
		return err
	}
	return watcher.Watch(ctx, func() {
		if err := o.RenderOnce(ctx, ui, nil); err != nil {
			ui.Warnf("Error: %s\n", err)
		}
	})
}

// RenderOnce compiles the template and renders it against the context file.
func (o *RenderOptions) RenderOnce(ctx context.Context, ui cmdcore.PlainUI, stdin io.Reader) error {
	t1 := time.Now()
	defer func() {
		ui.Debugf("total: %s\n", time.Since(t1))
	}()

	name, src, err := o.readInput(stdin)
	if err != nil {
		return err
	}

	parserOpts := []liquid.ParserOpt{liquid.WithLogger(ui.Logger()), liquid.WithName(name)}
	if experiments.IsLateBoundFiltersEnabled() {
		parserOpts = append(parserOpts, liquid.WithLateBoundFilters())
	}

	tpl, err := liquid.NewParser(stdlib.NewRegistry(), parserOpts...).Parse(src)
	if err != nil {
		return err
	}

	data, err := LoadContextFile(o.ContextFile)
	if err != nil {
		return err
	}

	opts := liquid.RenderOptions{
		StrictVariables: o.StrictVariables,
		StrictFilters:   o.StrictFilters,
		MaxDepth:        o.MaxDepth,
		OperationBudget: o.OperationBudget,
		Context:         ctx,
	}

	if len(o.OutputFile) == 0 {
		return tpl.RenderTo(ui.Stdout(), data, opts)
	}

	out, err := tpl.Render(data, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(o.OutputFile, []byte(out), 0600); err != nil {
		return fmt.Errorf("Writing output file '%s': %w", o.OutputFile, err)
	}
	ui.Logger().Debug("wrote output", zap.String("path", o.OutputFile), zap.Int("bytes", len(out)))
	return nil
}

func (o *RenderOptions) readInput(stdin io.Reader) (string, string, error) {
	if o.InputFile == stdinPath {
		if stdin == nil {
			return "", "", fmt.Errorf("Expected template on stdin")
		}
		contents, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("Reading stdin: %w", err)
		}
		return "stdin", string(contents), nil
	}

	contents, err := os.ReadFile(o.InputFile)
	if err != nil {
		return "", "", fmt.Errorf("Reading template file '%s': %w", o.InputFile, err)
	}
	return o.InputFile, string(contents), nil
}

func (o *RenderOptions) validate() error {
	if len(o.InputFile) == 0 {
		return fmt.Errorf("Expected --input to be a file or '-'")
	}
	if o.Watch && o.InputFile == stdinPath {
		return fmt.Errorf("Expected --input to be a file when watching")
	}
	if o.MaxDepth < 0 {
		return fmt.Errorf("Expected --max-depth to be non-negative")
	}
	if o.OperationBudget < 0 {
		return fmt.Errorf("Expected --budget to be non-negative")
	}
	return nil
}

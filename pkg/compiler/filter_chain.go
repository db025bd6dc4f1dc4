// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"fmt"

	"carvel.dev/liquid/pkg/ast"
	"carvel.dev/liquid/pkg/errs"
	"carvel.dev/liquid/pkg/filepos"
	"carvel.dev/liquid/pkg/registry"
	"carvel.dev/liquid/pkg/runtime"
	"carvel.dev/liquid/pkg/value"
)

// FilterChain applies filters left to right to its input.
type FilterChain struct {
	Input runtime.Expression
	Steps []FilterStep
}

var _ runtime.Expression = &FilterChain{}

type FilterStep struct {
	Name string
	Pos  filepos.Position
	// Filter is nil when the filter is resolved at render time.
	Filter   runtime.Filter
	Args     []runtime.Expression
	Keywords []KeywordStep
}

type KeywordStep struct {
	Name  string
	Value runtime.Expression
}

func (e *FilterChain) Evaluate(ctx *runtime.Context) (value.Value, error) {
	current, err := e.Input.Evaluate(ctx)
	if err != nil {
		return value.Nil, err
	}

	for _, step := range e.Steps {
		if err := ctx.Step(); err != nil {
			return value.Nil, runtime.AtPosition(err, step.Pos)
		}

		filter, err := step.resolve(ctx)
		if err != nil {
			return value.Nil, err
		}
		if filter == nil {
			continue
		}

		args, err := step.evaluateArgs(ctx)
		if err != nil {
			return value.Nil, err
		}

		result, err := filter.Apply(current, args)
		if err != nil {
			return value.Nil, errs.NewFilterError(step.Name, err, step.Pos)
		}
		current = result
	}

	return current, nil
}

// resolve returns nil without error when an unknown late-bound filter
// should pass its input through.
func (s FilterStep) resolve(ctx *runtime.Context) (runtime.Filter, error) {
	if s.Filter != nil {
		return s.Filter, nil
	}

	opts := ctx.Options()
	if opts.Filters != nil {
		if filter, found := opts.Filters.RuntimeFilter(s.Name); found {
			if reflected, ok := filter.(registry.Filter); ok {
				if msg := checkArity(reflected.Reflection().Signature, len(s.Args), s.keywordNames()); len(msg) > 0 {
					return nil, errs.NewFilterError(s.Name, fmt.Errorf("%s", msg), s.Pos)
				}
			}
			return filter, nil
		}
	}

	if opts.StrictFilters {
		return nil, errs.NewFilterError(s.Name, fmt.Errorf("unknown filter"), s.Pos)
	}
	return nil, nil
}

func (s FilterStep) evaluateArgs(ctx *runtime.Context) (runtime.FilterArgs, error) {
	var args runtime.FilterArgs

	for _, arg := range s.Args {
		val, err := arg.Evaluate(ctx)
		if err != nil {
			return args, err
		}
		args.Positional = append(args.Positional, val)
	}

	if len(s.Keywords) > 0 {
		args.Keywords = map[string]value.Value{}
		for _, kw := range s.Keywords {
			val, err := kw.Value.Evaluate(ctx)
			if err != nil {
				return args, err
			}
			args.Keywords[kw.Name] = val
		}
	}

	return args, nil
}

func (s FilterStep) keywordNames() []string {
	var result []string
	for _, kw := range s.Keywords {
		result = append(result, kw.Name)
	}
	return result
}

func (c *compileContext) filterChain(chain *ast.FilterChain) (runtime.Expression, error) {
	input, err := c.Expression(chain.Input)
	if err != nil {
		return nil, err
	}

	result := &FilterChain{Input: input}

	for _, call := range chain.Filters {
		step := FilterStep{Name: call.Name, Pos: call.Pos}

		for _, arg := range call.Args {
			compiled, err := c.Expression(arg)
			if err != nil {
				return nil, err
			}
			step.Args = append(step.Args, compiled)
		}
		for _, kw := range call.Keywords {
			compiled, err := c.Expression(kw.Value)
			if err != nil {
				return nil, err
			}
			step.Keywords = append(step.Keywords, KeywordStep{Name: kw.Name, Value: compiled})
		}

		filter, found := c.compiler.reg.Filter(call.Name)
		switch {
		case found:
			if msg := checkArity(filter.Reflection().Signature, len(step.Args), step.keywordNames()); len(msg) > 0 {
				return nil, errs.NewArgumentMismatchError(call.Name, call.Pos, "%s", msg)
			}
			step.Filter = filter
		case !c.compiler.opts.LateBoundFilters:
			return nil, errs.NewUnknownFilterError(call.Name, call.Pos, c.compiler.reg.FilterNames())
		}

		result.Steps = append(result.Steps, step)
	}

	return result, nil
}

// checkArity describes how a call site violates sig, or returns "".
func checkArity(sig registry.FilterSignature, positional int, keywords []string) string {
	minArgs, maxArgs := sig.MinArgs(), sig.MaxArgs()

	if positional < minArgs || (maxArgs >= 0 && positional > maxArgs) {
		msg := fmt.Sprintf("expected %s, got %d", describeArity(minArgs, maxArgs), positional)
		if usage := sig.String(); len(usage) > 0 {
			msg += fmt.Sprintf(" (usage: %s)", usage)
		}
		return msg
	}

	seen := map[string]bool{}
	for _, kw := range keywords {
		if !sig.AcceptsKeyword(kw) {
			return fmt.Sprintf("unexpected keyword argument '%s'", kw)
		}
		if seen[kw] {
			return fmt.Sprintf("duplicate keyword argument '%s'", kw)
		}
		seen[kw] = true
	}
	return ""
}

func describeArity(minArgs, maxArgs int) string {
	switch {
	case maxArgs < 0:
		return fmt.Sprintf("at least %s", plural(minArgs))
	case minArgs == maxArgs:
		return plural(minArgs)
	default:
		return fmt.Sprintf("%d to %s", minArgs, plural(maxArgs))
	}
}

func plural(n int) string {
	if n == 1 {
		return "1 argument"
	}
	return fmt.Sprintf("%d arguments", n)
}

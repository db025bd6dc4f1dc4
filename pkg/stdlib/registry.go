// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package stdlib

import (
	"carvel.dev/liquid/pkg/registry"
)

// Tags returns a new instance of every standard tag.
func Tags() []registry.TagParser {
	return []registry.TagParser{
		AssignTag{},
		CaptureTag{},
		IfTag{},
		UnlessTag{},
		CaseTag{},
		ForTag{},
		BreakTag{},
		ContinueTag{},
		CommentTag{},
		RawTag{},
		InlineCommentTag{},
		IfChangedTag{},
		CycleTag{},
		IncrementTag{},
		DecrementTag{},
		RequireVersionTag{},
	}
}

// Filters returns every standard filter.
func Filters() []registry.Filter {
	var result []registry.Filter
	result = append(result, stringFilters()...)
	result = append(result, mathFilters()...)
	result = append(result, arrayFilters()...)
	result = append(result, miscFilters()...)
	return result
}

// Register adds the standard tags and filters to reg.
func Register(reg *registry.Registry) error {
	for _, tag := range Tags() {
		if err := reg.RegisterTag(tag); err != nil {
			return err
		}
	}
	for _, filter := range Filters() {
		if err := reg.RegisterFilter(filter); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a registry holding the standard library.
func NewRegistry() *registry.Registry {
	reg := registry.New()
	if err := Register(reg); err != nil {
		panic(err)
	}
	return reg
}

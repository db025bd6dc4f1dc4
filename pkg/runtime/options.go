// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package runtime

import (
	"context"
)

const DefaultMaxDepth = 100

// Options control a single render. The zero value is permissive with the
// default depth limit and no operation budget.
type Options struct {
	StrictVariables bool
	StrictFilters   bool

	// MaxDepth bounds nesting of rendered sequences; 0 means DefaultMaxDepth.
	MaxDepth int
	// OperationBudget bounds node visits and filter applications; 0 means unlimited.
	OperationBudget int64

	// Context cancels the render when done.
	Context context.Context
	// Check is consulted on every node visit and filter application with the
	// number of steps taken so far. A non-nil error interrupts the render.
	Check func(steps int64) error

	// Filters resolves filters that were left unbound at compile time.
	Filters FilterSource
}

func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

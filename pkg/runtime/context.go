// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package runtime

import (
	"carvel.dev/liquid/pkg/errs"
	"carvel.dev/liquid/pkg/value"
)

// Context is the mutable state of one render. It is not safe for
// concurrent use; every render gets its own Context.
type Context struct {
	opts Options

	globals *value.Object
	// assigns is the bottom frame written by assign and capture.
	assigns *value.Object
	scopes  []*value.Object

	registers map[string]interface{}

	depth int
	steps int64
}

// NewContext creates a Context over globals. globals is never modified.
func NewContext(globals *value.Object, opts Options) *Context {
	if globals == nil {
		globals = value.NewEmptyObject()
	}
	return &Context{
		opts:      opts,
		globals:   globals,
		assigns:   value.NewEmptyObject(),
		registers: map[string]interface{}{},
	}
}

func (c *Context) Options() Options { return c.opts }

// Steps is the number of node visits and filter applications so far.
func (c *Context) Steps() int64 { return c.steps }

// Lookup resolves a top level name: innermost scope first, then assigns,
// then globals.
func (c *Context) Lookup(name string) (value.Value, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if val, found := c.scopes[i].Get(name); found {
			return val, true
		}
	}
	if val, found := c.assigns.Get(name); found {
		return val, true
	}
	return c.globals.Get(name)
}

// Assign binds name in the assigns frame, visible for the rest of the render.
func (c *Context) Assign(name string, val value.Value) {
	c.assigns.Set(name, val)
}

// PushScope opens a frame for loop variables.
func (c *Context) PushScope() {
	c.scopes = append(c.scopes, value.NewEmptyObject())
}

func (c *Context) PopScope() {
	if len(c.scopes) == 0 {
		panic("Unbalanced scope pop")
	}
	c.scopes = c.scopes[:len(c.scopes)-1]
}

// SetLocal binds name in the innermost frame.
func (c *Context) SetLocal(name string, val value.Value) {
	if len(c.scopes) == 0 {
		c.Assign(name, val)
		return
	}
	c.scopes[len(c.scopes)-1].Set(name, val)
}

// Register returns per-render state stored under key, creating it with
// init on first use.
func (c *Context) Register(key string, init func() interface{}) interface{} {
	if val, found := c.registers[key]; found {
		return val
	}
	val := init()
	c.registers[key] = val
	return val
}

// Step accounts for one node visit or filter application.
func (c *Context) Step() error {
	c.steps++

	if c.opts.OperationBudget > 0 && c.steps > c.opts.OperationBudget {
		return errs.NewBudgetExceededError(c.opts.OperationBudget)
	}
	if c.opts.Context != nil {
		if err := c.opts.Context.Err(); err != nil {
			return errs.NewInterruptedError(err)
		}
	}
	if c.opts.Check != nil {
		if err := c.opts.Check(c.steps); err != nil {
			return errs.NewInterruptedError(err)
		}
	}
	return nil
}

// Consume accounts for n units of work at once (e.g. materializing a range).
func (c *Context) Consume(n int64) error {
	if c.opts.OperationBudget > 0 && c.steps+n > c.opts.OperationBudget {
		return errs.NewBudgetExceededError(c.opts.OperationBudget)
	}
	c.steps += n
	return nil
}

// Enter records one more level of nesting; pair with Leave.
func (c *Context) Enter() error {
	c.depth++
	if limit := c.opts.maxDepth(); c.depth > limit {
		c.depth--
		return errs.NewDepthExceededError(int64(limit))
	}
	return nil
}

func (c *Context) Leave() { c.depth-- }

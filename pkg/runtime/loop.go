// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package runtime

import (
	"io"

	"carvel.dev/liquid/pkg/value"
)

const ForloopName = "forloop"

// NewForloop builds the forloop object exposed inside loop bodies.
func NewForloop(index0, length int, parent value.Value) value.Value {
	obj := value.NewEmptyObject()
	obj.Set("index", value.NewInt(int64(index0+1)))
	obj.Set("index0", value.NewInt(int64(index0)))
	obj.Set("rindex", value.NewInt(int64(length-index0)))
	obj.Set("rindex0", value.NewInt(int64(length-index0-1)))
	obj.Set("first", value.NewBool(index0 == 0))
	obj.Set("last", value.NewBool(index0 == length-1))
	obj.Set("length", value.NewInt(int64(length)))
	obj.Set("parentloop", parent)
	return value.NewObject(obj)
}

// Loop renders body once per item, each iteration in a fresh scope
// holding name and forloop. Break and Continue signals raised by the
// body are consumed here.
func Loop(w io.Writer, ctx *Context, name string, items []value.Value, body Renderable) error {
	parent, _ := ctx.Lookup(ForloopName)

	for i, item := range items {
		signal, err := iterate(w, ctx, body, func() {
			ctx.SetLocal(name, item)
			ctx.SetLocal(ForloopName, NewForloop(i, len(items), parent))
		})
		if err != nil {
			return err
		}
		if signal == Break {
			break
		}
	}
	return nil
}

func iterate(w io.Writer, ctx *Context, body Renderable, bind func()) (Signal, error) {
	ctx.PushScope()
	defer ctx.PopScope()

	bind()
	return body.Render(w, ctx)
}

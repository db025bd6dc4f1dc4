// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package runtime

import (
	"bytes"
	"io"

	"carvel.dev/liquid/pkg/errs"
)

// RenderTo renders root into a buffer and copies it to w only on success,
// so w never receives partial output.
func RenderTo(w io.Writer, root Renderable, ctx *Context) error {
	var buf bytes.Buffer

	signal, err := root.Render(&buf, ctx)
	if err != nil {
		return err
	}
	if signal != None {
		return errs.NewInternalError("'%s' used outside of a loop", signal)
	}

	_, err = w.Write(buf.Bytes())
	return err
}

// Capture renders node and returns its output as a string.
func Capture(node Renderable, ctx *Context) (string, Signal, error) {
	var buf bytes.Buffer
	signal, err := node.Render(&buf, ctx)
	return buf.String(), signal, err
}

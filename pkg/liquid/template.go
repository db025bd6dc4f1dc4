// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package liquid

import (
	"errors"
	"io"
	"strings"
	"time"

	"carvel.dev/liquid/pkg/errs"
	"carvel.dev/liquid/pkg/registry"
	"carvel.dev/liquid/pkg/runtime"
	"carvel.dev/liquid/pkg/value"
	"go.uber.org/zap"
)

// RenderOptions control a single render; see runtime.Options.
type RenderOptions = runtime.Options

type Template struct {
	name   string
	source string
	root   runtime.Renderable
	reg    *registry.Registry
	logger *zap.Logger
}

func (t *Template) Name() string { return t.name }

// Render returns the complete output or an error, never partial output.
// data may be nil.
func (t *Template) Render(data *value.Object, opts RenderOptions) (string, error) {
	var sb strings.Builder
	err := t.RenderTo(&sb, data, opts)
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

// RenderTo writes the output to w only when the whole render succeeds.
func (t *Template) RenderTo(w io.Writer, data *value.Object, opts RenderOptions) error {
	if opts.Filters == nil {
		opts.Filters = t.reg
	}

	start := time.Now()
	ctx := runtime.NewContext(data, opts)

	err := runtime.RenderTo(w, t.root, ctx)
	if err != nil {
		var renderErr *errs.RenderError
		if errors.As(err, &renderErr) {
			err = renderErr.WithSource(t.source)
		}
		t.logger.Debug("template render failed",
			zap.String("name", t.name), zap.Int64("steps", ctx.Steps()), zap.Error(err))
		return err
	}

	t.logger.Debug("template rendered",
		zap.String("name", t.name),
		zap.Int64("steps", ctx.Steps()),
		zap.Duration("duration", time.Since(start)))
	return nil
}

// RenderGo converts data (a Go map or struct) and renders with it.
func (t *Template) RenderGo(data interface{}, opts RenderOptions) (string, error) {
	obj, err := value.NewGoValue(data).AsObject()
	if err != nil {
		return "", err
	}
	return t.Render(obj, opts)
}

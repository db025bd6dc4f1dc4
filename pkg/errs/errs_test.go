// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"carvel.dev/liquid/pkg/errs"
	"carvel.dev/liquid/pkg/filepos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileErrorShowsSourceLineAndHint(t *testing.T) {
	src := "Hello {% fro x in y %}"
	pos := filepos.NewPositionAt("tpl", 6, 1, 7)

	err := errs.NewUnknownTagError("fro", pos, []string{"for", "if"}).WithSource(src)

	assert.Equal(t, errs.UnknownTag, err.Kind)
	assert.Equal(t, 6, err.Offset())
	assert.Equal(t, "Unknown tag 'fro' (hint: did you mean 'for'?)\n    tpl:1:7 | Hello {% fro x in y %}", err.Error())
}

func TestCompileErrorWithoutPosition(t *testing.T) {
	err := errs.NewSyntaxError(filepos.NewUnknownPosition(), "Unexpected '%s'", "}")

	assert.Equal(t, "Unexpected '}'", err.Error())
}

func TestFilterErrorKeepsCause(t *testing.T) {
	cause := errs.NewTypeError("plus", "String")
	err := error(errs.NewFilterError("plus", cause, filepos.NewUnknownPosition()))

	var renderErr *errs.RenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, errs.FilterError, renderErr.Kind)
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "Filter 'plus': Cannot apply 'plus' to value of type String", err.Error())
}

func TestRenderErrorTrace(t *testing.T) {
	err := errs.NewUndefinedVariableError("missing", filepos.NewPositionAt("tpl", 3, 1, 4)).
		WithTrace("{% for i in items %}")

	assert.Equal(t, "Undefined variable 'missing'\n    tpl:1:4\n    in {% for i in items %}", err.Error())
}

func TestInterruptedWrapsCause(t *testing.T) {
	cause := fmt.Errorf("deadline")
	err := errs.NewInterruptedError(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Render interrupted: deadline", err.Error())
}

func TestDuplicateNameError(t *testing.T) {
	err := &errs.DuplicateNameError{Kind: "filter", Name: "upcase"}

	assert.Equal(t, "filter 'upcase' is already registered (hint: use OverrideFilter to replace it)", err.Error())
}

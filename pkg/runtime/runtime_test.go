// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package runtime_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"carvel.dev/liquid/pkg/errs"
	"carvel.dev/liquid/pkg/filepos"
	"carvel.dev/liquid/pkg/runtime"
	"carvel.dev/liquid/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func globals(t *testing.T, data map[string]interface{}) *value.Object {
	obj, err := value.NewGoValue(data).AsObject()
	require.NoError(t, err)
	return obj
}

func variable(name string, fields ...string) *runtime.Variable {
	v := &runtime.Variable{Pos: filepos.NewPosition("tpl"), Name: name}
	for _, field := range fields {
		v.Accessors = append(v.Accessors, runtime.Accessor{Pos: filepos.NewPosition("tpl"), Field: field, Source: "." + field})
	}
	return v
}

func TestLookupOrder(t *testing.T) {
	root := globals(t, map[string]interface{}{"x": "global", "y": "global"})
	ctx := runtime.NewContext(root, runtime.Options{})

	ctx.Assign("x", value.NewString("assigned"))
	val, _ := ctx.Lookup("x")
	assert.Equal(t, "assigned", val.Render())

	ctx.PushScope()
	ctx.SetLocal("x", value.NewString("local"))
	val, _ = ctx.Lookup("x")
	assert.Equal(t, "local", val.Render())
	ctx.PopScope()

	val, _ = ctx.Lookup("x")
	assert.Equal(t, "assigned", val.Render())

	orig, _ := root.Get("x")
	assert.Equal(t, "global", orig.Render())
}

func TestVariableMissingPath(t *testing.T) {
	expr := variable("missing", "field")

	val, err := expr.Evaluate(runtime.NewContext(nil, runtime.Options{}))
	require.NoError(t, err)
	assert.True(t, val.IsNil())

	_, err = expr.Evaluate(runtime.NewContext(nil, runtime.Options{StrictVariables: true}))
	var renderErr *errs.RenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, errs.UndefinedVariable, renderErr.Kind)
	assert.Equal(t, "missing", renderErr.Path)
}

func TestVariableMissingNestedPath(t *testing.T) {
	ctx := runtime.NewContext(globals(t, map[string]interface{}{
		"user": map[string]interface{}{"name": "Ann"},
	}), runtime.Options{StrictVariables: true})

	val, err := variable("user", "name").Evaluate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ann", val.Render())

	_, err = variable("user", "email", "domain").Evaluate(ctx)
	require.Error(t, err)
	assert.Equal(t, "user.email", err.(*errs.RenderError).Path)
}

func TestVariableSpecialFields(t *testing.T) {
	ctx := runtime.NewContext(globals(t, map[string]interface{}{
		"items": []interface{}{1, 2, 3},
		"name":  "four",
		"obj":   map[string]interface{}{"a": 1, "b": 2},
		"sized": map[string]interface{}{"size": "custom"},
	}), runtime.Options{})

	cases := map[*runtime.Variable]string{
		variable("items", "size"):  "3",
		variable("items", "first"): "1",
		variable("items", "last"):  "3",
		variable("name", "size"):   "4",
		variable("obj", "size"):    "2",
		variable("sized", "size"):  "custom",
	}
	for expr, expected := range cases {
		val, err := expr.Evaluate(ctx)
		require.NoError(t, err)
		assert.Equal(t, expected, val.Render())
	}
}

func TestVariableIndexes(t *testing.T) {
	ctx := runtime.NewContext(globals(t, map[string]interface{}{
		"items": []interface{}{"a", "b", "c"},
		"obj":   map[string]interface{}{"k": "v"},
	}), runtime.Options{})

	index := func(name string, idx value.Value) *runtime.Variable {
		return &runtime.Variable{Name: name, Accessors: []runtime.Accessor{{Index: &runtime.Literal{Value: idx}}}}
	}

	cases := []struct {
		expr     *runtime.Variable
		expected string
	}{
		{index("items", value.NewInt(0)), "a"},
		{index("items", value.NewInt(-1)), "c"},
		{index("items", value.NewInt(7)), ""},
		{index("obj", value.NewString("k")), "v"},
		{index("obj", value.NewInt(0)), ""},
	}
	for _, tc := range cases {
		val, err := tc.expr.Evaluate(ctx)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, val.Render())
	}
}

func TestRange(t *testing.T) {
	ctx := runtime.NewContext(nil, runtime.Options{})
	rng := &runtime.Range{Start: &runtime.Literal{Value: value.NewInt(1)}, End: &runtime.Literal{Value: value.NewString("3")}}

	val, err := rng.Evaluate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "[1, 2, 3]", val.Source())

	empty := &runtime.Range{Start: &runtime.Literal{Value: value.NewInt(3)}, End: &runtime.Literal{Value: value.NewInt(1)}}
	val, err = empty.Evaluate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, val.Len())

	bad := &runtime.Range{Start: &runtime.Literal{Value: value.NewString("x")}, End: &runtime.Literal{Value: value.NewInt(1)}}
	_, err = bad.Evaluate(ctx)
	require.Error(t, err)
	assert.Equal(t, errs.TypeError, err.(*errs.RenderError).Kind)
}

func TestCompare(t *testing.T) {
	cases := []struct {
		op          string
		left, right value.Value
		expected    bool
	}{
		{"==", value.NewInt(1), value.NewFloat(1), true},
		{"!=", value.NewInt(1), value.NewString("1"), true},
		{"<", value.NewInt(1), value.NewFloat(1.5), true},
		{">=", value.NewString("b"), value.NewString("a"), true},
		{"<", value.NewString("1"), value.NewInt(2), false},
		{">", value.NewString("1"), value.NewInt(2), false},
		{"contains", value.NewString("hello"), value.NewString("ell"), true},
		{"contains", value.NewArray([]value.Value{value.NewInt(1)}), value.NewInt(1), true},
	}
	for _, tc := range cases {
		result, err := runtime.Compare(tc.op, tc.left, tc.right)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, result, "%s %s %s", tc.left.Source(), tc.op, tc.right.Source())
	}
}

func TestLogicalShortCircuits(t *testing.T) {
	ctx := runtime.NewContext(nil, runtime.Options{StrictVariables: true})
	fail := variable("missing")

	val, err := (&runtime.Logical{Op: "and", Left: &runtime.Literal{Value: value.NewBool(false)}, Right: fail}).Evaluate(ctx)
	require.NoError(t, err)
	assert.False(t, val.Truthy())

	val, err = (&runtime.Logical{Op: "or", Left: &runtime.Literal{Value: value.NewInt(0)}, Right: fail}).Evaluate(ctx)
	require.NoError(t, err)
	assert.True(t, val.Truthy())

	_, err = (&runtime.Logical{Op: "or", Left: &runtime.Literal{Value: value.Nil}, Right: fail}).Evaluate(ctx)
	require.Error(t, err)
}

func text(s string) *runtime.Text { return &runtime.Text{Content: s} }

func TestRenderToIsAllOrNothing(t *testing.T) {
	root := &runtime.Sequence{Nodes: []runtime.Renderable{
		text("before"),
		&runtime.Output{Expr: variable("missing")},
	}}

	var out bytes.Buffer
	err := runtime.RenderTo(&out, root, runtime.NewContext(nil, runtime.Options{StrictVariables: true}))
	require.Error(t, err)
	assert.Equal(t, "", out.String())

	err = runtime.RenderTo(&out, root, runtime.NewContext(nil, runtime.Options{}))
	require.NoError(t, err)
	assert.Equal(t, "before", out.String())
}

func TestOperationBudget(t *testing.T) {
	var nodes []runtime.Renderable
	for i := 0; i < 10; i++ {
		nodes = append(nodes, text("x"))
	}
	root := &runtime.Sequence{Nodes: nodes}

	var out bytes.Buffer
	err := runtime.RenderTo(&out, root, runtime.NewContext(nil, runtime.Options{OperationBudget: 5}))
	require.Error(t, err)
	assert.Equal(t, errs.BudgetExceeded, err.(*errs.RenderError).Kind)
	assert.Equal(t, "Operation budget (5) exceeded", strings.Split(err.Error(), "\n")[0])

	require.NoError(t, runtime.RenderTo(&out, root, runtime.NewContext(nil, runtime.Options{OperationBudget: 10})))
	assert.Equal(t, strings.Repeat("x", 10), out.String())
}

func TestMaxDepth(t *testing.T) {
	var node runtime.Renderable = text("leaf")
	for i := 0; i < 5; i++ {
		node = &runtime.Sequence{Nodes: []runtime.Renderable{node}}
	}

	var out bytes.Buffer
	err := runtime.RenderTo(&out, node, runtime.NewContext(nil, runtime.Options{MaxDepth: 4}))
	require.Error(t, err)
	assert.Equal(t, errs.DepthExceeded, err.(*errs.RenderError).Kind)
	assert.Equal(t, int64(4), err.(*errs.RenderError).Limit)

	require.NoError(t, runtime.RenderTo(&out, node, runtime.NewContext(nil, runtime.Options{MaxDepth: 5})))
	assert.Equal(t, "leaf", out.String())
}

func TestCancellation(t *testing.T) {
	root := &runtime.Sequence{Nodes: []runtime.Renderable{text("a"), text("b")}}

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	err := runtime.RenderTo(io.Discard, root, runtime.NewContext(nil, runtime.Options{Context: cancelled}))
	require.Error(t, err)
	assert.Equal(t, errs.Interrupted, err.(*errs.RenderError).Kind)
	assert.True(t, errors.Is(err, context.Canceled))

	var seen []int64
	check := func(steps int64) error {
		seen = append(seen, steps)
		if steps == 2 {
			return fmt.Errorf("stop")
		}
		return nil
	}
	err = runtime.RenderTo(io.Discard, root, runtime.NewContext(nil, runtime.Options{Check: check}))
	require.Error(t, err)
	assert.Equal(t, []int64{1, 2}, seen)
	assert.Contains(t, err.Error(), "Render interrupted: stop")
}

type signalNode struct {
	signal runtime.Signal
	when   func(ctx *runtime.Context) bool
}

func (n *signalNode) Position() filepos.Position { return filepos.NewUnknownPosition() }

func (n *signalNode) Render(_ io.Writer, ctx *runtime.Context) (runtime.Signal, error) {
	if n.when(ctx) {
		return n.signal, nil
	}
	return runtime.None, nil
}

func TestLoopSignals(t *testing.T) {
	items := []value.Value{value.NewInt(1), value.NewInt(2), value.NewInt(3), value.NewInt(4)}
	itemIs := func(i int64) func(ctx *runtime.Context) bool {
		return func(ctx *runtime.Context) bool {
			val, _ := ctx.Lookup("item")
			n, _ := val.AsInt()
			return n == i
		}
	}

	body := &runtime.Sequence{Nodes: []runtime.Renderable{
		&signalNode{runtime.Continue, itemIs(2)},
		&runtime.Output{Expr: variable("item")},
		&signalNode{runtime.Break, itemIs(3)},
	}}

	var out bytes.Buffer
	ctx := runtime.NewContext(nil, runtime.Options{})
	require.NoError(t, runtime.Loop(&out, ctx, "item", items, body))
	assert.Equal(t, "13", out.String())

	_, found := ctx.Lookup("item")
	assert.False(t, found)
}

func TestForloopObject(t *testing.T) {
	ctx := runtime.NewContext(nil, runtime.Options{})
	body := &runtime.Sequence{Nodes: []runtime.Renderable{
		&runtime.Output{Expr: variable("forloop", "index")},
		text("/"),
		&runtime.Output{Expr: variable("forloop", "rindex0")},
		text("/"),
		&runtime.Output{Expr: variable("forloop", "last")},
		text(";"),
	}}

	var out bytes.Buffer
	require.NoError(t, runtime.Loop(&out, ctx, "x", []value.Value{value.Nil, value.Nil}, body))
	assert.Equal(t, "1/1/false;2/0/true;", out.String())
}

func TestSignalOutsideLoopFails(t *testing.T) {
	root := &runtime.Sequence{Nodes: []runtime.Renderable{
		&signalNode{runtime.Break, func(*runtime.Context) bool { return true }},
	}}
	err := runtime.RenderTo(io.Discard, root, runtime.NewContext(nil, runtime.Options{}))
	require.Error(t, err)
	assert.Equal(t, errs.Internal, err.(*errs.RenderError).Kind)
}

type failingNode struct {
	err   error
	panic bool
}

func (n *failingNode) Position() filepos.Position { return filepos.NewUnknownPosition() }

func (n *failingNode) Render(io.Writer, *runtime.Context) (runtime.Signal, error) {
	if n.panic {
		panic("boom")
	}
	return runtime.None, n.err
}

func TestTaggedWrapsFailures(t *testing.T) {
	pos := filepos.NewPositionAt("tpl", 4, 1, 5)
	ctx := runtime.NewContext(nil, runtime.Options{})

	cause := fmt.Errorf("bad input")
	_, err := (&runtime.Tagged{Name: "custom", Markup: "{% custom %}", Pos: pos, Node: &failingNode{err: cause}}).Render(io.Discard, ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "Tag 'custom': bad input\n    tpl:1:5\n    in {% custom %} (tpl:1:5)", err.Error())

	_, err = (&runtime.Tagged{Name: "custom", Markup: "{% custom %}", Pos: pos, Node: &failingNode{panic: true}}).Render(io.Discard, ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Tag 'custom': boom")
}

func TestRegisterIsPerContext(t *testing.T) {
	ctx := runtime.NewContext(nil, runtime.Options{})
	counter := ctx.Register("counter", func() interface{} { return new(int) }).(*int)
	*counter = 3
	assert.Equal(t, 3, *ctx.Register("counter", func() interface{} { return new(int) }).(*int))

	other := runtime.NewContext(nil, runtime.Options{})
	assert.Equal(t, 0, *other.Register("counter", func() interface{} { return new(int) }).(*int))
}

func TestTaggedKeepsWrappedRenderErrorKind(t *testing.T) {
	pos := filepos.NewPositionAt("tpl", 4, 1, 5)
	ctx := runtime.NewContext(nil, runtime.Options{})

	cause := fmt.Errorf("lookup: %w", errs.NewUndefinedVariableError("user.name", filepos.NewUnknownPosition()))
	_, err := (&runtime.Tagged{Name: "custom", Markup: "{% custom %}", Pos: pos, Node: &failingNode{err: cause}}).Render(io.Discard, ctx)
	require.Error(t, err)

	var renderErr *errs.RenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, errs.UndefinedVariable, renderErr.Kind)
	assert.Equal(t, "user.name", renderErr.Path)
	assert.Equal(t, pos, renderErr.Pos)
}

type setLocalNode struct {
	name string
	val  value.Value
	when func(ctx *runtime.Context) bool
}

func (n *setLocalNode) Position() filepos.Position { return filepos.NewUnknownPosition() }

func (n *setLocalNode) Render(_ io.Writer, ctx *runtime.Context) (runtime.Signal, error) {
	if n.when(ctx) {
		ctx.SetLocal(n.name, n.val)
	}
	return runtime.None, nil
}

func TestLoopScopeIsFreshPerIteration(t *testing.T) {
	items := []value.Value{value.NewInt(1), value.NewInt(2)}
	firstItem := func(ctx *runtime.Context) bool {
		val, _ := ctx.Lookup("item")
		n, _ := val.AsInt()
		return n == 1
	}

	body := &runtime.Sequence{Nodes: []runtime.Renderable{
		&setLocalNode{"tmp", value.NewString("leaked"), firstItem},
		&runtime.Output{Expr: variable("item")},
		text("="),
		&runtime.Output{Expr: variable("tmp")},
		text(";"),
	}}

	var out bytes.Buffer
	ctx := runtime.NewContext(nil, runtime.Options{})
	require.NoError(t, runtime.Loop(&out, ctx, "item", items, body))
	assert.Equal(t, "1=leaked;2=;", out.String())

	_, found := ctx.Lookup("tmp")
	assert.False(t, found)
}

package graph

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgridgo/internal/config"
	"github.com/vk/flowgridgo/internal/function"
	"github.com/vk/flowgridgo/internal/modifiers"
	"github.com/vk/flowgridgo/internal/node"
	"github.com/vk/flowgridgo/internal/registry"
)

func sourceFn(name string, value int64) *function.Func {
	return &function.Func{
		Name:   name,
		Return: cty.Number,
		Impl: func(map[string]cty.Value) (cty.Value, error) {
			return cty.NumberIntVal(value), nil
		},
	}
}

func passthroughFn(name, input string) *function.Func {
	return &function.Func{
		Name: name,
		Params: []function.Param{
			{Name: input, Type: cty.Number, Kind: function.PositionalOrKeyword},
		},
		Return: cty.Number,
		Impl: func(kwargs map[string]cty.Value) (cty.Value, error) {
			return kwargs[input], nil
		},
	}
}

func doubleFn() *function.Func {
	return &function.Func{
		Name: "double",
		Params: []function.Param{
			{Name: "x", Type: cty.Number, Kind: function.PositionalOrKeyword},
		},
		Return: cty.Number,
		Impl: func(kwargs map[string]cty.Value) (cty.Value, error) {
			v, _ := kwargs["x"].AsBigFloat().Float64()
			return cty.NumberFloatVal(v * 2), nil
		},
	}
}

func TestBuildPlainAndInjected(t *testing.T) {
	reg := registry.New()
	reg.RegisterFunc(sourceFn("raw", 3))
	reg.RegisterInjected(passthroughFn("result", "raw"), modifiers.NewPipe(
		modifiers.Apply(doubleFn(), nil),
	))

	g, err := Build(context.Background(), reg, config.Snapshot{})
	require.NoError(t, err)
	assert.Equal(t, 3, g.Len())

	_, ok := g.Node("raw")
	assert.True(t, ok)
	chained, ok := g.Node("result.with_double")
	require.True(t, ok)
	assert.Equal(t, []string{"raw"}, chained.InputNames())

	target, ok := g.Node("result")
	require.True(t, ok)
	assert.Equal(t, []string{"with_double"}, target.InputNames(),
		"the target's first input is remapped to the chain head")
}

func TestBuildRejectsDuplicateNodes(t *testing.T) {
	reg := registry.New()
	reg.RegisterFunc(sourceFn("raw", 1))
	reg.RegisterCreated(
		&function.Func{Name: "copy_of_raw", Return: cty.Number},
		collidingCreator{name: "raw"},
	)

	_, err := Build(context.Background(), reg, config.Snapshot{})
	assert.ErrorContains(t, err, `duplicate node "raw"`)
}

func TestBuildRejectsCycles(t *testing.T) {
	reg := registry.New()
	reg.RegisterFunc(passthroughFn("a", "b"))
	reg.RegisterFunc(passthroughFn("b", "a"))

	_, err := Build(context.Background(), reg, config.Snapshot{})
	assert.ErrorContains(t, err, "cycle detected")
}

func TestBuildPropagatesValidationFailure(t *testing.T) {
	reg := registry.New()
	stub := &function.Func{Name: "bad", Return: cty.Number}
	stub.Impl = func(map[string]cty.Value) (cty.Value, error) {
		return cty.NumberIntVal(0), nil
	}
	reg.RegisterCreated(stub, modifiers.NewDoes(doubleFn(), map[string]string{"x": "bad"}))

	_, err := Build(context.Background(), reg, config.Snapshot{})
	var invalid *modifiers.InvalidDecoratorError
	assert.ErrorAs(t, err, &invalid)
}

func TestRender(t *testing.T) {
	reg := registry.New()
	reg.RegisterFunc(sourceFn("raw", 3))
	reg.RegisterFunc(passthroughFn("result", "raw"))

	g, err := Build(context.Background(), reg, config.Snapshot{})
	require.NoError(t, err)

	var buf bytes.Buffer
	g.Render(&buf)
	out := buf.String()
	assert.Contains(t, out, "raw : number\n")
	assert.Contains(t, out, "result : number <- raw\n")
}

// collidingCreator synthesizes a node under a name that belongs to
// someone else, to exercise the uniqueness invariant.
type collidingCreator struct {
	name string
}

func (c collidingCreator) Validate(fn *function.Func) error { return nil }

func (c collidingCreator) GenerateNodes(ctx context.Context, fn *function.Func, cfg config.Snapshot) ([]*node.Node, error) {
	n := node.New(c.name, cty.Number, func(map[string]cty.Value) (cty.Value, error) {
		return cty.NumberIntVal(0), nil
	}, nil, nil)
	return []*node.Node{n}, nil
}

package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgridgo/internal/function"
)

func addFn() *function.Func {
	return &function.Func{
		Name:   "total",
		Module: "math",
		Params: []function.Param{
			{Name: "x", Type: cty.Number, Kind: function.PositionalOrKeyword},
			{Name: "y", Type: cty.Number, Kind: function.PositionalOrKeyword},
		},
		Return: cty.Number,
		Impl: func(kwargs map[string]cty.Value) (cty.Value, error) {
			x, _ := kwargs["x"].AsBigFloat().Float64()
			y, _ := kwargs["y"].AsBigFloat().Float64()
			return cty.NumberFloatVal(x + y), nil
		},
	}
}

func TestFromFunc(t *testing.T) {
	n := FromFunc(addFn())
	assert.Equal(t, "total", n.Name())
	assert.Equal(t, "total", n.QualifiedName())
	assert.True(t, n.Type().Equals(cty.Number))
	assert.Equal(t, map[string]string{"module": "math"}, n.Tags())
	assert.Equal(t, []string{"x", "y"}, n.InputNames())

	got, err := n.Callable()(map[string]cty.Value{
		"x": cty.NumberIntVal(1), "y": cty.NumberIntVal(2),
	})
	require.NoError(t, err)
	assert.True(t, got.RawEquals(cty.NumberFloatVal(3)))
}

func TestWithNameAndNamespace(t *testing.T) {
	n := FromFunc(addFn())
	renamed := n.WithName("with_total").WithNamespace("chain")

	assert.Equal(t, "chain.with_total", renamed.QualifiedName())
	assert.Equal(t, []string{"chain"}, renamed.Namespace())
	// The original is untouched.
	assert.Equal(t, "total", n.Name())
	assert.Empty(t, n.Namespace())
}

func TestReassignInputs(t *testing.T) {
	t.Run("renames upstream inputs", func(t *testing.T) {
		n := FromFunc(addFn()).ReassignInputs(map[string]string{"x": "upstream_x"}, nil)
		assert.Equal(t, []string{"upstream_x", "y"}, n.InputNames())

		got, err := n.Callable()(map[string]cty.Value{
			"upstream_x": cty.NumberIntVal(4), "y": cty.NumberIntVal(6),
		})
		require.NoError(t, err)
		assert.True(t, got.RawEquals(cty.NumberFloatVal(10)))
	})

	t.Run("bakes literals and removes the input", func(t *testing.T) {
		n := FromFunc(addFn()).ReassignInputs(nil, map[string]cty.Value{"y": cty.NumberIntVal(100)})
		assert.Equal(t, []string{"x"}, n.InputNames())

		got, err := n.Callable()(map[string]cty.Value{"x": cty.NumberIntVal(1)})
		require.NoError(t, err)
		assert.True(t, got.RawEquals(cty.NumberFloatVal(101)))
	})

	t.Run("rename and literal combine", func(t *testing.T) {
		n := FromFunc(addFn()).ReassignInputs(
			map[string]string{"x": "head"},
			map[string]cty.Value{"y": cty.NumberIntVal(1)},
		)
		assert.Equal(t, []string{"head"}, n.InputNames())

		got, err := n.Callable()(map[string]cty.Value{"head": cty.NumberIntVal(41)})
		require.NoError(t, err)
		assert.True(t, got.RawEquals(cty.NumberFloatVal(42)))
	})
}

package modifiers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgridgo/internal/config"
	"github.com/vk/flowgridgo/internal/function"
	"github.com/vk/flowgridgo/internal/series"
	"github.com/vk/flowgridgo/internal/transform"
)

func seriesStub(name string) *function.Func {
	return &function.Func{Name: name, Module: "testmod", Return: series.Type}
}

func weightsConfig() config.Snapshot {
	return config.Snapshot{
		"blend_weights": cty.ObjectVal(map[string]cty.Value{
			"left":  cty.NumberFloatVal(1),
			"right": cty.NumberFloatVal(2),
		}),
	}
}

func TestDynamicTransformValidate(t *testing.T) {
	dt := NewDynamicTransform(transform.NewWeightedSum, "blend_weights", nil)

	t.Run("valid stub passes", func(t *testing.T) {
		assert.NoError(t, dt.Validate(seriesStub("blended")))
	})

	t.Run("stub must be empty", func(t *testing.T) {
		stub := seriesStub("blended")
		stub.Impl = func(map[string]cty.Value) (cty.Value, error) {
			return series.Of(), nil
		}
		var invalid *InvalidDecoratorError
		require.ErrorAs(t, dt.Validate(stub), &invalid)
		assert.Equal(t, KindNotEmpty, invalid.Kind)
	})

	t.Run("return type must be a series", func(t *testing.T) {
		stub := &function.Func{Name: "blended", Return: cty.Number}
		var invalid *InvalidDecoratorError
		require.ErrorAs(t, dt.Validate(stub), &invalid)
		assert.Equal(t, KindInvalidReturnType, invalid.Kind)
	})

	t.Run("parameters are not allowed", func(t *testing.T) {
		stub := seriesStub("blended")
		stub.Params = []function.Param{
			{Name: "x", Type: series.Type, Kind: function.PositionalOrKeyword},
		}
		var invalid *InvalidDecoratorError
		require.ErrorAs(t, dt.Validate(stub), &invalid)
		assert.Equal(t, KindUnexpectedParameters, invalid.Kind)
	})
}

func TestDynamicTransformGenerateNodes(t *testing.T) {
	dt := NewDynamicTransform(transform.NewWeightedSum, "blend_weights", nil)
	stub := seriesStub("blended")
	require.NoError(t, dt.Validate(stub))

	t.Run("missing config key fails regardless of other keys", func(t *testing.T) {
		cfg := config.Snapshot{"unrelated": cty.True, "other": cty.NumberIntVal(7)}
		_, err := dt.GenerateNodes(context.Background(), stub, cfg)

		var invalid *InvalidDecoratorError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, KindMissingConfigKey, invalid.Kind)
	})

	t.Run("synthesizes one node from the transform", func(t *testing.T) {
		nodes, err := dt.GenerateNodes(context.Background(), stub, weightsConfig())
		require.NoError(t, err)
		require.Len(t, nodes, 1)

		n := nodes[0]
		assert.Equal(t, "blended", n.Name())
		assert.True(t, n.Type().Equals(series.Type))
		assert.Equal(t, []string{"left", "right"}, n.InputNames())
		for _, typ := range n.InputTypes() {
			assert.True(t, typ.Equals(series.Type))
		}
		assert.Equal(t, map[string]string{"module": "testmod"}, n.Tags())

		got, err := n.Callable()(map[string]cty.Value{
			"left":  series.Of(1, 2),
			"right": series.Of(10, 20),
		})
		require.NoError(t, err)
		assert.True(t, got.RawEquals(series.Of(21, 42)))
	})

	t.Run("factory failure propagates", func(t *testing.T) {
		cfg := config.Snapshot{"blend_weights": cty.StringVal("not weights")}
		_, err := dt.GenerateNodes(context.Background(), stub, cfg)
		assert.ErrorContains(t, err, "failed to construct transform")
	})
}

func TestDynamicTransformRequireConfig(t *testing.T) {
	dt := NewDynamicTransform(transform.NewWeightedSum, "blend_weights", nil)
	assert.Equal(t, []string{"blend_weights"}, dt.RequireConfig())
}

func TestModelBehavesLikeDynamicTransform(t *testing.T) {
	m := NewModel(transform.NewWeightedSum, "blend_weights", nil)
	stub := seriesStub("blended")
	require.NoError(t, m.Validate(stub))

	nodes, err := m.GenerateNodes(context.Background(), stub, weightsConfig())
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, []string{"blend_weights"}, m.RequireConfig())
}

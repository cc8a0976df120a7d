// Package scores is an example flow module: a small scoring dataflow that
// exercises each decorator the compiler offers. It declares a raw source,
// a chain that conditionally de-means and rescales it, a config-driven
// projection model, and a total computed by a replaced stub.
package scores

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgridgo/internal/depend"
	"github.com/vk/flowgridgo/internal/function"
	"github.com/vk/flowgridgo/internal/modifiers"
	"github.com/vk/flowgridgo/internal/registry"
	"github.com/vk/flowgridgo/internal/series"
	"github.com/vk/flowgridgo/internal/transform"
)

const moduleName = "scores"

// Module registers the scoring flow.
type Module struct{}

// Register wires the flow's declarations into the registry.
func (Module) Register(r *registry.Registry) {
	r.RegisterFunc(rawScores())
	r.RegisterInjected(adjustedScores(), modifiers.NewPipe(
		modifiers.Apply(deMean(), nil).
			When(map[string]cty.Value{"de_mean": cty.True}),
		modifiers.Apply(rescale(), map[string]depend.Dependency{
			"factor": depend.Value(cty.NumberIntVal(10)),
		}),
	))
	r.RegisterCreated(projectedScores(), modifiers.NewModel(
		transform.NewWeightedSum, "projection_weights", nil))
	r.RegisterCreated(totalScore(), modifiers.NewDoes(sumSeries(), map[string]string{
		"lhs": "adjusted_scores",
		"rhs": "projected_scores",
	}))
}

// rawScores is the flow's source series.
func rawScores() *function.Func {
	return &function.Func{
		Name:   "raw_scores",
		Module: moduleName,
		Doc:    "The unprocessed input scores.",
		Return: series.Type,
		Impl: func(map[string]cty.Value) (cty.Value, error) {
			return series.Of(4, 8, 12), nil
		},
	}
}

// adjustedScores is the chain target: its first parameter is expanded
// into the de-mean/rescale chain, and the function itself passes the
// chain's result through.
func adjustedScores() *function.Func {
	return &function.Func{
		Name:   "adjusted_scores",
		Module: moduleName,
		Doc:    "Raw scores after the configured adjustment chain.",
		Params: []function.Param{
			{Name: "raw_scores", Type: series.Type, Kind: function.PositionalOrKeyword},
		},
		Return: series.Type,
		Impl: func(kwargs map[string]cty.Value) (cty.Value, error) {
			return kwargs["raw_scores"], nil
		},
	}
}

// projectedScores is a stub backed by a weighted-sum model whose weights
// come from the projection_weights configuration key.
func projectedScores() *function.Func {
	return &function.Func{
		Name:   "projected_scores",
		Module: moduleName,
		Doc:    "Model projection over configured upstream series.",
		Return: series.Type,
	}
}

// totalScore is a stub whose behavior is replaced by sumSeries.
func totalScore() *function.Func {
	return &function.Func{
		Name:   "total_score",
		Module: moduleName,
		Doc:    "Sum of the adjusted and projected scores.",
		Params: []function.Param{
			{Name: "adjusted_scores", Type: series.Type, Kind: function.PositionalOrKeyword},
			{Name: "projected_scores", Type: series.Type, Kind: function.PositionalOrKeyword},
		},
		Return: series.Type,
	}
}

// deMean shifts a series so its mean is zero.
func deMean() *function.Func {
	return &function.Func{
		Name:   "de_mean",
		Module: moduleName,
		Params: []function.Param{
			{Name: "scores", Type: series.Type, Kind: function.PositionalOrKeyword},
		},
		Return: series.Type,
		Impl: func(kwargs map[string]cty.Value) (cty.Value, error) {
			vals, err := seriesFloats(kwargs["scores"])
			if err != nil {
				return cty.NilVal, err
			}
			var mean float64
			for _, v := range vals {
				mean += v
			}
			if len(vals) > 0 {
				mean /= float64(len(vals))
			}
			out := make([]float64, len(vals))
			for i, v := range vals {
				out[i] = v - mean
			}
			return series.Of(out...), nil
		},
	}
}

// rescale multiplies a series by a constant factor.
func rescale() *function.Func {
	return &function.Func{
		Name:   "rescale",
		Module: moduleName,
		Params: []function.Param{
			{Name: "scores", Type: series.Type, Kind: function.PositionalOrKeyword},
			{Name: "factor", Type: cty.Number, Kind: function.PositionalOrKeyword},
		},
		Return: series.Type,
		Impl: func(kwargs map[string]cty.Value) (cty.Value, error) {
			vals, err := seriesFloats(kwargs["scores"])
			if err != nil {
				return cty.NilVal, err
			}
			factor, _ := kwargs["factor"].AsBigFloat().Float64()
			out := make([]float64, len(vals))
			for i, v := range vals {
				out[i] = v * factor
			}
			return series.Of(out...), nil
		},
	}
}

// sumSeries adds two series element-wise. It is the delegate behind the
// total_score stub.
func sumSeries() *function.Func {
	return &function.Func{
		Name:   "sum_series",
		Module: moduleName,
		Params: []function.Param{
			{Name: "lhs", Type: series.Type, Kind: function.PositionalOrKeyword},
			{Name: "rhs", Type: series.Type, Kind: function.PositionalOrKeyword},
		},
		Return: series.Type,
		Impl: func(kwargs map[string]cty.Value) (cty.Value, error) {
			lhs, err := seriesFloats(kwargs["lhs"])
			if err != nil {
				return cty.NilVal, err
			}
			rhs, err := seriesFloats(kwargs["rhs"])
			if err != nil {
				return cty.NilVal, err
			}
			if len(lhs) != len(rhs) {
				return cty.NilVal, errLengthMismatch(len(lhs), len(rhs))
			}
			out := make([]float64, len(lhs))
			for i := range lhs {
				out[i] = lhs[i] + rhs[i]
			}
			return series.Of(out...), nil
		},
	}
}

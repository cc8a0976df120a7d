package transform

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgridgo/internal/series"
)

// WeightedSum combines its upstream series element-wise, scaling each by a
// weight taken from configuration. The configuration value must be an
// object or map from upstream name to number.
type WeightedSum struct {
	name    string
	weights map[string]cty.Value
	deps    []string
}

// NewWeightedSum is the Factory for WeightedSum. Extra declaration-time
// parameters are not used.
func NewWeightedSum(cfg cty.Value, name string, extra map[string]cty.Value) (Transform, error) {
	if cfg.IsNull() || !(cfg.Type().IsObjectType() || cfg.Type().IsMapType()) {
		return nil, fmt.Errorf("weighted sum %q: config must be an object of weights", name)
	}
	weights := make(map[string]cty.Value)
	deps := make([]string, 0)
	for it := cfg.ElementIterator(); it.Next(); {
		k, v := it.Element()
		dep := k.AsString()
		if !v.Type().Equals(cty.Number) {
			return nil, fmt.Errorf("weighted sum %q: weight for %q must be a number", name, dep)
		}
		weights[dep] = v
		deps = append(deps, dep)
	}
	if len(deps) == 0 {
		return nil, fmt.Errorf("weighted sum %q: config declares no upstream weights", name)
	}
	sort.Strings(deps)
	return &WeightedSum{name: name, weights: weights, deps: deps}, nil
}

// Dependents returns the weighted upstream names in sorted order.
func (w *WeightedSum) Dependents() []string {
	return append([]string(nil), w.deps...)
}

// Compute scales each upstream series by its weight and sums them
// element-wise. All upstream series must share the same length.
func (w *WeightedSum) Compute(kwargs map[string]cty.Value) (cty.Value, error) {
	var acc []*big.Float
	for _, dep := range w.deps {
		v, ok := kwargs[dep]
		if !ok {
			return cty.NilVal, fmt.Errorf("weighted sum %q: missing upstream value %q", w.name, dep)
		}
		elems, err := seriesElements(v)
		if err != nil {
			return cty.NilVal, fmt.Errorf("weighted sum %q: upstream %q: %w", w.name, dep, err)
		}
		if acc == nil {
			acc = make([]*big.Float, len(elems))
			for i := range acc {
				acc[i] = new(big.Float)
			}
		}
		if len(elems) != len(acc) {
			return cty.NilVal, fmt.Errorf("weighted sum %q: upstream %q has length %d, want %d",
				w.name, dep, len(elems), len(acc))
		}
		weight := w.weights[dep].AsBigFloat()
		for i, e := range elems {
			acc[i].Add(acc[i], new(big.Float).Mul(e, weight))
		}
	}
	out := make([]cty.Value, len(acc))
	for i, f := range acc {
		out[i] = cty.NumberVal(f)
	}
	if len(out) == 0 {
		return cty.ListValEmpty(cty.Number), nil
	}
	return cty.ListVal(out), nil
}

func seriesElements(v cty.Value) ([]*big.Float, error) {
	if v.IsNull() || !v.Type().Equals(series.Type) {
		return nil, fmt.Errorf("value is not a series")
	}
	var out []*big.Float
	for it := v.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		out = append(out, elem.AsBigFloat())
	}
	return out, nil
}

package scores

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgridgo/internal/series"
)

// seriesFloats unpacks a series value into native floats.
func seriesFloats(v cty.Value) ([]float64, error) {
	if v.IsNull() || !v.Type().Equals(series.Type) {
		return nil, fmt.Errorf("value is not a series")
	}
	var out []float64
	for it := v.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		f, _ := elem.AsBigFloat().Float64()
		out = append(out, f)
	}
	return out, nil
}

func errLengthMismatch(got, want int) error {
	return fmt.Errorf("series length mismatch: %d vs %d", got, want)
}

// Package series declares the structured-series value type used as the
// payload of config-driven transforms. A series is an ordered collection
// of numbers, represented as cty.List(cty.Number) so it composes with the
// rest of the cty-based type vocabulary.
package series

import "github.com/zclconf/go-cty/cty"

// Type is the recognized series type. Stub functions decorated with a
// config-driven transform must declare it as their return type.
var Type = cty.List(cty.Number)

// Of builds a series value from raw floats. An empty call yields the
// empty series rather than an invalid cty list.
func Of(vals ...float64) cty.Value {
	if len(vals) == 0 {
		return cty.ListValEmpty(cty.Number)
	}
	elems := make([]cty.Value, len(vals))
	for i, v := range vals {
		elems[i] = cty.NumberFloatVal(v)
	}
	return cty.ListVal(elems)
}

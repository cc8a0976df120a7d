// Package depend defines the dependency markers used when binding keyword
// arguments of an injected transform. A marker is a closed sum with exactly
// two variants: Upstream, referencing another node's output by name, and
// Literal, holding a constant value. Call sites that partition bindings
// switch exhaustively over the two variants.
package depend

import "github.com/zclconf/go-cty/cty"

// Dependency is the closed marker interface. Only Upstream and Literal
// implement it.
type Dependency interface {
	dependency()
}

// Upstream references the output of another node by name.
type Upstream struct {
	// Source is the name of the upstream node whose output is consumed.
	Source string
}

// Literal holds a constant value bound at declaration time.
type Literal struct {
	Value cty.Value
}

func (Upstream) dependency() {}
func (Literal) dependency()  {}

// Source marks a keyword binding as an upstream node reference.
func Source(name string) Upstream {
	return Upstream{Source: name}
}

// Value marks a keyword binding as a literal constant. Bindings that are
// not explicitly marked with Source are literals by default.
func Value(v cty.Value) Literal {
	return Literal{Value: v}
}

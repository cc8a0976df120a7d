// Package transform defines the contract for config-driven transforms: an
// object built from a configuration value that computes one series from a
// declared set of upstream series. The config-driven synthesizer turns a
// transform into a single graph node.
package transform

import (
	"github.com/zclconf/go-cty/cty"
)

// Transform is a computation whose shape is determined by configuration
// rather than by a function declaration.
type Transform interface {
	// Compute produces the transform's output from its upstream values,
	// keyed by the names returned from Dependents.
	Compute(kwargs map[string]cty.Value) (cty.Value, error)
	// Dependents lists the upstream node names this transform reads,
	// in a stable order.
	Dependents() []string
}

// Factory constructs a transform from a configuration value, the name of
// the node being synthesized, and any extra parameters bound at
// declaration time.
type Factory func(cfg cty.Value, name string, extra map[string]cty.Value) (Transform, error)

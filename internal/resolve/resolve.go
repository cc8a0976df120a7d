// Package resolve implements config resolvers: named predicates over a
// configuration snapshot that decide whether a conditional transform is
// included in the graph. Resolvers also declare which configuration keys
// they read, so callers can aggregate configuration requirements before a
// build starts.
package resolve

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgridgo/internal/config"
)

// Resolver is a predicate over a configuration snapshot plus the set of
// keys it depends on. The zero value resolves nothing; construct resolvers
// with the combinators in this package.
type Resolver struct {
	test     func(cfg config.Snapshot) bool
	optional map[string]cty.Value
}

// Resolves evaluates the predicate against the snapshot.
func (r Resolver) Resolves(cfg config.Snapshot) bool {
	if r.test == nil {
		return false
	}
	return r.test(cfg)
}

// OptionalConfig returns the configuration keys this resolver may read,
// mapped to a default value. cty.NilVal marks a key with no default.
func (r Resolver) OptionalConfig() map[string]cty.Value {
	out := make(map[string]cty.Value, len(r.optional))
	for k, v := range r.optional {
		out[k] = v
	}
	return out
}

// When resolves if every given key is present and equal to its value.
func When(pairs map[string]cty.Value) Resolver {
	return Resolver{
		test: func(cfg config.Snapshot) bool {
			for key, want := range pairs {
				if !cfg.Get(key).RawEquals(want) {
					return false
				}
			}
			return true
		},
		optional: noDefaults(keysOf(pairs)),
	}
}

// WhenNot resolves if every given key differs from its value. An absent
// key counts as differing.
func WhenNot(pairs map[string]cty.Value) Resolver {
	return Resolver{
		test: func(cfg config.Snapshot) bool {
			for key, reject := range pairs {
				if cfg.Get(key).RawEquals(reject) {
					return false
				}
			}
			return true
		},
		optional: noDefaults(keysOf(pairs)),
	}
}

// WhenIn resolves if every given key holds one of the listed values.
func WhenIn(groups map[string][]cty.Value) Resolver {
	return Resolver{
		test: func(cfg config.Snapshot) bool {
			for key, allowed := range groups {
				if !contains(allowed, cfg.Get(key)) {
					return false
				}
			}
			return true
		},
		optional: noDefaults(groupKeys(groups)),
	}
}

// WhenNotIn resolves if no given key holds one of the listed values: the
// exclude-if-present complement of WhenIn. An absent key passes.
func WhenNotIn(groups map[string][]cty.Value) Resolver {
	return Resolver{
		test: func(cfg config.Snapshot) bool {
			for key, rejected := range groups {
				if contains(rejected, cfg.Get(key)) {
					return false
				}
			}
			return true
		},
		optional: noDefaults(groupKeys(groups)),
	}
}

func contains(vals []cty.Value, v cty.Value) bool {
	for _, candidate := range vals {
		if candidate.RawEquals(v) {
			return true
		}
	}
	return false
}

func keysOf(pairs map[string]cty.Value) []string {
	out := make([]string, 0, len(pairs))
	for k := range pairs {
		out = append(out, k)
	}
	return out
}

func groupKeys(groups map[string][]cty.Value) []string {
	out := make([]string, 0, len(groups))
	for k := range groups {
		out = append(out, k)
	}
	return out
}

func noDefaults(keys []string) map[string]cty.Value {
	out := make(map[string]cty.Value, len(keys))
	for _, k := range keys {
		out[k] = cty.NilVal
	}
	return out
}

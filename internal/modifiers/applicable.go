package modifiers

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgridgo/internal/config"
	"github.com/vk/flowgridgo/internal/depend"
	"github.com/vk/flowgridgo/internal/function"
	"github.com/vk/flowgridgo/internal/resolve"
)

// Applicable pairs a delegate function with bound keyword arguments, the
// resolvers gating its inclusion, and an optional explicit output name.
// Applicables are immutable: every combinator returns a new, independent
// value, so one declaration can be reused across chains safely.
type Applicable struct {
	fn        *function.Func
	kwargs    map[string]depend.Dependency
	resolvers []resolve.Resolver
	name      string
}

// Apply is the factory for transform descriptors. It performs no
// validation; problems surface when the containing chain is built. Bound
// keyword values are dependency markers: wrap constants with depend.Value
// and upstream references with depend.Source.
func Apply(fn *function.Func, kwargs map[string]depend.Dependency) *Applicable {
	bound := make(map[string]depend.Dependency, len(kwargs))
	for k, v := range kwargs {
		bound[k] = v
	}
	return &Applicable{fn: fn, kwargs: bound}
}

// with returns a copy extended by one resolver.
func (a *Applicable) with(r resolve.Resolver) *Applicable {
	c := a.copy()
	c.resolvers = append(c.resolvers, r)
	return c
}

// When includes the descriptor only when every key equals its value.
func (a *Applicable) When(pairs map[string]cty.Value) *Applicable {
	return a.with(resolve.When(pairs))
}

// WhenNot includes the descriptor only when every key differs from its value.
func (a *Applicable) WhenNot(pairs map[string]cty.Value) *Applicable {
	return a.with(resolve.WhenNot(pairs))
}

// WhenIn includes the descriptor only when every key holds one of the
// listed values.
func (a *Applicable) WhenIn(groups map[string][]cty.Value) *Applicable {
	return a.with(resolve.WhenIn(groups))
}

// WhenNotIn includes the descriptor only when no key holds one of the
// listed values.
func (a *Applicable) WhenNotIn(groups map[string][]cty.Value) *Applicable {
	return a.with(resolve.WhenNotIn(groups))
}

// Named returns a copy whose synthesized node uses the given name instead
// of a derived one.
func (a *Applicable) Named(name string) *Applicable {
	c := a.copy()
	c.name = name
	return c
}

// ConfigElements returns every configuration key the descriptor's
// resolvers may read, in declaration order.
func (a *Applicable) ConfigElements() []string {
	var out []string
	for _, r := range a.resolvers {
		for key := range r.OptionalConfig() {
			out = append(out, key)
		}
	}
	return out
}

// resolves reports whether every resolver passes against the snapshot,
// short-circuiting on the first failure.
func (a *Applicable) resolves(cfg config.Snapshot) bool {
	for _, r := range a.resolvers {
		if !r.Resolves(cfg) {
			return false
		}
	}
	return true
}

func (a *Applicable) copy() *Applicable {
	kwargs := make(map[string]depend.Dependency, len(a.kwargs))
	for k, v := range a.kwargs {
		kwargs[k] = v
	}
	return &Applicable{
		fn:        a.fn,
		kwargs:    kwargs,
		resolvers: append([]resolve.Resolver(nil), a.resolvers...),
		name:      a.name,
	}
}

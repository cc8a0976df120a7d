package modifiers

import (
	"context"
	"sort"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgridgo/internal/config"
	"github.com/vk/flowgridgo/internal/ctxlog"
	"github.com/vk/flowgridgo/internal/function"
	"github.com/vk/flowgridgo/internal/node"
)

// Does replaces a stub function's behavior with a delegate. The stub keeps
// its name, return type and inputs; at compute time its arguments are
// remapped and handed to the delegate. The mapping runs from delegate
// parameter name to stub parameter name.
type Does struct {
	replacing       *function.Func
	argumentMapping map[string]string
}

// NewDoes builds the replacement decorator. argumentMapping may be nil
// when the two signatures already line up.
func NewDoes(replacing *function.Func, argumentMapping map[string]string) *Does {
	mapping := make(map[string]string, len(argumentMapping))
	for k, v := range argumentMapping {
		mapping[k] = v
	}
	return &Does{replacing: replacing, argumentMapping: mapping}
}

// ensureFuncEmpty fails unless the function is a stub with no behavior of
// its own: replacing real logic would silently discard it.
func ensureFuncEmpty(fn *function.Func) error {
	if !fn.IsEmpty() {
		return decoratorErr(KindNotEmpty, fn.Name,
			"stub must not carry an implementation of its own")
	}
	return nil
}

// MapKwargs rewrites a keyword-argument set through an argument mapping.
// For each mapping entry the stub-named value is copied to the delegate
// name; the stub-named key is then dropped, unless that delegate name is
// itself the source of a different entry, which would make the drop
// clobber a value that was just written. Entries are processed in sorted
// delegate-name order so the result is deterministic.
func MapKwargs(kwargs map[string]cty.Value, argumentMapping map[string]string) map[string]cty.Value {
	out := make(map[string]cty.Value, len(kwargs))
	for k, v := range kwargs {
		out[k] = v
	}
	sources := make(map[string]bool, len(argumentMapping))
	for _, stubName := range argumentMapping {
		sources[stubName] = true
	}
	delegateNames := make([]string, 0, len(argumentMapping))
	for name := range argumentMapping {
		delegateNames = append(delegateNames, name)
	}
	sort.Strings(delegateNames)
	for _, delegateName := range delegateNames {
		stubName := argumentMapping[delegateName]
		v, ok := kwargs[stubName]
		if !ok {
			// Nothing to remap; the delegate may still accept the name
			// through a variadic-keyword parameter.
			continue
		}
		if !sources[delegateName] {
			delete(out, stubName)
		}
		out[delegateName] = v
	}
	return out
}

// signaturesCompatible checks shape, not values: it builds a dummy
// argument set covering every stub parameter, remaps it, and asks the
// delegate's binder whether the result binds.
func signaturesCompatible(stub, replacing *function.Func, argumentMapping map[string]string) bool {
	dummy := make(map[string]cty.Value, len(stub.Params))
	for _, p := range stub.Params {
		dummy[p.Name] = cty.NilVal
	}
	mapped := MapKwargs(dummy, argumentMapping)
	names := make([]string, 0, len(mapped))
	for name := range mapped {
		names = append(names, name)
	}
	return replacing.Bind(names) == nil
}

// Validate checks that the stub is empty, that every stub parameter can
// be addressed by keyword, and that the remapped argument set binds
// against the delegate's signature.
func (d *Does) Validate(fn *function.Func) error {
	if err := ensureFuncEmpty(fn); err != nil {
		return err
	}
	var invalid []string
	for _, p := range fn.Params {
		if !p.Kind.KeywordFriendly() {
			invalid = append(invalid, p.Name)
		}
	}
	if len(invalid) > 0 {
		return decoratorErr(KindNonKeywordParameter, fn.Name,
			"parameters %v are not keyword-friendly", invalid)
	}
	if !signaturesCompatible(fn, d.replacing, d.argumentMapping) {
		return decoratorErr(KindIncompatibleSignature, fn.Name,
			"stub signature %s cannot be remapped onto delegate %q with signature %s using mapping %v; "+
				"adjust the delegate's signature or the mapping",
			fn.Signature(), d.replacing.Name, d.replacing.Signature(), d.argumentMapping)
	}
	return nil
}

// GenerateNodes returns exactly one node: the stub's own name, type and
// inputs, computed by the delegate. The stub's body is never executed. At
// compute time the callable starts from the stub's defaults, overlays the
// supplied arguments, remaps, and invokes the delegate.
func (d *Does) GenerateNodes(ctx context.Context, fn *function.Func, cfg config.Snapshot) ([]*node.Node, error) {
	ctxlog.FromContext(ctx).Debug("Synthesizing replacement node.",
		"stub", fn.Name, "delegate", d.replacing.Name)

	defaults := fn.Defaults()
	replacing := d.replacing
	mapping := d.argumentMapping
	wrapper := func(kwargs map[string]cty.Value) (cty.Value, error) {
		final := make(map[string]cty.Value, len(defaults)+len(kwargs))
		for k, v := range defaults {
			final[k] = v
		}
		for k, v := range kwargs {
			final[k] = v
		}
		return replacing.Call(MapKwargs(final, mapping))
	}
	return []*node.Node{node.FromFunc(fn).WithCallable(wrapper)}, nil
}

package modifiers

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgridgo/internal/config"
	"github.com/vk/flowgridgo/internal/ctxlog"
	"github.com/vk/flowgridgo/internal/depend"
	"github.com/vk/flowgridgo/internal/function"
	"github.com/vk/flowgridgo/internal/node"
)

// Pipe expands a target function's first parameter into a chain of nodes,
// one per included Applicable, each depending on the output of its
// predecessor. The chain's nodes live in a namespace equal to the target
// function's name, so sibling chains cannot collide. After the chain is
// built, the target's first parameter is remapped to the last node.
type Pipe struct {
	applies        []*Applicable
	groupAsOneNode bool
}

// NewPipe builds the chain composer from transform descriptors in
// declaration order.
func NewPipe(applies ...*Applicable) *Pipe {
	return &Pipe{applies: append([]*Applicable(nil), applies...)}
}

// GroupAsOneNode returns a copy requesting the whole chain be collapsed
// into a single opaque node. The option is declared but not implemented;
// building such a chain fails fast rather than silently running ungrouped.
func (p *Pipe) GroupAsOneNode() *Pipe {
	return &Pipe{applies: append([]*Applicable(nil), p.applies...), groupAsOneNode: true}
}

// Validate has nothing to check at declaration time; chain problems only
// surface against the dependency set supplied at build time.
func (p *Pipe) Validate(fn *function.Func) error {
	return nil
}

// InjectNodes runs the chain algorithm: walk the descriptors in order,
// skip any whose resolvers fail against the snapshot, and wire each
// included node's first parameter to the current chain head. Returns the
// chain nodes plus the remapping of the target's first parameter to the
// final head.
func (p *Pipe) InjectNodes(ctx context.Context, params map[string]cty.Type, cfg config.Snapshot, fn *function.Func) ([]*node.Node, map[string]string, error) {
	logger := ctxlog.FromContext(ctx)

	if p.groupAsOneNode {
		return nil, nil, decoratorErr(KindUnimplemented, fn.Name,
			"grouping a chain as one node is not yet implemented")
	}

	first, ok := fn.FirstParam()
	if !ok {
		return nil, nil, decoratorErr(KindInvalidChainTarget, fn.Name,
			"chain target declares no parameters")
	}
	if _, ok := params[first.Name]; !ok {
		return nil, nil, decoratorErr(KindInvalidChainTarget, fn.Name,
			"first parameter %q is not a recognized dependency; a chain can only extend "+
				"an upstream the graph already knows about", first.Name)
	}

	head := first.Name
	occurrences := make(map[string]int)
	var nodes []*node.Node
	for _, applicable := range p.applies {
		if !applicable.resolves(cfg) {
			logger.Debug("Skipping chain descriptor; resolver failed.",
				"target", fn.Name, "delegate", applicable.fn.Name)
			continue
		}

		delegate := applicable.fn
		delegateFirst, ok := delegate.FirstParam()
		if !ok {
			return nil, nil, decoratorErr(KindIncompatibleSignature, fn.Name,
				"chained delegate %q declares no parameters to receive the chain head", delegate.Name)
		}

		nodeName := applicable.name
		if nodeName == "" {
			nodeName = chainNodeName(delegate.Name, occurrences[delegate.Name])
		}
		occurrences[delegate.Name]++

		upstream := map[string]string{delegateFirst.Name: head}
		literals := map[string]cty.Value{}
		for _, dep := range sortedKwargNames(applicable.kwargs) {
			if dep == delegateFirst.Name {
				// The chain head always owns the first parameter.
				continue
			}
			switch v := applicable.kwargs[dep].(type) {
			case depend.Upstream:
				upstream[dep] = v.Source
			case depend.Literal:
				literals[dep] = v.Value
			default:
				return nil, nil, fmt.Errorf("unhandled dependency marker %T for %q", v, dep)
			}
		}

		chained := node.FromFunc(delegate).
			WithName(nodeName).
			WithNamespace(fn.Name).
			ReassignInputs(upstream, literals)
		nodes = append(nodes, chained)
		head = nodeName
	}

	logger.Debug("Chain composed.", "target", fn.Name,
		"declared", len(p.applies), "included", len(nodes), "head", head)
	return nodes, map[string]string{first.Name: head}, nil
}

// chainNodeName derives the output name for the n-th included occurrence
// of a delegate: with_<name>, suffixed _<n> for repeats. The underscore
// separator is only inserted when the delegate name does not already
// start with one.
func chainNodeName(fnName string, occurrence int) string {
	sep := "_"
	if strings.HasPrefix(fnName, "_") {
		sep = ""
	}
	name := "with" + sep + fnName
	if occurrence > 0 {
		name = fmt.Sprintf("%s_%d", name, occurrence)
	}
	return name
}

// OptionalConfig aggregates, across every descriptor and resolver, the
// configuration keys that may influence inclusion, mapped to their
// defaults (cty.NilVal when there is none).
func (p *Pipe) OptionalConfig() map[string]cty.Value {
	out := make(map[string]cty.Value)
	for _, applicable := range p.applies {
		for _, r := range applicable.resolvers {
			for key, def := range r.OptionalConfig() {
				out[key] = def
			}
		}
	}
	return out
}

func sortedKwargNames(kwargs map[string]depend.Dependency) []string {
	out := make([]string, 0, len(kwargs))
	for k := range kwargs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

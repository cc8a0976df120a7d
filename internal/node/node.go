// Package node defines the unit of computation in the dependency graph.
// A Node pairs a name with a declared output type, the callable that
// computes the value, and the names and types of its inputs. Nodes are
// immutable: every modification returns a fresh copy, so a half-built
// graph can be discarded without unwinding shared state.
package node

import (
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgridgo/internal/function"
)

// Node is a single named computation in the graph.
type Node struct {
	name       string
	namespace  []string
	typ        cty.Type
	doc        string
	callable   function.Callable
	inputTypes map[string]cty.Type
	tags       map[string]string
}

// New constructs a node from its parts. The input maps are copied.
func New(name string, typ cty.Type, callable function.Callable, inputTypes map[string]cty.Type, tags map[string]string) *Node {
	return &Node{
		name:       name,
		typ:        typ,
		callable:   callable,
		inputTypes: copyTypes(inputTypes),
		tags:       copyTags(tags),
	}
}

// FromFunc builds a node directly from a declared function: the node takes
// the function's name, return type, keyword-friendly parameters as inputs,
// and the function itself as the callable. The declaring module becomes a
// default tag.
func FromFunc(fn *function.Func) *Node {
	tags := map[string]string{}
	if fn.Module != "" {
		tags["module"] = fn.Module
	}
	n := New(fn.Name, fn.Return, fn.Call, fn.InputTypes(), tags)
	n.doc = fn.Doc
	return n
}

// Name returns the node's name, unique within its namespace.
func (n *Node) Name() string { return n.name }

// Namespace returns the node's scope prefix; empty for top-level nodes.
func (n *Node) Namespace() []string {
	return append([]string(nil), n.namespace...)
}

// QualifiedName joins the namespace and name into the node's graph-wide key.
func (n *Node) QualifiedName() string {
	if len(n.namespace) == 0 {
		return n.name
	}
	return strings.Join(n.namespace, ".") + "." + n.name
}

// Type returns the node's declared output type.
func (n *Node) Type() cty.Type { return n.typ }

// Doc returns the node's documentation string.
func (n *Node) Doc() string { return n.doc }

// Callable returns the function invoked to compute the node's value.
func (n *Node) Callable() function.Callable { return n.callable }

// InputTypes returns a copy of the mapping from input name to expected type.
func (n *Node) InputTypes() map[string]cty.Type {
	return copyTypes(n.inputTypes)
}

// InputNames returns the node's input names in sorted order.
func (n *Node) InputNames() []string {
	out := make([]string, 0, len(n.inputTypes))
	for k := range n.inputTypes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Tags returns a copy of the node's tags.
func (n *Node) Tags() map[string]string {
	return copyTags(n.tags)
}

// WithName returns a copy of the node under a different name.
func (n *Node) WithName(name string) *Node {
	c := n.clone()
	c.name = name
	return c
}

// WithNamespace returns a copy of the node placed in the given namespace.
func (n *Node) WithNamespace(segments ...string) *Node {
	c := n.clone()
	c.namespace = append([]string(nil), segments...)
	return c
}

// WithCallable returns a copy of the node whose behavior is replaced.
func (n *Node) WithCallable(callable function.Callable) *Node {
	c := n.clone()
	c.callable = callable
	return c
}

// WithDoc returns a copy of the node with the given documentation string.
func (n *Node) WithDoc(doc string) *Node {
	c := n.clone()
	c.doc = doc
	return c
}

// ReassignInputs returns a copy of the node with its inputs rewired.
// Entries in names rename an input to draw from a different upstream
// source; entries in values remove an input entirely and bake the constant
// into the callable. The callable of the copy translates incoming
// arguments back to the original parameter names before delegating.
func (n *Node) ReassignInputs(names map[string]string, values map[string]cty.Value) *Node {
	c := n.clone()

	inputs := make(map[string]cty.Type, len(n.inputTypes))
	for param, typ := range n.inputTypes {
		if renamed, ok := names[param]; ok {
			inputs[renamed] = typ
			continue
		}
		if _, ok := values[param]; ok {
			continue
		}
		inputs[param] = typ
	}
	c.inputTypes = inputs

	orig := n.inputTypes
	inner := n.callable
	c.callable = func(kwargs map[string]cty.Value) (cty.Value, error) {
		mapped := make(map[string]cty.Value, len(orig))
		for param := range orig {
			if renamed, ok := names[param]; ok {
				if v, ok := kwargs[renamed]; ok {
					mapped[param] = v
				}
				continue
			}
			if v, ok := values[param]; ok {
				mapped[param] = v
				continue
			}
			if v, ok := kwargs[param]; ok {
				mapped[param] = v
			}
		}
		// Literals addressed at parameters the node never declared still
		// reach the callable, which may collect them variadically.
		for k, v := range values {
			if _, ok := orig[k]; !ok {
				mapped[k] = v
			}
		}
		return inner(mapped)
	}
	return c
}

func (n *Node) clone() *Node {
	return &Node{
		name:       n.name,
		namespace:  append([]string(nil), n.namespace...),
		typ:        n.typ,
		doc:        n.doc,
		callable:   n.callable,
		inputTypes: copyTypes(n.inputTypes),
		tags:       copyTags(n.tags),
	}
}

func copyTypes(in map[string]cty.Type) map[string]cty.Type {
	out := make(map[string]cty.Type, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copyTags(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

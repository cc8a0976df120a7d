// Package graph assembles registered flow declarations into a validated
// dependency graph fragment. It consumes the build-time surface of the
// modifiers package, enforces node-name uniqueness, links inputs to their
// producing nodes, and rejects cyclic wiring before anything executes.
package graph

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/vk/flowgridgo/internal/node"
)

// Graph is the assembled set of nodes, keyed by qualified name. A Graph
// is built once and read-only afterwards.
type Graph struct {
	nodes map[string]*node.Node
	order []string
}

// newGraph creates an empty graph.
func newGraph() *Graph {
	return &Graph{nodes: make(map[string]*node.Node)}
}

// add inserts a node, enforcing the (namespace, name) uniqueness
// invariant for the build pass.
func (g *Graph) add(n *node.Node) error {
	key := n.QualifiedName()
	if _, exists := g.nodes[key]; exists {
		return fmt.Errorf("duplicate node %q in graph", key)
	}
	g.nodes[key] = n
	g.order = append(g.order, key)
	return nil
}

// Node looks a node up by qualified name.
func (g *Graph) Node(qualifiedName string) (*node.Node, bool) {
	n, ok := g.nodes[qualifiedName]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*node.Node {
	out := make([]*node.Node, 0, len(g.order))
	for _, key := range g.order {
		out = append(out, g.nodes[key])
	}
	return out
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// dependencyKeys resolves a node's input names to the qualified names of
// producing nodes. An input resolves to a sibling in the same namespace
// first, then to a node of that name anywhere in the graph if exactly one
// exists. Inputs with no producer are external and contribute no edge.
func (g *Graph) dependencyKeys(n *node.Node) []string {
	var out []string
	ns := n.Namespace()
	for _, input := range n.InputNames() {
		if len(ns) > 0 {
			sibling := strings.Join(ns, ".") + "." + input
			if _, ok := g.nodes[sibling]; ok {
				out = append(out, sibling)
				continue
			}
		}
		if _, ok := g.nodes[input]; ok {
			out = append(out, input)
			continue
		}
		if key, ok := g.uniqueByName(input); ok {
			out = append(out, key)
		}
	}
	return out
}

// uniqueByName finds the single node with the given bare name, if there
// is exactly one. Ambiguous names resolve to nothing.
func (g *Graph) uniqueByName(name string) (string, bool) {
	var found string
	for key, n := range g.nodes {
		if n.Name() != name {
			continue
		}
		if found != "" {
			return "", false
		}
		found = key
	}
	return found, found != ""
}

// detectCycles runs a depth-first search with permanent and temporary
// marks over the resolved dependency edges, failing on the first cycle.
func (g *Graph) detectCycles() error {
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)

	keys := append([]string(nil), g.order...)
	sort.Strings(keys)

	var visit func(key string) error
	visit = func(key string) error {
		if permanent[key] {
			return nil
		}
		if temporary[key] {
			return fmt.Errorf("cycle detected involving node %q", key)
		}
		temporary[key] = true
		for _, dep := range g.dependencyKeys(g.nodes[key]) {
			if err := visit(dep); err != nil {
				return err
			}
		}
		delete(temporary, key)
		permanent[key] = true
		return nil
	}

	for _, key := range keys {
		if !permanent[key] {
			if err := visit(key); err != nil {
				return err
			}
		}
	}
	return nil
}

// Render writes a human-readable listing of the graph: each node's
// qualified name, declared type and inputs, in insertion order.
func (g *Graph) Render(w io.Writer) {
	for _, n := range g.Nodes() {
		inputs := n.InputNames()
		if len(inputs) == 0 {
			fmt.Fprintf(w, "%s : %s\n", n.QualifiedName(), n.Type().FriendlyName())
			continue
		}
		fmt.Fprintf(w, "%s : %s <- %s\n", n.QualifiedName(), n.Type().FriendlyName(),
			strings.Join(inputs, ", "))
	}
}

package modifiers

import (
	"context"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgridgo/internal/config"
	"github.com/vk/flowgridgo/internal/function"
	"github.com/vk/flowgridgo/internal/node"
)

// NodeCreator is a decorator that replaces a declared function with one or
// more synthesized nodes.
type NodeCreator interface {
	// Validate checks the decorated declaration, failing with an
	// *InvalidDecoratorError when the decorator cannot legally apply.
	Validate(fn *function.Func) error
	// GenerateNodes synthesizes the nodes standing in for the declaration.
	GenerateNodes(ctx context.Context, fn *function.Func, cfg config.Snapshot) ([]*node.Node, error)
}

// NodeInjector is a decorator that inserts nodes between a function and
// its declared dependencies, remapping some of the function's inputs to
// the injected nodes.
type NodeInjector interface {
	Validate(fn *function.Func) error
	// InjectNodes receives the function's declared upstream dependencies
	// and returns the injected nodes plus a remapping from parameter name
	// to its replacement dependency name.
	InjectNodes(ctx context.Context, params map[string]cty.Type, cfg config.Snapshot, fn *function.Func) ([]*node.Node, map[string]string, error)
}

// ConfigRequirer is implemented by decorators that consume required
// configuration keys, so requirements can be aggregated before a build.
type ConfigRequirer interface {
	RequireConfig() []string
}

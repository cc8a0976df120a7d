package graph

import (
	"context"
	"fmt"

	"github.com/vk/flowgridgo/internal/config"
	"github.com/vk/flowgridgo/internal/ctxlog"
	"github.com/vk/flowgridgo/internal/node"
	"github.com/vk/flowgridgo/internal/registry"
)

// Build compiles every registered declaration into a validated graph.
// Each entry is validated and synthesized in registration order; any
// failure aborts the build and the partial graph is discarded.
func Build(ctx context.Context, reg *registry.Registry, cfg config.Snapshot) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: starting graph construction.")

	g := newGraph()
	for _, entry := range reg.Entries() {
		nodes, err := expandEntry(ctx, entry, cfg)
		if err != nil {
			return nil, err
		}
		for _, n := range nodes {
			if err := g.add(n); err != nil {
				return nil, err
			}
		}
	}
	logger.Debug("Build: node synthesis complete.", "node_count", g.Len())

	if err := g.detectCycles(); err != nil {
		return nil, fmt.Errorf("error validating dependency graph: %w", err)
	}
	logger.Debug("Build: cycle detection passed.")
	return g, nil
}

// expandEntry turns one registered declaration into its nodes.
func expandEntry(ctx context.Context, entry *registry.Entry, cfg config.Snapshot) ([]*node.Node, error) {
	switch {
	case entry.Creator != nil:
		if err := entry.Creator.Validate(entry.Fn); err != nil {
			return nil, err
		}
		return entry.Creator.GenerateNodes(ctx, entry.Fn, cfg)

	case entry.Injector != nil:
		if err := entry.Injector.Validate(entry.Fn); err != nil {
			return nil, err
		}
		params := entry.Fn.InputTypes()
		injected, remap, err := entry.Injector.InjectNodes(ctx, params, cfg, entry.Fn)
		if err != nil {
			return nil, err
		}
		// The target function becomes a node of its own, consuming the
		// chain's final head in place of its original first input.
		target := node.FromFunc(entry.Fn).ReassignInputs(remap, nil)
		return append(injected, target), nil

	default:
		return []*node.Node{node.FromFunc(entry.Fn)}, nil
	}
}

// Package config defines the configuration snapshot consumed during graph
// build, and a loader that reads one from an HCL file of top-level
// attributes. A snapshot is resolved once before the build starts and is
// never mutated while nodes are being synthesized.
package config

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgridgo/internal/ctxlog"
)

// Snapshot is a resolved configuration: a flat mapping from key to value.
type Snapshot map[string]cty.Value

// Has reports whether the snapshot contains the given key.
func (s Snapshot) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Get returns the value for key, or cty.NilVal when the key is absent.
func (s Snapshot) Get(key string) cty.Value {
	if v, ok := s[key]; ok {
		return v
	}
	return cty.NilVal
}

// Load reads a snapshot from an HCL file consisting of top-level
// attributes. Expressions are evaluated without any variable scope, so
// only literal values (and constant expressions over them) are accepted.
func Load(ctx context.Context, path string) (Snapshot, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading configuration snapshot.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to read config attributes from %s: %w", path, diags)
	}

	snapshot := make(Snapshot, len(attrs))
	for name, attr := range attrs {
		value, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to evaluate config attribute %q: %w", name, diags)
		}
		snapshot[name] = value
	}

	logger.Debug("Configuration snapshot loaded.", "keys", len(snapshot))
	return snapshot, nil
}

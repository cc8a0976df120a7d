package modifiers

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgridgo/internal/config"
	"github.com/vk/flowgridgo/internal/ctxlog"
	"github.com/vk/flowgridgo/internal/function"
	"github.com/vk/flowgridgo/internal/node"
	"github.com/vk/flowgridgo/internal/series"
	"github.com/vk/flowgridgo/internal/transform"
)

// DynamicTransform synthesizes a single node from a transform object built
// out of a configuration value. The decorated stub declares nothing but a
// name and a series return type; every input arrives via configuration.
type DynamicTransform struct {
	factory     transform.Factory
	configParam string
	extra       map[string]cty.Value
}

// NewDynamicTransform binds a transform factory to the configuration key
// holding its construction value. Extra parameters are passed through to
// the factory at build time.
func NewDynamicTransform(factory transform.Factory, configParam string, extra map[string]cty.Value) *DynamicTransform {
	extraCopy := make(map[string]cty.Value, len(extra))
	for k, v := range extra {
		extraCopy[k] = v
	}
	return &DynamicTransform{factory: factory, configParam: configParam, extra: extraCopy}
}

// Validate checks that the stub is empty, returns the series type, and
// declares no parameters.
func (t *DynamicTransform) Validate(fn *function.Func) error {
	if err := ensureFuncEmpty(fn); err != nil {
		return err
	}
	if !fn.Return.Equals(series.Type) {
		return decoratorErr(KindInvalidReturnType, fn.Name,
			"config-driven transforms must declare a %s return type, got %s",
			series.Type.FriendlyName(), fn.Return.FriendlyName())
	}
	if len(fn.Params) > 0 {
		return decoratorErr(KindUnexpectedParameters, fn.Name,
			"config-driven transforms must declare no parameters; all inputs arrive via configuration")
	}
	return nil
}

// GenerateNodes constructs the transform from the configuration value and
// returns one node named after the stub, computing the transform and
// depending on each of the transform's dependents as a series input.
func (t *DynamicTransform) GenerateNodes(ctx context.Context, fn *function.Func, cfg config.Snapshot) ([]*node.Node, error) {
	logger := ctxlog.FromContext(ctx)
	if !cfg.Has(t.configParam) {
		return nil, decoratorErr(KindMissingConfigKey, fn.Name,
			"configuration has no key %q; did you define it, and spell it right?", t.configParam)
	}
	built, err := t.factory(cfg.Get(t.configParam), fn.Name, t.extra)
	if err != nil {
		return nil, fmt.Errorf("failed to construct transform for %q: %w", fn.Name, err)
	}

	deps := built.Dependents()
	inputTypes := make(map[string]cty.Type, len(deps))
	for _, dep := range deps {
		inputTypes[dep] = series.Type
	}
	logger.Debug("Synthesized config-driven transform node.",
		"name", fn.Name, "config_key", t.configParam, "dependents", len(deps))

	tags := map[string]string{}
	if fn.Module != "" {
		tags["module"] = fn.Module
	}
	n := node.New(fn.Name, fn.Return, built.Compute, inputTypes, tags).WithDoc(fn.Doc)
	return []*node.Node{n}, nil
}

// RequireConfig reports the single configuration key this decorator
// consumes.
func (t *DynamicTransform) RequireConfig() []string {
	return []string{t.configParam}
}

// Model is a DynamicTransform under the name the modeling side of the
// house uses: its first argument is a model class rather than a generic
// transform. Behavior is identical.
type Model struct {
	DynamicTransform
}

// NewModel binds a model factory to its configuration key.
func NewModel(modelFactory transform.Factory, configParam string, extra map[string]cty.Value) *Model {
	return &Model{DynamicTransform: *NewDynamicTransform(modelFactory, configParam, extra)}
}

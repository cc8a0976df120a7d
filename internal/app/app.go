// Package app wires the compiler together: it configures logging, loads
// the configuration snapshot, registers flow modules, builds the graph,
// and renders the result.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/flowgridgo/internal/config"
	"github.com/vk/flowgridgo/internal/ctxlog"
	"github.com/vk/flowgridgo/internal/graph"
	"github.com/vk/flowgridgo/internal/registry"
)

// Config holds everything an App instance needs to run.
type Config struct {
	ConfigPath string
	LogFormat  string
	LogLevel   string
}

// App encapsulates the application's dependencies and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	config   *Config
}

// NewApp constructs the application with its own isolated logger and
// registry, populated from the given flow modules.
func NewApp(outW io.Writer, appConfig *Config, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	reg := registry.New()
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("Flow modules registered.", "count", len(modules))

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		config:   appConfig,
	}
}

// Run loads the configuration snapshot, compiles the registered flows
// into a graph, and renders it to the output writer.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	snapshot := config.Snapshot{}
	if a.config.ConfigPath != "" {
		loaded, err := config.Load(ctx, a.config.ConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		snapshot = loaded
	}

	if required := a.registry.RequiredConfig(); len(required) > 0 {
		a.logger.Debug("Registered decorators require configuration keys.", "keys", required)
	}

	g, err := graph.Build(ctx, a.registry, snapshot)
	if err != nil {
		return fmt.Errorf("failed to build dependency graph: %w", err)
	}
	a.logger.Info("Dependency graph built.", "node_count", g.Len())

	g.Render(a.outW)
	a.logger.Debug("App.Run method finished.")
	return nil
}

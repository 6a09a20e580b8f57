package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/dgraph/internal/ctxlog"
	"github.com/vk/dgraph/internal/graph"
)

// App wires configuration, logging, declaration loading, and graph
// evaluation into one run, decoupled from any specific entrypoint like a
// CLI.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
}

// NewApp returns a fully initialized App, including its own isolated
// logger. Log records go to stderr so that outW carries only the JSON
// state.
func NewApp(outW io.Writer, config *Config) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, os.Stderr)
	return &App{outW: outW, logger: logger, config: config}
}

// Run loads the configured graph and template declarations and input
// values, evaluates the graph to a fixpoint, and writes the resulting
// state to outW as indented JSON.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("app run started")

	decls, err := loadDeclarations(a.config.GraphDefinitions)
	if err != nil {
		return fmt.Errorf("loading graph definitions: %w", err)
	}
	templates, err := loadDeclarations(a.config.Templates)
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}
	decls = append(decls, templates...)
	a.logger.Debug("declarations loaded", "count", len(decls))

	if err := resolveAsyncSockets(decls); err != nil {
		return fmt.Errorf("resolving async socket sources: %w", err)
	}

	inputs, err := loadInputs(a.config.InputsPath)
	if err != nil {
		return fmt.Errorf("loading inputs: %w", err)
	}
	a.logger.Debug("inputs loaded", "count", len(inputs))

	g, err := graph.New(decls, "root", nil, a.graphOptions()...)
	if err != nil {
		return fmt.Errorf("building graph: %w", err)
	}

	state, err := g.Run(ctx, inputs)
	if err != nil {
		return fmt.Errorf("evaluating graph: %w", err)
	}
	a.logger.Debug("app run finished")

	enc := json.NewEncoder(a.outW)
	enc.SetIndent("", "  ")
	return enc.Encode(state)
}

func (a *App) graphOptions() []graph.Option {
	opts := []graph.Option{graph.WithLogger(a.logger)}
	if a.config.EchoInputs {
		opts = append(opts, graph.WithEchoInputs())
	}
	if a.config.EchoTemplates {
		opts = append(opts, graph.WithEchoTemplates())
	}
	if a.config.LogUndefinedPaths {
		opts = append(opts, graph.WithLogUndefinedPaths())
	}
	if a.config.LogLiterals {
		opts = append(opts, graph.WithLogLiterals())
	}
	return opts
}

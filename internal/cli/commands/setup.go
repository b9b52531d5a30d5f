// Package commands implements the strukt subcommands.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/strukturlabs/strukt/internal/cli/output"
	"github.com/strukturlabs/strukt/internal/config"
	"github.com/strukturlabs/strukt/pkg/algebra"
	"github.com/strukturlabs/strukt/pkg/funktion"
)

// depsKey stores command dependencies in the command context.
type depsKey struct{}

// Deps holds the shared dependencies commands pull from their context.
type Deps struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// WithDeps attaches dependencies to a context; the root command calls
// this once after loading configuration.
func WithDeps(ctx context.Context, d *Deps) context.Context {
	return context.WithValue(ctx, depsKey{}, d)
}

// DepsFrom extracts dependencies from the command context, falling
// back to defaults so commands stay usable in isolation (tests).
func DepsFrom(cmd *cobra.Command) *Deps {
	if d, ok := cmd.Context().Value(depsKey{}).(*Deps); ok && d != nil {
		return d
	}
	cfg := config.Default()
	return &Deps{
		Cfg:      cfg,
		Logger:   slog.Default(),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}

// rootOptions maps configuration onto root-computation options.
func rootOptions(cfg *config.Config) funktion.RootOptions {
	opts := funktion.DefaultRootOptions()
	opts.OnlyReal = cfg.OnlyReal
	opts.RoundTo = cfg.RoundTo
	if cfg.RootWindow > 0 {
		opts.Window = cfg.RootWindow
	}
	return opts
}

// loadExpression reads an expression document: from stdin when the
// argument is "-", from a file when the argument names one, otherwise
// treating the argument as an inline JSON document.
func loadExpression(arg string) (algebra.Expr, error) {
	var data []byte
	switch {
	case arg == "-":
		var err error
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read expression from stdin: %w", err)
		}
	case fileExists(arg):
		var err error
		data, err = os.ReadFile(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to read expression file: %w", err)
		}
	default:
		data = []byte(arg)
	}
	return algebra.FromJSON(data)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// buildFunction loads the expression argument and constructs the typed
// function with the configured settings.
func buildFunction(cmd *cobra.Command, arg string) (*funktion.Function, *Deps, error) {
	deps := DepsFrom(cmd)
	expr, err := loadExpression(arg)
	if err != nil {
		return nil, deps, err
	}
	fn, err := funktion.New(expr,
		funktion.WithLogger(deps.Logger),
		funktion.WithCacheCapacity(deps.Cfg.CacheCapacity),
	)
	if err != nil {
		return nil, deps, err
	}
	return fn, deps, nil
}

// Package cli provides the command-line interface for strukt.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/strukturlabs/strukt/internal/cli/commands"
	"github.com/strukturlabs/strukt/internal/cli/output"
	"github.com/strukturlabs/strukt/internal/config"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "strukt",
		Short: "strukt - structural analysis for symbolic functions",
		Long: `strukt classifies symbolic functions by their algebraic shape,
decomposes them into typed components, computes zero sets with
multiplicities, and differentiates with bounded memoization.

Expressions are given as JSON documents in the backend encoding.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger := newLogger(cfg)
			renderer := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
			cmd.SetContext(commands.WithDeps(cmd.Context(), &commands.Deps{
				Cfg:      cfg,
				Logger:   logger,
				Renderer: renderer,
			}))

			if cfg.Verbose {
				if configFile := config.ConfigFileUsed(); configFile != "" {
					fmt.Fprintf(os.Stderr, "Using config file: %s\n", configFile)
				}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags; names map onto config keys with
	// dashes replaced by underscores.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./strukt.yaml)")
	rootCmd.PersistentFlags().Int("cache-capacity", config.DefaultCacheCapacity, "Derivative-cache capacity per function")
	rootCmd.PersistentFlags().String("log-level", config.DefaultLogLevel, "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", config.DefaultOutputFormat, "Output format (text|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(commands.NewRootsCommand())
	rootCmd.AddCommand(commands.NewDeriveCommand())
	rootCmd.AddCommand(commands.NewEvalCommand())

	return rootCmd
}

// newLogger builds the process logger from the configured level.
func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

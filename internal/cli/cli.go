// Package cli implements the crate2nix command-line interface.
//
// This package provides commands for generating derivation descriptors
// from Cargo workspaces, inspecting and visualizing the result, and
// managing the metadata cache. The CLI is built using cobra and supports
// verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - generate: Run the metadata query and emit derivation descriptors
//   - graph: Render a generated descriptor set as DOT or SVG
//   - inspect: Browse a generated descriptor set interactively
//   - cache: Manage the metadata cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers
// are passed through context.Context; every invocation is tagged with a
// short run id so interleaved CI logs stay attributable.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AlyamanMas/crate2nix/pkg/buildinfo"
)

// appName is the application name used for directories and display.
const appName = "crate2nix"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger writing to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "crate2nix turns resolved Cargo dependency graphs into derivation descriptors",
		Long:         `crate2nix queries the resolved dependency graph of a Cargo workspace and flattens it into per-crate derivation descriptors for a downstream build-description generator.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			runID := uuid.NewString()[:8]
			ctx := withLogger(cmd.Context(), c.Logger.With("run", runID))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

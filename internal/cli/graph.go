package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AlyamanMas/crate2nix/pkg/errors"
	pkgio "github.com/AlyamanMas/crate2nix/pkg/io"
	"github.com/AlyamanMas/crate2nix/pkg/render"
)

// Output formats accepted by --format.
const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	output    string // output file path (stdout if empty)
	format    string // output format: dot or svg
	detailed  bool   // include version and edition in node labels
	buildDeps bool   // include build-dependency edges
}

// graphCommand creates the graph command for rendering descriptor sets.
func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{format: formatDOT}

	cmd := &cobra.Command{
		Use:   "graph [file]",
		Short: "Render a descriptor set as a dependency graph",
		Long: `Render a generated descriptor set as a Graphviz dependency graph.

Workspace members are highlighted; build-dependency edges are dashed.

Examples:
  crate2nix graph crates.json                   # DOT to stdout
  crate2nix graph crates.json -f svg -o g.svg   # rendered SVG
  crate2nix graph crates.json --build-deps      # include build deps`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot, svg")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show version and edition in node labels")
	cmd.Flags().BoolVar(&opts.buildDeps, "build-deps", false, "include build-dependency edges")

	return cmd
}

// runGraph reads a descriptor set and renders it in the requested format.
func runGraph(ctx context.Context, path string, opts *graphOpts) error {
	derivations, err := pkgio.Import(path)
	if err != nil {
		return err
	}

	dot := render.ToDOT(derivations, render.Options{
		Detailed:  opts.detailed,
		BuildDeps: opts.buildDeps,
	})

	var out []byte
	switch opts.format {
	case formatDOT:
		out = []byte(dot)
	case formatSVG:
		out, err = render.RenderSVG(ctx, dot)
		if err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want dot or svg)", opts.format)
	}

	if opts.output == "" {
		_, err := os.Stdout.Write(out)
		return err
	}

	if err := os.WriteFile(opts.output, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}

	printSuccess("Rendered %d crates", len(derivations))
	printFile(opts.output)
	return nil
}

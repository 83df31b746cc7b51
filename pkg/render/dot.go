package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/AlyamanMas/crate2nix/pkg/metadata"
	"github.com/AlyamanMas/crate2nix/pkg/resolve"
)

// Options configures crate-graph rendering.
type Options struct {
	// Detailed includes version and feature count in node labels.
	// When false, only the crate name is shown.
	Detailed bool
	// BuildDeps includes build-dependency edges, drawn dashed.
	BuildDeps bool
}

// ToDOT converts a derivation list to Graphviz DOT format.
//
// Workspace members are drawn filled to stand out from registry crates.
// Edges point from a crate to its dependencies; build-dependency edges are
// dashed when Options.BuildDeps is set. Output is deterministic for a
// given derivation list.
func ToDOT(derivations []*resolve.CrateDerivation, opts Options) string {
	names := make(map[metadata.PackageID]string, len(derivations))
	for _, d := range derivations {
		names[d.PackageID] = nodeLabel(d, opts.Detailed)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph crates {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, style=rounded, fontsize=12];\n")
	buf.WriteString("\n")

	for _, d := range derivations {
		attrs := []string{fmt.Sprintf("label=%q", names[d.PackageID])}
		if d.IsRootOrWorkspaceMember {
			attrs = append(attrs, "style=\"rounded,filled\"", "fillcolor=lightblue")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", d.PackageID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, d := range derivations {
		for _, dep := range d.Dependencies {
			fmt.Fprintf(&buf, "  %q -> %q;\n", d.PackageID, dep.PackageID)
		}
		if opts.BuildDeps {
			for _, dep := range d.BuildDependencies {
				fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", d.PackageID, dep.PackageID)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(d *resolve.CrateDerivation, detailed bool) string {
	if !detailed {
		return d.CrateName
	}
	label := fmt.Sprintf("%s %s", d.CrateName, d.Version)
	if len(d.Features) > 0 {
		label += fmt.Sprintf("\n%d features", len(d.Features))
	}
	return label
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

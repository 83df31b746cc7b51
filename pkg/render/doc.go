// Package render draws the resolved crate graph as a node-link diagram.
//
// It is a debugging aid for inspecting what a generation run produced:
// nodes are crates, edges are reconciled dependency relationships. The
// graph is emitted as Graphviz DOT text and can be rendered to SVG with
// Graphviz compiled to WebAssembly, so no system Graphviz installation is
// required.
//
// This output is not the build description itself; it never feeds the
// downstream generator.
package render

// Package resolve derives per-crate derivation data from the resolved
// Cargo dependency graph.
//
// For one package, resolution (a) locates the package's graph node,
// (b) reconciles the package's declared manifest dependencies against the
// node's resolved edges, and (c) inspects targets and filesystem location
// to produce one [CrateDerivation] — a flattened, build-tool-agnostic
// record consumed by a downstream build-description generator.
//
// # Declared vs resolved matching
//
// A manifest declares dependencies by name, kind, and optional platform
// condition; the resolved graph names concrete package identities. The two
// are joined by crate name after normalization (Cargo treats '-' and '_'
// as equivalent). A resolved edge with no declared counterpart of the
// requested kind is simply skipped: it belongs to another kind or was
// filtered by platform during resolution. A dangling edge, by contrast,
// is a data error and fails resolution.
//
// Resolution is a pure function of its inputs; callers may resolve
// independent packages in parallel against one shared [metadata.Indexed].
package resolve

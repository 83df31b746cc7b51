// Package metadata models the resolved Cargo dependency graph as reported
// by `cargo metadata --format-version 1`.
//
// The package has three layers:
//
//   - Raw document types ([Metadata], [Package], [Target], [Dependency],
//     [Node]) mirroring the JSON produced by cargo. Field sets are limited
//     to what derivation resolution needs.
//   - [Indexed], an arena keyed by [PackageID] with all cross-references
//     expressed as identifier lookups. It is built once per generation run
//     and treated as read-only afterwards, so independent per-package
//     resolutions may share it without synchronization.
//   - [Load], which invokes the metadata query itself (with optional
//     caching of the raw document) and returns the indexed result.
//
// Package identifiers are opaque: they bake name, version, and source into
// one totally-ordered key and are never re-derived from a crate name.
package metadata

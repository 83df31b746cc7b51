package metadata

import (
	"encoding/json"
	"fmt"
)

// PackageID is the opaque identifier cargo assigns to one concrete resolved
// package instance. Name, version, and source are baked into the value, so
// plain string comparison gives a total order over distinct packages.
type PackageID string

// String returns the identifier as reported by cargo.
func (id PackageID) String() string { return string(id) }

// DependencyKind classifies a declared manifest dependency.
type DependencyKind string

// Dependency kinds as they appear in cargo metadata. Cargo emits null for
// normal dependencies; UnmarshalJSON maps that to KindNormal.
const (
	KindNormal      DependencyKind = "normal"
	KindDevelopment DependencyKind = "dev"
	KindBuild       DependencyKind = "build"
	KindUnknown     DependencyKind = "unknown"
)

// UnmarshalJSON decodes cargo's kind encoding: null and "normal" both mean
// a normal dependency, anything unrecognized becomes KindUnknown rather
// than failing the whole document.
func (k *DependencyKind) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("dependency kind: %w", err)
	}
	if s == nil {
		*k = KindNormal
		return nil
	}
	switch DependencyKind(*s) {
	case KindNormal, KindDevelopment, KindBuild:
		*k = DependencyKind(*s)
	default:
		*k = KindUnknown
	}
	return nil
}

// Target kind tags used for derivation classification.
const (
	TargetKindLib         = "lib"
	TargetKindBin         = "bin"
	TargetKindCustomBuild = "custom-build"
	TargetKindProcMacro   = "proc-macro"
)

// Metadata is the raw document returned by the metadata query.
type Metadata struct {
	Packages         []Package   `json:"packages"`
	WorkspaceMembers []PackageID `json:"workspace_members"`
	Resolve          *Resolve    `json:"resolve"`
}

// Resolve holds the resolved dependency graph section of the document.
type Resolve struct {
	Nodes []Node `json:"nodes"`
	// Root is the root package of the workspace, empty for virtual
	// workspaces that have no root crate.
	Root PackageID `json:"root"`
}

// Package holds the resolved manifest facts for one crate.
type Package struct {
	ID           PackageID    `json:"id"`
	Name         string       `json:"name"`
	Version      string       `json:"version"`
	Edition      string       `json:"edition"`
	Authors      []string     `json:"authors"`
	ManifestPath string       `json:"manifest_path"`
	Targets      []Target     `json:"targets"`
	Dependencies []Dependency `json:"dependencies"`
}

// Target describes one build artifact of a package.
type Target struct {
	Name    string   `json:"name"`
	Kind    []string `json:"kind"`
	SrcPath string   `json:"src_path"`
}

// HasKind reports whether the target carries the given kind tag.
func (t Target) HasKind(kind string) bool {
	for _, k := range t.Kind {
		if k == kind {
			return true
		}
	}
	return false
}

// Dependency is a dependency as declared in a package's manifest.
type Dependency struct {
	Name string         `json:"name"`
	Kind DependencyKind `json:"kind"`
	// Target is the platform condition gating the dependency: a cfg
	// expression such as `cfg(windows)` or a target triple. Nil when the
	// dependency applies unconditionally.
	Target   *string `json:"target"`
	Optional bool    `json:"optional"`
}

// Node is the resolved-graph adjacency record for one package.
type Node struct {
	ID PackageID `json:"id"`
	// Deps are the resolved dependency edges, each naming the concrete
	// package chosen by cargo's resolution.
	Deps []NodeDep `json:"deps"`
	// Features is the final active feature set, in graph-reported order.
	Features []string `json:"features"`
}

// NodeDep is one resolved edge of a node.
type NodeDep struct {
	Name string    `json:"name"`
	Pkg  PackageID `json:"pkg"`
}

// Parse decodes a cargo metadata JSON document.
func Parse(data []byte) (*Metadata, error) {
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	return &m, nil
}

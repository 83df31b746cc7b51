package metadata

import (
	"slices"

	"github.com/AlyamanMas/crate2nix/pkg/errors"
)

// Indexed is the id-keyed arena over one metadata document. All lookups go
// through package identifiers; the structure holds no cross-pointers and is
// read-only after construction.
type Indexed struct {
	// Root is the workspace's root package identifier, empty when the
	// workspace is virtual.
	Root PackageID
	// WorkspaceMembers lists the packages built from the local source tree.
	WorkspaceMembers []PackageID

	pkgsByID  map[PackageID]*Package
	nodesByID map[PackageID]*Node
}

// Index builds an Indexed arena from a raw metadata document.
//
// It fails with ErrCodeInvalidMetadata when the document has no resolve
// section (cargo emits one unless invoked with --no-deps, which this tool
// never does) or when two packages share an identifier.
func Index(m *Metadata) (*Indexed, error) {
	if m.Resolve == nil {
		return nil, errors.New(errors.ErrCodeInvalidMetadata, "metadata has no resolve section")
	}

	ix := &Indexed{
		Root:             m.Resolve.Root,
		WorkspaceMembers: slices.Clone(m.WorkspaceMembers),
		pkgsByID:         make(map[PackageID]*Package, len(m.Packages)),
		nodesByID:        make(map[PackageID]*Node, len(m.Resolve.Nodes)),
	}

	for i := range m.Packages {
		pkg := &m.Packages[i]
		if _, ok := ix.pkgsByID[pkg.ID]; ok {
			return nil, errors.New(errors.ErrCodeInvalidMetadata, "duplicate package id %s", pkg.ID)
		}
		ix.pkgsByID[pkg.ID] = pkg
	}
	for i := range m.Resolve.Nodes {
		node := &m.Resolve.Nodes[i]
		if _, ok := ix.nodesByID[node.ID]; ok {
			return nil, errors.New(errors.ErrCodeInvalidMetadata, "duplicate node id %s", node.ID)
		}
		ix.nodesByID[node.ID] = node
	}

	return ix, nil
}

// Package returns the package record for id.
func (ix *Indexed) Package(id PackageID) (*Package, bool) {
	p, ok := ix.pkgsByID[id]
	return p, ok
}

// Node returns the resolved-graph node for id.
func (ix *Indexed) Node(id PackageID) (*Node, bool) {
	n, ok := ix.nodesByID[id]
	return n, ok
}

// Packages returns all package records sorted ascending by identifier.
// The slice is freshly allocated; callers may reorder it.
func (ix *Indexed) Packages() []*Package {
	pkgs := make([]*Package, 0, len(ix.pkgsByID))
	for _, p := range ix.pkgsByID {
		pkgs = append(pkgs, p)
	}
	slices.SortFunc(pkgs, func(a, b *Package) int {
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return pkgs
}

// IsRootOrWorkspaceMember reports whether id is the root package or one of
// the workspace members.
func (ix *Indexed) IsRootOrWorkspaceMember(id PackageID) bool {
	if ix.Root != "" && id == ix.Root {
		return true
	}
	return slices.Contains(ix.WorkspaceMembers, id)
}

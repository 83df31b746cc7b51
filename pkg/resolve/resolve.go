package resolve

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/AlyamanMas/crate2nix/pkg/errors"
	"github.com/AlyamanMas/crate2nix/pkg/metadata"
	"github.com/AlyamanMas/crate2nix/pkg/observability"
)

// Config holds the per-run generation configuration.
type Config struct {
	// CargoToml is the root manifest. Its canonicalized parent directory
	// is the root every source_directory is expressed against.
	CargoToml string
}

// CrateDerivation is all data necessary for creating a derivation for one
// crate. The field set round-trips losslessly through JSON; Sha256 stays
// empty until the checksum-fill stage populates it.
type CrateDerivation struct {
	PackageID metadata.PackageID `json:"package_id"`
	CrateName string             `json:"crate_name"`
	Edition   string             `json:"edition"`
	Authors   []string           `json:"authors"`
	Version   string             `json:"version"`
	// SourceDirectory is relative to the configured root: "./." for the
	// root itself, "./..." for subdirectories, "../..." for packages
	// outside the root's subtree.
	SourceDirectory   string               `json:"source_directory"`
	Sha256            string               `json:"sha256"`
	Dependencies      []ResolvedDependency `json:"dependencies"`
	BuildDependencies []ResolvedDependency `json:"build_dependencies"`
	Features          []string             `json:"features"`
	// Build is the build-script path relative to the crate directory,
	// empty when the crate has none.
	Build   string `json:"build"`
	LibPath string `json:"lib_path"`
	HasBin  bool   `json:"has_bin"`
	// ProcMacro marks procedural-macro crates, which must be compiled for
	// the host rather than the target platform.
	ProcMacro bool `json:"proc_macro"`
	// IsRootOrWorkspaceMember marks crates built from the local source
	// tree rather than treated as external dependencies.
	IsRootOrWorkspaceMember bool `json:"is_root_or_workspace_member"`
}

// ResolvedDependency is one reconciled dependency edge.
type ResolvedDependency struct {
	PackageID metadata.PackageID `json:"package_id"`
	// Target is the platform condition carried over from the declared
	// dependency: a cfg expression or a target triple. Nil when the
	// dependency applies unconditionally.
	Target *string `json:"target"`
}

// Resolve produces the derivation record for one package.
//
// It fails with ErrCodeGraphInconsistency when the indexed graph has no
// node for the package or a node edge references an unknown package, and
// with ErrCodePathResolution when the configured root cannot be
// canonicalized. There is no partial result: a failure means no record.
func Resolve(cfg Config, ix *metadata.Indexed, pkg *metadata.Package) (*CrateDerivation, error) {
	deps, err := newResolvedDependencies(ix, pkg)
	if err != nil {
		return nil, err
	}

	buildDependencies := deps.filtered(func(d metadata.Dependency) bool {
		return d.Kind == metadata.KindBuild
	})
	dependencies := deps.filtered(func(d metadata.Dependency) bool {
		return d.Kind == metadata.KindNormal || d.Kind == metadata.KindUnknown
	})

	crateDir := filepath.Dir(pkg.ManifestPath)

	libPath, _ := firstTargetPath(pkg, metadata.TargetKindLib, crateDir)
	build, _ := firstTargetPath(pkg, metadata.TargetKindCustomBuild, crateDir)

	hasBin := hasTargetKind(pkg, metadata.TargetKindBin)
	procMacro := hasTargetKind(pkg, metadata.TargetKindProcMacro)

	rootDir, err := canonicalRoot(cfg.CargoToml)
	if err != nil {
		return nil, err
	}

	return &CrateDerivation{
		PackageID:               pkg.ID,
		CrateName:               pkg.Name,
		Edition:                 pkg.Edition,
		Authors:                 slices.Clone(pkg.Authors),
		Version:                 pkg.Version,
		SourceDirectory:         relativeSource(rootDir, crateDir),
		Dependencies:            dependencies,
		BuildDependencies:       buildDependencies,
		Features:                slices.Clone(deps.node.Features),
		Build:                   build,
		LibPath:                 libPath,
		HasBin:                  hasBin,
		ProcMacro:               procMacro,
		IsRootOrWorkspaceMember: ix.IsRootOrWorkspaceMember(pkg.ID),
	}, nil
}

// ResolveAll resolves every package of the indexed graph in ascending
// package-id order. The context is only consulted by observability hooks;
// resolution itself is synchronous and side-effect-free.
func ResolveAll(ctx context.Context, cfg Config, ix *metadata.Indexed) ([]*CrateDerivation, error) {
	pkgs := ix.Packages()

	start := time.Now()
	observability.Generation().OnResolveStart(ctx, len(pkgs))

	out := make([]*CrateDerivation, 0, len(pkgs))
	for _, pkg := range pkgs {
		d, err := Resolve(cfg, ix, pkg)
		if err != nil {
			observability.Generation().OnResolveComplete(ctx, len(out), time.Since(start), err)
			return nil, err
		}
		out = append(out, d)
	}

	observability.Generation().OnResolveComplete(ctx, len(out), time.Since(start), nil)
	return out, nil
}

// NormalizeCrateName normalizes a crate name the way Cargo does: '-' and
// '_' are interchangeable, with '_' as the canonical spelling.
func NormalizeCrateName(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// resolvedDependencies is the reconciler view for one package: its graph
// node, the concrete packages behind every node edge, and the package's own
// declared dependencies.
type resolvedDependencies struct {
	node *metadata.Node
	// packages behind the node's edges, ascending by package id.
	packages []*metadata.Package
	declared []metadata.Dependency
}

func newResolvedDependencies(ix *metadata.Indexed, pkg *metadata.Package) (*resolvedDependencies, error) {
	node, ok := ix.Node(pkg.ID)
	if !ok {
		return nil, errors.New(errors.ErrCodeGraphInconsistency,
			"no node for package %s", pkg.ID)
	}

	packages := make([]*metadata.Package, 0, len(node.Deps))
	for _, edge := range node.Deps {
		dep, ok := ix.Package(edge.Pkg)
		if !ok {
			return nil, errors.New(errors.ErrCodeGraphInconsistency,
				"no package for dependency %s of %s", edge.Pkg, pkg.ID)
		}
		packages = append(packages, dep)
	}
	slices.SortFunc(packages, func(a, b *metadata.Package) int {
		return strings.Compare(string(a.ID), string(b.ID))
	})

	return &resolvedDependencies{
		node:     node,
		packages: packages,
		declared: pkg.Dependencies,
	}, nil
}

// filtered returns the resolved edges whose normalized name matches a
// declared dependency satisfying keep, paired with that declaration's
// platform condition. Output order follows the ascending package order of
// the view, so results are deterministic regardless of edge order.
//
// When two declared dependencies of the same kind normalize to the same
// name (duplicate conditional entries), the retained one is chosen
// deterministically: an unconditional entry wins over a conditional one,
// and between two conditional entries the lexicographically smaller
// condition wins.
func (r *resolvedDependencies) filtered(keep func(metadata.Dependency) bool) []ResolvedDependency {
	byName := make(map[string]metadata.Dependency)
	for _, d := range r.declared {
		if !keep(d) {
			continue
		}
		name := NormalizeCrateName(d.Name)
		if prev, ok := byName[name]; ok {
			byName[name] = preferDeclared(prev, d)
			continue
		}
		byName[name] = d
	}

	out := []ResolvedDependency{}
	for _, pkg := range r.packages {
		d, ok := byName[NormalizeCrateName(pkg.Name)]
		if !ok {
			// Edge of a different kind, or filtered by platform upstream.
			continue
		}
		out = append(out, ResolvedDependency{
			PackageID: pkg.ID,
			Target:    cloneCondition(d.Target),
		})
	}
	return out
}

// preferDeclared picks between two same-named declared dependencies of one
// kind. Unconditional beats conditional; otherwise the smaller condition
// string is kept.
func preferDeclared(a, b metadata.Dependency) metadata.Dependency {
	switch {
	case a.Target == nil:
		return a
	case b.Target == nil:
		return b
	case *a.Target <= *b.Target:
		return a
	default:
		return b
	}
}

func cloneCondition(target *string) *string {
	if target == nil {
		return nil
	}
	t := *target
	return &t
}

// firstTargetPath returns the source path of the first target tagged with
// kind, relative to the crate directory. A target whose path cannot be
// expressed beneath the crate directory counts as absent.
func firstTargetPath(pkg *metadata.Package, kind, crateDir string) (string, bool) {
	for _, t := range pkg.Targets {
		if !t.HasKind(kind) {
			continue
		}
		rel, err := filepath.Rel(crateDir, t.SrcPath)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return "", false
		}
		return filepath.ToSlash(rel), true
	}
	return "", false
}

func hasTargetKind(pkg *metadata.Package, kind string) bool {
	for _, t := range pkg.Targets {
		if t.HasKind(kind) {
			return true
		}
	}
	return false
}

// canonicalRoot canonicalizes the root manifest path and returns its parent
// directory.
func canonicalRoot(cargoToml string) (string, error) {
	abs, err := filepath.Abs(cargoToml)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodePathResolution, err, "resolve %s", cargoToml)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodePathResolution, err, "canonicalize %s", abs)
	}
	return filepath.Dir(resolved), nil
}

// relativeSource expresses crateDir relative to the configured root.
// "./." marks the root itself, a "./" prefix marks subdirectories of the
// root, and an unprefixed "../..." path marks crates outside the root's
// subtree (sibling workspace members, vendored sources). The downstream
// consumer relies on that distinction to decide whether the crate is
// reachable as a plain subdirectory.
func relativeSource(rootDir, crateDir string) string {
	if filepath.Clean(crateDir) == rootDir {
		return "./."
	}

	rel, err := filepath.Rel(rootDir, crateDir)
	if err != nil {
		// No relative form exists (e.g., different volume); keep the
		// crate directory as-is, mirroring an out-of-tree path.
		return filepath.ToSlash(crateDir)
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return rel
	}
	return "./" + rel
}

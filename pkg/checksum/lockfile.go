// Package checksum fills derivation content hashes from Cargo.lock.
//
// Derivation resolution leaves sha256 empty; this later pass populates it
// for registry crates using the checksums cargo already recorded in the
// lockfile, so no network access is needed. Local crates (the root,
// workspace members, path dependencies) have no checksum and stay empty.
package checksum

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/AlyamanMas/crate2nix/pkg/errors"
	"github.com/AlyamanMas/crate2nix/pkg/resolve"
)

// lockfile mirrors the subset of Cargo.lock this package reads.
type lockfile struct {
	Packages []lockPackage `toml:"package"`
}

type lockPackage struct {
	Name     string `toml:"name"`
	Version  string `toml:"version"`
	Source   string `toml:"source"`
	Checksum string `toml:"checksum"`
}

// Fill populates the Sha256 field of each derivation from the lockfile at
// lockPath. It returns the number of derivations filled.
//
// Lock entries are keyed by exact name and version; entries without a
// checksum (path and git dependencies) are skipped, as are derivations
// built from the local source tree. A derivation that stays unfilled is
// not an error: the caller decides whether partial hashes are acceptable.
func Fill(lockPath string, derivations []*resolve.CrateDerivation) (int, error) {
	data, err := os.ReadFile(lockPath)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeFileNotFound, err, "read lockfile %s", lockPath)
	}

	var lock lockfile
	if err := toml.Unmarshal(data, &lock); err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidLockfile, err, "parse %s", lockPath)
	}

	checksums := make(map[string]string, len(lock.Packages))
	for _, p := range lock.Packages {
		if p.Checksum == "" {
			continue
		}
		checksums[lockKey(p.Name, p.Version)] = p.Checksum
	}

	filled := 0
	for _, d := range derivations {
		if d.IsRootOrWorkspaceMember {
			continue
		}
		if sum, ok := checksums[lockKey(d.CrateName, d.Version)]; ok {
			d.Sha256 = sum
			filled++
		}
	}
	return filled, nil
}

func lockKey(name, version string) string {
	return name + "@" + version
}

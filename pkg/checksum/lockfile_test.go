package checksum

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/AlyamanMas/crate2nix/pkg/errors"
	"github.com/AlyamanMas/crate2nix/pkg/resolve"
)

const sampleLock = `version = 3

[[package]]
name = "left-pad"
version = "1.2.3"

[[package]]
name = "once_cell"
version = "1.19.0"
source = "registry+https://github.com/rust-lang/crates.io-index"
checksum = "3fdb12b2476b595f9358c5161aa467c2438859caa136dec86c3fc45262f39a0a"

[[package]]
name = "local-helper"
version = "0.1.0"
`

func writeLock(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Cargo.lock")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFill(t *testing.T) {
	path := writeLock(t, sampleLock)

	root := &resolve.CrateDerivation{
		CrateName:               "left-pad",
		Version:                 "1.2.3",
		IsRootOrWorkspaceMember: true,
	}
	registry := &resolve.CrateDerivation{
		CrateName: "once_cell",
		Version:   "1.19.0",
	}
	pathDep := &resolve.CrateDerivation{
		CrateName: "local-helper",
		Version:   "0.1.0",
	}

	filled, err := Fill(path, []*resolve.CrateDerivation{root, registry, pathDep})
	if err != nil {
		t.Fatalf("Fill error: %v", err)
	}
	if filled != 1 {
		t.Errorf("filled = %d, want 1", filled)
	}

	if registry.Sha256 != "3fdb12b2476b595f9358c5161aa467c2438859caa136dec86c3fc45262f39a0a" {
		t.Errorf("registry Sha256 = %q", registry.Sha256)
	}
	if root.Sha256 != "" {
		t.Error("workspace member should stay unfilled")
	}
	if pathDep.Sha256 != "" {
		t.Error("path dependency without checksum should stay unfilled")
	}
}

func TestFillVersionMismatch(t *testing.T) {
	path := writeLock(t, sampleLock)

	d := &resolve.CrateDerivation{CrateName: "once_cell", Version: "1.18.0"}
	filled, err := Fill(path, []*resolve.CrateDerivation{d})
	if err != nil {
		t.Fatalf("Fill error: %v", err)
	}
	if filled != 0 || d.Sha256 != "" {
		t.Error("checksum must match name and version exactly")
	}
}

func TestFillMissingLockfile(t *testing.T) {
	_, err := Fill(filepath.Join(t.TempDir(), "Cargo.lock"), nil)
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestFillMalformedLockfile(t *testing.T) {
	path := writeLock(t, "[[package]\nbroken")
	_, err := Fill(path, nil)
	if !errors.Is(err, errors.ErrCodeInvalidLockfile) {
		t.Errorf("err = %v, want %s", err, errors.ErrCodeInvalidLockfile)
	}
}

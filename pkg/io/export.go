package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/AlyamanMas/crate2nix/pkg/resolve"
)

// document is the serialized form of one generation run.
type document struct {
	Crates []*resolve.CrateDerivation `json:"crates"`
}

// Write encodes the derivation list as indented JSON and writes it to w.
// Crate order is preserved as given; callers pass the ascending-id order
// produced by resolution.
func Write(derivations []*resolve.CrateDerivation, w io.Writer) error {
	if derivations == nil {
		derivations = []*resolve.CrateDerivation{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(document{Crates: derivations}); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Export writes the derivation list to a JSON file at path.
// This is a convenience wrapper around [Write] for file-based output.
func Export(derivations []*resolve.CrateDerivation, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(derivations, f)
}

package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/AlyamanMas/crate2nix/pkg/resolve"
)

// Read decodes a derivation document from r.
//
// The input must be a JSON object with a "crates" array as produced by
// [Write]. Read returns an error for malformed JSON; it does not validate
// graph consistency, which only the generation run itself can check.
func Read(r io.Reader) ([]*resolve.CrateDerivation, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return doc.Crates, nil
}

// Import reads a derivation document from the JSON file at path.
func Import(path string) ([]*resolve.CrateDerivation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

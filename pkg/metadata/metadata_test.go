package metadata

import (
	"encoding/json"
	"testing"
)

func TestDependencyKindUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		json string
		want DependencyKind
	}{
		{name: "null means normal", json: `null`, want: KindNormal},
		{name: "explicit normal", json: `"normal"`, want: KindNormal},
		{name: "dev", json: `"dev"`, want: KindDevelopment},
		{name: "build", json: `"build"`, want: KindBuild},
		{name: "unrecognized", json: `"bench"`, want: KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var k DependencyKind
			if err := json.Unmarshal([]byte(tt.json), &k); err != nil {
				t.Fatalf("Unmarshal error: %v", err)
			}
			if k != tt.want {
				t.Errorf("kind = %q, want %q", k, tt.want)
			}
		})
	}
}

func TestDependencyKindUnmarshalRejectsNonString(t *testing.T) {
	var k DependencyKind
	if err := json.Unmarshal([]byte(`42`), &k); err == nil {
		t.Error("expected error for numeric kind")
	}
}

func TestTargetHasKind(t *testing.T) {
	target := Target{Name: "left-pad", Kind: []string{"lib", "staticlib"}}

	if !target.HasKind(TargetKindLib) {
		t.Error("expected lib kind")
	}
	if target.HasKind(TargetKindBin) {
		t.Error("did not expect bin kind")
	}
}

const sampleDoc = `{
  "packages": [
    {
      "id": "left-pad 1.2.3 (path+file:///work/left-pad)",
      "name": "left-pad",
      "version": "1.2.3",
      "edition": "2018",
      "authors": ["A. Dev <a@example.com>"],
      "manifest_path": "/work/left-pad/Cargo.toml",
      "targets": [
        {"name": "left-pad", "kind": ["lib"], "src_path": "/work/left-pad/src/lib.rs"}
      ],
      "dependencies": [
        {"name": "once-cell", "kind": null, "target": null, "optional": false},
        {"name": "winapi", "kind": null, "target": "cfg(windows)", "optional": false}
      ]
    }
  ],
  "workspace_members": ["left-pad 1.2.3 (path+file:///work/left-pad)"],
  "resolve": {
    "nodes": [
      {
        "id": "left-pad 1.2.3 (path+file:///work/left-pad)",
        "deps": [
          {"name": "once_cell", "pkg": "once_cell 1.19.0 (registry+https://github.com/rust-lang/crates.io-index)"}
        ],
        "features": ["default"]
      }
    ],
    "root": "left-pad 1.2.3 (path+file:///work/left-pad)"
  }
}`

func TestParseSampleDocument(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if len(doc.Packages) != 1 {
		t.Fatalf("packages = %d, want 1", len(doc.Packages))
	}
	pkg := doc.Packages[0]
	if pkg.Name != "left-pad" || pkg.Version != "1.2.3" || pkg.Edition != "2018" {
		t.Errorf("package = %+v", pkg)
	}
	if len(pkg.Dependencies) != 2 {
		t.Fatalf("dependencies = %d, want 2", len(pkg.Dependencies))
	}
	if pkg.Dependencies[0].Kind != KindNormal {
		t.Errorf("null kind = %q, want %q", pkg.Dependencies[0].Kind, KindNormal)
	}
	if pkg.Dependencies[0].Target != nil {
		t.Error("once-cell should have no platform condition")
	}
	if pkg.Dependencies[1].Target == nil || *pkg.Dependencies[1].Target != "cfg(windows)" {
		t.Error("winapi should carry its cfg expression")
	}

	if doc.Resolve == nil {
		t.Fatal("missing resolve section")
	}
	node := doc.Resolve.Nodes[0]
	if len(node.Deps) != 1 || node.Deps[0].Name != "once_cell" {
		t.Errorf("node deps = %+v", node.Deps)
	}
	if doc.Resolve.Root == "" {
		t.Error("root should be set")
	}
}

func TestParseNullRoot(t *testing.T) {
	doc, err := Parse([]byte(`{"packages": [], "workspace_members": [], "resolve": {"nodes": [], "root": null}}`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if doc.Resolve.Root != "" {
		t.Errorf("null root should decode as empty, got %q", doc.Resolve.Root)
	}
}

func TestParseInvalidJSON(t *testing.T) {
	if _, err := Parse([]byte(`{not json`)); err == nil {
		t.Error("expected error for malformed document")
	}
}

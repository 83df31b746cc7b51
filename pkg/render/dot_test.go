package render

import (
	"strings"
	"testing"

	"github.com/AlyamanMas/crate2nix/pkg/resolve"
)

func sampleGraph() []*resolve.CrateDerivation {
	return []*resolve.CrateDerivation{
		{
			PackageID:               "app 0.1.0 (path+file:///work)",
			CrateName:               "app",
			Version:                 "0.1.0",
			IsRootOrWorkspaceMember: true,
			Dependencies: []resolve.ResolvedDependency{
				{PackageID: "serde 1.0.0 (registry+x)"},
			},
			BuildDependencies: []resolve.ResolvedDependency{
				{PackageID: "cc 1.0.0 (registry+x)"},
			},
		},
		{
			PackageID: "serde 1.0.0 (registry+x)",
			CrateName: "serde",
			Version:   "1.0.0",
			Features:  []string{"std", "derive"},
		},
		{
			PackageID: "cc 1.0.0 (registry+x)",
			CrateName: "cc",
			Version:   "1.0.0",
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleGraph(), Options{})

	if !strings.HasPrefix(dot, "digraph crates {") {
		t.Errorf("unexpected header: %q", dot[:30])
	}
	if !strings.Contains(dot, `"app 0.1.0 (path+file:///work)" -> "serde 1.0.0 (registry+x)";`) {
		t.Error("missing normal dependency edge")
	}
	if strings.Contains(dot, "style=dashed") {
		t.Error("build edges should be omitted by default")
	}
	if !strings.Contains(dot, "fillcolor=lightblue") {
		t.Error("workspace member should be filled")
	}
	if !strings.Contains(dot, `label="serde"`) {
		t.Error("plain labels should carry only the crate name")
	}
}

func TestToDOTBuildDeps(t *testing.T) {
	dot := ToDOT(sampleGraph(), Options{BuildDeps: true})
	if !strings.Contains(dot, `"app 0.1.0 (path+file:///work)" -> "cc 1.0.0 (registry+x)" [style=dashed];`) {
		t.Error("missing dashed build-dependency edge")
	}
}

func TestToDOTDetailedLabels(t *testing.T) {
	dot := ToDOT(sampleGraph(), Options{Detailed: true})
	if !strings.Contains(dot, `serde 1.0.0`) {
		t.Error("detailed label should include version")
	}
	if !strings.Contains(dot, "2 features") {
		t.Error("detailed label should include feature count")
	}
}

func TestToDOTDeterministic(t *testing.T) {
	a := ToDOT(sampleGraph(), Options{BuildDeps: true, Detailed: true})
	b := ToDOT(sampleGraph(), Options{BuildDeps: true, Detailed: true})
	if a != b {
		t.Error("DOT output should be deterministic")
	}
}

func TestToDOTEmpty(t *testing.T) {
	dot := ToDOT(nil, Options{})
	if !strings.Contains(dot, "digraph crates") {
		t.Errorf("empty graph should still be valid DOT: %q", dot)
	}
}

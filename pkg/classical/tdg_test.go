package classical

import (
	"testing"

	"github.com/koalaplan/fondhtn/pkg/catalog"
)

// buildSample builds a small two-level decomposition: t1 -m-> {p1, t4};
// t4 -m-> {p2, p3}. "unreach"/"unreach_t" are registered in the catalog
// but never referenced by any method, so they must stay unreachable.
func buildSample() *catalog.Catalog {
	c := catalog.New()
	c.AddPrimitive(&catalog.PrimitiveAction{Name: "p1"})
	c.AddPrimitive(&catalog.PrimitiveAction{Name: "p2"})
	c.AddPrimitive(&catalog.PrimitiveAction{Name: "p3"})
	c.AddPrimitive(&catalog.PrimitiveAction{Name: "unreach"})
	c.AddCompound("t1")
	c.AddCompound("t4")
	c.AddCompound("unreach_t")
	c = c.WithMethod(&catalog.Method{
		Name: "t4_m", Task: "t4",
		Nodes: []int{2, 3}, Labels: map[int]string{2: "p2", 3: "p3"},
	})
	c = c.WithMethod(&catalog.Method{
		Name: "t1_m", Task: "t1",
		Nodes: []int{1, 4}, Labels: map[int]string{1: "p1", 4: "t4"},
	})
	c = c.WithMethod(&catalog.Method{
		Name: "m_unreach", Task: "unreach_t",
		Nodes: []int{9}, Labels: map[int]string{9: "unreach"},
	})
	return c
}

func TestBuildTDG_ReachabilityFromT1(t *testing.T) {
	c := buildSample()
	g := BuildTDG(c, []string{"t1"})

	for _, want := range []string{"t1", "t4", "p1", "p2", "p3"} {
		if !g.IsReachable(want) {
			t.Fatalf("expected %q to be reachable from t1", want)
		}
	}
	for _, notWant := range []string{"unreach", "unreach_t"} {
		if g.IsReachable(notWant) {
			t.Fatalf("expected %q to stay unreachable from t1", notWant)
		}
	}
}

func TestBuildTDG_AllReachableFromLeafIsJustItself(t *testing.T) {
	c := buildSample()
	g := BuildTDG(c, []string{"t1"})

	got := g.AllReachable("p1")
	if len(got) != 1 || !got["p1"] {
		t.Fatalf("AllReachable(p1) = %v, want {p1}", got)
	}
}

func TestBuildTDG_AllReachableFromCompoundIncludesItsSubtasks(t *testing.T) {
	c := buildSample()
	g := BuildTDG(c, []string{"t1"})

	got := g.AllReachable("t4")
	want := map[string]bool{"t4": true, "p2": true, "p3": true}
	if len(got) != len(want) {
		t.Fatalf("AllReachable(t4) = %v, want %v", got, want)
	}
	for k := range want {
		if !got[k] {
			t.Fatalf("AllReachable(t4) missing %q: %v", k, got)
		}
	}
}

package dot

import (
	"strings"
	"testing"

	"github.com/koalaplan/fondhtn/pkg/catalog"
	"github.com/koalaplan/fondhtn/pkg/classical"
	"github.com/koalaplan/fondhtn/pkg/facts"
	"github.com/koalaplan/fondhtn/pkg/heuristic"
	"github.com/koalaplan/fondhtn/pkg/htn"
	"github.com/koalaplan/fondhtn/pkg/problem"
	"github.com/koalaplan/fondhtn/pkg/searchgraph"
)

func buildSolvedGraph(t *testing.T) *searchgraph.Graph {
	t.Helper()
	ft := facts.NewTable([]string{"goal"})
	c := catalog.New()
	c.AddPrimitive(&catalog.PrimitiveAction{
		Name: "p1", Cost: 1, Precond: facts.NewSet(),
		Outcomes: []catalog.Outcome{{Add: facts.NewSet(0)}},
	})
	n := htn.New([]int{1}, nil, map[int]string{1: "p1"}, c)
	p := &problem.Problem{Facts: ft, Catalog: c, InitialState: facts.NewSet(), InitialNetwork: n}
	dom := classical.Build(p)

	g := searchgraph.New(dom, nil, heuristic.HAdd, facts.NewSet(), n)
	g.Expand(g.Root)
	g.Revise(g.Root)
	return g
}

func TestSearchGraph_RendersVerticesAndMarkedEdge(t *testing.T) {
	g := buildSolvedGraph(t)
	out := SearchGraph(g)

	if !strings.HasPrefix(out, "digraph {") {
		t.Fatalf("output does not start with digraph header: %q", out)
	}
	if !strings.Contains(out, "color=green") {
		t.Fatalf("expected the Solved root to render green: %q", out)
	}
	if strings.Contains(out, "style=dashed") {
		t.Fatalf("the only connector is marked; expected no dashed edges: %q", out)
	}
	if !strings.Contains(out, `label="p1"`) {
		t.Fatalf("expected the Execution connector labeled p1: %q", out)
	}
}

func TestHTN_RendersPrimitiveNodeGreen(t *testing.T) {
	c := catalog.New()
	c.AddPrimitive(&catalog.PrimitiveAction{
		Name: "p1", Precond: facts.NewSet(), Outcomes: []catalog.Outcome{{Add: facts.NewSet()}},
	})
	n := htn.New([]int{1}, nil, map[int]string{1: "p1"}, c)

	out := HTN(n)
	if !strings.Contains(out, `label="p1"`) || !strings.Contains(out, "color=green") {
		t.Fatalf("expected a green p1 vertex: %q", out)
	}
}

package determinize

import (
	"testing"

	"github.com/koalaplan/fondhtn/pkg/catalog"
	"github.com/koalaplan/fondhtn/pkg/facts"
	"github.com/koalaplan/fondhtn/pkg/htn"
	"github.com/koalaplan/fondhtn/pkg/problem"
)

func TestDeterminize_ReplacesNDPrimitiveWithStubCompound(t *testing.T) {
	c := catalog.New()
	c.AddPrimitive(&catalog.PrimitiveAction{
		Name: "p2", Cost: 1, Precond: facts.NewSet(0),
		Outcomes: []catalog.Outcome{
			{Add: facts.NewSet(1), Del: facts.NewSet(2)},
			{Add: facts.NewSet(1, 4), Del: facts.NewSet(3)},
		},
	})
	c.AddPrimitive(&catalog.PrimitiveAction{
		Name: "p1", Cost: 1, Precond: facts.NewSet(0),
		Outcomes: []catalog.Outcome{{Add: facts.NewSet(1), Del: facts.NewSet(0)}},
	})
	n := htn.New([]int{1, 2}, nil, map[int]string{1: "p2", 2: "p1"}, c)

	p := &problem.Problem{Catalog: c, InitialNetwork: n, InitialState: facts.NewSet(0)}
	result := Determinize(p)

	stub, ok := result.Bijection["p2"]
	if !ok || stub != "p2__determinized" {
		t.Fatalf("bijection[p2] = (%q, %v), want (p2__determinized, true)", stub, ok)
	}

	nc := result.Problem.Catalog
	if !nc.Has("p2__determinized") {
		t.Fatal("expected stub compound p2__determinized in new catalog")
	}
	if !nc.Has("p2__determinized_0") || !nc.Has("p2__determinized_1") {
		t.Fatal("expected two outcome clones")
	}
	stubTask := nc.TaskByName("p2__determinized")
	if stubTask.Kind != catalog.Compound || len(stubTask.Compound.Methods) != 2 {
		t.Fatalf("stub task = %+v, want compound with 2 methods", stubTask)
	}
	for _, m := range stubTask.Compound.Methods {
		if len(m.Labels) != 1 {
			t.Fatalf("each stub method should wrap exactly one task, got %+v", m)
		}
	}

	// p1 is deterministic: passes through unchanged.
	if !nc.Has("p1") {
		t.Fatal("deterministic primitive p1 should be unchanged")
	}
	p1 := nc.TaskByName("p1")
	if !p1.Primitive.Deterministic() {
		t.Fatal("p1 should remain deterministic")
	}

	// the initial network's node for p2 is relabeled to the stub.
	newNet := result.Problem.InitialNetwork
	found := false
	for _, id := range newNet.Nodes() {
		if newNet.TaskAt(id).Name() == "p2__determinized" {
			found = true
		}
		if newNet.TaskAt(id).Name() == "p2" {
			t.Fatal("initial network should no longer reference the original ND primitive p2")
		}
	}
	if !found {
		t.Fatal("initial network should reference the stub compound p2__determinized")
	}
}

func TestDeterminize_RewritesMethodDecompositions(t *testing.T) {
	c := catalog.New()
	c.AddPrimitive(&catalog.PrimitiveAction{
		Name: "p2",
		Outcomes: []catalog.Outcome{
			{Add: facts.NewSet(1)},
			{Add: facts.NewSet(2)},
		},
	})
	c.AddCompound("c1")
	c = c.WithMethod(&catalog.Method{Name: "m1", Task: "c1", Nodes: []int{10}, Labels: map[int]string{10: "p2"}})

	n := htn.New([]int{1}, nil, map[int]string{1: "c1"}, c)
	p := &problem.Problem{Catalog: c, InitialNetwork: n, InitialState: facts.NewSet()}
	result := Determinize(p)

	c1 := result.Problem.Catalog.TaskByName("c1")
	m1 := c1.Compound.Methods[0]
	for _, label := range m1.Labels {
		if label != "p2__determinized" {
			t.Fatalf("method m1's decomposition should reference the stub, got %q", label)
		}
	}
}

// Package determinize implements all-outcome determinization. Every
// non-deterministic primitive action is replaced by a set of
// deterministic clones, one per outcome, exposed to the rest of the
// planner as a new compound task with one single-task method per clone.
// The result is an equivalent problem whose primitives all have exactly
// one outcome, plus a bijection from each determinized primitive's
// original name to the name of the compound that replaces it.
package determinize

import (
	"fmt"

	"github.com/koalaplan/fondhtn/pkg/catalog"
	"github.com/koalaplan/fondhtn/pkg/htn"
	"github.com/koalaplan/fondhtn/pkg/problem"
)

// CloneSuffix is the naming convention for a determinized outcome clone:
// "<action>__determinized_<i>".
func CloneSuffix(name string, i int) string {
	return fmt.Sprintf("%s__determinized_%d", name, i)
}

// StubName is the naming convention for the compound replacing a
// non-deterministic primitive: "<action>__determinized".
func StubName(name string) string {
	return name + "__determinized"
}

// Result is the determinized problem plus the original-name -> stub-name
// bijection: a map from each non-deterministic action's original catalog
// name to the catalog name of the compound that replaces it.
type Result struct {
	Problem *problem.Problem
	// Bijection maps an original non-deterministic primitive's name to the
	// name of the compound task that replaced it.
	Bijection map[string]string
}

// Determinize produces an all-outcome determinized problem equivalent to
// p. p itself is left unmodified.
func Determinize(p *problem.Problem) Result {
	bijection := make(map[string]string)
	nc := catalog.New()

	// Pass 1: register every task name up front (primitives unchanged,
	// clones, new stub compounds, and original compounds) so that method
	// decompositions built in pass 2 can always resolve names, matching
	// the catalog's append-then-attach-methods discipline.
	var ndNames []string
	for _, t := range p.Catalog.Tasks() {
		switch t.Kind {
		case catalog.Primitive:
			if t.Primitive.Deterministic() {
				nc.AddPrimitive(clonePrimitive(t.Primitive, t.Primitive.Name, 0))
			} else {
				ndNames = append(ndNames, t.Primitive.Name)
				for i := range t.Primitive.Outcomes {
					nc.AddPrimitive(clonePrimitive(t.Primitive, CloneSuffix(t.Primitive.Name, i), i))
				}
				nc.AddCompound(StubName(t.Primitive.Name))
				bijection[t.Primitive.Name] = StubName(t.Primitive.Name)
			}
		case catalog.Compound:
			nc.AddCompound(t.Compound.Name)
		}
	}

	// Pass 2: attach stub methods (one single-task method per outcome clone).
	for _, name := range ndNames {
		original := p.Catalog.TaskByName(name).Primitive
		for i := range original.Outcomes {
			cloneName := CloneSuffix(name, i)
			node := 1
			nc = nc.WithMethod(&catalog.Method{
				Name:   fmt.Sprintf("%s_method_%d", StubName(name), i),
				Task:   StubName(name),
				Nodes:  []int{node},
				Labels: map[int]string{node: cloneName},
			})
		}
	}

	// Pass 3: rewrite every original compound's methods, relabeling any
	// node labeled with a determinized primitive to its stub compound.
	for _, t := range p.Catalog.Tasks() {
		if t.Kind != catalog.Compound {
			continue
		}
		for _, m := range t.Compound.Methods {
			nc = nc.WithMethod(rewriteMethod(m, bijection))
		}
	}

	// Rewrite the initial task network identically, relabeling any node
	// that names a now-determinized primitive to its stub compound.
	newNetwork := rewriteNetwork(p.InitialNetwork, nc, bijection)

	return Result{
		Problem: &problem.Problem{
			Facts:          p.Facts,
			Catalog:        nc,
			InitialState:   p.InitialState,
			InitialNetwork: newNetwork,
		},
		Bijection: bijection,
	}
}

func clonePrimitive(src *catalog.PrimitiveAction, name string, outcome int) *catalog.PrimitiveAction {
	return &catalog.PrimitiveAction{
		Name:     name,
		Cost:     src.Cost,
		Precond:  src.Precond,
		Outcomes: []catalog.Outcome{src.Outcomes[outcome]},
	}
}

func rewriteMethod(m *catalog.Method, bijection map[string]string) *catalog.Method {
	labels := make(map[int]string, len(m.Labels))
	for id, name := range m.Labels {
		if stub, ok := bijection[name]; ok {
			labels[id] = stub
		} else {
			labels[id] = name
		}
	}
	return &catalog.Method{
		Name:   m.Name,
		Task:   m.Task,
		Nodes:  append([]int(nil), m.Nodes...),
		Edges:  append([][2]int(nil), m.Edges...),
		Labels: labels,
	}
}

func rewriteNetwork(n *htn.Network, nc *catalog.Catalog, bijection map[string]string) *htn.Network {
	labels := make(map[int]string, n.NodeCount())
	for _, id := range n.Nodes() {
		name := n.TaskAt(id).Name()
		if stub, ok := bijection[name]; ok {
			labels[id] = stub
		} else {
			labels[id] = name
		}
	}
	return htn.New(n.Nodes(), n.Orderings(), labels, nc)
}

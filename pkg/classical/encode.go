package classical

import (
	"strings"

	"github.com/koalaplan/fondhtn/pkg/catalog"
	"github.com/koalaplan/fondhtn/pkg/facts"
	"github.com/koalaplan/fondhtn/pkg/problem"
)

// Action is one classical STRIPS action of the relaxed composition: either
// a zero-cost method action or a primitive's classical counterpart. Del is
// carried for fidelity with the encoding but is never consulted by the
// heuristic oracle, which works over the delete-relaxation of this domain
// and never subtracts.
type Action struct {
	Name string
	Cost int
	Pre  facts.Set
	Add  facts.Set
	Del  facts.Set
}

// Domain is the relaxed classical STRIPS domain produced by encoding a
// determinized FOND-HTN problem, plus the TDG it was built alongside.
type Domain struct {
	Facts   *facts.Table
	Catalog *catalog.Catalog
	Actions []Action
	TDG     *TDG
}

// determinizedSuffix is the substring every determinized outcome clone name
// contain; canonicalize strips it down to the stub compound's name (e.g.
// "p2__determinized_0" -> "p2__determinized").
const determinizedSuffix = "__determinized_"

func canonicalize(name string) (string, bool) {
	idx := strings.Index(name, determinizedSuffix)
	if idx < 0 {
		return "", false
	}
	return name[:idx] + "__determinized", true
}

// Build encodes p (which must already be all-outcome determinized, see
// pkg/determinize) into a relaxed classical domain and builds the TDG
// rooted at p's initial network.
func Build(p *problem.Problem) *Domain {
	tasks := p.Catalog.Tasks()

	topDown := make([]string, 0, len(tasks))
	var bottomUp []string
	var canonical []string
	for _, t := range tasks {
		topDown = append(topDown, t.Name())
		if t.Kind == catalog.Primitive {
			bottomUp = append(bottomUp, t.Primitive.Name+"_reachable")
			if stub, ok := canonicalize(t.Primitive.Name); ok {
				canonical = append(canonical, stub)
			}
		}
	}
	extended := p.Facts.Extend(append(append(topDown, bottomUp...), canonical...)...)

	actions := make([]Action, 0, len(tasks))
	for _, t := range tasks {
		switch t.Kind {
		case catalog.Compound:
			for _, m := range t.Compound.Methods {
				actions = append(actions, encodeMethod(extended, t.Compound.Name, m))
			}
		case catalog.Primitive:
			actions = append(actions, encodePrimitive(extended, t.Primitive))
		}
	}

	roots := make([]string, 0, p.InitialNetwork.NodeCount())
	for _, id := range p.InitialNetwork.Nodes() {
		roots = append(roots, p.InitialNetwork.TaskAt(id).Name())
	}

	return &Domain{
		Facts:   extended,
		Catalog: p.Catalog,
		Actions: actions,
		TDG:     BuildTDG(p.Catalog, roots),
	}
}

func encodeMethod(ft *facts.Table, compoundName string, m *catalog.Method) Action {
	pre := facts.NewSet()
	for _, name := range subtaskNames(m) {
		pre = pre.Union(facts.NewSet(ft.MustID(name)))
	}
	return Action{
		Name: m.Name,
		Cost: 0,
		Pre:  pre,
		Add:  facts.NewSet(ft.MustID(compoundName)),
		Del:  facts.NewSet(),
	}
}

func encodePrimitive(ft *facts.Table, p *catalog.PrimitiveAction) Action {
	if !p.Deterministic() {
		panic("classical: encode assumes an all-outcome determinized FOND problem: " + p.Name + " still has multiple outcomes")
	}
	outcome := p.Outcomes[0]

	add := facts.NewSet(ft.MustID(p.Name)).Union(outcome.Add)
	if stub, ok := canonicalize(p.Name); ok {
		add = add.Union(facts.NewSet(ft.MustID(stub)))
	}

	pre := facts.NewSet(ft.MustID(p.Name + "_reachable")).Union(p.Precond)

	return Action{
		Name: p.Name,
		Cost: p.Cost,
		Pre:  pre,
		Add:  add,
		Del:  outcome.Del,
	}
}

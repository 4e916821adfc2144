package loader

import (
	"fmt"

	"github.com/koalaplan/fondhtn/pkg/catalog"
	"github.com/koalaplan/fondhtn/pkg/htn"
	"github.com/koalaplan/fondhtn/pkg/problem"
)

// rootTaskName is the name of the synthetic compound task collapse
// introduces. When the catalog already defines a task by that name (for
// example, because the problem was collapsed before), Collapse appends the
// smallest counter suffix (1, 2, ...) that makes the name unique.
const rootTaskName = "__collapsed_root__"

// Collapse wraps p's initial task network in a single synthetic compound
// task with one method whose decomposition is p's original network,
// guaranteeing every search starts from a one-node root network. It is
// idempotent in effect: collapsing an already-collapsed, single-node
// problem produces an equivalent (if differently labeled) one-node-root
// problem.
func Collapse(p *problem.Problem) *problem.Problem {
	orig := p.InitialNetwork
	nodes := orig.Nodes()
	labels := make(map[int]string, len(nodes))
	for _, id := range nodes {
		labels[id] = orig.TaskAt(id).Name()
	}

	name := rootTaskName
	for i := 1; p.Catalog.Has(name); i++ {
		name = fmt.Sprintf("%s%d", rootTaskName, i)
	}

	nc := p.Catalog.WithCompound(name)
	nc = nc.WithMethod(&catalog.Method{
		Name:   name + "_method",
		Task:   name,
		Nodes:  append([]int(nil), nodes...),
		Edges:  orig.Orderings(),
		Labels: labels,
	})

	root := htn.New([]int{1}, nil, map[int]string{1: name}, nc)
	return &problem.Problem{
		Facts:          p.Facts,
		Catalog:        nc,
		InitialState:   p.InitialState,
		InitialNetwork: root,
	}
}

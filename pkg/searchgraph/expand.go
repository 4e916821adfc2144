package searchgraph

import (
	"github.com/koalaplan/fondhtn/pkg/heuristic"
	"github.com/koalaplan/fondhtn/pkg/progression"
)

// Expand computes n's connectors. A no-op if n already has connectors. If
// progression yields nothing, n is marked terminal — Solved with cost 0 if
// its network is already a goal, Failed with cost +∞ otherwise.
func (g *Graph) Expand(n *Node) {
	if len(n.Connectors) > 0 {
		return
	}

	expansions := progression.Expand(n.Network, n.State)
	if len(expansions) == 0 {
		if n.Network.IsGoal() {
			n.Status = Solved
			n.Cost = 0
		} else {
			n.Status = Failed
			n.Cost = heuristic.Infinite
		}
		return
	}

	for _, e := range expansions {
		connCost := 0
		if e.Label.Kind == progression.Execution {
			connCost = 1
		}
		children := make([]*Node, len(e.ChildStates))
		for i, childState := range e.ChildStates {
			if existing := g.findExisting(childState, e.NewNetwork); existing != nil {
				existing.Parents = appendParent(existing.Parents, n)
				children[i] = existing
				continue
			}
			h := heuristic.Compute(g.dom, g.kind, e.NewNetwork, childState, g.bijection)
			child := g.newNode(childState, e.NewNetwork, n.Depth+1, []*Node{n})
			child.Cost = h
			child.Status = initialStatus(h, e.NewNetwork)
			children[i] = child
		}
		n.Connectors = append(n.Connectors, &Connector{Label: e.Label, Cost: connCost, Children: children})
	}
}

func appendParent(parents []*Node, n *Node) []*Node {
	for _, p := range parents {
		if p.ID == n.ID {
			return parents
		}
	}
	return append(parents, n)
}

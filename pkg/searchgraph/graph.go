package searchgraph

import (
	"github.com/koalaplan/fondhtn/pkg/classical"
	"github.com/koalaplan/fondhtn/pkg/facts"
	"github.com/koalaplan/fondhtn/pkg/heuristic"
	"github.com/koalaplan/fondhtn/pkg/htn"
)

// Graph owns every Node ever created and the classical domain/heuristic
// choice used to evaluate new ones. Node ids are dense and assigned in
// creation order, giving FindTip a deterministic tie-break: ties broken by
// node-id ordering.
//
// Search itself is carried out over whatever catalog initialNetwork was
// built from — the original, possibly non-deterministic problem: a
// primitive's multiple outcomes surface as multiple sibling children of a
// single Execution connector (pkg/progression), which already gives AND
// semantics without determinization. dom is the separate classical
// encoding of the all-outcome determinized problem (pkg/classical,
// pkg/determinize), consulted only as the heuristic oracle; bijection
// translates active task names into dom's catalog before every such
// lookup.
type Graph struct {
	Root *Node

	nodes     []*Node
	dom       *classical.Domain
	kind      heuristic.Kind
	bijection map[string]string
}

// New builds the initial one-node graph for (initialState, initialNetwork),
// applying the same initial-status rule to the root as every other new
// node. bijection is the determinizer's original-name -> stub-name map
// (nil if the search network is already the determinized one).
func New(dom *classical.Domain, bijection map[string]string, kind heuristic.Kind, initialState facts.Set, initialNetwork *htn.Network) *Graph {
	g := &Graph{dom: dom, kind: kind, bijection: bijection}
	h := heuristic.Compute(dom, kind, initialNetwork, initialState, bijection)
	root := g.newNode(initialState, initialNetwork, 0, nil)
	root.Cost = h
	root.Status = initialStatus(h, initialNetwork)
	g.Root = root
	return g
}

// NodeCount is the number of nodes ever created, used by the driver loop
// to accumulate SearchStats.
func (g *Graph) NodeCount() int { return len(g.nodes) }

func (g *Graph) newNode(state facts.Set, network *htn.Network, depth int, parents []*Node) *Node {
	n := &Node{
		ID:      len(g.nodes),
		State:   state,
		Network: network,
		Depth:   depth,
		Parents: append([]*Node(nil), parents...),
	}
	g.nodes = append(g.nodes, n)
	return n
}

// findExisting is the cycle check: an existing node whose stored
// search-node equals (state, network). Expand consults it before creating
// a child so a decomposition that loops back to an already-visited
// (state, network) pair gains a parent edge onto the existing node instead
// of spawning a duplicate and expanding forever.
func (g *Graph) findExisting(state facts.Set, network *htn.Network) *Node {
	for _, n := range g.nodes {
		if n.sameSearchNode(state, network) {
			return n
		}
	}
	return nil
}

func initialStatus(h int, network *htn.Network) Status {
	switch {
	case h == heuristic.Infinite:
		return Failed
	case network.IsGoal():
		return Solved
	default:
		return OnGoing
	}
}

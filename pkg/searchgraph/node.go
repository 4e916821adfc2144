// Package searchgraph implements the AND/OR search hypergraph — expansion,
// tip-node selection, and backward cost/status revision that together
// drive the AO*-style search.
package searchgraph

import (
	"github.com/koalaplan/fondhtn/pkg/facts"
	"github.com/koalaplan/fondhtn/pkg/htn"
	"github.com/koalaplan/fondhtn/pkg/progression"
)

// Status is a search node's (or connector's) resolution state.
type Status int

const (
	OnGoing Status = iota
	Solved
	Failed
)

func (s Status) String() string {
	switch s {
	case OnGoing:
		return "OnGoing"
	case Solved:
		return "Solved"
	case Failed:
		return "Failed"
	default:
		return "unknown"
	}
}

// Connector is one hyperarc out of a node: a single progression expansion,
// its fixed cost (1 for Execution, 0 for Decomposition), and the child
// node per outcome.
type Connector struct {
	Label    progression.Label
	Cost     int
	Children []*Node
}

// Node is a (state, network) pair in the AND/OR search graph. Two nodes
// are the same search node when their states are equal and their networks
// are isomorphic — the graph never creates a second Node for such a pair,
// instead adding an extra parent edge to the existing one.
type Node struct {
	ID      int
	State   facts.Set
	Network *htn.Network
	Depth   int
	Status  Status
	Cost    int // heuristic.Infinite encodes +∞

	Connectors []*Connector
	Parents    []*Node
	// Marked is the connector currently believed to be part of the best
	// partial solution rooted here, or nil if none has been chosen yet.
	Marked *Connector
}

// sameSearchNode reports whether (state, network) already denotes n.
func (n *Node) sameSearchNode(state facts.Set, network *htn.Network) bool {
	return n.State.Equal(state) && n.Network.Isomorphic(network)
}

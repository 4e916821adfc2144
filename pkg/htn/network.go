// Package htn implements the task network data structure: a labeled DAG
// over node-ids, with decomposition and action-application as the two
// structural mutators, and a VF2-style isomorphism test used by the search
// graph for cycle detection.
package htn

import (
	"fmt"
	"sort"

	"github.com/koalaplan/fondhtn/pkg/catalog"
)

// Network is a labeled DAG over small positive node-ids. Node-ids are
// locally unique within the network; edges are a strict
// partial order stored as an explicit edge list (no transitive closure).
// Every Network carries a reference to the shared, read-only Catalog it
// labels nodes against.
type Network struct {
	nodes  []int          // sorted, locally-unique node ids
	out    map[int][]int  // node -> immediate successors
	in     map[int][]int  // node -> immediate predecessors
	labels map[int]string // node -> catalog task name
	cat    *catalog.Catalog
}

// New builds a Network from explicit node, edge and label data, and the
// shared catalog to resolve labels against. It panics on any invariant
// violation: (a) edges only connect present nodes; (b) label map total
// over nodes; (c) acyclicity — a caller that produces an invalid network
// is a programming error, not a user error.
func New(nodes []int, edges [][2]int, labels map[int]string, cat *catalog.Catalog) *Network {
	n := &Network{
		nodes:  append([]int(nil), nodes...),
		out:    make(map[int][]int),
		in:     make(map[int][]int),
		labels: make(map[int]string, len(labels)),
		cat:    cat,
	}
	sort.Ints(n.nodes)

	present := make(map[int]bool, len(n.nodes))
	for _, id := range n.nodes {
		present[id] = true
	}
	for _, e := range edges {
		before, after := e[0], e[1]
		if !present[before] || !present[after] {
			panic(fmt.Sprintf("htn: edge (%d,%d) references a node not in the network", before, after))
		}
		n.out[before] = append(n.out[before], after)
		n.in[after] = append(n.in[after], before)
	}
	for k := range n.out {
		sort.Ints(n.out[k])
	}
	for k := range n.in {
		sort.Ints(n.in[k])
	}
	for id := range present {
		name, ok := labels[id]
		if !ok {
			panic(fmt.Sprintf("htn: node %d has no label", id))
		}
		if !cat.Has(name) {
			panic(fmt.Sprintf("htn: node %d labeled with unknown task %q", id, name))
		}
		n.labels[id] = name
	}
	if n.hasCycle() {
		panic("htn: network is not acyclic")
	}
	return n
}

func (n *Network) hasCycle() bool {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[int]int, len(n.nodes))
	var visit func(id int) bool
	visit = func(id int) bool {
		switch state[id] {
		case visiting:
			return true
		case done:
			return false
		}
		state[id] = visiting
		for _, next := range n.out[id] {
			if visit(next) {
				return true
			}
		}
		state[id] = done
		return false
	}
	for _, id := range n.nodes {
		if state[id] == unvisited && visit(id) {
			return true
		}
	}
	return false
}

// NodeCount returns the number of nodes currently in the network.
func (n *Network) NodeCount() int { return len(n.nodes) }

// Nodes returns the network's node-ids in ascending order. Callers must not
// mutate the returned slice.
func (n *Network) Nodes() []int { return n.nodes }

// Orderings returns the network's edges as (before, after) pairs.
func (n *Network) Orderings() [][2]int {
	out := make([][2]int, 0)
	for _, before := range n.nodes {
		for _, after := range n.out[before] {
			out = append(out, [2]int{before, after})
		}
	}
	return out
}

// TaskAt returns the catalog task labeling node id, panicking if id is not
// present (a programming error: callers only ever hold ids this network
// reports via Nodes/Unconstrained).
func (n *Network) TaskAt(id int) *catalog.Task {
	name, ok := n.labels[id]
	if !ok {
		panic(fmt.Sprintf("htn: node %d not present in network", id))
	}
	return n.cat.TaskByName(name)
}

// Unconstrained returns the nodes with no incoming edges — the tasks
// eligible for execution or decomposition right now.
func (n *Network) Unconstrained() []int {
	out := make([]int, 0, len(n.nodes))
	for _, id := range n.nodes {
		if len(n.in[id]) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// IsGoal reports whether the network has no nodes left.
func (n *Network) IsGoal() bool { return len(n.nodes) == 0 }

// ApplyAction returns the network with node id removed. id must be
// unconstrained and must label a primitive task; violating either
// precondition is a programming error, since progression only ever calls
// this on unconstrained primitives.
func (n *Network) ApplyAction(id int) *Network {
	task := n.TaskAt(id)
	if task.Kind != catalog.Primitive {
		panic(fmt.Sprintf("htn: ApplyAction called on non-primitive node %d (%s)", id, task.Name()))
	}
	if len(n.in[id]) != 0 {
		panic(fmt.Sprintf("htn: ApplyAction called on constrained node %d", id))
	}

	nodes := make([]int, 0, len(n.nodes)-1)
	labels := make(map[int]string, len(n.labels)-1)
	for _, x := range n.nodes {
		if x == id {
			continue
		}
		nodes = append(nodes, x)
		labels[x] = n.labels[x]
	}
	var edges [][2]int
	for before, id2 := range n.out {
		for _, after := range id2 {
			if before == id || after == id {
				continue
			}
			edges = append(edges, [2]int{before, after})
		}
	}
	return New(nodes, edges, labels, n.cat)
}

// Decompose returns the network with compound node id replaced by a fresh
// copy of method m's decomposition, relabeled with ids disjoint from the
// current network. id must label a compound task and m must be one of
// that task's methods; id's
// predecessors become predecessors of the decomposition's source nodes,
// and id's successors become successors of its sink nodes, preserving
// acyclicity (the spliced subgraph is itself a DAG inserted in place of a
// single node).
func (n *Network) Decompose(id int, m *catalog.Method) *Network {
	task := n.TaskAt(id)
	if task.Kind != catalog.Compound {
		panic(fmt.Sprintf("htn: Decompose called on non-compound node %d (%s)", id, task.Name()))
	}
	found := false
	for _, cand := range task.Compound.Methods {
		if cand == m {
			found = true
			break
		}
	}
	if !found {
		panic(fmt.Sprintf("htn: method %q is not a method of %q", m.Name, task.Name()))
	}

	// 1. Relabel m's node-ids to be disjoint from the current network's,
	// using max(ids)+1 counting up.
	maxID := 0
	for _, x := range n.nodes {
		if x > maxID {
			maxID = x
		}
	}
	for _, x := range m.Nodes {
		if x > maxID {
			maxID = x
		}
	}
	remap := make(map[int]int, len(m.Nodes))
	next := maxID + 1
	for _, old := range sortedInts(m.Nodes) {
		remap[old] = next
		next++
	}

	subNodes := make([]int, 0, len(m.Nodes))
	subLabels := make(map[int]string, len(m.Nodes))
	for old, fresh := range remap {
		subNodes = append(subNodes, fresh)
		subLabels[fresh] = m.Labels[old]
	}
	subEdges := make([][2]int, 0, len(m.Edges))
	for _, e := range m.Edges {
		subEdges = append(subEdges, [2]int{remap[e[0]], remap[e[1]]})
	}

	// sources: sub-nodes with no incoming edge within the subgraph; sinks:
	// sub-nodes with no outgoing edge within the subgraph.
	hasIn := make(map[int]bool, len(subNodes))
	hasOut := make(map[int]bool, len(subNodes))
	for _, e := range subEdges {
		hasOut[e[0]] = true
		hasIn[e[1]] = true
	}
	var sources, sinks []int
	for _, x := range subNodes {
		if !hasIn[x] {
			sources = append(sources, x)
		}
		if !hasOut[x] {
			sinks = append(sinks, x)
		}
	}

	// 2. Remove n, splice the subgraph in place of its incoming/outgoing edges.
	predecessors := append([]int(nil), n.in[id]...)
	successors := append([]int(nil), n.out[id]...)

	nodes := make([]int, 0, len(n.nodes)-1+len(subNodes))
	labels := make(map[int]string, len(n.labels)-1+len(subNodes))
	for _, x := range n.nodes {
		if x == id {
			continue
		}
		nodes = append(nodes, x)
		labels[x] = n.labels[x]
	}
	nodes = append(nodes, subNodes...)
	for k, v := range subLabels {
		labels[k] = v
	}

	var edges [][2]int
	for before, tos := range n.out {
		for _, after := range tos {
			if before == id || after == id {
				continue
			}
			edges = append(edges, [2]int{before, after})
		}
	}
	edges = append(edges, subEdges...)
	for _, pred := range predecessors {
		for _, src := range sources {
			edges = append(edges, [2]int{pred, src})
		}
	}
	for _, sink := range sinks {
		for _, succ := range successors {
			edges = append(edges, [2]int{sink, succ})
		}
	}

	return New(nodes, edges, labels, n.cat)
}

func sortedInts(xs []int) []int {
	out := append([]int(nil), xs...)
	sort.Ints(out)
	return out
}

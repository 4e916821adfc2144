package searchgraph

import "github.com/koalaplan/fondhtn/pkg/heuristic"

// Revise implements the AO* backward cost/status revision pass: after
// expanding tip, walk up to the root revising costs and statuses, deepest
// node first.
func (g *Graph) Revise(tip *Node) {
	working := map[int]*Node{tip.ID: tip}
	for len(working) > 0 {
		var cur *Node
		for _, n := range working {
			if cur == nil || n.Depth > cur.Depth || (n.Depth == cur.Depth && n.ID < cur.ID) {
				cur = n
			}
		}
		delete(working, cur.ID)

		if reviseNode(cur) {
			for _, p := range cur.Parents {
				working[p.ID] = p
			}
		}
	}
}

// reviseNode recomputes cur's status and cost from its connectors and
// reports whether either changed. A node with no connectors yet is a
// terminal leaf whose status/cost was already finalized by Expand; it is
// never recomputed here, only used to seed its parents' revision.
func reviseNode(cur *Node) bool {
	if len(cur.Connectors) == 0 {
		return true
	}

	oldStatus, oldCost := cur.Status, cur.Cost

	type arc struct {
		connector *Connector
		status    Status
		cost      int
	}
	arcs := make([]arc, len(cur.Connectors))
	for i, c := range cur.Connectors {
		st, cost := arcStatus(c)
		arcs[i] = arc{c, st, cost}
	}

	allFailed := true
	for _, a := range arcs {
		if a.status != Failed {
			allFailed = false
			break
		}
	}

	switch {
	case allFailed:
		cur.Status = Failed
		cur.Cost = heuristic.Infinite
		cur.Marked = nil
	default:
		var best *arc
		for i := range arcs {
			if arcs[i].status != Solved {
				continue
			}
			if best == nil || arcs[i].cost < best.cost {
				best = &arcs[i]
			}
		}
		if best != nil {
			cur.Status = Solved
			cur.Cost = best.cost
			cur.Marked = best.connector
			break
		}
		for i := range arcs {
			if arcs[i].status != OnGoing {
				continue
			}
			if best == nil || arcs[i].cost < best.cost {
				best = &arcs[i]
			}
		}
		cur.Status = OnGoing
		cur.Cost = best.cost
		cur.Marked = best.connector
	}

	return cur.Status != oldStatus || cur.Cost != oldCost
}

// arcStatus computes a connector's arc status and total cost: Solved if
// every child is Solved, Failed if any child is Failed, OnGoing otherwise;
// cost is connector.Cost + Σ child.Cost, or heuristic.Infinite when Failed.
func arcStatus(c *Connector) (Status, int) {
	anyFailed := false
	allSolved := true
	total := c.Cost
	for _, child := range c.Children {
		if child.Status == Failed {
			anyFailed = true
		}
		if child.Status != Solved {
			allSolved = false
		}
		total += child.Cost
	}
	switch {
	case anyFailed:
		return Failed, heuristic.Infinite
	case allSolved:
		return Solved, total
	default:
		return OnGoing, total
	}
}

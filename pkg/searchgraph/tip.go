package searchgraph

// FindTip walks only through marked connectors from the root, collects
// every OnGoing node with no connectors yet (a tip candidate), then picks
// the one maximizing depth first, then cost, ties broken by node id.
func (g *Graph) FindTip() *Node {
	var candidates []*Node
	visited := make(map[int]bool)
	var walk func(n *Node)
	walk = func(n *Node) {
		if visited[n.ID] {
			return
		}
		visited[n.ID] = true
		if n.Status == OnGoing && len(n.Connectors) == 0 {
			candidates = append(candidates, n)
			return
		}
		if n.Marked == nil {
			return
		}
		for _, c := range n.Marked.Children {
			walk(c)
		}
	}
	walk(g.Root)

	if len(candidates) == 0 {
		return nil
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if tipBetter(c, best) {
			best = c
		}
	}
	return best
}

func tipBetter(a, b *Node) bool {
	if a.Depth != b.Depth {
		return a.Depth > b.Depth
	}
	if a.Cost != b.Cost {
		return a.Cost > b.Cost
	}
	return a.ID < b.ID
}

// Package dot renders a search graph or task network as Graphviz DOT for
// offline inspection. It only reads a solved or partial
// *searchgraph.Graph/*htn.Network; it never mutates one.
package dot

import (
	"fmt"
	"sort"
	"strings"

	"github.com/koalaplan/fondhtn/pkg/catalog"
	"github.com/koalaplan/fondhtn/pkg/htn"
	"github.com/koalaplan/fondhtn/pkg/progression"
	"github.com/koalaplan/fondhtn/pkg/searchgraph"
)

// nodeColor maps a node's status to a display color: Solved is green,
// Failed is red, OnGoing is blue.
func nodeColor(status searchgraph.Status) string {
	switch status {
	case searchgraph.Solved:
		return "green"
	case searchgraph.Failed:
		return "red"
	default:
		return "blue"
	}
}

// SearchGraph renders g as Graphviz DOT: one vertex per search node,
// colored by status, and one edge per connector child. A connector with
// more than one child (the AND-branching produced by a non-deterministic
// action's outcomes) is rendered as a subgraph cluster, one edge from the
// parent into the cluster. Marked connectors are drawn solid and labeled
// with their progression.Label; unmarked ones are dashed.
func SearchGraph(g *searchgraph.Graph) string {
	var vertices, edges strings.Builder
	for _, n := range allNodes(g) {
		fmt.Fprintf(&vertices, "\t%d [label=%d, color=%s]\n", n.ID, n.ID, nodeColor(n.Status))
		for _, conn := range n.Connectors {
			writeConnector(&edges, n.ID, conn, conn == n.Marked)
		}
	}
	return fmt.Sprintf("digraph {\n\tcompound=true\n%s\n%s\n}", vertices.String(), edges.String())
}

func writeConnector(w *strings.Builder, parentID int, conn *searchgraph.Connector, marked bool) {
	label := connectorLabel(conn.Label)
	style := ""
	if !marked {
		style = ",style=dashed"
	}

	if len(conn.Children) == 1 {
		fmt.Fprintf(w, "\t%d->%d [label=%q%s]\n", parentID, conn.Children[0].ID, label, style)
		return
	}

	clusterID := fmt.Sprintf("%d_%d", parentID, conn.Children[0].ID)
	fmt.Fprintf(w, "\tsubgraph cluster%s {\n", clusterID)
	for _, child := range conn.Children {
		fmt.Fprintf(w, "\t\t%d\n", child.ID)
	}
	fmt.Fprintf(w, "\t}\n")
	fmt.Fprintf(w, "\t%d->%d [lhead=cluster%s,label=%q%s]\n",
		parentID, conn.Children[0].ID, clusterID, label, style)
}

func connectorLabel(l progression.Label) string {
	if l.Kind == progression.Execution {
		return l.ActionName
	}
	return l.TaskName + "/" + l.MethodName
}

// allNodes returns every node g has ever created, in id order. Graph
// exposes this only via NodeCount/Root today; dot walks the reachable set
// from Root instead of requiring a new Graph accessor.
func allNodes(g *searchgraph.Graph) []*searchgraph.Node {
	seen := make(map[int]bool)
	var order []*searchgraph.Node
	var visit func(n *searchgraph.Node)
	visit = func(n *searchgraph.Node) {
		if seen[n.ID] {
			return
		}
		seen[n.ID] = true
		order = append(order, n)
		for _, conn := range n.Connectors {
			for _, child := range conn.Children {
				visit(child)
			}
		}
	}
	visit(g.Root)
	sort.Slice(order, func(i, j int) bool { return order[i].ID < order[j].ID })
	return order
}

// HTN renders a task network's current structure as DOT: one vertex per
// node (green if primitive), one edge per ordering constraint.
func HTN(n *htn.Network) string {
	var vertices, edges strings.Builder
	for _, id := range n.Nodes() {
		task := n.TaskAt(id)
		fmt.Fprintf(&vertices, "\t%d [label=%q", id, task.Name())
		if task.Kind == catalog.Primitive {
			vertices.WriteString(", color=green]\n")
		} else {
			vertices.WriteString("]\n")
		}
	}
	for _, o := range n.Orderings() {
		fmt.Fprintf(&edges, "\t%d->%d\n", o[0], o[1])
	}
	return fmt.Sprintf("digraph {\n%s\n%s\n}", vertices.String(), edges.String())
}

// Package policy extracts a strong policy from a solved AND/OR search
// graph by breadth-first traversal over marked connectors.
package policy

import (
	"github.com/koalaplan/fondhtn/pkg/facts"
	"github.com/koalaplan/fondhtn/pkg/htn"
	"github.com/koalaplan/fondhtn/pkg/progression"
	"github.com/koalaplan/fondhtn/pkg/searchgraph"
)

// Entry is one strong-policy mapping: (state, network) -> (task, method).
// Method is "" for Execution labels.
type Entry struct {
	State   facts.Set
	Network *htn.Network
	Task    string
	Method  string
}

// Policy is the extracted strong policy plus its makespan: the maximum
// depth reached by any visited node.
type Policy struct {
	Entries  []Entry
	Makespan int
}

// Extract walks the marked sub-graph rooted at root breadth-first,
// emitting one Entry per visited node that has a marked connector. Each
// node id is visited at most once, so shared sub-solutions are not
// re-emitted.
func Extract(root *searchgraph.Node) Policy {
	var p Policy
	visited := make(map[int]bool)
	queue := []*searchgraph.Node{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if visited[n.ID] {
			continue
		}
		visited[n.ID] = true

		if n.Depth > p.Makespan {
			p.Makespan = n.Depth
		}
		if n.Marked == nil {
			continue
		}

		lbl := n.Marked.Label
		entry := Entry{State: n.State, Network: n.Network}
		if lbl.Kind == progression.Execution {
			entry.Task = lbl.ActionName
		} else {
			entry.Task = lbl.TaskName
			entry.Method = lbl.MethodName
		}
		p.Entries = append(p.Entries, entry)

		queue = append(queue, n.Marked.Children...)
	}
	return p
}

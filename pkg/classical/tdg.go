// Package classical implements the Task Decomposition Graph (a bipartite
// reachability structure over tasks and methods) and the relaxed
// classical STRIPS encoding built on top of it. Both are computed once per
// (determinized) problem and then queried repeatedly by the heuristic
// oracle.
package classical

import (
	"sort"

	"github.com/koalaplan/fondhtn/pkg/catalog"
	"github.com/koalaplan/fondhtn/pkg/htn"
)

// TDG is the Task Decomposition Graph: one node per task reachable
// transitively from a set of roots, one node per method of each reachable
// compound, with edges compound->methods and method->subtasks.
type TDG struct {
	// methods maps a reachable compound's task name to the qualified names
	// of its methods ("<task> <method>"). Absence of a key means the name
	// is a primitive or was never discovered during construction.
	methods map[string][]string
	// subtasks maps a qualified method name to the task names referenced
	// by its decomposition, in node-id order.
	subtasks map[string][]string
	// reachable records every task name discovered during BuildTDG,
	// whether compound or primitive (a primitive has no outgoing edges).
	reachable map[string]bool
}

func qualify(task, method string) string { return task + " " + method }

// BuildTDG walks cat starting from roots, recording every task and method
// reached. roots is normally the set of task names labeling the nodes of
// a problem's (normalized) initial task network.
func BuildTDG(cat *catalog.Catalog, roots []string) *TDG {
	g := &TDG{methods: map[string][]string{}, subtasks: map[string][]string{}}
	reachable := map[string]bool{}
	working := append([]string(nil), roots...)
	for len(working) > 0 {
		name := working[0]
		working = working[1:]
		if reachable[name] {
			continue
		}
		reachable[name] = true
		task := cat.TaskByName(name)
		if task.Kind != catalog.Compound {
			continue
		}
		var methodNames []string
		for _, m := range task.Compound.Methods {
			qname := qualify(name, m.Name)
			subs := subtaskNames(m)
			g.subtasks[qname] = subs
			methodNames = append(methodNames, qname)
			working = append(working, subs...)
		}
		g.methods[name] = methodNames
	}
	g.reachable = reachable
	return g
}

func subtaskNames(m *catalog.Method) []string {
	ids := make([]int, 0, len(m.Labels))
	for id := range m.Labels {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = m.Labels[id]
	}
	return names
}

// IsReachable reports whether name was discovered during BuildTDG.
func (g *TDG) IsReachable(name string) bool { return g.reachable[name] }

// AllReachable returns the transitive closure (task names only) reachable
// from start, following compound->method and method->subtask edges. start
// is always included.
func (g *TDG) AllReachable(start ...string) map[string]bool {
	result := map[string]bool{}
	var working []string
	push := func(n string) {
		if !result[n] {
			result[n] = true
			working = append(working, n)
		}
	}
	for _, s := range start {
		push(s)
	}
	for len(working) > 0 {
		cur := working[0]
		working = working[1:]
		methodNames, ok := g.methods[cur]
		if !ok {
			continue
		}
		for _, qm := range methodNames {
			for _, sub := range g.subtasks[qm] {
				push(sub)
			}
		}
	}
	return result
}

// ReachableFromNetwork is AllReachable seeded with every task currently
// labeling a node of net.
func (g *TDG) ReachableFromNetwork(net *htn.Network) map[string]bool {
	names := make([]string, 0, net.NodeCount())
	for _, id := range net.Nodes() {
		names = append(names, net.TaskAt(id).Name())
	}
	return g.AllReachable(names...)
}

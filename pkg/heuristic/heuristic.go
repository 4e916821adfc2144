// Package heuristic implements the heuristic oracle (h_max, h_add, h_FF)
// computed over a classical relaxed composition (pkg/classical),
// restricted to the tasks currently active in a search node's network.
package heuristic

import (
	"math"

	"github.com/koalaplan/fondhtn/pkg/catalog"
	"github.com/koalaplan/fondhtn/pkg/classical"
	"github.com/koalaplan/fondhtn/pkg/facts"
	"github.com/koalaplan/fondhtn/pkg/htn"
)

// Kind selects which classical heuristic to compute.
type Kind int

const (
	HMax Kind = iota
	HAdd
	HFF
)

func (k Kind) String() string {
	switch k {
	case HMax:
		return "h_max"
	case HAdd:
		return "h_add"
	case HFF:
		return "h_ff"
	default:
		return "unknown"
	}
}

// Infinite represents +∞: the relaxed instance is unsolvable from the
// given state — some goal literal never appears in the relaxed
// fixpoint.
const Infinite = math.MaxInt

// Compute evaluates the chosen heuristic for (state, network) against dom.
// The active task multiset is read from every node label of network;
// repeated task names are compensated for and the result is floored at
// the number of active tasks.
//
// network labels tasks in the search's own (possibly non-determinized)
// catalog, while dom was built over the determinizer's output catalog
// (pkg/classical.Build requires an all-outcome determinized problem).
// bijection is the determinizer's original-name -> stub-name map
// (determinize.Result.Bijection); every active task is translated through
// it before it is looked up in dom. A nil bijection leaves every name
// unchanged, for callers that already search over the determinized
// problem directly.
func Compute(dom *classical.Domain, kind Kind, network *htn.Network, state facts.Set, bijection map[string]string) int {
	active := activeTasks(network)
	translated := translateAll(active, bijection)

	seed := relaxedState(dom, translated, state)
	goal := goalLiterals(dom, translated)

	var h int
	switch kind {
	case HMax:
		h = hMax(dom, seed, goal)
	case HAdd:
		h = hAdd(dom, seed, goal)
	case HFF:
		h = hFF(dom, seed, goal)
	default:
		panic("heuristic: unknown kind")
	}
	if h == Infinite {
		return Infinite
	}

	h += repetitionCompensation(active)
	if floor := len(active); h < floor {
		h = floor
	}
	return h
}

// translateAll maps every name in names through bijection, leaving names
// with no entry unchanged.
func translateAll(names []string, bijection map[string]string) []string {
	if len(bijection) == 0 {
		return names
	}
	out := make([]string, len(names))
	for i, name := range names {
		if stub, ok := bijection[name]; ok {
			out[i] = stub
		} else {
			out[i] = name
		}
	}
	return out
}

// activeTasks reads the task label of every node currently in network.
// Names repeat when the same task labels more than one node — the
// multiset, not just the set, matters for repetitionCompensation.
func activeTasks(network *htn.Network) []string {
	ids := network.Nodes()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = network.TaskAt(id).Name()
	}
	return names
}

// relaxedState computes S' = state ∪ reachable-primitive literals: every
// primitive reachable (via the TDG) from the active tasks contributes its
// bottom-up "_reachable" literal.
func relaxedState(dom *classical.Domain, active []string, state facts.Set) facts.Set {
	reachable := dom.TDG.AllReachable(active...)
	seed := state.Clone()
	for name := range reachable {
		task := dom.Catalog.TaskByName(name)
		if task.Kind != catalog.Primitive {
			continue
		}
		if id, ok := dom.Facts.ID(name + "_reachable"); ok {
			seed = seed.Union(facts.NewSet(id))
		}
	}
	return seed
}

// goalLiterals computes G, the top-down literals of the active tasks.
func goalLiterals(dom *classical.Domain, active []string) facts.Set {
	goal := facts.NewSet()
	for _, name := range active {
		goal = goal.Union(facts.NewSet(dom.Facts.MustID(name)))
	}
	return goal
}

// repetitionCompensation is Σ(c_i - 1) over the active task multiset's
// per-name counts.
func repetitionCompensation(active []string) int {
	counts := make(map[string]int, len(active))
	for _, name := range active {
		counts[name]++
	}
	extra := 0
	for _, c := range counts {
		extra += c - 1
	}
	return extra
}

// Package progression implements the forward one-step enumeration of
// legal transitions from a (state, network) pair — execute an
// unconstrained primitive, or decompose an unconstrained compound.
package progression

import (
	"github.com/koalaplan/fondhtn/pkg/catalog"
	"github.com/koalaplan/fondhtn/pkg/facts"
	"github.com/koalaplan/fondhtn/pkg/htn"
)

// LabelKind tags the Execution/Decomposition connector-label sum type.
type LabelKind int

const (
	Execution LabelKind = iota
	Decomposition
)

// Label identifies which task was executed or decomposed, and how. It is
// the value the AND/OR search graph (pkg/searchgraph) stores on a
// connector and the value the strong policy (pkg/policy) ultimately
// reports to the caller.
type Label struct {
	Kind LabelKind

	// Execution fields.
	ActionName string
	ActionCost int

	// Decomposition fields. MethodName is "" for Execution labels.
	TaskName   string
	MethodName string
}

// Expansion is one possible next step out of a (network, state) pair: the
// label describing what happened, the resulting network, and one child
// state per outcome. Decompositions and deterministic executions always
// produce exactly one child state.
type Expansion struct {
	Label       Label
	NewNetwork  *htn.Network
	ChildStates []facts.Set
}

// Expand enumerates every expansion available from (network, state). An
// empty network yields no expansions (it is already a goal). A primitive
// whose precondition does not hold in state produces no expansion at all
// — it stays blocked until another unconstrained task changes the state
// or until cycle/no-progress is detected by the caller.
func Expand(network *htn.Network, state facts.Set) []Expansion {
	if network.IsGoal() {
		return nil
	}

	var expansions []Expansion
	for _, id := range network.Unconstrained() {
		task := network.TaskAt(id)
		switch task.Kind {
		case catalog.Primitive:
			expansions = append(expansions, expandPrimitive(network, id, task.Primitive, state)...)
		case catalog.Compound:
			expansions = append(expansions, expandCompound(network, id, task.Compound, state)...)
		}
	}
	return expansions
}

func expandPrimitive(network *htn.Network, id int, action *catalog.PrimitiveAction, state facts.Set) []Expansion {
	if !action.Applicable(state) {
		return nil
	}
	childStates := make([]facts.Set, len(action.Outcomes))
	for i := range action.Outcomes {
		childStates[i] = action.Apply(state, i)
	}
	return []Expansion{{
		Label: Label{
			Kind:       Execution,
			ActionName: action.Name,
			ActionCost: action.Cost,
		},
		NewNetwork:  network.ApplyAction(id),
		ChildStates: childStates,
	}}
}

func expandCompound(network *htn.Network, id int, task *catalog.CompoundTask, state facts.Set) []Expansion {
	expansions := make([]Expansion, 0, len(task.Methods))
	for _, m := range task.Methods {
		expansions = append(expansions, Expansion{
			Label: Label{
				Kind:       Decomposition,
				TaskName:   task.Name,
				MethodName: m.Name,
			},
			NewNetwork:  network.Decompose(id, m),
			ChildStates: []facts.Set{state},
		})
	}
	return expansions
}

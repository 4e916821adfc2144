// Package catalog is the canonical, append-only store of primitive actions
// and compound tasks. Tasks are interned by name; a Catalog is shared
// read-only by every task network built against it, and method attachment
// after construction produces a new Catalog rather than mutating the
// original.
package catalog

import (
	"fmt"

	"github.com/koalaplan/fondhtn/pkg/facts"
)

// Kind tags the Task sum type. Go has no sum types, so Task carries a Kind
// and the field for the inactive variant is left zero.
type Kind int

const (
	// Primitive tasks are directly executable actions.
	Primitive Kind = iota
	// Compound tasks are decomposed by one of their Methods.
	Compound
)

func (k Kind) String() string {
	switch k {
	case Primitive:
		return "primitive"
	case Compound:
		return "compound"
	default:
		return "unknown"
	}
}

// Outcome is one possible add/delete pair of a primitive action's effects.
// A deterministic action has exactly one Outcome.
type Outcome struct {
	Add facts.Set
	Del facts.Set
}

// PrimitiveAction is a directly executable action: name, cost, precondition
// and one or more alternative outcomes.
type PrimitiveAction struct {
	Name      string
	Cost      int
	Precond   facts.Set
	Outcomes  []Outcome
}

// Deterministic reports whether the action has exactly one outcome.
func (p *PrimitiveAction) Deterministic() bool { return len(p.Outcomes) == 1 }

// Applicable reports whether p's precondition holds in state.
func (p *PrimitiveAction) Applicable(state facts.Set) bool {
	return p.Precond.Subset(state)
}

// Apply returns the successor state reached by outcome i of p: (state \
// Del[i]) ∪ Add[i].
func (p *PrimitiveAction) Apply(state facts.Set, i int) facts.Set {
	o := p.Outcomes[i]
	return state.Minus(o.Del).Union(o.Add)
}

// Method is a named rewrite rule decomposing a compound task into a task
// network. Decomposition is stored as raw node/edge/label data rather than
// an *htn.Network to avoid an import cycle (pkg/htn references Catalog);
// htn.New reconstructs the network, attaching the shared Catalog.
type Method struct {
	Name    string
	Task    string // name of the compound task this method belongs to
	Nodes   []int
	Edges   [][2]int // [before, after], strict partial order
	Labels  map[int]string // node id -> task name
}

// CompoundTask is an abstract task together with its ordered methods.
// Method order is significant: forward progression emits one expansion per
// method, in order, and determinism of the resulting search graph depends
// on that order being stable.
type CompoundTask struct {
	Name    string
	Methods []*Method
}

// Task is the tagged union of PrimitiveAction and CompoundTask. Identity
// is by Name.
type Task struct {
	Kind      Kind
	Primitive *PrimitiveAction
	Compound  *CompoundTask
}

func (t *Task) Name() string {
	switch t.Kind {
	case Primitive:
		return t.Primitive.Name
	case Compound:
		return t.Compound.Name
	default:
		panic("catalog: task has unknown kind")
	}
}

// Catalog is the ordered sequence of Task values plus a name -> index map.
// It is append-only and, once built, shared read-only; attaching a method
// to a compound task produces a new Catalog (see WithMethod) rather than
// mutating this one, so every holder of a *Catalog can treat it as
// immutable for as long as it holds the reference.
type Catalog struct {
	tasks []*Task
	index map[string]int
}

// New builds an empty Catalog.
func New() *Catalog {
	return &Catalog{index: make(map[string]int)}
}

// Len returns the number of catalog tasks.
func (c *Catalog) Len() int { return len(c.tasks) }

// TaskByName resolves name to its Task, panicking if undefined — every
// caller inside the core has already gone through the loader, which
// rejects undefined references before the core ever sees them.
func (c *Catalog) TaskByName(name string) *Task {
	idx, ok := c.index[name]
	if !ok {
		panic(fmt.Sprintf("catalog: unknown task %q", name))
	}
	return c.tasks[idx]
}

// Has reports whether name resolves to a task in the catalog.
func (c *Catalog) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Tasks returns the catalog's tasks in append order. The returned slice
// must not be mutated by the caller.
func (c *Catalog) Tasks() []*Task { return c.tasks }

// AddPrimitive appends a new primitive action. It panics if the name is
// already in use (append-only catalogs never redefine a name).
func (c *Catalog) AddPrimitive(p *PrimitiveAction) {
	c.add(&Task{Kind: Primitive, Primitive: p}, p.Name)
}

// AddCompound appends a new compound task (with no methods yet; methods
// are attached separately via WithMethod so the loader can first intern
// every task name before resolving method subtask references).
func (c *Catalog) AddCompound(name string) {
	c.add(&Task{Kind: Compound, Compound: &CompoundTask{Name: name}}, name)
}

func (c *Catalog) add(t *Task, name string) {
	if _, ok := c.index[name]; ok {
		panic(fmt.Sprintf("catalog: duplicate task name %q", name))
	}
	c.index[name] = len(c.tasks)
	c.tasks = append(c.tasks, t)
}

// WithCompound returns a new Catalog equal to c but with an additional,
// method-less compound task named name appended. Used by the loader's
// normalization step to introduce a synthetic root task without mutating
// the catalog a network built before normalization already holds a
// reference to.
func (c *Catalog) WithCompound(name string) *Catalog {
	if _, ok := c.index[name]; ok {
		panic(fmt.Sprintf("catalog: duplicate task name %q", name))
	}
	next := &Catalog{
		tasks: make([]*Task, len(c.tasks), len(c.tasks)+1),
		index: make(map[string]int, len(c.index)+1),
	}
	copy(next.tasks, c.tasks)
	for k, v := range c.index {
		next.index[k] = v
	}
	next.index[name] = len(next.tasks)
	next.tasks = append(next.tasks, &Task{Kind: Compound, Compound: &CompoundTask{Name: name}})
	return next
}

// WithMethod returns a new Catalog equal to c but with m appended to the
// methods of the compound task m.Task. c is left unmodified: attaching a
// method to a shared, already-published catalog must not retroactively
// change task networks built against the old one. This is an infrequent
// operation used only during problem construction.
func (c *Catalog) WithMethod(m *Method) *Catalog {
	next := &Catalog{
		tasks: make([]*Task, len(c.tasks)),
		index: make(map[string]int, len(c.index)),
	}
	for k, v := range c.index {
		next.index[k] = v
	}
	for i, t := range c.tasks {
		if t.Kind == Compound && t.Compound.Name == m.Task {
			cloned := &CompoundTask{
				Name:    t.Compound.Name,
				Methods: append(append([]*Method{}, t.Compound.Methods...), m),
			}
			next.tasks[i] = &Task{Kind: Compound, Compound: cloned}
			continue
		}
		next.tasks[i] = t
	}
	if _, ok := c.index[m.Task]; !ok {
		panic(fmt.Sprintf("catalog: method %q references undefined compound task %q", m.Name, m.Task))
	}
	return next
}

package loader

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/xeipuuv/gojsonschema"

	"github.com/koalaplan/fondhtn/pkg/catalog"
	"github.com/koalaplan/fondhtn/pkg/facts"
	"github.com/koalaplan/fondhtn/pkg/htn"
	"github.com/koalaplan/fondhtn/pkg/problem"
)

type rawEffectBranch struct {
	AddEff rawUnconditional `json:"add_eff"`
	DelEff rawUnconditional `json:"del_eff"`
}

type rawUnconditional struct {
	Unconditional []string `json:"unconditional"`
}

type rawAction struct {
	Cost    int               `json:"cost"`
	Precond []string          `json:"precond"`
	Effects []rawEffectBranch `json:"effects"`
}

type rawMethod struct {
	Task      string   `json:"task"`
	Subtasks  []string `json:"subtasks"`
	Orderings [][]int  `json:"orderings"`
}

type rawProblem struct {
	StateFeatures       []string             `json:"state_features"`
	Actions             map[string]rawAction `json:"actions"`
	Tasks               []string             `json:"tasks"`
	Methods             map[string]rawMethod `json:"methods"`
	InitialState        []string             `json:"initial_state"`
	InitialAbstractTask string               `json:"initial_abstract_task"`

	// Accepted and discarded: not used by search, kept only for
	// round-tripping the input document's shape.
	Goal                        json.RawMessage `json:"goal"`
	MutexGroups                 json.RawMessage `json:"mutex_groups"`
	FurtherStrictMutexGroups    json.RawMessage `json:"further_strict_mutex_groups"`
	FurtherNonStrictMutexGroups json.RawMessage `json:"further_non_strict_mutex_groups"`
	KnownInvariants             json.RawMessage `json:"known_invariants"`
}

// LoadFile opens path and loads it: one blocking filesystem read before
// search starts.
func LoadFile(path string) (*problem.Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: opening %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes, schema-validates and reference-checks a problem document
// read from r, returning the collapsed (but not yet determinized)
// *problem.Problem. Determinization is the caller's responsibility: the
// step after collapse, run by the caller that owns the classical
// encoding and heuristic choice.
func Load(r io.Reader) (*problem.Problem, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("loader: reading input: %w", err)
	}

	if err := validateSchema(data); err != nil {
		return nil, err
	}

	var raw rawProblem
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("loader: decoding problem: %w: %w", err, ErrMalformed)
	}

	ft := facts.NewTable(raw.StateFeatures)
	litID := func(name string) (facts.ID, error) {
		id, ok := ft.ID(name)
		if !ok {
			return 0, fmt.Errorf("loader: unknown literal %q: %w", name, ErrMalformed)
		}
		return id, nil
	}

	actionNames := sortedKeys(raw.Actions)
	taskNames := append([]string(nil), raw.Tasks...)
	sort.Strings(taskNames)
	methodNames := sortedKeys(raw.Methods)

	taskSet := make(map[string]bool, len(raw.Actions)+len(raw.Tasks))
	for _, name := range actionNames {
		taskSet[name] = true
	}
	for _, name := range taskNames {
		if taskSet[name] {
			return nil, fmt.Errorf("loader: %q is both an action and a task: %w", name, ErrMalformed)
		}
		taskSet[name] = true
	}

	c := catalog.New()
	for _, name := range actionNames {
		action, err := decodeAction(name, raw.Actions[name], litID)
		if err != nil {
			return nil, err
		}
		c.AddPrimitive(action)
	}
	for _, name := range taskNames {
		c.AddCompound(name)
	}

	if !taskSet[raw.InitialAbstractTask] {
		return nil, fmt.Errorf("loader: initial_abstract_task %q is not a defined task: %w", raw.InitialAbstractTask, ErrMalformed)
	}

	for _, name := range methodNames {
		m := raw.Methods[name]
		if !isTask(taskNames, m.Task) {
			return nil, fmt.Errorf("loader: method %q references undefined task %q: %w", name, m.Task, ErrMalformed)
		}
		for _, sub := range m.Subtasks {
			if !taskSet[sub] {
				return nil, fmt.Errorf("loader: method %q references undefined subtask %q: %w", name, sub, ErrMalformed)
			}
		}
		nodes := make([]int, len(m.Subtasks))
		labels := make(map[int]string, len(m.Subtasks))
		for i, sub := range m.Subtasks {
			nodes[i] = i + 1
			labels[i+1] = sub
		}
		edges := make([][2]int, 0, len(m.Orderings))
		for _, o := range m.Orderings {
			if len(o) != 2 {
				return nil, fmt.Errorf("loader: method %q has a malformed ordering pair: %w", name, ErrMalformed)
			}
			before, after := o[0], o[1]
			if before < 0 || before >= len(m.Subtasks) || after < 0 || after >= len(m.Subtasks) {
				return nil, fmt.Errorf("loader: method %q ordering (%d,%d) out of range for %d subtasks: %w",
					name, before, after, len(m.Subtasks), ErrMalformed)
			}
			edges = append(edges, [2]int{before + 1, after + 1})
		}
		c = c.WithMethod(&catalog.Method{
			Name:   name,
			Task:   m.Task,
			Nodes:  nodes,
			Edges:  edges,
			Labels: labels,
		})
	}

	initIDs := make([]facts.ID, 0, len(raw.InitialState))
	for _, lit := range raw.InitialState {
		id, err := litID(lit)
		if err != nil {
			return nil, err
		}
		initIDs = append(initIDs, id)
	}

	network := htn.New([]int{1}, nil, map[int]string{1: raw.InitialAbstractTask}, c)

	return Collapse(&problem.Problem{
		Facts:          ft,
		Catalog:        c,
		InitialState:   facts.NewSet(initIDs...),
		InitialNetwork: network,
	}), nil
}

func decodeAction(name string, a rawAction, litID func(string) (facts.ID, error)) (*catalog.PrimitiveAction, error) {
	precond := make([]facts.ID, 0, len(a.Precond))
	for _, lit := range a.Precond {
		id, err := litID(lit)
		if err != nil {
			return nil, fmt.Errorf("loader: action %q precondition: %w", name, err)
		}
		precond = append(precond, id)
	}
	if len(a.Effects) == 0 {
		return nil, fmt.Errorf("loader: action %q has no effects: %w", name, ErrMalformed)
	}
	outcomes := make([]catalog.Outcome, 0, len(a.Effects))
	for _, eff := range a.Effects {
		addIDs := make([]facts.ID, 0, len(eff.AddEff.Unconditional))
		for _, lit := range eff.AddEff.Unconditional {
			id, err := litID(lit)
			if err != nil {
				return nil, fmt.Errorf("loader: action %q add effect: %w", name, err)
			}
			addIDs = append(addIDs, id)
		}
		delIDs := make([]facts.ID, 0, len(eff.DelEff.Unconditional))
		for _, lit := range eff.DelEff.Unconditional {
			id, err := litID(lit)
			if err != nil {
				return nil, fmt.Errorf("loader: action %q delete effect: %w", name, err)
			}
			delIDs = append(delIDs, id)
		}
		outcomes = append(outcomes, catalog.Outcome{
			Add: facts.NewSet(addIDs...),
			Del: facts.NewSet(delIDs...),
		})
	}
	return &catalog.PrimitiveAction{
		Name:     name,
		Cost:     a.Cost,
		Precond:  facts.NewSet(precond...),
		Outcomes: outcomes,
	}, nil
}

func validateSchema(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(problemSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("loader: schema validation: %w: %w", err, ErrMalformed)
	}
	if !result.Valid() {
		return fmt.Errorf("loader: %d schema violation(s), first: %s: %w",
			len(result.Errors()), result.Errors()[0], ErrMalformed)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func isTask(taskNames []string, name string) bool {
	i := sort.SearchStrings(taskNames, name)
	return i < len(taskNames) && taskNames[i] == name
}

// Package facts provides the bi-directional mapping between literal strings
// and the compact integer ids the rest of the planner operates on.
//
// A Table is append-only and immutable once built: ids are dense, starting
// at 0, and assigned in the order literals are first seen. Every other
// component (the task catalog, task networks, the classical encoding) holds
// a read-only reference to a single shared Table.
package facts

import "fmt"

// ID is a compact fact identifier. Precondition and effect sets are
// represented as sets of IDs rather than strings throughout the planner.
type ID uint32

// Table is the append-only, dense string<->ID mapping every fact-id set in
// the planner is interpreted against. The zero value is not usable;
// construct one with NewTable or Extend.
type Table struct {
	names []string
	ids   map[string]ID
}

// NewTable builds a Table from an ordered list of literal names; the slice
// index becomes the literal's id, matching the `state_features` field of
// the JSON problem format.
func NewTable(names []string) *Table {
	t := &Table{
		names: make([]string, len(names)),
		ids:   make(map[string]ID, len(names)),
	}
	copy(t.names, names)
	for i, n := range t.names {
		t.ids[n] = ID(i)
	}
	return t
}

// Len returns the number of known facts.
func (t *Table) Len() int { return len(t.names) }

// Name returns the literal string for id, panicking if id is out of range
// (an out-of-range id is always a programming error — callers only ever
// hold ids this table or an Extend of it produced).
func (t *Table) Name(id ID) string {
	if int(id) >= len(t.names) {
		panic(fmt.Sprintf("facts: id %d out of range (table has %d facts)", id, len(t.names)))
	}
	return t.names[id]
}

// ID returns the id for name and whether it was found.
func (t *Table) ID(name string) (ID, bool) {
	id, ok := t.ids[name]
	return id, ok
}

// MustID returns the id for name, panicking if it is not present.
func (t *Table) MustID(name string) ID {
	id, ok := t.ids[name]
	if !ok {
		panic(fmt.Sprintf("facts: unknown literal %q", name))
	}
	return id
}

// Extend returns a new table containing every literal of t plus any names
// not already present, preserving all of t's original ids and assigning
// fresh dense ids to the new literals in the order given. t itself is left
// unmodified. This is used by the classical encoding to add top-down and
// bottom-up literals without disturbing ids the rest of the planner
// already holds.
func (t *Table) Extend(names ...string) *Table {
	next := &Table{
		names: make([]string, len(t.names), len(t.names)+len(names)),
		ids:   make(map[string]ID, len(t.ids)+len(names)),
	}
	copy(next.names, t.names)
	for k, v := range t.ids {
		next.ids[k] = v
	}
	for _, n := range names {
		if _, ok := next.ids[n]; ok {
			continue
		}
		id := ID(len(next.names))
		next.names = append(next.names, n)
		next.ids[n] = id
	}
	return next
}

// Set is a small, ordered-iteration-friendly set of fact ids. It backs
// state sets, preconditions, and add/delete effect lists throughout the
// planner; membership, union and difference are its only required
// operations.
type Set map[ID]struct{}

// NewSet builds a Set from the given ids.
func NewSet(ids ...ID) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is a member of s.
func (s Set) Has(id ID) bool {
	_, ok := s[id]
	return ok
}

// Subset reports whether s is a subset of other — used for precondition
// and goal tests.
func (s Set) Subset(other Set) bool {
	for id := range s {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// Union returns a new set containing every id in s or other.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for id := range s {
		out[id] = struct{}{}
	}
	for id := range other {
		out[id] = struct{}{}
	}
	return out
}

// Minus returns a new set containing every id in s not in other.
func (s Set) Minus(other Set) Set {
	out := make(Set, len(s))
	for id := range s {
		if !other.Has(id) {
			out[id] = struct{}{}
		}
	}
	return out
}

// Equal reports whether s and other contain exactly the same ids.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// Clone returns a shallow copy of s.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Sorted returns the set's members as an ascending slice, so callers that
// iterate a Set for output or hashing get a reproducible order across runs.
func (s Set) Sorted() []ID {
	out := make([]ID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	// insertion sort is fine: precondition/effect sets are small (tens of facts)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

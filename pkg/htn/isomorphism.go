package htn

import (
	"slices"
	"sort"
)

// pair is a candidate (node in n, node in other) match.
type pair struct{ a, b int }

// Isomorphic reports whether n and other are isomorphic as labeled DAGs —
// node labels must match under the bijection. This is the structural half
// of search-node equality: two search nodes are equal iff their states
// are equal as fact-id sets (see pkg/facts) and their networks are
// isomorphic per this function.
//
// Implements a VF2-style backtracking match: extend a partial bijection
// by picking candidate pairs from the frontier reachable via out-edges,
// then in-edges, else any unmatched pair with equal labels, pruning
// whenever the predecessor or successor label-multisets of the paired
// nodes differ or the new pair's edges to already-matched nodes do not
// correspond in both networks. Task networks stay small (tens of nodes), so the
// worst-case exponential blowup is acceptable.
func (n *Network) Isomorphic(other *Network) bool {
	if len(n.nodes) != len(other.nodes) {
		return false
	}
	if len(n.nodes) == 0 {
		return true
	}

	type state struct {
		pairs []pair
	}
	fringe := []state{{pairs: nil}}

	for len(fringe) > 0 {
		top := fringe[len(fringe)-1]
		fringe = fringe[:len(fringe)-1]

		if len(top.pairs) == len(n.nodes) {
			return true
		}

		matchedA := make(map[int]bool, len(top.pairs))
		matchedB := make(map[int]bool, len(top.pairs))
		for _, p := range top.pairs {
			matchedA[p.a] = true
			matchedB[p.b] = true
		}

		candidates := n.vf2Candidates(other, top.pairs, matchedA, matchedB)

		for _, c := range candidates {
			if matchedA[c.a] || matchedB[c.b] {
				continue
			}
			if n.labels[c.a] != other.labels[c.b] {
				continue
			}
			if !multisetEqual(labelMultiset(n.in[c.a], n.labels), labelMultiset(other.in[c.b], other.labels)) {
				continue
			}
			if !multisetEqual(labelMultiset(n.out[c.a], n.labels), labelMultiset(other.out[c.b], other.labels)) {
				continue
			}
			consistent := true
			for _, p := range top.pairs {
				if slices.Contains(n.out[p.a], c.a) != slices.Contains(other.out[p.b], c.b) ||
					slices.Contains(n.out[c.a], p.a) != slices.Contains(other.out[c.b], p.b) {
					consistent = false
					break
				}
			}
			if !consistent {
				continue
			}
			next := append(append([]pair(nil), top.pairs...), c)
			fringe = append(fringe, state{pairs: next})
		}
	}
	return false
}

// vf2Candidates computes the candidate-pair set P for the current partial
// match: prefer the frontier reachable via out-edges, then in-edges, else
// any unmatched node pair.
func (n *Network) vf2Candidates(other *Network, pairs []pair, matchedA, matchedB map[int]bool) []pair {
	outA := frontier(pairs, matchedA, func(p pair) []int { return n.out[p.a] })
	outB := frontierOther(pairs, matchedB, func(p pair) []int { return other.out[p.b] })
	if len(outA) > 0 && len(outB) > 0 {
		return crossProduct(outA, outB)
	}

	inA := frontier(pairs, matchedA, func(p pair) []int { return n.in[p.a] })
	inB := frontierOther(pairs, matchedB, func(p pair) []int { return other.in[p.b] })
	if len(inA) > 0 && len(inB) > 0 {
		return crossProduct(inA, inB)
	}

	var restA, restB []int
	for _, id := range n.nodes {
		if !matchedA[id] {
			restA = append(restA, id)
		}
	}
	for _, id := range other.nodes {
		if !matchedB[id] {
			restB = append(restB, id)
		}
	}
	return crossProduct(restA, restB)
}

func frontier(pairs []pair, matched map[int]bool, neighbors func(pair) []int) []int {
	seen := make(map[int]bool)
	var out []int
	for _, p := range pairs {
		for _, x := range neighbors(p) {
			if matched[x] || seen[x] {
				continue
			}
			seen[x] = true
			out = append(out, x)
		}
	}
	return out
}

func frontierOther(pairs []pair, matched map[int]bool, neighbors func(pair) []int) []int {
	return frontier(pairs, matched, neighbors)
}

func crossProduct(as, bs []int) []pair {
	out := make([]pair, 0, len(as)*len(bs))
	for _, a := range as {
		for _, b := range bs {
			out = append(out, pair{a: a, b: b})
		}
	}
	return out
}

func labelMultiset(ids []int, labels map[int]string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, labels[id])
	}
	sort.Strings(out)
	return out
}

func multisetEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

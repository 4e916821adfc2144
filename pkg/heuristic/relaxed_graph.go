package heuristic

import "github.com/koalaplan/fondhtn/pkg/classical"
import "github.com/koalaplan/fondhtn/pkg/facts"

// layeredReachability builds the delete-relaxed planning graph's fact
// layers: layers alternate fact-layers and action-layers, and a fact
// enters layer ℓ when first produced. It returns each reached fact's
// first layer and the index of the last layer that produced anything new.
func layeredReachability(dom *classical.Domain, seed facts.Set) (map[facts.ID]int, int) {
	layer := map[facts.ID]int{}
	for f := range seed {
		layer[f] = 0
	}
	depth := 0
	for {
		var newFacts []facts.ID
		for _, a := range dom.Actions {
			if !preconditionsKnown(a.Pre, layer) {
				continue
			}
			for f := range a.Add {
				if _, ok := layer[f]; !ok {
					newFacts = append(newFacts, f)
				}
			}
		}
		if len(newFacts) == 0 {
			break
		}
		depth++
		for _, f := range newFacts {
			if _, ok := layer[f]; !ok {
				layer[f] = depth
			}
		}
	}
	return layer, depth
}

func preconditionsKnown(pre facts.Set, layer map[facts.ID]int) bool {
	for f := range pre {
		if _, ok := layer[f]; !ok {
			return false
		}
	}
	return true
}

// hMax is the first fact-layer by which every goal literal has appeared.
// Unlike h_add, it is cost-oblivious — a plain cardinality count over the
// layered reachability graph.
func hMax(dom *classical.Domain, seed, goal facts.Set) int {
	layer, _ := layeredReachability(dom, seed)
	h := 0
	for f := range goal {
		l, ok := layer[f]
		if !ok {
			return Infinite
		}
		if l > h {
			h = l
		}
	}
	return h
}

// addCostsAndProducers runs the h_add fixpoint recurrence and additionally
// records, for every fact, the last action whose firing lowered its cost
// — h_FF's backward chaining needs a producer per fact; h_add only needs
// the costs.
func addCostsAndProducers(dom *classical.Domain, seed facts.Set) (map[facts.ID]int, map[facts.ID]*classical.Action) {
	cost := map[facts.ID]int{}
	producer := map[facts.ID]*classical.Action{}
	for f := range seed {
		cost[f] = 0
	}
	get := func(f facts.ID) int {
		if c, ok := cost[f]; ok {
			return c
		}
		return Infinite
	}
	for {
		changed := false
		for i := range dom.Actions {
			a := &dom.Actions[i]
			sum := 0
			applicable := true
			for f := range a.Pre {
				c := get(f)
				if c == Infinite {
					applicable = false
					break
				}
				sum += c
			}
			if !applicable {
				continue
			}
			actionCost := a.Cost + sum
			for f := range a.Add {
				if actionCost < get(f) {
					cost[f] = actionCost
					producer[f] = a
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}
	return cost, producer
}

// hAdd sums h_add's fixpoint fact costs over the goal literals.
func hAdd(dom *classical.Domain, seed, goal facts.Set) int {
	cost, _ := addCostsAndProducers(dom, seed)
	sum := 0
	for f := range goal {
		c, ok := cost[f]
		if !ok || c == Infinite {
			return Infinite
		}
		sum += c
	}
	return sum
}

// hFF extracts a relaxed plan by backward chaining from the goal
// literals: at each fact-layer, from high to low, pick the minimum-cost
// producer of every unsatisfied goal fact and add its preconditions as
// new goals in their own membership layer. Returns the number of
// distinct actions selected.
func hFF(dom *classical.Domain, seed, goal facts.Set) int {
	layer, maxLayer := layeredReachability(dom, seed)
	for f := range goal {
		if _, ok := layer[f]; !ok {
			return Infinite
		}
	}
	cost, producer := addCostsAndProducers(dom, seed)
	for f := range goal {
		if c, ok := cost[f]; !ok || c == Infinite {
			return Infinite
		}
	}

	buckets := make([][]facts.ID, maxLayer+1)
	seen := map[facts.ID]bool{}
	enqueue := func(f facts.ID) {
		if seen[f] {
			return
		}
		seen[f] = true
		l := layer[f]
		buckets[l] = append(buckets[l], f)
	}
	for f := range goal {
		enqueue(f)
	}

	selected := map[string]bool{}
	for l := maxLayer; l >= 1; l-- {
		for _, f := range buckets[l] {
			a := producer[f]
			if a == nil || selected[a.Name] {
				continue
			}
			selected[a.Name] = true
			for pre := range a.Pre {
				enqueue(pre)
			}
		}
	}
	return len(selected)
}

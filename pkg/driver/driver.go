// Package driver implements the find-tip/expand/revise loop that drives
// the AND/OR search to completion, plus the statistics and Result type
// the CLI reports.
package driver

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/koalaplan/fondhtn/pkg/classical"
	"github.com/koalaplan/fondhtn/pkg/facts"
	"github.com/koalaplan/fondhtn/pkg/heuristic"
	"github.com/koalaplan/fondhtn/pkg/htn"
	"github.com/koalaplan/fondhtn/pkg/logging"
	"github.com/koalaplan/fondhtn/pkg/observer"
	"github.com/koalaplan/fondhtn/pkg/policy"
	"github.com/koalaplan/fondhtn/pkg/searchgraph"
)

// Stats accumulates the driver loop's run-time statistics: how deep the
// search went, how many nodes were created and expanded, and how long it
// took.
type Stats struct {
	NodesCreated  int
	NodesExpanded int
	MaxDepth      int
	Duration      time.Duration
}

// Result is the driver's outcome: either a strong Policy (success) or no
// solution, plus the Stats collected along the way.
type Result struct {
	RunID  string
	Policy *policy.Policy
	Stats  Stats
}

// Solved reports whether the search found a strong policy.
func (r Result) Solved() bool { return r.Policy != nil }

// options holds Run's optional collaborators: a run-ID for log/event
// correlation, a logger and an observer manager. None participate in
// search determinism; they exist purely to report on a run in progress.
type options struct {
	runID   string
	logger  *logging.Logger
	manager *observer.Manager
}

// Option configures an optional Run collaborator.
type Option func(*options)

// WithRunID overrides the randomly generated run-ID Run would otherwise
// assign, for tests and for callers correlating a run with an ID from
// elsewhere.
func WithRunID(runID string) Option {
	return func(o *options) { o.runID = runID }
}

// WithLogger attaches a logger Run uses for per-expansion diagnostics.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithObserverManager attaches an observer.Manager Run notifies of
// run_start/run_end, expansion_start/expansion_end and node_created
// events, letting callers wire in pkg/telemetry or their own observers
// without Run depending on either directly.
func WithObserverManager(m *observer.Manager) Option {
	return func(o *options) { o.manager = m }
}

// Run drives the AND/OR search graph to completion:
//
//	loop:
//	  if root.status != OnGoing: break
//	  t <- find_tip()
//	  expand(t, H)
//	  revise(t)
//	return result(root)
//
// The search itself expands initialNetwork's own (possibly non-deterministic)
// catalog directly; dom is the classical encoding of the all-outcome
// determinized problem used solely as the heuristic oracle, and bijection
// is the determinizer's original-name -> stub-name map used to translate
// into it. Pass a nil bijection when initialNetwork is itself already the
// determinized network.
func Run(dom *classical.Domain, bijection map[string]string, kind heuristic.Kind, initialState facts.Set, initialNetwork *htn.Network, opts ...Option) Result {
	o := options{runID: uuid.NewString()}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger
	if log == nil {
		log = logging.FromContext(context.Background())
	}
	log = log.WithRunID(o.runID).WithHeuristic(kind)

	ctx := context.Background()
	notify := func(event observer.Event) {
		if o.manager == nil {
			return
		}
		event.RunID = o.runID
		event.Timestamp = time.Now()
		o.manager.Notify(ctx, event)
	}

	start := time.Now()
	notify(observer.Event{Type: observer.EventRunStart, Status: observer.StatusStarted})

	g := searchgraph.New(dom, bijection, kind, initialState, initialNetwork)
	stats := Stats{NodesCreated: g.NodeCount()}
	for i := 0; i < g.NodeCount(); i++ {
		notify(observer.Event{Type: observer.EventNodeCreated, Status: observer.StatusSuccess})
	}

	for g.Root.Status == searchgraph.OnGoing {
		tip := g.FindTip()
		if tip == nil {
			// Root is OnGoing but no tip remains reachable through marked
			// connectors: the marked sub-graph is exhausted without a
			// resolution, which should not happen under §4.9's invariants.
			break
		}

		log.WithSearchNodeID(tip.ID).Debug("expanding search node")
		notify(observer.Event{Type: observer.EventExpansionStart, Status: observer.StatusStarted, SearchNodeID: tip.ID, Depth: tip.Depth})

		before := g.NodeCount()
		g.Expand(tip)
		stats.NodesExpanded++
		created := g.NodeCount() - before
		stats.NodesCreated += created
		for i := 0; i < created; i++ {
			notify(observer.Event{Type: observer.EventNodeCreated, Status: observer.StatusSuccess, SearchNodeID: tip.ID, Depth: tip.Depth})
		}

		g.Revise(tip)
		notify(observer.Event{Type: observer.EventExpansionEnd, Status: observer.StatusCompleted, SearchNodeID: tip.ID, Depth: tip.Depth})

		if tip.Depth > stats.MaxDepth {
			stats.MaxDepth = tip.Depth
		}
	}
	stats.Duration = time.Since(start)

	if g.Root.Status != searchgraph.Solved {
		log.Info("search exhausted without a strong policy")
		notify(observer.Event{Type: observer.EventRunEnd, Status: observer.StatusFailure})
		return Result{RunID: o.runID, Stats: stats}
	}
	p := policy.Extract(g.Root)
	if p.Makespan > stats.MaxDepth {
		stats.MaxDepth = p.Makespan
	}
	log.Info("found strong policy")
	notify(observer.Event{Type: observer.EventRunEnd, Status: observer.StatusSuccess})
	return Result{RunID: o.runID, Policy: &p, Stats: stats}
}

// Package observer implements the observer pattern over driver run events:
// run start/end, one expansion_start/expansion_end pair per AO* iteration,
// and a node_created event per search-graph node an expansion introduces.
//
// # Basic usage
//
//	mgr := observer.NewManager()
//	mgr.Register(observer.NewConsoleObserver())
//	mgr.Notify(ctx, observer.Event{Type: observer.EventRunStart, RunID: runID})
//
// Manager.Notify dispatches to every registered observer in its own
// goroutine; a panicking observer is recovered and does not affect the
// others or the run itself.
package observer

// Package config holds the search driver's run-time configuration: which
// heuristic (h_max, h_add or h_ff) to evaluate at each search node, an
// optional wall-clock deadline a host can poll against between driver
// iterations, and the log level/format pair cmd/fondhtn passes on to
// pkg/logging.
//
// # Basic usage
//
//	cfg := config.Default()
//	if err := cfg.Validate(); err != nil {
//	    ...
//	}
//	result := driver.Run(dom, bijection, cfg.Heuristic, initialState, initialNetwork)
package config

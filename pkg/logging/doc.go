// Package logging's examples:
//
//	logger := logging.New(logging.Config{Level: "info", Output: os.Stdout})
//	logger = logger.WithRunID(runID).WithHeuristic(cfg.Heuristic)
//	logger.Debug("expanding search node")
//	logger.WithSearchNodeID(tip.ID).Warn("heuristic returned +inf at creation")
package logging

package config

import (
	"time"

	"github.com/koalaplan/fondhtn/pkg/heuristic"
)

// CostMode documents a connector-cost extension point that is not yet
// implemented: connector cost is hard-coded to 1 for executions regardless
// of CostMode's value. The field exists so a future implementation has
// somewhere to record the decision; CostActionCost is never consulted by
// pkg/searchgraph today.
type CostMode int

const (
	CostUnitExecution CostMode = iota
	CostActionCost
)

// Config holds the search driver's run-time configuration: which
// heuristic to evaluate, an optional wall-clock deadline the host may poll
// against between driver iterations, and the log level/format pair.
type Config struct {
	Heuristic heuristic.Kind
	CostMode  CostMode

	// Deadline is a wall-clock point a host can compare against between
	// driver iterations. Zero means no deadline. driver.Run does not read
	// it, and nothing in this module polls it or validates it.
	Deadline time.Time

	LogLevel  string // "debug", "info", "warn", "error"
	LogFormat string
}

// Default returns h_add with no deadline, a reasonable middle ground
// between h_max's admissibility and h_FF's speed.
func Default() *Config {
	return &Config{
		Heuristic: heuristic.HAdd,
		CostMode:  CostUnitExecution,
		LogLevel:  "info",
		LogFormat: "json",
	}
}

// Validate checks the configuration values, returning a distinct sentinel
// error per invalid field.
func (c *Config) Validate() error {
	switch c.Heuristic {
	case heuristic.HMax, heuristic.HAdd, heuristic.HFF:
	default:
		return ErrInvalidHeuristic
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return ErrInvalidLogFormat
	}
	return nil
}

// Clone returns a copy of c.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

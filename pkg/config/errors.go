package config

import "errors"

var (
	ErrInvalidHeuristic = errors.New("invalid heuristic: must be h_max, h_add or h_ff")
	ErrInvalidLogLevel  = errors.New("invalid log level")
	ErrInvalidLogFormat = errors.New("invalid log format")
)

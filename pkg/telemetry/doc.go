// Package telemetry provides OpenTelemetry integration for the search
// driver: a Prometheus-scraped expansion counter, search-graph-node
// counter, per-iteration revision-duration histogram and current-max-depth
// gauge, plus tracing spans for each driver.Run invocation and its
// expansions.
package telemetry

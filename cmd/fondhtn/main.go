// Command fondhtn solves a FOND-HTN problem and prints its strong policy.
//
// Usage:
//
//	fondhtn [flags] <problem.json>
//
// Flags:
//
//	-heuristic string
//	    Heuristic oracle: h_max, h_add or h_ff (default "h_add")
//	-log-level string
//	    Log level: debug, info, warn, error (default "info")
//	-log-format string
//	    Log format: json or text (default "json")
//	-metrics-addr string
//	    If set, serve Prometheus metrics on this address (e.g. :9090) for
//	    the duration of the run
//	-dot string
//	    If set, write the collapsed initial task network as Graphviz DOT
//	    to this path
//	-dump-policy
//	    Print every policy entry's task/method after the summary line
//
// Exit code 0 on success, including when the problem has no solution.
// Non-zero only on an I/O or parse error: a missing file, malformed JSON,
// a schema violation, or a dangling task/method reference.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/koalaplan/fondhtn/pkg/classical"
	"github.com/koalaplan/fondhtn/pkg/config"
	"github.com/koalaplan/fondhtn/pkg/determinize"
	"github.com/koalaplan/fondhtn/pkg/dot"
	"github.com/koalaplan/fondhtn/pkg/driver"
	"github.com/koalaplan/fondhtn/pkg/heuristic"
	"github.com/koalaplan/fondhtn/pkg/loader"
	"github.com/koalaplan/fondhtn/pkg/logging"
	"github.com/koalaplan/fondhtn/pkg/observer"
	"github.com/koalaplan/fondhtn/pkg/telemetry"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("fondhtn", flag.ContinueOnError)
	fs.SetOutput(stderr)

	heuristicName := fs.String("heuristic", "h_add", "heuristic oracle: h_max, h_add or h_ff")
	logLevel := fs.String("log-level", "info", "log level: debug, info, warn, error")
	logFormat := fs.String("log-format", "json", "log format: json or text")
	metricsAddr := fs.String("metrics-addr", "", "serve Prometheus metrics on this address")
	dotPath := fs.String("dot", "", "write the collapsed initial task network as DOT to this path")
	dumpPolicy := fs.Bool("dump-policy", false, "print every policy entry after the summary line")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: fondhtn [flags] <problem.json>")
		return 1
	}

	kind, err := parseHeuristic(*heuristicName)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	cfg := config.Default()
	cfg.Heuristic = kind
	cfg.LogLevel = *logLevel
	cfg.LogFormat = *logFormat
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	logger := logging.New(logging.Config{
		Level:  cfg.LogLevel,
		Output: stderr,
		Pretty: cfg.LogFormat == "text",
	})

	prob, err := loader.LoadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if *dotPath != "" {
		if err := os.WriteFile(*dotPath, []byte(dot.HTN(prob.InitialNetwork)), 0o644); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}

	det := determinize.Determinize(prob)
	dom := classical.Build(det.Problem)

	manager := observer.NewManager()
	var shutdownTelemetry func()
	if *metricsAddr != "" {
		provider, err := telemetry.NewProvider(context.Background(), telemetry.DefaultConfig())
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		manager.Register(telemetry.NewTelemetryObserver(provider))

		srv := &http.Server{Addr: *metricsAddr, Handler: promhttp.Handler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.WithError(err).Warn("metrics server stopped")
			}
		}()
		shutdownTelemetry = func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
			provider.Shutdown(ctx)
		}
	}

	result := driver.Run(dom, det.Bijection, cfg.Heuristic, prob.InitialState, prob.InitialNetwork,
		driver.WithLogger(logger),
		driver.WithObserverManager(manager),
	)
	if shutdownTelemetry != nil {
		shutdownTelemetry()
	}

	printStats(stdout, result.Stats)
	if !result.Solved() {
		fmt.Fprintln(stdout, "Problem has no solution")
		return 0
	}
	printPolicy(stdout, *result.Policy, *dumpPolicy)
	return 0
}

func parseHeuristic(name string) (heuristic.Kind, error) {
	switch name {
	case "h_max":
		return heuristic.HMax, nil
	case "h_add":
		return heuristic.HAdd, nil
	case "h_ff":
		return heuristic.HFF, nil
	default:
		return 0, fmt.Errorf("fondhtn: unknown heuristic %q (want h_max, h_add or h_ff)", name)
	}
}

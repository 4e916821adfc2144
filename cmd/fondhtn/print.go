package main

import (
	"fmt"
	"io"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/koalaplan/fondhtn/pkg/driver"
	"github.com/koalaplan/fondhtn/pkg/policy"
)

var printer = message.NewPrinter(language.English)

// printStats prints the run's statistics block before anything else: max
// depth, search-graph node count, expansion count and wall-clock duration
// as mm:ss.
func printStats(w io.Writer, s driver.Stats) {
	printer.Fprintf(w, "max depth: %d\n", s.MaxDepth)
	printer.Fprintf(w, "search-graph nodes: %d\n", s.NodesCreated)
	printer.Fprintf(w, "expansions: %d\n", s.NodesExpanded)
	fmt.Fprintf(w, "duration: %s\n", formatDuration(s.Duration))
}

func formatDuration(d time.Duration) string {
	total := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// printPolicy prints the success summary line ("makespan: <int>\npolicy
// entries: <int>\n") and, if dump is true, one line per policy entry.
func printPolicy(w io.Writer, p policy.Policy, dump bool) {
	fmt.Fprintf(w, "makespan: %d\npolicy entries: %d\n", p.Makespan, len(p.Entries))
	if !dump {
		return
	}
	for _, e := range p.Entries {
		if e.Method == "" {
			fmt.Fprintf(w, "  %s\n", e.Task)
		} else {
			fmt.Fprintf(w, "  %s via %s\n", e.Task, e.Method)
		}
	}
}

// Command markbench runs the parallel mark engine against a handful of
// synthetic heap shapes and prints the benchmark-mode stdout contract
// from spec.md §6 (Nthreads:/op:millis/A/B/END), exactly as
// gc_threading.c's gc_markall does. Grounded on the teacher's
// examples/*/main.go pattern of a small runnable demo over the library.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"

	mark "github.com/andrewmains12/gcmark"
	"github.com/andrewmains12/gcmark/internal/testheap"
)

func main() {
	shape := flag.String("shape", "chain", "heap shape: chain, fanout, cycle, random, empty")
	size := flag.Int("size", 10000, "node count for chain/random shapes")
	chains := flag.Int("chains", 4, "chain count for the fanout shape")
	workers := flag.Int("workers", 4, "NTHREADS")
	modeFlag := flag.String("mode", "dual", "single, parallel, dual, single_twice")
	flag.Parse()

	g, err := buildHeap(*shape, *size, *chains)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg := mark.DefaultConfig()
	cfg.NumWorkers = *workers
	cfg.Bench = true
	cfg.Mode = parseMode(*modeFlag)

	driver := mark.NewDriver(cfg)
	report, err := driver.MarkAll(context.Background(), g)
	if err != nil {
		fmt.Fprintln(os.Stderr, "mark phase failed:", err)
		os.Exit(1)
	}

	fmt.Printf("heap=%s nodes=%d marked=%d mode=%s\n", *shape, g.Size(), g.MarkedCount(), report.Mode)
}

func parseMode(s string) mark.Mode {
	switch s {
	case "single":
		return mark.SINGLE
	case "parallel":
		return mark.PARALLEL
	case "single_twice":
		return mark.SINGLE_TWICE
	default:
		return mark.DUAL
	}
}

func buildHeap(shape string, size, chains int) (*testheap.Graph, error) {
	switch shape {
	case "chain":
		return testheap.NewChain(size), nil
	case "fanout":
		return testheap.NewFanoutChains(chains, size/chains), nil
	case "cycle":
		g, r, _, _ := testheap.NewCycle()
		g.AddRoot(r)
		return g, nil
	case "random":
		g := testheap.NewRandomGraph(rand.New(rand.NewSource(1)), size, 2)
		return g, nil
	case "empty":
		return testheap.Empty(), nil
	default:
		return nil, fmt.Errorf("unknown heap shape %q", shape)
	}
}

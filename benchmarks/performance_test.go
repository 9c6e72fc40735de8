package benchmarks

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	mark "github.com/andrewmains12/gcmark"
	"github.com/andrewmains12/gcmark/internal/testheap"
)

// BenchmarkModes compares SINGLE against PARALLEL with the default worker
// count on a fixed heap shape, the same comparison gc_threading.c's DUAL mode
// performs at runtime, done here instead via go test's own b.N looping so
// the results land in the standard benchstat-compatible format.
func BenchmarkModes(b *testing.B) {
	for _, mode := range []mark.Mode{mark.SINGLE, mark.PARALLEL} {
		b.Run(mode.String(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				g := testheap.NewFanoutChains(4, 1000)
				cfg := mark.DefaultConfig()
				cfg.Mode = mode
				d := mark.NewDriver(cfg)
				if _, err := d.MarkAll(context.Background(), g); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkWorkerCounts holds the heap shape fixed and varies NTHREADS,
// mirroring the teacher's BenchmarkWorkerCounts sweep over pool size.
func BenchmarkWorkerCounts(b *testing.B) {
	workerCounts := []int{1, 2, 4, 8, 16}

	for _, n := range workerCounts {
		b.Run(fmt.Sprintf("Workers_%d", n), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				g := testheap.NewChain(10000)
				cfg := mark.DefaultConfig()
				cfg.Mode = mark.PARALLEL
				cfg.NumWorkers = n
				d := mark.NewDriver(cfg)
				if _, err := d.MarkAll(context.Background(), g); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkHeapShapes holds NumWorkers fixed and varies the heap's shape
// and size, mirroring the teacher's BenchmarkJobSizes sweep over job
// count.
func BenchmarkHeapShapes(b *testing.B) {
	shapes := []struct {
		name string
		size int
	}{
		{"Chain_1000", 1000},
		{"Chain_10000", 10000},
		{"Chain_100000", 100000},
	}

	for _, s := range shapes {
		b.Run(s.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				g := testheap.NewChain(s.size)
				cfg := mark.DefaultConfig()
				cfg.Mode = mark.PARALLEL
				d := mark.NewDriver(cfg)
				if _, err := d.MarkAll(context.Background(), g); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkRandomGraphFanout sweeps average out-degree on a fixed-size
// random graph, mirroring the teacher's BenchmarkProcessingTimes sweep
// over per-job cost: here, more edges per node stands in for more
// per-object work.
func BenchmarkRandomGraphFanout(b *testing.B) {
	outDegrees := []int{1, 2, 4, 8}

	for _, d := range outDegrees {
		b.Run(fmt.Sprintf("OutDegree_%d", d), func(b *testing.B) {
			rng := rand.New(rand.NewSource(42))
			for i := 0; i < b.N; i++ {
				g := testheap.NewRandomGraph(rng, 20000, d)
				cfg := mark.DefaultConfig()
				cfg.Mode = mark.PARALLEL
				driver := mark.NewDriver(cfg)
				if _, err := driver.MarkAll(context.Background(), g); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// Package testheap is a minimal in-memory directed-graph Collector
// implementation used to exercise the mark engine. The allocator/object-
// space representation is explicitly out of scope for the engine itself
// (spec.md §1), so something has to stand in for it in tests and
// benchmarks. This package is that stand-in, not a production component.
//
// Grounded on the teacher's examples/string_example/main.go pattern of
// hand-built sample data exercising the pool, generalized into graph
// constructors matching spec.md §8's named scenarios.
package testheap

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"

	"github.com/andrewmains12/gcmark"
)

// node holds an object's outgoing edges, mark bit, and visit count.
type node struct {
	edges   []mark.ObjectRef
	marked  atomic.Bool
	visited atomic.Int64
}

// Graph is a directed graph of objects implementing mark.Collector.
// MarkObject visits an object's edges and, when deferral is enabled,
// hands each neighbor to mark.DeferMark instead of recursing; MarkReset
// clears mark bits only (see SPEC_FULL.md §10.2). Visit counts, which
// exist purely so tests can assert the single-visit property, are reset
// separately via ResetVisitCounts.
type Graph struct {
	nodes map[mark.ObjectRef]*node
	roots []mark.ObjectRef
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[mark.ObjectRef]*node)}
}

// AddEdge records a directed edge from -> to, creating either endpoint if
// it doesn't already exist.
func (g *Graph) AddEdge(from, to mark.ObjectRef) {
	g.ensure(from)
	g.ensure(to)
	fn := g.nodes[from]
	fn.edges = append(fn.edges, to)
}

// AddRoot marks ref as a root, creating it if necessary.
func (g *Graph) AddRoot(ref mark.ObjectRef) {
	g.ensure(ref)
	g.roots = append(g.roots, ref)
}

func (g *Graph) ensure(ref mark.ObjectRef) {
	if _, ok := g.nodes[ref]; !ok {
		g.nodes[ref] = &node{}
	}
}

// Roots returns the configured root set.
func (g *Graph) Roots() []mark.ObjectRef {
	return g.roots
}

// Size returns the number of nodes in the graph.
func (g *Graph) Size() int {
	return len(g.nodes)
}

// IsMarked reports whether ref's mark bit is set.
func (g *Graph) IsMarked(ref mark.ObjectRef) bool {
	n, ok := g.nodes[ref]
	return ok && n.marked.Load()
}

// MarkedCount returns how many nodes currently have their mark bit set.
func (g *Graph) MarkedCount() int {
	count := 0
	for _, n := range g.nodes {
		if n.marked.Load() {
			count++
		}
	}
	return count
}

// VisitCount returns how many times MarkObject was invoked for ref across
// the graph's lifetime (or since the last ResetVisitCounts).
func (g *Graph) VisitCount(ref mark.ObjectRef) int64 {
	n, ok := g.nodes[ref]
	if !ok {
		return 0
	}
	return n.visited.Load()
}

// MaxVisitCount returns the largest per-node visit count across the whole
// graph. Used to assert the single-visit property (spec.md §8, invariant
// 3) in one call instead of iterating every node from the test.
func (g *Graph) MaxVisitCount() int64 {
	var max int64
	for _, n := range g.nodes {
		if v := n.visited.Load(); v > max {
			max = v
		}
	}
	return max
}

// ResetVisitCounts zeroes the test-instrumentation visit counters. Not
// part of the mark.Collector contract. MarkReset deliberately leaves
// these alone (SPEC_FULL.md §10.2).
func (g *Graph) ResetVisitCounts() {
	for _, n := range g.nodes {
		n.visited.Store(0)
	}
}

// StartMark implements mark.Collector: marks every root, deferring
// traversal of each root's children through mark.DeferMark when enabled.
func (g *Graph) StartMark(ctx context.Context) error {
	for _, r := range g.roots {
		if err := g.MarkObject(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// MarkObject implements mark.Collector: the test-and-set on the mark bit
// guarantees at most one goroutine visits a given object's children, so
// MarkObject is safe to call concurrently on distinct refs and idempotent
// on repeats of the same ref.
func (g *Graph) MarkObject(ctx context.Context, ref mark.ObjectRef) error {
	n, ok := g.nodes[ref]
	if !ok {
		return fmt.Errorf("testheap: unknown ref %d", ref)
	}
	if !n.marked.CompareAndSwap(false, true) {
		return nil
	}
	n.visited.Add(1)

	for _, child := range n.edges {
		if mark.DeferEnabled(ctx) {
			if err := mark.DeferMark(ctx, child); err != nil {
				return err
			}
		} else {
			if err := g.MarkObject(ctx, child); err != nil {
				return err
			}
		}
	}
	return nil
}

// MarkReset implements mark.Collector: clears every mark bit.
func (g *Graph) MarkReset() {
	for _, n := range g.nodes {
		n.marked.Store(false)
	}
}

// Empty returns a graph with no roots and no nodes (spec.md §8 boundary
// behavior: empty root set).
func Empty() *Graph {
	return NewGraph()
}

// NewChain builds a linear chain root -> n1 -> ... -> n(length-1), with a
// single root (spec.md §8, concrete scenario 2).
func NewChain(length int) *Graph {
	g := NewGraph()
	if length <= 0 {
		return g
	}
	prev := mark.ObjectRef(0)
	g.AddRoot(prev)
	for i := 1; i < length; i++ {
		cur := mark.ObjectRef(i)
		g.AddEdge(prev, cur)
		prev = cur
	}
	return g
}

// NewFanoutChains builds a single root fanning out into n disjoint chains
// of the given length each (spec.md §8, concrete scenario 3: "4 disjoint
// 1000-node chains hanging off a single root").
func NewFanoutChains(chains, length int) *Graph {
	g := NewGraph()
	root := mark.ObjectRef(0)
	g.AddRoot(root)
	next := 1
	for c := 0; c < chains; c++ {
		prev := mark.ObjectRef(next)
		next++
		g.AddEdge(root, prev)
		for i := 1; i < length; i++ {
			cur := mark.ObjectRef(next)
			next++
			g.AddEdge(prev, cur)
			prev = cur
		}
	}
	return g
}

// NewCycle builds a 2-cycle A->B->A plus an unrelated root R, matching
// spec.md §8 concrete scenario 4. Callers choose the root set via the
// returned refs (r, a, b); AddRoot is not called automatically because
// the scenario is parameterized by which refs are roots.
func NewCycle() (g *Graph, r, a, b mark.ObjectRef) {
	g = NewGraph()
	r, a, b = 0, 1, 2
	g.ensure(r)
	g.AddEdge(a, b)
	g.AddEdge(b, a)
	return g, r, a, b
}

// NewRandomGraph builds a random directed graph of n nodes with a single
// root and the given average out-degree, for DUAL-mode benchmarking
// (spec.md §8, concrete scenario 5: "100,000-node random graph"). rng
// must be supplied by the caller. This package never seeds its own
// randomness so benchmark runs stay reproducible across invocations.
func NewRandomGraph(rng *rand.Rand, n, avgOutDegree int) *Graph {
	g := NewGraph()
	if n <= 0 {
		return g
	}
	root := mark.ObjectRef(0)
	g.AddRoot(root)
	for i := 1; i < n; i++ {
		g.ensure(mark.ObjectRef(i))
	}
	for i := 0; i < n; i++ {
		from := mark.ObjectRef(i)
		for d := 0; d < avgOutDegree; d++ {
			to := mark.ObjectRef(rng.Intn(n))
			g.AddEdge(from, to)
		}
	}
	return g
}

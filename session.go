package mark

import (
	"context"
	"sync/atomic"

	"github.com/andrewmains12/gcmark/internal/tracelog"
)

// Collector is the collaborator surface the engine requires from the GC
// implementation (spec.md §6, "Required collaborator surface"). The
// allocator/object-space representation, the mark-bit atomicity policy,
// root enumeration, and edge traversal all live on the other side of this
// interface. Out of scope for the engine itself.
type Collector interface {
	// StartMark enumerates roots and invokes MarkObject on each. Must be
	// called on the same goroutine that calls Driver.MarkAll (see
	// SPEC_FULL.md §9.6). The engine never schedules it onto a spawned
	// worker.
	StartMark(ctx context.Context) error

	// MarkObject visits one object: marks it and, for each outgoing
	// reference, invokes DeferMark (via the ctx passed in) instead of
	// recursing directly. Must be safe to invoke concurrently on distinct
	// refs, and idempotent (no double-enqueue) when invoked twice on the
	// same ref. Typically an atomic test-and-set on the mark bit, with
	// only the winner visiting children.
	MarkObject(ctx context.Context, ref ObjectRef) error

	// MarkReset clears all mark bits, used between the two phases of DUAL
	// mode. Does not clear any other auxiliary per-object state (spec.md
	// §9 Open Question, resolved in SPEC_FULL.md §10.2).
	MarkReset()
}

// session is the process-wide-for-one-phase state described in spec.md
// §9: the active collector, the global queue, and the deferred-mark
// enable flag. Its lifetime exactly spans one Driver.MarkAll call:
// constructed at phase start, discarded at phase end, never a true
// package-level global.
type session struct {
	collector    Collector
	global       *globalQueue
	deferEnabled atomic.Bool
	tracer       *tracelog.Tracer
}

type workerStateKey struct{}

// workerState is the per-worker identity and local-deque handle carried
// through context.Context. It is the idiomatic Go substitute for the
// pthread-TLS keys (DEQUE_KEY, TID_KEY) in spec.md §4.4/§9: Go has no
// goroutine-local storage, so instead of a thread-local slot set once at
// worker start and read back via a key, the value travels explicitly on
// the context passed into every Collector and DeferMark call. Its
// lifetime matches the worker's own stack frame. No destructor is
// needed, since once the worker function returns, the deque becomes
// unreachable and is collected by the ordinary Go GC.
type workerState struct {
	id      int
	local   *localDeque
	session *session
}

func withWorkerState(ctx context.Context, ws *workerState) context.Context {
	return context.WithValue(ctx, workerStateKey{}, ws)
}

func workerStateFrom(ctx context.Context) (*workerState, bool) {
	ws, ok := ctx.Value(workerStateKey{}).(*workerState)
	return ws, ok
}

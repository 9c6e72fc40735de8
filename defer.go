package mark

import "context"

// DeferMark is the callback a Collector invokes in place of direct
// recursion when parallel mode is active (spec.md §4.4). It looks up the
// calling worker's local deque from ctx, pushes the neighbor, and when the
// deque is full falls back to shedding work via offerWork and, as a last
// resort, synchronous recursion when the retried push still fails (the
// global queue had no room, or offerWork's predicate declined the offer).
//
// Grounded on gc_threading.c's gc_mark_defer: push; on failure offer work
// then retry; on persistent failure toggle the session's defer-enabled
// flag off, mark synchronously, then re-enable it.
func DeferMark(ctx context.Context, ref ObjectRef) error {
	ws, ok := workerStateFrom(ctx)
	assertf(ok, "DeferMark called outside a worker's mark loop")

	if ws.local.push(ref) {
		return nil
	}

	ws.session.global.offerWork(ws.local)
	if ws.local.push(ref) {
		return nil
	}

	// Deque is still full: the global queue had no free slots, or
	// offerWork's predicate did not warrant an offer. Bound memory use by
	// falling back to direct recursion instead of growing anything unboundedly.
	ws.session.deferEnabled.Store(false)
	err := ws.session.collector.MarkObject(ctx, ref)
	ws.session.deferEnabled.Store(true)
	return err
}

// DeferEnabled reports whether the active session wants the collector to
// defer recursion to DeferMark rather than recursing directly. Consulted
// by the collector; process-wide for the session because toggling only
// ever happens inside the calling worker's own stack frame (spec.md
// §4.4), so no per-worker granularity is required.
func DeferEnabled(ctx context.Context) bool {
	ws, ok := workerStateFrom(ctx)
	if !ok {
		return false
	}
	return ws.session.deferEnabled.Load()
}

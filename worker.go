package mark

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// runWorker is the per-worker mark run loop (spec.md §4.3). Worker 0 (the
// initiator) must be called in place on the goroutine that invoked
// Driver.MarkAll, never from a spawned goroutine. See SPEC_FULL.md §9.6.
//
// Grounded on gc_threading.c's mark_run_loop, with the offer/refill/exit
// ordering preserved exactly: offer surplus, refill if empty, exit if the
// global queue has signaled quiescence, otherwise pop one and mark it.
func runWorker(ctx context.Context, sess *session, id int, localCap int) error {
	local := newLocalDeque(localCap)
	ws := &workerState{id: id, local: local, session: sess}
	wctx := withWorkerState(ctx, ws)

	if id == 0 {
		sess.tracer.Trace(id, "running start_mark", nil)
		if err := sess.collector.StartMark(wctx); err != nil {
			return fmt.Errorf("mark: start_mark: %w", err)
		}
		sess.tracer.Trace(id, "finished start_mark", nil)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		sess.global.offerWork(local)
		if local.isEmpty() {
			sess.tracer.Trace(id, "taking work from the global queue", nil)
			sess.global.popWork(local)
		}
		if sess.global.isComplete() {
			return nil
		}

		v, ok := local.pop()
		if !ok {
			continue
		}
		sess.tracer.Trace(id, "marking", logrus.Fields{"ref": v})
		if err := sess.collector.MarkObject(wctx, v); err != nil {
			return fmt.Errorf("mark: mark_object(%d): %w", v, err)
		}
	}
}

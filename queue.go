package mark

import (
	"sync"

	"github.com/eapache/queue"
)

// globalQueue is the bounded FIFO shared by all workers, protected by a
// mutex and condition variable, and carrying the termination flag and
// waiter count used by the quiescence protocol (spec.md §4.2).
//
// The backing ring buffer is github.com/eapache/queue, the same library
// momentics-hioload-ws wires in for its task-dispatch queue; globalQueue
// adds the capacity ceiling, mutex, and condition variable eapache/queue
// does not itself provide.
type globalQueue struct {
	mu       sync.Mutex
	cond     *sync.Cond
	items    *queue.Queue
	cap      int
	lowWater int
	maxGrab  int
	nthreads int
	waiters  int
	complete bool
}

func newGlobalQueue(capacity, lowWater, maxGrab, nthreads int) *globalQueue {
	g := &globalQueue{
		items:    queue.New(),
		cap:      capacity,
		lowWater: lowWater,
		maxGrab:  maxGrab,
		nthreads: nthreads,
	}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// length returns the current number of queued items without taking the
// mutex, so a caller not holding it may see a stale value (offerWork's
// predicate check makes the same unlocked read of items.Length()).
func (g *globalQueue) length() int {
	return g.items.Length()
}

// popWork transfers min(queueLen, MaxGrab) items onto local, blocking
// until either work appears or global quiescence is detected. Quiescence
// is reached exactly when every worker is parked here with the queue
// empty: the worker that pushes waiters to nthreads is, by construction,
// holding the mutex while every peer is blocked on the condition, so it
// alone may safely flip complete and wake everyone.
func (g *globalQueue) popWork(local *localDeque) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for g.items.Length() == 0 && !g.complete {
		g.waiters++
		if g.waiters == g.nthreads {
			g.complete = true
			g.cond.Broadcast()
		} else {
			g.cond.Wait()
		}
		g.waiters--
	}

	grab := g.items.Length()
	if grab > g.maxGrab {
		grab = g.maxGrab
	}
	for i := 0; i < grab; i++ {
		v := g.items.Remove().(ObjectRef)
		local.push(v)
	}
}

// offerWork ships surplus local work to the global queue when either a
// peer is parked and waiting, or the shared queue is running low. The
// predicate is checked without the mutex: the worst case of a stale read
// is a missed or spurious offer, never corruption, so the double-check
// (unlocked predicate, locked transfer) trades a little staleness for
// avoiding a lock acquisition on every local push.
func (g *globalQueue) offerWork(local *localDeque) {
	localLen := local.len()

	waiters := g.waiters
	qlen := g.items.Length()
	warranted := (waiters > 0 && localLen > 2) ||
		(qlen < g.lowWater && localLen > local.cap/2)
	if !warranted {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	freeSlots := g.cap - g.items.Length()
	items := local.len() / 2
	if items > freeSlots {
		items = freeSlots
	}
	for i := 0; i < items; i++ {
		v, ok := local.popBack()
		if !ok {
			break
		}
		g.items.Add(v)
	}
	if g.waiters > 0 {
		g.cond.Broadcast()
	}
}

// abort forces quiescence early, waking every parked worker. Used by the
// Driver to unwind a phase promptly after a worker reports a collector
// failure (spec.md §7.4). Ownership of the queue is released along this
// same unwinding path rather than left for stragglers to discover slowly.
func (g *globalQueue) abort() {
	g.mu.Lock()
	g.complete = true
	g.cond.Broadcast()
	g.mu.Unlock()
}

// isComplete reports whether the quiescence flag has been set. It reads
// the flag under the mutex; complete is monotonic (false→true), so a
// false result is simply an observation made before quiescence.
func (g *globalQueue) isComplete() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.complete
}

package mark

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/andrewmains12/gcmark/internal/tracelog"
)

// State is the Driver's phase-lifecycle state (spec.md §4.5).
type State int32

const (
	StateIdle State = iota
	StateInitializing
	StateRunning
	StateJoining
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateInitializing:
		return "INITIALIZING"
	case StateRunning:
		return "RUNNING"
	case StateJoining:
		return "JOINING"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Report summarizes a completed MarkAll call, filled in for benchmark-
// oriented modes (PARALLEL, DUAL, SINGLE_TWICE).
type Report struct {
	Mode             Mode
	NumWorkers       int
	ParallelDuration time.Duration
	SingleDuration   time.Duration
}

// Driver orchestrates one mark phase at a time: installs the session,
// spawns N-1 workers, runs the initiator in place, joins, and (in
// DUAL/SINGLE_TWICE modes) re-runs the comparison path. Grounded on
// workerpool.go's WorkerPool.Run (mode switch, WaitGroup spawn/join,
// timing around the run) and gc_threading.c's gc_markall/gc_mark_parallel
// (SINGLE/PARALLEL/DUAL/SINGLE_TWICE dispatch and the A/B/END/Nthreads:
// stdout contract).
type Driver struct {
	config Config

	mu    sync.Mutex
	state State
}

// NewDriver constructs a Driver from cfg. Config.validate, run lazily on
// the first MarkAll call, clamps a handful of fields (NumWorkers,
// MaxGrab, GlobalLowWater) but rejects a non-positive LocalCap or
// GlobalCap outright with ErrInvalidConfig rather than defaulting them.
func NewDriver(cfg Config) *Driver {
	return &Driver{config: cfg}
}

// State returns the driver's current lifecycle state.
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Driver) setState(s State) {
	d.mu.Lock()
	d.state = s
	d.mu.Unlock()
}

// MarkAll is the engine's entry point (spec.md §6): selects a mode and
// runs it. MUST be called on the goroutine that is meant to act as the
// initiator. See SPEC_FULL.md §9.6. Any failure during initialization
// (an invalid Config, a nil Collector) transitions straight to the
// terminal FAILED state without spawning any goroutine or allocating the
// global queue.
func (d *Driver) MarkAll(ctx context.Context, collector Collector) (Report, error) {
	if collector == nil {
		d.setState(StateFailed)
		return Report{}, ErrNoCollector
	}

	cfg := d.config
	if err := cfg.validate(); err != nil {
		d.setState(StateFailed)
		return Report{}, err
	}
	d.config = cfg

	d.setState(StateInitializing)
	if cfg.Bench {
		fmt.Printf("Nthreads: %d\n", cfg.NumWorkers)
	}

	report := Report{Mode: cfg.Mode, NumWorkers: cfg.NumWorkers}
	tracer := tracelog.New(cfg.DebugTrace)

	var err error
	switch cfg.Mode {
	case SINGLE:
		d.setState(StateRunning)
		err = d.runSingle(ctx, collector, tracer)

	case PARALLEL:
		d.setState(StateRunning)
		var dur time.Duration
		dur, err = d.timed(cfg.Bench, "gc_mark_parallel", func() error {
			return d.runParallel(ctx, collector, cfg, tracer)
		})
		report.ParallelDuration = dur

	case DUAL:
		d.setState(StateRunning)
		fmt.Println("A")
		var pdur time.Duration
		pdur, err = d.timed(cfg.Bench, "gc_mark_parallel", func() error {
			return d.runParallel(ctx, collector, cfg, tracer)
		})
		fmt.Println("END")
		report.ParallelDuration = pdur
		if err == nil {
			collector.MarkReset()
			fmt.Println("B")
			var sdur time.Duration
			sdur, err = d.timed(cfg.Bench, "gc_start_mark", func() error {
				return d.runSingle(ctx, collector, tracer)
			})
			fmt.Println("END")
			report.SingleDuration = sdur
		}

	case SINGLE_TWICE:
		d.setState(StateRunning)
		fmt.Println("A")
		var d1 time.Duration
		d1, err = d.timed(cfg.Bench, "gc_start_mark", func() error {
			return d.runSingle(ctx, collector, tracer)
		})
		fmt.Println("END")
		report.SingleDuration = d1
		if err == nil {
			collector.MarkReset()
			fmt.Println("B")
			var d2 time.Duration
			d2, err = d.timed(cfg.Bench, "gc_start_mark", func() error {
				return d.runSingle(ctx, collector, tracer)
			})
			fmt.Println("END")
			report.ParallelDuration = d2 // second baseline run, reusing the field
		}

	default:
		err = fmt.Errorf("mark: unknown mode %v", cfg.Mode)
	}

	d.setState(StateJoining)
	if err != nil {
		d.setState(StateFailed)
		return report, err
	}
	d.setState(StateIdle)
	return report, nil
}

// runSingle invokes start_mark once on the calling goroutine with
// deferral disabled (spec.md §4.5, mode SINGLE). No session/workerState
// is installed: DeferEnabled and DeferMark both treat an absent
// workerState as "deferral is off" / "called incorrectly", which is
// exactly the SINGLE-mode contract.
func (d *Driver) runSingle(ctx context.Context, collector Collector, tracer *tracelog.Tracer) error {
	tracer.Trace(0, "running start_mark (single)", nil)
	if err := collector.StartMark(ctx); err != nil {
		return fmt.Errorf("mark: start_mark: %w", err)
	}
	return nil
}

// runParallel installs a fresh session and global queue, spawns workers
// 1..N-1, and runs worker 0 in place on the calling goroutine (the
// initiator-on-stack requirement, SPEC_FULL.md §9.6). A worker reporting
// a Collector error aborts the global queue's quiescence protocol early
// so every other worker unparks promptly instead of hanging until natural
// completion.
func (d *Driver) runParallel(ctx context.Context, collector Collector, cfg Config, tracer *tracelog.Tracer) error {
	sess := &session{
		collector: collector,
		global:    newGlobalQueue(cfg.GlobalCap, cfg.GlobalLowWater, cfg.MaxGrab, cfg.NumWorkers),
		tracer:    tracer,
	}
	sess.deferEnabled.Store(true)

	pctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errCh := make(chan error, cfg.NumWorkers)

	reportErr := func(err error) {
		select {
		case errCh <- err:
		default:
		}
		sess.global.abort()
		cancel()
	}

	for id := 1; id < cfg.NumWorkers; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if err := runWorker(pctx, sess, id, cfg.LocalCap); err != nil {
				reportErr(err)
			}
		}(id)
	}

	// Worker 0 runs on this goroutine, never a spawned one: see
	// SPEC_FULL.md §9.6.
	if err := runWorker(pctx, sess, 0, cfg.LocalCap); err != nil {
		reportErr(err)
	}

	wg.Wait()
	close(errCh)

	for err := range errCh {
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) timed(bench bool, label string, fn func() error) (time.Duration, error) {
	start := time.Now()
	err := fn()
	dur := time.Since(start)
	if bench {
		fmt.Printf("%s: %.3f\n", label, float64(dur.Microseconds())/1000.0)
	}
	return dur, err
}

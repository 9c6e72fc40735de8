package mark

import "fmt"

// Mode selects the Driver's run strategy (spec.md §4.5).
type Mode int

const (
	// SINGLE runs start_mark once on the calling goroutine, deferral
	// disabled.
	SINGLE Mode = iota
	// PARALLEL runs the full worker pool with deferral enabled.
	PARALLEL
	// DUAL runs PARALLEL timed, resets mark bits, then runs SINGLE timed.
	// For benchmarking parallel against single-threaded marking on the
	// same heap snapshot.
	DUAL
	// SINGLE_TWICE runs SINGLE, resets, runs SINGLE again. A baseline
	// for noise estimation in benchmarks.
	SINGLE_TWICE
)

func (m Mode) String() string {
	switch m {
	case SINGLE:
		return "SINGLE"
	case PARALLEL:
		return "PARALLEL"
	case DUAL:
		return "DUAL"
	case SINGLE_TWICE:
		return "SINGLE_TWICE"
	default:
		return "UNKNOWN"
	}
}

// Config holds the tunable knobs for a Driver (spec.md §6). There is no
// third-party config/validation library behind this struct. See
// SPEC_FULL.md §9.2 for why that mirrors the teacher's own approach.
type Config struct {
	Mode       Mode
	NumWorkers int

	GlobalCap      int // bounded shared queue capacity
	LocalCap       int // bounded per-worker deque capacity
	MaxGrab        int // items pulled from global queue per pop_work call
	GlobalLowWater int // offer_work's low-water predicate threshold

	// MaxOffer is accepted for configuration compatibility but is
	// currently unused by the offer policy, which caps an offer by
	// min(local.len/2, freeSlots) instead. See SPEC_FULL.md §10.3.
	MaxOffer int

	Bench      bool // print TIME()-style millisecond timings
	DebugTrace bool // emit per-worker trace logs via internal/tracelog
}

// DefaultConfig mirrors the constants named in spec.md §4.2.
func DefaultConfig() Config {
	const globalCap = 500
	return Config{
		Mode:           PARALLEL,
		NumWorkers:     4,
		GlobalCap:      globalCap,
		LocalCap:       200,
		MaxGrab:        4,
		MaxOffer:       4,
		GlobalLowWater: globalCap / 4,
	}
}

// validate clamps defaultable fields and rejects configurations the
// engine cannot run at all. This is the closest Go analog to spec.md
// §7.1's "resource-exhaustion" category: there is no thread, mutex, or
// key creation that can fail the way pthread's can, so an impossible
// capacity configuration is the fatal condition that takes its place.
func (c *Config) validate() error {
	if c.NumWorkers <= 0 {
		c.NumWorkers = 1
	}
	if c.LocalCap <= 0 {
		return fmt.Errorf("%w: LocalCap must be positive, got %d", ErrInvalidConfig, c.LocalCap)
	}
	if c.GlobalCap <= 0 {
		return fmt.Errorf("%w: GlobalCap must be positive, got %d", ErrInvalidConfig, c.GlobalCap)
	}
	if c.MaxGrab <= 0 {
		c.MaxGrab = 1
	}
	if c.GlobalLowWater < 0 || c.GlobalLowWater > c.GlobalCap {
		c.GlobalLowWater = c.GlobalCap / 4
	}
	return nil
}

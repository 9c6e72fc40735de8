package mark

import (
	"errors"
	"fmt"
)

// Sentinel errors. Plain fmt.Errorf/errors.New throughout, matching the
// teacher's own error-handling idiom (workerpool.go never reaches for an
// errors-wrapping library either). See SPEC_FULL.md §9.2.
var (
	// ErrNoCollector is returned by Driver.MarkAll when no Collector has
	// been configured.
	ErrNoCollector = errors.New("mark: no collector configured")

	// ErrInvalidConfig is returned when Config.validate fails; this is
	// the engine's resource-exhaustion-equivalent fatal category (spec.md
	// §7.1). There is no thread/mutex/key creation to fail in Go, so an
	// impossible configuration is the closest analog.
	ErrInvalidConfig = errors.New("mark: invalid configuration")

	// ErrDequeFull is the recoverable condition DeferMark sheds work for
	// (spec.md §7.3).
	ErrDequeFull = errors.New("mark: local deque full")
)

// assertf halts the phase with a diagnostic for programmer-error-class
// invariant violations (spec.md §7.2), e.g. a collector invoking
// DeferMark from a goroutine that never entered the worker loop. These
// are bugs in the engine or its collaborator, not runtime conditions a
// caller can recover from, so a panic (mirroring the C implementation's
// assert() calls) is the correct response rather than an error return.
func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("mark: assertion failed: "+format, args...))
	}
}

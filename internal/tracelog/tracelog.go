// Package tracelog provides a thin wrapper around logrus used for the
// mark engine's DEBUG_TRACE output (spec.md §6). It deliberately does not
// touch the benchmark-mode stdout contract (Nthreads:/op:millis/A/B/END),
// which is scraped literally by test harnesses and stays on plain fmt
// output. See SPEC_FULL.md §9.1.
//
// Grounded on ibs-source-syslog-consumer's internal/logger/logrus.go and
// internal/log/log.go, both thin level-configurable facades over
// sirupsen/logrus.
package tracelog

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Tracer emits per-worker trace lines when enabled, and is a silent no-op
// otherwise (constructing one costs nothing when DebugTrace is false).
type Tracer struct {
	enabled bool
	log     *logrus.Logger
}

// New creates a Tracer. When enabled is false, Trace calls are no-ops.
func New(enabled bool) *Tracer {
	t := &Tracer{enabled: enabled}
	if !enabled {
		return t
	}

	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.TraceLevel)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	t.log = log
	return t
}

// Trace logs a per-worker trace line with structured fields, mirroring
// gc_threading.c's debug_print calls.
func (t *Tracer) Trace(worker int, msg string, fields logrus.Fields) {
	if t == nil || !t.enabled {
		return
	}
	if fields == nil {
		fields = logrus.Fields{}
	}
	fields["worker"] = worker
	t.log.WithFields(fields).Trace(msg)
}

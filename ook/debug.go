package ook

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

// Category gates which subsystem's trace lines are emitted, mirroring
// the original's debug_flags bitmask (only debug_flags::decode exists
// today, but the shape leaves room for more).
type Category int

const (
	// CategoryDecode gates demodulator trace lines: sync/preamble
	// rejections, receive_data anomalies, fatal-condition abandons.
	CategoryDecode Category = 1 << iota
)

// EnvVar is the process environment toggle that enables
// CategoryDecode tracing by its mere presence, with no value
// semantics, when no explicit Debugger has been configured.
const EnvVar = "OOK_DECODE_DEBUG"

var (
	envOnce    sync.Once
	envEnabled bool

	// fallbackLogger serves a nil *Debugger. Trace lines are logged at
	// debug level, so every logger here is built at DebugLevel; the
	// library's default Info level would drop them all.
	fallbackLogger = log.NewWithOptions(os.Stderr, log.Options{Level: log.DebugLevel})
)

func envDebugEnabled() bool {
	envOnce.Do(func() {
		_, envEnabled = os.LookupEnv(EnvVar)
	})
	return envEnabled
}

// Debugger is the single diagnostic sink a Demodulator or Modulator
// writes trace lines to. Constructing one with NewDebugger wires it to
// github.com/charmbracelet/log; passing a nil *Debugger to a
// Demodulator/Modulator falls back to the process-wide OOK_DECODE_DEBUG
// toggle, matching the original's process-global, cached-on-first-use
// behavior while still letting callers thread an explicit choice
// through constructors per the port's "prefer configuration over
// globals" design note.
type Debugger struct {
	logger  *log.Logger
	enabled Category
}

// NewDebugger builds a Debugger that writes enabled categories to w
// through charmbracelet/log, with the given prefix (shown in every
// line, e.g. "demod" or "mod").
func NewDebugger(w io.Writer, prefix string, enabled Category) *Debugger {
	logger := log.NewWithOptions(w, log.Options{Prefix: prefix, Level: log.DebugLevel})
	return &Debugger{logger: logger, enabled: enabled}
}

// NewStderrDebugger builds a Debugger writing to os.Stderr, enabling
// CategoryDecode iff forced is true or OOK_DECODE_DEBUG is set.
func NewStderrDebugger(prefix string, forced bool) *Debugger {
	var enabled Category
	if forced || envDebugEnabled() {
		enabled |= CategoryDecode
	}
	return &Debugger{
		logger:  log.NewWithOptions(os.Stderr, log.Options{Prefix: prefix, Level: log.DebugLevel}),
		enabled: enabled,
	}
}

func (d *Debugger) enabledFor(c Category) bool {
	if d == nil {
		return envDebugEnabled() && c == CategoryDecode
	}
	return d.enabled&c != 0
}

// Debugf logs a formatted trace line under category c, if enabled.
func (d *Debugger) Debugf(c Category, format string, args ...any) {
	if !d.enabledFor(c) {
		return
	}
	if d == nil {
		fallbackLogger.Debugf(format, args...)
		return
	}
	d.logger.Debugf(format, args...)
}

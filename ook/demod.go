package ook

// Demodulator turns a stream of thresholded sample magnitudes into
// framed Packet records (spec.md §4.3). Each time its coroutine body
// is entered it attempts to read exactly one packet: edge detection,
// sync-period calibration, preamble validation, data-bit collection,
// check-bit collection, and packet emission. A failure at any stage
// ends the read (a timeout still emits the data/check pair in hand, see
// recoverFatal); the adapter then resets automatically and hunting for
// the next packet resumes on the remaining samples, within the same
// PushSamples call or the next one.
type Demodulator struct {
	tolerance float64
	debug     *Debugger

	adapter sampleAdapter
	inbox   queue[Packet]

	// Per-read state, reinitialized by onReset before every fresh body
	// entry so the "reset implies on_reset before any new sample" and
	// "demodulator packet emitted only when at least one data bit has
	// been collected" invariants (spec.md §3) hold by construction.
	syncCount     int
	detectedWidth int
	timing        TimingParams
	dataBits      BitBuffer
	checkBits     BitBuffer
}

// NewDemodulator builds a Demodulator with the given tolerance
// (spec.md §6's "new(tolerance)"; pass DefaultTolerance for the
// default 0.10). debug may be nil to fall back to the process-wide
// OOK_DECODE_DEBUG toggle (ook/debug.go).
func NewDemodulator(tolerance float64, debug *Debugger) *Demodulator {
	d := &Demodulator{tolerance: tolerance, debug: debug}
	d.adapter.co.OnReset = d.onReset
	d.adapter.co.Body = d.body
	return d
}

func (d *Demodulator) onReset() {
	d.syncCount = 0
	d.detectedWidth = 0
	d.timing = TimingParams{}
	d.dataBits = BitBuffer{}
	d.checkBits = BitBuffer{}
}

func (d *Demodulator) debugf(format string, args ...any) {
	d.debug.Debugf(CategoryDecode, format, args...)
}

// PushSamples drives the demodulator body to completion over this
// slice, emitting zero or more packets onto the inbox (spec.md §6).
func (d *Demodulator) PushSamples(samples []Sample) {
	d.adapter.pushSamples(samples)
}

// PopPacket dequeues one packet record, FIFO, or reports false if none
// are pending (spec.md §6).
func (d *Demodulator) PopPacket() (Packet, bool) {
	return d.inbox.pop()
}

// body is the demodulator's coroutine entry point: one linear,
// top-to-bottom description of the wire protocol, exactly as spec.md
// §4.1's rationale calls for. Fatal conditions (ErrTimeout,
// ErrTooManyBits, ErrBadMidamble) panic from deep inside adapter/bit-
// buffer calls and are recovered here, mirroring the original's
// try/catch around read_packet — they never escape to the host.
func (d *Demodulator) body() {
	defer d.recoverFatal()

	d.adapter.waitUntil(IsHigh, -1)

	if !d.detectSyncWidth() {
		return
	}

	timeout := d.detectedWidth * 4
	preambleSize := d.adapter.countUntil(IsLow, timeout)
	if !withinRange(float64(preambleSize), float64(2*d.detectedWidth), d.tolerance) {
		d.debugf("bad preamble: %d != %d", preambleSize, 2*d.detectedWidth)
		return
	}

	d.receiveData(&d.dataBits)
	d.receiveData(&d.checkBits)

	d.flush()
}

// flush emits whatever data+check pair the current read has collected,
// provided both sides got at least one bit (spec.md §7's "packet
// emitted only when at least one data bit has been collected").
func (d *Demodulator) flush() {
	if d.dataBits.Len() > 0 && d.checkBits.Len() > 0 {
		pkt := newPacket(d.syncCount, &d.dataBits, &d.checkBits)
		d.debugf("%s", pkt.PhyPretty)
		d.inbox.push(pkt)
	}
}

func (d *Demodulator) recoverFatal() {
	r := recover()
	if r == nil {
		return
	}
	switch r {
	case ErrTimeout:
		// A low run past Timeout with no resolving edge is exactly
		// what a trailing inter-packet blank looks like once it
		// exceeds the bounded terminal-silence window (the default
		// 10·ms blank exceeds the 8·bitWidth window that receiveData
		// can observe in-band). Flush whatever pair is in hand instead
		// of discarding it, mirroring the original's destructor-time
		// final print_packet() flush (decode_impl.cc's ~state()).
		d.flush()
	case ErrTooManyBits, ErrBadMidamble:
		d.debugf("%s", r)
	default:
		panic(r)
	}
}

// detectSyncWidth repeatedly measures sync half-periods until a
// disproportionately long low run signals the end of the sync burst
// (spec.md §4.3). It returns false if a candidate half-period isn't
// within tolerance of a symmetric 50% duty cycle, abandoning the
// packet.
func (d *Demodulator) detectSyncWidth() bool {
	d.detectedWidth = 0
	waitTime := -1
	for {
		hi := d.adapter.countUntil(IsLow, waitTime)
		lo := d.adapter.countUntil(IsHigh, waitTime)

		if d.detectedWidth > 1 && float64(lo) > syncLongLowRatio*float64(d.detectedWidth) {
			d.debugf("detected sync %d", d.detectedWidth)
			d.timing = NewTimingParams(d.detectedWidth)
			return true
		}

		total := hi + lo
		if !withinRange(float64(hi), float64(total)/2.0, d.tolerance) ||
			!withinRange(float64(lo), float64(total)/2.0, d.tolerance) {
			d.debugf("bad sync: hi(%d) lo(%d) avg(%d)", hi, lo, d.detectedWidth)
			return false
		}

		// The running mean's base case (sync_count == 0,
		// detectedWidth == 0) evaluates to hi_count/1 == hi_count,
		// i.e. the first observed half-period seeds the estimate
		// exactly — confirmed by construction, no special case needed.
		d.detectedWidth = (d.detectedWidth*d.syncCount + hi) / (d.syncCount + 1)
		d.syncCount++
		waitTime = d.detectedWidth * 4
	}
}

// receiveData collects one bit segment's worth of signal per
// iteration into out, stopping at a midamble, terminal silence, or any
// protocol anomaly (spec.md §4.3).
//
// Each data bit is one level segment whose duration (not its level)
// carries the bit's value, with level alternating every bit so every
// bit boundary is a guaranteed edge (ook/mod.go documents the exact
// alternation). The segment immediately following the preamble's
// trailing high is always a low run (bit index 0 is low), so
// receiveData starts there and flips predicate every iteration.
func (d *Demodulator) receiveData(out *BitBuffer) {
	measuringLow := true
	for {
		var width int
		if measuringLow {
			width = d.adapter.countUntil(IsHigh, d.timing.Timeout)
		} else {
			width = d.adapter.countUntil(IsLow, d.timing.Timeout)
		}

		switch {
		case withinRange(float64(width), float64(d.timing.One), d.tolerance):
			out.Append(true)
		case withinRange(float64(width), float64(d.timing.Zero), d.tolerance):
			out.Append(false)
		case withinRange(float64(width), float64(d.timing.Preamble), d.tolerance):
			d.verifyMidamble(measuringLow)
			return
		case width > d.timing.End:
			d.debugf("terminal silence: width(%d) end(%d) bit(%d)", width, d.timing.End, out.Len())
			return
		default:
			d.debugf("unexpected segment width %d at bit %d (one=%d zero=%d preamble=%d)",
				width, out.Len(), d.timing.One, d.timing.Zero, d.timing.Preamble)
			return
		}

		measuringLow = !measuringLow
	}
}

// verifyMidamble confirms the segment immediately following the one
// that triggered midamble detection also has preamble width, i.e. the
// midamble really is a repeated low-then-high preamble and not a
// truncated or corrupted marker (spec.md §7's ErrBadMidamble).
func (d *Demodulator) verifyMidamble(wasLow bool) {
	var next int
	if wasLow {
		next = d.adapter.countUntil(IsLow, d.timing.Timeout)
	} else {
		next = d.adapter.countUntil(IsHigh, d.timing.Timeout)
	}
	if !withinRange(float64(next), float64(d.timing.Preamble), d.tolerance) {
		panic(ErrBadMidamble)
	}
}

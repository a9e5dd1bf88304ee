package ook

// Modulator synthesizes the OOK waveform for queued packets (spec.md
// §4.4): blank, sync burst, preamble, data bytes, midamble, a repeat
// of the data bytes, postamble, and an inter-transmission blank.
//
// Unlike Demodulator, which pulls samples through sampleAdapter's read
// cursor, Modulator pushes samples out: its coroutine body runs ahead
// of the caller, buffering synthesized samples in produced until
// PullSamples drains them. Both directions share the same Coroutine
// primitive (ook/coroutine.go); only which side of it does the
// waiting differs.
type Modulator struct {
	ms            int
	msBetweenXmit int
	stopAfter     int
	debug         *Debugger

	co       Coroutine
	outbox   queue[[]byte]
	produced []Sample
}

// NewModulator builds a Modulator per spec.md §6's
// new(initial_data, stop_after, ms_between_xmit, sample_rate): any
// initialData is queued as the first packet to transmit, stopAfter
// follows the -1/run-forever, N/emit-N-packets convention, and ms is
// derived from sampleRate the same way the original divides by 1000.
func NewModulator(initialData []byte, stopAfter, msBetweenXmit, sampleRate int, debug *Debugger) *Modulator {
	m := &Modulator{
		ms:            sampleRate / 1000,
		msBetweenXmit: msBetweenXmit,
		stopAfter:     stopAfter,
		debug:         debug,
	}
	m.co.Body = m.body
	if len(initialData) > 0 {
		m.outbox.push(initialData)
	}
	return m
}

// Enqueue queues one packet's bytes for transmission (spec.md §6).
// The original's message port takes a vector of signed 32-bit ints and
// transmits only the low 8 bits of each; this port takes a plain
// []byte, so every element is already one byte and nothing is
// truncated (see SPEC_FULL.md's Supplement note on this decision).
func (m *Modulator) Enqueue(data []byte) {
	m.outbox.push(data)
}

func (m *Modulator) debugf(format string, args ...any) {
	m.debug.Debugf(CategoryDecode, format, args...)
}

// PullSamples fills out with up to len(out) synthesized samples,
// returning how many were written. Once stopAfter has counted down to
// zero, it returns 0 immediately without resuming the coroutine, per
// spec.md §6's "stop_after == 0 ⇒ returns 0 to signal end-of-stream".
func (m *Modulator) PullSamples(out []Sample) int {
	if m.stopAfter == 0 {
		return 0
	}
	for len(m.produced) < len(out) {
		before := len(m.produced)
		m.co.Resume()
		if len(m.produced) == before {
			break
		}
	}
	n := copy(out, m.produced)
	m.produced = m.produced[n:]
	return n
}

// body is the modulator's coroutine entry point (spec.md §4.4's run
// loop): while stopAfter is nonzero, idle-blank while the outbox is
// empty, otherwise send the head packet. Output lands in m.produced,
// drained by PullSamples.
func (m *Modulator) body() {
	for m.stopAfter != 0 {
		data, ok := m.outbox.pop()
		if !ok {
			m.blank(10 * m.ms)
			continue
		}
		m.sendPacket(data)
	}
}

func (m *Modulator) sendPacket(data []byte) {
	m.debugf("sending %d byte packet", len(data))
	m.blank(10 * m.ms)
	m.sync()
	m.preamble()
	m.sendBytes(data)
	m.midamble()
	m.sendBytes(data)
	m.postamble()

	// stopAfter is only updated once the trailing blank is fully
	// emitted, so PullSamples does not report end-of-stream while that
	// blank is still being produced.
	remaining := saturatingDecrement(m.stopAfter)
	if remaining == 0 {
		m.blank(10 * m.ms)
	} else {
		m.blank(m.msBetweenXmit * m.ms)
	}
	m.stopAfter = remaining
}

// saturatingDecrement implements spec.md §4.4's "decrement stop_after,
// saturating at -1 = run forever": a negative stopAfter (the run-
// forever sentinel) never changes, and a non-negative one decrements
// no lower than 0.
func saturatingDecrement(n int) int {
	if n <= 0 {
		return n
	}
	return n - 1
}

// emit appends n samples at level to the output buffer, yielding once
// per sample so PullSamples can drain partial progress on demand.
func (m *Modulator) emit(n int, level Sample) {
	for i := 0; i < n; i++ {
		m.produced = append(m.produced, level)
		m.co.Yield()
	}
}

func (m *Modulator) blank(n int) {
	m.emit(n, 0)
}

// sync emits 40 symmetric one-ms pulses (high then low) followed by
// one extra ms-long high, the calibration burst detectSyncWidth reads
// on the decode side.
func (m *Modulator) sync() {
	for i := 0; i < 40; i++ {
		m.emit(m.ms, 1)
		m.emit(m.ms, 0)
	}
	m.emit(m.ms, 1)
}

// preamble emits the low-then-high marker that both starts a data
// segment and (repeated) forms the midamble between the two copies of
// the payload.
func (m *Modulator) preamble() {
	m.emit(2*m.ms, 0)
	m.emit(2*m.ms, 1)
}

func (m *Modulator) midamble() {
	m.preamble()
}

// postamble is empty for the authoritative wire format (spec.md
// §4.4); sendPacket's trailing blank() call supplies the silence a
// receiver needs to notice end-of-packet.
func (m *Modulator) postamble() {}

func (m *Modulator) sendBytes(data []byte) {
	for _, b := range data {
		m.sendByte(b)
	}
}

// sendByte emits one byte MSB-first as 8 single-segment bits. Bit
// index i (0 at the MSB) is emitted at level segmentLevel(i) for a
// duration of ms (bit set) or ms/2 (bit clear); ook/demod.go documents
// why this exact alternation — not the literal "even index is high"
// phrasing spec.md's prose uses — is the one that keeps every bit
// boundary a guaranteed edge against the preamble/midamble framing
// that surrounds it.
func (m *Modulator) sendByte(b byte) {
	for i := 0; i < 8; i++ {
		bit := (b>>(7-i))&1 == 1
		level := segmentLevel(i)
		if bit {
			m.emit(m.ms, level)
		} else {
			m.emit(m.ms/2, level)
		}
	}
}

// segmentLevel alternates starting low at bit index 0, so a data
// segment's first bit is always the opposite level of the preamble's
// trailing high and every subsequent bit flips level from the one
// before it.
func segmentLevel(idx int) Sample {
	if idx%2 == 1 {
		return 1
	}
	return 0
}

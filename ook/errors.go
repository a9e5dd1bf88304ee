package ook

import "errors"

// The three fatal conditions a Demodulator body can raise. Each is
// caught at the top of the body (mirroring the original's try/catch
// around read_packet) and ends the current packet read — it never
// escapes to the host. ErrTooManyBits and ErrBadMidamble are logged
// and discard the read; ErrTimeout emits the data/check pair in hand,
// if both hold at least one bit, and otherwise discards the read
// without logging (Demodulator.recoverFatal).
var (
	// ErrTimeout is raised when countUntil exceeds its max sample bound
	// without finding a matching sample.
	ErrTimeout = errors.New("ook: timeout reading data")

	// ErrTooManyBits is raised when a BitBuffer would grow past its
	// 1024-bit cap.
	ErrTooManyBits = errors.New("ook: exceeded max allowed data bits")

	// ErrBadMidamble is raised when the preamble-width segment that
	// marks a midamble is not followed by a second preamble-width
	// segment of the opposite level (the midamble's high half).
	ErrBadMidamble = errors.New("ook: bad midamble")
)

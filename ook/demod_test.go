package ook

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPopPacketEmptyReturnsFalse(t *testing.T) {
	demod := NewDemodulator(DefaultTolerance, nil)
	_, ok := demod.PopPacket()
	require.False(t, ok)
}

// TestPushSamplesAcrossMultipleCalls verifies a packet split across
// several PushSamples calls still decodes correctly: the coroutine
// must suspend mid-read and resume seamlessly (spec.md §4.2).
func TestPushSamplesAcrossMultipleCalls(t *testing.T) {
	samples := modulateOne(t, []byte{0x5A})
	demod := NewDemodulator(DefaultTolerance, nil)

	chunk := 7
	for i := 0; i < len(samples); i += chunk {
		end := i + chunk
		if end > len(samples) {
			end = len(samples)
		}
		demod.PushSamples(samples[i:end])
	}

	pkt, ok := demod.PopPacket()
	require.True(t, ok)
	require.Equal(t, []byte{0x5A}, pkt.Data)
	require.True(t, pkt.ValidCheck)
}

// TestDetectSyncWidthRejectsAsymmetricDuty feeds a pulse train whose
// high/low halves are far from a symmetric 50% duty cycle and expects
// no packet: detectSyncWidth must abandon the read (spec.md §4.3).
func TestDetectSyncWidthRejectsAsymmetricDuty(t *testing.T) {
	var samples []Sample
	for i := 0; i < 5; i++ {
		samples = append(samples, 0)
	}
	for i := 0; i < 5; i++ {
		samples = append(samples, 1)
	}
	for i := 0; i < 50; i++ {
		samples = append(samples, 0)
	}
	samples = append(samples, 1, 1, 1)

	packets := demodulateAll(samples)
	require.Empty(t, packets)
}

// TestTooManyBitsAbortsWithoutPacket synthesizes a data segment that
// never terminates with a midamble or terminal silence, forcing the
// 1024-bit cap (spec.md §7's ErrTooManyBits) and confirming the
// fatal condition is swallowed rather than propagated or partially
// emitted.
func TestTooManyBitsAbortsWithoutPacket(t *testing.T) {
	prefixLen := 95 * testMs // blank + sync + preamble, see ook/mod.go
	full := modulateOne(t, []byte{0x00})
	require.GreaterOrEqual(t, len(full), prefixLen)
	samples := append([]Sample(nil), full[:prefixLen]...)

	zeroWidth := testMs / 2
	for i := 0; i < 1100; i++ {
		level := segmentLevel(i)
		for j := 0; j < zeroWidth; j++ {
			samples = append(samples, level)
		}
	}

	packets := demodulateAll(samples)
	require.Empty(t, packets)
}

func TestWithinRangeIsExclusiveAtBounds(t *testing.T) {
	require.True(t, withinRange(100, 100, 0.10))
	require.False(t, withinRange(110, 100, 0.10))
	require.False(t, withinRange(90, 100, 0.10))
	require.True(t, withinRange(105, 100, 0.10))
}

package ook

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestModulatorStopAfterZeroPullsZero checks spec.md §8 scenario 6:
// pull_samples on a modulator constructed with stop_after=0 returns 0
// immediately, without ever resuming the coroutine.
func TestModulatorStopAfterZeroPullsZero(t *testing.T) {
	mod := NewModulator(nil, 0, 10, testMs*1000, nil)
	out := make([]Sample, 16)
	require.Equal(t, 0, mod.PullSamples(out))
}

func TestModulatorFrameLengthMatchesWireFormat(t *testing.T) {
	mod := NewModulator(nil, 1, 10, testMs*1000, nil)
	mod.Enqueue([]byte{0x00})

	var all []Sample
	buf := make([]Sample, 4096)
	for {
		n := mod.PullSamples(buf)
		if n == 0 {
			break
		}
		all = append(all, buf[:n]...)
	}

	blank := 10 * testMs
	sync := 40*2*testMs + testMs
	preamble := 4 * testMs
	data := 8 * (testMs / 2) // one zero byte: 8 bits, each zero_width wide
	midamble := 4 * testMs
	// stopAfter reaches 0 after this single packet, so the post-blank
	// is the 10·ms "no further transmissions remain" case.
	postBlank := 10 * testMs
	want := blank + sync + preamble + data + midamble + data + postBlank
	require.Equal(t, want, len(all))
}

func TestModulatorPullSamplesHandlesSmallBuffers(t *testing.T) {
	mod := NewModulator(nil, 1, 10, testMs*1000, nil)
	mod.Enqueue([]byte{0xAA})

	var all []Sample
	small := make([]Sample, 3)
	for {
		n := mod.PullSamples(small)
		all = append(all, small[:n]...)
		if n < len(small) {
			break
		}
	}

	require.NotEmpty(t, all)
	packets := demodulateAll(all)
	require.Len(t, packets, 1)
	require.Equal(t, []byte{0xAA}, packets[0].Data)
}

func TestSegmentLevelAlternatesStartingLow(t *testing.T) {
	require.Equal(t, Sample(0), segmentLevel(0))
	require.Equal(t, Sample(1), segmentLevel(1))
	require.Equal(t, Sample(0), segmentLevel(2))
	require.Equal(t, Sample(1), segmentLevel(3))
}

package ook

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBitBufferBytesMSBFirst(t *testing.T) {
	var b BitBuffer
	for _, bit := range []bool{1 == 1, false, false, false, false, false, false, true} {
		b.Append(bit)
	}
	require.Equal(t, []byte{0x81}, b.Bytes())
}

func TestBitBufferBytesPadsFinalByte(t *testing.T) {
	var b BitBuffer
	b.Append(true)
	b.Append(true)
	b.Append(true)
	require.Equal(t, 1, len(b.Bytes()))
	require.Equal(t, byte(0xE0), b.Bytes()[0])
}

func TestBitBufferAppendPanicsAtCap(t *testing.T) {
	var b BitBuffer
	for i := 0; i < MaxBits; i++ {
		b.Append(i%2 == 0)
	}
	require.Equal(t, MaxBits, b.Len())
	require.Panics(t, func() { b.Append(true) })
}

func TestBitBufferEqual(t *testing.T) {
	var a, b BitBuffer
	for _, bit := range []bool{true, false, true} {
		a.Append(bit)
		b.Append(bit)
	}
	require.True(t, a.Equal(&b))

	b.Append(true)
	require.False(t, a.Equal(&b))
}

package sampleio

import (
	"bytes"
	"testing"

	"github.com/Fifty-Nine/gr-ook/ook"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	samples := []ook.Sample{0, 1, 0, 0, 1, 1, 0, 1}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, samples, 44100))

	got, rate, err := Read(&buf)
	require.NoError(t, err)
	require.Equal(t, 44100, rate)
	require.Len(t, got, len(samples))

	for i, s := range samples {
		if s > 0.5 {
			require.True(t, ook.IsHigh(got[i]), "sample %d", i)
		} else {
			require.True(t, ook.IsLow(got[i]), "sample %d", i)
		}
	}
}

func TestReadRejectsNonWaveHeader(t *testing.T) {
	_, _, err := Read(bytes.NewReader([]byte("not a wav file at all!!")))
	require.Error(t, err)
}

func TestWriteFileReadFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/test.wav"
	samples := []ook.Sample{1, 0, 1, 0}

	require.NoError(t, WriteFile(path, samples, 8000))

	got, rate, err := ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 8000, rate)
	require.Len(t, got, len(samples))
}

// Package sampleio reads and writes mono 16-bit PCM WAV files carrying
// OOK sample streams, the on-disk fixture format the teacher's
// atest.go/gen_packets.go pair used for offline testing (RIFF/WAVE/fmt
// /data chunks), reimplemented here with encoding/binary instead of
// atest.go's hand-parsed cgo structs.
package sampleio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/Fifty-Nine/gr-ook/ook"
)

const (
	riffHeaderSize = 12
	fmtChunkSize   = 16
	bitsPerSample  = 16
	numChannels    = 1
)

// WriteFile writes samples as a mono 16-bit PCM WAV file at the given
// sample rate, scaling ook.Sample's [0,1] range onto the non-negative
// int16 range (0 -> 0, 1 -> 32767).
func WriteFile(path string, samples []ook.Sample, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("sampleio: creating %q: %w", path, err)
	}
	defer f.Close()
	return Write(f, samples, sampleRate)
}

// Write writes samples to w as a mono 16-bit PCM WAV stream.
func Write(w io.Writer, samples []ook.Sample, sampleRate int) error {
	dataSize := len(samples) * 2
	byteRate := sampleRate * numChannels * bitsPerSample / 8
	blockAlign := numChannels * bitsPerSample / 8

	if err := writeChunkHeader(w, "RIFF", 4+8+fmtChunkSize+8+dataSize); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "WAVE"); err != nil {
		return err
	}

	if err := writeChunkHeader(w, "fmt ", fmtChunkSize); err != nil {
		return err
	}
	fmtFields := []any{
		uint16(1), // PCM
		uint16(numChannels),
		uint32(sampleRate),
		uint32(byteRate),
		uint16(blockAlign),
		uint16(bitsPerSample),
	}
	for _, field := range fmtFields {
		if err := binary.Write(w, binary.LittleEndian, field); err != nil {
			return err
		}
	}

	if err := writeChunkHeader(w, "data", dataSize); err != nil {
		return err
	}
	for _, s := range samples {
		if err := binary.Write(w, binary.LittleEndian, sampleToInt16(s)); err != nil {
			return err
		}
	}
	return nil
}

func writeChunkHeader(w io.Writer, id string, size int) error {
	if _, err := io.WriteString(w, id); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, uint32(size))
}

func sampleToInt16(s ook.Sample) int16 {
	v := float32(s) * 32767
	if v > 32767 {
		v = 32767
	}
	if v < -32768 {
		v = -32768
	}
	return int16(v)
}

// ReadFile reads a mono 16-bit PCM WAV file back into an ook.Sample
// slice, the inverse scaling of Write, and returns its sample rate.
func ReadFile(path string) ([]ook.Sample, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("sampleio: opening %q: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses a RIFF/WAVE stream and returns its samples (mono,
// 16-bit PCM only) and sample rate.
func Read(r io.Reader) ([]ook.Sample, int, error) {
	var riffHeader [riffHeaderSize]byte
	if _, err := io.ReadFull(r, riffHeader[:]); err != nil {
		return nil, 0, fmt.Errorf("sampleio: reading RIFF header: %w", err)
	}
	if string(riffHeader[0:4]) != "RIFF" || string(riffHeader[8:12]) != "WAVE" {
		return nil, 0, fmt.Errorf("sampleio: not a WAVE file")
	}

	var sampleRate int
	var channels uint16
	var bits uint16
	var samples []ook.Sample

	for {
		var id [4]byte
		var size uint32
		if _, err := io.ReadFull(r, id[:]); err != nil {
			if err == io.EOF {
				break
			}
			return nil, 0, fmt.Errorf("sampleio: reading chunk id: %w", err)
		}
		if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
			return nil, 0, fmt.Errorf("sampleio: reading chunk size: %w", err)
		}

		switch string(id[:]) {
		case "fmt ":
			var format, numCh uint16
			var rate, byteRate uint32
			var blockAlign, bitsPerSamp uint16
			if err := binary.Read(r, binary.LittleEndian, &format); err != nil {
				return nil, 0, err
			}
			if err := binary.Read(r, binary.LittleEndian, &numCh); err != nil {
				return nil, 0, err
			}
			if err := binary.Read(r, binary.LittleEndian, &rate); err != nil {
				return nil, 0, err
			}
			if err := binary.Read(r, binary.LittleEndian, &byteRate); err != nil {
				return nil, 0, err
			}
			if err := binary.Read(r, binary.LittleEndian, &blockAlign); err != nil {
				return nil, 0, err
			}
			if err := binary.Read(r, binary.LittleEndian, &bitsPerSamp); err != nil {
				return nil, 0, err
			}
			channels, bits = numCh, bitsPerSamp
			sampleRate = int(rate)
			if size > fmtChunkSize {
				if _, err := io.CopyN(io.Discard, r, int64(size-fmtChunkSize)); err != nil {
					return nil, 0, err
				}
			}
		case "data":
			if channels != numChannels || bits != bitsPerSample {
				return nil, 0, fmt.Errorf("sampleio: only mono 16-bit PCM is supported, got %d channels at %d bits", channels, bits)
			}
			count := int(size) / 2
			samples = make([]ook.Sample, count)
			for i := 0; i < count; i++ {
				var v int16
				if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
					return nil, 0, fmt.Errorf("sampleio: reading sample %d: %w", i, err)
				}
				samples[i] = int16ToSample(v)
			}
		default:
			if _, err := io.CopyN(io.Discard, r, int64(size)); err != nil {
				return nil, 0, fmt.Errorf("sampleio: skipping chunk %q: %w", string(id[:]), err)
			}
		}
	}

	return samples, sampleRate, nil
}

func int16ToSample(v int16) ook.Sample {
	return ook.Sample(float32(v) / 32767)
}

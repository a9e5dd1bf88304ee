// Command ookaudio demonstrates live OOK decode/encode against a real
// sound card via PortAudio: one goroutine alternately reads a block
// from the input device into a Demodulator and writes a block drained
// from a Modulator to the output device, a second prints packets as
// they arrive, and a third feeds the Modulator from stdin hex lines.
// This is the live counterpart to ookdecode/ookgen's
// file-based batch tools, grounded on the teacher's audio.go (OSS/cgo
// live device I/O in the original, portaudio here).
package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gordonklaus/portaudio"
	"github.com/spf13/pflag"

	"github.com/Fifty-Nine/gr-ook/ook"
)

func main() {
	sampleRate := pflag.IntP("sample-rate", "r", 44100, "audio device sample rate")
	msBetweenXmit := pflag.IntP("ms-between-xmit", "x", 10, "post-packet guard gap, in ms, between queued transmissions")
	tolerance := pflag.Float64P("tolerance", "t", ook.DefaultTolerance, "pulse-width tolerance")
	verbose := pflag.BoolP("verbose", "v", false, "enable decode/modulate tracing")
	framesPerBuffer := pflag.IntP("frames", "f", 256, "audio callback buffer size in frames")
	pflag.Parse()

	if err := portaudio.Initialize(); err != nil {
		log.Fatal("portaudio init failed", "err", err)
	}
	defer portaudio.Terminate()

	debug := ook.NewStderrDebugger("ookaudio", *verbose)
	demod := ook.NewDemodulator(*tolerance, debug)
	mod := ook.NewModulator(nil, -1, *msBetweenXmit, *sampleRate, debug)

	in := make([]float32, *framesPerBuffer)
	out := make([]float32, *framesPerBuffer)

	stream, err := portaudio.OpenDefaultStream(1, 1, float64(*sampleRate), *framesPerBuffer, in, out)
	if err != nil {
		log.Fatal("opening audio stream failed", "err", err)
	}
	defer stream.Close()

	go enqueueFromStdin(mod)

	if err := stream.Start(); err != nil {
		log.Fatal("starting audio stream failed", "err", err)
	}
	defer stream.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go printPackets(demod)
	go pumpStream(stream, in, out, demod, mod)

	<-sig
	log.Info("shutting down")
}

func pumpStream(stream *portaudio.Stream, in, out []float32, demod *ook.Demodulator, mod *ook.Modulator) {
	inSamples := make([]ook.Sample, len(in))
	outSamples := make([]ook.Sample, len(out))
	for {
		if err := stream.Read(); err != nil {
			log.Error("audio read failed", "err", err)
			return
		}
		for i, v := range in {
			inSamples[i] = ook.Sample(v)
		}
		demod.PushSamples(inSamples)

		n := mod.PullSamples(outSamples)
		for i := 0; i < n; i++ {
			out[i] = float32(outSamples[i])
		}
		for i := n; i < len(out); i++ {
			out[i] = 0
		}
		if err := stream.Write(); err != nil {
			log.Error("audio write failed", "err", err)
			return
		}
	}
}

func printPackets(demod *ook.Demodulator) {
	for {
		pkt, ok := demod.PopPacket()
		if !ok {
			time.Sleep(10 * time.Millisecond)
			continue
		}
		fmt.Println(pkt.Pretty)
	}
}

// enqueueFromStdin lets an operator type hex-encoded packets on stdin
// to transmit them live, one per line.
func enqueueFromStdin(mod *ook.Modulator) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		data, err := hex.DecodeString(line)
		if err != nil {
			log.Error("invalid hex on stdin", "line", line, "err", err)
			continue
		}
		mod.Enqueue(data)
	}
}

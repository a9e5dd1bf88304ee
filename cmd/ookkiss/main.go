// Command ookkiss bridges a WAV-file OOK sample source/sink to a
// pseudo-terminal so an external client (a packet-radio TNC monitor,
// for instance) can attach to the PTY's slave side and see decoded
// packets arrive as simple framed lines, while anything it writes back
// gets modulated and appended to an output WAV file. This plays the
// role the teacher's kissserial.go/serial_port.go pair plays for a
// real serial TNC, using creack/pty instead of a physical port.
package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/creack/pty"
	"github.com/spf13/pflag"

	"github.com/Fifty-Nine/gr-ook/internal/sampleio"
	"github.com/Fifty-Nine/gr-ook/ook"
)

const frameDelim = "\n"

func main() {
	inPath := pflag.StringP("in", "i", "", "input WAV file of OOK samples to decode and bridge (optional)")
	outPath := pflag.StringP("out", "o", "out.wav", "output WAV file to append modulated bridge traffic to")
	sampleRate := pflag.IntP("sample-rate", "r", 44100, "output WAV sample rate")
	msBetweenXmit := pflag.IntP("ms-between-xmit", "x", 10, "post-packet guard gap, in ms, between queued transmissions")
	tolerance := pflag.Float64P("tolerance", "t", ook.DefaultTolerance, "pulse-width tolerance")
	verbose := pflag.BoolP("verbose", "v", false, "enable decode/modulate tracing")
	pflag.Parse()

	debug := ook.NewStderrDebugger("ookkiss", *verbose)

	ptmx, pts, err := pty.Open()
	if err != nil {
		log.Fatal("opening pty failed", "err", err)
	}
	defer ptmx.Close()
	defer pts.Close()

	log.Info("bridge ready", "slave", pts.Name())
	fmt.Printf("attach a client to: %s\n", pts.Name())

	mod := ook.NewModulator(nil, -1, *msBetweenXmit, *sampleRate, debug)
	go readClientWrites(ptmx, mod)
	go flushModulatedOutput(mod, *outPath, *sampleRate)

	if *inPath != "" {
		bridgeDecodedInput(*inPath, *tolerance, debug, ptmx)
	}

	select {}
}

// bridgeDecodedInput decodes inPath once and writes each packet's hex
// bytes, newline-terminated, to the PTY master so an attached client
// sees them as they would over a real line.
func bridgeDecodedInput(path string, tolerance float64, debug *ook.Debugger, ptmx *os.File) {
	samples, _, err := sampleio.ReadFile(path)
	if err != nil {
		log.Fatal("reading input WAV", "file", path, "err", err)
	}

	demod := ook.NewDemodulator(tolerance, debug)
	demod.PushSamples(samples)

	for {
		pkt, ok := demod.PopPacket()
		if !ok {
			break
		}
		line := hex.EncodeToString(pkt.Data) + frameDelim
		if _, err := ptmx.WriteString(line); err != nil {
			log.Error("writing to pty", "err", err)
			return
		}
	}
}

// readClientWrites reads hex-encoded lines written by whatever attaches
// to the PTY slave and enqueues them for modulation.
func readClientWrites(ptmx *os.File, mod *ook.Modulator) {
	scanner := bufio.NewScanner(ptmx)
	for scanner.Scan() {
		line := scanner.Text()
		data, err := hex.DecodeString(line)
		if err != nil {
			log.Error("invalid hex from client", "line", line, "err", err)
			continue
		}
		mod.Enqueue(data)
	}
}

// flushModulatedOutput periodically drains whatever the modulator has
// produced and appends it to outPath, rewriting the WAV file each time
// since WAV headers carry the total sample count up front.
func flushModulatedOutput(mod *ook.Modulator, outPath string, sampleRate int) {
	var all []ook.Sample
	buf := make([]ook.Sample, 4096)
	for {
		n := mod.PullSamples(buf)
		if n > 0 {
			all = append(all, buf[:n]...)
			if err := sampleio.WriteFile(outPath, all, sampleRate); err != nil {
				log.Error("writing output WAV", "file", outPath, "err", err)
			}
		} else {
			time.Sleep(50 * time.Millisecond)
		}
	}
}

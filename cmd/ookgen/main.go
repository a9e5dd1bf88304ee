// Command ookgen synthesizes an OOK-modulated WAV file from one or
// more hex-encoded packet payloads, the counterpart to the teacher's
// gen_packets.go test-fixture generator.
package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/Fifty-Nine/gr-ook/internal/sampleio"
	"github.com/Fifty-Nine/gr-ook/ook"
)

func main() {
	out := pflag.StringP("out", "o", "out.wav", "output WAV file path")
	sampleRate := pflag.IntP("sample-rate", "r", 44100, "output WAV sample rate")
	msBetweenXmit := pflag.IntP("ms-between-xmit", "x", 10, "post-packet guard gap, in ms, between queued transmissions")
	stopAfter := pflag.IntP("stop-after", "n", 0, "packets to emit before stopping (-1 = run forever); 0 defaults to one per argument")
	verbose := pflag.BoolP("verbose", "v", false, "enable modulation tracing")
	pflag.Parse()

	packets, err := readPackets(pflag.Args())
	if err != nil {
		log.Fatal("reading packets", "err", err)
	}
	if len(packets) == 0 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <hex bytes>...\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       echo deadbeef | %s [flags] -\n", os.Args[0])
		os.Exit(2)
	}

	if *stopAfter == 0 {
		*stopAfter = len(packets)
	}

	debug := ook.NewStderrDebugger("ookgen", *verbose)
	mod := ook.NewModulator(packets[0], *stopAfter, *msBetweenXmit, *sampleRate, debug)
	for _, p := range packets[1:] {
		mod.Enqueue(p)
	}

	var samples []ook.Sample
	buf := make([]ook.Sample, 4096)
	for {
		n := mod.PullSamples(buf)
		if n == 0 {
			break
		}
		samples = append(samples, buf[:n]...)
	}

	if err := sampleio.WriteFile(*out, samples, *sampleRate); err != nil {
		log.Fatal("writing WAV", "file", *out, "err", err)
	}
	log.Info("wrote WAV", "file", *out, "packets", len(packets), "samples", len(samples))
}

// readPackets decodes each CLI argument as hex bytes, except a lone
// "-" which reads additional hex-encoded lines from stdin (one packet
// per line), matching gen_packets.go's "read lines from a file or
// stdin" convention.
func readPackets(args []string) ([][]byte, error) {
	var packets [][]byte
	for _, arg := range args {
		if arg == "-" {
			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				b, err := hex.DecodeString(line)
				if err != nil {
					return nil, fmt.Errorf("decoding stdin line %q: %w", line, err)
				}
				packets = append(packets, b)
			}
			if err := scanner.Err(); err != nil {
				return nil, err
			}
			continue
		}
		b, err := hex.DecodeString(arg)
		if err != nil {
			return nil, fmt.Errorf("decoding %q: %w", arg, err)
		}
		packets = append(packets, b)
	}
	return packets, nil
}

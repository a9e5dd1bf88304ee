// Command ookdecode reads one or more WAV files of thresholded OOK
// samples and prints the packets found in each, the batch-decode
// counterpart to the teacher's atest.go file-driven demodulator test
// fixture.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/Fifty-Nine/gr-ook/internal/sampleio"
	"github.com/Fifty-Nine/gr-ook/ook"
)

type config struct {
	Tolerance float64 `yaml:"tolerance"`
	Verbose   bool    `yaml:"verbose"`
	Phy       bool    `yaml:"phy"`
}

func defaultConfig() config {
	return config{Tolerance: ook.DefaultTolerance}
}

func loadConfigFile(path string) (config, error) {
	cfg := defaultConfig()
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %q: %w", path, err)
	}
	return cfg, nil
}

func main() {
	cfg := defaultConfig()

	configPath := pflag.StringP("config", "c", "", "YAML config file overriding defaults")
	tolerance := pflag.Float64P("tolerance", "t", 0, "pulse-width tolerance (0 uses config/default)")
	verbose := pflag.BoolP("verbose", "v", false, "enable decode tracing (equivalent to OOK_DECODE_DEBUG)")
	phy := pflag.Bool("phy", false, "print the physical-layer bit breakdown instead of the hex summary")
	pflag.Parse()

	if *configPath != "" {
		loaded, err := loadConfigFile(*configPath)
		if err != nil {
			log.Fatal("loading config", "err", err)
		}
		cfg = loaded
	}
	if *tolerance != 0 {
		cfg.Tolerance = *tolerance
	}
	if *verbose {
		cfg.Verbose = true
	}
	if *phy {
		cfg.Phy = true
	}

	if pflag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <wav file>...\n", os.Args[0])
		os.Exit(2)
	}

	debug := ook.NewStderrDebugger("ookdecode", cfg.Verbose)

	exitCode := 0
	for _, path := range pflag.Args() {
		if err := decodeFile(path, cfg, debug); err != nil {
			log.Error("decode failed", "file", path, "err", err)
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

func decodeFile(path string, cfg config, debug *ook.Debugger) error {
	samples, _, err := sampleio.ReadFile(path)
	if err != nil {
		return err
	}

	demod := ook.NewDemodulator(cfg.Tolerance, debug)
	demod.PushSamples(samples)

	count := 0
	for {
		pkt, ok := demod.PopPacket()
		if !ok {
			break
		}
		count++
		if cfg.Phy {
			fmt.Println(pkt.PhyPretty)
		} else {
			fmt.Println(pkt.Pretty)
		}
	}
	log.Info("decoded file", "file", path, "packets", count)
	return nil
}

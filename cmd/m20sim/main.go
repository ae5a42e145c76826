// Package main provides the entry point for m20sim.
// m20sim is an instruction-set simulator for the M-20.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sergevak/m20sim/config"
	"github.com/sergevak/m20sim/drum"
	"github.com/sergevak/m20sim/image"
	"github.com/sergevak/m20sim/m20cpu"
	"github.com/sergevak/m20sim/stop"
)

type breakpointList []uint32

func (b *breakpointList) String() string {
	parts := make([]string, len(*b))
	for i, a := range *b {
		parts[i] = strconv.FormatUint(uint64(a), 8)
	}
	return strings.Join(parts, ",")
}

func (b *breakpointList) Set(s string) error {
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return fmt.Errorf("bad breakpoint address %q: %w", s, err)
	}
	*b = append(*b, uint32(v))
	return nil
}

var (
	verbose    = flag.Bool("v", false, "Verbose output")
	trace      = flag.Bool("trace", false, "Per-instruction disassembly trace on stderr")
	drumPath   = flag.String("drum", "", "Drum backing file (overrides M20_DRUM)")
	configPath = flag.String("config", "", "Path to machine configuration JSON file")
	rpu1       = flag.Uint64("rpu1", 0, "Console switch register RPU1")
	rpu2       = flag.Uint64("rpu2", 0, "Console switch register RPU2")
	rpu3       = flag.Uint64("rpu3", 0, "Console switch register RPU3")
	rpu4       = flag.Uint64("rpu4", 0, "Console switch register RPU4")
	breaks     breakpointList
)

func main() {
	flag.Var(&breaks, "break", "Breakpoint address (octal), repeatable")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: m20sim [options] <image-file>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	imagePath := flag.Arg(0)

	cfg := config.DefaultMachineConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading machine config: %v\n", err)
			os.Exit(1)
		}
	}
	if *drumPath != "" {
		cfg.DrumPath = *drumPath
	}
	if *trace {
		cfg.Trace = true
	}
	cfg.Breakpoints = append(cfg.Breakpoints, breaks...)

	os.Exit(run(imagePath, cfg))
}

func run(imagePath string, cfg *config.MachineConfig) int {
	drumFile, err := cfg.ResolveDrumPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving drum path: %v\n", err)
		return 1
	}
	dev, err := drum.Open(drumFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening drum file %s: %v\n", drumFile, err)
		return 1
	}
	defer dev.Close()

	emulator := m20cpu.NewEmulator(
		m20cpu.WithDrum(dev),
		m20cpu.WithTrace(cfg.Trace),
		m20cpu.WithBreakpoints(cfg.Breakpoints),
		m20cpu.WithConsoleSwitches(*rpu1, *rpu2, *rpu3, *rpu4),
	)

	prog, err := image.Load(imagePath, emulator.Memory())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading image: %v\n", err)
		return 1
	}
	if prog.HasStartAddr {
		emulator.Regs().RVK = prog.StartAddr
	}

	if *verbose {
		fmt.Printf("Loaded: %s\n", imagePath)
		if prog.HasStartAddr {
			fmt.Printf("Start address: %04o\n", prog.StartAddr)
		}
		if syms := prog.Symbols(); len(syms) > 0 {
			fmt.Printf("Symbols:\n")
			for _, s := range syms {
				fmt.Printf("  %-16s %04o %c\n", s.Name, s.Addr, s.Kind)
			}
		}
	}

	result := emulator.Run()

	if *verbose {
		fmt.Printf("\nImage: %s\n", imagePath)
		fmt.Printf("Stop: %v (PC=%04o)\n", result.Code, result.PC)
		fmt.Printf("Instructions executed: %d\n", emulator.InstructionCount())
		fmt.Printf("Simulated microseconds: %.1f\n", emulator.Microseconds())
	}

	if result.Code == stop.CleanHalt {
		return 0
	}
	return int(result.Code)
}

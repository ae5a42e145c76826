// Package m20cpu ties word, arith, mem, insts, gost, extio and drum
// together into the M-20's fetch-decode-execute loop: the 64-entry opcode
// dispatcher, timing accumulation, and an Emulator driving loop modeled on
// the teacher's functional-options Emulator/Step/Run (emu/emulator.go),
// with opcode semantics transcribed from
// original_source/trunk/simh/m20_cpu.c's cpu_one_inst.
package m20cpu

import (
	"fmt"
	"io"
	"os"

	"github.com/sergevak/m20sim/arith"
	"github.com/sergevak/m20sim/drum"
	"github.com/sergevak/m20sim/extio"
	"github.com/sergevak/m20sim/insts"
	"github.com/sergevak/m20sim/mem"
	"github.com/sergevak/m20sim/stop"
	"github.com/sergevak/m20sim/word"
)

// StepResult reports the outcome of a single fetch-execute cycle.
type StepResult struct {
	// Code is stop.None when the instruction completed and the run may
	// continue, or the reason execution stopped otherwise.
	Code stop.Code
	// PC is the RVK the stopped or halted instruction was fetched from.
	PC uint32
}

// Halted reports whether Code ends the run loop.
func (r StepResult) Halted() bool {
	return r.Code.Fatal()
}

// Emulator holds the M-20's architectural state and the units that mutate
// it: memory, register file, arithmetic unit, external I/O controller and
// drum device.
type Emulator struct {
	memory *mem.Memory
	regs   *mem.RegFile
	alu    *arith.Unit
	io     *extio.Controller
	drum   *drum.Device

	stdout io.Writer
	stderr io.Writer

	trace       bool
	breakpoints map[uint32]bool

	instructionCount uint64
	maxInstructions  uint64
	microseconds     float64
}

// EmulatorOption configures an Emulator at construction time.
type EmulatorOption func(*Emulator)

// WithStdout sets the writer opcode 070's print paths write to.
func WithStdout(w io.Writer) EmulatorOption {
	return func(e *Emulator) { e.stdout = w }
}

// WithStderr sets the writer trace/diagnostic output goes to.
func WithStderr(w io.Writer) EmulatorOption {
	return func(e *Emulator) { e.stderr = w }
}

// WithDrum attaches a drum device. Without this option, an opcode 070
// executing a drum request fails with stop.WrErr.
func WithDrum(d *drum.Device) EmulatorOption {
	return func(e *Emulator) { e.drum = d }
}

// WithMemory replaces the emulator's memory, e.g. with one an image file
// has already been loaded into.
func WithMemory(m *mem.Memory) EmulatorOption {
	return func(e *Emulator) { e.memory = m }
}

// WithTrace enables a one-line-per-instruction disassembly trace on stderr.
func WithTrace(enabled bool) EmulatorOption {
	return func(e *Emulator) { e.trace = enabled }
}

// WithMaxInstructions bounds the run loop; zero (the default) means no
// limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) { e.maxInstructions = max }
}

// WithBreakpoints halts the run loop with stop.Breakpoint just before
// fetching an instruction at one of the given addresses.
func WithBreakpoints(addrs []uint32) EmulatorOption {
	return func(e *Emulator) {
		for _, a := range addrs {
			e.breakpoints[a] = true
		}
	}
}

// WithConsoleSwitches seeds the four read-only RPU1..RPU4 registers
// opcode 020 reads from.
func WithConsoleSwitches(rpu1, rpu2, rpu3, rpu4 word.Word) EmulatorOption {
	return func(e *Emulator) {
		e.regs.RPU1, e.regs.RPU2, e.regs.RPU3, e.regs.RPU4 = rpu1, rpu2, rpu3, rpu4
	}
}

// NewEmulator creates an emulator with an empty memory and register file.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		memory:      mem.New(),
		regs:        mem.NewRegFile(),
		alu:         arith.New(),
		io:          extio.NewController(),
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		breakpoints: make(map[uint32]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Memory exposes the emulator's memory.
func (e *Emulator) Memory() *mem.Memory { return e.memory }

// Regs exposes the emulator's register file.
func (e *Emulator) Regs() *mem.RegFile { return e.regs }

// InstructionCount returns the number of instructions executed so far.
func (e *Emulator) InstructionCount() uint64 { return e.instructionCount }

// Microseconds returns the accumulated simulated execution time, summed
// from each opcode's fixed or operand-dependent delay (spec.md §4.4's
// per-opcode timing table, transcribed from cpu_one_inst's "delay +=").
func (e *Emulator) Microseconds() float64 { return e.microseconds }

// load reads mem[addr], translating an unwritten non-zero read into a
// fatal stop per spec.md §3's memory-safety invariant.
func (e *Emulator) load(addr uint32) (word.Word, stop.Code) {
	w, ok := e.memory.Load(addr)
	if !ok {
		return 0, stop.UnwrittenRead
	}
	return w, stop.None
}

func (e *Emulator) store(addr uint32, w word.Word) {
	e.memory.Store(addr, w)
}

// Step fetches, decodes and executes one instruction.
func (e *Emulator) Step() StepResult {
	pc := e.regs.RVK
	if pc >= mem.Size {
		return StepResult{Code: stop.Runout, PC: pc}
	}
	if e.breakpoints[pc] {
		delete(e.breakpoints, pc)
		return StepResult{Code: stop.Breakpoint, PC: pc}
	}
	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return StepResult{Code: stop.Runout, PC: pc}
	}

	rk, code := e.load(pc)
	if code != stop.None {
		return StepResult{Code: code, PC: pc}
	}
	e.regs.RVK = pc + 1
	e.regs.RK = rk

	in := insts.Decode(rk)
	in.ApplyDisplacement(e.regs.RA)

	if e.trace {
		fmt.Fprintf(e.stderr, "%04o: %s\n", pc, insts.Disassemble(rk))
	}

	code = e.dispatch(in)
	e.instructionCount++
	if in.Opcode != 0o050 {
		e.io.Disarm()
	}
	if code != stop.None {
		return StepResult{Code: code, PC: pc}
	}
	return StepResult{Code: stop.None, PC: pc}
}

// Run executes instructions until a fatal stop code is produced.
func (e *Emulator) Run() StepResult {
	for {
		r := e.Step()
		if r.Halted() {
			return r
		}
	}
}

// Package extio drives the M-20's two-phase external I/O handshake: opcode
// 050 (MA) arms a request by validating and latching a condition word,
// opcode 070 (MB) executes it against whichever device the condition word
// names (spec.md §4.7, grounded on
// original_source/trunk/simh/m20_cpu.c's ext_setup/ext_io).
package extio

import (
	"io"

	akitacache "github.com/sarchlab/akita/v4/mem/cache"

	"github.com/sergevak/m20sim/drum"
	"github.com/sergevak/m20sim/mem"
	"github.com/sergevak/m20sim/printfmt"
	"github.com/sergevak/m20sim/stop"
	"github.com/sergevak/m20sim/word"
)

// Condition word bits (spec.md §4.7), named after the original register's
// Russian abbreviations: БМ (disable RAM), БК (disable check), ОН (tape
// reverse), БО (disable stop-on-error), Пф (punch), Пч (print), РЛ (tape
// format), Л (tape), Б (drum), Зп (write), номер (unit number, 2 bits).
const (
	DisRAM     = 0o4000
	DisCheck   = 0o2000
	TapeRev    = 0o1000
	DisStop    = 0o0400
	Punch      = 0o0200
	Print      = 0o0100
	TapeFormat = 0o0040
	Tape       = 0o0020
	Drum       = 0o0010
	Write      = 0o0004
	Unit       = 0o0003
)

// Controller holds the latched state of a 050/070 handshake: the cleaned
// condition word, the disk address from 050's a2, and the RAM end address
// from 050's a3. 070 supplies the RAM start address itself, because (per
// the original machine) only the end address is latched at setup time.
//
// The armed/disarmed bit itself is tracked through a one-entry Akita cache
// directory rather than a sentinel value, the same Directory/Block
// primitives the teacher's timing/cache package uses to track a line's
// valid bit: Setup "fills" the single block, Disarm invalidates it.
type Controller struct {
	cond      uint32
	diskAddr  uint32
	ramFinish uint32

	latch *akitacache.DirectoryImpl
}

// NewController creates a disarmed controller.
func NewController() *Controller {
	return &Controller{
		latch: akitacache.NewDirectory(1, 1, 1, akitacache.NewLRUVictimFinder()),
	}
}

// Armed reports whether a 050 has latched a request that 070 can execute.
func (c *Controller) Armed() bool {
	b := c.latch.Lookup(0, 0)
	return b != nil && b.IsValid
}

// Disarm invalidates the latch. The CPU calls this after every instruction
// except 050, matching the original's unconditional "ext_op = 07777" at the
// bottom of the dispatch loop.
func (c *Controller) Disarm() {
	b := c.latch.Lookup(0, 0)
	if b != nil {
		b.IsValid = false
	}
}

// Write reports whether the armed request is a write (to drum or tape).
func (c *Controller) Write() bool { return c.cond&Write != 0 }

// DisCheck reports whether checksum verification is suppressed.
func (c *Controller) DisCheck() bool { return c.cond&DisCheck != 0 }

// DisStop reports whether a recoverable read error should reroute RVK
// (via a2) instead of halting.
func (c *Controller) DisStop() bool { return c.cond&DisStop != 0 }

// Setup validates and latches a 050 instruction's operands, cleaning up
// mutually-irrelevant bit combinations exactly as the original ext_setup
// does. It rejects the drum combined with any other device bit, tape
// combined with punch, print or tape-format, and tape-format without print
// combined with punch or disable-check. Print combined with tape-format is
// accepted and selects text printing; print combined with punch is not
// rejected either, and Execute then treats the request as a print.
func (c *Controller) Setup(a1, a2, a3 uint32) stop.Code {
	cond := a1

	if cond&Write != 0 {
		cond &^= DisStop
	}
	if cond&Drum != 0 {
		cond &^= TapeRev
		if cond&(Punch|Print|TapeFormat|Tape) != 0 {
			return stop.DrumInval
		}
	}
	if cond&Tape != 0 {
		if cond&(Punch|Print|TapeFormat) != 0 {
			return stop.TapeInval
		}
	}
	if cond&Print != 0 {
		cond &^= Write | TapeRev
	} else if cond&TapeFormat != 0 {
		cond &^= Write | DisStop | TapeRev
		if cond&(Punch|Print|DisCheck) != 0 {
			return stop.TapeFmtInval
		}
	}
	if cond&Punch != 0 {
		cond &^= Write | DisStop | TapeRev
	}

	c.cond = cond
	c.diskAddr = a2
	c.ramFinish = a3

	victim := c.latch.FindVictim(0)
	victim.Tag = 0
	victim.IsValid = true
	c.latch.Visit(victim)
	return stop.None
}

// Execute performs the armed request, using ramStart (070's a1) as the
// starting memory address and the controller's latched ramFinish as the
// ending one. It returns the cyclic-add checksum for a drum transfer (the
// caller may deposit this at 070's a3), or zero for every other device.
func (c *Controller) Execute(ramStart uint32, m *mem.Memory, dev *drum.Device, out io.Writer) (word.Word, stop.Code) {
	switch {
	case c.cond&Drum != 0:
		return c.executeDrum(ramStart, m, dev)
	case c.cond&Tape != 0:
		return 0, stop.TapeUnsupp
	case c.cond&Print != 0:
		return 0, c.executePrint(ramStart, m, out)
	case c.cond&Punch != 0:
		return 0, stop.PunchUnsupp
	case c.cond&TapeFormat != 0:
		return 0, stop.TapeFmtUnsupp
	default:
		return 0, stop.ExtInval
	}
}

func (c *Controller) executeDrum(ramStart uint32, m *mem.Memory, dev *drum.Device) (word.Word, stop.Code) {
	if dev == nil {
		return 0, stop.WrErr
	}
	addr := uint32(c.cond&Unit)<<12 | c.diskAddr
	checked := c.cond&DisCheck == 0
	if c.cond&Write != 0 {
		return dev.Write(addr, ramStart, c.ramFinish, checked, m)
	}
	return dev.Read(addr, ramStart, c.ramFinish, checked, m)
}

func (c *Controller) executePrint(ramStart uint32, m *mem.Memory, out io.Writer) stop.Code {
	switch {
	case c.cond&DisStop != 0:
		return printfmt.Octal(out, m, ramStart, c.ramFinish)
	case c.cond&TapeFormat != 0:
		return printfmt.Text(out, m, ramStart, c.ramFinish)
	default:
		return printfmt.Decimal(out, m, ramStart, c.ramFinish)
	}
}

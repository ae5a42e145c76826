// Package stop enumerates the reasons the simulator halts the fetch-execute
// loop: normal program stops, decode/argument errors, arithmetic overflow,
// and the external I/O and drum device error codes (spec.md §4.4, §4.6,
// §4.7, §7). It gives every package in the simulator one shared vocabulary
// for "why did we stop", instead of each layer inventing its own error type.
package stop

// Code is a simulator stop reason. The zero value means "still running".
type Code int

const (
	// None means the instruction completed normally.
	None Code = iota

	// Stop is a normal halt requested by opcode 077 with non-zero operands.
	Stop
	// CleanHalt is opcode 077 with a1==a2==0, the operator "off" switch.
	CleanHalt
	// Breakpoint is a halt raised by the CLI's -break address list, not the
	// program itself.
	Breakpoint

	// Runout means RVK advanced past the end of addressable memory.
	Runout
	// BadCmd means an opcode with no defined instruction was fetched.
	BadCmd
	// Assert is opcode 035's "compare and halt if unequal" outcome.
	Assert
	// InvArg covers a decoded instruction with an operand combination the
	// opcode does not allow (opcode 020 with a1 outside 0..5).
	InvArg
	// UnwrittenRead is a load from a non-zero address the program has
	// never stored to.
	UnwrittenRead

	// AddOverflow..SqrtError mirror arith.StopCode; the CPU package
	// translates arithmetic-unit errors into this shared taxonomy so a
	// trace log and a CLI exit code only need to understand one enum.
	AddOverflow
	ExpOverflow
	MulOverflow
	DivOverflow
	DivModOverflow
	NegSqrt
	SqrtError

	// MBInval is opcode 070 (MB) issued without a prior armed 050 (MA).
	MBInval
	// ExtInval is opcode 070 (MB) executing a condition word that selects
	// no device.
	ExtInval
	// DrumInval is opcode 050 with the drum bit set alongside a
	// tape/print/punch bit.
	DrumInval
	// TapeInval is the tape-device equivalent of DrumInval.
	TapeInval
	// TapeFmtInval is an invalid combination involving the tape-format bit.
	TapeFmtInval
	// DrumInvData is a read from a drum region that was never written.
	DrumInvData
	// ReadErr is a drum checksum mismatch on read.
	ReadErr
	// WrErr is a failure of the drum backing store: a file read or write
	// error, or no drum attached.
	WrErr
	// BadRLen is a drum read request outside the device's addressable range.
	BadRLen
	// BadWLen is a drum write request outside the device's addressable range.
	BadWLen

	// TapeUnsupp, TapeFmtUnsupp, PunchUnsupp and RPunchUnsupp mark
	// peripherals the simulator recognizes in the condition word but does
	// not implement.
	TapeUnsupp
	TapeFmtUnsupp
	PunchUnsupp
	RPunchUnsupp
)

var names = map[Code]string{
	None:         "ok",
	Stop:         "stop",
	CleanHalt:    "clean halt",
	Breakpoint:   "breakpoint",
	Runout:       "runout",
	BadCmd:       "bad command",
	Assert:       "assert failed",
	InvArg:       "invalid argument",
	UnwrittenRead: "read of unwritten memory",
	AddOverflow:  "addition overflow",
	ExpOverflow:  "exponent overflow",
	MulOverflow:  "multiplication overflow",
	DivOverflow:  "division overflow",
	DivModOverflow: "division mantissa overflow",
	NegSqrt:      "square root of negative number",
	SqrtError:    "square root result overflow",
	MBInval:      "MB without armed MA",
	ExtInval:     "invalid external device condition word",
	DrumInval:    "invalid drum condition combination",
	TapeInval:    "invalid tape condition combination",
	TapeFmtInval: "invalid tape-format condition combination",
	DrumInvData:  "read of uninitialized drum region",
	ReadErr:      "drum checksum mismatch",
	WrErr:        "drum I/O failure",
	BadRLen:      "drum read out of range",
	BadWLen:      "drum write out of range",
	TapeUnsupp:   "tape device not implemented",
	TapeFmtUnsupp: "tape format device not implemented",
	PunchUnsupp:  "punch device not implemented",
	RPunchUnsupp: "punched card reader not implemented",
}

func (c Code) Error() string {
	if s, ok := names[c]; ok {
		return s
	}
	return "unknown stop code"
}

// Fatal reports whether c should end the run loop. None is the only
// non-fatal code; every other code, Breakpoint included, ends the run. A
// breakpoint is removed when it fires, so calling Run again resumes past it.
func (c Code) Fatal() bool {
	return c != None
}

// Halt reports whether c is one of the two operator-halt codes, as opposed
// to an error.
func (c Code) Halt() bool {
	return c == Stop || c == CleanHalt
}

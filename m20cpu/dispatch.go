package m20cpu

import (
	"github.com/sergevak/m20sim/arith"
	"github.com/sergevak/m20sim/insts"
	"github.com/sergevak/m20sim/stop"
	"github.com/sergevak/m20sim/word"
)

// dispatch executes one decoded instruction against the emulator's state,
// transcribed opcode-by-opcode from cpu_one_inst in
// original_source/trunk/simh/m20_cpu.c. Address-register displacement has
// already been applied to in's fields by the caller.
func (e *Emulator) dispatch(in insts.Instruction) stop.Code {
	a1, a2, a3 := in.A1, in.A2, in.A3

	switch in.Opcode {

	case 0o000: // move
		x, sc := e.load(a1)
		if sc != stop.None {
			return sc
		}
		e.regs.RR = x
		e.store(a3, x)
		e.microseconds += 24

	case 0o020: // read console switches
		switch a1 {
		case 0, 1, 2, 3, 4:
			e.regs.RR = e.regs.ConsoleSwitch(a1)
		case 5:
			// RR unchanged
		default:
			return stop.InvArg
		}
		e.store(a3, e.regs.RR)
		e.microseconds += 24

	case 0o015, 0o035: // bitwise compare (xor), optionally halting on mismatch
		x, sc := e.load(a1)
		if sc != stop.None {
			return sc
		}
		y, sc := e.load(a2)
		if sc != stop.None {
			return sc
		}
		e.regs.RR = x ^ y
		e.store(a3, e.regs.RR)
		e.regs.W = e.regs.RR == 0
		e.microseconds += 24
		if in.Opcode == 0o035 && !e.regs.W {
			return stop.Assert
		}

	case 0o055: // bitwise and
		x, sc := e.load(a1)
		if sc != stop.None {
			return sc
		}
		y, sc := e.load(a2)
		if sc != stop.None {
			return sc
		}
		e.regs.RR = x & y
		e.store(a3, e.regs.RR)
		e.regs.W = e.regs.RR == 0
		e.microseconds += 24

	case 0o075: // bitwise or
		x, sc := e.load(a1)
		if sc != stop.None {
			return sc
		}
		y, sc := e.load(a2)
		if sc != stop.None {
			return sc
		}
		e.regs.RR = x | y
		e.store(a3, e.regs.RR)
		e.regs.W = e.regs.RR == 0
		e.microseconds += 24

	case 0o013, 0o033: // add/subtract mantissas (command arithmetic)
		x, sc := e.load(a1)
		if sc != stop.None {
			return sc
		}
		y, sc := e.load(a2)
		if sc != stop.None {
			return sc
		}
		var result word.Word
		var carry bool
		if in.Opcode == 0o013 {
			result, carry = arith.AddMantissaCarry(x, y)
		} else {
			result, carry = arith.SubMantissaCarry(x, y)
		}
		e.regs.RR = result
		e.store(a3, result)
		e.regs.W = carry
		e.microseconds += 24

	case 0o053, 0o073: // add/subtract opcodes (non-mantissa halves)
		x, sc := e.load(a1)
		if sc != stop.None {
			return sc
		}
		y, sc := e.load(a2)
		if sc != stop.None {
			return sc
		}
		var result word.Word
		var carry bool
		if in.Opcode == 0o053 {
			result, carry = arith.AddNonMantissaCarry(x, y)
		} else {
			result, carry = arith.SubNonMantissaCarry(x, y)
		}
		e.regs.RR = result
		e.store(a3, result)
		e.regs.W = carry
		e.microseconds += 24

	case 0o014, 0o034: // mantissa shift, by address / by number's exponent
		var n int
		if in.Opcode == 0o014 {
			n = int(a1&0o177) - 64
			e.microseconds += 61.5 + 1.5*absInt(n)
		} else {
			x, sc := e.load(a1)
			if sc != stop.None {
				return sc
			}
			n = word.StoredExponent(x) - 64
			e.microseconds += 24 + 1.5*absInt(n)
		}
		y, sc := e.load(a2)
		if sc != stop.None {
			return sc
		}
		r := y &^ word.Mantissa
		switch {
		case n > 0:
			r |= (y & word.Mantissa) << uint(n)
		case n < 0:
			r |= (y & word.Mantissa) >> uint(-n)
		}
		e.regs.RR = r
		e.store(a3, r)
		e.regs.W = word.MantissaOf(r) == 0

	case 0o054, 0o074: // full-word shift, by address / by number's exponent
		var n int
		if in.Opcode == 0o054 {
			n = int(a1&0o177) - 64
			e.microseconds += 61.5 + 1.5*absInt(n)
		} else {
			x, sc := e.load(a1)
			if sc != stop.None {
				return sc
			}
			n = word.StoredExponent(x) - 64
			e.microseconds += 24 + 1.5*absInt(n)
		}
		r, sc := e.load(a2)
		if sc != stop.None {
			return sc
		}
		switch {
		case n > 0:
			r = (r << uint(n)) & word.All
		case n < 0:
			r >>= uint(-n)
		}
		e.regs.RR = r
		e.store(a3, r)
		e.regs.W = r == 0

	case 0o007, 0o027: // cyclic add/subtract (drum checksum primitive)
		x, sc := e.load(a1)
		if sc != stop.None {
			return sc
		}
		y, sc := e.load(a2)
		if sc != stop.None {
			return sc
		}
		var result word.Word
		var carry bool
		if in.Opcode == 0o007 {
			result, carry = arith.CyclicAdd(x, y)
		} else {
			result, carry = arith.CyclicSub(x, y)
		}
		e.regs.RR = result
		e.store(a3, result)
		e.regs.W = carry
		e.microseconds += 24

	case 0o067: // cyclic swap of the two 21-bit halves
		x, sc := e.load(a1)
		if sc != stop.None {
			return sc
		}
		e.regs.RR = arith.CyclicSwap(x)
		e.store(a3, e.regs.RR)
		e.microseconds += 60

	case 0o016: // call with return: save caller's a1 at a3, jump to a2
		e.regs.RR = word.Word(0o16)<<36 | word.Word(a1)<<12
		e.store(a3, e.regs.RR)
		e.regs.RVK = a2
		e.microseconds += 24

	case 0o036: // branch if Ω=1
		x, sc := e.load(a1)
		if sc != stop.None {
			return sc
		}
		e.regs.RR = x
		e.store(a3, x)
		if e.regs.W {
			e.regs.RVK = a2
		}
		e.microseconds += 24

	case 0o056: // unconditional branch
		x, sc := e.load(a1)
		if sc != stop.None {
			return sc
		}
		e.regs.RR = x
		e.store(a3, x)
		e.regs.RVK = a2
		e.microseconds += 24

	case 0o076: // branch if Ω=0
		x, sc := e.load(a1)
		if sc != stop.None {
			return sc
		}
		e.regs.RR = x
		e.store(a3, x)
		if !e.regs.W {
			e.regs.RVK = a2
		}
		e.microseconds += 24

	case 0o077: // halt
		e.regs.RR = 0
		e.store(a3, 0)
		e.microseconds += 24
		if a1 == 0 && a2 == 0 {
			return stop.CleanHalt
		}
		return stop.Stop

	case 0o011, 0o031, 0o051, 0o071: // branch on RA comparison, gated by Ω
		cond := false
		switch in.Opcode {
		case 0o011:
			cond = e.regs.RA < a1 && e.regs.W
		case 0o031:
			cond = e.regs.RA >= a1 && e.regs.W
		case 0o051:
			cond = e.regs.RA < a1 && !e.regs.W
		case 0o071:
			cond = e.regs.RA >= a1 && !e.regs.W
		}
		if cond {
			e.regs.RVK = a2
		}
		e.regs.RA = a3
		e.microseconds += 24

	case 0o012, 0o032: // branch on RA comparison, unconditional on Ω
		cond := false
		if in.Opcode == 0o012 {
			cond = e.regs.RA < a1
		} else {
			cond = e.regs.RA >= a1
		}
		if cond {
			e.regs.RVK = a2
		}
		e.regs.RA = a3
		e.microseconds += 24

	case 0o052: // set RA from an address field
		e.regs.RR = word.Word(0o52)<<36 | word.Word(a1)<<12
		e.store(a3, e.regs.RR)
		e.regs.RA = a2
		e.microseconds += 24

	case 0o072: // set RA from a memory word's saved a1 (see opcode 016)
		e.regs.RR = word.Word(0o52)<<36 | word.Word(a1)<<12
		e.store(a3, e.regs.RR)
		y, sc := e.load(a2)
		if sc != stop.None {
			return sc
		}
		e.regs.RA = word.Mask12(uint64(y >> 12))
		e.microseconds += 24

	case 0o010, 0o030: // punch card input: not implemented
		return stop.RPunchUnsupp

	case 0o050: // arm external I/O
		sc := e.io.Setup(a1, a2, a3)
		if sc != stop.None {
			return sc
		}
		e.microseconds += 24

	case 0o070: // execute external I/O
		if !e.io.Armed() {
			return stop.MBInval
		}
		rr, sc := e.io.Execute(a1, e.memory, e.drum, e.stdout)
		if sc != stop.None {
			if sc != stop.ReadErr || !e.io.DisStop() {
				return sc
			}
			if a2 != 0 {
				e.regs.RVK = a2
			}
		}
		e.regs.RR = rr
		if e.io.Write() && !e.io.DisCheck() {
			e.store(a3, rr)
		}
		e.microseconds += 24

	case 0o001, 0o021, 0o041, 0o061: // add, with round/norm suppressor bits
		x, sc := e.load(a1)
		if sc != stop.None {
			return sc
		}
		y, sc := e.load(a2)
		if sc != stop.None {
			return sc
		}
		fam := insts.DecodeFamily(in.Opcode)
		r, ec := e.alu.Addition(x, y, fam.NoRound, fam.NoNorm)
		if ec != arith.StopNone {
			return arithStop(ec)
		}
		e.regs.RR = r
		e.store(a3, r)
		e.regs.W = word.IsNegative(r)
		e.microseconds += 29.5

	case 0o002, 0o022, 0o042, 0o062: // subtract
		x, sc := e.load(a1)
		if sc != stop.None {
			return sc
		}
		y, sc := e.load(a2)
		if sc != stop.None {
			return sc
		}
		fam := insts.DecodeFamily(in.Opcode)
		r, ec := e.alu.Subtraction(x, y, fam.NoRound, fam.NoNorm)
		if ec != arith.StopNone {
			return arithStop(ec)
		}
		e.regs.RR = r
		e.store(a3, r)
		e.regs.W = word.IsNegative(r)
		e.microseconds += 29.5

	case 0o003, 0o023, 0o043, 0o063: // subtract moduli
		x, sc := e.load(a1)
		if sc != stop.None {
			return sc
		}
		y, sc := e.load(a2)
		if sc != stop.None {
			return sc
		}
		fam := insts.DecodeFamily(in.Opcode)
		r, ec := e.alu.SubtractionModuli(x, y, fam.NoRound, fam.NoNorm)
		if ec != arith.StopNone {
			return arithStop(ec)
		}
		e.regs.RR = r
		e.store(a3, r)
		e.regs.W = word.IsNegative(r)
		e.microseconds += 29.5

	case 0o005, 0o025, 0o045, 0o065: // multiply
		x, sc := e.load(a1)
		if sc != stop.None {
			return sc
		}
		y, sc := e.load(a2)
		if sc != stop.None {
			return sc
		}
		fam := insts.DecodeFamily(in.Opcode)
		r, rmr, ec := e.alu.Multiplication(x, y, fam.NoRound, fam.NoNorm)
		if ec != arith.StopNone {
			return arithStop(ec)
		}
		e.regs.RMR = rmr
		e.regs.RR = r
		e.store(a3, r)
		e.regs.W = word.StoredExponent(r) > 0o100
		e.microseconds += 70

	case 0o004, 0o024: // divide
		x, sc := e.load(a1)
		if sc != stop.None {
			return sc
		}
		y, sc := e.load(a2)
		if sc != stop.None {
			return sc
		}
		noRound := in.Opcode>>4&1 != 0
		r, ec := e.alu.Division(x, y, noRound)
		if ec != arith.StopNone {
			return arithStop(ec)
		}
		e.regs.RR = r
		e.store(a3, r)
		e.regs.W = word.StoredExponent(r) > 0o100
		e.microseconds += 136

	case 0o044, 0o064: // square root
		x, sc := e.load(a1)
		if sc != stop.None {
			return sc
		}
		noRound := in.Opcode>>4&1 != 0
		r, ec := e.alu.SquareRoot(x, noRound)
		if ec != arith.StopNone {
			return arithStop(ec)
		}
		e.regs.RR = r
		e.store(a3, r)
		e.regs.W = word.StoredExponent(r) > 0o100
		e.microseconds += 275

	case 0o047: // yield the low-order bits of the last product
		e.regs.RR = e.regs.RMR
		e.store(a3, e.regs.RR)
		e.regs.W = word.MantissaOf(e.regs.RR) == 0
		e.microseconds += 24

	case 0o006: // adjust exponent by an address-encoded amount
		n := int(a1&0o177) - 64
		y, sc := e.load(a2)
		if sc != stop.None {
			return sc
		}
		return e.addExponent(y, n, a3)

	case 0o026: // add a number's own exponent to itself (a1 unused)
		x, sc := e.load(a2)
		if sc != stop.None {
			return sc
		}
		n := word.StoredExponent(x) - 64
		return e.addExponent(x, n, a3)

	case 0o046: // subtract an address-encoded amount from the exponent
		n := 64 - int(a1&0o177)
		y, sc := e.load(a2)
		if sc != stop.None {
			return sc
		}
		return e.addExponent(y, n, a3)

	case 0o066: // subtract a number's own exponent from itself (a1 unused)
		x, sc := e.load(a2)
		if sc != stop.None {
			return sc
		}
		n := 64 - word.StoredExponent(x)
		return e.addExponent(x, n, a3)

	default:
		return stop.BadCmd
	}

	return stop.None
}

func (e *Emulator) addExponent(y word.Word, n int, a3 uint32) stop.Code {
	r, ec := e.alu.AddExponent(y, n)
	if ec != arith.StopNone {
		return arithStop(ec)
	}
	e.regs.RR = r
	e.store(a3, r)
	e.regs.W = word.StoredExponent(r) > 0o100
	e.microseconds += 61.5
	return stop.None
}

func absInt(n int) float64 {
	if n < 0 {
		return float64(-n)
	}
	return float64(n)
}

// arithStop translates an arith.StopCode into the simulator-wide taxonomy.
func arithStop(ec arith.StopCode) stop.Code {
	switch ec {
	case arith.StopAddOverflow:
		return stop.AddOverflow
	case arith.StopExpOverflow:
		return stop.ExpOverflow
	case arith.StopMulOverflow:
		return stop.MulOverflow
	case arith.StopDivOverflow:
		return stop.DivOverflow
	case arith.StopDivModOverflow:
		return stop.DivModOverflow
	case arith.StopNegSqrt:
		return stop.NegSqrt
	case arith.StopSqrtError:
		return stop.SqrtError
	default:
		return stop.None
	}
}

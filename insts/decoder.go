// Package insts decodes M-20 instruction words into their (ra-flags,
// opcode, a1, a2, a3) fields and provides the opcode family metadata the
// dispatcher needs (spec.md §3, §4.4).
package insts

import (
	"fmt"

	"github.com/sergevak/m20sim/word"
)

// Instruction is a decoded M-20 command word. Its address fields hold the
// raw values until ApplyDisplacement adds RA to them.
type Instruction struct {
	Word word.Word

	RAFlags uint8
	Opcode  uint8
	A1      uint32
	A2      uint32
	A3      uint32
}

// Decode splits rk into its raw fields. Address-register displacement is
// not applied here; call ApplyDisplacement with the current RA.
func Decode(rk word.Word) Instruction {
	return Instruction{
		Word:    rk,
		RAFlags: word.RAFlags(rk),
		Opcode:  word.Opcode(rk),
		A1:      word.A1(rk),
		A2:      word.A2(rk),
		A3:      word.A3(rk),
	}
}

// ApplyDisplacement adds ra to any address whose corresponding ra-flag bit
// is set, mod 4096 (spec.md §4.4). Bit 4 (value 4) gates a1, bit 2 gates
// a2, bit 1 gates a3.
func (in *Instruction) ApplyDisplacement(ra uint32) {
	if in.RAFlags&4 != 0 {
		in.A1 = (in.A1 + ra) & 0o7777
	}
	if in.RAFlags&2 != 0 {
		in.A2 = (in.A2 + ra) & 0o7777
	}
	if in.RAFlags&1 != 0 {
		in.A3 = (in.A3 + ra) & 0o7777
	}
}

// Family groups an opcode's common base with the round/norm suppressor
// bits encoded in opcode bits 4 and 5, per spec.md §4.4/§4.5.
type Family struct {
	Base    uint8
	NoRound bool
	NoNorm  bool
}

// DecodeFamily extracts the (base, no-round, no-norm) triple a base opcode
// shares with its 021/041/061-style variants. The base opcodes the M-20
// defines this way are 001, 002, 003, 005 (round+norm pair), and 004, 044
// (round-only pair).
func DecodeFamily(opcode uint8) Family {
	return Family{
		Base:    opcode &^ 0o060,
		NoRound: opcode>>4&1 != 0,
		NoNorm:  opcode>>5&1 != 0,
	}
}

// Disassemble renders a decoded instruction as "OPCODE a1,a2,a3[,flags]"
// text, the minimal formatter the CLI's trace mode needs. This is not the
// full disassembler (an out-of-scope external collaborator per spec.md
// §1); it exists only to make a trace log readable.
func Disassemble(rk word.Word) string {
	in := Decode(rk)
	name, ok := mnemonics[in.Opcode]
	if !ok {
		name = fmt.Sprintf("OP%02o", in.Opcode)
	}
	if in.RAFlags == 0 {
		return fmt.Sprintf("%s %04o,%04o,%04o", name, in.A1, in.A2, in.A3)
	}
	return fmt.Sprintf("%s %04o,%04o,%04o,ra=%o", name, in.A1, in.A2, in.A3, in.RAFlags)
}

var mnemonics = map[uint8]string{
	0o000: "ПБ",  // move
	0o020: "СЧП", // read console switches
	0o001: "СЛ", 0o021: "СЛ", 0o041: "СЛ", 0o061: "СЛ", // add
	0o002: "ВЧ", 0o022: "ВЧ", 0o042: "ВЧ", 0o062: "ВЧ", // subtract
	0o003: "ВЧМ", 0o023: "ВЧМ", 0o043: "ВЧМ", 0o063: "ВЧМ", // subtract moduli
	0o004: "ДЕЛ", 0o024: "ДЕЛ", // divide
	0o005: "УМН", 0o025: "УМН", 0o045: "УМН", 0o065: "УМН", // multiply
	0o044: "КОР", 0o064: "КОР", // square root
	0o047: "МР",  // move RMR
	0o006: "СЛПА", 0o026: "СЛПП", 0o046: "ВЧПА", 0o066: "ВЧПП", // exponent adjust
	0o013: "СЛК", 0o033: "ВЧК", // add/sub mantissa
	0o053: "СЛКО", 0o073: "ВЧКО", // add/sub non-mantissa
	0o014: "СДВА", 0o034: "СДВП", 0o054: "СДА", 0o074: "СДП", // shifts
	0o015: "РС", 0o035: "РСО", // xor (compare), xor-assert
	0o055: "И",  // and
	0o075: "ИЛИ", // or
	0o007: "СЛЦ", 0o027: "ВЧЦ", 0o067: "ЦС", // cyclic add/sub/swap
	0o016: "ПВ",  // call-with-return
	0o036: "УП1", 0o076: "УП0", 0o056: "УП", // conditional/unconditional branch
	0o077: "СТОП", // halt
	0o011: "ПСЛ", 0o031: "ПБЛ", 0o051: "ПСЛ0", 0o071: "ПБЛ0", // RA compare branch
	0o012: "ПС", 0o032: "ПБ0", // RA compare branch, unconditional Ω
	0o052: "УРА", // set RA from address
	0o072: "УРАЧ", // set RA from memory
	0o010: "ВК", 0o030: "ВКК", // punch read (unsupported)
	0o050: "МА", // I/O setup
	0o070: "МБ", // I/O execute
}

// OpcodeName exposes the mnemonic table, mainly for tests and tracing.
func OpcodeName(opcode uint8) (string, bool) {
	name, ok := mnemonics[opcode]
	return name, ok
}

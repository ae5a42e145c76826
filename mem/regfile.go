package mem

import "github.com/sergevak/m20sim/word"

// RegFile holds the M-20's architectural registers (spec.md §3).
type RegFile struct {
	RVK uint32 // instruction pointer, 12 bits
	RA  uint32 // address register, 12 bits
	W   bool   // Ω, the single-bit condition flag
	RK  word.Word
	RR  word.Word
	RMR word.Word

	// RPU1..RPU4 are the four read-only console switch registers.
	RPU1, RPU2, RPU3, RPU4 word.Word
}

// NewRegFile creates a zeroed register file.
func NewRegFile() *RegFile {
	return &RegFile{}
}

// Reset clears RA, Ω, RMR and RR to zero, per spec.md §4.3. RVK, RK and the
// console switch registers are left untouched.
func (r *RegFile) Reset() {
	r.RA = 0
	r.W = false
	r.RMR = 0
	r.RR = 0
}

// ConsoleSwitch returns one of the four RPU registers (1-indexed, matching
// opcode 020's a1 selector), or 0 for selector 0. Selector 5 ("keep RR
// unchanged") and invalid selectors are handled by the caller.
func (r *RegFile) ConsoleSwitch(selector uint32) word.Word {
	switch selector {
	case 1:
		return r.RPU1
	case 2:
		return r.RPU2
	case 3:
		return r.RPU3
	case 4:
		return r.RPU4
	default:
		return 0
	}
}

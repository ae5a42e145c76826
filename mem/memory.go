// Package mem implements the M-20's 4096-word memory and architectural
// register file (spec.md §3, §4.3).
package mem

import "github.com/sergevak/m20sim/word"

// Size is the number of addressable words.
const Size = 4096

// Memory is the M-20's 4096-word RAM, with a parallel "written" bitmap
// that flags every address a program has explicitly stored to. Reading an
// unwritten non-zero address is a fatal stop at the CPU level; Memory
// itself only reports whether the address was written.
type Memory struct {
	words   [Size]word.Word
	written [Size]bool
}

// New creates an empty 4096-word memory.
func New() *Memory {
	return &Memory{}
}

// Load reads the word at addr, masked to 12 bits. Address 0 always reads
// as zero. ok is false when a non-zero address has never been written.
func (m *Memory) Load(addr uint32) (w word.Word, ok bool) {
	a := word.Mask12(uint64(addr))
	if a == 0 {
		return 0, true
	}
	return m.words[a], m.written[a]
}

// Store writes val at addr, masked to 12 bits. A store to address 0 is
// silently discarded.
func (m *Memory) Store(addr uint32, val word.Word) {
	a := word.Mask12(uint64(addr))
	if a == 0 {
		return
	}
	m.words[a] = val
	m.written[a] = true
}

// Written reports whether addr has ever been stored to.
func (m *Memory) Written(addr uint32) bool {
	return m.written[word.Mask12(uint64(addr))]
}

// Raw exposes the word at addr without checking the written bitmap, for
// use by the image loader and the drum device's direct range transfers.
func (m *Memory) Raw(addr uint32) word.Word {
	return m.words[word.Mask12(uint64(addr))]
}

// SetRaw deposits val at addr and marks it written, bypassing the
// address-0 discard rule. Used by the image loader, which may legitimately
// populate address 0 from an image file.
func (m *Memory) SetRaw(addr uint32, val word.Word) {
	a := word.Mask12(uint64(addr))
	m.words[a] = val
	m.written[a] = true
}

// Package printfmt renders memory ranges the way the M-20 console printer
// did: decimal and octal at eight words per line, GOST text at 128 words
// per line (spec.md §4.8, grounded on
// original_source/trunk/simh/m20_cpu.c's
// print_decimal/print_octal/print_text).
package printfmt

import (
	"fmt"
	"io"

	"github.com/sergevak/m20sim/arith"
	"github.com/sergevak/m20sim/gost"
	"github.com/sergevak/m20sim/mem"
	"github.com/sergevak/m20sim/stop"
	"github.com/sergevak/m20sim/word"
)

// walk calls emit for every word in M[first..last] inclusive, joining
// consecutive words with sep and starting a new line every perLine words
// (and once more at the end of the range).
func walk(out io.Writer, m *mem.Memory, first, last uint32, perLine uint32, sep string, emit func(io.Writer, word.Word) error) stop.Code {
	for n := uint32(0); ; n++ {
		addr := first + n
		w := m.Raw(addr)
		if err := emit(out, w); err != nil {
			return stop.WrErr
		}
		if addr >= last {
			if _, err := fmt.Fprint(out, "\r\n"); err != nil {
				return stop.WrErr
			}
			return stop.None
		}
		brk := n%perLine == perLine-1
		out2 := "\r\n"
		if !brk {
			out2 = sep
		}
		if _, err := fmt.Fprint(out, out2); err != nil {
			return stop.WrErr
		}
	}
}

// Decimal prints M[first..last] as signed decimal floating point, one
// leading '#' or ' ' column marking a tagged word, eight numbers per line.
func Decimal(out io.Writer, m *mem.Memory, first, last uint32) stop.Code {
	return walk(out, m, first, last, 8, "  ", func(w io.Writer, x word.Word) error {
		mark := byte(' ')
		if word.HasTag(x) {
			mark = '#'
		}
		_, err := fmt.Fprintf(w, "%c%13e", mark, arith.M20ToIEEE(x))
		return err
	})
}

// Octal prints M[first..last] as 15-digit octal words, eight per line.
func Octal(out io.Writer, m *mem.Memory, first, last uint32) stop.Code {
	return walk(out, m, first, last, 8, " ", func(w io.Writer, x word.Word) error {
		_, err := fmt.Fprintf(w, "%015o", x)
		return err
	})
}

// Text prints M[first..last] decoded through the GOST-10859 codec, six
// characters per word with no separator between words, 128 words per line.
func Text(out io.Writer, m *mem.Memory, first, last uint32) stop.Code {
	return walk(out, m, first, last, 128, "", func(w io.Writer, x word.Word) error {
		var buf []byte
		for _, c := range gost.Characters(x) {
			buf = gost.WriteRune(buf, c)
		}
		_, err := w.Write(buf)
		return err
	})
}

// Package gost implements the GOST-10859 7-bit character encoding used by
// the M-20 for text constants and console text printing.
package gost

import (
	"unicode/utf8"

	"github.com/sergevak/m20sim/word"
)

// toUnicode maps a 7-bit GOST-10859 code point to its Unicode scalar.
// Indices 000-037 carry digits and punctuation, 040-076 Cyrillic capitals,
// 077-137 additional Latin letters and math symbols not otherwise placed.
var toUnicode = [128]rune{
	/* 000-007 */ '0', '1', '2', '3', '4', '5', '6', '7',
	/* 010-017 */ '8', '9', '+', '-', '/', ',', '.', ' ',
	/* 020-027 */ 'e', '↑', '(', ')', '×', '=', ';', '[',
	/* 030-037 */ ']', '*', '‘', '’', '≠', '<', '>', ':',
	/* 040-047 */ 'А', 'Б', 'В', 'Г', 'Д', 'Е', 'Ж', 'З',
	/* 050-057 */ 'И', 'Й', 'К', 'Л', 'М', 'Н', 'О', 'П',
	/* 060-067 */ 'Р', 'С', 'Т', 'У', 'Ф', 'Х', 'Ц', 'Ч',
	/* 070-077 */ 'Ш', 'Щ', 'Ы', 'Ь', 'Э', 'Ю', 'Я', 'D',
	/* 100-107 */ 'F', 'G', 'I', 'J', 'L', 'N', 'Q', 'R',
	/* 110-117 */ 'S', 'U', 'V', 'W', 'Z', '‾', '≤', '≥',
	/* 120-127 */ '∨', '∧', '⊃', '¬', '÷', '≡', '%', '◇',
	/* 130-137 */ '|', '―', '_', '!', '"', 'Ъ', '°', '′',
}

var fromUnicode map[rune]byte

func init() {
	fromUnicode = make(map[rune]byte, len(toUnicode))
	for code, r := range toUnicode {
		if _, exists := fromUnicode[r]; !exists {
			fromUnicode[r] = byte(code)
		}
	}
}

// Decode converts a 7-bit GOST code point to its Unicode scalar. Unassigned
// codes decode to a space, matching the console printer's behavior for
// gaps in the table.
func Decode(code byte) rune {
	r := toUnicode[code&0o177]
	if r == 0 {
		return ' '
	}
	return r
}

// Encode converts a Unicode scalar to its 7-bit GOST code point. ok is
// false if the rune has no GOST representation.
func Encode(r rune) (code byte, ok bool) {
	code, ok = fromUnicode[r]
	return code, ok
}

// WriteRune appends the UTF-8 encoding of a decoded character to buf.
func WriteRune(buf []byte, code byte) []byte {
	var tmp [utf8.UTFMax]byte
	n := utf8.EncodeRune(tmp[:], Decode(code))
	return append(buf, tmp[:n]...)
}

// Characters unpacks the six 7-bit characters packed into a 45-bit word,
// most-significant first, per spec.md §4.2.
func Characters(w word.Word) [6]byte {
	var out [6]byte
	for i := 0; i < 6; i++ {
		out[i] = byte(w>>(35-7*i)) & 0o177
	}
	return out
}

// Pack assembles six 7-bit codes into a 45-bit word, most-significant
// first, leaving the top 3 bits (tag/sign/unused) clear.
func Pack(codes [6]byte) word.Word {
	var w word.Word
	for i, c := range codes {
		w |= word.Word(c&0o177) << (35 - 7*i)
	}
	return w
}

package arith

import "github.com/sergevak/m20sim/word"

// AddMantissaCarry implements opcode 013 ("add mantissas"): the mantissa
// halves of xFull and yOperand are added; the result keeps xFull's upper
// (non-mantissa) bits. carry is the overflow out of bit 37.
func AddMantissaCarry(xFull, yOperand word.Word) (result word.Word, carry bool) {
	y := word.MantissaOf(xFull) + word.MantissaOf(yOperand)
	result = (xFull &^ word.Mantissa) | (y & word.Mantissa)
	carry = y&word.Bit37 != 0
	return result, carry
}

// SubMantissaCarry implements opcode 033 ("subtract mantissas").
func SubMantissaCarry(xFull, yOperand word.Word) (result word.Word, carry bool) {
	y := word.MantissaOf(xFull) - word.MantissaOf(yOperand)
	result = (xFull &^ word.Mantissa) | (y & word.Mantissa)
	carry = y&word.Bit37 != 0
	return result, carry
}

// AddNonMantissaCarry implements opcode 053 ("add opcodes"/non-mantissa add):
// the non-mantissa halves are added; the result keeps xFull's mantissa.
// carry is the overflow out of bit 46.
func AddNonMantissaCarry(xFull, yOperand word.Word) (result word.Word, carry bool) {
	y := (xFull &^ word.Mantissa) + (yOperand &^ word.Mantissa)
	result = word.MantissaOf(xFull) | (y &^ word.Mantissa & word.All)
	carry = y&word.Bit46 != 0
	return result, carry
}

// SubNonMantissaCarry implements opcode 073.
func SubNonMantissaCarry(xFull, yOperand word.Word) (result word.Word, carry bool) {
	y := (xFull &^ word.Mantissa) - (yOperand &^ word.Mantissa)
	result = word.MantissaOf(xFull) | (y &^ word.Mantissa & word.All)
	carry = y&word.Bit46 != 0
	return result, carry
}

// finishCyclic applies the two-half wraparound shared by cyclic add/sub and
// the drum checksum: an overflow out of the upper half (bit 46) wraps into
// bit 37, and an overflow out of the mantissa half (bit 37) wraps by +1
// into bit 1.
func finishCyclic(upper, lower word.Word) (result word.Word, mantissaCarry bool) {
	if upper&word.Bit46 != 0 {
		upper += word.Bit37
	}
	if lower&word.Bit37 != 0 {
		lower++
	}
	result = (upper & word.All) | (lower & word.Mantissa)
	mantissaCarry = lower&word.Bit37 != 0
	return result, mantissaCarry
}

// CyclicAdd implements opcode 007: the upper and mantissa halves of x and y
// are added independently, then the two-half wraparound is applied.
func CyclicAdd(x, y word.Word) (result word.Word, carry bool) {
	upper := (x &^ word.Mantissa) + (y &^ word.Mantissa)
	lower := word.MantissaOf(x) + word.MantissaOf(y)
	return finishCyclic(upper, lower)
}

// CyclicSub implements opcode 027.
func CyclicSub(x, y word.Word) (result word.Word, carry bool) {
	upper := (x &^ word.Mantissa) - (y &^ word.Mantissa)
	lower := word.MantissaOf(x) - word.MantissaOf(y)
	return finishCyclic(upper, lower)
}

// CyclicSwap implements opcode 067: swap the two 21-bit halves of the
// word's 42-bit payload, bits 1..21 and bits 25..45. Bits 22..24 lie
// between the halves and come out clear.
func CyclicSwap(x word.Word) word.Word {
	const half = 0o7777777 // 21 one-bits
	return (x&half)<<24 | (x>>24)&half
}

// Checksum folds w into the running cyclic-add checksum sum, the exact
// algorithm used by opcode 007 (spec.md §4.6).
func Checksum(sum, w word.Word) word.Word {
	r, _ := CyclicAdd(sum, w)
	return r
}

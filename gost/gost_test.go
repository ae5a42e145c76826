package gost_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sergevak/m20sim/gost"
	"github.com/sergevak/m20sim/word"
)

func TestGost(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Gost Suite")
}

var _ = Describe("Decode", func() {
	It("decodes digits", func() {
		Expect(gost.Decode(0)).To(Equal('0'))
		Expect(gost.Decode(9)).To(Equal('9'))
	})

	It("decodes Cyrillic capitals", func() {
		Expect(gost.Decode(0o040)).To(Equal('А'))
		Expect(gost.Decode(0o051)).To(Equal('Й'))
	})

	It("decodes space", func() {
		Expect(gost.Decode(0o017)).To(Equal(' '))
	})
})

var _ = Describe("Encode", func() {
	It("round-trips through Decode for a mapped code", func() {
		code, ok := gost.Encode('М')
		Expect(ok).To(BeTrue())
		Expect(gost.Decode(code)).To(Equal('М'))
	})

	It("reports false for an unmapped rune", func() {
		_, ok := gost.Encode('界')
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Pack and Characters", func() {
	It("round-trips six codes through a word", func() {
		codes := [6]byte{0o054, 0o013, 0o002, 0o000, 0o017, 0o017} // "М-20  "
		w := gost.Pack(codes)
		Expect(gost.Characters(w)).To(Equal(codes))
	})

	It("renders М-20 followed by spaces as UTF-8 text", func() {
		codes := [6]byte{0o054, 0o013, 0o002, 0o000, 0o017, 0o017}
		var buf []byte
		for _, c := range codes {
			buf = gost.WriteRune(buf, c)
		}
		Expect(string(buf)).To(Equal("М-20  "))
	})

	It("leaves the top bits of a packed word clear", func() {
		w := gost.Pack([6]byte{0o177, 0o177, 0o177, 0o177, 0o177, 0o177})
		Expect(w & (word.Tag | word.Sign)).To(Equal(word.Word(0)))
	})
})

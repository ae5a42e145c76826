package insts_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sergevak/m20sim/insts"
)

func TestInsts(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Insts Suite")
}

var _ = Describe("Decode", func() {
	It("splits a command word into its fields", func() {
		// ra-flags=0, opcode=000, a1=0001, a2=0002, a3=0003
		rk := uint64(0o0_00_0001_0002_0003)
		in := insts.Decode(rk)
		Expect(in.RAFlags).To(Equal(uint8(0)))
		Expect(in.Opcode).To(Equal(uint8(0)))
		Expect(in.A1).To(Equal(uint32(1)))
		Expect(in.A2).To(Equal(uint32(2)))
		Expect(in.A3).To(Equal(uint32(3)))
	})

	It("extracts a non-zero opcode and ra-flags", func() {
		// ra_flags=7 (bits 43-45), opcode=001 (bits 37-42)
		rk := uint64(7)<<42 | uint64(0o01)<<36
		in := insts.Decode(rk)
		Expect(in.RAFlags).To(Equal(uint8(7)))
		Expect(in.Opcode).To(Equal(uint8(0o01)))
	})
})

var _ = Describe("ApplyDisplacement", func() {
	It("adds RA to addresses whose flag bit is set, mod 4096", func() {
		rk := uint64(0o4_00_0001_0002_0003) // ra-flags bit 4 (a1) set
		in := insts.Decode(rk)
		in.ApplyDisplacement(0o7777)
		Expect(in.A1).To(Equal(uint32((1 + 0o7777) & 0o7777)))
		Expect(in.A2).To(Equal(uint32(2)))
		Expect(in.A3).To(Equal(uint32(3)))
	})

	It("leaves addresses alone when no flag bit is set", func() {
		rk := uint64(0o0_00_0001_0002_0003)
		in := insts.Decode(rk)
		in.ApplyDisplacement(100)
		Expect(in.A1).To(Equal(uint32(1)))
	})
})

var _ = Describe("DecodeFamily", func() {
	It("recovers the round/norm suppressor bits from an addition variant", func() {
		f := insts.DecodeFamily(0o041) // add, round-suppressed? bit4=0,bit5=1 -> no_norm
		Expect(f.Base).To(Equal(uint8(0o001)))
		Expect(f.NoRound).To(BeFalse())
		Expect(f.NoNorm).To(BeTrue())
	})

	It("recovers both suppressor bits set", func() {
		f := insts.DecodeFamily(0o061)
		Expect(f.Base).To(Equal(uint8(0o001)))
		Expect(f.NoRound).To(BeTrue())
		Expect(f.NoNorm).To(BeTrue())
	})
})

var _ = Describe("Disassemble", func() {
	It("renders a known mnemonic with its addresses", func() {
		rk := uint64(0o0_00_0001_0002_0003)
		Expect(insts.Disassemble(rk)).To(Equal("ПБ 0001,0002,0003"))
	})

	It("falls back to OPnn for an unmapped opcode", func() {
		_, ok := insts.OpcodeName(0o017)
		Expect(ok).To(BeFalse())
		Expect(insts.Disassemble(uint64(0o017) << 36)).To(Equal("OP17 0000,0000,0000"))
	})
})

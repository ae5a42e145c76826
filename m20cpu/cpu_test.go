package m20cpu_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sergevak/m20sim/drum"
	"github.com/sergevak/m20sim/m20cpu"
	"github.com/sergevak/m20sim/mem"
	"github.com/sergevak/m20sim/stop"
)

func TestM20cpu(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "M20cpu Suite")
}

func instr(opcode, a1, a2, a3 uint64) uint64 {
	return opcode<<36 | a1<<24 | a2<<12 | a3
}

var _ = Describe("Emulator", func() {
	It("executes a move and stops cleanly on 077 0,0", func() {
		e := m20cpu.NewEmulator()
		e.Memory().Store(1, 0o777)
		e.Memory().Store(0o10, instr(0o000, 1, 0, 2)) // move M[1] -> M[2]
		e.Memory().Store(0o11, instr(0o077, 0, 0, 0)) // halt
		e.Regs().RVK = 0o10

		r := e.Run()
		Expect(r.Code).To(Equal(stop.CleanHalt))
		w, ok := e.Memory().Load(2)
		Expect(ok).To(BeTrue())
		Expect(w).To(Equal(uint64(0o777)))
	})

	It("sets Ω from the sign of an addition result", func() {
		e := m20cpu.NewEmulator()
		e.Memory().Store(1, 0)                // +0
		e.Memory().Store(2, 0o300400000000000) // negative, normalized, nonzero
		e.Memory().Store(0o10, instr(0o001, 1, 2, 3))
		e.Regs().RVK = 0o10

		r := e.Step()
		Expect(r.Code).To(Equal(stop.None))
		Expect(e.Regs().W).To(BeTrue())
	})

	It("reports RUNOUT when RVK runs past the end of memory", func() {
		e := m20cpu.NewEmulator()
		e.Regs().RVK = mem.Size
		r := e.Step()
		Expect(r.Code).To(Equal(stop.Runout))
	})

	It("reports BADCMD for an opcode with no defined instruction", func() {
		e := m20cpu.NewEmulator()
		e.Memory().Store(0o10, instr(0o017, 0, 0, 0))
		e.Regs().RVK = 0o10
		r := e.Step()
		Expect(r.Code).To(Equal(stop.BadCmd))
	})

	It("stops with MBINVAL when 070 runs without an armed 050", func() {
		e := m20cpu.NewEmulator()
		e.Memory().Store(0o10, instr(0o070, 0, 0, 0))
		e.Regs().RVK = 0o10
		r := e.Step()
		Expect(r.Code).To(Equal(stop.MBInval))
	})

	It("round-trips a memory range through the drum via MA/MB", func() {
		dir := filepath.Join(os.TempDir(), "m20sim-test-drum")
		os.MkdirAll(dir, 0755)
		path := filepath.Join(dir, "drum.bin")
		os.Remove(path)
		dev, err := drum.Open(path)
		Expect(err).NotTo(HaveOccurred())
		defer dev.Close()
		defer os.Remove(path)

		e := m20cpu.NewEmulator(m20cpu.WithDrum(dev))
		e.Memory().Store(0o40, 0o123456)
		e.Memory().Store(0o41, 0o654321)

		// MA: write (0o10=drum | 0o4=write -> 0o14), disk addr 0o100, end mem 0o41
		e.Memory().Store(0o10, instr(0o050, 0o14, 0o100, 0o41))
		// MB: start mem 0o40
		e.Memory().Store(0o11, instr(0o070, 0o40, 0, 0))
		e.Regs().RVK = 0o10
		Expect(e.Step().Code).To(Equal(stop.None))
		Expect(e.Step().Code).To(Equal(stop.None))

		// clear memory, then read back via a fresh MA/MB pair
		e.Memory().Store(0o40, 0)
		e.Memory().Store(0o41, 0)
		e.Memory().Store(0o12, instr(0o050, 0o10, 0o100, 0o41)) // read, drum bit only
		e.Memory().Store(0o13, instr(0o070, 0o40, 0, 0))
		e.Regs().RVK = 0o12
		Expect(e.Step().Code).To(Equal(stop.None))
		Expect(e.Step().Code).To(Equal(stop.None))

		w1, _ := e.Memory().Load(0o40)
		w2, _ := e.Memory().Load(0o41)
		Expect(w1).To(Equal(uint64(0o123456)))
		Expect(w2).To(Equal(uint64(0o654321)))
	})

	It("formats a print-decimal request through stdout", func() {
		var buf bytes.Buffer
		e := m20cpu.NewEmulator(m20cpu.WithStdout(&buf))
		e.Memory().Store(1, 0o101_4000_0000_0000) // 1.0
		// MA: print (0o100), no operand addresses needed for disk
		e.Memory().Store(0o10, instr(0o050, 0o100, 0, 1))
		e.Memory().Store(0o11, instr(0o070, 1, 0, 0))
		e.Regs().RVK = 0o10
		Expect(e.Step().Code).To(Equal(stop.None))
		Expect(e.Step().Code).To(Equal(stop.None))
		Expect(buf.String()).NotTo(BeEmpty())
	})
})

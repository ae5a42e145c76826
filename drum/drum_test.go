package drum_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sergevak/m20sim/drum"
	"github.com/sergevak/m20sim/mem"
	"github.com/sergevak/m20sim/stop"
)

func TestDrum(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Drum Suite")
}

func tempDrumPath() string {
	dir := filepath.Join(os.TempDir(), "m20sim-drum-pkg-test")
	os.MkdirAll(dir, 0755)
	path := filepath.Join(dir, "drum.bin")
	os.Remove(path)
	return path
}

var _ = Describe("Device", func() {
	It("creates a full-size backing file for a new drum", func() {
		path := tempDrumPath()
		dev, err := drum.Open(path)
		Expect(err).NotTo(HaveOccurred())
		defer dev.Close()
		defer os.Remove(path)

		info, err := os.Stat(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Size()).To(Equal(int64(drum.Size * 8)))
	})

	It("round-trips a write then read without checksum", func() {
		path := tempDrumPath()
		dev, err := drum.Open(path)
		Expect(err).NotTo(HaveOccurred())
		defer dev.Close()
		defer os.Remove(path)

		m := mem.New()
		m.Store(1, 0o111)
		m.Store(2, 0o222)
		_, code := dev.Write(0, 1, 2, false, m)
		Expect(code).To(Equal(stop.None))

		m2 := mem.New()
		_, code = dev.Read(0, 1, 2, false, m2)
		Expect(code).To(Equal(stop.None))
		w1, _ := m2.Load(1)
		w2, _ := m2.Load(2)
		Expect(w1).To(Equal(uint64(0o111)))
		Expect(w2).To(Equal(uint64(0o222)))
	})

	It("appends and verifies a checksum on a checked transfer", func() {
		path := tempDrumPath()
		dev, err := drum.Open(path)
		Expect(err).NotTo(HaveOccurred())
		defer dev.Close()
		defer os.Remove(path)

		m := mem.New()
		m.Store(1, 0o111)
		m.Store(2, 0o222)
		sum, code := dev.Write(0, 1, 2, true, m)
		Expect(code).To(Equal(stop.None))

		m2 := mem.New()
		sum2, code := dev.Read(0, 1, 2, true, m2)
		Expect(code).To(Equal(stop.None))
		Expect(sum2).To(Equal(sum))
	})

	It("reports stop.DrumInvData reading a never-written region", func() {
		path := tempDrumPath()
		dev, err := drum.Open(path)
		Expect(err).NotTo(HaveOccurred())
		defer dev.Close()
		defer os.Remove(path)

		m := mem.New()
		_, code := dev.Read(100, 1, 2, false, m)
		Expect(code).To(Equal(stop.DrumInvData))
	})

	It("reports stop.BadWLen for a write past the drum's capacity", func() {
		path := tempDrumPath()
		dev, err := drum.Open(path)
		Expect(err).NotTo(HaveOccurred())
		defer dev.Close()
		defer os.Remove(path)

		m := mem.New()
		m.Store(1, 1)
		_, code := dev.Write(drum.Size-0, 1, 1, false, m)
		Expect(code).To(Equal(stop.BadWLen))
	})

	It("reports stop.ReadErr on a checksum mismatch", func() {
		path := tempDrumPath()
		dev, err := drum.Open(path)
		Expect(err).NotTo(HaveOccurred())
		defer dev.Close()
		defer os.Remove(path)

		m := mem.New()
		m.Store(1, 0o111)
		m.Store(2, 0o222)
		_, code := dev.Write(0, 1, 2, true, m)
		Expect(code).To(Equal(stop.None))

		// corrupt the data word after the checked write, leaving the old
		// checksum in place.
		m3 := mem.New()
		m3.Store(1, 0o333)
		m3.Store(2, 0o222)
		_, code = dev.Write(0, 1, 2, false, m3)
		Expect(code).To(Equal(stop.None))

		m2 := mem.New()
		_, code = dev.Read(0, 1, 2, true, m2)
		Expect(code).To(Equal(stop.ReadErr))
	})
})

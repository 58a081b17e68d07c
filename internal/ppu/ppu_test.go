package ppu

import "testing"

// memBus is a flat 16 KiB address space standing in for internal/bus's
// PPUBus, enough to drive register and rendering behavior in isolation.
type memBus struct {
	mem [0x4000]uint8
}

func (m *memBus) Read(address uint16) uint8     { return m.mem[address&0x3FFF] }
func (m *memBus) Write(address uint16, v uint8) { m.mem[address&0x3FFF] = v }

func newTestPPU() (*PPU, *memBus) {
	p := New()
	b := &memBus{}
	p.SetBus(b)
	return p, b
}

// Reading $2002 clears the vblank flag and the PPUADDR/PPUSCROLL write
// toggle.
func TestReadStatusClearsVBlankAndToggle(t *testing.T) {
	p, _ := newTestPPU()
	p.ppuStatus |= 0x80
	p.w = true

	status := p.ReadRegister(0x2002)
	if status&0x80 == 0 {
		t.Fatal("expected vblank bit set in the read value")
	}
	if p.ppuStatus&0x80 != 0 {
		t.Fatal("vblank flag should be cleared after reading $2002")
	}
	if p.w {
		t.Fatal("write toggle should be cleared after reading $2002")
	}
}

// $2007 reads of nametable/pattern data are buffered: the first read after
// repointing returns the previous buffer contents, not the new address.
func TestPPUDataReadIsBuffered(t *testing.T) {
	p, bus := newTestPPU()
	bus.mem[0x2000] = 0xAB

	p.WriteRegister(0x2006, 0x20)
	p.WriteRegister(0x2006, 0x00)

	first := p.ReadRegister(0x2007)
	if first == 0xAB {
		t.Fatal("first read after repointing should return the stale buffer, not the new byte")
	}
	second := p.ReadRegister(0x2007)
	if second != 0xAB {
		t.Fatalf("second read = %#02x, want 0xAB", second)
	}
}

// Palette reads ($3F00+) are unbuffered: the byte at the new address comes
// back immediately.
func TestPPUDataPaletteReadIsUnbuffered(t *testing.T) {
	p, bus := newTestPPU()
	bus.mem[0x3F00] = 0x12

	p.WriteRegister(0x2006, 0x3F)
	p.WriteRegister(0x2006, 0x00)

	got := p.ReadRegister(0x2007)
	if got != 0x12 {
		t.Fatalf("palette read = %#02x, want 0x12", got)
	}
}

// PPUCTRL bit 2 selects a 32-byte VRAM address increment instead of 1.
func TestPPUDataAddressIncrementMode(t *testing.T) {
	p, _ := newTestPPU()
	p.WriteRegister(0x2000, 0x04) // increment-by-32 mode

	p.WriteRegister(0x2006, 0x20)
	p.WriteRegister(0x2006, 0x00)
	p.WriteRegister(0x2007, 0x01)

	if p.v != 0x2020 {
		t.Fatalf("v after write = %#04x, want 0x2020", p.v)
	}
}

// Stepping to scanline 241 dot 1 sets the vblank flag and, with NMI enabled
// via PPUCTRL, asserts the NMI line.
func TestVBlankSetAndNMIAsserted(t *testing.T) {
	p, _ := newTestPPU()
	var nmiAsserted bool
	p.SetNMILine(func(asserted bool) { nmiAsserted = asserted })
	p.WriteRegister(0x2000, 0x80) // enable NMI generation

	for p.scanline != 241 || p.cycle != 1 {
		p.Step()
	}

	if !p.IsVBlank() {
		t.Fatal("expected vblank flag set at scanline 241 dot 1")
	}
	if !nmiAsserted {
		t.Fatal("expected NMI line asserted at vblank start with NMI enabled")
	}
}

// OAM DMA copies 256 bytes starting at the current OAMADDR, wrapping.
func TestOAMDMAWriteWrapsFromOAMAddr(t *testing.T) {
	p, _ := newTestPPU()
	p.WriteRegister(0x2003, 0xFE) // OAMADDR = 0xFE

	data := make([]uint8, 256)
	for i := range data {
		data[i] = uint8(i)
	}
	p.OAMDMAWrite(data)

	if p.oam[0xFE] != 0 {
		t.Fatalf("oam[0xFE] = %d, want 0", p.oam[0xFE])
	}
	if p.oam[0x00] != 2 {
		t.Fatalf("oam[0x00] = %d, want 2 (wrapped)", p.oam[0x00])
	}
}

func TestNESColorToRGBOutOfRangeIsZero(t *testing.T) {
	if NESColorToRGB(64) != 0 {
		t.Fatal("expected out-of-range color index to map to 0")
	}
	if NESColorToRGB(0) != nesColorPalette[0] {
		t.Fatal("expected index 0 to map to the first palette entry")
	}
}

// Package bus implements the NES CPU and PPU address-space decoding: RAM
// mirroring, PPU/APU/controller register windows, cartridge PRG/CHR
// routing, and open-bus behavior on unmapped reads.
package bus

import (
	"gones/internal/apu"
	"gones/internal/cartridge"
	"gones/internal/input"
	"gones/internal/ppu"
)

// CPUBus is the 6502's view of memory: $0000-$1FFF internal RAM (mirrored
// every 2 KiB), $2000-$3FFF PPU registers (mirrored every 8 bytes),
// $4000-$4017 APU/controller ports, $4018-$401F unmapped, $6000-$7FFF
// cartridge PRG-RAM, $8000-$FFFF cartridge PRG-ROM.
type CPUBus struct {
	ram   [0x800]uint8
	cart  *cartridge.Cartridge
	ppu   *ppu.PPU
	apu   *apu.APU
	input *input.State

	// openBus is the value left on the bus by the last successful read,
	// returned by reads that hit unmapped addresses.
	openBus uint8

	oamDMAPending bool
	oamDMAPage    uint8
}

// NewCPUBus wires a CPU bus to the already-constructed components of one
// running system. All four must be non-nil.
func NewCPUBus(cart *cartridge.Cartridge, p *ppu.PPU, a *apu.APU, in *input.State) *CPUBus {
	b := &CPUBus{cart: cart, ppu: p, apu: a, input: in}
	b.initializePowerUpRAM()
	a.SetMemoryReader(b.Read)
	return b
}

// initializePowerUpRAM seeds RAM with the patterned, non-all-zero values
// real NES hardware's SRAM settles into at power-on, rather than all zero.
// Software that (incorrectly) depends on uninitialized RAM content behaves
// more authentically this way than with a zeroed block.
func (b *CPUBus) initializePowerUpRAM() {
	for i := range b.ram {
		switch {
		case i < 0x0010:
			b.ram[i] = 0xFF
		case i >= 0x0200 && i < 0x0300:
			b.ram[i] = 0x00
		case i >= 0x0300 && i < 0x0400:
			b.ram[i] = 0xFF
		default:
			b.ram[i] = 0x00
		}
	}
}

// Read reads one byte from CPU address space.
func (b *CPUBus) Read(address uint16) uint8 {
	var value uint8
	switch {
	case address < 0x2000:
		value = b.ram[address&0x07FF]
	case address < 0x4000:
		value = b.ppu.ReadRegister(0x2000 + address&0x0007)
	case address == 0x4015:
		value = b.apu.ReadStatus()
	case address == 0x4016, address == 0x4017:
		value = b.input.Read(address) | (b.openBus & 0xE0)
	case address < 0x4018:
		value = b.openBus
	case address < 0x6000:
		value = b.openBus
	case address < 0x8000:
		value = b.cart.CPURead(address)
	default:
		value = b.cart.CPURead(address)
	}
	b.openBus = value
	return value
}

// Write writes one byte to CPU address space.
func (b *CPUBus) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		b.ram[address&0x07FF] = value
	case address < 0x4000:
		b.ppu.WriteRegister(0x2000+address&0x0007, value)
	case address == 0x4014:
		b.oamDMAPending = true
		b.oamDMAPage = value
	case address == 0x4016:
		b.input.Write(address, value)
	case address < 0x4018:
		b.apu.WriteRegister(address, value)
	case address < 0x6000:
		// unmapped
	default:
		b.cart.CPUWrite(address, value)
	}
}

// TakeOAMDMARequest returns and clears a pending $4014 write. The engine's
// scheduler is responsible for stalling the CPU and copying the 256 bytes
// through PPU.OAMDMAWrite with correct cycle timing.
func (b *CPUBus) TakeOAMDMARequest() (page uint8, pending bool) {
	pending = b.oamDMAPending
	page = b.oamDMAPage
	b.oamDMAPending = false
	return page, pending
}

// PPUBus is the PPU's view of its 14-bit address space: $0000-$1FFF pattern
// tables (cartridge CHR), $2000-$2FFF nametables (2 KiB of internal VRAM,
// mirrored per the cartridge's current Mirroring mode), $3000-$3EFF mirrors
// of the nametables, $3F00-$3FFF palette RAM (32 bytes, mirrored every 32).
type PPUBus struct {
	vram    [0x800]uint8
	palette [32]uint8
	cart    *cartridge.Cartridge
}

// NewPPUBus constructs a PPU bus over the given cartridge.
func NewPPUBus(cart *cartridge.Cartridge) *PPUBus {
	return &PPUBus{cart: cart}
}

func (b *PPUBus) Read(address uint16) uint8 {
	address &= 0x3FFF
	switch {
	case address < 0x2000:
		return b.cart.PPURead(address)
	case address < 0x3F00:
		return b.vram[b.nametableIndex(address)]
	default:
		return b.palette[paletteIndex(address)]
	}
}

func (b *PPUBus) Write(address uint16, value uint8) {
	address &= 0x3FFF
	switch {
	case address < 0x2000:
		b.cart.PPUWrite(address, value)
	case address < 0x3F00:
		b.vram[b.nametableIndex(address)] = value
	default:
		b.palette[paletteIndex(address)] = value
	}
}

// nametableIndex maps a $2000-$3EFF PPU address into one of the two 1 KiB
// VRAM banks according to the cartridge's current mirroring mode.
func (b *PPUBus) nametableIndex(address uint16) uint16 {
	offset := (address - 0x2000) % 0x1000
	table := offset / 0x400
	within := offset % 0x400

	switch b.cart.Mirroring() {
	case cartridge.MirrorHorizontal:
		return (table/2)*0x400 + within
	case cartridge.MirrorVertical:
		return (table%2)*0x400 + within
	case cartridge.MirrorSingleScreenLow:
		return within
	case cartridge.MirrorSingleScreenHigh:
		return 0x400 + within
	default: // four-screen: approximated with the two on-board banks mirrored
		return (table%2)*0x400 + within
	}
}

// paletteIndex implements the background-color mirroring quirk: sprite
// palette entries 0/4/8/12 ($3F10/$3F14/$3F18/$3F1C) alias the background
// palette's entries at the same offsets.
func paletteIndex(address uint16) uint16 {
	idx := (address - 0x3F00) % 32
	if idx >= 0x10 && idx%4 == 0 {
		idx -= 0x10
	}
	return idx
}

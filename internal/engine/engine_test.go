package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gones/internal/cartridge"
	"gones/internal/ppu"
)

const (
	headerSize  = 16
	prgBankSize = 16384
	chrBankSize = 8192
	resetVecOff = 0x3FFC // offset within a 16 KiB PRG bank
	nmiVecOff   = 0x3FFA
)

// buildNROM builds a minimal one-bank-PRG, one-bank-CHR, horizontal-mirroring
// NROM image with program bytes placed at the start of the bank and the
// reset vector pointed at $8000.
func buildNROM(program []uint8) *cartridge.Cartridge {
	data := make([]byte, headerSize+prgBankSize+chrBankSize)
	copy(data[:4], []byte{'N', 'E', 'S', 0x1A})
	data[4] = 1 // 1 PRG bank
	data[5] = 1 // 1 CHR bank
	data[6] = 0
	data[7] = 0
	for i := headerSize; i < headerSize+prgBankSize; i++ {
		data[i] = 0xEA // NOP filler
	}
	copy(data[headerSize:], program)
	data[headerSize+resetVecOff] = 0x00
	data[headerSize+resetVecOff+1] = 0x80
	cart, err := cartridge.Load(data)
	if err != nil {
		panic(err)
	}
	return cart
}

func newTestEngine(program []uint8) *Engine {
	cart := buildNROM(program)
	e := New(cart, Config{})
	e.PowerOn()
	return e
}

// Seed scenario 1: PRG filled with NOP past 1,000 frames stays in ROM space,
// never halts, and renders nothing but the backdrop color (rendering is
// never enabled).
func TestPRGMirroringStableAcrossFrames(t *testing.T) {
	e := newTestEngine(nil)
	for i := 0; i < 1000; i++ {
		e.RunOneFrame()
	}

	require.False(t, e.IsFaulted())
	pc := e.CPU.SaveState().PC
	require.GreaterOrEqualf(t, pc, uint16(0x8000), "PC = %#04x, want in $8000-$FFFF", pc)

	backdrop := ppu.NESColorToRGB(0)
	frame := e.PullFrame()
	for i, px := range frame {
		require.Equalf(t, backdrop, px, "pixel %d", i)
	}
}

// Seed scenario 2: LDX #1; DEX; BNE -3; BRK. DEX zeroes X on the very first
// pass, so BNE never takes: LDX(2) + DEX(2) + BNE-not-taken(2) + BRK(7) = 13
// cycles after the 7-cycle reset sequence, for a total of 20.
func TestBranchNotTakenThenBRKCycleCount(t *testing.T) {
	program := []uint8{0xA2, 0x01, 0xCA, 0xD0, 0xFD, 0x00}
	e := newTestEngine(program)

	baseline := e.CPU.Cycles()
	require.EqualValues(t, 7, baseline)

	e.RunUntil(13)

	require.EqualValues(t, 20, e.CPU.Cycles())
}

// Seed scenario 4: with NMI enabled via $2000, the engine must service it
// within 7 CPU cycles of VBlank (scanline 241 dot 1) starting. The handler
// at $8010 (INC $00; RTI) makes servicing observable through RAM.
func TestVBlankNMIServicedPromptly(t *testing.T) {
	program := []uint8{
		0xA9, 0x80, // LDA #$80        (offset 0)
		0x8D, 0x00, 0x20, // STA $2000 (offset 2, enables NMI)
		0x4C, 0x05, 0x80, // JMP $8005 (offset 5, spin in place)
	}
	handler := []uint8{0xE6, 0x00, 0x40} // INC $00; RTI, at $8010

	data := make([]byte, headerSize+prgBankSize+chrBankSize)
	copy(data[:4], []byte{'N', 'E', 'S', 0x1A})
	data[4], data[5] = 1, 1
	for i := headerSize; i < headerSize+prgBankSize; i++ {
		data[i] = 0xEA
	}
	copy(data[headerSize:], program)
	copy(data[headerSize+0x10:], handler)
	data[headerSize+resetVecOff], data[headerSize+resetVecOff+1] = 0x00, 0x80
	data[headerSize+nmiVecOff], data[headerSize+nmiVecOff+1] = 0x10, 0x80

	cart, err := cartridge.Load(data)
	require.NoError(t, err)

	e := New(cart, Config{})
	e.PowerOn()

	e.RunUntil(10) // past the LDA/STA enabling NMI

	vblankSeen := false
	for i := 0; i < 300000 && !vblankSeen; i++ {
		e.RunOneCPUCycle()
		if e.PPU.Scanline() == 241 && e.PPU.Cycle() == 1 {
			vblankSeen = true
		}
	}
	require.True(t, vblankSeen, "never reached scanline 241 dot 1")

	// $0000 powers up as $FF and earlier frames' NMIs have already run the
	// handler, so clear it to observe this frame's INC.
	e.CPUBus.Write(0x0000, 0x00)

	serviced := false
	for j := 0; j < 7+3; j++ { // 7-cycle interrupt sequence plus slack
		e.RunOneCPUCycle()
		if e.CPUBus.Read(0x0000) != 0 {
			serviced = true
			break
		}
	}
	require.True(t, serviced, "NMI handler did not run within expected cycle budget")
}

// Seed scenario 5: a palette write through $2006/$2007 mirrors back through
// $3F00.
func TestPaletteMirrorWriteReadback(t *testing.T) {
	e := newTestEngine(nil)

	writePPUAddr := func(addr uint16) {
		e.CPUBus.Write(0x2006, uint8(addr>>8))
		e.CPUBus.Write(0x2006, uint8(addr))
	}

	writePPUAddr(0x3F10)
	e.CPUBus.Write(0x2007, 0x12)

	writePPUAddr(0x3F00)
	// Palette reads (unlike nametable reads) are unbuffered: the byte at
	// $3F00 comes back on the very first $2007 read.
	got := e.CPUBus.Read(0x2007)
	require.EqualValues(t, 0x12, got)
}

package bus

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gones/internal/apu"
	"gones/internal/cartridge"
	"gones/internal/input"
	"gones/internal/ppu"
)

func newTestCartridge(t *testing.T, mirroring uint8) *cartridge.Cartridge {
	t.Helper()
	const headerSize, prgBankSize, chrBankSize = 16, 16384, 8192
	data := make([]byte, headerSize+prgBankSize+chrBankSize)
	copy(data[:4], []byte{'N', 'E', 'S', 0x1A})
	data[4], data[5] = 1, 1
	data[6] = mirroring
	cart, err := cartridge.Load(data)
	require.NoError(t, err)
	return cart
}

func newTestCPUBus(t *testing.T) *CPUBus {
	t.Helper()
	cart := newTestCartridge(t, 0)
	p := ppu.New()
	p.SetBus(NewPPUBus(cart))
	a := apu.New()
	return NewCPUBus(cart, p, a, input.NewState())
}

// RAM at $0000-$07FF mirrors three more times through $1FFF.
func TestCPUBusRAMMirroring(t *testing.T) {
	b := newTestCPUBus(t)
	b.Write(0x0042, 0x99)
	require.EqualValues(t, 0x99, b.Read(0x0842))
	require.EqualValues(t, 0x99, b.Read(0x1042))
	require.EqualValues(t, 0x99, b.Read(0x1842))
}

// PPU registers at $2000-$3FFF are mirrored every 8 bytes.
func TestCPUBusPPURegisterMirroring(t *testing.T) {
	b := newTestCPUBus(t)
	b.Write(0x2000, 0x80) // enable NMI through $2000
	b.Write(0x2006, 0x3F)
	b.Write(0x2006, 0x00)
	b.Write(0x2007, 0x11)

	// $200E aliases $2006, $200F aliases $2007: re-point and re-read through
	// the mirrored addresses to confirm the decode strips to 3 bits.
	b.Write(0x200E, 0x3F)
	b.Write(0x200E, 0x00)
	got := b.Read(0x200F)
	require.NotZero(t, got)
}

// Unmapped addresses return the last successfully-read byte (open bus).
func TestCPUBusOpenBus(t *testing.T) {
	b := newTestCPUBus(t)
	b.Write(0x0000, 0x55)
	b.Read(0x0000)
	got := b.Read(0x4018) // unmapped APU/IO region
	require.EqualValues(t, 0x55, got)
}

// $4014 latches an OAM-DMA request for the engine to service, then clears.
func TestCPUBusOAMDMARequestLatchAndClear(t *testing.T) {
	b := newTestCPUBus(t)
	b.Write(0x4014, 0x02)

	page, pending := b.TakeOAMDMARequest()
	require.True(t, pending)
	require.EqualValues(t, 0x02, page)

	_, pending = b.TakeOAMDMARequest()
	require.False(t, pending)
}

// Horizontal mirroring maps nametables 0 and 1 to VRAM bank 0, nametables
// 2 and 3 to bank 1.
func TestPPUBusHorizontalMirroring(t *testing.T) {
	cart := newTestCartridge(t, 0) // horizontal
	pb := NewPPUBus(cart)

	pb.Write(0x2000, 0x11)
	require.EqualValues(t, 0x11, pb.Read(0x2400)) // nametable 1 aliases 0
	require.Zero(t, pb.Read(0x2800))              // nametable 2 is the other bank
}

// Vertical mirroring maps nametables 0 and 2 to VRAM bank 0, nametables 1
// and 3 to bank 1.
func TestPPUBusVerticalMirroring(t *testing.T) {
	cart := newTestCartridge(t, 1) // vertical
	pb := NewPPUBus(cart)

	pb.Write(0x2000, 0x22)
	require.EqualValues(t, 0x22, pb.Read(0x2800)) // nametable 2 aliases 0
	require.Zero(t, pb.Read(0x2400))              // nametable 1 is the other bank
}

// Sprite palette entries 0/4/8/12 alias the background palette at the same
// offsets.
func TestPPUBusPaletteBackgroundAlias(t *testing.T) {
	cart := newTestCartridge(t, 0)
	pb := NewPPUBus(cart)

	pb.Write(0x3F00, 0x0F)
	require.EqualValues(t, 0x0F, pb.Read(0x3F10))

	pb.Write(0x3F10, 0x20)
	require.EqualValues(t, 0x20, pb.Read(0x3F00))
}

package cartridge

import (
	"errors"
	"testing"
)

func buildINES(prgBanks, chrBanks uint8, flags6, flags7 uint8) []byte {
	data := make([]byte, headerSize+int(prgBanks)*prgBankSize+int(chrBanks)*chrBankSize)
	copy(data[:4], []byte{'N', 'E', 'S', 0x1A})
	data[4] = prgBanks
	data[5] = chrBanks
	data[6] = flags6
	data[7] = flags7
	for i := headerSize; i < len(data); i++ {
		data[i] = 0xEA
	}
	return data
}

func TestLoadRejectsBadMagic(t *testing.T) {
	data := buildINES(1, 1, 0, 0)
	data[0] = 0
	if _, err := Load(data); !errors.Is(err, ErrBadCartridge) {
		t.Fatalf("expected ErrBadCartridge, got %v", err)
	}
}

func TestLoadRejectsShortImage(t *testing.T) {
	data := buildINES(1, 1, 0, 0)
	if _, err := Load(data[:len(data)-10]); !errors.Is(err, ErrBadCartridge) {
		t.Fatalf("expected ErrBadCartridge, got %v", err)
	}
}

func TestLoadRejectsUnsupportedMapper(t *testing.T) {
	data := buildINES(1, 1, 0xF0, 0xF0)
	if _, err := Load(data); !errors.Is(err, ErrUnsupportedMapper) {
		t.Fatalf("expected ErrUnsupportedMapper, got %v", err)
	}
}

func TestNROMMirrorsSixteenKiBPRG(t *testing.T) {
	data := buildINES(1, 1, 0, 0)
	data[headerSize] = 0x42
	data[headerSize+prgBankSize-1] = 0x99
	cart, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cart.CPURead(0x8000); got != 0x42 {
		t.Fatalf("0x8000 = %#x, want 0x42", got)
	}
	if got := cart.CPURead(0xC000); got != 0x42 {
		t.Fatalf("0xC000 mirror = %#x, want 0x42", got)
	}
	if got := cart.CPURead(0xFFFF); got != 0x99 {
		t.Fatalf("0xFFFF = %#x, want 0x99", got)
	}
}

func TestNROMCHRRAMWhenZeroBanks(t *testing.T) {
	data := buildINES(1, 0, 0, 0)
	cart, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cart.CHRIsRAM {
		t.Fatal("expected CHR-RAM when header CHR bank count is zero")
	}
	cart.PPUWrite(0x0010, 0x55)
	if got := cart.PPURead(0x0010); got != 0x55 {
		t.Fatalf("CHR-RAM readback = %#x, want 0x55", got)
	}
}

func TestMirroringFlags(t *testing.T) {
	h, _ := Load(buildINES(1, 1, 0x01, 0))
	if h.Mirroring() != MirrorVertical {
		t.Fatalf("flags6=0x01 mirroring = %v, want vertical", h.Mirroring())
	}
	v, _ := Load(buildINES(1, 1, 0x08, 0))
	if v.Mirroring() != MirrorFourScreen {
		t.Fatalf("flags6=0x08 mirroring = %v, want four-screen", v.Mirroring())
	}
}

func TestBatteryRAMRoundTrip(t *testing.T) {
	cart, err := Load(buildINES(1, 1, 0x02, 0))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cart.HasBattery() {
		t.Fatal("expected battery flag set")
	}
	cart.CPUWrite(0x6000, 0x7F)
	saved := append([]uint8(nil), cart.BatteryRAM()...)

	cart2, _ := Load(buildINES(1, 1, 0x02, 0))
	if err := cart2.LoadBatteryRAM(saved); err != nil {
		t.Fatalf("LoadBatteryRAM: %v", err)
	}
	if got := cart2.CPURead(0x6000); got != 0x7F {
		t.Fatalf("restored PRG-RAM = %#x, want 0x7F", got)
	}

	if err := cart2.LoadBatteryRAM(saved[:len(saved)-1]); err == nil {
		t.Fatal("expected size-mismatch error")
	}
}

func TestMapper2BankSwitchAndFixedLastBank(t *testing.T) {
	data := buildINES(4, 0, 0x20, 0) // mapper 2 (UNROM), CHR-RAM
	for bank := 0; bank < 4; bank++ {
		data[headerSize+bank*prgBankSize] = uint8(bank)
	}
	cart, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cart.Header.MapperID != 2 {
		t.Fatalf("mapper id = %d, want 2", cart.Header.MapperID)
	}
	cart.CPUWrite(0x8000, 2)
	if got := cart.CPURead(0x8000); got != 2 {
		t.Fatalf("switched bank byte = %d, want 2", got)
	}
	if got := cart.CPURead(0xC000); got != 3 {
		t.Fatalf("fixed last bank byte = %d, want 3", got)
	}
}

func TestMapper4IRQFiresAtZero(t *testing.T) {
	data := buildINES(4, 8, 0x40, 0) // mapper 4 (MMC3)
	cart, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cart.CPUWrite(0xC000, 4) // latch = 4
	cart.CPUWrite(0xC001, 0) // reload on next clock
	cart.CPUWrite(0xE001, 0) // enable IRQ

	for i := 0; i < 4; i++ {
		cart.ClockA12()
		if cart.IRQ() {
			t.Fatalf("IRQ asserted early at clock %d", i)
		}
	}
	cart.ClockA12()
	if !cart.IRQ() {
		t.Fatal("expected IRQ asserted once counter reaches zero")
	}
}

func TestMapperStateRoundTrip(t *testing.T) {
	data := buildINES(4, 0, 0x10, 0) // mapper 1 (MMC1)
	cart, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// Five single-bit writes select the PRG bank register, loading 0x05.
	for _, bit := range []uint8{1, 0, 1, 0, 0} {
		cart.CPUWrite(0xE000, bit)
	}
	state := cart.MapperState()
	if state == nil {
		t.Fatal("expected non-nil mapper state for MMC1")
	}

	cart2, _ := Load(data)
	if err := cart2.LoadMapperState(state); err != nil {
		t.Fatalf("LoadMapperState: %v", err)
	}
	if got := cart2.MapperState(); got != state {
		t.Fatalf("restored state %+v, want %+v", got, state)
	}
}

// Package cartridge implements iNES ROM loading and cartridge-side mapper logic for the NES.
package cartridge

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
)

func init() {
	// Registered so gob can round-trip the `any` mapper state returned by
	// MapperState/consumed by LoadMapperState through a save-state blob.
	gob.Register(mapper1State{})
	gob.Register(mapper2State{})
	gob.Register(mapper3State{})
	gob.Register(mapper4State{})
}

// Mirroring identifies how the PPU's 2 KiB of nametable RAM is mapped across
// the 4 KiB nametable address space.
type Mirroring uint8

const (
	MirrorHorizontal Mirroring = iota
	MirrorVertical
	MirrorSingleScreenLow
	MirrorSingleScreenHigh
	MirrorFourScreen
)

func (m Mirroring) String() string {
	switch m {
	case MirrorHorizontal:
		return "horizontal"
	case MirrorVertical:
		return "vertical"
	case MirrorSingleScreenLow:
		return "single-screen-low"
	case MirrorSingleScreenHigh:
		return "single-screen-high"
	case MirrorFourScreen:
		return "four-screen"
	default:
		return "unknown"
	}
}

var (
	// ErrBadCartridge covers bad magic, truncated images and size mismatches.
	ErrBadCartridge = errors.New("cartridge: bad cartridge image")
	// ErrUnsupportedMapper is returned when the header names a mapper id this
	// module has no implementation for.
	ErrUnsupportedMapper = errors.New("cartridge: unsupported mapper")

	errBadMapperState = errors.New("cartridge: save-state type does not match mapper")
)

const (
	headerSize  = 16
	trainerSize = 512
	prgBankSize = 16 * 1024
	chrBankSize = 8 * 1024
	prgRAMBank  = 8 * 1024
)

// Header is the parsed 16-byte iNES header.
type Header struct {
	PRGBanks   uint8 // 16 KiB units
	CHRBanks   uint8 // 8 KiB units; 0 means CHR-RAM
	MapperID   uint8
	Mirroring  Mirroring
	Battery    bool
	Trainer    bool
	PRGRAMSize int // bytes; 0 in the header defaults to one 8 KiB bank
}

// Mapper routes CPU and PPU bus traffic into cartridge-owned memory and may
// assert IRQ or change the effective mirroring. Every mapper in this package
// implements it.
type Mapper interface {
	CPURead(addr uint16) uint8
	CPUWrite(addr uint16, value uint8)
	PPURead(addr uint16) uint8
	PPUWrite(addr uint16, value uint8)
	// Clock is driven once per PPU A12 rising edge, for mappers (MMC3) whose
	// IRQ counter is clocked by rendering rather than by CPU cycles.
	Clock()
	IRQ() bool
	Mirroring() Mirroring
	Reset()
}

// StatefulMapper is implemented by mappers that carry bank/shift-register
// state worth round-tripping through SaveState/LoadState.
type StatefulMapper interface {
	Mapper
	SaveState() any
	LoadState(any) error
}

// Cartridge owns the PRG/CHR images and PRG-RAM for one loaded game, plus its
// mapper. It is immutable after Load except for the mapper's internal state
// and the RAM regions the mapper exposes.
type Cartridge struct {
	Header Header

	PRGROM   []uint8
	CHRROM   []uint8 // also backs CHR-RAM when Header.CHRBanks == 0
	CHRIsRAM bool
	PRGRAM   []uint8
	battery  bool

	mapper Mapper
}

// Load parses an iNES 1.0 image and constructs the cartridge and its mapper.
func Load(data []byte) (*Cartridge, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: image shorter than header", ErrBadCartridge)
	}
	if data[0] != 'N' || data[1] != 'E' || data[2] != 'S' || data[3] != 0x1A {
		return nil, fmt.Errorf("%w: bad magic", ErrBadCartridge)
	}

	flags6 := data[6]
	flags7 := data[7]

	h := Header{
		PRGBanks: data[4],
		CHRBanks: data[5],
		MapperID: (flags6 >> 4) | (flags7 & 0xF0),
		Battery:  flags6&0x02 != 0,
		Trainer:  flags6&0x04 != 0,
	}
	switch {
	case flags6&0x08 != 0:
		h.Mirroring = MirrorFourScreen
	case flags6&0x01 != 0:
		h.Mirroring = MirrorVertical
	default:
		h.Mirroring = MirrorHorizontal
	}
	if data[8] != 0 {
		h.PRGRAMSize = int(data[8]) * prgRAMBank
	} else {
		h.PRGRAMSize = prgRAMBank
	}
	if h.PRGBanks == 0 {
		return nil, fmt.Errorf("%w: zero PRG bank count", ErrBadCartridge)
	}

	off := headerSize
	if h.Trainer {
		off += trainerSize
	}

	prgLen := int(h.PRGBanks) * prgBankSize
	chrLen := int(h.CHRBanks) * chrBankSize
	want := off + prgLen + chrLen
	if len(data) < want {
		return nil, fmt.Errorf("%w: image length %d, expected at least %d", ErrBadCartridge, len(data), want)
	}

	c := &Cartridge{Header: h, battery: h.Battery}
	c.PRGROM = append([]uint8(nil), data[off:off+prgLen]...)
	off += prgLen

	if chrLen > 0 {
		c.CHRROM = append([]uint8(nil), data[off:off+chrLen]...)
	} else {
		c.CHRROM = make([]uint8, chrBankSize)
		c.CHRIsRAM = true
	}
	c.PRGRAM = make([]uint8, h.PRGRAMSize)

	mapper, err := newMapper(h.MapperID, c)
	if err != nil {
		return nil, err
	}
	c.mapper = mapper
	return c, nil
}

// LoadFromFile opens filename and loads it as an iNES image.
func LoadFromFile(filename string) (*Cartridge, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return LoadReader(file)
}

// LoadReader reads the whole image from r, then calls Load.
func LoadReader(r io.Reader) (*Cartridge, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, err
	}
	return Load(buf.Bytes())
}

func newMapper(id uint8, c *Cartridge) (Mapper, error) {
	switch id {
	case 0:
		return newMapper0(c), nil
	case 1:
		return newMapper1(c), nil
	case 2:
		return newMapper2(c), nil
	case 3:
		return newMapper3(c), nil
	case 4:
		return newMapper4(c), nil
	default:
		return nil, fmt.Errorf("%w: id %d", ErrUnsupportedMapper, id)
	}
}

// CPURead/CPUWrite/PPURead/PPUWrite forward into the mapper; Cartridge itself
// never decodes addresses, matching the mapper-owns-bank-math contract.
func (c *Cartridge) CPURead(addr uint16) uint8     { return c.mapper.CPURead(addr) }
func (c *Cartridge) CPUWrite(addr uint16, v uint8) { c.mapper.CPUWrite(addr, v) }
func (c *Cartridge) PPURead(addr uint16) uint8     { return c.mapper.PPURead(addr) }
func (c *Cartridge) PPUWrite(addr uint16, v uint8) { c.mapper.PPUWrite(addr, v) }

// ClockA12 notifies the mapper of a PPU A12 rising edge, for scanline-IRQ
// mappers such as MMC3.
func (c *Cartridge) ClockA12() { c.mapper.Clock() }

// IRQ reports whether the mapper currently asserts its IRQ line.
func (c *Cartridge) IRQ() bool { return c.mapper.IRQ() }

// Mirroring returns the cartridge's current effective mirroring, which may
// differ from the header value once the mapper has changed it.
func (c *Cartridge) Mirroring() Mirroring { return c.mapper.Mirroring() }

// Reset restores mapper bank/shift-register state to power-on defaults. PRG
// RAM and CHR RAM are left untouched: only a power cycle, not a reset button
// press, clears RAM on real hardware.
func (c *Cartridge) Reset() { c.mapper.Reset() }

// HasBattery reports whether this cartridge's PRG-RAM is battery-backed.
func (c *Cartridge) HasBattery() bool { return c.battery }

// BatteryRAM returns the cartridge's PRG-RAM contents for persistence. It is
// only meaningful when HasBattery is true.
func (c *Cartridge) BatteryRAM() []uint8 { return c.PRGRAM }

// LoadBatteryRAM restores a previously saved PRG-RAM image. The length must
// match exactly.
func (c *Cartridge) LoadBatteryRAM(data []uint8) error {
	if len(data) != len(c.PRGRAM) {
		return fmt.Errorf("cartridge: battery RAM size mismatch: have %d bytes, got %d", len(c.PRGRAM), len(data))
	}
	copy(c.PRGRAM, data)
	return nil
}

// Fingerprint is a stable identity for matching a save-state blob to the
// cartridge it was produced against.
type Fingerprint struct {
	MapperID uint8
	PRGLen   int
	CHRLen   int
}

// Fingerprint returns the cartridge's identity for save-state validation.
func (c *Cartridge) Fingerprint() Fingerprint {
	return Fingerprint{MapperID: c.Header.MapperID, PRGLen: len(c.PRGROM), CHRLen: len(c.CHRROM)}
}

// MapperState returns the mapper's serializable state, if it implements
// StatefulMapper, and nil otherwise.
func (c *Cartridge) MapperState() any {
	if sm, ok := c.mapper.(StatefulMapper); ok {
		return sm.SaveState()
	}
	return nil
}

// LoadMapperState restores mapper state previously returned by MapperState.
func (c *Cartridge) LoadMapperState(s any) error {
	if s == nil {
		return nil
	}
	sm, ok := c.mapper.(StatefulMapper)
	if !ok {
		return fmt.Errorf("cartridge: mapper %d has no state to load", c.Header.MapperID)
	}
	return sm.LoadState(s)
}

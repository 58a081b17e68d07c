// Package ppu implements the Picture Processing Unit for the NES.
package ppu

// Bus is the PPU's view of its 14-bit address space: pattern tables,
// nametables, and palette RAM. internal/bus implements this against a
// cartridge and its mirroring mode.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// PPU represents the NES Picture Processing Unit (2C02): a 262-scanline by
// 341-dot state machine driven one dot at a time by Step.
type PPU struct {
	// CPU-visible registers
	ppuCtrl   uint8 // $2000
	ppuMask   uint8 // $2001
	ppuStatus uint8 // $2002
	oamAddr   uint8 // $2003

	// Internal scroll/address state
	v uint16 // current VRAM address (15 bits)
	t uint16 // temporary VRAM address / address latch (15 bits)
	x uint8  // fine X scroll (3 bits)
	w bool   // write toggle, shared by $2005/$2006

	bus Bus

	scanline   int // -1 (pre-render) .. 260
	cycle      int // 0..340
	frameCount uint64
	oddFrame   bool
	readBuffer uint8 // buffered $2007 read

	oam              [256]uint8
	secondaryOAM     [32]uint8
	spriteIndexes    [8]uint8 // original OAM index for each secondary-OAM slot
	spriteCount      uint8
	sprite0OnLine    bool
	sprite0Hit       bool
	spriteOverflow   bool
	lastEvalScanline int

	frameBuffer [256 * 240]uint32

	nmiAsserted bool
	nmiLine     func(asserted bool)
	a12Line     func() // called once per rendering scanline at dot 260, drives mapper IRQ counters
	frameDone   func()

	backgroundEnabled bool
	spritesEnabled    bool
	renderingEnabled  bool

	cycleCount uint64
}

// State is the gob-serializable snapshot of the PPU's registers, scroll
// latches, scanline/cycle position, and OAM/frame-buffer contents.
type State struct {
	PPUCtrl, PPUMask, PPUStatus, OAMAddr uint8
	V, T                                 uint16
	X                                    uint8
	W                                    bool
	Scanline, Cycle                      int
	FrameCount                           uint64
	OddFrame                             bool
	ReadBuffer                           uint8
	OAM                                  [256]uint8
	FrameBuffer                          [256 * 240]uint32
	NMIAsserted                          bool
}

// SaveState captures the PPU's full visible and internal state.
func (p *PPU) SaveState() State {
	return State{
		PPUCtrl: p.ppuCtrl, PPUMask: p.ppuMask, PPUStatus: p.ppuStatus, OAMAddr: p.oamAddr,
		V: p.v, T: p.t, X: p.x, W: p.w,
		Scanline: p.scanline, Cycle: p.cycle,
		FrameCount:  p.frameCount,
		OddFrame:    p.oddFrame,
		ReadBuffer:  p.readBuffer,
		OAM:         p.oam,
		FrameBuffer: p.frameBuffer,
		NMIAsserted: p.nmiAsserted,
	}
}

// LoadState restores a snapshot previously produced by SaveState.
func (p *PPU) LoadState(s State) {
	p.ppuCtrl, p.ppuMask, p.ppuStatus, p.oamAddr = s.PPUCtrl, s.PPUMask, s.PPUStatus, s.OAMAddr
	p.v, p.t, p.x, p.w = s.V, s.T, s.X, s.W
	p.scanline, p.cycle = s.Scanline, s.Cycle
	p.frameCount = s.FrameCount
	p.oddFrame = s.OddFrame
	p.readBuffer = s.ReadBuffer
	p.oam = s.OAM
	p.frameBuffer = s.FrameBuffer
	p.nmiAsserted = s.NMIAsserted
	p.updateRenderingFlags()
	p.lastEvalScanline = -999
}

// New creates a PPU positioned at the start of the pre-render scanline.
func New() *PPU {
	return &PPU{scanline: -1}
}

// Reset restores power-up register and timing state. The frame buffer and
// OAM are cleared; real hardware's contents are undefined at power-on, and
// clearing to black/zero is the conventional emulator choice.
func (p *PPU) Reset() {
	p.ppuCtrl = 0
	p.ppuMask = 0
	p.ppuStatus = 0xA0
	p.oamAddr = 0

	p.v, p.t, p.x, p.w = 0, 0, 0, false

	p.scanline = -1
	p.cycle = 0
	p.frameCount = 0
	p.oddFrame = false
	p.readBuffer = 0

	p.spriteCount = 0
	p.sprite0Hit = false
	p.spriteOverflow = false
	p.lastEvalScanline = -999

	p.backgroundEnabled = false
	p.spritesEnabled = false
	p.renderingEnabled = false

	p.cycleCount = 0
	p.nmiAsserted = false

	for i := range p.oam {
		p.oam[i] = 0
	}
	for i := range p.frameBuffer {
		p.frameBuffer[i] = 0
	}
}

// SetBus installs the PPU's memory bus (pattern tables, nametables, palette).
func (p *PPU) SetBus(bus Bus) { p.bus = bus }

// SetNMILine installs the callback the PPU drives as its NMI output line,
// asserted for the duration of vblank while PPUCTRL bit 7 is set.
func (p *PPU) SetNMILine(fn func(asserted bool)) { p.nmiLine = fn }

// SetA12Line installs the callback invoked once per pre-render and visible
// scanline, at dot 260, while rendering is enabled. It stands in for the
// A12 rising edge that clocks mappers (MMC3) whose IRQ counter follows
// rendering; individual A12 transitions are not tracked.
func (p *PPU) SetA12Line(fn func()) { p.a12Line = fn }

// SetFrameCompleteCallback installs the callback fired once per frame, when
// scanline 239 dot 340 (the last visible dot) completes.
func (p *PPU) SetFrameCompleteCallback(fn func()) { p.frameDone = fn }

// ReadRegister reads a CPU-visible register at $2000-$2007.
func (p *PPU) ReadRegister(address uint16) uint8 {
	switch address {
	case 0x2002:
		status := p.ppuStatus
		p.ppuStatus &^= 0xC0 // clear VBL (bit 7) and sprite-0-hit (bit 6)
		p.sprite0Hit = false
		p.w = false
		p.setNMI(false)
		return status
	case 0x2004:
		return p.oam[p.oamAddr]
	case 0x2007:
		return p.readPPUData()
	default:
		// $2000/$2001/$2003/$2005/$2006 are write-only; open-bus callers see
		// the lower 5 bits of the last PPUSTATUS value.
		return p.ppuStatus & 0x1F
	}
}

// WriteRegister writes a CPU-visible register at $2000-$2007.
func (p *PPU) WriteRegister(address uint16, value uint8) {
	switch address {
	case 0x2000:
		wasNMIEnabled := p.ppuCtrl&0x80 != 0
		p.ppuCtrl = value
		p.t = (p.t &^ 0x0C00) | (uint16(value)&0x03)<<10
		p.updateRenderingFlags()
		if !wasNMIEnabled && value&0x80 != 0 && p.ppuStatus&0x80 != 0 {
			p.setNMI(true)
		}
		if value&0x80 == 0 {
			p.setNMI(false)
		}
	case 0x2001:
		p.ppuMask = value
		p.updateRenderingFlags()
	case 0x2003:
		p.oamAddr = value
	case 0x2004:
		p.oam[p.oamAddr] = value
		p.oamAddr++
	case 0x2005:
		p.writePPUScroll(value)
	case 0x2006:
		p.writePPUAddr(value)
	case 0x2007:
		p.writePPUData(value)
	}
}

// WriteOAM writes OAM directly at a given address.
func (p *PPU) WriteOAM(address uint8, value uint8) { p.oam[address] = value }

// OAMDMAWrite copies a 256-byte page into OAM starting at the current
// OAMADDR, wrapping around, as real OAM DMA does.
func (p *PPU) OAMDMAWrite(data []uint8) {
	for _, v := range data {
		p.oam[p.oamAddr] = v
		p.oamAddr++
	}
}

func (p *PPU) setNMI(asserted bool) {
	if p.nmiAsserted == asserted {
		return
	}
	p.nmiAsserted = asserted
	if p.nmiLine != nil {
		p.nmiLine(asserted)
	}
}

// Step advances the PPU by exactly one dot.
func (p *PPU) Step() {
	p.cycleCount++

	// Odd-frame dot skip: with background rendering enabled, the pre-render
	// scanline is one dot short, going straight from (339,-1) to (0,0).
	if p.scanline == -1 && p.cycle == 339 && p.backgroundEnabled && p.oddFrame {
		p.cycle = 0
		p.scanline = 0
		if p.renderingEnabled {
			p.v = p.t
		}
		return
	}

	p.cycle++
	if p.cycle > 340 {
		p.cycle = 0
		p.scanline++
		if p.scanline == 240 && p.frameDone != nil {
			p.frameDone()
		}
		if p.scanline > 260 {
			p.scanline = -1
			p.frameCount++
			p.oddFrame = !p.oddFrame
		}
	}

	if p.scanline == 241 && p.cycle == 1 {
		p.ppuStatus |= 0x80
		p.ppuStatus &^= 0x60 // clear sprite-0-hit and sprite-overflow at vblank start
		p.sprite0Hit = false
		p.spriteOverflow = false
		if p.ppuCtrl&0x80 != 0 {
			p.setNMI(true)
		}
	}
	if p.scanline == -1 && p.cycle == 1 {
		p.ppuStatus &^= 0x80
		p.setNMI(false)
	}
	if p.scanline == 0 && p.cycle == 0 && p.renderingEnabled {
		p.v = p.t
	}

	if p.renderingEnabled && p.cycle == 260 && p.scanline >= -1 && p.scanline < 240 && p.a12Line != nil {
		p.a12Line()
	}

	if p.scanline >= -1 && p.scanline < 240 {
		p.renderCycle()
	}
}

func (p *PPU) renderCycle() {
	if p.spritesEnabled && p.scanline >= 0 && p.scanline < 240 && p.cycle == 1 && p.lastEvalScanline != p.scanline {
		p.evaluateSprites()
	}

	if p.scanline < 0 || p.scanline >= 240 || p.cycle < 2 || p.cycle > 257 {
		return
	}
	if p.bus == nil {
		return
	}

	pixelX := p.cycle - 2
	pixelY := p.scanline

	if !p.backgroundEnabled && !p.spritesEnabled {
		p.frameBuffer[pixelY*256+pixelX] = NESColorToRGB(p.bus.Read(0x3F00))
		return
	}

	background := SpritePixel{transparent: true}
	if p.backgroundEnabled {
		background = p.renderBackgroundPixel(pixelX, pixelY)
	}
	sprite := SpritePixel{transparent: true}
	if p.spritesEnabled {
		sprite = p.renderSpritePixel(pixelX, pixelY)
	}

	p.frameBuffer[pixelY*256+pixelX] = p.compositeFinalPixel(background, sprite)
}

// SpritePixel is one rendered pixel candidate from the background or sprite
// pipeline, before compositing.
type SpritePixel struct {
	colorIndex   uint8
	paletteIndex uint8
	rgbColor     uint32
	spriteIndex  int8 // -1 for background
	priority     bool // true = behind background
	transparent  bool
}

func (p *PPU) evaluateSprites() {
	p.lastEvalScanline = p.scanline
	p.spriteCount = 0
	p.spriteOverflow = false
	p.sprite0OnLine = false

	for i := range p.secondaryOAM {
		p.secondaryOAM[i] = 0xFF
	}
	for i := range p.spriteIndexes {
		p.spriteIndexes[i] = 0xFF
	}

	spriteHeight := 8
	if p.ppuCtrl&0x20 != 0 {
		spriteHeight = 16
	}

	found := 0
	for i := 0; i < 64; i++ {
		base := i * 4
		sY := int(p.oam[base])
		if p.scanline < sY+1 || p.scanline >= sY+1+spriteHeight {
			continue
		}
		if found >= 8 {
			p.spriteOverflow = true
			p.ppuStatus |= 0x20
			break
		}
		dst := found * 4
		p.secondaryOAM[dst] = uint8(sY)
		p.secondaryOAM[dst+1] = p.oam[base+1]
		p.secondaryOAM[dst+2] = p.oam[base+2]
		p.secondaryOAM[dst+3] = p.oam[base+3]
		p.spriteIndexes[found] = uint8(i)
		if i == 0 {
			p.sprite0OnLine = true
		}
		found++
	}
	p.spriteCount = uint8(found)
}

// renderBackgroundPixel samples the background tile/attribute/pattern data
// for one screen pixel from the current scroll position (t/x, latched into
// v once per frame and on every mid-frame PPUSCROLL/PPUADDR write).
func (p *PPU) renderBackgroundPixel(pixelX, pixelY int) SpritePixel {
	scrollX := int(p.t&0x001F)<<3 + int(p.x)
	scrollY := int((p.t>>5)&0x001F)<<3 + int((p.t>>12)&0x0007)
	nametable := int((p.t >> 10) & 0x0003)

	worldX := pixelX + scrollX
	worldY := pixelY + scrollY

	if worldX < 0 {
		nametable ^= 1
		worldX += 256
	} else if worldX >= 256 {
		nametable ^= 1
		worldX -= 256
	}
	if worldY < 0 {
		nametable ^= 2
		worldY += 240
	} else if worldY >= 240 {
		nametable ^= 2
		worldY -= 240
	}

	tileX, tileY := worldX>>3, worldY>>3
	fineX, fineY := worldX&7, worldY&7
	if tileX < 0 || tileX >= 32 || tileY < 0 || tileY >= 30 {
		return SpritePixel{transparent: true}
	}

	nametableAddr := 0x2000 | uint16(nametable&3)<<10 | uint16(tileY*32+tileX)
	tileID := p.bus.Read(nametableAddr)

	attrAddr := 0x23C0 | uint16(nametable&3)<<10 | uint16((tileY>>2)*8+(tileX>>2))
	attrByte := p.bus.Read(attrAddr)
	block := ((tileX & 3) >> 1) + ((tileY&3)>>1)*2
	paletteIndex := (attrByte >> (uint(block) * 2)) & 0x03

	patternBase := uint16(0x0000)
	if p.ppuCtrl&0x10 != 0 {
		patternBase = 0x1000
	}
	patternAddr := patternBase + uint16(tileID)*16 + uint16(fineY)
	low := p.bus.Read(patternAddr)
	high := p.bus.Read(patternAddr + 8)
	shift := 7 - fineX
	colorIndex := ((high >> shift) & 1 << 1) | ((low >> shift) & 1)

	paletteAddr := uint16(0x3F00)
	if colorIndex != 0 {
		paletteAddr = 0x3F00 + uint16(paletteIndex)*4 + uint16(colorIndex)
	}
	nesColor := p.bus.Read(paletteAddr)

	return SpritePixel{
		colorIndex:   colorIndex,
		paletteIndex: paletteIndex,
		rgbColor:     NESColorToRGB(nesColor),
		spriteIndex:  -1,
		transparent:  colorIndex == 0,
	}
}

func (p *PPU) renderSpritePixel(pixelX, pixelY int) SpritePixel {
	spriteHeight := 8
	if p.ppuCtrl&0x20 != 0 {
		spriteHeight = 16
	}

	for i := 0; i < int(p.spriteCount); i++ {
		base := i * 4
		sY := int(p.secondaryOAM[base])
		tileIndex := p.secondaryOAM[base+1]
		attributes := p.secondaryOAM[base+2]
		sX := int(p.secondaryOAM[base+3])

		if pixelX < sX || pixelX >= sX+8 || pixelY < sY+1 || pixelY >= sY+1+spriteHeight {
			continue
		}

		px := pixelX - sX
		py := pixelY - (sY + 1)
		if attributes&0x40 != 0 {
			px = 7 - px
		}
		if attributes&0x80 != 0 {
			py = spriteHeight - 1 - py
		}

		colorIndex := p.spritePatternColor(tileIndex, px, py)
		if colorIndex == 0 {
			continue
		}

		if p.spriteIndexes[i] == 0 && !p.sprite0Hit {
			p.checkSprite0Hit(pixelX, pixelY, colorIndex)
		}

		paletteIndex := attributes & 0x03
		paletteAddr := 0x3F10 + uint16(paletteIndex)*4 + uint16(colorIndex)
		nesColor := p.bus.Read(paletteAddr)

		return SpritePixel{
			colorIndex:   colorIndex,
			paletteIndex: paletteIndex,
			rgbColor:     NESColorToRGB(nesColor),
			spriteIndex:  int8(i),
			priority:     attributes&0x20 != 0,
		}
	}
	return SpritePixel{spriteIndex: -1, transparent: true}
}

func (p *PPU) spritePatternColor(tileIndex uint8, px, py int) uint8 {
	var patternBase uint16
	if p.ppuCtrl&0x20 == 0 {
		if p.ppuCtrl&0x08 != 0 {
			patternBase = 0x1000
		}
	} else {
		if tileIndex&0x01 != 0 {
			patternBase = 0x1000
		}
		tileIndex &= 0xFE
		if py >= 8 {
			tileIndex++
			py -= 8
		}
	}
	patternAddr := patternBase + uint16(tileIndex)*16 + uint16(py)
	low := p.bus.Read(patternAddr)
	high := p.bus.Read(patternAddr + 8)
	shift := 7 - px
	return ((high >> shift) & 1 << 1) | ((low >> shift) & 1)
}

// checkSprite0Hit sets the sprite-0-hit flag the first time an opaque sprite
// pixel belonging to OAM slot 0 overlaps an opaque background pixel, per the
// documented exclusions (x==255, left-edge clipping).
func (p *PPU) checkSprite0Hit(pixelX, pixelY int, spriteColorIndex uint8) {
	if p.sprite0Hit || !p.backgroundEnabled || !p.spritesEnabled {
		return
	}
	if pixelX >= 255 {
		return
	}
	if pixelX < 8 && (p.ppuMask&0x02 == 0 || p.ppuMask&0x04 == 0) {
		return
	}
	background := p.renderBackgroundPixel(pixelX, pixelY)
	if !background.transparent && spriteColorIndex != 0 {
		p.sprite0Hit = true
		p.ppuStatus |= 0x40
	}
}

func (p *PPU) compositeFinalPixel(background, sprite SpritePixel) uint32 {
	if sprite.transparent {
		if background.transparent {
			return NESColorToRGB(p.bus.Read(0x3F00))
		}
		return background.rgbColor
	}
	if background.transparent {
		return sprite.rgbColor
	}
	if sprite.priority && p.backgroundEnabled {
		return background.rgbColor
	}
	return sprite.rgbColor
}

func (p *PPU) updateRenderingFlags() {
	p.backgroundEnabled = p.ppuMask&0x08 != 0
	p.spritesEnabled = p.ppuMask&0x10 != 0
	p.renderingEnabled = p.backgroundEnabled || p.spritesEnabled
}

func (p *PPU) writePPUScroll(value uint8) {
	if !p.w {
		p.t = (p.t &^ 0x001F) | uint16(value)>>3
		p.x = value & 0x07
	} else {
		p.t = (p.t &^ 0x73E0) | (uint16(value)&0x07)<<12 | (uint16(value)&0xF8)<<2
	}
	p.w = !p.w
}

func (p *PPU) writePPUAddr(value uint8) {
	if !p.w {
		p.t = (p.t &^ 0x7F00) | (uint16(value)&0x3F)<<8
	} else {
		p.t = (p.t &^ 0x00FF) | uint16(value)
		p.v = p.t
	}
	p.w = !p.w
}

func (p *PPU) readPPUData() uint8 {
	var data uint8
	if p.v >= 0x3F00 {
		data = p.bus.Read(p.v)
		p.readBuffer = p.bus.Read(p.v & 0x2FFF)
	} else {
		data = p.readBuffer
		p.readBuffer = p.bus.Read(p.v)
	}
	p.advanceVRAMAddress()
	return data
}

func (p *PPU) writePPUData(value uint8) {
	p.bus.Write(p.v, value)
	p.advanceVRAMAddress()
}

func (p *PPU) advanceVRAMAddress() {
	if p.ppuCtrl&0x04 != 0 {
		p.v += 32
	} else {
		p.v++
	}
	p.v &= 0x3FFF
}

// GetFrameBuffer returns the current 256x240 RGB frame buffer.
func (p *PPU) GetFrameBuffer() [256 * 240]uint32 { return p.frameBuffer }

// FrameCount returns the number of frames completed since the last Reset.
func (p *PPU) FrameCount() uint64 { return p.frameCount }

// SetFrameCount restores the frame counter, e.g. from a loaded save state.
func (p *PPU) SetFrameCount(count uint64) { p.frameCount = count }

// Scanline and Cycle expose the PPU's current position for save states and
// diagnostics.
func (p *PPU) Scanline() int { return p.scanline }
func (p *PPU) Cycle() int    { return p.cycle }

// IsRenderingEnabled reports whether background or sprite rendering is on.
func (p *PPU) IsRenderingEnabled() bool { return p.renderingEnabled }

// IsVBlank reports whether PPUSTATUS currently has the vblank flag set.
func (p *PPU) IsVBlank() bool { return p.ppuStatus&0x80 != 0 }

// nesColorPalette is the canonical 64-entry NTSC 2C02 RGB palette.
var nesColorPalette = [64]uint32{
	0x666666, 0x002A88, 0x1412A7, 0x3B00A4, 0x5C007E, 0x6E0040, 0x6C0600, 0x561D00,
	0x333500, 0x0B4800, 0x005200, 0x004F08, 0x00404D, 0x000000, 0x000000, 0x000000,
	0xADADAD, 0x155FD9, 0x4240FF, 0x7527FE, 0xA01ACC, 0xB71E7B, 0xB53120, 0x994E00,
	0x6B6D00, 0x388700, 0x0C9300, 0x008F32, 0x007C8D, 0x000000, 0x000000, 0x000000,
	0xFFFEFF, 0x64B0FF, 0x9290FF, 0xC676FF, 0xF36AFF, 0xFE6ECC, 0xFE8170, 0xEA9E22,
	0xBCBE00, 0x88D800, 0x5CE430, 0x45E082, 0x48CDDE, 0x4F4F4F, 0x000000, 0x000000,
	0xFFFEFF, 0xC0DFFF, 0xD3D2FF, 0xE8C8FF, 0xFBC2FF, 0xFEC4EA, 0xFECCC5, 0xF7D8A5,
	0xE4E594, 0xCFF29B, 0xBEFBB3, 0xB8F8D8, 0xB8F8F8, 0x000000, 0x000000, 0x000000,
}

// NESColorToRGB converts a 2C02 color index (0-63) to a 24-bit RGB value.
func NESColorToRGB(colorIndex uint8) uint32 {
	if colorIndex >= 64 {
		return 0
	}
	return nesColorPalette[colorIndex]
}

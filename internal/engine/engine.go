// Package engine implements the scheduler that drives the CPU, PPU, APU,
// and cartridge mapper in lockstep, one CPU cycle at a time.
package engine

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"

	"gones/internal/apu"
	"gones/internal/bus"
	"gones/internal/cartridge"
	"gones/internal/cpu"
	"gones/internal/input"
	"gones/internal/ppu"
)

// ErrInvalidStateLoad is returned when a save-state blob's cartridge
// fingerprint does not match the cartridge currently loaded.
var ErrInvalidStateLoad = errors.New("engine: save state does not match loaded cartridge")

// ErrIllegalInstruction is recorded when the CPU executes a JAM/KIL opcode
// and halts. The engine latches IsFaulted; further RunOneCPUCycle calls are
// no-ops until PowerOn.
var ErrIllegalInstruction = errors.New("engine: CPU executed a halting opcode")

// SampleRange selects whether DrainAudio produces unipolar [0,1] or
// bipolar [-1,1] samples.
type SampleRange int

const (
	Unipolar SampleRange = iota
	Bipolar
)

// Config configures an Engine at construction. TV system is always NTSC;
// PAL timing is out of scope.
type Config struct {
	SampleRateHz int
	SampleRange  SampleRange
}

// Engine owns every piece of simulated hardware for one running cartridge
// and advances them together via RunOneCPUCycle. Components never hold back-pointers
// to each other; the engine is the single point of cross-component wiring.
type Engine struct {
	CPU    *cpu.CPU
	PPU    *ppu.PPU
	APU    *apu.APU
	Cart   *cartridge.Cartridge
	CPUBus *bus.CPUBus
	PPUBus *bus.PPUBus
	Input  *input.State

	config Config

	frameReady bool
	faulted    bool

	oamDMAActive   bool
	oamDMACycles   int
	oamDMAPage     uint8
	oamDMABuf      [256]uint8
	dmcStallCycles int

	faultErr error
}

// New constructs an Engine over an already-loaded cartridge. Call PowerOn
// before the first tick.
func New(cart *cartridge.Cartridge, cfg Config) *Engine {
	if cfg.SampleRateHz == 0 {
		cfg.SampleRateHz = 44100
	}

	e := &Engine{
		PPU:    ppu.New(),
		APU:    apu.New(),
		Cart:   cart,
		Input:  input.NewState(),
		config: cfg,
	}
	e.PPUBus = bus.NewPPUBus(cart)
	e.PPU.SetBus(e.PPUBus)
	e.CPUBus = bus.NewCPUBus(cart, e.PPU, e.APU, e.Input)
	e.CPU = cpu.New(e.CPUBus)
	e.APU.SetSampleRate(cfg.SampleRateHz)

	e.PPU.SetNMILine(e.CPU.SetNMILine)
	e.PPU.SetA12Line(cart.ClockA12)
	e.PPU.SetFrameCompleteCallback(func() { e.frameReady = true })

	return e
}

// PowerOn resets every component to its documented power-on state.
func (e *Engine) PowerOn() {
	e.Cart.Reset()
	e.PPU.Reset()
	e.APU.Reset()
	e.Input.Reset()
	e.CPU.Reset()
	e.frameReady = false
	e.faulted = false
	e.faultErr = nil
	e.oamDMAActive = false
	e.oamDMACycles = 0
}

// Reset is the soft-reset path: it resets only the mapper and the CPU.
// CPU RAM, PRG-RAM, and the PPU, APU, and controller state are left as
// they are, and a latched fault (IsFaulted) stays set.
func (e *Engine) Reset() {
	e.Cart.Reset()
	e.CPU.Reset()
	e.frameReady = false
}

// IsFaulted reports whether a fatal CPU error (a JAM/KIL opcode) has halted
// the engine. RunOneCPUCycle, RunOneFrame, and RunUntil become no-ops once
// set; only PowerOn clears it.
func (e *Engine) IsFaulted() bool { return e.faulted }

// FaultError returns the error that caused IsFaulted to latch, or nil.
func (e *Engine) FaultError() error { return e.faultErr }

// RunOneCPUCycle advances the engine by exactly one CPU cycle: one CPU tick
// (or one cycle of OAM-DMA stall), three PPU dots, and the APU's per-cycle
// work, in that fixed order, then polls interrupt lines for the next cycle.
func (e *Engine) RunOneCPUCycle() {
	if e.faulted {
		return
	}

	if !e.oamDMAActive {
		if page, pending := e.CPUBus.TakeOAMDMARequest(); pending {
			e.beginOAMDMA(page)
		}
	}

	if e.oamDMAActive {
		e.stepOAMDMA()
	} else if e.dmcStallCycles > 0 {
		e.dmcStallCycles--
	} else {
		e.CPU.Tick()
		if e.CPU.Halted() {
			e.faulted = true
			e.faultErr = ErrIllegalInstruction
		}
	}

	for i := 0; i < 3; i++ {
		e.PPU.Step()
	}
	e.APU.Step()
	e.dmcStallCycles += e.APU.TakeDMAStall()

	e.CPU.SetIRQLine(e.APU.IRQ() || e.Cart.IRQ())
}

// beginOAMDMA captures the source page and charges the stall: 513 cycles
// starting on an even CPU cycle, 514 on an odd one (one extra alignment
// cycle). The 256 bytes are copied immediately; nothing in this module can
// observe OAM mid-transfer since the CPU does not run during the stall, so
// spreading the copy itself across cycles would have no visible effect.
func (e *Engine) beginOAMDMA(page uint8) {
	for i := 0; i < 256; i++ {
		e.oamDMABuf[i] = e.CPUBus.Read(uint16(page)<<8 + uint16(i))
	}
	e.PPU.OAMDMAWrite(e.oamDMABuf[:])

	e.oamDMACycles = 513
	if e.CPU.Cycles()%2 == 1 {
		e.oamDMACycles = 514
	}
	e.oamDMAActive = true
}

func (e *Engine) stepOAMDMA() {
	e.oamDMACycles--
	if e.oamDMACycles <= 0 {
		e.oamDMAActive = false
	}
}

// RunOneFrame advances the engine until the PPU completes scanline 239 dot
// 340, i.e. exactly one full video frame's worth of CPU cycles.
func (e *Engine) RunOneFrame() {
	e.frameReady = false
	for !e.frameReady && !e.faulted {
		e.RunOneCPUCycle()
	}
}

// RunUntil advances the engine by exactly cpuCycles CPU cycles.
func (e *Engine) RunUntil(cpuCycles int) {
	for i := 0; i < cpuCycles && !e.faulted; i++ {
		e.RunOneCPUCycle()
	}
}

// SetController replaces one controller port's full button snapshot. port 0
// is $4016, port 1 is $4017.
func (e *Engine) SetController(port int, buttons [8]bool) {
	if port == 0 {
		e.Input.Controller1.SetButtons(buttons)
	} else {
		e.Input.Controller2.SetButtons(buttons)
	}
}

// PullFrame returns the current 256x240 RGB framebuffer. The PPU owns the
// backing array; callers receive a snapshot copy.
func (e *Engine) PullFrame() [256 * 240]uint32 {
	return e.PPU.GetFrameBuffer()
}

// DrainAudio writes mixed samples into buf and returns the count written,
// converting from the APU's unipolar [0,1] float32 mix to the engine's
// configured sample range.
func (e *Engine) DrainAudio(buf []float32) int {
	samples := e.APU.GetSamples()
	n := len(samples)
	if n > len(buf) {
		n = len(buf)
	}
	for i := 0; i < n; i++ {
		s := samples[i]
		if e.config.SampleRange == Bipolar {
			s = s*2 - 1
		}
		buf[i] = s
	}
	return n
}

// State is the gob-serializable snapshot of a running engine, validated at
// load time against the cartridge it was produced from.
type State struct {
	Fingerprint cartridge.Fingerprint

	CPU         cpu.State
	PPU         ppu.State
	APU         apu.State
	MapperState any
	BatteryRAM  []uint8
}

// SaveState captures a complete, restorable snapshot of the engine.
func (e *Engine) SaveState() (State, error) {
	return State{
		Fingerprint: e.Cart.Fingerprint(),
		CPU:         e.CPU.SaveState(),
		PPU:         e.PPU.SaveState(),
		APU:         e.APU.SaveState(),
		MapperState: e.Cart.MapperState(),
		BatteryRAM:  append([]uint8(nil), e.Cart.BatteryRAM()...),
	}, nil
}

// LoadState restores a snapshot previously produced by SaveState, rejecting
// it if it was not produced against the currently loaded cartridge.
func (e *Engine) LoadState(s State) error {
	if s.Fingerprint != e.Cart.Fingerprint() {
		return fmt.Errorf("%w: got %+v, want %+v", ErrInvalidStateLoad, s.Fingerprint, e.Cart.Fingerprint())
	}
	e.CPU.LoadState(s.CPU)
	e.PPU.LoadState(s.PPU)
	e.APU.LoadState(s.APU)
	if err := e.Cart.LoadMapperState(s.MapperState); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidStateLoad, err)
	}
	if len(s.BatteryRAM) > 0 {
		if err := e.Cart.LoadBatteryRAM(s.BatteryRAM); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidStateLoad, err)
		}
	}
	e.frameReady = false
	return nil
}

// EncodeState gob-encodes a State for file persistence.
func EncodeState(s State) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeState decodes a State previously produced by EncodeState. The
// mapper-state field's concrete type must already be registered with gob by
// the cartridge package's init.
func DecodeState(data []byte) (State, error) {
	var s State
	err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s)
	return s, err
}

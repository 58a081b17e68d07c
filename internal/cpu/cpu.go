// Package cpu implements a cycle-stepped Ricoh 2A03 (MOS 6502 core, no
// decimal mode) CPU emulation for the NES.
package cpu

// AddressingMode identifies how an instruction's operand address is formed.
type AddressingMode int

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect // (zp,X)
	IndirectIndexed // (zp),Y
)

const (
	stackBase = 0x0100

	nFlagMask  = 0x80
	vFlagMask  = 0x40
	unusedMask = 0x20
	bFlagMask  = 0x10
	dFlagMask  = 0x08
	iFlagMask  = 0x04
	zFlagMask  = 0x02
	cFlagMask  = 0x01

	zeroPageMask = 0xFF
	pageMask     = 0xFF00

	nmiVector   = 0xFFFA
	resetVector = 0xFFFC
	irqVector   = 0xFFFE
)

// Instruction describes one opcode's shape: its mnemonic, encoded length,
// base cycle count (before addressing-mode penalties), and addressing mode.
type Instruction struct {
	Name   string
	Opcode uint8
	Bytes  uint8
	Cycles uint8
	Mode   AddressingMode
}

// Memory is the bus the CPU reads and writes through. Every access — even
// dummy reads during addressing-mode resolution — goes through it, since the
// bus may have side effects (PPU register reads, controller shift clocking).
type Memory interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// CPU is a 6502 core stepped one bus cycle at a time via Tick. An entire
// instruction's register and memory effects are applied on the cycle its
// opcode is fetched; the instruction's remaining cycles are then accounted
// for by idle ticks that touch no state. This keeps total cycle counts,
// interrupt-polling cadence, and instruction boundaries exact while not
// modeling each instruction's internal micro-op sequence individually — the
// distinction only matters to code that inspects bus traffic mid-instruction,
// which nothing in this emulator does.
type CPU struct {
	A, X, Y, SP uint8
	PC          uint16

	C, Z, I, D, B, V, N bool

	memory Memory

	cycles uint64

	instructions [256]*Instruction

	pendingCycles int
	halted        bool

	nmiLine     bool
	nmiPrevious bool
	nmiPending  bool
	irqLine     bool
}

// New constructs a CPU wired to the given bus. Call Reset before the first
// Tick to run the power-on/reset sequence.
func New(memory Memory) *CPU {
	cpu := &CPU{memory: memory, SP: 0xFD}
	cpu.initInstructions()
	return cpu
}

// Reset runs the 6502's 7-cycle reset sequence: five dummy reads at the
// current PC followed by the two-byte reset vector fetch. SP is set to $FD,
// the value hardware reaches from power-on after its three suppressed
// pushes; a soft reset also sets $FD rather than lowering the current SP by 3.
func (cpu *CPU) Reset() {
	cpu.A, cpu.X, cpu.Y = 0, 0, 0
	cpu.SP = 0xFD
	cpu.C, cpu.Z, cpu.D, cpu.V, cpu.N = false, false, false, false, false
	cpu.I = true
	cpu.B = true

	for i := 0; i < 5; i++ {
		cpu.memory.Read(cpu.PC)
	}
	low := uint16(cpu.memory.Read(resetVector))
	high := uint16(cpu.memory.Read(resetVector + 1))
	cpu.PC = (high << 8) | low

	cpu.cycles += 7
	cpu.pendingCycles = 0
	cpu.halted = false
	cpu.nmiPending = false
	cpu.nmiPrevious = false
}

// SetNMILine latches the PPU's NMI output. The CPU services NMI on the
// rising edge — the transition the PPU produces once per frame at scanline
// 241 dot 1 when vblank NMI generation is enabled — not on the level, so a
// line held high does not retrigger NMI repeatedly.
func (cpu *CPU) SetNMILine(asserted bool) {
	if asserted && !cpu.nmiPrevious {
		cpu.nmiPending = true
	}
	cpu.nmiPrevious = asserted
	cpu.nmiLine = asserted
}

// SetIRQLine latches the combined mapper/APU IRQ line. IRQ is level-
// triggered: it is serviced whenever asserted and the I flag is clear, and
// re-fires every instruction boundary until the source deasserts it.
func (cpu *CPU) SetIRQLine(asserted bool) {
	cpu.irqLine = asserted
}

// Halted reports whether the CPU has executed a KIL/JAM opcode and stopped
// advancing. Only a Reset clears it.
func (cpu *CPU) Halted() bool { return cpu.halted }

// Cycles returns the running count of CPU cycles since the last Reset.
func (cpu *CPU) Cycles() uint64 { return cpu.cycles }

// State is the gob-serializable snapshot of the CPU's registers and
// in-flight interrupt/cycle-burn bookkeeping.
type State struct {
	A, X, Y, SP                  uint8
	PC                           uint16
	C, Z, I, D, B, V, N          bool
	Cycles                       uint64
	PendingCycles                int
	Halted                       bool
	NMILine, NMIPrevious, NMIPending, IRQLine bool
}

// SaveState captures the CPU's full register and interrupt-latch state.
func (cpu *CPU) SaveState() State {
	return State{
		A: cpu.A, X: cpu.X, Y: cpu.Y, SP: cpu.SP, PC: cpu.PC,
		C: cpu.C, Z: cpu.Z, I: cpu.I, D: cpu.D, B: cpu.B, V: cpu.V, N: cpu.N,
		Cycles:        cpu.cycles,
		PendingCycles: cpu.pendingCycles,
		Halted:        cpu.halted,
		NMILine:       cpu.nmiLine,
		NMIPrevious:   cpu.nmiPrevious,
		NMIPending:    cpu.nmiPending,
		IRQLine:       cpu.irqLine,
	}
}

// LoadState restores a snapshot previously produced by SaveState.
func (cpu *CPU) LoadState(s State) {
	cpu.A, cpu.X, cpu.Y, cpu.SP, cpu.PC = s.A, s.X, s.Y, s.SP, s.PC
	cpu.C, cpu.Z, cpu.I, cpu.D, cpu.B, cpu.V, cpu.N = s.C, s.Z, s.I, s.D, s.B, s.V, s.N
	cpu.cycles = s.Cycles
	cpu.pendingCycles = s.PendingCycles
	cpu.halted = s.Halted
	cpu.nmiLine = s.NMILine
	cpu.nmiPrevious = s.NMIPrevious
	cpu.nmiPending = s.NMIPending
	cpu.irqLine = s.IRQLine
}

// Tick advances the CPU by exactly one CPU cycle. Call it once per CPU cycle
// from the scheduler, after the bus has latched that cycle's interrupt lines
// via SetNMILine/SetIRQLine.
func (cpu *CPU) Tick() {
	cpu.cycles++

	if cpu.halted {
		return
	}

	if cpu.pendingCycles > 0 {
		cpu.pendingCycles--
		return
	}

	if cpu.nmiPending {
		cpu.nmiPending = false
		cpu.serviceInterrupt(nmiVector)
		return
	}
	if cpu.irqLine && !cpu.I {
		cpu.serviceInterrupt(irqVector)
		return
	}

	cpu.runInstruction()
}

// serviceInterrupt pushes PC and status and loads the given vector. The
// first cycle of the 7-cycle sequence is charged by the Tick call already in
// progress; the remaining six are idle burn cycles.
func (cpu *CPU) serviceInterrupt(vector uint16) {
	cpu.pushWord(cpu.PC)
	status := (cpu.GetStatusByte() &^ uint8(bFlagMask)) | unusedMask
	cpu.push(status)
	cpu.I = true
	low := uint16(cpu.memory.Read(vector))
	high := uint16(cpu.memory.Read(vector + 1))
	cpu.PC = (high << 8) | low
	cpu.pendingCycles = 6
}

// runInstruction fetches and fully executes one instruction's register and
// memory effects, then arms pendingCycles to burn the rest of its duration.
func (cpu *CPU) runInstruction() {
	opcode := cpu.memory.Read(cpu.PC)
	instruction := cpu.instructions[opcode]
	if instruction == nil {
		cpu.PC++
		cpu.pendingCycles = 1
		return
	}

	address, pageCrossed := cpu.getOperandAddress(instruction.Mode)
	extraCycles := cpu.executeInstruction(opcode, address, pageCrossed)

	if pageCrossed {
		switch opcode {
		case 0xBD, 0xB9, 0xB1, 0xBE, 0xBC, 0x7D, 0x79, 0x71, 0x3D, 0x39, 0x31,
			0x1D, 0x19, 0x11, 0x5D, 0x59, 0x51, 0xDD, 0xD9, 0xD1,
			0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC,
			0xBF, 0xB3, 0xD7, 0xF7, 0x17, 0x37, 0x57, 0x77:
			extraCycles++
		}
	}

	total := int(instruction.Cycles) + int(extraCycles)
	if total < 1 {
		total = 1
	}
	cpu.pendingCycles = total - 1
}

// getOperandAddress resolves the effective address for mode, advancing PC
// past the instruction's operand bytes, and reports whether indexing crossed
// a page boundary.
func (cpu *CPU) getOperandAddress(mode AddressingMode) (uint16, bool) {
	switch mode {
	case Implied, Accumulator:
		cpu.PC++
		return 0, false

	case Immediate:
		address := cpu.PC + 1
		cpu.PC += 2
		return address, false

	case ZeroPage:
		address := uint16(cpu.memory.Read(cpu.PC + 1))
		cpu.PC += 2
		return address, false

	case ZeroPageX:
		base := cpu.memory.Read(cpu.PC + 1)
		address := uint16((base + cpu.X) & zeroPageMask)
		cpu.PC += 2
		return address, false

	case ZeroPageY:
		base := cpu.memory.Read(cpu.PC + 1)
		address := uint16((base + cpu.Y) & zeroPageMask)
		cpu.PC += 2
		return address, false

	case Relative:
		offset := int8(cpu.memory.Read(cpu.PC + 1))
		oldPC := cpu.PC + 2
		newPC := uint16(int32(oldPC) + int32(offset))
		cpu.PC = oldPC
		pageCrossed := (oldPC & pageMask) != (newPC & pageMask)
		return newPC, pageCrossed

	case Absolute:
		low := uint16(cpu.memory.Read(cpu.PC + 1))
		high := uint16(cpu.memory.Read(cpu.PC + 2))
		address := (high << 8) | low
		cpu.PC += 3
		return address, false

	case AbsoluteX:
		low := uint16(cpu.memory.Read(cpu.PC + 1))
		high := uint16(cpu.memory.Read(cpu.PC + 2))
		base := (high << 8) | low
		address := base + uint16(cpu.X)
		cpu.PC += 3
		return address, (base & pageMask) != (address & pageMask)

	case AbsoluteY:
		low := uint16(cpu.memory.Read(cpu.PC + 1))
		high := uint16(cpu.memory.Read(cpu.PC + 2))
		base := (high << 8) | low
		address := base + uint16(cpu.Y)
		cpu.PC += 3
		return address, (base & pageMask) != (address & pageMask)

	case Indirect: // JMP only; reproduces the $xxFF page-wrap bug
		lowPtr := uint16(cpu.memory.Read(cpu.PC + 1))
		highPtr := uint16(cpu.memory.Read(cpu.PC + 2))
		ptr := (highPtr << 8) | lowPtr

		var address uint16
		if (ptr & zeroPageMask) == zeroPageMask {
			low := uint16(cpu.memory.Read(ptr))
			high := uint16(cpu.memory.Read(ptr & pageMask))
			address = (high << 8) | low
		} else {
			low := uint16(cpu.memory.Read(ptr))
			high := uint16(cpu.memory.Read(ptr + 1))
			address = (high << 8) | low
		}
		cpu.PC += 3
		return address, false

	case IndexedIndirect: // (zp,X)
		base := cpu.memory.Read(cpu.PC + 1)
		ptr := (base + cpu.X) & zeroPageMask
		low := uint16(cpu.memory.Read(uint16(ptr)))
		high := uint16(cpu.memory.Read(uint16((ptr + 1) & zeroPageMask)))
		address := (high << 8) | low
		cpu.PC += 2
		return address, false

	case IndirectIndexed: // (zp),Y
		ptr := uint16(cpu.memory.Read(cpu.PC + 1))
		low := uint16(cpu.memory.Read(ptr))
		high := uint16(cpu.memory.Read((ptr + 1) & zeroPageMask))
		base := (high << 8) | low
		address := base + uint16(cpu.Y)
		cpu.PC += 2
		return address, (base & pageMask) != (address & pageMask)

	default:
		return 0, false
	}
}

func (cpu *CPU) push(value uint8) {
	cpu.memory.Write(stackBase+uint16(cpu.SP), value)
	cpu.SP--
}

func (cpu *CPU) pop() uint8 {
	cpu.SP++
	return cpu.memory.Read(stackBase + uint16(cpu.SP))
}

func (cpu *CPU) pushWord(value uint16) {
	cpu.push(uint8(value >> 8))
	cpu.push(uint8(value & 0xFF))
}

func (cpu *CPU) popWord() uint16 {
	low := uint16(cpu.pop())
	high := uint16(cpu.pop())
	return (high << 8) | low
}

func (cpu *CPU) setZN(value uint8) {
	cpu.Z = value == 0
	cpu.N = (value & nFlagMask) != 0
}

// GetStatusByte packs the flags into the processor status byte. Bit 5 is
// always read back set.
func (cpu *CPU) GetStatusByte() uint8 {
	var status uint8
	if cpu.N {
		status |= nFlagMask
	}
	if cpu.V {
		status |= vFlagMask
	}
	status |= unusedMask
	if cpu.B {
		status |= bFlagMask
	}
	if cpu.D {
		status |= dFlagMask
	}
	if cpu.I {
		status |= iFlagMask
	}
	if cpu.Z {
		status |= zFlagMask
	}
	if cpu.C {
		status |= cFlagMask
	}
	return status
}

// SetStatusByte unpacks status into the flags (PLP, RTI).
func (cpu *CPU) SetStatusByte(status uint8) {
	cpu.N = (status & nFlagMask) != 0
	cpu.V = (status & vFlagMask) != 0
	cpu.B = (status & bFlagMask) != 0
	cpu.D = (status & dFlagMask) != 0
	cpu.I = (status & iFlagMask) != 0
	cpu.Z = (status & zFlagMask) != 0
	cpu.C = (status & cFlagMask) != 0
}

// Load operations
func (cpu *CPU) lda(address uint16) uint8 { cpu.A = cpu.memory.Read(address); cpu.setZN(cpu.A); return 0 }
func (cpu *CPU) ldx(address uint16) uint8 { cpu.X = cpu.memory.Read(address); cpu.setZN(cpu.X); return 0 }
func (cpu *CPU) ldy(address uint16) uint8 { cpu.Y = cpu.memory.Read(address); cpu.setZN(cpu.Y); return 0 }

// Store operations
func (cpu *CPU) sta(address uint16) uint8 { cpu.memory.Write(address, cpu.A); return 0 }
func (cpu *CPU) stx(address uint16) uint8 { cpu.memory.Write(address, cpu.X); return 0 }
func (cpu *CPU) sty(address uint16) uint8 { cpu.memory.Write(address, cpu.Y); return 0 }

func (cpu *CPU) adc(address uint16) uint8 {
	value := cpu.memory.Read(address)
	carry := uint8(0)
	if cpu.C {
		carry = 1
	}
	result := uint16(cpu.A) + uint16(value) + uint16(carry)
	cpu.V = ((cpu.A^uint8(result))&0x80) != 0 && ((cpu.A^value)&0x80) == 0
	cpu.C = result > 0xFF
	cpu.A = uint8(result)
	cpu.setZN(cpu.A)
	return 0
}

func (cpu *CPU) sbc(address uint16) uint8 {
	value := cpu.memory.Read(address) ^ 0xFF
	carry := uint8(0)
	if cpu.C {
		carry = 1
	}
	result := uint16(cpu.A) + uint16(value) + uint16(carry)
	cpu.V = ((cpu.A^uint8(result))&0x80) != 0 && ((cpu.A^value)&0x80) == 0
	cpu.C = result > 0xFF
	cpu.A = uint8(result)
	cpu.setZN(cpu.A)
	return 0
}

func (cpu *CPU) and(address uint16) uint8 { cpu.A &= cpu.memory.Read(address); cpu.setZN(cpu.A); return 0 }
func (cpu *CPU) ora(address uint16) uint8 { cpu.A |= cpu.memory.Read(address); cpu.setZN(cpu.A); return 0 }
func (cpu *CPU) eor(address uint16) uint8 { cpu.A ^= cpu.memory.Read(address); cpu.setZN(cpu.A); return 0 }

func (cpu *CPU) asl(address uint16) uint8 {
	value := cpu.memory.Read(address)
	cpu.C = (value & 0x80) != 0
	value <<= 1
	cpu.memory.Write(address, value)
	cpu.setZN(value)
	return 0
}

func (cpu *CPU) lsr(address uint16) uint8 {
	value := cpu.memory.Read(address)
	cpu.C = (value & 0x01) != 0
	value >>= 1
	cpu.memory.Write(address, value)
	cpu.setZN(value)
	return 0
}

func (cpu *CPU) rol(address uint16) uint8 {
	value := cpu.memory.Read(address)
	oldCarry := cpu.C
	cpu.C = (value & 0x80) != 0
	value <<= 1
	if oldCarry {
		value |= 0x01
	}
	cpu.memory.Write(address, value)
	cpu.setZN(value)
	return 0
}

func (cpu *CPU) ror(address uint16) uint8 {
	value := cpu.memory.Read(address)
	oldCarry := cpu.C
	cpu.C = (value & 0x01) != 0
	value >>= 1
	if oldCarry {
		value |= 0x80
	}
	cpu.memory.Write(address, value)
	cpu.setZN(value)
	return 0
}

func (cpu *CPU) cmp(address uint16) uint8 {
	value := cpu.memory.Read(address)
	result := cpu.A - value
	cpu.C = cpu.A >= value
	cpu.setZN(result)
	return 0
}

func (cpu *CPU) cpx(address uint16) uint8 {
	value := cpu.memory.Read(address)
	result := cpu.X - value
	cpu.C = cpu.X >= value
	cpu.setZN(result)
	return 0
}

func (cpu *CPU) cpy(address uint16) uint8 {
	value := cpu.memory.Read(address)
	result := cpu.Y - value
	cpu.C = cpu.Y >= value
	cpu.setZN(result)
	return 0
}

func (cpu *CPU) inc(address uint16) uint8 {
	value := cpu.memory.Read(address) + 1
	cpu.memory.Write(address, value)
	cpu.setZN(value)
	return 0
}

func (cpu *CPU) dec(address uint16) uint8 {
	value := cpu.memory.Read(address) - 1
	cpu.memory.Write(address, value)
	cpu.setZN(value)
	return 0
}

func (cpu *CPU) inx(uint16) uint8 { cpu.X++; cpu.setZN(cpu.X); return 0 }
func (cpu *CPU) dex(uint16) uint8 { cpu.X--; cpu.setZN(cpu.X); return 0 }
func (cpu *CPU) iny(uint16) uint8 { cpu.Y++; cpu.setZN(cpu.Y); return 0 }
func (cpu *CPU) dey(uint16) uint8 { cpu.Y--; cpu.setZN(cpu.Y); return 0 }

func (cpu *CPU) tax(uint16) uint8 { cpu.X = cpu.A; cpu.setZN(cpu.X); return 0 }
func (cpu *CPU) txa(uint16) uint8 { cpu.A = cpu.X; cpu.setZN(cpu.A); return 0 }
func (cpu *CPU) tay(uint16) uint8 { cpu.Y = cpu.A; cpu.setZN(cpu.Y); return 0 }
func (cpu *CPU) tya(uint16) uint8 { cpu.A = cpu.Y; cpu.setZN(cpu.A); return 0 }
func (cpu *CPU) tsx(uint16) uint8 { cpu.X = cpu.SP; cpu.setZN(cpu.X); return 0 }
func (cpu *CPU) txs(uint16) uint8 { cpu.SP = cpu.X; return 0 }

func (cpu *CPU) pha(uint16) uint8 { cpu.push(cpu.A); return 0 }
func (cpu *CPU) pla(uint16) uint8 { cpu.A = cpu.pop(); cpu.setZN(cpu.A); return 0 }
func (cpu *CPU) php(uint16) uint8 { cpu.push(cpu.GetStatusByte() | bFlagMask); return 0 }
func (cpu *CPU) plp(uint16) uint8 { cpu.SetStatusByte(cpu.pop()); return 0 }

func (cpu *CPU) clc(uint16) uint8 { cpu.C = false; return 0 }
func (cpu *CPU) sec(uint16) uint8 { cpu.C = true; return 0 }
func (cpu *CPU) cli(uint16) uint8 { cpu.I = false; return 0 }
func (cpu *CPU) sei(uint16) uint8 { cpu.I = true; return 0 }
func (cpu *CPU) clv(uint16) uint8 { cpu.V = false; return 0 }
func (cpu *CPU) cld(uint16) uint8 { cpu.D = false; return 0 }
func (cpu *CPU) sed(uint16) uint8 { cpu.D = true; return 0 }

func (cpu *CPU) jmp(address uint16) uint8 { cpu.PC = address; return 0 }

func (cpu *CPU) jsr(address uint16) uint8 {
	cpu.pushWord(cpu.PC - 1)
	cpu.PC = address
	return 0
}

func (cpu *CPU) rts(uint16) uint8 { cpu.PC = cpu.popWord() + 1; return 0 }

func (cpu *CPU) rti(uint16) uint8 {
	cpu.SetStatusByte(cpu.pop())
	cpu.PC = cpu.popWord()
	return 0
}

func (cpu *CPU) bcc(address uint16, pageCrossed bool) uint8 { return cpu.branch(!cpu.C, address, pageCrossed) }
func (cpu *CPU) bcs(address uint16, pageCrossed bool) uint8 { return cpu.branch(cpu.C, address, pageCrossed) }
func (cpu *CPU) bne(address uint16, pageCrossed bool) uint8 { return cpu.branch(!cpu.Z, address, pageCrossed) }
func (cpu *CPU) beq(address uint16, pageCrossed bool) uint8 { return cpu.branch(cpu.Z, address, pageCrossed) }
func (cpu *CPU) bpl(address uint16, pageCrossed bool) uint8 { return cpu.branch(!cpu.N, address, pageCrossed) }
func (cpu *CPU) bmi(address uint16, pageCrossed bool) uint8 { return cpu.branch(cpu.N, address, pageCrossed) }
func (cpu *CPU) bvc(address uint16, pageCrossed bool) uint8 { return cpu.branch(!cpu.V, address, pageCrossed) }
func (cpu *CPU) bvs(address uint16, pageCrossed bool) uint8 { return cpu.branch(cpu.V, address, pageCrossed) }

func (cpu *CPU) branch(taken bool, address uint16, pageCrossed bool) uint8 {
	if !taken {
		return 0
	}
	cpu.PC = address
	if pageCrossed {
		return 2
	}
	return 1
}

func (cpu *CPU) bit(address uint16) uint8 {
	value := cpu.memory.Read(address)
	cpu.N = (value & nFlagMask) != 0
	cpu.V = (value & vFlagMask) != 0
	cpu.Z = (cpu.A & value) == 0
	return 0
}

func (cpu *CPU) nop(uint16) uint8 { return 0 }

// brk pushes PC+2 (the opcode plus a padding byte), status with B set, and
// loads the IRQ vector.
func (cpu *CPU) brk(uint16) uint8 {
	cpu.PC++
	cpu.pushWord(cpu.PC)
	cpu.push(cpu.GetStatusByte() | bFlagMask)
	cpu.I = true
	low := uint16(cpu.memory.Read(irqVector))
	high := uint16(cpu.memory.Read(irqVector + 1))
	cpu.PC = (high << 8) | low
	return 0
}

// kil (a.k.a. JAM/HLT) locks the CPU up the way real hardware does when it
// decodes one of these opcodes: the program counter stops advancing and no
// further instructions execute until Reset.
func (cpu *CPU) kil(uint16) uint8 {
	cpu.halted = true
	return 0
}

// --- Unofficial (undocumented) opcodes ---

func (cpu *CPU) lax(address uint16) uint8 {
	cpu.A = cpu.memory.Read(address)
	cpu.X = cpu.A
	cpu.setZN(cpu.A)
	return 0
}

func (cpu *CPU) sax(address uint16) uint8 { cpu.memory.Write(address, cpu.A&cpu.X); return 0 }

func (cpu *CPU) dcp(address uint16) uint8 {
	value := cpu.memory.Read(address) - 1
	cpu.memory.Write(address, value)
	result := cpu.A - value
	cpu.C = cpu.A >= value
	cpu.setZN(result)
	return 0
}

func (cpu *CPU) isb(address uint16) uint8 {
	value := cpu.memory.Read(address) + 1
	cpu.memory.Write(address, value)
	cpu.sbc(address)
	return 0
}

func (cpu *CPU) slo(address uint16) uint8 {
	value := cpu.memory.Read(address)
	cpu.C = (value & 0x80) != 0
	value <<= 1
	cpu.memory.Write(address, value)
	cpu.A |= value
	cpu.setZN(cpu.A)
	return 0
}

func (cpu *CPU) rla(address uint16) uint8 {
	value := cpu.memory.Read(address)
	oldCarry := cpu.C
	cpu.C = (value & 0x80) != 0
	value <<= 1
	if oldCarry {
		value |= 0x01
	}
	cpu.memory.Write(address, value)
	cpu.A &= value
	cpu.setZN(cpu.A)
	return 0
}

func (cpu *CPU) sre(address uint16) uint8 {
	value := cpu.memory.Read(address)
	cpu.C = (value & 0x01) != 0
	value >>= 1
	cpu.memory.Write(address, value)
	cpu.A ^= value
	cpu.setZN(cpu.A)
	return 0
}

func (cpu *CPU) rra(address uint16) uint8 {
	value := cpu.memory.Read(address)
	oldCarry := cpu.C
	cpu.C = (value & 0x01) != 0
	value >>= 1
	if oldCarry {
		value |= 0x80
	}
	cpu.memory.Write(address, value)
	cpu.adc(address)
	return 0
}

// anc (0x0B/0x2B): AND immediate, then copy bit 7 of the result into carry —
// used historically as a cheap way to load the carry from a constant.
func (cpu *CPU) anc(address uint16) uint8 {
	cpu.A &= cpu.memory.Read(address)
	cpu.setZN(cpu.A)
	cpu.C = (cpu.A & 0x80) != 0
	return 0
}

// alr (0x4B): AND immediate, then LSR the accumulator.
func (cpu *CPU) alr(address uint16) uint8 {
	cpu.A &= cpu.memory.Read(address)
	cpu.C = (cpu.A & 0x01) != 0
	cpu.A >>= 1
	cpu.setZN(cpu.A)
	return 0
}

// arr (0x6B): AND immediate, then ROR the accumulator; carry and overflow
// come out of bits 6 and 5 of the rotated result rather than the shifted-out
// bit, which is the well-documented quirk that distinguishes it from AND+ROR.
func (cpu *CPU) arr(address uint16) uint8 {
	cpu.A &= cpu.memory.Read(address)
	carryIn := cpu.C
	cpu.A >>= 1
	if carryIn {
		cpu.A |= 0x80
	}
	cpu.setZN(cpu.A)
	bit6 := (cpu.A>>6)&1 != 0
	bit5 := (cpu.A>>5)&1 != 0
	cpu.C = bit6
	cpu.V = bit6 != bit5
	return 0
}

// axs/sbx (0xCB): X = (A & X) - immediate, setting carry as an unsigned
// comparison would (no borrow on A&X >= value).
func (cpu *CPU) axs(address uint16) uint8 {
	value := cpu.memory.Read(address)
	and := cpu.A & cpu.X
	cpu.C = and >= value
	cpu.X = and - value
	cpu.setZN(cpu.X)
	return 0
}

// executeInstruction dispatches opcode to its operation and returns any
// extra cycles earned beyond the instruction's base Cycles (branches taken,
// and — combined with the page-crossed check in runInstruction — indexed
// reads that cross a page).
func (cpu *CPU) executeInstruction(opcode uint8, address uint16, pageCrossed bool) uint8 {
	switch opcode {
	case 0xA9, 0xA5, 0xB5, 0xAD, 0xBD, 0xB9, 0xA1, 0xB1:
		return cpu.lda(address)
	case 0xA2, 0xA6, 0xB6, 0xAE, 0xBE:
		return cpu.ldx(address)
	case 0xA0, 0xA4, 0xB4, 0xAC, 0xBC:
		return cpu.ldy(address)
	case 0x85, 0x95, 0x8D, 0x9D, 0x99, 0x81, 0x91:
		return cpu.sta(address)
	case 0x86, 0x96, 0x8E:
		return cpu.stx(address)
	case 0x84, 0x94, 0x8C:
		return cpu.sty(address)

	case 0x69, 0x65, 0x75, 0x6D, 0x7D, 0x79, 0x61, 0x71:
		return cpu.adc(address)
	case 0xE9, 0xEB, 0xE5, 0xF5, 0xED, 0xFD, 0xF9, 0xE1, 0xF1:
		return cpu.sbc(address)

	case 0x29, 0x25, 0x35, 0x2D, 0x3D, 0x39, 0x21, 0x31:
		return cpu.and(address)
	case 0x09, 0x05, 0x15, 0x0D, 0x1D, 0x19, 0x01, 0x11:
		return cpu.ora(address)
	case 0x49, 0x45, 0x55, 0x4D, 0x5D, 0x59, 0x41, 0x51:
		return cpu.eor(address)

	case 0x0A:
		cpu.C = (cpu.A & 0x80) != 0
		cpu.A <<= 1
		cpu.setZN(cpu.A)
		return 0
	case 0x06, 0x16, 0x0E, 0x1E:
		return cpu.asl(address)
	case 0x4A:
		cpu.C = (cpu.A & 0x01) != 0
		cpu.A >>= 1
		cpu.setZN(cpu.A)
		return 0
	case 0x46, 0x56, 0x4E, 0x5E:
		return cpu.lsr(address)
	case 0x2A:
		oldCarry := cpu.C
		cpu.C = (cpu.A & 0x80) != 0
		cpu.A <<= 1
		if oldCarry {
			cpu.A |= 0x01
		}
		cpu.setZN(cpu.A)
		return 0
	case 0x26, 0x36, 0x2E, 0x3E:
		return cpu.rol(address)
	case 0x6A:
		oldCarry := cpu.C
		cpu.C = (cpu.A & 0x01) != 0
		cpu.A >>= 1
		if oldCarry {
			cpu.A |= 0x80
		}
		cpu.setZN(cpu.A)
		return 0
	case 0x66, 0x76, 0x6E, 0x7E:
		return cpu.ror(address)

	case 0xC9, 0xC5, 0xD5, 0xCD, 0xDD, 0xD9, 0xC1, 0xD1:
		return cpu.cmp(address)
	case 0xE0, 0xE4, 0xEC:
		return cpu.cpx(address)
	case 0xC0, 0xC4, 0xCC:
		return cpu.cpy(address)

	case 0xE6, 0xF6, 0xEE, 0xFE:
		return cpu.inc(address)
	case 0xC6, 0xD6, 0xCE, 0xDE:
		return cpu.dec(address)
	case 0xE8:
		return cpu.inx(address)
	case 0xCA:
		return cpu.dex(address)
	case 0xC8:
		return cpu.iny(address)
	case 0x88:
		return cpu.dey(address)

	case 0xAA:
		return cpu.tax(address)
	case 0x8A:
		return cpu.txa(address)
	case 0xA8:
		return cpu.tay(address)
	case 0x98:
		return cpu.tya(address)
	case 0xBA:
		return cpu.tsx(address)
	case 0x9A:
		return cpu.txs(address)

	case 0x48:
		return cpu.pha(address)
	case 0x68:
		return cpu.pla(address)
	case 0x08:
		return cpu.php(address)
	case 0x28:
		return cpu.plp(address)

	case 0x18:
		return cpu.clc(address)
	case 0x38:
		return cpu.sec(address)
	case 0x58:
		return cpu.cli(address)
	case 0x78:
		return cpu.sei(address)
	case 0xB8:
		return cpu.clv(address)
	case 0xD8:
		return cpu.cld(address)
	case 0xF8:
		return cpu.sed(address)

	case 0x4C, 0x6C:
		return cpu.jmp(address)
	case 0x20:
		return cpu.jsr(address)
	case 0x60:
		return cpu.rts(address)
	case 0x40:
		return cpu.rti(address)

	case 0x90:
		return cpu.bcc(address, pageCrossed)
	case 0xB0:
		return cpu.bcs(address, pageCrossed)
	case 0xD0:
		return cpu.bne(address, pageCrossed)
	case 0xF0:
		return cpu.beq(address, pageCrossed)
	case 0x10:
		return cpu.bpl(address, pageCrossed)
	case 0x30:
		return cpu.bmi(address, pageCrossed)
	case 0x50:
		return cpu.bvc(address, pageCrossed)
	case 0x70:
		return cpu.bvs(address, pageCrossed)

	case 0x24, 0x2C:
		return cpu.bit(address)
	case 0x00:
		return cpu.brk(address)

	case 0xEA, 0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA, 0x80, 0x82, 0x89, 0xC2, 0xE2,
		0x04, 0x44, 0x64, 0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4, 0x0C, 0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC:
		return cpu.nop(address)

	case 0xA3, 0xA7, 0xAF, 0xB3, 0xB7, 0xBF:
		return cpu.lax(address)
	case 0x83, 0x87, 0x8F, 0x97:
		return cpu.sax(address)
	case 0xC3, 0xC7, 0xCF, 0xD3, 0xD7, 0xDF, 0xDB:
		return cpu.dcp(address)
	case 0xE3, 0xE7, 0xEF, 0xF3, 0xF7, 0xFF, 0xFB:
		return cpu.isb(address)
	case 0x03, 0x07, 0x0F, 0x13, 0x17, 0x1F, 0x1B:
		return cpu.slo(address)
	case 0x23, 0x27, 0x2F, 0x33, 0x37, 0x3F, 0x3B:
		return cpu.rla(address)
	case 0x43, 0x47, 0x4F, 0x53, 0x57, 0x5F, 0x5B:
		return cpu.sre(address)
	case 0x63, 0x67, 0x6F, 0x73, 0x77, 0x7F, 0x7B:
		return cpu.rra(address)

	case 0x0B, 0x2B:
		return cpu.anc(address)
	case 0x4B:
		return cpu.alr(address)
	case 0x6B:
		return cpu.arr(address)
	case 0xCB:
		return cpu.axs(address)

	case 0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xB2, 0xD2, 0xF2:
		return cpu.kil(address)

	default:
		return 0
	}
}

// initInstructions populates the opcode table with every official
// instruction, documented unofficial opcode, and KIL variant.
func (cpu *CPU) initInstructions() {
	add := func(name string, opcode uint8, bytes, cycles uint8, mode AddressingMode) {
		cpu.instructions[opcode] = &Instruction{Name: name, Opcode: opcode, Bytes: bytes, Cycles: cycles, Mode: mode}
	}

	add("LDA", 0xA9, 2, 2, Immediate)
	add("LDA", 0xA5, 2, 3, ZeroPage)
	add("LDA", 0xB5, 2, 4, ZeroPageX)
	add("LDA", 0xAD, 3, 4, Absolute)
	add("LDA", 0xBD, 3, 4, AbsoluteX)
	add("LDA", 0xB9, 3, 4, AbsoluteY)
	add("LDA", 0xA1, 2, 6, IndexedIndirect)
	add("LDA", 0xB1, 2, 5, IndirectIndexed)

	add("LDX", 0xA2, 2, 2, Immediate)
	add("LDX", 0xA6, 2, 3, ZeroPage)
	add("LDX", 0xB6, 2, 4, ZeroPageY)
	add("LDX", 0xAE, 3, 4, Absolute)
	add("LDX", 0xBE, 3, 4, AbsoluteY)

	add("LDY", 0xA0, 2, 2, Immediate)
	add("LDY", 0xA4, 2, 3, ZeroPage)
	add("LDY", 0xB4, 2, 4, ZeroPageX)
	add("LDY", 0xAC, 3, 4, Absolute)
	add("LDY", 0xBC, 3, 4, AbsoluteX)

	add("STA", 0x85, 2, 3, ZeroPage)
	add("STA", 0x95, 2, 4, ZeroPageX)
	add("STA", 0x8D, 3, 4, Absolute)
	add("STA", 0x9D, 3, 5, AbsoluteX)
	add("STA", 0x99, 3, 5, AbsoluteY)
	add("STA", 0x81, 2, 6, IndexedIndirect)
	add("STA", 0x91, 2, 6, IndirectIndexed)

	add("STX", 0x86, 2, 3, ZeroPage)
	add("STX", 0x96, 2, 4, ZeroPageY)
	add("STX", 0x8E, 3, 4, Absolute)

	add("STY", 0x84, 2, 3, ZeroPage)
	add("STY", 0x94, 2, 4, ZeroPageX)
	add("STY", 0x8C, 3, 4, Absolute)

	add("ADC", 0x69, 2, 2, Immediate)
	add("ADC", 0x65, 2, 3, ZeroPage)
	add("ADC", 0x75, 2, 4, ZeroPageX)
	add("ADC", 0x6D, 3, 4, Absolute)
	add("ADC", 0x7D, 3, 4, AbsoluteX)
	add("ADC", 0x79, 3, 4, AbsoluteY)
	add("ADC", 0x61, 2, 6, IndexedIndirect)
	add("ADC", 0x71, 2, 5, IndirectIndexed)

	add("SBC", 0xE9, 2, 2, Immediate)
	add("SBC", 0xE5, 2, 3, ZeroPage)
	add("SBC", 0xF5, 2, 4, ZeroPageX)
	add("SBC", 0xED, 3, 4, Absolute)
	add("SBC", 0xFD, 3, 4, AbsoluteX)
	add("SBC", 0xF9, 3, 4, AbsoluteY)
	add("SBC", 0xE1, 2, 6, IndexedIndirect)
	add("SBC", 0xF1, 2, 5, IndirectIndexed)
	add("SBC", 0xEB, 2, 2, Immediate) // unofficial duplicate of 0xE9

	add("AND", 0x29, 2, 2, Immediate)
	add("AND", 0x25, 2, 3, ZeroPage)
	add("AND", 0x35, 2, 4, ZeroPageX)
	add("AND", 0x2D, 3, 4, Absolute)
	add("AND", 0x3D, 3, 4, AbsoluteX)
	add("AND", 0x39, 3, 4, AbsoluteY)
	add("AND", 0x21, 2, 6, IndexedIndirect)
	add("AND", 0x31, 2, 5, IndirectIndexed)

	add("ORA", 0x09, 2, 2, Immediate)
	add("ORA", 0x05, 2, 3, ZeroPage)
	add("ORA", 0x15, 2, 4, ZeroPageX)
	add("ORA", 0x0D, 3, 4, Absolute)
	add("ORA", 0x1D, 3, 4, AbsoluteX)
	add("ORA", 0x19, 3, 4, AbsoluteY)
	add("ORA", 0x01, 2, 6, IndexedIndirect)
	add("ORA", 0x11, 2, 5, IndirectIndexed)

	add("EOR", 0x49, 2, 2, Immediate)
	add("EOR", 0x45, 2, 3, ZeroPage)
	add("EOR", 0x55, 2, 4, ZeroPageX)
	add("EOR", 0x4D, 3, 4, Absolute)
	add("EOR", 0x5D, 3, 4, AbsoluteX)
	add("EOR", 0x59, 3, 4, AbsoluteY)
	add("EOR", 0x41, 2, 6, IndexedIndirect)
	add("EOR", 0x51, 2, 5, IndirectIndexed)

	add("ASL", 0x0A, 1, 2, Accumulator)
	add("ASL", 0x06, 2, 5, ZeroPage)
	add("ASL", 0x16, 2, 6, ZeroPageX)
	add("ASL", 0x0E, 3, 6, Absolute)
	add("ASL", 0x1E, 3, 7, AbsoluteX)

	add("LSR", 0x4A, 1, 2, Accumulator)
	add("LSR", 0x46, 2, 5, ZeroPage)
	add("LSR", 0x56, 2, 6, ZeroPageX)
	add("LSR", 0x4E, 3, 6, Absolute)
	add("LSR", 0x5E, 3, 7, AbsoluteX)

	add("ROL", 0x2A, 1, 2, Accumulator)
	add("ROL", 0x26, 2, 5, ZeroPage)
	add("ROL", 0x36, 2, 6, ZeroPageX)
	add("ROL", 0x2E, 3, 6, Absolute)
	add("ROL", 0x3E, 3, 7, AbsoluteX)

	add("ROR", 0x6A, 1, 2, Accumulator)
	add("ROR", 0x66, 2, 5, ZeroPage)
	add("ROR", 0x76, 2, 6, ZeroPageX)
	add("ROR", 0x6E, 3, 6, Absolute)
	add("ROR", 0x7E, 3, 7, AbsoluteX)

	add("CMP", 0xC9, 2, 2, Immediate)
	add("CMP", 0xC5, 2, 3, ZeroPage)
	add("CMP", 0xD5, 2, 4, ZeroPageX)
	add("CMP", 0xCD, 3, 4, Absolute)
	add("CMP", 0xDD, 3, 4, AbsoluteX)
	add("CMP", 0xD9, 3, 4, AbsoluteY)
	add("CMP", 0xC1, 2, 6, IndexedIndirect)
	add("CMP", 0xD1, 2, 5, IndirectIndexed)

	add("CPX", 0xE0, 2, 2, Immediate)
	add("CPX", 0xE4, 2, 3, ZeroPage)
	add("CPX", 0xEC, 3, 4, Absolute)

	add("CPY", 0xC0, 2, 2, Immediate)
	add("CPY", 0xC4, 2, 3, ZeroPage)
	add("CPY", 0xCC, 3, 4, Absolute)

	add("INC", 0xE6, 2, 5, ZeroPage)
	add("INC", 0xF6, 2, 6, ZeroPageX)
	add("INC", 0xEE, 3, 6, Absolute)
	add("INC", 0xFE, 3, 7, AbsoluteX)

	add("DEC", 0xC6, 2, 5, ZeroPage)
	add("DEC", 0xD6, 2, 6, ZeroPageX)
	add("DEC", 0xCE, 3, 6, Absolute)
	add("DEC", 0xDE, 3, 7, AbsoluteX)

	add("INX", 0xE8, 1, 2, Implied)
	add("DEX", 0xCA, 1, 2, Implied)
	add("INY", 0xC8, 1, 2, Implied)
	add("DEY", 0x88, 1, 2, Implied)

	add("TAX", 0xAA, 1, 2, Implied)
	add("TXA", 0x8A, 1, 2, Implied)
	add("TAY", 0xA8, 1, 2, Implied)
	add("TYA", 0x98, 1, 2, Implied)
	add("TSX", 0xBA, 1, 2, Implied)
	add("TXS", 0x9A, 1, 2, Implied)

	add("PHA", 0x48, 1, 3, Implied)
	add("PLA", 0x68, 1, 4, Implied)
	add("PHP", 0x08, 1, 3, Implied)
	add("PLP", 0x28, 1, 4, Implied)

	add("CLC", 0x18, 1, 2, Implied)
	add("SEC", 0x38, 1, 2, Implied)
	add("CLI", 0x58, 1, 2, Implied)
	add("SEI", 0x78, 1, 2, Implied)
	add("CLV", 0xB8, 1, 2, Implied)
	add("CLD", 0xD8, 1, 2, Implied)
	add("SED", 0xF8, 1, 2, Implied)

	add("JMP", 0x4C, 3, 3, Absolute)
	add("JMP", 0x6C, 3, 5, Indirect)
	add("JSR", 0x20, 3, 6, Absolute)
	add("RTS", 0x60, 1, 6, Implied)
	add("RTI", 0x40, 1, 6, Implied)

	add("BCC", 0x90, 2, 2, Relative)
	add("BCS", 0xB0, 2, 2, Relative)
	add("BNE", 0xD0, 2, 2, Relative)
	add("BEQ", 0xF0, 2, 2, Relative)
	add("BPL", 0x10, 2, 2, Relative)
	add("BMI", 0x30, 2, 2, Relative)
	add("BVC", 0x50, 2, 2, Relative)
	add("BVS", 0x70, 2, 2, Relative)

	add("BIT", 0x24, 2, 3, ZeroPage)
	add("BIT", 0x2C, 3, 4, Absolute)
	add("BRK", 0x00, 1, 7, Implied)
	add("NOP", 0xEA, 1, 2, Implied)

	for _, op := range []uint8{0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA} {
		add("NOP", op, 1, 2, Implied)
	}
	for _, op := range []uint8{0x80, 0x82, 0x89, 0xC2, 0xE2} {
		add("NOP", op, 2, 2, Immediate)
	}
	for _, op := range []uint8{0x04, 0x44, 0x64} {
		add("NOP", op, 2, 3, ZeroPage)
	}
	for _, op := range []uint8{0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4} {
		add("NOP", op, 2, 4, ZeroPageX)
	}
	add("NOP", 0x0C, 3, 4, Absolute)
	for _, op := range []uint8{0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC} {
		add("NOP", op, 3, 4, AbsoluteX)
	}

	add("LAX", 0xA7, 2, 3, ZeroPage)
	add("LAX", 0xB7, 2, 4, ZeroPageY)
	add("LAX", 0xAF, 3, 4, Absolute)
	add("LAX", 0xBF, 3, 4, AbsoluteY)
	add("LAX", 0xA3, 2, 6, IndexedIndirect)
	add("LAX", 0xB3, 2, 5, IndirectIndexed)

	add("SAX", 0x87, 2, 3, ZeroPage)
	add("SAX", 0x97, 2, 4, ZeroPageY)
	add("SAX", 0x8F, 3, 4, Absolute)
	add("SAX", 0x83, 2, 6, IndexedIndirect)

	add("DCP", 0xC7, 2, 5, ZeroPage)
	add("DCP", 0xD7, 2, 6, ZeroPageX)
	add("DCP", 0xCF, 3, 6, Absolute)
	add("DCP", 0xDF, 3, 7, AbsoluteX)
	add("DCP", 0xDB, 3, 7, AbsoluteY)
	add("DCP", 0xC3, 2, 8, IndexedIndirect)
	add("DCP", 0xD3, 2, 8, IndirectIndexed)

	add("ISB", 0xE7, 2, 5, ZeroPage)
	add("ISB", 0xF7, 2, 6, ZeroPageX)
	add("ISB", 0xEF, 3, 6, Absolute)
	add("ISB", 0xFF, 3, 7, AbsoluteX)
	add("ISB", 0xFB, 3, 7, AbsoluteY)
	add("ISB", 0xE3, 2, 8, IndexedIndirect)
	add("ISB", 0xF3, 2, 8, IndirectIndexed)

	add("SLO", 0x07, 2, 5, ZeroPage)
	add("SLO", 0x17, 2, 6, ZeroPageX)
	add("SLO", 0x0F, 3, 6, Absolute)
	add("SLO", 0x1F, 3, 7, AbsoluteX)
	add("SLO", 0x1B, 3, 7, AbsoluteY)
	add("SLO", 0x03, 2, 8, IndexedIndirect)
	add("SLO", 0x13, 2, 8, IndirectIndexed)

	add("RLA", 0x27, 2, 5, ZeroPage)
	add("RLA", 0x37, 2, 6, ZeroPageX)
	add("RLA", 0x2F, 3, 6, Absolute)
	add("RLA", 0x3F, 3, 7, AbsoluteX)
	add("RLA", 0x3B, 3, 7, AbsoluteY)
	add("RLA", 0x23, 2, 8, IndexedIndirect)
	add("RLA", 0x33, 2, 8, IndirectIndexed)

	add("SRE", 0x47, 2, 5, ZeroPage)
	add("SRE", 0x57, 2, 6, ZeroPageX)
	add("SRE", 0x4F, 3, 6, Absolute)
	add("SRE", 0x5F, 3, 7, AbsoluteX)
	add("SRE", 0x5B, 3, 7, AbsoluteY)
	add("SRE", 0x43, 2, 8, IndexedIndirect)
	add("SRE", 0x53, 2, 8, IndirectIndexed)

	add("RRA", 0x67, 2, 5, ZeroPage)
	add("RRA", 0x77, 2, 6, ZeroPageX)
	add("RRA", 0x6F, 3, 6, Absolute)
	add("RRA", 0x7F, 3, 7, AbsoluteX)
	add("RRA", 0x7B, 3, 7, AbsoluteY)
	add("RRA", 0x63, 2, 8, IndexedIndirect)
	add("RRA", 0x73, 2, 8, IndirectIndexed)

	add("ANC", 0x0B, 2, 2, Immediate)
	add("ANC", 0x2B, 2, 2, Immediate)
	add("ALR", 0x4B, 2, 2, Immediate)
	add("ARR", 0x6B, 2, 2, Immediate)
	add("AXS", 0xCB, 2, 2, Immediate)

	for _, op := range []uint8{0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xB2, 0xD2, 0xF2} {
		add("KIL", op, 1, 1, Implied)
	}
}

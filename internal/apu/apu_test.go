package apu

import "testing"

// Seed scenario 6: the length-counter-halt bit freezes the counter instead
// of letting it decay; table index 1 loads 254.
func TestLengthCounterHaltPreservesValue(t *testing.T) {
	a := New()
	a.Reset()

	a.WriteRegister(0x4015, 0x01) // enable pulse 1
	a.WriteRegister(0x4000, 0x20) // halt bit (bit5) set
	a.WriteRegister(0x4003, 0x08) // length table index 1 -> 254

	if a.pulse1.lengthCounter != 254 {
		t.Fatalf("lengthCounter = %d, want 254", a.pulse1.lengthCounter)
	}

	// Run past two length-clock points (CPU-cycle counts 14913 and 29829
	// in 4-step mode); a halted counter must not move.
	for i := 0; i < 30000; i++ {
		a.Step()
	}

	if a.pulse1.lengthCounter != 254 {
		t.Fatalf("lengthCounter after halt = %d, want unchanged 254", a.pulse1.lengthCounter)
	}
}

func TestLengthCounterDecaysWithoutHalt(t *testing.T) {
	a := New()
	a.Reset()

	a.WriteRegister(0x4015, 0x01) // enable pulse 1
	a.WriteRegister(0x4000, 0x00) // halt bit clear
	a.WriteRegister(0x4003, 0x08) // length table index 1 -> 254

	for i := 0; i < 15000; i++ {
		a.Step()
	}

	if a.pulse1.lengthCounter != 253 {
		t.Fatalf("lengthCounter after one clock = %d, want 253", a.pulse1.lengthCounter)
	}
}

func TestChannelDisableZeroesLengthCounter(t *testing.T) {
	a := New()
	a.Reset()

	a.WriteRegister(0x4015, 0x01)
	a.WriteRegister(0x4003, 0x08)
	if a.pulse1.lengthCounter == 0 {
		t.Fatal("expected nonzero length counter before disable")
	}

	a.WriteRegister(0x4015, 0x00)
	if a.pulse1.lengthCounter != 0 {
		t.Fatalf("lengthCounter after disable = %d, want 0", a.pulse1.lengthCounter)
	}
}

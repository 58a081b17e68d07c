package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mask $A5 (0b10100101) selects A, Select, Down, Right, matching the
// strobe-sequence scenario: pushing this snapshot and reading $4016 eight
// times after a strobe pulse yields 1,0,1,0,0,1,0,1.
var maskA5 = [8]bool{true, false, true, false, false, true, false, true}

func TestControllerStrobeSequence(t *testing.T) {
	s := NewState()
	s.Controller1.SetButtons(maskA5)

	s.Write(0x4016, 1)
	s.Write(0x4016, 0)

	want := []uint8{1, 0, 1, 0, 0, 1, 0, 1}
	for i, bit := range want {
		got := s.Read(0x4016) & 1
		assert.Equalf(t, bit, got, "read %d", i)
	}
}

func TestControllerReadPastEighthBitReturnsOne(t *testing.T) {
	c := New()
	c.SetButtons(maskA5)
	c.Write(1)
	c.Write(0)

	for i := 0; i < 8; i++ {
		c.Read()
	}
	for i := 0; i < 4; i++ {
		require.EqualValues(t, 1, c.Read()&1, "open-bus read %d", i)
	}
}

func TestControllerStrobeHighContinuallyReloads(t *testing.T) {
	c := New()
	c.Write(1) // strobe high
	c.SetButton(ButtonA, true)

	// While strobe is held high, every read returns the live A state.
	assert.EqualValues(t, 1, c.Read()&1)
	assert.EqualValues(t, 1, c.Read()&1)

	c.SetButton(ButtonA, false)
	assert.EqualValues(t, 0, c.Read()&1)
}

func TestControllerResetPreservesHeldButtons(t *testing.T) {
	c := New()
	c.SetButton(ButtonStart, true)
	c.Write(1)
	c.Write(0)

	c.Reset()

	assert.True(t, c.IsPressed(ButtonStart))
	// Shift register reloads from the still-held button state on reset.
	assert.EqualValues(t, 0, c.Read()&1) // A not pressed
}

func TestSecondControllerPortIsIndependent(t *testing.T) {
	s := NewState()
	s.Controller1.SetButton(ButtonA, true)
	s.Controller2.SetButton(ButtonA, false)

	s.Write(0x4016, 1)
	s.Write(0x4016, 0)

	assert.EqualValues(t, 1, s.Read(0x4016)&1)
	assert.EqualValues(t, 0, s.Read(0x4017)&1)
}

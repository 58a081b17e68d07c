package video

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeadlessBackendRejectsDoubleInitialize(t *testing.T) {
	b := NewHeadlessBackend()
	require.NoError(t, b.Initialize(Config{}))
	require.Error(t, b.Initialize(Config{}))
}

func TestHeadlessBackendRequiresInitializeBeforeCreateWindow(t *testing.T) {
	b := NewHeadlessBackend()
	_, err := b.CreateWindow("gones", 256, 240)
	require.Error(t, err)
}

func TestHeadlessWindowLifecycle(t *testing.T) {
	b := NewHeadlessBackend()
	require.NoError(t, b.Initialize(Config{}))

	win, err := b.CreateWindow("gones", 256, 240)
	require.NoError(t, err)
	require.False(t, win.ShouldClose())

	w, h := win.GetSize()
	require.Equal(t, 256, w)
	require.Equal(t, 240, h)

	require.NoError(t, win.Cleanup())
	require.True(t, win.ShouldClose())
}

func TestHeadlessWindowSaveFrameWritesValidPPM(t *testing.T) {
	b := NewHeadlessBackend()
	require.NoError(t, b.Initialize(Config{}))
	win, err := b.CreateWindow("gones", 256, 240)
	require.NoError(t, err)

	hw := win.(*HeadlessWindow)
	var frame [256 * 240]uint32
	frame[0] = 0x112233

	path := filepath.Join(t.TempDir(), "frame.ppm")
	require.NoError(t, hw.SaveFrame(frame, path))

	require.NoError(t, win.RenderFrame(frame))
	require.Equal(t, 1, hw.GetFrameCount())
}

func TestCreateBackendDispatchesByType(t *testing.T) {
	b, err := CreateBackend(BackendHeadless)
	require.NoError(t, err)
	require.Equal(t, "Headless", b.GetName())
	require.True(t, b.IsHeadless())
}

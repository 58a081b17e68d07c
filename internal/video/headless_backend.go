package video

import (
	"fmt"
	"os"
)

// HeadlessBackend implements Backend without a real window, for
// screenshot-driven and CI runs.
type HeadlessBackend struct {
	initialized bool
	config      Config
}

// HeadlessWindow implements Window for headless operation.
type HeadlessWindow struct {
	title      string
	width      int
	height     int
	running    bool
	frameCount int
	outputPath string
}

// NewHeadlessBackend creates a new headless graphics backend.
func NewHeadlessBackend() Backend {
	return &HeadlessBackend{}
}

func (b *HeadlessBackend) Initialize(config Config) error {
	if b.initialized {
		return fmt.Errorf("headless backend already initialized")
	}
	b.config = config
	b.initialized = true
	return nil
}

func (b *HeadlessBackend) CreateWindow(title string, width, height int) (Window, error) {
	if !b.initialized {
		return nil, fmt.Errorf("backend not initialized")
	}
	return &HeadlessWindow{
		title:      title,
		width:      width,
		height:     height,
		running:    true,
		outputPath: "frame_output",
	}, nil
}

func (b *HeadlessBackend) Cleanup() error {
	b.initialized = false
	return nil
}

func (b *HeadlessBackend) IsHeadless() bool { return true }
func (b *HeadlessBackend) GetName() string  { return "Headless" }

func (w *HeadlessWindow) SetTitle(title string)          { w.title = title }
func (w *HeadlessWindow) GetSize() (width, height int)   { return w.width, w.height }
func (w *HeadlessWindow) ShouldClose() bool              { return !w.running }
func (w *HeadlessWindow) SwapBuffers()                   {}
func (w *HeadlessWindow) PollEvents() []InputEvent       { return nil }

// RenderFrame tracks the frame count; callers that want frame dumps call
// SaveFrame explicitly rather than relying on implicit snapshotting.
func (w *HeadlessWindow) RenderFrame(frameBuffer [256 * 240]uint32) error {
	w.frameCount++
	return nil
}

func (w *HeadlessWindow) Cleanup() error {
	w.running = false
	return nil
}

// SetOutputPath records a directory for frame dumps; SaveFrame does not
// apply it.
func (w *HeadlessWindow) SetOutputPath(path string) { w.outputPath = path }

// GetFrameCount returns the number of frames rendered so far.
func (w *HeadlessWindow) GetFrameCount() int { return w.frameCount }

// SaveFrame writes frameBuffer to filename, exactly as given, as a PPM image.
func (w *HeadlessWindow) SaveFrame(frameBuffer [256 * 240]uint32, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %v", filename, err)
	}
	defer file.Close()

	fmt.Fprintf(file, "P3\n256 240\n255\n")
	for y := 0; y < 240; y++ {
		for x := 0; x < 256; x++ {
			pixel := frameBuffer[y*256+x]
			r := (pixel >> 16) & 0xFF
			g := (pixel >> 8) & 0xFF
			b := pixel & 0xFF
			fmt.Fprintf(file, "%d %d %d ", r, g, b)
		}
		fmt.Fprintf(file, "\n")
	}
	return nil
}

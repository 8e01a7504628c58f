package capture

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockCamera plays back pre-recorded frames for testing. When the
// sequence is exhausted it either loops or fails the read, which lets
// tests exercise the session's fatal read path.
type MockCamera struct {
	frames  []*gocv.Mat
	index   int
	loop    bool
	width   int
	height  int
	mu      sync.Mutex
	running bool
}

// NewMockCamera creates a mock camera over the given frame sequence.
func NewMockCamera(frames []*gocv.Mat, loop bool) *MockCamera {
	c := &MockCamera{
		frames: frames,
		loop:   loop,
		width:  DefaultWidth,
		height: DefaultHeight,
	}
	if len(frames) > 0 && !frames[0].Empty() {
		c.width = frames[0].Cols()
		c.height = frames[0].Rows()
	}
	return c
}

func (c *MockCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = true
	c.index = 0
	return nil
}

func (c *MockCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	return nil
}

func (c *MockCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil, ErrCameraNotOpen
	}

	if len(c.frames) == 0 {
		return nil, ErrReadFailed
	}

	if c.index >= len(c.frames) {
		if c.loop {
			c.index = 0
		} else {
			return nil, ErrReadFailed
		}
	}

	// Clone so callers may mutate and close the frame freely.
	frame := c.frames[c.index].Clone()
	c.index++

	return &frame, nil
}

func (c *MockCamera) Dimensions() (width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

func (c *MockCamera) SetFPS(fps int) {}
func (c *MockCamera) FPS() int       { return DefaultFPS }

func (c *MockCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// SetFrames replaces the frame sequence.
func (c *MockCamera) SetFrames(frames []*gocv.Mat) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = frames
	c.index = 0
	if len(frames) > 0 && !frames[0].Empty() {
		c.width = frames[0].Cols()
		c.height = frames[0].Rows()
	}
}

// Reset restarts playback from the beginning.
func (c *MockCamera) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = 0
}

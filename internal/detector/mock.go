package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It can return a fixed result, a queued sequence of results (one per
// Detect call), or an error.
type MockDetector struct {
	hands []HandLandmarks
	queue [][]HandLandmarks
	err   error
	mu    sync.Mutex
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by every Detect call.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Queue appends per-frame results. While the queue is non-empty each
// Detect call pops one entry; afterwards Detect falls back to the
// fixed hands set via SetHands.
func (m *MockDetector) Queue(frames ...[]HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, frames...)
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	if len(m.queue) > 0 {
		hands := m.queue[0]
		m.queue = m.queue[1:]
		return hands, nil
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// HandAt builds a HandLandmarks with the wrist at the given normalized
// position and the middle finger tip span above it. The remaining
// landmarks are laid out along the wrist-to-tip axis so the hand has a
// plausible shape for skeleton drawing.
func HandAt(x, y, span float64) HandLandmarks {
	lm := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	lm.Points[Wrist] = Point3D{X: x, Y: y}
	lm.Points[MiddleTip] = Point3D{X: x, Y: y - span}

	// Interpolate the middle finger joints between wrist and tip.
	for i, idx := range []int{MiddleMCP, MiddlePIP, MiddleDIP} {
		f := float64(i+1) / 4.0
		lm.Points[idx] = Point3D{X: x, Y: y - span*f}
	}

	// Fan the remaining fingers around the middle finger.
	offsets := map[int]float64{
		ThumbCMC: 0.06, ThumbMCP: 0.08, ThumbIP: 0.10, ThumbTip: 0.12,
		IndexMCP: 0.03, IndexPIP: 0.03, IndexDIP: 0.03, IndexTip: 0.03,
		RingMCP: -0.03, RingPIP: -0.03, RingDIP: -0.03, RingTip: -0.03,
		PinkyMCP: -0.06, PinkyPIP: -0.06, PinkyDIP: -0.06, PinkyTip: -0.06,
	}
	heights := map[int]float64{
		ThumbCMC: 0.2, ThumbMCP: 0.4, ThumbIP: 0.5, ThumbTip: 0.6,
		IndexMCP: 0.25, IndexPIP: 0.5, IndexDIP: 0.75, IndexTip: 0.95,
		RingMCP: 0.25, RingPIP: 0.5, RingDIP: 0.7, RingTip: 0.9,
		PinkyMCP: 0.25, PinkyPIP: 0.45, PinkyDIP: 0.6, PinkyTip: 0.75,
	}
	for idx, dx := range offsets {
		lm.Points[idx] = Point3D{X: x + dx*span, Y: y - span*heights[idx]}
	}

	return lm
}

// Package detector provides hand landmark detection for the snake controller.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D is a detected landmark. X and Y are normalized to [0,1]
// relative to the frame; Z is relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks for one detected hand.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Span returns the planar distance between the wrist and the middle
// finger tip, in normalized frame coordinates. It grows as the hand
// approaches the camera and drives the game speed.
func (h *HandLandmarks) Span() float64 {
	w := h.Points[Wrist]
	m := h.Points[MiddleTip]
	dx := w.X - m.X
	dy := w.Y - m.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// WristPixel returns the wrist position scaled to pixel coordinates
// for a frame of the given dimensions. The wrist is the tracked point
// for direction gestures.
func (h *HandLandmarks) WristPixel(width, height int) (x, y int) {
	w := h.Points[Wrist]
	return int(w.X * float64(width)), int(w.Y * float64(height))
}

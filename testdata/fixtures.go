// Package testdata provides synthetic frames and scripted hand
// trajectories for session and end-to-end tests.
package testdata

import (
	"gocv.io/x/gocv"

	"github.com/ayusman/sarpa/internal/detector"
)

// GrayFrame creates a uniform gray camera frame. The caller owns the Mat.
func GrayFrame(width, height int, level uint8) *gocv.Mat {
	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)
	mat.SetTo(gocv.NewScalar(float64(level), float64(level), float64(level), 0))
	return &mat
}

// Swipe returns per-frame detection results moving the wrist linearly
// from (x0,y0) to (x1,y1) in normalized coordinates over the given
// number of steps, holding a constant hand span. Feed the result to
// MockDetector.Queue to script a gesture.
func Swipe(x0, y0, x1, y1 float64, steps int, span float64) [][]detector.HandLandmarks {
	if steps < 2 {
		steps = 2
	}

	frames := make([][]detector.HandLandmarks, 0, steps)
	for i := 0; i < steps; i++ {
		f := float64(i) / float64(steps-1)
		x := x0 + (x1-x0)*f
		y := y0 + (y1-y0)*f
		frames = append(frames, []detector.HandLandmarks{detector.HandAt(x, y, span)})
	}
	return frames
}

// Hold returns count frames with the hand resting at one position,
// useful for exercising the no-direction path while speed updates.
func Hold(x, y float64, count int, span float64) [][]detector.HandLandmarks {
	frames := make([][]detector.HandLandmarks, 0, count)
	for i := 0; i < count; i++ {
		frames = append(frames, []detector.HandLandmarks{detector.HandAt(x, y, span)})
	}
	return frames
}

// Lost returns count frames with no detected hand.
func Lost(count int) [][]detector.HandLandmarks {
	return make([][]detector.HandLandmarks, count)
}

package render

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/sarpa/internal/detector"
)

// Skeleton colors.
var (
	boneColor  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	jointColor = color.RGBA{G: 200, R: 40, A: 255}
)

// handConnections lists the landmark index pairs that form the hand
// skeleton, following the MediaPipe hand connection set.
var handConnections = [][2]int{
	// Thumb
	{detector.Wrist, detector.ThumbCMC},
	{detector.ThumbCMC, detector.ThumbMCP},
	{detector.ThumbMCP, detector.ThumbIP},
	{detector.ThumbIP, detector.ThumbTip},
	// Index
	{detector.Wrist, detector.IndexMCP},
	{detector.IndexMCP, detector.IndexPIP},
	{detector.IndexPIP, detector.IndexDIP},
	{detector.IndexDIP, detector.IndexTip},
	// Middle
	{detector.IndexMCP, detector.MiddleMCP},
	{detector.MiddleMCP, detector.MiddlePIP},
	{detector.MiddlePIP, detector.MiddleDIP},
	{detector.MiddleDIP, detector.MiddleTip},
	// Ring
	{detector.MiddleMCP, detector.RingMCP},
	{detector.RingMCP, detector.RingPIP},
	{detector.RingPIP, detector.RingDIP},
	{detector.RingDIP, detector.RingTip},
	// Pinky
	{detector.RingMCP, detector.PinkyMCP},
	{detector.Wrist, detector.PinkyMCP},
	{detector.PinkyMCP, detector.PinkyPIP},
	{detector.PinkyPIP, detector.PinkyDIP},
	{detector.PinkyDIP, detector.PinkyTip},
}

// Skeleton draws landmark joints and bone connections for each hand
// over the camera frame, in place.
func Skeleton(frame *gocv.Mat, hands []detector.HandLandmarks) {
	if frame == nil || frame.Empty() {
		return
	}

	width := frame.Cols()
	height := frame.Rows()

	for i := range hands {
		hand := &hands[i]

		px := func(idx int) image.Point {
			p := hand.Points[idx]
			return image.Pt(int(p.X*float64(width)), int(p.Y*float64(height)))
		}

		for _, conn := range handConnections {
			gocv.Line(frame, px(conn[0]), px(conn[1]), boneColor, 2)
		}
		for idx := 0; idx < detector.NumLandmarks; idx++ {
			gocv.Circle(frame, px(idx), 3, jointColor, -1)
		}
	}
}

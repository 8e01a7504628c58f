// Package control turns hand landmarks into snake steering commands.
package control

import (
	"github.com/ayusman/sarpa/internal/detector"
	"github.com/ayusman/sarpa/internal/game"
)

// Classifier tuning constants.
const (
	// MoveThreshold is the wrist displacement in pixels that must be
	// exceeded on the dominant axis before a direction is proposed.
	MoveThreshold = 20

	// MinSpan and MaxSpan bound the normalized wrist-to-middle-tip
	// distance used for speed mapping.
	MinSpan = 0.1
	MaxSpan = 0.4

	// MinSpeed and MaxSpeed bound the game speed in ticks per second.
	MinSpeed = 5
	MaxSpeed = 20
)

// Command is the classifier's output for one observed frame.
// Direction is the idle direction when the hand did not move far
// enough to propose a turn; Speed is always populated.
type Command struct {
	Direction game.Direction
	Speed     int
}

// Classifier derives direction and speed from consecutive hand
// observations. Direction comes from wrist displacement between
// frames; speed from the hand span. The classifier only proposes:
// reversal rejection is the game engine's concern.
type Classifier struct {
	threshold int
	prevX     int
	prevY     int
	hasPrev   bool
}

// NewClassifier creates a Classifier with the default move threshold.
func NewClassifier() *Classifier {
	return &Classifier{threshold: MoveThreshold}
}

// SetThreshold overrides the displacement threshold in pixels.
// Values less than or equal to 0 are ignored.
func (c *Classifier) SetThreshold(px int) {
	if px <= 0 {
		return
	}
	c.threshold = px
}

// Observe consumes one detected hand on a frame of the given pixel
// dimensions and returns the resulting command. The first observation
// after a reset only yields a speed, since displacement needs two
// consecutive positions.
func (c *Classifier) Observe(hand *detector.HandLandmarks, frameW, frameH int) Command {
	cmd := Command{
		Direction: game.None,
		Speed:     SpeedFromSpan(hand.Span()),
	}

	x, y := hand.WristPixel(frameW, frameH)

	if c.hasPrev {
		dx := x - c.prevX
		dy := y - c.prevY

		if abs(dx) > c.threshold || abs(dy) > c.threshold {
			if abs(dx) > abs(dy) {
				if dx > 0 {
					cmd.Direction = game.Right
				} else {
					cmd.Direction = game.Left
				}
			} else {
				if dy > 0 {
					cmd.Direction = game.Down
				} else {
					cmd.Direction = game.Up
				}
			}
		}
	}

	c.prevX = x
	c.prevY = y
	c.hasPrev = true

	return cmd
}

// Reset forgets the previous wrist position. Used on game reset and
// when hand tracking is lost for a while, so a reappearing hand does
// not produce a spurious jump.
func (c *Classifier) Reset() {
	c.hasPrev = false
}

// SpeedFromSpan maps a normalized hand span onto the tick rate.
// The span range [MinSpan, MaxSpan] maps linearly onto
// [MinSpeed, MaxSpeed], clamped at both ends.
func SpeedFromSpan(span float64) int {
	speed := MinSpeed + int((span-MinSpan)/(MaxSpan-MinSpan)*float64(MaxSpeed-MinSpeed))
	if speed < MinSpeed {
		return MinSpeed
	}
	if speed > MaxSpeed {
		return MaxSpeed
	}
	return speed
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

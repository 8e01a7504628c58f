package control

import (
	"testing"

	"github.com/ayusman/sarpa/internal/detector"
	"github.com/ayusman/sarpa/internal/game"
)

const (
	frameW = 640
	frameH = 480
)

func observe(c *Classifier, x, y float64) Command {
	hand := detector.HandAt(x, y, 0.25)
	return c.Observe(&hand, frameW, frameH)
}

func TestObserve_FirstObservationHasNoDirection(t *testing.T) {
	c := NewClassifier()

	cmd := observe(c, 0.5, 0.5)

	if !cmd.Direction.IsZero() {
		t.Errorf("direction = %v on first observation, want idle", cmd.Direction)
	}
	if cmd.Speed < MinSpeed || cmd.Speed > MaxSpeed {
		t.Errorf("speed = %d out of range [%d, %d]", cmd.Speed, MinSpeed, MaxSpeed)
	}
}

func TestObserve_DominantAxisDirections(t *testing.T) {
	// 0.1 of the frame width is 64 px, comfortably over the 20 px threshold.
	tests := []struct {
		name   string
		dx, dy float64
		want   game.Direction
	}{
		{"right", 0.1, 0.0, game.Right},
		{"left", -0.1, 0.0, game.Left},
		{"down", 0.0, 0.15, game.Down},
		{"up", 0.0, -0.15, game.Up},
		{"mostly horizontal", 0.2, 0.05, game.Right},
		{"mostly vertical", 0.05, 0.2, game.Down},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier()
			observe(c, 0.5, 0.5)
			cmd := observe(c, 0.5+tt.dx, 0.5+tt.dy)

			if cmd.Direction != tt.want {
				t.Errorf("direction = %v, want %v", cmd.Direction, tt.want)
			}
		})
	}
}

func TestObserve_SmallDisplacementIgnored(t *testing.T) {
	c := NewClassifier()
	observe(c, 0.5, 0.5)

	// 10 px right, below the 20 px threshold.
	cmd := observe(c, 0.5+10.0/frameW, 0.5)

	if !cmd.Direction.IsZero() {
		t.Errorf("direction = %v for sub-threshold move, want idle", cmd.Direction)
	}
}

func TestObserve_ThresholdIsExclusive(t *testing.T) {
	c := NewClassifier()
	observe(c, 0.5, 0.5)

	// Exactly 20 px does not trigger; displacement must exceed it.
	cmd := observe(c, 0.5+20.0/frameW, 0.5)
	if !cmd.Direction.IsZero() {
		t.Errorf("direction = %v at exactly the threshold, want idle", cmd.Direction)
	}

	cmd = observe(c, 0.5+41.0/frameW, 0.5)
	if cmd.Direction != game.Right {
		t.Errorf("direction = %v just over the threshold, want %v", cmd.Direction, game.Right)
	}
}

func TestObserve_TracksAcrossFrames(t *testing.T) {
	c := NewClassifier()
	observe(c, 0.2, 0.5)
	observe(c, 0.4, 0.5)

	// Previous position updates every frame: moving back left from 0.4
	// must be measured against 0.4, not 0.2.
	cmd := observe(c, 0.3, 0.5)
	if cmd.Direction != game.Left {
		t.Errorf("direction = %v, want %v", cmd.Direction, game.Left)
	}
}

func TestReset_ForgetsPreviousPosition(t *testing.T) {
	c := NewClassifier()
	observe(c, 0.2, 0.5)
	c.Reset()

	// Without Reset this jump would read as a hard right.
	cmd := observe(c, 0.8, 0.5)
	if !cmd.Direction.IsZero() {
		t.Errorf("direction = %v after reset, want idle", cmd.Direction)
	}
}

func TestSpeedFromSpan(t *testing.T) {
	tests := []struct {
		name string
		span float64
		want int
	}{
		{"below minimum clamps", 0.02, MinSpeed},
		{"at minimum", MinSpan, MinSpeed},
		{"midpoint", 0.25, 12},
		{"at maximum", MaxSpan, MaxSpeed},
		{"above maximum clamps", 0.9, MaxSpeed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SpeedFromSpan(tt.span); got != tt.want {
				t.Errorf("SpeedFromSpan(%f) = %d, want %d", tt.span, got, tt.want)
			}
		})
	}
}

func TestObserve_SpeedFollowsSpan(t *testing.T) {
	c := NewClassifier()

	small := detector.HandAt(0.5, 0.5, 0.12)
	large := detector.HandAt(0.5, 0.5, 0.38)

	slow := c.Observe(&small, frameW, frameH)
	fast := c.Observe(&large, frameW, frameH)

	if slow.Speed >= fast.Speed {
		t.Errorf("speed for small span (%d) should be below large span (%d)", slow.Speed, fast.Speed)
	}
}

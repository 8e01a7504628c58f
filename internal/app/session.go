// Package app wires camera, detector, classifier, game and renderer
// into the interactive session loop.
package app

import (
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/ayusman/sarpa/internal/capture"
	"github.com/ayusman/sarpa/internal/control"
	"github.com/ayusman/sarpa/internal/detector"
	"github.com/ayusman/sarpa/internal/game"
	"github.com/ayusman/sarpa/internal/render"
	"github.com/ayusman/sarpa/internal/store"
)

// Session timing constants.
const (
	// IdleTimeout is how long the scene must be still before hand
	// detection is skipped. The previous command persists meanwhile.
	IdleTimeout = 2 * time.Second
)

// Keyboard bindings, as gocv.Window WaitKey codes.
const (
	KeyQuit  = 'q'
	KeyReset = 'r'
)

// ErrQuit is returned by HandleKey when the quit key is pressed.
var ErrQuit = errors.New("quit requested")

// Config holds configuration options for the session.
type Config struct {
	Store        *store.Store
	CameraID     int
	GridCell     int
	MotionThresh float64

	// Camera and Detector override the defaults, mainly for tests.
	Camera   capture.Camera
	Detector detector.Detector
}

// Session runs the capture-detect-classify-tick-render loop. The loop
// itself is single-threaded; the mutex only covers the fields shared
// with the server feed and the tray.
type Session struct {
	camera     capture.Camera
	detector   detector.Detector
	motion     *capture.MotionDetector
	classifier *control.Classifier
	game       *game.Game
	board      *render.Board
	store      *store.Store

	mu         sync.Mutex
	speed      int
	paused     bool
	lastTick   time.Time
	lastMotion time.Time
	startedAt  time.Time
	publish    bool
	lastJPEG   []byte

	frameW int
	frameH int
}

// New creates a session from the configuration. The camera is not
// opened until Open is called.
func New(cfg Config) *Session {
	cell := cfg.GridCell
	if cell <= 0 {
		cell = render.DefaultCellSize
	}

	motionThreshold := cfg.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // 1% pixel change
	}

	camera := cfg.Camera
	if camera == nil {
		camera = capture.NewCamera(cfg.CameraID)
	}

	det := cfg.Detector
	if det == nil {
		// Try MediaPipe first, fall back to the mock detector so the
		// game stays runnable without the Python service.
		if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
			det = mp
			log.Println("Using MediaPipe hand detection")
		} else {
			log.Printf("MediaPipe not available (%v), using mock detector", err)
			det = detector.NewMockDetector()
		}
	}

	s := &Session{
		camera:     camera,
		detector:   det,
		motion:     capture.NewMotionDetector(motionThreshold),
		classifier: control.NewClassifier(),
		board:      render.NewBoard(cell),
		store:      cfg.Store,
		speed:      control.MinSpeed,
	}

	s.frameW, s.frameH = camera.Dimensions()
	s.game = game.New(s.frameW/cell, s.frameH/cell, rand.New(rand.NewSource(time.Now().UnixNano())))

	return s
}

// Open acquires the camera and sizes the grid to the frames it
// actually delivers.
func (s *Session) Open() error {
	if err := s.camera.Open(); err != nil {
		return err
	}

	w, h := s.camera.Dimensions()
	if w != s.frameW || h != s.frameH {
		cell := s.board.CellSize()
		s.frameW, s.frameH = w, h
		s.game = game.New(w/cell, h/cell, rand.New(rand.NewSource(time.Now().UnixNano())))
	}

	now := time.Now()
	s.mu.Lock()
	s.lastMotion = now
	s.startedAt = now
	s.mu.Unlock()

	return nil
}

// Close releases the camera, motion detector and hand detector.
func (s *Session) Close() {
	if err := s.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	s.motion.Close()

	if s.detector != nil {
		if err := s.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}
}

// Step runs one loop iteration: capture, detect, classify, tick,
// render. It returns the combined camera+board view; the caller owns
// the Mat. A camera read failure is fatal and ends the session.
func (s *Session) Step() (gocv.Mat, error) {
	frame, err := s.camera.ReadFrame()
	if err != nil {
		return gocv.Mat{}, err
	}
	defer frame.Close()

	// Mirror so on-screen movement matches hand movement.
	gocv.Flip(*frame, frame, 1)

	hands := s.detectHands(frame)

	if len(hands) > 0 {
		cmd := s.classifier.Observe(&hands[0], s.frameW, s.frameH)

		s.mu.Lock()
		s.speed = cmd.Speed
		s.mu.Unlock()

		s.game.SetDirection(cmd.Direction)
		render.Skeleton(frame, hands)
	}

	s.advance()

	s.mu.Lock()
	speed := s.speed
	s.mu.Unlock()

	board := s.board.Draw(s.game, speed)
	defer board.Close()

	combined := render.Compose(frame, &board)

	s.mu.Lock()
	publish := s.publish
	s.mu.Unlock()
	if publish {
		if buf, err := gocv.IMEncode(".jpg", combined); err == nil {
			s.mu.Lock()
			s.lastJPEG = append(s.lastJPEG[:0], buf.GetBytes()...)
			s.mu.Unlock()
			buf.Close()
		}
	}

	return combined, nil
}

// detectHands runs the motion gate and the hand detector. Any
// detection failure yields no hands for the frame, so the previous
// direction and speed persist.
func (s *Session) detectHands(frame *gocv.Mat) []detector.HandLandmarks {
	moved, _ := s.motion.Detect(frame)
	now := time.Now()

	s.mu.Lock()
	if moved {
		s.lastMotion = now
	}
	idle := now.Sub(s.lastMotion) > IdleTimeout
	s.mu.Unlock()

	if idle {
		return nil
	}

	hands, err := s.detector.Detect(frame)
	if err != nil {
		log.Printf("Error detecting hands: %v", err)
		return nil
	}
	return hands
}

// advance ticks the game when the interval for the current speed has
// elapsed, and records the score on the running-to-game-over edge.
func (s *Session) advance() {
	s.mu.Lock()
	if s.paused {
		s.mu.Unlock()
		return
	}
	interval := time.Second / time.Duration(s.speed)
	due := time.Since(s.lastTick) > interval
	if due {
		s.lastTick = time.Now()
	}
	s.mu.Unlock()

	if !due {
		return
	}

	before := s.game.State()
	s.game.Tick()

	if before == game.StateRunning && s.game.State() == game.StateGameOver {
		log.Printf("Game over: score %d, length %d", s.game.Score(), s.game.Length())
		s.recordScore()
	}
}

// recordScore persists the finished game. Store failures never
// interrupt the session.
func (s *Session) recordScore() {
	if s.store == nil {
		return
	}

	s.mu.Lock()
	duration := time.Since(s.startedAt)
	s.mu.Unlock()

	sc := &store.Score{
		ID:       uuid.New().String(),
		Score:    s.game.Score(),
		Length:   s.game.Length(),
		Duration: duration,
	}
	if err := s.store.Scores().Create(sc); err != nil {
		log.Printf("Error recording score: %v", err)
	}
}

// HandleKey processes a key code from the window. 'q' ends the
// session via ErrQuit; 'r' resets the game. Reset is the only
// operation accepted while the game is over.
func (s *Session) HandleKey(key int) error {
	switch key {
	case KeyQuit:
		return ErrQuit
	case KeyReset:
		s.Reset()
	}
	return nil
}

// Reset restarts the game with the minimum speed and a forgotten
// hand position.
func (s *Session) Reset() {
	s.game.Reset()
	s.classifier.Reset()

	s.mu.Lock()
	s.speed = control.MinSpeed
	s.startedAt = time.Now()
	s.mu.Unlock()
}

// Run drives the session against a window until the quit key is
// pressed or the camera fails. It must be called on the goroutine
// that owns the window.
func (s *Session) Run(window *gocv.Window) error {
	for {
		combined, err := s.Step()
		if err != nil {
			if errors.Is(err, capture.ErrReadFailed) {
				log.Printf("Camera read failed, ending session: %v", err)
			}
			return err
		}

		window.IMShow(combined)
		combined.Close()

		key := window.WaitKey(1)
		if key >= 0 {
			if err := s.HandleKey(key); err != nil {
				if errors.Is(err, ErrQuit) {
					return nil
				}
				return err
			}
		}
	}
}

// SetPaused pauses or resumes game ticks. The camera preview keeps
// running while paused.
func (s *Session) SetPaused(paused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = paused
}

// Paused reports whether game ticks are suspended.
func (s *Session) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// SetPublish enables JPEG encoding of the combined view on every
// step, for the MJPEG stream endpoint.
func (s *Session) SetPublish(publish bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publish = publish
}

// LatestFrame returns the most recent published JPEG, if any.
func (s *Session) LatestFrame() ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.lastJPEG) == 0 {
		return nil, false
	}
	frame := make([]byte, len(s.lastJPEG))
	copy(frame, s.lastJPEG)
	return frame, true
}

// Game returns the underlying game engine.
func (s *Session) Game() *game.Game {
	return s.game
}

// Snapshot is a serializable view of the session for the state feed.
type Snapshot struct {
	Snake  []game.Point `json:"snake"`
	Food   game.Point   `json:"food"`
	Score  int          `json:"score"`
	State  game.State   `json:"state"`
	Speed  int          `json:"speed"`
	Paused bool         `json:"paused"`
}

// Snapshot captures the current game state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	speed := s.speed
	paused := s.paused
	s.mu.Unlock()

	return Snapshot{
		Snake:  s.game.Snake(),
		Food:   s.game.Food(),
		Score:  s.game.Score(),
		State:  s.game.State(),
		Speed:  speed,
		Paused: paused,
	}
}

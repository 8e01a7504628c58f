// Package game implements the deterministic snake engine.
// It knows nothing about cameras, detectors or rendering.
package game

import (
	"math/rand"
	"sync"
)

// State represents the game state machine.
type State string

const (
	// StateRunning means the snake advances on each tick.
	StateRunning State = "running"
	// StateGameOver is the terminal state after a collision.
	// Only Reset is accepted while in this state.
	StateGameOver State = "game_over"
)

// Point is a grid coordinate. The origin is the top-left cell.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Direction is a unit vector on the grid. The zero value (None)
// means the snake is idle and ticks are no-ops.
type Direction struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

// The four cardinal directions plus the idle direction.
var (
	None  = Direction{0, 0}
	Up    = Direction{0, -1}
	Down  = Direction{0, 1}
	Left  = Direction{-1, 0}
	Right = Direction{1, 0}
)

// Opposite returns the reverse of the direction.
func (d Direction) Opposite() Direction {
	return Direction{DX: -d.DX, DY: -d.DY}
}

// IsZero reports whether the direction is the idle direction.
func (d Direction) IsZero() bool {
	return d.DX == 0 && d.DY == 0
}

// Game holds the full snake game state. All methods are safe for
// concurrent use so the session loop and the state feed can share it.
type Game struct {
	width  int
	height int
	snake  []Point // head first
	dir    Direction
	food   Point
	score  int
	state  State
	rng    *rand.Rand
	mu     sync.Mutex
}

// New creates a game on a width x height grid. The rng is used for
// food placement; pass a seeded source for reproducible games.
func New(width, height int, rng *rand.Rand) *Game {
	g := &Game{
		width:  width,
		height: height,
		rng:    rng,
	}
	g.resetLocked()
	return g
}

// Reset returns the game to its initial state: a single-cell snake at
// the grid center, idle direction, score zero and fresh food.
func (g *Game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resetLocked()
}

func (g *Game) resetLocked() {
	g.snake = []Point{{X: g.width / 2, Y: g.height / 2}}
	g.dir = None
	g.score = 0
	g.state = StateRunning
	g.food = g.spawnFoodLocked()
}

// spawnFoodLocked picks a uniformly random cell not occupied by the snake.
func (g *Game) spawnFoodLocked() Point {
	for {
		p := Point{X: g.rng.Intn(g.width), Y: g.rng.Intn(g.height)}
		if !g.occupiedLocked(p) {
			return p
		}
	}
}

func (g *Game) occupiedLocked(p Point) bool {
	for _, s := range g.snake {
		if s == p {
			return true
		}
	}
	return false
}

// SetDirection proposes a new travel direction. The proposal is
// rejected when it would reverse the current direction, regardless of
// body length. Idle proposals are ignored.
func (g *Game) SetDirection(d Direction) {
	if d.IsZero() {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateRunning {
		return
	}
	if !g.dir.IsZero() && d == g.dir.Opposite() {
		return
	}
	g.dir = d
}

// Tick advances the snake by one cell in the current direction.
//
// On boundary or self collision the game transitions to GameOver and
// the body is left untouched. Eating food grows the snake by one cell
// and increments the score; otherwise the tail cell is dropped so the
// body length stays constant.
func (g *Game) Tick() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateRunning || g.dir.IsZero() {
		return
	}

	head := g.snake[0]
	next := Point{X: head.X + g.dir.DX, Y: head.Y + g.dir.DY}

	if next.X < 0 || next.X >= g.width || next.Y < 0 || next.Y >= g.height || g.occupiedLocked(next) {
		g.state = StateGameOver
		return
	}

	g.snake = append([]Point{next}, g.snake...)

	if next == g.food {
		g.score++
		g.food = g.spawnFoodLocked()
	} else {
		g.snake = g.snake[:len(g.snake)-1]
	}
}

// State returns the current state machine state.
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Score returns the current score.
func (g *Game) Score() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.score
}

// Direction returns the current travel direction.
func (g *Game) Direction() Direction {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.dir
}

// Food returns the current food cell.
func (g *Game) Food() Point {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.food
}

// Snake returns a copy of the snake body, head first.
func (g *Game) Snake() []Point {
	g.mu.Lock()
	defer g.mu.Unlock()
	body := make([]Point, len(g.snake))
	copy(body, g.snake)
	return body
}

// Length returns the current body length.
func (g *Game) Length() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.snake)
}

// Size returns the grid dimensions in cells.
func (g *Game) Size() (width, height int) {
	return g.width, g.height
}

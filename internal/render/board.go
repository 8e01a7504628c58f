// Package render draws the game board, HUD and hand skeleton overlay
// onto OpenCV Mats.
package render

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/sarpa/internal/game"
)

// DefaultCellSize is the pixel size of one grid cell.
const DefaultCellSize = 20

// Board colors.
var (
	SnakeColor = color.RGBA{G: 255, A: 255}
	FoodColor  = color.RGBA{R: 255, A: 255}
	TextColor  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Board renders game state onto a black canvas, one filled rectangle
// per snake cell and a circle for the food.
type Board struct {
	cell int
}

// NewBoard creates a Board with the given cell size in pixels.
// Sizes less than or equal to 0 fall back to the default.
func NewBoard(cell int) *Board {
	if cell <= 0 {
		cell = DefaultCellSize
	}
	return &Board{cell: cell}
}

// CellSize returns the configured cell size in pixels.
func (b *Board) CellSize() int {
	return b.cell
}

// Draw renders the game and HUD into a new Mat sized to the grid.
// The caller owns the returned Mat and must close it.
func (b *Board) Draw(g *game.Game, speed int) gocv.Mat {
	gridW, gridH := g.Size()
	width := gridW * b.cell
	height := gridH * b.cell

	canvas := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)

	for _, seg := range g.Snake() {
		x := seg.X * b.cell
		y := seg.Y * b.cell
		gocv.Rectangle(&canvas, image.Rect(x, y, x+b.cell, y+b.cell), SnakeColor, -1)
	}

	food := g.Food()
	fx := food.X*b.cell + b.cell/2
	fy := food.Y*b.cell + b.cell/2
	gocv.Circle(&canvas, image.Pt(fx, fy), b.cell/2, FoodColor, -1)

	gocv.PutText(&canvas, fmt.Sprintf("Score: %d", g.Score()), image.Pt(10, 30),
		gocv.FontHersheySimplex, 1, TextColor, 2)
	gocv.PutText(&canvas, fmt.Sprintf("Speed: %d", speed), image.Pt(10, 60),
		gocv.FontHersheySimplex, 1, TextColor, 2)

	if g.State() == game.StateGameOver {
		gocv.PutText(&canvas, "Game Over! (R to restart)", image.Pt(width/4, height/2),
			gocv.FontHersheySimplex, 1, TextColor, 2)
	}

	return canvas
}

// Compose concatenates the camera view and the board side by side.
// Both Mats must have the same height and type. The caller owns the
// returned Mat.
func Compose(cameraFrame, board *gocv.Mat) gocv.Mat {
	combined := gocv.NewMat()
	gocv.Hconcat(*cameraFrame, *board, &combined)
	return combined
}

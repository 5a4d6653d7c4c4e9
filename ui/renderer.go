package ui

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"snake-env/game"
)

const (
	borderPadding = 10 // Padding around game area
	statusHeight  = 30 // Space reserved under the grid for the status line
)

// Window draws a board in a raylib window.
type Window struct {
	cellSize int32
	size     int32
	offsetX  int32
	offsetY  int32
}

// NewWindow opens a window sized for an n×n board.
func NewWindow(n int, cellSize int32, title string) *Window {
	w := &Window{
		cellSize: cellSize,
		size:     int32(n),
		offsetX:  borderPadding,
		offsetY:  borderPadding,
	}
	grid := w.size * w.cellSize
	rl.InitWindow(grid+2*borderPadding, grid+2*borderPadding+statusHeight, title)
	rl.SetTargetFPS(60)
	return w
}

// ShouldClose reports whether the user closed the window or pressed Q.
func (w *Window) ShouldClose() bool {
	return rl.WindowShouldClose() || rl.IsKeyPressed(rl.KeyQ)
}

func (w *Window) Close() {
	rl.CloseWindow()
}

// Show keeps drawing g for at least d. It returns false if the window was closed meanwhile.
func (w *Window) Show(g game.Grid, status string, d time.Duration) bool {
	deadline := time.Now().Add(d)
	for {
		if w.ShouldClose() {
			return false
		}
		w.Draw(g, status)
		if !time.Now().Before(deadline) {
			return true
		}
	}
}

// Draw renders one frame.
func (w *Window) Draw(g game.Grid, status string) {
	rl.BeginDrawing()
	defer rl.EndDrawing()
	rl.ClearBackground(rl.Black)

	total := w.size * w.cellSize
	rl.DrawRectangle(w.offsetX-1, w.offsetY-1, total+2, total+2, rl.DarkGray)
	rl.DrawRectangle(w.offsetX, w.offsetY, total, total, rl.Black)

	n := g.Size()
	for i, row := range g {
		for j, v := range row {
			var color rl.Color
			switch game.Glyph(v, n) {
			case game.GlyphApple:
				color = rl.Red
			case game.GlyphHead:
				color = rl.Yellow
			case game.GlyphBody:
				color = rl.Lime
			default:
				continue
			}
			x := w.offsetX + int32(j)*w.cellSize
			y := w.offsetY + int32(i)*w.cellSize
			rl.DrawRectangle(x+1, y+1, w.cellSize-2, w.cellSize-2, color)
		}
	}

	fontSize := int32(statusHeight / 2)
	rl.DrawText(status, w.offsetX, w.offsetY+total+(statusHeight-fontSize)/2, fontSize, rl.RayWhite)
}

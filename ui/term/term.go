// Package term draws boards as text frames on a terminal.
package term

import (
	"fmt"
	"io"
	"strings"

	"github.com/logrusorgru/aurora"

	"snake-env/game"
)

const clearScreen = "\033[H\033[2J"

// Renderer writes one frame per Draw call.
type Renderer struct {
	w     io.Writer
	au    aurora.Aurora
	clear bool
}

// New returns a renderer writing to w. color enables ANSI colours; clear redraws in place.
func New(w io.Writer, color, clear bool) *Renderer {
	return &Renderer{w: w, au: aurora.NewAurora(color), clear: clear}
}

// Frame returns the text of one frame followed by the status line.
func (r *Renderer) Frame(g game.Grid, status string) string {
	n := g.Size()
	var b strings.Builder
	for _, row := range g {
		for _, v := range row {
			glyph := string(game.Glyph(v, n))
			switch glyph[0] {
			case game.GlyphApple:
				b.WriteString(r.au.Red(glyph).String())
			case game.GlyphHead:
				b.WriteString(r.au.Yellow(glyph).String())
			case game.GlyphBody:
				b.WriteString(r.au.Green(glyph).String())
			default:
				b.WriteString(glyph)
			}
		}
		b.WriteByte('\n')
	}
	if status != "" {
		b.WriteString(status)
		b.WriteByte('\n')
	}
	return b.String()
}

// Draw writes a frame, clearing the screen first when enabled.
func (r *Renderer) Draw(g game.Grid, status string) error {
	prefix := ""
	if r.clear {
		prefix = clearScreen
	}
	_, err := fmt.Fprint(r.w, prefix, r.Frame(g, status))
	return err
}

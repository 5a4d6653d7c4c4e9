package game

import "strings"

// Cell glyphs used by Render.
const (
	GlyphEmpty = '.'
	GlyphApple = '@'
	GlyphHead  = 'o'
	GlyphBody  = '*'
)

// Glyph returns the character drawn for a cell value on an n×n grid.
func Glyph(v, n int) rune {
	switch {
	case v == EmptyCell:
		return GlyphEmpty
	case v == AppleMarker(n):
		return GlyphApple
	case v == 1:
		return GlyphHead
	default:
		return GlyphBody
	}
}

// Render draws the grid as text, one line per row.
func Render(g Grid) string {
	n := g.Size()
	var b strings.Builder
	b.Grow(n * (n + 1))
	for _, row := range g {
		for _, v := range row {
			b.WriteRune(Glyph(v, n))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

package game

// Point is a [row, col] coordinate on the grid.
type Point struct {
	Row, Col int
}

// Add returns p shifted by d.
func (p Point) Add(d Point) Point {
	return Point{Row: p.Row + d.Row, Col: p.Col + d.Col}
}

// Manhattan returns |a.Row-b.Row| + |a.Col-b.Col|.
func Manhattan(a, b Point) int {
	return abs(a.Row-b.Row) + abs(a.Col-b.Col)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// EmptyCell marks a free cell. Body segments hold their age, 1 for the head up to N*N,
// and the apple holds AppleMarker(N).
const EmptyCell = 0

// Grid is an N×N board indexed [row][col].
type Grid [][]int

// NewGrid allocates an n×n grid of empty cells.
func NewGrid(n int) Grid {
	g := make(Grid, n)
	for i := range g {
		g[i] = make([]int, n)
	}
	return g
}

// Size returns N.
func (g Grid) Size() int {
	return len(g)
}

// InBounds reports whether p lies in [0, N) on both axes.
func (g Grid) InBounds(p Point) bool {
	n := len(g)
	return p.Row >= 0 && p.Row < n && p.Col >= 0 && p.Col < n
}

// At returns the value stored at p. p must be in bounds.
func (g Grid) At(p Point) int {
	return g[p.Row][p.Col]
}

func (g Grid) set(p Point, v int) {
	g[p.Row][p.Col] = v
}

// Clone returns a deep copy of the grid.
func (g Grid) Clone() Grid {
	c := make(Grid, len(g))
	for i, row := range g {
		c[i] = make([]int, len(row))
		copy(c[i], row)
	}
	return c
}

// AppleMarker returns the value marking the apple on an n×n grid.
func AppleMarker(n int) int {
	return n*n + 1
}

// IsBody reports whether v is a body segment value on an n×n grid.
func IsBody(v, n int) bool {
	return v > 0 && v <= n*n
}

// emptyCells collects every cell holding EmptyCell, in row-major order.
func (g Grid) emptyCells() []Point {
	var cells []Point
	for i, row := range g {
		for j, v := range row {
			if v == EmptyCell {
				cells = append(cells, Point{Row: i, Col: j})
			}
		}
	}
	return cells
}

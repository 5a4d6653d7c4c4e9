package game

// Collision represents the reason a move ended the episode.
type Collision int

const (
	NoCollision Collision = iota
	WallCollision
	SelfCollision
)

func (c Collision) String() string {
	switch c {
	case WallCollision:
		return "wall"
	case SelfCollision:
		return "self"
	default:
		return "none"
	}
}

// move is the outcome of evaluating one action against a board. It never aliases the input grid.
type move struct {
	direction Direction
	grid      Grid
	head      Point
	collision Collision
}

func (m move) terminal() bool {
	return m.collision != NoCollision
}

// evaluateMove computes the board that results from taking action a with the snake's head at head
// heading dir. The input grid is not modified, so the same call serves both Step and the danger probes.
func evaluateMove(grid Grid, head Point, dir Direction, a Action) move {
	n := grid.Size()
	apple := AppleMarker(n)
	next := grid.Clone()

	newDir := dir.Apply(a)
	newHead := head.Add(newDir.Delta())

	m := move{direction: newDir, grid: next, head: newHead}
	if !next.InBounds(newHead) {
		m.collision = WallCollision
		return m
	}

	// Age every segment; the oldest one is the tail.
	oldest := 0
	var tail Point
	for i, row := range next {
		for j, v := range row {
			if !IsBody(v, n) {
				continue
			}
			row[j] = v + 1
			if row[j] > oldest {
				oldest = row[j]
				tail = Point{Row: i, Col: j}
			}
		}
	}

	// The tail stays put only when the apple is eaten.
	if next.At(newHead) != apple && oldest > 0 {
		next.set(tail, EmptyCell)
	}

	if v := next.At(newHead); v != apple && v != EmptyCell {
		m.collision = SelfCollision
		return m
	}

	next.set(newHead, 1)
	return m
}

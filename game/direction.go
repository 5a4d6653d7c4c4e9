package game

import "fmt"

// Direction is the absolute heading of the snake.
type Direction int

const (
	Down Direction = iota
	Right
	Up
	Left
)

var deltas = [4]Point{
	Down:  {Row: 1, Col: 0},
	Right: {Row: 0, Col: 1},
	Up:    {Row: -1, Col: 0},
	Left:  {Row: 0, Col: -1},
}

// Delta returns the row/col displacement of one move in d.
func (d Direction) Delta() Point {
	return deltas[d]
}

// TurnLeft returns the direction after a left turn (Down -> Right -> Up -> Left -> Down).
func (d Direction) TurnLeft() Direction {
	return (d + 1) % 4
}

// TurnRight returns the direction after a right turn.
func (d Direction) TurnRight() Direction {
	return (d + 3) % 4
}

// Apply returns the heading that results from taking a relative action.
func (d Direction) Apply(a Action) Direction {
	switch a {
	case TurnLeft:
		return d.TurnLeft()
	case TurnRight:
		return d.TurnRight()
	default:
		return d
	}
}

func (d Direction) String() string {
	switch d {
	case Down:
		return "down"
	case Right:
		return "right"
	case Up:
		return "up"
	case Left:
		return "left"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Action is a move relative to the current heading.
type Action int

const (
	Forward Action = iota
	TurnLeft
	TurnRight
)

// ActionCount is the number of relative actions.
const ActionCount = 3

// Actions lists every action in index order.
var Actions = [ActionCount]Action{Forward, TurnLeft, TurnRight}

// Valid reports whether a is one of Forward, TurnLeft or TurnRight.
func (a Action) Valid() bool {
	return a >= Forward && a <= TurnRight
}

func (a Action) String() string {
	switch a {
	case Forward:
		return "forward"
	case TurnLeft:
		return "left"
	case TurnRight:
		return "right"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

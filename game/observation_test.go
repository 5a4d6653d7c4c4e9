package game

import (
	"reflect"
	"testing"
)

func TestDangerFeaturesDoNotMutate(t *testing.T) {
	g := newTestGame(t, ProfileCompact, 1)
	setState(g, map[Point]int{{4, 7}: 1, {4, 6}: 2, {4, 5}: 3}, Right, Point{Row: 0, Col: 0})
	before := g.Grid()

	obs := g.Observe()
	want := [FeatureCount]bool{
		DangerForward: true,
		MovingRight:   true,
		AppleAbove:    true,
		AppleLeft:     true,
	}
	if obs.Features != want {
		t.Fatalf("expected features %v, got %v", want, obs.Features)
	}
	if !g.Danger(Forward) || g.Danger(TurnLeft) || g.Danger(TurnRight) {
		t.Fatalf("unexpected danger probes")
	}
	if !reflect.DeepEqual(before, g.grid) {
		t.Fatalf("probing danger modified the board")
	}
	if g.Head() != (Point{Row: 4, Col: 7}) || g.Direction() != Right {
		t.Fatalf("probing danger moved the snake to %v heading %v", g.Head(), g.Direction())
	}
}

func TestDangerFromOwnBody(t *testing.T) {
	g := newTestGame(t, ProfileCompact, 1)
	setState(g, map[Point]int{
		{2, 2}: 1, {2, 3}: 2, {3, 3}: 3, {3, 2}: 4, {3, 1}: 5,
	}, Left, Point{Row: 7, Col: 7})
	f := g.Observe().Features
	if f[DangerForward] || !f[DangerLeft] || f[DangerRight] {
		t.Fatalf("expected danger only on the left, got %v", f[:3])
	}
	if !f[MovingLeft] || !f[AppleBelow] || !f[AppleRight] {
		t.Fatalf("unexpected direction/apple features %v", f)
	}
}

func TestEvaluateMoveIsPure(t *testing.T) {
	g := newTestGame(t, ProfileCompact, 11)
	grid := g.Grid()
	snapshot := grid.Clone()
	for _, a := range Actions {
		first := evaluateMove(grid, g.Head(), g.Direction(), a)
		second := evaluateMove(grid, g.Head(), g.Direction(), a)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("evaluateMove(%v) is not deterministic", a)
		}
		if !reflect.DeepEqual(grid, snapshot) {
			t.Fatalf("evaluateMove(%v) modified its input", a)
		}
		first.grid[0][0] = -1
		if grid[0][0] == -1 {
			t.Fatalf("evaluateMove(%v) returned a grid aliasing its input", a)
		}
	}
}

func TestFeatureVector(t *testing.T) {
	g := newTestGame(t, ProfileCompact, 1)
	setState(g, map[Point]int{{4, 7}: 1, {4, 6}: 2, {4, 5}: 3}, Right, Point{Row: 0, Col: 0})
	v := g.Observe().Vector()
	want := []float64{1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 1}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("expected %v, got %v", want, v)
	}
}

func TestDirectionTurns(t *testing.T) {
	cases := []struct {
		dir         Direction
		left, right Direction
		delta       Point
	}{
		{Down, Right, Left, Point{Row: 1}},
		{Right, Up, Down, Point{Col: 1}},
		{Up, Left, Right, Point{Row: -1}},
		{Left, Down, Up, Point{Col: -1}},
	}
	for _, c := range cases {
		if got := c.dir.Apply(TurnLeft); got != c.left {
			t.Fatalf("%v: expected left turn to %v, got %v", c.dir, c.left, got)
		}
		if got := c.dir.Apply(TurnRight); got != c.right {
			t.Fatalf("%v: expected right turn to %v, got %v", c.dir, c.right, got)
		}
		if got := c.dir.Apply(Forward); got != c.dir {
			t.Fatalf("%v: forward changed heading to %v", c.dir, got)
		}
		if got := c.dir.Delta(); got != c.delta {
			t.Fatalf("%v: expected delta %v, got %v", c.dir, c.delta, got)
		}
	}
}

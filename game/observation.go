package game

// FeatureCount is the length of the relative feature vector.
const FeatureCount = 11

// Feature indices of the relative encoding.
const (
	DangerForward = iota
	DangerLeft
	DangerRight
	MovingDown
	MovingRight
	MovingUp
	MovingLeft
	AppleBelow
	AppleAbove
	AppleRight
	AppleLeft
)

// Observation is the state handed to a policy. Exactly one of Grid or Features is
// meaningful, as selected by Mode.
type Observation struct {
	Mode     ObservationMode
	Grid     Grid
	Features [FeatureCount]bool
}

// Vector flattens the observation into a numeric policy input: the grid in row-major
// order, or the features as 0/1.
func (o Observation) Vector() []float64 {
	if o.Mode == ObserveGrid {
		n := o.Grid.Size()
		v := make([]float64, 0, n*n)
		for _, row := range o.Grid {
			for _, cell := range row {
				v = append(v, float64(cell))
			}
		}
		return v
	}
	v := make([]float64, FeatureCount)
	for i, f := range o.Features {
		if f {
			v[i] = 1
		}
	}
	return v
}

// features builds the relative encoding for a snake at head heading dir with the apple at apple.
func features(grid Grid, head Point, dir Direction, apple Point) [FeatureCount]bool {
	var f [FeatureCount]bool
	f[DangerForward] = evaluateMove(grid, head, dir, Forward).terminal()
	f[DangerLeft] = evaluateMove(grid, head, dir, TurnLeft).terminal()
	f[DangerRight] = evaluateMove(grid, head, dir, TurnRight).terminal()
	f[MovingDown] = dir == Down
	f[MovingRight] = dir == Right
	f[MovingUp] = dir == Up
	f[MovingLeft] = dir == Left
	f[AppleBelow] = apple.Row > head.Row
	f[AppleAbove] = apple.Row < head.Row
	f[AppleRight] = apple.Col > head.Col
	f[AppleLeft] = apple.Col < head.Col
	return f
}

package game

// Sparse scheme rewards.
const (
	SparseStepReward     = 0.0
	SparseAppleReward    = 5.0
	SparseTerminalReward = -10.0
)

// Distance-shaped scheme rewards. Wall and self collisions share one terminal penalty.
const (
	DistanceCloserReward   = 20.0
	DistanceFartherReward  = -5.0
	DistanceTerminalReward = -100.0
)

// TerminalReward returns the reward paid for a collision under s.
func (s RewardScheme) TerminalReward() float64 {
	if s == DistanceReward {
		return DistanceTerminalReward
	}
	return SparseTerminalReward
}

// moveReward returns the reward for a legal move from oldHead to newHead with the apple at apple.
func (s RewardScheme) moveReward(oldHead, newHead, apple Point) float64 {
	if s == DistanceReward {
		if Manhattan(apple, newHead) < Manhattan(apple, oldHead) {
			return DistanceCloserReward
		}
		return DistanceFartherReward
	}
	if newHead == apple {
		return SparseAppleReward
	}
	return SparseStepReward
}

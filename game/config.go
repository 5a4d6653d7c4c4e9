package game

import (
	"fmt"

	"github.com/pkg/errors"
)

// ObservationMode selects the state encoding handed to a policy.
type ObservationMode int

const (
	// ObserveFeatures emits the 11-element relative feature vector.
	ObserveFeatures ObservationMode = iota
	// ObserveGrid emits the raw N×N grid.
	ObserveGrid
)

func (m ObservationMode) String() string {
	switch m {
	case ObserveFeatures:
		return "features"
	case ObserveGrid:
		return "grid"
	default:
		return fmt.Sprintf("ObservationMode(%d)", int(m))
	}
}

// RewardScheme selects how step rewards are computed.
type RewardScheme int

const (
	// SparseReward pays only for apples and collisions.
	SparseReward RewardScheme = iota
	// DistanceReward pays for every move toward the apple and charges for every move away.
	DistanceReward
)

func (s RewardScheme) String() string {
	switch s {
	case SparseReward:
		return "sparse"
	case DistanceReward:
		return "distance"
	default:
		return fmt.Sprintf("RewardScheme(%d)", int(s))
	}
}

// MinSize is the smallest board that fits the initial three-segment snake.
const MinSize = 3

// Config fixes the board size, observation encoding and reward scheme of an Env.
type Config struct {
	Size        int
	Observation ObservationMode
	Reward      RewardScheme
}

// Named profiles.
var (
	ProfileCompact = Config{Size: 8, Observation: ObserveFeatures, Reward: SparseReward}
	ProfileClassic = Config{Size: 20, Observation: ObserveGrid, Reward: DistanceReward}
)

// Profiles maps profile names accepted by the CLI to their configs.
var Profiles = map[string]Config{
	"compact": ProfileCompact,
	"classic": ProfileClassic,
}

// ErrInvalidConfig is returned by Validate and New for unusable configurations.
var ErrInvalidConfig = errors.New("invalid config")

// Validate checks that the config describes a playable board.
func (c Config) Validate() error {
	if c.Size < MinSize {
		return errors.Wrapf(ErrInvalidConfig, "size %d is below %d", c.Size, MinSize)
	}
	if c.Observation != ObserveFeatures && c.Observation != ObserveGrid {
		return errors.Wrapf(ErrInvalidConfig, "unknown observation mode %d", int(c.Observation))
	}
	if c.Reward != SparseReward && c.Reward != DistanceReward {
		return errors.Wrapf(ErrInvalidConfig, "unknown reward scheme %d", int(c.Reward))
	}
	return nil
}

// StateSize returns the length of Observation.Vector for this config.
func (c Config) StateSize() int {
	if c.Observation == ObserveGrid {
		return c.Size * c.Size
	}
	return FeatureCount
}

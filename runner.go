package main

import (
	"fmt"
	"log"
	"time"

	"snake-env/game"
	"snake-env/stats"
)

// Frame is what the runner hands to the display after reset and after every step.
type Frame struct {
	Episode     int
	Step        int
	Grid        game.Grid
	Score       int
	Reward      float64
	TotalReward float64
	Done        bool
	Collision   game.Collision
}

// Status formats the line shown under the board.
func (f Frame) Status() string {
	s := fmt.Sprintf("episode %d  step %d  score %d  reward %.1f", f.Episode, f.Step, f.Score, f.TotalReward)
	if f.Done {
		if f.Collision != game.NoCollision {
			s += fmt.Sprintf("  (%s collision)", f.Collision)
		} else {
			s += "  (done)"
		}
	}
	return s
}

// RunnerConfig holds the optional collaborators of a Runner.
type RunnerConfig struct {
	// MaxSteps truncates an episode; 0 means no limit.
	MaxSteps int
	Logger   *log.Logger
	Stats    *stats.GameStats
	// OnFrame is called after reset and every step; returning false aborts the episode.
	OnFrame func(Frame) bool
}

// EpisodeResult summarises one played episode.
type EpisodeResult struct {
	Episode   int
	Score     int
	Steps     int
	Reward    float64
	Collision game.Collision
	Won       bool
	Truncated bool
	Aborted   bool
	StartTime time.Time
	EndTime   time.Time
}

// Runner drives a policy through episodes of one game.
type Runner struct {
	game     *game.Game
	policy   Policy
	cfg      RunnerConfig
	episodes int
}

func NewRunner(g *game.Game, p Policy, cfg RunnerConfig) *Runner {
	return &Runner{game: g, policy: p, cfg: cfg}
}

// RunEpisode resets the game and plays until the episode ends, is truncated or is aborted.
func (r *Runner) RunEpisode() (EpisodeResult, error) {
	r.episodes++
	res := EpisodeResult{Episode: r.episodes, StartTime: time.Now()}
	obs := r.game.Reset()

	frame := Frame{Episode: res.Episode, Grid: r.game.Grid()}
	if !r.emit(frame) {
		res.Aborted = true
	}

	for !res.Aborted {
		if r.cfg.MaxSteps > 0 && res.Steps >= r.cfg.MaxSteps {
			res.Truncated = true
			break
		}
		a, err := r.policy.Act(obs)
		if err != nil {
			return res, err
		}
		step, err := r.game.Step(a)
		if err != nil {
			return res, err
		}
		obs = step.Observation
		res.Steps++
		res.Reward += step.Reward
		res.Score = r.game.Score()
		res.Collision = step.Collision
		res.Won = step.Won

		frame = Frame{
			Episode:     res.Episode,
			Step:        res.Steps,
			Grid:        r.game.Grid(),
			Score:       res.Score,
			Reward:      step.Reward,
			TotalReward: res.Reward,
			Done:        step.Done,
			Collision:   step.Collision,
		}
		if !r.emit(frame) {
			res.Aborted = true
		}
		if step.Done {
			break
		}
	}
	res.EndTime = time.Now()

	if r.cfg.Stats != nil && !res.Aborted {
		r.cfg.Stats.AddGame(stats.GameRecord{
			StartTime: res.StartTime,
			EndTime:   res.EndTime,
			Score:     res.Score,
			Steps:     res.Steps,
			Reward:    res.Reward,
			Collision: res.Collision.String(),
		})
	}
	if r.cfg.Logger != nil {
		r.cfg.Logger.Printf("episode %d: score=%d steps=%d reward=%.1f collision=%s won=%v truncated=%v",
			res.Episode, res.Score, res.Steps, res.Reward, res.Collision, res.Won, res.Truncated)
	}
	return res, nil
}

func (r *Runner) emit(f Frame) bool {
	if r.cfg.OnFrame == nil {
		return true
	}
	return r.cfg.OnFrame(f)
}

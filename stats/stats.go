// Package stats records finished episodes, compresses old records into groups and
// persists them as JSON.
package stats

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// DefaultGroupSize is the number of same-level records merged into one group.
const DefaultGroupSize = 100

// GameRecord holds one episode (CompressionIndex 0) or an aggregate of GamesCount episodes.
type GameRecord struct {
	StartTime        time.Time `json:"startTime"`
	EndTime          time.Time `json:"endTime"`
	Score            int       `json:"score"`
	Steps            int       `json:"steps"`
	Reward           float64   `json:"reward"`
	Collision        string    `json:"collision,omitempty"`
	CompressionIndex int       `json:"compressionIndex"`
	GamesCount       int       `json:"gamesCount"`
	AverageScore     float64   `json:"averageScore"`
	MedianScore      float64   `json:"medianScore"`
	MaxScore         int       `json:"maxScore"`
	MinScore         int       `json:"minScore"`
	AverageSteps     float64   `json:"averageSteps"`
	AverageReward    float64   `json:"averageReward"`
	AverageDuration  float64   `json:"averageDuration"`
	MaxDuration      float64   `json:"maxDuration"`
	MinDuration      float64   `json:"minDuration"`
}

// GameStats is the record history of one run.
type GameStats struct {
	RunID     string       `json:"runId"`
	Profile   string       `json:"profile"`
	GroupSize int          `json:"groupSize"`
	Games     []GameRecord `json:"games"`
}

// NewRunID returns a fresh identifier for a run directory.
func NewRunID() string {
	return uuid.New().String()
}

// NewGameStats creates an empty history. groupSize <= 1 disables compression.
func NewGameStats(runID, profile string, groupSize int) *GameStats {
	return &GameStats{
		RunID:     runID,
		Profile:   profile,
		GroupSize: groupSize,
		Games:     make([]GameRecord, 0),
	}
}

// AddGame appends a finished episode and compresses the history if a level is full.
// Only StartTime, EndTime, Score, Steps, Reward and Collision are read from rec.
func (s *GameStats) AddGame(rec GameRecord) {
	duration := rec.EndTime.Sub(rec.StartTime).Seconds()
	s.Games = append(s.Games, GameRecord{
		StartTime:       rec.StartTime,
		EndTime:         rec.EndTime,
		Score:           rec.Score,
		Steps:           rec.Steps,
		Reward:          rec.Reward,
		Collision:       rec.Collision,
		GamesCount:      1,
		AverageScore:    float64(rec.Score),
		MedianScore:     float64(rec.Score),
		MaxScore:        rec.Score,
		MinScore:        rec.Score,
		AverageSteps:    float64(rec.Steps),
		AverageReward:   rec.Reward,
		AverageDuration: duration,
		MaxDuration:     duration,
		MinDuration:     duration,
	})

	if s.GroupSize > 1 {
		s.groupGames()
	}
}

// groupGames merges every full block of GroupSize records sharing a compression level into one
// record of the next level, until no level has a full block.
func (s *GameStats) groupGames() {
	sort.SliceStable(s.Games, func(i, j int) bool {
		if s.Games[i].CompressionIndex != s.Games[j].CompressionIndex {
			return s.Games[i].CompressionIndex > s.Games[j].CompressionIndex
		}
		return s.Games[i].StartTime.Before(s.Games[j].StartTime)
	})

	for level := 0; ; level++ {
		var records, others []GameRecord
		for _, g := range s.Games {
			if g.CompressionIndex == level {
				records = append(records, g)
			} else {
				others = append(others, g)
			}
		}
		if len(records) < s.GroupSize {
			return
		}

		var merged []GameRecord
		for i := 0; i < len(records); i += s.GroupSize {
			end := i + s.GroupSize
			if end > len(records) {
				merged = append(merged, records[i:]...)
				break
			}
			merged = append(merged, mergeGroup(records[i:end], level+1))
		}

		s.Games = append(others, merged...)
		sort.SliceStable(s.Games, func(i, j int) bool {
			if s.Games[i].CompressionIndex != s.Games[j].CompressionIndex {
				return s.Games[i].CompressionIndex > s.Games[j].CompressionIndex
			}
			return s.Games[i].StartTime.Before(s.Games[j].StartTime)
		})
	}
}

func mergeGroup(group []GameRecord, level int) GameRecord {
	out := GameRecord{
		StartTime:        group[0].StartTime,
		EndTime:          group[0].EndTime,
		CompressionIndex: level,
		MaxScore:         group[0].MaxScore,
		MinScore:         group[0].MinScore,
		MaxDuration:      group[0].MaxDuration,
		MinDuration:      group[0].MinDuration,
	}

	var totalScore, totalSteps, totalReward, totalDuration float64
	medians := make([]float64, 0)
	for _, g := range group {
		if g.MaxScore > out.MaxScore {
			out.MaxScore = g.MaxScore
		}
		if g.MinScore < out.MinScore {
			out.MinScore = g.MinScore
		}
		if g.MaxDuration > out.MaxDuration {
			out.MaxDuration = g.MaxDuration
		}
		if g.MinDuration < out.MinDuration {
			out.MinDuration = g.MinDuration
		}
		if g.StartTime.Before(out.StartTime) {
			out.StartTime = g.StartTime
		}
		if g.EndTime.After(out.EndTime) {
			out.EndTime = g.EndTime
		}
		weight := float64(g.GamesCount)
		totalScore += g.AverageScore * weight
		totalSteps += g.AverageSteps * weight
		totalReward += g.AverageReward * weight
		totalDuration += g.AverageDuration * weight
		out.GamesCount += g.GamesCount
		for i := 0; i < g.GamesCount; i++ {
			medians = append(medians, g.MedianScore)
		}
	}

	games := float64(out.GamesCount)
	out.AverageScore = totalScore / games
	out.AverageSteps = totalSteps / games
	out.AverageReward = totalReward / games
	out.AverageDuration = totalDuration / games
	out.MedianScore = median(medians)
	return out
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 0 {
		return (values[mid-1] + values[mid]) / 2
	}
	return values[mid]
}

// GamesPlayed returns the number of episodes recorded, including compressed ones.
func (s *GameStats) GamesPlayed() int {
	total := 0
	for _, g := range s.Games {
		total += g.GamesCount
	}
	return total
}

func (s *GameStats) weightedAverage(field func(GameRecord) float64) float64 {
	games := s.GamesPlayed()
	if games == 0 {
		return 0
	}
	var total float64
	for _, g := range s.Games {
		total += field(g) * float64(g.GamesCount)
	}
	return total / float64(games)
}

// AverageScore returns the mean number of apples per episode.
func (s *GameStats) AverageScore() float64 {
	return s.weightedAverage(func(g GameRecord) float64 { return g.AverageScore })
}

func (s *GameStats) AverageSteps() float64 {
	return s.weightedAverage(func(g GameRecord) float64 { return g.AverageSteps })
}

func (s *GameStats) AverageReward() float64 {
	return s.weightedAverage(func(g GameRecord) float64 { return g.AverageReward })
}

// AverageDuration returns the mean episode wall time in seconds.
func (s *GameStats) AverageDuration() float64 {
	return s.weightedAverage(func(g GameRecord) float64 { return g.AverageDuration })
}

// MedianScore weights each record's median by its game count.
func (s *GameStats) MedianScore() float64 {
	all := make([]float64, 0, s.GamesPlayed())
	for _, g := range s.Games {
		for i := 0; i < g.GamesCount; i++ {
			all = append(all, g.MedianScore)
		}
	}
	return median(all)
}

func (s *GameStats) MaxScore() int {
	if len(s.Games) == 0 {
		return 0
	}
	best := s.Games[0].MaxScore
	for _, g := range s.Games {
		if g.MaxScore > best {
			best = g.MaxScore
		}
	}
	return best
}

// SaveToFile writes the history as indented JSON, creating parent directories.
func (s *GameStats) SaveToFile(filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return errors.Wrap(err, "failed to create stats directory")
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal stats data")
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write stats file")
	}
	return nil
}

// LoadFromFile reads a history written by SaveToFile.
func LoadFromFile(filename string) (*GameStats, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read stats file")
	}
	var s GameStats
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal stats data")
	}
	if s.Games == nil {
		s.Games = make([]GameRecord, 0)
	}
	return &s, nil
}

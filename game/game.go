package game

import (
	"time"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

var (
	// ErrInvalidAction is returned by Step for an action outside {Forward, TurnLeft, TurnRight}.
	ErrInvalidAction = errors.New("invalid action")
	// ErrEpisodeOver is returned by Step once the episode has ended; call Reset to start a new one.
	ErrEpisodeOver = errors.New("episode is over")
)

// InitialLength is the number of segments the snake starts with.
const InitialLength = 3

// StepResult is everything Step reports about one transition.
type StepResult struct {
	Observation Observation
	Reward      float64
	Done        bool
	Collision   Collision
	AteApple    bool
	// Won is set when the apple was eaten and no empty cell is left for a new one.
	Won bool
}

// Game is a single-snake grid simulator. It is not safe for concurrent use.
type Game struct {
	cfg       Config
	rng       *rand.Rand
	grid      Grid
	head      Point
	apple     Point
	direction Direction
	score     int
	steps     int
	done      bool
	won       bool
}

// NewGame creates a game for cfg and resets it. Apple placement draws from rng; a nil rng is
// seeded from the clock.
func NewGame(cfg Config, rng *rand.Rand) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	g := &Game{cfg: cfg, rng: rng}
	g.Reset()
	return g, nil
}

// NewSeededGame creates a game whose apple placement is reproducible from seed.
func NewSeededGame(cfg Config, seed uint64) (*Game, error) {
	return NewGame(cfg, rand.New(rand.NewSource(seed)))
}

// Reset discards the current episode and starts a new one: a three-segment snake in the top rows
// of column N/2 heading down, and a fresh apple.
func (g *Game) Reset() Observation {
	n := g.cfg.Size
	col := n / 2
	g.grid = NewGrid(n)
	g.grid[0][col] = 3
	g.grid[1][col] = 2
	g.grid[2][col] = 1
	g.head = Point{Row: 2, Col: col}
	g.direction = Down
	g.score = 0
	g.steps = 0
	g.done = false
	g.won = false
	g.spawnApple()
	return g.Observe()
}

// spawnApple places the apple on a uniformly chosen empty cell. It reports false when the board is full.
func (g *Game) spawnApple() bool {
	cells := g.grid.emptyCells()
	if len(cells) == 0 {
		return false
	}
	g.apple = cells[g.rng.Intn(len(cells))]
	g.grid.set(g.apple, AppleMarker(g.cfg.Size))
	return true
}

// Step advances the game by one move.
func (g *Game) Step(a Action) (StepResult, error) {
	if !a.Valid() {
		return StepResult{}, errors.Wrapf(ErrInvalidAction, "action %d", int(a))
	}
	if g.done {
		return StepResult{}, ErrEpisodeOver
	}
	g.steps++

	m := evaluateMove(g.grid, g.head, g.direction, a)
	if m.terminal() {
		g.done = true
		return StepResult{
			Observation: g.Observe(),
			Reward:      g.cfg.Reward.TerminalReward(),
			Done:        true,
			Collision:   m.collision,
		}, nil
	}

	oldHead := g.head
	g.grid = m.grid
	g.head = m.head
	g.direction = m.direction

	res := StepResult{Reward: g.cfg.Reward.moveReward(oldHead, m.head, g.apple)}
	if m.head == g.apple {
		g.score++
		res.AteApple = true
		if !g.spawnApple() {
			g.done = true
			g.won = true
			res.Done = true
			res.Won = true
		}
	}
	res.Observation = g.Observe()
	return res, nil
}

// Danger reports whether taking a would end the episode. The game is not modified.
func (g *Game) Danger(a Action) bool {
	return evaluateMove(g.grid, g.head, g.direction, a).terminal()
}

// Observe returns the current observation in the configured encoding.
func (g *Game) Observe() Observation {
	if g.cfg.Observation == ObserveGrid {
		return Observation{Mode: ObserveGrid, Grid: g.grid.Clone()}
	}
	return Observation{
		Mode:     ObserveFeatures,
		Features: features(g.grid, g.head, g.direction, g.apple),
	}
}

// Render draws the current board.
func (g *Game) Render() string {
	return Render(g.grid)
}

// Grid returns a copy of the board.
func (g *Game) Grid() Grid { return g.grid.Clone() }

func (g *Game) Head() Point { return g.head }

func (g *Game) Apple() Point { return g.apple }

func (g *Game) Direction() Direction { return g.direction }

// Score returns the number of apples eaten this episode.
func (g *Game) Score() int { return g.score }

// Steps returns the number of Step calls accepted this episode, including the terminal one.
func (g *Game) Steps() int { return g.steps }

// Length returns the number of body segments.
func (g *Game) Length() int { return InitialLength + g.score }

func (g *Game) Done() bool { return g.done }

// Won reports whether the episode ended with the board full.
func (g *Game) Won() bool { return g.won }

func (g *Game) Config() Config { return g.cfg }

// StateSize returns the length of Observation.Vector.
func (g *Game) StateSize() int { return g.cfg.StateSize() }

func (g *Game) ActionCount() int { return ActionCount }

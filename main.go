package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"

	"snake-env/game"
	"snake-env/qlearning"
	"snake-env/stats"
	"snake-env/ui"
	"snake-env/ui/term"
)

func main() {
	logger := log.New(os.Stderr, "snake-env: ", log.LstdFlags)
	if err := run(os.Args[1:], logger); err != nil {
		fmt.Fprintf(os.Stderr, "snake-env: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, logger *log.Logger) error {
	if len(args) < 1 {
		return errors.New("missing subcommand; try 'play', 'watch', 'eval' or 'init-weights'")
	}

	switch args[0] {
	case "play":
		return runPlay(args[1:], logger)
	case "watch":
		return runWatch(args[1:], logger)
	case "eval":
		return runEval(args[1:], logger)
	case "init-weights":
		return runInitWeights(args[1:], logger)
	default:
		return errors.Errorf("unknown subcommand %q", args[0])
	}
}

// gameFlags are shared by every subcommand.
type gameFlags struct {
	profile *string
	size    *int
	seed    *uint64
}

func addGameFlags(fs *flag.FlagSet) gameFlags {
	names := make([]string, 0, len(game.Profiles))
	for name := range game.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return gameFlags{
		profile: fs.String("profile", "compact", "board profile ("+strings.Join(names, ", ")+")"),
		size:    fs.Int("size", 0, "override the profile's board size (0 keeps it)"),
		seed:    fs.Uint64("seed", 0, "random seed (0 seeds from the clock)"),
	}
}

func (f gameFlags) config() (game.Config, error) {
	cfg, ok := game.Profiles[*f.profile]
	if !ok {
		return game.Config{}, errors.Errorf("unknown profile %q", *f.profile)
	}
	if *f.size != 0 {
		cfg.Size = *f.size
	}
	return cfg, cfg.Validate()
}

func (f gameFlags) rng() *rand.Rand {
	seed := *f.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewSource(seed))
}

func (f gameFlags) newGame() (*game.Game, *rand.Rand, error) {
	cfg, err := f.config()
	if err != nil {
		return nil, nil, err
	}
	rng := f.rng()
	g, err := game.NewGame(cfg, rng)
	if err != nil {
		return nil, nil, err
	}
	return g, rng, nil
}

// loadPolicy returns the network stored at weights, or a random policy when kind is "random"
// or the weights cannot be loaded.
func loadPolicy(kind, weights string, cfg game.Config, rng *rand.Rand, logger *log.Logger) (Policy, func(), error) {
	switch kind {
	case "random":
		return NewRandomPolicy(rng), func() {}, nil
	case "network":
		net, err := qlearning.LoadNetwork(qlearning.DefaultConfig(cfg.StateSize()), weights)
		if err != nil {
			logger.Printf("failed to load weights from %s: %v; playing randomly", weights, err)
			return NewRandomPolicy(rng), func() {}, nil
		}
		return net, func() { net.Close() }, nil
	default:
		return nil, nil, errors.Errorf("unknown policy %q", kind)
	}
}

func runPlay(args []string, logger *log.Logger) error {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	gf := addGameFlags(fs)
	color := fs.Bool("color", true, "colour the board")
	if err := fs.Parse(args); err != nil {
		return err
	}

	g, _, err := gf.newGame()
	if err != nil {
		return err
	}
	renderer := term.New(os.Stdout, *color, true)
	runner := NewRunner(g, NewHumanPolicy(os.Stdin, os.Stdout), RunnerConfig{
		Logger: logger,
		OnFrame: func(f Frame) bool {
			if err := renderer.Draw(f.Grid, f.Status()); err != nil {
				logger.Printf("draw: %v", err)
			}
			return true
		},
	})

	res, err := runner.RunEpisode()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("The game has ended: score %d after %d steps\n", res.Score, res.Steps)
	return nil
}

func runWatch(args []string, logger *log.Logger) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	gf := addGameFlags(fs)
	policyKind := fs.String("policy", "network", "policy to watch (network, random)")
	weights := fs.String("weights", qlearning.WeightsFile, "weights file for the network policy")
	episodes := fs.Int("episodes", 1, "number of episodes to play")
	maxSteps := fs.Int("max-steps", 1000, "truncate episodes after this many steps (0 for no limit)")
	delay := fs.Duration("delay", 500*time.Millisecond, "pause between frames")
	gui := fs.Bool("gui", false, "draw in a window instead of the terminal")
	cellSize := fs.Int("cell", 24, "cell size in pixels for -gui")
	color := fs.Bool("color", true, "colour the terminal board")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *episodes <= 0 {
		return errors.Errorf("episodes must be positive (got %d)", *episodes)
	}

	g, rng, err := gf.newGame()
	if err != nil {
		return err
	}
	policy, closePolicy, err := loadPolicy(*policyKind, *weights, g.Config(), rng, logger)
	if err != nil {
		return err
	}
	defer closePolicy()

	var onFrame func(Frame) bool
	if *gui {
		window := ui.NewWindow(g.Config().Size, int32(*cellSize), "Snake - "+*gf.profile)
		defer window.Close()
		onFrame = func(f Frame) bool {
			return window.Show(f.Grid, f.Status(), *delay)
		}
	} else {
		renderer := term.New(os.Stdout, *color, true)
		onFrame = func(f Frame) bool {
			if err := renderer.Draw(f.Grid, f.Status()); err != nil {
				logger.Printf("draw: %v", err)
			}
			time.Sleep(*delay)
			return true
		}
	}

	runner := NewRunner(g, policy, RunnerConfig{MaxSteps: *maxSteps, Logger: logger, OnFrame: onFrame})
	for i := 0; i < *episodes; i++ {
		res, err := runner.RunEpisode()
		if err != nil {
			return err
		}
		if res.Aborted {
			return nil
		}
	}
	return nil
}

func runEval(args []string, logger *log.Logger) error {
	fs := flag.NewFlagSet("eval", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	gf := addGameFlags(fs)
	policyKind := fs.String("policy", "network", "policy to evaluate (network, random)")
	weights := fs.String("weights", qlearning.WeightsFile, "weights file for the network policy")
	episodes := fs.Int("episodes", 100, "number of episodes to play")
	maxSteps := fs.Int("max-steps", 1000, "truncate episodes after this many steps (0 for no limit)")
	outDir := fs.String("out", filepath.Join(qlearning.DataDir, "runs"), "directory for run results")
	groupSize := fs.Int("group", stats.DefaultGroupSize, "compress every N records into one (<=1 disables)")
	chart := fs.Bool("chart", false, "also write chart.html next to stats.json")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *episodes <= 0 {
		return errors.Errorf("episodes must be positive (got %d)", *episodes)
	}

	g, rng, err := gf.newGame()
	if err != nil {
		return err
	}
	policy, closePolicy, err := loadPolicy(*policyKind, *weights, g.Config(), rng, logger)
	if err != nil {
		return err
	}
	defer closePolicy()

	summary := stats.NewGameStats(stats.NewRunID(), *gf.profile, *groupSize)
	runner := NewRunner(g, policy, RunnerConfig{MaxSteps: *maxSteps, Stats: summary})
	logger.Printf("eval run %s: profile=%s policy=%s episodes=%d", summary.RunID, *gf.profile, *policyKind, *episodes)
	for i := 0; i < *episodes; i++ {
		if _, err := runner.RunEpisode(); err != nil {
			return err
		}
	}

	runDir := filepath.Join(*outDir, summary.RunID)
	statsFile := filepath.Join(runDir, "stats.json")
	if err := summary.SaveToFile(statsFile); err != nil {
		return err
	}
	if *chart {
		if err := writeChart(filepath.Join(runDir, "chart.html"), summary); err != nil {
			return err
		}
	}

	fmt.Printf("summary: games=%d avg_score=%.2f median_score=%.1f max_score=%d avg_steps=%.1f avg_reward=%.2f\n",
		summary.GamesPlayed(), summary.AverageScore(), summary.MedianScore(), summary.MaxScore(),
		summary.AverageSteps(), summary.AverageReward())
	logger.Printf("results written to %s", runDir)
	return nil
}

func writeChart(filename string, s *stats.GameStats) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create chart file")
	}
	defer f.Close()
	if err := stats.WriteChart(f, s); err != nil {
		return err
	}
	return f.Close()
}

func runInitWeights(args []string, logger *log.Logger) error {
	fs := flag.NewFlagSet("init-weights", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	gf := addGameFlags(fs)
	out := fs.String("out", qlearning.WeightsFile, "weights file to write")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := gf.config()
	if err != nil {
		return err
	}
	net, err := qlearning.NewNetwork(qlearning.DefaultConfig(cfg.StateSize()), gf.rng())
	if err != nil {
		return err
	}
	defer net.Close()
	if err := net.SaveWeights(*out); err != nil {
		return err
	}
	logger.Printf("wrote %d-input network to %s", cfg.StateSize(), *out)
	return nil
}

package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"

	"snake-env/game"
)

// Policy chooses the next action from an observation.
type Policy interface {
	Act(obs game.Observation) (game.Action, error)
}

// RandomPolicy picks uniformly among the three actions.
type RandomPolicy struct {
	rng *rand.Rand
}

func NewRandomPolicy(rng *rand.Rand) *RandomPolicy {
	return &RandomPolicy{rng: rng}
}

func (p *RandomPolicy) Act(game.Observation) (game.Action, error) {
	return game.Action(p.rng.Intn(game.ActionCount)), nil
}

// HumanPolicy reads actions typed as 0, 1 or 2, one per line, re-prompting on anything else.
type HumanPolicy struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewHumanPolicy(in io.Reader, out io.Writer) *HumanPolicy {
	return &HumanPolicy{in: bufio.NewScanner(in), out: out}
}

const humanPrompt = "0 - go straight\n1 - turn left\n2 - turn right\nMove: "

func (p *HumanPolicy) Act(game.Observation) (game.Action, error) {
	for {
		fmt.Fprint(p.out, humanPrompt)
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return game.Forward, errors.Wrap(err, "reading move")
			}
			return game.Forward, io.EOF
		}
		v, err := strconv.Atoi(strings.TrimSpace(p.in.Text()))
		if err == nil && game.Action(v).Valid() {
			return game.Action(v), nil
		}
		fmt.Fprintf(p.out, "invalid move %q\n", p.in.Text())
	}
}

package qlearning

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"

	"snake-env/game"
)

func newTestNetwork(t *testing.T, cfg NetworkConfig, seed uint64) *Network {
	t.Helper()
	n, err := NewNetwork(cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("unexpected error building network: %v", err)
	}
	t.Cleanup(func() { n.Close() })
	return n
}

func sampleState(size int) []float64 {
	state := make([]float64, size)
	for i := range state {
		if i%3 == 0 {
			state[i] = 1
		}
	}
	return state
}

func TestQValuesShape(t *testing.T) {
	n := newTestNetwork(t, DefaultConfig(game.FeatureCount), 1)
	q, err := n.QValues(sampleState(game.FeatureCount))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q) != game.ActionCount {
		t.Fatalf("expected %d values, got %d", game.ActionCount, len(q))
	}

	if _, err := n.QValues(sampleState(5)); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}
}

func TestForwardIsRepeatable(t *testing.T) {
	a := newTestNetwork(t, DefaultConfig(game.FeatureCount), 9)
	b := newTestNetwork(t, DefaultConfig(game.FeatureCount), 9)
	state := sampleState(game.FeatureCount)

	first, err := a.QValues(state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := a.QValues(state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	other, err := b.QValues(state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) || !reflect.DeepEqual(first, other) {
		t.Fatalf("expected identical predictions, got %v, %v and %v", first, second, other)
	}
}

func TestActPicksHighestValue(t *testing.T) {
	n := newTestNetwork(t, DefaultConfig(game.FeatureCount), 2)
	w3 := n.dense("w3").Data().([]float64)
	for i := range w3 {
		w3[i] = 0
	}
	copy(n.dense("b3").Data().([]float64), []float64{0.5, -1, 2})

	g, err := game.NewSeededGame(game.ProfileCompact, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a, err := n.Act(g.Observe())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != game.TurnRight {
		t.Fatalf("expected %v, got %v", game.TurnRight, a)
	}
}

func TestLoadWeightsRestoresPredictions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights", "qnet.gob")
	src := newTestNetwork(t, DefaultConfig(game.FeatureCount), 3)
	if err := src.SaveWeights(path); err != nil {
		t.Fatalf("unexpected error saving: %v", err)
	}

	dst, err := LoadNetwork(DefaultConfig(game.FeatureCount), path)
	if err != nil {
		t.Fatalf("unexpected error loading: %v", err)
	}
	defer dst.Close()

	state := sampleState(game.FeatureCount)
	want, _ := src.QValues(state)
	got, err := dst.QValues(state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("expected %v after load, got %v", want, got)
	}
}

func TestLoadWeightsRejectsOtherLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qnet.gob")
	src := newTestNetwork(t, DefaultConfig(game.FeatureCount), 3)
	if err := src.SaveWeights(path); err != nil {
		t.Fatalf("unexpected error saving: %v", err)
	}

	dst := newTestNetwork(t, DefaultConfig(64), 4)
	before := append([]float64(nil), dst.dense("w1").Data().([]float64)...)
	if err := dst.LoadWeights(path); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}
	if !reflect.DeepEqual(before, dst.dense("w1").Data().([]float64)) {
		t.Fatalf("a rejected load must leave the weights untouched")
	}
}

func TestLoadWeightsMissingFile(t *testing.T) {
	n := newTestNetwork(t, DefaultConfig(game.FeatureCount), 1)
	err := n.LoadWeights(filepath.Join(t.TempDir(), "absent.gob"))
	if err == nil || !os.IsNotExist(errors.Cause(err)) {
		t.Fatalf("expected a not-exist error, got %v", err)
	}
}

func TestInvalidNetworkConfig(t *testing.T) {
	if _, err := NewNetwork(NetworkConfig{StateSize: 11}, nil); err == nil {
		t.Fatalf("expected an error for zero-width layers")
	}
}

func BenchmarkQValues(b *testing.B) {
	n, err := NewNetwork(DefaultConfig(game.FeatureCount), nil)
	if err != nil {
		b.Fatal(err)
	}
	defer n.Close()
	state := sampleState(game.FeatureCount)
	for i := 0; i < b.N; i++ {
		if _, err := n.QValues(state); err != nil {
			b.Fatal(err)
		}
	}
}

package qlearning

import (
	"encoding/gob"
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"snake-env/game"
)

func init() {
	gob.Register(&tensor.Dense{})
	gob.Register(map[string]*tensor.Dense{})
}

const (
	// Hidden layer widths
	HiddenLayer1 = 256
	HiddenLayer2 = 128

	// File paths
	DataDir     = "data"
	WeightsFile = DataDir + "/qnet_weights.gob"
)

var (
	// ErrShapeMismatch is returned when an input or a stored layer does not fit the network.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrMissingLayer is returned when a weights file lacks one of the network's layers.
	ErrMissingLayer = errors.New("missing layer")
)

// NetworkConfig describes a state -> hidden1 -> hidden2 -> actions feed-forward network.
type NetworkConfig struct {
	StateSize int
	Hidden1   int
	Hidden2   int
	Actions   int
}

// DefaultConfig returns the 256/128 hidden layout with one output per snake action.
func DefaultConfig(stateSize int) NetworkConfig {
	return NetworkConfig{
		StateSize: stateSize,
		Hidden1:   HiddenLayer1,
		Hidden2:   HiddenLayer2,
		Actions:   game.ActionCount,
	}
}

// layerNames is the order layers are created in and the keys of the weights file.
var layerNames = []string{"w1", "b1", "w2", "b2", "w3", "b3"}

// Network predicts one value per action and plays the action with the highest value.
// Inference runs one observation at a time; a Network is not safe for concurrent use.
type Network struct {
	cfg    NetworkConfig
	g      *gorgonia.ExprGraph
	x      *gorgonia.Node
	layers map[string]*gorgonia.Node
	pred   *gorgonia.Node
	vm     gorgonia.VM
}

// NewNetwork builds the graph with weights drawn uniformly from ±1/sqrt(fan_in).
func NewNetwork(cfg NetworkConfig, rng *rand.Rand) (*Network, error) {
	if cfg.StateSize <= 0 || cfg.Hidden1 <= 0 || cfg.Hidden2 <= 0 || cfg.Actions <= 0 {
		return nil, errors.Errorf("invalid network config %+v", cfg)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	g := gorgonia.NewGraph()
	x := gorgonia.NewMatrix(g,
		tensor.Float64,
		gorgonia.WithShape(1, cfg.StateSize),
		gorgonia.WithName("x"))

	sizes := [][2]int{
		{cfg.StateSize, cfg.Hidden1},
		{cfg.Hidden1, cfg.Hidden2},
		{cfg.Hidden2, cfg.Actions},
	}
	layers := make(map[string]*gorgonia.Node, len(layerNames))
	for i, s := range sizes {
		w, b := layerNames[2*i], layerNames[2*i+1]
		layers[w] = newParam(g, rng, s[0], s[1], s[0], w)
		layers[b] = newParam(g, rng, 1, s[1], s[0], b)
	}

	// Hidden layers with ReLU
	h1 := gorgonia.Must(gorgonia.Mul(x, layers["w1"]))
	h1 = gorgonia.Must(gorgonia.Add(h1, layers["b1"]))
	h1 = gorgonia.Must(gorgonia.Rectify(h1))

	h2 := gorgonia.Must(gorgonia.Mul(h1, layers["w2"]))
	h2 = gorgonia.Must(gorgonia.Add(h2, layers["b2"]))
	h2 = gorgonia.Must(gorgonia.Rectify(h2))

	// Output layer
	out := gorgonia.Must(gorgonia.Mul(h2, layers["w3"]))
	pred := gorgonia.Must(gorgonia.Add(out, layers["b3"]))

	return &Network{
		cfg:    cfg,
		g:      g,
		x:      x,
		layers: layers,
		pred:   pred,
		vm:     gorgonia.NewTapeMachine(g),
	}, nil
}

func newParam(g *gorgonia.ExprGraph, rng *rand.Rand, rows, cols, fanIn int, name string) *gorgonia.Node {
	bound := 1 / math.Sqrt(float64(fanIn))
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = (rng.Float64()*2 - 1) * bound
	}
	value := tensor.New(tensor.WithShape(rows, cols), tensor.WithBacking(data))
	return gorgonia.NewMatrix(g,
		tensor.Float64,
		gorgonia.WithShape(rows, cols),
		gorgonia.WithName(name),
		gorgonia.WithValue(value))
}

// Config returns the layer sizes of the network.
func (n *Network) Config() NetworkConfig {
	return n.cfg
}

// QValues runs a forward pass for a single state vector.
func (n *Network) QValues(state []float64) ([]float64, error) {
	if len(state) != n.cfg.StateSize {
		return nil, errors.Wrapf(ErrShapeMismatch, "state has %d values, network expects %d", len(state), n.cfg.StateSize)
	}

	input := make([]float64, len(state))
	copy(input, state)
	if err := gorgonia.Let(n.x, tensor.New(tensor.WithShape(1, n.cfg.StateSize), tensor.WithBacking(input))); err != nil {
		return nil, errors.Wrap(err, "binding input")
	}

	defer n.vm.Reset()
	if err := n.vm.RunAll(); err != nil {
		return nil, errors.Wrap(err, "forward pass")
	}

	predValue := n.pred.Value()
	if predValue == nil {
		return nil, errors.New("nil prediction value")
	}
	data, ok := predValue.Data().([]float64)
	if !ok {
		return nil, errors.Errorf("unexpected prediction backing %T", predValue.Data())
	}

	qValues := make([]float64, n.cfg.Actions)
	copy(qValues, data)
	return qValues, nil
}

// Act returns the action with the highest predicted value for obs.
func (n *Network) Act(obs game.Observation) (game.Action, error) {
	qValues, err := n.QValues(obs.Vector())
	if err != nil {
		return game.Forward, err
	}
	return game.Action(floats.MaxIdx(qValues)), nil
}

// Close releases the VM.
func (n *Network) Close() error {
	return n.vm.Close()
}

func (n *Network) dense(name string) *tensor.Dense {
	return n.layers[name].Value().(*tensor.Dense)
}

// SaveWeights writes every layer to filename as a gob-encoded map keyed by layer name.
func (n *Network) SaveWeights(filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return errors.Wrap(err, "failed to create weights directory")
	}

	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create weights file")
	}
	defer f.Close()

	weights := make(map[string]*tensor.Dense, len(layerNames))
	for _, name := range layerNames {
		weights[name] = n.dense(name)
	}
	if err := gob.NewEncoder(f).Encode(weights); err != nil {
		return errors.Wrap(err, "failed to encode weights")
	}
	return f.Close()
}

// LoadWeights replaces every layer with the values stored in filename. Nothing is changed
// unless every layer is present with the expected shape.
func (n *Network) LoadWeights(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return errors.Wrap(err, "failed to open weights file")
	}
	defer f.Close()

	var weights map[string]*tensor.Dense
	if err := gob.NewDecoder(f).Decode(&weights); err != nil {
		return errors.Wrap(err, "failed to decode weights")
	}

	for _, name := range layerNames {
		src, ok := weights[name]
		if !ok || src == nil {
			return errors.Wrapf(ErrMissingLayer, "layer %s", name)
		}
		if dst := n.dense(name); !src.Shape().Eq(dst.Shape()) {
			return errors.Wrapf(ErrShapeMismatch, "layer %s: stored %v, network %v", name, src.Shape(), dst.Shape())
		}
	}
	for _, name := range layerNames {
		copy(n.dense(name).Data().([]float64), weights[name].Data().([]float64))
	}
	return nil
}

// LoadNetwork builds a network for cfg and loads its weights from filename.
func LoadNetwork(cfg NetworkConfig, filename string) (*Network, error) {
	n, err := NewNetwork(cfg, nil)
	if err != nil {
		return nil, err
	}
	if err := n.LoadWeights(filename); err != nil {
		n.Close()
		return nil, err
	}
	return n, nil
}

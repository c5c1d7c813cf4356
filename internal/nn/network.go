// Package nn is a small feed-forward binary classifier: dense ReLU layers
// with dropout, a sigmoid output unit, Adam, and binary cross-entropy.
package nn

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/dotameta/metalab/internal/features"
)

// Architecture lists hidden layer widths and the dropout rate after each.
type Architecture struct {
	Hidden  []int     `json:"hidden"`
	Dropout []float64 `json:"dropout"`
}

// DefaultArchitecture is 128-64-32 with dropout 0.3, 0.3, 0.2.
var DefaultArchitecture = Architecture{
	Hidden:  []int{128, 64, 32},
	Dropout: []float64{0.3, 0.3, 0.2},
}

func (a Architecture) validate() error {
	if len(a.Hidden) == 0 {
		return fmt.Errorf("architecture has no hidden layers")
	}
	if len(a.Dropout) != len(a.Hidden) {
		return fmt.Errorf("architecture has %d hidden layers but %d dropout rates", len(a.Hidden), len(a.Dropout))
	}
	for i, h := range a.Hidden {
		if h <= 0 {
			return fmt.Errorf("hidden layer %d has width %d", i, h)
		}
		if a.Dropout[i] < 0 || a.Dropout[i] >= 1 {
			return fmt.Errorf("dropout %d is %v, must be in [0,1)", i, a.Dropout[i])
		}
	}
	return nil
}

// String renders the layer stack, e.g. "Dense(128,relu)-Dropout(0.3)-...-Dense(1,sigmoid)".
func (a Architecture) String() string {
	var b strings.Builder
	for i, h := range a.Hidden {
		fmt.Fprintf(&b, "Dense(%d,relu)-", h)
		if a.Dropout[i] > 0 {
			fmt.Fprintf(&b, "Dropout(%s)-", strconv.FormatFloat(a.Dropout[i], 'f', -1, 64))
		}
	}
	b.WriteString("Dense(1,sigmoid)")
	return b.String()
}

// Layer is a dense layer. W is row-major with one row of In weights per output unit.
type Layer struct {
	In  int       `json:"in"`
	Out int       `json:"out"`
	W   []float64 `json:"weights"`
	B   []float64 `json:"biases"`
}

func newLayer(in, out int) *Layer {
	return &Layer{In: in, Out: out, W: make([]float64, in*out), B: make([]float64, out)}
}

func (l *Layer) forward(x, z []float64) {
	for o := 0; o < l.Out; o++ {
		s := l.B[o]
		row := l.W[o*l.In : (o+1)*l.In]
		for i, xi := range x {
			s += row[i] * xi
		}
		z[o] = s
	}
}

func (l *Layer) clone() *Layer {
	c := &Layer{In: l.In, Out: l.Out, W: make([]float64, len(l.W)), B: make([]float64, len(l.B))}
	copy(c.W, l.W)
	copy(c.B, l.B)
	return c
}

func (l *Layer) zero() {
	for i := range l.W {
		l.W[i] = 0
	}
	for i := range l.B {
		l.B[i] = 0
	}
}

// Network is the classifier. It is safe for concurrent Predict calls once
// training has finished.
type Network struct {
	InputDim int          `json:"input_dim"`
	Arch     Architecture `json:"architecture"`
	Layers   []*Layer     `json:"layers"`
}

// NewNetwork builds a network with He-uniform weights drawn from a source
// seeded with seed. inputDim must equal the feature schema width.
func NewNetwork(inputDim int, arch Architecture, seed int64) (*Network, error) {
	if inputDim != features.Width {
		return nil, fmt.Errorf("input width %d, want %d: %w", inputDim, features.Width, ErrFeatureWidth)
	}
	if err := arch.validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(seed))
	n := &Network{InputDim: inputDim, Arch: arch}
	in := inputDim
	for _, out := range append(append([]int{}, arch.Hidden...), 1) {
		l := newLayer(in, out)
		limit := math.Sqrt(6 / float64(in))
		for i := range l.W {
			l.W[i] = (rng.Float64()*2 - 1) * limit
		}
		n.Layers = append(n.Layers, l)
		in = out
	}
	return n, nil
}

// Predict returns the probability that the label is 1. Dropout is not
// applied, so identical input yields identical output.
func (n *Network) Predict(x []float64) float64 {
	a := x
	last := len(n.Layers) - 1
	for li, l := range n.Layers {
		z := make([]float64, l.Out)
		l.forward(a, z)
		if li == last {
			return sigmoid(z[0])
		}
		for o := range z {
			if z[o] < 0 {
				z[o] = 0
			}
		}
		a = z
	}
	return 0
}

// PredictBatch scores every row of X.
func (n *Network) PredictBatch(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, x := range X {
		out[i] = n.Predict(x)
	}
	return out
}

func (n *Network) snapshot() []*Layer {
	s := make([]*Layer, len(n.Layers))
	for i, l := range n.Layers {
		s[i] = l.clone()
	}
	return s
}

func (n *Network) checkShape() error {
	if err := n.Arch.validate(); err != nil {
		return err
	}
	if len(n.Layers) != len(n.Arch.Hidden)+1 {
		return fmt.Errorf("network has %d layers, architecture needs %d", len(n.Layers), len(n.Arch.Hidden)+1)
	}
	in := n.InputDim
	for i, l := range n.Layers {
		want := 1
		if i < len(n.Arch.Hidden) {
			want = n.Arch.Hidden[i]
		}
		if l.In != in || l.Out != want || len(l.W) != l.In*l.Out || len(l.B) != l.Out {
			return fmt.Errorf("layer %d has shape %dx%d (%d weights), want %dx%d", i, l.In, l.Out, len(l.W), in, want)
		}
		in = l.Out
	}
	return nil
}

func (n *Network) checkWeights() error {
	for i, l := range n.Layers {
		for _, w := range l.W {
			if !finite(w) {
				return fmt.Errorf("layer %d has non-finite weight %v", i, w)
			}
		}
		for _, b := range l.B {
			if !finite(b) {
				return fmt.Errorf("layer %d has non-finite bias %v", i, b)
			}
		}
	}
	return nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

const epsilon = 1e-7

// bce is the binary cross-entropy of prediction p against label y.
func bce(p, y float64) float64 {
	p = math.Min(math.Max(p, epsilon), 1-epsilon)
	return -(y*math.Log(p) + (1-y)*math.Log(1-p))
}

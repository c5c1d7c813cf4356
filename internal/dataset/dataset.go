// Package dataset assembles extracted rows into aligned training matrices
// and partitions them for training, validation and test.
package dataset

import (
	"fmt"
	"math/rand"

	"github.com/go-playground/validator/v10"

	"github.com/dotameta/metalab/internal/features"
)

// Dataset holds feature rows with their labels and match ids, index aligned.
type Dataset struct {
	X   [][]float64
	Y   []float64
	IDs []int64
}

// Build converts extracted rows into a Dataset.
func Build(rows []features.Row) *Dataset {
	d := &Dataset{
		X:   make([][]float64, len(rows)),
		Y:   make([]float64, len(rows)),
		IDs: make([]int64, len(rows)),
	}
	for i, r := range rows {
		d.X[i] = r.Vector.Slice()
		d.Y[i] = float64(r.Label)
		d.IDs[i] = r.MatchID
	}
	return d
}

// Len returns the number of examples.
func (d *Dataset) Len() int { return len(d.Y) }

// PositiveRate is the share of examples labeled 1.
func (d *Dataset) PositiveRate() float64 {
	if len(d.Y) == 0 {
		return 0
	}
	var sum float64
	for _, y := range d.Y {
		sum += y
	}
	return sum / float64(len(d.Y))
}

// Subset returns the examples at idx in that order. Rows are shared, not copied.
func (d *Dataset) Subset(idx []int) *Dataset {
	s := &Dataset{
		X:   make([][]float64, len(idx)),
		Y:   make([]float64, len(idx)),
		IDs: make([]int64, len(idx)),
	}
	for j, i := range idx {
		s.X[j] = d.X[i]
		s.Y[j] = d.Y[i]
		s.IDs[j] = d.IDs[i]
	}
	return s
}

// SplitConfig sets the held-out fractions and the shuffle seed.
type SplitConfig struct {
	Validation float64 `validate:"gte=0,lt=1"`
	Test       float64 `validate:"gte=0,lt=1"`
	Seed       int64
}

// DefaultSplit is 70/15/15 with seed 42.
var DefaultSplit = SplitConfig{Validation: 0.15, Test: 0.15, Seed: 42}

var validate = validator.New()

// Validate checks that each fraction is in [0,1) and that some data is left for training.
func (c SplitConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid split config: %w", err)
	}
	if c.Validation+c.Test >= 1 {
		return fmt.Errorf("invalid split config: validation + test = %.2f, must be < 1", c.Validation+c.Test)
	}
	return nil
}

// Partition lists example indices per split. The three slices are disjoint
// and together cover 0..n-1.
type Partition struct {
	Train      []int
	Validation []int
	Test       []int
}

// Split shuffles 0..n-1 with a generator seeded from cfg.Seed and cuts the
// permutation into test, validation and train, in that order. Held-out
// sizes are rounded down.
func Split(n int, cfg SplitConfig) (Partition, error) {
	if err := cfg.Validate(); err != nil {
		return Partition{}, err
	}
	if n < 0 {
		return Partition{}, fmt.Errorf("invalid split: n = %d", n)
	}

	perm := rand.New(rand.NewSource(cfg.Seed)).Perm(n)
	nTest := int(float64(n) * cfg.Test)
	nVal := int(float64(n) * cfg.Validation)

	return Partition{
		Test:       perm[:nTest],
		Validation: perm[nTest : nTest+nVal],
		Train:      perm[nTest+nVal:],
	}, nil
}

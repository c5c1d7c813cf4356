package nn

import (
	"fmt"
	"math"
)

// Scaler standardizes each feature to zero mean and unit variance using
// statistics from the data it was fitted on.
type Scaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// Fit computes per-feature mean and population standard deviation.
// Constant features get a standard deviation of 1.
func (s *Scaler) Fit(X [][]float64) error {
	if len(X) == 0 {
		return ErrNoSamples
	}
	width := len(X[0])
	for i, row := range X {
		if len(row) != width {
			return fmt.Errorf("row %d has %d fields, want %d: %w", i, len(row), width, ErrFeatureWidth)
		}
	}

	n := float64(len(X))
	mean := make([]float64, width)
	for _, row := range X {
		for j, x := range row {
			mean[j] += x
		}
	}
	for j := range mean {
		mean[j] /= n
	}

	std := make([]float64, width)
	for _, row := range X {
		for j, x := range row {
			d := x - mean[j]
			std[j] += d * d
		}
	}
	for j := range std {
		std[j] = math.Sqrt(std[j] / n)
		if std[j] < 1e-12 {
			std[j] = 1
		}
	}

	s.Mean, s.Std = mean, std
	return nil
}

// Width is the number of features the scaler was fitted on.
func (s *Scaler) Width() int { return len(s.Mean) }

// TransformRow returns a standardized copy of x.
func (s *Scaler) TransformRow(x []float64) []float64 {
	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - s.Mean[j]) / s.Std[j]
	}
	return out
}

// Transform returns a standardized copy of X.
func (s *Scaler) Transform(X [][]float64) ([][]float64, error) {
	out := make([][]float64, len(X))
	for i, row := range X {
		if len(row) != s.Width() {
			return nil, fmt.Errorf("row %d has %d fields, scaler has %d: %w", i, len(row), s.Width(), ErrFeatureWidth)
		}
		out[i] = s.TransformRow(row)
	}
	return out, nil
}

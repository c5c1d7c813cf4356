// Package features turns match records into fixed-width numeric vectors.
package features

import (
	"fmt"

	"github.com/dotameta/metalab/internal/models"
)

// Width is the number of fields in a feature vector.
const Width = 17

var names = [Width]string{
	"radiant_hero_1", "radiant_hero_2", "radiant_hero_3", "radiant_hero_4", "radiant_hero_5",
	"dire_hero_1", "dire_hero_2", "dire_hero_3", "dire_hero_4", "dire_hero_5",
	"duration",
	"radiant_kills", "dire_kills",
	"radiant_gold", "dire_gold",
	"radiant_xp", "dire_xp",
}

var index = func() map[string]int {
	m := make(map[string]int, Width)
	for i, n := range names {
		m[n] = i
	}
	return m
}()

// Names returns the field names in vector order.
func Names() []string {
	out := make([]string, Width)
	copy(out, names[:])
	return out
}

// Index returns the position of name in the vector.
func Index(name string) (int, bool) {
	i, ok := index[name]
	return i, ok
}

// Vector is one match's features in Names() order.
type Vector [Width]float64

// Map returns v keyed by field name.
func (v Vector) Map() map[string]float64 {
	m := make(map[string]float64, Width)
	for i, n := range names {
		m[n] = v[i]
	}
	return m
}

// Slice returns a copy of v as a slice.
func (v Vector) Slice() []float64 {
	out := make([]float64, Width)
	copy(out, v[:])
	return out
}

// FromMap builds a vector from named values. Absent names take their
// default: duration falls back to models.DefaultDuration, everything else
// to zero. Unknown names are ignored.
func FromMap(m map[string]float64) Vector {
	var v Vector
	v[index["duration"]] = models.DefaultDuration
	for name, val := range m {
		if i, ok := index[name]; ok {
			v[i] = val
		}
	}
	return v
}

// FromSlice converts a raw slice, failing when its width is wrong.
func FromSlice(xs []float64) (Vector, error) {
	var v Vector
	if len(xs) != Width {
		return v, fmt.Errorf("feature vector has %d fields, want %d", len(xs), Width)
	}
	copy(v[:], xs)
	return v, nil
}

// Label is the match outcome: 1 when Radiant won, 0 otherwise.
type Label int

const (
	DireWin    Label = 0
	RadiantWin Label = 1
)

// LabelOf maps a radiant_win flag to a Label.
func LabelOf(radiantWin bool) Label {
	if radiantWin {
		return RadiantWin
	}
	return DireWin
}

// Row is an extracted training example.
type Row struct {
	MatchID int64
	Label   Label
	Vector  Vector
}

// Package golden records engine outputs for a fixed set of inputs and checks
// later builds against them.
package golden

import (
	"fmt"
	"math"

	"github.com/anima-libera/noizebra/internal/noise"
)

// Kind selects the engine entry point a case exercises.
type Kind string

const (
	KindHash     Kind = "hash"
	KindCoherent Kind = "coherent"
	KindOctaves  Kind = "octaves"
)

// Input is the argument set of one engine call.
type Input struct {
	Coords   []int64   `json:"coords,omitempty"`
	Xs       []float64 `json:"xs,omitempty"`
	Channels []int64   `json:"channels,omitempty"`
	Octaves  int       `json:"octaves,omitempty"`
}

// Case is a labelled engine call.
type Case struct {
	Label string
	Kind  Kind
	Input Input
}

// Value is a case with its recorded result.
type Value struct {
	Case
	Value float64
}

// Mismatch reports a case whose current result drifted from the record.
type Mismatch struct {
	Label string
	Want  float64
	Got   float64
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: want %.17g, got %.17g", m.Label, m.Want, m.Got)
}

// DefaultCases covers the reference scenarios of the engine.
func DefaultCases() []Case {
	return []Case{
		{"hash/empty", KindHash, Input{}},
		{"hash/0", KindHash, Input{Coords: []int64{0}}},
		{"hash/1", KindHash, Input{Coords: []int64{1}}},
		{"hash/0,0", KindHash, Input{Coords: []int64{0, 0}}},
		{"hash/1,0", KindHash, Input{Coords: []int64{1, 0}}},
		{"hash/1,2,3", KindHash, Input{Coords: []int64{1, 2, 3}}},
		{"hash/3,2,1", KindHash, Input{Coords: []int64{3, 2, 1}}},
		{"hash/overflow", KindHash, Input{Coords: []int64{math.MaxInt64, math.MinInt64, -1}}},
		{"coherent/0.5", KindCoherent, Input{Xs: []float64{0.5}}},
		{"coherent/2d", KindCoherent, Input{Xs: []float64{0.25, 0.75}, Channels: []int64{1}}},
		{"coherent/3d", KindCoherent, Input{Xs: []float64{1.5, 2.5, 3.5}, Channels: []int64{2}}},
		{"coherent/negative", KindCoherent, Input{Xs: []float64{-4.2}, Channels: []int64{0}}},
		{"octaves/1", KindOctaves, Input{Xs: []float64{0.3, 0.7}, Channels: []int64{0}, Octaves: 1}},
		{"octaves/4", KindOctaves, Input{Xs: []float64{0.3, 0.7}, Channels: []int64{0}, Octaves: 4}},
		{"octaves/8", KindOctaves, Input{Xs: []float64{1.25}, Channels: []int64{5}, Octaves: 8}},
	}
}

// Evaluate runs the engine for c.
func Evaluate(c Case) (float64, error) {
	switch c.Kind {
	case KindHash:
		return noise.Hash(c.Input.Coords), nil
	case KindCoherent:
		return noise.Coherent(c.Input.Xs, c.Input.Channels), nil
	case KindOctaves:
		if err := noise.CheckOctaves(c.Input.Octaves); err != nil {
			return 0, fmt.Errorf("case %s: %w", c.Label, err)
		}
		return noise.Octaves(c.Input.Octaves, c.Input.Xs, c.Input.Channels), nil
	default:
		return 0, fmt.Errorf("case %s: unknown kind %q", c.Label, c.Kind)
	}
}

// Record evaluates every case.
func Record(cases []Case) ([]Value, error) {
	out := make([]Value, 0, len(cases))
	for _, c := range cases {
		v, err := Evaluate(c)
		if err != nil {
			return nil, err
		}
		out = append(out, Value{Case: c, Value: v})
	}
	return out, nil
}

// Verify re-evaluates stored values. Results within tolerance of the record
// pass; a tolerance of 0 demands bit-identical output.
func Verify(stored []Value, tolerance float64) ([]Mismatch, error) {
	var mismatches []Mismatch
	for _, s := range stored {
		got, err := Evaluate(s.Case)
		if err != nil {
			return nil, err
		}
		if math.Abs(got-s.Value) > tolerance {
			mismatches = append(mismatches, Mismatch{Label: s.Label, Want: s.Value, Got: got})
		}
	}
	return mismatches, nil
}

// Package window builds the analysis and synthesis windows used by the
// noise reduction core, scaled so overlap-add reconstructs unity gain.
// The window formula, coefficient tables, and scale derivation are the
// core's own (spec §4.1); the teacher's HannWindow in window.go is the
// single-Hann special case this generalizes to a cosine-sum family.
package window

import (
	"fmt"
	"math"
)

// Type identifies one of the four supported analysis/synthesis pairs.
type Type int

const (
	RectHann Type = iota
	HannRect
	HannHann
	BlackmanHann
)

// coeffs is a three-term cosine-sum window: w[n] = c0 + c1*cos(2*pi*n/N) + c2*cos(4*pi*n/N).
type coeffs struct {
	c0, c1, c2 float64
}

type spec struct {
	analysis  coeffs
	synthesis coeffs
	k         float64 // product constant term used to derive the overlap-add scale
	minSteps  int
}

var specs = map[Type]spec{
	RectHann:     {coeffs{1, 0, 0}, coeffs{0.5, -0.5, 0}, 0.5, 2},
	HannRect:     {coeffs{0.5, -0.5, 0}, coeffs{1, 0, 0}, 0.5, 2},
	HannHann:     {coeffs{0.5, -0.5, 0}, coeffs{0.5, -0.5, 0}, 0.375, 4},
	BlackmanHann: {coeffs{0.42, -0.5, 0.08}, coeffs{0.5, -0.5, 0}, 0.335, 4},
}

// MinSteps returns the minimum steps_per_window the window type permits.
func (t Type) MinSteps() (int, error) {
	s, ok := specs[t]
	if !ok {
		return 0, fmt.Errorf("window: unknown type %d", t)
	}
	return s.minSteps, nil
}

// Pair holds the analysis and synthesis windows for one configuration. A
// nil slice means "rectangular" (the multiply is skipped, per spec §4.1:
// "If a side is rectangular, that window is represented as absent").
type Pair struct {
	Analysis  []float64
	Synthesis []float64
}

// Build constructs the analysis/synthesis window pair for the given type,
// window size, and steps_per_window, scaled so that summing
// analysis*synthesis over every shift of step_size reconstructs 1.
func Build(t Type, windowSize, stepsPerWindow int) (Pair, error) {
	s, ok := specs[t]
	if !ok {
		return Pair{}, fmt.Errorf("window: unknown type %d", t)
	}

	scale := 1 / (s.k * float64(stepsPerWindow))

	rect := coeffs{1, 0, 0}
	var p Pair
	if s.analysis != rect {
		p.Analysis = generate(s.analysis, windowSize)
	}
	if s.synthesis != rect {
		p.Synthesis = generate(s.synthesis, windowSize)
	}

	// Apply the overlap-add scale factor to the synthesis window if one
	// exists, else to the analysis window (the HannRect case), per §4.1.
	if p.Synthesis != nil {
		applyScale(p.Synthesis, scale)
	} else {
		applyScale(p.Analysis, scale)
	}

	return p, nil
}

func generate(c coeffs, n int) []float64 {
	w := make([]float64, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		w[i] = c.c0 + c.c1*math.Cos(theta) + c.c2*math.Cos(2*theta)
	}
	return w
}

func applyScale(w []float64, scale float64) {
	for i := range w {
		w[i] *= scale
	}
}

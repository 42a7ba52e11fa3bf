package nr

import "github.com/gavoski/audacity/internal/fft"

// Resynthesizer multiplies the outgoing frame's complex spectrum by its
// gain vector, inverse-FFTs, windows, and overlap-adds into a rolling
// output accumulator (spec §4.7).
type Resynthesizer struct {
	windowSize, stepSize int
	synthesis            []float64 // nil means rectangular (no multiply)
	h                     *fft.Handle
	accum                 []float64
	scratchReal           []float64
	scratchImag           []float64
}

// NewResynthesizer builds a resynthesizer for the given geometry. synthesis
// may be nil.
func NewResynthesizer(windowSize, stepSize int, synthesis []float64, h *fft.Handle) *Resynthesizer {
	return &Resynthesizer{
		windowSize:  windowSize,
		stepSize:    stepSize,
		synthesis:   synthesis,
		h:           h,
		accum:       make([]float64, windowSize),
		scratchReal: make([]float64, h.SpectrumSize()-1),
		scratchImag: make([]float64, h.SpectrumSize()-1),
	}
}

// Reset zeros the output accumulator (spec §4.8 StartNewTrack).
func (r *Resynthesizer) Reset() {
	for i := range r.accum {
		r.accum[i] = 0
	}
}

// Step processes the ring's outgoing frame for the current out_step_count
// and returns the emitted step_size block of finished samples, or nil if
// the pipeline hasn't reached the point where output is gated on
// (spec §4.7's "Frame-gated on out_step_count >= -(steps_per_window-1)"
// and the subsequent "if out_step_count >= 0, emit" rule).
func (r *Resynthesizer) Step(outgoing *Frame, mode ReductionChoice, outStepCount int64, stepsPerWindow int) []float64 {
	if outStepCount < int64(-(stepsPerWindow - 1)) {
		return nil
	}

	spectrumSize := len(outgoing.Gain)
	effective := func(g float64) float64 {
		if mode == LeaveResidue {
			// Residue mode inverts and phase-flips (gain - 1): the
			// multiplier applied to the spectrum is (gain - 1), and the
			// phase flip negates the resulting waveform, giving a net
			// factor of (1 - gain) so that residue + reduce_output
			// reconstructs the input exactly (spec §4.7, §8).
			return 1 - g
		}
		return g
	}

	r.scratchReal[0] = outgoing.Real[0] * effective(outgoing.Gain[0])
	r.scratchImag[0] = outgoing.Imag[0] * effective(outgoing.Gain[spectrumSize-1])
	for k := 1; k < spectrumSize-1; k++ {
		g := effective(outgoing.Gain[k])
		r.scratchReal[k] = outgoing.Real[k] * g
		r.scratchImag[k] = outgoing.Imag[k] * g
	}

	synthesized := r.h.InverseReal(r.scratchReal, r.scratchImag)
	if r.synthesis != nil {
		for j := range synthesized {
			synthesized[j] *= r.synthesis[j]
		}
	}
	for j := range synthesized {
		r.accum[j] += synthesized[j]
	}

	var emitted []float64
	if outStepCount >= 0 {
		emitted = make([]float64, r.stepSize)
		copy(emitted, r.accum[:r.stepSize])
	}

	copy(r.accum, r.accum[r.stepSize:])
	for i := r.windowSize - r.stepSize; i < r.windowSize; i++ {
		r.accum[i] = 0
	}

	return emitted
}

package nr

import "github.com/gavoski/audacity/internal/fft"

// analyze windows win (or copies it, if analysisWindow is absent per the
// rectangular case), runs the forward FFT, and unpacks the result into
// slot, per spec §4.3. scratch is reused across calls to avoid
// allocating per frame.
func analyze(win, analysisWindow []float64, scratch []float64, h *fft.Handle, mode ReductionChoice, noiseAttenFactor float64, slot *Frame) {
	if analysisWindow == nil {
		copy(scratch, win)
	} else {
		for i := range win {
			scratch[i] = win[i] * analysisWindow[i]
		}
	}

	h.ForwardReal(scratch, slot.Real, slot.Imag, slot.Power)

	if mode != IsolateNoise {
		slot.fillGain(noiseAttenFactor)
	}
	// Isolate mode leaves Gain as whatever Rotate's clearSpectrum left
	// untouched (the prior occupant's gain); buildGains overwrites every
	// band's gain explicitly in step 1, so stale values never survive.
}

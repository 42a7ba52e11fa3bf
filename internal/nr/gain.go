package nr

import "math"

// buildGains runs the four-step gain construction of spec §4.6 against
// the current state of ring: initial per-band gain for the center slot,
// backward attack propagation, one-step forward release, and frequency
// smoothing of the outgoing frame.
func buildGains(ring *Ring, p *Params, stats *Statistics) {
	center := p.Center
	historyLen := ring.Len()
	centerFrame := ring.At(center)
	isolate := p.ReductionChoice == IsolateNoise

	// Step 1: initial gains for the center slot.
	for band := 0; band < p.SpectrumSize; band++ {
		inBand := band >= p.BinLow && band < p.BinHigh

		if isolate {
			switch {
			case !inBand:
				centerFrame.Gain[band] = 0
			case isNoise(ring, p, stats, band):
				centerFrame.Gain[band] = 1
			default:
				centerFrame.Gain[band] = 0
			}
			continue
		}

		switch {
		case !inBand:
			centerFrame.Gain[band] = 1
		case !isNoise(ring, p, stats, band):
			centerFrame.Gain[band] = 1
		default:
			// Leave the noise_atten_factor pre-fill analyze() applied.
		}
	}

	if isolate {
		return
	}

	// Step 2: attack, propagated backward (toward older frames) through
	// the ring. A band stops climbing as soon as its existing gain is
	// already at or above the attack ceiling for that slot.
	for band := 0; band < p.SpectrumSize; band++ {
		for i := center + 1; i < historyLen; i++ {
			newGain := ring.At(i-1).Gain[band] * p.OneBlockAttack
			if newGain < p.NoiseAttenFactor {
				newGain = p.NoiseAttenFactor
			}
			if ring.At(i).Gain[band] < newGain {
				ring.At(i).Gain[band] = newGain
			} else {
				break
			}
		}
	}

	// Step 3: release, one step forward (toward newer frames). Later
	// frames extend the decay further on their own center step.
	if center >= 1 {
		prev := ring.At(center - 1)
		for band := 0; band < p.SpectrumSize; band++ {
			released := centerFrame.Gain[band] * p.OneBlockRelease
			if released < p.NoiseAttenFactor {
				released = p.NoiseAttenFactor
			}
			if prev.Gain[band] < released {
				prev.Gain[band] = released
			}
		}
	}

	// Step 4: frequency-smooth the outgoing frame's gain.
	if p.FreqSmoothingBins > 0 {
		freqSmooth(ring.At(historyLen-1).Gain, p.FreqSmoothingBins)
	}
}

// freqSmooth replaces gain[k] with the geometric mean of gain over
// [k-bins, k+bins], clamped to the array bounds (spec §4.6 step 4). It
// reads from a snapshot so later bands don't see already-smoothed
// neighbors.
func freqSmooth(gain []float64, bins int) {
	n := len(gain)
	orig := make([]float64, n)
	copy(orig, gain)

	for k := 0; k < n; k++ {
		lo, hi := k-bins, k+bins
		if lo < 0 {
			lo = 0
		}
		if hi > n-1 {
			hi = n - 1
		}
		var sumLog float64
		for j := lo; j <= hi; j++ {
			sumLog += math.Log(orig[j])
		}
		gain[k] = math.Exp(sumLog / float64(hi-lo+1))
	}
}

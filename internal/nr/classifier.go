package nr

import "math"

// isNoise decides whether the center frame of the ring looks like noise
// for a single band, per spec §4.5. The ring passed in must be sized (or
// at least filled) for the current phase: HistoryLenReducing() during
// reduction, HistoryLenProfiling() during profiling (the Old method never
// classifies during profiling, only afterwards).
func isNoise(ring *Ring, p *Params, stats *Statistics, band int) bool {
	switch p.Method {
	case MethodOld:
		min := math.Inf(1)
		for i := 0; i < ring.Len(); i++ {
			if v := ring.At(i).Power[band]; v < min {
				min = v
			}
		}
		return min <= p.SensitivityFactor*stats.NoiseThreshold[band]

	case MethodSecondGreatest:
		_, second := topTwo(ring, p.NWindowsToExamine, band)
		return second <= p.NewSensitivity*stats.Means[band]

	case MethodMedian:
		switch p.NWindowsToExamine {
		case 3:
			_, second := topTwo(ring, 3, band)
			return second <= p.NewSensitivity*stats.Means[band]
		case 5:
			_, _, third := topThree(ring, 5, band)
			return third <= p.NewSensitivity*stats.Means[band]
		default:
			// Config.Validate rejects every stepsPerWindow that would
			// produce a window count other than 3 or 5 for Median.
			panic("nr: unsupported Median window count")
		}

	default:
		panic("nr: unknown classification method")
	}
}

// topTwo returns the largest and second-largest power[band] among the
// first n logical ring slots.
func topTwo(ring *Ring, n, band int) (first, second float64) {
	first, second = math.Inf(-1), math.Inf(-1)
	for i := 0; i < n; i++ {
		v := ring.At(i).Power[band]
		switch {
		case v > first:
			first, second = v, first
		case v > second:
			second = v
		}
	}
	return first, second
}

// topThree returns the three largest power[band] values among the first
// n logical ring slots, in descending order.
func topThree(ring *Ring, n, band int) (first, second, third float64) {
	first, second, third = math.Inf(-1), math.Inf(-1), math.Inf(-1)
	for i := 0; i < n; i++ {
		v := ring.At(i).Power[band]
		switch {
		case v > first:
			first, second, third = v, first, second
		case v > second:
			second, third = v, second
		case v > third:
			third = v
		}
	}
	return first, second, third
}

package nr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gavoski/audacity/internal/window"
)

func TestProfileFrameAccumulatesSums(t *testing.T) {
	stats := NewStatistics(8000, 4, window.HannHann)
	ring := NewRing(1, stats.SpectrumSize())

	slot := ring.Rotate()
	slot.Power = []float64{1, 2, 3}
	ProfileFrame(stats, ring, MethodSecondGreatest)

	slot = ring.Rotate()
	slot.Power = []float64{4, 5, 6}
	ProfileFrame(stats, ring, MethodSecondGreatest)

	require.Equal(t, []float64{5, 7, 9}, stats.Sums)
	require.EqualValues(t, 2, stats.TrackWindows)
}

func TestEndTrackMeanOfMeansFoldLaw(t *testing.T) {
	// Two equal-length tracks with constant power per band should fold to
	// the simple average of the two constants, regardless of track order.
	stats := NewStatistics(8000, 4, window.HannHann)

	accumulate := func(value float64, n int) {
		ring := NewRing(1, stats.SpectrumSize())
		for i := 0; i < n; i++ {
			slot := ring.Rotate()
			for k := range slot.Power {
				slot.Power[k] = value
			}
			ProfileFrame(stats, ring, MethodSecondGreatest)
		}
		stats.EndTrack()
	}

	accumulate(2.0, 10)
	accumulate(6.0, 10)

	for _, mean := range stats.Means {
		require.InDelta(t, 4.0, mean, 1e-9)
	}
	require.EqualValues(t, 20, stats.TotalWindows)
	require.EqualValues(t, 0, stats.TrackWindows)
}

func TestEndTrackWeightsByTrackLength(t *testing.T) {
	stats := NewStatistics(8000, 4, window.HannHann)

	fill := func(value float64, n int) {
		ring := NewRing(1, stats.SpectrumSize())
		for i := 0; i < n; i++ {
			slot := ring.Rotate()
			for k := range slot.Power {
				slot.Power[k] = value
			}
			ProfileFrame(stats, ring, MethodSecondGreatest)
		}
		stats.EndTrack()
	}

	fill(0.0, 1)
	fill(10.0, 9)

	// Weighted mean across 1 window of 0 and 9 windows of 10 is 9.0, not
	// the unweighted 5.0 a naive per-track average would give.
	for _, mean := range stats.Means {
		require.InDelta(t, 9.0, mean, 1e-9)
	}
}

func TestFinishReportsEmptyProfile(t *testing.T) {
	stats := NewStatistics(8000, 4, window.HannHann)
	require.ErrorIs(t, stats.Finish(), ErrEmptyProfile)

	ring := NewRing(1, stats.SpectrumSize())
	slot := ring.Rotate()
	slot.Power[0] = 1
	ProfileFrame(stats, ring, MethodSecondGreatest)
	stats.EndTrack()
	require.NoError(t, stats.Finish())
}

func TestProfileFrameOldMethodTracksMinOverRingMaxOverTime(t *testing.T) {
	stats := NewStatistics(8000, 4, window.HannHann)
	ring := NewRing(3, stats.SpectrumSize())

	fill := func(values ...float64) {
		slot := ring.Rotate()
		copy(slot.Power, values)
		ProfileFrame(stats, ring, MethodOld)
	}

	fill(5, 5, 5)
	fill(1, 1, 1)
	fill(9, 9, 9)

	// After 3 rotations the ring holds {9,1,5} per band (newest first);
	// min-over-ring is 1, which becomes the running threshold once it
	// exceeds the previous max (0).
	require.Equal(t, 1.0, stats.NoiseThreshold[0])
}

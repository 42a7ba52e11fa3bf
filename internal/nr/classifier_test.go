package nr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gavoski/audacity/internal/window"
)

func newTestParams(t *testing.T, method Method, newSensitivity float64) *Params {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Method = method
	cfg.NewSensitivity = newSensitivity
	if method == MethodMedian {
		cfg.StepsPerWindow = 4
	}
	p, err := NewParams(cfg, 8000)
	require.NoError(t, err)
	return p
}

func TestIsNoiseSecondGreatestSensitivityOrdering(t *testing.T) {
	stats := NewStatistics(8000, 2048, window.HannHann)
	stats.Means[0] = 10

	ring := NewRing(newTestParams(t, MethodSecondGreatest, 6).NWindowsToExamine, stats.SpectrumSize())
	powers := []float64{15, 20, 25, 30, 30}
	for i := 0; i < ring.Len(); i++ {
		ring.At(i).Power[0] = powers[i%len(powers)]
	}

	lowSensitivity := newTestParams(t, MethodSecondGreatest, 1)
	highSensitivity := newTestParams(t, MethodSecondGreatest, 24)

	// Raising new_sensitivity raises the bar a band's second-largest power
	// must clear to be called signal, so strictly more bands classify as
	// noise at high sensitivity than at low sensitivity for the same data.
	require.False(t, isNoise(ring, lowSensitivity, stats, 0))
	require.True(t, isNoise(ring, highSensitivity, stats, 0))
}

func TestIsNoiseOldMethodComparesMinToThreshold(t *testing.T) {
	stats := NewStatistics(8000, 2048, window.HannHann)
	stats.NoiseThreshold[0] = 10

	p := newTestParams(t, MethodOld, 6)
	ring := NewRing(p.NWindowsToExamine, stats.SpectrumSize())
	for i := 0; i < ring.Len(); i++ {
		ring.At(i).Power[0] = 5 // below threshold at every slot
	}

	require.True(t, isNoise(ring, p, stats, 0))

	ring.At(0).Power[0] = 1000 // one high slot is enough to raise the min only if it's the min
	require.True(t, isNoise(ring, p, stats, 0))
}

func TestIsNoiseMedianThreeWindowAliasesSecondGreatest(t *testing.T) {
	stats := NewStatistics(8000, 8, window.RectHann)
	stats.Means[0] = 10

	cfg := DefaultConfig()
	cfg.Method = MethodMedian
	cfg.WindowType = window.RectHann
	cfg.WindowSize = 8
	cfg.StepsPerWindow = 2
	p, err := NewParams(cfg, 8000)
	require.NoError(t, err)
	require.Equal(t, 3, p.NWindowsToExamine)

	ring := NewRing(p.NWindowsToExamine, stats.SpectrumSize())
	ring.At(0).Power[0] = 100
	ring.At(1).Power[0] = 5
	ring.At(2).Power[0] = 1

	require.Equal(t, isNoise(ring, p, stats, 0), func() bool {
		_, second := topTwo(ring, 3, 0)
		return second <= p.NewSensitivity*stats.Means[0]
	}())
}

func TestTopTwoAndTopThreeOrdering(t *testing.T) {
	stats := NewStatistics(8000, 2048, window.HannHann)
	ring := NewRing(5, stats.SpectrumSize())
	values := []float64{3, 7, 1, 9, 4}
	for i, v := range values {
		ring.At(i).Power[0] = v
	}

	first, second := topTwo(ring, 5, 0)
	require.Equal(t, 9.0, first)
	require.Equal(t, 7.0, second)

	a, b, c := topThree(ring, 5, 0)
	require.Equal(t, 9.0, a)
	require.Equal(t, 7.0, b)
	require.Equal(t, 4.0, c)
}

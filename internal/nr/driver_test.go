package nr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gavoski/audacity/internal/window"
)

const testSampleRate = 8000

func smallTestConfig() Config {
	cfg := DefaultConfig()
	cfg.WindowSize = 64
	cfg.StepsPerWindow = 4
	cfg.WindowType = window.HannHann
	cfg.Method = MethodSecondGreatest
	cfg.NoiseGainDB = 18
	cfg.NewSensitivity = 6
	cfg.AttackTimeS = 0.01
	cfg.ReleaseTimeS = 0.05
	return cfg
}

// lcgNoise generates a deterministic pseudo-random signal in [-amp, amp]
// without depending on math/rand's seeding behavior.
func lcgNoise(n int, amp float64) []float64 {
	out := make([]float64, n)
	state := uint32(123456789)
	for i := range out {
		state = state*1664525 + 1013904223
		u := float64(state) / float64(math.MaxUint32)
		out[i] = amp * (2*u - 1)
	}
	return out
}

func sineTone(n int, freq, amp float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/testSampleRate)
	}
	return out
}

func profileOn(t *testing.T, cfg Config, noise []float64) *Statistics {
	t.Helper()
	p, err := NewParams(cfg, testSampleRate)
	require.NoError(t, err)
	driver, err := NewDriver(p, true)
	require.NoError(t, err)

	stats := NewStatistics(testSampleRate, p.WindowSize, p.WindowType)
	track := newFixtureTrack(testSampleRate, noise)
	completed, err := driver.ProcessProfile(stats, track, 0, nil)
	require.NoError(t, err)
	require.True(t, completed)
	stats.EndTrack()
	require.NoError(t, stats.Finish())
	return stats
}

func reduceOn(t *testing.T, cfg Config, stats *Statistics, signal []float64) []float64 {
	t.Helper()
	p, err := NewParams(cfg, testSampleRate)
	require.NoError(t, err)
	driver, err := NewDriver(p, false)
	require.NoError(t, err)

	track := newFixtureTrack(testSampleRate, signal)
	completed, err := driver.ProcessReduce(stats, track, track, 0, nil)
	require.NoError(t, err)
	require.True(t, completed)
	return track.data
}

func TestSilencePassthrough(t *testing.T) {
	cfg := smallTestConfig()
	silence := make([]float64, 2000)

	stats := profileOn(t, cfg, silence)
	out := reduceOn(t, cfg, stats, silence)

	require.Len(t, out, len(silence))
	for _, s := range out {
		require.InDelta(t, 0, s, 1e-9)
	}
}

func TestOutputLengthMatchesInputLength(t *testing.T) {
	cfg := smallTestConfig()
	noise := lcgNoise(1500, 0.05)
	signal := sineTone(2200, 440, 0.5)

	stats := profileOn(t, cfg, noise)
	out := reduceOn(t, cfg, stats, signal)
	require.Len(t, out, len(signal))
}

func TestResidueReconstructsInputWithReduceOutput(t *testing.T) {
	cfg := smallTestConfig()
	noise := lcgNoise(1500, 0.05)

	n := 3000
	signal := make([]float64, n)
	tone := sineTone(n, 300, 0.6)
	noiseOnSignal := lcgNoise(n, 0.05)
	for i := range signal {
		signal[i] = tone[i] + noiseOnSignal[i]
	}

	stats := profileOn(t, cfg, noise)

	reduceCfg := cfg
	reduceCfg.ReductionChoice = ReduceNoise
	reduced := reduceOn(t, reduceCfg, stats, signal)

	residueCfg := cfg
	residueCfg.ReductionChoice = LeaveResidue
	residue := reduceOn(t, residueCfg, stats, signal)

	// Away from startup/trail, residue + reduce_output should reconstruct
	// the input (spec §8), since LeaveResidue's (1 - gain) and
	// ReduceNoise's gain sum to unity gain per band.
	margin := cfg.WindowSize * 2
	for i := margin; i < n-margin; i++ {
		require.InDelta(t, signal[i], residue[i]+reduced[i], 1e-6, "sample %d", i)
	}
}

func TestIsolateModeKeepsOnlyClassifiedNoiseBands(t *testing.T) {
	cfg := smallTestConfig()
	cfg.ReductionChoice = IsolateNoise
	noise := lcgNoise(1500, 0.05)

	n := 3000
	signal := make([]float64, n)
	tone := sineTone(n, 300, 0.8)
	noiseOnSignal := lcgNoise(n, 0.05)
	for i := range signal {
		signal[i] = tone[i] + noiseOnSignal[i]
	}

	stats := profileOn(t, cfg, noise)
	out := reduceOn(t, cfg, stats, signal)

	require.Len(t, out, n)
	margin := cfg.WindowSize * 2
	var outPower, inPower float64
	for i := margin; i < n-margin; i++ {
		outPower += out[i] * out[i]
		inPower += signal[i] * signal[i]
	}
	// Isolating the noise should leave substantially less energy than the
	// full signal, since the loud tone's bands are zeroed out.
	require.Less(t, outPower, inPower)
}

func TestTonePreservedWhenNoiseProfileIsSilence(t *testing.T) {
	cfg := smallTestConfig()
	silence := make([]float64, 1500)

	n := 3000
	signal := sineTone(n, 300, 0.7)

	stats := profileOn(t, cfg, silence)
	out := reduceOn(t, cfg, stats, signal)

	margin := cfg.WindowSize * 2
	var num, den float64
	for i := margin; i < n-margin; i++ {
		num += signal[i] * out[i]
		den += signal[i] * signal[i]
	}
	// A tone well above a silent noise floor should pass through with
	// near-unity gain away from startup/trail.
	require.InDelta(t, 1.0, num/den, 0.05)
}

func TestSensitivityOrderingAttenuatesMoreAtHigherSensitivity(t *testing.T) {
	noise := lcgNoise(1500, 0.05)
	n := 3000
	tone := sineTone(n, 300, 0.15)
	noiseOnSignal := lcgNoise(n, 0.05)
	signal := make([]float64, n)
	for i := range signal {
		signal[i] = tone[i] + noiseOnSignal[i]
	}

	low := smallTestConfig()
	low.NewSensitivity = 1
	high := smallTestConfig()
	high.NewSensitivity = 20

	lowStats := profileOn(t, low, noise)
	highStats := profileOn(t, high, noise)

	lowOut := reduceOn(t, low, lowStats, signal)
	highOut := reduceOn(t, high, highStats, signal)

	margin := low.WindowSize * 2
	var lowEnergy, highEnergy float64
	for i := margin; i < n-margin; i++ {
		lowEnergy += lowOut[i] * lowOut[i]
		highEnergy += highOut[i] * highOut[i]
	}
	require.LessOrEqual(t, highEnergy, lowEnergy)
}

package fft

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestForwardInverseRoundTrip(t *testing.T) {
	const n = 1024
	h := NewHandle(n)

	buf := make([]float64, n)
	for i := range buf {
		buf[i] = math.Sin(2*math.Pi*3*float64(i)/float64(n)) +
			0.5*math.Cos(2*math.Pi*7*float64(i)/float64(n))
	}

	real := make([]float64, h.SpectrumSize()-1)
	imag := make([]float64, h.SpectrumSize()-1)
	power := make([]float64, h.SpectrumSize())
	h.ForwardReal(buf, real, imag, power)

	recovered := h.InverseReal(real, imag)
	require.Len(t, recovered, n)
	for i := range buf {
		require.InDeltaf(t, buf[i], recovered[i], 1e-9, "sample %d", i)
	}
}

func TestForwardRealPowerMatchesMagnitudeSquared(t *testing.T) {
	const n = 256
	h := NewHandle(n)

	buf := make([]float64, n)
	for i := range buf {
		buf[i] = math.Sin(2 * math.Pi * float64(i) / float64(n))
	}

	real := make([]float64, h.SpectrumSize()-1)
	imag := make([]float64, h.SpectrumSize()-1)
	power := make([]float64, h.SpectrumSize())
	h.ForwardReal(buf, real, imag, power)

	for k := 1; k < h.SpectrumSize()-1; k++ {
		want := real[k]*real[k] + imag[k]*imag[k]
		require.InDelta(t, want, power[k], 1e-9)
	}
	require.InDelta(t, real[0]*real[0], power[0], 1e-9)
	require.InDelta(t, imag[0]*imag[0], power[h.SpectrumSize()-1], 1e-9)
}

func TestBitReversedIsLengthSpectrumMinusOne(t *testing.T) {
	h := NewHandle(64)
	require.Len(t, h.BitReversed, h.SpectrumSize()-1)
	for i, v := range h.BitReversed {
		require.Equal(t, i, v)
	}
}

func TestNewHandlePanicsOnNonPowerOfTwo(t *testing.T) {
	require.Panics(t, func() { NewHandle(100) })
}

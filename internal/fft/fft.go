// Package fft adapts gonum's real-to-complex FFT to the packed DC/Nyquist
// layout the noise reduction core is written against. The core treats the
// transform as an opaque collaborator (see spec §6): it only ever sees
// real/imaginary band arrays and a bit-reversal table, never a gonum type.
package fft

import "gonum.org/v1/gonum/dsp/fourier"

// Handle holds the precomputed state for one power-of-two window size.
// One Handle is created per Config and reused across every frame of a
// track, matching the "opaque handle" the core acquires once at driver
// construction (spec §5, §6).
type Handle struct {
	size         int
	spectrumSize int
	t            *fourier.FFT

	// BitReversed is the index permutation shared by the forward unpack
	// (§4.3) and the synthesis-window application (§4.7). gonum's FFT
	// already returns coefficients and sequences in natural order, so
	// this is the identity permutation; it stays an explicit table
	// rather than being dropped so call sites never special-case the
	// backing transform.
	BitReversed []int
}

// NewHandle builds a transform for windows of the given size, which must
// be a power of two.
func NewHandle(size int) *Handle {
	if size <= 0 || size&(size-1) != 0 {
		panic("fft: size must be a power of 2")
	}
	spectrumSize := size/2 + 1
	br := make([]int, spectrumSize-1)
	for i := range br {
		br[i] = i
	}
	return &Handle{
		size:         size,
		spectrumSize: spectrumSize,
		t:            fourier.NewFFT(size),
		BitReversed:  br,
	}
}

// Size returns the window size this handle was built for.
func (h *Handle) Size() int { return h.size }

// SpectrumSize returns window_size/2 + 1.
func (h *Handle) SpectrumSize() int { return h.spectrumSize }

// ForwardReal runs a real forward FFT over buf (length Size()) and unpacks
// the result per spec §4.3: real[0] holds the DC component, imag[0] holds
// the Nyquist component, and real[k]/imag[k] for k in [1, SpectrumSize()-2]
// hold the genuine complex bins. power must have length SpectrumSize();
// real and imag must have length SpectrumSize()-1.
func (h *Handle) ForwardReal(buf []float64, real, imag, power []float64) {
	coeffs := h.t.Coefficients(nil, buf)

	// DC and Nyquist coefficients are purely real for a real input
	// sequence; gonum still returns them as complex128 with a zero
	// imaginary part.
	dc := cmplxReal(coeffs[0])
	nyq := cmplxReal(coeffs[h.spectrumSize-1])
	real[0] = dc
	imag[0] = nyq
	power[0] = dc * dc
	power[h.spectrumSize-1] = nyq * nyq

	for k := 1; k < h.spectrumSize-1; k++ {
		re, im := cmplxReal(coeffs[k]), cmplxImag(coeffs[k])
		real[k] = re
		imag[k] = im
		power[k] = re*re + im*im
	}
}

// InverseReal reconstructs a time-domain block of length Size() from the
// packed real/imag bands built by the caller (the resynthesizer scales
// these by gain before calling in). real and imag must have the same
// layout ForwardReal produces: length SpectrumSize()-1, DC in real[0],
// Nyquist in imag[0].
func (h *Handle) InverseReal(real, imag []float64) []float64 {
	cseq := make([]complex128, h.spectrumSize)
	cseq[0] = complex(real[0], 0)
	cseq[h.spectrumSize-1] = complex(imag[0], 0)
	for k := 1; k < h.spectrumSize-1; k++ {
		cseq[k] = complex(real[k], imag[k])
	}
	// gonum's inverse transform is unnormalized; scale by 1/Size() so a
	// ForwardReal/InverseReal round trip returns the original block.
	seq := h.t.Sequence(nil, cseq)
	scale := 1 / float64(h.size)
	for i := range seq {
		seq[i] *= scale
	}
	return seq
}

// cmplxReal/cmplxImag exist because ForwardReal's real/imag parameters
// shadow the builtin functions of the same name within its body.
func cmplxReal(c complex128) float64 { return real(c) }
func cmplxImag(c complex128) float64 { return imag(c) }

package nr

// Frame is one spectrum-record ring entry (spec §3 "Frame record"). Real
// and Imag are length spectrumSize-1 with DC packed into Real[0] and
// Nyquist packed into Imag[0] (spec §4.3); Power and Gain are length
// spectrumSize.
type Frame struct {
	Real, Imag []float64
	Power      []float64
	Gain       []float64
}

func newFrame(spectrumSize int) *Frame {
	return &Frame{
		Real:  make([]float64, spectrumSize-1),
		Imag:  make([]float64, spectrumSize-1),
		Power: make([]float64, spectrumSize),
		Gain:  make([]float64, spectrumSize),
	}
}

// clearSpectrum zeros the analysis fields, leaving Gain untouched. Used
// when a physical slot is about to receive a freshly analyzed frame.
func (f *Frame) clearSpectrum() {
	for i := range f.Real {
		f.Real[i] = 0
		f.Imag[i] = 0
	}
	for i := range f.Power {
		f.Power[i] = 0
	}
}

func (f *Frame) fillGain(v float64) {
	for i := range f.Gain {
		f.Gain[i] = v
	}
}

// Ring is the fixed-length ordered collection of Frames described in spec
// §9: an index-based circular buffer with a rotate-by-one operation,
// rather than a pointer list, so frame processing never allocates.
// Logical index 0 is always the newest frame, logical index Len()-1 is
// always the outgoing (oldest) frame (spec §3 invariant).
type Ring struct {
	slots  []*Frame
	newest int // physical index currently holding logical slot 0
}

// NewRing allocates a ring of the given length, each slot sized for
// spectrumSize bands.
func NewRing(length, spectrumSize int) *Ring {
	slots := make([]*Frame, length)
	for i := range slots {
		slots[i] = newFrame(spectrumSize)
	}
	return &Ring{slots: slots}
}

// Len returns history_len, the ring's fixed length.
func (r *Ring) Len() int { return len(r.slots) }

func (r *Ring) physical(logical int) int {
	l := len(r.slots)
	return ((r.newest-logical)%l + l) % l
}

// At returns the frame at logical index i (0 = newest, Len()-1 = oldest).
func (r *Ring) At(i int) *Frame { return r.slots[r.physical(i)] }

// Rotate retires the oldest frame, clears its spectrum fields, and makes
// it the new logical slot 0, ready for the caller to fill with a freshly
// analyzed frame. Gain is left as-is (callers needing a specific initial
// gain call Frame.fillGain through ResetAll or set it explicitly).
func (r *Ring) Rotate() *Frame {
	l := len(r.slots)
	oldest := (r.newest + 1) % l
	r.newest = oldest
	f := r.slots[oldest]
	f.clearSpectrum()
	return f
}

// ResetAll clears every slot's spectrum data and fills every slot's gain
// with fillGain, restoring logical slot 0 to the first physical slot.
// Used by StartNewTrack (spec §4.8).
func (r *Ring) ResetAll(fillGain float64) {
	for _, f := range r.slots {
		f.clearSpectrum()
		f.fillGain(fillGain)
	}
	r.newest = 0
}

package nr

// FrameBuffer assembles a sliding input window from variably-sized input
// blocks and emits one analysis frame every step_size samples (spec
// §4.2). It never allocates per sample: the window buffer is reused and
// shifted in place.
type FrameBuffer struct {
	windowSize, stepSize int
	buf                  []float64
	inWavePos             int
	inSampleCount         int64
}

// NewFrameBuffer builds a buffer for the given window/step size. The
// first frame is zero-padded by windowSize-stepSize leading zeros, per
// spec §4.2, so only the first stepSize samples of real input are
// exposed in it.
func NewFrameBuffer(windowSize, stepSize int) *FrameBuffer {
	return &FrameBuffer{
		windowSize: windowSize,
		stepSize:   stepSize,
		buf:        make([]float64, windowSize),
		inWavePos:  windowSize - stepSize,
	}
}

// InSampleCount returns the total number of samples fed so far.
func (fb *FrameBuffer) InSampleCount() int64 { return fb.inSampleCount }

// Feed appends samples to the buffer. Each time the buffer fills,
// onFrame is called with the full windowSize window (valid only for the
// duration of the call — onFrame must copy anything it needs to keep),
// after which the buffer slides left by stepSize and zero-fills the tail.
func (fb *FrameBuffer) Feed(samples []float64, onFrame func(win []float64)) {
	for _, s := range samples {
		fb.buf[fb.inWavePos] = s
		fb.inWavePos++
		fb.inSampleCount++

		if fb.inWavePos == fb.windowSize {
			onFrame(fb.buf)

			copy(fb.buf, fb.buf[fb.stepSize:])
			for i := fb.windowSize - fb.stepSize; i < fb.windowSize; i++ {
				fb.buf[i] = 0
			}
			fb.inWavePos = fb.windowSize - fb.stepSize
		}
	}
}

// Reset restores the buffer to its startup state (spec §4.8
// StartNewTrack).
func (fb *FrameBuffer) Reset() {
	for i := range fb.buf {
		fb.buf[i] = 0
	}
	fb.inWavePos = fb.windowSize - fb.stepSize
	fb.inSampleCount = 0
}

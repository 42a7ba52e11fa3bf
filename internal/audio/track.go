// Package audio provides the Source/Sink collaborators the noise
// reduction core consumes (spec §6), backed by an in-memory sample
// buffer. Track is adapted from the teacher's wav.go read/write
// functions, generalized into a type that also implements the splice
// operation (ClearAndPaste) the core's track driver needs to hand
// synthesized output back into a track (spec §4.8).
package audio

import (
	"errors"

	"github.com/gavoski/audacity/internal/nr"
)

// defaultBlockSize is the block-size hint Track reports for
// Source.BestBlockSize — large enough to keep the driver's per-block
// progress/cancellation checkpoint (spec §5, §9) meaningfully frequent
// without being per-sample.
const defaultBlockSize = 1 << 16

// Track is an in-memory mono sample buffer acting as both a Source (for
// reading the original or noise-profile audio) and a Sink (for
// receiving the reduced/isolated/residue output).
type Track struct {
	sampleRate int
	samples    []float64
	blockSize  int
}

// NewTrack wraps samples (mono, normalized to [-1, 1]) at sampleRate.
func NewTrack(sampleRate int, samples []float64) *Track {
	return &Track{sampleRate: sampleRate, samples: samples, blockSize: defaultBlockSize}
}

// Len returns the number of samples currently in the track.
func (t *Track) Len() int { return len(t.samples) }

// Samples returns the track's current sample buffer. The returned slice
// aliases Track's storage and must not be mutated by the caller.
func (t *Track) Samples() []float64 { return t.samples }

var errReadOutOfRange = errors.New("audio: read position out of range")

// SampleRate implements nr.Source.
func (t *Track) SampleRate() int { return t.sampleRate }

// StartSample implements nr.Source.
func (t *Track) StartSample() int64 { return 0 }

// EndSample implements nr.Source.
func (t *Track) EndSample() int64 { return int64(len(t.samples)) }

// BestBlockSize implements nr.Source.
func (t *Track) BestBlockSize(pos int64) int {
	if remaining := t.EndSample() - pos; remaining < int64(t.blockSize) {
		if remaining < 0 {
			return t.blockSize
		}
		return int(remaining)
	}
	return t.blockSize
}

// Read implements nr.Source.
func (t *Track) Read(buf []float64, pos int64, count int) (int, error) {
	if pos < 0 || pos > int64(len(t.samples)) {
		return 0, errReadOutOfRange
	}
	n := copy(buf[:count], t.samples[pos:])
	return n, nil
}

// Append implements nr.Sink.
func (t *Track) Append(buf []float64, n int) error {
	t.samples = append(t.samples, buf[:n]...)
	return nil
}

// Flush implements nr.Sink. Track has no buffered writer beneath it, so
// this is a no-op kept to satisfy the interface contract of spec §6.
func (t *Track) Flush() error { return nil }

// ClearAndPaste implements nr.Sink: it replaces samples [t0, t1) with
// the full contents of source, splicing the synthesized range back into
// the track exactly as spec §4.8 describes.
func (t *Track) ClearAndPaste(t0, t1 int64, source nr.Source) error {
	if t0 < 0 {
		t0 = 0
	}
	if t1 > int64(len(t.samples)) {
		t1 = int64(len(t.samples))
	}
	if t1 < t0 {
		t1 = t0
	}

	n := source.EndSample() - source.StartSample()
	data := make([]float64, n)
	read, err := source.Read(data, source.StartSample(), int(n))
	if err != nil {
		return err
	}
	data = data[:read]

	replaced := make([]float64, 0, t0+int64(len(data))+(int64(len(t.samples))-t1))
	replaced = append(replaced, t.samples[:t0]...)
	replaced = append(replaced, data...)
	replaced = append(replaced, t.samples[t1:]...)
	t.samples = replaced
	return nil
}

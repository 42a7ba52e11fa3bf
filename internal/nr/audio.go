package nr

// Source and Sink are the audio collaborator interfaces of spec §6. The
// core depends only on these — never on a concrete file format or track
// implementation (internal/audio provides one, backed by WAV).
type Source interface {
	SampleRate() int
	StartSample() int64
	EndSample() int64
	BestBlockSize(pos int64) int
	Read(buf []float64, pos int64, count int) (int, error)
}

// Sink is where reduced/isolated/residue output is delivered back to.
// ClearAndPaste replaces the [t0, t1) sample range with the full content
// of source, mirroring spec §6's "replacing the selection in the
// original track".
type Sink interface {
	Append(buf []float64, n int) error
	Flush() error
	ClearAndPaste(t0, t1 int64, source Source) error
}

// sliceSource is a minimal in-memory Source used internally by the
// driver to hand the synthesized output of one track back to
// Sink.ClearAndPaste without requiring a second disk round-trip.
type sliceSource struct {
	sampleRate int
	start      int64
	data       []float64
}

// NewSliceSource wraps data as a Source starting at sample start.
func NewSliceSource(sampleRate int, start int64, data []float64) Source {
	return &sliceSource{sampleRate: sampleRate, start: start, data: data}
}

func (s *sliceSource) SampleRate() int     { return s.sampleRate }
func (s *sliceSource) StartSample() int64  { return s.start }
func (s *sliceSource) EndSample() int64    { return s.start + int64(len(s.data)) }
func (s *sliceSource) BestBlockSize(int64) int { return len(s.data) }

func (s *sliceSource) Read(buf []float64, pos int64, count int) (int, error) {
	off := pos - s.start
	n := copy(buf[:count], s.data[off:])
	return n, nil
}

package nr

// fixtureTrack is a minimal in-memory Source/Sink used across this
// package's tests, standing in for internal/audio.Track (which can't be
// imported here without creating an import cycle, since it in turn
// depends on this package).
type fixtureTrack struct {
	sampleRate int
	data       []float64
}

func newFixtureTrack(sampleRate int, data []float64) *fixtureTrack {
	cp := append([]float64(nil), data...)
	return &fixtureTrack{sampleRate: sampleRate, data: cp}
}

func (f *fixtureTrack) SampleRate() int            { return f.sampleRate }
func (f *fixtureTrack) StartSample() int64         { return 0 }
func (f *fixtureTrack) EndSample() int64           { return int64(len(f.data)) }
func (f *fixtureTrack) BestBlockSize(pos int64) int { return 256 }

func (f *fixtureTrack) Read(buf []float64, pos int64, count int) (int, error) {
	n := copy(buf[:count], f.data[pos:])
	return n, nil
}

func (f *fixtureTrack) Append(buf []float64, n int) error {
	f.data = append(f.data, buf[:n]...)
	return nil
}

func (f *fixtureTrack) Flush() error { return nil }

func (f *fixtureTrack) ClearAndPaste(t0, t1 int64, source Source) error {
	n := source.EndSample() - source.StartSample()
	tmp := make([]float64, n)
	read, err := source.Read(tmp, source.StartSample(), int(n))
	if err != nil {
		return err
	}
	tmp = tmp[:read]

	out := make([]float64, 0, t0+int64(len(tmp))+(int64(len(f.data))-t1))
	out = append(out, f.data[:t0]...)
	out = append(out, tmp...)
	out = append(out, f.data[t1:]...)
	f.data = out
	return nil
}

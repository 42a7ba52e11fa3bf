package nr

import (
	"errors"
	"fmt"

	"github.com/gavoski/audacity/internal/fft"
	"github.com/gavoski/audacity/internal/window"
)

// Sentinel errors for the state/rate-mismatch taxonomy of spec §7.
var (
	ErrNotProfiled        = errors.New("noise reduction: reducing without a prior successful profile")
	ErrWindowSizeMismatch = errors.New("noise reduction: profile window size does not match the configured window size")
	ErrSampleRateMismatch = errors.New("noise reduction: sample rate of the noise profile does not match the track being processed")
)

// ProgressFunc reports fractional progress for a track; returning true
// requests cancellation (spec §6 "Progress callback").
type ProgressFunc func(trackIndex int, fraction float64) (cancel bool)

// Driver orchestrates the per-track lifecycle described in spec §4.8: a
// startup zero-pad, block-by-block feed, end-of-track flush, and handoff
// of the synthesized signal. One Driver is built per processing pass
// (profiling or reducing) and reused across every selected track via
// StartNewTrack, so the ring, frame buffer, FFT handle, and (when
// reducing) resynthesizer are each allocated exactly once (spec §5).
type Driver struct {
	params         *Params
	analysisWindow []float64
	fftHandle      *fft.Handle
	ring           *Ring
	fb             *FrameBuffer
	resynth        *Resynthesizer // nil while profiling
	scratch        []float64
	historyLen     int
	profiling      bool
	outStepCount   int64
}

// NewDriver builds the shared processing state for one pass over however
// many tracks are selected.
func NewDriver(p *Params, profiling bool) (*Driver, error) {
	wp, err := window.Build(p.WindowType, p.WindowSize, p.StepsPerWindow)
	if err != nil {
		return nil, err
	}
	h := fft.NewHandle(p.WindowSize)

	historyLen := p.HistoryLenReducing()
	if profiling {
		historyLen = p.HistoryLenProfiling()
	}

	d := &Driver{
		params:         p,
		analysisWindow: wp.Analysis,
		fftHandle:      h,
		ring:           NewRing(historyLen, p.SpectrumSize),
		fb:             NewFrameBuffer(p.WindowSize, p.StepSize),
		scratch:        make([]float64, p.WindowSize),
		historyLen:     historyLen,
		profiling:      profiling,
	}
	if !profiling {
		d.resynth = NewResynthesizer(p.WindowSize, p.StepSize, wp.Synthesis, h)
	}
	return d, nil
}

// StartNewTrack resets all per-track state (spec §4.8's StartNewTrack):
// ring powers/FFTs zeroed, ring gains filled with noise_atten_factor,
// input/output buffers zeroed, and out_step_count reset to its startup
// value.
func (d *Driver) StartNewTrack() {
	d.ring.ResetAll(d.params.NoiseAttenFactor)
	d.fb.Reset()
	if d.resynth != nil {
		d.resynth.Reset()
	}
	d.outStepCount = -(int64(d.historyLen-1) + int64(d.params.StepsPerWindow-1))
}

// drainBlocks reads src in BestBlockSize chunks from StartSample to
// EndSample, handing each chunk to onChunk, and calling onProgress after
// every read with the running sample position. It stops early, returning
// completed=false, if onProgress requests cancellation.
func drainBlocks(src Source, onChunk func(chunk []float64), onProgress func(pos int64) (cancel bool)) (completed bool, err error) {
	pos := src.StartSample()
	end := src.EndSample()
	var buf []float64

	for pos < end {
		n := src.BestBlockSize(pos)
		if remaining := end - pos; int64(n) > remaining {
			n = int(remaining)
		}
		if n <= 0 {
			break
		}
		if cap(buf) < n {
			buf = make([]float64, n)
		}
		buf = buf[:n]

		read, rerr := src.Read(buf, pos, n)
		if rerr != nil {
			return false, rerr
		}
		if read <= 0 {
			break
		}
		onChunk(buf[:read])
		pos += int64(read)

		if onProgress != nil && onProgress(pos) {
			return false, nil
		}
	}
	return true, nil
}

// ProcessProfile runs the profiling pass (spec §4.4) over one track,
// folding its per-band power sums into stats. It returns completed=false
// (with a nil error) if the progress callback requested cancellation.
func (d *Driver) ProcessProfile(stats *Statistics, src Source, trackIndex int, onProgress ProgressFunc) (completed bool, err error) {
	if !d.profiling {
		return false, fmt.Errorf("nr: driver was not built for profiling")
	}
	d.StartNewTrack()

	onFrame := func(win []float64) {
		slot := d.ring.Rotate()
		analyze(win, d.analysisWindow, d.scratch, d.fftHandle, ReduceNoise, d.params.NoiseAttenFactor, slot)
		ProfileFrame(stats, d.ring, d.params.Method)
	}

	start := src.StartSample()
	total := src.EndSample() - start
	return drainBlocks(src,
		func(chunk []float64) { d.fb.Feed(chunk, onFrame) },
		func(pos int64) bool {
			if onProgress == nil || total <= 0 {
				return false
			}
			return onProgress(trackIndex, float64(pos-start)/float64(total))
		},
	)
}

// ProcessReduce runs the reduction pass over one track, collecting the
// synthesized output and splicing it back via sink.ClearAndPaste
// (spec §4.8). The trailing excess left over after flush (at most one
// step_size block, per spec §9's open question) is trimmed to the
// input's exact sample length before the splice — the simplest
// deterministic rule consistent with the spec's "not more than one
// step-size of extra samples" note; see DESIGN.md.
func (d *Driver) ProcessReduce(stats *Statistics, src Source, sink Sink, trackIndex int, onProgress ProgressFunc) (completed bool, err error) {
	if d.profiling {
		return false, fmt.Errorf("nr: driver was not built for reduction")
	}
	d.StartNewTrack()

	var out []float64
	onFrame := func(win []float64) {
		slot := d.ring.Rotate()
		analyze(win, d.analysisWindow, d.scratch, d.fftHandle, d.params.ReductionChoice, d.params.NoiseAttenFactor, slot)
		buildGains(d.ring, d.params, stats)

		outgoing := d.ring.At(d.historyLen - 1)
		emitted := d.resynth.Step(outgoing, d.params.ReductionChoice, d.outStepCount, d.params.StepsPerWindow)
		d.outStepCount++
		if emitted != nil {
			out = append(out, emitted...)
		}
	}

	start := src.StartSample()
	end := src.EndSample()
	total := end - start

	completed, err = drainBlocks(src,
		func(chunk []float64) { d.fb.Feed(chunk, onFrame) },
		func(pos int64) bool {
			if onProgress == nil || total <= 0 {
				return false
			}
			return onProgress(trackIndex, 0.9*float64(pos-start)/float64(total))
		},
	)
	if err != nil || !completed {
		return completed, err
	}

	// Flush: feed zero step_size blocks until out_step_count has caught
	// up to the real input sample count (spec §4.8). target is captured
	// once — the flush's own zero padding also advances
	// fb.InSampleCount(), so looping against the live value would never
	// converge.
	target := d.fb.InSampleCount()
	zero := make([]float64, d.params.StepSize)
	for d.outStepCount*int64(d.params.StepSize) < target {
		d.fb.Feed(zero, onFrame)
	}

	if int64(len(out)) > total {
		out = out[:total]
	}

	if err := sink.ClearAndPaste(start, end, NewSliceSource(src.SampleRate(), start, out)); err != nil {
		return false, err
	}
	if onProgress != nil {
		onProgress(trackIndex, 1.0)
	}
	return true, nil
}

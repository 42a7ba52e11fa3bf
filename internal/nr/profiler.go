package nr

import (
	"errors"
	"math"

	"github.com/gavoski/audacity/internal/window"
)

// ErrEmptyProfile is returned by Statistics.Finish when no profiling
// windows were ever accumulated (spec §4.4, §7 "Empty-profile error").
var ErrEmptyProfile = errors.New("noise reduction: selected noise profile is too short")

// Statistics is the profile output consumed by reduction (spec §3). It is
// a plain value type, owned by the enclosing effect instance and passed
// by shared reference into both the profiler and the classifier (spec
// §9) — it outlives any single Driver invocation, which is why it is
// also the thing the CLI persists to disk between the profile and reduce
// passes (SPEC_FULL §10).
type Statistics struct {
	SampleRate int         `json:"sampleRate" yaml:"sampleRate"`
	WindowSize int         `json:"windowSize" yaml:"windowSize"`
	WindowType window.Type `json:"windowType" yaml:"windowType"`

	TotalWindows int64 `json:"totalWindows" yaml:"totalWindows"`
	TrackWindows int64 `json:"trackWindows" yaml:"trackWindows"`

	Sums           []float64 `json:"sums" yaml:"sums"`
	Means          []float64 `json:"means" yaml:"means"`
	NoiseThreshold []float64 `json:"noiseThreshold" yaml:"noiseThreshold"`
}

// NewStatistics allocates an empty profile for the given track geometry.
func NewStatistics(sampleRate, windowSize int, wt window.Type) *Statistics {
	n := windowSize/2 + 1
	return &Statistics{
		SampleRate:     sampleRate,
		WindowSize:     windowSize,
		WindowType:     wt,
		Sums:           make([]float64, n),
		Means:          make([]float64, n),
		NoiseThreshold: make([]float64, n),
	}
}

// SpectrumSize returns WindowSize/2 + 1.
func (s *Statistics) SpectrumSize() int { return s.WindowSize/2 + 1 }

// ProfileFrame folds the newest ring frame's power spectrum into the
// running per-track sums, and — for the Old method, whose classifier
// needs a running noise-floor estimate — updates NoiseThreshold with the
// min-over-the-ring-then-max-over-time rule of spec §4.4.
func ProfileFrame(stats *Statistics, ring *Ring, method Method) {
	stats.TrackWindows++

	newest := ring.At(0)
	for k, v := range newest.Power {
		stats.Sums[k] += v
	}

	if method != MethodOld {
		return
	}
	for k := range stats.NoiseThreshold {
		min := math.Inf(1)
		for i := 0; i < ring.Len(); i++ {
			if v := ring.At(i).Power[k]; v < min {
				min = v
			}
		}
		if min > stats.NoiseThreshold[k] {
			stats.NoiseThreshold[k] = min
		}
	}
}

// EndTrack folds the current track's accumulated sums into the running
// means (spec §4.4's mean-of-means folding law) and resets per-track
// state for the next profiling track.
func (s *Statistics) EndTrack() {
	if s.TrackWindows == 0 {
		return
	}
	denom := float64(s.TrackWindows + s.TotalWindows)
	for k := range s.Means {
		s.Means[k] = (s.Means[k]*float64(s.TotalWindows) + s.Sums[k]) / denom
		s.Sums[k] = 0
	}
	s.TotalWindows += s.TrackWindows
	s.TrackWindows = 0
}

// Finish reports whether profiling produced any usable data.
func (s *Statistics) Finish() error {
	if s.TotalWindows == 0 {
		return ErrEmptyProfile
	}
	return nil
}

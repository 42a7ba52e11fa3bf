package nr

import (
	"errors"
	"fmt"
	"log"
)

// Effect is the enclosing instance described in spec §9: it owns Config
// and, across repeated invocations, the Statistics object that outlives
// any single Driver run. The first call to Process profiles; once that
// succeeds, DoProfile flips to false and subsequent calls reduce — this
// is the "repeat invocation proceeds to the second pass" behavior of
// spec §4.8 and §9.
type Effect struct {
	Config    Config
	DoProfile bool
	Stats     *Statistics
	Logger    *log.Logger
}

// NewEffect starts a fresh two-pass run with the given configuration.
func NewEffect(cfg Config, logger *log.Logger) *Effect {
	if logger == nil {
		logger = log.Default()
	}
	return &Effect{Config: cfg, DoProfile: true, Logger: logger}
}

// Process runs the current pass (profiling or reducing, per e.DoProfile)
// over tracks, in order, calling onProgress once per input block of each
// track. It returns per-track completion (false entries mean that track
// was cancelled and left unmodified) and the first fatal error
// encountered, if any.
func (e *Effect) Process(tracks []TrackContext, onProgress ProgressFunc) ([]bool, error) {
	if e.DoProfile {
		return e.runProfile(tracks, onProgress)
	}
	return e.runReduce(tracks, onProgress)
}

func (e *Effect) runProfile(tracks []TrackContext, onProgress ProgressFunc) ([]bool, error) {
	if len(tracks) == 0 {
		return nil, fmt.Errorf("nr: no tracks selected for profiling")
	}

	sampleRate := tracks[0].Source.SampleRate()
	for _, tc := range tracks {
		if tc.Source.SampleRate() != sampleRate {
			return nil, fmt.Errorf("nr: %w", errAllSameRate)
		}
	}

	p, err := NewParams(e.Config, sampleRate)
	if err != nil {
		return nil, err
	}
	driver, err := NewDriver(p, true)
	if err != nil {
		return nil, err
	}

	stats := NewStatistics(sampleRate, p.WindowSize, p.WindowType)
	completed := make([]bool, len(tracks))

	for i, tc := range tracks {
		ok, perr := driver.ProcessProfile(stats, tc.Source, i, onProgress)
		if perr != nil {
			return completed, perr
		}
		completed[i] = ok
		if ok {
			stats.EndTrack()
		}
	}

	if err := stats.Finish(); err != nil {
		// Empty-profile error: statistics are discarded (spec §4.4, §7).
		return completed, err
	}

	e.Stats = stats
	e.DoProfile = false
	return completed, nil
}

func (e *Effect) runReduce(tracks []TrackContext, onProgress ProgressFunc) ([]bool, error) {
	if e.Stats == nil {
		return nil, ErrNotProfiled
	}
	if e.Stats.WindowSize != e.Config.WindowSize {
		return nil, ErrWindowSizeMismatch
	}
	if e.Stats.WindowType != e.Config.WindowType {
		e.Logger.Printf("noise reduction: profile window type %v does not match configured %v; proceeding with possible accuracy loss", e.Stats.WindowType, e.Config.WindowType)
	}

	p, err := NewParams(e.Config, e.Stats.SampleRate)
	if err != nil {
		return nil, err
	}
	driver, err := NewDriver(p, false)
	if err != nil {
		return nil, err
	}

	completed := make([]bool, len(tracks))
	for i, tc := range tracks {
		if tc.Source.SampleRate() != e.Stats.SampleRate {
			return completed, fmt.Errorf("track %d: %w", i, ErrSampleRateMismatch)
		}
		ok, perr := driver.ProcessReduce(e.Stats, tc.Source, tc.Sink, i, onProgress)
		if perr != nil {
			return completed, perr
		}
		completed[i] = ok
	}
	return completed, nil
}

// TrackContext pairs one track's readable source with the sink its
// reduced output is spliced back into (usually the same underlying
// track, per spec §4.8).
type TrackContext struct {
	Source Source
	Sink   Sink
}

var errAllSameRate = errors.New("all noise profile data must have the same sample rate")

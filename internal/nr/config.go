// Package nr implements the two-pass spectral noise-reduction core: frame
// buffering, the spectrum-record ring, profiling, classification, gain
// construction, and overlap-add resynthesis.
package nr

import (
	"fmt"
	"math"

	"github.com/gavoski/audacity/internal/window"
)

// ReductionChoice selects what the reduction pass does with classified
// noise bands.
type ReductionChoice int

const (
	ReduceNoise ReductionChoice = iota
	IsolateNoise
	LeaveResidue
)

// Method selects the noise/signal classification algorithm.
type Method int

const (
	MethodOld Method = iota
	MethodSecondGreatest
	MethodMedian
)

// FrequencyBand restricts processing to [Low, High) Hz. A nil *FrequencyBand
// on Config means the full spectrum is affected.
type FrequencyBand struct {
	Low, High float64
}

// Config is the immutable, per-run configuration surface (spec §3). It is
// JSON-tagged for the HTTP server and also round-trips through YAML for
// the CLI's persisted settings file (see cmd/noisereduce).
type Config struct {
	WindowSize     int         `json:"windowSize" yaml:"windowSize"`
	StepsPerWindow int         `json:"stepsPerWindow" yaml:"stepsPerWindow"`
	WindowType     window.Type `json:"windowType" yaml:"windowType"`

	ReductionChoice ReductionChoice `json:"reductionChoice" yaml:"reductionChoice"`
	Method          Method          `json:"method" yaml:"method"`

	NoiseGainDB    float64 `json:"noiseGainDb" yaml:"noiseGainDb"`
	SensitivityDB  float64 `json:"sensitivityDb" yaml:"sensitivityDb"`
	NewSensitivity float64 `json:"newSensitivity" yaml:"newSensitivity"`

	FreqSmoothingHz float64 `json:"freqSmoothingHz" yaml:"freqSmoothingHz"`
	AttackTimeS     float64 `json:"attackTimeS" yaml:"attackTimeS"`
	ReleaseTimeS    float64 `json:"releaseTimeS" yaml:"releaseTimeS"`

	FrequencyBand *FrequencyBand `json:"frequencyBand,omitempty" yaml:"frequencyBand,omitempty"`
}

// DefaultConfig mirrors Audacity's stock Noise Reduction defaults:
// 2048-sample Hann/Hann windows at 4 steps, 5-frame SecondGreatest
// classification, 12 dB of attenuation.
func DefaultConfig() Config {
	return Config{
		WindowSize:      2048,
		StepsPerWindow:  4,
		WindowType:      window.HannHann,
		ReductionChoice: ReduceNoise,
		Method:          MethodSecondGreatest,
		NoiseGainDB:     12,
		SensitivityDB:   0,
		NewSensitivity:  6,
		FreqSmoothingHz: 0,
		AttackTimeS:     0.02,
		ReleaseTimeS:    0.1,
	}
}

// ConfigError reports a validation failure using one of the exact
// messages the core surfaces to a hosting dialog (spec §6).
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Msg) }

const (
	MsgEmptyValue      = "Empty value"
	MsgNotInRange      = "Not in range"
	MsgMalformedNumber = "Malformed number"
)

var windowSizeLadder = func() map[int]bool {
	m := map[int]bool{}
	for n := 8; n <= 16384; n *= 2 {
		m[n] = true
	}
	return m
}()

var stepsPerWindowLadder = map[int]bool{2: true, 4: true, 8: true, 16: true, 32: true, 64: true}

// Validate checks every range and consistency rule in spec §3. It never
// mutates cfg.
func (cfg Config) Validate() error {
	if cfg.WindowSize == 0 {
		return &ConfigError{"windowSize", MsgEmptyValue}
	}
	if !windowSizeLadder[cfg.WindowSize] {
		return &ConfigError{"windowSize", MsgNotInRange}
	}
	if cfg.StepsPerWindow == 0 {
		return &ConfigError{"stepsPerWindow", MsgEmptyValue}
	}
	if !stepsPerWindowLadder[cfg.StepsPerWindow] {
		return &ConfigError{"stepsPerWindow", MsgNotInRange}
	}

	minSteps, err := cfg.WindowType.MinSteps()
	if err != nil {
		return &ConfigError{"windowType", MsgNotInRange}
	}
	if cfg.StepsPerWindow < minSteps {
		return &ConfigError{"stepsPerWindow", fmt.Sprintf("must be at least %d for the selected window type", minSteps)}
	}
	if cfg.StepsPerWindow > cfg.WindowSize {
		return &ConfigError{"stepsPerWindow", "must not exceed windowSize"}
	}
	if cfg.Method == MethodMedian && cfg.StepsPerWindow > 4 {
		return &ConfigError{"method", "Median requires stepsPerWindow <= 4"}
	}

	if cfg.NoiseGainDB < 0 || cfg.NoiseGainDB > 48 {
		return &ConfigError{"noiseGainDb", MsgNotInRange}
	}
	if cfg.SensitivityDB < -20 || cfg.SensitivityDB > 20 {
		return &ConfigError{"sensitivityDb", MsgNotInRange}
	}
	if cfg.NewSensitivity < 1 || cfg.NewSensitivity > 24 {
		return &ConfigError{"newSensitivity", MsgNotInRange}
	}
	if cfg.FreqSmoothingHz < 0 || cfg.FreqSmoothingHz > 1000 {
		return &ConfigError{"freqSmoothingHz", MsgNotInRange}
	}
	if cfg.AttackTimeS < 0 || cfg.AttackTimeS > 1 {
		return &ConfigError{"attackTimeS", MsgNotInRange}
	}
	if cfg.ReleaseTimeS < 0 || cfg.ReleaseTimeS > 1 {
		return &ConfigError{"releaseTimeS", MsgNotInRange}
	}
	if cfg.FrequencyBand != nil {
		fb := cfg.FrequencyBand
		if fb.Low < 0 || fb.High <= fb.Low {
			return &ConfigError{"frequencyBand", MsgNotInRange}
		}
	}

	return nil
}

// Params holds every quantity derived from a validated Config plus the
// sample rate of the track it will run against (spec §3 "Derived
// quantities"). One Params is built per track driver invocation.
type Params struct {
	Config
	SampleRate int

	SpectrumSize int
	StepSize     int

	FreqSmoothingBins int
	BinLow, BinHigh   int

	NAttackBlocks, NReleaseBlocks int

	NoiseAttenFactor               float64
	OneBlockAttack, OneBlockRelease float64
	SensitivityFactor               float64

	NWindowsToExamine int
	Center            int
}

// NewParams validates cfg and derives every quantity in spec §3 for the
// given sample rate.
func NewParams(cfg Config, sampleRate int) (*Params, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sampleRate <= 0 {
		return nil, &ConfigError{"sampleRate", MsgNotInRange}
	}

	p := &Params{Config: cfg, SampleRate: sampleRate}
	p.SpectrumSize = cfg.WindowSize/2 + 1
	p.StepSize = cfg.WindowSize / cfg.StepsPerWindow

	p.FreqSmoothingBins = int(math.Floor(cfg.FreqSmoothingHz * float64(cfg.WindowSize) / float64(sampleRate)))

	binHz := float64(sampleRate) / float64(cfg.WindowSize)
	if cfg.FrequencyBand != nil {
		p.BinLow = int(math.Floor(cfg.FrequencyBand.Low / binHz))
		p.BinHigh = int(math.Ceil(cfg.FrequencyBand.High / binHz))
	} else {
		p.BinLow = 0
		p.BinHigh = p.SpectrumSize
	}

	p.NAttackBlocks = 1 + int(math.Floor(cfg.AttackTimeS*float64(sampleRate)/float64(p.StepSize)))
	p.NReleaseBlocks = 1 + int(math.Floor(cfg.ReleaseTimeS*float64(sampleRate)/float64(p.StepSize)))

	p.NoiseAttenFactor = math.Pow(10, -cfg.NoiseGainDB/20)
	p.OneBlockAttack = math.Pow(10, -cfg.NoiseGainDB/(20*float64(p.NAttackBlocks)))
	p.OneBlockRelease = math.Pow(10, -cfg.NoiseGainDB/(20*float64(p.NReleaseBlocks)))
	p.SensitivityFactor = math.Pow(10, cfg.SensitivityDB/10)

	if cfg.Method == MethodOld {
		n := int(math.Floor(0.05 * float64(sampleRate) / float64(p.StepSize)))
		if n < 2 {
			n = 2
		}
		p.NWindowsToExamine = n
	} else {
		p.NWindowsToExamine = 1 + cfg.StepsPerWindow
	}
	p.Center = p.NWindowsToExamine / 2
	if p.Center < 1 {
		return nil, &ConfigError{"stepsPerWindow", "resulting center frame index must be at least 1"}
	}

	return p, nil
}

// HistoryLenProfiling is the ring length used while profiling.
func (p *Params) HistoryLenProfiling() int {
	if p.Method == MethodOld && p.NWindowsToExamine < 1 {
		return 1
	}
	return p.NWindowsToExamine
}

// HistoryLenReducing is the ring length used while reducing.
func (p *Params) HistoryLenReducing() int {
	n := p.Center + p.NAttackBlocks
	if p.NWindowsToExamine > n {
		return p.NWindowsToExamine
	}
	return n
}

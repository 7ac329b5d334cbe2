// Package wave implements the waveform source: named, parameterized
// oscillator definitions resolved to sampled amplitude signals. Sampling is
// pure: a given reference always produces the same signal, which playback
// relies on to keep preview and device output identical.
package wave

import (
	"fmt"
	"math"

	"github.com/hapticlab/tacton/internal/haptic"
)

// Kind identifies a builtin oscillator.
type Kind string

const (
	KindSine     Kind = "sine"
	KindSquare   Kind = "square"
	KindSaw      Kind = "saw"
	KindTriangle Kind = "triangle"
	KindPWM      Kind = "pwm"
	KindChirp    Kind = "chirp"
	KindFM       Kind = "fm"
	KindNoise    Kind = "noise"
)

// validKinds lists every accepted oscillator kind.
var validKinds = map[Kind]bool{
	KindSine: true, KindSquare: true, KindSaw: true, KindTriangle: true,
	KindPWM: true, KindChirp: true, KindFM: true, KindNoise: true,
}

// Def is a waveform definition. Fields beyond the common four apply only to
// specific kinds: F0/F1 to chirp, ModHz/Beta to fm, Duty to pwm.
type Def struct {
	Kind        Kind    `json:"kind" yaml:"kind"`
	FrequencyHz float64 `json:"frequency_hz" yaml:"frequency_hz"`
	Amplitude   float64 `json:"amplitude" yaml:"amplitude"`
	DurationMs  int64   `json:"duration_ms" yaml:"duration_ms"`
	F0          float64 `json:"f0,omitempty" yaml:"f0,omitempty"`
	F1          float64 `json:"f1,omitempty" yaml:"f1,omitempty"`
	ModHz       float64 `json:"mod_hz,omitempty" yaml:"mod_hz,omitempty"`
	Beta        float64 `json:"beta,omitempty" yaml:"beta,omitempty"`
	Duty        float64 `json:"duty,omitempty" yaml:"duty,omitempty"`
}

// Validate checks the definition's parameter ranges.
func (d Def) Validate() error {
	if !validKinds[d.Kind] {
		return haptic.NewInvalidParamsError("kind", fmt.Sprintf("unknown oscillator %q", d.Kind))
	}
	if d.Amplitude < 0 || d.Amplitude > 1 {
		return haptic.NewInvalidParamsError("amplitude", fmt.Sprintf("must be in [0,1], got %g", d.Amplitude))
	}
	if d.DurationMs <= 0 {
		return haptic.NewInvalidParamsError("duration_ms", fmt.Sprintf("must be > 0, got %d", d.DurationMs))
	}
	switch d.Kind {
	case KindChirp:
		if d.F0 < 0 || d.F1 < 0 {
			return haptic.NewInvalidParamsError("f0/f1", "sweep frequencies must be >= 0")
		}
	case KindPWM:
		if d.Duty < 0 || d.Duty > 1 {
			return haptic.NewInvalidParamsError("duty", fmt.Sprintf("must be in [0,1], got %g", d.Duty))
		}
	case KindNoise:
		// No frequency requirement.
	default:
		if d.FrequencyHz <= 0 {
			return haptic.NewInvalidParamsError("frequency_hz", fmt.Sprintf("must be > 0, got %g", d.FrequencyHz))
		}
	}
	return nil
}

// sample evaluates the definition at tOffsetMs. The result is a unit
// non-negative amplitude in [0,1] (bipolar oscillators are shifted up, the
// way the device expects drive levels), scaled by Amplitude. Offsets at or
// beyond the duration sample to zero.
func (d Def) sample(tOffsetMs int64) float64 {
	if tOffsetMs < 0 || tOffsetMs >= d.DurationMs {
		return 0
	}
	t := float64(tOffsetMs) / 1000.0

	var y float64 // bipolar in [-1,1] unless noted
	switch d.Kind {
	case KindSine:
		y = math.Sin(2 * math.Pi * d.FrequencyHz * t)
	case KindSquare:
		if math.Sin(2*math.Pi*d.FrequencyHz*t) >= 0 {
			y = 1
		} else {
			y = -1
		}
	case KindSaw:
		ph := d.FrequencyHz * t
		y = 2*(ph-math.Floor(ph)) - 1
	case KindTriangle:
		ph := d.FrequencyHz * t
		frac := ph - math.Floor(ph)
		y = 4*math.Abs(frac-0.5) - 1
	case KindPWM:
		ph := d.FrequencyHz * t
		frac := ph - math.Floor(ph)
		// Already unipolar.
		if frac < d.Duty {
			return d.Amplitude
		}
		return 0
	case KindChirp:
		dur := float64(d.DurationMs) / 1000.0
		phase := 2 * math.Pi * (d.F0*t + (d.F1-d.F0)*t*t/(2*dur))
		y = math.Sin(phase)
	case KindFM:
		y = math.Sin(2*math.Pi*d.FrequencyHz*t + d.Beta*math.Sin(2*math.Pi*d.ModHz*t))
	case KindNoise:
		// Hash-seeded so the "random" signal is identical on every
		// sampling pass (millisecond resolution).
		return d.Amplitude * unitNoise(tOffsetMs)
	default:
		return 0
	}

	return d.Amplitude * (y + 1) / 2
}

// unitNoise maps a sample index to a deterministic pseudo-random value in
// [0,1). SplitMix64 finalizer; no state, no allocation.
func unitNoise(i int64) float64 {
	z := uint64(i) + 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	z ^= z >> 31
	return float64(z>>11) / float64(1<<53)
}

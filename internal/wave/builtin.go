package wave

import (
	"sync"

	"github.com/hapticlab/tacton/internal/haptic"
)

// builtinDefs are the stock waveforms available without any registration,
// one per oscillator kind, keyed by the kind name.
var builtinDefs = map[haptic.WaveformRef]Def{
	"sine":     {Kind: KindSine, FrequencyHz: 200, Amplitude: 1, DurationMs: 1000},
	"square":   {Kind: KindSquare, FrequencyHz: 200, Amplitude: 1, DurationMs: 1000},
	"saw":      {Kind: KindSaw, FrequencyHz: 200, Amplitude: 1, DurationMs: 1000},
	"triangle": {Kind: KindTriangle, FrequencyHz: 200, Amplitude: 1, DurationMs: 1000},
	"pwm":      {Kind: KindPWM, FrequencyHz: 200, Amplitude: 1, DurationMs: 1000, Duty: 0.5},
	"chirp":    {Kind: KindChirp, Amplitude: 1, DurationMs: 1000, F0: 100, F1: 300},
	"fm":       {Kind: KindFM, FrequencyHz: 200, Amplitude: 1, DurationMs: 1000, ModHz: 10, Beta: 2},
	"noise":    {Kind: KindNoise, Amplitude: 1, DurationMs: 1000},
}

var (
	builtinOnce sync.Once
	builtinBank *Bank
)

// Builtins returns the shared bank of stock waveforms. Callers must not
// register into it; use NewBank for a private bank.
func Builtins() *Bank {
	builtinOnce.Do(func() {
		builtinBank = NewBank()
		for ref, def := range builtinDefs {
			if err := builtinBank.Register(ref, def); err != nil {
				panic("wave: builtin definition invalid: " + err.Error())
			}
		}
	})
	return builtinBank
}

// IsBuiltin reports whether ref names a stock waveform.
func IsBuiltin(ref haptic.WaveformRef) bool {
	_, ok := builtinDefs[ref]
	return ok
}

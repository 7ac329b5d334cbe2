package wave

import (
	"fmt"
	"sync"

	"github.com/hapticlab/tacton/internal/haptic"
)

// Source resolves waveform references to sampled signals. Implementations
// must be pure: repeated calls with the same arguments return the same
// values.
type Source interface {
	// Sample returns the amplitude in [0,1] at the given offset into the
	// waveform. Offsets beyond the waveform's duration sample to zero.
	Sample(ref haptic.WaveformRef, tOffsetMs int64) (float64, error)

	// Duration returns the waveform's length in milliseconds.
	Duration(ref haptic.WaveformRef) (int64, error)
}

// Bank is an in-memory registry of named waveform definitions, loaded from
// pattern files or the library store. It implements Source.
//
// Registration validates the definition once; sampling afterwards is
// lock-free apart from the read lock and never fails for a registered ref.
type Bank struct {
	mu   sync.RWMutex
	defs map[haptic.WaveformRef]Def
}

// NewBank creates an empty bank.
func NewBank() *Bank {
	return &Bank{defs: make(map[haptic.WaveformRef]Def)}
}

// Register validates and stores a definition under the given reference.
// Re-registering a reference replaces the previous definition.
func (b *Bank) Register(ref haptic.WaveformRef, def Def) error {
	if ref == "" {
		return haptic.NewInvalidParamsError("waveform_ref", "must not be empty")
	}
	if err := def.Validate(); err != nil {
		return fmt.Errorf("waveform %q: %w", ref, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.defs[ref] = def
	return nil
}

// Lookup returns the definition registered under ref.
func (b *Bank) Lookup(ref haptic.WaveformRef) (Def, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	d, ok := b.defs[ref]
	return d, ok
}

// Refs returns the registered references, unordered.
func (b *Bank) Refs() []haptic.WaveformRef {
	b.mu.RLock()
	defer b.mu.RUnlock()
	refs := make([]haptic.WaveformRef, 0, len(b.defs))
	for r := range b.defs {
		refs = append(refs, r)
	}
	return refs
}

// Sample implements Source.
func (b *Bank) Sample(ref haptic.WaveformRef, tOffsetMs int64) (float64, error) {
	d, ok := b.Lookup(ref)
	if !ok {
		return 0, fmt.Errorf("unknown waveform %q", ref)
	}
	return d.sample(tOffsetMs), nil
}

// Duration implements Source.
func (b *Bank) Duration(ref haptic.WaveformRef) (int64, error) {
	d, ok := b.Lookup(ref)
	if !ok {
		return 0, fmt.Errorf("unknown waveform %q", ref)
	}
	return d.DurationMs, nil
}

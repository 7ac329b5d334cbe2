package playback

import (
	"log/slog"
	"sync"
	"time"

	"github.com/hapticlab/tacton/internal/haptic"
)

// Dispatched is one delivered event with the wall time it reached the sink,
// kept for timing inspection and display.
type Dispatched struct {
	Event haptic.ActuatorEvent
	At    time.Time
}

// PreviewSink executes a compiled stream in-process with no hardware
// attached. Dispatches are recorded (and optionally forwarded to an
// observer for live UI updates); ReleaseAll just marks the record. It has
// no connection to fault on; timer starvation is detected by the engine's
// lag watchdog and surfaced as a fault the same way a device error is.
type PreviewSink struct {
	mu         sync.Mutex
	dispatched []Dispatched
	releases   int

	clock    Clock
	logger   *slog.Logger
	observer func(Dispatched)
}

// PreviewOption configures a PreviewSink.
type PreviewOption func(*PreviewSink)

// WithPreviewObserver registers a callback invoked synchronously on every
// dispatch. Keep it fast; it runs on the scheduling loop.
func WithPreviewObserver(fn func(Dispatched)) PreviewOption {
	return func(p *PreviewSink) { p.observer = fn }
}

// WithPreviewLogger routes dispatch logging to the given logger.
func WithPreviewLogger(l *slog.Logger) PreviewOption {
	return func(p *PreviewSink) { p.logger = l }
}

// WithPreviewClock overrides the timestamp source (tests).
func WithPreviewClock(c Clock) PreviewOption {
	return func(p *PreviewSink) { p.clock = c }
}

// NewPreviewSink creates a preview sink.
func NewPreviewSink(opts ...PreviewOption) *PreviewSink {
	p := &PreviewSink{clock: NewRealClock()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Dispatch implements Sink.
func (p *PreviewSink) Dispatch(ev haptic.ActuatorEvent) error {
	d := Dispatched{Event: ev, At: p.clock.Now()}

	p.mu.Lock()
	p.dispatched = append(p.dispatched, d)
	observer := p.observer
	p.mu.Unlock()

	if p.logger != nil {
		p.logger.Debug("preview dispatch",
			"actuator", ev.ActuatorID,
			"start_ms", ev.StartMs,
			"duration_ms", ev.DurationMs,
			"intensity", ev.Intensity,
		)
	}
	if observer != nil {
		observer(d)
	}
	return nil
}

// ReleaseAll implements Sink.
func (p *PreviewSink) ReleaseAll() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.releases++
	return nil
}

// Dispatches returns a copy of everything delivered so far.
func (p *PreviewSink) Dispatches() []Dispatched {
	p.mu.Lock()
	defer p.mu.Unlock()
	cp := make([]Dispatched, len(p.dispatched))
	copy(cp, p.dispatched)
	return cp
}

// Releases returns how many times ReleaseAll was called.
func (p *PreviewSink) Releases() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.releases
}

package playback

import (
	"log/slog"
	"sync"
	"time"

	"github.com/hapticlab/tacton/internal/haptic"
)

// DefaultMaxDispatchLag is how far behind the timeline the run loop may
// fall before the session faults. Events shorter than the step ceiling
// are inaudible as vibration when delivered this late.
const DefaultMaxDispatchLag = 100 * time.Millisecond

// Engine owns playback sessions over a single sink. At most one session
// is active at a time; starting another while one is playing or paused
// fails with haptic.ErrSessionBusy.
type Engine struct {
	sink   Sink
	clock  Clock
	logger *slog.Logger
	idGen  IDGenerator
	maxLag time.Duration

	mu      sync.Mutex
	current *Session
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the wall clock, for tests.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithIDGenerator overrides session ID generation, for tests.
func WithIDGenerator(g IDGenerator) Option {
	return func(e *Engine) { e.idGen = g }
}

// WithMaxDispatchLag sets the lag threshold that faults a starving
// session. Zero disables the watchdog.
func WithMaxDispatchLag(d time.Duration) Option {
	return func(e *Engine) { e.maxLag = d }
}

// NewEngine creates an engine dispatching to the given sink.
func NewEngine(sink Sink, opts ...Option) *Engine {
	e := &Engine{
		sink:   sink,
		clock:  NewRealClock(),
		logger: slog.Default(),
		idGen:  UUIDv7Generator{},
		maxLag: DefaultMaxDispatchLag,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Play starts a new session over the given events. The slice is copied
// and sorted; the caller keeps ownership of its copy. Returns
// haptic.ErrSessionBusy while a previous session is still playing or
// paused.
func (e *Engine) Play(events []haptic.ActuatorEvent) (*Session, error) {
	sorted := append([]haptic.ActuatorEvent(nil), events...)
	haptic.SortEvents(sorted)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current != nil && e.current.active() {
		return nil, haptic.ErrSessionBusy
	}

	sess := newSession(e.idGen.Generate(), sorted, e.sink, e.clock, e.logger, e.maxLag)
	// Marked active before the goroutine starts so a racing Play sees it.
	sess.setStatus(StatusPlaying)
	e.current = sess
	go sess.run()
	return sess, nil
}

// Current returns the most recently started session, which may already
// have terminated. Nil before the first Play.
func (e *Engine) Current() *Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Stop terminates the current session if one is active.
func (e *Engine) Stop() {
	if s := e.Current(); s != nil {
		s.Stop()
	}
}

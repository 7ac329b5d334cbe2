package playback

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hapticlab/tacton/internal/haptic"
)

// Status is the lifecycle state of a playback session.
type Status int

const (
	StatusIdle Status = iota
	StatusPlaying
	StatusPaused
	StatusStopped
	StatusFaulted
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusStopped:
		return "stopped"
	case StatusFaulted:
		return "faulted"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// ErrSessionDone is returned by Pause and Resume once the session has
// reached a terminal state.
var ErrSessionDone = errors.New("playback session already finished")

// ErrDispatchLag is the fault recorded when the run loop falls too far
// behind the event timeline to honor it.
var ErrDispatchLag = errors.New("dispatch fell behind event timeline")

type ctrlKind int

const (
	ctrlPause ctrlKind = iota
	ctrlResume
)

type ctrlMsg struct {
	kind  ctrlKind
	reply chan error
}

// Session plays a compiled event stream against a sink. All timeline state
// lives on the run goroutine; Pause, Resume and Stop only post control
// messages. A session runs at most once.
type Session struct {
	id     string
	events []haptic.ActuatorEvent
	sink   Sink
	clock  Clock
	logger *slog.Logger
	maxLag time.Duration

	ctrl     chan ctrlMsg
	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	mu     sync.Mutex
	status Status
	err    error
}

func newSession(id string, events []haptic.ActuatorEvent, sink Sink, clock Clock, logger *slog.Logger, maxLag time.Duration) *Session {
	return &Session{
		id:     id,
		events: events,
		sink:   sink,
		clock:  clock,
		logger: logger,
		maxLag: maxLag,
		ctrl:   make(chan ctrlMsg),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
		status: StatusIdle,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Status reports the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Err returns the fault that terminated the session, or nil. Only valid
// after Done is closed.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Done is closed when the session reaches a terminal state and its final
// ReleaseAll has been sent.
func (s *Session) Done() <-chan struct{} { return s.done }

// Wait blocks until the session terminates and returns its fault, if any.
func (s *Session) Wait() error {
	<-s.done
	return s.Err()
}

// Pause suspends the timeline. Resuming continues from the same offset;
// already dispatched events are not re-sent.
func (s *Session) Pause() error { return s.control(ctrlPause) }

// Resume continues a paused timeline.
func (s *Session) Resume() error { return s.control(ctrlResume) }

func (s *Session) control(kind ctrlKind) error {
	msg := ctrlMsg{kind: kind, reply: make(chan error, 1)}
	select {
	case s.ctrl <- msg:
		return <-msg.reply
	case <-s.done:
		return ErrSessionDone
	}
}

// Stop terminates the session. Safe to call from any goroutine and more
// than once; the run loop sends ReleaseAll exactly once on the way out.
func (s *Session) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

func (s *Session) setStatus(st Status) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
}

func (s *Session) active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status == StatusPlaying || s.status == StatusPaused
}

// run executes the timeline. It is started by the engine on its own
// goroutine and owns all dispatching.
func (s *Session) run() {
	s.logger.Info("session started", "session_id", s.id, "events", len(s.events))

	faultErr := s.dispatchAll()

	// Actuators are always released on exit, whatever ended the session.
	if relErr := s.sink.ReleaseAll(); relErr != nil {
		s.logger.Error("release failed", "session_id", s.id, "error", relErr)
		if faultErr == nil {
			faultErr = relErr
		}
	}

	s.mu.Lock()
	if faultErr != nil {
		s.status = StatusFaulted
		s.err = faultErr
	} else {
		s.status = StatusStopped
	}
	final := s.status
	s.mu.Unlock()

	s.logger.Info("session finished", "session_id", s.id, "status", final.String())
	close(s.done)
}

// dispatchAll walks the sorted event stream against the wall clock.
// base anchors offset zero; pausing shifts base forward by the pause
// duration so offsets stay stable across resume.
func (s *Session) dispatchAll() error {
	base := s.clock.Now()

	for _, ev := range s.events {
		due := base.Add(time.Duration(ev.StartMs) * time.Millisecond)

		for {
			now := s.clock.Now()
			if !now.Before(due) {
				break
			}
			select {
			case <-s.clock.After(due.Sub(now)):
			case msg := <-s.ctrl:
				shift, stopped := s.handleCtrl(msg)
				if stopped {
					return nil
				}
				base = base.Add(shift)
				due = due.Add(shift)
			case <-s.stopCh:
				return nil
			}
		}

		if lag := s.clock.Now().Sub(due); s.maxLag > 0 && lag > s.maxLag {
			return fmt.Errorf("%w: event at %dms dispatched %s late", ErrDispatchLag, ev.StartMs, lag)
		}

		if err := s.sink.Dispatch(ev); err != nil {
			s.logger.Error("dispatch failed", "session_id", s.id,
				"actuator_id", ev.ActuatorID, "start_ms", ev.StartMs, "error", err)
			return err
		}

		select {
		case <-s.stopCh:
			return nil
		default:
		}
	}
	return nil
}

// handleCtrl processes one control message while between events. On a
// pause it blocks until resume or stop and returns the elapsed pause
// duration as a time-base shift. stopped reports a Stop arriving while
// paused.
func (s *Session) handleCtrl(msg ctrlMsg) (shift time.Duration, stopped bool) {
	if msg.kind != ctrlPause {
		// Resume while already playing is a no-op.
		msg.reply <- nil
		return 0, false
	}

	pausedAt := s.clock.Now()
	s.setStatus(StatusPaused)
	s.logger.Info("session paused", "session_id", s.id)
	msg.reply <- nil

	for {
		select {
		case next := <-s.ctrl:
			if next.kind == ctrlResume {
				s.setStatus(StatusPlaying)
				s.logger.Info("session resumed", "session_id", s.id)
				next.reply <- nil
				return s.clock.Now().Sub(pausedAt), false
			}
			// Pause while already paused is a no-op.
			next.reply <- nil
		case <-s.stopCh:
			return 0, true
		}
	}
}

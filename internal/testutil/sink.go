package testutil

import (
	"sync"
	"time"

	"github.com/hapticlab/tacton/internal/haptic"
)

// RecordingSink captures dispatched events for assertions. It satisfies
// the playback sink contract without touching hardware.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type RecordingSink struct {
	mu         sync.Mutex
	events     []haptic.ActuatorEvent
	times      []time.Time
	releases   int
	dispatchEr error
	releaseEr  error
}

// NewRecordingSink creates an empty recording sink.
func NewRecordingSink() *RecordingSink {
	return &RecordingSink{}
}

// FailDispatch makes every subsequent Dispatch return err. Passing nil
// restores normal operation.
func (s *RecordingSink) FailDispatch(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatchEr = err
}

// FailRelease makes every subsequent ReleaseAll return err.
func (s *RecordingSink) FailRelease(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseEr = err
}

// Dispatch records the event and its wall-clock arrival time.
func (s *RecordingSink) Dispatch(ev haptic.ActuatorEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dispatchEr != nil {
		return s.dispatchEr
	}
	s.events = append(s.events, ev)
	s.times = append(s.times, time.Now())
	return nil
}

// ReleaseAll counts release sweeps.
func (s *RecordingSink) ReleaseAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.releaseEr != nil {
		return s.releaseEr
	}
	s.releases++
	return nil
}

// Events returns a copy of everything dispatched so far.
func (s *RecordingSink) Events() []haptic.ActuatorEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]haptic.ActuatorEvent(nil), s.events...)
}

// DispatchTimes returns the arrival time of each recorded event, in
// dispatch order.
func (s *RecordingSink) DispatchTimes() []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Time(nil), s.times...)
}

// Releases returns how many ReleaseAll sweeps have run.
func (s *RecordingSink) Releases() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.releases
}

package playback

import "time"

// Clock abstracts wall time for the scheduling loop so tests can run
// against compressed timelines and the loop logic stays free of direct
// time.Now calls.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

// NewRealClock returns the production wall clock.
func NewRealClock() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

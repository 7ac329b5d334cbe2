package haptic

import "sort"

// Layout is the immutable set of physical actuators a session compiles
// against. It is constructed once (NewLayout), validated, and then shared
// read-only across the resolver, scheduler, and compiler. No component may
// mutate it, so concurrent resampling is safe while a different pattern is
// mid-playback.
type Layout struct {
	actuators []Actuator
	byID      map[int]Actuator
}

// NewLayout builds a Layout from actuator records.
//
// Returns EMPTY_LAYOUT for an empty slice and DUPLICATE_ACTUATOR when two
// records share an ID. The input slice is copied; callers keep ownership.
func NewLayout(actuators []Actuator) (*Layout, error) {
	if len(actuators) == 0 {
		return nil, NewEmptyLayoutError()
	}

	byID := make(map[int]Actuator, len(actuators))
	for _, a := range actuators {
		if _, dup := byID[a.ID]; dup {
			return nil, NewDuplicateActuatorError(a.ID)
		}
		byID[a.ID] = a
	}

	cp := make([]Actuator, len(actuators))
	copy(cp, actuators)
	sort.Slice(cp, func(i, j int) bool { return cp[i].ID < cp[j].ID })

	return &Layout{actuators: cp, byID: byID}, nil
}

// Len returns the number of actuators.
func (l *Layout) Len() int {
	return len(l.actuators)
}

// Contains reports whether the layout has an actuator with the given ID.
func (l *Layout) Contains(id int) bool {
	_, ok := l.byID[id]
	return ok
}

// Get returns the actuator with the given ID.
func (l *Layout) Get(id int) (Actuator, bool) {
	a, ok := l.byID[id]
	return a, ok
}

// Actuators returns the actuators sorted by ID. The returned slice is a
// copy; mutating it does not affect the layout.
func (l *Layout) Actuators() []Actuator {
	cp := make([]Actuator, len(l.actuators))
	copy(cp, l.actuators)
	return cp
}

// IDs returns the actuator IDs in ascending order.
func (l *Layout) IDs() []int {
	ids := make([]int, len(l.actuators))
	for i, a := range l.actuators {
		ids[i] = a.ID
	}
	return ids
}

// ValidateEvents checks that every event targets an actuator present in the
// layout. Returns UNKNOWN_ACTUATOR for the first miss. This is the final
// gate before events are handed to playback.
func (l *Layout) ValidateEvents(events []ActuatorEvent) error {
	for _, e := range events {
		if !l.Contains(e.ActuatorID) {
			return NewUnknownActuatorError(e.ActuatorID)
		}
	}
	return nil
}

package haptic

import (
	"fmt"
	"sort"
)

// Validate checks the event's standalone invariants. Layout membership is
// checked separately by Layout.ValidateEvents.
func (e ActuatorEvent) Validate() error {
	if e.StartMs < 0 {
		return NewInvalidParamsError("start_ms", fmt.Sprintf("must be >= 0, got %d", e.StartMs))
	}
	if e.DurationMs <= 0 {
		return NewInvalidParamsError("duration_ms", fmt.Sprintf("must be > 0, got %d", e.DurationMs))
	}
	if e.Intensity < 0 || e.Intensity > 1 {
		return NewInvalidParamsError("intensity", fmt.Sprintf("must be in [0,1], got %g", e.Intensity))
	}
	if e.FrequencyCode < 0 || e.FrequencyCode > MaxFrequencyCode {
		return NewInvalidParamsError("frequency_code", fmt.Sprintf("must be in [0,%d], got %d", MaxFrequencyCode, e.FrequencyCode))
	}
	return nil
}

// Validate checks the clip's standalone invariants.
func (c Clip) Validate() error {
	if c.StartMs < 0 {
		return &ConfigError{
			Code:    ErrCodeInvalidClip,
			Message: fmt.Sprintf("clip on actuator %d starts at %dms, must be >= 0", c.ActuatorID, c.StartMs),
		}
	}
	if c.StopMs <= c.StartMs {
		return &ConfigError{
			Code: ErrCodeInvalidClip,
			Message: fmt.Sprintf("clip on actuator %d has stop %dms <= start %dms",
				c.ActuatorID, c.StopMs, c.StartMs),
		}
	}
	return nil
}

// Validate checks the global parameters.
func (p GlobalParams) Validate() error {
	if p.Intensity < 0 || p.Intensity > 1 {
		return NewInvalidParamsError("intensity", fmt.Sprintf("must be in [0,1], got %g", p.Intensity))
	}
	if p.FrequencyCode < 0 || p.FrequencyCode > MaxFrequencyCode {
		return NewInvalidParamsError("frequency_code", fmt.Sprintf("must be in [0,%d], got %d", MaxFrequencyCode, p.FrequencyCode))
	}
	return nil
}

// SortEvents orders events for stream emission: by start time, ties broken
// by actuator ID ascending. The sort is stable so events that compare equal
// keep their compilation order.
func SortEvents(events []ActuatorEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].StartMs != events[j].StartMs {
			return events[i].StartMs < events[j].StartMs
		}
		return events[i].ActuatorID < events[j].ActuatorID
	})
}

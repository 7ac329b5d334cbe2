// Package schedule merges timeline clips into a single conflict-free
// command stream. Clips are partitioned per actuator, overlaps are resolved
// with a last-write-wins policy and every resolution is reported back to
// the caller, and the merged result is globally ordered for stream
// emission.
package schedule

import (
	"fmt"
	"sort"

	"github.com/hapticlab/tacton/internal/haptic"
)

// Conflict records one overlap resolution. The earlier-starting clip was
// truncated (or dropped entirely) so the later-starting clip could play
// unclipped over the contested interval.
type Conflict struct {
	ActuatorID int

	// TruncatedAtMs is the new stop time of the earlier clip.
	TruncatedAtMs int64

	// OriginalStopMs is what the earlier clip's stop time was before
	// resolution.
	OriginalStopMs int64

	// Dropped is set when the earlier clip's entire span was contested
	// and it was removed from the schedule.
	Dropped bool
}

// String renders the conflict for warning logs.
func (c Conflict) String() string {
	if c.Dropped {
		return fmt.Sprintf("actuator %d: clip ending at %dms fully covered by a later-starting clip",
			c.ActuatorID, c.OriginalStopMs)
	}
	return fmt.Sprintf("actuator %d: clip truncated from %dms to %dms by a later-starting clip",
		c.ActuatorID, c.OriginalStopMs, c.TruncatedAtMs)
}

// Result is the outcome of scheduling a clip set.
type Result struct {
	// Events is the merged stream, sorted by start time with ties broken
	// by actuator ID. Events on the same actuator never overlap.
	Events []haptic.ActuatorEvent

	// Conflicts lists every overlap that was resolved. Conflicts are
	// warnings, not errors: the schedule is still valid.
	Conflicts []Conflict
}

// Schedule compiles clips into a globally ordered event stream.
//
// Overlap policy (last-write-wins by start order): within one actuator,
// clips are sorted by start time; when two clips overlap, the later-starting
// clip keeps the contested interval and the earlier clip is truncated to end
// at the later clip's start. A clip whose entire span is contested is
// dropped. Two clips starting at the same instant resolve in favor of the
// one appearing later in the input, matching the editor's stacking order.
//
// Actuators are scheduled independently; the only cross-actuator
// relationship is the shared absolute clock.
//
// Scheduling is idempotent: a non-overlapping clip set schedules to the
// same stream no matter how many times it is compiled.
func Schedule(clips []haptic.Clip, params haptic.GlobalParams) (Result, error) {
	if err := params.Validate(); err != nil {
		return Result{}, err
	}
	for _, c := range clips {
		if err := c.Validate(); err != nil {
			return Result{}, err
		}
	}

	perActuator := make(map[int][]haptic.Clip)
	ids := make([]int, 0, 8)
	for _, c := range clips {
		if _, seen := perActuator[c.ActuatorID]; !seen {
			ids = append(ids, c.ActuatorID)
		}
		perActuator[c.ActuatorID] = append(perActuator[c.ActuatorID], c)
	}
	sort.Ints(ids)

	var res Result
	for _, id := range ids {
		events, conflicts := mergeActuator(perActuator[id], params)
		res.Events = append(res.Events, events...)
		res.Conflicts = append(res.Conflicts, conflicts...)
	}

	haptic.SortEvents(res.Events)
	return res, nil
}

// mergeActuator resolves overlaps within a single actuator's clips.
func mergeActuator(clips []haptic.Clip, params haptic.GlobalParams) ([]haptic.ActuatorEvent, []Conflict) {
	// Stable sort keeps input order for equal starts, so the later input
	// clip ends up after (and therefore wins over) the earlier one.
	sorted := make([]haptic.Clip, len(clips))
	copy(sorted, clips)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].StartMs < sorted[j].StartMs })

	var (
		events    []haptic.ActuatorEvent
		conflicts []Conflict
	)

	for i, c := range sorted {
		stop := c.StopMs
		// The nearest later-starting clip bounds this one. Later clips in
		// sorted order start at or after this one's start.
		if i+1 < len(sorted) && sorted[i+1].StartMs < stop {
			next := sorted[i+1].StartMs
			conflicts = append(conflicts, Conflict{
				ActuatorID:     c.ActuatorID,
				TruncatedAtMs:  next,
				OriginalStopMs: stop,
				Dropped:        next <= c.StartMs,
			})
			stop = next
		}

		if stop <= c.StartMs {
			// Entire span contested: dropped, already reported above.
			continue
		}

		events = append(events, haptic.ActuatorEvent{
			StartMs:       c.StartMs,
			DurationMs:    stop - c.StartMs,
			ActuatorID:    c.ActuatorID,
			Intensity:     params.Intensity,
			FrequencyCode: params.FrequencyCode,
			Waveform:      c.Waveform,
		})
	}

	return events, conflicts
}

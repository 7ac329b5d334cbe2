// Package stroke converts freehand drawn trajectories into burst event
// sequences. A trajectory arrives as timestamped canvas points sampled at
// whatever rate the drawing surface produced; resampling thins it to points
// spaced at least a configured interval apart, bounded by a maximum phantom
// budget, and renders each surviving point through the phantom resolver.
package stroke

import (
	"fmt"

	"github.com/hapticlab/tacton/internal/haptic"
	"github.com/hapticlab/tacton/internal/phantom"
)

// Params configures a resampling pass.
type Params struct {
	// MaxPhantoms bounds the total number of emitted events. When the
	// budget is reached the walk stops (truncation, not skipping) and the
	// result reports it.
	MaxPhantoms int

	// SamplingIntervalMs is the minimum time between consecutive emitted
	// resample points. Must be in (0, haptic.MaxStepDurationMs]: it is a
	// lower bound on inter-burst spacing, so values above the ceiling
	// would force every burst pair apart by more than perception of
	// continuous motion allows.
	SamplingIntervalMs int64

	// StepDurationMs is the burst duration per emitted point. Must be in
	// (0, haptic.MaxStepDurationMs]; larger values break the perception
	// of continuous motion and are rejected, not clamped.
	StepDurationMs int64

	// Intensity is the base intensity; triple assignments scale it per
	// actuator by the assignment weight.
	Intensity float64

	// FrequencyCode is the device frequency code stamped on every event.
	FrequencyCode int

	// Mode selects phantom-triple or physical nearest-1 rendering.
	Mode phantom.Mode

	// Waveform is an optional reference attached to emitted events.
	Waveform haptic.WaveformRef
}

// Validate rejects out-of-range parameters before any work happens.
func (p Params) Validate() error {
	if p.MaxPhantoms <= 0 {
		return haptic.NewInvalidParamsError("max_phantoms", fmt.Sprintf("must be > 0, got %d", p.MaxPhantoms))
	}
	if p.SamplingIntervalMs <= 0 {
		return haptic.NewInvalidParamsError("sampling_interval_ms", fmt.Sprintf("must be > 0, got %d", p.SamplingIntervalMs))
	}
	if p.SamplingIntervalMs > haptic.MaxStepDurationMs {
		return haptic.NewInvalidParamsError("sampling_interval_ms",
			fmt.Sprintf("spacing floor %dms exceeds ceiling of %dms", p.SamplingIntervalMs, haptic.MaxStepDurationMs))
	}
	if p.StepDurationMs <= 0 {
		return haptic.NewInvalidParamsError("step_duration_ms", fmt.Sprintf("must be > 0, got %d", p.StepDurationMs))
	}
	if p.StepDurationMs > haptic.MaxStepDurationMs {
		return haptic.NewStepDurationError(p.StepDurationMs)
	}
	if p.Intensity < 0 || p.Intensity > 1 {
		return haptic.NewInvalidParamsError("intensity", fmt.Sprintf("must be in [0,1], got %g", p.Intensity))
	}
	if p.FrequencyCode < 0 || p.FrequencyCode > haptic.MaxFrequencyCode {
		return haptic.NewInvalidParamsError("frequency_code", fmt.Sprintf("must be in [0,%d], got %d", haptic.MaxFrequencyCode, p.FrequencyCode))
	}
	return nil
}

// Result is the outcome of one resampling pass.
type Result struct {
	// Events is the compiled burst sequence, ordered by start time.
	Events []haptic.ActuatorEvent

	// Rendered is the number of resample points that survived thinning
	// (reported to the author as the "Rendered" count).
	Rendered int

	// Truncated is set when the walk stopped early because emitting the
	// next point would have exceeded MaxPhantoms.
	Truncated bool

	// Degraded is set when any point fell back from phantom-triple to
	// nearest-1 rendering.
	Degraded bool
}

// Resample walks the trajectory in time order and emits a burst for each
// point at least SamplingIntervalMs after the previously emitted one. Event
// start times are relative to the trajectory's first timestamp, so a stroke
// drawn late in a session still compiles to a stream starting at zero.
//
// A triple assignment yields up to three concurrent events (same start,
// same duration, intensity scaled by weight, zero-weight legs elided); a
// single assignment yields exactly one.
func Resample(traj []haptic.TrajectoryPoint, layout *haptic.Layout, params Params) (Result, error) {
	if err := params.Validate(); err != nil {
		return Result{}, err
	}
	if layout == nil || layout.Len() == 0 {
		return Result{}, haptic.NewEmptyLayoutError()
	}
	if len(traj) == 0 {
		return Result{}, nil
	}

	origin := traj[0].TimestampMs
	prev := traj[0].TimestampMs
	var res Result

	// lastEmitted is the timestamp of the previously emitted point;
	// negative means nothing emitted yet so the first point always fires.
	lastEmitted := int64(-1)

	for _, pt := range traj {
		if pt.TimestampMs < prev {
			return Result{}, haptic.NewInvalidParamsError("trajectory",
				fmt.Sprintf("timestamps must be non-decreasing, %d after %d", pt.TimestampMs, prev))
		}
		prev = pt.TimestampMs

		if lastEmitted >= 0 && pt.TimestampMs-lastEmitted < params.SamplingIntervalMs {
			continue
		}

		assign, err := phantom.Resolve(haptic.Point{X: pt.X, Y: pt.Y}, layout, params.Mode)
		if err != nil {
			return Result{}, err
		}
		if assign.Degraded {
			res.Degraded = true
		}

		events := eventsFor(assign, pt.TimestampMs-origin, params)
		if len(res.Events)+len(events) > params.MaxPhantoms {
			res.Truncated = true
			break
		}

		res.Events = append(res.Events, events...)
		res.Rendered++
		lastEmitted = pt.TimestampMs
	}

	haptic.SortEvents(res.Events)
	return res, nil
}

// eventsFor converts one phantom assignment into burst events at the given
// stream offset.
func eventsFor(assign haptic.PhantomAssignment, startMs int64, params Params) []haptic.ActuatorEvent {
	if assign.IsSingle {
		return []haptic.ActuatorEvent{{
			StartMs:       startMs,
			DurationMs:    params.StepDurationMs,
			ActuatorID:    assign.Single,
			Intensity:     params.Intensity,
			FrequencyCode: params.FrequencyCode,
			Waveform:      params.Waveform,
		}}
	}

	events := make([]haptic.ActuatorEvent, 0, len(assign.Triple))
	for _, w := range assign.Triple {
		if w.Weight == 0 {
			continue
		}
		events = append(events, haptic.ActuatorEvent{
			StartMs:       startMs,
			DurationMs:    params.StepDurationMs,
			ActuatorID:    w.ActuatorID,
			Intensity:     params.Intensity * w.Weight,
			FrequencyCode: params.FrequencyCode,
			Waveform:      params.Waveform,
		})
	}
	return events
}

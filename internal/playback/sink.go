package playback

import "github.com/hapticlab/tacton/internal/haptic"

// ConnState describes a sink's transport connection.
type ConnState int

const (
	// Connected means the transport is up and accepting commands.
	Connected ConnState = iota + 1

	// Disconnected means the transport was closed or lost.
	Disconnected

	// ConnError means the transport hit an unrecoverable error.
	ConnError
)

// String returns a log-friendly state name.
func (s ConnState) String() string {
	switch s {
	case Connected:
		return "connected"
	case Disconnected:
		return "disconnected"
	case ConnError:
		return "error"
	default:
		return "unknown"
	}
}

// Sink is the capability interface playback schedules against. The timing
// loop is written once against this interface; preview and device output
// are just two implementations.
//
// Dispatch errors are terminal for the session: the engine transitions to
// Faulted and makes a best-effort ReleaseAll call. ReleaseAll must be safe
// to call at any time, including repeatedly, so that no actuator is left
// running after a stop or fault.
type Sink interface {
	Dispatch(ev haptic.ActuatorEvent) error
	ReleaseAll() error
}

// maxDuty is the device's top duty-cycle step. Intensities quantize onto
// 0..maxDuty.
const maxDuty = 15

// DutyFromIntensity quantizes a unit intensity onto the device's duty
// range. Any intensity above zero floors at duty 1 so faint phantom legs
// are not rounded into silence.
func DutyFromIntensity(intensity float64) int {
	if intensity <= 0 {
		return 0
	}
	duty := int(intensity*maxDuty + 0.5)
	if duty < 1 {
		duty = 1
	}
	if duty > maxDuty {
		duty = maxDuty
	}
	return duty
}

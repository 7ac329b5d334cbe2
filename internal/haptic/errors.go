package haptic

import (
	"errors"
	"fmt"
)

// ConfigError reports invalid compile-time input: bad parameters, unknown
// actuator IDs, empty layouts, malformed pattern definitions. Config errors
// are surfaced before compilation hands off to playback.
type ConfigError struct {
	// Code identifies the error category.
	Code ConfigErrorCode

	// Message is a human-readable description.
	Message string

	// Details carries additional context (offending IDs, limits, values).
	Details map[string]string
}

// ConfigErrorCode categorizes configuration errors.
type ConfigErrorCode string

const (
	// ErrCodeEmptyLayout indicates a layout with zero actuators.
	ErrCodeEmptyLayout ConfigErrorCode = "EMPTY_LAYOUT"

	// ErrCodeDuplicateActuator indicates two layout records share an ID.
	ErrCodeDuplicateActuator ConfigErrorCode = "DUPLICATE_ACTUATOR"

	// ErrCodeUnknownActuator indicates an event or template references an
	// actuator the current layout does not have.
	ErrCodeUnknownActuator ConfigErrorCode = "UNKNOWN_ACTUATOR"

	// ErrCodeStepDurationTooLong indicates a stroke step duration above
	// the motion-continuity ceiling (MaxStepDurationMs).
	ErrCodeStepDurationTooLong ConfigErrorCode = "STEP_DURATION_TOO_LONG"

	// ErrCodeInvalidParams indicates out-of-range compile parameters.
	ErrCodeInvalidParams ConfigErrorCode = "INVALID_PARAMS"

	// ErrCodeInvalidClip indicates a clip with a non-positive time span.
	ErrCodeInvalidClip ConfigErrorCode = "INVALID_CLIP"

	// ErrCodeBadPatternDef indicates a pattern definition file that failed
	// schema validation.
	ErrCodeBadPatternDef ConfigErrorCode = "BAD_PATTERN_DEF"
)

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// ConfigCode extracts the code from a wrapped ConfigError, or "" if err is
// not one.
func ConfigCode(err error) ConfigErrorCode {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// NewEmptyLayoutError creates a ConfigError for an empty layout.
func NewEmptyLayoutError() *ConfigError {
	return &ConfigError{
		Code:    ErrCodeEmptyLayout,
		Message: "layout has no actuators",
	}
}

// NewDuplicateActuatorError creates a ConfigError for a duplicated layout ID.
func NewDuplicateActuatorError(id int) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeDuplicateActuator,
		Message: fmt.Sprintf("actuator id %d appears more than once in layout", id),
		Details: map[string]string{"actuator_id": fmt.Sprintf("%d", id)},
	}
}

// NewUnknownActuatorError creates a ConfigError for an ID missing from the
// current layout.
func NewUnknownActuatorError(id int) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeUnknownActuator,
		Message: fmt.Sprintf("actuator id %d not present in layout", id),
		Details: map[string]string{"actuator_id": fmt.Sprintf("%d", id)},
	}
}

// NewStepDurationError creates a ConfigError for a step duration above the
// perceptual ceiling.
func NewStepDurationError(gotMs int64) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeStepDurationTooLong,
		Message: fmt.Sprintf("step duration %dms exceeds ceiling of %dms", gotMs, MaxStepDurationMs),
		Details: map[string]string{
			"step_duration_ms": fmt.Sprintf("%d", gotMs),
			"max_ms":           fmt.Sprintf("%d", MaxStepDurationMs),
		},
	}
}

// NewInvalidParamsError creates a ConfigError for an out-of-range parameter.
func NewInvalidParamsError(field, reason string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidParams,
		Message: fmt.Sprintf("%s: %s", field, reason),
		Details: map[string]string{"field": field},
	}
}

// NewBadPatternDefError creates a ConfigError for a malformed pattern
// definition document.
func NewBadPatternDefError(reason string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeBadPatternDef,
		Message: reason,
	}
}

// ErrSessionBusy is returned by Play when a session is already active on
// the engine. The existing session is unaffected; callers must stop it (or
// wait for completion) before starting another.
var ErrSessionBusy = errors.New("playback session already active")

// SinkFault reports a sink failure during playback: device disconnect,
// command timeout, or a rejected command. A fault transitions the session
// to Faulted (terminal) and triggers a best-effort release of all
// actuators; the engine itself stays usable and the next Play starts fresh.
type SinkFault struct {
	// Op is the sink operation that failed ("dispatch", "release_all").
	Op string

	// ActuatorID is the targeted actuator for dispatch faults, -1 otherwise.
	ActuatorID int

	// Err is the underlying transport error.
	Err error
}

// Error implements the error interface.
func (f *SinkFault) Error() string {
	if f.ActuatorID >= 0 {
		return fmt.Sprintf("sink fault during %s (actuator %d): %v", f.Op, f.ActuatorID, f.Err)
	}
	return fmt.Sprintf("sink fault during %s: %v", f.Op, f.Err)
}

// Unwrap returns the underlying transport error.
func (f *SinkFault) Unwrap() error {
	return f.Err
}

// IsSinkFault reports whether err is (or wraps) a SinkFault.
func IsSinkFault(err error) bool {
	var sf *SinkFault
	return errors.As(err, &sf)
}

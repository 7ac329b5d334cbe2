package haptic

// MaxStepDurationMs is the hard ceiling on a single burst's duration when
// rendering continuous motion. Above roughly 69 ms of stimulus-onset
// asynchrony, consecutive bursts stop reading as one moving sensation and
// fall apart into discrete taps, so configurations beyond the ceiling are
// rejected at validation time rather than clamped silently at playback.
const MaxStepDurationMs = 69

// MaxFrequencyCode is the highest device vibration frequency code.
// The wire protocol encodes frequency as a 3-bit code (0..7).
const MaxFrequencyCode = 7

// Point is a position on the authoring canvas, in the same coordinate
// space as actuator positions.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Actuator is one physical vibration motor in a layout.
type Actuator struct {
	// ID is the device bus address, unique within a layout.
	ID int `json:"id" yaml:"id"`

	// Position is the motor's fixed location on the wearable.
	Position Point `json:"position" yaml:"position"`

	// ChainGroup identifies the daisy-chain the motor is wired into.
	// Purely informational for compilation; the device sink addresses
	// motors by ID alone.
	ChainGroup string `json:"chain_group" yaml:"chain_group"`
}

// TrajectoryPoint is one timestamped sample of a freehand stroke.
// Sequences are ordered with monotonically non-decreasing timestamps.
type TrajectoryPoint struct {
	TimestampMs int64   `json:"t_ms" yaml:"t_ms"`
	X           float64 `json:"x" yaml:"x"`
	Y           float64 `json:"y" yaml:"y"`
}

// WaveformRef names a waveform definition. References are opaque to the
// pipeline; the waveform source resolves them to sampled signals.
type WaveformRef string

// WeightedActuator is one leg of a phantom triple.
type WeightedActuator struct {
	ActuatorID int     `json:"actuator_id"`
	Weight     float64 `json:"weight"`
}

// PhantomAssignment is the result of resolving one canvas point onto the
// physical layout: either a weighted triple of real actuators that together
// render a virtual sensation at the point, or a single nearest actuator.
//
// For a triple, weights are non-negative and sum to 1.0. Degraded is set
// when a phantom triple was requested but the layout could not support one
// (fewer than three actuators), so the resolver fell back to nearest-1.
type PhantomAssignment struct {
	Triple   []WeightedActuator `json:"triple,omitempty"`
	Single   int                `json:"single,omitempty"`
	IsSingle bool               `json:"is_single"`
	Degraded bool               `json:"degraded,omitempty"`
}

// ActuatorEvent is the canonical compiled unit: one timed burst on one
// actuator. It is the sole artifact playback consumes and is agnostic to
// whether it came from a stroke, a timeline, or a pre-made template.
//
// Invariants (checked by Validate): DurationMs > 0, StartMs >= 0,
// Intensity in [0,1], FrequencyCode in [0,MaxFrequencyCode]. After
// scheduling, events for the same actuator never overlap in time.
type ActuatorEvent struct {
	StartMs       int64       `json:"start_ms"`
	DurationMs    int64       `json:"duration_ms"`
	ActuatorID    int         `json:"actuator_id"`
	Intensity     float64     `json:"intensity"`
	FrequencyCode int         `json:"frequency_code"`
	Waveform      WaveformRef `json:"waveform,omitempty"`
}

// EndMs returns the event's exclusive end time.
func (e ActuatorEvent) EndMs() int64 {
	return e.StartMs + e.DurationMs
}

// Clip is an authoring-time timeline record: one waveform held on one
// actuator over [StartMs, StopMs). The timeline editor owns and mutates
// clips; the scheduler only reads them.
type Clip struct {
	ActuatorID int         `json:"actuator_id" yaml:"actuator_id"`
	Waveform   WaveformRef `json:"waveform" yaml:"waveform"`
	StartMs    int64       `json:"start_ms" yaml:"start_ms"`
	StopMs     int64       `json:"stop_ms" yaml:"stop_ms"`
}

// GlobalParams are the authoring session's shared intensity and frequency
// settings. They are passed explicitly into compile calls; nothing in the
// pipeline reads them from ambient state.
type GlobalParams struct {
	// Intensity is the base perceived intensity in [0,1]. Phantom
	// rendering scales it per actuator by the assignment weight.
	Intensity float64 `json:"intensity" yaml:"intensity"`

	// FrequencyCode selects the device vibration frequency (0..7).
	FrequencyCode int `json:"frequency_code" yaml:"frequency_code"`
}

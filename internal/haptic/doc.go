// Package haptic defines the canonical data model shared by every stage of
// the pattern pipeline: actuator layouts, authoring-time inputs (trajectories
// and clips), phantom assignments, and the compiled ActuatorEvent stream that
// playback consumes.
//
// The package is deliberately free of behavior beyond validation: compilation
// lives in the stroke/schedule/compile packages, execution in playback. Types
// here are the contract between those stages, so changes must keep old
// producers and consumers in agreement.
package haptic

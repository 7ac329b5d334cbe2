// Package playback executes compiled actuator event streams in real time.
//
// An Engine runs at most one Session at a time against a Sink. The session
// owns the timeline on a single goroutine; pause, resume and stop are
// control messages into that loop. PreviewSink records events for on-screen
// rendering, SerialSink drives the physical actuator controller.
package playback

package playback

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hapticlab/tacton/internal/haptic"
)

// fakePort is an in-memory devicePort that acks every frame.
type fakePort struct {
	mu       sync.Mutex
	written  [][]byte
	acks     []byte
	writeErr error
	closed   bool
}

func newFakePort() *fakePort {
	return &fakePort{}
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	p.written = append(p.written, append([]byte(nil), b...))
	p.acks = append(p.acks, ackByte)
	return len(b), nil
}

func (p *fakePort) Read(b []byte) (int, error) {
	for {
		p.mu.Lock()
		if len(p.acks) > 0 {
			b[0] = p.acks[0]
			p.acks = p.acks[1:]
			p.mu.Unlock()
			return 1, nil
		}
		p.mu.Unlock()
		time.Sleep(time.Millisecond)
	}
}

func (p *fakePort) ResetInputBuffer() error { return nil }

func (p *fakePort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *fakePort) frames() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]byte, len(p.written))
	copy(out, p.written)
	return out
}

func TestBuildFrame_Checksum(t *testing.T) {
	frame := buildFrame(3, 12, 5, 1)

	require.Len(t, frame, 6)
	assert.Equal(t, byte(frameMarker), frame[0])
	assert.Equal(t, []byte{3, 12, 5, 1}, frame[1:5])
	assert.Equal(t, byte(3^12^5^1), frame[5])
}

func TestSerialSink_Dispatch_WritesDriveFrame(t *testing.T) {
	port := newFakePort()
	sink := newSerialSink(port, []int{0, 1, 2})

	err := sink.Dispatch(haptic.ActuatorEvent{
		ActuatorID:    2,
		DurationMs:    60,
		Intensity:     1.0,
		FrequencyCode: 6,
	})
	require.NoError(t, err)

	frames := port.frames()
	require.Len(t, frames, 1)
	assert.Equal(t, buildFrame(2, 15, 6, 1), frames[0])
}

func TestSerialSink_ReleaseAll_StopsEveryActuator(t *testing.T) {
	port := newFakePort()
	sink := newSerialSink(port, []int{0, 1, 2})

	require.NoError(t, sink.ReleaseAll())

	frames := port.frames()
	require.Len(t, frames, 3)
	for i, frame := range frames {
		assert.Equal(t, buildFrame(i, 0, 0, 0), frame)
	}
}

func TestSerialSink_Dispatch_WriteErrorIsSinkFault(t *testing.T) {
	port := newFakePort()
	port.writeErr = errors.New("cable yanked")

	var states []ConnState
	sink := newSerialSink(port, []int{0}, WithStateCallback(func(s ConnState) {
		states = append(states, s)
	}))

	err := sink.Dispatch(haptic.ActuatorEvent{ActuatorID: 0, DurationMs: 40, Intensity: 0.5, FrequencyCode: 2})
	require.Error(t, err)

	var fault *haptic.SinkFault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, "dispatch", fault.Op)
	assert.Equal(t, 0, fault.ActuatorID)
	assert.Equal(t, []ConnState{Connected, ConnError}, states)
}

func TestSerialSink_AckTimeoutFaults(t *testing.T) {
	sink := newSerialSink(silentPort{}, []int{0}, WithAckTimeout(20*time.Millisecond))

	err := sink.Dispatch(haptic.ActuatorEvent{ActuatorID: 0, DurationMs: 40, Intensity: 0.5, FrequencyCode: 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAckTimeout)
}

// silentPort accepts writes and never acks.
type silentPort struct{}

func (silentPort) Write(b []byte) (int, error) { return len(b), nil }
func (silentPort) Read(b []byte) (int, error) {
	select {} // block forever; the sink's timeout abandons the read
}
func (silentPort) ResetInputBuffer() error { return nil }
func (silentPort) Close() error            { return nil }

func TestSerialSink_BadAckFaults(t *testing.T) {
	sink := newSerialSink(&badAckPort{}, []int{0}, WithAckTimeout(time.Second))

	err := sink.Dispatch(haptic.ActuatorEvent{ActuatorID: 0, DurationMs: 40, Intensity: 0.5, FrequencyCode: 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadAck)
}

// badAckPort answers every frame with a garbage byte.
type badAckPort struct{}

func (badAckPort) Write(b []byte) (int, error) { return len(b), nil }
func (badAckPort) Read(b []byte) (int, error)  { b[0] = 0x55; return 1, nil }
func (badAckPort) ResetInputBuffer() error     { return nil }
func (badAckPort) Close() error                { return nil }

// gatedPort releases one read result per byte queued on gate, and counts
// completed reads and input-buffer resets.
type gatedPort struct {
	gate   chan byte
	mu     sync.Mutex
	reads  int
	resets int
}

func newGatedPort() *gatedPort {
	return &gatedPort{gate: make(chan byte, 4)}
}

func (p *gatedPort) Write(b []byte) (int, error) { return len(b), nil }

func (p *gatedPort) Read(b []byte) (int, error) {
	v := <-p.gate
	p.mu.Lock()
	p.reads++
	p.mu.Unlock()
	b[0] = v
	return 1, nil
}

func (p *gatedPort) ResetInputBuffer() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resets++
	return nil
}

func (p *gatedPort) Close() error { return nil }

func (p *gatedPort) counts() (reads, resets int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reads, p.resets
}

func TestSerialSink_ReusesPendingReaderAfterTimeout(t *testing.T) {
	port := newGatedPort()
	sink := newSerialSink(port, []int{0}, WithAckTimeout(20*time.Millisecond))
	ev := haptic.ActuatorEvent{ActuatorID: 0, DurationMs: 40, Intensity: 0.5, FrequencyCode: 2}

	err := sink.Dispatch(ev)
	require.ErrorIs(t, err, ErrAckTimeout)

	sink.ackWait = time.Second
	go func() {
		time.Sleep(50 * time.Millisecond)
		port.gate <- ackByte
	}()
	require.NoError(t, sink.Dispatch(ev))

	reads, resets := port.counts()
	assert.Equal(t, 1, reads, "the timed-out reader must serve the next frame")
	assert.Zero(t, resets)
}

func TestSerialSink_DrainsStaleAckBeforeNextFrame(t *testing.T) {
	port := newGatedPort()
	sink := newSerialSink(port, []int{0}, WithAckTimeout(20*time.Millisecond))
	ev := haptic.ActuatorEvent{ActuatorID: 0, DurationMs: 40, Intensity: 0.5, FrequencyCode: 2}

	err := sink.Dispatch(ev)
	require.ErrorIs(t, err, ErrAckTimeout)

	// The controller answers after the deadline; wait for the reader to
	// pick the late byte up and buffer its result.
	port.gate <- ackByte
	require.Eventually(t, func() bool {
		reads, _ := port.counts()
		return reads == 1
	}, time.Second, time.Millisecond)
	time.Sleep(10 * time.Millisecond)

	sink.ackWait = time.Second
	port.gate <- ackByte
	require.NoError(t, sink.Dispatch(ev))

	reads, resets := port.counts()
	assert.Equal(t, 2, reads)
	assert.Equal(t, 1, resets, "a consumed late ack must flush the input buffer")
}

func TestInitSerialSink_ResetFailureClosesPort(t *testing.T) {
	port := &failingResetPort{resetErr: errors.New("device detached")}

	_, err := initSerialSink(port, "COM7", []int{0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COM7")
	assert.True(t, port.closed)
}

// failingResetPort rejects the initial input-buffer flush.
type failingResetPort struct {
	resetErr error
	closed   bool
}

func (p *failingResetPort) Write(b []byte) (int, error) { return len(b), nil }
func (p *failingResetPort) Read(b []byte) (int, error)  { return 0, errors.New("not connected") }
func (p *failingResetPort) ResetInputBuffer() error     { return p.resetErr }
func (p *failingResetPort) Close() error                { p.closed = true; return nil }

func TestSerialSink_CloseIsIdempotent(t *testing.T) {
	port := newFakePort()

	var states []ConnState
	sink := newSerialSink(port, []int{0}, WithStateCallback(func(s ConnState) {
		states = append(states, s)
	}))

	require.NoError(t, sink.Close())
	require.NoError(t, sink.Close())
	assert.True(t, port.closed)
	assert.Equal(t, []ConnState{Connected, Disconnected}, states)

	err := sink.Dispatch(haptic.ActuatorEvent{ActuatorID: 0, DurationMs: 40, Intensity: 0.5, FrequencyCode: 2})
	assert.Error(t, err)
}

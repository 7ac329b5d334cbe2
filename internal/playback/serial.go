package playback

import (
	"errors"
	"fmt"
	"sync"
	"time"

	serial "go.bug.st/serial.v1"

	"github.com/hapticlab/tacton/internal/haptic"
)

// Wire protocol: six-byte frames, one command per frame.
//
//	[0] 0x7E          frame marker
//	[1] actuator addr
//	[2] duty 0..15
//	[3] frequency code 0..7
//	[4] start flag    1 = drive, 0 = stop
//	[5] checksum      XOR of bytes 1..4
//
// The controller answers each frame with a single ack byte (0xAA). A
// missing or wrong ack within the timeout is a fault.
const (
	frameMarker = 0x7E
	ackByte     = 0xAA
)

// DefaultBaudRate matches the actuator controller's fixed rate.
const DefaultBaudRate = 115200

// DefaultAckTimeout bounds how long a dispatch waits for the controller's
// ack before declaring a fault.
const DefaultAckTimeout = 250 * time.Millisecond

// ErrAckTimeout is the underlying error of a SinkFault caused by the
// controller not acknowledging a command in time.
var ErrAckTimeout = errors.New("device did not acknowledge command in time")

// ErrBadAck is the underlying error of a SinkFault caused by an unexpected
// ack byte (desynced or rejecting controller).
var ErrBadAck = errors.New("device rejected command")

// devicePort is the slice of the serial port surface the sink needs.
// serial.Port satisfies it; tests substitute an in-memory fake.
type devicePort interface {
	Write(p []byte) (n int, err error)
	Read(p []byte) (n int, err error)
	ResetInputBuffer() error
	Close() error
}

// SerialSink drives physical actuators over a serial link. It exclusively
// owns the port: one sink per connection, one active session per sink.
type SerialSink struct {
	mu      sync.Mutex
	port    devicePort
	ids     []int
	ackWait time.Duration
	onState func(ConnState)
	closed  bool

	// pending is the result channel of an ack read that outlived its
	// deadline. At most one reader goroutine exists per sink; its late
	// result is either reused or drained before the next frame.
	pending chan ackResult
}

// ackResult carries one blocking read's outcome off the reader goroutine.
type ackResult struct {
	b   byte
	err error
}

// SerialOption configures a SerialSink.
type SerialOption func(*SerialSink)

// WithAckTimeout overrides the ack deadline. Zero disables ack reads
// entirely (fire-and-forget, for controllers with older firmware).
func WithAckTimeout(d time.Duration) SerialOption {
	return func(s *SerialSink) { s.ackWait = d }
}

// WithStateCallback registers a connection-state observer. The callback
// runs on whatever goroutine detected the change.
func WithStateCallback(fn func(ConnState)) SerialOption {
	return func(s *SerialSink) { s.onState = fn }
}

// OpenSerial connects to the actuator controller on the named port. The
// releasable IDs come from the session's layout: ReleaseAll sends a stop
// frame to each of them.
func OpenSerial(portName string, actuatorIDs []int, opts ...SerialOption) (*SerialSink, error) {
	mode := &serial.Mode{BaudRate: DefaultBaudRate}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portName, err)
	}
	return initSerialSink(port, portName, actuatorIDs, opts...)
}

// initSerialSink flushes whatever the controller buffered before we
// attached, then hands the port to a sink. A failed flush closes the
// port and fails the open.
func initSerialSink(port devicePort, portName string, actuatorIDs []int, opts ...SerialOption) (*SerialSink, error) {
	if err := port.ResetInputBuffer(); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("reset input buffer on %s: %w", portName, err)
	}
	return newSerialSink(port, actuatorIDs, opts...), nil
}

func newSerialSink(port devicePort, actuatorIDs []int, opts ...SerialOption) *SerialSink {
	s := &SerialSink{
		port:    port,
		ids:     append([]int(nil), actuatorIDs...),
		ackWait: DefaultAckTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.notify(Connected)
	return s
}

func (s *SerialSink) notify(state ConnState) {
	if s.onState != nil {
		s.onState(state)
	}
}

// Dispatch implements Sink: one drive frame per event.
func (s *SerialSink) Dispatch(ev haptic.ActuatorEvent) error {
	err := s.send(ev.ActuatorID, DutyFromIntensity(ev.Intensity), ev.FrequencyCode, 1)
	if err != nil {
		s.notify(ConnError)
		return &haptic.SinkFault{Op: "dispatch", ActuatorID: ev.ActuatorID, Err: err}
	}
	return nil
}

// ReleaseAll implements Sink: stop frames for every known actuator. All
// actuators are attempted even if some sends fail; the first error is
// returned.
func (s *SerialSink) ReleaseAll() error {
	var firstErr error
	for _, id := range s.ids {
		if err := s.send(id, 0, 0, 0); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		s.notify(ConnError)
		return &haptic.SinkFault{Op: "release_all", ActuatorID: -1, Err: firstErr}
	}
	return nil
}

// buildFrame assembles one command frame. The checksum is the XOR of the
// four payload bytes.
func buildFrame(addr, duty, freqCode, startFlag int) []byte {
	return []byte{
		frameMarker,
		byte(addr),
		byte(duty),
		byte(freqCode),
		byte(startFlag),
		byte(addr) ^ byte(duty) ^ byte(freqCode) ^ byte(startFlag),
	}
}

// send writes one frame and, when ack reads are enabled, waits for the
// controller's acknowledgment.
func (s *SerialSink) send(addr, duty, freqCode, startFlag int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.New("serial sink closed")
	}

	s.drainStaleAck()

	if _, err := s.port.Write(buildFrame(addr, duty, freqCode, startFlag)); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}

	if s.ackWait <= 0 {
		return nil
	}
	return s.readAck()
}

// drainStaleAck clears the result of an ack read that already missed its
// deadline. A consumed stale ack means the controller answered late, so
// the input buffer is flushed to keep the next ack paired with the next
// frame. A reader still blocked in Read stays pending and its result
// serves the upcoming frame.
func (s *SerialSink) drainStaleAck() {
	if s.pending == nil {
		return
	}
	select {
	case <-s.pending:
		s.pending = nil
		_ = s.port.ResetInputBuffer()
	default:
	}
}

// readAck waits for one ack byte. The v1 serial API has no read deadline,
// so the blocking read runs on its own goroutine and the result is raced
// against the timeout. On timeout the goroutine stays pending rather than
// leaking a fresh one per frame; see drainStaleAck.
func (s *SerialSink) readAck() error {
	if s.pending == nil {
		ch := make(chan ackResult, 1)
		s.pending = ch
		go func() {
			buf := make([]byte, 1)
			for {
				n, err := s.port.Read(buf)
				if err != nil {
					ch <- ackResult{err: err}
					return
				}
				if n > 0 {
					ch <- ackResult{b: buf[0]}
					return
				}
			}
		}()
	}

	select {
	case r := <-s.pending:
		s.pending = nil
		if r.err != nil {
			return fmt.Errorf("read ack: %w", r.err)
		}
		if r.b != ackByte {
			return fmt.Errorf("%w: got 0x%02X", ErrBadAck, r.b)
		}
		return nil
	case <-time.After(s.ackWait):
		return ErrAckTimeout
	}
}

// Close releases the serial port. The sink is unusable afterwards.
func (s *SerialSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.notify(Disconnected)
	return s.port.Close()
}

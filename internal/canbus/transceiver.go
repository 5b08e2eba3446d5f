package canbus

import (
	"errors"
	"sync"
	"time"

	"github.com/brutella/can"
)

const (
	// SocketCAN extended frame flag and 29 bit identifier mask.
	frameFlagExtended = 0x80000000
	frameMaskExtended = 0x1FFFFFFF

	requestTimeout = 200 * time.Millisecond
)

var ErrTimeout = errors.New("canbus: timed out waiting for response frames")

// Bus is the subset of the CAN connection used by this package. It is
// satisfied by *can.Bus.
type Bus interface {
	Publish(frame can.Frame) error
	Subscribe(handler can.Handler)
	Unsubscribe(handler can.Handler)
}

// Transceiver sends a single request frame and collects the response frames
// published under the matching arbitration ID. Requests are serialized, one
// request owns the bus handle at a time.
type Transceiver struct {
	bus Bus

	requestMux sync.Mutex

	filterMux sync.Mutex
	filter    uint32
	frames    chan can.Frame
}

func NewTransceiver(bus Bus) *Transceiver {
	t := &Transceiver{bus: bus}
	bus.Subscribe(t)
	return t
}

// Handle runs on the bus read loop and forwards frames matching the active
// response filter.
func (t *Transceiver) Handle(frame can.Frame) {
	t.filterMux.Lock()
	frames, filter := t.frames, t.filter
	t.filterMux.Unlock()
	if frames == nil || frame.ID&frameMaskExtended != filter {
		return
	}
	select {
	case frames <- frame:
	default:
	}
}

// Request publishes the command frame and blocks until expected response
// frames arrived or the timeout elapsed. The returned payload is the
// concatenation of the response frame data, in arrival order.
func (t *Transceiver) Request(commandID, responseID uint32, expected int) ([]byte, error) {
	t.requestMux.Lock()
	defer t.requestMux.Unlock()

	frames := make(chan can.Frame, expected)
	t.setFilter(responseID, frames)
	defer t.setFilter(0, nil)

	// Command frames carry eight zeroed data bytes.
	if err := t.bus.Publish(can.Frame{ID: commandID | frameFlagExtended, Length: 8}); err != nil {
		return nil, err
	}

	payload := make([]byte, 0, expected*8)
	deadline := time.After(requestTimeout)
	for count := 0; count < expected; count++ {
		select {
		case frame := <-frames:
			length := frame.Length
			if length > 8 {
				length = 8
			}
			payload = append(payload, frame.Data[:length]...)
		case <-deadline:
			return nil, ErrTimeout
		}
	}
	return payload, nil
}

func (t *Transceiver) setFilter(responseID uint32, frames chan can.Frame) {
	t.filterMux.Lock()
	t.filter = responseID
	t.frames = frames
	t.filterMux.Unlock()
}

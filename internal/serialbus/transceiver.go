package serialbus

import (
	"errors"
	"sync"
	"time"

	"github.com/tarm/serial"

	"github.com/jgulick48/daly-can-monitor/internal/models"
)

const (
	frameLength = 13
	startByte   = 0xA5
	// Address of the host on the UART link. The BMS answers with 0x01.
	hostAddress    = 0x40
	replyAddress   = 0x01
	requestTimeout = 200 * time.Millisecond
)

var (
	ErrTimeout     = errors.New("serialbus: timed out waiting for response frames")
	ErrBadFrame    = errors.New("serialbus: malformed response frame")
	ErrBadChecksum = errors.New("serialbus: response checksum mismatch")
)

// Transceiver speaks the Daly UART framing over a serial port. It satisfies
// the same request contract as the CAN transceiver: the command byte is
// carried in bits 16-23 of the arbitration ID, so the same registry drives
// both transports.
type Transceiver struct {
	port *serial.Port
	mux  sync.Mutex
}

func NewTransceiver(config models.SerialConfig) (*Transceiver, error) {
	baud := config.Baud
	if baud == 0 {
		baud = 9600
	}
	port, err := serial.OpenPort(&serial.Config{
		Name:        config.Device,
		Baud:        baud,
		ReadTimeout: requestTimeout,
	})
	if err != nil {
		return nil, err
	}
	return &Transceiver{port: port}, nil
}

func (t *Transceiver) Close() error {
	return t.port.Close()
}

func (t *Transceiver) Request(commandID, responseID uint32, expected int) ([]byte, error) {
	t.mux.Lock()
	defer t.mux.Unlock()

	command := byte(commandID >> 16)
	if _, err := t.port.Write(encodeRequest(command)); err != nil {
		return nil, err
	}

	raw := make([]byte, frameLength*expected)
	total := 0
	deadline := time.Now().Add(requestTimeout)
	for total < len(raw) {
		n, err := t.port.Read(raw[total:])
		if err != nil {
			return nil, err
		}
		if n == 0 || time.Now().After(deadline) {
			return nil, ErrTimeout
		}
		total += n
	}

	payload := make([]byte, 0, expected*8)
	for offset := 0; offset < len(raw); offset += frameLength {
		data, err := decodeResponse(raw[offset:offset+frameLength], command)
		if err != nil {
			return nil, err
		}
		payload = append(payload, data...)
	}
	return payload, nil
}

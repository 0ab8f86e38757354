// Package sequencer keys a station relay controller over modbus RTU:
// the receive relay is energized on AOS and released on LOS, so preamps
// and antenna switches follow the pass automatically.
package sequencer

import (
	"fmt"
	"log"
	"time"

	"github.com/goburrow/modbus"
)

// rxCoil is the receive-enable relay.
const rxCoil = 0

type Sequencer struct {
	handler   *modbus.RTUClientHandler
	client    modbus.Client
	connected bool
}

func New(port string, baud int) *Sequencer {
	handler := modbus.NewRTUClientHandler(port)
	handler.BaudRate = baud
	handler.DataBits = 8
	handler.Parity = "N"
	handler.StopBits = 1
	handler.Timeout = 1 * time.Second
	handler.SlaveId = 1
	return &Sequencer{handler: handler, client: modbus.NewClient(handler)}
}

func (s *Sequencer) connect() error {
	if s.connected {
		return nil
	}
	if err := s.handler.Connect(); err != nil {
		return fmt.Errorf("opening %q: %w", s.handler.Address, err)
	}
	log.Printf("opened %q", s.handler.Address)
	s.connected = true
	return nil
}

// SetReceiveEnabled drives the receive relay. A failed write drops the
// connection so the next event reconnects.
func (s *Sequencer) SetReceiveEnabled(on bool) error {
	if err := s.connect(); err != nil {
		return err
	}
	var v uint16
	if on {
		v = 0xFF00
	}
	if _, err := s.client.WriteSingleCoil(rxCoil, v); err != nil {
		s.handler.Close()
		s.connected = false
		return fmt.Errorf("writing coil %d: %w", rxCoil, err)
	}
	return nil
}

func (s *Sequencer) Close() error {
	if !s.connected {
		return nil
	}
	s.connected = false
	return s.handler.Close()
}

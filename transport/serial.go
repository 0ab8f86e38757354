package transport

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/tarm/serial"
)

// Serial is a direct serial line to a controller that speaks a text
// dialect natively (no rotctl in between). The port is opened lazily and
// reopened once per send after a write failure, since USB adapters drop
// and reenumerate.
type Serial struct {
	name string
	baud int
	port *serial.Port
}

func NewSerial(name string, baud int) *Serial {
	return &Serial{name: name, baud: baud}
}

func (s *Serial) open() error {
	if s.port != nil {
		return nil
	}
	c := &serial.Config{Name: s.name, Baud: s.baud}
	port, err := serial.OpenPort(c)
	if err != nil {
		return fmt.Errorf("%w: opening %q: %v", ErrUnavailable, s.name, err)
	}
	log.Printf("opened %q", s.name)
	s.port = port
	return nil
}

func (s *Serial) Send(ctx context.Context, cmd []byte) error {
	if err := s.open(); err != nil {
		return err
	}
	if _, err := s.port.Write(cmd); err == nil {
		return nil
	}
	s.drop()
	if err := s.open(); err != nil {
		return err
	}
	if _, err := s.port.Write(cmd); err != nil {
		s.drop()
		return fmt.Errorf("writing to %q: %w", s.name, err)
	}
	return nil
}

func (s *Serial) SendAndReceive(ctx context.Context, cmd []byte, replySize int) ([]byte, error) {
	return nil, errors.New("serial transport is write-only")
}

func (s *Serial) drop() {
	if s.port != nil {
		s.port.Close()
		s.port = nil
	}
}

func (s *Serial) Close() error {
	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port = nil
	return err
}

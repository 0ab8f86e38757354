// Package transport provides byte-oriented command channels to external
// rotor and radio controllers. Three variants exist: a persistent TCP
// socket, a one-shot rotctl subprocess, and a direct serial line. All
// variants own their reconnect policy; a send never blocks indefinitely.
package transport

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrUnavailable indicates the endpoint could not be reached. The
	// next send will try to connect again.
	ErrUnavailable = errors.New("endpoint unavailable")
	// ErrTimeout indicates a command did not complete in time.
	ErrTimeout = errors.New("command timed out")
)

// Transport is a duplex command channel to a controller.
type Transport interface {
	// Send writes one command.
	Send(ctx context.Context, cmd []byte) error
	// SendAndReceive writes one command and reads a reply of at most
	// replySize bytes. Only the socket variant supports replies.
	SendAndReceive(ctx context.Context, cmd []byte, replySize int) ([]byte, error)
	Close() error
}

// Options carries controller parameters needed by the process and serial
// variants.
type Options struct {
	// Model is the rotctl controller model number.
	Model int
	// Baud is the serial line rate.
	Baud int
}

// Open selects a transport variant from the port specification syntax:
// "serial:/dev/ttyUSB0" opens the device directly, "host:port" opens a
// TCP socket, and a bare device path invokes rotctl per command.
func Open(spec string, opts Options) (Transport, error) {
	switch {
	case spec == "":
		return nil, errors.New("empty port specification")
	case strings.HasPrefix(spec, "serial:"):
		device := strings.TrimPrefix(spec, "serial:")
		if device == "" {
			return nil, errors.New("serial: prefix requires a device path")
		}
		return NewSerial(device, opts.Baud), nil
	case strings.Contains(spec, ":"):
		return NewSocket(spec), nil
	default:
		return NewProcess(spec, opts.Model, opts.Baud), nil
	}
}

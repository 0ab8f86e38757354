package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"syscall"
	"time"

	"github.com/cenkalti/backoff"
)

const (
	dialTimeout    = 2 * time.Second
	writeTimeout   = 2 * time.Second
	receiveTimeout = 500 * time.Millisecond
)

// Socket is a persistent TCP connection to a controller. The connection
// is opened lazily on the first send and reopened at most once per call
// after a failure; a controller that stays down degrades every send to a
// logged ErrUnavailable instead of an abort.
type Socket struct {
	addr string
	conn net.Conn
	// loggedDown suppresses repeated connect-failure logging while the
	// endpoint stays unreachable.
	loggedDown bool
}

func NewSocket(addr string) *Socket {
	return &Socket{addr: addr}
}

func (s *Socket) connect(ctx context.Context) error {
	if s.conn != nil {
		return nil
	}
	dialer := &net.Dialer{Timeout: dialTimeout}
	dial := func() error {
		conn, err := dialer.DialContext(ctx, "tcp", s.addr)
		if err != nil {
			return err
		}
		s.conn = conn
		return nil
	}
	// Controllers that restart between ticks briefly refuse connections;
	// one short retry rides that out.
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond
	policy.MaxElapsedTime = dialTimeout
	err := backoff.Retry(dial, backoff.WithContext(backoff.WithMaxRetries(policy, 1), ctx))
	if err != nil {
		if !s.loggedDown {
			log.Printf("ERROR: unable to connect to %s: %v", s.addr, err)
			s.loggedDown = true
		}
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, s.addr, err)
	}
	log.Printf("connected to %s", s.addr)
	s.loggedDown = false
	return nil
}

// Drop invalidates the cached connection so the next send reconnects.
func (s *Socket) Drop() {
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
}

func (s *Socket) Send(ctx context.Context, cmd []byte) error {
	if err := s.connect(ctx); err != nil {
		return err
	}
	err := s.write(cmd)
	if err == nil {
		return nil
	}
	s.Drop()
	if !brokenConn(err) {
		return err
	}
	// One fresh connect and retry within this call.
	if cerr := s.connect(ctx); cerr != nil {
		return cerr
	}
	if err := s.write(cmd); err != nil {
		s.Drop()
		return err
	}
	return nil
}

func (s *Socket) SendAndReceive(ctx context.Context, cmd []byte, replySize int) ([]byte, error) {
	if err := s.connect(ctx); err != nil {
		return nil, err
	}
	reply, err := s.exchange(cmd, replySize)
	if err == nil {
		return reply, nil
	}
	if !brokenConn(err) {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return nil, fmt.Errorf("%w: no reply from %s", ErrTimeout, s.addr)
		}
		return nil, err
	}
	s.Drop()
	log.Printf("attempting to reconnect to %s...", s.addr)
	if cerr := s.connect(ctx); cerr != nil {
		return nil, cerr
	}
	reply, err = s.exchange(cmd, replySize)
	if err != nil {
		s.Drop()
		return nil, err
	}
	return reply, nil
}

func (s *Socket) exchange(cmd []byte, replySize int) ([]byte, error) {
	if err := s.write(cmd); err != nil {
		return nil, err
	}
	s.conn.SetReadDeadline(time.Now().Add(receiveTimeout))
	buf := make([]byte, replySize)
	n, err := s.conn.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("reading from %s: %w", s.addr, err)
	}
	return buf[:n], nil
}

func (s *Socket) write(cmd []byte) error {
	s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if _, err := s.conn.Write(cmd); err != nil {
		return fmt.Errorf("writing to %s: %w", s.addr, err)
	}
	return nil
}

func (s *Socket) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

// brokenConn reports whether err indicates the peer went away, which is
// worth one immediate reconnect attempt.
func brokenConn(err error) bool {
	return errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, net.ErrClosed)
}

// Package radio tunes a remotely controllable receiver to the
// Doppler-corrected frequency and forwards AOS/LOS notifications.
package radio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/w1xm/skytrack/transport"
)

// Protocol selects the receiver's remote-control dialect.
type Protocol int

const (
	// GQRX is the rigctld-style line protocol shared by GQRX and gpredict.
	GQRX Protocol = iota
	// SDRSharp is the JSON line protocol of the SDRSharp NetRemote plugin.
	SDRSharp
)

func (p Protocol) String() string {
	if p == SDRSharp {
		return "sdrsharp"
	}
	return "gqrx"
}

// Reply buffer sizes per protocol. GQRX answers with a short status line;
// NetRemote replies are full JSON documents.
func (p Protocol) replySize() int {
	if p == SDRSharp {
		return 200
	}
	return 7
}

func (p Protocol) command(freqHz int64) []byte {
	if p == SDRSharp {
		return []byte(fmt.Sprintf(`{"Command": "Set", "Method": "Frequency","Value": %d}`, freqHz))
	}
	return []byte(fmt.Sprintf("F %d\n", freqHz))
}

// ErrNotStarted maps NetRemote's "Not tunable" reply to an actionable hint.
var ErrNotStarted = errors.New("receiver not started; start SDRSharp receiving, then tuning will work")

// checkReply matches the protocol's success token inside the decoded
// reply. Anything else surfaces verbatim as a protocol error.
func (p Protocol) checkReply(reply string) error {
	switch p {
	case SDRSharp:
		if strings.Contains(reply, `{"Result":"OK"}`) {
			return nil
		}
		if strings.Contains(reply, "Not tunable") {
			return ErrNotStarted
		}
	default:
		if strings.Contains(reply, "RPRT 0") {
			return nil
		}
	}
	return fmt.Errorf("radio returned error message: %s", strings.TrimSpace(reply))
}

// SignalEvent is an AOS/LOS notification line understood by the radio.
type SignalEvent string

const (
	AOS SignalEvent = "AOS"
	LOS SignalEvent = "LOS"
)

// Link drives one receiver over a socket transport. Broken connections
// are reconnected by the transport; a persistent failure degrades to an
// error for this tick, never an abort.
type Link struct {
	t        transport.Transport
	protocol Protocol
}

func NewLink(t transport.Transport, protocol Protocol) *Link {
	return &Link{t: t, protocol: protocol}
}

// SetFrequency tunes the receiver to freqHz.
func (l *Link) SetFrequency(ctx context.Context, freqHz float64) error {
	cmd := l.protocol.command(int64(freqHz))
	reply, err := l.t.SendAndReceive(ctx, cmd, l.protocol.replySize())
	if err != nil {
		return err
	}
	if len(reply) == 0 {
		return nil
	}
	return l.protocol.checkReply(string(reply))
}

// Notify sends a bare AOS/LOS line on the same connection.
func (l *Link) Notify(ctx context.Context, event SignalEvent) error {
	_, err := l.t.SendAndReceive(ctx, []byte(string(event)+"\n"), l.protocol.replySize())
	return err
}

func (l *Link) Close() error {
	return l.t.Close()
}

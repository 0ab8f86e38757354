// Package rotor positions an antenna rotor through a transport, enforcing
// the operator's travel limits before any command goes out.
package rotor

import (
	"context"
	"errors"
	"fmt"

	"github.com/w1xm/skytrack/transport"
)

// Dialect selects the controller's command language.
type Dialect int

const (
	// Hamlib is the rotctld "P <az> <el>" protocol (gpredict-compatible).
	Hamlib Dialect = iota
	// Easycomm is the EasyComm II/III text protocol spoken natively by
	// many serial controllers.
	Easycomm
)

func ParseDialect(s string) (Dialect, error) {
	switch s {
	case "", "hamlib":
		return Hamlib, nil
	case "easycomm":
		return Easycomm, nil
	}
	return 0, fmt.Errorf("unknown rotor dialect %q", s)
}

// commands formats the positioning command(s) for one move.
func (d Dialect) commands(azDeg, elDeg float64) [][]byte {
	switch d {
	case Easycomm:
		return [][]byte{
			[]byte(fmt.Sprintf("AZ%03.1f\n", azDeg)),
			[]byte(fmt.Sprintf("EL%03.1f\n", elDeg)),
		}
	default:
		return [][]byte{
			[]byte(fmt.Sprintf("P %.2f %.2f\n", azDeg, elDeg)),
		}
	}
}

// Outcome distinguishes a sent move from one suppressed by limits. A
// suppressed move is not an error; the caller logs it and carries on.
type Outcome int

const (
	Sent Outcome = iota
	Suppressed
)

// ErrBadPosition flags positions that indicate malformed upstream data
// rather than a limit violation.
var ErrBadPosition = errors.New("rotor position out of range")

// Link drives one rotor controller.
type Link struct {
	t       transport.Transport
	limits  Limits
	dialect Dialect
}

func NewLink(t transport.Transport, limits Limits, dialect Dialect) *Link {
	return &Link{t: t, limits: limits, dialect: dialect}
}

// Move points the rotor at the given azimuth and elevation. Elevations
// below zero are clamped to the mechanical floor. No transport I/O
// happens for invalid positions or limit violations.
func (l *Link) Move(ctx context.Context, azDeg, elDeg float64) (Outcome, error) {
	if azDeg < 0 || azDeg > 360 || elDeg > 360 {
		return Sent, fmt.Errorf("%w: az=%.2f el=%.2f", ErrBadPosition, azDeg, elDeg)
	}
	if elDeg < 0 {
		elDeg = 0
	}
	if !l.limits.Permits(azDeg, elDeg) {
		return Suppressed, nil
	}
	for _, cmd := range l.dialect.commands(azDeg, elDeg) {
		if err := l.t.Send(ctx, cmd); err != nil {
			return Sent, err
		}
	}
	return Sent, nil
}

func (l *Link) Close() error {
	return l.t.Close()
}

package rotor

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakeTransport struct {
	sent []string
	err  error
}

func (f *fakeTransport) Send(ctx context.Context, cmd []byte) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, string(cmd))
	return nil
}

func (f *fakeTransport) SendAndReceive(ctx context.Context, cmd []byte, replySize int) ([]byte, error) {
	return nil, errors.New("not supported")
}

func (f *fakeTransport) Close() error { return nil }

func TestMove(t *testing.T) {
	for _, test := range []struct {
		name        string
		limits      Limits
		dialect     Dialect
		az, el      float64
		wantOutcome Outcome
		wantErr     bool
		wantSent    []string
	}{
		{
			name:     "plain move",
			az:       170, el: 45.5,
			wantSent: []string{"P 170.00 45.50\n"},
		},
		{
			name:     "negative elevation clamped",
			az:       200, el: -5,
			wantSent: []string{"P 200.00 0.00\n"},
		},
		{
			name:    "azimuth out of range",
			az:      400, el: 10,
			wantErr: true,
		},
		{
			name:    "negative azimuth",
			az:      -1, el: 10,
			wantErr: true,
		},
		{
			name:    "elevation out of range",
			az:      100, el: 400,
			wantErr: true,
		},
		{
			name:        "suppressed by elevation limit",
			limits:      Limits{ElevationDeg: 80, ElevationSet: true},
			az:          200, el: 85,
			wantOutcome: Suppressed,
		},
		{
			name:        "suppressed by azimuth gap",
			limits:      Limits{LeftDeg: 330, RightDeg: 30, AzimuthSet: true},
			az:          180, el: 10,
			wantOutcome: Suppressed,
		},
		{
			name:     "easycomm dialect",
			dialect:  Easycomm,
			az:       170, el: 45.5,
			wantSent: []string{"AZ170.0\n", "EL45.5\n"},
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			ft := &fakeTransport{}
			link := NewLink(ft, test.limits, test.dialect)
			outcome, err := link.Move(context.Background(), test.az, test.el)
			if gotErr := err != nil; gotErr != test.wantErr {
				t.Fatalf("Move(%v, %v) error = %v, want error %v", test.az, test.el, err, test.wantErr)
			}
			if err == nil && outcome != test.wantOutcome {
				t.Errorf("Move(%v, %v) outcome = %v, want %v", test.az, test.el, outcome, test.wantOutcome)
			}
			if diff := cmp.Diff(ft.sent, test.wantSent); diff != "" {
				t.Errorf("unexpected commands: got(-)/want(+):\n%s", diff)
			}
		})
	}
}

func TestMoveTransportError(t *testing.T) {
	sendErr := errors.New("boom")
	link := NewLink(&fakeTransport{err: sendErr}, Limits{}, Hamlib)
	if _, err := link.Move(context.Background(), 100, 10); !errors.Is(err, sendErr) {
		t.Errorf("Move error = %v, want %v", err, sendErr)
	}
}

func TestParseDialect(t *testing.T) {
	if d, err := ParseDialect("easycomm"); err != nil || d != Easycomm {
		t.Errorf("ParseDialect(easycomm) = %v, %v", d, err)
	}
	if d, err := ParseDialect(""); err != nil || d != Hamlib {
		t.Errorf("ParseDialect(\"\") = %v, %v", d, err)
	}
	if _, err := ParseDialect("yaesu"); err == nil {
		t.Error("ParseDialect(yaesu) should fail")
	}
}

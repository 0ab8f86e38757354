package track

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/w1xm/skytrack/internal/metrics"
	"github.com/w1xm/skytrack/pointing"
	"github.com/w1xm/skytrack/radio"
	"github.com/w1xm/skytrack/rotor"
)

const milesPerMeter = 0.00062137

// Sequencer keys station relays on signal acquisition and loss.
type Sequencer interface {
	SetReceiveEnabled(on bool) error
}

// Status is a snapshot of one loop iteration.
type Status struct {
	Time           time.Time `json:"time"`
	Target         string    `json:"target"`
	AzimuthDeg     float64   `json:"azimuth_deg"`
	ElevationDeg   float64   `json:"elevation_deg"`
	RangeM         float64   `json:"range_m,omitempty"`
	VelocityMS     float64   `json:"velocity_ms,omitempty"`
	FrequencyHz    float64   `json:"frequency_hz,omitempty"`
	DopplerHz      float64   `json:"doppler_hz,omitempty"`
	ShiftHz        float64   `json:"shift_hz,omitempty"`
	Event          string    `json:"event,omitempty"`
	MoveSuppressed bool      `json:"move_suppressed,omitempty"`
}

type StatusCallback func(status Status)

// Config carries the per-run loop settings.
type Config struct {
	// Target is the display name of what we're tracking.
	Target string
	// Interval is the delay between ticks.
	Interval time.Duration
	// DeltaT is the forward offset used for the velocity estimate.
	// Defaults to 10 seconds.
	DeltaT time.Duration
	// FreqHz enables Doppler correction when nonzero.
	FreqHz float64
	// SendAosLos enables AOS/LOS notifications to the radio.
	SendAosLos bool
	// AosElevation is the AOS/LOS boundary in degrees.
	AosElevation float64
	// FixedTime pins the sample time and forces a single iteration.
	FixedTime time.Time
	// Out receives the human-readable status report. Defaults to stdout.
	Out io.Writer
	// StatusCallback, if set, is invoked after every tick.
	StatusCallback StatusCallback
}

// Loop drives one tracking run. It owns the rotor and radio links and
// closes them when the run ends.
type Loop struct {
	cfg   Config
	src   pointing.Source
	rotor *rotor.Link
	radio *radio.Link
	seq   Sequencer
	det   *AosLosDetector
}

func NewLoop(cfg Config, src pointing.Source, rotorLink *rotor.Link, radioLink *radio.Link, seq Sequencer) *Loop {
	if cfg.DeltaT == 0 {
		cfg.DeltaT = 10 * time.Second
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	return &Loop{
		cfg:   cfg,
		src:   src,
		rotor: rotorLink,
		radio: radioLink,
		seq:   seq,
		det:   NewAosLosDetector(cfg.AosElevation),
	}
}

// Run executes the loop until ctx is canceled. With no hardware
// configured at all, or with a fixed timestamp, it runs exactly once.
// Hardware communication failures are logged and never end the run; only
// a position source failure is fatal.
func (l *Loop) Run(ctx context.Context) error {
	defer l.closeAll()
	single := (l.rotor == nil && l.radio == nil && l.seq == nil) || !l.cfg.FixedTime.IsZero()
	for {
		if err := l.tick(ctx); err != nil {
			return err
		}
		if single {
			return nil
		}
		fmt.Fprintf(l.cfg.Out, "Sleeping %v...\n", l.cfg.Interval)
		select {
		case <-ctx.Done():
			log.Print("interrupted; closing controller connections")
			return nil
		case <-time.After(l.cfg.Interval):
		}
	}
}

func (l *Loop) tick(ctx context.Context) error {
	metrics.Ticks.Inc()
	sampleTime := time.Now()
	if !l.cfg.FixedTime.IsZero() {
		sampleTime = l.cfg.FixedTime
	}
	cur, err := l.src.Observe(sampleTime)
	if err != nil {
		return fmt.Errorf("observing %s: %w", l.cfg.Target, err)
	}
	future, err := l.src.Observe(sampleTime.Add(l.cfg.DeltaT))
	if err != nil {
		return fmt.Errorf("observing %s: %w", l.cfg.Target, err)
	}
	velocity := RadialVelocity(cur.RangeM, future.RangeM, l.cfg.DeltaT)

	status := Status{
		Time:         sampleTime,
		Target:       l.cfg.Target,
		AzimuthDeg:   cur.AzimuthDeg,
		ElevationDeg: cur.ElevationDeg,
		RangeM:       cur.RangeM,
		VelocityMS:   velocity,
	}

	var corrected float64
	if l.cfg.FreqHz > 0 {
		var shift float64
		corrected, shift = DopplerShift(l.cfg.FreqHz, velocity)
		status.FrequencyHz = l.cfg.FreqHz
		status.DopplerHz = corrected
		status.ShiftHz = shift
	}

	if l.cfg.SendAosLos {
		switch ev := l.det.Observe(cur.ElevationDeg); ev {
		case EventAOS:
			metrics.AosEvents.Inc()
			log.Printf("AOS: %s rose above %.1f degrees", l.cfg.Target, l.cfg.AosElevation)
			status.Event = ev.String()
			l.notify(ctx, radio.AOS, true)
		case EventLOS:
			metrics.LosEvents.Inc()
			log.Printf("LOS: %s dropped below %.1f degrees", l.cfg.Target, l.cfg.AosElevation)
			status.Event = ev.String()
			l.notify(ctx, radio.LOS, false)
		}
	}

	if l.rotor != nil {
		outcome, err := l.rotor.Move(ctx, cur.AzimuthDeg, cur.ElevationDeg)
		switch {
		case err != nil:
			metrics.RotorErrors.Inc()
			log.Printf("ERROR: rotor: %v", err)
		case outcome == rotor.Suppressed:
			metrics.RotorSuppressed.Inc()
			status.MoveSuppressed = true
			log.Print("[Info] Rotor would violate user-configured limits.  No move sent.")
		default:
			metrics.RotorMoves.Inc()
		}
	}

	if l.radio != nil && l.cfg.FreqHz > 0 {
		metrics.RadioCommands.Inc()
		if err := l.radio.SetFrequency(ctx, corrected); err != nil {
			metrics.RadioErrors.Inc()
			log.Printf("ERROR: setting frequency: %v", err)
		}
	}

	l.report(status)
	if cb := l.cfg.StatusCallback; cb != nil {
		cb(status)
	}
	return nil
}

// notify forwards an AOS/LOS crossing to the radio and the sequencer.
// Failures are logged; the crossing is not retried.
func (l *Loop) notify(ctx context.Context, event radio.SignalEvent, rxOn bool) {
	if l.radio != nil {
		if err := l.radio.Notify(ctx, event); err != nil {
			log.Printf("ERROR: notifying radio of %s: %v", event, err)
		}
	}
	if l.seq != nil {
		if err := l.seq.SetReceiveEnabled(rxOn); err != nil {
			log.Printf("ERROR: sequencer: %v", err)
		}
	}
}

func (l *Loop) report(status Status) {
	w := l.cfg.Out
	fmt.Fprintf(w, "\nCurrent Time: %s  (%s UTC)\n",
		status.Time.Local().Format("01/02/2006 15:04:05"),
		status.Time.UTC().Format("01/02/2006 15:04:05"))
	fmt.Fprintf(w, "Target: %s\n", status.Target)
	fmt.Fprintf(w, "Azimuth:\t%.2f degrees\n", status.AzimuthDeg)
	fmt.Fprintf(w, "Elevation:\t%.2f degrees\n", status.ElevationDeg)
	if status.RangeM > 0 {
		fmt.Fprintf(w, "Distance:\t%.2f miles / %.2f km\n",
			status.RangeM*milesPerMeter, status.RangeM/1000)
		fmt.Fprintf(w, "Relative Velocity:\t%.2f m/s [- is towards, + is away]\n", status.VelocityMS)
	}
	if status.FrequencyHz > 0 {
		fmt.Fprintf(w, "Frequency: %.2f Hz\n", status.FrequencyHz)
		fmt.Fprintf(w, "Doppler Shift: %.2f Hz\n", status.ShiftHz)
		fmt.Fprintf(w, "Doppler Frequency: %.2f Hz\n", status.DopplerHz)
	}
	if il, ok := l.src.(pointing.Illuminator); ok {
		if frac, err := il.FractionIlluminated(status.Time); err == nil {
			fmt.Fprintf(w, "Percent illumination: %.1f%%\n", frac*100)
		}
	}
	if rs, ok := l.src.(pointing.RiseSetter); ok {
		rise, set, err := rs.NextRiseSet(status.Time)
		if err == nil {
			fmt.Fprintf(w, "Target Rise in the next 24 hours: %s\n", formatEvent(rise))
			fmt.Fprintf(w, "Target Set in the next 24 hours: %s\n", formatEvent(set))
		}
	}
}

func formatEvent(t *time.Time) string {
	if t == nil {
		return "None"
	}
	return t.Local().Format("01/02/2006 15:04:05 MST")
}

func (l *Loop) closeAll() {
	if l.rotor != nil {
		l.rotor.Close()
	}
	if l.radio != nil {
		l.radio.Close()
	}
	if c, ok := l.seq.(io.Closer); ok {
		c.Close()
	}
}

package track

// Event is an elevation threshold crossing.
type Event int

const (
	EventNone Event = iota
	EventAOS
	EventLOS
)

func (e Event) String() string {
	switch e {
	case EventAOS:
		return "AOS"
	case EventLOS:
		return "LOS"
	}
	return "none"
}

// unknownElevation seeds the detector so the first observation can never
// register as a loss of signal.
const unknownElevation = -999.0

// AosLosDetector is an edge detector over the target's elevation: it emits
// one event per crossing of the threshold, in either direction.
type AosLosDetector struct {
	thresholdDeg  float64
	lastElevation float64
}

func NewAosLosDetector(thresholdDeg float64) *AosLosDetector {
	return &AosLosDetector{
		thresholdDeg:  thresholdDeg,
		lastElevation: unknownElevation,
	}
}

// Observe feeds one elevation sample and reports whether it crossed the
// threshold. State updates every call regardless of the outcome.
func (d *AosLosDetector) Observe(elevationDeg float64) Event {
	prev := d.lastElevation
	d.lastElevation = elevationDeg
	switch {
	case elevationDeg >= d.thresholdDeg && prev < d.thresholdDeg:
		return EventAOS
	case elevationDeg < d.thresholdDeg && prev >= d.thresholdDeg:
		return EventLOS
	}
	return EventNone
}

// Package pointing computes where to aim: each source yields the azimuth,
// elevation, and range of a celestial target as seen from a ground observer
// at a given instant.
package pointing

import (
	"math"
	"time"
)

// Sample is one pointing solution for a target.
type Sample struct {
	Time         time.Time
	AzimuthDeg   float64 // [0, 360)
	ElevationDeg float64 // [-90, 90]
	// RangeM is the distance to the target in meters. Zero means the
	// source cannot measure range (fixed RA/Dec targets).
	RangeM float64
}

// Source produces pointing samples on demand.
type Source interface {
	Observe(t time.Time) (Sample, error)
}

// RiseSetter is implemented by sources that can search for the next rise
// and set of their target.
type RiseSetter interface {
	// NextRiseSet returns the next rise and set within 24 hours of t.
	// A nil time means the event does not occur in that window.
	NextRiseSet(t time.Time) (rise, set *time.Time, err error)
}

// Illuminator is implemented by sources that can report how much of
// their target's disk is sunlit.
type Illuminator interface {
	// FractionIlluminated returns the sunlit fraction in [0, 1].
	FractionIlluminated(t time.Time) (float64, error)
}

func deg2rad(x float64) float64 {
	return x * math.Pi / 180
}

func rad2deg(x float64) float64 {
	return x * 180 / math.Pi
}

// normalizeAz folds an angle into [0, 360).
func normalizeAz(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// enuVector converts a topocentric direction and distance into an
// east/north/up position vector in meters.
func enuVector(azDeg, altDeg, distM float64) [3]float64 {
	az, alt := deg2rad(azDeg), deg2rad(altDeg)
	return [3]float64{
		distM * math.Cos(alt) * math.Sin(az),
		distM * math.Cos(alt) * math.Cos(az),
		distM * math.Sin(alt),
	}
}

// illuminatedFraction computes the sunlit fraction of the target's disk
// from the observer→sun and observer→target position vectors:
// k = (1 + cos i) / 2, with i the phase angle at the target between the
// directions to the sun and to the observer.
func illuminatedFraction(sun, target [3]float64) float64 {
	var toObserver, toSun [3]float64
	for i := range target {
		toObserver[i] = -target[i]
		toSun[i] = sun[i] - target[i]
	}
	norm := vecLen(toObserver) * vecLen(toSun)
	if norm == 0 {
		return 1
	}
	dot := toObserver[0]*toSun[0] + toObserver[1]*toSun[1] + toObserver[2]*toSun[2]
	return (1 + dot/norm) / 2
}

func vecLen(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

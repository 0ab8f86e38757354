package pointing

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pebbe/novas"
)

const metersPerAU = 1.495978707e11

// Standard atmosphere handed to NOVAS. We compute unrefracted positions,
// so these only matter if refraction is ever turned on.
const (
	defaultTemperature = 15.0   // Celsius
	defaultPressure    = 1010.0 // millibars
)

// apparentHorizon is the altitude of the upper limb at rise/set,
// accounting for average refraction.
const apparentHorizon = -0.8333

var bodies = map[string]func() *novas.Body{
	"sun":     novas.Sun,
	"moon":    novas.Moon,
	"mercury": novas.Mercury,
	"venus":   novas.Venus,
	"mars":    novas.Mars,
	"jupiter": novas.Jupiter,
	"saturn":  novas.Saturn,
	"uranus":  novas.Uranus,
	"neptune": novas.Neptune,
	"pluto":   novas.Pluto,
}

// Bodies lists the supported solar-system bodies, sorted.
func Bodies() []string {
	var names []string
	for name := range bodies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NovasSource computes topocentric positions of solar-system bodies with
// the NOVAS library.
type NovasSource struct {
	name  string
	body  *novas.Body
	place *novas.Place
}

func NewNovasSource(body string, latDeg, longDeg, heightM float64) (*NovasSource, error) {
	name := strings.ToLower(strings.TrimSpace(body))
	ctor, ok := bodies[name]
	if !ok {
		return nil, fmt.Errorf("unknown body %q (use -listbodies)", body)
	}
	return &NovasSource{
		name:  name,
		body:  ctor(),
		place: novas.NewPlace(latDeg, longDeg, heightM, defaultTemperature, defaultPressure),
	}, nil
}

func (s *NovasSource) Observe(t time.Time) (Sample, error) {
	data := s.body.Topo(novas.Time{Time: t.UTC()}, s.place, novas.REFR_NONE)
	return Sample{
		Time:         t,
		AzimuthDeg:   normalizeAz(data.Az),
		ElevationDeg: data.Alt,
		RangeM:       data.Dis * metersPerAU,
	}, nil
}

// FractionIlluminated reports the sunlit fraction of the body's disk,
// from the phase angle between the sun and the observer as seen from
// the body.
func (s *NovasSource) FractionIlluminated(t time.Time) (float64, error) {
	if s.name == "sun" {
		return 1, nil
	}
	nt := novas.Time{Time: t.UTC()}
	sun := novas.Sun().Topo(nt, s.place, novas.REFR_NONE)
	body := s.body.Topo(nt, s.place, novas.REFR_NONE)
	return illuminatedFraction(
		enuVector(sun.Az, sun.Alt, sun.Dis*metersPerAU),
		enuVector(body.Az, body.Alt, body.Dis*metersPerAU),
	), nil
}

// NextRiseSet searches the next 24 hours for the body's rise and set.
func (s *NovasSource) NextRiseSet(t time.Time) (*time.Time, *time.Time, error) {
	nt := novas.Time{Time: t.UTC()}
	var rise, set *time.Time
	if r, _, err := s.body.Rise(nt, s.place, apparentHorizon, time.Second, novas.REFR_NONE); err == nil {
		rt := r.Time
		rise = &rt
	}
	if st, _, err := s.body.Set(nt, s.place, apparentHorizon, time.Second, novas.REFR_NONE); err == nil {
		t := st.Time
		set = &t
	}
	return rise, set, nil
}

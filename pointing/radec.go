package pointing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
)

// RADecSource converts a fixed ICRS right ascension / declination into
// azimuth and elevation for the observer. Deep-sky targets have no useful
// range, so RangeM stays zero and no Doppler correction is applied.
type RADecSource struct {
	raDeg, decDeg   float64
	latDeg, longDeg float64
	// azCorrectDeg is added to the computed azimuth, e.g. to account for
	// magnetic vs. true north on a compass-aligned rotor.
	azCorrectDeg float64
}

func NewRADecSource(ra, dec string, latDeg, longDeg, azCorrectDeg float64) (*RADecSource, error) {
	raDeg, err := ParseRA(ra)
	if err != nil {
		return nil, err
	}
	decDeg, err := ParseDec(dec)
	if err != nil {
		return nil, err
	}
	return &RADecSource{
		raDeg:        raDeg,
		decDeg:       decDeg,
		latDeg:       latDeg,
		longDeg:      longDeg,
		azCorrectDeg: azCorrectDeg,
	}, nil
}

func (s *RADecSource) Observe(t time.Time) (Sample, error) {
	t = t.UTC()
	year, month, day := t.Date()
	hour, min, sec := t.Clock()
	gmst := satellite.ThetaG_JD(satellite.JDay(year, int(month), day, hour, min, sec))
	lst := gmst + deg2rad(s.longDeg)
	ha := lst - deg2rad(s.raDeg)
	az, alt := equhorDeg(rad2deg(ha), s.decDeg, s.latDeg)
	return Sample{
		Time:         t,
		AzimuthDeg:   normalizeAz(az + s.azCorrectDeg),
		ElevationDeg: alt,
	}, nil
}

// equhor converts hour-angle/declination to azimuth/altitude.
// Phi is the observer's latitude. Arguments are in radians.
// Algorithm from https://metacpan.org/dist/Astro-Montenbruck/source/lib/Astro/Montenbruck/CoCo.pm
func equhorRad(x, y, phi float64) (float64, float64) {
	sx, sy, sphi := math.Sin(x), math.Sin(y), math.Sin(phi)
	cx, cy, cphi := math.Cos(x), math.Cos(y), math.Cos(phi)

	sq := (sy * sphi) + (cy * cphi * cx)
	q := math.Asin(sq)

	cp := (sy - (sphi * sq)) / (cphi * math.Cos(q))
	p := math.Acos(cp)
	if sx > 0 {
		p = 2*math.Pi - p
	}
	return p, q
}

func equhorDeg(x, y, phi float64) (float64, float64) {
	p, q := equhorRad(deg2rad(x), deg2rad(y), deg2rad(phi))
	return rad2deg(p), rad2deg(q)
}

// ParseRA accepts decimal degrees ("83.633") or hour notation ("5h34m31.94s")
// and returns degrees.
func ParseRA(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if deg, err := strconv.ParseFloat(s, 64); err == nil {
		return deg, nil
	}
	hours, err := parseSexagesimal(s, 'h', 'm', 's')
	if err != nil {
		return 0, fmt.Errorf("bad right ascension %q: %v", s, err)
	}
	return hours * 15, nil
}

// ParseDec accepts decimal degrees ("22.014") or degree notation
// ("22d0m52.2s") and returns degrees.
func ParseDec(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if deg, err := strconv.ParseFloat(s, 64); err == nil {
		return deg, nil
	}
	deg, err := parseSexagesimal(s, 'd', 'm', 's')
	if err != nil {
		return 0, fmt.Errorf("bad declination %q: %v", s, err)
	}
	return deg, nil
}

func parseSexagesimal(s string, unit1, unit2, unit3 byte) (float64, error) {
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	var parts [3]float64
	rest := s
	for i, unit := range []byte{unit1, unit2, unit3} {
		if rest == "" {
			break
		}
		idx := strings.IndexByte(rest, unit)
		if idx < 0 {
			return 0, fmt.Errorf("missing %q separator", string(unit))
		}
		v, err := strconv.ParseFloat(rest[:idx], 64)
		if err != nil {
			return 0, err
		}
		parts[i] = v
		rest = rest[idx+1:]
	}
	if rest != "" {
		return 0, fmt.Errorf("trailing garbage %q", rest)
	}
	v := parts[0] + parts[1]/60 + parts[2]/3600
	if neg {
		v = -v
	}
	return v, nil
}

package pointing

import (
	"fmt"
	"os"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
)

// TLESource propagates a two-line element set with SGP4 and converts the
// result to look angles from the observer.
type TLESource struct {
	name  string
	sat   satellite.Satellite
	obs   satellite.LatLong
	altKm float64
}

func NewTLESource(name, line1, line2 string, latDeg, longDeg, heightM float64) *TLESource {
	return &TLESource{
		name: name,
		sat:  satellite.TLEToSat(line1, line2, satellite.GravityWGS72),
		obs: satellite.LatLong{
			Latitude:  deg2rad(latDeg),
			Longitude: deg2rad(longDeg),
		},
		altKm: heightM / 1000,
	}
}

func (s *TLESource) Observe(t time.Time) (Sample, error) {
	t = t.UTC()
	year, month, day := t.Date()
	hour, min, sec := t.Clock()
	pos, _ := satellite.Propagate(s.sat, year, int(month), day, hour, min, sec)
	jday := satellite.JDay(year, int(month), day, hour, min, sec)
	angles := satellite.ECIToLookAngles(pos, s.obs, s.altKm, jday)
	return Sample{
		Time:         t,
		AzimuthDeg:   normalizeAz(rad2deg(angles.Az)),
		ElevationDeg: rad2deg(angles.El),
		RangeM:       angles.Rg * 1000,
	}, nil
}

// LoadTLE reads a NORAD element file containing two- or three-line element
// sets. With an empty name the first set in the file is returned; otherwise
// the set whose title line matches name (case-insensitive prefix) is used.
func LoadTLE(path, name string) (title, line1, line2 string, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", "", "", err
	}
	var lines []string
	for _, l := range strings.Split(string(raw), "\n") {
		if l = strings.TrimRight(l, "\r "); l != "" {
			lines = append(lines, l)
		}
	}
	want := strings.ToUpper(strings.TrimSpace(name))
	for i := 0; i < len(lines); i++ {
		if !strings.HasPrefix(lines[i], "1 ") {
			continue
		}
		if i+1 >= len(lines) || !strings.HasPrefix(lines[i+1], "2 ") {
			continue
		}
		title := ""
		if i > 0 && !strings.HasPrefix(lines[i-1], "2 ") {
			title = strings.TrimSpace(lines[i-1])
		}
		if want == "" || strings.HasPrefix(strings.ToUpper(title), want) {
			return title, lines[i], lines[i+1], nil
		}
	}
	if want != "" {
		return "", "", "", fmt.Errorf("no element set named %q in %s", name, path)
	}
	return "", "", "", fmt.Errorf("no element sets in %s", path)
}

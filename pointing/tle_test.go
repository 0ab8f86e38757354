package pointing

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// An ISS element set from 2023; exact values don't matter, only that it
// propagates to plausible look angles.
const (
	issTitle = "ISS (ZARYA)"
	issLine1 = "1 25544U 98067A   23176.52064566  .00010201  00000+0  18562-3 0  9995"
	issLine2 = "2 25544  51.6415 215.9425 0005257  44.3296  73.0006 15.50204391402625"
)

func TestTLESourceObserve(t *testing.T) {
	src := NewTLESource(issTitle, issLine1, issLine2, 40.0, -75.0, 100)
	sample, err := src.Observe(time.Date(2023, 6, 25, 15, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if sample.AzimuthDeg < 0 || sample.AzimuthDeg >= 360 {
		t.Errorf("azimuth %v out of [0,360)", sample.AzimuthDeg)
	}
	if sample.ElevationDeg < -90 || sample.ElevationDeg > 90 {
		t.Errorf("elevation %v out of [-90,90]", sample.ElevationDeg)
	}
	// Slant range to low orbit is somewhere between overhead (~400 km)
	// and the far side of the planet.
	if sample.RangeM < 300e3 || sample.RangeM > 15000e3 {
		t.Errorf("range %v m not plausible for LEO", sample.RangeM)
	}
}

func TestTLESourceRangeChanges(t *testing.T) {
	src := NewTLESource(issTitle, issLine1, issLine2, 40.0, -75.0, 100)
	base := time.Date(2023, 6, 25, 15, 0, 0, 0, time.UTC)
	a, _ := src.Observe(base)
	b, _ := src.Observe(base.Add(10 * time.Second))
	if a.RangeM == b.RangeM {
		t.Error("range should change over 10 seconds of LEO motion")
	}
}

func TestLoadTLE(t *testing.T) {
	path := filepath.Join(t.TempDir(), "elements.txt")
	content := issTitle + "\n" + issLine1 + "\n" + issLine2 + "\n" +
		"NOAA 19\n" +
		"1 33591U 09005A   23176.51817642  .00000237  00000+0  15488-3 0  9991\n" +
		"2 33591  99.1163 210.5533 0014249  50.8713 309.3721 14.12671667740453\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	title, l1, l2, err := LoadTLE(path, "")
	if err != nil {
		t.Fatal(err)
	}
	if title != issTitle || l1 != issLine1 || l2 != issLine2 {
		t.Errorf("LoadTLE default = %q, want first set", title)
	}

	title, _, _, err = LoadTLE(path, "noaa")
	if err != nil {
		t.Fatal(err)
	}
	if title != "NOAA 19" {
		t.Errorf("LoadTLE(noaa) = %q, want NOAA 19", title)
	}

	if _, _, _, err := LoadTLE(path, "hubble"); err == nil {
		t.Error("LoadTLE(hubble) should fail")
	}
}

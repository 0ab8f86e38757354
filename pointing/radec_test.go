package pointing

import (
	"math"
	"testing"
	"time"
)

func TestParseRA(t *testing.T) {
	for _, test := range []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"83.633", 83.633, false},
		{"5h34m31.94s", 83.6330833, false},
		{"12h", 180, false},
		{"6h30m", 97.5, false},
		{"bogus", 0, true},
		{"5x34m", 0, true},
	} {
		got, err := ParseRA(test.input)
		if gotErr := err != nil; gotErr != test.wantErr {
			t.Errorf("ParseRA(%q) error = %v, want error %v", test.input, err, test.wantErr)
			continue
		}
		if err == nil && math.Abs(got-test.want) > 1e-4 {
			t.Errorf("ParseRA(%q) = %v, want %v", test.input, got, test.want)
		}
	}
}

func TestParseDec(t *testing.T) {
	for _, test := range []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"22.0145", 22.0145, false},
		{"22d0m52.2s", 22.0145, false},
		{"-5d30m", -5.5, false},
		{"+45d", 45, false},
		{"bogus", 0, true},
	} {
		got, err := ParseDec(test.input)
		if gotErr := err != nil; gotErr != test.wantErr {
			t.Errorf("ParseDec(%q) error = %v, want error %v", test.input, err, test.wantErr)
			continue
		}
		if err == nil && math.Abs(got-test.want) > 1e-4 {
			t.Errorf("ParseDec(%q) = %v, want %v", test.input, got, test.want)
		}
	}
}

func TestEquhor(t *testing.T) {
	for _, test := range []struct {
		name            string
		ha, dec, lat    float64
		wantAz, wantAlt float64
	}{
		// Target on the meridian at the equator's declination, seen
		// from 40N: due south, altitude 50.
		{"meridian", 0, 0, 40, 180, 50},
		// Same target at lower culmination: due north, below horizon.
		{"anti-meridian", 180, 0, 40, 0, -50},
	} {
		t.Run(test.name, func(t *testing.T) {
			az, alt := equhorDeg(test.ha, test.dec, test.lat)
			if diff := math.Mod(az-test.wantAz+360, 360); math.Min(diff, 360-diff) > 1e-6 {
				t.Errorf("az = %v, want %v", az, test.wantAz)
			}
			if math.Abs(alt-test.wantAlt) > 1e-6 {
				t.Errorf("alt = %v, want %v", alt, test.wantAlt)
			}
		})
	}
}

func TestRADecSourceObserve(t *testing.T) {
	src, err := NewRADecSource("83.633", "22.0145", 40.0, -75.0, 0)
	if err != nil {
		t.Fatal(err)
	}
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
	if sample.RangeM != 0 {
		t.Errorf("deep-sky target should have no range, got %v", sample.RangeM)
	}
}

func TestAzimuthCorrection(t *testing.T) {
	when := time.Date(2023, 6, 25, 15, 0, 0, 0, time.UTC)
	plain, err := NewRADecSource("83.633", "22.0145", 40.0, -75.0, 0)
	if err != nil {
		t.Fatal(err)
	}
	corrected, err := NewRADecSource("83.633", "22.0145", 40.0, -75.0, 10)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := plain.Observe(when)
	b, _ := corrected.Observe(when)
	diff := math.Mod(b.AzimuthDeg-a.AzimuthDeg+360, 360)
	if math.Abs(diff-10) > 1e-9 {
		t.Errorf("azimuth correction = %v, want 10", diff)
	}
}

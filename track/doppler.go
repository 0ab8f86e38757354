// Package track implements the tracking control loop: Doppler correction,
// AOS/LOS detection, and the per-tick orchestration of rotor and radio.
package track

import "time"

// SpeedOfLight in meters per second.
const SpeedOfLight = 3e8

// DopplerShift corrects a frequency for the target's radial velocity:
// f' = f - f*(v/c). Velocity is negative when the target approaches, so
// an approaching target raises the received frequency.
func DopplerShift(freqHz, radialVelocity float64) (corrected, shift float64) {
	corrected = freqHz - freqHz*(radialVelocity/SpeedOfLight)
	return corrected, corrected - freqHz
}

// RadialVelocity estimates the line-of-sight closing rate in m/s from two
// range samples dt apart. A zero range means the source cannot measure
// distance, in which case the velocity is reported as zero.
func RadialVelocity(rangeNowM, rangeFutureM float64, dt time.Duration) float64 {
	if rangeNowM == 0 || rangeFutureM == 0 {
		return 0
	}
	return (rangeFutureM - rangeNowM) / dt.Seconds()
}

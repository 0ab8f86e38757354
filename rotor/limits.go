package rotor

import "errors"

// unsetLimit is the flag-boundary sentinel; it never leaks past ParseLimits.
const unsetLimit = -1

// Limits holds the operator-configured travel limits, e.g. where a
// building blocks rotation or view. The zero value permits everything.
type Limits struct {
	LeftDeg, RightDeg float64
	AzimuthSet        bool

	ElevationDeg float64
	ElevationSet bool
}

var (
	errHalfLimits = errors.New("if one limit is provided, both left/right must be set")
	errBadLimit   = errors.New("bad limit value: limits must be within 0-360 degrees")
)

// ParseLimits validates raw flag values (-1 meaning unset) and converts
// them into an explicit Limits value. Left and right are all-or-nothing;
// the elevation limit is independent.
func ParseLimits(left, right, elevation float64) (Limits, error) {
	var l Limits
	if (left == unsetLimit) != (right == unsetLimit) {
		return l, errHalfLimits
	}
	if left != unsetLimit {
		if left < 0 || left > 360 || right < 0 || right > 360 {
			return l, errBadLimit
		}
		l.LeftDeg, l.RightDeg = left, right
		l.AzimuthSet = true
	}
	if elevation != unsetLimit {
		if elevation < 0 || elevation > 360 {
			return l, errBadLimit
		}
		l.ElevationDeg = elevation
		l.ElevationSet = true
	}
	return l, nil
}

// Reversed reports whether the allowed sector spans 0 degrees, expressed
// with the left limit numerically greater than the right limit (e.g. left
// 330, right 30).
func (l Limits) Reversed() bool {
	return l.AzimuthSet && l.LeftDeg > l.RightDeg
}

// Permits decides whether a move to the given position stays within the
// configured limits.
func (l Limits) Permits(azimuthDeg, elevationDeg float64) bool {
	if l.ElevationSet && elevationDeg > l.ElevationDeg {
		return false
	}
	if !l.AzimuthSet {
		return true
	}
	if l.Reversed() {
		// Forbidden only in the gap strictly between right and left.
		return !(azimuthDeg < l.LeftDeg && azimuthDeg > l.RightDeg)
	}
	return azimuthDeg >= l.LeftDeg && azimuthDeg <= l.RightDeg
}
